// Package api binds the library store to its GraphQL schema.
package api

import (
	_ "embed"

	"github.com/getmockd/libraryql/pkg/graphql"
)

//go:embed schema.graphql
var schemaSDL string

// SDL returns the schema definition served by the API.
func SDL() string {
	return schemaSDL
}

// Schema parses the embedded schema.
func Schema() *graphql.Schema {
	return graphql.MustParseSchema(schemaSDL)
}
