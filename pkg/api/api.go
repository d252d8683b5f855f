package api

import (
	"github.com/getmockd/libraryql/pkg/graphql"
	"github.com/getmockd/libraryql/pkg/library"
)

// Options configures the GraphQL endpoint.
type Options struct {
	Path          string
	Introspection bool
	GraphiQL      bool
	MaxBodySize   int64
}

// DefaultOptions returns the endpoint defaults: /graphql with introspection
// and GraphiQL enabled.
func DefaultOptions() Options {
	return Options{
		Path:          "/graphql",
		Introspection: true,
		GraphiQL:      true,
	}
}

// Config returns the GraphQL configuration serving store.
func Config(store *library.Store, opts Options) *graphql.GraphQLConfig {
	return &graphql.GraphQLConfig{
		Path:          opts.Path,
		Introspection: opts.Introspection,
		GraphiQL:      opts.GraphiQL,
		MaxBodySize:   opts.MaxBodySize,
		Resolvers:     NewResolvers(store).Map(),
		Models:        Models(),
	}
}

// NewHandler builds the GraphQL HTTP handler for store. It fails when the
// resolvers do not match the schema.
func NewHandler(store *library.Store, opts Options) (*graphql.Handler, error) {
	return graphql.Endpoint(Schema(), Config(store, opts))
}

// NewExecutor builds an executor for store without the HTTP layer.
func NewExecutor(store *library.Store, opts Options) (*graphql.Executor, error) {
	e := graphql.NewExecutor(Schema(), Config(store, opts))
	if err := e.Validate(); err != nil {
		return nil, err
	}
	return e, nil
}
