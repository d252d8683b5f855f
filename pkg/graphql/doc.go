// Package graphql serves a GraphQL schema over HTTP by executing queries and
// mutations against Go resolver functions.
//
// Schemas are written in SDL and parsed with gqlparser. Every root field is
// bound to a ResolverFunc; fields of object types fall back to reading the
// parent value, so a struct tagged `graphql:"authorId"` needs no resolver for
// its scalar fields. Executor.Validate checks these bindings at startup.
//
// Execution follows the GraphQL rules for field collection, fragments,
// @skip/@include, serial mutation execution and null propagation. Response
// objects keep the field order of the query.
//
// Basic usage:
//
//	schema, err := graphql.ParseSchema(`
//	    type Query { book(id: Int): Book }
//	    type Book { id: Int!, name: String! }
//	`)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	handler, err := graphql.Endpoint(schema, &graphql.GraphQLConfig{
//	    Path:          "/graphql",
//	    Introspection: true,
//	    Resolvers: graphql.Resolvers{
//	        "Query.book": func(ctx context.Context, p graphql.ResolveParams) (interface{}, error) {
//	            id, _ := p.Int("id")
//	            return books.Lookup(id), nil
//	        },
//	    },
//	    Models: map[string]any{"Book": Book{}},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	http.Handle(handler.Pattern(), handler)
//
// Subscriptions are not supported.
package graphql
