package graphql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const executorTestSchema = `
type Query {
	item(id: Int): Item
	items(limit: Int = 10, kind: Kind): [Item]
	node(id: Int!): Node
	search(text: String!): [SearchResult!]!
	broken: Broken
}

type Mutation {
	addItem(id: Int!, name: String!, kind: Kind = OTHER): Item
	removeItem(id: Int!): Item
}

interface Node {
	id: Int!
}

type Item implements Node {
	id: Int!
	name: String!
	kind: Kind
	tags: [String!]
	owner: Owner
}

type Owner implements Node {
	id: Int!
	name: String!
	items: [Item]
}

type Broken {
	label: String!
	explode: String
}

enum Kind {
	BOOK
	TOOL
	OTHER
}

union SearchResult = Item | Owner
`

type testItem struct {
	ID      int      `graphql:"id"`
	Name    string   `graphql:"name"`
	Kind    string   `graphql:"kind"`
	Tags    []string `graphql:"tags"`
	OwnerID int      `graphql:"-"`
}

type testOwner struct {
	ID   int    `graphql:"id"`
	Name string `graphql:"name"`
}

type missingError struct{ id int }

func (e missingError) Error() string { return fmt.Sprintf("item %d: record not found", e.id) }
func (e missingError) Code() string  { return "NOT_FOUND" }

type testShelf struct {
	mu     sync.Mutex
	items  []testItem
	owners []testOwner
}

func newTestShelf() *testShelf {
	return &testShelf{
		items: []testItem{
			{ID: 1, Name: "hammer", Kind: "TOOL", Tags: []string{"steel"}, OwnerID: 10},
			{ID: 2, Name: "Dune", Kind: "BOOK", OwnerID: 10},
			{ID: 3, Name: "Emma", Kind: "BOOK", OwnerID: 11},
		},
		owners: []testOwner{
			{ID: 10, Name: "Ada"},
			{ID: 11, Name: "Grace"},
		},
	}
}

func (s *testShelf) item(id int) *testItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, it := range s.items {
		if it.ID == id {
			return &it
		}
	}
	return nil
}

func (s *testShelf) owner(id int) *testOwner {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range s.owners {
		if o.ID == id {
			return &o
		}
	}
	return nil
}

func (s *testShelf) resolvers() Resolvers {
	return Resolvers{
		"Query.item": func(_ context.Context, p ResolveParams) (interface{}, error) {
			id, ok := p.Int("id")
			if !ok {
				return nil, nil
			}
			return s.item(id), nil
		},
		"Query.items": func(_ context.Context, p ResolveParams) (interface{}, error) {
			limit, _ := p.Int("limit")
			kind, filter := p.String("kind")
			s.mu.Lock()
			defer s.mu.Unlock()
			out := []testItem{}
			for _, it := range s.items {
				if len(out) == limit {
					break
				}
				if !filter || it.Kind == kind {
					out = append(out, it)
				}
			}
			return out, nil
		},
		"Query.node": func(_ context.Context, p ResolveParams) (interface{}, error) {
			id, _ := p.Int("id")
			if it := s.item(id); it != nil {
				return *it, nil
			}
			if o := s.owner(id); o != nil {
				return *o, nil
			}
			return nil, nil
		},
		"Query.search": func(_ context.Context, p ResolveParams) (interface{}, error) {
			text, _ := p.String("text")
			s.mu.Lock()
			defer s.mu.Unlock()
			var out []interface{}
			for _, it := range s.items {
				if strings.Contains(it.Name, text) {
					out = append(out, it)
				}
			}
			for _, o := range s.owners {
				if strings.Contains(o.Name, text) {
					out = append(out, o)
				}
			}
			return out, nil
		},
		"Query.broken": func(context.Context, ResolveParams) (interface{}, error) {
			return map[string]interface{}{"label": nil}, nil
		},
		"Broken.explode": func(context.Context, ResolveParams) (interface{}, error) {
			panic("boom")
		},
		"Item.owner": func(_ context.Context, p ResolveParams) (interface{}, error) {
			return s.owner(asItem(p.Source).OwnerID), nil
		},
		"Owner.items": func(_ context.Context, p ResolveParams) (interface{}, error) {
			owner := asOwner(p.Source)
			s.mu.Lock()
			defer s.mu.Unlock()
			out := []testItem{}
			for _, it := range s.items {
				if it.OwnerID == owner.ID {
					out = append(out, it)
				}
			}
			return out, nil
		},
		"Mutation.addItem": func(_ context.Context, p ResolveParams) (interface{}, error) {
			id, _ := p.Int("id")
			name, _ := p.String("name")
			kind, _ := p.String("kind")
			it := testItem{ID: id, Name: name, Kind: kind}
			s.mu.Lock()
			s.items = append(s.items, it)
			s.mu.Unlock()
			return it, nil
		},
		"Mutation.removeItem": func(_ context.Context, p ResolveParams) (interface{}, error) {
			id, _ := p.Int("id")
			s.mu.Lock()
			defer s.mu.Unlock()
			for i, it := range s.items {
				if it.ID == id {
					s.items = append(s.items[:i], s.items[i+1:]...)
					return it, nil
				}
			}
			return nil, missingError{id: id}
		},
	}
}

func asItem(src interface{}) testItem {
	if it, ok := src.(*testItem); ok {
		return *it
	}
	return src.(testItem)
}

func asOwner(src interface{}) testOwner {
	if o, ok := src.(*testOwner); ok {
		return *o
	}
	return src.(testOwner)
}

func newTestExecutor(t *testing.T) (*Executor, *testShelf) {
	t.Helper()

	shelf := newTestShelf()
	e := NewExecutor(MustParseSchema(executorTestSchema), &GraphQLConfig{
		Introspection: true,
		Resolvers:     shelf.resolvers(),
		Models: map[string]any{
			"Item":  testItem{},
			"Owner": testOwner{},
		},
	})
	require.NoError(t, e.Validate())
	return e, shelf
}

func execute(t *testing.T, e *Executor, query string, vars map[string]interface{}) *GraphQLResponse {
	t.Helper()
	return e.Execute(context.Background(), &GraphQLRequest{Query: query, Variables: vars})
}

func dataJSON(t *testing.T, resp *GraphQLResponse) string {
	t.Helper()
	b, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	return string(b)
}

func TestExecutor_Execute_SimpleQuery(t *testing.T) {
	t.Parallel()
	e, _ := newTestExecutor(t)

	resp := execute(t, e, `{ item(id: 1) { id name kind tags } }`, nil)
	require.Empty(t, resp.Errors)
	assert.JSONEq(t, `{"item":{"id":1,"name":"hammer","kind":"TOOL","tags":["steel"]}}`, dataJSON(t, resp))
}

func TestExecutor_Execute_PreservesFieldOrder(t *testing.T) {
	t.Parallel()
	e, _ := newTestExecutor(t)

	resp := execute(t, e, `{ item(id: 1) { name id } first: items(limit: 1) { kind id } }`, nil)
	require.Empty(t, resp.Errors)
	assert.Equal(t, `{"item":{"name":"hammer","id":1},"first":[{"kind":"TOOL","id":1}]}`, dataJSON(t, resp))
}

func TestExecutor_Execute_MissingRecordIsNull(t *testing.T) {
	t.Parallel()
	e, _ := newTestExecutor(t)

	resp := execute(t, e, `{ item(id: 99) { id } noArg: item { id } }`, nil)
	assert.Empty(t, resp.Errors)
	assert.JSONEq(t, `{"item":null,"noArg":null}`, dataJSON(t, resp))
}

func TestExecutor_Execute_WithVariables(t *testing.T) {
	t.Parallel()
	e, _ := newTestExecutor(t)

	// JSON numbers decode as float64.
	resp := execute(t, e, `query Get($id: Int) { item(id: $id) { name } }`, map[string]interface{}{"id": float64(2)})
	require.Empty(t, resp.Errors)
	assert.JSONEq(t, `{"item":{"name":"Dune"}}`, dataJSON(t, resp))
}

func TestExecutor_Execute_VariableErrors(t *testing.T) {
	t.Parallel()
	e, _ := newTestExecutor(t)

	tests := []struct {
		name    string
		query   string
		vars    map[string]interface{}
		wantMsg string
	}{
		{
			name:    "missing required",
			query:   `query($id: Int!) { item(id: $id) { name } }`,
			wantMsg: "required value of type Int! was not provided",
		},
		{
			name:    "non-integer",
			query:   `query($id: Int) { item(id: $id) { name } }`,
			vars:    map[string]interface{}{"id": 2.5},
			wantMsg: "Int cannot represent non-integer value",
		},
		{
			name:    "out of range",
			query:   `query($id: Int) { item(id: $id) { name } }`,
			vars:    map[string]interface{}{"id": float64(1 << 40)},
			wantMsg: "non 32-bit signed integer",
		},
		{
			name:    "bad enum",
			query:   `query($k: Kind) { items(kind: $k) { id } }`,
			vars:    map[string]interface{}{"k": "FOOD"},
			wantMsg: "is not a member of enum Kind",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			resp := execute(t, e, tt.query, tt.vars)
			assert.Nil(t, resp.Data)
			require.Len(t, resp.Errors, 1)
			assert.Contains(t, resp.Errors[0].Message, tt.wantMsg)
			assert.Equal(t, CodeBadUserInput, resp.Errors[0].Extensions["code"])
		})
	}
}

func TestExecutor_Execute_ArgumentDefaults(t *testing.T) {
	t.Parallel()
	e, _ := newTestExecutor(t)

	resp := execute(t, e, `{ all: items { id } books: items(kind: BOOK) { id } one: items(limit: 1) { id } }`, nil)
	require.Empty(t, resp.Errors)
	assert.JSONEq(t, `{"all":[{"id":1},{"id":2},{"id":3}],"books":[{"id":2},{"id":3}],"one":[{"id":1}]}`, dataJSON(t, resp))
}

func TestExecutor_Execute_NestedResolvers(t *testing.T) {
	t.Parallel()
	e, _ := newTestExecutor(t)

	resp := execute(t, e, `{ item(id: 3) { name owner { name items { name owner { id } } } } }`, nil)
	require.Empty(t, resp.Errors)
	assert.JSONEq(t, `{"item":{"name":"Emma","owner":{"name":"Grace","items":[{"name":"Emma","owner":{"id":11}}]}}}`, dataJSON(t, resp))
}

func TestExecutor_Execute_AliasesAndFragments(t *testing.T) {
	t.Parallel()
	e, _ := newTestExecutor(t)

	query := `
		query {
			a: item(id: 1) { ...Basic }
			b: item(id: 2) { ... on Item { name } id }
		}
		fragment Basic on Item { id name }
	`
	resp := execute(t, e, query, nil)
	require.Empty(t, resp.Errors)
	assert.Equal(t, `{"a":{"id":1,"name":"hammer"},"b":{"name":"Dune","id":2}}`, dataJSON(t, resp))
}

func TestExecutor_Execute_MergesSameResponseKey(t *testing.T) {
	t.Parallel()
	e, _ := newTestExecutor(t)

	resp := execute(t, e, `{ item(id: 1) { id } item(id: 1) { name } }`, nil)
	require.Empty(t, resp.Errors)
	assert.Equal(t, `{"item":{"id":1,"name":"hammer"}}`, dataJSON(t, resp))
}

func TestExecutor_Execute_SkipInclude(t *testing.T) {
	t.Parallel()
	e, _ := newTestExecutor(t)

	query := `query($withName: Boolean!) {
		item(id: 1) {
			id @skip(if: true)
			name @include(if: $withName)
			kind @include(if: false)
			tags
		}
	}`

	resp := execute(t, e, query, map[string]interface{}{"withName": true})
	require.Empty(t, resp.Errors)
	assert.Equal(t, `{"item":{"name":"hammer","tags":["steel"]}}`, dataJSON(t, resp))

	resp = execute(t, e, query, map[string]interface{}{"withName": false})
	require.Empty(t, resp.Errors)
	assert.Equal(t, `{"item":{"tags":["steel"]}}`, dataJSON(t, resp))
}

func TestExecutor_Execute_TypenameField(t *testing.T) {
	t.Parallel()
	e, _ := newTestExecutor(t)

	resp := execute(t, e, `{ __typename item(id: 1) { __typename kind: __typename } }`, nil)
	require.Empty(t, resp.Errors)
	assert.JSONEq(t, `{"__typename":"Query","item":{"__typename":"Item","kind":"Item"}}`, dataJSON(t, resp))
}

func TestExecutor_Execute_AbstractTypes(t *testing.T) {
	t.Parallel()
	e, _ := newTestExecutor(t)

	query := `{
		a: node(id: 1) { __typename id ... on Item { name } }
		b: node(id: 10) { __typename id ... on Owner { name } }
		search(text: "a") {
			... on Item { item: name }
			... on Owner { owner: name }
		}
	}`
	resp := execute(t, e, query, nil)
	require.Empty(t, resp.Errors)
	assert.JSONEq(t, `{
		"a": {"__typename": "Item", "id": 1, "name": "hammer"},
		"b": {"__typename": "Owner", "id": 10, "name": "Ada"},
		"search": [{"item": "hammer"}, {"item": "Emma"}, {"owner": "Ada"}, {"owner": "Grace"}]
	}`, dataJSON(t, resp))
}

func TestExecutor_Execute_Mutation(t *testing.T) {
	t.Parallel()
	e, shelf := newTestExecutor(t)

	// Root mutation fields run in document order.
	resp := execute(t, e, `mutation {
		first: addItem(id: 5, name: "saw") { id kind }
		second: removeItem(id: 5) { name }
	}`, nil)
	require.Empty(t, resp.Errors)
	assert.Equal(t, `{"first":{"id":5,"kind":"OTHER"},"second":{"name":"saw"}}`, dataJSON(t, resp))
	assert.Nil(t, shelf.item(5))
}

func TestExecutor_Execute_ResolverErrorCode(t *testing.T) {
	t.Parallel()
	e, _ := newTestExecutor(t)

	resp := execute(t, e, `mutation {
  removeItem(id: 99) { id }
}`, nil)
	assert.JSONEq(t, `{"removeItem":null}`, dataJSON(t, resp))
	require.Len(t, resp.Errors, 1)

	gqlErr := resp.Errors[0]
	assert.Equal(t, "item 99: record not found", gqlErr.Message)
	assert.Equal(t, []interface{}{"removeItem"}, gqlErr.Path)
	assert.Equal(t, "NOT_FOUND", gqlErr.Extensions["code"])
	assert.Equal(t, []GraphQLErrorLocation{{Line: 2, Column: 3}}, gqlErr.Locations)
}

func TestExecutor_Execute_NonNullPropagation(t *testing.T) {
	t.Parallel()
	e, _ := newTestExecutor(t)

	resp := execute(t, e, `{ broken { label } item(id: 1) { id } }`, nil)
	assert.JSONEq(t, `{"broken":null,"item":{"id":1}}`, dataJSON(t, resp))
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, []interface{}{"broken", "label"}, resp.Errors[0].Path)
	assert.Contains(t, resp.Errors[0].Message, "cannot return null for non-nullable field Broken.label")
}

func TestExecutor_Execute_ResolverPanic(t *testing.T) {
	t.Parallel()
	e, _ := newTestExecutor(t)

	resp := execute(t, e, `{ broken { explode } }`, nil)
	assert.JSONEq(t, `{"broken":{"explode":null}}`, dataJSON(t, resp))
	require.Len(t, resp.Errors, 1)
	assert.Contains(t, resp.Errors[0].Message, "Broken.explode")
	assert.Equal(t, []interface{}{"broken", "explode"}, resp.Errors[0].Path)
}

func TestExecutor_Execute_InvalidQuery(t *testing.T) {
	t.Parallel()
	e, _ := newTestExecutor(t)

	tests := []struct {
		name     string
		query    string
		wantCode string
		wantMsg  string
	}{
		{name: "syntax", query: `{ item(id: 1) { id }`, wantCode: CodeParseFailed},
		{name: "unknown field", query: `{ item(id: 1) { nope } }`, wantCode: CodeValidationFailed, wantMsg: "nope"},
		{name: "wrong argument type", query: `{ item(id: "x") { id } }`, wantCode: CodeValidationFailed},
		{name: "missing required argument", query: `mutation { removeItem { id } }`, wantCode: CodeValidationFailed, wantMsg: "id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			resp := execute(t, e, tt.query, nil)
			assert.Nil(t, resp.Data)
			require.NotEmpty(t, resp.Errors)
			assert.Equal(t, tt.wantCode, resp.Errors[0].Extensions["code"])
			assert.NotEmpty(t, resp.Errors[0].Locations)
			if tt.wantMsg != "" {
				assert.Contains(t, resp.Errors[0].Message, tt.wantMsg)
			}
		})
	}
}

func TestExecutor_Execute_OperationName(t *testing.T) {
	t.Parallel()
	e, _ := newTestExecutor(t)

	query := `
		query First { item(id: 1) { name } }
		query Second { item(id: 2) { name } }
	`

	resp := e.Execute(context.Background(), &GraphQLRequest{Query: query, OperationName: "Second"})
	require.Empty(t, resp.Errors)
	assert.JSONEq(t, `{"item":{"name":"Dune"}}`, dataJSON(t, resp))

	resp = e.Execute(context.Background(), &GraphQLRequest{Query: query})
	require.Len(t, resp.Errors, 1)
	assert.Contains(t, resp.Errors[0].Message, "operationName is required")

	resp = e.Execute(context.Background(), &GraphQLRequest{Query: query, OperationName: "Third"})
	require.Len(t, resp.Errors, 1)
	assert.Contains(t, resp.Errors[0].Message, `"Third" not found`)
}

func TestExecutor_Execute_NilRequest(t *testing.T) {
	t.Parallel()
	e, _ := newTestExecutor(t)

	for _, req := range []*GraphQLRequest{nil, {}} {
		resp := e.Execute(context.Background(), req)
		assert.Nil(t, resp.Data)
		require.Len(t, resp.Errors, 1)
		assert.Equal(t, "query is required", resp.Errors[0].Message)
	}
}

func TestExecutor_Execute_ContextCancellation(t *testing.T) {
	t.Parallel()
	e, _ := newTestExecutor(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	resp := e.Execute(ctx, &GraphQLRequest{Query: `{ item(id: 1) { id } }`})
	assert.JSONEq(t, `{"item":null}`, dataJSON(t, resp))
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, "request cancelled", resp.Errors[0].Message)
}

func TestExecutor_Execute_Introspection(t *testing.T) {
	t.Parallel()
	e, _ := newTestExecutor(t)

	resp := execute(t, e, `{
		__schema {
			queryType { name }
			mutationType { name }
			subscriptionType { name }
			types { name }
			directives { name }
		}
	}`, nil)
	require.Empty(t, resp.Errors)

	var out struct {
		Schema struct {
			QueryType        map[string]string   `json:"queryType"`
			MutationType     map[string]string   `json:"mutationType"`
			SubscriptionType *map[string]string  `json:"subscriptionType"`
			Types            []map[string]string `json:"types"`
			Directives       []map[string]string `json:"directives"`
		} `json:"__schema"`
	}
	require.NoError(t, json.Unmarshal([]byte(dataJSON(t, resp)), &out))

	assert.Equal(t, "Query", out.Schema.QueryType["name"])
	assert.Equal(t, "Mutation", out.Schema.MutationType["name"])
	assert.Nil(t, out.Schema.SubscriptionType)

	var typeNames []string
	for _, typ := range out.Schema.Types {
		typeNames = append(typeNames, typ["name"])
	}
	assert.Subset(t, typeNames, []string{"Item", "Owner", "Node", "Kind", "SearchResult", "Int", "__Schema"})

	var directiveNames []string
	for _, d := range out.Schema.Directives {
		directiveNames = append(directiveNames, d["name"])
	}
	assert.Subset(t, directiveNames, []string{"skip", "include", "deprecated"})
}

func TestExecutor_Execute_TypeIntrospection(t *testing.T) {
	t.Parallel()
	e, _ := newTestExecutor(t)

	resp := execute(t, e, `{
		__type(name: "Item") {
			name
			kind
			interfaces { name }
			fields { name type { kind name ofType { kind name } } }
		}
		missing: __type(name: "Nope") { name }
	}`, nil)
	require.Empty(t, resp.Errors)
	assert.JSONEq(t, `{
		"__type": {
			"name": "Item",
			"kind": "OBJECT",
			"interfaces": [{"name": "Node"}],
			"fields": [
				{"name": "id", "type": {"kind": "NON_NULL", "name": null, "ofType": {"kind": "SCALAR", "name": "Int"}}},
				{"name": "name", "type": {"kind": "NON_NULL", "name": null, "ofType": {"kind": "SCALAR", "name": "String"}}},
				{"name": "kind", "type": {"kind": "ENUM", "name": "Kind", "ofType": null}},
				{"name": "tags", "type": {"kind": "LIST", "name": null, "ofType": {"kind": "NON_NULL", "name": null}}},
				{"name": "owner", "type": {"kind": "OBJECT", "name": "Owner", "ofType": null}}
			]
		},
		"missing": null
	}`, dataJSON(t, resp))
}

func TestExecutor_Execute_EnumAndUnionIntrospection(t *testing.T) {
	t.Parallel()
	e, _ := newTestExecutor(t)

	resp := execute(t, e, `{
		kind: __type(name: "Kind") { enumValues { name } fields { name } }
		result: __type(name: "SearchResult") { kind possibleTypes { name } }
		node: __type(name: "Node") { possibleTypes { name } }
	}`, nil)
	require.Empty(t, resp.Errors)
	assert.JSONEq(t, `{
		"kind": {"enumValues": [{"name": "BOOK"}, {"name": "TOOL"}, {"name": "OTHER"}], "fields": null},
		"result": {"kind": "UNION", "possibleTypes": [{"name": "Item"}, {"name": "Owner"}]},
		"node": {"possibleTypes": [{"name": "Item"}, {"name": "Owner"}]}
	}`, dataJSON(t, resp))
}

func TestExecutor_Execute_IntrospectionDisabled(t *testing.T) {
	t.Parallel()

	shelf := newTestShelf()
	e := NewExecutor(MustParseSchema(executorTestSchema), &GraphQLConfig{Resolvers: shelf.resolvers()})

	resp := execute(t, e, `{ __schema { queryType { name } } }`, nil)
	assert.Nil(t, resp.Data)
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, "introspection is disabled", resp.Errors[0].Message)

	resp = execute(t, e, `{ __type(name: "Item") { name } item(id: 1) { __typename } }`, nil)
	assert.JSONEq(t, `{"__type":null,"item":{"__typename":"Item"}}`, dataJSON(t, resp))
	require.Len(t, resp.Errors, 1)
}

func TestExecutor_Execute_DefaultResolverOnMaps(t *testing.T) {
	t.Parallel()

	schema := MustParseSchema(`type Query { me: Person } type Person { name: String, age: Int }`)
	e := NewExecutor(schema, &GraphQLConfig{Resolvers: Resolvers{
		"Query.me": func(context.Context, ResolveParams) (interface{}, error) {
			return map[string]interface{}{"name": "Ada", "age": 36}, nil
		},
	}})

	resp := execute(t, e, `{ me { name age } }`, nil)
	require.Empty(t, resp.Errors)
	assert.Equal(t, `{"me":{"name":"Ada","age":36}}`, dataJSON(t, resp))
}

func TestExecutor_Execute_LeafSerializationError(t *testing.T) {
	t.Parallel()

	schema := MustParseSchema(`type Query { count: Int, flag: Boolean }`)
	e := NewExecutor(schema, &GraphQLConfig{Resolvers: Resolvers{
		"Query.count": func(context.Context, ResolveParams) (interface{}, error) {
			return int64(1) << 40, nil
		},
		"Query.flag": func(context.Context, ResolveParams) (interface{}, error) {
			return "yes", nil
		},
	}})

	resp := execute(t, e, `{ count flag }`, nil)
	assert.JSONEq(t, `{"count":null,"flag":null}`, dataJSON(t, resp))
	assert.Len(t, resp.Errors, 2)
}

func TestExecutor_Validate(t *testing.T) {
	t.Parallel()

	shelf := newTestShelf()
	schema := MustParseSchema(executorTestSchema)

	withResolvers := func(mutate func(Resolvers)) Resolvers {
		r := shelf.resolvers()
		mutate(r)
		return r
	}

	tests := []struct {
		name    string
		config  *GraphQLConfig
		wantErr []string
	}{
		{
			name: "valid",
			config: &GraphQLConfig{
				Resolvers: shelf.resolvers(),
				Models:    map[string]any{"Item": testItem{}, "Owner": &testOwner{}},
			},
		},
		{
			name: "unknown resolver",
			config: &GraphQLConfig{Resolvers: withResolvers(func(r Resolvers) {
				r["Query.nope"] = r["Query.item"]
				r["bare"] = r["Query.item"]
			})},
			wantErr: []string{`resolver "Query.nope"`, `resolver "bare": expected Type.field`},
		},
		{
			name: "root field without resolver",
			config: &GraphQLConfig{Resolvers: withResolvers(func(r Resolvers) {
				delete(r, "Mutation.addItem")
			})},
			wantErr: []string{"field Mutation.addItem has no resolver"},
		},
		{
			name: "model missing field",
			config: &GraphQLConfig{
				Resolvers: withResolvers(func(r Resolvers) { delete(r, "Item.owner") }),
				Models:    map[string]any{"Item": testItem{}},
			},
			wantErr: []string{"field Item.owner has neither a resolver nor a struct field"},
		},
		{
			name: "model kind mismatch",
			config: &GraphQLConfig{
				Resolvers: shelf.resolvers(),
				Models: map[string]any{"Owner": struct {
					ID   string `graphql:"id"`
					Name string `graphql:"name"`
				}{}},
			},
			wantErr: []string{"cannot represent Int!"},
		},
		{
			name: "model for unknown type",
			config: &GraphQLConfig{
				Resolvers: shelf.resolvers(),
				Models:    map[string]any{"Shelf": testItem{}},
			},
			wantErr: []string{"schema has no object type Shelf"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := NewExecutor(schema, tt.config).Validate()
			if len(tt.wantErr) == 0 {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			for _, want := range tt.wantErr {
				assert.ErrorContains(t, err, want)
			}
		})
	}
}

func TestFieldError_Coder(t *testing.T) {
	t.Parallel()

	err := fieldError(fmt.Errorf("wrapped: %w", missingError{id: 4}), nil, []interface{}{"a", 0})
	assert.Equal(t, "wrapped: item 4: record not found", err.Message)
	assert.Equal(t, "NOT_FOUND", err.Extensions["code"])
	assert.Equal(t, []interface{}{"a", 0}, err.Path)

	plain := fieldError(errors.New("plain"), nil, nil)
	assert.Nil(t, plain.Extensions)
}
