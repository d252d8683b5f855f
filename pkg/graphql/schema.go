package graphql

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
)

// Schema represents a parsed GraphQL schema with convenient accessors
// for types, queries and mutations.
type Schema struct {
	ast       *ast.Schema
	source    string
	queries   map[string]*ast.FieldDefinition
	mutations map[string]*ast.FieldDefinition
}

// ParseSchema parses a GraphQL SDL string and returns a Schema.
func ParseSchema(sdl string) (*Schema, error) {
	return parseSource(&ast.Source{Name: "schema", Input: sdl})
}

// ParseSchemaFile parses a GraphQL schema from a file and returns a Schema.
func ParseSchemaFile(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema file %s: %w", path, err)
	}

	schema, err := parseSource(&ast.Source{Name: path, Input: string(data)})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return schema, nil
}

// MustParseSchema is like ParseSchema but panics on error. It is intended for
// schemas compiled into the binary.
func MustParseSchema(sdl string) *Schema {
	s, err := ParseSchema(sdl)
	if err != nil {
		panic(err)
	}
	return s
}

func parseSource(source *ast.Source) (*Schema, error) {
	schema, err := gqlparser.LoadSchema(source)
	if err != nil {
		return nil, fmt.Errorf("failed to parse GraphQL schema: %w", err)
	}
	return newSchema(schema, source.Input), nil
}

// newSchema creates a new Schema from a parsed ast.Schema.
func newSchema(schema *ast.Schema, source string) *Schema {
	s := &Schema{
		ast:       schema,
		source:    source,
		queries:   make(map[string]*ast.FieldDefinition),
		mutations: make(map[string]*ast.FieldDefinition),
	}

	// gqlparser adds __schema and __type to the query type; keep them out of the index
	if schema.Query != nil {
		for _, field := range schema.Query.Fields {
			if !isIntrospectionField(field.Name) {
				s.queries[field.Name] = field
			}
		}
	}

	if schema.Mutation != nil {
		for _, field := range schema.Mutation.Fields {
			s.mutations[field.Name] = field
		}
	}

	return s
}

// isIntrospectionField returns true if the field name is a built-in introspection field.
func isIntrospectionField(name string) bool {
	return len(name) >= 2 && name[0] == '_' && name[1] == '_'
}

// AST returns the underlying gqlparser AST schema.
func (s *Schema) AST() *ast.Schema {
	return s.ast
}

// Source returns the original SDL source string.
func (s *Schema) Source() string {
	return s.source
}

// GetType returns a type definition by name, or nil if not found.
func (s *Schema) GetType(name string) *ast.Definition {
	return s.ast.Types[name]
}

// RootType returns the root object type for an operation kind, or nil if the
// schema does not define it.
func (s *Schema) RootType(op ast.Operation) *ast.Definition {
	switch op {
	case ast.Query:
		return s.ast.Query
	case ast.Mutation:
		return s.ast.Mutation
	case ast.Subscription:
		return s.ast.Subscription
	default:
		return nil
	}
}

// GetQueryField returns a query field definition by name, or nil if not found.
func (s *Schema) GetQueryField(name string) *ast.FieldDefinition {
	return s.queries[name]
}

// GetMutationField returns a mutation field definition by name, or nil if not found.
func (s *Schema) GetMutationField(name string) *ast.FieldDefinition {
	return s.mutations[name]
}

// ListQueries returns all query field names in sorted order.
func (s *Schema) ListQueries() []string {
	return sortedKeys(s.queries)
}

// ListMutations returns all mutation field names in sorted order.
func (s *Schema) ListMutations() []string {
	return sortedKeys(s.mutations)
}

func sortedKeys(m map[string]*ast.FieldDefinition) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ListTypes returns all type names in sorted order, optionally filtering by kind.
// If kinds is empty, all types are returned.
func (s *Schema) ListTypes(kinds ...ast.DefinitionKind) []string {
	kindSet := make(map[ast.DefinitionKind]bool)
	for _, k := range kinds {
		kindSet[k] = true
	}

	names := make([]string, 0)
	for name, def := range s.ast.Types {
		if len(kindSet) == 0 || kindSet[def.Kind] {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// HasQuery returns true if the schema has a query type with fields.
func (s *Schema) HasQuery() bool {
	return len(s.queries) > 0
}

// HasMutation returns true if the schema has a mutation type with fields.
func (s *Schema) HasMutation() bool {
	return len(s.mutations) > 0
}

// HasSubscription returns true if the schema has a subscription type with fields.
func (s *Schema) HasSubscription() bool {
	return s.ast.Subscription != nil && len(s.ast.Subscription.Fields) > 0
}

// Validate performs semantic checks beyond what gqlparser enforces while parsing.
func (s *Schema) Validate() error {
	if !s.HasQuery() {
		return errors.New("schema must define a Query type with at least one field")
	}
	if s.HasSubscription() {
		return errors.New("subscriptions are not supported")
	}
	return nil
}

// GetField returns a field definition by type and field name.
func (s *Schema) GetField(typeName, fieldName string) *ast.FieldDefinition {
	def := s.GetType(typeName)
	if def == nil {
		return nil
	}
	return def.Fields.ForName(fieldName)
}

// IsScalarType returns true if the given type name is a scalar type.
func (s *Schema) IsScalarType(name string) bool {
	switch name {
	case "Int", "Float", "String", "Boolean", "ID":
		return true
	}

	def := s.GetType(name)
	return def != nil && def.Kind == ast.Scalar
}

// IsEnumType returns true if the given type name is an enum type.
func (s *Schema) IsEnumType(name string) bool {
	def := s.GetType(name)
	return def != nil && def.Kind == ast.Enum
}

// GetEnumValues returns the enum values for an enum type, or nil if not an enum.
func (s *Schema) GetEnumValues(name string) []string {
	def := s.GetType(name)
	if def == nil || def.Kind != ast.Enum {
		return nil
	}

	values := make([]string, 0, len(def.EnumValues))
	for _, v := range def.EnumValues {
		values = append(values, v.Name)
	}
	return values
}

// GetInterfaceImplementors returns all types that implement the given interface.
func (s *Schema) GetInterfaceImplementors(interfaceName string) []string {
	var implementors []string
	for name, def := range s.ast.Types {
		if def.Kind != ast.Object {
			continue
		}
		for _, iface := range def.Interfaces {
			if iface == interfaceName {
				implementors = append(implementors, name)
				break
			}
		}
	}
	sort.Strings(implementors)
	return implementors
}

// PossibleType reports whether the object type objName satisfies the type
// condition cond (the object itself, an interface it implements, or a union
// containing it).
func (s *Schema) PossibleType(cond, objName string) bool {
	if cond == "" || cond == objName {
		return true
	}
	def := s.GetType(cond)
	if def == nil {
		return false
	}
	switch def.Kind {
	case ast.Union:
		for _, member := range def.Types {
			if member == objName {
				return true
			}
		}
	case ast.Interface:
		obj := s.GetType(objName)
		if obj == nil {
			return false
		}
		for _, iface := range obj.Interfaces {
			if iface == cond {
				return true
			}
		}
	}
	return false
}
