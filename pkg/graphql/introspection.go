package graphql

import (
	"errors"
	"sort"

	"github.com/vektah/gqlparser/v2/ast"
)

// executeIntrospectionField resolves the __schema and __type root fields.
func (ec *executionContext) executeIntrospectionField(field *ast.Field, path []interface{}) (interface{}, *GraphQLError) {
	if !ec.e.config.Introspection {
		if field.Name == "__schema" {
			// __schema is non-null; the error propagates to data.
			return nil, fieldError(errors.New("introspection is disabled"), field, path)
		}
		ec.addError(fieldError(errors.New("introspection is disabled"), field, path))
		return nil, nil
	}

	switch field.Name {
	case "__schema":
		return ec.buildSchemaIntrospection(field.SelectionSet), nil
	case "__type":
		var name string
		if arg := field.Arguments.ForName("name"); arg != nil {
			name, _ = ec.e.resolveValue(arg.Value, ec.variables).(string)
		}
		if typeInfo := ec.buildTypeIntrospection(name, field.SelectionSet); typeInfo != nil {
			return typeInfo, nil
		}
		return nil, nil
	}
	return nil, nil
}

// expandSelections flattens fragment spreads and inline fragments in an
// introspection selection set. Introspection types have no abstract members,
// so type conditions are not checked.
func (ec *executionContext) expandSelections(selections ast.SelectionSet) []*ast.Field {
	var expanded []*ast.Field
	for _, sel := range selections {
		switch s := sel.(type) {
		case *ast.Field:
			if ec.shouldInclude(s.Directives) {
				expanded = append(expanded, s)
			}
		case *ast.FragmentSpread:
			if !ec.shouldInclude(s.Directives) {
				continue
			}
			frag := s.Definition
			if frag == nil && ec.doc != nil {
				frag = ec.doc.Fragments.ForName(s.Name)
			}
			if frag != nil {
				expanded = append(expanded, ec.expandSelections(frag.SelectionSet)...)
			}
		case *ast.InlineFragment:
			if ec.shouldInclude(s.Directives) {
				expanded = append(expanded, ec.expandSelections(s.SelectionSet)...)
			}
		}
	}
	return expanded
}

func responseKey(f *ast.Field) string {
	if f.Alias != "" {
		return f.Alias
	}
	return f.Name
}

// nullableString maps an empty description to null.
func nullableString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// buildSchemaIntrospection builds the __schema introspection response.
func (ec *executionContext) buildSchemaIntrospection(selections ast.SelectionSet) *Object {
	s := ec.e.schema
	result := NewObject()

	for _, field := range ec.expandSelections(selections) {
		alias := responseKey(field)

		switch field.Name {
		case "__typename":
			result.Set(alias, "__Schema")
		case "description":
			result.Set(alias, nullableString(s.AST().Description))
		case "queryType":
			result.Set(alias, ec.buildRootTypeRef(s.AST().Query, field.SelectionSet))
		case "mutationType":
			result.Set(alias, ec.buildRootTypeRef(s.AST().Mutation, field.SelectionSet))
		case "subscriptionType":
			result.Set(alias, ec.buildRootTypeRef(s.AST().Subscription, field.SelectionSet))
		case "types":
			result.Set(alias, ec.buildTypesIntrospection(field.SelectionSet))
		case "directives":
			result.Set(alias, ec.buildDirectivesIntrospection(field.SelectionSet))
		}
	}

	return result
}

func (ec *executionContext) buildRootTypeRef(def *ast.Definition, selections ast.SelectionSet) interface{} {
	if def == nil {
		return nil
	}
	return ec.buildTypeIntrospection(def.Name, selections)
}

// buildTypesIntrospection builds the types array for introspection.
func (ec *executionContext) buildTypesIntrospection(selections ast.SelectionSet) []interface{} {
	types := make([]interface{}, 0)
	for _, name := range ec.e.schema.ListTypes() {
		if typeInfo := ec.buildTypeIntrospection(name, selections); typeInfo != nil {
			types = append(types, typeInfo)
		}
	}
	return types
}

// buildTypeIntrospection builds type introspection data. It returns nil for
// unknown types.
func (ec *executionContext) buildTypeIntrospection(typeName string, selections ast.SelectionSet) *Object {
	def := ec.e.schema.GetType(typeName)
	if def == nil {
		return nil
	}

	result := NewObject()

	for _, field := range ec.expandSelections(selections) {
		alias := responseKey(field)

		switch field.Name {
		case "__typename":
			result.Set(alias, "__Type")
		case "name":
			result.Set(alias, typeName)
		case "kind":
			result.Set(alias, typeKind(def))
		case "description":
			result.Set(alias, nullableString(def.Description))
		case "specifiedByURL":
			result.Set(alias, nil)
		case "fields":
			if def.Kind == ast.Object || def.Kind == ast.Interface {
				result.Set(alias, ec.buildFieldsIntrospection(def.Fields, field.SelectionSet))
			} else {
				result.Set(alias, nil)
			}
		case "inputFields":
			if def.Kind == ast.InputObject {
				result.Set(alias, ec.buildInputValuesIntrospection(def.Fields, field.SelectionSet))
			} else {
				result.Set(alias, nil)
			}
		case "enumValues":
			if def.Kind == ast.Enum {
				result.Set(alias, ec.buildEnumValuesIntrospection(def.EnumValues, field.SelectionSet))
			} else {
				result.Set(alias, nil)
			}
		case "interfaces":
			if def.Kind == ast.Object || def.Kind == ast.Interface {
				result.Set(alias, ec.buildInterfacesIntrospection(def.Interfaces, field.SelectionSet))
			} else {
				result.Set(alias, nil)
			}
		case "possibleTypes":
			if def.Kind == ast.Interface || def.Kind == ast.Union {
				result.Set(alias, ec.buildPossibleTypesIntrospection(def, field.SelectionSet))
			} else {
				result.Set(alias, nil)
			}
		case "ofType":
			result.Set(alias, nil)
		case "isOneOf":
			result.Set(alias, false)
		}
	}

	return result
}

// buildDirectivesIntrospection builds directives introspection data.
func (ec *executionContext) buildDirectivesIntrospection(selections ast.SelectionSet) []interface{} {
	directives := ec.e.schema.AST().Directives
	names := make([]string, 0, len(directives))
	for name := range directives {
		names = append(names, name)
	}
	sort.Strings(names)

	fields := ec.expandSelections(selections)
	result := make([]interface{}, 0, len(names))

	for _, name := range names {
		dir := directives[name]
		dirInfo := NewObject()
		for _, f := range fields {
			alias := responseKey(f)
			switch f.Name {
			case "__typename":
				dirInfo.Set(alias, "__Directive")
			case "name":
				dirInfo.Set(alias, dir.Name)
			case "description":
				dirInfo.Set(alias, nullableString(dir.Description))
			case "locations":
				locations := make([]interface{}, len(dir.Locations))
				for i, loc := range dir.Locations {
					locations[i] = string(loc)
				}
				dirInfo.Set(alias, locations)
			case "args":
				dirInfo.Set(alias, ec.buildArgsIntrospection(dir.Arguments, f.SelectionSet))
			case "isRepeatable":
				dirInfo.Set(alias, dir.IsRepeatable)
			}
		}
		result = append(result, dirInfo)
	}

	return result
}

// typeKind returns the GraphQL type kind string.
func typeKind(def *ast.Definition) string {
	switch def.Kind {
	case ast.Scalar:
		return "SCALAR"
	case ast.Object:
		return "OBJECT"
	case ast.Interface:
		return "INTERFACE"
	case ast.Union:
		return "UNION"
	case ast.Enum:
		return "ENUM"
	case ast.InputObject:
		return "INPUT_OBJECT"
	default:
		return "OBJECT"
	}
}

// buildFieldsIntrospection builds field introspection data.
func (ec *executionContext) buildFieldsIntrospection(fields ast.FieldList, selections ast.SelectionSet) []interface{} {
	result := make([]interface{}, 0, len(fields))
	selected := ec.expandSelections(selections)

	for _, field := range fields {
		if isIntrospectionField(field.Name) {
			continue
		}
		fieldInfo := NewObject()
		for _, f := range selected {
			alias := responseKey(f)
			switch f.Name {
			case "__typename":
				fieldInfo.Set(alias, "__Field")
			case "name":
				fieldInfo.Set(alias, field.Name)
			case "description":
				fieldInfo.Set(alias, nullableString(field.Description))
			case "args":
				fieldInfo.Set(alias, ec.buildArgsIntrospection(field.Arguments, f.SelectionSet))
			case "type":
				fieldInfo.Set(alias, ec.buildTypeRefIntrospection(field.Type, f.SelectionSet))
			case "isDeprecated":
				fieldInfo.Set(alias, field.Directives.ForName("deprecated") != nil)
			case "deprecationReason":
				fieldInfo.Set(alias, deprecationReason(field.Directives))
			}
		}
		result = append(result, fieldInfo)
	}
	return result
}

func deprecationReason(directives ast.DirectiveList) interface{} {
	d := directives.ForName("deprecated")
	if d == nil {
		return nil
	}
	if arg := d.Arguments.ForName("reason"); arg != nil && arg.Value != nil {
		return arg.Value.Raw
	}
	return "No longer supported"
}

// buildArgsIntrospection builds argument introspection data.
func (ec *executionContext) buildArgsIntrospection(args ast.ArgumentDefinitionList, selections ast.SelectionSet) []interface{} {
	// Initialize as empty slice (not nil) so JSON marshals to [] instead of null
	result := make([]interface{}, 0, len(args))
	selected := ec.expandSelections(selections)

	for _, arg := range args {
		argInfo := NewObject()
		for _, f := range selected {
			alias := responseKey(f)
			switch f.Name {
			case "__typename":
				argInfo.Set(alias, "__InputValue")
			case "name":
				argInfo.Set(alias, arg.Name)
			case "description":
				argInfo.Set(alias, nullableString(arg.Description))
			case "type":
				argInfo.Set(alias, ec.buildTypeRefIntrospection(arg.Type, f.SelectionSet))
			case "defaultValue":
				if arg.DefaultValue != nil {
					argInfo.Set(alias, arg.DefaultValue.String())
				} else {
					argInfo.Set(alias, nil)
				}
			case "isDeprecated":
				argInfo.Set(alias, false)
			case "deprecationReason":
				argInfo.Set(alias, nil)
			}
		}
		result = append(result, argInfo)
	}
	return result
}

// buildTypeRefIntrospection builds type reference introspection data,
// unwrapping NON_NULL and LIST wrappers through ofType.
func (ec *executionContext) buildTypeRefIntrospection(t *ast.Type, selections ast.SelectionSet) *Object {
	if !t.NonNull && t.Elem == nil {
		// Named types expose the full __Type surface.
		if info := ec.buildTypeIntrospection(t.NamedType, selections); info != nil {
			return info
		}
	}

	result := NewObject()
	for _, f := range ec.expandSelections(selections) {
		alias := responseKey(f)

		switch {
		case f.Name == "__typename":
			result.Set(alias, "__Type")
		case t.NonNull:
			switch f.Name {
			case "kind":
				result.Set(alias, "NON_NULL")
			case "ofType":
				innerType := *t
				innerType.NonNull = false
				result.Set(alias, ec.buildTypeRefIntrospection(&innerType, f.SelectionSet))
			default:
				result.Set(alias, nil)
			}
		case t.Elem != nil:
			switch f.Name {
			case "kind":
				result.Set(alias, "LIST")
			case "ofType":
				result.Set(alias, ec.buildTypeRefIntrospection(t.Elem, f.SelectionSet))
			default:
				result.Set(alias, nil)
			}
		default:
			switch f.Name {
			case "kind":
				result.Set(alias, "SCALAR")
			case "name":
				result.Set(alias, t.NamedType)
			default:
				result.Set(alias, nil)
			}
		}
	}

	return result
}

// buildInputValuesIntrospection builds input field introspection data.
func (ec *executionContext) buildInputValuesIntrospection(fields ast.FieldList, selections ast.SelectionSet) []interface{} {
	result := make([]interface{}, 0, len(fields))
	selected := ec.expandSelections(selections)

	for _, field := range fields {
		fieldInfo := NewObject()
		for _, f := range selected {
			alias := responseKey(f)
			switch f.Name {
			case "__typename":
				fieldInfo.Set(alias, "__InputValue")
			case "name":
				fieldInfo.Set(alias, field.Name)
			case "description":
				fieldInfo.Set(alias, nullableString(field.Description))
			case "type":
				fieldInfo.Set(alias, ec.buildTypeRefIntrospection(field.Type, f.SelectionSet))
			case "defaultValue":
				if field.DefaultValue != nil {
					fieldInfo.Set(alias, field.DefaultValue.String())
				} else {
					fieldInfo.Set(alias, nil)
				}
			case "isDeprecated":
				fieldInfo.Set(alias, false)
			case "deprecationReason":
				fieldInfo.Set(alias, nil)
			}
		}
		result = append(result, fieldInfo)
	}
	return result
}

// buildEnumValuesIntrospection builds enum values introspection data.
func (ec *executionContext) buildEnumValuesIntrospection(values ast.EnumValueList, selections ast.SelectionSet) []interface{} {
	result := make([]interface{}, 0, len(values))
	selected := ec.expandSelections(selections)

	for _, val := range values {
		valInfo := NewObject()
		for _, f := range selected {
			alias := responseKey(f)
			switch f.Name {
			case "__typename":
				valInfo.Set(alias, "__EnumValue")
			case "name":
				valInfo.Set(alias, val.Name)
			case "description":
				valInfo.Set(alias, nullableString(val.Description))
			case "isDeprecated":
				valInfo.Set(alias, val.Directives.ForName("deprecated") != nil)
			case "deprecationReason":
				valInfo.Set(alias, deprecationReason(val.Directives))
			}
		}
		result = append(result, valInfo)
	}
	return result
}

// buildInterfacesIntrospection builds interfaces introspection data.
func (ec *executionContext) buildInterfacesIntrospection(interfaces []string, selections ast.SelectionSet) []interface{} {
	result := make([]interface{}, 0, len(interfaces))
	for _, iface := range interfaces {
		if info := ec.buildTypeIntrospection(iface, selections); info != nil {
			result = append(result, info)
		}
	}
	return result
}

// buildPossibleTypesIntrospection builds possible types introspection data.
func (ec *executionContext) buildPossibleTypesIntrospection(def *ast.Definition, selections ast.SelectionSet) []interface{} {
	var typeNames []string

	switch def.Kind {
	case ast.Union:
		typeNames = def.Types
	case ast.Interface:
		typeNames = ec.e.schema.GetInterfaceImplementors(def.Name)
	}

	result := make([]interface{}, 0, len(typeNames))
	for _, name := range typeNames {
		if info := ec.buildTypeIntrospection(name, selections); info != nil {
			result = append(result, info)
		}
	}
	return result
}
