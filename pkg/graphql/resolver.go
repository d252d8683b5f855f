package graphql

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/vektah/gqlparser/v2/ast"
)

// ResolverFunc produces the value of one schema field from its parent value
// and arguments.
type ResolverFunc func(ctx context.Context, p ResolveParams) (interface{}, error)

// Resolvers maps field paths (e.g., "Query.book", "Book.author") to resolver functions.
type Resolvers map[string]ResolverFunc

// ResolveParams carries the inputs of a single field resolution.
type ResolveParams struct {
	// Source is the value of the parent object. It is nil for root fields.
	Source interface{}
	// Args holds the coerced argument values: Int as int, Float as float64,
	// String and ID as string, Boolean as bool.
	Args map[string]interface{}
	// Field is the selected field from the query document.
	Field *ast.Field
	// ParentType is the object type the field belongs to.
	ParentType *ast.Definition
	// Path is the response path of the field.
	Path []interface{}
}

// Int returns an Int argument. The second result is false when the argument
// is absent or null.
func (p ResolveParams) Int(name string) (int, bool) {
	v, ok := p.Args[name].(int)
	return v, ok
}

// String returns a String or ID argument. The second result is false when the
// argument is absent or null.
func (p ResolveParams) String(name string) (string, bool) {
	v, ok := p.Args[name].(string)
	return v, ok
}

// fieldIndexCache caches struct field lookups per type.
var fieldIndexCache sync.Map // map[reflect.Type]map[string][]int

// defaultResolve reads fieldName from source. Maps are indexed by key;
// structs are searched for a field tagged `graphql:"name"`, then `json:"name"`,
// then a field whose name matches case-insensitively.
func defaultResolve(source interface{}, fieldName string) (interface{}, error) {
	v := reflect.ValueOf(source)
	for v.IsValid() && (v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface) {
		if v.IsNil() {
			return nil, nil
		}
		v = v.Elem()
	}
	if !v.IsValid() {
		return nil, nil
	}

	switch v.Kind() {
	case reflect.Map:
		if v.Type().Key().Kind() != reflect.String {
			break
		}
		elem := v.MapIndex(reflect.ValueOf(fieldName).Convert(v.Type().Key()))
		if !elem.IsValid() {
			return nil, nil
		}
		return elem.Interface(), nil
	case reflect.Struct:
		if f, ok := lookupStructField(v.Type(), fieldName); ok {
			return v.FieldByIndex(f.Index).Interface(), nil
		}
	}

	return nil, fmt.Errorf("cannot resolve field %q on value of type %s", fieldName, v.Type())
}

// structFieldIndex finds the struct field backing a GraphQL field name.
func structFieldIndex(t reflect.Type, fieldName string) ([]int, bool) {
	var fields map[string][]int
	if cached, ok := fieldIndexCache.Load(t); ok {
		fields = cached.(map[string][]int)
	} else {
		fields = indexStructFields(t)
		fieldIndexCache.Store(t, fields)
	}
	index, ok := fields[fieldName]
	return index, ok
}

func indexStructFields(t reflect.Type) map[string][]int {
	visible := reflect.VisibleFields(t)
	fields := make(map[string][]int, len(visible)*2)

	// Later passes take precedence: graphql tag over json tag over Go name.
	for _, f := range visible {
		if f.IsExported() && !f.Anonymous {
			fields[strings.ToLower(f.Name)] = f.Index
		}
	}
	for _, tagKey := range []string{"json", "graphql"} {
		for _, f := range visible {
			if !f.IsExported() || f.Anonymous {
				continue
			}
			if tag := tagName(f.Tag.Get(tagKey)); tag != "" {
				fields[tag] = f.Index
			}
		}
	}
	return fields
}

func tagName(tag string) string {
	name, _, _ := strings.Cut(tag, ",")
	if name == "-" {
		return ""
	}
	return name
}

// lookupStructField resolves fieldName against t, falling back to a
// case-insensitive match.
func lookupStructField(t reflect.Type, fieldName string) (reflect.StructField, bool) {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return reflect.StructField{}, false
	}
	index, ok := structFieldIndex(t, fieldName)
	if !ok {
		index, ok = structFieldIndex(t, strings.ToLower(fieldName))
	}
	if !ok {
		return reflect.StructField{}, false
	}
	return t.FieldByIndex(index), true
}
