package graphql

import (
	"errors"
	"fmt"
	"reflect"
	"sort"

	"github.com/vektah/gqlparser/v2/ast"
)

// Validate checks that the registered resolvers and models agree with the
// schema. Every resolver key must name a schema field, every root field must
// have a resolver, and every field of a bound model type must be backed by
// either a resolver or a struct field of a compatible kind.
func (e *Executor) Validate() error {
	if err := e.schema.Validate(); err != nil {
		return err
	}

	var errs []error

	keys := make([]string, 0, len(e.resolvers))
	for key := range e.resolvers {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		fp := ParseFieldPath(key)
		if fp.TypeName == "" {
			errs = append(errs, fmt.Errorf("resolver %q: expected Type.field", key))
			continue
		}
		if e.schema.GetField(fp.TypeName, fp.FieldName) == nil {
			errs = append(errs, fmt.Errorf("resolver %q: schema has no field %s", key, key))
		}
	}

	for _, op := range []ast.Operation{ast.Query, ast.Mutation} {
		root := e.schema.RootType(op)
		if root == nil {
			continue
		}
		for _, f := range root.Fields {
			if isIntrospectionField(f.Name) {
				continue
			}
			key := FieldPath{TypeName: root.Name, FieldName: f.Name}.String()
			if _, ok := e.resolvers[key]; !ok {
				errs = append(errs, fmt.Errorf("field %s has no resolver", key))
			}
		}
	}

	typeNames := make([]string, 0, len(e.models))
	for name := range e.models {
		typeNames = append(typeNames, name)
	}
	sort.Strings(typeNames)
	for _, typeName := range typeNames {
		errs = append(errs, e.validateModel(typeName, e.models[typeName])...)
	}

	return errors.Join(errs...)
}

func (e *Executor) validateModel(typeName string, model reflect.Type) []error {
	def := e.schema.GetType(typeName)
	if def == nil || def.Kind != ast.Object {
		return []error{fmt.Errorf("model %s: schema has no object type %s", typeName, typeName)}
	}
	if model == nil || model.Kind() != reflect.Struct {
		return []error{fmt.Errorf("model %s: expected a struct, got %v", typeName, model)}
	}

	var errs []error
	for _, f := range def.Fields {
		if isIntrospectionField(f.Name) {
			continue
		}
		key := FieldPath{TypeName: typeName, FieldName: f.Name}.String()
		if _, ok := e.resolvers[key]; ok {
			continue
		}
		sf, ok := lookupStructField(model, f.Name)
		if !ok {
			errs = append(errs, fmt.Errorf("model %s: field %s has neither a resolver nor a struct field", typeName, key))
			continue
		}
		if !e.kindCompatible(f.Type, sf.Type) {
			errs = append(errs, fmt.Errorf("model %s: struct field %s (%s) cannot represent %s", typeName, sf.Name, sf.Type, f.Type.String()))
		}
	}
	return errs
}

// kindCompatible reports whether a Go type can be serialized as t.
func (e *Executor) kindCompatible(t *ast.Type, goType reflect.Type) bool {
	for goType.Kind() == reflect.Pointer {
		goType = goType.Elem()
	}
	if t.Elem != nil {
		k := goType.Kind()
		return k == reflect.Slice || k == reflect.Array || k == reflect.Interface
	}
	if goType.Kind() == reflect.Interface {
		return true
	}

	switch t.NamedType {
	case "Int":
		return isIntKind(goType.Kind())
	case "Float":
		return isIntKind(goType.Kind()) || goType.Kind() == reflect.Float32 || goType.Kind() == reflect.Float64
	case "String":
		return goType.Kind() == reflect.String
	case "Boolean":
		return goType.Kind() == reflect.Bool
	case "ID":
		return goType.Kind() == reflect.String || isIntKind(goType.Kind())
	}

	def := e.schema.GetType(t.NamedType)
	if def == nil {
		return false
	}
	switch def.Kind {
	case ast.Enum:
		return goType.Kind() == reflect.String
	case ast.Object, ast.Interface, ast.Union:
		return goType.Kind() == reflect.Struct || goType.Kind() == reflect.Map
	}
	return true
}

func isIntKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	}
	return false
}
