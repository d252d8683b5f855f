package graphql

import (
	stdjson "encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"

	"github.com/vektah/gqlparser/v2/ast"
)

// coerceVariables checks the provided variables against the operation's
// variable definitions and returns the coerced values. Variables that are
// neither provided nor defaulted are left out of the result.
func (e *Executor) coerceVariables(op *ast.OperationDefinition, provided map[string]interface{}) (map[string]interface{}, []*GraphQLError) {
	coerced := make(map[string]interface{}, len(op.VariableDefinitions))
	var errs []*GraphQLError

	for _, def := range op.VariableDefinitions {
		value, ok := provided[def.Variable]
		if !ok {
			if def.DefaultValue != nil {
				v, err := e.coerceInput(def.Type, e.resolveValue(def.DefaultValue, nil))
				if err != nil {
					errs = append(errs, variableError(def, err))
					continue
				}
				coerced[def.Variable] = v
				continue
			}
			if def.Type.NonNull {
				errs = append(errs, variableError(def, fmt.Errorf("required value of type %s was not provided", def.Type.String())))
			}
			continue
		}

		v, err := e.coerceInput(def.Type, value)
		if err != nil {
			errs = append(errs, variableError(def, err))
			continue
		}
		coerced[def.Variable] = v
	}

	return coerced, errs
}

func variableError(def *ast.VariableDefinition, err error) *GraphQLError {
	gqlErr := &GraphQLError{
		Message:    fmt.Sprintf("variable $%s: %v", def.Variable, err),
		Extensions: map[string]interface{}{"code": CodeBadUserInput},
	}
	if def.Position != nil {
		gqlErr.Locations = []GraphQLErrorLocation{{Line: def.Position.Line, Column: def.Position.Column}}
	}
	return gqlErr
}

// extractArguments resolves and coerces the arguments of a field against its
// definition, applying declared defaults.
func (e *Executor) extractArguments(field *ast.Field, def *ast.FieldDefinition, variables map[string]interface{}) (map[string]interface{}, error) {
	args := make(map[string]interface{})
	if def == nil {
		for _, arg := range field.Arguments {
			args[arg.Name] = e.resolveValue(arg.Value, variables)
		}
		return args, nil
	}

	for _, argDef := range def.Arguments {
		var (
			raw      interface{}
			provided bool
		)
		if arg := field.Arguments.ForName(argDef.Name); arg != nil {
			if arg.Value.Kind == ast.Variable {
				raw, provided = variables[arg.Value.Raw]
			} else {
				raw, provided = e.resolveValue(arg.Value, variables), true
			}
		}
		if !provided && argDef.DefaultValue != nil {
			raw, provided = e.resolveValue(argDef.DefaultValue, nil), true
		}
		if !provided {
			if argDef.Type.NonNull {
				return nil, fmt.Errorf("argument %q of type %s is required", argDef.Name, argDef.Type.String())
			}
			continue
		}

		v, err := e.coerceInput(argDef.Type, raw)
		if err != nil {
			return nil, fmt.Errorf("argument %q: %w", argDef.Name, err)
		}
		args[argDef.Name] = v
	}

	return args, nil
}

// resolveValue resolves an AST value to a Go value.
func (e *Executor) resolveValue(value *ast.Value, variables map[string]interface{}) interface{} {
	if value == nil {
		return nil
	}

	switch value.Kind {
	case ast.Variable:
		if variables != nil {
			return variables[value.Raw]
		}
		return nil
	case ast.IntValue:
		n, err := strconv.ParseInt(value.Raw, 10, 64)
		if err != nil {
			return value.Raw
		}
		return n
	case ast.FloatValue:
		f, err := strconv.ParseFloat(value.Raw, 64)
		if err != nil {
			return value.Raw
		}
		return f
	case ast.StringValue, ast.BlockValue, ast.EnumValue:
		return value.Raw
	case ast.BooleanValue:
		return value.Raw == "true"
	case ast.NullValue:
		return nil
	case ast.ListValue:
		list := make([]interface{}, 0, len(value.Children))
		for _, child := range value.Children {
			list = append(list, e.resolveValue(child.Value, variables))
		}
		return list
	case ast.ObjectValue:
		obj := make(map[string]interface{})
		for _, child := range value.Children {
			obj[child.Name] = e.resolveValue(child.Value, variables)
		}
		return obj
	default:
		return value.Raw
	}
}

// coerceInput converts a raw input value to the Go representation of the
// given input type.
func (e *Executor) coerceInput(t *ast.Type, value interface{}) (interface{}, error) {
	if value == nil {
		if t.NonNull {
			return nil, fmt.Errorf("expected non-null value of type %s", t.String())
		}
		return nil, nil
	}

	if t.Elem != nil {
		rv := reflect.ValueOf(value)
		if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
			// A single value is coerced to a list of one.
			item, err := e.coerceInput(t.Elem, value)
			if err != nil {
				return nil, err
			}
			return []interface{}{item}, nil
		}
		list := make([]interface{}, rv.Len())
		for i := range list {
			item, err := e.coerceInput(t.Elem, rv.Index(i).Interface())
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			list[i] = item
		}
		return list, nil
	}

	switch t.NamedType {
	case "Int":
		return coerceInt(value)
	case "Float":
		return coerceFloat(value)
	case "String":
		if s, ok := value.(string); ok {
			return s, nil
		}
		return nil, fmt.Errorf("String cannot represent a non string value: %v", value)
	case "Boolean":
		if b, ok := value.(bool); ok {
			return b, nil
		}
		return nil, fmt.Errorf("Boolean cannot represent a non boolean value: %v", value)
	case "ID":
		switch v := value.(type) {
		case string:
			return v, nil
		default:
			n, err := coerceInt(value)
			if err != nil {
				return nil, fmt.Errorf("ID cannot represent value: %v", value)
			}
			return strconv.Itoa(n), nil
		}
	}

	def := e.schema.GetType(t.NamedType)
	if def == nil {
		return nil, fmt.Errorf("unknown type %s", t.NamedType)
	}

	switch def.Kind {
	case ast.Enum:
		s, ok := value.(string)
		if !ok || def.EnumValues.ForName(s) == nil {
			return nil, fmt.Errorf("value %v is not a member of enum %s", value, def.Name)
		}
		return s, nil
	case ast.InputObject:
		obj, ok := value.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("expected an object of type %s", def.Name)
		}
		out := make(map[string]interface{}, len(def.Fields))
		for key := range obj {
			if def.Fields.ForName(key) == nil {
				return nil, fmt.Errorf("field %q is not defined by type %s", key, def.Name)
			}
		}
		for _, f := range def.Fields {
			raw, ok := obj[f.Name]
			if !ok && f.DefaultValue != nil {
				raw, ok = e.resolveValue(f.DefaultValue, nil), true
			}
			if !ok {
				if f.Type.NonNull {
					return nil, fmt.Errorf("field %s.%s of required type %s was not provided", def.Name, f.Name, f.Type.String())
				}
				continue
			}
			v, err := e.coerceInput(f.Type, raw)
			if err != nil {
				return nil, fmt.Errorf("%s.%s: %w", def.Name, f.Name, err)
			}
			out[f.Name] = v
		}
		return out, nil
	default:
		// Custom scalars are passed through unchanged.
		return value, nil
	}
}

// coerceInt converts a numeric input to a 32-bit GraphQL Int.
func coerceInt(value interface{}) (int, error) {
	var n float64
	switch v := value.(type) {
	case int:
		n = float64(v)
	case int8:
		n = float64(v)
	case int16:
		n = float64(v)
	case int32:
		n = float64(v)
	case int64:
		n = float64(v)
	case uint:
		n = float64(v)
	case uint8:
		n = float64(v)
	case uint16:
		n = float64(v)
	case uint32:
		n = float64(v)
	case uint64:
		n = float64(v)
	case float32:
		n = float64(v)
	case float64:
		n = v
	case stdjson.Number:
		f, err := v.Float64()
		if err != nil {
			return 0, fmt.Errorf("Int cannot represent non-integer value: %v", value)
		}
		n = f
	default:
		return 0, fmt.Errorf("Int cannot represent non-integer value: %v", value)
	}

	if n != math.Trunc(n) || math.IsInf(n, 0) || math.IsNaN(n) {
		return 0, fmt.Errorf("Int cannot represent non-integer value: %v", value)
	}
	if n > math.MaxInt32 || n < math.MinInt32 {
		return 0, fmt.Errorf("Int cannot represent non 32-bit signed integer value: %v", value)
	}
	return int(n), nil
}

// coerceFloat converts a numeric input to a GraphQL Float.
func coerceFloat(value interface{}) (float64, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case stdjson.Number:
		return v.Float64()
	}
	if n, err := coerceInt(value); err == nil {
		return float64(n), nil
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), nil
	}
	return 0, fmt.Errorf("Float cannot represent non numeric value: %v", value)
}
