package graphql

import (
	"fmt"
	"math"
	"reflect"
	"strconv"

	"github.com/vektah/gqlparser/v2/ast"
)

// serializeLeaf converts a resolved Go value to the response representation
// of a scalar or enum type.
func (e *Executor) serializeLeaf(def *ast.Definition, value interface{}) (interface{}, error) {
	rv := reflect.ValueOf(value)
	for rv.Kind() == reflect.Pointer {
		rv = rv.Elem()
	}

	if def.Kind == ast.Enum {
		if rv.Kind() != reflect.String || def.EnumValues.ForName(rv.String()) == nil {
			return nil, fmt.Errorf("enum %s cannot represent value: %v", def.Name, value)
		}
		return rv.String(), nil
	}

	switch def.Name {
	case "Int":
		switch rv.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			n := rv.Int()
			if n > math.MaxInt32 || n < math.MinInt32 {
				return nil, fmt.Errorf("Int cannot represent non 32-bit signed integer value: %d", n)
			}
			return int(n), nil
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			n := rv.Uint()
			if n > math.MaxInt32 {
				return nil, fmt.Errorf("Int cannot represent non 32-bit signed integer value: %d", n)
			}
			return int(n), nil
		case reflect.Float32, reflect.Float64:
			return coerceInt(rv.Float())
		}
		return nil, fmt.Errorf("Int cannot represent non-integer value: %v", value)

	case "Float":
		switch rv.Kind() {
		case reflect.Float32, reflect.Float64:
			return rv.Float(), nil
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			return float64(rv.Int()), nil
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			return float64(rv.Uint()), nil
		}
		return nil, fmt.Errorf("Float cannot represent non numeric value: %v", value)

	case "String":
		switch rv.Kind() {
		case reflect.String:
			return rv.String(), nil
		case reflect.Bool:
			return strconv.FormatBool(rv.Bool()), nil
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			return strconv.FormatInt(rv.Int(), 10), nil
		}
		if s, ok := value.(fmt.Stringer); ok {
			return s.String(), nil
		}
		return nil, fmt.Errorf("String cannot represent value: %v", value)

	case "Boolean":
		if rv.Kind() == reflect.Bool {
			return rv.Bool(), nil
		}
		return nil, fmt.Errorf("Boolean cannot represent a non boolean value: %v", value)

	case "ID":
		switch rv.Kind() {
		case reflect.String:
			return rv.String(), nil
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			return strconv.FormatInt(rv.Int(), 10), nil
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			return strconv.FormatUint(rv.Uint(), 10), nil
		}
		return nil, fmt.Errorf("ID cannot represent value: %v", value)
	}

	// Custom scalars are written as-is.
	return value, nil
}
