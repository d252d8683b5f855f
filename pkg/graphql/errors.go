package graphql

import (
	"errors"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"
)

// Error codes reported in the "code" error extension.
const (
	CodeParseFailed      = "GRAPHQL_PARSE_FAILED"
	CodeValidationFailed = "GRAPHQL_VALIDATION_FAILED"
	CodeBadUserInput     = "BAD_USER_INPUT"
	CodeInternal         = "INTERNAL_SERVER_ERROR"
)

// Coder is implemented by resolver errors that carry a machine-readable code.
type Coder interface {
	Code() string
}

// fromGQLErrors converts gqlparser errors to response errors.
func fromGQLErrors(list gqlerror.List, code string) []GraphQLError {
	out := make([]GraphQLError, 0, len(list))
	for _, err := range list {
		if err == nil {
			continue
		}
		gqlErr := GraphQLError{
			Message:    err.Message,
			Extensions: map[string]interface{}{"code": code},
		}
		for _, loc := range err.Locations {
			gqlErr.Locations = append(gqlErr.Locations, GraphQLErrorLocation{Line: loc.Line, Column: loc.Column})
		}
		out = append(out, gqlErr)
	}
	return out
}

// fieldError converts an error raised while resolving field into a response
// error located at the field and tagged with its response path.
func fieldError(err error, field *ast.Field, path []interface{}) *GraphQLError {
	var gqlErr *GraphQLError
	if errors.As(err, &gqlErr) {
		out := *gqlErr
		if out.Path == nil {
			out.Path = copyPath(path)
		}
		if out.Locations == nil {
			out.Locations = fieldLocations(field)
		}
		return &out
	}

	out := &GraphQLError{
		Message:   err.Error(),
		Path:      copyPath(path),
		Locations: fieldLocations(field),
	}
	var coder Coder
	if errors.As(err, &coder) {
		out.Extensions = map[string]interface{}{"code": coder.Code()}
	}
	return out
}

func fieldLocations(field *ast.Field) []GraphQLErrorLocation {
	if field == nil || field.Position == nil {
		return nil
	}
	return []GraphQLErrorLocation{{Line: field.Position.Line, Column: field.Position.Column}}
}

func copyPath(path []interface{}) []interface{} {
	if path == nil {
		return nil
	}
	return append([]interface{}(nil), path...)
}

func appendPath(path []interface{}, key interface{}) []interface{} {
	out := make([]interface{}, len(path), len(path)+1)
	copy(out, path)
	return append(out, key)
}
