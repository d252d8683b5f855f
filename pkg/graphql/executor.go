package graphql

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"
	"github.com/vektah/gqlparser/v2/parser"
	"github.com/vektah/gqlparser/v2/validator"
)

// Executor executes GraphQL operations against registered resolvers.
type Executor struct {
	schema    *Schema
	config    *GraphQLConfig
	resolvers Resolvers
	models    map[string]reflect.Type
	log       *slog.Logger
}

// NewExecutor creates a new GraphQL executor with the given schema and configuration.
func NewExecutor(schema *Schema, config *GraphQLConfig) *Executor {
	if config == nil {
		config = &GraphQLConfig{}
	}

	e := &Executor{
		schema:    schema,
		config:    config,
		resolvers: make(Resolvers, len(config.Resolvers)),
		models:    make(map[string]reflect.Type, len(config.Models)),
		log:       slog.New(slog.DiscardHandler),
	}

	for path, fn := range config.Resolvers {
		e.resolvers[path] = fn
	}
	for typeName, sample := range config.Models {
		t := reflect.TypeOf(sample)
		for t != nil && t.Kind() == reflect.Pointer {
			t = t.Elem()
		}
		e.models[typeName] = t
	}

	return e
}

// SetLogger sets the logger used to report resolver failures.
func (e *Executor) SetLogger(log *slog.Logger) {
	if log != nil {
		e.log = log
	}
}

// Schema returns the schema the executor runs against.
func (e *Executor) Schema() *Schema {
	return e.schema
}

// preparedOperation is a parsed, validated operation with coerced variables.
type preparedOperation struct {
	doc       *ast.QueryDocument
	op        *ast.OperationDefinition
	variables map[string]interface{}
}

// Execute executes a GraphQL request and returns a response.
func (e *Executor) Execute(ctx context.Context, req *GraphQLRequest) *GraphQLResponse {
	prepared, errResp := e.prepare(req)
	if errResp != nil {
		return errResp
	}
	return e.run(ctx, prepared)
}

// prepare parses and validates the request and selects the operation to run.
func (e *Executor) prepare(req *GraphQLRequest) (*preparedOperation, *GraphQLResponse) {
	if req == nil || req.Query == "" {
		return nil, errorResponse(GraphQLError{Message: "query is required"})
	}

	doc, errs := e.parseQuery(req.Query)
	if len(errs) > 0 {
		return nil, &GraphQLResponse{Errors: errs}
	}

	op := doc.Operations.ForName(req.OperationName)
	if op == nil {
		if req.OperationName != "" {
			return nil, errorResponse(GraphQLError{Message: fmt.Sprintf("operation %q not found", req.OperationName)})
		}
		if len(doc.Operations) > 1 {
			return nil, errorResponse(GraphQLError{Message: "operationName is required when the document contains multiple operations"})
		}
		return nil, errorResponse(GraphQLError{Message: "no operation found in query"})
	}

	if op.Operation == ast.Subscription {
		return nil, errorResponse(GraphQLError{Message: "subscriptions are not supported"})
	}

	variables, varErrs := e.coerceVariables(op, req.Variables)
	if len(varErrs) > 0 {
		resp := &GraphQLResponse{Errors: make([]GraphQLError, len(varErrs))}
		for i, err := range varErrs {
			resp.Errors[i] = *err
		}
		return nil, resp
	}

	return &preparedOperation{doc: doc, op: op, variables: variables}, nil
}

func errorResponse(err GraphQLError) *GraphQLResponse {
	return &GraphQLResponse{Errors: []GraphQLError{err}}
}

// parseQuery parses and validates a GraphQL query against the schema.
func (e *Executor) parseQuery(query string) (*ast.QueryDocument, []GraphQLError) {
	doc, err := parser.ParseQuery(&ast.Source{Name: "query", Input: query})
	if err != nil {
		var gqlErr *gqlerror.Error
		if errors.As(err, &gqlErr) {
			return nil, fromGQLErrors(gqlerror.List{gqlErr}, CodeParseFailed)
		}
		return nil, []GraphQLError{{
			Message:    err.Error(),
			Extensions: map[string]interface{}{"code": CodeParseFailed},
		}}
	}

	if validationErrs := validator.Validate(e.schema.AST(), doc); len(validationErrs) > 0 {
		return nil, fromGQLErrors(validationErrs, CodeValidationFailed)
	}

	return doc, nil
}

// executionContext holds the state of a single operation run.
type executionContext struct {
	ctx       context.Context
	e         *Executor
	doc       *ast.QueryDocument
	variables map[string]interface{}
	errors    []GraphQLError
}

// run executes a prepared operation.
func (e *Executor) run(ctx context.Context, prepared *preparedOperation) *GraphQLResponse {
	root := e.schema.RootType(prepared.op.Operation)
	if root == nil {
		return errorResponse(GraphQLError{Message: fmt.Sprintf("schema does not define a %s type", prepared.op.Operation)})
	}

	ec := &executionContext{
		ctx:       ctx,
		e:         e,
		doc:       prepared.doc,
		variables: prepared.variables,
	}

	// Root fields run one after another in document order, which is the
	// required behavior for mutations and harmless for queries.
	data, err := ec.executeFields(root, nil, prepared.op.SelectionSet, nil)
	if err != nil {
		ec.addError(err)
	}

	return &GraphQLResponse{Data: data, Errors: ec.errors}
}

func (ec *executionContext) addError(err *GraphQLError) {
	ec.errors = append(ec.errors, *err)
}

// fieldGroup is the set of fields sharing one response key.
type fieldGroup struct {
	key    string
	fields []*ast.Field
}

// collectFields flattens fragments and groups fields by response key,
// honoring @skip and @include.
func (ec *executionContext) collectFields(objType *ast.Definition, selections ast.SelectionSet, groups []*fieldGroup, index map[string]int, visited map[string]bool) []*fieldGroup {
	for _, sel := range selections {
		switch s := sel.(type) {
		case *ast.Field:
			if !ec.shouldInclude(s.Directives) {
				continue
			}
			key := s.Alias
			if key == "" {
				key = s.Name
			}
			if i, ok := index[key]; ok {
				groups[i].fields = append(groups[i].fields, s)
				continue
			}
			index[key] = len(groups)
			groups = append(groups, &fieldGroup{key: key, fields: []*ast.Field{s}})

		case *ast.FragmentSpread:
			if visited[s.Name] || !ec.shouldInclude(s.Directives) {
				continue
			}
			visited[s.Name] = true
			frag := s.Definition
			if frag == nil && ec.doc != nil {
				frag = ec.doc.Fragments.ForName(s.Name)
			}
			if frag == nil || !ec.e.schema.PossibleType(frag.TypeCondition, objType.Name) {
				continue
			}
			groups = ec.collectFields(objType, frag.SelectionSet, groups, index, visited)

		case *ast.InlineFragment:
			if !ec.shouldInclude(s.Directives) || !ec.e.schema.PossibleType(s.TypeCondition, objType.Name) {
				continue
			}
			groups = ec.collectFields(objType, s.SelectionSet, groups, index, visited)
		}
	}
	return groups
}

// shouldInclude evaluates the @skip and @include directives.
func (ec *executionContext) shouldInclude(directives ast.DirectiveList) bool {
	if d := directives.ForName("skip"); d != nil {
		if arg := d.Arguments.ForName("if"); arg != nil {
			if skip, _ := ec.e.resolveValue(arg.Value, ec.variables).(bool); skip {
				return false
			}
		}
	}
	if d := directives.ForName("include"); d != nil {
		if arg := d.Arguments.ForName("if"); arg != nil {
			if include, _ := ec.e.resolveValue(arg.Value, ec.variables).(bool); !include {
				return false
			}
		}
	}
	return true
}

// executeFields resolves a selection set against a value of objType. A
// non-nil error means a non-null field failed and the whole object must be
// null.
func (ec *executionContext) executeFields(objType *ast.Definition, source interface{}, selections ast.SelectionSet, path []interface{}) (*Object, *GraphQLError) {
	groups := ec.collectFields(objType, selections, nil, make(map[string]int), make(map[string]bool))

	result := NewObject()
	for _, g := range groups {
		value, err := ec.executeField(objType, source, g.fields, appendPath(path, g.key))
		if err != nil {
			return nil, err
		}
		result.Set(g.key, value)
	}
	return result, nil
}

// executeField resolves and completes one response key.
func (ec *executionContext) executeField(objType *ast.Definition, source interface{}, fields []*ast.Field, path []interface{}) (interface{}, *GraphQLError) {
	field := fields[0]

	switch field.Name {
	case "__typename":
		return objType.Name, nil
	case "__schema", "__type":
		if objType == ec.e.schema.AST().Query {
			return ec.executeIntrospectionField(field, path)
		}
	}

	def := objType.Fields.ForName(field.Name)
	if def == nil {
		return nil, fieldError(fmt.Errorf("cannot query field %q on type %q", field.Name, objType.Name), field, path)
	}

	if err := ec.ctx.Err(); err != nil {
		return ec.handleFieldError(def.Type, fieldError(errors.New("request cancelled"), field, path))
	}

	args, err := ec.e.extractArguments(field, def, ec.variables)
	if err != nil {
		return ec.handleFieldError(def.Type, fieldError(err, field, path))
	}

	value, err := ec.resolve(objType, def, source, field, args, path)
	if err != nil {
		ec.e.log.Debug("resolver failed", "field", objType.Name+"."+def.Name, "path", path, "error", err)
		return ec.handleFieldError(def.Type, fieldError(err, field, path))
	}

	completed, gqlErr := ec.completeValue(def.Type, objType.Name+"."+def.Name, fields, path, value)
	if gqlErr != nil {
		return ec.handleFieldError(def.Type, gqlErr)
	}
	return completed, nil
}

// handleFieldError records the error when the field is nullable and
// propagates it otherwise.
func (ec *executionContext) handleFieldError(t *ast.Type, err *GraphQLError) (interface{}, *GraphQLError) {
	if t.NonNull {
		return nil, err
	}
	ec.addError(err)
	return nil, nil
}

// resolve invokes the registered resolver for the field, falling back to
// reading the field from the source value.
func (ec *executionContext) resolve(objType *ast.Definition, def *ast.FieldDefinition, source interface{}, field *ast.Field, args map[string]interface{}, path []interface{}) (value interface{}, err error) {
	key := FieldPath{TypeName: objType.Name, FieldName: def.Name}.String()

	defer func() {
		if r := recover(); r != nil {
			value = nil
			err = fmt.Errorf("internal error resolving %s: %v", key, r)
			ec.e.log.Error("resolver panic", "field", key, "panic", r)
		}
	}()

	if fn, ok := ec.e.resolvers[key]; ok {
		return fn(ec.ctx, ResolveParams{
			Source:     source,
			Args:       args,
			Field:      field,
			ParentType: objType,
			Path:       copyPath(path),
		})
	}
	return defaultResolve(source, def.Name)
}

// completeValue shapes a resolved value according to its schema type.
func (ec *executionContext) completeValue(t *ast.Type, label string, fields []*ast.Field, path []interface{}, value interface{}) (interface{}, *GraphQLError) {
	if t.NonNull {
		inner := *t
		inner.NonNull = false
		completed, err := ec.completeValue(&inner, label, fields, path, value)
		if err != nil {
			return nil, err
		}
		if completed == nil {
			return nil, fieldError(fmt.Errorf("cannot return null for non-nullable field %s", label), fields[0], path)
		}
		return completed, nil
	}

	if isNil(value) {
		return nil, nil
	}

	if t.Elem != nil {
		return ec.completeList(t, label, fields, path, value)
	}

	def := ec.e.schema.GetType(t.NamedType)
	if def == nil {
		return nil, fieldError(fmt.Errorf("unknown type %s", t.NamedType), fields[0], path)
	}

	switch def.Kind {
	case ast.Scalar, ast.Enum:
		out, err := ec.e.serializeLeaf(def, value)
		if err != nil {
			return nil, fieldError(err, fields[0], path)
		}
		return out, nil
	case ast.Object:
		return ec.completeObject(def, fields, path, value)
	case ast.Interface, ast.Union:
		objType, err := ec.e.resolveAbstractType(def, value)
		if err != nil {
			return nil, fieldError(err, fields[0], path)
		}
		return ec.completeObject(objType, fields, path, value)
	default:
		return nil, fieldError(fmt.Errorf("type %s cannot be used as an output type", def.Name), fields[0], path)
	}
}

func (ec *executionContext) completeList(t *ast.Type, label string, fields []*ast.Field, path []interface{}, value interface{}) (interface{}, *GraphQLError) {
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, fieldError(fmt.Errorf("expected a list for field %s, got %T", label, value), fields[0], path)
	}

	items := make([]interface{}, rv.Len())
	for i := range items {
		itemPath := appendPath(path, i)
		item, err := ec.completeValue(t.Elem, label, fields, itemPath, rv.Index(i).Interface())
		if err != nil {
			if t.Elem.NonNull {
				return nil, err
			}
			ec.addError(err)
			item = nil
		}
		items[i] = item
	}
	return items, nil
}

func (ec *executionContext) completeObject(objType *ast.Definition, fields []*ast.Field, path []interface{}, value interface{}) (interface{}, *GraphQLError) {
	var selections ast.SelectionSet
	for _, f := range fields {
		selections = append(selections, f.SelectionSet...)
	}
	obj, err := ec.executeFields(objType, value, selections, path)
	if err != nil {
		return nil, err
	}
	return obj, nil
}

// TypeNamer is implemented by values returned for interface or union fields
// to name their concrete object type.
type TypeNamer interface {
	GraphQLTypeName() string
}

// resolveAbstractType finds the concrete object type of a value returned for
// an interface or union field.
func (e *Executor) resolveAbstractType(abstract *ast.Definition, value interface{}) (*ast.Definition, error) {
	var name string
	if namer, ok := value.(TypeNamer); ok {
		name = namer.GraphQLTypeName()
	} else {
		t := reflect.TypeOf(value)
		for t.Kind() == reflect.Pointer {
			t = t.Elem()
		}
		for typeName, model := range e.models {
			if model == t {
				name = typeName
				break
			}
		}
	}

	if name == "" {
		return nil, fmt.Errorf("cannot determine the concrete type of %T for %s", value, abstract.Name)
	}
	def := e.schema.GetType(name)
	if def == nil || def.Kind != ast.Object || !e.schema.PossibleType(abstract.Name, name) {
		return nil, fmt.Errorf("type %s is not a possible type of %s", name, abstract.Name)
	}
	return def, nil
}

// isNil reports whether v is nil or a nil pointer, map, slice or interface.
func isNil(v interface{}) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}
