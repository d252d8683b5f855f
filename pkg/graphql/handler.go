package graphql

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/vektah/gqlparser/v2/ast"

	"github.com/getmockd/libraryql/pkg/logging"
)

// MaxRequestBodySize is the maximum allowed request body size (1MB).
const MaxRequestBodySize = 1 << 20 // 1MB

// MaxLogBodySize is the maximum query size to include in logs (10KB).
const MaxLogBodySize = 10 * 1024

// Handler handles GraphQL HTTP requests.
type Handler struct {
	executor *Executor
	config   *GraphQLConfig
	log      *slog.Logger
}

// NewHandler creates a new GraphQL HTTP handler.
func NewHandler(executor *Executor, config *GraphQLConfig) *Handler {
	if config == nil {
		config = executor.config
	}
	return &Handler{
		executor: executor,
		config:   config,
		log:      slog.New(slog.DiscardHandler),
	}
}

// SetLogger sets the logger for this handler and its executor.
func (h *Handler) SetLogger(log *slog.Logger) {
	if log == nil {
		return
	}
	h.log = log
	h.executor.SetLogger(log)
}

// Executor returns the executor behind the handler.
func (h *Handler) Executor() *Executor {
	return h.executor
}

// Pattern returns the URL pattern this handler serves.
func (h *Handler) Pattern() string {
	if h.config == nil || h.config.Path == "" {
		return "/graphql"
	}
	return h.config.Path
}

// ServeHTTP handles GET and POST requests to the GraphQL endpoint.
// POST accepts application/json and application/graphql bodies.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Handle preflight requests (CORS headers are set by middleware)
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}

	if r.Method != http.MethodPost && r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET, POST, OPTIONS")
		h.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if r.Method == http.MethodGet && h.config.GraphiQL && r.URL.Query().Get("query") == "" && acceptsHTML(r) {
		h.serveGraphiQL(w)
		return
	}

	var (
		req *GraphQLRequest
		err error
	)
	if r.Method == http.MethodGet {
		req, err = h.parseGetRequest(r)
	} else {
		req, err = h.parsePostRequest(r)
	}
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	log := logging.FromContext(r.Context(), h.log)
	prepared, errResp := h.executor.prepare(req)
	if errResp != nil {
		log.Debug("graphql request rejected",
			"operation", detectOperationType(req.Query),
			"errors", len(errResp.Errors),
			"query", truncate(req.Query, MaxLogBodySize))
		h.writeResponse(w, http.StatusOK, errResp)
		return
	}

	if r.Method == http.MethodGet && prepared.op.Operation != ast.Query {
		w.Header().Set("Allow", "POST")
		h.writeError(w, http.StatusMethodNotAllowed, "can only perform a "+string(prepared.op.Operation)+" operation from a POST request")
		return
	}

	resp := h.executor.run(r.Context(), prepared)
	if resp.HasErrors() {
		log.Debug("graphql request completed with errors",
			"operation", string(prepared.op.Operation),
			"operationName", prepared.op.Name,
			"errors", len(resp.Errors))
	}
	h.writeResponse(w, http.StatusOK, resp)
}

// acceptsHTML reports whether the client prefers an HTML response.
func acceptsHTML(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}

// parseGetRequest parses a GraphQL request from GET query parameters.
func (h *Handler) parseGetRequest(r *http.Request) (*GraphQLRequest, error) {
	query := r.URL.Query()

	req := &GraphQLRequest{
		Query:         query.Get("query"),
		OperationName: query.Get("operationName"),
	}
	if req.Query == "" {
		return nil, &parseError{message: "missing query parameter"}
	}

	// Parse variables if provided
	if varsStr := query.Get("variables"); varsStr != "" {
		var variables map[string]interface{}
		if err := json.Unmarshal([]byte(varsStr), &variables); err != nil {
			return nil, &parseError{message: "invalid variables JSON"}
		}
		req.Variables = variables
	}

	return req, nil
}

// parsePostRequest parses a GraphQL request from a POST body.
func (h *Handler) parsePostRequest(r *http.Request) (*GraphQLRequest, error) {
	limit := h.config.MaxBodySize
	if limit <= 0 {
		limit = MaxRequestBodySize
	}

	defer func() { _ = r.Body.Close() }()
	body, err := io.ReadAll(io.LimitReader(r.Body, limit+1))
	if err != nil {
		return nil, &parseError{message: "failed to read request body"}
	}
	if int64(len(body)) > limit {
		return nil, &parseError{message: "request body too large"}
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, &parseError{message: "empty request body"}
	}

	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/graphql") {
		return &GraphQLRequest{Query: string(body)}, nil
	}

	// Default to application/json
	var req GraphQLRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, &parseError{message: "invalid JSON request body"}
	}
	return &req, nil
}

// writeError writes an error-only response with the given status.
func (h *Handler) writeError(w http.ResponseWriter, statusCode int, message string) {
	h.writeResponse(w, statusCode, &GraphQLResponse{
		Errors: []GraphQLError{{Message: message}},
	})
}

// writeResponse encodes a GraphQL response.
func (h *Handler) writeResponse(w http.ResponseWriter, statusCode int, resp *GraphQLResponse) {
	body, err := json.Marshal(resp)
	if err != nil {
		h.log.Error("failed to encode graphql response", "error", err)
		statusCode = http.StatusInternalServerError
		body = []byte(`{"errors":[{"message":"failed to encode response"}]}`)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_, _ = w.Write(body)
}

// detectOperationType detects the GraphQL operation type from a query string
// for logging, without parsing it.
func detectOperationType(query string) string {
	query = strings.TrimSpace(query)

	// Handle shorthand query syntax (no "query" keyword)
	if strings.HasPrefix(query, "{") {
		return "query"
	}

	queryLower := strings.ToLower(query)
	if strings.HasPrefix(queryLower, "mutation") {
		return "mutation"
	}
	if strings.HasPrefix(queryLower, "subscription") {
		return "subscription"
	}
	return "query"
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "...[truncated]"
}

// parseError represents a request parsing error.
type parseError struct {
	message string
}

func (e *parseError) Error() string {
	return e.message
}

// Endpoint creates a GraphQL handler for a schema and configuration after
// checking that the configured resolvers and models agree with the schema.
func Endpoint(schema *Schema, config *GraphQLConfig) (*Handler, error) {
	if schema == nil {
		return nil, errors.New("graphql: schema is required")
	}
	if config == nil {
		config = &GraphQLConfig{}
	}

	executor := NewExecutor(schema, config)
	if err := executor.Validate(); err != nil {
		return nil, err
	}
	return NewHandler(executor, config), nil
}
