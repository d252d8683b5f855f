package cli

import (
	"fmt"
	"os"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"

	"github.com/getmockd/libraryql/pkg/api"
	"github.com/getmockd/libraryql/pkg/cli/internal/flags"
	"github.com/getmockd/libraryql/pkg/cli/internal/output"
	"github.com/getmockd/libraryql/pkg/cli/internal/parse"
	"github.com/getmockd/libraryql/pkg/config"
	"github.com/getmockd/libraryql/pkg/graphql"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// queryFlagKeys maps query flags to config keys.
var queryFlagKeys = map[string]string{
	"seed": config.KeySeedFile,
}

type queryOptions struct {
	variables string
	vars      flags.StringSlice
	operation string
}

func newQueryCmd(opts *rootOptions) *cobra.Command {
	qo := &queryOptions{}

	cmd := &cobra.Command{
		Use:   "query <document|@file>",
		Short: "Execute a GraphQL document against a fresh in-memory library",
		Long: `Execute a GraphQL document against a fresh in-memory library and print the
JSON response. Every invocation starts from the seed, so mutations only affect
the rest of the same document. Exits non-zero when the response has errors.`,
		Example: `  # Simple query
  libraryql query '{ authors { name books { name } } }'

  # Query with variables
  libraryql query 'query($id: Int) { book(id: $id) { name author { name } } }' --var id=4

  # Variables as JSON, document from a file
  libraryql query @mutation.graphql -v '{"id": 9, "name": "Dune", "authorId": 1}'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, opts, qo, args[0])
		},
	}

	f := cmd.Flags()
	f.StringVarP(&qo.variables, "variables", "v", "", "JSON object of variables")
	f.Var(&qo.vars, "var", "Variable as name=value (repeatable, value parsed as JSON when valid)")
	f.StringVarP(&qo.operation, "operation", "o", "", "Operation name for multi-operation documents")
	f.String("seed", "", "YAML seed file (default built-in library)")

	return cmd
}

func runQuery(cmd *cobra.Command, opts *rootOptions, qo *queryOptions, document string) error {
	cfg, err := loadConfig(cmd, opts, queryFlagKeys)
	if err != nil {
		return err
	}

	query, err := readDocument(document)
	if err != nil {
		return err
	}
	variables, err := qo.parseVariables()
	if err != nil {
		return err
	}

	store, err := loadStore(cfg.Seed.File)
	if err != nil {
		return err
	}
	exec, err := api.NewExecutor(store, api.Options{
		Path:          cfg.Server.Path,
		Introspection: cfg.GraphQL.Introspection,
	})
	if err != nil {
		return err
	}
	exec.SetLogger(newLogger(cmd, cfg))

	resp := exec.Execute(cmd.Context(), &graphql.GraphQLRequest{
		Query:         query,
		OperationName: qo.operation,
		Variables:     variables,
	})
	if err := output.JSON(cmd.OutOrStdout(), resp); err != nil {
		return err
	}
	if resp.HasErrors() {
		return fmt.Errorf("query returned %d error(s)", len(resp.Errors))
	}
	return nil
}

// readDocument returns the document itself, or the content of the file it
// names when prefixed with @.
func readDocument(arg string) (string, error) {
	path, ok := strings.CutPrefix(arg, "@")
	if !ok {
		return arg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read query file: %w", err)
	}
	return string(data), nil
}

// parseVariables merges --variables JSON with --var pairs; pairs win.
func (qo *queryOptions) parseVariables() (map[string]any, error) {
	vars := map[string]any{}
	if qo.variables != "" {
		if err := json.Unmarshal([]byte(qo.variables), &vars); err != nil {
			return nil, fmt.Errorf("invalid --variables JSON: %w", err)
		}
	}
	pairs, err := parse.Variables(qo.vars)
	if err != nil {
		return nil, err
	}
	for k, v := range pairs {
		vars[k] = v
	}
	if len(vars) == 0 {
		return nil, nil
	}
	return vars, nil
}
