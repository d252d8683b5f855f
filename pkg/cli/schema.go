package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/vektah/gqlparser/v2/ast"

	"github.com/getmockd/libraryql/pkg/api"
	"github.com/getmockd/libraryql/pkg/cli/internal/output"
	"github.com/getmockd/libraryql/pkg/library"
)

// SchemaSummary is the --check --json output of the schema command.
type SchemaSummary struct {
	Valid     bool     `json:"valid"`
	Types     []string `json:"types"`
	Queries   []string `json:"queries"`
	Mutations []string `json:"mutations"`
}

func newSchemaCmd(opts *rootOptions) *cobra.Command {
	var check bool

	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the GraphQL schema (SDL)",
		Example: `  # Print the SDL
  libraryql schema > schema.graphql

  # Check that every field is bound to a resolver or struct field
  libraryql schema --check`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := cmd.OutOrStdout()
			if !check {
				_, err := io.WriteString(w, api.SDL())
				return err
			}
			return runSchemaCheck(w, opts)
		},
	}

	cmd.Flags().BoolVar(&check, "check", false, "Validate resolvers against the schema and print a summary")
	return cmd
}

func runSchemaCheck(w io.Writer, opts *rootOptions) error {
	exec, err := api.NewExecutor(library.NewSeededStore(), api.DefaultOptions())
	if err != nil {
		return fmt.Errorf("schema check failed: %w", err)
	}

	schema := exec.Schema()
	types := lo.Filter(schema.ListTypes(ast.Object), func(name string, _ int) bool {
		return !strings.HasPrefix(name, "__")
	})
	summary := SchemaSummary{
		Valid:     true,
		Types:     types,
		Queries:   schema.ListQueries(),
		Mutations: schema.ListMutations(),
	}
	if opts.jsonOutput {
		return output.JSON(w, summary)
	}

	fmt.Fprintln(w, "Schema valid")
	tw := output.Table(w)
	fmt.Fprintf(tw, "  Types:\t%d\n", len(summary.Types))
	fmt.Fprintf(tw, "  Queries:\t%d\n", len(summary.Queries))
	fmt.Fprintf(tw, "  Mutations:\t%d\n", len(summary.Mutations))
	return tw.Flush()
}
