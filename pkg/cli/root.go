package cli

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/getmockd/libraryql/pkg/config"
	"github.com/getmockd/libraryql/pkg/library"
	"github.com/getmockd/libraryql/pkg/logging"
)

var (
	// Version is injected during build
	Version = "dev"
	// Commit is injected during build
	Commit = "none"
	// BuildDate is injected during build
	BuildDate = "unknown"
)

// rootOptions holds the persistent flags shared by every subcommand.
type rootOptions struct {
	configFile string
	jsonOutput bool
}

// rootFlagKeys maps persistent flags to config keys.
var rootFlagKeys = map[string]string{
	"log-level":  config.KeyLogLevel,
	"log-format": config.KeyLogFormat,
}

// NewRootCmd builds the libraryql command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "libraryql",
		Short: "libraryql serves an in-memory library of authors and books over GraphQL",
		Long: `libraryql serves an in-memory library of authors and books over GraphQL.

Configuration can be provided via flags, LIBRARYQL_* environment variables, or a
YAML configuration file. By default, libraryql looks for ./libraryql.yaml.`,
		// No Run function here means 'libraryql' with no args will print help text by default.
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.configFile, "config", "c", "", "Path to YAML config file")
	pf.String("log-level", "info", "Log level (debug, info, warn, error)")
	pf.String("log-format", "text", "Log format (text, json)")
	pf.BoolVar(&opts.jsonOutput, "json", false, "Output command results in JSON format")

	cmd.AddCommand(
		newServeCmd(opts),
		newSchemaCmd(opts),
		newQueryCmd(opts),
		newVersionCmd(opts),
	)
	return cmd
}

// Execute runs the root command and exits non-zero on failure.
// This is called by main.main().
func Execute() {
	if err := NewRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// loadConfig layers the config file, environment and the command's flags
// (mapped through keys) and returns the validated result.
func loadConfig(cmd *cobra.Command, opts *rootOptions, keys map[string]string, adjust ...func(*viper.Viper)) (*config.Config, error) {
	v := config.New()
	if err := config.ReadFile(v, opts.configFile); err != nil {
		return nil, err
	}

	all := maps.Clone(rootFlagKeys)
	maps.Copy(all, keys)
	if err := config.BindFlags(v, cmd.Flags(), all); err != nil {
		return nil, err
	}
	for _, fn := range adjust {
		fn(v)
	}

	cfg, err := config.Load(v)
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// newLogger builds the operational logger writing to the command's stderr.
func newLogger(cmd *cobra.Command, cfg *config.Config) *slog.Logger {
	logCfg := cfg.Log.Logging()
	logCfg.Output = cmd.ErrOrStderr()
	return logging.New(logCfg)
}

// loadStore returns a store holding the seed file's records, or the built-in
// library when path is empty.
func loadStore(path string) (*library.Store, error) {
	if path == "" {
		return library.NewSeededStore(), nil
	}
	seed, err := library.LoadSeedFile(path)
	if err != nil {
		return nil, err
	}
	return library.NewStore(seed), nil
}
