package cli

import (
	"fmt"
	"io"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/getmockd/libraryql/pkg/cli/internal/parse"
	"github.com/getmockd/libraryql/pkg/cli/internal/ports"
	"github.com/getmockd/libraryql/pkg/config"
	"github.com/getmockd/libraryql/pkg/library"
	"github.com/getmockd/libraryql/pkg/server"
)

// serveFlagKeys maps serve flags to config keys.
var serveFlagKeys = map[string]string{
	"host":             config.KeyServerHost,
	"port":             config.KeyServerPort,
	"path":             config.KeyServerPath,
	"read-timeout":     config.KeyServerReadTimeout,
	"write-timeout":    config.KeyServerWriteTimeout,
	"shutdown-timeout": config.KeyServerShutdownTimeout,
	"max-body-size":    config.KeyServerMaxBodySize,
	"cors":             config.KeyCORSEnabled,
	"introspection":    config.KeyIntrospection,
	"graphiql":         config.KeyGraphiQL,
	"seed":             config.KeySeedFile,
}

func newServeCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the GraphQL server (foreground)",
		Long: `Start the GraphQL server. The store starts with the built-in library (or the
--seed file) on every run; changes made through mutations are not persisted.

The server stops gracefully on SIGINT or SIGTERM.`,
		Example: `  # Start with defaults on port 5000
  libraryql serve

  # Custom port, JSON logs
  libraryql serve --port 8080 --log-format json

  # Start from a different seed and allow any browser origin
  libraryql serve --seed ./library.yaml --cors-origins '*'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.String("host", "", "Interface to listen on (default all)")
	f.IntP("port", "p", config.DefaultPort, "HTTP server port")
	f.String("path", "/graphql", "GraphQL endpoint path")
	f.Duration("read-timeout", 0, "HTTP read timeout (default from config)")
	f.Duration("write-timeout", 0, "HTTP write timeout (default from config)")
	f.Duration("shutdown-timeout", 0, "Graceful shutdown timeout (default from config)")
	f.Int64("max-body-size", 0, "Maximum GraphQL request body in bytes (default from config)")
	f.Bool("cors", true, "Add CORS headers for allowed origins")
	f.String("cors-origins", "", "Comma-separated allowed CORS origins (* for any)")
	f.Bool("introspection", true, "Allow schema introspection")
	f.Bool("graphiql", true, "Serve GraphiQL to browsers at the GraphQL path")
	f.String("seed", "", "YAML seed file (default built-in library)")

	return cmd
}

func runServe(cmd *cobra.Command, opts *rootOptions) error {
	cfg, err := loadConfig(cmd, opts, serveFlagKeys, func(v *viper.Viper) {
		if f := cmd.Flags().Lookup("cors-origins"); f != nil && f.Changed {
			v.Set(config.KeyCORSAllowOrigins, parse.SplitTrim(f.Value.String(), ","))
		}
	})
	if err != nil {
		return err
	}
	log := newLogger(cmd, cfg)

	if err := ports.Check(cfg.Server.Host, cfg.Server.Port); err != nil {
		return err
	}

	store, err := loadStore(cfg.Seed.File)
	if err != nil {
		return err
	}

	srv, err := server.New(cfg, store)
	if err != nil {
		return err
	}
	srv.SetLogger(log)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	printServeStartupMessage(cmd.OutOrStdout(), cfg, store)
	return srv.Run(ctx)
}

func printServeStartupMessage(w io.Writer, cfg *config.Config, store *library.Store) {
	host := cfg.Server.Host
	if host == "" {
		host = "localhost"
	}
	url := "http://" + net.JoinHostPort(host, strconv.Itoa(cfg.Server.Port)) + cfg.Server.Path
	authors, books := store.Counts()

	fmt.Fprintf(w, "libraryql %s\n", Version)
	fmt.Fprintf(w, "  GraphQL:  %s\n", url)
	if cfg.GraphQL.GraphiQL {
		fmt.Fprintf(w, "  GraphiQL: %s (open in a browser)\n", url)
	}
	fmt.Fprintf(w, "  Library:  %d authors, %d books\n", authors, books)
	fmt.Fprintln(w, "Press Ctrl+C to stop")
}
