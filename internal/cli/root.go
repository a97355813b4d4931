package cli

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/rshade/ecoscore/internal/config"
)

// isTerminal checks if the given file is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// logger is the package-level logger for CLI operations.
var logger zerolog.Logger //nolint:gochecknoglobals // Required for zerolog context integration

type configKey struct{}

// contextWithConfig stores the loaded configuration for subcommands.
func contextWithConfig(ctx context.Context, cfg *config.Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

// configFromContext returns the loaded configuration, or the defaults when
// the root pre-run did not execute.
func configFromContext(ctx context.Context) *config.Config {
	if ctx != nil {
		if cfg, ok := ctx.Value(configKey{}).(*config.Config); ok && cfg != nil {
			return cfg
		}
	}
	return config.Default()
}

// NewRootCmd creates the root Cobra command for the ecoscore CLI.
// It loads configuration, wires up logging and registers the serve,
// report, catalog and version subcommands.
func NewRootCmd(ver string) *cobra.Command {
	var cfgFile string

	cmd := &cobra.Command{
		Use:           "ecoscore",
		Short:         "Sustainability report engine",
		Long:          "ecoscore: score construction projects on materials, transport and energy and suggest improvements",
		Version:       ver,
		Example:       rootCmdExample,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return err
			}
			setupLogging(cmd, cfg)
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ./ecoscore.yaml or ~/.ecoscore/ecoscore.yaml)")
	cmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	cmd.AddCommand(NewServeCmd(), NewReportCmd(), NewCatalogCmd(), NewVersionCmd())

	return cmd
}

const rootCmdExample = `  # Start the HTTP API on :8080
  ecoscore serve

  # Serve with a footprint catalog
  ecoscore serve --addr :9090 --catalog ~/.ecoscore/catalog.db

  # Generate a detailed report from a YAML project file
  ecoscore report --input project.yaml --format detailed --output text

  # Import materials into the catalog
  ecoscore catalog import --db catalog.db --input materials.json

  # List catalog materials, largest footprint first
  ecoscore catalog list --db catalog.db --sort embodiedCarbon:desc`
