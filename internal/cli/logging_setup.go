package cli

import (
	"github.com/spf13/cobra"

	"github.com/rshade/ecoscore/internal/config"
	"github.com/rshade/ecoscore/internal/logging"
)

// setupLogging configures logging from the loaded config and CLI flags and
// stores the logger and config in the command context.
func setupLogging(cmd *cobra.Command, cfg *config.Config) {
	loggingCfg := cfg.Logging.ToLoggingConfig()

	debug, _ := cmd.Flags().GetBool("debug")
	if debug {
		loggingCfg.Level = "debug"
		loggingCfg.Format = logging.FormatConsole
		loggingCfg.Output = logging.OutputStderr
		loggingCfg.File = ""
	}

	logger = logging.ComponentLogger(logging.NewLogger(loggingCfg), "cli")

	ctx := cmd.Context()
	requestID := logging.GetOrGenerateRequestID(ctx)
	ctx = logging.ContextWithRequestID(ctx, requestID)
	ctx = logger.WithContext(ctx)
	ctx = contextWithConfig(ctx, cfg)
	cmd.SetContext(ctx)

	logger.Debug().Ctx(ctx).
		Str("command", cmd.Name()).
		Str("request_id", requestID).
		Msg("command started")
}
