package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rshade/pagedview/internal/config"
	"github.com/rshade/pagedview/internal/logging"
	"github.com/rshade/pagedview/internal/tui"
)

// setupLogging configures logging from the loaded config and CLI flags, and
// stores the logger and a trace ID in the command context.
func setupLogging(cmd *cobra.Command) logging.LogPathResult {
	loggingCfg := config.GetLoggingConfig()

	debug, _ := cmd.Flags().GetBool("debug")
	if debug {
		loggingCfg.Level = "debug"
		loggingCfg.Format = "console"
	}

	var logCfg logging.Config
	if ownsTerminal(cmd) {
		logCfg = loggingCfg.ToTUILoggingConfig(debug)
	} else {
		if debug {
			loggingCfg.File = ""
		}
		logCfg = loggingCfg.ToLoggingConfig()
	}

	// Ensure log directory exists after all overrides have been applied.
	if logCfg.File != "" {
		if err := config.EnsureLogDir(); err != nil {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Warning: could not create log directory: %v\n", err)
		}
	}

	result := logging.NewLoggerWithPath(logCfg)
	logger = logging.ComponentLogger(result.Logger, "cli")

	if result.UsingFile && !ownsTerminal(cmd) {
		logging.PrintLogPathMessage(cmd.ErrOrStderr(), result.FilePath)
	} else if result.FallbackUsed {
		logging.PrintFallbackWarning(cmd.ErrOrStderr(), result.FallbackReason)
	}

	ctx := cmd.Context()
	traceID := logging.GetOrGenerateTraceID(ctx)
	ctx = logging.ContextWithTraceID(ctx, traceID)
	ctx = logger.WithContext(ctx)
	cmd.SetContext(ctx)

	logger.Debug().Ctx(ctx).Str("trace_id", traceID).Str("command", cmd.Name()).Msg("command started")

	return result
}

// ownsTerminal reports whether cmd will run the full-screen browser.
func ownsTerminal(cmd *cobra.Command) bool {
	if cmd.Annotations[annotationOwnsTerminal] != "true" {
		return false
	}
	plain, _ := cmd.Flags().GetBool("plain")
	return tui.DetectOutputMode(false, false, plain) == tui.OutputModeInteractive
}

// cleanupLogging closes the log file handle, if any.
func cleanupLogging(logResult *logging.LogPathResult) error {
	if logResult != nil {
		return logResult.Close()
	}
	return nil
}
