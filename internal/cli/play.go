package cli

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/yildizm/Koryaku/internal/session"
	"github.com/yildizm/Koryaku/internal/ui"
)

func newPlayCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "play",
		Short: "Open the interactive strategy generator",
		Long: `Open the interactive strategy generator.

Fill in rotations, big wins, reel symbols and your area, then press enter to
generate a strategy and ctrl+y to copy it. This is also what running koryaku
without a subcommand does.`,
		RunE: runPlay,
	}
}

func runPlay(cmd *cobra.Command, args []string) error {
	cfg := GetGlobalConfig()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := newLogger()
	out, closeLog, err := openLogOutput(cfg.Output.LogFile)
	if err != nil {
		return err
	}
	defer closeLog()
	log.SetOutput(out)

	log.Info("starting interactive session with templates from %s", cfg.Templates.Source)

	return ui.Run(ctx, ui.Options{
		Source:    newSource(cfg),
		Symbols:   cfg.Inputs.Symbols,
		Areas:     cfg.Inputs.Areas,
		Session:   sessionOptions(cfg, log),
		Clipboard: session.SystemClipboard{},
		Logger:    log,
	})
}

// openLogOutput opens the log file for the interactive screen. Without one,
// logs are discarded so they cannot corrupt the alternate screen.
func openLogOutput(path string) (io.Writer, func(), error) {
	if path == "" {
		return io.Discard, func() {}, nil
	}

	expanded, err := validateFilePath(path)
	if err != nil {
		return nil, nil, err
	}

	// #nosec G304 - path validated above
	f, err := os.OpenFile(expanded, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}
