package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/parthos/desktop/backend/internal/domain/ai"
	"github.com/parthos/desktop/backend/internal/domain/desktop"
	"github.com/parthos/desktop/backend/internal/infrastructure/config"
	"github.com/parthos/desktop/backend/internal/infrastructure/logging"
	"github.com/parthos/desktop/backend/internal/providers/gemini"
	"github.com/parthos/desktop/backend/internal/tui"
)

// eventBuffer bounds the events queued for the UI; extra events are dropped
// and the next redraw catches up.
const eventBuffer = 256

var rootCmd = &cobra.Command{
	Use:   "parthos",
	Short: "ParthOS desktop in the terminal",
	Long: `parthos runs the portfolio desktop as a full-screen terminal app.

Generation panels and the terminal's web query use AI_API_KEY when set.
Logs go to a file so they do not draw over the screen.`,
	SilenceUsage: true,
	RunE:         run,
}

var (
	logFile  string
	logLevel string
	noMouse  bool
)

func init() {
	rootCmd.Flags().StringVar(&logFile, "log-file", filepath.Join(os.TempDir(), "parthos-desktop.log"), "Log file path")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	rootCmd.Flags().BoolVar(&noMouse, "no-mouse", false, "Disable mouse support")
}

func run(cmd *cobra.Command, args []string) error {
	logCfg := logging.TUIConfig(logLevel)
	logCfg.OutputPaths = []string{logFile}
	logger, err := logging.New(logCfg)
	if err != nil {
		return fmt.Errorf("failed to open log: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	var remote ai.Collaborator = ai.Unavailable{}
	if client, err := gemini.New(cfg.AI, gemini.WithLogger(logger.Named("gemini").Logger)); err != nil {
		logger.Info("Generation service disabled", zap.Error(err))
	} else {
		remote = client
	}

	events := make(chan desktop.Event, eventBuffer)
	d := desktop.New(nil, remote,
		desktop.WithLogger(logger.Named("desktop").Logger),
		desktop.WithCloseDelay(cfg.Desktop.CloseDelay),
		desktop.WithPollInterval(cfg.AI.PollInterval),
		desktop.WithEvents(func(ev desktop.Event) {
			select {
			case events <- ev:
			default:
			}
		}),
	)
	defer d.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()

	model := tui.New(d, events,
		tui.WithLogger(logger.Named("tui").Logger),
		tui.WithContext(ctx),
	)
	opts := []tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}
	if !noMouse {
		opts = append(opts, tea.WithMouseCellMotion())
	}

	logger.Info("Desktop started", zap.Int("apps", d.Catalog().Len()))
	if _, err := tea.NewProgram(model, opts...).Run(); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
