package cmd

import (
	"context"
	"os"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"flowdo/backend"
	"flowdo/internal/notification"
	"flowdo/internal/shutdown"
	"flowdo/internal/tui"
	"flowdo/internal/utils"
)

// cleanupTimeout bounds how long the TUI waits for its resources to close.
const cleanupTimeout = 5 * time.Second

// newTUICmd creates the 'tui' subcommand
func newTUICmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Launch the interactive terminal UI",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runTUI(cmd.Context())
		},
	}
}

func (a *app) runTUI(parent context.Context) error {
	mgr := shutdown.NewManager(parent)
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), cleanupTimeout)
		defer cancel()
		if err := mgr.Wait(ctx); err != nil {
			utils.Warnf("Shutdown did not finish: %v", err)
		}
	}()
	ctx := mgr.Context()

	status := tui.NewStatusChannel()
	sess, err := a.openSession(ctx, notification.WithChannel(status))
	if err != nil {
		return err
	}
	mgr.RegisterCleanup("session", func(context.Context) error {
		sess.Close()
		return nil
	})

	// The terminal belongs to bubbletea from here on.
	logPath := a.settings.Logging.TUIFile
	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err == nil {
		restore, err := utils.RedirectToFile(logPath)
		if err != nil {
			utils.Warnf("Could not open TUI log %s: %v", logPath, err)
		} else {
			mgr.RegisterCleanup("log", func(context.Context) error {
				restore()
				return nil
			})
		}
	}

	opts := []tui.Option{tui.WithStatusChannel(status), tui.WithContext(ctx)}
	if a.settings.IsWatchEnabled() {
		if w, ok := sess.slot.(backend.Watchable); ok {
			opts = append(opts, tui.WithWatchPaths(w.WatchPaths(sess.store.Key())))
		}
	}

	model := tui.New(sess.store, opts...)
	mgr.RegisterCleanup("tui", func(context.Context) error {
		model.Close()
		return nil
	})

	p := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
		tea.WithInput(a.stdin()),
		tea.WithOutput(a.stdout),
	)

	// SIGINT arrives as a key press while bubbletea owns the terminal.
	stop := mgr.NotifyOnSignal(syscall.SIGTERM, syscall.SIGHUP)
	defer stop()
	go func() {
		<-mgr.Done()
		p.Quit()
	}()

	if _, err := p.Run(); err != nil && !mgr.IsShutdown() {
		return err
	}
	return sess.store.PersistErr()
}
