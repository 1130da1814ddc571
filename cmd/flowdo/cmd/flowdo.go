package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"flowdo/backend"
	_ "flowdo/backend/file"
	_ "flowdo/backend/sqlite"
	"flowdo/internal/config"
	"flowdo/internal/notification"
	"flowdo/internal/store"
	"flowdo/internal/utils"
)

// Build information, set at build time via -ldflags
var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

// Result codes for CLI output (used in no-prompt mode)
const (
	ResultActionCompleted = "ACTION_COMPLETED"
	ResultInfoOnly        = "INFO_ONLY"
	ResultError           = "ERROR"
)

// Config holds per-invocation options. Fields left zero fall back to the
// config file, the environment and the terminal.
type Config struct {
	NoPrompt     bool
	Verbose      bool
	OutputFormat string
	ConfigPath   string           // Config file; empty means $XDG_CONFIG_HOME/flowdo/config.yaml
	DataDir      string           // Overrides both backend locations (for testing)
	Backend      string           // Overrides default_backend
	Stdin        io.Reader        // Prompt input; nil means os.Stdin
	Interactive  *bool            // Overrides terminal detection
	Now          func() time.Time // Clock for date-dependent views
}

// app carries what every subcommand needs once flags and config are resolved.
type app struct {
	cfg      *Config
	settings *config.Config
	stdout   io.Writer
	stderr   io.Writer
	json     bool
}

// Execute runs the CLI with the given arguments and IO writers
func Execute(args []string, stdout, stderr io.Writer, cfg *Config) int {
	if cfg == nil {
		cfg = &Config{}
	}
	rootCmd := NewFlowdo(stdout, stderr, cfg)

	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	if err := rootCmd.Execute(); err != nil {
		if containsJSONFlag(args) || cfg.OutputFormat == "json" {
			outputErrorJSON(err, stdout)
		} else {
			_, _ = fmt.Fprintln(stderr, "Error:", err)
			if cfg.NoPrompt {
				_, _ = fmt.Fprintln(stdout, ResultError)
			}
		}
		return 1
	}
	return 0
}

// containsJSONFlag checks if args contain --json flag
func containsJSONFlag(args []string) bool {
	for _, arg := range args {
		if arg == "--json" {
			return true
		}
	}
	return false
}

// NewFlowdo creates the root command with injectable IO
func NewFlowdo(stdout, stderr io.Writer, cfg *Config) *cobra.Command {
	a := &app{cfg: cfg, stdout: stdout, stderr: stderr}

	cmd := &cobra.Command{
		Use:     "flowdo",
		Short:   "A personal task manager",
		Long:    "flowdo organizes tasks into projects, labels and saved filters, with Inbox, Today and Upcoming views.",
		Version: Version,
		Args:    cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetVersionTemplate("flowdo version {{.Version}}\n")

	// Add global flags
	cmd.PersistentFlags().BoolP("no-prompt", "y", false, "Disable interactive prompts")
	cmd.PersistentFlags().BoolP("verbose", "V", false, "Enable verbose/debug output")
	cmd.PersistentFlags().Bool("json", false, "Output in JSON format")
	cmd.PersistentFlags().String("config", "", "Path to config file")
	cmd.PersistentFlags().String("backend", "", "Storage backend to use (file, sqlite)")

	cmd.AddCommand(
		newAddCmd(a),
		newListCmd(a),
		newDoneCmd(a),
		newEditCmd(a),
		newDeleteCmd(a),
		newProjectCmd(a),
		newLabelCmd(a),
		newFilterCmd(a),
		newViewCmd(a),
		newResetCmd(a),
		newExportCmd(a),
		newImportCmd(a),
		newTUICmd(a),
		newVersionCmd(a),
	)

	return cmd
}

// setup resolves flags, .env, config file and environment into a.settings.
func (a *app) setup(cmd *cobra.Command) error {
	noPrompt, _ := cmd.Flags().GetBool("no-prompt")
	verbose, _ := cmd.Flags().GetBool("verbose")
	jsonOutput, _ := cmd.Flags().GetBool("json")
	configPath, _ := cmd.Flags().GetString("config")
	backendName, _ := cmd.Flags().GetString("backend")

	utils.GetLogger().SetOutput(a.stderr)

	// version and completion work without touching the filesystem
	if cmd.Name() == "version" || (cmd.HasParent() && cmd.Parent().Name() == "completion") {
		a.json = jsonOutput
		return nil
	}

	if err := config.LoadDotEnv(""); err != nil {
		utils.Warnf("%v", err)
	}

	if configPath == "" {
		configPath = a.cfg.ConfigPath
	}
	settings, err := config.Load(configPath)
	if err != nil {
		return err
	}

	outputFormat := a.cfg.OutputFormat
	if jsonOutput {
		outputFormat = "json"
	}
	settings.ApplyFlags(noPrompt || a.cfg.NoPrompt, outputFormat, verbose || a.cfg.Verbose)

	if a.cfg.DataDir != "" {
		settings.Backends.File.Dir = a.cfg.DataDir
		settings.Backends.SQLite.Path = filepath.Join(a.cfg.DataDir, "flowdo.db")
	}
	if backendName == "" {
		backendName = a.cfg.Backend
	}
	if backendName != "" {
		settings.DefaultBackend = backendName
	}

	if err := settings.Validate(); err != nil {
		return err
	}

	utils.SetVerboseMode(settings.Logging.Verbose)
	a.cfg.NoPrompt = settings.NoPrompt
	a.json = settings.OutputFormat == "json"
	a.settings = settings
	utils.Debugf("Config loaded: backend=%s key=%s", settings.DefaultBackend, settings.StorageKey)
	return nil
}

// interactive reports whether prompts may be shown.
func (a *app) interactive() bool {
	if a.cfg.NoPrompt {
		return false
	}
	if a.cfg.Interactive != nil {
		return *a.cfg.Interactive
	}
	return term.IsTerminal(int(os.Stdin.Fd()))
}

func (a *app) now() time.Time {
	if a.cfg.Now != nil {
		return a.cfg.Now()
	}
	return time.Now()
}

func (a *app) stdin() io.Reader {
	if a.cfg.Stdin != nil {
		return a.cfg.Stdin
	}
	return os.Stdin
}

// session is an open store together with the resources behind it.
type session struct {
	store    *store.Store
	slot     backend.Slot
	notifier notification.NotificationManager
}

// openSession opens the configured slot and loads the store. Extra
// notification options are appended after the defaults.
func (a *app) openSession(ctx context.Context, notifyOpts ...notification.Option) (*session, error) {
	name, location := a.settings.BackendLocation()
	slot, err := backend.Open(name, location)
	if err != nil {
		return nil, err
	}
	utils.Debugf("Opened %s backend at %s", name, location)

	notifier, err := notification.NewManager(a.settings.NotificationSettings(), notifyOpts...)
	if err != nil {
		_ = slot.Close()
		return nil, err
	}

	opts := []store.Option{
		store.WithKey(a.settings.StorageKey),
		store.WithUpcomingDays(a.settings.UpcomingDays),
		store.WithNotifier(notifier),
	}
	if a.cfg.Now != nil {
		opts = append(opts, store.WithClock(a.cfg.Now))
	}

	s, err := store.Open(ctx, slot, opts...)
	if err != nil {
		_ = notifier.Close()
		_ = slot.Close()
		return nil, err
	}
	return &session{store: s, slot: slot, notifier: notifier}, nil
}

func (s *session) Close() {
	_ = s.notifier.Close()
	_ = s.slot.Close()
}

// run opens a CLI session, with refusals echoed to stderr, and runs fn.
// A failed write-through turns into an error after fn returns.
func (a *app) run(fn func(ctx context.Context, s *store.Store) error) error {
	return a.runSession(func(ctx context.Context, sess *session) error {
		return fn(ctx, sess.store)
	})
}

// runSession is run for commands that also need the slot.
func (a *app) runSession(fn func(ctx context.Context, sess *session) error) error {
	ctx := context.Background()
	sess, err := a.openSession(ctx, notification.WithChannel(notification.NewConsoleChannel(a.stderr)))
	if err != nil {
		return err
	}
	defer sess.Close()

	if err := fn(ctx, sess); err != nil {
		return err
	}
	if err := sess.store.PersistErr(); err != nil {
		return fmt.Errorf("changes were not saved: %w", err)
	}
	return nil
}

// lastSaved reports when the store's key was last written, if the slot
// records it.
func (s *session) lastSaved(ctx context.Context) *time.Time {
	ts, ok := s.slot.(backend.Timestamped)
	if !ok {
		return nil
	}
	t, err := ts.Modified(ctx, s.store.Key())
	if err != nil {
		utils.Debugf("Failed to read last-saved time: %v", err)
		return nil
	}
	return t
}

// done prints a confirmation line followed by the result code in no-prompt mode.
func (a *app) done(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(a.stdout, format+"\n", args...)
	if a.cfg.NoPrompt {
		_, _ = fmt.Fprintln(a.stdout, ResultActionCompleted)
	}
}

// info ends informational output with INFO_ONLY in no-prompt mode.
func (a *app) info() {
	if a.cfg.NoPrompt {
		_, _ = fmt.Fprintln(a.stdout, ResultInfoOnly)
	}
}

// writeJSON prints v as a single JSON line.
func (a *app) writeJSON(v interface{}) error {
	jsonBytes, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(a.stdout, string(jsonBytes))
	return nil
}

type errorResponse struct {
	Error      string `json:"error"`
	Suggestion string `json:"suggestion,omitempty"`
	Code       int    `json:"code"`
	Result     string `json:"result"`
}

// outputErrorJSON outputs error in JSON format
func outputErrorJSON(err error, stdout io.Writer) {
	response := errorResponse{
		Error:  err.Error(),
		Code:   1,
		Result: ResultError,
	}
	var ews *utils.ErrorWithSuggestion
	if errors.As(err, &ews) {
		response.Error = ews.Err.Error()
		response.Suggestion = ews.GetSuggestion()
	}

	jsonBytes, _ := json.Marshal(response)
	_, _ = fmt.Fprintln(stdout, string(jsonBytes))
}

// newVersionCmd creates the 'version' subcommand
func newVersionCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			detailed, _ := cmd.Flags().GetBool("verbose-build")
			if a.json {
				return a.writeJSON(map[string]string{
					"version":    Version,
					"commit":     Commit,
					"build_date": BuildDate,
					"go_version": runtime.Version(),
					"platform":   runtime.GOOS + "/" + runtime.GOARCH,
				})
			}

			_, _ = fmt.Fprintf(a.stdout, "flowdo\nVersion: %s\nCommit: %s\nBuilt: %s\n", Version, Commit, BuildDate)
			if detailed {
				_, _ = fmt.Fprintf(a.stdout, "Go Version: %s\nPlatform: %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
			}
			return nil
		},
	}
	cmd.Flags().BoolP("verbose-build", "v", false, "Show Go version and platform")
	return cmd
}
