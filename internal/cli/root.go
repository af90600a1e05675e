package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"todo-cli/internal/docs"
	"todo-cli/internal/format"
	"todo-cli/internal/store"
	"todo-cli/internal/tui"

	"github.com/spf13/cobra"
)

type App struct {
	ConfigDir  string
	APIURL     string
	Lang       string
	Format     string
	PrettyJSON bool
	DebugLog   string

	// Set in PersistentPreRunE.
	cfg *store.Config
	dir string
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:           "todo",
		Short:         "Todo list client (TUI + scriptable commands)",
		SilenceUsage:  true,
		SilenceErrors: true,
		Example: strings.TrimSpace(`
  # Start the interactive TUI
  todo

  # Scriptable commands
  todo login --email me@example.com
  todo add "Buy milk"
  todo list --format text
  todo toggle 3
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			return runTUI(cmd, app)
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return app.load()
	}

	cmd.PersistentFlags().StringVar(&app.ConfigDir, "config-dir", envOr("TODO_CONFIG_DIR", ""), "Config/state directory (default ~/.todo-cli)")
	cmd.PersistentFlags().StringVar(&app.APIURL, "api-url", envOr("TODO_API_BASE_URL", ""), "Backend base URL (default from config, else "+store.DefaultAPIBaseURL+")")
	cmd.PersistentFlags().StringVar(&app.Lang, "lang", envOr("TODO_LANG", ""), "Message language (en|ja)")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("TODO_FORMAT", ""), "Output format (json|yaml|text)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")
	cmd.PersistentFlags().StringVar(&app.DebugLog, "debug-log", envOr("TODO_DEBUG_LOG", ""), "Append debug logs to this file")

	cmd.AddCommand(newLoginCmd(app))
	cmd.AddCommand(newLogoutCmd(app))
	cmd.AddCommand(newWhoamiCmd(app))
	cmd.AddCommand(newListCmd(app))
	cmd.AddCommand(newAddCmd(app))
	cmd.AddCommand(newEditCmd(app))
	cmd.AddCommand(newSetStatusCmd(app))
	cmd.AddCommand(newToggleCmd(app))
	cmd.AddCommand(newRmCmd(app))
	cmd.AddCommand(newExportCmd(app))
	cmd.AddCommand(newDocsCmd(app))
	cmd.AddCommand(newConfigCmd(app))

	return cmd
}

// load resolves the config dir and file. Flags and env win over the file.
func (app *App) load() error {
	dir := strings.TrimSpace(app.ConfigDir)
	if dir == "" {
		d, err := store.ConfigDir()
		if err != nil {
			return err
		}
		dir = d
	}
	cfg, err := store.LoadConfigFrom(dir)
	if err != nil {
		return usageError{err: err}
	}
	app.dir = dir
	app.cfg = cfg

	if app.Format == "" {
		app.Format = cfg.Format
	}
	if !format.Valid(app.Format) {
		return usageError{err: fmt.Errorf("unknown format: %s (expected %s)", app.Format, strings.Join(format.Names, "|"))}
	}
	if app.Lang == "" {
		app.Lang = cfg.Lang
	}
	if app.DebugLog == "" {
		app.DebugLog = cfg.DebugLog
	}
	return nil
}

func (app *App) baseURL() string {
	if u := strings.TrimSpace(app.APIURL); u != "" {
		return strings.TrimRight(u, "/")
	}
	return app.cfg.BaseURL()
}

func runTUI(cmd *cobra.Command, app *App) error {
	s, err := app.connect(cmd.Context())
	if err != nil {
		return err
	}
	defer s.Close()

	return tui.Run(tui.Options{
		Context:      cmd.Context(),
		Todos:        s.todos,
		Auth:         s.auth,
		Printer:      s.msgs,
		Logger:       s.log,
		SessionDelay: app.cfg.LoginDelay(),
		HelpMarkdown: docs.TUIHelp(),
	})
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

// writeOut prints v. json and yaml get the {"data": ...} envelope; text
// renders v directly.
func writeOut(cmd *cobra.Command, app *App, v any) error {
	if strings.EqualFold(strings.TrimSpace(app.Format), "text") {
		return format.WriteText(cmd.OutOrStdout(), v)
	}
	return format.Write(cmd.OutOrStdout(), map[string]any{"data": v}, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return reportedError{err: err}
}

// Execute runs the root command and returns the process exit code.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := NewRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	if err := cmd.ExecuteContext(ctx); err != nil {
		if !isReported(err) {
			fmt.Fprintln(stderr, err.Error())
		}
		return ExitCode(err)
	}
	return 0
}
