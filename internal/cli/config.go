package cli

import (
	"todo-cli/internal/store"

	"github.com/spf13/cobra"
)

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change config.toml",
	}
	cmd.AddCommand(newConfigShowCmd(app))
	cmd.AddCommand(newConfigSetCmd(app))
	return cmd
}

func newConfigShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the stored and effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeOut(cmd, app, map[string]any{
				"dir":    app.dir,
				"stored": app.cfg,
				"effective": map[string]any{
					"apiBaseUrl":     app.baseURL(),
					"authBasePath":   app.cfg.AuthPath(),
					"lang":           app.Lang,
					"format":         app.Format,
					"requestTimeout": app.cfg.Timeout().String(),
					"sessionDelay":   app.cfg.LoginDelay().String(),
				},
			})
		},
	}
}

func newConfigSetCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a config key (empty value resets it)",
		Long:  "Keys: api_base_url, auth_base_path, lang, format, debug_log, log_level, request_timeout, session_delay.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.cfg.Set(args[0], args[1]); err != nil {
				return writeErr(cmd, usageError{err: err})
			}
			if err := store.SaveConfigTo(app.dir, app.cfg); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, app.cfg)
		},
	}
}
