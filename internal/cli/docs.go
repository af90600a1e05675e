package cli

import (
	"fmt"
	"os"

	"todo-cli/internal/docs"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/styles"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

func newDocsCmd(app *App) *cobra.Command {
	var raw bool
	var width int

	cmd := &cobra.Command{
		Use:   "docs [topic]",
		Short: "Show documentation topics",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				type topic struct {
					Name  string `json:"name" yaml:"name"`
					Title string `json:"title" yaml:"title"`
				}
				var out []topic
				for _, t := range docs.Topics() {
					out = append(out, topic{Name: t, Title: docs.Title(t)})
				}
				return writeOut(cmd, app, map[string]any{"topics": out})
			}

			name := args[0]
			body, ok := docs.Get(name)
			if !ok {
				return writeErr(cmd, usageError{err: fmt.Errorf("unknown docs topic: %q (run `todo docs` to list topics)", name)})
			}

			if raw {
				_, err := fmt.Fprint(cmd.OutOrStdout(), body)
				return err
			}

			r, err := glamour.NewTermRenderer(
				glamour.WithStandardStyle(docsStyle(cmd)),
				glamour.WithWordWrap(width),
			)
			if err != nil {
				return err
			}
			out, err := r.Render(body)
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), out)
			return err
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "Print raw markdown")
	cmd.Flags().IntVar(&width, "width", 80, "Wrap width")

	return cmd
}

// docsStyle picks plain output unless stdout is a colour terminal.
func docsStyle(cmd *cobra.Command) string {
	f, ok := cmd.OutOrStdout().(*os.File)
	if !ok || os.Getenv("NO_COLOR") != "" {
		return styles.NoTTYStyle
	}
	out := termenv.NewOutput(f)
	if out.Profile == termenv.Ascii {
		return styles.NoTTYStyle
	}
	if out.HasDarkBackground() {
		return styles.DarkStyle
	}
	return styles.LightStyle
}
