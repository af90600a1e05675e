package cli

import (
	"time"

	"todo-cli/internal/publish"

	"github.com/spf13/cobra"
)

func newExportCmd(app *App) *cobra.Command {
	var toDir, title string
	var group, overwrite bool

	cmd := &cobra.Command{
		Use:   "export --to <dir>",
		Short: "Write the task list to <dir>/todos.md",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.connect(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			todos, err := s.todos.ListTodos(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			res, err := publish.WriteList(todos, toDir, publish.WriteOptions{
				Render: publish.RenderOptions{
					Title:         title,
					GroupByStatus: group,
					Now:           time.Now(),
				},
				Overwrite: overwrite,
			})
			if err != nil {
				return writeErr(cmd, usageError{err: err})
			}
			return writeOut(cmd, app, res)
		},
	}

	cmd.Flags().StringVar(&toDir, "to", "", "Output directory")
	cmd.Flags().StringVar(&title, "title", "", "Document title (default: Todos)")
	cmd.Flags().BoolVar(&group, "group", false, "One section per status")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace an existing todos.md")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}
