package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"todo-cli/internal/i18n"
	"todo-cli/internal/model"

	"github.com/spf13/cobra"
)

func parseID(s string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || id <= 0 {
		return 0, usageError{err: fmt.Errorf("invalid task id %q", s)}
	}
	return id, nil
}

// findTodo fetches the list and returns the task with id.
func findTodo(cmd *cobra.Command, s *session, id int) (model.Todo, error) {
	todos, err := s.todos.ListTodos(cmd.Context())
	if err != nil {
		return model.Todo{}, err
	}
	t, ok := model.FindTodo(todos, id)
	if !ok {
		return model.Todo{}, usageError{err: errNotFound("task", strconv.Itoa(id))}
	}
	return t, nil
}

func newListCmd(app *App) *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var want model.Status
			if strings.TrimSpace(status) != "" {
				st, err := model.ParseStatus(status)
				if err != nil {
					return writeErr(cmd, usageError{err: err})
				}
				want = st
			}

			s, err := app.connect(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			todos, err := s.todos.ListTodos(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			if want != "" {
				filtered := make([]model.Todo, 0, len(todos))
				for _, t := range todos {
					if t.Status == want {
						filtered = append(filtered, t)
					}
				}
				todos = filtered
			}
			return writeOut(cmd, app, todos)
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "Only show tasks with this status (todo|doing|done)")
	return cmd
}

func newAddCmd(app *App) *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Create a task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.connect(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			title := strings.TrimSpace(strings.Join(args, " "))
			if title == "" {
				return writeErr(cmd, usageError{err: errors.New(s.msgs.T(i18n.TitleRequired))})
			}
			req := model.CreateTodoRequest{Title: title}
			if strings.TrimSpace(status) != "" {
				st, err := model.ParseStatus(status)
				if err != nil {
					return writeErr(cmd, usageError{err: err})
				}
				req.Status = st
			}

			t, err := s.todos.CreateTodo(cmd.Context(), req)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, t)
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "Initial status (default: todo)")
	return cmd
}

func newEditCmd(app *App) *cobra.Command {
	var title string

	cmd := &cobra.Command{
		Use:   "edit <id> --title <title>",
		Short: "Change a task's title (status is kept)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			s, err := app.connect(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			title = strings.TrimSpace(title)
			if title == "" {
				return writeErr(cmd, usageError{err: errors.New(s.msgs.T(i18n.TitleRequired))})
			}
			cur, err := findTodo(cmd, s, id)
			if err != nil {
				return writeErr(cmd, err)
			}
			t, err := s.todos.UpdateTodo(cmd.Context(), id, model.UpdateTodoRequest{Title: title, Status: cur.Status})
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, t)
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "New title")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func newSetStatusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "set-status <id> <todo|doing|done>",
		Short: "Set a task's status",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			st, err := model.ParseStatus(args[1])
			if err != nil {
				return writeErr(cmd, usageError{err: err})
			}
			s, err := app.connect(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			cur, err := findTodo(cmd, s, id)
			if err != nil {
				return writeErr(cmd, err)
			}
			t, err := s.todos.UpdateTodo(cmd.Context(), id, model.UpdateTodoRequest{Title: cur.Title, Status: st})
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, t)
		},
	}
}

func newToggleCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <id>",
		Short: "Toggle done (done goes back to todo, anything else becomes done)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			s, err := app.connect(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			cur, err := findTodo(cmd, s, id)
			if err != nil {
				return writeErr(cmd, err)
			}
			t, err := s.todos.UpdateTodo(cmd.Context(), id, model.UpdateTodoRequest{Title: cur.Title, Status: cur.Status.Toggled()})
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, t)
		},
	}
}

func newRmCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a task (asks first unless --yes)",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			s, err := app.connect(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			if !yes {
				cur, err := findTodo(cmd, s, id)
				if err != nil {
					return writeErr(cmd, err)
				}
				in := newLineInput(cmd)
				ok, err := confirm(in, fmt.Sprintf("%s %q [y/N]: ", s.msgs.T(i18n.ConfirmDelete), cur.Title))
				_ = in.Close()
				if err != nil {
					return writeErr(cmd, err)
				}
				if !ok {
					return writeOut(cmd, app, map[string]any{"deleted": false, "id": id})
				}
			}

			if err := s.todos.DeleteTodo(cmd.Context(), id); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"deleted": true, "id": id})
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}
