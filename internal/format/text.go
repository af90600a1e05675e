package format

import (
	"fmt"
	"io"
	"strconv"

	"todo-cli/internal/model"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// WriteText renders values for people. Tasks become a table; a session is a
// single line; anything else falls back to YAML.
func WriteText(w io.Writer, v any) error {
	switch x := v.(type) {
	case []model.Todo:
		if len(x) == 0 {
			_, err := fmt.Fprintln(w, "No tasks")
			return err
		}
		_, err := fmt.Fprintln(w, TodoTable(x))
		return err
	case model.Todo:
		_, err := fmt.Fprintln(w, TodoTable([]model.Todo{x}))
		return err
	case *model.Session:
		if x == nil {
			_, err := fmt.Fprintln(w, "Not logged in")
			return err
		}
		line := x.User.Email
		if x.User.Name != "" {
			line += " (" + x.User.Name + ")"
		}
		_, err := fmt.Fprintln(w, line)
		return err
	case string:
		_, err := fmt.Fprintln(w, x)
		return err
	default:
		return WriteYAML(w, v)
	}
}

// TodoTable renders todos as a bordered ID/STATUS/TITLE table.
func TodoTable(todos []model.Todo) string {
	rows := make([][]string, 0, len(todos))
	for _, t := range todos {
		box := "[ ]"
		if t.Done() {
			box = "[x]"
		}
		rows = append(rows, []string{strconv.Itoa(t.ID), box + " " + string(t.Status), t.Title})
	}
	header := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cell := lipgloss.NewStyle().Padding(0, 1)
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "STATUS", "TITLE").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return cell
		}).
		String()
}
