package tui

import (
	"todo-cli/internal/i18n"
	"todo-cli/internal/model"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

type itemAction int

const (
	itemActionNone itemAction = iota
	itemActionToggle
	itemActionEdit
	itemActionDelete
	itemActionSave
	itemActionCancel
)

// todoItemView renders one task row. It holds no state of its own: the edit
// input belongs to the caller and is passed in already rendered.
type todoItemView struct {
	todo     model.Todo
	editing  bool
	editView string
	selected bool
	saving   bool
	width    int
	msgs     *i18n.Printer
}

func (v todoItemView) Render() string {
	if v.editing {
		return v.renderEditing()
	}
	return v.renderNormal()
}

func (v todoItemView) renderNormal() string {
	box := "[ ] "
	if v.todo.Done() {
		box = "[x] "
	}
	badge := renderStatusBadge(v.todo.Status, v.msgs)

	titleW := v.width - xansi.StringWidth(box) - xansi.StringWidth(badge) - 3
	if titleW < 4 {
		titleW = 4
	}
	titleStyle := lipgloss.NewStyle()
	if v.todo.Done() {
		titleStyle = styleMuted().Strikethrough(true)
	}
	title := titleStyle.Render(fitLine(v.todo.Title, titleW))

	cursor := "  "
	if v.selected {
		cursor = "› "
	}
	line := cursor + box + title + " " + badge
	if v.selected {
		return styleSelected().Render(fitLine(line, v.width))
	}
	return fitLine(line, v.width)
}

func (v todoItemView) renderEditing() string {
	hint := v.msgs.T(i18n.EditHelp)
	if v.saving {
		hint = v.msgs.T(i18n.Saving)
	}
	input := renderInputLine(v.width-2, v.editView, true)
	return "  " + input + "\n  " + styleMuted().Render(fitLine(hint, v.width-2))
}

func renderStatusBadge(s model.Status, msgs *i18n.Printer) string {
	var label string
	fg := colorMuted
	switch s {
	case model.StatusDone:
		label = msgs.T(i18n.StatusDone)
		fg = colorSuccess
	case model.StatusDoing:
		label = msgs.T(i18n.StatusDoing)
		fg = colorWarn
	default:
		label = msgs.T(i18n.StatusTodo)
	}
	return lipgloss.NewStyle().Foreground(fg).Render("(" + label + ")")
}

// itemActionFor maps a key to the row action it triggers.
func itemActionFor(msg tea.KeyMsg, editing bool, keys keyMap) itemAction {
	if editing {
		switch msg.Type {
		case tea.KeyEnter:
			return itemActionSave
		case tea.KeyEsc:
			return itemActionCancel
		}
		return itemActionNone
	}
	switch {
	case key.Matches(msg, keys.Toggle):
		return itemActionToggle
	case key.Matches(msg, keys.Edit):
		return itemActionEdit
	case key.Matches(msg, keys.Delete):
		return itemActionDelete
	}
	return itemActionNone
}
