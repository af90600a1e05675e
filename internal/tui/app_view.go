package tui

import (
	"strings"

	"todo-cli/internal/i18n"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

func (m appModel) View() string {
	switch m.phase {
	case phaseCheckingAuth:
		return centerScreen(m.spinner.View()+" "+m.msgs.T(i18n.CheckingAuth), m.width, m.height)
	case phaseUnauthenticated:
		return centerScreen(m.login.View(), m.width, m.height)
	}

	if m.list.Loading() {
		return centerScreen(m.spinner.View()+" "+m.msgs.T(i18n.Loading), m.width, m.height)
	}
	if err := m.list.Err(); err != nil {
		body := styleError().Render(m.msgs.T(i18n.FetchError, err.Error())) +
			"\n\n" + styleMuted().Render(m.msgs.T(i18n.ErrorHelp))
		return centerScreen(body, m.width, m.height)
	}

	switch m.modal {
	case modalConfirmDelete:
		title := ""
		if t, ok := m.selectedTodo(); ok && t.ID == m.pendingDeleteID {
			title = t.Title
		}
		box := renderConfirmModal(m.width, m.msgs.T(i18n.ConfirmDelete), title,
			m.msgs.T(i18n.Delete), m.msgs.T(i18n.Cancel), m.confirmFocus)
		return centerScreen(box, m.width, m.height)
	case modalHelp:
		return centerScreen(m.renderHelp(), m.width, m.height)
	}

	return centerScreen(m.renderMain(), m.width, m.height)
}

func (m appModel) renderMain() string {
	w := contentWidth(m.width)
	var b strings.Builder

	// Header: title left, logout hint right.
	title := styleTitle().Render(m.msgs.T(i18n.AppTitle))
	logout := styleMuted().Render("L: " + m.msgs.T(i18n.Logout))
	gap := w - xansi.StringWidth(title) - xansi.StringWidth(logout)
	if gap < 1 {
		gap = 1
	}
	b.WriteString(title + strings.Repeat(" ", gap) + logout)
	b.WriteString("\n\n")

	// New-task form.
	addLabel := m.msgs.T(i18n.Add)
	if m.creating.Pending() {
		addLabel = m.msgs.T(i18n.Adding)
	}
	btn := styleButton(m.focus == focusInput && !m.creating.Pending()).Render(addLabel)
	inputW := w - xansi.StringWidth(btn) - 1
	b.WriteString(renderInputLine(inputW, m.newInput.View(), m.focus == focusInput) + " " + btn)
	b.WriteString("\n")

	if m.banner != "" {
		b.WriteString(styleError().Render(fitLine(m.banner, w)))
	}
	b.WriteString("\n")

	todos := m.currentTodos()
	if len(todos) == 0 {
		b.WriteString(lipgloss.PlaceHorizontal(w, lipgloss.Center, styleMuted().Render(m.msgs.T(i18n.Empty))))
		b.WriteString("\n")
	} else {
		start, end := m.visibleRange(len(todos))
		for i := start; i < end; i++ {
			t := todos[i]
			editing := m.editing && m.editingID == t.ID
			v := todoItemView{
				todo:     t,
				editing:  editing,
				selected: i == m.cursor && m.focus == focusList,
				saving:   editing && m.updating.Pending(),
				width:    w,
				msgs:     m.msgs,
			}
			if editing {
				v.editView = m.editInput.View()
			}
			b.WriteString(v.Render())
			b.WriteString("\n")
		}
		if end-start < len(todos) {
			b.WriteString(styleMuted().Render(m.msgs.T(i18n.ListPosition, m.cursor+1, len(todos))))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	footer := m.msgs.T(i18n.ListHelp)
	switch {
	case m.editing:
		footer = m.msgs.T(i18n.EditHelp)
	case m.focus == focusInput:
		footer = m.msgs.T(i18n.InputHelp)
	case m.deleting.Pending():
		footer = m.msgs.T(i18n.Deleting)
	}
	b.WriteString(styleMuted().Width(w).Render(footer))

	return b.String()
}

// visibleRange is the window of rows that fits the terminal, kept around the cursor.
func (m appModel) visibleRange(n int) (int, int) {
	rows := n
	if m.height > 0 {
		// Header, form, banner, footer and padding take about ten lines.
		rows = m.height - 10
		if m.editing {
			rows--
		}
		if rows < 3 {
			rows = 3
		}
	}
	if rows >= n {
		return 0, n
	}
	start := m.cursor - rows + 1
	if start < 0 {
		start = 0
	}
	return start, start + rows
}

func (m appModel) renderHelp() string {
	w := modalBodyWidth(m.width)
	content := m.help.FullHelpView(m.keys.FullHelp())
	if md := renderMarkdown(m.helpMD, w); md != "" {
		content += "\n\n" + md
	}
	return renderModalBox(m.width, "?", content)
}
