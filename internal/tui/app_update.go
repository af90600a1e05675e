package tui

import (
	"context"
	"strings"

	"todo-cli/internal/api"
	"todo-cli/internal/i18n"
	"todo-cli/internal/model"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.login.width = msg.Width
		m.help.Width = contentWidth(msg.Width)
		w := contentWidth(msg.Width) - 6
		m.newInput.Width = w
		m.editInput.Width = w
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case authCheckedMsg:
		return m.handleAuthChecked(msg)

	case loginResultMsg:
		var cmd tea.Cmd
		m.login, cmd = m.login.Update(msg)
		return m, cmd

	case loginSucceededMsg:
		// Re-check rather than trust the login view; the list is only enabled
		// once the check confirms the session.
		m.authSeq++
		return m, m.checkAuthAfterCmd(m.delay)

	case todosFetchedMsg:
		return m.handleTodosFetched(msg)

	case mutationDoneMsg:
		return m.handleMutationDone(msg)

	case loggedOutMsg:
		if msg.err != nil {
			m.log.Debug("sign-out failed; continuing logout", "err", msg.err)
		}
		m.resetSessionState()
		m.phase = phaseCheckingAuth
		m.authSeq++
		return m, m.checkAuthCmd()

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.phase {
		case phaseCheckingAuth:
			if key.Matches(msg, m.keys.Quit) {
				return m, tea.Quit
			}
			return m, nil
		case phaseUnauthenticated:
			var cmd tea.Cmd
			m.login, cmd = m.login.Update(msg)
			return m, cmd
		default:
			return m.handleAuthenticatedKey(msg)
		}
	}

	// Cursor blink and other input-internal messages.
	var cmd tea.Cmd
	switch {
	case m.phase == phaseUnauthenticated:
		m.login, cmd = m.login.Update(msg)
	case m.editing:
		m.editInput, cmd = m.editInput.Update(msg)
	case m.focus == focusInput:
		m.newInput, cmd = m.newInput.Update(msg)
	}
	return m, cmd
}

func (m appModel) handleAuthChecked(msg authCheckedMsg) (tea.Model, tea.Cmd) {
	if msg.seq != m.authSeq {
		return m, nil
	}
	if msg.err != nil {
		// Treated as signed out; only the debug log sees the reason.
		m.log.Debug("auth check failed", "err", msg.err)
	}
	if msg.err != nil || msg.session == nil {
		m.phase = phaseUnauthenticated
		m.list.SetEnabled(false)
		return m, nil
	}
	m.log.Debug("authenticated", "user", msg.session.User.Email)
	m.phase = phaseAuthenticated
	m.list.SetEnabled(true)
	m.list.Invalidate()
	return m, m.fetchIfNeeded()
}

func (m appModel) handleTodosFetched(msg todosFetchedMsg) (tea.Model, tea.Cmd) {
	if !m.list.Complete(msg.ticket, msg.todos, msg.err) {
		return m, nil
	}
	if msg.err != nil {
		if api.IsAuthRequired(msg.err) {
			m.toLogin()
			return m, nil
		}
		m.log.Debug("list fetch failed", "err", msg.err)
		return m, nil
	}
	m.clampCursor()
	// Invalidated while in flight: fetch again.
	return m, m.fetchIfNeeded()
}

func (m appModel) handleMutationDone(msg mutationDoneMsg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case mutationCreate:
		m.creating.Finish(msg.err)
	case mutationUpdate:
		m.updating.Finish(msg.err)
	case mutationDelete:
		m.deleting.Finish(msg.err)
	}

	if msg.err != nil {
		if api.IsAuthRequired(msg.err) {
			m.toLogin()
			return m, nil
		}
		m.log.Debug("mutation failed", "kind", msg.kind.String(), "err", msg.err)
		m.banner = msg.err.Error()
		return m, nil
	}

	switch msg.kind {
	case mutationCreate:
		m.newInput.Reset()
	case mutationUpdate:
		m.cancelEdit()
	}
	m.list.Invalidate()
	return m, m.fetchIfNeeded()
}

func (m appModel) handleAuthenticatedKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.modal {
	case modalConfirmDelete:
		return m.handleConfirmKey(msg)
	case modalHelp:
		switch msg.String() {
		case "esc", "?", "q", "enter":
			m.modal = modalNone
		}
		return m, nil
	}

	// Nothing but quit while the session is torn down.
	if m.loggingOut {
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		return m, nil
	}

	if m.list.Loading() {
		switch {
		case key.Matches(msg, m.keys.Logout):
			return m.startLogout()
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		}
		return m, nil
	}

	if m.list.Err() != nil {
		switch {
		case key.Matches(msg, m.keys.Refresh):
			m.list.Invalidate()
			return m, m.fetchIfNeeded()
		case key.Matches(msg, m.keys.Logout):
			return m.startLogout()
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		}
		return m, nil
	}

	if m.editing {
		switch itemActionFor(msg, true, m.keys) {
		case itemActionSave:
			return m.saveEdit()
		case itemActionCancel:
			m.cancelEdit()
			return m, nil
		}
		var cmd tea.Cmd
		m.editInput, cmd = m.editInput.Update(msg)
		return m, cmd
	}

	if m.focus == focusInput {
		switch msg.Type {
		case tea.KeyEnter:
			return m.submitCreate()
		case tea.KeyEsc, tea.KeyTab:
			m.focus = focusList
			m.newInput.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		m.newInput, cmd = m.newInput.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		m.cursor--
		m.clampCursor()
		return m, nil
	case key.Matches(msg, m.keys.Down):
		m.cursor++
		m.clampCursor()
		return m, nil
	case key.Matches(msg, m.keys.Focus):
		m.focus = focusInput
		return m, m.newInput.Focus()
	case key.Matches(msg, m.keys.Refresh):
		m.list.Invalidate()
		return m, m.fetchIfNeeded()
	case key.Matches(msg, m.keys.Logout):
		return m.startLogout()
	case key.Matches(msg, m.keys.Help):
		m.modal = modalHelp
		return m, nil
	}

	todo, ok := m.selectedTodo()
	if !ok {
		return m, nil
	}
	switch itemActionFor(msg, false, m.keys) {
	case itemActionToggle:
		return m.toggle(todo)
	case itemActionEdit:
		return m.startEdit(todo)
	case itemActionDelete:
		m.modal = modalConfirmDelete
		m.confirmFocus = confirmFocusCancel
		m.pendingDeleteID = todo.ID
		return m, nil
	}
	return m, nil
}

func (m appModel) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab", "shift+tab", "left", "right", "h", "l":
		m.confirmFocus = m.confirmFocus.toggled()
		return m, nil
	case "y":
		return m.confirmDelete()
	case "n", "esc":
		m.modal = modalNone
		m.pendingDeleteID = 0
		return m, nil
	case "enter":
		if m.confirmFocus == confirmFocusConfirm {
			return m.confirmDelete()
		}
		m.modal = modalNone
		m.pendingDeleteID = 0
		return m, nil
	}
	return m, nil
}

func (m appModel) submitCreate() (tea.Model, tea.Cmd) {
	title := strings.TrimSpace(m.newInput.Value())
	if title == "" {
		m.banner = m.msgs.T(i18n.TitleRequired)
		return m, nil
	}
	if !m.creating.Start() {
		return m, nil
	}
	m.banner = ""
	todos := m.todos
	return m, m.mutationCmd(mutationCreate, func(ctx context.Context) error {
		_, err := todos.CreateTodo(ctx, model.CreateTodoRequest{Title: title})
		return err
	})
}

func (m appModel) startEdit(todo model.Todo) (tea.Model, tea.Cmd) {
	m.editing = true
	m.editingID = todo.ID
	m.editInput.SetValue(todo.Title)
	m.editInput.CursorEnd()
	m.banner = ""
	return m, m.editInput.Focus()
}

func (m appModel) saveEdit() (tea.Model, tea.Cmd) {
	title := strings.TrimSpace(m.editInput.Value())
	if title == "" {
		m.banner = m.msgs.T(i18n.TitleRequired)
		return m, nil
	}
	todo, ok := model.FindTodo(m.currentTodos(), m.editingID)
	if !ok {
		m.cancelEdit()
		return m, nil
	}
	if !m.updating.Start() {
		return m, nil
	}
	m.banner = ""
	todos, id := m.todos, todo.ID
	req := model.UpdateTodoRequest{Title: title, Status: todo.Status}
	return m, m.mutationCmd(mutationUpdate, func(ctx context.Context) error {
		_, err := todos.UpdateTodo(ctx, id, req)
		return err
	})
}

func (m appModel) toggle(todo model.Todo) (tea.Model, tea.Cmd) {
	if !m.updating.Start() {
		return m, nil
	}
	m.banner = ""
	todos := m.todos
	req := model.UpdateTodoRequest{Title: todo.Title, Status: todo.Status.Toggled()}
	return m, m.mutationCmd(mutationUpdate, func(ctx context.Context) error {
		_, err := todos.UpdateTodo(ctx, todo.ID, req)
		return err
	})
}

func (m appModel) confirmDelete() (tea.Model, tea.Cmd) {
	id := m.pendingDeleteID
	m.modal = modalNone
	m.pendingDeleteID = 0
	if id == 0 || !m.deleting.Start() {
		return m, nil
	}
	m.banner = ""
	todos := m.todos
	return m, m.mutationCmd(mutationDelete, func(ctx context.Context) error {
		return todos.DeleteTodo(ctx, id)
	})
}

func (m appModel) startLogout() (tea.Model, tea.Cmd) {
	if m.loggingOut {
		return m, nil
	}
	m.loggingOut = true
	return m, m.signOutCmd()
}
