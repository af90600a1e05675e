package tui

import (
	"context"
	"log/slog"
	"time"

	"todo-cli/internal/i18n"
	"todo-cli/internal/logging"
	"todo-cli/internal/model"
	"todo-cli/internal/query"
	"todo-cli/internal/service"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type appModel struct {
	ctx    context.Context
	todos  service.Todos
	auth   service.Auth
	msgs   *i18n.Printer
	log    *slog.Logger
	delay  time.Duration
	helpMD string

	keys    keyMap
	help    help.Model
	spinner spinner.Model

	width  int
	height int

	phase   authPhase
	authSeq int

	list     query.Cache[[]model.Todo]
	creating query.Mutation
	updating query.Mutation
	deleting query.Mutation

	focus    focusArea
	newInput textinput.Model
	cursor   int

	// The single edit slot.
	editing   bool
	editingID int
	editInput textinput.Model

	modal           modalKind
	confirmFocus    confirmModalFocus
	pendingDeleteID int

	loggingOut bool
	banner     string
	login      loginModel
}

func newAppModel(opts Options) appModel {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	msgs := opts.Printer
	if msgs == nil {
		msgs = i18n.Default()
	}
	log := opts.Logger
	if log == nil {
		log = logging.Discard()
	}

	newIn := textinput.New()
	newIn.Prompt = "+ "
	newIn.Placeholder = msgs.T(i18n.NewPlaceholder)
	newIn.CharLimit = 500

	editIn := textinput.New()
	editIn.Prompt = ""
	editIn.CharLimit = 500

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := appModel{
		ctx:       ctx,
		todos:     opts.Todos,
		auth:      opts.Auth,
		msgs:      msgs,
		log:       log,
		delay:     opts.SessionDelay,
		helpMD:    opts.HelpMarkdown,
		keys:      defaultKeyMap(),
		help:      help.New(),
		spinner:   sp,
		phase:     phaseCheckingAuth,
		newInput:  newIn,
		editInput: editIn,
	}
	m.login = newLoginModel(ctx, opts.Auth, msgs, log, opts.SessionDelay)
	return m
}

func (m appModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.checkAuthCmd())
}

func (m appModel) checkAuthCmd() tea.Cmd {
	return m.checkAuthAfterCmd(0)
}

// checkAuthAfterCmd waits d (the session cookie may lag a fresh login) and
// then asks for the session.
func (m appModel) checkAuthAfterCmd(d time.Duration) tea.Cmd {
	ctx, a, seq := m.ctx, m.auth, m.authSeq
	return func() tea.Msg {
		if err := sleepCtx(ctx, d); err != nil {
			return authCheckedMsg{seq: seq, err: err}
		}
		sess, err := a.GetSession(ctx)
		return authCheckedMsg{seq: seq, session: sess, err: err}
	}
}

// fetchIfNeeded starts a list fetch when the cache allows one.
func (m *appModel) fetchIfNeeded() tea.Cmd {
	ticket, ok := m.list.Begin()
	if !ok {
		return nil
	}
	ctx, todos := m.ctx, m.todos
	return func() tea.Msg {
		ts, err := todos.ListTodos(ctx)
		return todosFetchedMsg{ticket: ticket, todos: ts, err: err}
	}
}

func (m appModel) mutationCmd(kind mutationKind, call func(context.Context) error) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		return mutationDoneMsg{kind: kind, err: call(ctx)}
	}
}

func (m appModel) signOutCmd() tea.Cmd {
	ctx, a := m.ctx, m.auth
	return func() tea.Msg {
		return loggedOutMsg{err: a.SignOut(ctx)}
	}
}

// toLogin drops everything tied to the session and shows the login screen.
func (m *appModel) toLogin() {
	m.phase = phaseUnauthenticated
	m.authSeq++
	m.resetSessionState()
}

func (m *appModel) resetSessionState() {
	m.list.SetEnabled(false)
	m.list.Clear()
	m.creating.Reset()
	m.updating.Reset()
	m.deleting.Reset()
	m.cancelEdit()
	m.modal = modalNone
	m.pendingDeleteID = 0
	m.banner = ""
	m.cursor = 0
	m.focus = focusList
	m.newInput.Reset()
	m.newInput.Blur()
	m.loggingOut = false
	m.login = newLoginModel(m.ctx, m.auth, m.msgs, m.log, m.delay)
	m.login.width = m.width
}

func (m *appModel) cancelEdit() {
	m.editing = false
	m.editingID = 0
	m.editInput.Reset()
	m.editInput.Blur()
}

func (m appModel) currentTodos() []model.Todo {
	ts, _ := m.list.Data()
	return ts
}

func (m appModel) selectedTodo() (model.Todo, bool) {
	ts := m.currentTodos()
	if m.cursor < 0 || m.cursor >= len(ts) {
		return model.Todo{}, false
	}
	return ts[m.cursor], true
}

func (m *appModel) clampCursor() {
	n := len(m.currentTodos())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}
