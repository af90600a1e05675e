package tui

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"todo-cli/internal/auth"
	"todo-cli/internal/i18n"
	"todo-cli/internal/service"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const minPasswordLen = 6

type loginMode int

const (
	loginModeSignIn loginMode = iota
	loginModeSignUp
)

type loginField int

const (
	loginFieldName loginField = iota
	loginFieldEmail
	loginFieldPassword
)

// loginResultMsg reports a finished sign-in or sign-up attempt, including the
// session re-check that follows it.
type loginResultMsg struct {
	err        error
	hasSession bool
}

// loginSucceededMsg tells the parent that a session now exists.
type loginSucceededMsg struct{}

type loginModel struct {
	ctx   context.Context
	auth  service.Auth
	msgs  *i18n.Printer
	log   *slog.Logger
	delay time.Duration

	mode     loginMode
	name     textinput.Model
	email    textinput.Model
	password textinput.Model
	focus    loginField

	pending bool
	err     string
	width   int
}

func newLoginModel(ctx context.Context, a service.Auth, msgs *i18n.Printer, log *slog.Logger, delay time.Duration) loginModel {
	newInput := func(limit int) textinput.Model {
		ti := textinput.New()
		ti.Prompt = ""
		ti.CharLimit = limit
		ti.Width = 36
		return ti
	}
	m := loginModel{
		ctx:      ctx,
		auth:     a,
		msgs:     msgs,
		log:      log,
		delay:    delay,
		name:     newInput(80),
		email:    newInput(254),
		password: newInput(128),
	}
	m.password.EchoMode = textinput.EchoPassword
	m.password.EchoCharacter = '•'
	m.setFocus(loginFieldEmail)
	return m
}

func (m loginModel) fields() []loginField {
	if m.mode == loginModeSignUp {
		return []loginField{loginFieldName, loginFieldEmail, loginFieldPassword}
	}
	return []loginField{loginFieldEmail, loginFieldPassword}
}

func (m *loginModel) input(f loginField) *textinput.Model {
	switch f {
	case loginFieldName:
		return &m.name
	case loginFieldPassword:
		return &m.password
	default:
		return &m.email
	}
}

func (m *loginModel) setFocus(f loginField) {
	m.focus = f
	for _, ff := range []loginField{loginFieldName, loginFieldEmail, loginFieldPassword} {
		in := m.input(ff)
		if ff == f {
			in.Focus()
		} else {
			in.Blur()
		}
	}
}

func (m *loginModel) moveFocus(delta int) {
	fs := m.fields()
	idx := 0
	for i, f := range fs {
		if f == m.focus {
			idx = i
		}
	}
	idx = (idx + delta + len(fs)) % len(fs)
	m.setFocus(fs[idx])
}

func (m loginModel) lastField() bool {
	fs := m.fields()
	return m.focus == fs[len(fs)-1]
}

func (m loginModel) Update(msg tea.Msg) (loginModel, tea.Cmd) {
	switch msg := msg.(type) {
	case loginResultMsg:
		m.pending = false
		switch {
		case msg.err != nil:
			m.err = auth.DisplayMessage(msg.err, m.msgs)
		case !msg.hasSession:
			m.err = m.msgs.T(i18n.SessionMissing)
		default:
			return m, func() tea.Msg { return loginSucceededMsg{} }
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+t":
			if m.pending {
				return m, nil
			}
			if m.mode == loginModeSignIn {
				m.mode = loginModeSignUp
				m.setFocus(loginFieldName)
			} else {
				m.mode = loginModeSignIn
				m.setFocus(loginFieldEmail)
			}
			m.err = ""
			return m, nil
		case "tab", "down":
			m.moveFocus(1)
			return m, nil
		case "shift+tab", "up":
			m.moveFocus(-1)
			return m, nil
		case "enter":
			if !m.lastField() {
				m.moveFocus(1)
				return m, nil
			}
			return m.submit()
		}
	}

	var cmd tea.Cmd
	in := m.input(m.focus)
	*in, cmd = in.Update(msg)
	return m, cmd
}

func (m loginModel) submit() (loginModel, tea.Cmd) {
	if m.pending {
		return m, nil
	}
	m.err = ""
	email := strings.TrimSpace(m.email.Value())
	password := m.password.Value()
	if email == "" {
		m.err = m.msgs.T(i18n.EmailRequired)
		return m, nil
	}
	if len([]rune(password)) < minPasswordLen {
		m.err = m.msgs.T(i18n.PasswordTooShort, minPasswordLen)
		return m, nil
	}
	m.pending = true

	ctx, a, delay, log := m.ctx, m.auth, m.delay, m.log
	signUp := m.mode == loginModeSignUp
	name := strings.TrimSpace(m.name.Value())
	if signUp && name == "" {
		name, _, _ = strings.Cut(email, "@")
	}
	return m, func() tea.Msg {
		var err error
		if signUp {
			err = a.SignUpEmail(ctx, email, password, name)
		} else {
			err = a.SignInEmail(ctx, email, password)
		}
		if err != nil {
			log.Debug("login failed", "signup", signUp, "err", err)
			return loginResultMsg{err: err}
		}
		// Let the session cookie settle before asking for it.
		if err := sleepCtx(ctx, delay); err != nil {
			return loginResultMsg{err: err}
		}
		sess, err := a.GetSession(ctx)
		if err != nil {
			return loginResultMsg{err: err}
		}
		return loginResultMsg{hasSession: sess != nil}
	}
}

func (m loginModel) View() string {
	w := contentWidth(m.width)
	if w > 52 {
		w = 52
	}
	bodyW := w - 4

	title := m.msgs.T(i18n.LoginTitle)
	toggle := m.msgs.T(i18n.ToSignup)
	if m.mode == loginModeSignUp {
		title = m.msgs.T(i18n.SignupTitle)
		toggle = m.msgs.T(i18n.ToSignin)
	}

	var b strings.Builder
	b.WriteString(styleTitle().Render(title))
	b.WriteString("\n\n")
	if m.err != "" {
		b.WriteString(styleBanner().Width(bodyW).Render(m.err))
		b.WriteString("\n\n")
	}

	label := func(key string) string { return styleMuted().Render(m.msgs.T(key)) }
	for _, f := range m.fields() {
		switch f {
		case loginFieldName:
			b.WriteString(label(i18n.NameLabel))
		case loginFieldEmail:
			b.WriteString(label(i18n.EmailLabel))
		case loginFieldPassword:
			b.WriteString(label(i18n.PasswordLabel))
		}
		b.WriteString("\n")
		in := m.input(f)
		b.WriteString(renderInputLine(bodyW, in.View(), f == m.focus))
		b.WriteString("\n\n")
	}

	button := title
	if m.pending {
		button = m.msgs.T(i18n.LoginPending)
	}
	b.WriteString(styleButton(!m.pending).Render(button))
	b.WriteString("\n\n")
	b.WriteString(styleMuted().Render(toggle))
	b.WriteString("\n")
	b.WriteString(styleMuted().Width(bodyW).Render(m.msgs.T(i18n.LoginHelp, toggle)))

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorMuted).
		Padding(1, 2).
		Render(b.String())
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
