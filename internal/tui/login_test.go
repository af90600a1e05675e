package tui

import (
	"context"
	"strings"
	"testing"

	"todo-cli/internal/auth"
	"todo-cli/internal/i18n"
	"todo-cli/internal/logging"
	"todo-cli/internal/testutil"

	tea "github.com/charmbracelet/bubbletea"
)

func newTestLogin(a *testutil.FakeAuth) loginModel {
	return newLoginModel(context.Background(), a, i18n.Default(), logging.Discard(), 0)
}

func loginType(m loginModel, s string) loginModel {
	for _, r := range s {
		m, _ = m.Update(runes(string(r)))
	}
	return m
}

// loginSubmit presses enter on the last field and runs the resulting command.
func loginSubmit(t *testing.T, m loginModel) (loginModel, tea.Msg) {
	t.Helper()
	m, cmd := m.Update(keyEnter)
	if cmd == nil {
		return m, nil
	}
	res, ok := cmd().(loginResultMsg)
	if !ok {
		t.Fatalf("expected loginResultMsg")
	}
	m, cmd = m.Update(res)
	if cmd == nil {
		return m, nil
	}
	return m, cmd()
}

func TestLogin_ValidatesBeforeCalling(t *testing.T) {
	a := testutil.NewFakeAuth("")
	m := newTestLogin(a)

	m.setFocus(loginFieldPassword)
	m, _ = loginSubmit(t, m)
	if m.err != "Email is required" {
		t.Fatalf("expected email error, got %q", m.err)
	}

	m.email.SetValue("a@example.com")
	m.password.SetValue("12345")
	m, _ = loginSubmit(t, m)
	if m.err != "Password must be at least 6 characters" {
		t.Fatalf("expected password error, got %q", m.err)
	}
	if a.SignInCalls != 0 {
		t.Fatalf("expected no auth call, got %d", a.SignInCalls)
	}
}

func TestLogin_SignInSucceeds(t *testing.T) {
	a := testutil.NewFakeAuth("")
	m := newTestLogin(a)

	m = loginType(m, "a@example.com")
	m, _ = m.Update(keyEnter)
	if m.focus != loginFieldPassword {
		t.Fatalf("expected enter to move to password, got %v", m.focus)
	}
	m = loginType(m, "secret1")
	_, msg := loginSubmit(t, m)

	if _, ok := msg.(loginSucceededMsg); !ok {
		t.Fatalf("expected loginSucceededMsg, got %T", msg)
	}
	if a.SignInCalls != 1 || a.SessionCalls != 1 {
		t.Fatalf("expected sign-in then session check, got %d/%d", a.SignInCalls, a.SessionCalls)
	}
}

func TestLogin_ErrorShowsServerMessage(t *testing.T) {
	a := testutil.NewFakeAuth("")
	a.SignInErr = &auth.Error{Status: 401, Code: "INVALID_EMAIL_OR_PASSWORD", Message: "Invalid email or password"}
	m := newTestLogin(a)
	m.email.SetValue("a@example.com")
	m.password.SetValue("wrongpass")
	m.setFocus(loginFieldPassword)

	m, msg := loginSubmit(t, m)
	if msg != nil {
		t.Fatalf("expected no success message, got %T", msg)
	}
	if m.pending {
		t.Fatalf("expected pending cleared")
	}
	if m.err != "Invalid email or password" {
		t.Fatalf("expected server message, got %q", m.err)
	}
	if !strings.Contains(m.View(), "Invalid email or password") {
		t.Fatalf("expected error in view")
	}
}

func TestLogin_SessionMissingAfterSignIn(t *testing.T) {
	a := testutil.NewFakeAuth("")
	a.SkipSession = true
	m := newTestLogin(a)
	m.email.SetValue("a@example.com")
	m.password.SetValue("secret1")
	m.setFocus(loginFieldPassword)

	m, msg := loginSubmit(t, m)
	if msg != nil {
		t.Fatalf("expected no success message, got %T", msg)
	}
	if m.err != i18n.Default().T(i18n.SessionMissing) {
		t.Fatalf("expected session-missing message, got %q", m.err)
	}
}

func TestLogin_ToggleModeAndSignUpNameDefault(t *testing.T) {
	a := testutil.NewFakeAuth("")
	m := newTestLogin(a)
	m.err = "stale"

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlT})
	if m.mode != loginModeSignUp || m.focus != loginFieldName {
		t.Fatalf("expected sign-up mode focused on name, got mode=%v focus=%v", m.mode, m.focus)
	}
	if m.err != "" {
		t.Fatalf("expected error cleared on mode switch")
	}
	if !strings.Contains(m.View(), "Sign up") {
		t.Fatalf("expected sign-up title")
	}

	// Name left empty.
	m, _ = m.Update(keyEnter)
	m = loginType(m, "new.user@example.com")
	m, _ = m.Update(keyEnter)
	m = loginType(m, "secret1")
	_, msg := loginSubmit(t, m)

	if _, ok := msg.(loginSucceededMsg); !ok {
		t.Fatalf("expected loginSucceededMsg, got %T", msg)
	}
	if a.SignUpCalls != 1 || a.LastName != "new.user" {
		t.Fatalf("expected sign-up with name from email, got calls=%d name=%q", a.SignUpCalls, a.LastName)
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlT})
	if m.mode != loginModeSignIn {
		t.Fatalf("expected back to sign-in")
	}
}

func TestLogin_DuplicateSubmitIgnored(t *testing.T) {
	a := testutil.NewFakeAuth("")
	m := newTestLogin(a)
	m.email.SetValue("a@example.com")
	m.password.SetValue("secret1")
	m.setFocus(loginFieldPassword)

	m, first := m.Update(keyEnter)
	if first == nil || !m.pending {
		t.Fatalf("expected pending submit")
	}
	m, second := m.Update(keyEnter)
	if second != nil {
		t.Fatalf("expected second submit ignored")
	}
	if !strings.Contains(m.View(), "Processing...") {
		t.Fatalf("expected pending label")
	}
}
