// Package tui is the interactive todo client.
package tui

import (
	"context"
	"log/slog"
	"time"

	"todo-cli/internal/i18n"
	"todo-cli/internal/service"

	tea "github.com/charmbracelet/bubbletea"
)

type Options struct {
	Context      context.Context
	Todos        service.Todos
	Auth         service.Auth
	Printer      *i18n.Printer
	Logger       *slog.Logger
	SessionDelay time.Duration
	// HelpMarkdown is shown, rendered, in the ? overlay.
	HelpMarkdown string
}

func Run(opts Options) error {
	applyColorProfilePreference()
	applyThemePreference()
	m := newAppModel(opts)
	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx)).Run()
	return err
}
