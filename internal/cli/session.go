package cli

import (
	"context"
	"io"
	"log/slog"

	"todo-cli/internal/api"
	"todo-cli/internal/auth"
	"todo-cli/internal/i18n"
	"todo-cli/internal/logging"
	"todo-cli/internal/store"
)

// session bundles the clients one command run needs. Both clients share the
// cookie jar, which is backed by the state store.
type session struct {
	msgs  *i18n.Printer
	log   *slog.Logger
	jar   *auth.Jar
	auth  *auth.Client
	todos *api.Client

	logCloser io.Closer
}

func (app *App) connect(ctx context.Context) (*session, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	log, closer, err := logging.Open(app.DebugLog, app.cfg.LogLevel)
	if err != nil {
		return nil, usageError{err: err}
	}
	msgs := i18n.New(app.Lang)
	base := app.baseURL()

	st := store.Store{Dir: app.dir}
	jar, err := auth.NewJar(ctx, base, st, log)
	if err != nil {
		_ = closer.Close()
		return nil, usageError{err: err}
	}
	ac := auth.New(base,
		auth.WithJar(jar),
		auth.WithBasePath(app.cfg.AuthPath()),
		auth.WithPrinter(msgs),
		auth.WithLogger(log),
		auth.WithTimeout(app.cfg.Timeout()),
	)
	tc := api.New(base,
		api.WithHTTPClient(ac.HTTPClient()),
		api.WithPrinter(msgs),
		api.WithLogger(log),
		api.WithTimeout(app.cfg.Timeout()),
	)
	log.Debug("session ready", "base_url", base, "lang", msgs.Lang())
	return &session{msgs: msgs, log: log, jar: jar, auth: ac, todos: tc, logCloser: closer}, nil
}

func (s *session) Close() error {
	if s == nil || s.logCloser == nil {
		return nil
	}
	return s.logCloser.Close()
}
