package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"todo-cli/internal/auth"
	"todo-cli/internal/i18n"

	"github.com/spf13/cobra"
)

const minPasswordLen = 6

func newLoginCmd(app *App) *cobra.Command {
	var email, password, name string
	var signup bool

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in (or sign up) and keep the session for later commands",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := app.connect(ctx)
			if err != nil {
				return err
			}
			defer s.Close()

			if strings.TrimSpace(email) == "" || password == "" {
				in := newLineInput(cmd)
				defer in.Close()
				if strings.TrimSpace(email) == "" {
					if email, err = in.ReadLine(s.msgs.T(i18n.EmailLabel) + ": "); err != nil {
						return writeErr(cmd, usageError{err: fmt.Errorf("read email: %w", err)})
					}
				}
				if password == "" {
					if password, err = in.ReadPassword(s.msgs.T(i18n.PasswordLabel) + ": "); err != nil {
						return writeErr(cmd, usageError{err: fmt.Errorf("read password: %w", err)})
					}
				}
			}

			email = strings.TrimSpace(email)
			if email == "" {
				return writeErr(cmd, usageError{err: errors.New(s.msgs.T(i18n.EmailRequired))})
			}
			if len([]rune(password)) < minPasswordLen {
				return writeErr(cmd, usageError{err: errors.New(s.msgs.T(i18n.PasswordTooShort, minPasswordLen))})
			}

			if signup {
				n := strings.TrimSpace(name)
				if n == "" {
					n, _, _ = strings.Cut(email, "@")
				}
				err = s.auth.SignUpEmail(ctx, email, password, n)
			} else {
				err = s.auth.SignInEmail(ctx, email, password)
			}
			if err != nil {
				return writeErr(cmd, displayErr(err, s.msgs))
			}

			// The session cookie can lag the sign-in response.
			if err := sleepCtx(ctx, app.cfg.LoginDelay()); err != nil {
				return writeErr(cmd, err)
			}
			sess, err := s.auth.GetSession(ctx)
			if err != nil {
				return writeErr(cmd, displayErr(err, s.msgs))
			}
			if sess == nil {
				return writeErr(cmd, notLoggedInError{msg: s.msgs.T(i18n.SessionMissing)})
			}
			return writeOut(cmd, app, sess)
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Email (prompted when missing)")
	cmd.Flags().StringVar(&password, "password", envOr("TODO_PASSWORD", ""), "Password (prompted when missing; env TODO_PASSWORD)")
	cmd.Flags().StringVar(&name, "name", "", "Display name for --signup (default: part of the email before @)")
	cmd.Flags().BoolVar(&signup, "signup", false, "Create the account instead of logging in")

	return cmd
}

func newLogoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the session and forget the stored cookie",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.connect(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			// Local cookies are dropped even when the request fails.
			if err := s.auth.SignOut(cmd.Context()); err != nil {
				s.log.Debug("sign-out request failed", "err", err)
			}
			return writeOut(cmd, app, map[string]any{"loggedOut": true})
		},
	}
}

func newWhoamiCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.connect(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			sess, err := s.auth.GetSession(cmd.Context())
			if err != nil {
				return writeErr(cmd, displayErr(err, s.msgs))
			}
			if sess == nil {
				return writeErr(cmd, notLoggedInError{msg: s.msgs.T(i18n.AuthRequired) + " (run `todo login`)"})
			}
			return writeOut(cmd, app, sess)
		},
	}
}

// displayErr keeps the error's type for exit codes but gives auth errors
// the same message the login screen shows.
func displayErr(err error, msgs *i18n.Printer) error {
	var ae *auth.Error
	if errors.As(err, &ae) {
		return fmt.Errorf("%s: %w", auth.DisplayMessage(err, msgs), authStatusErr{ae})
	}
	return err
}

// authStatusErr hides the inner message so displayErr does not print it twice.
type authStatusErr struct{ e *auth.Error }

func (a authStatusErr) Error() string { return fmt.Sprintf("status %d", a.e.Status) }
func (a authStatusErr) Unwrap() error { return a.e }

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
