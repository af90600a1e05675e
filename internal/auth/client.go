// Package auth is the client for the backend's cookie-session auth endpoints.
package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"todo-cli/internal/api"
	"todo-cli/internal/i18n"
	"todo-cli/internal/logging"
	"todo-cli/internal/model"
	"todo-cli/internal/service"

	"github.com/google/uuid"
)

// DefaultBasePath is where the auth endpoints are mounted.
const DefaultBasePath = "/api/auth"

const maxBody = 1 << 20

// Error is a non-2xx auth response. Nested is the message from an error
// object inside the body ({"error": {"message": ...}}); Message is the
// body's top-level message.
type Error struct {
	Status  int
	Code    string
	Message string
	Nested  string
}

func (e *Error) Error() string {
	if e.Nested != "" {
		return e.Nested
	}
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("auth request failed: status %d", e.Status)
}

// DisplayMessage picks the text shown for a failed auth call: the nested
// error message, then the top-level message, then the generic message.
func DisplayMessage(err error, p *i18n.Printer) string {
	if err == nil {
		return ""
	}
	var ae *Error
	if errors.As(err, &ae) {
		switch {
		case ae.Nested != "":
			return ae.Nested
		case ae.Message != "":
			return ae.Message
		default:
			return p.T(i18n.GenericError)
		}
	}
	if msg := strings.TrimSpace(err.Error()); msg != "" {
		return msg
	}
	return p.T(i18n.GenericError)
}

type Client struct {
	baseURL  string
	basePath string
	http     *http.Client
	jar      *Jar
	msgs     *i18n.Printer
	log      *slog.Logger
	timeout  time.Duration
}

var _ service.Auth = (*Client)(nil)

type Option func(*Client)

// WithJar sends requests through jar and clears it on sign-out.
func WithJar(j *Jar) Option {
	return func(c *Client) {
		if j != nil {
			c.jar = j
			c.http = &http.Client{Jar: j}
		}
	}
}

func WithBasePath(p string) Option {
	return func(c *Client) {
		if p = strings.TrimSpace(p); p != "" {
			c.basePath = "/" + strings.Trim(p, "/")
		}
	}
}

func WithPrinter(p *i18n.Printer) Option {
	return func(c *Client) {
		if p != nil {
			c.msgs = p
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:  strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		basePath: DefaultBasePath,
		http:     http.DefaultClient,
		msgs:     i18n.Default(),
		log:      logging.Discard(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// HTTPClient is the cookie-carrying client that the task API should share.
func (c *Client) HTTPClient() *http.Client { return c.http }

func (c *Client) SignUpEmail(ctx context.Context, email, password, name string) error {
	body := map[string]string{"email": email, "password": password, "name": name}
	_, err := c.do(ctx, http.MethodPost, "/sign-up/email", body)
	return err
}

func (c *Client) SignInEmail(ctx context.Context, email, password string) error {
	body := map[string]string{"email": email, "password": password}
	_, err := c.do(ctx, http.MethodPost, "/sign-in/email", body)
	return err
}

// SignOut ends the server session. Local cookies are dropped even when the
// request fails.
func (c *Client) SignOut(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodPost, "/sign-out", struct{}{})
	if c.jar != nil {
		if cerr := c.jar.Clear(ctx); cerr != nil {
			c.log.Warn("clear cookies failed", "err", cerr)
		}
	}
	return err
}

// GetSession returns nil when there is no session.
func (c *Client) GetSession(ctx context.Context) (*model.Session, error) {
	raw, err := c.do(ctx, http.MethodGet, "/get-session", nil)
	if err != nil {
		var ae *Error
		if errors.As(err, &ae) && ae.Status == http.StatusUnauthorized {
			return nil, nil
		}
		return nil, err
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}
	var s model.Session
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	if s.Session.ID == "" && s.User.ID == "" && s.User.Email == "" {
		return nil, nil
	}
	return &s, nil
}

func (c *Client) do(ctx context.Context, method, path string, body any) ([]byte, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		rdr = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+c.basePath+path, rdr)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
		// Cookie-session servers reject state-changing requests without an Origin.
		req.Header.Set("Origin", c.baseURL)
	}
	reqID := uuid.NewString()
	req.Header.Set("X-Request-Id", reqID)

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		c.log.Debug("auth request failed", "path", path, "request_id", reqID, "err", err)
		return nil, &api.ConnectivityError{Message: c.msgs.T(i18n.Unreachable), Err: err}
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	c.log.Debug("auth request", "method", method, "path", path, "status", resp.StatusCode, "request_id", reqID)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, parseError(resp.StatusCode, raw)
	}
	return raw, nil
}

func parseError(status int, raw []byte) *Error {
	e := &Error{Status: status}
	var body struct {
		Code    string          `json:"code"`
		Message string          `json:"message"`
		Error   json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return e
	}
	e.Code = body.Code
	e.Message = strings.TrimSpace(body.Message)
	if len(body.Error) > 0 {
		var s string
		if json.Unmarshal(body.Error, &s) == nil {
			e.Nested = strings.TrimSpace(s)
		} else {
			var nested struct {
				Code    string `json:"code"`
				Message string `json:"message"`
			}
			if json.Unmarshal(body.Error, &nested) == nil {
				e.Nested = strings.TrimSpace(nested.Message)
				if e.Code == "" {
					e.Code = nested.Code
				}
			}
		}
	}
	return e
}
