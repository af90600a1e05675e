// Package api is the HTTP client for the backend's task endpoints (/users).
package api

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

	"todo-cli/internal/i18n"
	"todo-cli/internal/logging"
	"todo-cli/internal/model"
	"todo-cli/internal/service"

	"github.com/google/uuid"
)

// maxErrorBody bounds how much of an error response we read looking for a message.
const maxErrorBody = 1 << 20

// Client talks to the task endpoints. The underlying http.Client must carry the
// session cookie jar; every request is sent with its credentials.
type Client struct {
	baseURL string
	http    *http.Client
	msgs    *i18n.Printer
	log     *slog.Logger
	timeout time.Duration
}

var _ service.Todos = (*Client)(nil)

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
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

// WithTimeout bounds each request. Zero disables the client-side timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		http:    http.DefaultClient,
		msgs:    i18n.Default(),
		log:     logging.Discard(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *Client) BaseURL() string { return c.baseURL }

// ListTodos returns the raw array from GET /users.
func (c *Client) ListTodos(ctx context.Context) ([]model.Todo, error) {
	var todos []model.Todo
	err := c.do(ctx, http.MethodGet, "/users", nil, &todos, func(status int) string {
		return c.msgs.T(i18n.ListFailed, status)
	})
	if err != nil {
		return nil, err
	}
	if todos == nil {
		todos = []model.Todo{}
	}
	return todos, nil
}

func (c *Client) CreateTodo(ctx context.Context, req model.CreateTodoRequest) (model.Todo, error) {
	var env model.Envelope[model.Todo]
	err := c.do(ctx, http.MethodPost, "/users", req, &env, func(int) string {
		return c.msgs.T(i18n.CreateFailed)
	})
	if err != nil {
		return model.Todo{}, err
	}
	if env.Data == nil {
		return model.Todo{}, c.missingData("create todo", c.msgs.T(i18n.CreateFailed))
	}
	return *env.Data, nil
}

func (c *Client) UpdateTodo(ctx context.Context, id int, req model.UpdateTodoRequest) (model.Todo, error) {
	var env model.Envelope[model.Todo]
	err := c.do(ctx, http.MethodPut, fmt.Sprintf("/users/%d", id), req, &env, func(int) string {
		return c.msgs.T(i18n.UpdateFailed)
	})
	if err != nil {
		return model.Todo{}, err
	}
	if env.Data == nil {
		return model.Todo{}, c.missingData("update todo", c.msgs.T(i18n.UpdateFailed))
	}
	return *env.Data, nil
}

func (c *Client) DeleteTodo(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/users/%d", id), nil, nil, func(int) string {
		return c.msgs.T(i18n.DeleteFailed)
	})
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any, fallback func(status int) string) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rdr)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json; charset=utf-8")
	}
	reqID := uuid.NewString()
	req.Header.Set("X-Request-Id", reqID)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		// Caller cancellation is not an outage; pass it through untouched.
		if errors.Is(err, context.Canceled) {
			return err
		}
		c.log.Debug("request failed", "method", method, "path", path, "request_id", reqID, "err", err)
		return &ConnectivityError{Message: c.msgs.T(i18n.Unreachable), Err: err}
	}
	defer resp.Body.Close()
	c.log.Debug("request", "method", method, "path", path, "status", resp.StatusCode, "request_id", reqID, "dur", time.Since(start))

	if resp.StatusCode == http.StatusUnauthorized {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBody))
		return &AuthRequiredError{Message: c.msgs.T(i18n.AuthRequired)}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := errorBodyMessage(resp.Body)
		if msg == "" {
			msg = fallback(resp.StatusCode)
		}
		return &DomainError{Status: resp.StatusCode, Message: msg}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		c.log.Debug("decode response failed", "method", method, "path", path, "status", resp.StatusCode, "request_id", reqID, "err", err)
		return &DomainError{Status: resp.StatusCode, Message: fallback(resp.StatusCode)}
	}
	return nil
}

// missingData is a 2xx whose envelope carried no data; it counts as a
// backend failure.
func (c *Client) missingData(op, msg string) error {
	c.log.Debug("response envelope has no data", "op", op)
	return &DomainError{Status: http.StatusOK, Message: msg}
}

// errorBodyMessage extracts the backend's message from a JSON error body.
// It accepts {"error": "..."}, {"error": {"message": "..."}} and {"message": "..."}.
func errorBodyMessage(r io.Reader) string {
	b, err := io.ReadAll(io.LimitReader(r, maxErrorBody))
	if err != nil || len(bytes.TrimSpace(b)) == 0 {
		return ""
	}
	var body struct {
		Error   json.RawMessage `json:"error"`
		Message string          `json:"message"`
	}
	if err := json.Unmarshal(b, &body); err != nil {
		return ""
	}
	if len(body.Error) > 0 {
		var s string
		if err := json.Unmarshal(body.Error, &s); err == nil && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
		var nested struct {
			Message string `json:"message"`
		}
		if err := json.Unmarshal(body.Error, &nested); err == nil && strings.TrimSpace(nested.Message) != "" {
			return strings.TrimSpace(nested.Message)
		}
	}
	return strings.TrimSpace(body.Message)
}
