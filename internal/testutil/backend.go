// Package testutil provides a fake backend and in-memory service fakes for tests.
package testutil

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"todo-cli/internal/model"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

// SessionCookie is the cookie name the fake backend issues, matching better-auth.
const SessionCookie = "better-auth.session_token"

type fakeUser struct {
	ID       string
	Email    string
	Password string
	Name     string
}

type override struct {
	status int
	body   string
}

// Backend is an in-memory stand-in for the todo REST API and its auth endpoints.
// Todos are scoped per user; every /users route answers 401 without a valid
// session cookie.
type Backend struct {
	mu        sync.Mutex
	users     map[string]*fakeUser // email -> user
	sessions  map[string]string    // token -> email
	todos     map[string][]model.Todo
	nextID    int
	calls     []string
	overrides map[string]override

	// NoSessionAfterSignIn makes sign-in/sign-up succeed without issuing a
	// cookie, so the following get-session finds nothing.
	NoSessionAfterSignIn bool
}

func NewBackend() *Backend {
	return &Backend{
		users:     map[string]*fakeUser{},
		sessions:  map[string]string{},
		todos:     map[string][]model.Todo{},
		nextID:    1,
		overrides: map[string]override{},
	}
}

// Start serves the backend on an httptest server that closes with the test.
func (b *Backend) Start(t testing.TB) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(b.Handler())
	t.Cleanup(srv.Close)
	return srv
}

func (b *Backend) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(b.record)
	r.Use(b.applyOverrides)

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/sign-up/email", b.signUp)
		r.Post("/sign-in/email", b.signIn)
		r.Post("/sign-out", b.signOut)
		r.Get("/get-session", b.getSession)
	})

	r.Group(func(r chi.Router) {
		r.Use(b.requireSession)
		r.Get("/users", b.listTodos)
		r.Post("/users", b.createTodo)
		r.Put("/users/{id}", b.updateTodo)
		r.Delete("/users/{id}", b.deleteTodo)
	})
	return r
}

// SeedUser registers a user that can sign in.
func (b *Backend) SeedUser(email, password, name string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.users[email] = &fakeUser{ID: uuid.NewString(), Email: email, Password: password, Name: name}
}

// SeedSession creates a session for email and returns the cookie a client
// would hold after signing in.
func (b *Backend) SeedSession(email string) *http.Cookie {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.users[email]; !ok {
		b.users[email] = &fakeUser{ID: uuid.NewString(), Email: email, Name: email}
	}
	tok := uuid.NewString()
	b.sessions[tok] = email
	return &http.Cookie{Name: SessionCookie, Value: tok, Path: "/"}
}

// SeedTodo stores a task for email directly, bypassing HTTP.
func (b *Backend) SeedTodo(email, title string, status model.Status) model.Todo {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.insertLocked(email, title, status)
}

// ExpireSessions drops every session, so the next request answers 401.
func (b *Backend) ExpireSessions() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sessions = map[string]string{}
}

// Override makes "METHOD /path" answer status with body until cleared.
// An empty body sends no content.
func (b *Backend) Override(route string, status int, body string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.overrides[route] = override{status: status, body: body}
}

func (b *Backend) ClearOverride(route string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.overrides, route)
}

// Todos returns a copy of the tasks stored for email.
func (b *Backend) Todos(email string) []model.Todo {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]model.Todo(nil), b.todos[email]...)
}

// Calls returns every request seen, as "METHOD /path".
func (b *Backend) Calls() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.calls...)
}

// CallCount counts requests matching "METHOD /path" exactly.
func (b *Backend) CallCount(route string) int {
	n := 0
	for _, c := range b.Calls() {
		if c == route {
			n++
		}
	}
	return n
}

func (b *Backend) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.calls = append(b.calls, r.Method+" "+r.URL.Path)
		b.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (b *Backend) applyOverrides(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		o, ok := b.overrides[r.Method+" "+r.URL.Path]
		b.mu.Unlock()
		if !ok {
			next.ServeHTTP(w, r)
			return
		}
		if o.body != "" {
			w.Header().Set("Content-Type", "application/json")
		}
		w.WriteHeader(o.status)
		_, _ = w.Write([]byte(o.body))
	})
}

type ctxKey struct{}

func userFrom(r *http.Request) string {
	email, _ := r.Context().Value(ctxKey{}).(string)
	return email
}

func (b *Backend) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		email, ok := b.sessionEmail(r)
		if !ok {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"error": "Unauthorized"})
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, email)))
	})
}

func (b *Backend) sessionEmail(r *http.Request) (string, bool) {
	c, err := r.Cookie(SessionCookie)
	if err != nil || c.Value == "" {
		return "", false
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	email, ok := b.sessions[c.Value]
	return email, ok
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

func (b *Backend) signUp(w http.ResponseWriter, r *http.Request) {
	var in credentials
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.Email == "" || in.Password == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"code": "VALIDATION_ERROR", "message": "Invalid body"})
		return
	}
	b.mu.Lock()
	if _, exists := b.users[in.Email]; exists {
		b.mu.Unlock()
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"code": "USER_ALREADY_EXISTS", "message": "User already exists"})
		return
	}
	u := &fakeUser{ID: uuid.NewString(), Email: in.Email, Password: in.Password, Name: in.Name}
	b.users[in.Email] = u
	b.mu.Unlock()
	b.issueSession(w, u)
}

func (b *Backend) signIn(w http.ResponseWriter, r *http.Request) {
	var in credentials
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"code": "VALIDATION_ERROR", "message": "Invalid body"})
		return
	}
	b.mu.Lock()
	u, ok := b.users[in.Email]
	b.mu.Unlock()
	if !ok || u.Password != in.Password {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"code": "INVALID_EMAIL_OR_PASSWORD", "message": "Invalid email or password"})
		return
	}
	b.issueSession(w, u)
}

func (b *Backend) issueSession(w http.ResponseWriter, u *fakeUser) {
	tok := uuid.NewString()
	b.mu.Lock()
	skip := b.NoSessionAfterSignIn
	if !skip {
		b.sessions[tok] = u.Email
	}
	b.mu.Unlock()
	if !skip {
		http.SetCookie(w, &http.Cookie{Name: SessionCookie, Value: tok, Path: "/", HttpOnly: true, SameSite: http.SameSiteLaxMode})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"token": tok,
		"user":  model.User{ID: u.ID, Email: u.Email, Name: u.Name},
	})
}

func (b *Backend) signOut(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(SessionCookie); err == nil {
		b.mu.Lock()
		delete(b.sessions, c.Value)
		b.mu.Unlock()
	}
	http.SetCookie(w, &http.Cookie{Name: SessionCookie, Value: "", Path: "/", MaxAge: -1})
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (b *Backend) getSession(w http.ResponseWriter, r *http.Request) {
	email, ok := b.sessionEmail(r)
	if !ok {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte("null"))
		return
	}
	c, _ := r.Cookie(SessionCookie)
	b.mu.Lock()
	u := b.users[email]
	b.mu.Unlock()
	writeJSON(w, http.StatusOK, model.Session{
		User: model.User{ID: u.ID, Email: u.Email, Name: u.Name},
		Session: model.SessionInfo{
			ID:        c.Value,
			UserID:    u.ID,
			ExpiresAt: time.Now().Add(7 * 24 * time.Hour).UTC().Format(time.RFC3339),
		},
	})
}

func (b *Backend) listTodos(w http.ResponseWriter, r *http.Request) {
	email := userFrom(r)
	b.mu.Lock()
	out := append([]model.Todo{}, b.todos[email]...)
	b.mu.Unlock()
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	writeJSON(w, http.StatusOK, out)
}

func (b *Backend) createTodo(w http.ResponseWriter, r *http.Request) {
	var in model.CreateTodoRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, model.Envelope[model.Todo]{Error: "Invalid JSON"})
		return
	}
	if strings.TrimSpace(in.Title) == "" {
		writeJSON(w, http.StatusBadRequest, model.Envelope[model.Todo]{Error: "Title is required"})
		return
	}
	if in.Status == "" {
		in.Status = model.StatusTodo
	}
	if !in.Status.Valid() {
		writeJSON(w, http.StatusBadRequest, model.Envelope[model.Todo]{Error: "Invalid status"})
		return
	}
	b.mu.Lock()
	t := b.insertLocked(userFrom(r), in.Title, in.Status)
	b.mu.Unlock()
	writeJSON(w, http.StatusCreated, model.Envelope[model.Todo]{Success: true, Data: &t})
}

func (b *Backend) updateTodo(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, model.Envelope[model.Todo]{Error: "Invalid id"})
		return
	}
	var in model.UpdateTodoRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, model.Envelope[model.Todo]{Error: "Invalid JSON"})
		return
	}
	if in.Status != "" && !in.Status.Valid() {
		writeJSON(w, http.StatusBadRequest, model.Envelope[model.Todo]{Error: "Invalid status"})
		return
	}
	email := userFrom(r)
	b.mu.Lock()
	defer b.mu.Unlock()
	list := b.todos[email]
	for i := range list {
		if list[i].ID != id {
			continue
		}
		if strings.TrimSpace(in.Title) != "" {
			list[i].Title = in.Title
		}
		if in.Status != "" {
			list[i].Status = in.Status
		}
		list[i].UpdatedAt = time.Now().Unix()
		t := list[i]
		writeJSON(w, http.StatusOK, model.Envelope[model.Todo]{Success: true, Data: &t})
		return
	}
	writeJSON(w, http.StatusNotFound, model.Envelope[model.Todo]{Error: "Todo not found"})
}

func (b *Backend) deleteTodo(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, model.Envelope[model.Todo]{Error: "Invalid id"})
		return
	}
	email := userFrom(r)
	b.mu.Lock()
	defer b.mu.Unlock()
	list := b.todos[email]
	for i := range list {
		if list[i].ID == id {
			b.todos[email] = append(list[:i], list[i+1:]...)
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}
	writeJSON(w, http.StatusNotFound, model.Envelope[model.Todo]{Error: "Todo not found"})
}

func (b *Backend) insertLocked(email, title string, status model.Status) model.Todo {
	now := time.Now().Unix()
	t := model.Todo{ID: b.nextID, Title: title, Status: status, CreatedAt: now, UpdatedAt: now}
	b.nextID++
	b.todos[email] = append(b.todos[email], t)
	return t
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
