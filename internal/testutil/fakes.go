package testutil

import (
	"context"
	"errors"
	"strings"
	"sync"

	"todo-cli/internal/model"
)

// ErrNotFound is returned by FakeTodos for an unknown id.
var ErrNotFound = errors.New("not found")

// FakeTodos is an in-memory service.Todos. Errors set on it are returned
// instead of touching the list.
type FakeTodos struct {
	mu     sync.Mutex
	todos  []model.Todo
	nextID int

	ListErr   error
	CreateErr error
	UpdateErr error
	DeleteErr error

	ListCalls   int
	CreateCalls int
	UpdateCalls int
	DeleteCalls int

	LastCreate model.CreateTodoRequest
	LastUpdate model.UpdateTodoRequest
}

func NewFakeTodos(todos ...model.Todo) *FakeTodos {
	f := &FakeTodos{nextID: 1}
	for _, t := range todos {
		f.todos = append(f.todos, t)
		if t.ID >= f.nextID {
			f.nextID = t.ID + 1
		}
	}
	return f
}

func (f *FakeTodos) Snapshot() []model.Todo {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.Todo(nil), f.todos...)
}

func (f *FakeTodos) ListTodos(ctx context.Context) ([]model.Todo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ListCalls++
	if f.ListErr != nil {
		return nil, f.ListErr
	}
	return append([]model.Todo{}, f.todos...), nil
}

func (f *FakeTodos) CreateTodo(ctx context.Context, req model.CreateTodoRequest) (model.Todo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.CreateCalls++
	f.LastCreate = req
	if f.CreateErr != nil {
		return model.Todo{}, f.CreateErr
	}
	st := req.Status
	if st == "" {
		st = model.StatusTodo
	}
	t := model.Todo{ID: f.nextID, Title: req.Title, Status: st}
	f.nextID++
	f.todos = append(f.todos, t)
	return t, nil
}

func (f *FakeTodos) UpdateTodo(ctx context.Context, id int, req model.UpdateTodoRequest) (model.Todo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.UpdateCalls++
	f.LastUpdate = req
	if f.UpdateErr != nil {
		return model.Todo{}, f.UpdateErr
	}
	for i := range f.todos {
		if f.todos[i].ID != id {
			continue
		}
		if strings.TrimSpace(req.Title) != "" {
			f.todos[i].Title = req.Title
		}
		if req.Status != "" {
			f.todos[i].Status = req.Status
		}
		return f.todos[i], nil
	}
	return model.Todo{}, ErrNotFound
}

func (f *FakeTodos) DeleteTodo(ctx context.Context, id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.DeleteCalls++
	if f.DeleteErr != nil {
		return f.DeleteErr
	}
	for i := range f.todos {
		if f.todos[i].ID == id {
			f.todos = append(f.todos[:i], f.todos[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

// FakeAuth is an in-memory service.Auth. A successful sign-in or sign-up
// creates a session unless SkipSession is set.
type FakeAuth struct {
	mu      sync.Mutex
	session *model.Session

	SignInErr   error
	SignUpErr   error
	SignOutErr  error
	SessionErr  error
	SkipSession bool

	SignInCalls  int
	SignUpCalls  int
	SignOutCalls int
	SessionCalls int

	LastName string
}

// NewFakeAuth returns a FakeAuth, signed in as email when email is non-empty.
func NewFakeAuth(email string) *FakeAuth {
	f := &FakeAuth{}
	if email != "" {
		f.session = sessionFor(email, "")
	}
	return f
}

func sessionFor(email, name string) *model.Session {
	return &model.Session{
		User:    model.User{ID: "u-" + email, Email: email, Name: name},
		Session: model.SessionInfo{ID: "s-" + email},
	}
}

func (f *FakeAuth) SignedIn() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.session != nil
}

// Expire drops the current session.
func (f *FakeAuth) Expire() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.session = nil
}

func (f *FakeAuth) SignUpEmail(ctx context.Context, email, password, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.SignUpCalls++
	f.LastName = name
	if f.SignUpErr != nil {
		return f.SignUpErr
	}
	if !f.SkipSession {
		f.session = sessionFor(email, name)
	}
	return nil
}

func (f *FakeAuth) SignInEmail(ctx context.Context, email, password string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.SignInCalls++
	if f.SignInErr != nil {
		return f.SignInErr
	}
	if !f.SkipSession {
		f.session = sessionFor(email, "")
	}
	return nil
}

func (f *FakeAuth) SignOut(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.SignOutCalls++
	f.session = nil
	return f.SignOutErr
}

func (f *FakeAuth) GetSession(ctx context.Context) (*model.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.SessionCalls++
	if f.SessionErr != nil {
		return nil, f.SessionErr
	}
	if f.session == nil {
		return nil, nil
	}
	s := *f.session
	return &s, nil
}
