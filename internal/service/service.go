// Package service defines the backend-facing interfaces the TUI and CLI depend on.
// The api and auth packages implement them over HTTP; tests substitute fakes.
package service

import (
	"context"

	"todo-cli/internal/model"
)

// Todos is the task CRUD surface of the backend.
type Todos interface {
	// ListTodos returns the current user's tasks in server order.
	ListTodos(ctx context.Context) ([]model.Todo, error)

	// CreateTodo creates a task; the server defaults status to "todo" when it is empty.
	CreateTodo(ctx context.Context, req model.CreateTodoRequest) (model.Todo, error)

	// UpdateTodo replaces title and status of task id.
	UpdateTodo(ctx context.Context, id int, req model.UpdateTodoRequest) (model.Todo, error)

	// DeleteTodo removes task id.
	DeleteTodo(ctx context.Context, id int) error
}

// Auth is the session surface. The cookie protocol behind it is opaque to callers.
type Auth interface {
	SignUpEmail(ctx context.Context, email, password, name string) error
	SignInEmail(ctx context.Context, email, password string) error
	SignOut(ctx context.Context) error

	// GetSession returns nil (and no error) when there is no session.
	GetSession(ctx context.Context) (*model.Session, error)
}
