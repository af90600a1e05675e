package model

import (
	"fmt"
	"strings"
)

type Status string

const (
	StatusTodo  Status = "todo"
	StatusDoing Status = "doing"
	StatusDone  Status = "done"
)

// Statuses lists every status in display order.
var Statuses = []Status{StatusTodo, StatusDoing, StatusDone}

func (s Status) Valid() bool {
	switch s {
	case StatusTodo, StatusDoing, StatusDone:
		return true
	default:
		return false
	}
}

// Toggled returns the status a checkbox toggle moves to: done goes back to todo,
// anything else becomes done.
func (s Status) Toggled() Status {
	if s == StatusDone {
		return StatusTodo
	}
	return StatusDone
}

func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	if !st.Valid() {
		return "", fmt.Errorf("invalid status %q (expected todo|doing|done)", s)
	}
	return st, nil
}

// Todo is a task as returned by the backend. The client never constructs one locally.
type Todo struct {
	ID        int    `json:"id" yaml:"id"`
	Title     string `json:"title" yaml:"title"`
	Status    Status `json:"status" yaml:"status"`
	CreatedAt int64  `json:"createdAt" yaml:"createdAt"`
	UpdatedAt int64  `json:"updatedAt" yaml:"updatedAt"`
}

func (t Todo) Done() bool { return t.Status == StatusDone }

type CreateTodoRequest struct {
	Title  string `json:"title"`
	Status Status `json:"status,omitempty"`
}

type UpdateTodoRequest struct {
	Title  string `json:"title"`
	Status Status `json:"status,omitempty"`
}

// Envelope is the backend's JSON wrapper for create/update responses and error bodies.
type Envelope[T any] struct {
	Success bool   `json:"success"`
	Data    *T     `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
	Details string `json:"details,omitempty"`
}

// FindTodo returns the todo with id, if present.
func FindTodo(todos []Todo, id int) (Todo, bool) {
	for _, t := range todos {
		if t.ID == id {
			return t, true
		}
	}
	return Todo{}, false
}

type User struct {
	ID    string `json:"id" yaml:"id"`
	Email string `json:"email" yaml:"email"`
	Name  string `json:"name" yaml:"name"`
}

type SessionInfo struct {
	ID        string `json:"id,omitempty" yaml:"id,omitempty"`
	UserID    string `json:"userId,omitempty" yaml:"userId,omitempty"`
	ExpiresAt string `json:"expiresAt,omitempty" yaml:"expiresAt,omitempty"`
}

// Session is what get-session returns when a session exists. The app only
// checks for its presence; the fields are for display.
type Session struct {
	User    User        `json:"user" yaml:"user"`
	Session SessionInfo `json:"session" yaml:"session"`
}
