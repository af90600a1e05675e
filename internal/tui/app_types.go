package tui

import (
	"todo-cli/internal/model"
	"todo-cli/internal/query"
)

// authPhase is which of the three top-level screens renders.
type authPhase int

const (
	phaseCheckingAuth authPhase = iota
	phaseUnauthenticated
	phaseAuthenticated
)

func (p authPhase) String() string {
	switch p {
	case phaseCheckingAuth:
		return "checking"
	case phaseUnauthenticated:
		return "unauthenticated"
	case phaseAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

type focusArea int

const (
	focusList focusArea = iota
	focusInput
)

type modalKind int

const (
	modalNone modalKind = iota
	modalConfirmDelete
	modalHelp
)

type mutationKind int

const (
	mutationCreate mutationKind = iota
	mutationUpdate
	mutationDelete
)

func (k mutationKind) String() string {
	switch k {
	case mutationCreate:
		return "create"
	case mutationUpdate:
		return "update"
	default:
		return "delete"
	}
}

type authCheckedMsg struct {
	seq     int
	session *model.Session
	err     error
}

type todosFetchedMsg struct {
	ticket query.Ticket
	todos  []model.Todo
	err    error
}

type mutationDoneMsg struct {
	kind mutationKind
	err  error
}

type loggedOutMsg struct {
	err error
}
