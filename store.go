package main

import (
	"context"
	"errors"
)

var (
	ErrNotFound                 = errors.New("not found")
	ErrDuplicateEmail           = errors.New("a user with this email already exists")
	ErrDuplicateCoordinates     = errors.New("duplicate coordinates")
	ErrDuplicateCadastralNumber = errors.New("duplicate cadastral number")
)

// HistoryFilter selects one page of a single user's history. Page and
// Size are assumed validated by the handler (page >= 1, 1 <= size <= 100).
type HistoryFilter struct {
	UserID          int64
	CadastralNumber string // exact match; empty means no filter
	Page            int
	Size            int
}

// Store is the persistence boundary. The production implementation is
// PgxStore; tests inject an in-memory double.
type Store interface {
	CreateUser(ctx context.Context, email, hashedPassword string) (*User, error)
	UserByEmail(ctx context.Context, email string) (*User, error)
	UserByID(ctx context.Context, id int64) (*User, error)
	Users(ctx context.Context) ([]*User, error)

	// DeleteUser removes a user and, explicitly, all of their history rows.
	DeleteUser(ctx context.Context, id int64) error

	// AddQuery inserts a history row and returns it with the
	// server-assigned id and created_at. Rows are never updated.
	AddQuery(ctx context.Context, q *QueryHistory) (*QueryHistory, error)

	// HistoryPage returns one page of history, newest first.
	HistoryPage(ctx context.Context, f HistoryFilter) ([]*QueryHistory, error)
}
