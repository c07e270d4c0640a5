// Package storage provides abstractions for persistent raffle storage.
package storage

import (
	"context"
	"errors"

	"github.com/helved/rafflebox/internal/models"
)

var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrRaffleClosed is returned by AppendEntry when the raffle already
	// has a winner.
	ErrRaffleClosed = errors.New("raffle is closed")

	// ErrWinnerSet is returned by SetWinner when a winner was already
	// drawn for the raffle.
	ErrWinnerSet = errors.New("winner already set")
)

// Store defines the interface for raffle and user storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL,
// etc.) without changing the service layer.
type Store interface {
	// CreateRaffle persists a new raffle. ID and CreatedAt are populated
	// by the store when unset.
	CreateRaffle(ctx context.Context, raffle *models.Raffle) error

	// GetRaffle retrieves a raffle by ID, including its ordered entry
	// list and winner. Returns ErrNotFound if it does not exist.
	GetRaffle(ctx context.Context, raffleID string) (*models.Raffle, error)

	// ListRaffles returns all raffles with their entries, in creation
	// (arrival) order.
	ListRaffles(ctx context.Context) ([]models.Raffle, error)

	// AppendEntry atomically appends an entry to an open raffle. The
	// open-check and the insert happen in one transaction, so two
	// concurrent appends both survive and neither can land after a
	// winner is drawn. Returns ErrNotFound or ErrRaffleClosed.
	AppendEntry(ctx context.Context, raffleID string, entry *models.Entry) error

	// SetWinner marks the given entry as the raffle's winner. The write
	// is guarded: it only succeeds while no winner is set. Returns
	// ErrNotFound or ErrWinnerSet.
	SetWinner(ctx context.Context, raffleID, entryID string) error

	// DeleteRaffle removes a raffle and its entries. Returns ErrNotFound
	// if it does not exist.
	DeleteRaffle(ctx context.Context, raffleID string) error

	// CreateUser inserts a new user.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail retrieves a user by email. Returns nil, nil when no
	// such user exists.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID retrieves a user by ID. Returns nil, nil when no such
	// user exists.
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// UpdateProfile updates a user's display name and bio.
	UpdateProfile(ctx context.Context, userID, displayName, bio string) error

	// Close releases any resources held by the store.
	Close() error
}
