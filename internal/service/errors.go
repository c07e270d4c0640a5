package service

import "errors"

var (
	// ErrRaffleNotFound is returned when the requested raffle does not
	// exist.
	ErrRaffleNotFound = errors.New("raffle not found")

	// ErrRaffleClosed is returned by admission when the raffle is gone
	// or already has a winner. The entry is never silently accepted.
	ErrRaffleClosed = errors.New("raffle is closed")

	// ErrPersistenceFailed is returned when a store write fails. After a
	// successful charge this is the "payment captured, entry not
	// recorded" state; reconciliation is out of band.
	ErrPersistenceFailed = errors.New("persistence failed")

	// ErrPaymentCaptured marks a purchase where the charge succeeded but
	// the entry could not be recorded. Handlers must surface this as a
	// distinct outcome, never as a generic error.
	ErrPaymentCaptured = errors.New("payment captured, entry not recorded")

	// ErrNoEntries is returned by a draw on a raffle with no entries.
	ErrNoEntries = errors.New("raffle has no entries")

	// ErrAlreadyDrawn is returned by a draw on a raffle whose winner is
	// already set.
	ErrAlreadyDrawn = errors.New("winner already drawn")

	// ErrForbidden is returned when a caller other than the raffle
	// creator attempts a draw or a deletion. No side effect is performed.
	ErrForbidden = errors.New("only the raffle creator may do this")

	// ErrInvalidInput is returned for malformed creation parameters.
	ErrInvalidInput = errors.New("invalid input")
)
