// Package service implements the raffle lifecycle: creation, entry
// admission, winner selection, and the purchase orchestration that ties
// payment success to admission.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"path"

	"github.com/google/uuid"

	"github.com/helved/rafflebox/internal/metrics"
	"github.com/helved/rafflebox/internal/models"
	"github.com/helved/rafflebox/internal/objectstore"
	"github.com/helved/rafflebox/internal/payment"
	"github.com/helved/rafflebox/internal/storage"
)

// RaffleService owns all raffle mutations. Every committed mutation is
// followed by a watcher broadcast so live subscribers observe the new
// collection state.
type RaffleService struct {
	store   storage.Store
	watcher *storage.Watcher
	gateway payment.Gateway
	objects objectstore.Store
}

// NewRaffleService creates a raffle service over the given collaborators.
func NewRaffleService(store storage.Store, watcher *storage.Watcher, gateway payment.Gateway, objects objectstore.Store) *RaffleService {
	return &RaffleService{
		store:   store,
		watcher: watcher,
		gateway: gateway,
		objects: objects,
	}
}

// CreateRaffle creates a new raffle owned by creator. The creator's
// profile is denormalized onto the record as a point-in-time snapshot.
// cover, when non-empty, is uploaded to the object store and the
// resolved URL stored on the record.
func (s *RaffleService) CreateRaffle(ctx context.Context, creator *models.User, name, description string, ticketPrice float64, cover []byte, coverName string) (*models.Raffle, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if ticketPrice <= 0 {
		return nil, fmt.Errorf("%w: ticket price must be positive", ErrInvalidInput)
	}

	raffle := &models.Raffle{
		ID:          uuid.New().String(),
		Name:        name,
		Description: description,
		TicketPrice: ticketPrice,
		CreatorID:   creator.ID,
		Creator: models.CreatorProfile{
			DisplayName: creator.EntrantName(),
			Bio:         creator.Bio,
		},
	}

	if len(cover) > 0 {
		url, err := s.objects.Put(ctx, path.Join("raffles", raffle.ID, coverName), cover)
		if err != nil {
			return nil, fmt.Errorf("failed to upload cover image: %w", err)
		}
		raffle.ImageURL = url
	}

	if err := s.store.CreateRaffle(ctx, raffle); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistenceFailed, err)
	}

	slog.Info("raffle created", "raffle_id", raffle.ID, "creator_id", creator.ID, "ticket_price", raffle.TicketPrice)
	s.watcher.Broadcast(ctx)
	return raffle, nil
}

// GetRaffle returns a raffle by id.
func (s *RaffleService) GetRaffle(ctx context.Context, raffleID string) (*models.Raffle, error) {
	raffle, err := s.store.GetRaffle(ctx, raffleID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrRaffleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistenceFailed, err)
	}
	return raffle, nil
}

// ListRaffles returns the current collection snapshot in arrival order.
func (s *RaffleService) ListRaffles(ctx context.Context) ([]models.Raffle, error) {
	raffles, err := s.store.ListRaffles(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistenceFailed, err)
	}
	return raffles, nil
}

// DeleteRaffle removes a raffle. Only the creator may delete, at any
// time, regardless of entries or winner state.
func (s *RaffleService) DeleteRaffle(ctx context.Context, raffleID, requesterID string) error {
	raffle, err := s.GetRaffle(ctx, raffleID)
	if err != nil {
		return err
	}
	if raffle.CreatorID != requesterID {
		return ErrForbidden
	}

	if err := s.store.DeleteRaffle(ctx, raffleID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrRaffleNotFound
		}
		return fmt.Errorf("%w: %v", ErrPersistenceFailed, err)
	}

	slog.Info("raffle deleted", "raffle_id", raffleID, "creator_id", requesterID)
	s.watcher.Broadcast(ctx)
	return nil
}

// Admit appends a new entry for payer to an open raffle. The caller must
// have confirmed payment success before invoking this; Admit never
// charges anyone. A raffle that is gone or already has a winner yields
// ErrRaffleClosed. Store write failures yield ErrPersistenceFailed so
// the caller can distinguish "payment captured, entry not recorded".
func (s *RaffleService) Admit(ctx context.Context, raffleID string, payer *models.User) error {
	entry := &models.Entry{
		ID:     uuid.New().String(),
		UserID: payer.ID,
		Name:   payer.EntrantName(),
	}

	err := s.store.AppendEntry(ctx, raffleID, entry)
	switch {
	case errors.Is(err, storage.ErrNotFound), errors.Is(err, storage.ErrRaffleClosed):
		return ErrRaffleClosed
	case err != nil:
		return fmt.Errorf("%w: %v", ErrPersistenceFailed, err)
	}

	metrics.AdmissionsTotal.Inc()
	slog.Info("entry admitted", "raffle_id", raffleID, "entry_id", entry.ID, "user_id", payer.ID)
	s.watcher.Broadcast(ctx)
	return nil
}

// PurchaseTicket orchestrates a ticket purchase: charge the ticket price
// plus platform fee through the gateway, then admit the buyer. Payment
// failure is terminal and never creates an entry. A charge success
// followed by an admission failure returns ErrPaymentCaptured — money
// and data have diverged and the caller must surface that distinctly.
func (s *RaffleService) PurchaseTicket(ctx context.Context, raffleID string, buyer *models.User) (*payment.Receipt, error) {
	raffle, err := s.GetRaffle(ctx, raffleID)
	if err != nil {
		metrics.PurchasesTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	if raffle.Closed() {
		metrics.PurchasesTotal.WithLabelValues("closed").Inc()
		return nil, ErrRaffleClosed
	}

	amount := payment.ChargeAmount(raffle.TicketPrice)
	receipt, err := s.gateway.Charge(ctx, amount)
	if err != nil {
		metrics.PurchasesTotal.WithLabelValues("payment_failed").Inc()
		slog.Warn("charge failed", "raffle_id", raffleID, "user_id", buyer.ID, "amount", amount, "error", err)
		return nil, err
	}

	if err := s.Admit(ctx, raffleID, buyer); err != nil {
		metrics.PurchasesTotal.WithLabelValues("captured_not_recorded").Inc()
		slog.Error("payment captured but entry not recorded",
			"raffle_id", raffleID, "user_id", buyer.ID,
			"payer_token", receipt.PayerToken, "cause", err)
		return receipt, fmt.Errorf("%w (cause: %v)", ErrPaymentCaptured, err)
	}

	metrics.PurchasesTotal.WithLabelValues("ok").Inc()
	return receipt, nil
}

// DrawWinner selects a winner uniformly at random from the raffle's
// current entries and closes the raffle. Only the creator may draw.
// If the persistence write fails the raffle stays open and a retry may
// select a different entry; no partial state is observable.
func (s *RaffleService) DrawWinner(ctx context.Context, raffleID, requesterID string) (*models.Entry, error) {
	raffle, err := s.GetRaffle(ctx, raffleID)
	if err != nil {
		metrics.DrawsTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	if raffle.CreatorID != requesterID {
		metrics.DrawsTotal.WithLabelValues("forbidden").Inc()
		return nil, ErrForbidden
	}
	if raffle.Closed() {
		metrics.DrawsTotal.WithLabelValues("already_drawn").Inc()
		return nil, ErrAlreadyDrawn
	}
	if len(raffle.Entries) == 0 {
		metrics.DrawsTotal.WithLabelValues("no_entries").Inc()
		return nil, ErrNoEntries
	}

	winner := raffle.Entries[rand.IntN(len(raffle.Entries))]

	err = s.store.SetWinner(ctx, raffleID, winner.ID)
	switch {
	case errors.Is(err, storage.ErrWinnerSet):
		// Another draw committed between our read and write.
		metrics.DrawsTotal.WithLabelValues("already_drawn").Inc()
		return nil, ErrAlreadyDrawn
	case errors.Is(err, storage.ErrNotFound):
		metrics.DrawsTotal.WithLabelValues("error").Inc()
		return nil, ErrRaffleNotFound
	case err != nil:
		metrics.DrawsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("%w: %v", ErrPersistenceFailed, err)
	}

	metrics.DrawsTotal.WithLabelValues("ok").Inc()
	slog.Info("winner drawn", "raffle_id", raffleID, "entry_id", winner.ID, "winner_user_id", winner.UserID)
	s.watcher.Broadcast(ctx)
	return &winner, nil
}
