package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/helved/rafflebox/internal/models"
	"github.com/helved/rafflebox/internal/storage"
)

// CreateRaffle persists a new raffle to the database.
func (s *SQLiteStore) CreateRaffle(ctx context.Context, raffle *models.Raffle) error {
	// Generate IDs if not set
	if raffle.ID == "" {
		raffle.ID = uuid.New().String()
	}
	if raffle.CreatedAt == 0 {
		raffle.CreatedAt = time.Now().Unix()
	}

	var winnerID sql.NullString
	if raffle.Winner != nil {
		winnerID = sql.NullString{String: raffle.Winner.ID, Valid: true}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO raffles (id, name, description, ticket_price, image_url,
			creator_id, creator_name, creator_bio, winner_entry_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		raffle.ID, raffle.Name, raffle.Description, raffle.TicketPrice,
		raffle.ImageURL, raffle.CreatorID, raffle.Creator.DisplayName,
		raffle.Creator.Bio, winnerID, raffle.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert raffle: %w", err)
	}

	return nil
}

// GetRaffle retrieves a raffle by ID, including its ordered entries and
// winner.
func (s *SQLiteStore) GetRaffle(ctx context.Context, raffleID string) (*models.Raffle, error) {
	raffle, winnerID, err := s.scanRaffle(s.db.QueryRowContext(ctx, `
		SELECT id, name, description, ticket_price, image_url,
			creator_id, creator_name, creator_bio, winner_entry_id, created_at
		FROM raffles WHERE id = ?`, raffleID))
	if err != nil {
		return nil, err
	}

	if err := s.loadEntries(ctx, raffle, winnerID); err != nil {
		return nil, err
	}

	return raffle, nil
}

// ListRaffles returns all raffles with their entries, oldest creation first.
func (s *SQLiteStore) ListRaffles(ctx context.Context) ([]models.Raffle, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, description, ticket_price, image_url,
			creator_id, creator_name, creator_bio, winner_entry_id, created_at
		FROM raffles ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("failed to list raffles: %w", err)
	}
	defer rows.Close()

	var raffles []models.Raffle
	var winnerIDs []sql.NullString
	for rows.Next() {
		raffle, winnerID, err := s.scanRaffle(rows)
		if err != nil {
			return nil, err
		}
		raffles = append(raffles, *raffle)
		winnerIDs = append(winnerIDs, winnerID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate raffles: %w", err)
	}
	// Release the connection before the per-raffle entry queries.
	rows.Close()

	for i := range raffles {
		if err := s.loadEntries(ctx, &raffles[i], winnerIDs[i]); err != nil {
			return nil, err
		}
	}

	return raffles, nil
}

// AppendEntry atomically appends an entry to an open raffle. The
// winner-check and the insert share one transaction, so an entry can
// never land on a closed raffle and concurrent appends both survive.
func (s *SQLiteStore) AppendEntry(ctx context.Context, raffleID string, entry *models.Entry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var winnerID sql.NullString
	err = tx.QueryRowContext(ctx,
		"SELECT winner_entry_id FROM raffles WHERE id = ?", raffleID,
	).Scan(&winnerID)
	if err == sql.ErrNoRows {
		return storage.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to check raffle state: %w", err)
	}
	if winnerID.Valid {
		return storage.ErrRaffleClosed
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO entries (id, raffle_id, user_id, name, created_at) VALUES (?, ?, ?, ?, ?)",
		entry.ID, raffleID, entry.UserID, entry.Name, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert entry: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// SetWinner marks the given entry as the raffle's winner. The update is
// guarded on winner_entry_id IS NULL so a second draw can never replace
// an existing winner.
func (s *SQLiteStore) SetWinner(ctx context.Context, raffleID, entryID string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE raffles SET winner_entry_id = ? WHERE id = ? AND winner_entry_id IS NULL",
		entryID, raffleID,
	)
	if err != nil {
		return fmt.Errorf("failed to set winner: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 1 {
		return nil
	}

	// No row updated: either the raffle is gone or a winner already exists.
	var existing sql.NullString
	err = s.db.QueryRowContext(ctx,
		"SELECT winner_entry_id FROM raffles WHERE id = ?", raffleID,
	).Scan(&existing)
	if err == sql.ErrNoRows {
		return storage.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to check raffle state: %w", err)
	}
	return storage.ErrWinnerSet
}

// DeleteRaffle removes a raffle; entries cascade.
func (s *SQLiteStore) DeleteRaffle(ctx context.Context, raffleID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM raffles WHERE id = ?", raffleID)
	if err != nil {
		return fmt.Errorf("failed to delete raffle: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// scanner abstracts *sql.Row and *sql.Rows for scanRaffle.
type scanner interface {
	Scan(dest ...any) error
}

func (s *SQLiteStore) scanRaffle(row scanner) (*models.Raffle, sql.NullString, error) {
	raffle := &models.Raffle{}
	var winnerID sql.NullString
	err := row.Scan(
		&raffle.ID, &raffle.Name, &raffle.Description, &raffle.TicketPrice,
		&raffle.ImageURL, &raffle.CreatorID, &raffle.Creator.DisplayName,
		&raffle.Creator.Bio, &winnerID, &raffle.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, winnerID, storage.ErrNotFound
	}
	if err != nil {
		return nil, winnerID, fmt.Errorf("failed to scan raffle: %w", err)
	}
	return raffle, winnerID, nil
}

// loadEntries populates raffle.Entries in arrival order and resolves the
// winner to a value copy of the matching entry.
func (s *SQLiteStore) loadEntries(ctx context.Context, raffle *models.Raffle, winnerID sql.NullString) error {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, user_id, name FROM entries WHERE raffle_id = ? ORDER BY seq",
		raffle.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to get entries: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var entry models.Entry
		if err := rows.Scan(&entry.ID, &entry.UserID, &entry.Name); err != nil {
			return fmt.Errorf("failed to scan entry: %w", err)
		}
		raffle.Entries = append(raffle.Entries, entry)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate entries: %w", err)
	}

	if winnerID.Valid {
		for i := range raffle.Entries {
			if raffle.Entries[i].ID == winnerID.String {
				winner := raffle.Entries[i]
				raffle.Winner = &winner
				break
			}
		}
	}

	return nil
}
