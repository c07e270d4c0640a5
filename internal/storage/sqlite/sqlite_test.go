package sqlite

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/helved/rafflebox/internal/models"
	"github.com/helved/rafflebox/internal/storage"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "rafflebox-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return store
}

func TestSQLiteStoreRaffles(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("CreateRaffle generates ID and CreatedAt", func(t *testing.T) {
		raffle := &models.Raffle{
			Name:        "Signed Jersey",
			Description: "One signed jersey",
			TicketPrice: 5.00,
			CreatorID:   "creator-1",
			Creator:     models.CreatorProfile{DisplayName: "Sam"},
		}

		if err := store.CreateRaffle(ctx, raffle); err != nil {
			t.Fatalf("CreateRaffle failed: %v", err)
		}
		if raffle.ID == "" {
			t.Error("expected raffle ID to be generated")
		}
		if raffle.CreatedAt == 0 {
			t.Error("expected CreatedAt to be set")
		}
	})

	t.Run("GetRaffle returns complete record", func(t *testing.T) {
		raffle := &models.Raffle{
			Name:        "Concert Tickets",
			TicketPrice: 10.00,
			CreatorID:   "creator-2",
			Creator:     models.CreatorProfile{DisplayName: "Pat", Bio: "Hi"},
		}
		if err := store.CreateRaffle(ctx, raffle); err != nil {
			t.Fatalf("CreateRaffle failed: %v", err)
		}

		got, err := store.GetRaffle(ctx, raffle.ID)
		if err != nil {
			t.Fatalf("GetRaffle failed: %v", err)
		}
		if got.Name != "Concert Tickets" || got.TicketPrice != 10.00 {
			t.Errorf("unexpected raffle: %+v", got)
		}
		if got.Creator.DisplayName != "Pat" || got.Creator.Bio != "Hi" {
			t.Errorf("creator snapshot not round-tripped: %+v", got.Creator)
		}
		if got.Winner != nil {
			t.Error("expected no winner on a fresh raffle")
		}
	})

	t.Run("GetRaffle returns ErrNotFound for unknown id", func(t *testing.T) {
		_, err := store.GetRaffle(ctx, "missing")
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("AppendEntry preserves arrival order", func(t *testing.T) {
		raffle := &models.Raffle{Name: "Order", TicketPrice: 1, CreatorID: "c"}
		if err := store.CreateRaffle(ctx, raffle); err != nil {
			t.Fatalf("CreateRaffle failed: %v", err)
		}

		for _, name := range []string{"alice", "bob", "carol"} {
			entry := &models.Entry{UserID: "u-" + name, Name: name}
			if err := store.AppendEntry(ctx, raffle.ID, entry); err != nil {
				t.Fatalf("AppendEntry(%s) failed: %v", name, err)
			}
			if entry.ID == "" {
				t.Error("expected entry ID to be generated")
			}
		}

		got, err := store.GetRaffle(ctx, raffle.ID)
		if err != nil {
			t.Fatalf("GetRaffle failed: %v", err)
		}
		if len(got.Entries) != 3 {
			t.Fatalf("expected 3 entries, got %d", len(got.Entries))
		}
		for i, name := range []string{"alice", "bob", "carol"} {
			if got.Entries[i].Name != name {
				t.Errorf("entry %d: got %s, want %s", i, got.Entries[i].Name, name)
			}
		}
	})

	t.Run("AppendEntry on unknown raffle returns ErrNotFound", func(t *testing.T) {
		err := store.AppendEntry(ctx, "missing", &models.Entry{UserID: "u"})
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("SetWinner closes the raffle", func(t *testing.T) {
		raffle := &models.Raffle{Name: "Close", TicketPrice: 1, CreatorID: "c"}
		if err := store.CreateRaffle(ctx, raffle); err != nil {
			t.Fatalf("CreateRaffle failed: %v", err)
		}
		entry := &models.Entry{UserID: "u1", Name: "alice"}
		if err := store.AppendEntry(ctx, raffle.ID, entry); err != nil {
			t.Fatalf("AppendEntry failed: %v", err)
		}

		if err := store.SetWinner(ctx, raffle.ID, entry.ID); err != nil {
			t.Fatalf("SetWinner failed: %v", err)
		}

		got, err := store.GetRaffle(ctx, raffle.ID)
		if err != nil {
			t.Fatalf("GetRaffle failed: %v", err)
		}
		if got.Winner == nil || got.Winner.ID != entry.ID {
			t.Fatalf("expected winner %s, got %+v", entry.ID, got.Winner)
		}

		// A second draw must not replace the winner.
		if err := store.SetWinner(ctx, raffle.ID, entry.ID); !errors.Is(err, storage.ErrWinnerSet) {
			t.Errorf("expected ErrWinnerSet, got %v", err)
		}

		// A closed raffle rejects further entries.
		err = store.AppendEntry(ctx, raffle.ID, &models.Entry{UserID: "u2", Name: "bob"})
		if !errors.Is(err, storage.ErrRaffleClosed) {
			t.Errorf("expected ErrRaffleClosed, got %v", err)
		}
		got, _ = store.GetRaffle(ctx, raffle.ID)
		if len(got.Entries) != 1 {
			t.Errorf("entries changed after close: %d", len(got.Entries))
		}
	})

	t.Run("DeleteRaffle cascades entries", func(t *testing.T) {
		raffle := &models.Raffle{Name: "Delete", TicketPrice: 1, CreatorID: "c"}
		if err := store.CreateRaffle(ctx, raffle); err != nil {
			t.Fatalf("CreateRaffle failed: %v", err)
		}
		if err := store.AppendEntry(ctx, raffle.ID, &models.Entry{UserID: "u"}); err != nil {
			t.Fatalf("AppendEntry failed: %v", err)
		}

		if err := store.DeleteRaffle(ctx, raffle.ID); err != nil {
			t.Fatalf("DeleteRaffle failed: %v", err)
		}
		if _, err := store.GetRaffle(ctx, raffle.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("expected ErrNotFound after delete, got %v", err)
		}
		if err := store.DeleteRaffle(ctx, raffle.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("expected ErrNotFound on second delete, got %v", err)
		}
	})
}

func TestSQLiteStoreUsers(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	user := models.NewUser("alice@example.com", "Alice", "hash")
	if err := store.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	t.Run("GetUserByEmail", func(t *testing.T) {
		got, err := store.GetUserByEmail(ctx, "alice@example.com")
		if err != nil {
			t.Fatalf("GetUserByEmail failed: %v", err)
		}
		if got == nil || got.ID != user.ID {
			t.Errorf("unexpected user: %+v", got)
		}
	})

	t.Run("GetUserByEmail unknown returns nil", func(t *testing.T) {
		got, err := store.GetUserByEmail(ctx, "nobody@example.com")
		if err != nil {
			t.Fatalf("GetUserByEmail failed: %v", err)
		}
		if got != nil {
			t.Errorf("expected nil, got %+v", got)
		}
	})

	t.Run("duplicate email rejected", func(t *testing.T) {
		dup := models.NewUser("alice@example.com", "Other", "hash2")
		if err := store.CreateUser(ctx, dup); err == nil {
			t.Error("expected unique constraint violation")
		}
	})

	t.Run("UpdateProfile", func(t *testing.T) {
		if err := store.UpdateProfile(ctx, user.ID, "Alice B", "raffle fan"); err != nil {
			t.Fatalf("UpdateProfile failed: %v", err)
		}
		got, err := store.GetUserByID(ctx, user.ID)
		if err != nil {
			t.Fatalf("GetUserByID failed: %v", err)
		}
		if got.DisplayName != "Alice B" || got.Bio != "raffle fan" {
			t.Errorf("profile not updated: %+v", got)
		}

		if err := store.UpdateProfile(ctx, "missing", "X", ""); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}
