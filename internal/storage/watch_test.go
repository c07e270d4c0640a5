package storage_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/helved/rafflebox/internal/models"
	"github.com/helved/rafflebox/internal/storage"
	"github.com/helved/rafflebox/internal/storage/sqlite"
)

func newWatchedStore(t *testing.T) (*sqlite.SQLiteStore, *storage.Watcher) {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "rafflebox-watch-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := sqlite.New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return store, storage.NewWatcher(store)
}

func recvSnapshot(t *testing.T, ch <-chan []models.Raffle) []models.Raffle {
	t.Helper()
	select {
	case snapshot := <-ch:
		return snapshot
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for snapshot")
		return nil
	}
}

func TestSubscribeDeliversCurrentState(t *testing.T) {
	store, watcher := newWatchedStore(t)
	ctx := context.Background()

	raffle := &models.Raffle{Name: "Existing", TicketPrice: 1, CreatorID: "c"}
	if err := store.CreateRaffle(ctx, raffle); err != nil {
		t.Fatalf("CreateRaffle failed: %v", err)
	}

	subCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	ch, err := watcher.Subscribe(subCtx)
	if err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}

	snapshot := recvSnapshot(t, ch)
	if len(snapshot) != 1 || snapshot[0].ID != raffle.ID {
		t.Errorf("initial snapshot missing existing raffle: %+v", snapshot)
	}
}

func TestBroadcastReachesAllSubscribers(t *testing.T) {
	store, watcher := newWatchedStore(t)
	ctx := context.Background()

	subCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	first, err := watcher.Subscribe(subCtx)
	if err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}
	second, err := watcher.Subscribe(subCtx)
	if err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}

	// Drain the initial empty snapshots.
	recvSnapshot(t, first)
	recvSnapshot(t, second)

	raffle := &models.Raffle{Name: "New", TicketPrice: 2, CreatorID: "c"}
	if err := store.CreateRaffle(ctx, raffle); err != nil {
		t.Fatalf("CreateRaffle failed: %v", err)
	}
	watcher.Broadcast(ctx)

	for _, ch := range []<-chan []models.Raffle{first, second} {
		snapshot := recvSnapshot(t, ch)
		if len(snapshot) != 1 || snapshot[0].ID != raffle.ID {
			t.Errorf("subscriber missed broadcast: %+v", snapshot)
		}
	}
}

func TestSlowSubscriberGetsLatestSnapshot(t *testing.T) {
	store, watcher := newWatchedStore(t)
	ctx := context.Background()

	subCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	ch, err := watcher.Subscribe(subCtx)
	if err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}
	recvSnapshot(t, ch)

	// Two broadcasts without a read in between: the pending stale
	// snapshot must be replaced, not queued.
	if err := store.CreateRaffle(ctx, &models.Raffle{Name: "First", TicketPrice: 1, CreatorID: "c"}); err != nil {
		t.Fatalf("CreateRaffle failed: %v", err)
	}
	watcher.Broadcast(ctx)
	if err := store.CreateRaffle(ctx, &models.Raffle{Name: "Second", TicketPrice: 1, CreatorID: "c"}); err != nil {
		t.Fatalf("CreateRaffle failed: %v", err)
	}
	watcher.Broadcast(ctx)

	snapshot := recvSnapshot(t, ch)
	if len(snapshot) != 2 {
		t.Errorf("expected latest snapshot with 2 raffles, got %d", len(snapshot))
	}
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	_, watcher := newWatchedStore(t)

	subCtx, cancel := context.WithCancel(context.Background())
	ch, err := watcher.Subscribe(subCtx)
	if err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}
	recvSnapshot(t, ch)

	cancel()

	select {
	case _, ok := <-ch:
		if ok {
			t.Error("expected closed channel after cancel")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("channel not closed after cancel")
	}
}
