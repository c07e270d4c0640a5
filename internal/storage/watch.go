package storage

import (
	"context"
	"log/slog"
	"sync"

	"github.com/helved/rafflebox/internal/models"
)

// Watcher fans full-collection snapshots out to live subscribers. Every
// committed mutation is followed by a Broadcast, which reloads the raffle
// collection from the store and delivers it to every subscriber.
//
// Delivery is eventual, not immediate: each subscriber has a one-slot
// buffer and a pending stale snapshot is replaced by the newer one, so a
// slow consumer always observes the latest state next time it reads.
type Watcher struct {
	store Store

	mu   sync.Mutex
	subs map[int]chan []models.Raffle
	next int
}

// NewWatcher creates a watcher over the given store.
func NewWatcher(store Store) *Watcher {
	return &Watcher{
		store: store,
		subs:  make(map[int]chan []models.Raffle),
	}
}

// Subscribe registers a new subscriber and immediately delivers the
// current collection state. The subscription is released when ctx is
// cancelled, after which the returned channel is closed.
func (w *Watcher) Subscribe(ctx context.Context) (<-chan []models.Raffle, error) {
	snapshot, err := w.store.ListRaffles(ctx)
	if err != nil {
		return nil, err
	}

	ch := make(chan []models.Raffle, 1)
	ch <- snapshot

	w.mu.Lock()
	id := w.next
	w.next++
	w.subs[id] = ch
	w.mu.Unlock()

	go func() {
		<-ctx.Done()
		w.mu.Lock()
		delete(w.subs, id)
		w.mu.Unlock()
		close(ch)
	}()

	return ch, nil
}

// Broadcast reloads the collection and pushes it to all subscribers.
// Called by the service layer after every committed mutation. A reload
// failure degrades to the last-known view: subscribers keep whatever
// snapshot they already have.
func (w *Watcher) Broadcast(ctx context.Context) {
	snapshot, err := w.store.ListRaffles(ctx)
	if err != nil {
		slog.Warn("watch: snapshot reload failed, subscribers keep stale view", "error", err)
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	for _, ch := range w.subs {
		// Drop a pending stale snapshot in favor of the new one.
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- snapshot:
		default:
		}
	}
}
