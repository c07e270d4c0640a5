// Package view derives the read-only projections consumed by
// presentation from raffle collection snapshots. Everything here is pure:
// no I/O, no mutation of the input snapshot.
package view

import (
	"sort"

	"github.com/helved/rafflebox/internal/models"
)

// ActiveList returns the raffles sorted by creation time, newest first.
// Records with a missing (zero) CreatedAt are treated as oldest. The
// sort is stable, so ties keep their snapshot arrival order.
func ActiveList(snapshot []models.Raffle) []models.Raffle {
	out := make([]models.Raffle, len(snapshot))
	copy(out, snapshot)

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt > out[j].CreatedAt
	})

	return out
}

// Detail returns the raffle with the given id from the snapshot, or nil
// if not present.
func Detail(snapshot []models.Raffle, id string) *models.Raffle {
	for i := range snapshot {
		if snapshot[i].ID == id {
			raffle := snapshot[i]
			return &raffle
		}
	}
	return nil
}

// EntrantCount returns the number of entries in the raffle with the
// given id, or zero if not present.
func EntrantCount(snapshot []models.Raffle, id string) int {
	if raffle := Detail(snapshot, id); raffle != nil {
		return len(raffle.Entries)
	}
	return 0
}
