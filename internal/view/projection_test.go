package view

import (
	"testing"

	"github.com/helved/rafflebox/internal/models"
)

func snapshot() []models.Raffle {
	return []models.Raffle{
		{ID: "a", Name: "Oldest", CreatedAt: 100},
		{ID: "b", Name: "Newest", CreatedAt: 300},
		{ID: "c", Name: "Middle", CreatedAt: 200, Entries: []models.Entry{
			{ID: "e1", UserID: "u1", Name: "alice"},
			{ID: "e2", UserID: "u2", Name: "bob"},
		}},
		{ID: "d", Name: "NoTimestamp", CreatedAt: 0},
	}
}

func TestActiveListSortsNewestFirst(t *testing.T) {
	got := ActiveList(snapshot())

	wantOrder := []string{"b", "c", "a", "d"}
	for i, id := range wantOrder {
		if got[i].ID != id {
			t.Errorf("position %d: got %s, want %s", i, got[i].ID, id)
		}
	}
}

func TestActiveListTreatsMissingCreatedAtAsOldest(t *testing.T) {
	got := ActiveList(snapshot())

	if got[len(got)-1].ID != "d" {
		t.Errorf("expected zero-CreatedAt raffle last, got %s", got[len(got)-1].ID)
	}
}

func TestActiveListDoesNotMutateInput(t *testing.T) {
	in := snapshot()
	ActiveList(in)

	if in[0].ID != "a" || in[3].ID != "d" {
		t.Error("input snapshot order changed")
	}
}

func TestActiveListIsStableForTies(t *testing.T) {
	in := []models.Raffle{
		{ID: "x", CreatedAt: 100},
		{ID: "y", CreatedAt: 100},
		{ID: "z", CreatedAt: 100},
	}
	got := ActiveList(in)

	for i, id := range []string{"x", "y", "z"} {
		if got[i].ID != id {
			t.Errorf("position %d: got %s, want %s", i, got[i].ID, id)
		}
	}
}

func TestDetail(t *testing.T) {
	raffle := Detail(snapshot(), "c")
	if raffle == nil {
		t.Fatal("expected raffle c")
	}
	if raffle.Name != "Middle" {
		t.Errorf("name = %s, want Middle", raffle.Name)
	}

	if Detail(snapshot(), "missing") != nil {
		t.Error("expected nil for unknown id")
	}
}

func TestEntrantCount(t *testing.T) {
	if got := EntrantCount(snapshot(), "c"); got != 2 {
		t.Errorf("EntrantCount(c) = %d, want 2", got)
	}
	if got := EntrantCount(snapshot(), "a"); got != 0 {
		t.Errorf("EntrantCount(a) = %d, want 0", got)
	}
	if got := EntrantCount(snapshot(), "missing"); got != 0 {
		t.Errorf("EntrantCount(missing) = %d, want 0", got)
	}
}
