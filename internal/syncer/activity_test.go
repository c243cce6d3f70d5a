package syncer

import (
	"testing"
	"time"

	"github.com/parallelhq/parallel-cli/internal/api"
)

func stamp(offset time.Duration) *time.Time {
	t := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC).Add(offset)
	return &t
}

func TestSortFeedDescendingWithNilsLast(t *testing.T) {
	feed := []api.ActivityEntry{
		{ID: "a1", UserName: "Sean", CreatedAt: stamp(0)},
		{ID: "a2", UserName: "Yug", CreatedAt: nil},
		{ID: "a3", UserName: "Sean", CreatedAt: stamp(2 * time.Minute)},
		{ID: "a4", UserName: "Yug", CreatedAt: stamp(time.Minute)},
	}
	sorted := SortFeed(feed)
	wantOrder := []string{"a3", "a4", "a1", "a2"}
	for i, want := range wantOrder {
		if sorted[i].ID != want {
			t.Fatalf("position %d: got %s, want %s (full: %+v)", i, sorted[i].ID, want, sorted)
		}
	}
	// The input slice must not be reordered in place.
	if feed[0].ID != "a1" {
		t.Fatalf("SortFeed mutated its input")
	}
}

// Exactly one entry per person, and it carries that person's maximum
// timestamp.
func TestCurrentStatusOnePerPerson(t *testing.T) {
	feed := []api.ActivityEntry{
		{ID: "a1", UserName: "Sean", Detail: "old", CreatedAt: stamp(0)},
		{ID: "a2", UserName: "Sean", Detail: "new", CreatedAt: stamp(time.Hour)},
		{ID: "a3", UserName: "Yug", Detail: "only", CreatedAt: stamp(time.Minute)},
		{ID: "a4", UserName: "Yug", Detail: "none", CreatedAt: nil},
	}
	current := CurrentStatus(SortFeed(feed))
	if len(current) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(current))
	}
	byName := map[string]api.ActivityEntry{}
	for _, entry := range current {
		byName[entry.UserName] = entry
	}
	if byName["Sean"].Detail != "new" {
		t.Fatalf("Sean's current entry should be the newest, got %+v", byName["Sean"])
	}
	if byName["Yug"].Detail != "only" {
		t.Fatalf("Yug's current entry should be the timestamped one, got %+v", byName["Yug"])
	}
}

func TestCurrentStatusEmptyFeed(t *testing.T) {
	if got := CurrentStatus(nil); len(got) != 0 {
		t.Fatalf("expected empty view, got %+v", got)
	}
}
