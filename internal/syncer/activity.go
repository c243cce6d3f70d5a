package syncer

import (
	"sort"

	"github.com/parallelhq/parallel-cli/internal/api"
)

// SortFeed orders activity entries most recent first. Entries without
// a timestamp sort last. The sort is stable so entries the backend
// returned in order keep that order when timestamps tie.
func SortFeed(entries []api.ActivityEntry) []api.ActivityEntry {
	sorted := make([]api.ActivityEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i].CreatedAt, sorted[j].CreatedAt
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.After(*b)
		}
	})
	return sorted
}

// CurrentStatus derives the "what is everyone doing now" view from a
// feed already sorted by SortFeed: the first entry seen per person is
// their most recent one, so one scan keeps exactly one entry per name.
func CurrentStatus(sorted []api.ActivityEntry) []api.ActivityEntry {
	seen := make(map[string]struct{}, len(sorted))
	current := make([]api.ActivityEntry, 0, len(sorted))
	for _, entry := range sorted {
		if _, ok := seen[entry.UserName]; ok {
			continue
		}
		seen[entry.UserName] = struct{}{}
		current = append(current, entry)
	}
	return current
}
