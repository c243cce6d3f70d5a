package syncer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/parallelhq/parallel-cli/internal/api"
)

func fastIntervals() Intervals {
	return Intervals{
		Messages: 10 * time.Millisecond,
		Activity: 10 * time.Millisecond,
		Online:   10 * time.Millisecond,
		Tasks:    10 * time.Millisecond,
		Inbox:    10 * time.Millisecond,
	}
}

// backendStub serves every polled collection from mutable state.
type backendStub struct {
	mu       sync.Mutex
	messages []api.Message
}

func (b *backendStub) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		switch r.URL.Path {
		case "/messages", "/inbox":
			json.NewEncoder(w).Encode(b.messages)
		case "/activity":
			json.NewEncoder(w).Encode([]api.ActivityEntry{})
		case "/online":
			json.NewEncoder(w).Encode(map[string]any{"members": []api.OnlineMember{{ID: "u1", Name: "Sean", Online: true}}})
		case "/tasks":
			json.NewEncoder(w).Encode([]api.Task{})
		default:
			http.NotFound(w, r)
		}
	})
}

func (b *backendStub) appendMessage(m api.Message) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.messages = append(b.messages, m)
}

func collectUpdates(t *testing.T, updates <-chan Update, d time.Duration) []Update {
	t.Helper()
	var got []Update
	deadline := time.After(d)
	for {
		select {
		case update, ok := <-updates:
			if !ok {
				return got
			}
			got = append(got, update)
		case <-deadline:
			return got
		}
	}
}

func TestMessagesCommittedOnlyOnCountChange(t *testing.T) {
	stub := &backendStub{messages: []api.Message{
		{ID: "m1", Content: "hello"},
		{ID: "m2", Content: "hi"},
	}}
	server := httptest.NewServer(stub.handler())
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s := New(api.New(server.URL), WithIntervals(fastIntervals()))
	updates := s.Start(ctx)

	got := collectUpdates(t, updates, 200*time.Millisecond)
	var messageUpdates []MessagesUpdate
	for _, update := range got {
		if mu, ok := update.(MessagesUpdate); ok {
			messageUpdates = append(messageUpdates, mu)
		}
	}
	if len(messageUpdates) != 1 {
		t.Fatalf("unchanged list must commit exactly once, got %d commits", len(messageUpdates))
	}
	if len(messageUpdates[0].Messages) != 2 {
		t.Fatalf("unexpected snapshot: %+v", messageUpdates[0].Messages)
	}

	// Growing the list changes the count and triggers a commit.
	stub.appendMessage(api.Message{ID: "m3", Content: "new"})
	got = collectUpdates(t, updates, 200*time.Millisecond)
	found := false
	for _, update := range got {
		if mu, ok := update.(MessagesUpdate); ok && len(mu.Messages) == 3 {
			found = true
		}
	}
	if !found {
		t.Fatalf("count change did not commit a new snapshot")
	}
}

// A dead backend seeds every panel with its documented mock and never
// rejects.
func TestDeadBackendSeedsFallbacks(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s := New(api.New("http://127.0.0.1:1"), WithIntervals(fastIntervals()))
	updates := s.Start(ctx)

	seen := map[string]bool{}
	deadline := time.After(3 * time.Second)
	for len(seen) < 5 {
		select {
		case update, ok := <-updates:
			if !ok {
				t.Fatalf("channel closed early, saw %v", seen)
			}
			switch u := update.(type) {
			case MessagesUpdate:
				seen["messages"] = true
			case ActivityUpdate:
				seen["activity"] = true
			case RosterUpdate:
				if len(u.Roster) == 0 {
					t.Fatalf("roster fallback must be the canned roster")
				}
				seen["roster"] = true
			case TasksUpdate:
				seen["tasks"] = true
			case InboxUpdate:
				seen["inbox"] = true
			}
		case <-deadline:
			t.Fatalf("timed out waiting for fallback seeds, saw %v", seen)
		}
	}
}

func TestCancelClosesUpdateChannel(t *testing.T) {
	stub := &backendStub{}
	server := httptest.NewServer(stub.handler())
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	s := New(api.New(server.URL), WithIntervals(fastIntervals()))
	updates := s.Start(ctx)
	cancel()

	deadline := time.After(3 * time.Second)
	for {
		select {
		case _, ok := <-updates:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatalf("update channel never closed after cancel")
		}
	}
}

// Wholesale resources keep replacing even when nothing changed;
// staleness there is worse than flicker.
func TestWholesaleResourcesReplaceEveryTick(t *testing.T) {
	stub := &backendStub{}
	server := httptest.NewServer(stub.handler())
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s := New(api.New(server.URL), WithIntervals(fastIntervals()))
	updates := s.Start(ctx)

	got := collectUpdates(t, updates, 100*time.Millisecond)
	rosterCount := 0
	for _, update := range got {
		if _, ok := update.(RosterUpdate); ok {
			rosterCount++
		}
	}
	if rosterCount < 2 {
		t.Fatalf("roster should replace on every tick, saw %d updates", rosterCount)
	}
}
