// internal/syncer/syncer.go
//
// The polling reconciler. Each backend collection gets its own loop on
// its own fixed interval; loops are independent and update disjoint
// state slices, so no ordering is enforced between them. Results are
// pushed into one channel of typed updates that the TUI consumes.

package syncer

import (
	"context"
	"time"

	"github.com/parallelhq/parallel-cli/internal/api"
)

// Intervals holds the per-resource poll periods. The values differ on
// purpose: they preserve the staleness bounds each panel was tuned for.
type Intervals struct {
	Messages time.Duration
	Activity time.Duration
	Online   time.Duration
	Tasks    time.Duration
	Inbox    time.Duration
}

// DefaultIntervals returns the production poll periods.
func DefaultIntervals() Intervals {
	return Intervals{
		Messages: 3 * time.Second,
		Activity: 5 * time.Second,
		Online:   7 * time.Second,
		Tasks:    4 * time.Second,
		Inbox:    6 * time.Second,
	}
}

// Update is a typed snapshot delivered by one poll loop.
type Update interface{ resource() string }

// MessagesUpdate carries the conversation log. Emitted only when the
// message count changed, so an unchanged list never causes a re-render
// (and the scroll position stays put).
type MessagesUpdate struct{ Messages []api.Message }

// ActivityUpdate carries the activity feed, already sorted most recent
// first, plus the derived one-line-per-person view.
type ActivityUpdate struct {
	Feed    []api.ActivityEntry
	Current []api.ActivityEntry
}

// RosterUpdate replaces the team roster wholesale.
type RosterUpdate struct{ Roster []api.TeamMember }

// TasksUpdate replaces the task board wholesale.
type TasksUpdate struct{ Tasks []api.Task }

// InboxUpdate replaces the inbox wholesale.
type InboxUpdate struct{ Inbox []api.Message }

func (MessagesUpdate) resource() string { return "messages" }
func (ActivityUpdate) resource() string { return "activity" }
func (RosterUpdate) resource() string   { return "roster" }
func (TasksUpdate) resource() string    { return "tasks" }
func (InboxUpdate) resource() string    { return "inbox" }

// Syncer owns the poll loops for one authenticated session.
type Syncer struct {
	client    *api.Client
	logger    api.Logger
	intervals Intervals

	lastMessageCount int
	seededMessages   bool
	seededActivity   bool
	seededRoster     bool
	seededTasks      bool
	seededInbox      bool
}

// Option customizes a Syncer.
type Option func(*Syncer)

// WithIntervals overrides the poll periods (tests use millisecond ones).
func WithIntervals(iv Intervals) Option {
	return func(s *Syncer) { s.intervals = iv }
}

// WithLogger routes skipped-tick warnings into the session logbook.
func WithLogger(l api.Logger) Option {
	return func(s *Syncer) {
		if l != nil {
			s.logger = l
		}
	}
}

// New creates a Syncer for client. Call Start only once the session
// identity is known; the loops assume an authenticated client.
func New(client *api.Client, opts ...Option) *Syncer {
	s := &Syncer{
		client:    client,
		logger:    noopLogger{},
		intervals: DefaultIntervals(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

type noopLogger struct{}

func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Start launches every poll loop and returns the update channel. Each
// loop fetches immediately (through the mock fallback, so the first
// paint never blocks on a dead backend) and then on its interval.
// Cancelling ctx stops every loop and closes the channel.
func (s *Syncer) Start(ctx context.Context) <-chan Update {
	updates := make(chan Update, 32)

	done := make(chan struct{}, 5)
	run := func(interval time.Duration, tick func(context.Context) (Update, bool)) {
		go func() {
			defer func() { done <- struct{}{} }()
			s.loop(ctx, updates, interval, tick)
		}()
	}
	run(s.intervals.Messages, s.tickMessages)
	run(s.intervals.Activity, s.tickActivity)
	run(s.intervals.Online, s.tickRoster)
	run(s.intervals.Tasks, s.tickTasks)
	run(s.intervals.Inbox, s.tickInbox)

	go func() {
		for i := 0; i < 5; i++ {
			<-done
		}
		close(updates)
	}()
	return updates
}

// loop drives one resource. A failed tick is logged and skipped; the
// previous state stays untouched and the next tick retries on its own.
// No backoff: polling is resilient by repetition.
func (s *Syncer) loop(ctx context.Context, updates chan<- Update, interval time.Duration, tick func(context.Context) (Update, bool)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		if update, ok := tick(ctx); ok {
			select {
			case updates <- update:
			case <-ctx.Done():
				return
			}
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// tickMessages commits the list only when the count changed. A fresh
// slice every 3 seconds with identical contents would still replace
// the rendered list and jump the scroll position; the count is the
// cheap signal that something actually happened.
func (s *Syncer) tickMessages(ctx context.Context) (Update, bool) {
	if !s.seededMessages {
		s.seededMessages = true
		messages := api.WithFallback(s.logger, "messages", func() ([]api.Message, error) {
			return s.client.Messages(ctx)
		}, api.MockMessages())
		s.lastMessageCount = len(messages)
		return MessagesUpdate{Messages: messages}, true
	}
	messages, err := s.client.Messages(ctx)
	if err != nil {
		s.logger.Warn("syncer: messages tick skipped: %v", err)
		return nil, false
	}
	if len(messages) == s.lastMessageCount {
		return nil, false
	}
	s.lastMessageCount = len(messages)
	return MessagesUpdate{Messages: messages}, true
}

// Activity, roster, tasks, and inbox replace wholesale on every
// successful tick: for these panels staleness is worse than flicker.
// Only the very first fetch goes through the mock fallback; once the
// panel has data, a failed tick keeps it rather than blanking it with
// canned values.

func (s *Syncer) tickActivity(ctx context.Context) (Update, bool) {
	if !s.seededActivity {
		s.seededActivity = true
		feed := api.WithFallback(s.logger, "activity", func() ([]api.ActivityEntry, error) {
			return s.client.Activity(ctx)
		}, api.MockActivity())
		sorted := SortFeed(feed)
		return ActivityUpdate{Feed: sorted, Current: CurrentStatus(sorted)}, true
	}
	feed, err := s.client.Activity(ctx)
	if err != nil {
		s.logger.Warn("syncer: activity tick skipped: %v", err)
		return nil, false
	}
	sorted := SortFeed(feed)
	return ActivityUpdate{Feed: sorted, Current: CurrentStatus(sorted)}, true
}

func (s *Syncer) tickRoster(ctx context.Context) (Update, bool) {
	if !s.seededRoster {
		s.seededRoster = true
		roster := api.WithFallback(s.logger, "online", func() ([]api.TeamMember, error) {
			return s.client.TeamRoster(ctx)
		}, api.MockRoster())
		return RosterUpdate{Roster: roster}, true
	}
	roster, err := s.client.TeamRoster(ctx)
	if err != nil {
		s.logger.Warn("syncer: roster tick skipped: %v", err)
		return nil, false
	}
	return RosterUpdate{Roster: roster}, true
}

func (s *Syncer) tickTasks(ctx context.Context) (Update, bool) {
	if !s.seededTasks {
		s.seededTasks = true
		tasks := api.WithFallback(s.logger, "tasks", func() ([]api.Task, error) {
			return s.client.Tasks(ctx)
		}, api.MockTasks())
		return TasksUpdate{Tasks: tasks}, true
	}
	tasks, err := s.client.Tasks(ctx)
	if err != nil {
		s.logger.Warn("syncer: tasks tick skipped: %v", err)
		return nil, false
	}
	return TasksUpdate{Tasks: tasks}, true
}

func (s *Syncer) tickInbox(ctx context.Context) (Update, bool) {
	if !s.seededInbox {
		s.seededInbox = true
		inbox := api.WithFallback(s.logger, "inbox", func() ([]api.Message, error) {
			return s.client.Inbox(ctx)
		}, api.MockInbox())
		return InboxUpdate{Inbox: inbox}, true
	}
	inbox, err := s.client.Inbox(ctx)
	if err != nil {
		s.logger.Warn("syncer: inbox tick skipped: %v", err)
		return nil, false
	}
	return InboxUpdate{Inbox: inbox}, true
}
