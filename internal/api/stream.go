package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
)

// streamReconnectDelay is how long the events reader waits before
// re-dialing a dropped stream.
const streamReconnectDelay = 2 * time.Second

// StreamItem is one delivery off the /events channel: either a parsed
// status event, or (when Event is nil) a connection-state change.
type StreamItem struct {
	Event     *StatusEvent
	Connected bool
}

// StreamEvents opens the persistent /events stream and delivers parsed
// events until ctx is cancelled. The reader owns reconnection: a
// dropped stream is reported as a Connected=false item and re-dialed
// after a short fixed delay. Malformed payloads are logged and skipped
// without closing the stream. The returned channel is closed when ctx
// ends, so teardown cannot leak the connection.
func (c *Client) StreamEvents(ctx context.Context) <-chan StreamItem {
	items := make(chan StreamItem, 16)
	go func() {
		defer close(items)
		for {
			if err := c.readEventStream(ctx, items); err != nil {
				c.logger.Warn("api: events stream: %v", err)
			}
			if ctx.Err() != nil {
				return
			}
			deliver(ctx, items, StreamItem{Connected: false})
			select {
			case <-ctx.Done():
				return
			case <-time.After(streamReconnectDelay):
			}
		}
	}()
	return items
}

// readEventStream dials /events once and pumps events until the stream
// ends or ctx is cancelled.
func (c *Client) readEventStream(ctx context.Context, items chan<- StreamItem) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/events", nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "text/event-stream")

	// No client timeout here: the stream is expected to stay open.
	streamClient := &http.Client{Jar: c.httpClient.Jar}
	resp, err := streamClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return readError(resp)
	}

	deliver(ctx, items, StreamItem{Connected: true})

	scanner := newSSEScanner(resp.Body)
	for scanner.Next() {
		var event StatusEvent
		if err := json.Unmarshal([]byte(scanner.Event().Data), &event); err != nil {
			c.logger.Warn("api: malformed stream event: %v", err)
			continue
		}
		if !deliver(ctx, items, StreamItem{Event: &event, Connected: true}) {
			return nil
		}
	}
	return scanner.Err()
}

// deliver sends an item unless teardown already won the race.
func deliver(ctx context.Context, items chan<- StreamItem, item StreamItem) bool {
	select {
	case items <- item:
		return true
	case <-ctx.Done():
		return false
	}
}
