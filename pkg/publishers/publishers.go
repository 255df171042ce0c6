// Package publishers delivers snapshot-update notifications to
// configured sinks: HTTP webhooks and cloud queues. Every sink is
// optional; delivery failures are reported but never fatal and never
// touch the already-published snapshot.
package publishers

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
)

// Event announces that a new snapshot was published.
type Event struct {
	Type         string         `json:"type"`
	SnapshotPath string         `json:"snapshot_path"`
	Checksum     string         `json:"checksum"`
	Bytes        int            `json:"bytes"`
	Categories   map[string]int `json:"categories"`
	TickerSize   int            `json:"ticker_size"`
	GeneratedAt  time.Time      `json:"generated_at"`
}

// EventTypeSnapshotUpdated is the only event type emitted today.
const EventTypeSnapshotUpdated = "snapshot.updated"

// Publisher delivers events to one configured sink.
type Publisher interface {
	ID() string
	Type() string
	Publish(ctx context.Context, evt Event) error
}

// Logger is the minimal logging contract the publishers need, kept
// package-local so pkg does not depend on internal wiring.
type Logger interface {
	DebugObj(msg, event string, fields map[string]any)
	InfoObj(msg, event string, fields map[string]any)
	WarnObj(msg, event string, fields map[string]any)
	ErrorObj(msg, event string, fields map[string]any)
}

type nopLogger struct{}

func (nopLogger) DebugObj(msg, event string, fields map[string]any) {}
func (nopLogger) InfoObj(msg, event string, fields map[string]any)  {}
func (nopLogger) WarnObj(msg, event string, fields map[string]any)  {}
func (nopLogger) ErrorObj(msg, event string, fields map[string]any) {}

func ensureLogger(log Logger) Logger {
	if log == nil {
		return nopLogger{}
	}
	return log
}

// NotifyAll fans the event out to every publisher concurrently and
// returns the number of failed deliveries. Individual failures are
// logged, not propagated.
func NotifyAll(ctx context.Context, pubs []Publisher, evt Event, log Logger) int {
	if len(pubs) == 0 {
		return 0
	}
	log = ensureLogger(log)

	failures := make([]bool, len(pubs))

	var g errgroup.Group
	for i, pub := range pubs {
		g.Go(func() error {
			if err := pub.Publish(ctx, evt); err != nil {
				failures[i] = true
				log.ErrorObj("publisher delivery failed", "publisher_error", map[string]any{
					"publisher_id":   pub.ID(),
					"publisher_type": pub.Type(),
					"error":          err.Error(),
				})
				return nil
			}
			log.DebugObj("publisher delivered event", "publisher_delivery", map[string]any{
				"publisher_id": pub.ID(),
				"event_type":   evt.Type,
			})
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	for _, f := range failures {
		if f {
			failed++
		}
	}
	return failed
}
