package relay

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Event kinds pushed to the presentation layer. Observability only —
// subscribers never influence pipeline or sync control flow.
const (
	KindCallReceived    = "call_received"
	KindCreation        = "creation"
	KindEndpointHit     = "endpoint_hit"
	KindCallReturned    = "call_returned"
	KindValidationError = "validation_error"
	KindSyncAttempt     = "sync_attempt"
	KindSyncStart       = "sync_start"
	KindSyncCheck       = "sync_check"
	KindSyncRequired    = "sync_required"
	KindSyncSkipped     = "sync_skipped"
	KindSyncRetry       = "sync_retry"
	KindSyncProgress    = "sync_progress"
	KindSyncUpdate      = "sync_update"
	KindSyncComplete    = "sync_complete"
	KindSyncTrigger     = "sync_trigger"
	KindSyncError       = "sync_error"
	KindCleanup         = "cleanup"
	KindCleanupError    = "cleanup_error"
)

// Event is one notice pushed to the presentation layer.
type Event struct {
	ID        string    `json:"id"`
	EventKind string    `json:"eventType"`
	Detail    string    `json:"details"`
	Timestamp time.Time `json:"timestamp"`
}

// Relay fans events out to subscribers over buffered channels. Delivery is
// best-effort: a subscriber that falls behind loses events rather than
// blocking the publisher.
type Relay struct {
	mu   sync.Mutex
	subs map[string]chan Event
}

// Default is the process-wide relay instance.
var Default = New()

func New() *Relay {
	return &Relay{subs: make(map[string]chan Event)}
}

// Publish pushes an event to all subscribers without blocking.
func (r *Relay) Publish(kind, detail string) {
	ev := Event{
		ID:        uuid.NewString(),
		EventKind: kind,
		Detail:    detail,
		Timestamp: time.Now(),
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ch := range r.subs {
		select {
		case ch <- ev:
		default:
			// subscriber lagging, drop
		}
	}
}

// Subscribe registers a listener and returns its id and event channel.
func (r *Relay) Subscribe(buffer int) (string, <-chan Event) {
	if buffer <= 0 {
		buffer = 64
	}
	id := uuid.NewString()
	ch := make(chan Event, buffer)
	r.mu.Lock()
	r.subs[id] = ch
	r.mu.Unlock()
	return id, ch
}

// Unsubscribe removes a listener and closes its channel.
func (r *Relay) Unsubscribe(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if ch, ok := r.subs[id]; ok {
		delete(r.subs, id)
		close(ch)
	}
}

// Publish pushes an event on the default relay.
func Publish(kind, detail string) {
	Default.Publish(kind, detail)
}
