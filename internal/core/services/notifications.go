package services

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/phamquocan24/steganography/internal/core/domain"
)

// NotificationQueue is an ephemeral, self-expiring feed of user-facing
// status events. Events leave the active set on explicit dismissal or TTL
// expiry, whichever comes first; both paths are idempotent.
type NotificationQueue struct {
	mu     sync.Mutex
	events []domain.NotificationEvent
	timers map[string]*time.Timer
	sink   func(domain.NotificationEvent)
}

// NewNotificationQueue creates an empty queue. The optional sink is called
// synchronously for every pushed event, letting the CLI print events as
// they happen.
func NewNotificationQueue(sink func(domain.NotificationEvent)) *NotificationQueue {
	return &NotificationQueue{
		timers: make(map[string]*time.Timer),
		sink:   sink,
	}
}

// SetSink replaces the push callback. A nil sink silences it, which the
// TUI uses while it owns the terminal.
func (q *NotificationQueue) SetSink(sink func(domain.NotificationEvent)) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.sink = sink
}

// Push appends an event with a generated id and schedules its own removal
// after ttl. A zero ttl uses the default.
func (q *NotificationQueue) Push(message string, severity domain.Severity, ttl time.Duration) string {
	if ttl <= 0 {
		ttl = domain.DefaultNotificationTTL
	}

	event := domain.NotificationEvent{
		ID:        uuid.NewString(),
		Message:   message,
		Severity:  severity,
		TTL:       ttl,
		CreatedAt: time.Now(),
	}

	q.mu.Lock()
	q.events = append(q.events, event)
	q.timers[event.ID] = time.AfterFunc(ttl, func() {
		q.Dismiss(event.ID)
	})
	sink := q.sink
	q.mu.Unlock()

	if sink != nil {
		sink(event)
	}
	return event.ID
}

// Dismiss removes an event immediately. Dismissing an unknown or already
// removed id is a no-op, not an error.
func (q *NotificationQueue) Dismiss(id string) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if timer, ok := q.timers[id]; ok {
		timer.Stop()
		delete(q.timers, id)
	}
	for i, ev := range q.events {
		if ev.ID == id {
			q.events = append(q.events[:i], q.events[i+1:]...)
			return
		}
	}
}

// Active returns a snapshot of the events currently in the queue.
func (q *NotificationQueue) Active() []domain.NotificationEvent {
	q.mu.Lock()
	defer q.mu.Unlock()
	events := make([]domain.NotificationEvent, len(q.events))
	copy(events, q.events)
	return events
}
