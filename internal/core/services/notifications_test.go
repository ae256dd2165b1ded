package services

import (
	"testing"
	"time"

	"github.com/phamquocan24/steganography/internal/core/domain"
)

func TestNotificationPushAndActive(t *testing.T) {
	q := NewNotificationQueue(nil)

	id := q.Push("Analysis complete", domain.SeveritySuccess, time.Minute)
	if id == "" {
		t.Fatal("expected a generated id")
	}

	active := q.Active()
	if len(active) != 1 {
		t.Fatalf("active = %d, want 1", len(active))
	}
	if active[0].Message != "Analysis complete" || active[0].Severity != domain.SeveritySuccess {
		t.Errorf("unexpected event: %+v", active[0])
	}
}

func TestNotificationDistinctIDs(t *testing.T) {
	q := NewNotificationQueue(nil)
	a := q.Push("one", domain.SeverityInfo, time.Minute)
	b := q.Push("two", domain.SeverityInfo, time.Minute)
	if a == b {
		t.Errorf("ids must be unique, both were %q", a)
	}
}

func TestNotificationDismissIdempotent(t *testing.T) {
	q := NewNotificationQueue(nil)
	id := q.Push("dismiss me", domain.SeverityWarning, time.Minute)

	q.Dismiss(id)
	q.Dismiss(id)
	q.Dismiss("never-existed")

	if len(q.Active()) != 0 {
		t.Error("dismissed event must leave the active set")
	}
}

func TestNotificationTTLExpiry(t *testing.T) {
	q := NewNotificationQueue(nil)
	q.Push("short lived", domain.SeverityInfo, 20*time.Millisecond)

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if len(q.Active()) == 0 {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Error("event did not expire after its TTL")
}

func TestNotificationZeroTTLUsesDefault(t *testing.T) {
	q := NewNotificationQueue(nil)
	q.Push("default ttl", domain.SeverityInfo, 0)

	active := q.Active()
	if len(active) != 1 {
		t.Fatalf("active = %d, want 1", len(active))
	}
	if active[0].TTL != domain.DefaultNotificationTTL {
		t.Errorf("ttl = %v, want %v", active[0].TTL, domain.DefaultNotificationTTL)
	}
}

func TestNotificationSinkReceivesEvents(t *testing.T) {
	var got []domain.NotificationEvent
	q := NewNotificationQueue(func(ev domain.NotificationEvent) {
		got = append(got, ev)
	})

	q.Push("hello", domain.SeveritySuccess, time.Minute)
	q.Push("world", domain.SeverityError, time.Minute)

	if len(got) != 2 {
		t.Fatalf("sink received %d events, want 2", len(got))
	}
	if got[0].Message != "hello" || got[1].Message != "world" {
		t.Errorf("sink events out of order: %+v", got)
	}
}
