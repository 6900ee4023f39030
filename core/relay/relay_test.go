package relay

import "testing"

func TestRelay_PublishSubscribe(t *testing.T) {
	r := New()
	id, ch := r.Subscribe(4)
	defer r.Unsubscribe(id)

	r.Publish(KindSyncStart, "starting")

	ev := <-ch
	if ev.EventKind != KindSyncStart {
		t.Errorf("EventKind = %q, want %q", ev.EventKind, KindSyncStart)
	}
	if ev.Detail != "starting" {
		t.Errorf("Detail = %q", ev.Detail)
	}
	if ev.ID == "" || ev.Timestamp.IsZero() {
		t.Error("event missing id or timestamp")
	}
}

func TestRelay_SlowSubscriberDoesNotBlock(t *testing.T) {
	r := New()
	id, ch := r.Subscribe(1)
	defer r.Unsubscribe(id)

	// Fill the buffer, then publish more; Publish must return immediately.
	for i := 0; i < 10; i++ {
		r.Publish(KindSyncProgress, "tick")
	}

	// Only the buffered event is delivered.
	<-ch
	select {
	case ev := <-ch:
		t.Errorf("unexpected extra event %v", ev)
	default:
	}
}

func TestRelay_Unsubscribe(t *testing.T) {
	r := New()
	id, ch := r.Subscribe(1)
	r.Unsubscribe(id)
	if _, open := <-ch; open {
		t.Error("channel not closed on Unsubscribe")
	}
	// Publishing after unsubscribe must not panic.
	r.Publish(KindSyncUpdate, "after")
}
