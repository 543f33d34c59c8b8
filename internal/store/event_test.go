package store

import (
	"testing"
	"time"
)

func TestEventCreateAndGet(t *testing.T) {
	es := NewEventStore(setupTestDB(t))

	occurred := time.Date(2025, time.January, 6, 12, 30, 0, 0, time.UTC)
	ev, err := es.Create("deploy finished", occurred)
	if err != nil {
		t.Fatalf("create event: %v", err)
	}
	if ev.Message != "deploy finished" {
		t.Errorf("message = %q, want %q", ev.Message, "deploy finished")
	}
	if !ev.OccurredAt.Equal(occurred) {
		t.Errorf("occurred at = %v, want %v", ev.OccurredAt, occurred)
	}

	got, err := es.GetByID(ev.ID)
	if err != nil {
		t.Fatalf("get event: %v", err)
	}
	if got == nil || got.ID != ev.ID {
		t.Fatalf("get event = %+v, want id %d", got, ev.ID)
	}
}

func TestEventGetByIDNotFound(t *testing.T) {
	es := NewEventStore(setupTestDB(t))

	ev, err := es.GetByID(999)
	if err != nil {
		t.Fatalf("get event: %v", err)
	}
	if ev != nil {
		t.Error("expected nil for nonexistent event")
	}
}

func TestEventList(t *testing.T) {
	es := NewEventStore(setupTestDB(t))

	now := time.Now().UTC()
	if _, err := es.Create("first", now); err != nil {
		t.Fatalf("create first: %v", err)
	}
	if _, err := es.Create("second", now.Add(time.Minute)); err != nil {
		t.Fatalf("create second: %v", err)
	}

	events, err := es.List()
	if err != nil {
		t.Fatalf("list events: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("events len = %d, want 2", len(events))
	}
	if events[0].Message != "first" || events[1].Message != "second" {
		t.Errorf("unexpected order: %q, %q", events[0].Message, events[1].Message)
	}
}

func TestEventListByUser(t *testing.T) {
	db := setupTestDB(t)
	es := NewEventStore(db)
	us := NewUserStore(db)

	u, err := us.Create("Alice Johnson")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	now := time.Now().UTC()
	attached, err := es.Create("attached", now)
	if err != nil {
		t.Fatalf("create attached: %v", err)
	}
	if _, err := es.Create("unattached", now); err != nil {
		t.Fatalf("create unattached: %v", err)
	}
	if err := us.AttachEvent([]int64{u.ID}, attached.ID); err != nil {
		t.Fatalf("attach event: %v", err)
	}

	events, err := es.ListByUser(u.ID)
	if err != nil {
		t.Fatalf("list events for user: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("events len = %d, want 1", len(events))
	}
	if events[0].ID != attached.ID {
		t.Errorf("event id = %d, want %d", events[0].ID, attached.ID)
	}

	none, err := es.ListByUser(u.ID + 100)
	if err != nil {
		t.Fatalf("list events for unknown user: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("events len = %d, want 0", len(none))
	}
}

func TestEventDelete(t *testing.T) {
	es := NewEventStore(setupTestDB(t))

	ev, err := es.Create("short lived", time.Now().UTC())
	if err != nil {
		t.Fatalf("create event: %v", err)
	}
	if err := es.Delete(ev.ID); err != nil {
		t.Fatalf("delete event: %v", err)
	}

	got, err := es.GetByID(ev.ID)
	if err != nil {
		t.Fatalf("get event: %v", err)
	}
	if got != nil {
		t.Error("expected nil after delete")
	}
}
