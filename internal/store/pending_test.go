package store

import (
	"errors"
	"testing"
	"time"

	"github.com/webgroup/herald/internal/model"
)

func TestPendingCreateAndExists(t *testing.T) {
	db := setupTestDB(t)
	us := NewUserStore(db)
	ps := NewPendingStore(db)

	u, err := us.Create("Alice Johnson")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	exists, err := ps.Exists(u.ID, 7)
	if err != nil {
		t.Fatalf("exists: %v", err)
	}
	if exists {
		t.Error("exists = true before insert")
	}

	when := time.Date(2025, time.January, 6, 9, 0, 0, 0, time.UTC)
	p, err := ps.Create(u.ID, 7, when)
	if err != nil {
		t.Fatalf("create pending: %v", err)
	}
	if p.ID == 0 {
		t.Error("expected non-zero ID")
	}
	if !p.ScheduledTime.Equal(when) {
		t.Errorf("scheduled time = %v, want %v", p.ScheduledTime, when)
	}

	exists, err = ps.Exists(u.ID, 7)
	if err != nil {
		t.Fatalf("exists: %v", err)
	}
	if !exists {
		t.Error("exists = false after insert")
	}
}

func TestPendingDuplicateIsAlreadyScheduled(t *testing.T) {
	db := setupTestDB(t)
	us := NewUserStore(db)
	ps := NewPendingStore(db)

	u, err := us.Create("Alice Johnson")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	when := time.Date(2025, time.January, 6, 9, 0, 0, 0, time.UTC)
	if _, err := ps.Create(u.ID, 7, when); err != nil {
		t.Fatalf("create pending: %v", err)
	}

	_, err = ps.Create(u.ID, 7, when.Add(time.Hour))
	if !errors.Is(err, ErrAlreadyScheduled) {
		t.Fatalf("duplicate create error = %v, want ErrAlreadyScheduled", err)
	}

	pending, err := ps.ListByUser(u.ID)
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if len(pending) != 1 {
		t.Errorf("pending len = %d, want 1", len(pending))
	}
}

func TestPendingDeleteAll(t *testing.T) {
	db := setupTestDB(t)
	us := NewUserStore(db)
	ps := NewPendingStore(db)

	u, err := us.Create("Alice Johnson")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	when := time.Date(2025, time.January, 6, 9, 0, 0, 0, time.UTC)
	p1, err := ps.Create(u.ID, 1, when)
	if err != nil {
		t.Fatalf("create pending 1: %v", err)
	}
	if _, err := ps.Create(u.ID, 2, when.Add(time.Hour)); err != nil {
		t.Fatalf("create pending 2: %v", err)
	}

	if err := ps.DeleteAll([]model.PendingNotification{*p1}); err != nil {
		t.Fatalf("delete all: %v", err)
	}

	pending, err := ps.ListByUser(u.ID)
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("pending len = %d, want 1", len(pending))
	}
	if pending[0].EventID != 2 {
		t.Errorf("remaining event id = %d, want 2", pending[0].EventID)
	}
}

func TestPendingDeleteOrphaned(t *testing.T) {
	db := setupTestDB(t)
	us := NewUserStore(db)
	es := NewEventStore(db)
	ps := NewPendingStore(db)

	u, err := us.Create("Alice Johnson")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	ev, err := es.Create("deploy finished", time.Now().UTC())
	if err != nil {
		t.Fatalf("create event: %v", err)
	}

	when := time.Date(2025, time.January, 6, 9, 0, 0, 0, time.UTC)
	if _, err := ps.Create(u.ID, ev.ID, when); err != nil {
		t.Fatalf("create pending: %v", err)
	}
	if _, err := ps.Create(u.ID, ev.ID+100, when); err != nil {
		t.Fatalf("create orphan pending: %v", err)
	}

	n, err := ps.DeleteOrphaned()
	if err != nil {
		t.Fatalf("delete orphaned: %v", err)
	}
	if n != 1 {
		t.Errorf("deleted = %d, want 1", n)
	}

	pending, err := ps.ListByUser(u.ID)
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("pending len = %d, want 1", len(pending))
	}
	if pending[0].EventID != ev.ID {
		t.Errorf("remaining event id = %d, want %d", pending[0].EventID, ev.ID)
	}
}
