package store

import (
	"database/sql"
	"testing"
	"time"

	"github.com/webgroup/herald/internal/database"
	"github.com/webgroup/herald/internal/model"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		t.Fatalf("enable foreign keys: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func mustClock(t *testing.T, s string) *model.ClockTime {
	t.Helper()
	c, err := model.ParseClockTime(s)
	if err != nil {
		t.Fatalf("parse clock time %q: %v", s, err)
	}
	return &c
}

func TestUserCreate(t *testing.T) {
	us := NewUserStore(setupTestDB(t))

	u, err := us.Create("Alice Johnson")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if u.FullName != "Alice Johnson" {
		t.Errorf("full name = %q, want %q", u.FullName, "Alice Johnson")
	}
	if u.ID == 0 {
		t.Error("expected non-zero ID")
	}
}

func TestUserGetByIDNotFound(t *testing.T) {
	us := NewUserStore(setupTestDB(t))

	u, err := us.GetByID(999)
	if err != nil {
		t.Fatalf("get by id: %v", err)
	}
	if u != nil {
		t.Error("expected nil for nonexistent user")
	}
}

func TestUserDelete(t *testing.T) {
	us := NewUserStore(setupTestDB(t))

	u, err := us.Create("Alice Johnson")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if err := us.Delete(u.ID); err != nil {
		t.Fatalf("delete user: %v", err)
	}

	got, err := us.GetByID(u.ID)
	if err != nil {
		t.Fatalf("get by id: %v", err)
	}
	if got != nil {
		t.Error("expected nil after delete")
	}
}

func TestUserGetWithWindows(t *testing.T) {
	db := setupTestDB(t)
	us := NewUserStore(db)
	ws := NewWindowStore(db)
	es := NewEventStore(db)

	u, err := us.Create("Alice Johnson")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if _, err := ws.Create(u.ID, model.Weekday(time.Monday), mustClock(t, "09:00"), mustClock(t, "17:00")); err != nil {
		t.Fatalf("create window: %v", err)
	}
	ev, err := es.Create("deploy finished", time.Now().UTC())
	if err != nil {
		t.Fatalf("create event: %v", err)
	}
	if err := us.AttachEvent([]int64{u.ID}, ev.ID); err != nil {
		t.Fatalf("attach event: %v", err)
	}

	got, err := us.GetWithWindows(u.ID)
	if err != nil {
		t.Fatalf("get with windows: %v", err)
	}
	if len(got.Windows) != 1 {
		t.Fatalf("windows len = %d, want 1", len(got.Windows))
	}
	if got.Windows[0].Weekday != model.Weekday(time.Monday) {
		t.Errorf("weekday = %v, want Monday", got.Windows[0].Weekday)
	}
	if !got.HasEvent(ev.ID) {
		t.Error("expected event to be attached")
	}
}

func TestUserGetWithWindowsNotFound(t *testing.T) {
	us := NewUserStore(setupTestDB(t))

	u, err := us.GetWithWindows(42)
	if err != nil {
		t.Fatalf("get with windows: %v", err)
	}
	if u != nil {
		t.Error("expected nil for nonexistent user")
	}
}

func TestUserListWithWindows(t *testing.T) {
	db := setupTestDB(t)
	us := NewUserStore(db)
	ws := NewWindowStore(db)

	alice, err := us.Create("Alice Johnson")
	if err != nil {
		t.Fatalf("create alice: %v", err)
	}
	bob, err := us.Create("Bob Smith")
	if err != nil {
		t.Fatalf("create bob: %v", err)
	}
	if _, err := ws.Create(alice.ID, model.Weekday(time.Friday), mustClock(t, "22:00"), mustClock(t, "06:00")); err != nil {
		t.Fatalf("create window: %v", err)
	}

	users, err := us.ListWithWindows()
	if err != nil {
		t.Fatalf("list with windows: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("users len = %d, want 2", len(users))
	}

	var gotAlice, gotBob *model.User
	for i := range users {
		switch users[i].ID {
		case alice.ID:
			gotAlice = &users[i]
		case bob.ID:
			gotBob = &users[i]
		}
	}
	if gotAlice == nil || gotBob == nil {
		t.Fatal("expected both users in result")
	}
	if len(gotAlice.Windows) != 1 {
		t.Errorf("alice windows len = %d, want 1", len(gotAlice.Windows))
	}
	if len(gotBob.Windows) != 0 {
		t.Errorf("bob windows len = %d, want 0", len(gotBob.Windows))
	}
}

func TestUserAttachEventIdempotent(t *testing.T) {
	db := setupTestDB(t)
	us := NewUserStore(db)
	es := NewEventStore(db)

	u, err := us.Create("Alice Johnson")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	ev, err := es.Create("deploy finished", time.Now().UTC())
	if err != nil {
		t.Fatalf("create event: %v", err)
	}

	if err := us.AttachEvent([]int64{u.ID}, ev.ID); err != nil {
		t.Fatalf("attach event: %v", err)
	}
	if err := us.AttachEvent([]int64{u.ID}, ev.ID); err != nil {
		t.Fatalf("attach event again: %v", err)
	}

	got, err := us.GetWithWindows(u.ID)
	if err != nil {
		t.Fatalf("get with windows: %v", err)
	}
	if len(got.EventIDs) != 1 {
		t.Errorf("event ids len = %d, want 1", len(got.EventIDs))
	}
}
