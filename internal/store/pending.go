package store

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/webgroup/herald/internal/model"
)

type PendingStore struct {
	db *sql.DB
}

func NewPendingStore(db *sql.DB) *PendingStore {
	return &PendingStore{db: db}
}

func scanPending(scanner interface{ Scan(...any) error }) (*model.PendingNotification, error) {
	var p model.PendingNotification
	err := scanner.Scan(&p.ID, &p.UserID, &p.EventID, &p.ScheduledTime)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

const pendingCols = `id, user_id, event_id, scheduled_time`

// Exists reports whether a pending notification is already recorded for the
// (user, event) pair.
func (s *PendingStore) Exists(userID, eventID int64) (bool, error) {
	var n int
	err := s.db.QueryRow(
		`SELECT COUNT(1) FROM pending_notifications WHERE user_id = ? AND event_id = ?`,
		userID, eventID,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("check pending exists: %w", err)
	}
	return n > 0, nil
}

// Create inserts a pending notification. A unique-constraint violation on
// (user_id, event_id) is reported as ErrAlreadyScheduled.
func (s *PendingStore) Create(userID, eventID int64, scheduledTime time.Time) (*model.PendingNotification, error) {
	result, err := s.db.Exec(
		`INSERT INTO pending_notifications (user_id, event_id, scheduled_time) VALUES (?, ?, ?)`,
		userID, eventID, scheduledTime,
	)
	if isUniqueViolation(err) {
		return nil, ErrAlreadyScheduled
	}
	if err != nil {
		return nil, fmt.Errorf("insert pending: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.getByID(id)
}

func (s *PendingStore) getByID(id int64) (*model.PendingNotification, error) {
	row := s.db.QueryRow(`SELECT `+pendingCols+` FROM pending_notifications WHERE id = ?`, id)
	p, err := scanPending(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get pending: %w", err)
	}
	return p, nil
}

func (s *PendingStore) ListByUser(userID int64) ([]model.PendingNotification, error) {
	rows, err := s.db.Query(
		`SELECT `+pendingCols+` FROM pending_notifications WHERE user_id = ? ORDER BY scheduled_time, id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list pending: %w", err)
	}
	defer rows.Close()

	var pending []model.PendingNotification
	for rows.Next() {
		p, err := scanPending(rows)
		if err != nil {
			return nil, fmt.Errorf("scan pending: %w", err)
		}
		pending = append(pending, *p)
	}
	return pending, rows.Err()
}

// DeleteAll removes the given pending notifications in one statement.
func (s *PendingStore) DeleteAll(pending []model.PendingNotification) error {
	if len(pending) == 0 {
		return nil
	}

	placeholders := make([]string, len(pending))
	args := make([]any, len(pending))
	for i, p := range pending {
		placeholders[i] = "?"
		args[i] = p.ID
	}

	_, err := s.db.Exec(
		`DELETE FROM pending_notifications WHERE id IN (`+strings.Join(placeholders, ",")+`)`,
		args...,
	)
	if err != nil {
		return fmt.Errorf("delete pending batch: %w", err)
	}
	return nil
}

// DeleteOrphaned removes pending notifications whose event no longer exists
// and returns how many rows were deleted.
func (s *PendingStore) DeleteOrphaned() (int64, error) {
	result, err := s.db.Exec(
		`DELETE FROM pending_notifications WHERE event_id NOT IN (SELECT id FROM events)`)
	if err != nil {
		return 0, fmt.Errorf("delete orphaned pending: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return n, nil
}
