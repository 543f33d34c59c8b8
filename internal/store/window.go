package store

import (
	"database/sql"
	"fmt"

	"github.com/webgroup/herald/internal/model"
)

type WindowStore struct {
	db *sql.DB
}

func NewWindowStore(db *sql.DB) *WindowStore {
	return &WindowStore{db: db}
}

func scanWindow(scanner interface{ Scan(...any) error }) (*model.NotificationWindow, error) {
	var w model.NotificationWindow
	var weekday int
	var start, end sql.NullInt64
	if err := scanner.Scan(&w.ID, &w.UserID, &weekday, &start, &end); err != nil {
		return nil, err
	}
	w.Weekday = model.Weekday(weekday)
	if start.Valid {
		c := model.ClockTime(start.Int64)
		w.Start = &c
	}
	if end.Valid {
		c := model.ClockTime(end.Int64)
		w.End = &c
	}
	return &w, nil
}

func clockValue(c *model.ClockTime) any {
	if c == nil {
		return nil
	}
	return int64(*c)
}

func (s *WindowStore) Create(userID int64, weekday model.Weekday, start, end *model.ClockTime) (*model.NotificationWindow, error) {
	result, err := s.db.Exec(
		`INSERT INTO notification_windows (user_id, weekday, start_sec, end_sec) VALUES (?, ?, ?, ?)`,
		userID, int(weekday), clockValue(start), clockValue(end),
	)
	if err != nil {
		return nil, fmt.Errorf("insert window: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *WindowStore) GetByID(id int64) (*model.NotificationWindow, error) {
	row := s.db.QueryRow(
		`SELECT id, user_id, weekday, start_sec, end_sec FROM notification_windows WHERE id = ?`, id)
	w, err := scanWindow(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get window: %w", err)
	}
	return w, nil
}

func (s *WindowStore) ListByUser(userID int64) ([]model.NotificationWindow, error) {
	rows, err := s.db.Query(
		`SELECT id, user_id, weekday, start_sec, end_sec FROM notification_windows WHERE user_id = ? ORDER BY id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list windows: %w", err)
	}
	defer rows.Close()

	var windows []model.NotificationWindow
	for rows.Next() {
		w, err := scanWindow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan window: %w", err)
		}
		windows = append(windows, *w)
	}
	return windows, rows.Err()
}

func (s *WindowStore) Update(id int64, weekday model.Weekday, start, end *model.ClockTime) (*model.NotificationWindow, error) {
	_, err := s.db.Exec(
		`UPDATE notification_windows SET weekday = ?, start_sec = ?, end_sec = ? WHERE id = ?`,
		int(weekday), clockValue(start), clockValue(end), id,
	)
	if err != nil {
		return nil, fmt.Errorf("update window: %w", err)
	}
	return s.GetByID(id)
}

func (s *WindowStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM notification_windows WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete window: %w", err)
	}
	return nil
}
