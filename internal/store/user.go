package store

import (
	"database/sql"
	"fmt"

	"github.com/webgroup/herald/internal/model"
)

type UserStore struct {
	db *sql.DB
}

func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

func scanUser(scanner interface{ Scan(...any) error }) (*model.User, error) {
	var u model.User
	err := scanner.Scan(&u.ID, &u.FullName, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

const userCols = `id, full_name, created_at`

func (s *UserStore) Create(fullName string) (*model.User, error) {
	result, err := s.db.Exec(`INSERT INTO users (full_name) VALUES (?)`, fullName)
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *UserStore) GetByID(id int64) (*model.User, error) {
	row := s.db.QueryRow(`SELECT `+userCols+` FROM users WHERE id = ?`, id)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func (s *UserStore) List() ([]model.User, error) {
	rows, err := s.db.Query(`SELECT ` + userCols + ` FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

func (s *UserStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

// GetWithWindows loads a user together with their notification windows and
// attached event IDs. Returns nil when the user does not exist.
func (s *UserStore) GetWithWindows(id int64) (*model.User, error) {
	u, err := s.GetByID(id)
	if err != nil || u == nil {
		return u, err
	}

	u.Windows, err = s.windowsForUser(id)
	if err != nil {
		return nil, err
	}
	u.EventIDs, err = s.eventIDsForUser(id)
	if err != nil {
		return nil, err
	}
	return u, nil
}

// ListWithWindows loads every user with windows and attached event IDs in
// three queries, for the event fanout path.
func (s *UserStore) ListWithWindows() ([]model.User, error) {
	users, err := s.List()
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return users, nil
	}

	byID := make(map[int64]*model.User, len(users))
	for i := range users {
		byID[users[i].ID] = &users[i]
	}

	rows, err := s.db.Query(
		`SELECT id, user_id, weekday, start_sec, end_sec FROM notification_windows ORDER BY user_id, id`)
	if err != nil {
		return nil, fmt.Errorf("list windows: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		w, err := scanWindow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan window: %w", err)
		}
		if u, ok := byID[w.UserID]; ok {
			u.Windows = append(u.Windows, *w)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	evRows, err := s.db.Query(`SELECT user_id, event_id FROM user_events`)
	if err != nil {
		return nil, fmt.Errorf("list attachments: %w", err)
	}
	defer evRows.Close()
	for evRows.Next() {
		var userID, eventID int64
		if err := evRows.Scan(&userID, &eventID); err != nil {
			return nil, fmt.Errorf("scan attachment: %w", err)
		}
		if u, ok := byID[userID]; ok {
			u.EventIDs = append(u.EventIDs, eventID)
		}
	}
	return users, evRows.Err()
}

// AttachEvent records the user↔event attachments in one transaction.
// Existing pairs are left untouched.
func (s *UserStore) AttachEvent(userIDs []int64, eventID int64) error {
	if len(userIDs) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin attach: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT OR IGNORE INTO user_events (user_id, event_id) VALUES (?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare attach: %w", err)
	}
	defer stmt.Close()

	for _, userID := range userIDs {
		if _, err := stmt.Exec(userID, eventID); err != nil {
			return fmt.Errorf("attach event %d to user %d: %w", eventID, userID, err)
		}
	}
	return tx.Commit()
}

func (s *UserStore) windowsForUser(userID int64) ([]model.NotificationWindow, error) {
	rows, err := s.db.Query(
		`SELECT id, user_id, weekday, start_sec, end_sec FROM notification_windows WHERE user_id = ? ORDER BY id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list windows for user: %w", err)
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

func (s *UserStore) eventIDsForUser(userID int64) ([]int64, error) {
	rows, err := s.db.Query(`SELECT event_id FROM user_events WHERE user_id = ?`, userID)
	if err != nil {
		return nil, fmt.Errorf("list event ids for user: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan event id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
