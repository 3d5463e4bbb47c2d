package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/calebmorse/taskpoint/internal/model"
)

type ActivityStore struct {
	db *sql.DB
}

func NewActivityStore(db *sql.DB) *ActivityStore {
	return &ActivityStore{db: db}
}

func scanActivity(scanner interface{ Scan(...any) error }) (*model.Activity, error) {
	var a model.Activity
	err := scanner.Scan(&a.ID, &a.UserID, &a.Name, &a.Value, &a.Icon, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

const activityCols = `id, user_id, name, value, icon, created_at`

func (s *ActivityStore) Create(userID, name string, value int, icon string) (*model.Activity, error) {
	if icon == "" {
		icon = model.DefaultIcon
	}

	id := uuid.NewString()
	_, err := s.db.Exec(
		`INSERT INTO activities (id, user_id, name, value, icon) VALUES (?, ?, ?, ?, ?)`,
		id, userID, name, value, icon,
	)
	if err != nil {
		return nil, fmt.Errorf("insert activity: %w", err)
	}
	return s.Get(userID, id)
}

// Get returns the activity only if it belongs to userID; (nil, nil) otherwise.
func (s *ActivityStore) Get(userID, id string) (*model.Activity, error) {
	row := s.db.QueryRow(`SELECT `+activityCols+` FROM activities WHERE id = ? AND user_id = ?`, id, userID)
	a, err := scanActivity(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get activity: %w", err)
	}
	return a, nil
}

// List returns the owner's activities in creation order.
func (s *ActivityStore) List(userID string) ([]model.Activity, error) {
	rows, err := s.db.Query(
		`SELECT `+activityCols+` FROM activities WHERE user_id = ? ORDER BY created_at ASC, rowid ASC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	defer rows.Close()

	var activities []model.Activity
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		activities = append(activities, *a)
	}
	return activities, rows.Err()
}

// Update edits an owned activity. ErrNotFound covers both a missing id and
// an id owned by someone else.
func (s *ActivityStore) Update(userID, id, name string, value int, icon string) (*model.Activity, error) {
	if icon == "" {
		icon = model.DefaultIcon
	}

	result, err := s.db.Exec(
		`UPDATE activities SET name = ?, value = ?, icon = ? WHERE id = ? AND user_id = ?`,
		name, value, icon, id, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("update activity: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return nil, ErrNotFound
	}
	return s.Get(userID, id)
}

// Delete removes an owned activity. Historical log entries that reference it
// are untouched; they keep their name and point snapshots.
func (s *ActivityStore) Delete(userID, id string) error {
	result, err := s.db.Exec(`DELETE FROM activities WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete activity: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
