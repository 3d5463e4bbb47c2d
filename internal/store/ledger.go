package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/calebmorse/taskpoint/internal/model"
)

// LedgerStore holds the append-only earning and spending history. Rows are
// never updated or deleted through it, so a user's balance is always a pure
// fold over that history.
type LedgerStore struct {
	db *sql.DB
}

func NewLedgerStore(db *sql.DB) *LedgerStore {
	return &LedgerStore{db: db}
}

// --- Log entries ---

func scanLog(scanner interface{ Scan(...any) error }) (*model.LogEntry, error) {
	var l model.LogEntry
	var activityID sql.NullString

	err := scanner.Scan(&l.ID, &l.UserID, &activityID, &l.ActivityName, &l.Points, &l.Timestamp)
	if err != nil {
		return nil, err
	}

	if activityID.Valid {
		l.ActivityID = &activityID.String
	}
	return &l, nil
}

const logCols = `id, user_id, activity_id, activity_name, points, timestamp`

// CreateLog appends an earning event. The activity name and points are
// stored as snapshots; later edits to the activity do not touch them.
func (s *LedgerStore) CreateLog(userID string, activityID *string, activityName string, points int) (*model.LogEntry, error) {
	var aID sql.NullString
	if activityID != nil {
		aID = sql.NullString{String: *activityID, Valid: true}
	}

	id := uuid.NewString()
	_, err := s.db.Exec(
		`INSERT INTO logs (id, user_id, activity_id, activity_name, points) VALUES (?, ?, ?, ?, ?)`,
		id, userID, aID, activityName, points,
	)
	if err != nil {
		return nil, fmt.Errorf("insert log: %w", err)
	}

	row := s.db.QueryRow(`SELECT `+logCols+` FROM logs WHERE id = ?`, id)
	return scanLog(row)
}

// ListLogs returns the owner's earning events, newest first.
func (s *LedgerStore) ListLogs(userID string) ([]model.LogEntry, error) {
	rows, err := s.db.Query(
		`SELECT `+logCols+` FROM logs WHERE user_id = ? ORDER BY timestamp DESC, rowid DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list logs: %w", err)
	}
	defer rows.Close()

	var logs []model.LogEntry
	for rows.Next() {
		l, err := scanLog(rows)
		if err != nil {
			return nil, fmt.Errorf("scan log: %w", err)
		}
		logs = append(logs, *l)
	}
	return logs, rows.Err()
}

// --- Redemptions ---

func scanRedemption(scanner interface{ Scan(...any) error }) (*model.Redemption, error) {
	var r model.Redemption
	err := scanner.Scan(&r.ID, &r.UserID, &r.RewardName, &r.Cost, &r.Timestamp)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

const redemptionCols = `id, user_id, reward_name, cost, timestamp`

// CreateRedemption appends a spending event, but only if the owner's current
// balance covers the cost. The balance check and the insert are one SQL
// statement, so two concurrent redemptions against the same balance cannot
// both pass a stale check: SQLite serializes the writes and the second one
// sees the first one's row. Returns ErrInsufficientBalance when the guard
// rejects the insert; the ledger is left unchanged.
func (s *LedgerStore) CreateRedemption(userID, rewardName string, cost int) (*model.Redemption, error) {
	id := uuid.NewString()
	result, err := s.db.Exec(
		`INSERT INTO redemptions (id, user_id, reward_name, cost)
		 SELECT ?, ?, ?, ?
		 WHERE (SELECT COALESCE(SUM(points), 0) FROM logs WHERE user_id = ?)
		     - (SELECT COALESCE(SUM(cost), 0) FROM redemptions WHERE user_id = ?) >= ?`,
		id, userID, rewardName, cost, userID, userID, cost,
	)
	if err != nil {
		return nil, fmt.Errorf("insert redemption: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return nil, ErrInsufficientBalance
	}

	row := s.db.QueryRow(`SELECT `+redemptionCols+` FROM redemptions WHERE id = ?`, id)
	return scanRedemption(row)
}

// ListRedemptions returns the owner's spending events, newest first.
func (s *LedgerStore) ListRedemptions(userID string) ([]model.Redemption, error) {
	rows, err := s.db.Query(
		`SELECT `+redemptionCols+` FROM redemptions WHERE user_id = ? ORDER BY timestamp DESC, rowid DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list redemptions: %w", err)
	}
	defer rows.Close()

	var redemptions []model.Redemption
	for rows.Next() {
		r, err := scanRedemption(rows)
		if err != nil {
			return nil, fmt.Errorf("scan redemption: %w", err)
		}
		redemptions = append(redemptions, *r)
	}
	return redemptions, rows.Err()
}

// --- Derived views ---

// Balance folds the owner's ledger: earned minus spent.
func (s *LedgerStore) Balance(userID string) (*model.PointBalance, error) {
	var earned, spent int
	err := s.db.QueryRow(
		`SELECT COALESCE(SUM(points), 0) FROM logs WHERE user_id = ?`, userID,
	).Scan(&earned)
	if err != nil {
		return nil, fmt.Errorf("sum points earned: %w", err)
	}

	err = s.db.QueryRow(
		`SELECT COALESCE(SUM(cost), 0) FROM redemptions WHERE user_id = ?`, userID,
	).Scan(&spent)
	if err != nil {
		return nil, fmt.Errorf("sum points spent: %w", err)
	}

	return &model.PointBalance{
		UserID:      userID,
		TotalEarned: earned,
		TotalSpent:  spent,
		Balance:     earned - spent,
	}, nil
}

// TodayEarnings sums the owner's earnings on the UTC calendar day of ref.
func (s *LedgerStore) TodayEarnings(userID string, ref time.Time) (int, error) {
	day := ref.UTC().Format("2006-01-02")

	var total int
	err := s.db.QueryRow(
		`SELECT COALESCE(SUM(points), 0) FROM logs WHERE user_id = ? AND date(timestamp) = ?`,
		userID, day,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum today earnings: %w", err)
	}
	return total, nil
}

// DailyLogStats buckets earning events by UTC day, most recent first,
// limited to the given number of buckets.
func (s *LedgerStore) DailyLogStats(limit int) ([]model.DailyLogStat, error) {
	rows, err := s.db.Query(
		`SELECT date(timestamp) AS day, COUNT(*), COALESCE(SUM(points), 0)
		 FROM logs GROUP BY day ORDER BY day DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("daily log stats: %w", err)
	}
	defer rows.Close()

	var stats []model.DailyLogStat
	for rows.Next() {
		var st model.DailyLogStat
		if err := rows.Scan(&st.Day, &st.Count, &st.Points); err != nil {
			return nil, fmt.Errorf("scan daily log stat: %w", err)
		}
		stats = append(stats, st)
	}
	return stats, rows.Err()
}

// DailyRedemptionStats buckets spending events by UTC day, most recent
// first, limited to the given number of buckets.
func (s *LedgerStore) DailyRedemptionStats(limit int) ([]model.DailyRedemptionStat, error) {
	rows, err := s.db.Query(
		`SELECT date(timestamp) AS day, COUNT(*), COALESCE(SUM(cost), 0)
		 FROM redemptions GROUP BY day ORDER BY day DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("daily redemption stats: %w", err)
	}
	defer rows.Close()

	var stats []model.DailyRedemptionStat
	for rows.Next() {
		var st model.DailyRedemptionStat
		if err := rows.Scan(&st.Day, &st.Count, &st.Cost); err != nil {
			return nil, fmt.Errorf("scan daily redemption stat: %w", err)
		}
		stats = append(stats, st)
	}
	return stats, rows.Err()
}

// ListUserTotals returns every user, newest first, with lifetime earned and
// spent totals. Full-table aggregation with no pagination; fine at the scale
// this runs at.
func (s *LedgerStore) ListUserTotals() ([]model.AdminUser, error) {
	rows, err := s.db.Query(
		`SELECT u.id, u.email, u.password_hash, u.name, u.is_admin, u.created_at,
		        COALESCE((SELECT SUM(l.points) FROM logs l WHERE l.user_id = u.id), 0),
		        COALESCE((SELECT SUM(r.cost) FROM redemptions r WHERE r.user_id = u.id), 0)
		 FROM users u ORDER BY u.created_at DESC, u.rowid DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list user totals: %w", err)
	}
	defer rows.Close()

	var users []model.AdminUser
	for rows.Next() {
		var au model.AdminUser
		var isAdmin int
		err := rows.Scan(
			&au.ID, &au.Email, &au.PasswordHash, &au.Name, &isAdmin, &au.CreatedAt,
			&au.TotalEarned, &au.TotalSpent,
		)
		if err != nil {
			return nil, fmt.Errorf("scan user totals: %w", err)
		}
		au.IsAdmin = isAdmin != 0
		users = append(users, au)
	}
	return users, rows.Err()
}
