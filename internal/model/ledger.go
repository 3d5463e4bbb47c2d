package model

import "time"

// LogEntry is a point-earning event. Rows are append-only: the activity name
// and point value are snapshotted at creation so the entry stays intact even
// if the activity is later edited or deleted.
type LogEntry struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	ActivityID   *string   `json:"activity_id"`
	ActivityName string    `json:"activity_name"`
	Points       int       `json:"points"`
	Timestamp    time.Time `json:"timestamp"`
}

// Redemption is a point-spending event. Append-only like LogEntry.
type Redemption struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	RewardName string    `json:"reward_name"`
	Cost       int       `json:"cost"`
	Timestamp  time.Time `json:"timestamp"`
}

// PointBalance is derived, never stored: earned minus spent over the ledger.
type PointBalance struct {
	UserID      string `json:"user_id"`
	TotalEarned int    `json:"total_earned"`
	TotalSpent  int    `json:"total_spent"`
	Balance     int    `json:"balance"`
}

// DailyLogStat is one day-bucketed row of earning activity (UTC days).
type DailyLogStat struct {
	Day    string `json:"day"`
	Count  int    `json:"count"`
	Points int    `json:"points"`
}

// DailyRedemptionStat is one day-bucketed row of spending activity (UTC days).
type DailyRedemptionStat struct {
	Day   string `json:"day"`
	Count int    `json:"count"`
	Cost  int    `json:"cost"`
}
