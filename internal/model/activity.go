package model

import "time"

// DefaultIcon is used when an activity is created without an icon tag.
const DefaultIcon = "zap"

type Activity struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	Value     int       `json:"value"`
	Icon      string    `json:"icon"`
	CreatedAt time.Time `json:"created_at"`
}
