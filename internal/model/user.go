package model

import "time"

type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Name         string    `json:"name"`
	IsAdmin      bool      `json:"is_admin"`
	CreatedAt    time.Time `json:"created_at"`
}

// AdminUser is a user row enriched with ledger totals for the admin view.
type AdminUser struct {
	User
	TotalEarned int `json:"total_earned"`
	TotalSpent  int `json:"total_spent"`
}
