package models

import "time"

type Account struct {
	ID           int64     `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// AccountSummary is the part of an Account that is safe to hand to clients.
type AccountSummary struct {
	ID       int64  `json:"id" example:"42"`
	Username string `json:"username" example:"pitchfan"`
	Email    string `json:"email" example:"pitchfan@example.com"`
}

func (a *Account) Summary() AccountSummary {
	return AccountSummary{
		ID:       a.ID,
		Username: a.Username,
		Email:    a.Email,
	}
}
