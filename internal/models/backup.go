package models

import "time"

// Backup is the single database snapshot an account keeps on the server.
type Backup struct {
	OwnerID  int64     `json:"owner_id" db:"owner_id"`
	Blob     []byte    `json:"-" db:"blob"`
	LastSync time.Time `json:"last_sync" db:"last_sync"`
}
