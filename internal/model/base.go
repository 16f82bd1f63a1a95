package model

import "time"

// Base holds the identity and bookkeeping columns shared by persisted rows.
type Base struct {
	ID        int64     `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
