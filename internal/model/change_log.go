package model

import "time"

// Change log entry types.
const (
	ChangeTypeCreated = "CREATED"
	ChangeTypeUpdated = "UPDATED"
	ChangeTypeDeleted = "DELETED"
)

// ChangeLog is one audit-trail record of an employee mutation.
type ChangeLog struct {
	ID             int64     `json:"id"`
	Type           string    `json:"type"`
	EmployeeNumber string    `json:"employee_number"`
	Memo           *string   `json:"memo,omitempty"`
	IPAddress      string    `json:"ip_address"`
	CreatedAt      time.Time `json:"created_at"`
}
