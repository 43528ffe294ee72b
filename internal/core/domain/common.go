package domain

import "time"

// AuditFields holds standard timestamps for domain entities.
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
}

// RecordStatus replaces physical deletion: deleted rows stay referenced by history.
type RecordStatus string

const (
	StatusActive  RecordStatus = "ACTIVE"
	StatusDeleted RecordStatus = "DELETED"
)

// IsActive reports whether the record is visible to normal reads.
func (s RecordStatus) IsActive() bool {
	return s == StatusActive
}
