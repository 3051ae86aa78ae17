// models/cycle_record.go
package models

import "time"

// CycleRecord audits one reconciliation cycle. The remote JSON document stays
// the single source of truth; this table only exists so racing writers (last
// writer wins, see the status service) leave a trace an operator can read.
// Table name: cycle_records
type CycleRecord struct {
	ID          string    `gorm:"primaryKey;type:uuid;not null" json:"id"`
	Source      string    `gorm:"type:varchar(32);not null;index" json:"source"` // poll | api | webhook
	Changed     bool      `gorm:"not null" json:"changed"`
	WalletCount int       `gorm:"not null" json:"wallet_count"`
	DurationMs  int64     `gorm:"not null" json:"duration_ms"`
	Error       string    `gorm:"type:text" json:"error,omitempty"`
	CreatedAt   time.Time `gorm:"not null;index" json:"created_at"`
}
