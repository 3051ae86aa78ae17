// services/history.go
package services

import (
	"log"
	"time"

	"camera-status-bot/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// HistoryService persists one audit row per reconciliation cycle. Optional:
// when no database is configured the rest of the system runs without it.
type HistoryService struct {
	DB *gorm.DB
}

func NewHistoryService(db *gorm.DB) *HistoryService {
	return &HistoryService{DB: db}
}

// Record writes an audit row. Failures are logged and swallowed — the audit
// trail must never break a cycle.
func (h *HistoryService) Record(source string, changed bool, walletCount int, duration time.Duration, cycleErr error) {
	if h == nil || h.DB == nil {
		return
	}
	rec := models.CycleRecord{
		ID:          uuid.NewString(),
		Source:      source,
		Changed:     changed,
		WalletCount: walletCount,
		DurationMs:  duration.Milliseconds(),
		CreatedAt:   time.Now().UTC(),
	}
	if cycleErr != nil {
		rec.Error = cycleErr.Error()
	}
	if err := h.DB.Create(&rec).Error; err != nil {
		log.Printf("⚠️ failed to record cycle audit row: %v", err)
	}
}

// Recent returns the latest cycle rows, newest first.
func (h *HistoryService) Recent(limit int) ([]models.CycleRecord, error) {
	if h == nil || h.DB == nil {
		return nil, nil
	}
	var rows []models.CycleRecord
	if err := h.DB.Order("created_at DESC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
