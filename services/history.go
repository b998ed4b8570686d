package services

import (
	"fmt"
	"time"

	"github.com/Temamamankabeto/ora-ebook/models"
	"gorm.io/gorm"
)

// appendHistory writes one audit trail entry. Every status change in this
// package goes through a caller that pairs the ebooks.status update with this
// append inside the same transaction, keeping ebooks.status equal to the
// new_status of the latest entry.
func appendHistory(tx *gorm.DB, at time.Time, ebookID int, prev *models.EbookStatus, next models.EbookStatus, actorID int, comment *string) error {
	entry := models.WorkflowHistory{
		EbookID:        ebookID,
		PreviousStatus: prev,
		NewStatus:      next,
		ChangedBy:      actorID,
		Comments:       comment,
		ChangedAt:      at,
	}
	if err := tx.Create(&entry).Error; err != nil {
		return fmt.Errorf("append workflow history: %w", err)
	}
	return nil
}

func strptr(s string) *string {
	return &s
}

// loadEbook fetches an ebook for update inside a transaction.
func loadEbook(tx *gorm.DB, ebookID int) (*models.Ebook, error) {
	var ebook models.Ebook
	if err := tx.Where("ebook_id = ?", ebookID).First(&ebook).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("ebook %d: %w", ebookID, ErrNotFound)
		}
		return nil, err
	}
	return &ebook, nil
}
