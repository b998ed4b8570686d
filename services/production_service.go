package services

import (
	"fmt"
	"time"

	"github.com/Temamamankabeto/ora-ebook/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// productionQueueStatuses are the manuscripts a content manager sees.
var productionQueueStatuses = []models.EbookStatus{
	models.StatusFinanceCleared,
	models.StatusInProduction,
}

// ProductionService moves cleared manuscripts through production into public
// release.
type ProductionService struct {
	base
}

func NewProductionService(db *gorm.DB, opts ...Option) *ProductionService {
	return &ProductionService{base: newBase(db, opts)}
}

// StartProduction upserts the production record for the ebook and forces it
// to IN_PRODUCTION. A repeat call reassigns the manager without touching the
// original start time.
func (s *ProductionService) StartProduction(actor Actor, ebookID int) (*models.ProductionRecord, error) {
	now := s.now()
	record := models.ProductionRecord{
		EbookID:   ebookID,
		ManagerID: actor.UserID,
		StartedAt: now,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		ebook, err := loadEbook(tx, ebookID)
		if err != nil {
			return err
		}
		if ebook.Status.IsTerminal() {
			return fmt.Errorf("ebook %d is %s: %w", ebookID, ebook.Status, ErrInvalidState)
		}

		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "ebook_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"manager_id"}),
		}).Create(&record).Error; err != nil {
			return fmt.Errorf("upsert production record: %w", err)
		}

		if ebook.Status == models.StatusInProduction {
			return nil
		}

		if err := tx.Model(&models.Ebook{}).
			Where("ebook_id = ?", ebookID).
			Updates(map[string]interface{}{
				"status":     models.StatusInProduction,
				"updated_at": now,
			}).Error; err != nil {
			return err
		}

		prev := ebook.Status
		return appendHistory(tx, now, ebookID, &prev, models.StatusInProduction, actor.UserID, strptr("Production started"))
	})
	if err != nil {
		return nil, err
	}

	if err := s.db.Where("ebook_id = ?", ebookID).First(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

// parseEmbargo accepts a YYYY-MM-DD date; embargoes are date-granular.
func parseEmbargo(raw *string) (*time.Time, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", *raw)
	if err != nil {
		return nil, fmt.Errorf("embargo_until must be YYYY-MM-DD: %w", ErrValidation)
	}
	return &t, nil
}

type PublishInput struct {
	Access       *string
	EmbargoUntil *string // YYYY-MM-DD
	ISBN         *string
	DOI          *string
}

// Publish releases the ebook: status PUBLISHED, publication timestamp,
// access policy and external identifiers, and the current version marked
// final.
func (s *ProductionService) Publish(actor Actor, ebookID int, in PublishInput) (*models.Ebook, error) {
	access := models.AccessOpen
	if in.Access != nil && *in.Access != "" {
		access = *in.Access
	}
	switch access {
	case models.AccessOpen, models.AccessRestricted, models.AccessEmbargoed:
	default:
		return nil, fmt.Errorf("unknown access policy %q: %w", access, ErrValidation)
	}

	embargo, err := parseEmbargo(in.EmbargoUntil)
	if err != nil {
		return nil, err
	}

	now := s.now()
	var published models.Ebook

	err = s.db.Transaction(func(tx *gorm.DB) error {
		ebook, err := loadEbook(tx, ebookID)
		if err != nil {
			return err
		}
		if ebook.Status.IsTerminal() {
			return fmt.Errorf("ebook %d is %s: %w", ebookID, ebook.Status, ErrInvalidState)
		}

		if err := tx.Model(&models.Ebook{}).
			Where("ebook_id = ?", ebookID).
			Updates(map[string]interface{}{
				"status":        models.StatusPublished,
				"published_at":  now,
				"access":        access,
				"embargo_until": embargo,
				"isbn":          in.ISBN,
				"doi":           in.DOI,
				"updated_at":    now,
			}).Error; err != nil {
			return err
		}

		if ebook.CurrentVersionID != nil {
			if err := tx.Model(&models.EbookVersion{}).
				Where("version_id = ?", *ebook.CurrentVersionID).
				Update("is_final", true).Error; err != nil {
				return err
			}
		}

		prev := ebook.Status
		if err := appendHistory(tx, now, ebookID, &prev, models.StatusPublished, actor.UserID, strptr("Published")); err != nil {
			return err
		}

		return tx.Where("ebook_id = ?", ebookID).First(&published).Error
	})
	if err != nil {
		return nil, err
	}
	return &published, nil
}

// ProductionQueue lists cleared and in-production manuscripts, newest
// activity first.
func (s *ProductionService) ProductionQueue() ([]models.Ebook, error) {
	var ebooks []models.Ebook
	err := s.db.Where("status IN ?", productionQueueStatuses).
		Order("updated_at DESC").
		Find(&ebooks).Error
	if err != nil {
		return nil, err
	}
	return ebooks, nil
}
