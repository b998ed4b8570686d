package services

import (
	"fmt"

	"github.com/Temamamankabeto/ora-ebook/models"
	"gorm.io/gorm"
)

// LibraryService is the public read surface over published ebooks.
type LibraryService struct {
	base
}

func NewLibraryService(db *gorm.DB, opts ...Option) *LibraryService {
	return &LibraryService{base: newBase(db, opts)}
}

// Library lists every published ebook, newest first. Per-item visibility is
// enforced on detail access, not on the listing.
func (s *LibraryService) Library() ([]models.Ebook, error) {
	var ebooks []models.Ebook
	err := s.db.Where("status = ?", models.StatusPublished).
		Order("published_at DESC").
		Find(&ebooks).Error
	if err != nil {
		return nil, err
	}
	return ebooks, nil
}

// Visible evaluates the access policy for a published ebook against the
// injected clock. OPEN is world readable; RESTRICTED needs a login;
// EMBARGOED needs a login and an elapsed (or absent) embargo date. Anonymous
// readers never see embargoed content, whatever the date.
func (s *LibraryService) Visible(ebook *models.Ebook, authenticated bool) bool {
	access := models.AccessOpen
	if ebook.Access != nil && *ebook.Access != "" {
		access = *ebook.Access
	}
	switch access {
	case models.AccessOpen:
		return true
	case models.AccessRestricted:
		return authenticated
	case models.AccessEmbargoed:
		if !authenticated {
			return false
		}
		if ebook.EmbargoUntil == nil {
			return true
		}
		today := s.now().Format("2006-01-02")
		return today >= ebook.EmbargoUntil.Format("2006-01-02")
	}
	return false
}

// PublicEbook loads one published ebook and applies the visibility rule.
// Hidden content reads as ErrForbidden, an unpublished or unknown id as
// ErrNotFound.
func (s *LibraryService) PublicEbook(ebookID int, authenticated bool) (*models.Ebook, error) {
	var ebook models.Ebook
	err := s.db.Where("ebook_id = ? AND status = ?", ebookID, models.StatusPublished).
		First(&ebook).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("published ebook %d: %w", ebookID, ErrNotFound)
		}
		return nil, err
	}
	if !s.Visible(&ebook, authenticated) {
		return nil, fmt.Errorf("ebook %d not accessible: %w", ebookID, ErrForbidden)
	}
	return &ebook, nil
}

// LogAccess records a reader interaction. UserID is nil for anonymous
// readers.
func (s *LibraryService) LogAccess(ebookID int, userID *int, action string, ip, userAgent *string) error {
	if action == "" {
		return fmt.Errorf("action required: %w", ErrValidation)
	}
	entry := models.EbookAccessLog{
		EbookID:   ebookID,
		UserID:    userID,
		Action:    action,
		IPAddress: ip,
		UserAgent: userAgent,
		CreatedAt: s.now(),
	}
	return s.db.Create(&entry).Error
}
