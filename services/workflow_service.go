package services

import (
	"fmt"
	"strings"

	"github.com/Temamamankabeto/ora-ebook/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// statusTransitions is the adjacency table of legal SetStatus moves. Forced
// transitions (revision resubmission, reviewer auto-advance, the finance and
// production gates) do not consult it; PUBLISHED and REJECTED have no
// outgoing edges anywhere.
var statusTransitions = map[models.EbookStatus][]models.EbookStatus{
	models.StatusSubmitted: {
		models.StatusScreening,
		models.StatusUnderReview,
		models.StatusReturnedForCorrection,
		models.StatusRejected,
	},
	models.StatusScreening: {
		models.StatusUnderReview,
		models.StatusReturnedForCorrection,
		models.StatusRejected,
	},
	models.StatusUnderReview: {
		models.StatusRevisionRequired,
		models.StatusAccepted,
		models.StatusReturnedForCorrection,
		models.StatusRejected,
	},
	models.StatusRevisionRequired: {
		models.StatusScreening,
		models.StatusUnderReview,
		models.StatusAccepted,
		models.StatusRejected,
	},
	models.StatusReturnedForCorrection: {
		models.StatusScreening,
		models.StatusUnderReview,
		models.StatusRejected,
	},
	models.StatusAccepted: {
		models.StatusFinancePending,
		models.StatusFinanceCleared,
	},
	models.StatusFinancePending: {models.StatusFinanceCleared},
	models.StatusFinanceCleared: {models.StatusInProduction},
	models.StatusInProduction:   {models.StatusPublished},
	models.StatusPublished:      {},
	models.StatusRejected:       {},
}

// editorQueueStatuses is the active pipeline an editor works from.
var editorQueueStatuses = []models.EbookStatus{
	models.StatusSubmitted,
	models.StatusScreening,
	models.StatusReturnedForCorrection,
	models.StatusUnderReview,
	models.StatusRevisionRequired,
	models.StatusAccepted,
}

func knownStatus(s models.EbookStatus) bool {
	_, ok := statusTransitions[s]
	return ok
}

func canTransition(from, to models.EbookStatus) bool {
	for _, next := range statusTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// WorkflowService owns the manuscript lifecycle: submission, editorial status
// changes, revisions and file metadata.
type WorkflowService struct {
	base
}

func NewWorkflowService(db *gorm.DB, opts ...Option) *WorkflowService {
	return &WorkflowService{base: newBase(db, opts)}
}

type CreateSubmissionInput struct {
	Title    string
	Abstract *string
	Keywords *string
}

// CreateSubmission creates an ebook in SUBMITTED together with version 1, the
// current-version pointer and the initial history entry, all in one
// transaction.
func (s *WorkflowService) CreateSubmission(actor Actor, in CreateSubmissionInput) (*models.Ebook, *models.EbookVersion, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, nil, fmt.Errorf("title required: %w", ErrValidation)
	}

	now := s.now()
	ebook := models.Ebook{
		PublicID: uuid.NewString(),
		AuthorID: actor.UserID,
		Title:    title,
		Abstract: in.Abstract,
		Keywords: in.Keywords,
		Status:   models.StatusSubmitted,
	}
	version := models.EbookVersion{
		VersionNo:   1,
		IsFinal:     false,
		SubmittedBy: actor.UserID,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&ebook).Error; err != nil {
			return fmt.Errorf("create ebook: %w", err)
		}

		version.EbookID = ebook.EbookID
		if err := tx.Create(&version).Error; err != nil {
			return fmt.Errorf("create version: %w", err)
		}

		if err := tx.Model(&models.Ebook{}).
			Where("ebook_id = ?", ebook.EbookID).
			Update("current_version_id", version.VersionID).Error; err != nil {
			return err
		}
		ebook.CurrentVersionID = &version.VersionID

		return appendHistory(tx, now, ebook.EbookID, nil, models.StatusSubmitted, actor.UserID, strptr("Initial submission"))
	})
	if err != nil {
		return nil, nil, err
	}
	return &ebook, &version, nil
}

// SetStatus moves an ebook along the transition table, records the editor on
// the ebook, optionally inserts a decision record and appends the history
// entry.
func (s *WorkflowService) SetStatus(actor Actor, ebookID int, newStatus models.EbookStatus, comment *string, decision *string) error {
	if !knownStatus(newStatus) {
		return fmt.Errorf("unknown status %q: %w", newStatus, ErrValidation)
	}

	now := s.now()
	return s.db.Transaction(func(tx *gorm.DB) error {
		ebook, err := loadEbook(tx, ebookID)
		if err != nil {
			return err
		}

		if ebook.Status.IsTerminal() {
			return fmt.Errorf("ebook %d is %s: %w", ebookID, ebook.Status, ErrInvalidState)
		}
		if !canTransition(ebook.Status, newStatus) {
			return fmt.Errorf("no transition %s -> %s: %w", ebook.Status, newStatus, ErrInvalidState)
		}

		if err := tx.Model(&models.Ebook{}).
			Where("ebook_id = ?", ebookID).
			Updates(map[string]interface{}{
				"status":     newStatus,
				"editor_id":  actor.UserID,
				"updated_at": now,
			}).Error; err != nil {
			return err
		}

		if decision != nil {
			rec := models.EbookDecision{
				EbookID:   ebookID,
				DecidedBy: actor.UserID,
				Decision:  *decision,
				Remarks:   comment,
				DecidedAt: now,
			}
			if err := tx.Create(&rec).Error; err != nil {
				return fmt.Errorf("create decision: %w", err)
			}
		}

		prev := ebook.Status
		return appendHistory(tx, now, ebookID, &prev, newStatus, actor.UserID, comment)
	})
}

type SubmitRevisionInput struct {
	RevisionRequested *string
	Notes             *string
}

// SubmitRevision records the next manuscript version for the calling author.
// Version numbers keep climbing from the historical maximum, so a number is
// never reused even after abandoned revisions.
func (s *WorkflowService) SubmitRevision(actor Actor, ebookID int, in SubmitRevisionInput) (*models.EbookVersion, error) {
	now := s.now()
	var version models.EbookVersion

	err := s.db.Transaction(func(tx *gorm.DB) error {
		ebook, err := loadEbook(tx, ebookID)
		if err != nil {
			return err
		}
		if ebook.AuthorID != actor.UserID {
			return fmt.Errorf("ebook %d belongs to another author: %w", ebookID, ErrForbidden)
		}
		if ebook.Status.IsTerminal() {
			return fmt.Errorf("ebook %d is %s: %w", ebookID, ebook.Status, ErrInvalidState)
		}

		var maxNo int
		if err := tx.Model(&models.EbookVersion{}).
			Where("ebook_id = ?", ebookID).
			Select("COALESCE(MAX(version_no), 0)").
			Scan(&maxNo).Error; err != nil {
			return err
		}

		version = models.EbookVersion{
			EbookID:           ebookID,
			VersionNo:         maxNo + 1,
			IsFinal:           false,
			SubmittedBy:       actor.UserID,
			RevisionRequested: in.RevisionRequested,
			Notes:             in.Notes,
		}
		if err := tx.Create(&version).Error; err != nil {
			return fmt.Errorf("create version: %w", err)
		}

		if err := tx.Model(&models.Ebook{}).
			Where("ebook_id = ?", ebookID).
			Updates(map[string]interface{}{
				"current_version_id": version.VersionID,
				"status":             models.StatusRevisionRequired,
				"updated_at":         now,
			}).Error; err != nil {
			return err
		}

		prev := ebook.Status
		return appendHistory(tx, now, ebookID, &prev, models.StatusRevisionRequired, actor.UserID, strptr("Revision submitted"))
	})
	if err != nil {
		return nil, err
	}
	return &version, nil
}

type AttachFileInput struct {
	FileType     string
	OriginalName string
	StoragePath  string
	MimeType     string
	FileSize     int64
}

// AttachFile records file metadata against the ebook, stamped with the
// current version at attach time. Content bytes never pass through here.
func (s *WorkflowService) AttachFile(actor Actor, ebookID int, in AttachFileInput) (*models.EbookFile, error) {
	if strings.TrimSpace(in.OriginalName) == "" || strings.TrimSpace(in.StoragePath) == "" {
		return nil, fmt.Errorf("original_name and storage_path required: %w", ErrValidation)
	}
	fileType := in.FileType
	if fileType == "" {
		fileType = models.FileTypeManuscript
	}

	ebook, err := loadEbook(s.db, ebookID)
	if err != nil {
		return nil, err
	}

	isOwner := ebook.AuthorID == actor.UserID
	isEditor := ebook.EditorID != nil && *ebook.EditorID == actor.UserID
	if !isOwner && !isEditor && !actor.HasRole(models.RoleAdmin) {
		return nil, fmt.Errorf("not owner or assigned editor: %w", ErrForbidden)
	}

	file := models.EbookFile{
		EbookID:      ebookID,
		VersionID:    ebook.CurrentVersionID,
		FileType:     fileType,
		OriginalName: in.OriginalName,
		StoragePath:  in.StoragePath,
		MimeType:     in.MimeType,
		FileSize:     in.FileSize,
		UploadedBy:   actor.UserID,
		UploadedAt:   s.now(),
	}
	if err := s.db.Create(&file).Error; err != nil {
		return nil, fmt.Errorf("create file record: %w", err)
	}
	return &file, nil
}

// EbookDetail is the full projection over one manuscript.
type EbookDetail struct {
	Ebook     models.Ebook             `json:"ebook"`
	Versions  []models.EbookVersion    `json:"versions"`
	Files     []models.EbookFile       `json:"files"`
	History   []models.WorkflowHistory `json:"history"`
	Decisions []models.EbookDecision   `json:"decisions"`
}

// Detail loads the ebook with its versions, files, history and decisions.
func (s *WorkflowService) Detail(ebookID int) (*EbookDetail, error) {
	ebook, err := loadEbook(s.db, ebookID)
	if err != nil {
		return nil, err
	}

	detail := EbookDetail{Ebook: *ebook}
	if err := s.db.Where("ebook_id = ?", ebookID).Order("version_no").Find(&detail.Versions).Error; err != nil {
		return nil, err
	}
	if err := s.db.Where("ebook_id = ?", ebookID).Order("uploaded_at DESC").Find(&detail.Files).Error; err != nil {
		return nil, err
	}
	if err := s.db.Where("ebook_id = ?", ebookID).Order("history_id DESC").Find(&detail.History).Error; err != nil {
		return nil, err
	}
	if err := s.db.Where("ebook_id = ?", ebookID).Order("decided_at DESC").Find(&detail.Decisions).Error; err != nil {
		return nil, err
	}
	return &detail, nil
}

// EditorQueue lists every ebook in the active pipeline, newest activity
// first.
func (s *WorkflowService) EditorQueue() ([]models.Ebook, error) {
	var ebooks []models.Ebook
	err := s.db.Preload("Author").
		Where("status IN ?", editorQueueStatuses).
		Order("updated_at DESC").
		Find(&ebooks).Error
	if err != nil {
		return nil, err
	}
	return ebooks, nil
}

// MySubmissions lists the author's own ebooks, newest first.
func (s *WorkflowService) MySubmissions(authorID int) ([]models.Ebook, error) {
	var ebooks []models.Ebook
	err := s.db.Where("author_id = ?", authorID).
		Order("created_at DESC").
		Find(&ebooks).Error
	if err != nil {
		return nil, err
	}
	return ebooks, nil
}
