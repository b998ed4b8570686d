package services

import (
	"fmt"
	"time"

	"github.com/Temamamankabeto/ora-ebook/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// reviewableStatuses are the manuscript states a reviewer may be assigned in.
var reviewableStatuses = []models.EbookStatus{
	models.StatusSubmitted,
	models.StatusScreening,
	models.StatusUnderReview,
	models.StatusRevisionRequired,
	models.StatusReturnedForCorrection,
}

// autoAdvanceStatuses are the origins pulled to UNDER_REVIEW when a reviewer
// is assigned.
var autoAdvanceStatuses = []models.EbookStatus{
	models.StatusSubmitted,
	models.StatusScreening,
	models.StatusReturnedForCorrection,
	models.StatusRevisionRequired,
}

func statusIn(s models.EbookStatus, set []models.EbookStatus) bool {
	for _, candidate := range set {
		if s == candidate {
			return true
		}
	}
	return false
}

// ReviewService owns the per-(ebook, reviewer) assignment lifecycle and the
// review content submitted against it.
type ReviewService struct {
	base

	// lockSubmitted blocks cancelling an assignment whose review was already
	// submitted. Off by default.
	lockSubmitted bool
}

func NewReviewService(db *gorm.DB, opts ...Option) *ReviewService {
	return &ReviewService{base: newBase(db, opts)}
}

// WithSubmittedLock makes CancelAssignment reject SUBMITTED assignments.
func (s *ReviewService) WithSubmittedLock(lock bool) *ReviewService {
	s.lockSubmitted = lock
	return s
}

// AssignReviewer invites a reviewer. An existing CANCELLED pair is reopened
// with fresh assignment fields; an active pair is left untouched. Assigning
// into a pre-review status pulls the ebook to UNDER_REVIEW.
func (s *ReviewService) AssignReviewer(actor Actor, ebookID, reviewerID int, dueAt *time.Time) (*models.ReviewerAssignment, error) {
	if ebookID <= 0 || reviewerID <= 0 {
		return nil, fmt.Errorf("ebook_id and reviewer_id required: %w", ErrValidation)
	}

	now := s.now()
	var assignment models.ReviewerAssignment

	err := s.db.Transaction(func(tx *gorm.DB) error {
		ebook, err := loadEbook(tx, ebookID)
		if err != nil {
			return err
		}
		if !statusIn(ebook.Status, reviewableStatuses) {
			return fmt.Errorf("cannot assign reviewer while ebook is %s: %w", ebook.Status, ErrInvalidState)
		}

		// Reopen is a single conditional write: only a row still CANCELLED
		// at execution time gets its fields refreshed, so two concurrent
		// reopens cannot both rewrite assigned_at.
		reopen := tx.Model(&models.ReviewerAssignment{}).
			Where("ebook_id = ? AND reviewer_id = ? AND status = ?", ebookID, reviewerID, models.AssignmentCancelled).
			Updates(map[string]interface{}{
				"status":      models.AssignmentInvited,
				"assigned_by": actor.UserID,
				"assigned_at": now,
				"due_at":      dueAt,
			})
		if reopen.Error != nil {
			return reopen.Error
		}

		if reopen.RowsAffected == 0 {
			err := tx.Where("ebook_id = ? AND reviewer_id = ?", ebookID, reviewerID).
				First(&assignment).Error
			switch {
			case err == gorm.ErrRecordNotFound:
				assignment = models.ReviewerAssignment{
					EbookID:    ebookID,
					ReviewerID: reviewerID,
					AssignedBy: actor.UserID,
					Status:     models.AssignmentInvited,
					DueAt:      dueAt,
					AssignedAt: now,
				}
				if err := tx.Create(&assignment).Error; err != nil {
					return fmt.Errorf("create assignment: %v: %w", err, ErrConflict)
				}
			case err != nil:
				return err
			default:
				// Active assignment: leave the row untouched.
			}
		} else {
			if err := tx.Where("ebook_id = ? AND reviewer_id = ?", ebookID, reviewerID).
				First(&assignment).Error; err != nil {
				return err
			}
		}

		if statusIn(ebook.Status, autoAdvanceStatuses) {
			// Compare-and-swap on the observed status keeps the advance
			// idempotent under concurrent assignment calls.
			advance := tx.Model(&models.Ebook{}).
				Where("ebook_id = ? AND status = ?", ebookID, ebook.Status).
				Updates(map[string]interface{}{
					"status":     models.StatusUnderReview,
					"updated_at": now,
				})
			if advance.Error != nil {
				return advance.Error
			}
			if advance.RowsAffected == 1 {
				prev := ebook.Status
				if err := appendHistory(tx, now, ebookID, &prev, models.StatusUnderReview, actor.UserID, strptr("Reviewer assigned")); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &assignment, nil
}

// CancelAssignment marks the assignment CANCELLED and appends an audit note.
// The ebook status itself does not change.
func (s *ReviewService) CancelAssignment(actor Actor, assignmentID int, reason *string) error {
	now := s.now()
	return s.db.Transaction(func(tx *gorm.DB) error {
		var assignment models.ReviewerAssignment
		if err := tx.Where("assignment_id = ?", assignmentID).First(&assignment).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return fmt.Errorf("assignment %d: %w", assignmentID, ErrNotFound)
			}
			return err
		}

		if s.lockSubmitted && assignment.Status == models.AssignmentSubmitted {
			return fmt.Errorf("review already submitted: %w", ErrInvalidState)
		}

		if err := tx.Model(&models.ReviewerAssignment{}).
			Where("assignment_id = ?", assignmentID).
			Update("status", models.AssignmentCancelled).Error; err != nil {
			return err
		}

		ebook, err := loadEbook(tx, assignment.EbookID)
		if err != nil {
			return err
		}

		note := "Reviewer assignment cancelled"
		if reason != nil && *reason != "" {
			note = fmt.Sprintf("Reviewer assignment cancelled: %s", *reason)
		}
		cur := ebook.Status
		return appendHistory(tx, now, ebook.EbookID, &cur, cur, actor.UserID, &note)
	})
}

// AcceptInvite moves INVITED to ACCEPTED for the owning reviewer. Accepting
// again, or after submitting, is a no-op; a cancelled invite is rejected.
func (s *ReviewService) AcceptInvite(actor Actor, assignmentID int) (*models.ReviewerAssignment, error) {
	var assignment models.ReviewerAssignment
	if err := s.db.Where("assignment_id = ?", assignmentID).First(&assignment).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("assignment %d: %w", assignmentID, ErrNotFound)
		}
		return nil, err
	}
	if assignment.ReviewerID != actor.UserID {
		return nil, fmt.Errorf("assignment belongs to another reviewer: %w", ErrForbidden)
	}
	if assignment.Status == models.AssignmentCancelled {
		return nil, fmt.Errorf("assignment cancelled: %w", ErrInvalidState)
	}
	if assignment.Status != models.AssignmentInvited {
		return &assignment, nil
	}

	// Guarded write: only a row still INVITED flips, so a cancellation that
	// landed between the read and this update is not overwritten.
	res := s.db.Model(&models.ReviewerAssignment{}).
		Where("assignment_id = ? AND status = ?", assignmentID, models.AssignmentInvited).
		Update("status", models.AssignmentAccepted)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		if err := s.db.Where("assignment_id = ?", assignmentID).First(&assignment).Error; err != nil {
			return nil, err
		}
		if assignment.Status == models.AssignmentCancelled {
			return nil, fmt.Errorf("assignment cancelled: %w", ErrInvalidState)
		}
		return &assignment, nil
	}
	assignment.Status = models.AssignmentAccepted
	return &assignment, nil
}

type SubmitReviewInput struct {
	Recommendation       string
	CommentsToAuthor     *string
	ConfidentialComments *string
}

func validRecommendation(rec string) bool {
	switch rec {
	case models.RecommendAccept, models.RecommendMinor, models.RecommendMajor, models.RecommendReject:
		return true
	}
	return false
}

// SubmitReview upserts the one-to-one review row for the assignment and
// marks the assignment SUBMITTED, atomically. Resubmission before any lock
// rewrites the row in place and refreshes submitted_at.
func (s *ReviewService) SubmitReview(actor Actor, assignmentID int, in SubmitReviewInput) (*models.Review, error) {
	if !validRecommendation(in.Recommendation) {
		return nil, fmt.Errorf("recommendation must be one of ACCEPT, MINOR, MAJOR, REJECT: %w", ErrValidation)
	}

	now := s.now()
	var review models.Review

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var assignment models.ReviewerAssignment
		if err := tx.Where("assignment_id = ?", assignmentID).First(&assignment).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return fmt.Errorf("assignment %d: %w", assignmentID, ErrNotFound)
			}
			return err
		}
		if assignment.ReviewerID != actor.UserID {
			return fmt.Errorf("assignment belongs to another reviewer: %w", ErrForbidden)
		}
		if assignment.Status == models.AssignmentCancelled {
			return fmt.Errorf("assignment cancelled: %w", ErrInvalidState)
		}

		review = models.Review{
			AssignmentID:         assignmentID,
			EbookID:              assignment.EbookID,
			Recommendation:       in.Recommendation,
			CommentsToAuthor:     in.CommentsToAuthor,
			ConfidentialComments: in.ConfidentialComments,
			SubmittedAt:          now,
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "assignment_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"recommendation",
				"comments_to_author",
				"confidential_comments_to_editor",
				"submitted_at",
			}),
		}).Create(&review).Error; err != nil {
			return fmt.Errorf("upsert review: %w", err)
		}

		return tx.Model(&models.ReviewerAssignment{}).
			Where("assignment_id = ?", assignmentID).
			Update("status", models.AssignmentSubmitted).Error
	})
	if err != nil {
		return nil, err
	}

	// The upsert path reuses the existing primary key; reload to report it.
	if err := s.db.Where("assignment_id = ?", assignmentID).First(&review).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

// ReviewerQueueItem is one row of a reviewer's personal queue.
type ReviewerQueueItem struct {
	models.ReviewerAssignment
	Title       string             `json:"title"`
	EbookStatus models.EbookStatus `gorm:"column:ebook_status" json:"ebook_status"`
}

// ReviewerQueue lists the reviewer's assignments with manuscript context,
// most recent first.
func (s *ReviewService) ReviewerQueue(reviewerID int) ([]ReviewerQueueItem, error) {
	var items []ReviewerQueueItem
	err := s.db.Model(&models.ReviewerAssignment{}).
		Select("ebook_reviewer_assignments.*, ebooks.title AS title, ebooks.status AS ebook_status").
		Joins("JOIN ebooks ON ebooks.ebook_id = ebook_reviewer_assignments.ebook_id").
		Where("ebook_reviewer_assignments.reviewer_id = ?", reviewerID).
		Order("ebook_reviewer_assignments.assigned_at DESC").
		Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// ReviewSummary aggregates assignment and review state for one manuscript.
// Manuscripts with no assignments report zeroes, not nulls.
type ReviewSummary struct {
	Invited         int        `json:"invited"`
	Accepted        int        `json:"accepted"`
	Submitted       int        `json:"submitted"`
	Cancelled       int        `json:"cancelled"`
	RecAccept       int        `json:"rec_accept"`
	RecMinor        int        `json:"rec_minor"`
	RecMajor        int        `json:"rec_major"`
	RecReject       int        `json:"rec_reject"`
	LastSubmittedAt *time.Time `json:"last_submitted_at,omitempty"`
}

// Summaries computes review summaries for the given ebooks as a read-time
// projection; nothing is denormalized into counters.
func (s *ReviewService) Summaries(ebookIDs []int) (map[int]ReviewSummary, error) {
	result := make(map[int]ReviewSummary, len(ebookIDs))
	for _, id := range ebookIDs {
		result[id] = ReviewSummary{}
	}
	if len(ebookIDs) == 0 {
		return result, nil
	}

	var statusRows []struct {
		EbookID int                     `gorm:"column:ebook_id"`
		Status  models.AssignmentStatus `gorm:"column:status"`
		N       int                     `gorm:"column:n"`
	}
	if err := s.db.Model(&models.ReviewerAssignment{}).
		Select("ebook_id, status, COUNT(*) AS n").
		Where("ebook_id IN ?", ebookIDs).
		Group("ebook_id, status").
		Scan(&statusRows).Error; err != nil {
		return nil, err
	}
	for _, row := range statusRows {
		summary := result[row.EbookID]
		switch row.Status {
		case models.AssignmentInvited:
			summary.Invited = row.N
		case models.AssignmentAccepted:
			summary.Accepted = row.N
		case models.AssignmentSubmitted:
			summary.Submitted = row.N
		case models.AssignmentCancelled:
			summary.Cancelled = row.N
		}
		result[row.EbookID] = summary
	}

	var reviews []models.Review
	if err := s.db.Model(&models.Review{}).
		Select("ebook_reviews.*").
		Joins("JOIN ebook_reviewer_assignments a ON a.assignment_id = ebook_reviews.assignment_id").
		Where("ebook_reviews.ebook_id IN ? AND a.status = ?", ebookIDs, models.AssignmentSubmitted).
		Find(&reviews).Error; err != nil {
		return nil, err
	}
	for _, review := range reviews {
		summary := result[review.EbookID]
		switch review.Recommendation {
		case models.RecommendAccept:
			summary.RecAccept++
		case models.RecommendMinor:
			summary.RecMinor++
		case models.RecommendMajor:
			summary.RecMajor++
		case models.RecommendReject:
			summary.RecReject++
		}
		last := review.SubmittedAt
		if summary.LastSubmittedAt == nil || last.After(*summary.LastSubmittedAt) {
			summary.LastSubmittedAt = &last
		}
		result[review.EbookID] = summary
	}

	return result, nil
}

// EbookReviews lists submitted reviews for an ebook, for the editor view.
func (s *ReviewService) EbookReviews(ebookID int) ([]models.Review, error) {
	if _, err := loadEbook(s.db, ebookID); err != nil {
		return nil, err
	}
	var reviews []models.Review
	err := s.db.Where("ebook_id = ?", ebookID).
		Order("submitted_at DESC").
		Find(&reviews).Error
	if err != nil {
		return nil, err
	}
	return reviews, nil
}
