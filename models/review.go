package models

import "time"

// Assignment lifecycle per (ebook, reviewer) pair. A cancelled row persists
// and may be reopened; an active row is never overwritten.
type AssignmentStatus string

const (
	AssignmentInvited   AssignmentStatus = "INVITED"
	AssignmentAccepted  AssignmentStatus = "ACCEPTED"
	AssignmentSubmitted AssignmentStatus = "SUBMITTED"
	AssignmentCancelled AssignmentStatus = "CANCELLED"
)

type ReviewerAssignment struct {
	AssignmentID int              `gorm:"primaryKey;column:assignment_id" json:"assignment_id"`
	EbookID      int              `gorm:"column:ebook_id;uniqueIndex:uq_assignment_pair" json:"ebook_id"`
	ReviewerID   int              `gorm:"column:reviewer_id;uniqueIndex:uq_assignment_pair" json:"reviewer_id"`
	AssignedBy   int              `gorm:"column:assigned_by" json:"assigned_by"`
	Status       AssignmentStatus `gorm:"column:status" json:"status"`
	DueAt        *time.Time       `gorm:"column:due_at" json:"due_at,omitempty"`
	AssignedAt   time.Time        `gorm:"column:assigned_at" json:"assigned_at"`
}

// Reviewer recommendations.
const (
	RecommendAccept = "ACCEPT"
	RecommendMinor  = "MINOR"
	RecommendMajor  = "MAJOR"
	RecommendReject = "REJECT"
)

// Review is one-to-one with an assignment: inserted on first submission and
// updated in place on resubmission while the assignment stays SUBMITTED.
type Review struct {
	ReviewID             int       `gorm:"primaryKey;column:review_id" json:"review_id"`
	AssignmentID         int       `gorm:"column:assignment_id;uniqueIndex" json:"assignment_id"`
	EbookID              int       `gorm:"column:ebook_id;index" json:"ebook_id"`
	Recommendation       string    `gorm:"column:recommendation" json:"recommendation"`
	CommentsToAuthor     *string   `gorm:"column:comments_to_author" json:"comments_to_author,omitempty"`
	ConfidentialComments *string   `gorm:"column:confidential_comments_to_editor" json:"confidential_comments_to_editor,omitempty"`
	SubmittedAt          time.Time `gorm:"column:submitted_at" json:"submitted_at"`
}

// TableName overrides
func (ReviewerAssignment) TableName() string {
	return "ebook_reviewer_assignments"
}

func (Review) TableName() string {
	return "ebook_reviews"
}
