package models

import "time"

// WorkflowHistory is the append-only audit trail for ebook status changes.
// Rows are never updated or deleted; PreviousStatus is null only for the
// initial submission entry.
type WorkflowHistory struct {
	HistoryID      int          `gorm:"primaryKey;column:history_id" json:"history_id"`
	EbookID        int          `gorm:"column:ebook_id;index" json:"ebook_id"`
	PreviousStatus *EbookStatus `gorm:"column:previous_status" json:"previous_status"`
	NewStatus      EbookStatus  `gorm:"column:new_status" json:"new_status"`
	ChangedBy      int          `gorm:"column:changed_by" json:"changed_by"`
	Comments       *string      `gorm:"column:comments" json:"comments,omitempty"`
	ChangedAt      time.Time    `gorm:"column:changed_at" json:"changed_at"`
}

// Decision categories recorded alongside editorial transitions.
const (
	DecisionAccept   = "ACCEPT"
	DecisionReject   = "REJECT"
	DecisionRevision = "REVISION"
	DecisionReturn   = "RETURN"
)

// EbookDecision is the optional richer record accompanying a status change.
type EbookDecision struct {
	DecisionID int       `gorm:"primaryKey;column:decision_id" json:"decision_id"`
	EbookID    int       `gorm:"column:ebook_id;index" json:"ebook_id"`
	DecidedBy  int       `gorm:"column:decided_by" json:"decided_by"`
	Decision   string    `gorm:"column:decision" json:"decision"`
	Remarks    *string   `gorm:"column:remarks" json:"remarks,omitempty"`
	DecidedAt  time.Time `gorm:"column:decided_at" json:"decided_at"`
}

// TableName overrides
func (WorkflowHistory) TableName() string {
	return "ebook_workflow_history"
}

func (EbookDecision) TableName() string {
	return "ebook_decisions"
}
