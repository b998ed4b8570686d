package models

import "time"

// Payment clearance states. PAID and WAIVED unblock production.
type PaymentStatus string

const (
	PaymentPending     PaymentStatus = "PENDING"
	PaymentPaid        PaymentStatus = "PAID"
	PaymentWaived      PaymentStatus = "WAIVED"
	PaymentRejected    PaymentStatus = "REJECTED"
	PaymentNotRequired PaymentStatus = "NOT_REQUIRED"
)

// Payment is the one-per-ebook book processing charge record. ClearedAt is
// stamped only when the status lands on PAID or WAIVED.
type Payment struct {
	PaymentID        int           `gorm:"primaryKey;column:payment_id" json:"payment_id"`
	EbookID          int           `gorm:"column:ebook_id;uniqueIndex" json:"ebook_id"`
	Status           PaymentStatus `gorm:"column:status" json:"status"`
	Amount           *float64      `gorm:"column:bpc_amount" json:"bpc_amount,omitempty"`
	Currency         string        `gorm:"column:currency" json:"currency"`
	FinanceOfficerID int           `gorm:"column:finance_officer_id" json:"finance_officer_id"`
	FinanceNotes     *string       `gorm:"column:finance_notes" json:"finance_notes,omitempty"`
	ClearedAt        *time.Time    `gorm:"column:finance_cleared_at" json:"finance_cleared_at,omitempty"`
}

// TableName overrides
func (Payment) TableName() string {
	return "ebook_payments"
}
