package services

import (
	"fmt"

	"github.com/Temamamankabeto/ora-ebook/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// financeQueueStatuses are the manuscripts a finance officer sees.
var financeQueueStatuses = []models.EbookStatus{
	models.StatusAccepted,
	models.StatusFinancePending,
	models.StatusFinanceCleared,
}

// FinanceService records payment and waiver decisions and unblocks
// production.
type FinanceService struct {
	base
}

func NewFinanceService(db *gorm.DB, opts ...Option) *FinanceService {
	return &FinanceService{base: newBase(db, opts)}
}

func validPaymentStatus(s models.PaymentStatus) bool {
	switch s {
	case models.PaymentPending, models.PaymentPaid, models.PaymentWaived,
		models.PaymentRejected, models.PaymentNotRequired:
		return true
	}
	return false
}

type SetPaymentInput struct {
	Status   models.PaymentStatus
	Amount   *float64
	Currency *string
	Notes    *string
}

// SetPayment upserts the one-per-ebook payment record. PAID and WAIVED stamp
// the clearance time and force the ebook to FINANCE_CLEARED; anything else
// parks it at FINANCE_PENDING. The previous status is read inside the same
// transaction so the history entry never carries a stale value.
func (s *FinanceService) SetPayment(actor Actor, ebookID int, in SetPaymentInput) (*models.Payment, error) {
	if !validPaymentStatus(in.Status) {
		return nil, fmt.Errorf("unknown payment status %q: %w", in.Status, ErrValidation)
	}

	now := s.now()
	cleared := in.Status == models.PaymentPaid || in.Status == models.PaymentWaived
	currency := "ETB"
	if in.Currency != nil && *in.Currency != "" {
		currency = *in.Currency
	}

	payment := models.Payment{
		EbookID:          ebookID,
		Status:           in.Status,
		Amount:           in.Amount,
		Currency:         currency,
		FinanceOfficerID: actor.UserID,
		FinanceNotes:     in.Notes,
	}
	if cleared {
		payment.ClearedAt = &now
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
			Columns: []clause.Column{{Name: "ebook_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"status",
				"bpc_amount",
				"currency",
				"finance_officer_id",
				"finance_notes",
				"finance_cleared_at",
			}),
		}).Create(&payment).Error; err != nil {
			return fmt.Errorf("upsert payment: %w", err)
		}

		target := models.StatusFinancePending
		comment := "Awaiting payment"
		if cleared {
			target = models.StatusFinanceCleared
			comment = "Finance cleared"
		}
		if ebook.Status == target {
			return nil
		}

		if err := tx.Model(&models.Ebook{}).
			Where("ebook_id = ?", ebookID).
			Updates(map[string]interface{}{
				"status":     target,
				"updated_at": now,
			}).Error; err != nil {
			return err
		}

		prev := ebook.Status
		return appendHistory(tx, now, ebookID, &prev, target, actor.UserID, strptr(comment))
	})
	if err != nil {
		return nil, err
	}

	if err := s.db.Where("ebook_id = ?", ebookID).First(&payment).Error; err != nil {
		return nil, err
	}
	return &payment, nil
}

// FinanceQueueItem is one row of the finance queue with the payment join.
type FinanceQueueItem struct {
	models.Ebook
	PaymentStatus *models.PaymentStatus `gorm:"column:payment_status" json:"payment_status,omitempty"`
	BPCAmount     *float64              `gorm:"column:bpc_amount" json:"bpc_amount,omitempty"`
	Currency      *string               `gorm:"column:payment_currency" json:"currency,omitempty"`
}

// FinanceQueue lists accepted and finance-stage manuscripts with their
// payment state, newest activity first.
func (s *FinanceService) FinanceQueue() ([]FinanceQueueItem, error) {
	var items []FinanceQueueItem
	err := s.db.Model(&models.Ebook{}).
		Select("ebooks.*, p.status AS payment_status, p.bpc_amount AS bpc_amount, p.currency AS payment_currency").
		Joins("LEFT JOIN ebook_payments p ON p.ebook_id = ebooks.ebook_id").
		Where("ebooks.status IN ?", financeQueueStatuses).
		Order("ebooks.updated_at DESC").
		Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}
