package controllers

import (
	"net/http"

	"github.com/Temamamankabeto/ora-ebook/models"
	"github.com/Temamamankabeto/ora-ebook/services"
	"github.com/gin-gonic/gin"
)

// FinanceQueue lists manuscripts awaiting or past financial clearance.
func FinanceQueue(c *gin.Context) {
	items, err := financeSvc().FinanceQueue()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": items})
}

type SetPaymentRequest struct {
	EbookID  int      `json:"ebook_id" binding:"required"`
	Status   string   `json:"status" binding:"required"`
	Amount   *float64 `json:"bpc_amount"`
	Currency *string  `json:"currency"`
	Notes    *string  `json:"finance_notes"`
}

// SetPayment records a payment or waiver decision and moves the manuscript
// to the matching finance status.
func SetPayment(c *gin.Context) {
	actor, _ := currentActor(c)

	var req SetPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	payment, err := financeSvc().SetPayment(actor, req.EbookID, services.SetPaymentInput{
		Status:   models.PaymentStatus(req.Status),
		Amount:   req.Amount,
		Currency: req.Currency,
		Notes:    req.Notes,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "payment": payment})
}
