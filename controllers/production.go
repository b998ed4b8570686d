package controllers

import (
	"net/http"

	"github.com/Temamamankabeto/ora-ebook/services"
	"github.com/gin-gonic/gin"
)

// ProductionQueue lists cleared and in-production manuscripts.
func ProductionQueue(c *gin.Context) {
	ebooks, err := productionSvc().ProductionQueue()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": ebooks})
}

type StartProductionRequest struct {
	EbookID int `json:"ebook_id" binding:"required"`
}

// StartProduction claims a cleared manuscript for production.
func StartProduction(c *gin.Context) {
	actor, _ := currentActor(c)

	var req StartProductionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	record, err := productionSvc().StartProduction(actor, req.EbookID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "production": record})
}

type PublishRequest struct {
	EbookID      int     `json:"ebook_id" binding:"required"`
	Access       *string `json:"access"`
	EmbargoUntil *string `json:"embargo_until"`
	ISBN         *string `json:"isbn"`
	DOI          *string `json:"doi"`
}

// Publish releases a manuscript into the public library.
func Publish(c *gin.Context) {
	actor, _ := currentActor(c)

	var req PublishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	ebook, err := productionSvc().Publish(actor, req.EbookID, services.PublishInput{
		Access:       req.Access,
		EmbargoUntil: req.EmbargoUntil,
		ISBN:         req.ISBN,
		DOI:          req.DOI,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	notifyPublished(ebook.EbookID)

	c.JSON(http.StatusOK, gin.H{"success": true, "ebook": ebook})
}
