package controllers

import (
	"net/http"
	"time"

	"github.com/Temamamankabeto/ora-ebook/services"
	"github.com/gin-gonic/gin"
)

type AssignReviewerRequest struct {
	EbookID    int        `json:"ebook_id" binding:"required"`
	ReviewerID int        `json:"reviewer_id" binding:"required"`
	DueAt      *time.Time `json:"due_at"`
}

// AssignReviewer invites (or reopens) a reviewer for a manuscript.
func AssignReviewer(c *gin.Context) {
	actor, _ := currentActor(c)

	var req AssignReviewerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	assignment, err := reviewSvc().AssignReviewer(actor, req.EbookID, req.ReviewerID, req.DueAt)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "assignment": assignment})
}

type CancelAssignmentRequest struct {
	Reason *string `json:"reason"`
}

// CancelAssignment cancels a reviewer assignment; the row persists for the
// audit trail.
func CancelAssignment(c *gin.Context) {
	actor, _ := currentActor(c)
	id, ok := pathID(c, "assignment_id")
	if !ok {
		return
	}

	var req CancelAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	if err := reviewSvc().CancelAssignment(actor, id, req.Reason); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// MyReviewQueue lists the caller's assignments with manuscript context.
func MyReviewQueue(c *gin.Context) {
	actor, _ := currentActor(c)

	items, err := reviewSvc().ReviewerQueue(actor.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": items})
}

// AcceptInvite moves the caller's invitation to ACCEPTED.
func AcceptInvite(c *gin.Context) {
	actor, _ := currentActor(c)
	id, ok := pathID(c, "assignment_id")
	if !ok {
		return
	}

	assignment, err := reviewSvc().AcceptInvite(actor, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "assignment": assignment})
}

type SubmitReviewRequest struct {
	Recommendation       string  `json:"recommendation" binding:"required"`
	CommentsToAuthor     *string `json:"comments_to_author"`
	ConfidentialComments *string `json:"confidential_comments_to_editor"`
}

// SubmitReview stores (or rewrites) the caller's review and marks the
// assignment SUBMITTED.
func SubmitReview(c *gin.Context) {
	actor, _ := currentActor(c)
	id, ok := pathID(c, "assignment_id")
	if !ok {
		return
	}

	var req SubmitReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	review, err := reviewSvc().SubmitReview(actor, id, services.SubmitReviewInput{
		Recommendation:       req.Recommendation,
		CommentsToAuthor:     req.CommentsToAuthor,
		ConfidentialComments: req.ConfidentialComments,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "review": review})
}
