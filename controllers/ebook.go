package controllers

import (
	"net/http"

	"github.com/Temamamankabeto/ora-ebook/models"
	"github.com/Temamamankabeto/ora-ebook/services"
	"github.com/gin-gonic/gin"
)

type CreateSubmissionRequest struct {
	Title    string  `json:"title" binding:"required"`
	Abstract *string `json:"abstract"`
	Keywords *string `json:"keywords"`
}

// CreateSubmission lets an author open a new manuscript.
func CreateSubmission(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req CreateSubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	ebook, version, err := workflowSvc().CreateSubmission(actor, services.CreateSubmissionInput{
		Title:    req.Title,
		Abstract: req.Abstract,
		Keywords: req.Keywords,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "ebook": ebook, "version": version})
}

// ListMySubmissions lists the caller's manuscripts.
func ListMySubmissions(c *gin.Context) {
	actor, _ := currentActor(c)
	ebooks, err := workflowSvc().MySubmissions(actor.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": ebooks})
}

// GetEbookDetail returns one manuscript with versions, files, history and
// decisions.
func GetEbookDetail(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	detail, err := workflowSvc().Detail(id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"ebook":     detail.Ebook,
		"versions":  detail.Versions,
		"files":     detail.Files,
		"history":   detail.History,
		"decisions": detail.Decisions,
	})
}

type AttachFileRequest struct {
	FileType     string `json:"file_type"`
	OriginalName string `json:"original_name" binding:"required"`
	StoragePath  string `json:"storage_path" binding:"required"`
	MimeType     string `json:"mime_type"`
	FileSize     int64  `json:"file_size"`
}

// AttachFile records file metadata for a manuscript. Bytes live in external
// storage; only the locator comes through here.
func AttachFile(c *gin.Context) {
	actor, _ := currentActor(c)
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req AttachFileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	file, err := workflowSvc().AttachFile(actor, id, services.AttachFileInput{
		FileType:     req.FileType,
		OriginalName: req.OriginalName,
		StoragePath:  req.StoragePath,
		MimeType:     req.MimeType,
		FileSize:     req.FileSize,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "file": file})
}

type SubmitRevisionRequest struct {
	RevisionRequested *string `json:"revision_requested"`
	Notes             *string `json:"notes"`
}

// SubmitRevision records the next version for the calling author.
func SubmitRevision(c *gin.Context) {
	actor, _ := currentActor(c)
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req SubmitRevisionRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	version, err := workflowSvc().SubmitRevision(actor, id, services.SubmitRevisionInput{
		RevisionRequested: req.RevisionRequested,
		Notes:             req.Notes,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "version": version})
}

// EditorQueue lists the active pipeline with per-manuscript review
// summaries.
func EditorQueue(c *gin.Context) {
	ebooks, err := workflowSvc().EditorQueue()
	if err != nil {
		respondError(c, err)
		return
	}

	ids := make([]int, 0, len(ebooks))
	for _, e := range ebooks {
		ids = append(ids, e.EbookID)
	}
	summaries, err := reviewSvc().Summaries(ids)
	if err != nil {
		respondError(c, err)
		return
	}

	type queueRow struct {
		models.Ebook
		ReviewSummary services.ReviewSummary `json:"review_summary"`
	}
	rows := make([]queueRow, 0, len(ebooks))
	for _, e := range ebooks {
		rows = append(rows, queueRow{Ebook: e, ReviewSummary: summaries[e.EbookID]})
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": rows, "total": len(rows)})
}

type SetStatusRequest struct {
	NewStatus string  `json:"new_status" binding:"required"`
	Comments  *string `json:"comments"`
	Decision  *string `json:"decision"`
}

// SetStatus applies an editorial transition, with the optional decision
// record.
func SetStatus(c *gin.Context) {
	actor, _ := currentActor(c)
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req SetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	err := workflowSvc().SetStatus(actor, id, models.EbookStatus(req.NewStatus), req.Comments, req.Decision)
	if err != nil {
		respondError(c, err)
		return
	}

	if req.Decision != nil {
		notifyDecision(id, *req.Decision, req.Comments)
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// GetEbookReviews lists submitted reviews for the editor view.
func GetEbookReviews(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	reviews, err := reviewSvc().EbookReviews(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": reviews})
}
