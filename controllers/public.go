package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// PublicLibrary lists published ebooks for the public catalogue.
func PublicLibrary(c *gin.Context) {
	ebooks, err := librarySvc().Library()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": ebooks})
}

// GetPublicEbook returns one published ebook if the caller may see it under
// its access policy.
func GetPublicEbook(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	_, authenticated := currentActor(c)
	ebook, err := librarySvc().PublicEbook(id, authenticated)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "ebook": ebook})
}

type LogAccessRequest struct {
	Action string `json:"action" binding:"required"`
}

// LogAccess records a reader interaction with a published ebook.
func LogAccess(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req LogAccessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	var userID *int
	if actor, ok := currentActor(c); ok {
		userID = &actor.UserID
	}

	ip := c.ClientIP()
	ua := c.GetHeader("User-Agent")
	var ipPtr, uaPtr *string
	if ip != "" {
		ipPtr = &ip
	}
	if ua != "" {
		uaPtr = &ua
	}

	if err := librarySvc().LogAccess(id, userID, req.Action, ipPtr, uaPtr); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
