package controllers

import (
	"errors"
	"log"
	"net/http"
	"os"
	"strconv"

	"github.com/Temamamankabeto/ora-ebook/config"
	"github.com/Temamamankabeto/ora-ebook/services"
	"github.com/gin-gonic/gin"
)

// currentActor builds the service-layer actor from the auth middleware
// context. ok is false for anonymous requests.
func currentActor(c *gin.Context) (services.Actor, bool) {
	userIDValue, exists := c.Get("userID")
	if !exists {
		return services.Actor{}, false
	}
	userID, ok := userIDValue.(int)
	if !ok {
		return services.Actor{}, false
	}

	roles, _ := c.Get("roles")
	roleNames, _ := roles.([]string)
	return services.Actor{UserID: userID, Roles: roleNames}, true
}

// respondError maps service error kinds to HTTP responses.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrValidation), errors.Is(err, services.ErrInvalidState):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": err.Error()})
	case errors.Is(err, services.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"success": false, "error": err.Error()})
	case errors.Is(err, services.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"success": false, "error": err.Error()})
	default:
		log.Printf("internal error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Internal error"})
	}
}

func pathID(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid " + name})
		return 0, false
	}
	return id, true
}

func workflowSvc() *services.WorkflowService {
	return services.NewWorkflowService(config.DB)
}

func reviewSvc() *services.ReviewService {
	svc := services.NewReviewService(config.DB)
	if os.Getenv("REVIEW_LOCK_SUBMITTED_ASSIGNMENTS") == "true" {
		svc.WithSubmittedLock(true)
	}
	return svc
}

func financeSvc() *services.FinanceService {
	return services.NewFinanceService(config.DB)
}

func productionSvc() *services.ProductionService {
	return services.NewProductionService(config.DB)
}

func librarySvc() *services.LibraryService {
	return services.NewLibraryService(config.DB)
}
