package controllers

import (
	"net/http"
	"strings"

	"github.com/Temamamankabeto/ora-ebook/config"
	"github.com/Temamamankabeto/ora-ebook/models"
	"github.com/gin-gonic/gin"
)

type UserListRow struct {
	UserID       int    `gorm:"column:user_id" json:"user_id"`
	FullName     string `gorm:"column:full_name" json:"full_name"`
	Email        string `gorm:"column:email" json:"email"`
	PendingCount int    `gorm:"column:pending_count" json:"pending_count"`
}

// ListUsers searches accounts, optionally filtered by role. For reviewers the
// rows carry the current workload (open assignments) so editors can balance
// invitations.
func ListUsers(c *gin.Context) {
	role := strings.TrimSpace(c.Query("role"))
	search := strings.TrimSpace(c.Query("q"))
	like := "%" + search + "%"

	var rows []UserListRow

	query := config.DB.Model(&models.User{}).
		Select(`users.user_id, users.full_name, users.email, COALESCE(p.pending_count, 0) AS pending_count`).
		Joins(`LEFT JOIN (
			SELECT reviewer_id, COUNT(*) AS pending_count
			FROM ebook_reviewer_assignments
			WHERE status IN (?, ?)
			GROUP BY reviewer_id
		) p ON p.reviewer_id = users.user_id`, models.AssignmentInvited, models.AssignmentAccepted).
		Where("users.delete_at IS NULL")

	if role != "" {
		query = query.
			Joins("JOIN user_roles ur ON ur.user_id = users.user_id").
			Joins("JOIN roles r ON r.role_id = ur.role_id").
			Where("r.name = ?", role)
	}
	if search != "" {
		query = query.Where("users.full_name LIKE ? OR users.email LIKE ?", like, like)
	}

	err := query.Order("pending_count ASC, users.full_name ASC").
		Limit(200).
		Scan(&rows).Error
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": rows})
}
