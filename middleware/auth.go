package middleware

import (
	"net/http"
	"os"
	"strings"

	"github.com/Temamamankabeto/ora-ebook/config"
	"github.com/Temamamankabeto/ora-ebook/models"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

type Claims struct {
	UserID int      `json:"user_id"`
	Email  string   `json:"email"`
	Roles  []string `json:"roles"`
	jwt.RegisteredClaims
}

func parseToken(c *gin.Context) (*Claims, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return nil, false
	}

	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	if tokenString == authHeader {
		return nil, false
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(os.Getenv("JWT_SECRET")), nil
	})
	if err != nil || !token.Valid {
		return nil, false
	}

	claims, ok := token.Claims.(*Claims)
	return claims, ok
}

// AuthMiddleware validates the JWT token and loads the caller into context.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := parseToken(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or missing token"})
			c.Abort()
			return
		}

		// Check the user still exists
		var user models.User
		if err := config.DB.Preload("Roles").
			Where("user_id = ? AND delete_at IS NULL", claims.UserID).
			First(&user).Error; err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
			c.Abort()
			return
		}

		c.Set("userID", user.UserID)
		c.Set("email", user.Email)
		c.Set("roles", user.RoleNames())

		c.Next()
	}
}

// OptionalAuth loads the caller when a valid token is present but lets
// anonymous requests through. The public library uses it for the access
// policy check.
func OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, ok := parseToken(c); ok {
			var user models.User
			if err := config.DB.Preload("Roles").
				Where("user_id = ? AND delete_at IS NULL", claims.UserID).
				First(&user).Error; err == nil {
				c.Set("userID", user.UserID)
				c.Set("email", user.Email)
				c.Set("roles", user.RoleNames())
			}
		}
		c.Next()
	}
}

// RequireRole checks the caller holds at least one of the named roles.
func RequireRole(roleNames ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		rolesValue, exists := c.Get("roles")
		if !exists {
			c.JSON(http.StatusForbidden, gin.H{"error": "Role not found"})
			c.Abort()
			return
		}

		userRoles, _ := rolesValue.([]string)
		allowed := false
	outer:
		for _, required := range roleNames {
			for _, held := range userRoles {
				if held == required {
					allowed = true
					break outer
				}
			}
		}

		if !allowed {
			c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
			c.Abort()
			return
		}

		c.Next()
	}
}
