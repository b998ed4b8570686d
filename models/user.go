package models

import (
	"time"
)

// Role names seeded at startup. Route gates and the ownership checks in
// services reference these, never raw IDs.
const (
	RoleAuthor         = "AUTHOR"
	RoleEditor         = "EDITOR"
	RoleReviewer       = "REVIEWER"
	RoleFinance        = "FINANCE"
	RoleContentManager = "CONTENT_MANAGER"
	RoleAdmin          = "ADMIN"
)

type User struct {
	UserID       int        `gorm:"primaryKey;column:user_id" json:"user_id"`
	FullName     string     `gorm:"column:full_name" json:"full_name"`
	Email        string     `gorm:"column:email;unique" json:"email"`
	PasswordHash string     `gorm:"column:password_hash" json:"-"`
	CreatedAt    time.Time  `gorm:"column:created_at" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"column:updated_at" json:"updated_at"`
	DeleteAt     *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	// Relations
	Roles []Role `gorm:"many2many:user_roles;foreignKey:UserID;joinForeignKey:UserID;References:RoleID;joinReferences:RoleID" json:"roles,omitempty"`
}

type Role struct {
	RoleID    int       `gorm:"primaryKey;column:role_id" json:"role_id"`
	Name      string    `gorm:"column:name;unique" json:"name"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
}

// UserRole is the join table between users and roles.
type UserRole struct {
	UserID int `gorm:"primaryKey;column:user_id" json:"user_id"`
	RoleID int `gorm:"primaryKey;column:role_id" json:"role_id"`
}

// TableName overrides
func (User) TableName() string {
	return "users"
}

func (Role) TableName() string {
	return "roles"
}

func (UserRole) TableName() string {
	return "user_roles"
}

// RoleNames flattens the preloaded roles for token claims.
func (u *User) RoleNames() []string {
	names := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		names = append(names, r.Name)
	}
	return names
}

// HasRole reports whether the user holds the named role.
func (u *User) HasRole(name string) bool {
	for _, r := range u.Roles {
		if r.Name == name {
			return true
		}
	}
	return false
}
