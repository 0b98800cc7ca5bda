// Package domain contains core types for the auth service.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/lib/pq"
)

// Console roles. Admin manages users, manager mutates business and invoice
// records, staff reads everything.
const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleStaff   = "staff"
)

// ValidRole reports whether role is one of the console roles.
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleManager, RoleStaff:
		return true
	}
	return false
}

// User represents a console user account.
type User struct {
	ID                  snowflake.ID   `gorm:"primaryKey" json:"id"`
	DisplayName         string         `gorm:"type:text;not null" json:"displayName"`
	Email               string         `gorm:"type:text;not null;uniqueIndex" json:"email"`
	PasswordHash        *string        `gorm:"type:text" json:"-"`
	Roles               pq.StringArray `gorm:"type:text[];not null" json:"roles"`
	IsDefault           bool           `gorm:"column:is_default" json:"-"`
	LastPasswordChanged *time.Time     `gorm:"column:last_password_changed" json:"-"`
	CreatedAt           time.Time      `gorm:"not null" json:"createdAt"`
	UpdatedAt           time.Time      `gorm:"not null" json:"-"`
}

// TableName sets the database table name.
func (User) TableName() string { return "users" }

// HasRole reports whether the user carries the given role.
func (u User) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Session represents a persisted login session. Only the SHA-256 hash of the
// session token is stored; the raw token lives in the client cookie.
type Session struct {
	ID               snowflake.ID `gorm:"primaryKey"`
	UserID           snowflake.ID `gorm:"column:user_id;not null;index"`
	SessionTokenHash string       `gorm:"column:session_token_hash;type:text;not null;uniqueIndex"`
	UserAgent        string       `gorm:"column:user_agent;type:text"`
	IPAddress        string       `gorm:"column:ip_address;type:text"`
	ExpiresAt        time.Time    `gorm:"column:expires_at;not null;index"`
	RevokedAt        *time.Time   `gorm:"column:revoked_at"`
	CreatedAt        time.Time    `gorm:"column:created_at;not null"`
	LastSeenAt       time.Time    `gorm:"column:last_seen_at;not null"`
}

// TableName sets the database table name.
func (Session) TableName() string { return "sessions" }
