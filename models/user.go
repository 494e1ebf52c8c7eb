package models

import (
	"fmt"
	"strings"
	"time"
)

// Role IDs used across the API.
const (
	RoleCitizen = 1
	RoleStaff   = 2
	RoleAdmin   = 3
)

type User struct {
	UserID        int        `gorm:"primaryKey;column:user_id" json:"user_id"`
	Email         string     `gorm:"column:email;unique" json:"email"`
	Password      string     `gorm:"column:password" json:"-"`
	FirstName     string     `gorm:"column:first_name" json:"first_name"`
	MiddleName    *string    `gorm:"column:middle_name" json:"middle_name,omitempty"`
	LastName      string     `gorm:"column:last_name" json:"last_name"`
	DisplayName   *string    `gorm:"column:display_name" json:"display_name,omitempty"`
	AvatarURL     *string    `gorm:"column:avatar_url" json:"avatar_url,omitempty"`
	ContactNumber *string    `gorm:"column:contact_number" json:"contact_number,omitempty"`
	Birthdate     *time.Time `gorm:"column:birthdate" json:"birthdate,omitempty"`
	Age           *int       `gorm:"column:age" json:"age,omitempty"`
	Gender        string     `gorm:"column:gender;default:unspecified" json:"gender"`
	MaritalStatus string     `gorm:"column:marital_status;default:unspecified" json:"marital_status"`
	City          *string    `gorm:"column:city" json:"city,omitempty"`
	Purok         *string    `gorm:"column:purok" json:"purok,omitempty"`
	Verified      bool       `gorm:"column:verified" json:"verified"`
	RoleID        int        `gorm:"column:role_id;default:1" json:"role_id"`
	CreateAt      *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt      *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt      *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	// Relations
	Role Role `gorm:"foreignKey:RoleID;references:RoleID" json:"role,omitempty"`
}

type Role struct {
	RoleID   int        `gorm:"primaryKey;column:role_id" json:"role_id"`
	Role     string     `gorm:"column:role" json:"role"`
	CreateAt *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`
}

// UserToken stores refresh tokens issued at login. Revoked rows stay for audit.
type UserToken struct {
	TokenID   int        `gorm:"primaryKey;column:token_id" json:"token_id"`
	UserID    int        `gorm:"column:user_id;index" json:"user_id"`
	Token     string     `gorm:"column:token;size:128;uniqueIndex" json:"-"`
	TokenType string     `gorm:"column:token_type" json:"token_type"` // refresh
	ExpiresAt time.Time  `gorm:"column:expires_at" json:"expires_at"`
	IsRevoked bool       `gorm:"column:is_revoked" json:"is_revoked"`
	CreatedAt time.Time  `gorm:"column:created_at" json:"created_at"`
	UpdatedAt *time.Time `gorm:"column:updated_at" json:"-"`
}

// FullName joins the name parts, skipping empty ones.
func (u *User) FullName() string {
	parts := []string{u.FirstName}
	if u.MiddleName != nil && *u.MiddleName != "" {
		parts = append(parts, *u.MiddleName)
	}
	parts = append(parts, u.LastName)

	joined := make([]string, 0, len(parts))
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			joined = append(joined, strings.TrimSpace(p))
		}
	}
	return strings.Join(joined, " ")
}

// Initials returns up to two uppercase initials for avatar placeholders.
func (u *User) Initials() string {
	name := u.FullName()
	if name == "" {
		name = strings.Split(u.Email, "@")[0]
	}

	var initials string
	for i, part := range strings.Fields(name) {
		if i >= 2 {
			break
		}
		initials += strings.ToUpper(part[:1])
	}
	if initials == "" {
		initials = "US"
	}
	return initials
}

// AvatarOrPlaceholder returns the stored avatar URL or a generated placeholder.
func (u *User) AvatarOrPlaceholder() string {
	if u.AvatarURL != nil && *u.AvatarURL != "" {
		return *u.AvatarURL
	}
	return fmt.Sprintf("https://placehold.co/100x100/E2E8F0/4A5568?text=%s", u.Initials())
}

// TableName overrides
func (User) TableName() string {
	return "users"
}

func (Role) TableName() string {
	return "roles"
}

func (UserToken) TableName() string {
	return "user_tokens"
}
