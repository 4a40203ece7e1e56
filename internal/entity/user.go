package entity

import (
	"time"

	"github.com/google/uuid"
)

type UserRole string

const (
	UserRoleBuyer     UserRole = "buyer"
	UserRoleArtisan   UserRole = "artisan"
	UserRoleCollector UserRole = "collector"
	UserRoleAdmin     UserRole = "admin"
)

// ValidUserRole reports whether role is one of the enumerated roles.
func ValidUserRole(role UserRole) bool {
	switch role {
	case UserRoleBuyer, UserRoleArtisan, UserRoleCollector, UserRoleAdmin:
		return true
	}
	return false
}

type User struct {
	ID       uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Email    string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	FullName string    `gorm:"type:varchar(255);not null"`

	PasswordHash *string  `gorm:"type:text"`
	Role         UserRole `gorm:"type:user_role;default:'buyer';not null"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
