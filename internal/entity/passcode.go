package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type PasscodePurpose string

const (
	PurposeSignin PasscodePurpose = "signin"
	PurposeSignup PasscodePurpose = "signup"
)

// OneTimePasscode is a short-lived email verification code. At most one
// record exists per (email, purpose); issuing a new code replaces the old
// one through an upsert on that pair.
type OneTimePasscode struct {
	ID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`

	Email   string          `gorm:"type:varchar(255);not null;index;uniqueIndex:idx_passcode_email_purpose"`
	Purpose PasscodePurpose `gorm:"type:passcode_purpose;not null;uniqueIndex:idx_passcode_email_purpose"`
	Code    string          `gorm:"type:varchar(6);not null"`

	ExpiresAt time.Time `gorm:"not null"`
	Verified  bool      `gorm:"default:false;not null"`
	Attempts  int       `gorm:"default:0;not null"`

	// Payload holds the pending registration (full name, password hash,
	// requested role) for signup codes; null for signin.
	Payload datatypes.JSON

	CreatedAt time.Time
}
