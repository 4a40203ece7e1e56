package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type SecurityAction string

const (
	PasscodeSent    SecurityAction = "otp_sent"
	PasscodeFailed  SecurityAction = "otp_failed"
	PasscodeLocked  SecurityAction = "otp_locked"
	PasscodeExpired SecurityAction = "otp_expired"
	SigninSuccess   SecurityAction = "signin_success"
	SignupSuccess   SecurityAction = "signup_success"
)

type SecurityLog struct {
	ID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`

	UserID *uuid.UUID `gorm:"type:uuid;index"`
	User   *User      `gorm:"constraint:OnDelete:SET NULL"`

	IPAddress *string        `gorm:"type:varchar(45)"`
	Action    SecurityAction `gorm:"type:security_action;not null"`

	Metadata datatypes.JSON

	CreatedAt time.Time
}
