package service

import "craftcurio/internal/entity"

type SendSigninInput struct {
	Email     string
	IPAddress *string
}

type SendSignupInput struct {
	Email     string
	FullName  string
	Password  string
	Role      string
	IPAddress *string
}

type VerifyInput struct {
	Email string
	Code  string

	// Fallback registration fields, consulted only when the pending
	// signup payload cannot be decoded.
	FullName  string
	Password  string
	Role      string
	IPAddress *string
}

type SendResult struct {
	Email   string
	Message string

	// DevPasscode carries the raw code when ExposePasscodes is on.
	DevPasscode string
}

type SessionResult struct {
	User      *entity.User
	Token     string
	ExpiresIn int64
}

// pendingSignup is the serialized payload stored on a signup passcode.
// The password is captured as its bcrypt hash, never in the clear.
type pendingSignup struct {
	FullName     string `json:"full_name"`
	PasswordHash string `json:"password_hash"`
	Role         string `json:"role"`
}
