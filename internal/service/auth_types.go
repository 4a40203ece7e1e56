package service

import (
	"context"
	"time"

	"craftcurio/internal/entity"

	"golang.org/x/crypto/bcrypt"
)

type AuthConfig struct {
	PasscodeTTL      time.Duration
	SessionTokenTTL  time.Duration
	MaxPasscodeTries int

	// ExposePasscodes echoes the raw code in issuance responses for
	// local testing. Must stay off in production deployments.
	ExposePasscodes bool
}

// EmailSender is the delivery channel for passcodes. Implementations
// must not block the flow on delivery problems beyond returning an
// error; the flow converts any error into an informational message.
type EmailSender interface {
	SendPasscode(ctx context.Context, email string, code string, purpose entity.PasscodePurpose) error
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(hash string, password string) bool
}

type SessionTokenIssuer interface {
	IssueSessionToken(user entity.User) (string, time.Duration, error)
}

// EventPublisher announces domain events to the rest of the
// marketplace. Publishing is fire-and-forget from the flow's view.
type EventPublisher interface {
	PublishUserRegistered(ctx context.Context, userID string, email string, role string) error
}

type Clock interface {
	Now() time.Time
}

type RealClock struct{}

func (RealClock) Now() time.Time {
	return time.Now()
}

type BcryptPasswordHasher struct {
	Cost int
}

func (h BcryptPasswordHasher) Hash(password string) (string, error) {
	cost := h.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

func (h BcryptPasswordHasher) Verify(hash string, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
