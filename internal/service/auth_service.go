package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"craftcurio/internal/entity"
	"craftcurio/internal/repository"
	"craftcurio/internal/utils"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	artisanCounter   = "artisan"
	collectorCounter = "collector"
)

type profileCreator func(ctx context.Context, userID uuid.UUID) error

// AuthService orchestrates passcode issuance, verification,
// attempt-limiting, and account creation with session issuance.
type AuthService struct {
	users        repository.UserRepository
	passcodes    repository.PasscodeRepository
	profiles     repository.ProfileRepository
	counters     repository.CounterRepository
	securityLogs repository.SecurityLogRepository

	emailSender  EmailSender
	passwordHash PasswordHasher
	tokens       SessionTokenIssuer
	events       EventPublisher
	clock        Clock
	config       AuthConfig

	profileCreators map[entity.UserRole]profileCreator
}

func NewAuthService(
	users repository.UserRepository,
	passcodes repository.PasscodeRepository,
	profiles repository.ProfileRepository,
	counters repository.CounterRepository,
	securityLogs repository.SecurityLogRepository,
	emailSender EmailSender,
	passwordHash PasswordHasher,
	tokens SessionTokenIssuer,
	events EventPublisher,
	clock Clock,
	config AuthConfig,
) *AuthService {
	s := &AuthService{
		users:        users,
		passcodes:    passcodes,
		profiles:     profiles,
		counters:     counters,
		securityLogs: securityLogs,
		emailSender:  emailSender,
		passwordHash: passwordHash,
		tokens:       tokens,
		events:       events,
		clock:        clock,
		config:       config,
	}
	s.profileCreators = map[entity.UserRole]profileCreator{
		entity.UserRoleArtisan:   s.createArtisanProfile,
		entity.UserRoleCollector: s.createCollectorProfile,
	}
	return s
}

func (s *AuthService) SendSigninPasscode(ctx context.Context, input SendSigninInput) (*SendResult, error) {
	if strings.TrimSpace(input.Email) == "" {
		return nil, ErrInvalidInput
	}

	email := utils.NormalizeEmail(input.Email)
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	return s.issuePasscode(ctx, email, entity.PurposeSignin, nil, input.IPAddress)
}

func (s *AuthService) SendSignupPasscode(ctx context.Context, input SendSignupInput) (*SendResult, error) {
	if strings.TrimSpace(input.Email) == "" || strings.TrimSpace(input.FullName) == "" {
		return nil, ErrInvalidInput
	}
	if len(input.Password) < 8 {
		return nil, ErrInvalidInput
	}

	email := utils.NormalizeEmail(input.Email)
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user != nil {
		return nil, ErrEmailAlreadyRegistered
	}

	hash, err := s.passwordHash.Hash(input.Password)
	if err != nil {
		return nil, err
	}
	payload, err := json.Marshal(pendingSignup{
		FullName:     strings.TrimSpace(input.FullName),
		PasswordHash: hash,
		Role:         input.Role,
	})
	if err != nil {
		return nil, err
	}

	return s.issuePasscode(ctx, email, entity.PurposeSignup, payload, input.IPAddress)
}

func (s *AuthService) VerifySigninPasscode(ctx context.Context, input VerifyInput) (*SessionResult, error) {
	if strings.TrimSpace(input.Email) == "" || strings.TrimSpace(input.Code) == "" {
		return nil, ErrInvalidInput
	}

	email := utils.NormalizeEmail(input.Email)
	if _, err := s.consumePasscode(ctx, email, entity.PurposeSignin, input.Code, input.IPAddress); err != nil {
		return nil, err
	}

	// Issuance already required the user to exist, but the account may
	// have been removed in the meantime.
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	return s.openSession(ctx, user, entity.SigninSuccess, input.IPAddress)
}

func (s *AuthService) VerifySignupPasscode(ctx context.Context, input VerifyInput) (*SessionResult, error) {
	if strings.TrimSpace(input.Email) == "" || strings.TrimSpace(input.Code) == "" {
		return nil, ErrInvalidInput
	}

	email := utils.NormalizeEmail(input.Email)
	passcode, err := s.consumePasscode(ctx, email, entity.PurposeSignup, input.Code, input.IPAddress)
	if err != nil {
		return nil, err
	}

	pending, err := s.resolvePendingSignup(passcode, input)
	if err != nil {
		return nil, err
	}

	role := entity.UserRole(pending.Role)
	if !entity.ValidUserRole(role) {
		role = entity.UserRoleBuyer
	}

	user := &entity.User{
		Email:        email,
		FullName:     pending.FullName,
		PasswordHash: &pending.PasswordHash,
		Role:         role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailAlreadyRegistered
		}
		return nil, err
	}

	if create, ok := s.profileCreators[role]; ok {
		if err := create(ctx, user.ID); err != nil {
			return nil, err
		}
	}

	if s.events != nil {
		_ = s.events.PublishUserRegistered(ctx, user.ID.String(), user.Email, string(user.Role))
	}

	return s.openSession(ctx, user, entity.SignupSuccess, input.IPAddress)
}

func (s *AuthService) GetCurrentUser(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	return s.users.FindByID(ctx, userID)
}

func (s *AuthService) ListUsers(ctx context.Context, limit, offset int) ([]entity.User, error) {
	return s.users.List(ctx, limit, offset)
}

func (s *AuthService) issuePasscode(
	ctx context.Context,
	email string,
	purpose entity.PasscodePurpose,
	payload datatypes.JSON,
	ipAddress *string,
) (*SendResult, error) {
	code, err := utils.GenerateOneTimePasscode()
	if err != nil {
		return nil, err
	}

	passcode := &entity.OneTimePasscode{
		Email:     email,
		Purpose:   purpose,
		Code:      code,
		ExpiresAt: s.now().Add(s.passcodeTTL()),
		Payload:   payload,
	}
	if err := s.passcodes.Upsert(ctx, passcode); err != nil {
		return nil, err
	}

	// Delivery problems never fail the request; the code stays valid
	// and the outcome is only reflected in the message.
	message := fmt.Sprintf("verification code sent to %s", email)
	if s.emailSender != nil {
		if err := s.emailSender.SendPasscode(ctx, email, code, purpose); err != nil {
			message = fmt.Sprintf("verification code generated for %s but email delivery failed, try again shortly", email)
		}
	}

	_ = s.logSecurity(ctx, nil, ipAddress, entity.PasscodeSent, map[string]any{"email": email, "purpose": purpose})

	result := &SendResult{Email: email, Message: message}
	if s.config.ExposePasscodes {
		result.DevPasscode = code
	}
	return result, nil
}

// consumePasscode walks the verification state machine: existence,
// expiry, attempt cap, then value comparison. Expired and locked
// records are deleted so stale codes cannot be probed further.
func (s *AuthService) consumePasscode(
	ctx context.Context,
	email string,
	purpose entity.PasscodePurpose,
	code string,
	ipAddress *string,
) (*entity.OneTimePasscode, error) {
	passcode, err := s.passcodes.FindLatest(ctx, email, purpose)
	if err != nil {
		return nil, err
	}
	if passcode == nil {
		return nil, ErrPasscodeNotFound
	}

	if s.now().After(passcode.ExpiresAt) {
		if err := s.passcodes.Delete(ctx, passcode.ID); err != nil {
			return nil, err
		}
		_ = s.logSecurity(ctx, nil, ipAddress, entity.PasscodeExpired, map[string]any{"email": email, "purpose": purpose})
		return nil, ErrPasscodeExpired
	}

	if passcode.Attempts >= s.maxTries() {
		if err := s.passcodes.Delete(ctx, passcode.ID); err != nil {
			return nil, err
		}
		_ = s.logSecurity(ctx, nil, ipAddress, entity.PasscodeLocked, map[string]any{"email": email, "purpose": purpose})
		return nil, ErrTooManyAttempts
	}

	if passcode.Code != code {
		if err := s.passcodes.IncrementAttempts(ctx, passcode.ID); err != nil {
			return nil, err
		}
		remaining := s.maxTries() - passcode.Attempts - 1
		if remaining < 0 {
			remaining = 0
		}
		_ = s.logSecurity(ctx, nil, ipAddress, entity.PasscodeFailed, map[string]any{"email": email, "purpose": purpose})
		return nil, &PasscodeMismatchError{Remaining: remaining}
	}

	// Verified is transient: the record is deleted right after, so a
	// second verification with the same code finds nothing.
	if err := s.passcodes.MarkVerified(ctx, passcode.ID); err != nil {
		return nil, err
	}
	if err := s.passcodes.Delete(ctx, passcode.ID); err != nil {
		return nil, err
	}
	return passcode, nil
}

func (s *AuthService) resolvePendingSignup(passcode *entity.OneTimePasscode, input VerifyInput) (*pendingSignup, error) {
	var pending pendingSignup
	if len(passcode.Payload) > 0 {
		if err := json.Unmarshal(passcode.Payload, &pending); err == nil &&
			pending.FullName != "" && pending.PasswordHash != "" {
			return &pending, nil
		}
	}

	// Fall back to the verification request's own fields, if present.
	if strings.TrimSpace(input.FullName) == "" || input.Password == "" {
		return nil, ErrRestartSignup
	}
	hash, err := s.passwordHash.Hash(input.Password)
	if err != nil {
		return nil, err
	}
	return &pendingSignup{
		FullName:     strings.TrimSpace(input.FullName),
		PasswordHash: hash,
		Role:         input.Role,
	}, nil
}

func (s *AuthService) openSession(
	ctx context.Context,
	user *entity.User,
	action entity.SecurityAction,
	ipAddress *string,
) (*SessionResult, error) {
	token, ttl, err := s.tokens.IssueSessionToken(*user)
	if err != nil {
		return nil, err
	}

	_ = s.logSecurity(ctx, &user.ID, ipAddress, action, map[string]any{"email": user.Email})

	return &SessionResult{
		User:      user,
		Token:     token,
		ExpiresIn: int64(ttl.Seconds()),
	}, nil
}

func (s *AuthService) createArtisanProfile(ctx context.Context, userID uuid.UUID) error {
	n, err := s.counters.Next(ctx, artisanCounter)
	if err != nil {
		return err
	}
	return s.profiles.CreateArtisan(ctx, &entity.ArtisanProfile{
		UserID:    userID,
		DisplayID: fmt.Sprintf("artisan%d", n),
	})
}

func (s *AuthService) createCollectorProfile(ctx context.Context, userID uuid.UUID) error {
	n, err := s.counters.Next(ctx, collectorCounter)
	if err != nil {
		return err
	}
	return s.profiles.CreateCollector(ctx, &entity.CollectorProfile{
		UserID:    userID,
		DisplayID: fmt.Sprintf("collector%d", n),
	})
}

func (s *AuthService) logSecurity(
	ctx context.Context,
	userID *uuid.UUID,
	ipAddress *string,
	action entity.SecurityAction,
	metadata map[string]any,
) error {
	if s.securityLogs == nil {
		return nil
	}
	var payload datatypes.JSON
	if metadata != nil {
		bytes, err := json.Marshal(metadata)
		if err != nil {
			return err
		}
		payload = datatypes.JSON(bytes)
	}

	log := &entity.SecurityLog{
		UserID:    userID,
		IPAddress: ipAddress,
		Action:    action,
		Metadata:  payload,
	}
	return s.securityLogs.Log(ctx, log)
}

func (s *AuthService) now() time.Time {
	if s.clock == nil {
		return time.Now()
	}
	return s.clock.Now()
}

func (s *AuthService) passcodeTTL() time.Duration {
	if s.config.PasscodeTTL > 0 {
		return s.config.PasscodeTTL
	}
	return 10 * time.Minute
}

func (s *AuthService) maxTries() int {
	if s.config.MaxPasscodeTries > 0 {
		return s.config.MaxPasscodeTries
	}
	return 5
}
