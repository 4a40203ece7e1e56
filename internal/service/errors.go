package service

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput           = errors.New("invalid input")
	ErrUserNotFound           = errors.New("user not found")
	ErrEmailAlreadyRegistered = errors.New("email already registered")
	ErrPasscodeNotFound       = errors.New("no passcode found, request a new one")
	ErrPasscodeExpired        = errors.New("passcode expired, request a new one")
	ErrTooManyAttempts        = errors.New("too many attempts, request a new passcode")
	ErrRestartSignup          = errors.New("signup details unavailable, restart signup")
)

// PasscodeMismatchError reports a wrong guess together with the number
// of guesses left before the record locks.
type PasscodeMismatchError struct {
	Remaining int
}

func (e *PasscodeMismatchError) Error() string {
	return fmt.Sprintf("invalid passcode, %d attempts remaining", e.Remaining)
}
