package repository

import "errors"

// ErrDuplicateEmail is returned by UserRepository.Create when the email
// unique constraint is violated, e.g. by a concurrent signup racing on
// the same address. Requires gorm's TranslateError to be enabled.
var ErrDuplicateEmail = errors.New("duplicate email")
