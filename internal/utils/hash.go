package utils

import (
	"crypto/rand"
	"math/big"
	"strconv"
	"strings"
)

const (
	passcodeMin = 100000
	passcodeMax = 999999
)

// GenerateOneTimePasscode draws a uniform random 6-digit code.
func GenerateOneTimePasscode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(passcodeMax-passcodeMin+1))
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(n.Int64()+passcodeMin, 10), nil
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
