package utils

import (
	"strconv"
	"testing"
)

func TestGenerateOneTimePasscode_Range(t *testing.T) {
	for i := 0; i < 1000; i++ {
		code, err := GenerateOneTimePasscode()
		if err != nil {
			t.Fatalf("GenerateOneTimePasscode() error = %v", err)
		}
		if len(code) != 6 {
			t.Fatalf("code = %q, want 6 digits", code)
		}
		n, err := strconv.Atoi(code)
		if err != nil {
			t.Fatalf("code = %q, want numeric", code)
		}
		if n < 100000 || n > 999999 {
			t.Fatalf("code = %d, want within [100000, 999999]", n)
		}
	}
}

func TestNormalizeEmail(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"User@Example.COM", "user@example.com"},
		{"  a@b.com  ", "a@b.com"},
		{"already@lower.io", "already@lower.io"},
	}
	for _, tt := range tests {
		if got := NormalizeEmail(tt.in); got != tt.want {
			t.Errorf("NormalizeEmail(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
