package validation

import (
	"errors"
	"net/mail"
	"strings"

	"golang.org/x/text/cases"
)

var emailFolder = cases.Fold()

// ValidateEmail checks an address against RFC 5322 and the 254 byte SMTP limit.
func ValidateEmail(email string) error {
	if email == "" {
		return errors.New("email address is required")
	}
	if len(email) > 254 {
		return errors.New("email address is too long (max 254 characters)")
	}

	_, err := mail.ParseAddress(email)
	if err != nil {
		return errors.New("invalid email address format")
	}

	return nil
}

// NormalizeEmail trims and case-folds an address so contacts and
// registration tokens can be matched regardless of how the address was typed.
func NormalizeEmail(email string) string {
	return emailFolder.String(strings.TrimSpace(email))
}
