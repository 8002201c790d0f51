package validation

import (
	"errors"
	"strings"
)

var weakPasswordFragments = []string{
	"password", "123456", "qwerty", "letmein", "welcome",
	"construction", "project", "rfi", "admin",
}

// ValidatePassword enforces the staff login policy: 12 to 72 bytes (bcrypt
// truncates past 72) and no well-known fragments.
func ValidatePassword(password string) error {
	switch {
	case len(password) < 12:
		return errors.New("password must be at least 12 characters")
	case len(password) > 72:
		return errors.New("password must not exceed 72 characters")
	}

	lower := strings.ToLower(password)
	for _, fragment := range weakPasswordFragments {
		if strings.Contains(lower, fragment) {
			return errors.New("password is too common, please choose a stronger one")
		}
	}

	return nil
}
