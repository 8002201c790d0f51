package validation

import (
	"errors"
	"strings"
)

// ValidateName checks the display name of a client, project, contact or user.
func ValidateName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return errors.New("name is required")
	}
	if len(trimmed) > 200 {
		return errors.New("name is too long (max 200 characters)")
	}
	return nil
}
