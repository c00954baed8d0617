package validation

import (
	"errors"
	"net/mail"
	"strings"
)

var ErrInvalidEmail = errors.New("invalid email address")

// ValidateEmail reports whether address is a single deliverable mailbox.
// Submission forms accept any text; this only decides whether a reply
// can be sent to it.
func ValidateEmail(address string) error {
	address = strings.TrimSpace(address)
	if address == "" || len(address) > 254 {
		return ErrInvalidEmail
	}

	parsed, err := mail.ParseAddress(address)
	if err != nil || parsed.Address != address {
		return ErrInvalidEmail
	}

	return nil
}
