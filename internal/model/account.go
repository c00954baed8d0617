package model

import (
	"time"
)

type Account struct {
	ID           string    `db:"id"`
	Name         string    `db:"name"`
	Email        *string   `db:"email"`         // Nullable for seeded tutor-only accounts
	PasswordHash *string   `db:"password_hash"` // Nullable for seeded tutor-only accounts
	IsTutor      bool      `db:"is_tutor"`
	IsAdmin      bool      `db:"is_admin"`
	CreatedAt    time.Time `db:"created_at"`

	TutorProfile
}

// TutorProfile holds the public profile fields shown when IsTutor is set.
type TutorProfile struct {
	Bio          *string `db:"bio"`
	ATAR         *string `db:"atar"`
	Degree       *string `db:"degree"`
	Experience   *string `db:"experience"`
	Availability *string `db:"availability"`
	PriceY9      *int    `db:"price_y9"`
	PriceY10to12 *int    `db:"price_y10_12"`
	Subjects     *string `db:"subjects"` // "Biology:100;Physics:99"
	Photo        *string `db:"photo"`    // storage path
}

func (a *Account) HasPassword() bool {
	return a.PasswordHash != nil && *a.PasswordHash != ""
}

func (a *Account) EmailAddress() string {
	if a.Email == nil {
		return ""
	}
	return *a.Email
}

// SubjectScore is one entry of a tutor's subject list.
type SubjectScore struct {
	Subject string
	Score   string
}

// Tutor is an Account prepared for public display.
type Tutor struct {
	*Account
	PhotoURL    string
	SubjectList []SubjectScore
}

// Str returns the value of an optional text column, or "".
func Str(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Ptr returns a pointer to s.
func Ptr[T any](v T) *T {
	return &v
}
