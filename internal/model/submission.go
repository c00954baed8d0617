package model

import (
	"strings"
	"time"
)

// Status is the triage state shared by applications, contacts and inquiries.
type Status string

const (
	StatusOpen       Status = "open"
	StatusInProgress Status = "in_progress"
	StatusClosed     Status = "closed"
)

// ParseStatus maps a status submitted from the admin UI to a Status.
// An empty value means "read". Legacy free-text values other than
// new/open/closed are intermediate states.
func ParseStatus(raw string) Status {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "new", "open":
		return StatusOpen
	case "closed":
		return StatusClosed
	default:
		return StatusInProgress
	}
}

func (s Status) IsOpen() bool {
	return s != StatusClosed
}

func (s Status) Label() string {
	switch s {
	case StatusOpen:
		return "New"
	case StatusInProgress:
		return "In progress"
	case StatusClosed:
		return "Closed"
	}
	return string(s)
}

// Kind names a submission table, as used in admin URLs.
type Kind string

const (
	KindInquiry     Kind = "inquiries"
	KindApplication Kind = "applications"
	KindContact     Kind = "contacts"
)

type Application struct {
	ID             string    `db:"id"`
	FullName       string    `db:"full_name"`
	Email          string    `db:"email"`
	Mobile         string    `db:"mobile"`
	ATAR           string    `db:"atar"`
	HighSchool     string    `db:"high_school"`
	GraduationYear string    `db:"graduation_year"`
	University     string    `db:"university"`
	Degree         string    `db:"degree"`
	Message        string    `db:"message"`
	Status         Status    `db:"status"`
	CreatedAt      time.Time `db:"created_at"`
}

type Contact struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	Email     string    `db:"email"`
	Phone     string    `db:"phone"`
	Message   string    `db:"message"`
	Status    Status    `db:"status"`
	CreatedAt time.Time `db:"created_at"`
}

type Inquiry struct {
	ID        string    `db:"id"`
	TutorID   string    `db:"tutor_id"`
	FullName  string    `db:"full_name"`
	Email     string    `db:"email"`
	Mobile    string    `db:"mobile"`
	Relation  string    `db:"relation"`
	YearLevel string    `db:"year_level"`
	School    string    `db:"school"`
	Message   string    `db:"message"`
	Status    Status    `db:"status"`
	CreatedAt time.Time `db:"created_at"`

	// Joined from accounts, nil when the tutor row is gone
	TutorName *string `db:"tutor_name"`
}

// Partition is the open/closed split shown on admin listings.
type Partition[T any] struct {
	Open   []*T
	Closed []*T
}

// OpenCounts feeds the admin dashboard badges.
type OpenCounts struct {
	Inquiries    int
	Applications int
	Contacts     int
}
