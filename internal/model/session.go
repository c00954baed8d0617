package model

import (
	"time"
)

type Role string

const (
	RoleMember Role = "member"
	RoleAdmin  Role = "admin"
)

// Session is an immutable snapshot of the signed-in account.
// Changes to the account replace the session instead of editing it.
type Session struct {
	ID        string    `db:"id"`
	AccountID string    `db:"account_id"`
	Name      string    `db:"name"`
	Email     string    `db:"email"`
	IsTutor   bool      `db:"is_tutor"`
	Role      Role      `db:"role"`
	CreatedAt time.Time `db:"created_at"`
	ExpiresAt time.Time `db:"expires_at"`
}

func (s *Session) IsAdmin() bool {
	return s != nil && s.Role == RoleAdmin
}

func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}
