package types

import "time"

// User roles.
const (
	RoleResident = "resident"
	RoleAdmin    = "admin"
)

// User represents an account in the roster.
type User struct {
	// Username is the unique, case-sensitive login name. It is the
	// primary key of the roster.
	Username string `json:"username"`

	// Role indicates the user's authorization level, either "resident"
	// or "admin".
	Role string `json:"type"`

	// FullName is the user's display name.
	FullName string `json:"fullname"`

	// Email is the user's email address.
	Email string `json:"email"`

	// Points is the user's gamification balance. It never decreases;
	// the only mutation is the award operation.
	Points int `json:"points"`

	// PasswordHash stores the bcrypt hash of the user's password.
	// This field is never exposed in API responses. The fixed demo
	// identities are verified out of band and leave it empty.
	PasswordHash string `json:"-"`

	// CreatedAt is the timestamp the account was created.
	CreatedAt time.Time `json:"createdAt"`
}

// Session is the single currently-authenticated identity: a copy of the
// user record minus credentials, plus the login timestamp. At most one
// session exists at a time; each login overwrites it.
type Session struct {
	Username  string    `json:"username"`
	Role      string    `json:"type"`
	FullName  string    `json:"fullname,omitempty"`
	Email     string    `json:"email,omitempty"`
	Points    int       `json:"points"`
	CreatedAt time.Time `json:"createdAt,omitzero"`
	LoginTime time.Time `json:"loginTime"`
}
