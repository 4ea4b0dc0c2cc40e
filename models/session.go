package models

import "time"

// Session is a signed, short-lived dashboard session issued after a successful login
type Session struct {
	ID         string
	IdentityID string
	Token      string
	IssuedAt   time.Time
	ExpiresAt  time.Time
}

// LoginResult is what the Session Linker hands back to the callback handler
type LoginResult struct {
	Identity *Identity
	Session  *Session
	Created  bool
}
