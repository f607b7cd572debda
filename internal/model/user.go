package model

import "time"

// Administrative levels carried in the access token.  Anything at or above
// AdminStaff may approve and reject booking requests and may book on
// behalf of a CCA they do not lead.
const (
	AdminNone  = 0
	AdminStaff = 1
	AdminOwner = 2
)

// User represents a resident account as stored in the `users` table.  A
// user is identified across the application by email; the numeric ID is
// only used for refresh tokens.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Email        – unique email address.
//  Name         – display name.
//  PasswordHash – bcrypt hashed password.
//  AdminLevel   – one of AdminNone, AdminStaff, AdminOwner.
//  AcceptedTerm – whether the user accepted the hall's booking terms.
//  IsActive     – whether the account is active.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
	ID           uint64    // users.id
	Email        string    // users.email
	Name         string    // users.name
	PasswordHash string    // users.password_hash
	AdminLevel   int       // users.admin_level
	AcceptedTerm bool      // users.accepted_term
	IsActive     bool      // users.is_active
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}

// Actor is the authenticated caller of a service operation, as read from
// the session.  Services only look at these two fields.
type Actor struct {
	Email      string
	AdminLevel int
}

// IsAdmin reports whether the actor holds at least staff privileges.
func (a Actor) IsAdmin() bool { return a.AdminLevel >= AdminStaff }

// RefreshToken models an entry in the `refresh_tokens` table.  Only the
// SHA‑256 hash of the token is stored.
type RefreshToken struct {
	ID        uint64     // refresh_tokens.id
	UserID    uint64     // refresh_tokens.user_id
	TokenHash string     // refresh_tokens.token_hash
	ExpiresAt time.Time  // refresh_tokens.expires_at
	RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
	CreatedAt time.Time  // refresh_tokens.created_at
}
