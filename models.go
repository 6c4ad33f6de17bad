package accounts

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// User is the account model. Enabled stays false until the email
// verification token is consumed; Blocked is an admin-imposed lockout
// that is independent of verification.
type User struct {
	bun.BaseModel `bun:"table:users,alias:usr"`

	ID           uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Email        string     `bun:"email,notnull,unique" json:"email,omitempty"`
	PasswordHash string     `bun:"password_hash" json:"password_hash,omitempty"`
	Enabled      bool       `bun:"is_active" json:"is_active"`
	Blocked      bool       `bun:"blocked" json:"blocked"`
	RegisteredAt *time.Time `bun:"registration_date_time,nullzero,default:current_timestamp" json:"registration_date_time,omitempty"`

	Roles              []*UserType         `bun:"m2m:users_user_types,join:User=UserType" json:"roles,omitempty"`
	Donations          []*Donation         `bun:"rel:has-many,join:id=user_id" json:"donations,omitempty"`
	VerificationToken  *VerificationToken  `bun:"rel:has-one,join:id=user_id" json:"verification_token,omitempty"`
	PasswordResetToken *PasswordResetToken `bun:"rel:has-one,join:id=user_id" json:"password_reset_token,omitempty"`
}

// HasRole reports whether the user holds the named role.
func (u *User) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r != nil && r.Role == role {
			return true
		}
	}
	return false
}

// AddRole grants a role with set semantics: granting a role the user
// already holds is a no-op.
func (u *User) AddRole(role *UserType) {
	if role == nil || u.HasRole(role.Role) {
		return
	}
	u.Roles = append(u.Roles, role)
}

// RemoveRole drops the named role from the user's role set.
func (u *User) RemoveRole(role string) {
	kept := u.Roles[:0]
	for _, r := range u.Roles {
		if r == nil || r.Role != role {
			kept = append(kept, r)
		}
	}
	u.Roles = kept
}

// CanAuthenticate reports whether the account may log in: it must be
// email-verified and not blocked.
func (u *User) CanAuthenticate() bool {
	return u.Enabled && !u.Blocked
}

// UserType is a role record. The member list is never maintained in
// memory; role membership is derived by querying the user store.
type UserType struct {
	bun.BaseModel `bun:"table:user_types,alias:ut"`

	ID   uuid.UUID `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Role string    `bun:"role,notnull,unique" json:"role,omitempty"`
}

// UserUserType is the m2m join row between users and user_types.
type UserUserType struct {
	bun.BaseModel `bun:"table:users_user_types,alias:uut"`

	UserID     uuid.UUID `bun:"user_id,pk,type:uuid" json:"user_id,omitempty"`
	User       *User     `bun:"rel:belongs-to,join:user_id=id" json:"user,omitempty"`
	UserTypeID uuid.UUID `bun:"user_type_id,pk,type:uuid" json:"user_type_id,omitempty"`
	UserType   *UserType `bun:"rel:belongs-to,join:user_type_id=id" json:"user_type,omitempty"`
}

// Donation is the minimal donation record the account core needs:
// deleting a user detaches (never deletes) their donations.
type Donation struct {
	bun.BaseModel `bun:"table:donations,alias:don"`

	ID        uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	UserID    *uuid.UUID `bun:"user_id,nullzero,type:uuid" json:"user_id,omitempty"`
	User      *User      `bun:"rel:belongs-to,join:user_id=id" json:"user,omitempty"`
	Quantity  int        `bun:"quantity" json:"quantity,omitempty"`
	CreatedAt *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
}

// VerificationToken proves email ownership. Consumed is an explicit
// flag; validation additionally treats an already-enabled owner as
// consumed so rows written before the flag existed keep their meaning.
type VerificationToken struct {
	bun.BaseModel `bun:"table:verification_tokens,alias:vtk"`

	ID        uuid.UUID `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Token     string    `bun:"token,notnull,unique" json:"token,omitempty"`
	UserID    uuid.UUID `bun:"user_id,notnull,type:uuid" json:"user_id,omitempty"`
	User      *User     `bun:"rel:belongs-to,join:user_id=id" json:"user,omitempty"`
	Consumed  bool      `bun:"consumed" json:"consumed"`
	CreatedAt time.Time `bun:"created_at,notnull" json:"created_at,omitempty"`
	ExpiresAt time.Time `bun:"expiration_time,notnull" json:"expiration_time,omitempty"`
}

// Expired reports whether the validity window had elapsed at the given
// instant. The boundary instant itself still validates.
func (t *VerificationToken) Expired(at time.Time) bool {
	return at.After(t.ExpiresAt)
}

// NewVerificationToken issues a token for the user with the configured
// validity window in minutes.
func NewVerificationToken(user *User, validityMinutes int) *VerificationToken {
	now := time.Now()
	return &VerificationToken{
		ID:        uuid.New(),
		Token:     uuid.NewString(),
		UserID:    user.ID,
		User:      user,
		CreatedAt: now,
		ExpiresAt: now.Add(time.Duration(validityMinutes) * time.Minute),
	}
}

// PasswordResetToken authorizes a password change without the old
// password. Consumed flips exactly once, when the new password is
// accepted, never at validation time.
type PasswordResetToken struct {
	bun.BaseModel `bun:"table:password_reset_tokens,alias:prt"`

	ID        uuid.UUID `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Token     string    `bun:"token,notnull,unique" json:"token,omitempty"`
	UserID    uuid.UUID `bun:"user_id,notnull,type:uuid" json:"user_id,omitempty"`
	User      *User     `bun:"rel:belongs-to,join:user_id=id" json:"user,omitempty"`
	Consumed  bool      `bun:"consumed" json:"consumed"`
	CreatedAt time.Time `bun:"created_at,notnull" json:"created_at,omitempty"`
	ExpiresAt time.Time `bun:"expiration_time,notnull" json:"expiration_time,omitempty"`
}

// Expired reports whether the validity window had elapsed at the given
// instant.
func (t *PasswordResetToken) Expired(at time.Time) bool {
	return at.After(t.ExpiresAt)
}

// NewPasswordResetToken issues a reset token for the user with the
// configured validity window in minutes.
func NewPasswordResetToken(user *User, validityMinutes int) *PasswordResetToken {
	now := time.Now()
	return &PasswordResetToken{
		ID:        uuid.New(),
		Token:     uuid.NewString(),
		UserID:    user.ID,
		User:      user,
		CreatedAt: now,
		ExpiresAt: now.Add(time.Duration(validityMinutes) * time.Minute),
	}
}

// MarkResetTokenConsumed builds the minimal update record that retires
// a password reset token.
func MarkResetTokenConsumed(id uuid.UUID) *PasswordResetToken {
	t := &PasswordResetToken{}
	t.ID = id
	t.Consumed = true
	return t
}
