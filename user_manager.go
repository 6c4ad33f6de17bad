package accounts

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// UserManager owns account state transitions: registration, blocking,
// role grants and revocations, deletion, email and password changes,
// and password reset initiation. Every mutation runs inside a single
// transaction so the sole-admin check-then-act sequence cannot race a
// concurrent removal.
type UserManager struct {
	repo     RepositoryManager
	tokens   *TokenLifecycle
	notifier Notifier
	activity ActivitySink
	identity IdentityListener
	messages *Messages
	logger   Logger
	config   Config
}

// NewUserManager creates a manager with sane defaults: no-op notifier,
// no-op activity sink, default catalog and config.
func NewUserManager(repo RepositoryManager, tokens *TokenLifecycle) *UserManager {
	return &UserManager{
		repo:     repo,
		tokens:   tokens,
		notifier: noopNotifier{},
		activity: noopActivitySink{},
		identity: noopIdentityListener{},
		messages: &Messages{},
		logger:   defLogger{},
		config:   DefaultConfig(),
	}
}

// WithNotifier sets the outbound-email boundary.
func (m *UserManager) WithNotifier(n Notifier) *UserManager {
	m.notifier = normalizeNotifier(n)
	return m
}

// WithActivitySink sets the sink used to emit lifecycle events.
func (m *UserManager) WithActivitySink(sink ActivitySink) *UserManager {
	m.activity = normalizeActivitySink(sink)
	return m
}

// WithIdentityListener sets the session-refresh callback invoked when a
// persisted identity attribute changes.
func (m *UserManager) WithIdentityListener(l IdentityListener) *UserManager {
	m.identity = normalizeIdentityListener(l)
	return m
}

// WithMessages overrides the message catalog.
func (m *UserManager) WithMessages(msgs *Messages) *UserManager {
	m.messages = normalizeMessages(msgs)
	return m
}

// WithLogger overrides the logger used by the manager.
func (m *UserManager) WithLogger(logger Logger) *UserManager {
	if logger != nil {
		m.logger = logger
	}
	return m
}

// WithConfig overrides the externally configured knobs.
func (m *UserManager) WithConfig(cfg Config) *UserManager {
	m.config = cfg
	return m
}

// RegisterUserMessage carries the registration input.
type RegisterUserMessage struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (e RegisterUserMessage) Type() string { return "user.register" }

// Register persists a disabled user with ROLE_USER granted, issues a
// verification token, and sends the registration mail. A mail failure
// does not roll back the committed registration; it surfaces as a
// reportable error alongside the created user.
func (m *UserManager) Register(ctx context.Context, event RegisterUserMessage, reqCtx RequestContext) (*User, error) {
	if err := event.Validate(); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryValidation, "invalid registration input")
	}

	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	user := &User{}
	issued := &VerificationToken{}

	err := m.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		hash, err := HashPassword(event.Password)
		if err != nil {
			return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid password provided")
		}

		user.ID = uuid.New()
		user.Email = event.Email
		user.PasswordHash = hash
		user.Enabled = false

		if user, err = m.repo.Users().CreateTx(ctx, tx, user); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryConflict, "could not create user")
		}

		role, err := m.repo.UserTypes().GetByRoleTx(ctx, tx, RoleUser)
		if err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to resolve default role")
		}
		if err := m.repo.Users().LinkRoleTx(ctx, tx, user.ID, role.ID); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to grant default role")
		}
		user.AddRole(role)

		issued = m.tokens.newVerificationToken(user, m.config.validityMinutes())
		if _, err := m.repo.VerificationTokens().CreateTx(ctx, tx, issued); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to persist verification token")
		}

		return nil
	})
	if err != nil {
		return nil, richOrWrap(err, "user registration transaction failed")
	}

	m.recordActivity(ctx, ActivityEvent{
		EventType: ActivityEventUserRegistered,
		UserID:    user.ID.String(),
		Email:     user.Email,
	})

	url := VerificationURL(reqCtx.ApplicationURL(), issued.Token)
	if err := m.notifier.SendRegistrationEmail(ctx, user, url); err != nil {
		return user, newMailError(m.messages, err)
	}

	return user, nil
}

// BlockUser locks the account out regardless of verification state.
// Admins may be blocked; no role-safety check applies here.
func (m *UserManager) BlockUser(ctx context.Context, id uuid.UUID) error {
	return m.setBlocked(ctx, id, true, ActivityEventUserBlocked)
}

// UnblockUser lifts the admin-imposed lockout.
func (m *UserManager) UnblockUser(ctx context.Context, id uuid.UUID) error {
	return m.setBlocked(ctx, id, false, ActivityEventUserUnblocked)
}

func (m *UserManager) setBlocked(ctx context.Context, id uuid.UUID, blocked bool, event ActivityEventType) error {
	user := &User{}

	err := m.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		var err error
		if user, err = m.repo.Users().GetWithAssociationsTx(ctx, tx, id); err != nil {
			if repository.IsRecordNotFound(err) {
				return newResourceNotFoundError(m.messages)
			}
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to load user")
		}

		return m.repo.Users().SetBlockedTx(ctx, tx, id, blocked)
	})
	if err != nil {
		return richOrWrap(err, "block state transaction failed")
	}

	m.recordActivity(ctx, ActivityEvent{
		EventType: event,
		UserID:    id.String(),
		Email:     user.Email,
	})

	return nil
}

// AddAdminRole grants ROLE_ADMIN with set semantics: granting a role
// the user already holds changes nothing.
func (m *UserManager) AddAdminRole(ctx context.Context, userID uuid.UUID) error {
	err := m.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		user, err := m.repo.Users().GetWithAssociationsTx(ctx, tx, userID)
		if err != nil {
			if repository.IsRecordNotFound(err) {
				return newResourceNotFoundError(m.messages)
			}
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to load user")
		}

		role, err := m.repo.UserTypes().GetByRoleTx(ctx, tx, RoleAdmin)
		if err != nil {
			if repository.IsRecordNotFound(err) {
				return newResourceNotFoundError(m.messages)
			}
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to resolve admin role")
		}

		return m.repo.Users().LinkRoleTx(ctx, tx, user.ID, role.ID)
	})
	if err != nil {
		return richOrWrap(err, "role grant transaction failed")
	}

	m.recordActivity(ctx, ActivityEvent{
		EventType: ActivityEventRoleGranted,
		UserID:    userID.String(),
		Metadata:  map[string]any{"role": RoleAdmin},
	})

	return nil
}

// RemoveAdminRole revokes ROLE_ADMIN. The revocation is refused when
// the user is not an admin, or when no OTHER enabled, unblocked admin
// would remain.
func (m *UserManager) RemoveAdminRole(ctx context.Context, userID uuid.UUID) error {
	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	err := m.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		user, err := m.repo.Users().GetWithAssociationsTx(ctx, tx, userID)
		if err != nil {
			if repository.IsRecordNotFound(err) {
				return newResourceNotFoundError(m.messages)
			}
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to load user")
		}

		if !user.HasRole(RoleAdmin) {
			return newEntityDeletionError(
				m.messages.Get(MsgRoleRemovalTitle),
				m.messages.Get(MsgNotAnAdmin),
			)
		}

		admins, err := m.repo.Users().FindByRoleTx(ctx, tx, RoleAdmin)
		if err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to list administrators")
		}

		if !HasSuccessorAdmin(user, admins) {
			return newEntityDeletionError(
				m.messages.Get(MsgRoleRemovalTitle),
				m.messages.Get(MsgSoleAdminRoleRemoval),
			)
		}

		role, err := m.repo.UserTypes().GetByRoleTx(ctx, tx, RoleAdmin)
		if err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to resolve admin role")
		}

		return m.repo.Users().UnlinkRoleTx(ctx, tx, user.ID, role.ID)
	})
	if err != nil {
		return richOrWrap(err, "role revocation transaction failed")
	}

	m.recordActivity(ctx, ActivityEvent{
		EventType: ActivityEventRoleRevoked,
		UserID:    userID.String(),
		Metadata:  map[string]any{"role": RoleAdmin},
	})

	return nil
}

// DeleteUser removes the account. When the target is an admin the same
// successor check as RemoveAdminRole applies. On success every
// association is broken first: donations are detached, role membership
// rows and owned tokens are removed, then the user record goes away.
func (m *UserManager) DeleteUser(ctx context.Context, userID uuid.UUID) error {
	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	user := &User{}

	err := m.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		var err error
		if user, err = m.repo.Users().GetWithAssociationsTx(ctx, tx, userID); err != nil {
			if repository.IsRecordNotFound(err) {
				return newResourceNotFoundError(m.messages)
			}
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to load user")
		}

		if user.HasRole(RoleAdmin) {
			admins, err := m.repo.Users().FindByRoleTx(ctx, tx, RoleAdmin)
			if err != nil {
				return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to list administrators")
			}
			if !HasSuccessorAdmin(user, admins) {
				return newEntityDeletionError(
					m.messages.Get(MsgDeletionBlockedTitle),
					m.messages.Get(MsgSoleAdminDeletion),
				)
			}
		}

		if _, err := m.repo.Donations().DetachUserTx(ctx, tx, userID); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to detach donations")
		}
		if err := m.repo.Users().UnlinkAllRolesTx(ctx, tx, userID); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to remove role membership")
		}
		if err := m.repo.VerificationTokens().DeleteByUserTx(ctx, tx, userID); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to delete verification token")
		}
		if err := m.repo.PasswordResetTokens().DeleteByUserTx(ctx, tx, userID); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to delete password reset token")
		}

		return m.repo.Users().DeleteByIDTx(ctx, tx, userID)
	})
	if err != nil {
		return richOrWrap(err, "user deletion transaction failed")
	}

	m.recordActivity(ctx, ActivityEvent{
		EventType: ActivityEventUserDeleted,
		UserID:    userID.String(),
		Email:     user.Email,
	})

	return nil
}

// ChangeEmail overwrites only the email of the persisted record, then
// notifies the identity listener so the session layer can refresh its
// cached principal.
func (m *UserManager) ChangeEmail(ctx context.Context, userID uuid.UUID, email string) (*User, error) {
	if err := validateEmailAddress(email); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryValidation, "invalid email address")
	}

	user := &User{}

	err := m.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		var err error
		if user, err = m.repo.Users().GetWithAssociationsTx(ctx, tx, userID); err != nil {
			if repository.IsRecordNotFound(err) {
				return newResourceNotFoundError(m.messages)
			}
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to load user")
		}

		update := &User{ID: userID, Email: email}
		if _, err := m.repo.Users().UpdateTx(ctx, tx, update, repository.UpdateByID(userID.String()), repository.UpdateSkipZeroValues()); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to update email")
		}

		user.Email = email
		return nil
	})
	if err != nil {
		return nil, richOrWrap(err, "email change transaction failed")
	}

	m.identity.OnUserIdentityChanged(ctx, user)

	m.recordActivity(ctx, ActivityEvent{
		EventType: ActivityEventEmailChanged,
		UserID:    userID.String(),
		Email:     email,
	})

	return user, nil
}

// UpdateUserEmail is the admin-facing name for the same operation.
func (m *UserManager) UpdateUserEmail(ctx context.Context, userID uuid.UUID, email string) (*User, error) {
	return m.ChangeEmail(ctx, userID, email)
}

// ChangePassword hashes the new plaintext and overwrites the stored
// hash. A pending password reset token is retired in the same update,
// closing the loop between the reset flow and the password change.
func (m *UserManager) ChangePassword(ctx context.Context, userID uuid.UUID, plaintext string) error {
	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	err := m.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		user, err := m.repo.Users().GetWithAssociationsTx(ctx, tx, userID)
		if err != nil {
			if repository.IsRecordNotFound(err) {
				return newResourceNotFoundError(m.messages)
			}
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to load user")
		}

		hash, err := HashPassword(plaintext)
		if err != nil {
			return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid new password provided")
		}

		update := &User{ID: userID, PasswordHash: hash}
		if _, err := m.repo.Users().UpdateTx(ctx, tx, update, repository.UpdateByID(userID.String()), repository.UpdateSkipZeroValues()); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to update password")
		}

		if pending := user.PasswordResetToken; pending != nil && !pending.Consumed {
			retired := MarkResetTokenConsumed(pending.ID)
			if _, err := m.repo.PasswordResetTokens().UpdateTx(ctx, tx, retired, repository.UpdateByID(pending.ID.String()), repository.UpdateSkipZeroValues()); err != nil {
				return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to retire password reset token")
			}
		}

		return nil
	})
	if err != nil {
		return richOrWrap(err, "password change transaction failed")
	}

	m.recordActivity(ctx, ActivityEvent{
		EventType: ActivityEventPasswordChanged,
		UserID:    userID.String(),
	})

	return nil
}

// ResetPassword starts the reset flow for the account registered under
// the email. Unknown addresses fail with a username-not-found error so
// callers can report the miss; no token is issued and no mail is sent
// on failure.
func (m *UserManager) ResetPassword(ctx context.Context, email string, reqCtx RequestContext) error {
	user, err := m.repo.Users().GetByEmail(ctx, email)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return newUsernameNotFoundError(m.messages)
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to look up user by email")
	}

	issued, err := m.tokens.IssuePasswordResetToken(ctx, user, m.config.validityMinutes())
	if err != nil {
		return err
	}

	m.recordActivity(ctx, ActivityEvent{
		EventType: ActivityEventPasswordResetRequested,
		UserID:    user.ID.String(),
		Email:     user.Email,
	})

	url := PasswordResetURL(reqCtx.ApplicationURL(), issued.Token)
	if err := m.notifier.SendPasswordResetEmail(ctx, user, url); err != nil {
		return newMailError(m.messages, err)
	}

	return nil
}

// ResendToken issues a replacement verification token for the owner of
// the old one and mails the fresh link.
func (m *UserManager) ResendToken(ctx context.Context, oldToken string, reqCtx RequestContext) error {
	user, issued, err := m.tokens.Resend(ctx, oldToken, m.config.validityMinutes())
	if err != nil {
		return err
	}

	m.recordActivity(ctx, ActivityEvent{
		EventType: ActivityEventTokenResend,
		UserID:    user.ID.String(),
		Email:     user.Email,
	})

	url := VerificationURL(reqCtx.ApplicationURL(), issued.Token)
	if err := m.notifier.SendTokenResendEmail(ctx, user, url, oldToken); err != nil {
		return newMailError(m.messages, err)
	}

	return nil
}

func (m *UserManager) recordActivity(ctx context.Context, event ActivityEvent) {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}
	if err := normalizeActivitySink(m.activity).Record(ctx, event); err != nil {
		m.logger.Error("activity sink error: %v", err)
	}
}

// richOrWrap keeps typed failures intact and wraps everything else.
func richOrWrap(err error, msg string) error {
	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		return richErr
	}
	return goerrors.Wrap(err, goerrors.CategoryInternal, msg)
}
