package accounts

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// TokenLifecycle issues, looks up, and validates single-use account
// tokens. Consumption checks always run before expiry checks, so a
// consumed-but-expired token reports "already consumed".
type TokenLifecycle struct {
	repo     RepositoryManager
	messages *Messages
	logger   Logger
	activity ActivitySink
	now      func() time.Time
}

// NewTokenLifecycle creates the service with sane defaults.
func NewTokenLifecycle(repo RepositoryManager) *TokenLifecycle {
	return &TokenLifecycle{
		repo:     repo,
		messages: &Messages{},
		logger:   defLogger{},
		activity: noopActivitySink{},
		now:      time.Now,
	}
}

// WithActivitySink sets the sink used to emit verification events.
func (s *TokenLifecycle) WithActivitySink(sink ActivitySink) *TokenLifecycle {
	s.activity = normalizeActivitySink(sink)
	return s
}

// WithMessages overrides the message catalog.
func (s *TokenLifecycle) WithMessages(m *Messages) *TokenLifecycle {
	s.messages = normalizeMessages(m)
	return s
}

// WithLogger overrides the logger used by the service.
func (s *TokenLifecycle) WithLogger(logger Logger) *TokenLifecycle {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// WithClock overrides the time source; tests pin it.
func (s *TokenLifecycle) WithClock(now func() time.Time) *TokenLifecycle {
	if now != nil {
		s.now = now
	}
	return s
}

// IssueVerificationToken generates a fresh opaque token for the user,
// replacing any prior verification token, with expiry at
// now + validityMinutes.
func (s *TokenLifecycle) IssueVerificationToken(ctx context.Context, user *User, validityMinutes int) (*VerificationToken, error) {
	issued := s.newVerificationToken(user, validityMinutes)

	err := s.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := s.repo.VerificationTokens().DeleteByUserTx(ctx, tx, user.ID); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to retire previous verification token")
		}
		if _, err := s.repo.VerificationTokens().CreateTx(ctx, tx, issued); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to persist verification token")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return issued, nil
}

// IssuePasswordResetToken generates a fresh reset token for the user,
// replacing any prior one, with Consumed=false.
func (s *TokenLifecycle) IssuePasswordResetToken(ctx context.Context, user *User, validityMinutes int) (*PasswordResetToken, error) {
	issued := s.newPasswordResetToken(user, validityMinutes)

	err := s.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := s.repo.PasswordResetTokens().DeleteByUserTx(ctx, tx, user.ID); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to retire previous password reset token")
		}
		if _, err := s.repo.PasswordResetTokens().CreateTx(ctx, tx, issued); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to persist password reset token")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return issued, nil
}

// FindVerificationToken looks a token up by its opaque string.
func (s *TokenLifecycle) FindVerificationToken(ctx context.Context, token string) (*VerificationToken, error) {
	record, err := s.repo.VerificationTokens().GetByToken(ctx, token)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, newTokenNotFoundError(s.messages)
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to look up verification token")
	}
	return record, nil
}

// FindPasswordResetToken looks a reset token up by its opaque string.
func (s *TokenLifecycle) FindPasswordResetToken(ctx context.Context, token string) (*PasswordResetToken, error) {
	record, err := s.repo.PasswordResetTokens().GetByToken(ctx, token)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, newTokenNotFoundError(s.messages)
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to look up password reset token")
	}
	return record, nil
}

// ValidateVerificationToken runs the check sequence for an email
// verification token: not-found, consumed, expired, then success.
// Success enables the owner and retires the token in one transaction;
// that IS the consumption signal, so a second validation fails with
// "already consumed" even past expiry.
func (s *TokenLifecycle) ValidateVerificationToken(ctx context.Context, token string) (*User, error) {
	user := &User{}

	err := s.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		record, err := s.repo.VerificationTokens().GetByTokenTx(ctx, tx, token)
		if err != nil {
			if repository.IsRecordNotFound(err) {
				return newTokenNotFoundError(s.messages)
			}
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to look up verification token")
		}

		// consumed wins over expired. An enabled owner counts as
		// consumption even when the flag predates the row.
		if record.Consumed || (record.User != nil && record.User.Enabled) {
			return newTokenConsumedError(s.messages)
		}

		if record.Expired(s.now()) {
			return newTokenExpiredError(s.messages, record.Token)
		}

		if record.User == nil {
			return newResourceNotFoundError(s.messages)
		}

		enabled := &User{ID: record.UserID, Enabled: true}
		if _, err := s.repo.Users().UpdateTx(ctx, tx, enabled, repository.UpdateByID(record.UserID.String()), repository.UpdateSkipZeroValues()); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to enable user")
		}

		retired := &VerificationToken{ID: record.ID, Consumed: true}
		if _, err := s.repo.VerificationTokens().UpdateTx(ctx, tx, retired, repository.UpdateByID(record.ID.String()), repository.UpdateSkipZeroValues()); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to retire verification token")
		}

		*user = *record.User
		user.Enabled = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.activity.Record(ctx, ActivityEvent{
		EventType:  ActivityEventEmailVerified,
		UserID:     user.ID.String(),
		Email:      user.Email,
		OccurredAt: s.now(),
	}); err != nil {
		s.logger.Error("activity sink error: %v", err)
	}

	return user, nil
}

// ValidatePasswordResetToken runs the check sequence for a reset token
// and returns the owning user. Consumption is deferred until the new
// password is actually saved.
func (s *TokenLifecycle) ValidatePasswordResetToken(ctx context.Context, token string) (*User, error) {
	record, err := s.FindPasswordResetToken(ctx, token)
	if err != nil {
		return nil, err
	}

	if record.Consumed {
		return nil, newTokenConsumedError(s.messages)
	}

	if record.Expired(s.now()) {
		return nil, newTokenExpiredError(s.messages, record.Token)
	}

	if record.User == nil {
		return nil, newResourceNotFoundError(s.messages)
	}

	return record.User, nil
}

// Resend resolves the owner of a previously issued verification token
// and issues a replacement. The caller triggers the notification.
func (s *TokenLifecycle) Resend(ctx context.Context, oldToken string, validityMinutes int) (*User, *VerificationToken, error) {
	user, err := s.repo.Users().GetByVerificationToken(ctx, oldToken)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, nil, newResourceNotFoundError(s.messages)
		}
		return nil, nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to resolve verification token owner")
	}

	issued, err := s.IssueVerificationToken(ctx, user, validityMinutes)
	if err != nil {
		return nil, nil, err
	}

	return user, issued, nil
}

func (s *TokenLifecycle) newVerificationToken(user *User, validityMinutes int) *VerificationToken {
	now := s.now()
	return &VerificationToken{
		ID:        uuid.New(),
		Token:     uuid.NewString(),
		UserID:    user.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(time.Duration(validityMinutes) * time.Minute),
	}
}

func (s *TokenLifecycle) newPasswordResetToken(user *User, validityMinutes int) *PasswordResetToken {
	now := s.now()
	return &PasswordResetToken{
		ID:        uuid.New(),
		Token:     uuid.NewString(),
		UserID:    user.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(time.Duration(validityMinutes) * time.Minute),
	}
}
