package accounts

import (
	"context"
	"database/sql"
	"errors"
	"log"

	"github.com/uptrace/bun"
)

// RepositoryManager exposes all repositories plus the transactional
// boundary every account mutation runs inside.
type RepositoryManager interface {
	Validate() error
	MustValidate()
	RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error

	Users() Users
	UserTypes() UserTypes
	VerificationTokens() VerificationTokens
	PasswordResetTokens() PasswordResetTokens
	Donations() Donations
}

type mngr struct {
	db                  *bun.DB
	users               Users
	userTypes           UserTypes
	verificationTokens  VerificationTokens
	passwordResetTokens PasswordResetTokens
	donations           Donations
}

func NewRepositoryManager(db *bun.DB) RepositoryManager {
	// the m2m join model must be known to bun before any Relation("Roles") query
	db.RegisterModel((*UserUserType)(nil))

	return &mngr{
		db:                  db,
		users:               NewUsersRepository(db),
		userTypes:           NewUserTypesRepository(db),
		verificationTokens:  NewVerificationTokensRepository(db),
		passwordResetTokens: NewPasswordResetTokensRepository(db),
		donations:           NewDonationsRepository(db),
	}
}

func (m mngr) Validate() error {
	if m.users == nil {
		return errors.New("repository users should be initialized")
	}

	if m.userTypes == nil {
		return errors.New("repository userTypes should be initialized")
	}

	if m.verificationTokens == nil {
		return errors.New("repository verificationTokens should be initialized")
	}

	if m.passwordResetTokens == nil {
		return errors.New("repository passwordResetTokens should be initialized")
	}

	if m.donations == nil {
		return errors.New("repository donations should be initialized")
	}

	return nil
}

func (m mngr) MustValidate() {
	if err := m.Validate(); err != nil {
		log.Panic(err)
	}
}

func (m mngr) RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return m.db.RunInTx(ctx, opts, f)
	}
}

func (m mngr) Users() Users {
	return m.users
}

func (m mngr) UserTypes() UserTypes {
	return m.userTypes
}

func (m mngr) VerificationTokens() VerificationTokens {
	return m.verificationTokens
}

func (m mngr) PasswordResetTokens() PasswordResetTokens {
	return m.passwordResetTokens
}

func (m mngr) Donations() Donations {
	return m.donations
}
