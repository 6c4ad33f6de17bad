package accounts

import (
	"context"
	"database/sql"
	"errors"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// FindUsersByRoleSQL derives role membership from the join table. The
// user→roles direction is the source of truth; the member list is never
// maintained in memory.
var FindUsersByRoleSQL = `SELECT "u".* FROM "users" AS "u"
JOIN "users_user_types" AS "uut" ON "u"."id" = "uut"."user_id"
JOIN "user_types" AS "ut" ON "uut"."user_type_id" = "ut"."id"
WHERE "ut"."role" = ?;`

type Users interface {
	repository.Repository[*User]

	GetWithAssociations(ctx context.Context, id uuid.UUID) (*User, error)
	GetWithAssociationsTx(ctx context.Context, tx bun.IDB, id uuid.UUID) (*User, error)

	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByEmailTx(ctx context.Context, tx bun.IDB, email string) (*User, error)

	GetByVerificationToken(ctx context.Context, token string) (*User, error)
	GetByVerificationTokenTx(ctx context.Context, tx bun.IDB, token string) (*User, error)
	GetByPasswordResetToken(ctx context.Context, token string) (*User, error)
	GetByPasswordResetTokenTx(ctx context.Context, tx bun.IDB, token string) (*User, error)

	FindByRole(ctx context.Context, role string) ([]*User, error)
	FindByRoleTx(ctx context.Context, tx bun.IDB, role string) ([]*User, error)

	SetBlockedTx(ctx context.Context, tx bun.IDB, id uuid.UUID, blocked bool) error

	LinkRoleTx(ctx context.Context, tx bun.IDB, userID, roleID uuid.UUID) error
	UnlinkRoleTx(ctx context.Context, tx bun.IDB, userID, roleID uuid.UUID) error
	UnlinkAllRolesTx(ctx context.Context, tx bun.IDB, userID uuid.UUID) error

	DeleteByIDTx(ctx context.Context, tx bun.IDB, id uuid.UUID) error
}

type users struct {
	repository.Repository[*User]
	db *bun.DB
}

var (
	_ Users                        = (*users)(nil)
	_ repository.Repository[*User] = (*users)(nil)
)

func NewUsersRepository(db *bun.DB) Users {
	repo := repository.NewRepository[*User](db, repository.ModelHandlers[*User]{
		NewRecord: func() *User { return &User{} },
		GetID: func(u *User) uuid.UUID {
			if u == nil {
				return uuid.Nil
			}
			return u.ID
		},
		SetID: func(u *User, id uuid.UUID) {
			if u != nil {
				u.ID = id
			}
		},
		GetIdentifier: func() string {
			return "email"
		},
	})

	return &users{
		Repository: repo,
		db:         db,
	}
}

func (a *users) GetWithAssociations(ctx context.Context, id uuid.UUID) (*User, error) {
	return a.GetWithAssociationsTx(ctx, a.db, id)
}

// GetWithAssociationsTx loads a user with role set and pending tokens,
// which is what every protected mutation needs before it can decide.
func (a *users) GetWithAssociationsTx(ctx context.Context, tx bun.IDB, id uuid.UUID) (*User, error) {
	record := &User{}
	err := tx.NewSelect().
		Model(record).
		Relation("Roles").
		Relation("PasswordResetToken").
		Where("?TableAlias.id = ?", id).
		Limit(1).
		Scan(ctx)

	if err != nil {
		return nil, asRecordNotFound(err, map[string]any{"id": id.String()})
	}
	return record, nil
}

func (a *users) GetByEmail(ctx context.Context, email string) (*User, error) {
	return a.GetByEmailTx(ctx, a.db, email)
}

func (a *users) GetByEmailTx(ctx context.Context, tx bun.IDB, email string) (*User, error) {
	record := &User{}
	err := tx.NewSelect().
		Model(record).
		Relation("Roles").
		Where("?TableAlias.email = ?", email).
		Limit(1).
		Scan(ctx)

	if err != nil {
		return nil, asRecordNotFound(err, map[string]any{"email": email})
	}
	return record, nil
}

func (a *users) GetByVerificationToken(ctx context.Context, token string) (*User, error) {
	return a.GetByVerificationTokenTx(ctx, a.db, token)
}

func (a *users) GetByVerificationTokenTx(ctx context.Context, tx bun.IDB, token string) (*User, error) {
	record := &User{}
	err := tx.NewSelect().
		Model(record).
		Join(`JOIN verification_tokens AS vtk ON vtk.user_id = ?TableAlias.id`).
		Where("vtk.token = ?", token).
		Limit(1).
		Scan(ctx)

	if err != nil {
		return nil, asRecordNotFound(err, map[string]any{"token": token})
	}
	return record, nil
}

func (a *users) GetByPasswordResetToken(ctx context.Context, token string) (*User, error) {
	return a.GetByPasswordResetTokenTx(ctx, a.db, token)
}

func (a *users) GetByPasswordResetTokenTx(ctx context.Context, tx bun.IDB, token string) (*User, error) {
	record := &User{}
	err := tx.NewSelect().
		Model(record).
		Join(`JOIN password_reset_tokens AS prt ON prt.user_id = ?TableAlias.id`).
		Where("prt.token = ?", token).
		Limit(1).
		Scan(ctx)

	if err != nil {
		return nil, asRecordNotFound(err, map[string]any{"token": token})
	}
	return record, nil
}

func (a *users) FindByRole(ctx context.Context, role string) ([]*User, error) {
	return a.FindByRoleTx(ctx, a.db, role)
}

func (a *users) FindByRoleTx(ctx context.Context, tx bun.IDB, role string) ([]*User, error) {
	var records []*User
	err := tx.NewRaw(FindUsersByRoleSQL, role).Scan(ctx, &records)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return []*User{}, nil
		}
		return nil, err
	}
	return records, nil
}

// SetBlockedTx writes the flag with an explicit SET; a minimal update
// record would drop blocked=false as a zero value.
func (a *users) SetBlockedTx(ctx context.Context, tx bun.IDB, id uuid.UUID, blocked bool) error {
	res, err := tx.NewUpdate().
		Model((*User)(nil)).
		Set("blocked = ?", blocked).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return err
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return repository.NewRecordNotFound().WithMetadata(map[string]any{"id": id.String()})
	}
	return nil
}

func (a *users) LinkRoleTx(ctx context.Context, tx bun.IDB, userID, roleID uuid.UUID) error {
	link := &UserUserType{UserID: userID, UserTypeID: roleID}
	_, err := tx.NewInsert().
		Model(link).
		On("CONFLICT (user_id, user_type_id) DO NOTHING").
		Exec(ctx)
	return err
}

func (a *users) UnlinkRoleTx(ctx context.Context, tx bun.IDB, userID, roleID uuid.UUID) error {
	_, err := tx.NewDelete().
		Model((*UserUserType)(nil)).
		Where("user_id = ? AND user_type_id = ?", userID, roleID).
		Exec(ctx)
	return err
}

// UnlinkAllRolesTx drops every role-membership row for the user, the
// symmetric cleanup the role side needs before the user row goes away.
func (a *users) UnlinkAllRolesTx(ctx context.Context, tx bun.IDB, userID uuid.UUID) error {
	_, err := tx.NewDelete().
		Model((*UserUserType)(nil)).
		Where("user_id = ?", userID).
		Exec(ctx)
	return err
}

func (a *users) DeleteByIDTx(ctx context.Context, tx bun.IDB, id uuid.UUID) error {
	_, err := tx.NewDelete().
		Model((*User)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	return err
}

// asRecordNotFound keeps direct Bun lookups indistinguishable from the
// generic repository's not-found result.
func asRecordNotFound(err error, meta map[string]any) error {
	if errors.Is(err, sql.ErrNoRows) {
		return repository.NewRecordNotFound().WithMetadata(meta)
	}
	return err
}
