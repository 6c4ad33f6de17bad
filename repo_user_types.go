package accounts

import (
	"context"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type UserTypes interface {
	repository.Repository[*UserType]

	GetByRole(ctx context.Context, role string) (*UserType, error)
	GetByRoleTx(ctx context.Context, tx bun.IDB, role string) (*UserType, error)
}

type userTypes struct {
	repository.Repository[*UserType]
	db *bun.DB
}

var _ UserTypes = (*userTypes)(nil)

func NewUserTypesRepository(db *bun.DB) UserTypes {
	repo := repository.NewRepository[*UserType](db, repository.ModelHandlers[*UserType]{
		NewRecord: func() *UserType { return &UserType{} },
		GetID: func(t *UserType) uuid.UUID {
			if t == nil {
				return uuid.Nil
			}
			return t.ID
		},
		SetID: func(t *UserType, id uuid.UUID) {
			if t != nil {
				t.ID = id
			}
		},
		GetIdentifier: func() string {
			return "role"
		},
	})
	return &userTypes{Repository: repo, db: db}
}

func (r *userTypes) GetByRole(ctx context.Context, role string) (*UserType, error) {
	return r.GetByRoleTx(ctx, r.db, role)
}

func (r *userTypes) GetByRoleTx(ctx context.Context, tx bun.IDB, role string) (*UserType, error) {
	record := &UserType{}
	err := tx.NewSelect().
		Model(record).
		Where("?TableAlias.role = ?", role).
		Limit(1).
		Scan(ctx)

	if err != nil {
		return nil, asRecordNotFound(err, map[string]any{"role": role})
	}
	return record, nil
}
