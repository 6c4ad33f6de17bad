package accounts

import (
	"context"
	"database/sql"
	"errors"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type Donations interface {
	repository.Repository[*Donation]

	FindByUser(ctx context.Context, userID uuid.UUID) ([]*Donation, error)
	FindByUserTx(ctx context.Context, tx bun.IDB, userID uuid.UUID) ([]*Donation, error)
	DetachUserTx(ctx context.Context, tx bun.IDB, userID uuid.UUID) (int64, error)
}

type donations struct {
	repository.Repository[*Donation]
	db *bun.DB
}

var _ Donations = (*donations)(nil)

func NewDonationsRepository(db *bun.DB) Donations {
	repo := repository.NewRepository[*Donation](db, repository.ModelHandlers[*Donation]{
		NewRecord: func() *Donation { return &Donation{} },
		GetID: func(d *Donation) uuid.UUID {
			if d == nil {
				return uuid.Nil
			}
			return d.ID
		},
		SetID: func(d *Donation, id uuid.UUID) {
			if d != nil {
				d.ID = id
			}
		},
	})
	return &donations{Repository: repo, db: db}
}

func (r *donations) FindByUser(ctx context.Context, userID uuid.UUID) ([]*Donation, error) {
	return r.FindByUserTx(ctx, r.db, userID)
}

func (r *donations) FindByUserTx(ctx context.Context, tx bun.IDB, userID uuid.UUID) ([]*Donation, error) {
	var records []*Donation
	err := tx.NewSelect().
		Model(&records).
		Where("?TableAlias.user_id = ?", userID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return []*Donation{}, nil
		}
		return nil, err
	}
	return records, nil
}

// DetachUserTx orphans the user's donations instead of deleting them;
// donated goods survive the donor's account.
func (r *donations) DetachUserTx(ctx context.Context, tx bun.IDB, userID uuid.UUID) (int64, error) {
	res, err := tx.NewUpdate().
		Model((*Donation)(nil)).
		Set("user_id = NULL").
		Where("user_id = ?", userID).
		Exec(ctx)
	if err != nil {
		return 0, err
	}
	detached, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return detached, nil
}
