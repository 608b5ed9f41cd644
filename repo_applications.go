package userrequests

import (
	"context"
	"time"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ApplicationFilters narrows and orders a listing. Zero values mean
// no constraint; values are validated before they reach the store.
type ApplicationFilters struct {
	Status      string
	OrderByDate string
}

// Applications is the support request store
type Applications interface {
	repository.Repository[*Application]

	Create(ctx context.Context, record *Application, criteria ...repository.InsertCriteria) (*Application, error)
	CreateTx(ctx context.Context, tx bun.IDB, record *Application, criteria ...repository.InsertCriteria) (*Application, error)
	Find(ctx context.Context, id uuid.UUID) (*Application, error)
	FindTx(ctx context.Context, tx bun.IDB, id uuid.UUID) (*Application, error)
	ListFiltered(ctx context.Context, filters ApplicationFilters) ([]*Application, error)
	MarkResolved(ctx context.Context, id uuid.UUID, comment string) (int64, error)
	MarkResolvedTx(ctx context.Context, tx bun.IDB, id uuid.UUID, comment string) (int64, error)
	Remove(ctx context.Context, id uuid.UUID) (*Application, error)
	RemoveTx(ctx context.Context, tx bun.IDB, id uuid.UUID) (*Application, error)
}

type applications struct {
	repository.Repository[*Application]
	db *bun.DB
}

var (
	_ Applications                        = (*applications)(nil)
	_ repository.Repository[*Application] = (*applications)(nil)
)

func NewApplicationsRepository(db *bun.DB) Applications {
	repo := repository.NewRepository[*Application](db, repository.ModelHandlers[*Application]{
		NewRecord: func() *Application { return &Application{} },
		GetID: func(a *Application) uuid.UUID {
			if a == nil {
				return uuid.Nil
			}
			return a.ID
		},
		SetID: func(a *Application, id uuid.UUID) {
			if a != nil {
				a.ID = id
			}
		},
	})

	return &applications{
		Repository: repo,
		db:         db,
	}
}

func (a *applications) Create(ctx context.Context, record *Application, criteria ...repository.InsertCriteria) (*Application, error) {
	return a.CreateTx(ctx, a.db, record, criteria...)
}

func (a *applications) CreateTx(ctx context.Context, tx bun.IDB, record *Application, criteria ...repository.InsertCriteria) (*Application, error) {
	prepareApplicationDefaults(record)
	return a.Repository.CreateTx(ctx, tx, record, criteria...)
}

func (a *applications) Find(ctx context.Context, id uuid.UUID) (*Application, error) {
	return a.FindTx(ctx, a.db, id)
}

func (a *applications) FindTx(ctx context.Context, tx bun.IDB, id uuid.UUID) (*Application, error) {
	record := &Application{}
	err := tx.NewSelect().
		Model(record).
		Where("?TableAlias.id = ?", id.String()).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{
					"id": id.String(),
				})
		}
		return nil, err
	}

	return record, nil
}

func (a *applications) ListFiltered(ctx context.Context, filters ApplicationFilters) ([]*Application, error) {
	records := []*Application{}

	q := a.db.NewSelect().Model(&records)

	if filters.Status != "" {
		q = q.Where("?TableAlias.status = ?", filters.Status)
	}

	if filters.OrderByDate != "" {
		q = q.OrderExpr("?TableAlias.updated_at " + sortDirection(filters.OrderByDate))
	}

	if err := q.Scan(ctx); err != nil {
		return nil, err
	}

	return records, nil
}

// MarkResolved flips an active request to resolved in a single
// conditional update. The returned count is 0 when the row is
// missing or already resolved; callers disambiguate.
func (a *applications) MarkResolved(ctx context.Context, id uuid.UUID, comment string) (int64, error) {
	return a.MarkResolvedTx(ctx, a.db, id, comment)
}

func (a *applications) MarkResolvedTx(ctx context.Context, tx bun.IDB, id uuid.UUID, comment string) (int64, error) {
	res, err := tx.NewUpdate().
		Model((*Application)(nil)).
		Set("status = ?", StatusResolved).
		Set("comment = ?", comment).
		Set("updated_at = ?", time.Now()).
		Where("?TableAlias.id = ?", id.String()).
		Where("?TableAlias.status = ?", StatusActive).
		Exec(ctx)

	if err != nil {
		return 0, err
	}

	return res.RowsAffected()
}

func (a *applications) Remove(ctx context.Context, id uuid.UUID) (*Application, error) {
	return a.RemoveTx(ctx, a.db, id)
}

func (a *applications) RemoveTx(ctx context.Context, tx bun.IDB, id uuid.UUID) (*Application, error) {
	record, err := a.FindTx(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	_, err = tx.NewDelete().
		Model((*Application)(nil)).
		Where("?TableAlias.id = ?", id.String()).
		Exec(ctx)

	if err != nil {
		return nil, err
	}

	return record, nil
}

func sortDirection(order string) string {
	if order == "desc" {
		return "DESC"
	}
	return "ASC"
}

func prepareApplicationDefaults(record *Application) {
	if record == nil {
		return
	}

	if record.Status == "" {
		record.Status = StatusActive
	}

	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
}
