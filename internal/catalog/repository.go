// AngelaMos | 2026
// repository.go

package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/carterperez-dev/decorbook/internal/core"
)

type Repository interface {
	Create(ctx context.Context, item *Item) error
	GetByID(ctx context.Context, id string) (*Item, error)
	Update(ctx context.Context, item *Item) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, params ListItemsParams) ([]Item, int, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const serviceColumns = `id, title, cost, unit, category, description, image_url,
		       created_by, created_at, updated_at`

func (r *repository) Create(ctx context.Context, item *Item) error {
	query := `
		INSERT INTO services (id, title, cost, unit, category, description, image_url, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		item.ID,
		item.Title,
		item.Cost,
		item.Unit,
		item.Category,
		item.Description,
		item.ImageURL,
		item.CreatedBy,
	).Scan(&item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create service: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Item, error) {
	query := `SELECT ` + serviceColumns + ` FROM services WHERE id = $1`

	var item Item
	err := r.db.GetContext(ctx, &item, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get service: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get service: %w", err)
	}

	return &item, nil
}

func (r *repository) Update(ctx context.Context, item *Item) error {
	query := `
		UPDATE services
		SET title = $2, cost = $3, unit = $4, category = $5,
		    description = $6, image_url = $7, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.GetContext(ctx, &item.UpdatedAt, query,
		item.ID,
		item.Title,
		item.Cost,
		item.Unit,
		item.Category,
		item.Description,
		item.ImageURL,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update service: %w", core.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("update service: %w", err)
	}

	return nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM services WHERE id = $1`, id)
	if err != nil {
		if core.IsForeignKeyViolation(err) {
			return fmt.Errorf(
				"delete service: service has bookings: %w",
				core.ErrPreconditionFailed,
			)
		}
		return fmt.Errorf("delete service: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete service: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("delete service: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) List(
	ctx context.Context,
	params ListItemsParams,
) ([]Item, int, error) {
	params.Normalize()

	where := squirrel.And{}

	if params.Search != "" {
		pattern := "%" + core.EscapeLike(params.Search) + "%"
		where = append(where, squirrel.Or{
			squirrel.ILike{"title": pattern},
			squirrel.ILike{"description": pattern},
		})
	}

	if params.Category != "" {
		where = append(where, squirrel.Eq{"category": params.Category})
	}

	if params.MinPrice != nil {
		where = append(where, squirrel.GtOrEq{"cost": *params.MinPrice})
	}

	if params.MaxPrice != nil {
		where = append(where, squirrel.LtOrEq{"cost": *params.MaxPrice})
	}

	countQuery, args, err := core.Builder.
		Select("COUNT(*)").
		From("services").
		Where(where).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count services: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count services: %w", err)
	}

	query, args, err := core.Builder.
		Select(serviceColumns).
		From("services").
		Where(where).
		OrderBy(orderFor(params.Sort)...).
		Limit(params.Limit()).
		Offset(uint64(params.Offset())). //nolint:gosec // page >= 1
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list services: %w", err)
	}

	items := []Item{}
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list services: %w", err)
	}

	return items, total, nil
}

func orderFor(sort string) []string {
	switch sort {
	case SortPriceAsc:
		return []string{"cost ASC", "created_at DESC"}
	case SortPriceDesc:
		return []string{"cost DESC", "created_at DESC"}
	default:
		return []string{"created_at DESC", "id"}
	}
}
