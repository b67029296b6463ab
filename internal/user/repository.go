// AngelaMos | 2026
// repository.go

package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/carterperez-dev/decorbook/internal/core"
)

type Repository interface {
	Create(ctx context.Context, user *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	TouchLogin(ctx context.Context, email string) (*User, error)
	UpdateRole(
		ctx context.Context,
		email, role string,
		decoratorStatus *string,
	) (*User, error)
	UpdateDecoratorStatus(ctx context.Context, email, status string) (*User, error)
	List(ctx context.Context, params ListUsersParams) ([]User, int, error)
	ListApprovedDecorators(ctx context.Context) ([]User, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const userColumns = `id, email, name, photo_url, role, decorator_status,
		       created_at, updated_at, last_login_at`

func (r *repository) Create(ctx context.Context, user *User) error {
	query := `
		INSERT INTO users (id, email, name, photo_url, role, decorator_status, last_login_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		RETURNING created_at, updated_at, last_login_at`

	err := r.db.QueryRowxContext(ctx, query,
		user.ID,
		user.Email,
		user.Name,
		user.PhotoURL,
		user.Role,
		user.DecoratorStatus,
	).Scan(&user.CreatedAt, &user.UpdatedAt, &user.LastLoginAt)
	if err != nil {
		if core.IsDuplicateKeyError(err) {
			return fmt.Errorf("create user: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create user: %w", err)
	}

	return nil
}

func (r *repository) GetByEmail(
	ctx context.Context,
	email string,
) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	var user User
	err := r.db.GetContext(ctx, &user, query, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get user by email: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}

	return &user, nil
}

func (r *repository) TouchLogin(ctx context.Context, email string) (*User, error) {
	query := `
		UPDATE users
		SET last_login_at = NOW(), updated_at = NOW()
		WHERE email = $1
		RETURNING ` + userColumns

	var user User
	err := r.db.GetContext(ctx, &user, query, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("touch login: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("touch login: %w", err)
	}

	return &user, nil
}

func (r *repository) UpdateRole(
	ctx context.Context,
	email, role string,
	decoratorStatus *string,
) (*User, error) {
	query := `
		UPDATE users
		SET role = $2, decorator_status = $3, updated_at = NOW()
		WHERE email = $1
		RETURNING ` + userColumns

	var user User
	err := r.db.GetContext(ctx, &user, query, email, role, decoratorStatus)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("update role: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("update role: %w", err)
	}

	return &user, nil
}

// UpdateDecoratorStatus only touches rows whose role is decorator. A miss
// on an existing non-decorator is reported as a failed precondition.
func (r *repository) UpdateDecoratorStatus(
	ctx context.Context,
	email, status string,
) (*User, error) {
	query := `
		UPDATE users
		SET decorator_status = $2, updated_at = NOW()
		WHERE email = $1 AND role = 'decorator'
		RETURNING ` + userColumns

	var user User
	err := r.db.GetContext(ctx, &user, query, email, status)
	if errors.Is(err, sql.ErrNoRows) {
		if _, getErr := r.GetByEmail(ctx, email); getErr != nil {
			return nil, fmt.Errorf("update decorator status: %w", getErr)
		}
		return nil, fmt.Errorf(
			"update decorator status: %s is not a decorator: %w",
			email,
			core.ErrPreconditionFailed,
		)
	}
	if err != nil {
		return nil, fmt.Errorf("update decorator status: %w", err)
	}

	return &user, nil
}

func (r *repository) List(
	ctx context.Context,
	params ListUsersParams,
) ([]User, int, error) {
	params.Normalize()

	where := squirrel.And{}

	if params.Search != "" {
		pattern := "%" + core.EscapeLike(params.Search) + "%"
		where = append(where, squirrel.Or{
			squirrel.ILike{"email": pattern},
			squirrel.ILike{"name": pattern},
		})
	}

	if params.Role != "" {
		where = append(where, squirrel.Eq{"role": params.Role})
	}

	if params.Status != "" {
		where = append(where, squirrel.Eq{"decorator_status": params.Status})
	}

	countQuery, args, err := core.Builder.
		Select("COUNT(*)").
		From("users").
		Where(where).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count users: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	query, args, err := core.Builder.
		Select(userColumns).
		From("users").
		Where(where).
		OrderBy("created_at DESC").
		Limit(params.Limit()).
		Offset(uint64(params.Offset())). //nolint:gosec // page >= 1
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list users: %w", err)
	}

	users := []User{}
	if err := r.db.SelectContext(ctx, &users, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}

	return users, total, nil
}

func (r *repository) ListApprovedDecorators(ctx context.Context) ([]User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE role = 'decorator' AND decorator_status = 'approved'
		ORDER BY name, email`

	users := []User{}
	if err := r.db.SelectContext(ctx, &users, query); err != nil {
		return nil, fmt.Errorf("list decorators: %w", err)
	}

	return users, nil
}
