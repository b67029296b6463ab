// AngelaMos | 2026
// guard.go

package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/carterperez-dev/decorbook/internal/core"
	"github.com/carterperez-dev/decorbook/internal/middleware"
)

// RoleStore resolves the stored role and decorator approval for an email.
// It returns core.ErrNotFound when no user record exists.
type RoleStore interface {
	AccessFor(ctx context.Context, email string) (*middleware.Access, error)
}

// Guard maps a verified principal to a role by asking the RoleStore on
// every call. Role changes take effect on the next request.
type Guard struct {
	store RoleStore
}

func NewGuard(store RoleStore) *Guard {
	return &Guard{store: store}
}

func (g *Guard) Authorize(
	ctx context.Context,
	email string,
	req middleware.Requirement,
) (*middleware.Access, error) {
	access, err := g.store.AccessFor(ctx, email)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, fmt.Errorf(
				"authorize %s: no user record: %w",
				email,
				core.ErrUnauthorized,
			)
		}
		return nil, fmt.Errorf("authorize %s: %w", email, err)
	}

	if req.Role != "" && access.Role != req.Role {
		return nil, fmt.Errorf(
			"authorize %s: role %s, need %s: %w",
			email,
			access.Role,
			req.Role,
			core.ErrForbidden,
		)
	}

	if req.ApprovedOnly && access.DecoratorStatus != middleware.DecoratorApproved {
		return nil, fmt.Errorf(
			"authorize %s: decorator status %q: %w",
			email,
			access.DecoratorStatus,
			core.ErrForbidden,
		)
	}

	return access, nil
}
