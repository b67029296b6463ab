// AngelaMos | 2026
// service.go

package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/carterperez-dev/decorbook/internal/auth"
	"github.com/carterperez-dev/decorbook/internal/core"
	"github.com/carterperez-dev/decorbook/internal/middleware"
)

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, logger: logger}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SaveOnFirstContact creates the user record for a verified principal, or
// touches last_login_at when it already exists. The bool reports creation.
func (s *Service) SaveOnFirstContact(
	ctx context.Context,
	principal *middleware.Principal,
	req SaveUserRequest,
) (*User, bool, error) {
	if principal == nil || principal.Email == "" {
		return nil, false, fmt.Errorf("save user: %w", core.ErrUnauthorized)
	}

	email := normalizeEmail(principal.Email)

	existing, err := s.repo.TouchLogin(ctx, email)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, core.ErrNotFound) {
		return nil, false, err
	}

	name := req.Name
	if name == "" {
		name = principal.Name
	}
	photo := req.PhotoURL
	if photo == "" {
		photo = principal.Picture
	}

	u := &User{
		ID:       uuid.New().String(),
		Email:    email,
		Name:     name,
		PhotoURL: photo,
		Role:     RoleUser,
	}

	if err := s.repo.Create(ctx, u); err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			// lost a first-contact race with a parallel request
			existing, touchErr := s.repo.TouchLogin(ctx, email)
			return existing, false, touchErr
		}
		return nil, false, err
	}

	s.logger.Info("user created", "email", email)
	return u, true, nil
}

func (s *Service) GetByEmail(ctx context.Context, email string) (*User, error) {
	return s.repo.GetByEmail(ctx, normalizeEmail(email))
}

// AccessFor serves the authorization guard. It always reads the store.
func (s *Service) AccessFor(
	ctx context.Context,
	email string,
) (*middleware.Access, error) {
	u, err := s.repo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, err
	}
	return u.Access(), nil
}

func (s *Service) ApplyAsDecorator(ctx context.Context, email string) (*User, error) {
	email = normalizeEmail(email)

	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	if u.Role != RoleUser {
		return nil, fmt.Errorf(
			"apply as decorator: role is %s: %w",
			u.Role,
			core.ErrPreconditionFailed,
		)
	}

	status := StatusPending
	updated, err := s.repo.UpdateRole(ctx, email, RoleDecorator, &status)
	if err != nil {
		return nil, err
	}

	s.logger.Info("decorator application received", "email", email)
	return updated, nil
}

// UpdateRole is an admin action. Promoting to decorator approves the
// account outright; moving away from decorator clears the approval status.
func (s *Service) UpdateRole(ctx context.Context, email, role string) (*User, error) {
	switch role {
	case RoleUser, RoleDecorator, RoleAdmin:
	default:
		return nil, fmt.Errorf(
			"update role: invalid role %q: %w",
			role,
			core.ErrInvalidInput,
		)
	}

	email = normalizeEmail(email)

	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	var status *string
	if role == RoleDecorator {
		next := StatusApproved
		if u.IsDecorator() && u.DecoratorStatus != nil {
			next = *u.DecoratorStatus
		}
		status = &next
	}

	updated, err := s.repo.UpdateRole(ctx, email, role, status)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user role changed", "email", email, "from", u.Role, "to", role)
	return updated, nil
}

func (s *Service) UpdateDecoratorStatus(
	ctx context.Context,
	email, status string,
) (*User, error) {
	switch status {
	case StatusPending, StatusApproved, StatusDisabled:
	default:
		return nil, fmt.Errorf(
			"update decorator status: invalid status %q: %w",
			status,
			core.ErrInvalidInput,
		)
	}

	updated, err := s.repo.UpdateDecoratorStatus(ctx, normalizeEmail(email), status)
	if err != nil {
		return nil, err
	}

	s.logger.Info("decorator status changed", "email", updated.Email, "status", status)
	return updated, nil
}

func (s *Service) ListUsers(
	ctx context.Context,
	params ListUsersParams,
) ([]User, int, error) {
	return s.repo.List(ctx, params)
}

func (s *Service) ListDecorators(ctx context.Context) ([]User, error) {
	return s.repo.ListApprovedDecorators(ctx)
}

var _ auth.RoleStore = (*Service)(nil)
