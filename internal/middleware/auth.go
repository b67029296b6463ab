// AngelaMos | 2026
// auth.go

package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/carterperez-dev/decorbook/internal/core"
)

const (
	PrincipalKey contextKey = "principal"
	AccessKey    contextKey = "access"
)

const (
	RoleUser      = "user"
	RoleDecorator = "decorator"
	RoleAdmin     = "admin"

	DecoratorApproved = "approved"
)

// Principal is the identity asserted by a verified bearer token.
type Principal struct {
	Subject string
	Email   string
	Name    string
	Picture string
}

// Access is the stored authorization state for a principal.
type Access struct {
	Email           string
	Role            string
	DecoratorStatus string
}

func (a *Access) IsAdmin() bool {
	return a != nil && a.Role == RoleAdmin
}

// Requirement describes what a route demands of the caller. A zero value
// only demands that the caller has a user record.
type Requirement struct {
	Role         string
	ApprovedOnly bool
}

type IdentityVerifier interface {
	Verify(ctx context.Context, token string) (*Principal, error)
}

type Authorizer interface {
	Authorize(
		ctx context.Context,
		email string,
		req Requirement,
	) (*Access, error)
}

func Authenticator(verifier IdentityVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ExtractToken(r)

			if token == "" {
				core.JSONError(
					w,
					core.UnauthorizedError("missing authorization token"),
				)
				return
			}

			principal, err := verifier.Verify(r.Context(), token)
			if err != nil {
				handleAuthError(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), PrincipalKey, principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func Require(
	authz Authorizer,
	req Requirement,
) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			email := GetUserEmail(r.Context())
			if email == "" {
				core.JSONError(
					w,
					core.UnauthorizedError("authentication required"),
				)
				return
			}

			access, err := authz.Authorize(r.Context(), email, req)
			if err != nil {
				handleGuardError(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), AccessKey, access)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireUser passes any caller that has a stored user record.
func RequireUser(authz Authorizer) func(http.Handler) http.Handler {
	return Require(authz, Requirement{})
}

func RequireRole(
	authz Authorizer,
	role string,
) func(http.Handler) http.Handler {
	return Require(authz, Requirement{Role: role})
}

func RequireAdmin(authz Authorizer) func(http.Handler) http.Handler {
	return RequireRole(authz, RoleAdmin)
}

// RequireDecorator passes decorators whose application has been approved.
func RequireDecorator(authz Authorizer) func(http.Handler) http.Handler {
	return Require(authz, Requirement{Role: RoleDecorator, ApprovedOnly: true})
}

func ExtractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}

	return strings.TrimSpace(parts[1])
}

func handleAuthError(w http.ResponseWriter, err error) {
	if core.IsAppError(err) {
		core.JSONError(w, err)
		return
	}

	switch {
	case errors.Is(err, core.ErrTokenExpired):
		core.JSONError(w, core.TokenExpiredError())
	default:
		core.JSONError(w, core.TokenInvalidError())
	}
}

func handleGuardError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, core.ErrUnauthorized):
		core.JSONError(w, core.UnauthorizedError("no user record for principal"))
	case errors.Is(err, core.ErrForbidden):
		core.JSONError(w, core.ForbiddenError("insufficient permissions"))
	default:
		core.InternalServerError(w, err)
	}
}

func GetPrincipal(ctx context.Context) *Principal {
	if p, ok := ctx.Value(PrincipalKey).(*Principal); ok {
		return p
	}
	return nil
}

func GetUserEmail(ctx context.Context) string {
	if p := GetPrincipal(ctx); p != nil {
		return p.Email
	}
	return ""
}

func GetAccess(ctx context.Context) *Access {
	if a, ok := ctx.Value(AccessKey).(*Access); ok {
		return a
	}
	return nil
}

func GetUserRole(ctx context.Context) string {
	if a := GetAccess(ctx); a != nil {
		return a.Role
	}
	return ""
}

func IsAuthenticated(ctx context.Context) bool {
	return GetUserEmail(ctx) != ""
}

func IsAdmin(ctx context.Context) bool {
	return GetAccess(ctx).IsAdmin()
}

// WithPrincipal and WithAccess seed a context the way the middleware chain
// does; handlers under test use them to skip token verification.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, PrincipalKey, p)
}

func WithAccess(ctx context.Context, a *Access) context.Context {
	return context.WithValue(ctx, AccessKey, a)
}
