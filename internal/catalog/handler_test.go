// AngelaMos | 2026
// handler_test.go

package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/carterperez-dev/decorbook/internal/core"
	"github.com/carterperez-dev/decorbook/internal/middleware"
)

type stubAuthorizer struct {
	role string
}

func (s stubAuthorizer) Authorize(
	_ context.Context,
	email string,
	req middleware.Requirement,
) (*middleware.Access, error) {
	if req.Role != "" && req.Role != s.role {
		return nil, core.ErrForbidden
	}
	return &middleware.Access{Email: email, Role: s.role}, nil
}

func passAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := middleware.WithPrincipal(r.Context(), &middleware.Principal{Email: "caller@x.com"})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func newRouter(repo Repository, role string) http.Handler {
	r := chi.NewRouter()
	NewHandler(NewService(repo, nil)).RegisterRoutes(r, passAuth, stubAuthorizer{role: role})
	return r
}

func TestHandler(t *testing.T) {
	t.Run("Should list publicly with parsed filters", func(t *testing.T) {
		repo := &mockRepository{}
		repo.On("List", mock.Anything, mock.MatchedBy(func(p ListItemsParams) bool {
			return p.Category == "wedding" && p.MinPrice != nil && p.MinPrice.IntPart() == 10
		})).Return([]Item{}, 0, nil)

		rec := httptest.NewRecorder()
		newRouter(repo, "").ServeHTTP(rec,
			httptest.NewRequest(http.MethodGet, "/services?category=wedding&min_price=10", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"data":[]`)
	})

	t.Run("Should reject a malformed price bound", func(t *testing.T) {
		rec := httptest.NewRecorder()
		newRouter(&mockRepository{}, "").ServeHTTP(rec,
			httptest.NewRequest(http.MethodGet, "/services?max_price=cheap", nil))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Should forbid non-admins from creating services", func(t *testing.T) {
		repo := &mockRepository{}
		rec := httptest.NewRecorder()
		body := strings.NewReader(`{"title":"Stage","cost":"100","category":"wedding"}`)

		newRouter(repo, middleware.RoleUser).ServeHTTP(rec,
			httptest.NewRequest(http.MethodPost, "/services", body))

		assert.Equal(t, http.StatusForbidden, rec.Code)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Should let admins create services", func(t *testing.T) {
		repo := &mockRepository{}
		repo.On("Create", mock.Anything, mock.Anything).Return(nil)
		rec := httptest.NewRecorder()
		body := strings.NewReader(`{"title":"Stage","cost":"100","category":"wedding"}`)

		newRouter(repo, middleware.RoleAdmin).ServeHTTP(rec,
			httptest.NewRequest(http.MethodPost, "/services", body))

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Contains(t, rec.Body.String(), `"created_by":"caller@x.com"`)
	})
}
