// AngelaMos | 2026
// handler.go

package user

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/decorbook/internal/core"
	"github.com/carterperez-dev/decorbook/internal/middleware"
)

type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
	authz middleware.Authorizer,
) {
	r.Get("/decorators", h.ListDecorators)

	r.Route("/users", func(r chi.Router) {
		r.Use(authenticator)

		r.Post("/", h.Save)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireUser(authz))

			r.Get("/me", h.GetMe)
			r.Post("/me/decorator-application", h.ApplyAsDecorator)
			r.Get("/{email}/role", h.GetRole)
		})
	})
}

// RegisterAdminRoutes expects r to be mounted under /admin behind the
// admin guard.
func (h *Handler) RegisterAdminRoutes(r chi.Router) {
	r.Get("/users", h.ListUsers)
	r.Patch("/users/{email}/role", h.UpdateUserRole)
	r.Patch("/decorators/{email}/status", h.UpdateDecoratorStatus)
}

func (h *Handler) Save(w http.ResponseWriter, r *http.Request) {
	var req SaveUserRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			core.BadRequest(w, "invalid request body")
			return
		}
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	u, created, err := h.service.SaveOnFirstContact(
		r.Context(),
		middleware.GetPrincipal(r.Context()),
		req,
	)
	if err != nil {
		core.HandleError(w, err, "user")
		return
	}

	if created {
		core.Created(w, ToUserResponse(u))
		return
	}
	core.OK(w, ToUserResponse(u))
}

func (h *Handler) GetMe(w http.ResponseWriter, r *http.Request) {
	u, err := h.service.GetByEmail(r.Context(), middleware.GetUserEmail(r.Context()))
	if err != nil {
		core.HandleError(w, err, "user")
		return
	}

	core.OK(w, ToUserResponse(u))
}

func (h *Handler) GetRole(w http.ResponseWriter, r *http.Request) {
	email := strings.ToLower(chi.URLParam(r, "email"))

	if email != middleware.GetUserEmail(r.Context()) &&
		!middleware.IsAdmin(r.Context()) {
		core.Forbidden(w, "cannot read another user's role")
		return
	}

	u, err := h.service.GetByEmail(r.Context(), email)
	if err != nil {
		core.HandleError(w, err, "user")
		return
	}

	core.OK(w, RoleResponse{
		Email:           u.Email,
		Role:            u.Role,
		DecoratorStatus: u.Status(),
	})
}

func (h *Handler) ApplyAsDecorator(w http.ResponseWriter, r *http.Request) {
	u, err := h.service.ApplyAsDecorator(
		r.Context(),
		middleware.GetUserEmail(r.Context()),
	)
	if err != nil {
		core.HandleError(w, err, "user")
		return
	}

	core.OK(w, ToUserResponse(u))
}

func (h *Handler) ListDecorators(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.ListDecorators(r.Context())
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToDecoratorResponseList(users))
}

// ListUsers returns a paginated list of users with optional filtering.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	params := ListUsersParams{
		PageParams: core.PageFromRequest(r),
		Search:     r.URL.Query().Get("search"),
		Role:       r.URL.Query().Get("role"),
		Status:     r.URL.Query().Get("status"),
	}

	users, total, err := h.service.ListUsers(r.Context(), params)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.Paginated(
		w,
		ToUserResponseList(users),
		params.Page,
		params.PageSize,
		total,
	)
}

// UpdateUserRole changes a user's role (admin only).
func (h *Handler) UpdateUserRole(w http.ResponseWriter, r *http.Request) {
	var req UpdateUserRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	u, err := h.service.UpdateRole(r.Context(), chi.URLParam(r, "email"), req.Role)
	if err != nil {
		core.HandleError(w, err, "user")
		return
	}

	core.OK(w, ToUserResponse(u))
}

// UpdateDecoratorStatus approves, suspends or re-queues a decorator.
func (h *Handler) UpdateDecoratorStatus(w http.ResponseWriter, r *http.Request) {
	var req UpdateDecoratorStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	u, err := h.service.UpdateDecoratorStatus(
		r.Context(),
		chi.URLParam(r, "email"),
		req.Status,
	)
	if err != nil {
		core.HandleError(w, err, "decorator")
		return
	}

	core.OK(w, ToUserResponse(u))
}
