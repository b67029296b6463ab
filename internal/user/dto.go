// AngelaMos | 2026
// dto.go

package user

import (
	"time"

	"github.com/carterperez-dev/decorbook/internal/core"
)

type SaveUserRequest struct {
	Name     string `json:"name"      validate:"omitempty,max=100"`
	PhotoURL string `json:"photo_url" validate:"omitempty,url,max=2048"`
}

type UpdateUserRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=user decorator admin"`
}

type UpdateDecoratorStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending approved disabled"`
}

type UserResponse struct {
	ID              string     `json:"id"`
	Email           string     `json:"email"`
	Name            string     `json:"name"`
	PhotoURL        string     `json:"photo_url,omitempty"`
	Role            string     `json:"role"`
	DecoratorStatus string     `json:"decorator_status,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	LastLoginAt     *time.Time `json:"last_login_at,omitempty"`
}

type RoleResponse struct {
	Email           string `json:"email"`
	Role            string `json:"role"`
	DecoratorStatus string `json:"decorator_status,omitempty"`
}

type DecoratorResponse struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	PhotoURL string `json:"photo_url,omitempty"`
}

type ListUsersParams struct {
	core.PageParams
	Search string `json:"search"`
	Role   string `json:"role"`
	Status string `json:"status"`
}

func ToUserResponse(u *User) UserResponse {
	return UserResponse{
		ID:              u.ID,
		Email:           u.Email,
		Name:            u.Name,
		PhotoURL:        u.PhotoURL,
		Role:            u.Role,
		DecoratorStatus: u.Status(),
		CreatedAt:       u.CreatedAt,
		UpdatedAt:       u.UpdatedAt,
		LastLoginAt:     u.LastLoginAt,
	}
}

func ToUserResponseList(users []User) []UserResponse {
	responses := make([]UserResponse, 0, len(users))
	for _, u := range users {
		responses = append(responses, ToUserResponse(&u))
	}
	return responses
}

func ToDecoratorResponseList(users []User) []DecoratorResponse {
	responses := make([]DecoratorResponse, 0, len(users))
	for _, u := range users {
		responses = append(responses, DecoratorResponse{
			Email:    u.Email,
			Name:     u.Name,
			PhotoURL: u.PhotoURL,
		})
	}
	return responses
}
