// AngelaMos | 2026
// entity.go

package user

import (
	"time"

	"github.com/carterperez-dev/decorbook/internal/middleware"
)

type User struct {
	ID              string     `db:"id"`
	Email           string     `db:"email"`
	Name            string     `db:"name"`
	PhotoURL        string     `db:"photo_url"`
	Role            string     `db:"role"`
	DecoratorStatus *string    `db:"decorator_status"`
	CreatedAt       time.Time  `db:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at"`
	LastLoginAt     *time.Time `db:"last_login_at"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func (u *User) IsDecorator() bool {
	return u.Role == RoleDecorator
}

func (u *User) IsApprovedDecorator() bool {
	return u.IsDecorator() && u.Status() == StatusApproved
}

// Status is the decorator approval status, empty for non-decorators.
func (u *User) Status() string {
	if u.DecoratorStatus == nil {
		return ""
	}
	return *u.DecoratorStatus
}

func (u *User) Access() *middleware.Access {
	return &middleware.Access{
		Email:           u.Email,
		Role:            u.Role,
		DecoratorStatus: u.Status(),
	}
}

const (
	RoleUser      = middleware.RoleUser
	RoleDecorator = middleware.RoleDecorator
	RoleAdmin     = middleware.RoleAdmin
)

const (
	StatusPending  = "pending"
	StatusApproved = middleware.DecoratorApproved
	StatusDisabled = "disabled"
)
