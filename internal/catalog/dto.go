// AngelaMos | 2026
// dto.go

package catalog

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/carterperez-dev/decorbook/internal/core"
)

type CreateItemRequest struct {
	Title       string          `json:"title"       validate:"required,min=1,max=200"`
	Cost        decimal.Decimal `json:"cost"`
	Unit        string          `json:"unit"        validate:"max=50"`
	Category    string          `json:"category"    validate:"required,max=100"`
	Description string          `json:"description" validate:"max=5000"`
	ImageURL    string          `json:"image_url"   validate:"omitempty,url,max=2048"`
}

type UpdateItemRequest struct {
	Title       *string          `json:"title,omitempty"       validate:"omitempty,min=1,max=200"`
	Cost        *decimal.Decimal `json:"cost,omitempty"`
	Unit        *string          `json:"unit,omitempty"        validate:"omitempty,max=50"`
	Category    *string          `json:"category,omitempty"    validate:"omitempty,max=100"`
	Description *string          `json:"description,omitempty" validate:"omitempty,max=5000"`
	ImageURL    *string          `json:"image_url,omitempty"   validate:"omitempty,url,max=2048"`
}

type ItemResponse struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Cost        decimal.Decimal `json:"cost"`
	Unit        string          `json:"unit"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	ImageURL    string          `json:"image_url,omitempty"`
	CreatedBy   string          `json:"created_by"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ListItemsParams filters the public catalog. Nil price bounds are open.
type ListItemsParams struct {
	core.PageParams
	Search   string
	Category string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
	Sort     string
}

func ToItemResponse(s *Item) ItemResponse {
	return ItemResponse{
		ID:          s.ID,
		Title:       s.Title,
		Cost:        s.Cost,
		Unit:        s.Unit,
		Category:    s.Category,
		Description: s.Description,
		ImageURL:    s.ImageURL,
		CreatedBy:   s.CreatedBy,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

func ToItemResponseList(items []Item) []ItemResponse {
	responses := make([]ItemResponse, 0, len(items))
	for _, s := range items {
		responses = append(responses, ToItemResponse(&s))
	}
	return responses
}
