// AngelaMos | 2026
// entity.go

package catalog

import (
	"time"

	"github.com/shopspring/decimal"
)

// Item is one decoration service offered in the catalog.
type Item struct {
	ID          string          `db:"id"`
	Title       string          `db:"title"`
	Cost        decimal.Decimal `db:"cost"`
	Unit        string          `db:"unit"`
	Category    string          `db:"category"`
	Description string          `db:"description"`
	ImageURL    string          `db:"image_url"`
	CreatedBy   string          `db:"created_by"`
	CreatedAt   time.Time       `db:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at"`
}

const (
	SortNewest    = "newest"
	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"
)
