// AngelaMos | 2026
// reports.go

package admin

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/shopspring/decimal"

	"github.com/carterperez-dev/decorbook/internal/core"
)

type DateCount struct {
	Date  string `db:"date"  json:"date"`
	Count int    `db:"count" json:"count"`
}

type ServiceCount struct {
	Service string `db:"service" json:"service"`
	Count   int    `db:"count"   json:"count"`
}

type Overview struct {
	Bookings      int             `json:"bookings"`
	ByStatus      map[string]int  `json:"by_status"`
	Payments      int             `json:"payments"`
	Revenue       decimal.Decimal `json:"revenue"`
	Decorators    int             `json:"decorators"`
	PendingReview int             `json:"pending_review"`
}

// ReportFilter bounds the booking date of the rows a report aggregates.
type ReportFilter struct {
	From *time.Time
	To   *time.Time
}

func (f ReportFilter) where() squirrel.And {
	where := squirrel.And{}
	if f.From != nil {
		where = append(where, squirrel.GtOrEq{"booking_date": *f.From})
	}
	if f.To != nil {
		where = append(where, squirrel.LtOrEq{"booking_date": *f.To})
	}
	return where
}

type Reports interface {
	BookingsByDate(ctx context.Context, filter ReportFilter) ([]DateCount, error)
	ServiceDemand(ctx context.Context, filter ReportFilter) ([]ServiceCount, error)
	Overview(ctx context.Context) (*Overview, error)
}

type reports struct {
	db core.DBTX
}

func NewReports(db core.DBTX) Reports {
	return &reports{db: db}
}

func (r *reports) BookingsByDate(
	ctx context.Context,
	filter ReportFilter,
) ([]DateCount, error) {
	query, args, err := core.Builder.
		Select("to_char(booking_date, 'YYYY-MM-DD') AS date", "COUNT(*) AS count").
		From("bookings").
		Where(filter.where()).
		GroupBy("booking_date").
		OrderBy("booking_date ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build bookings histogram: %w", err)
	}

	out := []DateCount{}
	if err := r.db.SelectContext(ctx, &out, query, args...); err != nil {
		return nil, fmt.Errorf("bookings histogram: %w", err)
	}

	return out, nil
}

func (r *reports) ServiceDemand(
	ctx context.Context,
	filter ReportFilter,
) ([]ServiceCount, error) {
	query, args, err := core.Builder.
		Select("service_name AS service", "COUNT(*) AS count").
		From("bookings").
		Where(filter.where()).
		GroupBy("service_name").
		OrderBy("count DESC", "service_name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build service demand: %w", err)
	}

	out := []ServiceCount{}
	if err := r.db.SelectContext(ctx, &out, query, args...); err != nil {
		return nil, fmt.Errorf("service demand: %w", err)
	}

	return out, nil
}

var reportedStatuses = []string{"pending", "paid", "assigned", "completed", "cancelled"}

func (r *reports) Overview(ctx context.Context) (*Overview, error) {
	var rows []struct {
		Status string `db:"status"`
		Count  int    `db:"count"`
	}
	if err := r.db.SelectContext(ctx, &rows,
		`SELECT status, COUNT(*) AS count FROM bookings GROUP BY status`,
	); err != nil {
		return nil, fmt.Errorf("overview bookings: %w", err)
	}

	o := &Overview{ByStatus: make(map[string]int, len(reportedStatuses))}
	for _, status := range reportedStatuses {
		o.ByStatus[status] = 0
	}
	for _, row := range rows {
		o.ByStatus[row.Status] = row.Count
		o.Bookings += row.Count
	}

	var ledger struct {
		Payments int             `db:"payments"`
		Revenue  decimal.Decimal `db:"revenue"`
	}
	if err := r.db.GetContext(ctx, &ledger,
		`SELECT COUNT(*) AS payments, COALESCE(SUM(amount), 0) AS revenue FROM payments`,
	); err != nil {
		return nil, fmt.Errorf("overview payments: %w", err)
	}
	o.Payments = ledger.Payments
	o.Revenue = ledger.Revenue

	var decorators struct {
		Total   int `db:"total"`
		Pending int `db:"pending"`
	}
	if err := r.db.GetContext(ctx, &decorators, `
		SELECT COUNT(*) AS total,
		       COUNT(*) FILTER (WHERE decorator_status = 'pending') AS pending
		FROM users
		WHERE role = 'decorator'`,
	); err != nil {
		return nil, fmt.Errorf("overview decorators: %w", err)
	}
	o.Decorators = decorators.Total
	o.PendingReview = decorators.Pending

	return o, nil
}
