// AngelaMos | 2026
// admin_test.go

package admin

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockReports(t *testing.T) (Reports, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return NewReports(sqlx.NewDb(db, "sqlmock")), mock
}

func TestReports(t *testing.T) {
	ctx := context.Background()

	t.Run("Should group bookings by date in ascending order", func(t *testing.T) {
		reports, mock := newMockReports(t)
		from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

		mock.ExpectQuery(`FROM bookings WHERE \(booking_date >= \$1\) GROUP BY booking_date ORDER BY booking_date ASC`).
			WithArgs(from).
			WillReturnRows(sqlmock.NewRows([]string{"date", "count"}).
				AddRow("2026-01-03", 2).
				AddRow("2026-01-09", 1))

		out, err := reports.BookingsByDate(ctx, ReportFilter{From: &from})
		require.NoError(t, err)
		assert.Equal(t, []DateCount{{"2026-01-03", 2}, {"2026-01-09", 1}}, out)
	})

	t.Run("Should return an empty list when there are no bookings", func(t *testing.T) {
		reports, mock := newMockReports(t)

		mock.ExpectQuery(`GROUP BY service_name ORDER BY count DESC, service_name ASC`).
			WillReturnRows(sqlmock.NewRows([]string{"service", "count"}))

		out, err := reports.ServiceDemand(ctx, ReportFilter{})
		require.NoError(t, err)
		assert.NotNil(t, out)
		assert.Empty(t, out)
	})

	t.Run("Should zero-fill statuses and sum the ledger", func(t *testing.T) {
		reports, mock := newMockReports(t)

		mock.ExpectQuery(`SELECT status, COUNT\(\*\) AS count FROM bookings GROUP BY status`).
			WillReturnRows(sqlmock.NewRows([]string{"status", "count"}).
				AddRow("pending", 3).
				AddRow("completed", 2))
		mock.ExpectQuery(`COALESCE\(SUM\(amount\), 0\) AS revenue FROM payments`).
			WillReturnRows(sqlmock.NewRows([]string{"payments", "revenue"}).AddRow(2, "350.00"))
		mock.ExpectQuery(`FROM users\s+WHERE role = 'decorator'`).
			WillReturnRows(sqlmock.NewRows([]string{"total", "pending"}).AddRow(4, 1))

		o, err := reports.Overview(ctx)
		require.NoError(t, err)
		assert.Equal(t, 5, o.Bookings)
		assert.Equal(t, 0, o.ByStatus["paid"])
		assert.Equal(t, 2, o.ByStatus["completed"])
		assert.True(t, o.Revenue.Equal(decimal.NewFromInt(350)))
		assert.Equal(t, 4, o.Decorators)
		assert.Equal(t, 1, o.PendingReview)
	})
}

type stubReports struct {
	demand []ServiceCount
}

func (s stubReports) BookingsByDate(context.Context, ReportFilter) ([]DateCount, error) {
	return []DateCount{}, nil
}

func (s stubReports) ServiceDemand(context.Context, ReportFilter) ([]ServiceCount, error) {
	return s.demand, nil
}

func (s stubReports) Overview(context.Context) (*Overview, error) {
	return &Overview{ByStatus: map[string]int{}}, nil
}

func TestHandler(t *testing.T) {
	newRouter := func(cfg HandlerConfig) http.Handler {
		r := chi.NewRouter()
		NewHandler(cfg).RegisterRoutes(r)
		return r
	}

	t.Run("Should serve service demand", func(t *testing.T) {
		router := newRouter(HandlerConfig{Reports: stubReports{
			demand: []ServiceCount{{Service: "Stage", Count: 3}},
		}})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/service-demand", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"service":"Stage","count":3`)
	})

	t.Run("Should serve an empty histogram as an empty array", func(t *testing.T) {
		rec := httptest.NewRecorder()
		newRouter(HandlerConfig{Reports: stubReports{}}).ServeHTTP(rec,
			httptest.NewRequest(http.MethodGet, "/bookings-histogram", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"data":[]`)
	})

	t.Run("Should reject a malformed date bound", func(t *testing.T) {
		rec := httptest.NewRecorder()
		newRouter(HandlerConfig{Reports: stubReports{}}).ServeHTTP(rec,
			httptest.NewRequest(http.MethodGet, "/bookings-histogram?from=yesterday", nil))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Should report an unhealthy broker in system stats", func(t *testing.T) {
		router := newRouter(HandlerConfig{
			Reports:    stubReports{},
			BrokerPing: func(context.Context) error { return context.DeadlineExceeded },
		})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/stats", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"broker":{"healthy":false}`)
	})
}
