// AngelaMos | 2026
// handler.go

package admin

import (
	"context"
	"database/sql"
	"net/http"
	"runtime"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"github.com/carterperez-dev/decorbook/internal/core"
)

type Handler struct {
	reports    Reports
	dbStats    func() sql.DBStats
	redisStats func() *redis.PoolStats
	redisPing  func(ctx context.Context) error
	dbPing     func(ctx context.Context) error
	brokerPing func(ctx context.Context) error
}

type HandlerConfig struct {
	Reports    Reports
	DBStats    func() sql.DBStats
	RedisStats func() *redis.PoolStats
	RedisPing  func(ctx context.Context) error
	DBPing     func(ctx context.Context) error
	BrokerPing func(ctx context.Context) error
}

func NewHandler(cfg HandlerConfig) *Handler {
	return &Handler{
		reports:    cfg.Reports,
		dbStats:    cfg.DBStats,
		redisStats: cfg.RedisStats,
		redisPing:  cfg.RedisPing,
		dbPing:     cfg.DBPing,
		brokerPing: cfg.BrokerPing,
	}
}

// RegisterRoutes expects r to be mounted under /admin behind the admin
// guard.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/bookings-histogram", h.BookingsHistogram)
	r.Get("/service-demand", h.ServiceDemand)
	r.Get("/overview", h.Overview)

	r.Get("/stats", h.GetSystemStats)
	r.Get("/stats/db", h.GetDatabaseStats)
	r.Get("/stats/redis", h.GetRedisStats)
	r.Get("/stats/runtime", h.GetRuntimeStats)
}

func reportFilter(r *http.Request) (ReportFilter, bool) {
	var filter ReportFilter
	q := r.URL.Query()

	for key, dst := range map[string]**time.Time{"from": &filter.From, "to": &filter.To} {
		raw := q.Get(key)
		if raw == "" {
			continue
		}
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return filter, false
		}
		*dst = &t
	}

	return filter, true
}

func (h *Handler) BookingsHistogram(w http.ResponseWriter, r *http.Request) {
	filter, ok := reportFilter(r)
	if !ok {
		core.BadRequest(w, "from and to must be YYYY-MM-DD")
		return
	}

	out, err := h.reports.BookingsByDate(r.Context(), filter)
	if err != nil {
		core.HandleError(w, err, "report")
		return
	}

	core.OK(w, out)
}

func (h *Handler) ServiceDemand(w http.ResponseWriter, r *http.Request) {
	filter, ok := reportFilter(r)
	if !ok {
		core.BadRequest(w, "from and to must be YYYY-MM-DD")
		return
	}

	out, err := h.reports.ServiceDemand(r.Context(), filter)
	if err != nil {
		core.HandleError(w, err, "report")
		return
	}

	core.OK(w, out)
}

func (h *Handler) Overview(w http.ResponseWriter, r *http.Request) {
	out, err := h.reports.Overview(r.Context())
	if err != nil {
		core.HandleError(w, err, "report")
		return
	}

	core.OK(w, out)
}

func (h *Handler) GetSystemStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	response := SystemStatsResponse{
		Database: DatabaseStatus{
			Healthy: pingOK(ctx, h.dbPing),
			Stats:   h.getDBStats(),
		},
		Redis: RedisStatus{
			Healthy: pingOK(ctx, h.redisPing),
			Stats:   h.getRedisStats(),
		},
		Runtime: readRuntimeStats(),
	}

	if h.brokerPing != nil {
		healthy := pingOK(ctx, h.brokerPing)
		response.Broker = &BrokerStatus{Healthy: healthy}
	}

	core.OK(w, response)
}

func (h *Handler) GetDatabaseStats(w http.ResponseWriter, r *http.Request) {
	core.OK(w, h.getDBStats())
}

func (h *Handler) GetRedisStats(w http.ResponseWriter, r *http.Request) {
	core.OK(w, h.getRedisStats())
}

func (h *Handler) GetRuntimeStats(w http.ResponseWriter, r *http.Request) {
	core.OK(w, readRuntimeStats())
}

func pingOK(ctx context.Context, ping func(ctx context.Context) error) bool {
	if ping == nil {
		return true
	}
	return ping(ctx) == nil
}

func readRuntimeStats() RuntimeStats {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	return RuntimeStats{
		GoVersion:    runtime.Version(),
		NumGoroutine: runtime.NumGoroutine(),
		NumCPU:       runtime.NumCPU(),
		MemAlloc:     memStats.Alloc,
		MemSys:       memStats.Sys,
		NumGC:        memStats.NumGC,
	}
}

func (h *Handler) getDBStats() *DBPoolStats {
	if h.dbStats == nil {
		return nil
	}

	stats := h.dbStats()
	return &DBPoolStats{
		MaxOpenConnections: stats.MaxOpenConnections,
		OpenConnections:    stats.OpenConnections,
		InUse:              stats.InUse,
		Idle:               stats.Idle,
		WaitCount:          stats.WaitCount,
		WaitDuration:       stats.WaitDuration.String(),
		MaxIdleClosed:      stats.MaxIdleClosed,
		MaxIdleTimeClosed:  stats.MaxIdleTimeClosed,
		MaxLifetimeClosed:  stats.MaxLifetimeClosed,
	}
}

func (h *Handler) getRedisStats() *RedisPoolStats {
	if h.redisStats == nil {
		return nil
	}

	stats := h.redisStats()
	return &RedisPoolStats{
		Hits:       stats.Hits,
		Misses:     stats.Misses,
		Timeouts:   stats.Timeouts,
		TotalConns: stats.TotalConns,
		IdleConns:  stats.IdleConns,
		StaleConns: stats.StaleConns,
	}
}
