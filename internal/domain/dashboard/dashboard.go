// Package dashboard serves the landing-page snapshot: today's activity, the
// day's income and the medicines running low.
package dashboard

import (
	"context"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"

	"github.com/clinic/clinic/internal/domain/inventory"
)

// RecentVisit is one row in the recent-activity list.
type RecentVisit struct {
	VisitID     int64  `json:"visit_id"`
	PatientID   int64  `json:"patient_id"`
	PatientName string `json:"patient_name"`
	Date        string `json:"date"`
}

type Stats struct {
	TodayVisits   int           `json:"today_visits"`
	TodayIncome   float64       `json:"today_income"`
	LowStockCount int           `json:"low_stock_count"`
	RecentVisits  []RecentVisit `json:"recent_visits"`
}

type Repository interface {
	Stats(ctx context.Context, today string) (*Stats, error)
}

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

func (r *repoPG) Stats(ctx context.Context, today string) (*Stats, error) {
	s := &Stats{RecentVisits: []RecentVisit{}}

	err := r.pool.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM visits WHERE date = $1::date),
			(SELECT COALESCE(SUM(amount), 0) FROM finance WHERE type = 'Income' AND date = $1::date),
			(SELECT COUNT(*) FROM inventory WHERE stock < $2)`,
		today, inventory.LowStockThreshold).
		Scan(&s.TodayVisits, &s.TodayIncome, &s.LowStockCount)
	if err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx, `
		SELECT v.id, v.patient_id, p.name, to_char(v.date, 'YYYY-MM-DD')
		FROM visits v
		JOIN patients p ON p.id = v.patient_id
		ORDER BY v.id DESC
		LIMIT 10`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var rv RecentVisit
		if err := rows.Scan(&rv.VisitID, &rv.PatientID, &rv.PatientName, &rv.Date); err != nil {
			return nil, err
		}
		s.RecentVisits = append(s.RecentVisits, rv)
	}
	return s, rows.Err()
}

type Service struct {
	stats Repository
	now   func() time.Time
}

func NewService(stats Repository) *Service {
	return &Service{stats: stats, now: time.Now}
}

func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	return s.stats.Stats(ctx, s.now().Format("2006-01-02"))
}

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/dashboard", h.GetStats)
}

func (h *Handler) GetStats(c echo.Context) error {
	stats, err := h.svc.Stats(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	return c.JSON(http.StatusOK, stats)
}
