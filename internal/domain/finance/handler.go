package finance

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/clinic/clinic/pkg/validation"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/finance", h.ListEntries)
	api.POST("/finance", h.CreateEntry)
	api.DELETE("/finance/:id", h.DeleteEntry)
	api.GET("/finance/summary", h.Summarize)
}

// filterFromQuery accepts explicit from/to dates, a date=YYYY-MM-DD shorthand
// for a single day, or a month=YYYY-MM shorthand covering that calendar month.
func filterFromQuery(c echo.Context) (Filter, error) {
	f := Filter{
		Type: c.QueryParam("type"),
		From: c.QueryParam("from"),
		To:   c.QueryParam("to"),
	}
	if date := c.QueryParam("date"); date != "" {
		f.From = date
		f.To = date
	}
	if month := c.QueryParam("month"); month != "" {
		start, err := time.Parse("2006-01", month)
		if err != nil {
			return Filter{}, echo.NewHTTPError(http.StatusBadRequest, "invalid month")
		}
		f.From = start.Format("2006-01-02")
		f.To = start.AddDate(0, 1, -1).Format("2006-01-02")
	}
	return f, nil
}

func (h *Handler) CreateEntry(c echo.Context) error {
	var e Entry
	if err := c.Bind(&e); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.CreateEntry(c.Request().Context(), &e); err != nil {
		if validation.Is(err) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	return c.JSON(http.StatusCreated, e)
}

func (h *Handler) DeleteEntry(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.DeleteEntry(c.Request().Context(), id); err != nil {
		if errors.Is(err, ErrEntryNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "entry not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) ListEntries(c echo.Context) error {
	f, err := filterFromQuery(c)
	if err != nil {
		return err
	}
	entries, err := h.svc.ListEntries(c.Request().Context(), f)
	if err != nil {
		if validation.Is(err) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	if entries == nil {
		entries = []*Entry{}
	}
	return c.JSON(http.StatusOK, entries)
}

func (h *Handler) Summarize(c echo.Context) error {
	f, err := filterFromQuery(c)
	if err != nil {
		return err
	}
	summary, err := h.svc.Summarize(c.Request().Context(), f)
	if err != nil {
		if validation.Is(err) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	return c.JSON(http.StatusOK, summary)
}
