package visit

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/clinic/clinic/internal/domain/inventory"
	"github.com/clinic/clinic/internal/domain/patient"
	"github.com/clinic/clinic/pkg/validation"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/visits", h.RecordVisit)
	api.GET("/visits/:id", h.GetVisit)
	api.GET("/patients/:id/visits", h.PatientHistory)
	api.GET("/patients/:id/record", h.PatientRecord)
}

func parseID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return id, nil
}

func (h *Handler) RecordVisit(c echo.Context) error {
	var draft Draft
	if err := c.Bind(&draft); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	receipt, err := h.svc.Record(c.Request().Context(), &draft)
	if err != nil {
		switch {
		case errors.Is(err, patient.ErrPatientNotFound):
			return echo.NewHTTPError(http.StatusBadRequest, "patient not found")
		case errors.Is(err, inventory.ErrItemNotFound):
			return echo.NewHTTPError(http.StatusBadRequest, "medicine not found")
		case errors.Is(err, inventory.ErrInsufficientStock):
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		case validation.Is(err):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
		}
	}
	return c.JSON(http.StatusCreated, receipt)
}

func (h *Handler) GetVisit(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	v, err := h.svc.GetVisit(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, ErrVisitNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "visit not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	return c.JSON(http.StatusOK, v)
}

func (h *Handler) PatientHistory(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	visits, err := h.svc.History(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, patient.ErrPatientNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "patient not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	if visits == nil {
		visits = []*Visit{}
	}
	return c.JSON(http.StatusOK, visits)
}

func (h *Handler) PatientRecord(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	record, err := h.svc.FullRecord(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, patient.ErrPatientNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "patient not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	return c.JSON(http.StatusOK, record)
}
