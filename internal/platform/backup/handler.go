package backup

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/clinic/clinic/internal/platform/blobstore"
	"github.com/clinic/clinic/pkg/validation"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/backups", h.ListBackups)
	api.POST("/backups", h.CreateBackup)
	api.POST("/backups/restore", h.RestoreBackup)
}

func (h *Handler) CreateBackup(c echo.Context) error {
	info, err := h.svc.Create(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	return c.JSON(http.StatusCreated, info)
}

func (h *Handler) ListBackups(c echo.Context) error {
	infos, err := h.svc.List(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	if infos == nil {
		infos = []blobstore.Info{}
	}
	return c.JSON(http.StatusOK, infos)
}

func (h *Handler) RestoreBackup(c echo.Context) error {
	var req struct {
		Key string `json:"key"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Key == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "key is required")
	}
	if err := h.svc.Restore(c.Request().Context(), req.Key); err != nil {
		if errors.Is(err, blobstore.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "backup not found")
		}
		if validation.Is(err) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	return c.NoContent(http.StatusNoContent)
}
