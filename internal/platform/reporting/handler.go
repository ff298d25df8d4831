package reporting

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/clinic/clinic/internal/domain/patient"
	"github.com/clinic/clinic/internal/domain/visit"
	"github.com/clinic/clinic/internal/platform/blobstore"
)

// Handler streams generated PDFs and archives a copy in the blob store.
type Handler struct {
	visits *visit.Service
	gen    *Generator
	store  blobstore.Store
	log    zerolog.Logger
}

func NewHandler(visits *visit.Service, gen *Generator, store blobstore.Store, log zerolog.Logger) *Handler {
	return &Handler{visits: visits, gen: gen, store: store, log: log}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/visits/:id/prescription.pdf", h.PrescriptionPDF)
	api.GET("/patients/:id/record.pdf", h.PatientRecordPDF)
}

func parseID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return id, nil
}

func (h *Handler) PrescriptionPDF(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	detail, err := h.visits.GetDetail(ctx, id)
	if err != nil {
		if errors.Is(err, visit.ErrVisitNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "visit not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	withRx, err := h.visits.GetVisit(ctx, id)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	data, err := h.gen.Prescription(detail, withRx.Prescriptions)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	h.archive(c, fmt.Sprintf("reports/prescription-%d.pdf", id), data)
	return c.Blob(http.StatusOK, "application/pdf", data)
}

func (h *Handler) PatientRecordPDF(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	record, err := h.visits.FullRecord(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, patient.ErrPatientNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "patient not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	data, err := h.gen.PatientRecord(record)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	h.archive(c, fmt.Sprintf("reports/patient-record-%d.pdf", id), data)
	return c.Blob(http.StatusOK, "application/pdf", data)
}

// archive keeps a copy of the generated report. Failures are logged, not
// surfaced: the download already succeeded.
func (h *Handler) archive(c echo.Context, key string, data []byte) {
	if _, err := h.store.Put(c.Request().Context(), key, bytes.NewReader(data)); err != nil {
		h.log.Warn().Err(err).Str("key", key).Msg("failed to archive report")
	}
}
