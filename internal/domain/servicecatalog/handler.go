package servicecatalog

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/medicompare/medicompare/internal/domain/hospital"
	"github.com/medicompare/medicompare/pkg/response"
)

// Handler exposes the catalog CRUD endpoints. Routes are mounted behind
// the verified-hospital guard.
type Handler struct {
	svc    *Service
	logger zerolog.Logger
}

func NewHandler(svc *Service, logger zerolog.Logger) *Handler {
	return &Handler{svc: svc, logger: logger.With().Str("component", "servicecatalog_handler").Logger()}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.POST("/services", h.Create)
	g.GET("/services", h.List)
	g.GET("/services/:id", h.Get)
	g.PUT("/services/:id", h.Update)
	g.DELETE("/services/:id", h.Delete)
}

func (h *Handler) Create(c echo.Context) error {
	hospitalID, ok := hospital.IDFromContext(c.Request().Context())
	if !ok {
		return response.Fail(c, http.StatusUnauthorized, "Hospital scope missing")
	}

	var in Input
	if err := c.Bind(&in); err != nil {
		return response.Fail(c, http.StatusBadRequest, "Invalid request body")
	}

	hs, err := h.svc.Create(c.Request().Context(), hospitalID, in)
	if err != nil {
		return h.writeError(c, err, "Failed to create service")
	}
	return response.OKMessage(c, http.StatusCreated, "Service added successfully", hs)
}

func (h *Handler) List(c echo.Context) error {
	hospitalID, ok := hospital.IDFromContext(c.Request().Context())
	if !ok {
		return response.Fail(c, http.StatusUnauthorized, "Hospital scope missing")
	}

	services, err := h.svc.ListActive(c.Request().Context(), hospitalID)
	if err != nil {
		return h.writeError(c, err, "Failed to fetch services")
	}
	if services == nil {
		services = []HospitalService{}
	}
	return response.List(c, http.StatusOK, len(services), services)
}

func (h *Handler) Get(c echo.Context) error {
	hospitalID, ok := hospital.IDFromContext(c.Request().Context())
	if !ok {
		return response.Fail(c, http.StatusUnauthorized, "Hospital scope missing")
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.Fail(c, http.StatusBadRequest, "Invalid service id")
	}

	hs, err := h.svc.Get(c.Request().Context(), hospitalID, id)
	if err != nil {
		return h.writeError(c, err, "Failed to fetch service")
	}
	return response.OK(c, http.StatusOK, hs)
}

func (h *Handler) Update(c echo.Context) error {
	hospitalID, ok := hospital.IDFromContext(c.Request().Context())
	if !ok {
		return response.Fail(c, http.StatusUnauthorized, "Hospital scope missing")
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.Fail(c, http.StatusBadRequest, "Invalid service id")
	}

	var in Input
	if err := c.Bind(&in); err != nil {
		return response.Fail(c, http.StatusBadRequest, "Invalid request body")
	}

	hs, err := h.svc.Update(c.Request().Context(), hospitalID, id, in)
	if err != nil {
		return h.writeError(c, err, "Failed to update service")
	}
	return response.OKMessage(c, http.StatusOK, "Service updated successfully", hs)
}

func (h *Handler) Delete(c echo.Context) error {
	hospitalID, ok := hospital.IDFromContext(c.Request().Context())
	if !ok {
		return response.Fail(c, http.StatusUnauthorized, "Hospital scope missing")
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.Fail(c, http.StatusBadRequest, "Invalid service id")
	}

	if err := h.svc.Deactivate(c.Request().Context(), hospitalID, id); err != nil {
		return h.writeError(c, err, "Failed to delete service")
	}
	return response.OKMessage(c, http.StatusOK, "Service disabled successfully", nil)
}

func (h *Handler) writeError(c echo.Context, err error, fallback string) error {
	switch {
	case errors.Is(err, ErrValidation):
		return response.Fail(c, http.StatusBadRequest, "LOINC code, display name and a non-negative price are required")
	case errors.Is(err, ErrDuplicateCode):
		return response.Fail(c, http.StatusConflict, "Service already exists for this hospital")
	case errors.Is(err, ErrNotFound):
		return response.Fail(c, http.StatusNotFound, "Service not found")
	default:
		h.logger.Error().Err(err).Msg(fallback)
		return response.Fail(c, http.StatusInternalServerError, fallback)
	}
}
