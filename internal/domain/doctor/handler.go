package doctor

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/medicompare/medicompare/internal/domain/hospital"
	"github.com/medicompare/medicompare/pkg/response"
)

// Handler exposes the doctor CRUD endpoints. Routes are mounted behind the
// verified-hospital guard, which puts the hospital id on the context.
type Handler struct {
	svc    *Service
	logger zerolog.Logger
}

func NewHandler(svc *Service, logger zerolog.Logger) *Handler {
	return &Handler{svc: svc, logger: logger.With().Str("component", "doctor_handler").Logger()}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.POST("/doctors", h.Create)
	g.GET("/doctors", h.List)
	g.GET("/doctors/:id", h.Get)
	g.PUT("/doctors/:id", h.Update)
	g.DELETE("/doctors/:id", h.Delete)
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

	d, err := h.svc.Create(c.Request().Context(), hospitalID, in)
	if err != nil {
		return h.writeError(c, err, "Failed to create doctor")
	}
	return response.OK(c, http.StatusCreated, d)
}

func (h *Handler) List(c echo.Context) error {
	hospitalID, ok := hospital.IDFromContext(c.Request().Context())
	if !ok {
		return response.Fail(c, http.StatusUnauthorized, "Hospital scope missing")
	}

	doctors, err := h.svc.List(c.Request().Context(), hospitalID)
	if err != nil {
		return h.writeError(c, err, "Failed to list doctors")
	}
	if doctors == nil {
		doctors = []Doctor{}
	}
	return response.List(c, http.StatusOK, len(doctors), doctors)
}

func (h *Handler) Get(c echo.Context) error {
	hospitalID, ok := hospital.IDFromContext(c.Request().Context())
	if !ok {
		return response.Fail(c, http.StatusUnauthorized, "Hospital scope missing")
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.Fail(c, http.StatusBadRequest, "Invalid doctor id")
	}

	d, err := h.svc.Get(c.Request().Context(), hospitalID, id)
	if err != nil {
		return h.writeError(c, err, "Failed to fetch doctor")
	}
	return response.OK(c, http.StatusOK, d)
}

func (h *Handler) Update(c echo.Context) error {
	hospitalID, ok := hospital.IDFromContext(c.Request().Context())
	if !ok {
		return response.Fail(c, http.StatusUnauthorized, "Hospital scope missing")
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.Fail(c, http.StatusBadRequest, "Invalid doctor id")
	}

	var in Input
	if err := c.Bind(&in); err != nil {
		return response.Fail(c, http.StatusBadRequest, "Invalid request body")
	}

	d, err := h.svc.Update(c.Request().Context(), hospitalID, id, in)
	if err != nil {
		return h.writeError(c, err, "Failed to update doctor")
	}
	return response.OK(c, http.StatusOK, d)
}

func (h *Handler) Delete(c echo.Context) error {
	hospitalID, ok := hospital.IDFromContext(c.Request().Context())
	if !ok {
		return response.Fail(c, http.StatusUnauthorized, "Hospital scope missing")
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.Fail(c, http.StatusBadRequest, "Invalid doctor id")
	}

	if err := h.svc.Delete(c.Request().Context(), hospitalID, id); err != nil {
		return h.writeError(c, err, "Failed to delete doctor")
	}
	return response.OKMessage(c, http.StatusOK, "Doctor deleted", nil)
}

func (h *Handler) writeError(c echo.Context, err error, fallback string) error {
	var v *ValidationError
	switch {
	case errors.As(err, &v):
		return response.Fail(c, http.StatusBadRequest, v.Message)
	case errors.Is(err, ErrNotFound):
		return response.Fail(c, http.StatusNotFound, "Doctor not found")
	default:
		h.logger.Error().Err(err).Msg(fallback)
		return response.Fail(c, http.StatusInternalServerError, fallback)
	}
}
