package loinc

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/medicompare/medicompare/pkg/response"
)

// Handler exposes the LOINC search endpoint.
type Handler struct {
	svc    *Service
	logger zerolog.Logger
}

// NewHandler creates a LOINC search handler.
func NewHandler(svc *Service, logger zerolog.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// RegisterRoutes registers the search route on an authenticated group.
func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/loinc/search", h.Search)
}

// Search handles GET /api/v1/loinc/search?q=...&category=...
func (h *Handler) Search(c echo.Context) error {
	results, err := h.svc.Search(c.Request().Context(), c.QueryParam("q"), c.QueryParam("category"))
	if err != nil {
		switch {
		case errors.Is(err, ErrQueryTooShort),
			errors.Is(err, ErrCategoryRequired),
			errors.Is(err, ErrInvalidCategory):
			return response.Fail(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, ErrUpstream):
			// Full cause for operators; the caller gets a generic message.
			h.logger.Error().Err(err).
				Str("query", c.QueryParam("q")).
				Str("category", c.QueryParam("category")).
				Msg("terminology lookup failed")
			return response.Fail(c, http.StatusBadGateway, "Failed to fetch LOINC tests")
		default:
			return err
		}
	}

	if results == nil {
		results = []Result{}
	}
	return response.List(c, http.StatusOK, len(results), results)
}
