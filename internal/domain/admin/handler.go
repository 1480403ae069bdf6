package admin

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/medicompare/medicompare/internal/domain/hospital"
	"github.com/medicompare/medicompare/internal/platform/blobstore"
	"github.com/medicompare/medicompare/pkg/pagination"
	"github.com/medicompare/medicompare/pkg/response"
)

// Handler exposes the admin review endpoints. Routes are mounted behind
// the auth middleware with the ADMIN role required.
type Handler struct {
	svc    *Service
	logger zerolog.Logger
}

func NewHandler(svc *Service, logger zerolog.Logger) *Handler {
	return &Handler{svc: svc, logger: logger.With().Str("component", "admin_handler").Logger()}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("/hospitals/pending", h.ListPending)
	g.GET("/hospitals/:id/document", h.Document)
	g.PATCH("/hospitals/:id/verify", h.Verify)
	g.PATCH("/hospitals/:id/reject", h.Reject)
}

// pendingPage wraps the queue with pagination info.
type pendingPage struct {
	Hospitals  []hospital.PendingHospital `json:"hospitals"`
	Total      int                        `json:"total"`
	NextOffset *int                       `json:"next_offset,omitempty"`
}

func (h *Handler) ListPending(c echo.Context) error {
	p := pagination.FromContext(c)
	hospitals, total, err := h.svc.ListPending(c.Request().Context(), p)
	if err != nil {
		h.logger.Error().Err(err).Msg("listing pending hospitals failed")
		return response.Fail(c, http.StatusInternalServerError, "Failed to fetch pending hospitals")
	}
	if hospitals == nil {
		hospitals = []hospital.PendingHospital{}
	}
	page := pendingPage{Hospitals: hospitals, Total: total}
	if p.HasNext(total) {
		next := p.NextOffset()
		page.NextOffset = &next
	}
	return response.List(c, http.StatusOK, len(hospitals), page)
}

func (h *Handler) Verify(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.Fail(c, http.StatusBadRequest, "Invalid hospital id")
	}

	err = h.svc.Verify(c.Request().Context(), id)
	var transition *TransitionError
	switch {
	case errors.Is(err, hospital.ErrNotFound):
		return response.Fail(c, http.StatusNotFound, "Hospital not found")
	case errors.As(err, &transition):
		return response.Fail(c, http.StatusConflict,
			"Hospital cannot be verified (current status: "+transition.Current+")")
	case err != nil:
		h.logger.Error().Err(err).Msg("verifying hospital failed")
		return response.Fail(c, http.StatusInternalServerError, "Failed to verify hospital")
	}
	return response.OKMessage(c, http.StatusOK, "Hospital successfully verified", nil)
}

type rejectInput struct {
	Reason string `json:"reason"`
}

func (h *Handler) Reject(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.Fail(c, http.StatusBadRequest, "Invalid hospital id")
	}

	var in rejectInput
	// The body is optional; a bare PATCH rejects without a reason.
	_ = c.Bind(&in)

	err = h.svc.Reject(c.Request().Context(), id, in.Reason)
	var transition *TransitionError
	switch {
	case errors.Is(err, hospital.ErrNotFound):
		return response.Fail(c, http.StatusNotFound, "Hospital not found")
	case errors.As(err, &transition):
		return response.Fail(c, http.StatusConflict,
			"Hospital cannot be rejected (current status: "+transition.Current+")")
	case err != nil:
		h.logger.Error().Err(err).Msg("rejecting hospital failed")
		return response.Fail(c, http.StatusInternalServerError, "Failed to reject hospital")
	}
	return response.OKMessage(c, http.StatusOK, "Hospital request has been rejected", nil)
}

func (h *Handler) Document(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.Fail(c, http.StatusBadRequest, "Invalid hospital id")
	}

	content, meta, err := h.svc.Document(c.Request().Context(), id)
	switch {
	case errors.Is(err, hospital.ErrNotFound):
		return response.Fail(c, http.StatusNotFound, "Hospital not found")
	case errors.Is(err, blobstore.ErrDocumentNotFound):
		return response.Fail(c, http.StatusNotFound, "Verification document not found")
	case err != nil:
		h.logger.Error().Err(err).Msg("fetching verification document failed")
		return response.Fail(c, http.StatusInternalServerError, "Failed to fetch document")
	}
	defer content.Close()

	c.Response().Header().Set("Content-Disposition", `inline; filename="`+meta.FileName+`"`)
	return c.Stream(http.StatusOK, meta.ContentType, content)
}
