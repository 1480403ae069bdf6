package hospital

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/medicompare/medicompare/internal/platform/auth"
	"github.com/medicompare/medicompare/internal/platform/blobstore"
	"github.com/medicompare/medicompare/pkg/response"
)

// Handler exposes hospital onboarding and the public directory.
type Handler struct {
	svc    *Service
	logger zerolog.Logger
}

func NewHandler(svc *Service, logger zerolog.Logger) *Handler {
	return &Handler{svc: svc, logger: logger.With().Str("component", "hospital_handler").Logger()}
}

// RegisterRoutes mounts the public hospital endpoints on api.
func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/auth/hospital/register", h.Register)
	api.GET("/hospitals/locations", h.Locations)
}

// RegisterProfileRoutes mounts the hospital-scoped profile endpoint.
func (h *Handler) RegisterProfileRoutes(g *echo.Group) {
	g.GET("/hospitals/me", h.Me)
}

// Register handles the multipart onboarding request. The request carries
// the hospital fields plus a verification document under "document".
func (h *Handler) Register(c echo.Context) error {
	lng, lngErr := strconv.ParseFloat(c.FormValue("longitude"), 64)
	lat, latErr := strconv.ParseFloat(c.FormValue("latitude"), 64)
	if lngErr != nil || latErr != nil {
		return response.Fail(c, http.StatusBadRequest, "Longitude and latitude must be valid numbers")
	}

	fileHeader, err := c.FormFile("document")
	if err != nil {
		return response.Fail(c, http.StatusBadRequest, "Verification document is required")
	}
	file, err := fileHeader.Open()
	if err != nil {
		return response.Fail(c, http.StatusBadRequest, "Verification document could not be read")
	}
	defer file.Close()

	in := RegisterInput{
		HospitalName:        c.FormValue("hospitalName"),
		Email:               c.FormValue("email"),
		Password:            c.FormValue("password"),
		Phone:               c.FormValue("phone"),
		Address:             c.FormValue("address"),
		Longitude:           lng,
		Latitude:            lat,
		DocumentName:        fileHeader.Filename,
		DocumentContentType: fileHeader.Header.Get(echo.HeaderContentType),
		Document:            file,
	}

	hosp, err := h.svc.Register(c.Request().Context(), in)
	switch {
	case errors.Is(err, ErrValidation):
		return response.Fail(c, http.StatusBadRequest, "All hospital fields and a verification document are required")
	case errors.Is(err, ErrDuplicate):
		return response.Fail(c, http.StatusConflict, "Hospital already exists")
	case errors.Is(err, blobstore.ErrInvalidContentType):
		return response.Fail(c, http.StatusBadRequest, "Document must be a PDF, PNG or JPEG")
	case errors.Is(err, blobstore.ErrFileTooLarge):
		return response.Fail(c, http.StatusRequestEntityTooLarge, "Document exceeds the maximum allowed size")
	case err != nil:
		h.logger.Error().Err(err).Msg("hospital registration failed")
		return response.Fail(c, http.StatusInternalServerError, "Failed to register hospital")
	}

	return response.OKMessage(c, http.StatusCreated,
		"Hospital registered. Verification is pending review", hosp)
}

// Locations serves the public map listing of verified hospitals.
func (h *Handler) Locations(c echo.Context) error {
	locations, err := h.svc.Locations(c.Request().Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("listing hospital locations failed")
		return response.Fail(c, http.StatusInternalServerError, "Failed to fetch hospitals")
	}
	if locations == nil {
		locations = []Location{}
	}
	return response.List(c, http.StatusOK, len(locations), locations)
}

// Me returns the caller's own hospital profile.
func (h *Handler) Me(c echo.Context) error {
	userID := auth.UserIDFromContext(c.Request().Context())
	hosp, err := h.svc.ForOwner(c.Request().Context(), userID)
	if errors.Is(err, ErrNotFound) {
		return response.Fail(c, http.StatusNotFound, "Hospital profile not found")
	}
	if err != nil {
		return response.Fail(c, http.StatusInternalServerError, "Failed to fetch hospital")
	}
	return response.OK(c, http.StatusOK, hosp)
}
