package identity

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/medicompare/medicompare/pkg/response"
)

// Handler exposes the register and login endpoints.
type Handler struct {
	svc    *Service
	logger zerolog.Logger
}

func NewHandler(svc *Service, logger zerolog.Logger) *Handler {
	return &Handler{svc: svc, logger: logger.With().Str("component", "identity_handler").Logger()}
}

// RegisterRoutes mounts the public auth endpoints on api.
func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/auth/register", h.Register)
	api.POST("/auth/login", h.Login)
}

// authPayload is the data object returned by both auth endpoints.
type authPayload struct {
	Token string     `json:"token"`
	User  PublicUser `json:"user"`
}

func (h *Handler) Register(c echo.Context) error {
	var in RegisterInput
	if err := c.Bind(&in); err != nil {
		return response.Fail(c, http.StatusBadRequest, "Invalid request body")
	}

	u, token, err := h.svc.Register(c.Request().Context(), in)
	switch {
	case errors.Is(err, ErrValidation):
		return response.Fail(c, http.StatusBadRequest, "Name, email and password are required")
	case errors.Is(err, ErrDuplicateEmail):
		return response.Fail(c, http.StatusConflict, "User already exists")
	case err != nil:
		h.logger.Error().Err(err).Msg("register failed")
		return response.Fail(c, http.StatusInternalServerError, "Failed to create user")
	}

	h.logger.Info().Str("user_id", u.ID.String()).Msg("user registered")
	return response.OKMessage(c, http.StatusCreated, "New user created", authPayload{Token: token, User: u.Public()})
}

type loginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) Login(c echo.Context) error {
	var in loginInput
	if err := c.Bind(&in); err != nil {
		return response.Fail(c, http.StatusBadRequest, "Invalid request body")
	}

	u, token, err := h.svc.Login(c.Request().Context(), in.Email, in.Password)
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		return response.Fail(c, http.StatusUnauthorized, "Invalid email or password")
	case errors.Is(err, ErrHospitalNotVerified):
		return response.Fail(c, http.StatusForbidden, "Hospital account is pending verification")
	case errors.Is(err, ErrAccountDisabled):
		return response.Fail(c, http.StatusForbidden, "Account is disabled")
	case err != nil:
		h.logger.Error().Err(err).Msg("login failed")
		return response.Fail(c, http.StatusInternalServerError, "Failed to log in")
	}

	return response.OKMessage(c, http.StatusOK, "Login successful", authPayload{Token: token, User: u.Public()})
}
