package hospital

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/medicompare/medicompare/internal/platform/auth"
	"github.com/medicompare/medicompare/pkg/response"
)

type contextKey string

// HospitalIDKey holds the resolved hospital id for hospital-scoped routes.
const HospitalIDKey contextKey = "hospital_id"

// RequireVerified resolves the caller's hospital and rejects the request
// unless it is VERIFIED. Runs after the auth middleware, so the user id is
// already on the context. The hospital id is placed on the request context
// for downstream handlers.
func RequireVerified(svc *Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userID := auth.UserIDFromContext(c.Request().Context())
			if userID == uuid.Nil {
				return response.Fail(c, http.StatusUnauthorized, "Authentication required")
			}

			h, err := svc.ForOwner(c.Request().Context(), userID)
			if errors.Is(err, ErrNotFound) {
				return response.Fail(c, http.StatusNotFound, "Hospital profile not found")
			}
			if err != nil {
				return response.Fail(c, http.StatusInternalServerError, "Failed to resolve hospital")
			}
			if h.Status != StatusVerified {
				return response.Fail(c, http.StatusForbidden, "Hospital is not verified")
			}

			ctx := context.WithValue(c.Request().Context(), HospitalIDKey, h.ID)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

// IDFromContext returns the hospital id placed on ctx by RequireVerified.
func IDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(HospitalIDKey).(uuid.UUID)
	return id, ok
}
