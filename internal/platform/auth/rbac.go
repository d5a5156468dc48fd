package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// RequireRole returns middleware that checks if the user has at least one of the specified roles.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userRoles := RolesFromContext(c.Request().Context())
			for _, required := range roles {
				for _, has := range userRoles {
					if has == required || has == "admin" {
						return next(c)
					}
				}
			}
			return echo.NewHTTPError(http.StatusForbidden,
				fmt.Sprintf("required role: %s", strings.Join(roles, " or ")))
		}
	}
}

// HasRole reports whether the user carries the role. Admins implicitly hold
// every role.
func HasRole(ctx context.Context, role string) bool {
	for _, has := range RolesFromContext(ctx) {
		if has == role || has == "admin" {
			return true
		}
	}
	return false
}

// CurrentUserID parses the authenticated subject as a UUID.
func CurrentUserID(c echo.Context) (uuid.UUID, error) {
	return uuid.Parse(UserIDFromContext(c.Request().Context()))
}

// CanAccessPatient reports whether the request may read the given patient's
// data: doctors may read any patient, patients only themselves.
func CanAccessPatient(c echo.Context, patientID uuid.UUID) bool {
	ctx := c.Request().Context()
	if HasRole(ctx, "doctor") {
		return true
	}
	return UserIDFromContext(ctx) == patientID.String()
}
