package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

// newContextWithRoles creates an echo context with the given roles set on
// the request context.
func newContextWithRoles(method, path string, roles []string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, path, nil)
	ctx := context.WithValue(req.Context(), UserRolesKey, roles)
	req = req.WithContext(ctx)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	return c, rec
}

var passHandler = func(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

// TestRequireRole_PortalMatrix runs the portal's role matrix: patients reach
// patient endpoints, doctors reach doctor endpoints, and admin reaches both.
func TestRequireRole_PortalMatrix(t *testing.T) {
	tests := []struct {
		name      string
		userRoles []string
		required  []string
		allowed   bool
	}{
		{"patient uploads record", []string{"patient"}, []string{"patient"}, true},
		{"patient hits doctor worklist", []string{"patient"}, []string{"doctor"}, false},
		{"doctor reads worklist", []string{"doctor"}, []string{"doctor"}, true},
		{"doctor submits vitals", []string{"doctor"}, []string{"patient"}, false},
		{"either role on shared route", []string{"doctor"}, []string{"patient", "doctor"}, true},
		{"patient on shared route", []string{"patient"}, []string{"patient", "doctor"}, true},
		{"admin reaches patient routes", []string{"admin"}, []string{"patient"}, true},
		{"admin reaches doctor routes", []string{"admin"}, []string{"doctor"}, true},
		{"no roles at all", nil, []string{"patient"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newContextWithRoles(http.MethodGet, "/", tt.userRoles)
			err := RequireRole(tt.required...)(passHandler)(c)

			if tt.allowed && err != nil {
				t.Errorf("expected access, got error: %v", err)
			}
			if !tt.allowed {
				httpErr, ok := err.(*echo.HTTPError)
				if !ok {
					t.Fatalf("expected echo.HTTPError, got %v", err)
				}
				if httpErr.Code != http.StatusForbidden {
					t.Errorf("expected 403, got %d", httpErr.Code)
				}
			}
		})
	}
}

// TestRequireRole_MultipleUserRoles verifies a user carrying several roles
// passes if any one matches.
func TestRequireRole_MultipleUserRoles(t *testing.T) {
	c, _ := newContextWithRoles(http.MethodGet, "/", []string{"patient", "doctor"})
	if err := RequireRole("doctor")(passHandler)(c); err != nil {
		t.Errorf("expected access for multi-role user, got %v", err)
	}
}
