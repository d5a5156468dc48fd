package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

func contextWithRoles(roles ...string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	ctx := context.WithValue(req.Context(), UserRolesKey, roles)
	req = req.WithContext(ctx)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec)
}

func TestRequireRole_Allowed(t *testing.T) {
	c := contextWithRoles("doctor")

	handler := func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	}

	mw := RequireRole("doctor", "nurse")
	h := mw(handler)
	if err := h(c); err != nil {
		t.Errorf("expected no error, got %v", err)
	}
}

func TestRequireRole_Denied(t *testing.T) {
	c := contextWithRoles("patient")

	handler := func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	}

	mw := RequireRole("doctor")
	h := mw(handler)
	err := h(c)

	if err == nil {
		t.Error("expected error for unauthorized role")
	}
	httpErr, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected echo.HTTPError, got %T", err)
	}
	if httpErr.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", httpErr.Code)
	}
}

func TestRequireRole_AdminBypass(t *testing.T) {
	c := contextWithRoles("admin")

	handler := func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	}

	mw := RequireRole("doctor")
	h := mw(handler)
	if err := h(c); err != nil {
		t.Error("admin should bypass role checks")
	}
}

func TestHasRole(t *testing.T) {
	ctx := context.WithValue(context.Background(), UserRolesKey, []string{"patient"})
	if !HasRole(ctx, "patient") {
		t.Error("expected patient role")
	}
	if HasRole(ctx, "doctor") {
		t.Error("patient must not hold doctor role")
	}

	adminCtx := context.WithValue(context.Background(), UserRolesKey, []string{"admin"})
	if !HasRole(adminCtx, "doctor") {
		t.Error("admin implicitly holds every role")
	}
}

func TestCurrentUserID(t *testing.T) {
	e := echo.New()
	userID := uuid.New()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	ctx := context.WithValue(req.Context(), UserIDKey, userID.String())
	c := e.NewContext(req.WithContext(ctx), httptest.NewRecorder())

	got, err := CurrentUserID(c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != userID {
		t.Errorf("expected %s, got %s", userID, got)
	}

	// Unauthenticated or malformed subjects fail to parse.
	bare := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	if _, err := CurrentUserID(bare); err == nil {
		t.Error("expected error for missing subject")
	}
}

func TestCanAccessPatient(t *testing.T) {
	e := echo.New()
	patientID := uuid.New()

	makeCtx := func(userID string, roles []string) echo.Context {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		ctx := context.WithValue(req.Context(), UserIDKey, userID)
		ctx = context.WithValue(ctx, UserRolesKey, roles)
		return e.NewContext(req.WithContext(ctx), httptest.NewRecorder())
	}

	if !CanAccessPatient(makeCtx(uuid.New().String(), []string{"doctor"}), patientID) {
		t.Error("doctors may read any patient")
	}
	if !CanAccessPatient(makeCtx(patientID.String(), []string{"patient"}), patientID) {
		t.Error("patients may read their own data")
	}
	if CanAccessPatient(makeCtx(uuid.New().String(), []string{"patient"}), patientID) {
		t.Error("patients must not read other patients")
	}
}

func TestDevAuthMiddleware(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := func(c echo.Context) error {
		uid := UserIDFromContext(c.Request().Context())
		roles := RolesFromContext(c.Request().Context())
		if uid != devUserID {
			t.Errorf("expected %s, got %s", devUserID, uid)
		}
		if _, err := uuid.Parse(uid); err != nil {
			t.Errorf("dev user id must parse as a UUID: %v", err)
		}
		if len(roles) != 1 || roles[0] != "admin" {
			t.Errorf("expected [admin] roles, got %v", roles)
		}
		return c.String(http.StatusOK, "ok")
	}

	mw := DevAuthMiddleware()
	h := mw(handler)
	if err := h(c); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestUserIDFromContext(t *testing.T) {
	ctx := context.WithValue(context.Background(), UserIDKey, "user-123")
	if uid := UserIDFromContext(ctx); uid != "user-123" {
		t.Errorf("expected user-123, got %s", uid)
	}

	if empty := UserIDFromContext(context.Background()); empty != "" {
		t.Errorf("expected empty string, got %s", empty)
	}
}
