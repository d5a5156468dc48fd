package observations

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/praveenreddy2005/MediExpert-HealthCare-System/internal/platform/auth"
	"github.com/praveenreddy2005/MediExpert-HealthCare-System/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	patientGroup := api.Group("", auth.RequireRole("patient"))
	patientGroup.POST("/vitals", h.RecordVitals)
	patientGroup.POST("/symptoms", h.RecordSymptoms)

	doctorGroup := api.Group("", auth.RequireRole("doctor"))
	doctorGroup.GET("/vitals", h.RecentVitals)
	doctorGroup.GET("/symptoms", h.RecentSymptoms)

	selfOrDoctor := auth.RequireRole("patient", "doctor")
	api.GET("/patients/:patientID/vitals", h.PatientVitals, selfOrDoctor)
	api.GET("/patients/:patientID/symptoms", h.PatientSymptoms, selfOrDoctor)
}

type vitalsRequest struct {
	BloodPressure string `json:"blood_pressure"`
	HeartRate     string `json:"heart_rate"`
	Temperature   string `json:"temperature"`
	Weight        string `json:"weight"`
}

func (h *Handler) RecordVitals(c echo.Context) error {
	patientID, err := auth.CurrentUserID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid subject")
	}
	var req vitalsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	v := &VitalsEntry{
		PatientID:     patientID,
		BloodPressure: req.BloodPressure,
		HeartRate:     req.HeartRate,
		Temperature:   req.Temperature,
		Weight:        req.Weight,
	}
	if err := h.svc.RecordVitals(c.Request().Context(), v); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, v)
}

type symptomsRequest struct {
	Details string `json:"details"`
}

func (h *Handler) RecordSymptoms(c echo.Context) error {
	patientID, err := auth.CurrentUserID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid subject")
	}
	var req symptomsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	e := &SymptomEntry{PatientID: patientID, Details: req.Details}
	if err := h.svc.RecordSymptoms(c.Request().Context(), e); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, e)
}

func (h *Handler) RecentVitals(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListRecentVitals(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) RecentSymptoms(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListRecentSymptoms(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) PatientVitals(c echo.Context) error {
	patientID, err := uuid.Parse(c.Param("patientID"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid patient id")
	}
	if !auth.CanAccessPatient(c, patientID) {
		return echo.NewHTTPError(http.StatusForbidden, "patients may only view their own vitals")
	}
	if c.QueryParam("latest") == "true" {
		latest, err := h.svc.LatestVitals(c.Request().Context(), patientID)
		if err != nil {
			if errors.Is(err, ErrNoEntries) {
				return echo.NewHTTPError(http.StatusNotFound, "no vitals recorded")
			}
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		return c.JSON(http.StatusOK, latest)
	}
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListVitalsByPatient(c.Request().Context(), patientID, pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) PatientSymptoms(c echo.Context) error {
	patientID, err := uuid.Parse(c.Param("patientID"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid patient id")
	}
	if !auth.CanAccessPatient(c, patientID) {
		return echo.NewHTTPError(http.StatusForbidden, "patients may only view their own symptoms")
	}
	if c.QueryParam("latest") == "true" {
		latest, err := h.svc.LatestSymptoms(c.Request().Context(), patientID)
		if err != nil {
			if errors.Is(err, ErrNoEntries) {
				return echo.NewHTTPError(http.StatusNotFound, "no symptoms recorded")
			}
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		return c.JSON(http.StatusOK, latest)
	}
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListSymptomsByPatient(c.Request().Context(), patientID, pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}
