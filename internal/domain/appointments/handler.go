package appointments

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
	api.POST("/appointments", h.Book, auth.RequireRole("patient"))

	doctorGroup := api.Group("", auth.RequireRole("doctor"))
	doctorGroup.GET("/appointments", h.Worklist)
	doctorGroup.POST("/appointments/:id/schedule", h.Schedule)

	api.GET("/patients/:patientID/appointments", h.PatientAppointments, auth.RequireRole("patient", "doctor"))
}

type bookRequest struct {
	Reason        string  `json:"reason"`
	RequestedDate string  `json:"requested_date"`
	PatientEmail  *string `json:"patient_email"`
	PatientMobile *string `json:"patient_mobile"`
}

func (h *Handler) Book(c echo.Context) error {
	patientID, err := auth.CurrentUserID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid subject")
	}
	var req bookRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	a := &Appointment{
		PatientID:     patientID,
		PatientName:   auth.UserNameFromContext(c.Request().Context()),
		PatientEmail:  req.PatientEmail,
		PatientMobile: req.PatientMobile,
		Reason:        req.Reason,
		RequestedDate: req.RequestedDate,
	}
	if err := h.svc.Book(c.Request().Context(), a); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, a)
}

func (h *Handler) Worklist(c echo.Context) error {
	doctorID, err := auth.CurrentUserID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid subject")
	}
	pg := pagination.FromContext(c)
	items, total, err := h.svc.Worklist(c.Request().Context(), doctorID, pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

type scheduleRequest struct {
	ScheduledTime string `json:"scheduled_time"`
}

func (h *Handler) Schedule(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	doctorID, err := auth.CurrentUserID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid subject")
	}
	var req scheduleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	a, err := h.svc.Schedule(c.Request().Context(), id, doctorID, req.ScheduledTime)
	if err != nil {
		switch {
		case errors.Is(err, ErrAppointmentNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "appointment not found")
		case errors.Is(err, ErrAppointmentClaimed):
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		default:
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
	}
	return c.JSON(http.StatusOK, a)
}

func (h *Handler) PatientAppointments(c echo.Context) error {
	patientID, err := uuid.Parse(c.Param("patientID"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid patient id")
	}
	if !auth.CanAccessPatient(c, patientID) {
		return echo.NewHTTPError(http.StatusForbidden, "patients may only view their own appointments")
	}
	pg := pagination.FromContext(c)
	items, total, err := h.svc.PatientAppointments(c.Request().Context(), patientID, pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}
