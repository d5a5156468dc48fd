package records

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
	patientGroup.POST("/records/xray", h.UploadXray)
	patientGroup.POST("/records/ecg", h.UploadECG)
	patientGroup.DELETE("/records/:id", h.DeleteRecord)

	doctorGroup := api.Group("", auth.RequireRole("doctor"))
	doctorGroup.GET("/records", h.Worklist)
	doctorGroup.GET("/records/:id", h.GetRecord)

	api.GET("/patients/:patientID/records", h.PatientHistory, auth.RequireRole("patient", "doctor"))
}

func (h *Handler) UploadXray(c echo.Context) error {
	patientID, err := auth.CurrentUserID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid subject")
	}
	fh, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "file is required")
	}
	src, err := fh.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	defer src.Close()

	rec, err := h.svc.UploadXray(c.Request().Context(), patientID,
		auth.UserNameFromContext(c.Request().Context()), fh.Filename, src, c.FormValue("symptoms"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	}
	return c.JSON(http.StatusCreated, rec)
}

func (h *Handler) UploadECG(c echo.Context) error {
	patientID, err := auth.CurrentUserID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid subject")
	}
	fh, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "file is required")
	}
	src, err := fh.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	defer src.Close()

	rec, err := h.svc.UploadECG(c.Request().Context(), patientID,
		auth.UserNameFromContext(c.Request().Context()), fh.Filename, src)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	}
	return c.JSON(http.StatusCreated, rec)
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

func (h *Handler) GetRecord(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	doctorID, err := auth.CurrentUserID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid subject")
	}
	rec, err := h.svc.GetForDoctor(c.Request().Context(), id, doctorID)
	if err != nil {
		if errors.Is(err, ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "record not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, rec)
}

func (h *Handler) PatientHistory(c echo.Context) error {
	patientID, err := uuid.Parse(c.Param("patientID"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid patient id")
	}
	if !auth.CanAccessPatient(c, patientID) {
		return echo.NewHTTPError(http.StatusForbidden, "patients may only view their own records")
	}
	pg := pagination.FromContext(c)
	items, total, err := h.svc.PatientHistory(c.Request().Context(), patientID, pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) DeleteRecord(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	patientID, err := auth.CurrentUserID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid subject")
	}
	if err := h.svc.DeletePending(c.Request().Context(), id, patientID); err != nil {
		switch {
		case errors.Is(err, ErrRecordNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "record not found")
		case errors.Is(err, ErrNotDeletable):
			return echo.NewHTTPError(http.StatusConflict, "only your own pending records can be deleted")
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}
	return c.NoContent(http.StatusNoContent)
}
