package review

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/praveenreddy2005/MediExpert-HealthCare-System/internal/domain/records"
	"github.com/praveenreddy2005/MediExpert-HealthCare-System/internal/platform/auth"
)

type Handler struct {
	agg *Aggregator
}

func NewHandler(agg *Aggregator) *Handler {
	return &Handler{agg: agg}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	doctorGroup := api.Group("", auth.RequireRole("doctor"))
	doctorGroup.GET("/records/:id/summary", h.Summarize)
	doctorGroup.POST("/records/:id/review", h.Finalize)
}

func (h *Handler) Summarize(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	doctorID, err := auth.CurrentUserID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid subject")
	}
	sum, err := h.agg.Summarize(c.Request().Context(), id, doctorID)
	if err != nil {
		if errors.Is(err, records.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "record not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, sum)
}

func (h *Handler) Finalize(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	doctorID, err := auth.CurrentUserID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid subject")
	}
	var rev records.Review
	if err := c.Bind(&rev); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	rec, err := h.agg.Finalize(c.Request().Context(), id, doctorID, rev)
	if err != nil {
		switch {
		case errors.Is(err, records.ErrRecordNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "record not found")
		case errors.Is(err, records.ErrAlreadyReviewed):
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		default:
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
	}
	return c.JSON(http.StatusOK, rec)
}
