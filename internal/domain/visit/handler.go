package visit

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/clinicdesk/clinicdesk/internal/platform/auth"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// writeError maps rejected payloads to 400 and store failures to 500.
func writeError(err error) *echo.HTTPError {
	if errors.Is(err, ErrInvalid) {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	staff := g.Group("", auth.RequireRole(auth.RoleDoctor, auth.RoleReceptionist))
	staff.POST("/appointments", h.StartVisit)
	staff.DELETE("/appointments/:id", h.DeleteVisit)
	staff.GET("/queue/today", h.TodayQueue)
	staff.GET("/patient-history/:id", h.PatientHistory)

	clinical := g.Group("", auth.RequireRole(auth.RoleDoctor))
	clinical.POST("/vitals", h.AttachVitals)
	clinical.POST("/clinical-notes", h.AttachNote)
	clinical.POST("/prescriptions", h.AttachPrescriptions)
}

func (h *Handler) StartVisit(c echo.Context) error {
	var a Appointment
	if err := c.Bind(&a); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.StartVisit(c.Request().Context(), &a); err != nil {
		return writeError(err)
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{
		"success":     true,
		"appointment": a,
	})
}

func (h *Handler) DeleteVisit(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid appointment id")
	}
	err = h.svc.DeleteVisit(c.Request().Context(), id)
	switch {
	case errors.Is(err, ErrVisitNotEmpty):
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"success": false,
			"message": ErrVisitNotEmpty.Error(),
		})
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, ErrNotFound.Error())
	case err != nil:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"success": true})
}

func (h *Handler) AttachVitals(c echo.Context) error {
	var v Vitals
	if err := c.Bind(&v); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.AttachVitals(c.Request().Context(), &v); err != nil {
		return writeError(err)
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{
		"success": true,
		"vitals":  v,
	})
}

func (h *Handler) AttachNote(c echo.Context) error {
	var n ClinicalNote
	if err := c.Bind(&n); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.AttachNote(c.Request().Context(), &n); err != nil {
		return writeError(err)
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{
		"success": true,
		"note":    n,
	})
}

func (h *Handler) AttachPrescriptions(c echo.Context) error {
	var items []*Prescription
	if err := c.Bind(&items); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.AttachPrescriptions(c.Request().Context(), items); err != nil {
		return writeError(err)
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{
		"success":       true,
		"prescriptions": items,
	})
}

func (h *Handler) PatientHistory(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid patient id")
	}
	entries, err := h.svc.History(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, entries)
}

func (h *Handler) TodayQueue(c echo.Context) error {
	queue, err := h.svc.TodayQueue(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, queue)
}
