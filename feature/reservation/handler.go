package reservation

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/blindermanupwork/property-management-automation-sub007/core/logger"
	"github.com/blindermanupwork/property-management-automation-sub007/feature/reservation/models"
	"github.com/blindermanupwork/property-management-automation-sub007/feature/reservation/normalize"
	"github.com/blindermanupwork/property-management-automation-sub007/feature/reservation/store"
	"github.com/blindermanupwork/property-management-automation-sub007/feature/schedule"
)

// Handler handles HTTP requests for reservations.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the reservation routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/reservations")
	group.Get("/", h.HandleList)
	group.Post("/reconcile/dry-run", h.HandleDryRunReconcile)
	group.Get("/:uid", h.HandleGet)
	group.Get("/:uid/service-line", h.HandleServiceLine)
	group.Get("/:uid/schedule", h.HandleSchedule)
	group.Post("/:uid/sync", h.HandleSync)
}

// reconcileRequest is the dry-run reconcile request body.
type reconcileRequest struct {
	Source models.Source   `json:"source"`
	Rows   []normalize.Row `json:"rows"`
}

// HandleList lists reservations, optionally filtered by source and property.
// @Summary List Reservations
// @Description List reservation records, Removed ones included.
// @Tags reservations
// @Produce json
// @Param source query string false "Source filter (itrip, evolve, ics)"
// @Param property query string false "Property ID filter"
// @Success 200 {array} models.Reservation "Reservations"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /reservations [get]
func (h *Handler) HandleList(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	scope := models.Scope{Source: models.Source(c.Query("source"))}
	if prop := c.Query("property"); prop != "" {
		scope.PropertyIDs = []string{prop}
	}

	records, err := h.service.List(c.Context(), scope)
	if err != nil {
		l.Error("Reservation listing failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(records)
}

// HandleGet returns one reservation by uid.
// @Summary Get Reservation
// @Description Get a single reservation record by its composite uid.
// @Tags reservations
// @Produce json
// @Param uid path string true "Reservation UID"
// @Success 200 {object} models.Reservation "Reservation"
// @Failure 404 {object} map[string]string "Not Found"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /reservations/{uid} [get]
func (h *Handler) HandleGet(c *fiber.Ctx) error {
	uid := c.Params("uid")
	l := logger.WithRayID(h.service.logger, c)

	res, err := h.service.Get(c.Context(), uid)
	if errors.Is(err, store.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "no reservation " + uid,
		})
	}
	if err != nil {
		l.Error("Reservation lookup failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(res)
}

// HandleDryRunReconcile plans a batch without writing.
// @Summary Dry-Run Reconcile
// @Description Classify a source batch against current state without writing.
// @Tags reservations
// @Accept json
// @Produce json
// @Param request body reconcileRequest true "Source batch"
// @Success 200 {object} map[string]any "Plan and run report"
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /reservations/reconcile/dry-run [post]
func (h *Handler) HandleDryRunReconcile(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	var req reconcileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body: " + err.Error(),
		})
	}
	if !req.Source.IsValid() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "unknown source " + string(req.Source),
		})
	}

	result, report, err := h.service.DryRunReconcile(c.Context(), req.Source, req.Rows)
	if err != nil {
		l.Error("Dry-run reconcile failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"result": result,
		"report": report,
	})
}

// HandleServiceLine renders a reservation's service line.
// @Summary Get Service Line
// @Description Render the bounded-length service line for a reservation.
// @Tags reservations
// @Produce json
// @Param uid path string true "Reservation UID"
// @Success 200 {object} map[string]string "Service line"
// @Failure 404 {object} map[string]string "Not Found"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /reservations/{uid}/service-line [get]
func (h *Handler) HandleServiceLine(c *fiber.Ctx) error {
	uid := c.Params("uid")
	l := logger.WithRayID(h.service.logger, c)

	line, err := h.service.ServiceLine(c.Context(), uid)
	if errors.Is(err, store.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "no reservation " + uid,
		})
	}
	if err != nil {
		l.Error("Service line render failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{"service_line": line})
}

// HandleSchedule computes a reservation's service window.
// @Summary Get Schedule
// @Description Compute the service window for a reservation.
// @Tags reservations
// @Produce json
// @Param uid path string true "Reservation UID"
// @Success 200 {object} schedule.Window "Service window"
// @Failure 404 {object} map[string]string "Not Found"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /reservations/{uid}/schedule [get]
func (h *Handler) HandleSchedule(c *fiber.Ctx) error {
	uid := c.Params("uid")
	l := logger.WithRayID(h.service.logger, c)

	window, err := h.service.Schedule(c.Context(), uid)
	if errors.Is(err, store.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "no reservation " + uid,
		})
	}

	var parseErr *schedule.ScheduleParseError
	if errors.As(err, &parseErr) {
		// Computed fallback window is still valid; surface the bad override.
		l.Warn("Malformed service time override", zap.String("uid", uid), zap.Error(parseErr))
		return c.JSON(fiber.Map{
			"window":  window,
			"warning": parseErr.Error(),
		})
	}
	if err != nil {
		l.Error("Schedule computation failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{"window": window})
}

// HandleSync pushes one reservation to the work-order store.
// @Summary Sync Reservation
// @Description Sync one reservation's computed state to the work-order store.
// @Tags reservations
// @Produce json
// @Param uid path string true "Reservation UID"
// @Success 200 {object} map[string]any "Sync outcome"
// @Failure 404 {object} map[string]string "Not Found"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /reservations/{uid}/sync [post]
func (h *Handler) HandleSync(c *fiber.Ctx) error {
	uid := c.Params("uid")
	l := logger.WithRayID(h.service.logger, c)

	outcome, err := h.service.Sync(c.Context(), uid)
	if errors.Is(err, store.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "no reservation " + uid,
		})
	}
	if err != nil {
		l.Error("Reservation sync failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(outcome)
}
