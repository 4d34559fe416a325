package oppgave

import (
	"oppgave-sync/core/logger"
	"oppgave-sync/feature/oppgave/models"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP triggers for batch runs.
type Handler struct {
	engine *Engine
}

// NewHandler creates a new HTTP handler.
func NewHandler(engine *Engine) *Handler {
	return &Handler{engine: engine}
}

// RegisterRoutes registers the batch trigger routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	app.Post("/batchupdate", h.HandleBatchUpdate)
	app.Post("/batchstore", h.HandleBatchStore)
}

// HandleBatchUpdate triggers a bulk hjemmel update. The body is optional;
// an empty body runs a real (non-dry) update with defaults, the legacy
// trigger shape.
func (h *Handler) HandleBatchUpdate(c *fiber.Ctx) error {
	l := logger.WithRayID(h.engine.logger, c)

	var req models.BatchUpdateRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			l.Warn("Invalid batch update request", zap.Error(err))
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid request body",
			})
		}
	}

	l.Info("Batch update triggered", zap.Bool("dry_run", req.DryRun))
	resp := h.engine.BulkUpdateHjemmel(c.Context(), req)
	if resp.Status == models.StatusError {
		return c.Status(fiber.StatusBadGateway).JSON(resp)
	}
	return c.JSON(resp)
}

// HandleBatchStore triggers a batch pull into the local copy store.
func (h *Handler) HandleBatchStore(c *fiber.Ctx) error {
	l := logger.WithRayID(h.engine.logger, c)

	var req models.BatchStoreRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			l.Warn("Invalid batch store request", zap.Error(err))
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid request body",
			})
		}
	}

	l.Info("Batch store triggered", zap.Bool("dry_run", req.DryRun))
	resp := h.engine.BatchStore(c.Context(), req)
	if resp.Status == models.StatusError {
		return c.Status(fiber.StatusBadGateway).JSON(resp)
	}
	return c.JSON(resp)
}
