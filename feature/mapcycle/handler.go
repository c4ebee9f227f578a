package mapcycle

import (
	"context"
	"errors"
	"sync"
	"time"

	"mapcycle-sync/core/logger"
	mc "mapcycle-sync/core/mapcycle"
	"mapcycle-sync/core/reconcile"
	"mapcycle-sync/core/steam"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for mapcycle syncs.
type Handler struct {
	service *Service
	opts    SyncOptions
	timeout time.Duration
	logger  *zap.Logger

	// mu serializes syncs so two requests never rewrite the file at once.
	mu sync.Mutex
}

// NewHandler creates a new HTTP handler syncing with the given options.
func NewHandler(service *Service, opts SyncOptions, timeout time.Duration) *Handler {
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	return &Handler{service: service, opts: opts, timeout: timeout, logger: service.logger}
}

// RegisterRoutes registers the mapcycle routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/mapcycle")
	group.Get("/plan", h.HandlePlan)
	group.Get("/duplicates", h.HandleDuplicates)
	group.Post("/sync", h.HandleSync)
}

// HandlePlan computes the changes a sync would make.
func (h *Handler) HandlePlan(c *fiber.Ctx) error {
	opts := h.opts
	opts.DryRun = true
	return h.sync(c, opts)
}

// HandleSync applies a sync. ?dry_run=true only computes it.
func (h *Handler) HandleSync(c *fiber.Ctx) error {
	opts := h.opts
	opts.DryRun = c.QueryBool("dry_run", false)
	return h.sync(c, opts)
}

// HandleDuplicates lists duplicate groups of the current mapcycle.
func (h *Handler) HandleDuplicates(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)

	groups, err := h.service.Duplicates(h.opts.Path)
	if err != nil {
		l.Error("Duplicate scan failed", zap.Error(err))
		return c.Status(statusOf(err)).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{
		"mapcycle":   h.opts.Path,
		"duplicates": groups,
	})
}

func (h *Handler) sync(c *fiber.Ctx, opts SyncOptions) error {
	l := logger.WithRayID(h.logger, c)
	l.Info("Starting mapcycle sync", zap.Bool("dry_run", opts.DryRun))

	h.mu.Lock()
	defer h.mu.Unlock()

	ctx, cancel := context.WithTimeout(c.Context(), h.timeout)
	defer cancel()

	report, err := h.service.Sync(ctx, opts)
	if err != nil {
		l.Error("Mapcycle sync failed", zap.Error(err))
		return c.Status(statusOf(err)).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(report)
}

// statusOf maps sync failures to HTTP status codes.
func statusOf(err error) int {
	switch {
	case errors.Is(err, reconcile.ErrInvalidFilter), errors.Is(err, ErrNoCollections):
		return fiber.StatusBadRequest
	case errors.Is(err, mc.ErrParse):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, steam.ErrFetch):
		return fiber.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		return fiber.StatusGatewayTimeout
	default:
		return fiber.StatusInternalServerError
	}
}
