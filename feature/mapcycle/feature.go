package mapcycle

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	service *Service
	handler *Handler
	enabled bool
}

// NewFeature creates the mapcycle feature. It is disabled without collections
// since a sync would have nothing to import.
func NewFeature(service *Service, opts SyncOptions, timeout time.Duration) *Feature {
	return &Feature{
		service: service,
		handler: NewHandler(service, opts, timeout),
		enabled: len(opts.Collections) > 0,
	}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "mapcycle"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return f.enabled
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}
