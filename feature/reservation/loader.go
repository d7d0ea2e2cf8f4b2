package reservation

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/blindermanupwork/property-management-automation-sub007/feature/automation"
	"github.com/blindermanupwork/property-management-automation-sub007/feature/reservation/store"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	service *Service
	handler *Handler
}

// NewFeature creates the reservation API feature.
func NewFeature(logger *zap.Logger, records store.RecordStore, controller *automation.Controller, snapshotTTL time.Duration) *Feature {
	svc := NewService(logger, records, controller, snapshotTTL)
	h := NewHandler(svc)
	return &Feature{service: svc, handler: h}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "reservation"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return true
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}
