package container

import (
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	_ "github.com/danielgtaylor/huma/v2/formats/cbor" // CBOR format support for huma
	"github.com/go-chi/chi/v5"
	"github.com/jaevor/go-nanoid"
	"github.com/samber/do"
	"github.com/serroba/timequota/internal/analytics"
	"github.com/serroba/timequota/internal/handlers"
	"github.com/serroba/timequota/internal/health"
	"github.com/serroba/timequota/internal/messaging"
	"github.com/serroba/timequota/internal/middleware"
	"github.com/serroba/timequota/internal/quota"
	"go.uber.org/zap"
)

const requestIDLength = 21

// HTTPPackage provides the router and the Huma API with middleware and routes registered.
func HTTPPackage(injector *do.Injector) {
	do.Provide(injector, func(_ *do.Injector) (*chi.Mux, error) {
		return chi.NewMux(), nil
	})

	do.Provide(injector, func(i *do.Injector) (huma.API, error) {
		router := do.MustInvoke[*chi.Mux](i)
		logger := do.MustInvoke[*zap.Logger](i)
		limiter := do.MustInvoke[quota.Limiter](i)
		counters := do.MustInvoke[CounterStore](i)
		options := do.MustInvoke[*Options](i)

		publish, err := do.Invoke[messaging.Publish[analytics.AdmissionEvent]](i)
		if err != nil {
			return nil, err
		}

		newID, err := nanoid.Standard(requestIDLength)
		if err != nil {
			return nil, err
		}

		api := humachi.New(router, huma.DefaultConfig("Time Quota", "1.0.0"))
		api.UseMiddleware(
			middleware.RequestMeta(api, newID),
			middleware.QuotaGate(api, limiter, time.Now, publish, logger),
		)

		handlers.RegisterRoutes(api, handlers.NewTimeHandler(time.Now, time.Local))
		health.RegisterRoutes(api, health.NewHandler(counters, options.StoreTimeout()))

		return api, nil
	})
}
