package router

import (
	"net/http"

	"webhookhub/internal/adapters/inbound/http/controllers"
)

type Dependencies struct {
	HealthController   *controllers.HealthController
	SwaggerController  *controllers.SwaggerController
	WebhooksController *controllers.WebhooksController
	// MetricsHandler is mounted at /metrics when set.
	MetricsHandler http.Handler
	HTTPMetrics    *HTTPMetrics
}

func New(deps Dependencies) *http.ServeMux {
	mux := http.NewServeMux()
	route := func(pattern string, handler http.HandlerFunc) {
		mux.HandleFunc(pattern, deps.HTTPMetrics.instrument(pattern, handler))
	}

	mux.HandleFunc("GET /healthz", deps.HealthController.GetHealth)
	mux.HandleFunc("GET /swagger", deps.SwaggerController.RedirectToIndex)
	mux.HandleFunc("GET /swagger/openapi.yaml", deps.SwaggerController.GetOpenAPISpec)
	mux.HandleFunc("GET /swagger/", deps.SwaggerController.ServeUI)
	if deps.MetricsHandler != nil {
		mux.Handle("GET /metrics", deps.MetricsHandler)
	}

	route("GET /api/webhooks", deps.WebhooksController.ListSubscribers)
	route("POST /api/webhooks", deps.WebhooksController.AddSubscriber)
	route("DELETE /api/webhooks/{id}", deps.WebhooksController.RemoveSubscriber)
	route("GET /api/webhooks/events", deps.WebhooksController.ListEventTypes)
	route("POST /api/webhooks/events", deps.WebhooksController.ProcessEvent)

	return mux
}
