package rest

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/jub0bs/fcors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/Abdurahmanit/GroupProject/virtucasa-service/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/virtucasa-service/internal/platform/metrics"
)

// NewRouter mounts the browsing API. The returned handler is wrapped for
// CORS and tracing.
func NewRouter(h *Handler, m *metrics.MetricsManager, log *logger.Logger) (http.Handler, error) {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(requestLogger(log, m))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if m != nil {
		r.Handle("/metrics", m.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/properties", h.HandleListCatalog)
		r.Get("/properties/{propertyID}", h.HandleGetProperty)

		r.Post("/sessions", h.HandleCreateSession)
		r.Route("/sessions/{sessionID}", func(r chi.Router) {
			r.Get("/", h.HandleGetSession)
			r.Delete("/", h.HandleDeleteSession)

			r.Get("/properties", h.HandleListProperties)
			r.Put("/filters", h.HandleSetFilters)
			r.Delete("/filters", h.HandleResetFilters)

			r.Post("/login", h.HandleLogin)
			r.Post("/logout", h.HandleLogout)

			r.Put("/view", h.HandleShowView)
			r.Post("/select/{propertyID}", h.HandleSelect)
			r.Post("/back", h.HandleBack)

			r.Get("/favorites", h.HandleListFavorites)
			r.Post("/favorites/{propertyID}/toggle", h.HandleToggleFavorite)

			r.Get("/conversations", h.HandleListConversations)
			r.Get("/conversations/{propertyID}", h.HandleGetConversation)
			r.Post("/conversations/{propertyID}/messages", h.HandleSendMessage)

			r.Post("/properties/{propertyID}/description", h.HandleRequestDescription)
			r.Get("/description", h.HandleGetDescription)
			r.Get("/panorama", h.HandleGetPanorama)
		})
	})

	cors, err := fcors.AllowAccess(
		fcors.FromAnyOrigin(),
		fcors.WithMethods(
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodDelete,
		),
		fcors.WithRequestHeaders("Content-Type"),
	)
	if err != nil {
		return nil, fmt.Errorf("configure cors: %w", err)
	}
	return otelhttp.NewHandler(cors(r), "virtucasa-http"), nil
}

func requestLogger(log *logger.Logger, m *metrics.MetricsManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)

			route := r.URL.Path
			if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
				route = rctx.RoutePattern()
			}
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			elapsed := time.Since(start)
			m.ObserveHTTP(r.Method, route, status, elapsed.Seconds())
			log.Info("HTTP request",
				"method", r.Method,
				"route", route,
				"status", status,
				"duration_ms", elapsed.Milliseconds(),
				"request_id", chimw.GetReqID(r.Context()),
			)
		})
	}
}
