package transport

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rpggio/spacelease/internal/notify"
)

// Routes are the handlers mounted by NewServer. A nil Hub disables the
// notification feed.
type Routes struct {
	MCP    http.Handler
	Hub    *notify.Hub
	Logger *slog.Logger
}

// NewServer creates an HTTP server router with middleware.
func NewServer(routes Routes) *chi.Mux {
	logger := routes.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(logger))
	r.Use(middleware.Recoverer)

	r.Get("/health", handleHealth)
	if routes.MCP != nil {
		r.Handle("/mcp", routes.MCP)
		r.Handle("/mcp/*", routes.MCP)
	}
	if routes.Hub != nil {
		r.Get("/ws/notifications", NotificationsHandler(routes.Hub, logger))
	}

	return r
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
