package mcp

import (
	"log/slog"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// Services contains all domain services needed by MCP.
type Services struct {
	Users    UserService
	Spaces   SpaceService
	Leasing  LeasingService
	Activity ActivityService
}

// Config contains server configuration.
type Config struct {
	Services      Services
	TransportMode string // "stdio" or "http"
	Logger        *slog.Logger
	// Now is the clock for derived contract values. Defaults to time.Now.
	Now func() time.Time
}

// NewServer creates and configures an MCP server with all tools and middleware.
func NewServer(cfg Config) *sdkmcp.Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "spacelease",
		Version: "0.1.0",
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       logger,
	})

	registerDocResources(server)

	server.AddReceivingMiddleware(recoverMiddleware(logger))
	server.AddReceivingMiddleware(trafficLoggingMiddleware(logger, "inbound", cfg.TransportMode))
	server.AddSendingMiddleware(trafficLoggingMiddleware(logger, "outbound", cfg.TransportMode))

	registerTools(server, NewHandler(cfg.Services, cfg.Now))

	return server
}
