package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// maxLoggedPayload caps each logged params/result body.
const maxLoggedPayload = 2048

// trafficLoggingMiddleware logs every request and response at debug level.
func trafficLoggingMiddleware(logger *slog.Logger, direction, transport string) sdkmcp.Middleware {
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			if logger == nil || !logger.Enabled(ctx, slog.LevelDebug) {
				return next(ctx, method, req)
			}

			log := logger.With("direction", direction, "transport", transport, "method", method, "session_id", safeSessionID(req))
			log.DebugContext(ctx, "mcp request", "params", formatPayload(safeParams(req)))

			result, err := next(ctx, method, req)
			if strings.HasPrefix(method, "notifications/") {
				return result, err
			}
			if err != nil {
				log.DebugContext(ctx, "mcp response", "error", err)
			} else {
				log.DebugContext(ctx, "mcp response", "result", formatPayload(result))
			}
			return result, err
		}
	}
}

// safeSessionID and safeParams guard against requests whose session or params
// are typed nils.
func safeSessionID(req sdkmcp.Request) (id string) {
	if req == nil {
		return ""
	}
	defer func() {
		if recover() != nil {
			id = ""
		}
	}()
	session := req.GetSession()
	if session == nil {
		return ""
	}
	return session.ID()
}

func safeParams(req sdkmcp.Request) (params any) {
	if req == nil {
		return nil
	}
	defer func() {
		if recover() != nil {
			params = nil
		}
	}()
	return req.GetParams()
}

func formatPayload(payload any) string {
	if payload == nil {
		return "<nil>"
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Sprintf("%T", payload)
	}
	if len(data) > maxLoggedPayload {
		return fmt.Sprintf("%s...(%d bytes)", data[:maxLoggedPayload], len(data))
	}
	return string(data)
}
