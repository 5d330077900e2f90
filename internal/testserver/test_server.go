// Package testserver runs the whole service over HTTP on an in-memory store
// for functional tests.
package testserver

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/spacelease/internal/domain/activity"
	"github.com/rpggio/spacelease/internal/domain/space"
	"github.com/rpggio/spacelease/internal/domain/user"
	"github.com/rpggio/spacelease/internal/leasing"
	"github.com/rpggio/spacelease/internal/mcp"
	"github.com/rpggio/spacelease/internal/notify"
	"github.com/rpggio/spacelease/internal/store"
	"github.com/rpggio/spacelease/internal/transport"
	"github.com/stretchr/testify/require"
)

type TestServer struct {
	Server *httptest.Server
	DB     *store.DB
	Hub    *notify.Hub

	mu  sync.Mutex
	now time.Time
}

// New starts a server whose clock is frozen at now until SetNow moves it.
func New(t *testing.T, now time.Time) *TestServer {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := store.Open(store.SQLite, dsn, nil)
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations(context.Background()))

	ts := &TestServer{DB: db, Hub: notify.NewHub(32, nil), now: now}
	dispatcher := notify.NewDispatcher(ts.Hub, notify.WithBufferSize(64))

	userRepo := store.NewUserRepository(db)
	activityRepo := store.NewActivityRepository(db)

	mcpServer := mcp.NewServer(mcp.Config{
		Services: mcp.Services{
			Users:    user.NewService(userRepo, nil),
			Spaces:   space.NewService(store.NewSpaceRepository(db), userRepo, activityRepo, dispatcher, nil),
			Leasing:  leasing.NewService(db, dispatcher, nil, leasing.WithClock(ts.Now)),
			Activity: activity.NewService(activityRepo, nil),
		},
		TransportMode: "http",
		Now:           ts.Now,
	})
	mcpHandler := sdkmcp.NewStreamableHTTPHandler(
		func(*http.Request) *sdkmcp.Server { return mcpServer },
		&sdkmcp.StreamableHTTPOptions{SessionTimeout: time.Minute},
	)

	ts.Server = httptest.NewServer(transport.NewServer(transport.Routes{MCP: mcpHandler, Hub: ts.Hub}))

	t.Cleanup(func() {
		ts.Server.Close()
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = dispatcher.Close(ctx)
		_ = db.Close()
	})

	return ts
}

// Now is the server's clock.
func (ts *TestServer) Now() time.Time {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return ts.now
}

// SetNow moves the server's clock.
func (ts *TestServer) SetNow(now time.Time) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	ts.now = now
}

// Connect opens an MCP client session against the server's /mcp endpoint.
func (ts *TestServer) Connect(t *testing.T) *sdkmcp.ClientSession {
	t.Helper()

	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "test-client", Version: "1.0.0"}, nil)
	session, err := client.Connect(context.Background(), &sdkmcp.StreamableClientTransport{Endpoint: ts.Server.URL + "/mcp"}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = session.Close() })
	return session
}

// WebsocketURL is the notification feed URL with the given query.
func (ts *TestServer) WebsocketURL(query string) string {
	url := "ws" + strings.TrimPrefix(ts.Server.URL, "http") + "/ws/notifications"
	if query != "" {
		url += "?" + query
	}
	return url
}
