package transport

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rpggio/spacelease/internal/notify"
	"github.com/stretchr/testify/require"
)

func TestHTTPServer_Health(t *testing.T) {
	server := httptest.NewServer(NewServer(Routes{}))
	t.Cleanup(server.Close)

	resp, err := http.Get(server.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestHTTPServer_MountsMCPHandler(t *testing.T) {
	var gotPath, gotSession string
	mcpHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotSession = r.Header.Get("Mcp-Session-Id")
		w.WriteHeader(http.StatusAccepted)
	})
	server := httptest.NewServer(NewServer(Routes{MCP: mcpHandler}))
	t.Cleanup(server.Close)

	req, err := http.NewRequest(http.MethodPost, server.URL+"/mcp", strings.NewReader(`{}`))
	require.NoError(t, err)
	req.Header.Set("Mcp-Session-Id", "sess1")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusAccepted, resp.StatusCode)
	require.Equal(t, "/mcp", gotPath)
	require.Equal(t, "sess1", gotSession)
}

func TestHTTPServer_RecoversFromPanics(t *testing.T) {
	server := httptest.NewServer(NewServer(Routes{MCP: http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})}))
	t.Cleanup(server.Close)

	resp, err := http.Post(server.URL+"/mcp", "application/json", strings.NewReader(`{}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestNotifications_StreamsSubscribedTopics(t *testing.T) {
	hub := notify.NewHub(8, nil)
	server := httptest.NewServer(NewServer(Routes{Hub: hub}))
	t.Cleanup(server.Close)

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws/notifications?user_id=owner-1"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	queue := notify.UserQueue("owner-1")
	require.Eventually(t, func() bool { return hub.Subscribers(queue) == 1 }, 2*time.Second, 10*time.Millisecond)
	require.Zero(t, hub.Subscribers(notify.TopicSpaces))

	ctx := context.Background()
	require.NoError(t, hub.Publish(ctx, notify.UserQueue("someone-else"), notify.ForUser(notify.TypeNewContract, "someone-else", "ignored", nil)))
	require.NoError(t, hub.Publish(ctx, queue, notify.ForUser(notify.TypeNewContract, "owner-1", "New contract for your space: Suite", nil)))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var ev notify.Event
	require.NoError(t, conn.ReadJSON(&ev))
	require.Equal(t, notify.TypeNewContract, ev.Type)
	require.Equal(t, "owner-1", ev.RecipientID)
	require.Equal(t, "New contract for your space: Suite", ev.Message)

	require.NoError(t, conn.Close())
	require.Eventually(t, func() bool { return hub.Subscribers(queue) == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestSubscriptionTopics_DefaultsToBroadcast(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/ws/notifications", nil)
	require.Equal(t, []string{notify.TopicSpaces, notify.TopicContracts}, subscriptionTopics(req))

	req = httptest.NewRequest(http.MethodGet, "/ws/notifications?topic=topic.spaces&user_id=u1", nil)
	require.Equal(t, []string{notify.TopicSpaces, notify.UserQueue("u1")}, subscriptionTopics(req))
}
