package transport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rpggio/spacelease/internal/notify"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
}

// NotificationsHandler streams hub events as JSON text frames. Topics come from
// repeated ?topic= parameters plus ?user_id=, which subscribes to that user's
// queue. With neither, the broadcast topics are streamed.
func NotificationsHandler(hub *notify.Hub, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		topics := subscriptionTopics(r)

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.Debug("websocket upgrade failed", "error", err)
			return
		}
		defer conn.Close()

		sub := hub.Subscribe(topics...)
		defer sub.Close()
		logger.Debug("websocket subscribed", "topics", topics, "remote_addr", r.RemoteAddr)

		done := make(chan struct{})
		go readUntilClosed(conn, done)

		ticker := time.NewTicker(pingPeriod)
		defer ticker.Stop()

		for {
			select {
			case <-done:
				return
			case <-r.Context().Done():
				return
			case ev, ok := <-sub.C:
				if !ok {
					return
				}
				_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
				if err := conn.WriteJSON(ev); err != nil {
					logger.Debug("websocket write failed", "error", err)
					return
				}
			case <-ticker.C:
				_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			}
		}
	}
}

// readUntilClosed drains client frames so control messages are processed, and
// closes done once the peer goes away.
func readUntilClosed(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func subscriptionTopics(r *http.Request) []string {
	query := r.URL.Query()
	topics := query["topic"]
	if userID := query.Get("user_id"); userID != "" {
		topics = append(topics, notify.UserQueue(userID))
	}
	if len(topics) == 0 {
		topics = []string{notify.TopicSpaces, notify.TopicContracts}
	}
	return topics
}
