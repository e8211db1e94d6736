package server

import (
	"net/http"
	"regexp"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/nguyentranbao-ct/shopping-search/internal/usecase"
	log "github.com/nguyentranbao-ct/shopping-search/pkg/logger/logctx"
)

const snapshotMessage = "snapshot"

type watchMessage struct {
	Type string           `json:"type"`
	Data usecase.Snapshot `json:"data"`
}

func newUpgrader(corsPattern string) websocket.Upgrader {
	allowed := regexp.MustCompile(corsPattern)
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || allowed.MatchString(origin)
		},
	}
}

// latestSnapshot keeps only the newest snapshot. A slow watcher skips
// intermediate states but always ends on the current one.
type latestSnapshot struct {
	mu    sync.Mutex
	snap  usecase.Snapshot
	ready chan struct{}
}

func newLatestSnapshot(initial usecase.Snapshot) *latestSnapshot {
	l := &latestSnapshot{snap: initial, ready: make(chan struct{}, 1)}
	l.ready <- struct{}{}
	return l
}

func (l *latestSnapshot) put(s usecase.Snapshot) {
	l.mu.Lock()
	l.snap = s
	l.mu.Unlock()
	select {
	case l.ready <- struct{}{}:
	default:
	}
}

func (l *latestSnapshot) get() usecase.Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.snap
}

// WatchSession upgrades to a WebSocket and pushes the session snapshot, first
// immediately and then after every change, until the client goes away.
func (h *controller) WatchSession(c echo.Context) error {
	orch, err := h.session(c, c.Param("id"))
	if err != nil {
		return err
	}

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// the upgrader has already answered the client
		log.Warnw(c.Request().Context(), "websocket upgrade failed", "error", err)
		return nil
	}
	defer conn.Close()

	ctx := log.WithFields(c.Request().Context(), "session_id", orch.ID())
	latest := newLatestSnapshot(orch.Snapshot())
	unsubscribe := orch.Subscribe(latest.put)
	defer unsubscribe()

	closed := make(chan struct{})
	go h.readPump(conn, closed)

	ticker := time.NewTicker(h.wsConf.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-closed:
			return nil
		case <-latest.ready:
			_ = conn.SetWriteDeadline(time.Now().Add(h.wsConf.WriteTimeout))
			if err := conn.WriteJSON(watchMessage{Type: snapshotMessage, Data: latest.get()}); err != nil {
				log.Debugw(ctx, "websocket write failed", "error", err)
				return nil
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(h.wsConf.WriteTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return nil
			}
		}
	}
}

// readPump drains client frames so pongs and close frames are processed.
func (h *controller) readPump(conn *websocket.Conn, closed chan<- struct{}) {
	defer close(closed)

	_ = conn.SetReadDeadline(time.Now().Add(h.wsConf.ReadTimeout))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(h.wsConf.ReadTimeout))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
