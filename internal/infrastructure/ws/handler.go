package ws

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/drowwn/weNote/internal/api/metrics"
	"github.com/drowwn/weNote/internal/api/middleware"
	"github.com/drowwn/weNote/internal/collab"
	"github.com/drowwn/weNote/internal/infrastructure/queue"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 1 << 20
	aclTimeout     = 5 * time.Second
)

// Enqueuer accepts events for the collaboration loop.
type Enqueuer interface {
	Enqueue(ev collab.Event) bool
}

// AccessChecker reports whether a user may open a note.
type AccessChecker interface {
	CanAccess(ctx context.Context, noteID, userID string) (bool, error)
}

// Handler upgrades authenticated requests to WebSocket sessions and feeds
// their frames to the collaboration loop.
type Handler struct {
	hub      *Hub
	queue    Enqueuer
	acl      AccessChecker
	upgrader websocket.Upgrader
	log      zerolog.Logger
}

// NewHandler builds a Handler. Handshakes are accepted from allowedOrigins,
// from same-host pages, and from clients that send no Origin at all. A "*"
// entry allows any origin.
func NewHandler(hub *Hub, q Enqueuer, acl AccessChecker, allowedOrigins []string, log zerolog.Logger) *Handler {
	h := &Handler{hub: hub, queue: q, acl: acl, log: log}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     originChecker(allowedOrigins),
	}
	return h
}

func originChecker(allowed []string) func(r *http.Request) bool {
	set := make(map[string]struct{}, len(allowed))
	for _, o := range allowed {
		set[strings.TrimRight(strings.ToLower(o), "/")] = struct{}{}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		if _, ok := set["*"]; ok {
			return true
		}
		if _, ok := set[strings.ToLower(origin)]; ok {
			return true
		}
		u, err := url.Parse(origin)
		return err == nil && strings.EqualFold(u.Host, r.Host)
	}
}

// Serve handles GET /ws.
//
// @Summary      Real-time collaboration socket
// @Description  Upgrades to a WebSocket carrying openNote, contentChange and logout frames.
// @Tags         collaboration
// @Security     BearerAuth
// @Success      101
// @Failure      401  {object}  map[string]string
// @Router       /ws [get]
func (h *Handler) Serve(c echo.Context) error {
	userID, _ := c.Get(middleware.CtxUserID).(string)
	username, _ := c.Get(middleware.CtxUsername).(string)
	if userID == "" || username == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// The upgrader has already written the HTTP error.
		h.log.Debug().Err(err).Msg("websocket upgrade failed")
		return nil
	}

	connID := uuid.NewString()
	log := h.log.With().Str("conn_id", connID).Str("user_id", userID).Logger()
	cl := h.hub.register(connID, conn)
	if !h.queue.Enqueue(collab.Event{Kind: collab.KindConnect, ConnID: connID}) {
		h.hub.unregister(connID)
		_ = conn.Close()
		return nil
	}
	log.Info().Msg("collaboration session opened")

	written := make(chan struct{})
	go func() {
		defer close(written)
		h.writePump(cl, log)
	}()

	h.readPump(c.Request().Context(), cl, userID, username, log)

	h.queue.Enqueue(collab.Event{Kind: collab.KindDisconnect, ConnID: connID})
	h.hub.unregister(connID)
	<-written
	_ = conn.Close()
	log.Info().Msg("collaboration session closed")
	return nil
}

// readPump consumes frames until the socket fails, the client logs out or
// the loop stops accepting events.
func (h *Handler) readPump(ctx context.Context, cl *client, userID, username string, log zerolog.Logger) {
	conn := cl.conn
	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		mt, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Debug().Err(err).Msg("websocket read failed")
			}
			return
		}
		if mt != websocket.TextMessage {
			h.reject(log, "binary_frame", nil)
			continue
		}

		ev, err := decodeFrame(cl.id, username, raw)
		if err != nil {
			h.reject(log, queue.Reason(err), err)
			continue
		}

		if ev.Kind == collab.KindOpenNote && ev.NoteID != "" {
			allowed, err := h.canAccess(ctx, ev.NoteID, userID)
			if err != nil {
				log.Error().Err(err).Str("note_id", ev.NoteID).Msg("access check failed")
				h.reject(log, "acl_error", err)
				continue
			}
			if !allowed {
				h.reject(log, "forbidden", nil)
				continue
			}
		}

		if !h.queue.Enqueue(ev) {
			return
		}
		if ev.Kind == collab.KindLogout {
			return
		}
	}
}

func (h *Handler) canAccess(ctx context.Context, noteID, userID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, aclTimeout)
	defer cancel()
	return h.acl.CanAccess(ctx, noteID, userID)
}

func (h *Handler) reject(log zerolog.Logger, reason string, err error) {
	metrics.CollabProtocolErrorsTotal.WithLabelValues(reason).Inc()
	log.Debug().Err(err).Str("reason", reason).Msg("inbound frame dropped")
}

// writePump is the only writer on the socket apart from control frames.
func (h *Handler) writePump(cl *client, log zerolog.Logger) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case payload, ok := <-cl.send:
			_ = cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = cl.conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := cl.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				log.Debug().Err(err).Msg("websocket write failed")
				// Unblock the reader so the session is torn down.
				_ = cl.conn.Close()
				return
			}
		case <-ticker.C:
			_ = cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := cl.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				_ = cl.conn.Close()
				return
			}
		}
	}
}
