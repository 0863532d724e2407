package handlers

import (
	"net/http"
	"strconv"
	"time"

	"auth_portal/internal/metrics"
	"auth_portal/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// Send/receive timing configuration and message size limits.
const (
	writeWait        = 10 * time.Second
	pongWait         = 60 * time.Second
	pingPeriod       = (pongWait * 9) / 10
	maxMsgSize       = 1 << 12 // 4 KB
	defaultInterval  = 1 * time.Second
	maxInterval      = 10 * time.Second
	maxIntervalMilli = 10_000 // 10s in ms
)

const (
	msgTypeSession = "session"
	msgTypeExpired = "expired"
)

// Envelope used for WebSocket messages.
type wsEnvelope struct {
	Type  string      `json:"type"`
	Data  interface{} `json:"data,omitempty"`
	Error string      `json:"error,omitempty"`
}

type sessionStatus struct {
	UserID    int    `json:"user_id"`
	Username  string `json:"username"`
	ExpiresIn int64  `json:"expires_in"`
}

// The pages and the socket share an origin; gorilla's default check enforces that.
var upgrader = websocket.Upgrader{}

// @Summary      Session status stream
// @Description  WebSocket. Sends {"type":"session"} every interval and {"type":"expired"} when the access token lapses.
// @Tags         account
// @Param        token        query  string  true   "Access token"
// @Param        interval     query  string  false  "Tick interval, e.g. 2s (max 10s)"
// @Param        interval_ms  query  int     false  "Tick interval in milliseconds"
// @Failure      401  {object}  map[string]string
// @Router       /ws/session [get]
func (h *Handler) sessionStream(c *gin.Context) {
	claims, err := h.services.ParseToken(c.Query("token"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
		return
	}
	interval := h.parseInterval(c)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		if h.log != nil {
			h.log.Errorw("ws_upgrade_failed", "err", err)
		}
		return
	}
	defer func() { _ = conn.Close() }()

	metrics.ActiveSessions.Inc()
	defer metrics.ActiveSessions.Dec()

	// Configure read limits and pong handler to extend read deadline.
	conn.SetReadLimit(maxMsgSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	done := make(chan struct{})
	go h.startReader(conn, done)

	ticker := time.NewTicker(interval)
	ping := time.NewTicker(pingPeriod)
	expiry := time.NewTimer(claims.ExpiresIn(time.Now()))
	defer func() {
		ticker.Stop()
		ping.Stop()
		expiry.Stop()
	}()

	if err := h.sendSession(conn, claims); err != nil {
		if h.log != nil {
			h.log.Infow("ws_write_failed_initial", "err", err)
		}
		return
	}

	for {
		select {
		case <-done:
			return
		case <-c.Request.Context().Done():
			return
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				if h.log != nil {
					h.log.Infow("ws_ping_failed", "err", err)
				}
				return
			}
		case <-ticker.C:
			if err := h.sendSession(conn, claims); err != nil {
				if h.log != nil {
					h.log.Infow("ws_write_failed", "err", err)
				}
				return
			}
		case <-expiry.C:
			h.closeExpired(conn, claims)
			return
		}
	}
}

// parseInterval reads ?interval=2s or ?interval_ms=2000 with bounds.
func (h *Handler) parseInterval(c *gin.Context) time.Duration {
	if s := c.Query("interval"); s != "" {
		if d, err := time.ParseDuration(s); err == nil && d > 0 && d <= maxInterval {
			return d
		}
	}

	if ms := c.Query("interval_ms"); ms != "" {
		if v, err := strconv.Atoi(ms); err == nil && v > 0 && v <= maxIntervalMilli {
			return time.Duration(v) * time.Millisecond
		}
	}

	return defaultInterval
}

// startReader drains incoming messages to handle control frames and detect closure.
func (h *Handler) startReader(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if h.log != nil {
				h.log.Infow("ws_read_closed", "err", err)
			}
			return
		}
	}
}

func (h *Handler) sendSession(conn *websocket.Conn, claims *service.Claims) error {
	left := claims.ExpiresIn(time.Now())
	if left < 0 {
		left = 0
	}
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(wsEnvelope{Type: msgTypeSession, Data: sessionStatus{
		UserID:    claims.UserID,
		Username:  claims.Username,
		ExpiresIn: int64(left.Seconds()),
	}})
}

// closeExpired notifies the client and sends a normal close frame.
func (h *Handler) closeExpired(conn *websocket.Conn, claims *service.Claims) {
	if h.log != nil {
		h.log.Infow("ws_session_expired", "user_id", claims.UserID)
	}
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteJSON(wsEnvelope{Type: msgTypeExpired}); err != nil {
		return
	}
	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "token expired"),
		time.Now().Add(writeWait))
}
