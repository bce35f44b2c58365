package handlers

import (
	"net/http"
	"time"

	"github.com/VedantNarayan/champaran-meat-house/internal/auth"
	"github.com/VedantNarayan/champaran-meat-house/internal/logger"
	"github.com/VedantNarayan/champaran-meat-house/internal/models"
	"github.com/VedantNarayan/champaran-meat-house/internal/realtime"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	subscriptionBuffer = 32
	writeWait          = 10 * time.Second
	pingPeriod         = 30 * time.Second
)

type RealtimeHandler struct {
	hub      *realtime.Hub
	upgrader websocket.Upgrader
	log      *logger.Logger
}

func NewRealtimeHandler(hub *realtime.Hub, allowedOrigins []string, log *logger.Logger) *RealtimeHandler {
	return &RealtimeHandler{
		hub: hub,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				for _, o := range allowedOrigins {
					if o == "*" || o == origin {
						return true
					}
				}
				return false
			},
		},
		log: log,
	}
}

// Subscribe streams change events matching ?table=&event=&id= over a websocket. Watching a
// single order by id is open to anyone holding the id; broader feeds need staff.
func (h *RealtimeHandler) Subscribe(c *gin.Context) {
	filter := realtime.Filter{
		Table: c.DefaultQuery("table", realtime.TableOrders),
		Event: c.DefaultQuery("event", realtime.EventAny),
		ID:    c.Query("id"),
	}
	if filter.ID == "" && !isStaff(auth.PrincipalFrom(c)) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	events, cancel := h.hub.Subscribe(filter, subscriptionBuffer)
	defer cancel()

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-closed:
			return
		case e, ok := <-events:
			if !ok {
				return
			}
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(e); err != nil {
				h.log.Debug("websocket write failed", "error", err)
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func isStaff(p *auth.Principal) bool {
	return p != nil && (p.Role == models.RoleAdmin || p.Role == models.RoleDriver)
}
