package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"evbus/internal/domain"
	"evbus/internal/domain/models"
	"evbus/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = (wsPongWait * 9) / 10
	wsMaxMessage = 1024
)

// WSResponse is every server-to-driver frame.
type WSResponse struct {
	Type    string `json:"type"`
	Message string `json:"message,omitempty"`
	Code    string `json:"code,omitempty"`
}

// NewUpgrader accepts same-host requests and the configured app origins.
func NewUpgrader(origins []string) *websocket.Upgrader {
	allowed := map[string]bool{}
	for _, o := range origins {
		allowed[o] = true
	}
	return &websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || allowed[origin]
		},
	}
}

// GET /api/driver/trips/:id/location/ws
//
// Streams fixes {lat,lng,recordedAt} into the trip's reporter. Closing the
// stream does not stop the reporter; it keeps persisting the last fix until
// the trip ends.
func (h *Handler) LocationStream(c *gin.Context) {
	rc, ok := caller(c)
	if !ok {
		return
	}
	tripID := c.Param("id")
	// validate before upgrading so errors are plain HTTP
	if _, err := h.Trips.OpenTrip(c.Request.Context(), rc.UserID, tripID); err != nil {
		RespondDomainError(c, err)
		return
	}

	up := h.Upgrader
	if up == nil {
		up = NewUpgrader(nil)
	}
	conn, err := up.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		utils.LogEventCtx(c.Request.Context(), "ws", "upgrade_failed", err.Error())
		return
	}
	defer conn.Close()

	// the request context ends with the upgrade handler on some servers
	ctx := utils.WithRequestID(context.Background(), utils.RequestIDFrom(c.Request.Context()))
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	utils.LogEventCtx(ctx, "ws", "open", fmt.Sprintf("trip_id=%s driver_id=%d", tripID, rc.UserID))
	defer utils.LogEventCtx(ctx, "ws", "close", fmt.Sprintf("trip_id=%s", tripID))

	conn.SetReadLimit(wsMaxMessage)
	_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})

	out := make(chan WSResponse, 8)
	done := make(chan struct{})
	go func() {
		defer close(done)
		wsWriter(ctx, conn, out)
	}()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var req locationRequest
		if err := json.Unmarshal(msg, &req); err != nil {
			send(out, WSResponse{Type: "error", Code: "validation_error", Message: "payload tidak valid"})
			continue
		}
		fix := models.GeoPoint{Lat: req.Lat, Lng: req.Lng}
		err = h.Trips.ReportLocation(ctx, rc.UserID, tripID, fix, req.at())
		switch {
		case err == nil:
			send(out, WSResponse{Type: "ack"})
		case domain.IsLocation(err), domain.IsValidation(err):
			send(out, WSResponse{Type: "error", Code: "location_unavailable", Message: err.Error()})
		default:
			// trip ended or is not ours anymore; let the writer flush the
			// close frame before the deferred Close
			select {
			case out <- WSResponse{Type: "closed", Message: err.Error()}:
				select {
				case <-done:
				case <-time.After(wsWriteWait):
				}
			case <-done:
			}
			return
		}
	}
}

// send drops the frame when the writer is backed up.
func send(out chan<- WSResponse, r WSResponse) {
	select {
	case out <- r:
	default:
	}
}

// wsWriter owns all writes to conn.
func wsWriter(ctx context.Context, conn *websocket.Conn, out <-chan WSResponse) {
	ticker := time.NewTicker(wsPingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case r := <-out:
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteJSON(r); err != nil {
				return
			}
			if r.Type == "closed" {
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, r.Message),
					time.Now().Add(wsWriteWait))
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteWait)); err != nil {
				return
			}
		}
	}
}
