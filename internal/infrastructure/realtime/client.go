package realtime

import (
	"encoding/json"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/loro/backend/internal/domain/shared/valueobject"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 8 * 1024
)

var clientSeq atomic.Uint64

// Client is one WebSocket connection of an authenticated user
type Client struct {
	id       uint64
	hub      *Hub
	conn     *websocket.Conn
	send     chan Envelope
	tenantID uuid.UUID
	userID   uuid.UUID
}

// LocationUpdate is the payload of a locationUpdate event
type LocationUpdate struct {
	UserID uuid.UUID `json:"user_id"`
	Lat    float64   `json:"lat"`
	Lng    float64   `json:"lng"`
}

// Serve registers conn for the given user and runs its pumps. It returns
// immediately; the pumps exit when the connection or the hub closes.
func (h *Hub) Serve(conn *websocket.Conn, tenantID, userID uuid.UUID) {
	c := &Client{
		id:       clientSeq.Add(1),
		hub:      h,
		conn:     conn,
		send:     make(chan Envelope, outboundBuffer),
		tenantID: tenantID,
		userID:   userID,
	}
	if !h.attach(c) {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			time.Now().Add(writeWait))
		_ = conn.Close()
		return
	}
	go c.writePump()
	go c.readPump()
}

func (c *Client) readPump() {
	defer func() {
		c.hub.detach(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				c.hub.logger.Debug("Unexpected websocket close", zap.Uint64("client_id", c.id), zap.Error(err))
			}
			return
		}
		c.handle(raw)
	}
}

func (c *Client) handle(raw []byte) {
	var msg inbound
	if err := json.Unmarshal(raw, &msg); err != nil || msg.Event == "" {
		c.reply(EventError, map[string]string{"message": "Malformed message"})
		return
	}
	c.hub.recorder.WSMessage("in", msg.Event)

	switch msg.Event {
	case EventLocationUpdate:
		var loc struct {
			Lat *float64 `json:"lat"`
			Lng *float64 `json:"lng"`
		}
		if err := json.Unmarshal(msg.Data, &loc); err != nil || loc.Lat == nil || loc.Lng == nil {
			c.reply(EventError, map[string]string{"message": "locationUpdate needs lat and lng"})
			return
		}
		if _, err := valueobject.NewCoordinates(*loc.Lat, *loc.Lng); err != nil {
			c.reply(EventError, map[string]string{"message": "Coordinates out of range"})
			return
		}
		c.hub.relay(c, NewEnvelope(EventLocationUpdate, LocationUpdate{UserID: c.userID, Lat: *loc.Lat, Lng: *loc.Lng}))
	default:
		c.reply(EventError, map[string]string{"message": "Unknown event " + msg.Event})
	}
}

// reply goes through the hub so the send channel has a single writer
func (c *Client) reply(event string, data any) {
	c.hub.queue(delivery{tenantID: c.tenantID, target: c, msg: NewEnvelope(event, data)})
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
