// Package realtime pushes domain notifications to connected field clients
// over WebSockets and relays their live location updates within a tenant.
package realtime

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Event names on the wire
const (
	EventConnect        = "connect"
	EventDisconnect     = "disconnect"
	EventError          = "error"
	EventLocationUpdate = "locationUpdate"
)

const outboundBuffer = 256

// Envelope is every message exchanged with a client
type Envelope struct {
	Event     string `json:"event"`
	Data      any    `json:"data"`
	Timestamp string `json:"timestamp"`
}

// NewEnvelope stamps a message with the current time
func NewEnvelope(event string, data any) Envelope {
	return Envelope{Event: event, Data: data, Timestamp: time.Now().UTC().Format(time.RFC3339)}
}

// inbound is what clients send; data stays raw until the event is known
type inbound struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// Recorder receives connection and message counts
type Recorder interface {
	WSConnected(delta int)
	WSMessage(direction, event string)
}

type nopRecorder struct{}

func (nopRecorder) WSConnected(int)          {}
func (nopRecorder) WSMessage(string, string) {}

// delivery addresses an envelope to a tenant, optionally narrowed to one user
// or one connection, and optionally skipping the sender.
type delivery struct {
	tenantID uuid.UUID
	userID   *uuid.UUID
	target   *Client
	except   *Client
	msg      Envelope
}

// Hub owns the set of connected clients. Only Run touches the client map;
// everything else talks to it through channels.
type Hub struct {
	clients    map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	outbound   chan delivery
	done       chan struct{}
	stopOnce   sync.Once

	count    int
	countMu  sync.RWMutex
	logger   *zap.Logger
	recorder Recorder
}

// Option configures a Hub
type Option func(*Hub)

// WithRecorder reports connection metrics to r
func WithRecorder(r Recorder) Option {
	return func(h *Hub) {
		if r != nil {
			h.recorder = r
		}
	}
}

// NewHub creates a new Hub. Call Run before serving connections.
func NewHub(logger *zap.Logger, opts ...Option) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &Hub{
		clients:    make(map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		outbound:   make(chan delivery, outboundBuffer),
		done:       make(chan struct{}),
		logger:     logger.Named("realtime_hub"),
		recorder:   nopRecorder{},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Run processes registrations and deliveries until ctx is cancelled. On
// return every client is closed.
func (h *Hub) Run(ctx context.Context) error {
	defer h.stopOnce.Do(func() { close(h.done) })
	for {
		select {
		case <-ctx.Done():
			n := len(h.clients)
			h.closeAll()
			h.logger.Info("Realtime hub stopped", zap.Int("clients_closed", n))
			return ctx.Err()

		case c := <-h.register:
			h.clients[c] = struct{}{}
			h.setCount(len(h.clients))
			h.recorder.WSConnected(1)
			h.logger.Debug("Client connected",
				zap.Uint64("client_id", c.id),
				zap.String("tenant_id", c.tenantID.String()),
				zap.String("user_id", c.userID.String()),
			)
			h.enqueue(c, NewEnvelope(EventConnect, map[string]any{
				"client_id": c.id,
				"user_id":   c.userID,
			}))

		case c := <-h.unregister:
			if _, ok := h.clients[c]; !ok {
				continue
			}
			h.remove(c)
			h.logger.Info("Client disconnected",
				zap.Uint64("client_id", c.id),
				zap.String("user_id", c.userID.String()),
			)
			h.deliver(delivery{
				tenantID: c.tenantID,
				msg:      NewEnvelope(EventDisconnect, map[string]any{"user_id": c.userID}),
			})

		case d := <-h.outbound:
			h.deliver(d)
		}
	}
}

// SendToUser queues an event for every connection of one user
func (h *Hub) SendToUser(tenantID, userID uuid.UUID, event string, data any) {
	u := userID
	h.queue(delivery{tenantID: tenantID, userID: &u, msg: NewEnvelope(event, data)})
}

// BroadcastToTenant queues an event for every connection of a tenant
func (h *Hub) BroadcastToTenant(tenantID uuid.UUID, event string, data any) {
	h.queue(delivery{tenantID: tenantID, msg: NewEnvelope(event, data)})
}

// ClientCount returns the number of registered clients
func (h *Hub) ClientCount() int {
	h.countMu.RLock()
	defer h.countMu.RUnlock()
	return h.count
}

func (h *Hub) queue(d delivery) {
	select {
	case h.outbound <- d:
	case <-h.done:
	default:
		h.logger.Warn("Outbound queue full, dropping message", zap.String("event", d.msg.Event))
	}
}

func (h *Hub) deliver(d delivery) {
	if d.target != nil {
		if _, ok := h.clients[d.target]; ok {
			h.enqueue(d.target, d.msg)
		}
		return
	}
	for c := range h.clients {
		if c.tenantID != d.tenantID || c == d.except {
			continue
		}
		if d.userID != nil && c.userID != *d.userID {
			continue
		}
		h.enqueue(c, d.msg)
	}
}

// enqueue drops a client whose buffer is full
func (h *Hub) enqueue(c *Client, msg Envelope) {
	select {
	case c.send <- msg:
		h.recorder.WSMessage("out", msg.Event)
	default:
		h.logger.Warn("Client buffer full, disconnecting", zap.Uint64("client_id", c.id))
		h.remove(c)
	}
}

func (h *Hub) remove(c *Client) {
	delete(h.clients, c)
	close(c.send)
	h.setCount(len(h.clients))
	h.recorder.WSConnected(-1)
}

func (h *Hub) closeAll() {
	for c := range h.clients {
		h.remove(c)
	}
}

func (h *Hub) setCount(n int) {
	h.countMu.Lock()
	h.count = n
	h.countMu.Unlock()
}

// attach hands a client to Run; it fails once the hub has stopped
func (h *Hub) attach(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) detach(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// relay forwards a client's message to the rest of its tenant
func (h *Hub) relay(from *Client, msg Envelope) {
	h.queue(delivery{tenantID: from.tenantID, except: from, msg: msg})
}
