package httpapi

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/ghalamif/EcoGuard/internal/domain"
	"github.com/ghalamif/EcoGuard/internal/ports"
)

const writeWait = 5 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Hub fans every published sample out to the connected websocket clients.
// A client whose buffer is full misses the sample instead of stalling the
// stream.
type Hub struct {
	mu      sync.RWMutex
	clients map[uuid.UUID]*wsClient
	buffer  int
	obs     ports.Observability
}

type wsClient struct {
	id   uuid.UUID
	conn *websocket.Conn
	send chan []byte
	done chan struct{}
	once sync.Once
}

func (c *wsClient) close() {
	c.once.Do(func() {
		close(c.done)
		_ = c.conn.Close()
	})
}

func NewHub(buffer int, obs ports.Observability) *Hub {
	if buffer < 1 {
		buffer = 1
	}
	if obs == nil {
		obs = ports.NopObservability{}
	}
	return &Hub{
		clients: make(map[uuid.UUID]*wsClient),
		buffer:  buffer,
		obs:     obs,
	}
}

func (h *Hub) Name() string { return "websocket" }

func (h *Hub) Publish(s domain.Sample) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return err
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.clients {
		select {
		case c.send <- raw:
		case <-c.done:
		default:
			h.obs.IncCounter(ports.WSDropped, 1)
		}
	}
	return nil
}

// Clients returns the number of connected subscribers.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close disconnects every subscriber.
func (h *Hub) Close() {
	h.mu.Lock()
	clients := h.clients
	h.clients = make(map[uuid.UUID]*wsClient)
	h.mu.Unlock()

	for _, c := range clients {
		c.close()
	}
	h.obs.SetGauge(ports.WSClients, 0)
}

func (h *Hub) handle(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.obs.LogError("ws_upgrade_failed", err)
		return
	}

	client := &wsClient{
		id:   uuid.New(),
		conn: conn,
		send: make(chan []byte, h.buffer),
		done: make(chan struct{}),
	}
	h.register(client)

	go h.writePump(client)
	go h.readPump(client)
}

func (h *Hub) register(c *wsClient) {
	h.mu.Lock()
	h.clients[c.id] = c
	n := len(h.clients)
	h.mu.Unlock()

	h.obs.SetGauge(ports.WSClients, float64(n))
	h.obs.LogInfo("ws_client_connected", ports.Field{Key: "client", Value: c.id})
}

func (h *Hub) unregister(c *wsClient) {
	h.mu.Lock()
	_, ok := h.clients[c.id]
	delete(h.clients, c.id)
	n := len(h.clients)
	h.mu.Unlock()

	c.close()
	if ok {
		h.obs.SetGauge(ports.WSClients, float64(n))
		h.obs.LogInfo("ws_client_disconnected", ports.Field{Key: "client", Value: c.id})
	}
}

// readPump drains client frames so close and ping control messages are seen.
func (h *Hub) readPump(c *wsClient) {
	defer h.unregister(c)
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writePump(c *wsClient) {
	for {
		select {
		case msg := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				h.unregister(c)
				return
			}
		case <-c.done:
			return
		}
	}
}

var _ ports.SampleSink = (*Hub)(nil)
