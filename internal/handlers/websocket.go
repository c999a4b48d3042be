package handlers

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"tap-miner-backend/internal/models"
	"tap-miner-backend/internal/services"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type WebSocketHandler struct {
	engine       *services.TapEngine
	redisService *services.RedisService
	hub          *WebSocketHub
}

type WebSocketHub struct {
	clients    map[string]*Client
	register   chan *Client
	unregister chan *Client
	broadcast  chan *Message
}

type Client struct {
	Address string
	Conn    *websocket.Conn

	writeMu sync.Mutex
}

// WriteJSON serializes writes to the connection. Both the reader goroutine
// (pong and state replies) and the hub goroutine (broadcasts) write to the
// same conn, and gorilla/websocket allows only one writer at a time.
func (c *Client) WriteJSON(v interface{}) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.Conn.WriteJSON(v)
}

type Message struct {
	Type    string      `json:"type"`
	Address string      `json:"address,omitempty"`
	Data    interface{} `json:"data"`
}

func NewWebSocketHandler(engine *services.TapEngine, redisService *services.RedisService) *WebSocketHandler {
	hub := &WebSocketHub{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *Message, 100),
	}

	go hub.run()

	return &WebSocketHandler{
		engine:       engine,
		redisService: redisService,
		hub:          hub,
	}
}

func (h *WebSocketHandler) HandleWebSocket(c *gin.Context) {
	address := c.GetString("address")

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("Failed to upgrade to WebSocket: %v", err)
		return
	}

	client := &Client{
		Address: address,
		Conn:    conn,
	}

	h.hub.register <- client

	defer func() {
		h.hub.unregister <- client
		conn.Close()
	}()

	h.sendPlayerState(client)

	for {
		var msg Message
		err := conn.ReadJSON(&msg)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}

		h.handleMessage(client, &msg)
	}
}

func (h *WebSocketHandler) handleMessage(client *Client, msg *Message) {
	switch msg.Type {
	case "PING":
		h.sendPong(client)
	case "STATE":
		h.sendPlayerState(client)
	}
}

func (h *WebSocketHandler) sendPlayerState(client *Client) {
	state, err := h.redisService.GetPlayerState(client.Address)
	if err != nil {
		log.Printf("Failed to get player state for WS: %v", err)
		return
	}

	msg := Message{
		Type: "STATE_UPDATE",
		Data: gin.H{
			"tap_nonce":     state.TapNonce,
			"pity_counter":  state.PityCounter,
			"total_taps":    state.TotalTaps,
			"total_rewards": state.TotalRewards,
			"critical_hits": state.CriticalHits,
			"block_number":  h.engine.CurrentBlock(),
		},
	}

	client.WriteJSON(msg)
}

func (h *WebSocketHandler) sendPong(client *Client) {
	msg := Message{
		Type: "PONG",
		Data: gin.H{
			"timestamp":    time.Now().Unix(),
			"block_number": h.engine.CurrentBlock(),
		},
	}

	client.WriteJSON(msg)
}

func (hub *WebSocketHub) run() {
	for {
		select {
		case client := <-hub.register:
			hub.clients[client.Address] = client
			log.Printf("Client registered: %s", client.Address)

		case client := <-hub.unregister:
			if _, ok := hub.clients[client.Address]; ok {
				delete(hub.clients, client.Address)
				log.Printf("Client unregistered: %s", client.Address)
			}

		case message := <-hub.broadcast:
			hub.broadcastMessage(message)
		}
	}
}

func (hub *WebSocketHub) broadcastMessage(message *Message) {
	if message.Address != "" {
		if client, ok := hub.clients[message.Address]; ok {
			client.WriteJSON(message)
		}
	} else {
		for _, client := range hub.clients {
			client.WriteJSON(message)
		}
	}
}

// BroadcastTapResult pushes a settled tap to the tapping player.
func (h *WebSocketHandler) BroadcastTapResult(address string, record *models.TapRecord) {
	msg := &Message{
		Type:    "TAP_RESULT",
		Address: address,
		Data: gin.H{
			"id":           record.ID,
			"nonce":        record.Nonce,
			"block_number": record.BlockNumber,
			"base_reward":  record.BaseReward,
			"multiplier":   record.Multiplier,
			"is_critical":  record.IsCritical,
			"total_reward": record.TotalReward,
			"timestamp":    record.CreatedAt,
		},
	}

	h.hub.broadcast <- msg
}

// BroadcastPowerChange pushes the new total power after a roster update.
func (h *WebSocketHandler) BroadcastPowerChange(address string, totalPower uint64) {
	msg := &Message{
		Type:    "POWER_UPDATE",
		Address: address,
		Data: gin.H{
			"total_power": totalPower,
			"timestamp":   time.Now().Unix(),
		},
	}

	h.hub.broadcast <- msg
}
