package websocket

import (
	"sync"

	"veritus-be/internal/pkg/logger"

	"github.com/google/uuid"
)

// Hub tracks websocket subscribers per chat. Clients subscribe to one chat
// and receive its summary-updated pushes.
type Hub struct {
	// ChatID -> connected clients (a chat can be open on several devices)
	clients map[uuid.UUID][]*Client

	register   chan *Client
	unregister chan *Client

	mu sync.RWMutex

	logger logger.ILogger
}

func NewHub(log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[uuid.UUID][]*Client),
		logger:     log,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.ChatID] = append(h.clients[client.ChatID], client)
			h.mu.Unlock()
			h.logger.Info("Hub", "Client registered", map[string]interface{}{"chat_id": client.ChatID})

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.clients[client.ChatID]; ok {
				for i, c := range clients {
					if c == client {
						h.clients[client.ChatID] = append(clients[:i], clients[i+1:]...)
						close(client.Send)
						break
					}
				}
				if len(h.clients[client.ChatID]) == 0 {
					delete(h.clients, client.ChatID)
				}
			}
			h.mu.Unlock()
		}
	}
}

// SendToChat pushes a payload to every client subscribed to the chat.
func (h *Hub) SendToChat(chatId uuid.UUID, payload []byte) {
	h.mu.RLock()
	clients := h.clients[chatId]
	h.mu.RUnlock()

	for _, client := range clients {
		select {
		case client.Send <- payload:
		default:
			h.logger.Warn("Hub", "Client send buffer full, dropping connection", map[string]interface{}{"chat_id": chatId})
			h.unregister <- client
		}
	}
}
