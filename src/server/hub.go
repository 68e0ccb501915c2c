package server

import (
	"encoding/json"
	"net/http"

	"github.com/lakowske/marketbridge/src/metrics"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// -----------------------------------------------------------------------------
// Hub Pattern Implementation
// Drains the bounded broadcast queue in enqueue order; each message is
// serialized once and delivered best-effort to every connected client.
// -----------------------------------------------------------------------------

// handleWebsockets is the main Hub loop
func (s *BridgeServer) handleWebsockets() {
	for {
		select {
		case <-s.done:
			// Drain the client set so write pumps close their
			// connections; pumps unblock on done, not on unregister.
			s.clientsMu.Lock()
			for client := range s.clients {
				delete(s.clients, client)
				close(client.send)
			}
			s.clientsMu.Unlock()
			metrics.SetConnectedClients(0)
			return

		case client := <-s.register:
			s.clientsMu.Lock()
			s.clients[client] = struct{}{}
			total := len(s.clients)
			s.clientsMu.Unlock()
			metrics.SetConnectedClients(total)
			s.Logger.Info("Client %s connected (%d total)", client.id, total)

		case client := <-s.unregister:
			s.clientsMu.Lock()
			if _, ok := s.clients[client]; ok {
				delete(s.clients, client)
				close(client.send)
			}
			total := len(s.clients)
			s.clientsMu.Unlock()
			metrics.SetConnectedClients(total)

		case message := <-s.broadcast:
			payload, err := json.Marshal(message)
			if err != nil {
				s.Logger.Error("Failed to serialize %T message: %v", message, err)
				continue
			}
			metrics.IncBroadcast(messageType(payload))

			// Broadcast to all clients; failed clients are collected and
			// removed after the full pass.
			var failed []*Client
			s.clientsMu.Lock()
			for client := range s.clients {
				select {
				case client.send <- payload:
					// Message sent successfully
				default:
					// Client too slow, disconnect to prevent Hub blocking
					failed = append(failed, client)
				}
			}
			for _, client := range failed {
				delete(s.clients, client)
				close(client.send)
				s.Logger.Warning("Client %s dropped (send buffer full)", client.id)
			}
			total := len(s.clients)
			s.clientsMu.Unlock()
			metrics.SetConnectedClients(total)
		}
	}
}

// -----------------------------------------------------------------------------

// messageType extracts the "type" discriminator for the broadcast counter.
func messageType(payload []byte) string {
	var header struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(payload, &header); err != nil || header.Type == "" {
		return "unknown"
	}
	return header.Type
}

// -----------------------------------------------------------------------------
// Queue Producer Side
// -----------------------------------------------------------------------------

// Broadcast queues a message for fan-out. Non-blocking: a full queue drops
// the message with a warning so the broker callback goroutine never stalls
// on slow WebSocket consumers.
func (s *BridgeServer) Broadcast(message interface{}) {
	select {
	case s.broadcast <- message:
	default:
		metrics.IncDropped()
		s.Logger.Warning("Broadcast queue full, dropping %T message", message)
	}
}

// -----------------------------------------------------------------------------
// WebSocket Handlers
// -----------------------------------------------------------------------------

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// -----------------------------------------------------------------------------

func (s *BridgeServer) handleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.Logger.Info("Failed to upgrade websocket: %v", err)
		return
	}

	client := &Client{
		id:   uuid.NewString(),
		hub:  s,
		conn: conn,
		// Buffered channel to prevent blocking the Hub loop
		send: make(chan []byte, s.Config.Bridge.ClientBufferSize),
	}

	select {
	case s.register <- client:
	case <-s.done:
		conn.Close()
		return
	}

	// Start goroutines for reading/writing
	go client.writePump()
	go client.readPump()
}

// -----------------------------------------------------------------------------
// Client Message Handling
// -----------------------------------------------------------------------------

// HandleClientMessage routes one raw client frame through the command
// router; replies go only to the issuing client.
func (s *BridgeServer) HandleClientMessage(client *Client, message []byte) {
	if s.router == nil {
		return
	}

	for _, reply := range s.router.Handle(message) {
		payload, err := json.Marshal(reply)
		if err != nil {
			s.Logger.Error("Failed to serialize %T reply: %v", reply, err)
			continue
		}
		// Use select to avoid blocking if client's send buffer is full
		select {
		case client.send <- payload:
		default:
			s.Logger.Warning("Client %s reply dropped (send buffer full)", client.id)
		}
	}
}
