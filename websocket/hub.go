package websocket

import (
	"log"
	"sync"

	"github.com/asifzaman/kaajwala/models"
	"github.com/gofiber/contrib/websocket"
	"github.com/google/uuid"
)

type Client struct {
	UserID uuid.UUID
	Conn   *websocket.Conn
}

var clients = make(map[uuid.UUID]*websocket.Conn)
var clientsMu sync.RWMutex
var Register = make(chan *Client)
var Unregister = make(chan *Client)
var Broadcast = make(chan *models.Notification, 256)

// Push hands a committed notification to the hub. Delivery is best
// effort: a full queue or a dead connection loses the push, and the
// client catches up through the polling endpoint.
func Push(n *models.Notification) {
	select {
	case Broadcast <- n:
	default:
		log.Printf("Push queue full, dropping notification %d for %s", n.ID, n.RecipientID)
	}
}

func RunHub() {
	for {
		select {
		case client := <-Register:
			log.Printf("Client registered: %s", client.UserID)
			clientsMu.Lock()
			clients[client.UserID] = client.Conn
			clientsMu.Unlock()
		case client := <-Unregister:
			log.Printf("Client unregistered: %s", client.UserID)
			clientsMu.Lock()
			if conn, ok := clients[client.UserID]; ok && conn == client.Conn {
				delete(clients, client.UserID)
			}
			clientsMu.Unlock()
		case n := <-Broadcast:
			clientsMu.RLock()
			conn, ok := clients[n.RecipientID]
			clientsMu.RUnlock()
			if !ok {
				continue
			}
			if err := conn.WriteJSON(n); err != nil {
				log.Printf("Error sending notification to client %s: %v", n.RecipientID, err)
				conn.Close()
				clientsMu.Lock()
				if cur, ok := clients[n.RecipientID]; ok && cur == conn {
					delete(clients, n.RecipientID)
				}
				clientsMu.Unlock()
			}
		}
	}
}
