package services

import (
	"log"
	"sync"
	"time"

	"inventar-backend/models"

	"github.com/gofiber/websocket/v2"
)

// FeedMessage представляет сообщение, рассылаемое подписчикам журнала
type FeedMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// feedClient представляет подключенного подписчика
type feedClient struct {
	conn *websocket.Conn
	send chan FeedMessage
	hub  *AuditFeed
}

// AuditFeed рассылает новые записи журнала аудита подключенным
// клиентам, чтобы вкладка истории обновлялась без перезагрузки
type AuditFeed struct {
	clients    map[*feedClient]bool
	register   chan *feedClient
	unregister chan *feedClient
	broadcast  chan FeedMessage
	mutex      sync.RWMutex
}

// NewAuditFeed создает новый хаб рассылки
func NewAuditFeed() *AuditFeed {
	return &AuditFeed{
		clients:    make(map[*feedClient]bool),
		register:   make(chan *feedClient),
		unregister: make(chan *feedClient),
		broadcast:  make(chan FeedMessage, 64),
	}
}

// Run запускает цикл обработки подключений и рассылки
func (h *AuditFeed) Run() {
	for {
		select {
		case client := <-h.register:
			h.mutex.Lock()
			h.clients[client] = true
			h.mutex.Unlock()
			log.Printf("Audit feed client connected. Total clients: %d", len(h.clients))

		case client := <-h.unregister:
			h.mutex.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mutex.Unlock()
			log.Printf("Audit feed client disconnected. Total clients: %d", len(h.clients))

		case message := <-h.broadcast:
			h.mutex.Lock()
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					close(client.send)
					delete(h.clients, client)
				}
			}
			h.mutex.Unlock()
		}
	}
}

// Publish рассылает новую запись журнала всем подписчикам.
// Не блокирует вызывающего: при переполнении буфера событие теряется,
// клиент перечитает историю через HTTP.
func (h *AuditFeed) Publish(entry models.AuditLog) {
	message := FeedMessage{
		Type:    "audit.entry",
		Payload: entry,
	}

	select {
	case h.broadcast <- message:
	default:
	}
}

// HandleWebSocket обрабатывает подключение подписчика
func (h *AuditFeed) HandleWebSocket(c *websocket.Conn) {
	client := &feedClient{
		conn: c,
		send: make(chan FeedMessage, 256),
		hub:  h,
	}

	h.register <- client

	go client.writePump()
	client.readPump()
}

// readPump читает входящие сообщения; подписчики ничего не шлют,
// цикл нужен для обработки pong и закрытия соединения
func (c *feedClient) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("Audit feed error: %v", err)
			}
			break
		}
	}
}

// writePump отправляет события подписчику
func (c *feedClient) writePump() {
	ticker := time.NewTicker(54 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteJSON(message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
