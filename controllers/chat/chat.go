package chatControllers

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// ChatMessage is the wire format for support chat frames. Event is "message"
// for chat frames and "joined"/"left" for the presence notices agents see.
type ChatMessage struct {
	Event  string    `json:"event"`
	From   string    `json:"from"` // user ID or "agent"
	Room   string    `json:"room"` // one room per shopper
	Body   string    `json:"body"`
	SentAt time.Time `json:"sent_at"`
}

func monitorEvent(event, room, from string) ChatMessage {
	return ChatMessage{
		Event:  event,
		From:   from,
		Room:   room,
		SentAt: time.Now(),
	}
}

// hub tracks room members plus agent connections watching every room.
type hub struct {
	mu     sync.Mutex
	rooms  map[string]map[*websocket.Conn]bool
	agents map[*websocket.Conn]bool
}

var chatHub = newHub()

func newHub() *hub {
	return &hub{
		rooms:  make(map[string]map[*websocket.Conn]bool),
		agents: make(map[*websocket.Conn]bool),
	}
}

func (h *hub) join(room string, conn *websocket.Conn) {
	h.mu.Lock()
	if h.rooms[room] == nil {
		h.rooms[room] = make(map[*websocket.Conn]bool)
	}
	h.rooms[room][conn] = true
	h.mu.Unlock()

	h.notifyAgents(monitorEvent("joined", room, room))
}

func (h *hub) leave(room string, conn *websocket.Conn) {
	h.mu.Lock()
	delete(h.rooms[room], conn)
	if len(h.rooms[room]) == 0 {
		delete(h.rooms, room)
	}
	h.mu.Unlock()

	h.notifyAgents(monitorEvent("left", room, room))
}

func (h *hub) watch(conn *websocket.Conn) {
	h.mu.Lock()
	h.agents[conn] = true
	h.mu.Unlock()
}

func (h *hub) unwatch(conn *websocket.Conn) {
	h.mu.Lock()
	delete(h.agents, conn)
	h.mu.Unlock()
}

// broadcast relays a frame to the room's members and mirrors it to every
// watching agent.
func (h *hub) broadcast(room string, msg ChatMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.rooms[room] {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			conn.Close()
			delete(h.rooms[room], conn)
		}
	}
	h.writeToAgentsLocked(data)
}

func (h *hub) notifyAgents(msg ChatMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.writeToAgentsLocked(data)
}

func (h *hub) writeToAgentsLocked(data []byte) {
	for conn := range h.agents {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			conn.Close()
			delete(h.agents, conn)
		}
	}
}

// ChatWebSocketHandler joins the caller to a support chat room and relays
// frames between the shopper and any connected agents.
// GET /ws/chat/:room
func ChatWebSocketHandler(c *gin.Context) {
	room := c.Param("room")
	if room == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Room is required"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Println("❌ Chat upgrade failed:", err)
		return
	}
	defer conn.Close()

	chatHub.join(room, conn)
	defer chatHub.leave(room, conn)

	for {
		var msg ChatMessage
		if err := conn.ReadJSON(&msg); err != nil {
			break
		}
		msg.Event = "message"
		msg.Room = room
		if msg.SentAt.IsZero() {
			msg.SentAt = time.Now()
		}
		chatHub.broadcast(room, msg)
	}
}

// AdminChatMonitorHandler streams every room's frames plus join/leave notices
// to an agent dashboard connection.
// GET /admin/chat/ws
func AdminChatMonitorHandler(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Println("❌ Chat monitor upgrade failed:", err)
		return
	}
	defer conn.Close()

	chatHub.watch(conn)
	defer chatHub.unwatch(conn)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

// GET /admin/chat/rooms
func ActiveChatRooms(c *gin.Context) {
	chatHub.mu.Lock()
	rooms := make([]string, 0, len(chatHub.rooms))
	for room := range chatHub.rooms {
		rooms = append(rooms, room)
	}
	chatHub.mu.Unlock()

	c.JSON(http.StatusOK, gin.H{"rooms": rooms})
}
