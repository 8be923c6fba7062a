package controllers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/suraj371k/trello/config"
	"github.com/suraj371k/trello/services"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	maxMessageSize = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The channel itself is unauthenticated, matching the CORS policy; it
	// only ever carries board state that authenticated REST calls expose.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// SocketController upgrades connections and runs the per-connection read
// and write pumps. Room membership lives in the broadcaster; each
// connection is torn down deterministically when either pump exits.
type SocketController struct {
	hub *services.Broadcaster
}

func NewSocketController(hub *services.Broadcaster) *SocketController {
	return &SocketController{hub: hub}
}

// inboundMessage is what clients send: currently only join-board.
type inboundMessage struct {
	Event string `json:"event"`
}

// Handle handles GET /ws.
func (sc *SocketController) Handle(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		config.Logger.Warnw("websocket upgrade failed", "error", err)
		return
	}

	client := services.NewBoardClient()
	sc.hub.Register(client)

	// Tell the client its connection id so REST mutations can carry it in
	// X-Client-ID and skip the echo.
	if hello, err := json.Marshal(services.BoardEvent{
		Event: "connected",
		Data:  map[string]string{"clientId": client.ID},
	}); err == nil {
		client.Send <- hello
	}

	go sc.writePump(conn, client)
	sc.readPump(conn, client)
}

func (sc *SocketController) readPump(conn *websocket.Conn, client *services.BoardClient) {
	defer func() {
		sc.hub.Unregister(client)
		conn.Close()
	}()

	conn.SetReadLimit(maxMessageSize)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				config.Logger.Debugw("websocket closed", "clientId", client.ID, "error", err)
			}
			return
		}

		var msg inboundMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			continue
		}
		if msg.Event == "join-board" {
			sc.hub.Join(client)
		}
	}
}

func (sc *SocketController) writePump(conn *websocket.Conn, client *services.BoardClient) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case payload, ok := <-client.Send:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
