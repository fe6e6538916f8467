package websocketManager

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// WebSocket 連接升級器
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// 允許所有來源的跨域請求
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
	HandshakeTimeout: 10 * time.Second,
}

// WebSocketHandler 提供 WebSocket 連接處理
type WebSocketHandler struct {
	manager *Manager
}

// NewWebSocketHandler 創建新的 WebSocket 處理程序
func NewWebSocketHandler(manager *Manager) *WebSocketHandler {
	return &WebSocketHandler{
		manager: manager,
	}
}

// HandleConnection 處理 WebSocket 連接請求
func (h *WebSocketHandler) HandleConnection(c *gin.Context) {
	if !h.manager.Running() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "message": "WebSocket 服務未啟動"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.manager.logger.Warn("升級 WebSocket 連接失敗", zap.Error(err))
		return
	}

	client := &Client{
		ID:      uuid.New().String(),
		Conn:    conn,
		Send:    make(chan []byte, sendBufferSize),
		manager: h.manager,
	}

	select {
	case h.manager.register <- client:
	case <-h.manager.done:
		conn.Close()
		return
	}

	go client.ReadPump()
	go client.WritePump()
}
