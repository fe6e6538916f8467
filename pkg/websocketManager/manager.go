package websocketManager

import (
	"context"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	// 心跳間隔需小於讀取超時
	heartbeatInterval = 15 * time.Second
	// 連接超時設置
	readTimeout  = 30 * time.Second
	writeTimeout = 10 * time.Second
	// 每個客戶端的發送緩衝
	sendBufferSize = 256
)

// Message 推送給客戶端的訊息
type Message struct {
	Type      string      `json:"type"`
	Content   interface{} `json:"content,omitempty"`
	Timestamp int64       `json:"timestamp,omitempty"`
}

// NewMessage 以目前時間建立訊息
func NewMessage(msgType string, content interface{}) Message {
	return Message{
		Type:      msgType,
		Content:   content,
		Timestamp: time.Now().UnixMilli(),
	}
}

// Client 代表一個 WebSocket 連接
type Client struct {
	ID      string
	Conn    *websocket.Conn
	Send    chan []byte
	manager *Manager

	// mu 保護 closed，Send 只在持鎖時寫入或關閉
	mu     sync.Mutex
	closed bool
}

// close 只關閉一次發送通道，之後的 send 一律失敗
func (c *Client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.Send)
}

// send 非阻塞寫入 Send；已關閉或緩衝已滿時返回 false
func (c *Client) send(data []byte) (ok bool, closed bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false, true
	}
	select {
	case c.Send <- data:
		return true, false
	default:
		return false, false
	}
}

// SendMessage 非阻塞送出單一訊息，緩衝已滿時返回 false
func (c *Client) SendMessage(msg Message) bool {
	data, err := json.Marshal(msg)
	if err != nil {
		c.manager.logger.Error("序列化訊息失敗", zap.String("type", msg.Type), zap.Error(err))
		return false
	}
	ok, _ := c.send(data)
	return ok
}

// Manager WebSocket 廣播中心，所有客戶端的增刪都在事件迴圈內完成
type Manager struct {
	clients    map[string]*Client
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	onConnect  func(*Client)
	onCount    func(int)
	logger     *zap.Logger

	mu      sync.RWMutex
	closed  bool
	running bool
}

// NewManager 創建新的 WebSocket 管理器
func NewManager(logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		clients:    make(map[string]*Client),
		broadcast:  make(chan []byte, 256),
		register:   make(chan *Client, 16),
		unregister: make(chan *Client, 16),
		done:       make(chan struct{}),
		logger:     logger.With(zap.String("component", "websocket_manager")),
	}
}

// OnConnect 新客戶端註冊後呼叫，用來補送目前狀態，需在 Start 之前設置
func (manager *Manager) OnConnect(fn func(*Client)) {
	manager.onConnect = fn
}

// OnClientCount 客戶端數量變化時呼叫，需在 Start 之前設置
func (manager *Manager) OnClientCount(fn func(int)) {
	manager.onCount = fn
}

// Start 執行事件迴圈直到 ctx 結束或 Shutdown
func (manager *Manager) Start(ctx context.Context) {
	manager.mu.Lock()
	manager.running = true
	manager.mu.Unlock()

	manager.logger.Info("WebSocket 管理器啟動")
	defer manager.logger.Info("WebSocket 管理器結束")
	defer manager.cleanupAllConnections()
	// ctx 結束時同樣關閉 done
	defer manager.Shutdown()

	for {
		select {
		case <-ctx.Done():
			return
		case <-manager.done:
			return

		case client := <-manager.register:
			manager.mu.Lock()
			manager.clients[client.ID] = client
			count := len(manager.clients)
			manager.mu.Unlock()

			manager.logger.Debug("客戶端已註冊", zap.String("clientID", client.ID), zap.Int("clients", count))
			if manager.onConnect != nil {
				manager.onConnect(client)
			}
			manager.notifyCount(count)

		case client := <-manager.unregister:
			manager.removeClient(client)

		case message := <-manager.broadcast:
			manager.broadcastMessage(message)
		}
	}
}

func (manager *Manager) notifyCount(n int) {
	if manager.onCount != nil {
		manager.onCount(n)
	}
}

// removeClient 移除並關閉客戶端
func (manager *Manager) removeClient(client *Client) {
	manager.mu.Lock()
	_, ok := manager.clients[client.ID]
	if ok {
		delete(manager.clients, client.ID)
	}
	count := len(manager.clients)
	manager.mu.Unlock()

	if !ok {
		return
	}
	client.close()
	manager.logger.Debug("客戶端已移除", zap.String("clientID", client.ID), zap.Int("clients", count))
	manager.notifyCount(count)
}

// broadcastMessage 發送給所有客戶端，緩衝已滿的慢速客戶端會被斷開
func (manager *Manager) broadcastMessage(message []byte) {
	manager.mu.RLock()
	var slow []*Client
	for _, client := range manager.clients {
		if ok, closed := client.send(message); !ok && !closed {
			slow = append(slow, client)
		}
	}
	manager.mu.RUnlock()

	for _, client := range slow {
		manager.logger.Warn("客戶端發送緩衝已滿，斷開連接", zap.String("clientID", client.ID))
		manager.removeClient(client)
	}
}

// cleanupAllConnections 關閉所有連接
func (manager *Manager) cleanupAllConnections() {
	manager.mu.Lock()
	clients := manager.clients
	manager.clients = make(map[string]*Client)
	manager.running = false
	manager.mu.Unlock()

	for _, client := range clients {
		client.close()
	}
	manager.notifyCount(0)
}

// Broadcast 將訊息排入廣播佇列，佇列已滿時丟棄並返回 false
func (manager *Manager) Broadcast(msg Message) bool {
	data, err := json.Marshal(msg)
	if err != nil {
		manager.logger.Error("序列化廣播訊息失敗", zap.String("type", msg.Type), zap.Error(err))
		return false
	}

	select {
	case manager.broadcast <- data:
		return true
	default:
		manager.logger.Warn("廣播佇列已滿，丟棄訊息", zap.String("type", msg.Type))
		return false
	}
}

// ClientCount 目前連接數
func (manager *Manager) ClientCount() int {
	manager.mu.RLock()
	defer manager.mu.RUnlock()
	return len(manager.clients)
}

// Running 事件迴圈是否運行中
func (manager *Manager) Running() bool {
	manager.mu.RLock()
	defer manager.mu.RUnlock()
	return manager.running
}

// Shutdown 停止事件迴圈，可重複呼叫
func (manager *Manager) Shutdown() {
	manager.mu.Lock()
	defer manager.mu.Unlock()
	if manager.closed {
		return
	}
	manager.closed = true
	close(manager.done)
}

// ReadPump 讀取客戶端訊息，只處理心跳，連線結束時註銷客戶端
func (c *Client) ReadPump() {
	defer func() {
		select {
		case c.manager.unregister <- c:
		case <-c.manager.done:
		}
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(4096)
	c.Conn.SetReadDeadline(time.Now().Add(readTimeout))
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(readTimeout))
	})

	for {
		messageType, data, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.manager.logger.Debug("客戶端連線異常關閉", zap.String("clientID", c.ID), zap.Error(err))
			}
			return
		}
		c.Conn.SetReadDeadline(time.Now().Add(readTimeout))

		if messageType != websocket.TextMessage {
			continue
		}

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			c.manager.logger.Debug("無法解析客戶端訊息", zap.String("clientID", c.ID), zap.Error(err))
			continue
		}
		if msg.Type == "heartbeat" {
			c.SendMessage(NewMessage("heartbeat", nil))
		}
	}
}

// WritePump 將 Send 通道的訊息寫入連接，並定時發送 ping
func (c *Client) WritePump() {
	ticker := time.NewTicker(heartbeatInterval)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			if err := c.Conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout)); err != nil {
				return
			}
		}
	}
}
