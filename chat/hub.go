// Package chat 实时聊天：每个用户可以有多个 websocket 连接，消息保存后推送给发送方与接收方
package chat

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"skill_barter/logger"
	"skill_barter/metrics"
	"skill_barter/models"
)

const (
	EventReceiveMessage = "receive_message"
	EventError          = "error"

	sendBuffer   = 32
	writeTimeout = 10 * time.Second
	readLimit    = 64 << 10
)

// Event 服务端推送给客户端的事件
type Event struct {
	Type    string          `json:"type"`
	Message *models.Message `json:"message,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// SaveFunc 持久化一条消息，返回带 ID 和时间戳的结果
type SaveFunc func(ctx context.Context, senderID string, out *models.OutgoingMessage) (*models.Message, error)

type client struct {
	userID string
	conn   *websocket.Conn
	send   chan Event
}

// Hub 按用户 ID 管理在线连接
type Hub struct {
	mu             sync.RWMutex
	clients        map[string]map[*client]struct{}
	save           SaveFunc
	originPatterns []string
}

// NewHub 创建聊天中心，originPatterns 为空时只允许同源连接
func NewHub(save SaveFunc, originPatterns []string) *Hub {
	return &Hub{
		clients:        make(map[string]map[*client]struct{}),
		save:           save,
		originPatterns: originPatterns,
	}
}

// Online 用户当前的连接数
func (h *Hub) Online(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[c.userID] == nil {
		h.clients[c.userID] = make(map[*client]struct{})
	}
	h.clients[c.userID][c] = struct{}{}
	metrics.ChatConnections.Inc()
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	conns, ok := h.clients[c.userID]
	if !ok {
		return
	}
	if _, ok := conns[c]; !ok {
		return
	}
	delete(conns, c)
	if len(conns) == 0 {
		delete(h.clients, c.userID)
	}
	close(c.send)
	metrics.ChatConnections.Dec()
}

// deliver 推送给某个用户的全部连接，缓冲区已满的连接直接丢弃该事件
func (h *Hub) deliver(userID string, ev Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients[userID] {
		select {
		case c.send <- ev:
		default:
			logger.Warn("Chat client too slow, dropping event", "user_id", userID, "type", ev.Type)
		}
	}
}

// ServeWS 升级连接并阻塞直到连接关闭，userID 由调用方完成鉴权
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, userID string) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: h.originPatterns,
	})
	if err != nil {
		logger.Error("WebSocket accept failed", "user_id", userID, "error", err)
		return
	}
	conn.SetReadLimit(readLimit)

	c := &client{userID: userID, conn: conn, send: make(chan Event, sendBuffer)}
	h.register(c)
	logger.Info("Chat client connected", "user_id", userID)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		h.writePump(ctx, c)
	}()

	h.readPump(ctx, c)
	h.unregister(c)
	cancel()
	<-done

	_ = conn.Close(websocket.StatusNormalClosure, "")
	logger.Info("Chat client disconnected", "user_id", userID)
}

func (h *Hub) readPump(ctx context.Context, c *client) {
	for {
		var out models.OutgoingMessage
		if err := wsjson.Read(ctx, c.conn, &out); err != nil {
			status := websocket.CloseStatus(err)
			if status != websocket.StatusNormalClosure && status != websocket.StatusGoingAway && !errors.Is(err, context.Canceled) {
				logger.Debug("Chat read stopped", "user_id", c.userID, "error", err)
			}
			return
		}

		msg, err := h.save(ctx, c.userID, &out)
		if err != nil {
			logger.Warn("Failed to save chat message", "sender", c.userID, "recipient", out.Recipient, "error", err)
			h.deliverTo(c, Event{Type: EventError, Error: err.Error()})
			continue
		}

		ev := Event{Type: EventReceiveMessage, Message: msg}
		h.deliver(msg.Recipient, ev)
		if msg.Recipient != msg.Sender {
			h.deliver(msg.Sender, ev)
		}
	}
}

// deliverTo 只推送给单个连接
func (h *Hub) deliverTo(c *client, ev Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if _, ok := h.clients[c.userID][c]; !ok {
		return
	}
	select {
	case c.send <- ev:
	default:
	}
}

func (h *Hub) writePump(ctx context.Context, c *client) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-c.send:
			if !ok {
				return
			}
			writeCtx, cancel := context.WithTimeout(ctx, writeTimeout)
			err := wsjson.Write(writeCtx, c.conn, ev)
			cancel()
			if err != nil {
				logger.Debug("Chat write failed", "user_id", c.userID, "error", err)
				_ = c.conn.Close(websocket.StatusInternalError, "write failed")
				return
			}
		}
	}
}
