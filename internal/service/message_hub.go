package service

import (
	"context"
	"encoding/json"
	"hash/fnv"
	"net/http"
	"strings"
	"sync"
	"time"

	"homeschool_hub_backend/pkg/logger"
	"homeschool_hub_backend/pkg/monitoring"

	"github.com/go-redis/redis/v8"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	shardCount     = 32
	onlineTTL      = 2 * time.Minute

	// Messages for a recipient are published on messagesChannelPrefix + id.
	messagesChannelPrefix = "messages:"
	onlineKeyPrefix       = "user:online:"
)

const (
	WSTypeMessage = "MESSAGE"
	WSTypeTyping  = "TYPING"
)

type WSMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// ContactChecker decides whether sender may reach recipient directly.
type ContactChecker interface {
	CanMessage(ctx context.Context, senderID, recipientID string) bool
}

type Client struct {
	Hub     *MessageHub
	Conn    *websocket.Conn
	Send    chan []byte
	UserID  string
	Limiter *rate.Limiter
}

func (c *Client) readPump() {
	defer func() {
		select {
		case c.Hub.unregister <- c:
		case <-c.Hub.ctx.Done():
		}
		c.Conn.Close()
	}()
	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error { c.Conn.SetReadDeadline(time.Now().Add(pongWait)); return nil })
	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Log.Warn("WebSocket unexpected close", zap.Error(err), zap.String("userId", c.UserID))
			}
			break
		}

		if !c.Limiter.Allow() {
			continue
		}

		var wsMsg WSMessage
		if err := json.Unmarshal(message, &wsMsg); err != nil {
			continue
		}
		monitoring.WSMessageCounter.WithLabelValues(wsMsg.Type, "in").Inc()

		if wsMsg.Type == WSTypeTyping {
			c.Hub.handleTyping(c.UserID, wsMsg)
		}
	}
}

// handleTyping forwards a transient typing indicator. Nothing is stored.
func (h *MessageHub) handleTyping(senderID string, msg WSMessage) {
	data, ok := msg.Data.(map[string]interface{})
	if !ok {
		return
	}
	recipientID, _ := data["recipientId"].(string)
	if recipientID == "" || recipientID == senderID {
		return
	}
	if h.contacts != nil && !h.contacts.CanMessage(h.ctx, senderID, recipientID) {
		return
	}

	h.Deliver(h.ctx, recipientID, WSMessage{
		Type: WSTypeTyping,
		Data: map[string]interface{}{"senderId": senderID},
	})
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

type shard struct {
	clients map[string]*Client
	mu      sync.RWMutex
}

// MessageHub pushes messages to connected users. With Redis configured it
// fans out through pub/sub so every instance reaches its own connections;
// without Redis it delivers in-process only.
type MessageHub struct {
	shards     [shardCount]*shard
	register   chan *Client
	unregister chan *Client
	Redis      *redis.Client
	contacts   ContactChecker
	upgrader   websocket.Upgrader
	ctx        context.Context
	cancel     context.CancelFunc
}

func NewMessageHub(rdb *redis.Client, checkOrigin func(r *http.Request) bool) *MessageHub {
	ctx, cancel := context.WithCancel(context.Background())
	h := &MessageHub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		Redis:      rdb,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin,
		},
		ctx:    ctx,
		cancel: cancel,
	}
	for i := 0; i < shardCount; i++ {
		h.shards[i] = &shard{clients: make(map[string]*Client)}
	}
	return h
}

// SetContactChecker installs the rule used for typing indicators.
func (h *MessageHub) SetContactChecker(c ContactChecker) {
	h.contacts = c
}

func (h *MessageHub) getShard(userID string) *shard {
	f := fnv.New32a()
	f.Write([]byte(userID))
	return h.shards[f.Sum32()%shardCount]
}

func (h *MessageHub) Run() {
	if h.Redis != nil {
		go h.subscribe()
	}

	heartbeat := time.NewTicker(time.Minute)
	defer heartbeat.Stop()

	for {
		select {
		case <-h.ctx.Done():
			return

		case client := <-h.register:
			s := h.getShard(client.UserID)
			s.mu.Lock()
			if old, ok := s.clients[client.UserID]; ok {
				close(old.Send)
			} else {
				monitoring.WSOnlineUsers.Inc()
			}
			s.clients[client.UserID] = client
			s.mu.Unlock()
			h.setOnline(client.UserID, true)

		case client := <-h.unregister:
			s := h.getShard(client.UserID)
			s.mu.Lock()
			current, ok := s.clients[client.UserID]
			if ok && current == client {
				delete(s.clients, client.UserID)
				close(client.Send)
				monitoring.WSOnlineUsers.Dec()
			}
			s.mu.Unlock()
			if ok && current == client {
				h.setOnline(client.UserID, false)
			}

		case <-heartbeat.C:
			h.refreshOnlineStatus()
		}
	}
}

func (h *MessageHub) subscribe() {
	pubsub := h.Redis.PSubscribe(h.ctx, messagesChannelPrefix+"*")
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		userID := strings.TrimPrefix(msg.Channel, messagesChannelPrefix)
		h.pushLocal(userID, []byte(msg.Payload))
	}
}

func (h *MessageHub) setOnline(userID string, online bool) {
	if h.Redis == nil {
		return
	}
	key := onlineKeyPrefix + userID
	var err error
	if online {
		err = h.Redis.Set(h.ctx, key, "true", onlineTTL).Err()
	} else {
		err = h.Redis.Del(h.ctx, key).Err()
	}
	if err != nil {
		logger.Log.Warn("Failed to update online status", zap.String("userId", userID), zap.Error(err))
	}
}

// refreshOnlineStatus extends the TTL of every local connection.
func (h *MessageHub) refreshOnlineStatus() {
	if h.Redis == nil {
		return
	}
	pipe := h.Redis.Pipeline()
	count := 0
	for i := 0; i < shardCount; i++ {
		s := h.shards[i]
		s.mu.RLock()
		for userID := range s.clients {
			pipe.Expire(h.ctx, onlineKeyPrefix+userID, onlineTTL)
			count++
		}
		s.mu.RUnlock()
	}
	if count > 0 {
		if _, err := pipe.Exec(h.ctx); err != nil {
			logger.Log.Warn("Redis pipeline error", zap.Error(err))
		}
	}
}

// Stop closes every connection and clears online status.
func (h *MessageHub) Stop() {
	var userIDs []string
	for i := 0; i < shardCount; i++ {
		s := h.shards[i]
		s.mu.Lock()
		for userID, client := range s.clients {
			userIDs = append(userIDs, userID)
			close(client.Send)
			delete(s.clients, userID)
		}
		s.mu.Unlock()
	}

	if h.Redis != nil && len(userIDs) > 0 {
		pipe := h.Redis.Pipeline()
		for _, userID := range userIDs {
			pipe.Del(h.ctx, onlineKeyPrefix+userID)
		}
		pipe.Exec(h.ctx)
	}
	h.cancel()

	monitoring.WSOnlineUsers.Set(0)
	logger.Log.Info("MessageHub stopped", zap.Int("closedConnections", len(userIDs)))
}

// Deliver pushes msg to recipientID wherever they are connected. Delivery is
// best effort. A recipient who is offline reads the stored message later.
func (h *MessageHub) Deliver(ctx context.Context, recipientID string, msg WSMessage) {
	payload, err := json.Marshal(msg)
	if err != nil {
		logger.Log.Error("Failed to encode push message", zap.Error(err))
		return
	}
	monitoring.WSMessageCounter.WithLabelValues(msg.Type, "out").Inc()

	if h.Redis == nil {
		h.pushLocal(recipientID, payload)
		return
	}
	if err := h.Redis.Publish(ctx, messagesChannelPrefix+recipientID, payload).Err(); err != nil {
		logger.Log.Warn("Redis publish failed, delivering locally", zap.String("recipientId", recipientID), zap.Error(err))
		h.pushLocal(recipientID, payload)
	}
}

func (h *MessageHub) pushLocal(userID string, payload []byte) {
	s := h.getShard(userID)
	s.mu.RLock()
	defer s.mu.RUnlock()
	if client, ok := s.clients[userID]; ok {
		select {
		case client.Send <- payload:
		default:
		}
	}
}

func (h *MessageHub) IsUserOnline(ctx context.Context, userID string) bool {
	s := h.getShard(userID)
	s.mu.RLock()
	_, ok := s.clients[userID]
	s.mu.RUnlock()
	if ok {
		return true
	}
	if h.Redis == nil {
		return false
	}

	val, err := h.Redis.Get(ctx, onlineKeyPrefix+userID).Result()
	return err == nil && val == "true"
}

func (h *MessageHub) ServeWs(w http.ResponseWriter, r *http.Request, userID string) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.Warn("WebSocket upgrade failed", zap.Error(err), zap.String("userId", userID))
		return
	}
	client := &Client{
		Hub:     h,
		Conn:    conn,
		Send:    make(chan []byte, 256),
		UserID:  userID,
		Limiter: rate.NewLimiter(rate.Limit(10), 20),
	}
	select {
	case h.register <- client:
	case <-h.ctx.Done():
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}
