// Package realtime maintains the push channel to the backend. The server
// streams change events for feed-relevant tables; consumers subscribe and
// decide whether each event warrants a refresh.
package realtime

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	jsoniter "github.com/json-iterator/go"

	"github.com/touchgrass/cli/pkg/feed"
	"github.com/touchgrass/cli/pkg/logger"
)

// MessageType classifies a server message
type MessageType string

const (
	MessageTypeChange    MessageType = "change"
	MessageTypeHeartbeat MessageType = "heartbeat"
	MessageTypePong      MessageType = "pong"
	MessageTypeError     MessageType = "error"
)

// Message is the wire envelope
type Message struct {
	Type    MessageType         `json:"type"`
	Payload jsoniter.RawMessage `json:"payload,omitempty"`
}

// Config holds connection parameters
type Config struct {
	Host                 string
	Port                 int
	Path                 string
	UseTLS               bool
	ConnectTimeoutMs     int
	HeartbeatIntervalMs  int
	ReconnectBaseDelayMs int
	ReconnectMaxDelayMs  int
	MaxReconnectAttempts int
}

// DefaultConfig returns a development configuration
func DefaultConfig() Config {
	return Config{
		Host:                 "localhost",
		Port:                 8787,
		Path:                 "/api/v1/ws",
		UseTLS:               false,
		ConnectTimeoutMs:     15000,
		HeartbeatIntervalMs:  30000,
		ReconnectBaseDelayMs: 2000,
		ReconnectMaxDelayMs:  30000,
		MaxReconnectAttempts: -1, // unlimited
	}
}

// ConnectionState tracks where the client is in its lifecycle
type ConnectionState int

const (
	StateDisconnected ConnectionState = iota
	StateConnecting
	StateConnected
	StateReconnecting
	StateError
)

// ConnectionStats holds connection statistics
type ConnectionStats struct {
	MessagesReceived int64
	MessagesSent     int64
	ReconnectCount   int
	LastError        string
	ConnectedAt      time.Time
	DisconnectedAt   time.Time
}

// ChangeHandler receives decoded change events
type ChangeHandler func(ev feed.ChangeEvent)

// Client is a reconnecting websocket consumer of the change stream
type Client struct {
	config Config
	token  string

	mu                sync.RWMutex
	conn              *websocket.Conn
	state             atomic.Value // ConnectionState
	reconnectAttempts int
	reconnectDelay    int

	handlersMu sync.RWMutex
	handlers   []ChangeHandler

	ctx    context.Context
	cancel context.CancelFunc

	statsMu sync.RWMutex
	stats   ConnectionStats
}

// NewClient creates a realtime client
func NewClient(config Config) *Client {
	ctx, cancel := context.WithCancel(context.Background())
	c := &Client{
		config:         config,
		ctx:            ctx,
		cancel:         cancel,
		reconnectDelay: config.ReconnectBaseDelayMs,
	}
	c.state.Store(StateDisconnected)
	return c
}

// OnChange subscribes a handler to decoded change events. The returned
// function unsubscribes it.
func (c *Client) OnChange(handler ChangeHandler) func() {
	c.handlersMu.Lock()
	c.handlers = append(c.handlers, handler)
	idx := len(c.handlers) - 1
	c.handlersMu.Unlock()

	return func() {
		c.handlersMu.Lock()
		defer c.handlersMu.Unlock()
		if idx < len(c.handlers) {
			c.handlers = append(c.handlers[:idx], c.handlers[idx+1:]...)
		}
	}
}

// Connect establishes the connection and starts the read and heartbeat loops
func (c *Client) Connect(token string) error {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()

	c.setState(StateConnecting)

	conn, err := c.dial()
	if err != nil {
		c.setState(StateError)
		c.recordError(err.Error())
		return err
	}

	c.mu.Lock()
	c.conn = conn
	c.reconnectAttempts = 0
	c.reconnectDelay = c.config.ReconnectBaseDelayMs
	c.mu.Unlock()

	c.setState(StateConnected)
	c.recordConnected()

	go c.readLoop()
	go c.heartbeatLoop()

	logger.Debug("Realtime connected", "host", c.config.Host, "port", c.config.Port)
	return nil
}

// Disconnect tears the connection down and stops reconnecting
func (c *Client) Disconnect() error {
	c.cancel()

	c.mu.Lock()
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
	c.mu.Unlock()

	c.setState(StateDisconnected)
	c.recordDisconnected()

	logger.Debug("Realtime disconnected")
	return nil
}

// IsConnected reports whether the connection is up
func (c *Client) IsConnected() bool {
	return c.getState() == StateConnected
}

// State returns the current connection state
func (c *Client) State() ConnectionState {
	return c.getState()
}

// Stats returns a copy of the connection statistics
func (c *Client) Stats() ConnectionStats {
	c.statsMu.RLock()
	defer c.statsMu.RUnlock()
	return c.stats
}

func (c *Client) dial() (*websocket.Conn, error) {
	scheme := "ws"
	if c.config.UseTLS {
		scheme = "wss"
	}

	u := url.URL{
		Scheme: scheme,
		Host:   fmt.Sprintf("%s:%d", c.config.Host, c.config.Port),
		Path:   c.config.Path,
	}

	c.mu.RLock()
	token := c.token
	c.mu.RUnlock()
	if token != "" {
		q := u.Query()
		q.Set("token", token)
		u.RawQuery = q.Encode()
	}

	dialCtx, cancelDial := context.WithTimeout(c.ctx,
		time.Duration(c.config.ConnectTimeoutMs)*time.Millisecond)
	defer cancelDial()

	conn, _, err := websocket.DefaultDialer.DialContext(dialCtx, u.String(), nil)
	return conn, err
}

func (c *Client) readLoop() {
	defer c.handleDisconnect()

	for {
		select {
		case <-c.ctx.Done():
			return
		default:
		}

		c.mu.RLock()
		conn := c.conn
		c.mu.RUnlock()
		if conn == nil {
			return
		}

		_, data, err := conn.ReadMessage()
		if err != nil {
			c.recordError(err.Error())
			logger.Error("Realtime read error", "error", err)
			return
		}
		c.recordMessageReceived()

		var msg Message
		if err := jsoniter.Unmarshal(data, &msg); err != nil {
			logger.Warn("Dropping malformed realtime message", "error", err)
			continue
		}

		c.dispatch(msg)
	}
}

func (c *Client) dispatch(msg Message) {
	switch msg.Type {
	case MessageTypeChange:
		var ev feed.ChangeEvent
		if err := jsoniter.Unmarshal(msg.Payload, &ev); err != nil {
			logger.Warn("Dropping malformed change event", "error", err)
			return
		}

		c.handlersMu.RLock()
		handlers := make([]ChangeHandler, len(c.handlers))
		copy(handlers, c.handlers)
		c.handlersMu.RUnlock()

		for _, h := range handlers {
			go h(ev)
		}

	case MessageTypePong:
		// heartbeat acknowledged

	case MessageTypeError:
		logger.Warn("Realtime server error", "payload", string(msg.Payload))
	}
}

func (c *Client) heartbeatLoop() {
	ticker := time.NewTicker(time.Duration(c.config.HeartbeatIntervalMs) * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-c.ctx.Done():
			return
		case <-ticker.C:
			if !c.IsConnected() {
				return
			}
			if err := c.send(Message{Type: MessageTypeHeartbeat}); err != nil {
				logger.Debug("Failed to send heartbeat", "error", err)
			}
		}
	}
}

func (c *Client) send(msg Message) error {
	c.mu.RLock()
	conn := c.conn
	c.mu.RUnlock()
	if conn == nil {
		return fmt.Errorf("not connected")
	}

	data, err := jsoniter.Marshal(msg)
	if err != nil {
		return err
	}
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return err
	}

	c.recordMessageSent()
	return nil
}

// handleDisconnect reconnects with exponential backoff plus jitter
func (c *Client) handleDisconnect() {
	c.mu.Lock()
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
	c.mu.Unlock()

	select {
	case <-c.ctx.Done():
		c.setState(StateDisconnected)
		return
	default:
	}

	c.setState(StateReconnecting)
	c.recordDisconnected()

	for {
		c.mu.RLock()
		attempts := c.reconnectAttempts
		delay := c.reconnectDelay
		c.mu.RUnlock()

		if c.config.MaxReconnectAttempts >= 0 && attempts >= c.config.MaxReconnectAttempts {
			c.setState(StateError)
			logger.Error("Max reconnection attempts reached")
			return
		}

		wait := time.Duration(delay)*time.Millisecond +
			time.Duration(rand.Intn(1000))*time.Millisecond

		logger.Debug("Reconnecting realtime channel", "attempt", attempts+1, "wait_ms", wait.Milliseconds())

		select {
		case <-c.ctx.Done():
			return
		case <-time.After(wait):
		}

		conn, err := c.dial()
		if err != nil {
			c.mu.Lock()
			c.reconnectAttempts++
			c.reconnectDelay = int(math.Min(
				float64(c.reconnectDelay*2),
				float64(c.config.ReconnectMaxDelayMs),
			))
			c.mu.Unlock()
			continue
		}

		c.mu.Lock()
		c.conn = conn
		c.reconnectAttempts = 0
		c.reconnectDelay = c.config.ReconnectBaseDelayMs
		c.mu.Unlock()

		c.setState(StateConnected)
		c.recordConnected()
		c.recordReconnect()

		logger.Debug("Realtime reconnected")

		go c.readLoop()
		go c.heartbeatLoop()
		return
	}
}

func (c *Client) setState(state ConnectionState) {
	c.state.Store(state)
}

func (c *Client) getState() ConnectionState {
	return c.state.Load().(ConnectionState)
}

func (c *Client) recordMessageReceived() {
	c.statsMu.Lock()
	c.stats.MessagesReceived++
	c.statsMu.Unlock()
}

func (c *Client) recordMessageSent() {
	c.statsMu.Lock()
	c.stats.MessagesSent++
	c.statsMu.Unlock()
}

func (c *Client) recordError(errMsg string) {
	c.statsMu.Lock()
	c.stats.LastError = errMsg
	c.statsMu.Unlock()
}

func (c *Client) recordConnected() {
	c.statsMu.Lock()
	c.stats.ConnectedAt = time.Now()
	c.statsMu.Unlock()
}

func (c *Client) recordDisconnected() {
	c.statsMu.Lock()
	c.stats.DisconnectedAt = time.Now()
	c.statsMu.Unlock()
}

func (c *Client) recordReconnect() {
	c.statsMu.Lock()
	c.stats.ReconnectCount++
	c.statsMu.Unlock()
}
