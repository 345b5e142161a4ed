package platform

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	sendTimeout  = 60 * time.Second
	queryTimeout = 120 * time.Second
)

// Client maintains one websocket connection to the bot-hosting platform
// and multiplexes bot queries over it. Request responses are matched to
// callers through a pending map; streamed reply events arrive on a shared
// event channel.
type Client struct {
	url       string
	key       string
	conn      *websocket.Conn
	connected bool
	mu        sync.Mutex
	nextID    atomic.Int64

	pending   map[string]chan json.RawMessage
	pendingMu sync.Mutex

	events chan wireMessage
	done   chan struct{}
}

// wireMessage is the platform's frame shape for requests, responses, and
// events.
type wireMessage struct {
	Type    string          `json:"type"`
	ID      string          `json:"id,omitempty"`
	Method  string          `json:"method,omitempty"`
	Params  any             `json:"params,omitempty"`
	OK      bool            `json:"ok,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
	Error   *wireError      `json:"error,omitempty"`
	Event   string          `json:"event,omitempty"`
}

type wireError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func NewClient(url, key string) *Client {
	return &Client{
		url:     url,
		key:     key,
		pending: make(map[string]chan json.RawMessage),
		events:  make(chan wireMessage, 100),
		done:    make(chan struct{}),
	}
}

func (c *Client) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

// wsURL normalizes a platform URL to a websocket endpoint. Bare host
// names default to wss.
func wsURL(raw string) string {
	raw = strings.TrimSuffix(raw, "/")
	switch {
	case strings.HasPrefix(raw, "ws://"), strings.HasPrefix(raw, "wss://"):
		return raw
	case strings.HasPrefix(raw, "http://"):
		return "ws://" + strings.TrimPrefix(raw, "http://")
	case strings.HasPrefix(raw, "https://"):
		return "wss://" + strings.TrimPrefix(raw, "https://")
	}
	return "wss://" + raw
}

func (c *Client) Connect() error {
	endpoint := wsURL(c.url)

	conn, _, err := websocket.DefaultDialer.Dial(endpoint, nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", endpoint, err)
	}

	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()

	go c.readLoop()

	if err := c.authenticate(); err != nil {
		conn.Close()
		return fmt.Errorf("auth: %w", err)
	}

	c.mu.Lock()
	c.connected = true
	c.mu.Unlock()

	slog.Info("platform: connected", "url", endpoint)
	return nil
}

func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.connected = false
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
}

func (c *Client) readLoop() {
	defer func() {
		select {
		case <-c.done:
		default:
			close(c.done)
		}
		c.mu.Lock()
		c.connected = false
		c.mu.Unlock()
	}()

	for {
		c.mu.Lock()
		conn := c.conn
		c.mu.Unlock()
		if conn == nil {
			return
		}

		_, message, err := conn.ReadMessage()
		if err != nil {
			slog.Debug("platform readLoop ended", "err", err)
			return
		}

		var msg wireMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			continue
		}

		// Response to a pending request?
		if msg.Type == "res" && msg.ID != "" {
			c.pendingMu.Lock()
			ch, ok := c.pending[msg.ID]
			if ok {
				delete(c.pending, msg.ID)
			}
			c.pendingMu.Unlock()
			if ok {
				ch <- message
				close(ch)
				continue
			}
		}

		// Event?
		if msg.Type == "event" {
			select {
			case c.events <- msg:
			default:
			}
		}
	}
}

func (c *Client) send(method string, params any) (wireMessage, error) {
	id := fmt.Sprintf("srv-%d", c.nextID.Add(1))

	ch := make(chan json.RawMessage, 1)
	c.pendingMu.Lock()
	c.pending[id] = ch
	c.pendingMu.Unlock()

	req := wireMessage{
		Type:   "req",
		ID:     id,
		Method: method,
		Params: params,
	}
	data, _ := json.Marshal(req)

	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	if conn == nil {
		return wireMessage{}, fmt.Errorf("not connected")
	}

	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		c.pendingMu.Lock()
		delete(c.pending, id)
		c.pendingMu.Unlock()
		return wireMessage{}, err
	}

	select {
	case raw := <-ch:
		var resp wireMessage
		json.Unmarshal(raw, &resp)
		return resp, nil
	case <-time.After(sendTimeout):
		c.pendingMu.Lock()
		delete(c.pending, id)
		c.pendingMu.Unlock()
		return wireMessage{}, fmt.Errorf("timeout waiting for %s response", method)
	case <-c.done:
		return wireMessage{}, fmt.Errorf("connection closed")
	}
}

func (c *Client) authenticate() error {
	params := map[string]any{
		"minProtocol": 1,
		"maxProtocol": 1,
		"client": map[string]any{
			"id":       "bothost-server",
			"version":  "1.0.0",
			"platform": "server",
		},
		"auth": map[string]any{"accessKey": c.key},
	}

	resp, err := c.send("connect", params)
	if err != nil {
		return err
	}
	if resp.Error != nil {
		return fmt.Errorf("connect error: %s: %s", resp.Error.Code, resp.Error.Message)
	}
	if !resp.OK {
		return fmt.Errorf("connect rejected")
	}
	return nil
}

// QueryBot sends a message to the named hosted bot and streams the reply,
// invoking onText for each delta until the platform reports the final
// state.
func (c *Client) QueryBot(ctx context.Context, handle, message string, onText func(string)) error {
	params := map[string]any{
		"bot":            handle,
		"message":        message,
		"idempotencyKey": uuid.NewString(),
	}

	resp, err := c.send("bot.query", params)
	if err != nil {
		return fmt.Errorf("bot.query: %w", err)
	}
	if !resp.OK {
		errMsg := "unknown error"
		if resp.Error != nil {
			errMsg = resp.Error.Message
		}
		return fmt.Errorf("bot.query rejected: %s", errMsg)
	}

	// Collect reply events until state=="final".
	var streamed bool
	timeout := time.After(queryTimeout)
	for {
		select {
		case evt := <-c.events:
			if evt.Event != "bot.response" {
				continue
			}
			var payload struct {
				State string `json:"state"`
				Text  string `json:"text"`
				Error string `json:"error"`
			}
			json.Unmarshal(evt.Payload, &payload)

			switch payload.State {
			case "delta":
				if payload.Text != "" {
					streamed = true
					onText(payload.Text)
				}
			case "final":
				// A final frame with text stands in for the whole reply
				// when nothing was streamed.
				if !streamed && payload.Text != "" {
					onText(payload.Text)
				}
				return nil
			case "error":
				return fmt.Errorf("delegate error: %s", payload.Error)
			case "aborted":
				return fmt.Errorf("delegate aborted")
			}
		case <-ctx.Done():
			return ctx.Err()
		case <-timeout:
			return fmt.Errorf("timeout waiting for %s response", handle)
		case <-c.done:
			return fmt.Errorf("connection closed during query")
		}
	}
}
