package platform

import (
	"fmt"
	"log/slog"
	"sync"
)

// Pool manages websocket connections to the bot-hosting platform. One
// connection per unique (url, key) pair, created on demand.
type Pool struct {
	mu      sync.Mutex
	clients map[string]*Client // key: "url|key"
}

func NewPool() *Pool {
	return &Pool{
		clients: make(map[string]*Client),
	}
}

// Get returns a connected client for the given URL/key, creating one if
// needed.
func (p *Pool) Get(url, key string) (*Client, error) {
	if url == "" {
		return nil, fmt.Errorf("platform URL not configured")
	}

	poolKey := url + "|" + key
	p.mu.Lock()
	if c, ok := p.clients[poolKey]; ok && c.IsConnected() {
		p.mu.Unlock()
		return c, nil
	}
	p.mu.Unlock()

	slog.Info("platform pool: connecting", "url", url)
	c := NewClient(url, key)
	if err := c.Connect(); err != nil {
		return nil, fmt.Errorf("pool connect: %w", err)
	}

	p.mu.Lock()
	p.clients[poolKey] = c
	p.mu.Unlock()

	return c, nil
}

func (p *Pool) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, c := range p.clients {
		c.Close()
	}
	p.clients = make(map[string]*Client)
}
