package db

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/fefrre/ferweb/internal/oxidb"
)

const (
	dialTimeout       = 5 * time.Second
	keepaliveInterval = 10 * time.Second
)

// Pool is a round-robin connection pool for OxiDB with auto-reconnect.
type Pool struct {
	addr    string
	log     *zap.Logger
	clients []*oxidb.Client
	mu      []sync.RWMutex
	idx     uint64
	stop    chan struct{}
	done    chan struct{}
}

// NewPool creates a pool of size OxiDB connections and starts the keepalive
// loop that replaces connections failing a ping.
func NewPool(host string, port, size int, log *zap.Logger) (*Pool, error) {
	if size < 1 {
		size = 1
	}
	p := &Pool{
		addr:    net.JoinHostPort(host, strconv.Itoa(port)),
		log:     log,
		clients: make([]*oxidb.Client, size),
		mu:      make([]sync.RWMutex, size),
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	for i := 0; i < size; i++ {
		c, err := oxidb.Dial(p.addr, dialTimeout)
		if err != nil {
			p.closeClients()
			return nil, fmt.Errorf("pool: connect client %d: %w", i, err)
		}
		p.clients[i] = c
	}
	go p.keepalive()
	return p, nil
}

// Get returns the next client in round-robin order. A broken client is
// replaced before it is handed out; if the redial fails the broken one is
// returned and its calls fail with oxidb.ErrBroken.
func (p *Pool) Get() *oxidb.Client {
	n := atomic.AddUint64(&p.idx, 1)
	i := int(n % uint64(len(p.clients)))
	c := p.client(i)
	if c.Broken() {
		p.reconnect(i, c)
		c = p.client(i)
	}
	return c
}

func (p *Pool) client(i int) *oxidb.Client {
	p.mu[i].RLock()
	defer p.mu[i].RUnlock()
	return p.clients[i]
}

// Ping checks one connection.
func (p *Pool) Ping(ctx context.Context) error {
	_, err := p.Get().Ping(ctx)
	return err
}

// reconnect replaces slot i if it still holds old. Concurrent callers that
// lose the race close their own dial.
func (p *Pool) reconnect(i int, old *oxidb.Client) {
	c, err := oxidb.Dial(p.addr, dialTimeout)
	if err != nil {
		p.log.Warn("oxidb reconnect failed", zap.Int("client", i), zap.Error(err))
		return
	}
	p.mu[i].Lock()
	if p.clients[i] != old {
		p.mu[i].Unlock()
		c.Close()
		return
	}
	p.clients[i] = c
	p.mu[i].Unlock()
	old.Close()
}

func (p *Pool) keepalive() {
	defer close(p.done)
	ticker := time.NewTicker(keepaliveInterval)
	defer ticker.Stop()
	for {
		select {
		case <-p.stop:
			return
		case <-ticker.C:
			for i := range p.clients {
				c := p.client(i)
				ctx, cancel := context.WithTimeout(context.Background(), dialTimeout)
				_, err := c.Ping(ctx)
				cancel()
				if err != nil {
					p.log.Warn("oxidb ping failed, reconnecting", zap.Int("client", i), zap.Error(err))
					p.reconnect(i, c)
				}
			}
		}
	}
}

func (p *Pool) closeClients() {
	for i := range p.clients {
		p.mu[i].Lock()
		if p.clients[i] != nil {
			p.clients[i].Close()
		}
		p.mu[i].Unlock()
	}
}

// Close stops the keepalive loop and closes all connections.
func (p *Pool) Close() {
	close(p.stop)
	<-p.done
	p.closeClients()
}
