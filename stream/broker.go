// Package stream broadcasts rendered frames to websocket viewers.
package stream

import (
	"errors"
	"net/http"
	"sync"
	"time"

	"orbit/hal"

	"github.com/gorilla/websocket"
)

const (
	sendBuffer   = 8
	pingInterval = 30 * time.Second
	writeWait    = 5 * time.Second
)

var ErrClosed = errors.New("stream: broker closed")

type client struct {
	conn *websocket.Conn
	send chan []byte
	id   string
}

// Broker fans frames out to every connected viewer. Viewers that fall a
// full buffer behind are disconnected.
type Broker struct {
	logger   hal.Logger
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*client]struct{}
	closed  bool
}

func NewBroker(logger hal.Logger) *Broker {
	return &Broker{
		logger: logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients: make(map[*client]struct{}),
	}
}

// ServeWS upgrades the request and registers the viewer.
func (b *Broker) ServeWS(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	closed := b.closed
	b.mu.Unlock()
	if closed {
		http.Error(w, ErrClosed.Error(), http.StatusServiceUnavailable)
		return
	}

	conn, err := b.upgrader.Upgrade(w, r, nil)
	if err != nil {
		b.log("stream: upgrade: " + err.Error())
		return
	}
	c := &client{conn: conn, send: make(chan []byte, sendBuffer), id: r.RemoteAddr}

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		conn.Close()
		return
	}
	b.clients[c] = struct{}{}
	b.mu.Unlock()
	b.log("stream: viewer connected " + c.id)

	go b.readLoop(c)
	go b.writeLoop(c)
}

// readLoop discards viewer messages and notices disconnects.
func (b *Broker) readLoop(c *client) {
	defer func() {
		b.remove(c)
		c.conn.Close()
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (b *Broker) writeLoop(c *client) {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.conn.WriteMessage(websocket.BinaryMessage, msg); err != nil {
				b.remove(c)
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				b.remove(c)
				return
			}
		}
	}
}

// remove unregisters c and closes its send channel once.
func (b *Broker) remove(c *client) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.removeLocked(c)
}

func (b *Broker) removeLocked(c *client) {
	if _, ok := b.clients[c]; !ok {
		return
	}
	delete(b.clients, c)
	close(c.send)
	b.log("stream: viewer gone " + c.id)
}

// WriteFrame broadcasts one frame. With no viewers it does no work.
func (b *Broker) WriteFrame(seq uint64, angle float64, width, height int, pix []byte) error {
	b.mu.Lock()
	closed, n := b.closed, len(b.clients)
	b.mu.Unlock()
	if closed {
		return ErrClosed
	}
	if n == 0 {
		return nil
	}
	b.broadcast(EncodeFrame(seq, width, height, pix))
	return nil
}

func (b *Broker) broadcast(msg []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for c := range b.clients {
		select {
		case c.send <- msg:
		default:
			b.log("stream: evicting slow viewer " + c.id)
			b.removeLocked(c)
		}
	}
}

// ClientCount reports the connected viewers.
func (b *Broker) ClientCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.clients)
}

// Close disconnects every viewer and rejects new ones.
func (b *Broker) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true
	for c := range b.clients {
		b.removeLocked(c)
	}
	return nil
}

func (b *Broker) log(s string) {
	if b.logger != nil {
		b.logger.WriteLineString(s)
	}
}
