// Package network owns TCP connection lifecycle: the per-socket connection
// actor, the client registry/supervisor that implements world.Sender, and
// the Status-state JSON response cache.
package network

import (
	"net"
	"sync"
	"time"

	"go.uber.org/atomic"

	"github.com/underkeep/underkeep/pkg/protocol"
)

// nextClientID is a process-unique connection id allocator, same shape as
// world.AllocateEntityID.
var nextClientID atomic.Int32

// AllocateClientID returns the next client id, starting from 1.
func AllocateClientID() int32 {
	return nextClientID.Inc()
}

// outboundQueueSize bounds how many pending writes a slow client may
// accumulate before the connection actor drops it: a stalled socket must
// not back-pressure the tick runtime.
const outboundQueueSize = 256

// Client is the connection actor's externally-visible handle: the
// supervisor's registry and the tick runtime only ever touch it through
// the methods below, never the raw net.Conn.
type Client struct {
	ID   int32
	conn net.Conn

	outbound chan []byte
	closed   atomic.Bool

	mu       sync.Mutex
	username string
	uuid     [16]byte
}

func newClient(id int32, conn net.Conn) *Client {
	return &Client{
		ID:       id,
		conn:     conn,
		outbound: make(chan []byte, outboundQueueSize),
	}
}

// Enqueue schedules data for writing on this client's connection. A full
// queue means the client is not draining fast enough, so the connection
// is closed rather than blocking the caller.
func (c *Client) Enqueue(data []byte) {
	if c.closed.Load() {
		return
	}
	select {
	case c.outbound <- data:
	default:
		c.Close()
	}
}

// Close closes the underlying connection exactly once.
func (c *Client) Close() {
	if c.closed.CompareAndSwap(false, true) {
		_ = c.conn.Close()
	}
}

func (c *Client) setProfile(name string, id [16]byte) {
	c.mu.Lock()
	c.username = name
	c.uuid = id
	c.mu.Unlock()
}

// Username returns the client's logged-in name, or "" before login.
func (c *Client) Username() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.username
}

// UUID returns the client's offline-mode UUID, the zero UUID before login.
func (c *Client) UUID() [16]byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.uuid
}

// writeLoop drains the outbound queue to the socket until the connection
// closes. Runs as its own goroutine so a blocked Write never stalls the
// read loop or the tick runtime that feeds Enqueue.
func (c *Client) writeLoop() {
	for data := range c.outbound {
		_ = c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
		if _, err := c.conn.Write(data); err != nil {
			c.Close()
			return
		}
	}
}

// readDeadline bounds how long the connection actor waits for the next
// packet before considering the peer dead.
const readDeadline = 30 * time.Second

func (c *Client) nextPacket() (*protocol.Packet, error) {
	_ = c.conn.SetReadDeadline(time.Now().Add(readDeadline))
	return protocol.ReadPacket(c.conn)
}
