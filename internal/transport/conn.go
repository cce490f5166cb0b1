package transport

import (
	"sync"
	"sync/atomic"
	"time"

	pion "github.com/pion/webrtc/v4"
)

// Connection is an open peer-to-peer message channel. It satisfies
// tunnel.Conn: sends are dropped (not queued) while the underlying data
// channel is not open, and receives serve exactly one waiter at a time.
type Connection struct {
	pc *pion.PeerConnection

	mu sync.Mutex
	dc *pion.DataChannel

	inbox     chan []byte
	opened    chan struct{}
	openOnce  sync.Once
	stop      chan struct{}
	closeOnce sync.Once

	open      atomic.Bool
	receiving atomic.Bool
}

func newConnection(pc *pion.PeerConnection) *Connection {
	return &Connection{
		pc:     pc,
		inbox:  make(chan []byte, 16),
		opened: make(chan struct{}),
		stop:   make(chan struct{}),
	}
}

// bind attaches the data channel once it exists (created locally on the
// creator side, announced remotely on the joiner side).
func (c *Connection) bind(dc *pion.DataChannel) {
	c.mu.Lock()
	c.dc = dc
	c.mu.Unlock()

	dc.OnOpen(func() {
		c.open.Store(true)
		c.openOnce.Do(func() { close(c.opened) })
	})
	dc.OnClose(func() {
		c.open.Store(false)
	})
	dc.OnMessage(func(msg pion.DataChannelMessage) {
		c.deliver(append([]byte(nil), msg.Data...))
	})
}

// deliver queues an inbound message; a full inbox drops rather than blocks
// the data channel callback.
func (c *Connection) deliver(data []byte) {
	select {
	case c.inbox <- data:
	default:
	}
}

// Send writes a message to the peer. While the channel is not open the
// message is dropped; callers needing delivery guarantees must await open
// state first.
func (c *Connection) Send(data []byte) error {
	if !c.open.Load() {
		return nil
	}
	c.mu.Lock()
	dc := c.dc
	c.mu.Unlock()
	if dc == nil {
		return nil
	}
	return dc.Send(data)
}

// ReceiveOnce resolves with the next inbound message or fails with
// ErrMessageTimeout. A single waiter is served per call.
func (c *Connection) ReceiveOnce(timeout time.Duration) ([]byte, error) {
	if !c.receiving.CompareAndSwap(false, true) {
		return nil, newError("receive", ErrReceiveBusy)
	}
	defer c.receiving.Store(false)

	select {
	case data := <-c.inbox:
		return data, nil
	case <-time.After(timeout):
		return nil, newError("receive", ErrMessageTimeout)
	case <-c.stop:
		return nil, newError("receive", ErrConnectionClosed)
	}
}

// Close tears down the data channel and the peer connection. Idempotent.
func (c *Connection) Close() {
	c.closeOnce.Do(func() {
		close(c.stop)
		c.open.Store(false)

		c.mu.Lock()
		dc := c.dc
		c.mu.Unlock()
		if dc != nil {
			dc.Close()
		}
		if c.pc != nil {
			c.pc.Close()
		}
	})
}
