package transport

import (
	"fmt"
	"net"
	"net/url"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tether-app/tether/internal/dns"
	"github.com/tether-app/tether/internal/relay"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024
)

// wsClient manages the WebSocket connection to the relay.
type wsClient struct {
	conn      *websocket.Conn
	serverURL string
	incoming  chan *relay.Frame
	outgoing  chan *relay.Frame
	done      chan struct{}
	closed    bool
}

func newWSClient(serverURL string) *wsClient {
	return &wsClient{
		serverURL: serverURL,
		incoming:  make(chan *relay.Frame, 1),
		outgoing:  make(chan *relay.Frame, 1),
		done:      make(chan struct{}, 1),
	}
}

// connect dials the relay within timeout and starts the read/write pumps.
func (c *wsClient) connect(timeout time.Duration) error {
	u, err := url.Parse(c.serverURL)
	if err != nil {
		return fmt.Errorf("invalid relay URL: %w", err)
	}

	dialer := *websocket.DefaultDialer
	dialer.HandshakeTimeout = timeout
	// Robust DNS lookup with public fallback before dialing.
	dialer.NetDial = func(network, addr string) (net.Conn, error) {
		host, port, err := net.SplitHostPort(addr)
		if err != nil {
			return nil, err
		}
		resolvedIP, err := dns.Lookup(host)
		if err != nil {
			return nil, fmt.Errorf("dns lookup failed: %w", err)
		}
		return net.DialTimeout(network, net.JoinHostPort(resolvedIP, port), timeout)
	}

	conn, _, err := dialer.Dial(u.String(), nil)
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}
	c.conn = conn

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	go c.readPump()
	go c.writePump()
	return nil
}

func (c *wsClient) readPump() {
	defer func() {
		c.conn.Close()
		close(c.incoming)
	}()

	c.conn.SetReadDeadline(time.Now().Add(pongWait))

	for {
		var frame relay.Frame
		if err := c.conn.ReadJSON(&frame); err != nil {
			return
		}
		c.incoming <- &frame
	}
}

func (c *wsClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case frame := <-c.outgoing:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(frame); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.done:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}
	}
}

func (c *wsClient) send(frame *relay.Frame) {
	c.outgoing <- frame
}

func (c *wsClient) close() {
	if c.closed {
		return
	}
	c.closed = true

	close(c.done)
	close(c.outgoing)
}
