package relay

import (
	"log/slog"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024 // enough for SDP descriptions
)

// Client wraps one WebSocket connection to the relay.
type Client struct {
	Hub  *Hub
	Conn *websocket.Conn

	// Send is drained by WritePump; the hub closes it on unregister.
	Send chan *Frame

	// endpoint and peer are owned by the hub goroutine.
	endpoint string
	peer     *Client
}

func (c *Client) remoteAddr() string {
	if c.Conn == nil {
		return "?"
	}
	return c.Conn.RemoteAddr().String()
}

// ReadPump moves frames from the socket to the hub. It is the connection's
// only reader and unregisters the client when the connection drops.
func (c *Client) ReadPump() {
	defer func() {
		c.Hub.Unregister <- c
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var frame Frame
		if err := c.Conn.ReadJSON(&frame); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				slog.Debug("read error", "remote", c.remoteAddr(), "err", err)
			}
			break
		}
		frame.client = c
		c.Hub.Inbound <- &frame
	}
}

// WritePump moves frames from the Send channel to the socket and keeps the
// connection alive with periodic pings. It is the connection's only writer.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case frame, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteJSON(frame); err != nil {
				slog.Debug("write error", "remote", c.remoteAddr(), "err", err)
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
