// Package relay implements the rendezvous service two devices use to find
// each other by derived endpoint name and exchange WebRTC connection
// metadata. The relay sees endpoint names and signaling frames only; the
// tunnel's encrypted payloads flow over the resulting peer-to-peer channel,
// never through here.
package relay

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  maxMessageSize,
	WriteBufferSize: maxMessageSize,
	CheckOrigin: func(r *http.Request) bool {
		// Pairing security rests on the room code, not the page origin.
		return true
	},
}

// ServeWS upgrades a request to a WebSocket and hands the connection to the
// hub.
func ServeWS(hub *Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			slog.Error("websocket upgrade failed", "err", err)
			return
		}

		client := &Client{
			Hub:  hub,
			Conn: conn,
			Send: make(chan *Frame, 64),
		}
		hub.Register <- client

		go client.WritePump()
		go client.ReadPump()
	}
}

// Serve runs the relay on addr until the listener fails.
func Serve(addr string) error {
	hub := NewHub()
	go hub.Run()

	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("relay is healthy"))
	})
	mux.HandleFunc("/ws", ServeWS(hub))

	slog.Info("relay listening", "addr", addr)
	return http.ListenAndServe(addr, mux)
}
