package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/gogpu/gridview"
	"github.com/gogpu/gridview/gesture"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second
	maxMsgSize = 64 * 1024
	sendBuffer = 256
)

// Inbound message types.
const (
	msgPointer   = "pointer"
	msgPinch     = "pinch"
	msgScroll    = "scroll"
	msgLongPress = "longPress"
	msgReset     = "reset"
)

// Outbound message types.
const (
	msgHello = "hello"
	msgCell  = "cell"
	msgFrame = "frame"
	msgError = "error"
)

// inbound is a client input message.
type inbound struct {
	Type   string         `json:"type"`
	Event  *gesture.Event `json:"event,omitempty"`
	Factor float64        `json:"factor,omitempty"`
	X      float64        `json:"x,omitempty"`
	Y      float64        `json:"y,omitempty"`
	DX     float64        `json:"dx,omitempty"`
	DY     float64        `json:"dy,omitempty"`
}

// outbound is a server message.
type outbound struct {
	Type     string              `json:"type"`
	ClientID string              `json:"clientId,omitempty"`
	ViewID   string              `json:"viewId,omitempty"`
	Cell     *gridview.CellEvent `json:"cell,omitempty"`
	Seq      uint64              `json:"seq,omitempty"`
	Error    string              `json:"error,omitempty"`
}

type client struct {
	id   string
	srv  *server
	conn *websocket.Conn
	send chan []byte
}

func newClient(srv *server, conn *websocket.Conn, id string) *client {
	return &client{
		id:   id,
		srv:  srv,
		conn: conn,
		send: make(chan []byte, sendBuffer),
	}
}

func (c *client) readPump(ctx context.Context) {
	defer func() {
		c.srv.hub.remove(c)
		c.conn.Close(websocket.StatusNormalClosure, "")
	}()

	c.conn.SetReadLimit(maxMsgSize)

	for {
		var msg inbound
		if err := wsjson.Read(ctx, c.conn, &msg); err != nil {
			if websocket.CloseStatus(err) == websocket.StatusNormalClosure ||
				websocket.CloseStatus(err) == websocket.StatusGoingAway {
				return
			}
			slog.Debug("read error", "error", err, "client", c.id)
			return
		}

		if err := c.srv.apply(msg); err != nil {
			slog.Warn("invalid message", "error", err, "client", c.id)
			c.reply(ctx, outbound{Type: msgError, Error: err.Error()})
		}
	}
}

func (c *client) writePump(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close(websocket.StatusNormalClosure, "")
	}()

	for {
		select {
		case message, ok := <-c.send:
			if !ok {
				return
			}

			writeCtx, cancel := context.WithTimeout(ctx, writeWait)
			err := c.conn.Write(writeCtx, websocket.MessageText, message)
			cancel()
			if err != nil {
				slog.Debug("write error", "error", err, "client", c.id)
				return
			}

		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, writeWait)
			err := c.conn.Ping(pingCtx)
			cancel()
			if err != nil {
				return
			}

		case <-ctx.Done():
			return
		}
	}
}

// reply writes msg to this client only, bypassing the broadcast buffer.
func (c *client) reply(ctx context.Context, msg outbound) {
	writeCtx, cancel := context.WithTimeout(ctx, writeWait)
	defer cancel()
	if err := wsjson.Write(writeCtx, c.conn, msg); err != nil {
		slog.Debug("write error", "error", err, "client", c.id)
	}
}
