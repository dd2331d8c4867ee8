package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/mcoot/guesswho-go/internal/model"
	"github.com/mcoot/guesswho-go/internal/protocol"
	"github.com/mcoot/guesswho-go/internal/services/session"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to the peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum inbound frame size: the image payload bound plus envelope headroom
	maxMessageSize = model.MaxImageBytes + 64*1024

	// Buffer size for outgoing messages
	sendBufferSize = 64
)

// Client is one websocket connection to a session. Its read pump decodes
// request messages, dispatches them to the coordinator and queues the
// direct reply; broadcast frames from the hub share the same send channel
// so the connection has a single writer.
type Client struct {
	hub        *Hub
	conn       *websocket.Conn
	controller session.ControllerInterface
	code       model.SessionCode
	send       chan []byte
	logger     *slog.Logger

	// Connection-scoped context, cancelled when the read pump exits.
	// Not derived from the upgrade request: the server cancels a hijacked
	// request's context as soon as the HTTP handler returns.
	ctx    context.Context
	cancel context.CancelFunc

	connectedAt time.Time

	// The registered name of this connection, set by a successful
	// register request. Authorship of submissions is inferred from it.
	nameMu          sync.RWMutex
	participantName string
}

// NewClient creates a client for an upgraded connection
func NewClient(hub *Hub, conn *websocket.Conn, controller session.ControllerInterface, code model.SessionCode, logger *slog.Logger) *Client {
	ctx, cancel := context.WithCancel(context.Background())
	return &Client{
		hub:         hub,
		conn:        conn,
		controller:  controller,
		code:        code,
		send:        make(chan []byte, sendBufferSize),
		logger:      logger.With(slog.String("session", string(code))),
		ctx:         ctx,
		cancel:      cancel,
		connectedAt: time.Now(),
	}
}

// ParticipantName returns the connection's registered name, or ""
func (c *Client) ParticipantName() string {
	c.nameMu.RLock()
	defer c.nameMu.RUnlock()
	return c.participantName
}

func (c *Client) setParticipantName(name string) {
	c.nameMu.Lock()
	defer c.nameMu.Unlock()
	c.participantName = name
}

// Start registers the client with the hub and begins its pumps
func (c *Client) Start() {
	c.hub.Register(c)
	go c.writePump()
	go c.readPump()
}

// Enqueue queues a frame for this client only, dropping it if the
// client's buffer is full
func (c *Client) Enqueue(message []byte) {
	select {
	case c.send <- message:
	default:
		c.logger.Warn("ws direct message dropped - client buffer full")
	}
}

// readPump reads request messages and dispatches them to the coordinator
func (c *Client) readPump() {
	defer func() {
		c.cancel()
		c.hub.Unregister(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.logger.Info("ws read error", slog.String("error", err.Error()))
			}
			return
		}

		reply := c.handle(c.ctx, data)
		frame, err := json.Marshal(reply)
		if err != nil {
			c.logger.Error("ws failed to marshal reply", slog.String("error", err.Error()))
			continue
		}
		c.Enqueue(frame)
	}
}

// writePump writes queued frames and keepalive pings to the connection
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub closed the channel
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handle validates and dispatches a single request, returning its reply.
// A malformed or unknown message never touches session state.
func (c *Client) handle(ctx context.Context, data []byte) protocol.Reply {
	var req protocol.Request
	if err := json.Unmarshal(data, &req); err != nil {
		return protocol.ErrorReply(&protocol.Request{}, protocol.CodeProtocolError)
	}

	switch req.Type {
	case protocol.TypeRegister:
		return c.handleRegister(ctx, &req)
	case protocol.TypeSubmitSentence:
		return c.handleSubmit(ctx, &req)
	case protocol.TypeGuessAuthor:
		return c.handleGuess(ctx, &req)
	case protocol.TypeRevealAuthor:
		return c.handleReveal(ctx, &req)
	case protocol.TypeSelectSentence:
		return c.handleSelect(ctx, &req)
	default:
		return protocol.ErrorReply(&req, protocol.CodeProtocolError)
	}
}

func (c *Client) handleRegister(ctx context.Context, req *protocol.Request) protocol.Reply {
	name, _, err := c.controller.Register(ctx, c.code, req.Name)
	if err != nil {
		return protocol.ErrorReply(req, protocol.CodeForError(err))
	}

	c.setParticipantName(name)

	reply := protocol.OKReply(req)
	reply.Name = name
	return reply
}

func (c *Client) handleSubmit(ctx context.Context, req *protocol.Request) protocol.Reply {
	author := c.ParticipantName()
	if author == "" {
		return protocol.ErrorReply(req, protocol.CodeNotRegistered)
	}

	id, err := c.controller.SubmitEntry(ctx, c.code, author, req.Text, req.Image)
	if err != nil {
		return protocol.ErrorReply(req, protocol.CodeForError(err))
	}

	reply := protocol.OKReply(req)
	reply.SentenceID = id
	return reply
}

func (c *Client) handleGuess(ctx context.Context, req *protocol.Request) protocol.Reply {
	guesser := c.ParticipantName()
	if guesser == "" {
		return protocol.ErrorReply(req, protocol.CodeNotRegistered)
	}

	correct, err := c.controller.GuessAuthor(ctx, c.code, req.SentenceID, guesser, req.GuessName)
	if err != nil {
		return protocol.ErrorReply(req, protocol.CodeForError(err))
	}

	reply := protocol.OKReply(req)
	reply.Correct = &correct
	return reply
}

func (c *Client) handleReveal(ctx context.Context, req *protocol.Request) protocol.Reply {
	author, err := c.controller.RevealAuthor(ctx, c.code, req.SentenceID)
	if err != nil {
		return protocol.ErrorReply(req, protocol.CodeForError(err))
	}

	reply := protocol.OKReply(req)
	reply.AuthorName = author
	return reply
}

func (c *Client) handleSelect(ctx context.Context, req *protocol.Request) protocol.Reply {
	if err := c.controller.SelectActive(ctx, c.code, req.SentenceID); err != nil {
		return protocol.ErrorReply(req, protocol.CodeForError(err))
	}
	return protocol.OKReply(req)
}
