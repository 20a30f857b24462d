package ws

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/hireloop/backend/internal/config"
	interviewService "github.com/hireloop/backend/internal/service/interview"
)

// Application close codes for connection admission failures.
const (
	CloseIntakeIncomplete = 4000
	CloseInvalidSessionID = 4001
	CloseOriginForbidden  = 4003
	CloseSessionNotFound  = 4004
)

const (
	pingInterval = 54 * time.Second
	readTimeout  = 60 * time.Second
)

// Handler upgrades interview connections and pumps commands into the per
// session state machine.
type Handler struct {
	interviews *interviewService.Service
	cors       config.CORSConfig
	upgrader   websocket.Upgrader
}

// New creates the websocket handler. Origin checking happens after the
// upgrade so the client receives a close code instead of a bare 403.
func New(interviews *interviewService.Service, cors config.CORSConfig) *Handler {
	return &Handler{
		interviews: interviews,
		cors:       cors,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// RegisterRoutes registers the interview websocket route.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/ws/interview/{sessionID}", h.handleInterview)
}

func (h *Handler) handleInterview(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	origin := r.Header.Get("Origin")

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[ws] upgrade failed for session=%s: %v", sessionID, err)
		return
	}

	channel := newChannel(conn)

	if !h.cors.OriginAllowed(origin) {
		log.Printf("[ws] rejecting origin %q for session=%s", origin, sessionID)
		channel.Close(CloseOriginForbidden)
		return
	}
	if _, err := uuid.Parse(sessionID); err != nil {
		channel.Close(CloseInvalidSessionID)
		return
	}

	session, err := h.interviews.GetSession(sessionID)
	if err != nil {
		channel.Close(CloseSessionNotFound)
		return
	}
	if !session.IntakeComplete() {
		channel.Close(CloseIntakeIncomplete)
		return
	}

	machine := h.interviews.Machine(session, channel)

	snapshot := interviewService.ConnectedData{
		SessionID: session.ID,
		Status:    session.Status(),
		Phase:     string(session.Phase()),
		Role:      session.Role(),
	}
	if profile := session.Profile(); profile != nil {
		snapshot.Seniority = string(profile.Seniority)
	}
	channel.Emit(interviewService.Event{Type: interviewService.EventConnected, Data: snapshot})

	connCtx, cancel := context.WithCancel(r.Context())
	defer cancel()

	go channel.pingLoop(connCtx)

	log.Printf("[ws] session=%s connected", session.ID)
	h.readLoop(connCtx, channel, machine)

	h.interviews.DetachEmitter(session.ID, channel)
	if session.Phase().Terminal() {
		h.interviews.Retire(session.ID)
	}
	channel.shutdown()
	log.Printf("[ws] session=%s disconnected", session.ID)
}

// clientMessage is the inbound {type, data} envelope.
type clientMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

func (h *Handler) readLoop(ctx context.Context, channel *Channel, machine *interviewService.Machine) {
	conn := channel.conn
	conn.SetReadDeadline(time.Now().Add(readTimeout))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(readTimeout))
		return nil
	})

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("[ws] read error: %v", err)
			}
			return
		}
		conn.SetReadDeadline(time.Now().Add(readTimeout))

		var msg clientMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			channel.Emit(errorEvent("Invalid message format.", interviewService.CodeValidation))
			continue
		}

		cmd, err := decodeCommand(msg)
		if err != nil {
			channel.Emit(errorEvent(err.Error(), interviewService.CodeValidation))
			continue
		}

		// Dispatch claims the execution token here in the read loop, so
		// back-to-back commands are rejected in arrival order, then runs
		// the command off this goroutine so slow capability calls never
		// block ping/pong handling.
		machine.Dispatch(ctx, cmd)
	}
}

func decodeCommand(msg clientMessage) (interviewService.Command, error) {
	switch msg.Type {
	case "start":
		return interviewService.Start{}, nil
	case "ready":
		return interviewService.Ready{}, nil
	case "answer":
		var data struct {
			Text string `json:"text"`
		}
		if len(msg.Data) > 0 {
			if err := json.Unmarshal(msg.Data, &data); err != nil {
				return nil, errInvalidPayload
			}
		}
		return interviewService.Answer{Text: data.Text}, nil
	case "voice_toggle":
		var data struct {
			Enabled bool `json:"enabled"`
		}
		if len(msg.Data) > 0 {
			if err := json.Unmarshal(msg.Data, &data); err != nil {
				return nil, errInvalidPayload
			}
		}
		return interviewService.VoiceToggle{Enabled: data.Enabled}, nil
	case "status":
		return interviewService.StatusRequest{}, nil
	default:
		return nil, errUnknownMessage
	}
}

func errorEvent(message, code string) interviewService.Event {
	return interviewService.Event{
		Type: interviewService.EventError,
		Data: interviewService.ErrorData{Message: message, Code: code},
	}
}

// Channel adapts one websocket connection to the emitter contract. A write
// mutex keeps event order intact and closed guards against emits after the
// terminal event.
type Channel struct {
	conn *websocket.Conn

	mu     sync.Mutex
	closed bool
}

func newChannel(conn *websocket.Conn) *Channel {
	return &Channel{conn: conn}
}

// Emit writes one event envelope. Events after Close are dropped.
func (c *Channel) Emit(evt interviewService.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	if err := c.conn.WriteJSON(evt); err != nil {
		log.Printf("[ws] write failed, dropping connection: %v", err)
		c.closed = true
		c.conn.Close()
	}
}

// Close sends a close frame with the given code and tears the socket down.
func (c *Channel) Close(code int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true

	message := websocket.FormatCloseMessage(code, "")
	deadline := time.Now().Add(time.Second)
	if err := c.conn.WriteControl(websocket.CloseMessage, message, deadline); err != nil {
		log.Printf("[ws] close frame failed: %v", err)
	}
	c.conn.Close()
}

func (c *Channel) shutdown() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		c.conn.Close()
	}
}

func (c *Channel) pingLoop(ctx context.Context) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.mu.Lock()
			if c.closed {
				c.mu.Unlock()
				return
			}
			err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second))
			c.mu.Unlock()
			if err != nil {
				return
			}
		}
	}
}

var (
	errInvalidPayload = &protocolError{"invalid message payload"}
	errUnknownMessage = &protocolError{"unknown message type"}
)

type protocolError struct{ msg string }

func (e *protocolError) Error() string { return e.msg }

var _ interviewService.Emitter = (*Channel)(nil)
