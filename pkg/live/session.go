package live

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tablekit-dev/tablekit/pkg/history"
	"github.com/tablekit-dev/tablekit/pkg/protocol"
)

// EventHandler processes one decoded client event for a session.
type EventHandler func(s *Session, ev protocol.Event) error

// EventMiddleware wraps event handling, e.g. for metrics or tracing.
type EventMiddleware func(next EventHandler) EventHandler

// Session is one WebSocket connection driving one table.
type Session struct {
	id     string
	conn   *websocket.Conn
	table  Table
	bridge *history.Bridge
	config *Config
	logger *slog.Logger

	// handle is the event dispatch chain (middleware around dispatch).
	handle EventHandler

	// send is the outbound frame queue, drained by WriteLoop.
	send chan []byte

	// pending accumulates URL patches queued by the history bridge
	// between flushes, so they travel with the row patch of the same
	// tick.
	pendingMu sync.Mutex
	pending   []protocol.Patch

	// seq numbers outbound patch batches.
	seq atomic.Uint64

	lastActive atomic.Int64

	closeOnce sync.Once
	done      chan struct{}
}

// NewSession wires a session around an upgraded connection. The table is
// built by factory with the session's history bridge injected.
func NewSession(id string, conn *websocket.Conn, factory TableFactory, initialParams url.Values, config *Config, middleware []EventMiddleware) (*Session, error) {
	s := &Session{
		id:     id,
		conn:   conn,
		config: config,
		logger: config.Logger.With("session", id),
		send:   make(chan []byte, config.SendBuffer),
		done:   make(chan struct{}),
	}
	s.lastActive.Store(time.Now().UnixNano())

	s.bridge = history.NewBridge(initialParams, s.queuePatch)

	table, err := factory(s.bridge)
	if err != nil {
		return nil, fmt.Errorf("live: build table: %w", err)
	}
	s.table = table

	// Assemble the dispatch chain outermost-first.
	s.handle = dispatch
	for i := len(middleware) - 1; i >= 0; i-- {
		s.handle = middleware[i](s.handle)
	}

	return s, nil
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Logger returns the session-scoped logger.
func (s *Session) Logger() *slog.Logger { return s.logger }

// LastActive returns the time of the last client event.
func (s *Session) LastActive() time.Time {
	return time.Unix(0, s.lastActive.Load())
}

// queuePatch buffers a URL patch for the next flush.
func (s *Session) queuePatch(p protocol.Patch) {
	s.pendingMu.Lock()
	s.pending = append(s.pending, p)
	s.pendingMu.Unlock()
}

// takePending returns and clears the buffered URL patches.
func (s *Session) takePending() []protocol.Patch {
	s.pendingMu.Lock()
	defer s.pendingMu.Unlock()
	pending := s.pending
	s.pending = nil
	return pending
}

// ReadLoop reads frames until the connection closes. It must run on its
// own goroutine; it blocks.
func (s *Session) ReadLoop() {
	defer s.Close()

	for {
		s.conn.SetReadDeadline(time.Now().Add(s.config.ReadTimeout))

		_, msg, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) {
				s.logger.Error("read error", "error", err)
			}
			return
		}

		s.lastActive.Store(time.Now().UnixNano())

		frame, err := protocol.DecodeMessage(msg)
		if err != nil {
			s.logger.Error("frame decode error", "error", err)
			s.sendError("badFrame", err.Error())
			continue
		}

		switch frame.Type {
		case protocol.MessageEvent:
			s.handleEventFrame(frame.Data)

		case protocol.MessageControl:
			s.handleControlFrame(frame.Data)

		default:
			s.logger.Warn("unexpected frame type", "type", frame.Type)
		}
	}
}

// WriteLoop drains the send queue and emits keepalive pings. It must run
// on its own goroutine; it exits when the session closes.
func (s *Session) WriteLoop() {
	ticker := time.NewTicker(s.config.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-s.send:
			if !ok {
				return
			}
			s.conn.SetWriteDeadline(time.Now().Add(s.config.WriteTimeout))
			if err := s.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				s.logger.Error("write error", "error", err)
				s.Close()
				return
			}

		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(s.config.WriteTimeout))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				s.Close()
				return
			}

		case <-s.done:
			return
		}
	}
}

// handleEventFrame decodes and dispatches one event, then flushes the
// resulting patches. Handler panics are contained to the session.
func (s *Session) handleEventFrame(payload []byte) {
	ev, err := protocol.DecodeEvent(payload)
	if err != nil {
		s.logger.Error("event decode error", "error", err)
		s.sendError("badEvent", err.Error())
		return
	}

	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("event handler panic", "event", ev.Type, "panic", r, "stack", string(debug.Stack()))
			s.sendError("internal", "event handler panic")
		}
	}()

	if err := s.handle(s, ev); err != nil {
		s.logger.Error("event rejected", "event", ev.Type, "error", err)
		s.sendError("badEvent", err.Error())
		return
	}

	if err := s.Flush(); err != nil {
		s.logger.Error("flush error", "error", err)
	}
}

// dispatch is the innermost event handler: popstate feeds the history
// bridge, everything else goes to the table.
func dispatch(s *Session, ev protocol.Event) error {
	if ev.Type == protocol.EventPopstate {
		s.bridge.HandlePopstate(ev.Params)
		return nil
	}
	return s.table.Apply(ev)
}

// handleControlFrame answers pings. Other control ops are ignored.
func (s *Session) handleControlFrame(payload []byte) {
	var ctl protocol.ControlPayload
	if err := json.Unmarshal(payload, &ctl); err != nil || ctl.Op != protocol.ControlPing {
		return
	}

	pong, _ := json.Marshal(protocol.ControlPayload{Op: protocol.ControlPong})
	data, err := protocol.EncodeMessage(protocol.Message{Type: protocol.MessageControl, Data: pong})
	if err != nil {
		return
	}
	s.enqueue(data)
}

// Flush sends the current row snapshot plus any pending URL patches as a
// single sequenced batch.
func (s *Session) Flush() error {
	rows, err := s.table.Snapshot()
	if err != nil {
		return err
	}

	patches := append(s.takePending(), protocol.NewRowsPatch(rows))

	data, err := protocol.EncodePatches(patches, s.seq.Add(1))
	if err != nil {
		return err
	}
	s.enqueue(data)
	return nil
}

// sendError queues an error report for the client.
func (s *Session) sendError(code, msg string) {
	data, err := protocol.EncodeMessage(protocol.NewErrorMessage(code, msg))
	if err != nil {
		return
	}
	s.enqueue(data)
}

// enqueue puts a frame on the send queue, dropping it when the session is
// closed or the queue is full. A slow client loses patches rather than
// blocking the event path; the next flush carries a full snapshot anyway.
func (s *Session) enqueue(data []byte) {
	select {
	case <-s.done:
	case s.send <- data:
	default:
		s.logger.Warn("send queue full, dropping frame")
	}
}

// Close tears the session down: the connection, the table's history
// subscription, and both loops. Safe to call multiple times.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
		if s.table != nil {
			s.table.Dispose()
		}
		if s.conn != nil {
			s.conn.Close()
		}
		if s.logger != nil {
			s.logger.Debug("session closed")
		}
	})
}
