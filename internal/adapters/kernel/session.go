package kernel

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/bnema/notebook-runner-cli/internal/domain"
)

const (
	protocolVersion = "5.4"
	closeWriteWait  = time.Second
)

const (
	msgTypeError        = "error"
	msgTypeExecuteReply = "execute_reply"
	msgTypeStream       = "stream"
	msgTypeDisplayData  = "display_data"
)

type messageHeader struct {
	Username string `json:"username"`
	Version  string `json:"version"`
	Session  string `json:"session"`
	MsgID    string `json:"msg_id"`
	MsgType  string `json:"msg_type"`
}

type executeContent struct {
	Code            string   `json:"code"`
	Silent          bool     `json:"silent"`
	StoreHistory    bool     `json:"store_history"`
	UserExpressions struct{} `json:"user_expressions"`
	AllowStdin      bool     `json:"allow_stdin"`
}

type executeRequest struct {
	Header       messageHeader  `json:"header"`
	ParentHeader struct{}       `json:"parent_header"`
	Channel      string         `json:"channel"`
	Content      executeContent `json:"content"`
	Metadata     struct{}       `json:"metadata"`
	Buffers      struct{}       `json:"buffers"`
}

// inbound keeps the headers raw so foreign messages with odd field types still decode.
type inbound struct {
	Header       json.RawMessage `json:"header"`
	ParentHeader json.RawMessage `json:"parent_header"`
	MsgType      json.RawMessage `json:"msg_type"`
	Content      json.RawMessage `json:"content"`
	raw          json.RawMessage
}

func (m inbound) msgType() string {
	if msgType := stringValue(m.MsgType); msgType != "" {
		return msgType
	}
	return stringField(m.Header, "msg_type")
}

func (m inbound) parentID() string {
	return stringField(m.ParentHeader, "msg_id")
}

// stringField reads a string member of a JSON object, or "" when absent or not a string.
func stringField(raw json.RawMessage, key string) string {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return ""
	}
	return stringValue(fields[key])
}

func stringValue(raw json.RawMessage) string {
	var value string
	if err := json.Unmarshal(raw, &value); err != nil {
		return ""
	}
	return value
}

type streamContent struct {
	Name string `json:"name"`
	Text string `json:"text"`
}

type displayContent struct {
	Data     map[string]any `json:"data"`
	Metadata map[string]any `json:"metadata"`
}

// waiter is one pending request; done is closed once the caller stops listening.
type waiter struct {
	replies chan inbound
	done    chan struct{}
}

// Session is one kernel channel. A single receive goroutine dispatches replies to
// the waiter registered under the reply's parent msg_id.
type Session struct {
	id      string
	url     string
	conn    *websocket.Conn
	timeout time.Duration
	logger  *slog.Logger

	writeMu sync.Mutex

	mu      sync.Mutex
	pending map[string]*waiter

	inFlight atomic.Bool

	closed    chan struct{}
	closeOnce sync.Once
	closeErr  error

	broken  chan struct{}
	readErr error
}

func startSession(ctx context.Context, id, url string, conn *websocket.Conn, timeout time.Duration, logger *slog.Logger) *Session {
	s := &Session{
		id:      id,
		url:     url,
		conn:    conn,
		timeout: timeout,
		logger:  logger,
		pending: make(map[string]*waiter),
		closed:  make(chan struct{}),
		broken:  make(chan struct{}),
	}

	go s.readLoop()
	go func() {
		select {
		case <-ctx.Done():
			_ = s.Close()
		case <-s.closed:
		}
	}()

	return s
}

func (s *Session) ID() string {
	return s.id
}

// Execute sends code to the kernel and waits for the first terminal reply to it.
func (s *Session) Execute(ctx context.Context, code string) (domain.CellResult, error) {
	if !s.inFlight.CompareAndSwap(false, true) {
		return domain.CellResult{}, domain.ErrRequestInFlight
	}
	defer s.inFlight.Store(false)

	select {
	case <-s.closed:
		return domain.CellResult{}, s.closedErr()
	case <-s.broken:
		return domain.CellResult{}, s.brokenErr()
	default:
	}

	token := newToken()
	w := s.register(token)
	defer s.unregister(token, w)

	if err := s.send(token, code); err != nil {
		return domain.CellResult{}, err
	}

	var timeout <-chan time.Time
	if s.timeout > 0 {
		timer := time.NewTimer(s.timeout)
		defer timer.Stop()
		timeout = timer.C
	}

	for {
		select {
		case msg := <-w.replies:
			result, terminal, err := s.interpret(token, msg)
			if err != nil || terminal {
				return result, err
			}
		case <-s.closed:
			return domain.CellResult{}, s.closedErr()
		case <-s.broken:
			return domain.CellResult{}, s.brokenErr()
		case <-ctx.Done():
			return domain.CellResult{}, ctx.Err()
		case <-timeout:
			return domain.CellResult{}, &domain.KernelExecutionError{Kind: domain.KernelFailureTimeout, MsgID: token}
		}
	}
}

// Close closes the channel. Later calls return nil.
func (s *Session) Close() error {
	first := false
	s.closeOnce.Do(func() {
		first = true
		close(s.closed)

		_ = s.conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(closeWriteWait))

		s.closeErr = s.conn.Close()
		s.logger.Debug("kernel channel closed")
	})
	if !first {
		return nil
	}
	return s.closeErr
}

func (s *Session) interpret(token string, msg inbound) (domain.CellResult, bool, error) {
	switch msg.msgType() {
	case msgTypeError:
		return domain.CellResult{Terminal: true}, true, &domain.KernelExecutionError{
			Kind:    domain.KernelFailureReported,
			MsgID:   token,
			Message: msg.raw,
		}
	case msgTypeExecuteReply:
		return domain.CellResult{Terminal: true}, true, nil
	case msgTypeStream:
		var content streamContent
		if err := json.Unmarshal(msg.Content, &content); err != nil {
			return domain.CellResult{}, true, &domain.ProtocolError{Op: "decode stream content", Err: err}
		}
		output := domain.Output{OutputType: domain.OutputStream, Name: content.Name, Text: content.Text}
		return domain.CellResult{Outputs: []domain.Output{output}, Terminal: true}, true, nil
	case msgTypeDisplayData:
		var content displayContent
		if err := json.Unmarshal(msg.Content, &content); err != nil {
			return domain.CellResult{}, true, &domain.ProtocolError{Op: "decode display content", Err: err}
		}
		output := domain.Output{OutputType: domain.OutputDisplayData, Data: content.Data, Metadata: content.Metadata}
		return domain.CellResult{Outputs: []domain.Output{output}, Terminal: true}, true, nil
	default:
		return domain.CellResult{}, false, nil
	}
}

func (s *Session) send(token, code string) error {
	request := executeRequest{
		Header: messageHeader{
			Version: protocolVersion,
			MsgID:   token,
			MsgType: "execute_request",
		},
		Channel: "shell",
		Content: executeContent{
			Code:         code,
			StoreHistory: true,
		},
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if err := s.conn.WriteJSON(request); err != nil {
		return &domain.TransportError{Op: "send execute request", URL: s.url, Err: err}
	}
	return nil
}

func (s *Session) readLoop() {
	for {
		frameType, data, err := s.conn.ReadMessage()
		if err != nil {
			s.fail(&domain.TransportError{Op: "read kernel channel", URL: s.url, Err: err})
			return
		}
		// Messages carrying buffers arrive as binary frames; none of them answer an execute request.
		if frameType == websocket.BinaryMessage {
			s.logger.Debug("dropping binary kernel frame", "bytes", len(data))
			continue
		}

		var msg inbound
		if err := json.Unmarshal(data, &msg); err != nil {
			s.fail(&domain.ProtocolError{Op: "decode kernel message", Err: err})
			_ = s.Close()
			return
		}
		msg.raw = data

		token := msg.parentID()
		s.mu.Lock()
		w, ok := s.pending[token]
		s.mu.Unlock()
		if !ok {
			s.logger.Debug("dropping uncorrelated kernel message", "msg_type", msg.msgType())
			continue
		}

		select {
		case w.replies <- msg:
		case <-w.done:
		case <-s.closed:
			return
		}
	}
}

func (s *Session) fail(err error) {
	select {
	case <-s.closed:
		err = domain.ErrSessionClosed
	default:
	}
	s.readErr = err
	close(s.broken)
}

func (s *Session) brokenErr() error {
	select {
	case <-s.closed:
		if !errors.Is(s.readErr, domain.ErrProtocol) {
			return domain.ErrSessionClosed
		}
	default:
	}
	return s.readErr
}

// closedErr keeps a protocol failure visible after the session closed itself because of it.
func (s *Session) closedErr() error {
	select {
	case <-s.broken:
		if errors.Is(s.readErr, domain.ErrProtocol) {
			return s.readErr
		}
	default:
	}
	return domain.ErrSessionClosed
}

func (s *Session) register(token string) *waiter {
	w := &waiter{replies: make(chan inbound), done: make(chan struct{})}
	s.mu.Lock()
	s.pending[token] = w
	s.mu.Unlock()
	return w
}

func (s *Session) unregister(token string, w *waiter) {
	s.mu.Lock()
	delete(s.pending, token)
	s.mu.Unlock()
	close(w.done)
}

func newToken() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
