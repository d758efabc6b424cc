package fs100

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"sync/atomic"

	"github.com/puzpuzpuz/xsync/v3"

	"github.com/arloliu/go-hse/hse"
	"github.com/arloliu/go-hse/internal/pool"
	"github.com/arloliu/go-hse/logger"
)

// recvBufSize is large enough for the biggest answer datagram the protocol
// allows (header plus MaxDataSize payload).
const recvBufSize = 8192

// session is one UDP transport session bound to a single processing
// division of the controller.
//
// The socket is dialed lazily on the first exchange. A receive loop decodes
// incoming datagrams and delivers each answer to the channel registered
// under its echoed request id; datagrams with no registered waiter are
// discarded as stale. At most one exchange is in flight at a time; callers
// serialize through exchangeMu.
type session struct {
	cfg      *ConnectionConfig
	logger   logger.Logger
	division hse.Division
	port     int

	connMu sync.Mutex
	conn   net.Conn

	exchangeMu sync.Mutex

	replyChans *xsync.MapOf[byte, chan *hse.Answer]

	done   chan struct{}
	closed atomic.Bool
}

func newSession(cfg *ConnectionConfig, division hse.Division, port int) *session {
	return &session{
		cfg:        cfg,
		logger:     cfg.logger.With("division", byte(division)),
		division:   division,
		port:       port,
		replyChans: xsync.NewMapOf[byte, chan *hse.Answer](),
		done:       make(chan struct{}),
	}
}

// connect dials the controller if the session has no socket yet and starts
// the receive loop.
func (s *session) connect() (net.Conn, error) {
	s.connMu.Lock()
	defer s.connMu.Unlock()

	if s.closed.Load() {
		return nil, hse.ErrSessionClosed
	}

	if s.conn != nil {
		return s.conn, nil
	}

	addr := net.JoinHostPort(s.cfg.host, fmt.Sprintf("%d", s.port))
	conn, err := net.Dial("udp", addr)
	if err != nil {
		return nil, fmt.Errorf("dial controller %s: %w", addr, err)
	}

	s.conn = conn
	go s.recvLoop(conn)

	s.logger.Debug("session connected", "addr", addr)

	return conn, nil
}

// close terminates the session. A pending exchange observes ErrSessionClosed.
func (s *session) close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	close(s.done)

	s.connMu.Lock()
	defer s.connMu.Unlock()

	if s.conn == nil {
		return nil
	}

	err := s.conn.Close()
	s.conn = nil

	return err
}

// recvLoop reads datagrams until the socket closes, decoding each one and
// routing it to the waiter registered under its request id.
func (s *session) recvLoop(conn net.Conn) {
	buf := make([]byte, recvBufSize)
	for {
		n, err := conn.Read(buf)
		if err != nil {
			if !s.closed.Load() {
				s.logger.Debug("receive loop stopped", "error", err)
			}
			return
		}

		data := make([]byte, n)
		copy(data, buf[:n])

		ans, err := hse.DecodeAnswer(data)
		if err != nil {
			s.logger.Warn("discarding undecodable datagram", "error", err, "len", n)
			continue
		}

		ch, ok := s.replyChans.Load(ans.RequestID)
		if !ok {
			// stale or duplicate reply from an earlier attempt
			s.logger.Debug("discarding unmatched answer", "reqID", ans.RequestID, "blockNo", ans.BlockNo)
			continue
		}

		select {
		case ch <- ans:
		default:
			s.logger.Debug("dropping duplicate answer", "reqID", ans.RequestID)
		}
	}
}

// exchange sends req and waits for the answer carrying the same request id.
//
// A fresh request id is assigned per attempt. When idempotent is true the
// send is repeated up to the configured retry count on timeout; otherwise a
// single timeout surfaces ErrCommandTimeout immediately.
func (s *session) exchange(ctx context.Context, req *hse.Request, idempotent bool) (*hse.Answer, error) {
	s.exchangeMu.Lock()
	defer s.exchangeMu.Unlock()

	attempts := 1
	if idempotent {
		attempts += s.cfg.retryCount
	}

	for attempt := 0; attempt < attempts; attempt++ {
		req.RequestID = hse.GenerateRequestID()

		ans, err := s.attempt(ctx, req)
		if err == nil {
			return ans, nil
		}
		if !errors.Is(err, hse.ErrCommandTimeout) {
			return nil, err
		}
		if attempt < attempts-1 {
			s.logger.Debug("exchange timeout, retransmitting",
				"command", req.Command, "attempt", attempt+1)
		}
	}

	return nil, fmt.Errorf("%w: no reply after %d attempt(s)", hse.ErrCommandTimeout, attempts)
}

// exchangeBlock sends a continuation packet of a chunked transfer and waits
// for the answer with the same request id. The caller owns the request id
// for the lifetime of the transfer; retransmission is the caller's decision,
// one block at a time.
func (s *session) exchangeBlock(ctx context.Context, req *hse.Request) (*hse.Answer, error) {
	s.exchangeMu.Lock()
	defer s.exchangeMu.Unlock()

	return s.attempt(ctx, req)
}

// attempt performs one send and one bounded wait for the matching answer.
func (s *session) attempt(ctx context.Context, req *hse.Request) (*hse.Answer, error) {
	conn, err := s.connect()
	if err != nil {
		return nil, err
	}

	ch := make(chan *hse.Answer, 1)
	s.replyChans.Store(req.RequestID, ch)
	defer s.replyChans.Delete(req.RequestID)

	if _, err := conn.Write(req.Encode()); err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}

	timer := pool.GetTimer(s.cfg.timeout)
	defer pool.PutTimer(timer)

	select {
	case ans := <-ch:
		return ans, nil
	case <-timer.C:
		return nil, hse.ErrCommandTimeout
	case <-ctx.Done():
		// local abandonment only; the controller may still act on the request
		return nil, ctx.Err()
	case <-s.done:
		return nil, hse.ErrSessionClosed
	}
}

// send transmits req without waiting for an answer. It is used for the
// final acknowledgement of a controller-to-client transfer, which the
// controller does not answer.
func (s *session) send(req *hse.Request) error {
	conn, err := s.connect()
	if err != nil {
		return err
	}

	if _, err := conn.Write(req.Encode()); err != nil {
		return fmt.Errorf("send packet: %w", err)
	}

	return nil
}
