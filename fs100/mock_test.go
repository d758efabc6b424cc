package fs100

import (
	"net"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/go-hse/hse"
)

// mockController is a loopback UDP peer playing the controller side of the
// protocol. The handler receives each decoded request and returns the raw
// datagrams to send back; returning nothing drops the request.
type mockController struct {
	t       *testing.T
	conn    net.PacketConn
	handler func(req *hse.Request) [][]byte

	mu       sync.Mutex
	received []*hse.Request
}

func newMockController(t *testing.T, handler func(req *hse.Request) [][]byte) *mockController {
	t.Helper()

	conn, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)

	m := &mockController{t: t, conn: conn, handler: handler}
	go m.serve()
	t.Cleanup(func() { _ = conn.Close() })

	return m
}

func (m *mockController) port() int {
	return m.conn.LocalAddr().(*net.UDPAddr).Port
}

func (m *mockController) serve() {
	buf := make([]byte, recvBufSize)
	for {
		n, addr, err := m.conn.ReadFrom(buf)
		if err != nil {
			return
		}

		data := make([]byte, n)
		copy(data, buf[:n])

		req, err := hse.DecodeRequest(data)
		if err != nil {
			continue
		}

		m.mu.Lock()
		m.received = append(m.received, req)
		m.mu.Unlock()

		for _, frame := range m.handler(req) {
			_, _ = m.conn.WriteTo(frame, addr)
		}
	}
}

func (m *mockController) requests() []*hse.Request {
	m.mu.Lock()
	defer m.mu.Unlock()

	reqs := make([]*hse.Request, len(m.received))
	copy(reqs, m.received)

	return reqs
}

func (m *mockController) requestCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.received)
}

func (m *mockController) waitRequests(count int) []*hse.Request {
	m.t.Helper()

	require.Eventually(m.t, func() bool { return m.requestCount() >= count },
		2*time.Second, 5*time.Millisecond)

	return m.requests()
}

// okAnswer builds an accepted answer echoing the request's identity fields.
func okAnswer(req *hse.Request, data []byte) *hse.Answer {
	return &hse.Answer{
		Division:  req.Division,
		Ack:       hse.AckReply,
		RequestID: req.RequestID,
		BlockNo:   req.BlockNo,
		Service:   req.Service + 0x80,
		Status:    hse.StatusSuccess,
		Data:      data,
	}
}

// rejectAnswer builds a rejected answer with the given status and added
// status code.
func rejectAnswer(req *hse.Request, status byte, addedStatus uint16) *hse.Answer {
	ans := okAnswer(req, nil)
	ans.Status = status
	ans.AddedStatus = addedStatus

	return ans
}

func frames(answers ...*hse.Answer) [][]byte {
	out := make([][]byte, len(answers))
	for i, ans := range answers {
		out[i] = ans.Encode()
	}

	return out
}

// newTestClient creates a Client pointed at the mock controller on both
// divisions with a short exchange timeout.
func newTestClient(t *testing.T, m *mockController, opts ...ConnOption) *Client {
	t.Helper()

	base := []ConnOption{
		WithRobotPort(m.port()),
		WithFilePort(m.port()),
		WithTimeout(100 * time.Millisecond),
	}

	cfg, err := NewConnectionConfig("127.0.0.1", append(base, opts...)...)
	require.NoError(t, err)

	client, err := NewClient(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	return client
}

func dropAll(*hse.Request) [][]byte { return nil }
