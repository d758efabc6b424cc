package hse

import (
	"crypto/rand"
	"io"
	"sync"
	"sync/atomic"
)

// reqIDGenerator generates the one-byte request ids carried in the HSE
// header. The starting value is seeded from a cryptographically secure
// random source so that ids from a restarted process are unlikely to
// collide with stale datagrams, and the counter is incremented atomically
// for use from concurrent sessions.
type reqIDGenerator struct {
	id atomic.Uint32
}

func newReqIDGenerator() *reqIDGenerator {
	inst := &reqIDGenerator{}
	var buf [1]byte
	if _, err := io.ReadFull(rand.Reader, buf[:]); err != nil {
		return inst
	}
	inst.id.Store(uint32(buf[0]))

	return inst
}

func (g *reqIDGenerator) genID() byte {
	return byte(g.id.Add(1))
}

var (
	genInst = &reqIDGenerator{}
	genOnce sync.Once
)

func getReqIDGenerator() *reqIDGenerator {
	genOnce.Do(func() {
		genInst = newReqIDGenerator()
	})

	return genInst
}

// GenerateRequestID returns the next request id. Ids increase monotonically
// and wrap at the byte boundary; correlation relies on at most one exchange
// being in flight per session.
func GenerateRequestID() byte {
	return getReqIDGenerator().genID()
}
