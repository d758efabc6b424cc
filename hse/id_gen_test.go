package hse

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReqIDGenerator_Monotonic(t *testing.T) {
	require := require.New(t)

	gen := newReqIDGenerator()
	prev := gen.genID()
	for i := 0; i < 512; i++ {
		cur := gen.genID()
		require.Equal(prev+1, cur) // byte arithmetic wraps naturally
		prev = cur
	}
}

func TestGenerateRequestID_Concurrent(t *testing.T) {
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				GenerateRequestID()
			}
		}()
	}
	wg.Wait()
}
