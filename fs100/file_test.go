package fs100

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/go-hse/hse"
)

// blockAnswer builds one data block of a controller-to-client transfer.
func blockAnswer(req *hse.Request, blockNo uint32, data []byte) *hse.Answer {
	return &hse.Answer{
		Division:  hse.DivisionFileControl,
		Ack:       hse.AckReply,
		RequestID: req.RequestID,
		BlockNo:   blockNo,
		Service:   req.Service + 0x80,
		Status:    hse.StatusSuccess,
		Data:      data,
	}
}

func fileContent(size int) []byte {
	content := make([]byte, size)
	for i := range content {
		content[i] = byte(i)
	}

	return content
}

func TestClient_SendFile(t *testing.T) {
	m := newMockController(t, func(req *hse.Request) [][]byte {
		require.Equal(t, hse.DivisionFileControl, req.Division)
		require.Equal(t, serviceFileSend, req.Service)

		if req.Ack == hse.AckRequest {
			require.Equal(t, "TEST.JBI", string(req.Data))
		}

		return frames(okAnswer(req, nil))
	})
	client := newTestClient(t, m, WithFileBlockSize(1024))

	content := fileContent(10 * 1024)
	require.NoError(t, client.SendFile(context.Background(), "TEST.JBI", bytes.NewReader(content)))

	// one opening request plus ten full blocks
	reqs := m.waitRequests(11)
	require.Len(t, reqs, 11)

	opening := reqs[0]
	require.Equal(t, hse.AckRequest, opening.Ack)

	var blocks [][]byte
	for i, req := range reqs[1:] {
		blocks = append(blocks, req.Data)
		require.Equal(t, hse.AckReply, req.Ack)
		require.Equal(t, opening.RequestID, req.RequestID, "block %d carries a foreign request id", i+1)

		blockNo := uint32(i + 1) //nolint:gosec
		if i == 9 {
			blockNo |= hse.BlockFinal
		}
		require.Equal(t, blockNo, req.BlockNo)
		require.Len(t, req.Data, 1024)
	}

	require.Equal(t, content, bytes.Join(blocks, nil))
}

func TestClient_SendFile_ShortTail(t *testing.T) {
	m := newMockController(t, func(req *hse.Request) [][]byte {
		return frames(okAnswer(req, nil))
	})
	client := newTestClient(t, m, WithFileBlockSize(400))

	require.NoError(t, client.SendFile(context.Background(), "TAIL.JBI", bytes.NewReader(fileContent(1000))))

	reqs := m.waitRequests(4)
	require.Len(t, reqs, 4)
	require.Len(t, reqs[1].Data, 400)
	require.Len(t, reqs[2].Data, 400)
	require.Len(t, reqs[3].Data, 200)
	require.Equal(t, uint32(3)|hse.BlockFinal, reqs[3].BlockNo)
}

func TestClient_SendFile_EmptyContent(t *testing.T) {
	m := newMockController(t, dropAll)
	client := newTestClient(t, m)

	err := client.SendFile(context.Background(), "EMPTY.JBI", bytes.NewReader(nil))
	require.ErrorIs(t, err, hse.ErrInvalidArgument)
	require.Equal(t, 0, m.requestCount())
}

func TestClient_SendFile_BlockRetransmit(t *testing.T) {
	dropped := false

	m := newMockController(t, func(req *hse.Request) [][]byte {
		// lose the first delivery of block 2; the retransmission must carry
		// the same block number and request id
		if req.Ack == hse.AckReply && req.BlockNo&^hse.BlockFinal == 2 && !dropped {
			dropped = true
			return nil
		}

		return frames(okAnswer(req, nil))
	})
	client := newTestClient(t, m, WithFileBlockSize(100), WithTimeout(50*time.Millisecond), WithRetryCount(2))

	require.NoError(t, client.SendFile(context.Background(), "RETRY.JBI", bytes.NewReader(fileContent(300))))

	var deliveries []uint32
	for _, req := range m.waitRequests(5) {
		if req.Ack == hse.AckReply {
			deliveries = append(deliveries, req.BlockNo&^hse.BlockFinal)
		}
	}
	require.Equal(t, []uint32{1, 2, 2, 3}, deliveries)
}

func TestClient_SendFile_TransferFailed(t *testing.T) {
	m := newMockController(t, func(req *hse.Request) [][]byte {
		if req.Ack == hse.AckRequest {
			return frames(okAnswer(req, nil))
		}

		// never acknowledge any block
		return nil
	})
	client := newTestClient(t, m, WithTimeout(50*time.Millisecond), WithRetryCount(2))

	err := client.SendFile(context.Background(), "STALL.JBI", bytes.NewReader(fileContent(100)))

	var xferErr *hse.TransferFailedError
	require.ErrorAs(t, err, &xferErr)
	require.Equal(t, "STALL.JBI", xferErr.FileName)
	require.Equal(t, uint32(1), xferErr.LastBlock)
	require.ErrorIs(t, err, hse.ErrCommandTimeout)

	// the first block went out once plus two retransmissions
	require.Len(t, m.waitRequests(4), 4)
}

func TestClient_SendFile_MissingEndMarker(t *testing.T) {
	m := newMockController(t, func(req *hse.Request) [][]byte {
		// acknowledge every block with the end-of-transfer marker stripped
		ans := okAnswer(req, nil)
		ans.BlockNo = req.BlockNo &^ hse.BlockFinal

		return frames(ans)
	})
	client := newTestClient(t, m, WithFileBlockSize(400))

	err := client.SendFile(context.Background(), "TEST.JBI", bytes.NewReader(fileContent(500)))
	require.ErrorIs(t, err, hse.ErrProtocolViolation)

	// opening request plus both blocks; the transfer must stop at the final
	// block instead of running past the content
	require.Equal(t, 3, m.requestCount())
}

func TestClient_SendFile_PrematureEndMarker(t *testing.T) {
	m := newMockController(t, func(req *hse.Request) [][]byte {
		ans := okAnswer(req, nil)
		if req.Ack == hse.AckReply {
			ans.BlockNo = req.BlockNo | hse.BlockFinal
		}

		return frames(ans)
	})
	client := newTestClient(t, m, WithFileBlockSize(400))

	err := client.SendFile(context.Background(), "TEST.JBI", bytes.NewReader(fileContent(1000)))
	require.ErrorIs(t, err, hse.ErrProtocolViolation)
}

func TestClient_SendFile_Rejected(t *testing.T) {
	m := newMockController(t, func(req *hse.Request) [][]byte {
		return frames(rejectAnswer(req, 0x08, 0x3450))
	})
	client := newTestClient(t, m)

	err := client.SendFile(context.Background(), "DENIED.JBI", bytes.NewReader(fileContent(10)))

	var ctrlErr *hse.ControllerError
	require.ErrorAs(t, err, &ctrlErr)
	require.Equal(t, uint16(0x3450), ctrlErr.Code)
}

func TestClient_ReceiveFile(t *testing.T) {
	chunk1 := fileContent(400)
	chunk2 := []byte("END OF JOB\r\n")

	m := newMockController(t, func(req *hse.Request) [][]byte {
		require.Equal(t, serviceFileReceive, req.Service)

		if req.Ack == hse.AckRequest {
			require.Equal(t, "TEST.JBI", string(req.Data))
			return frames(blockAnswer(req, 1, chunk1))
		}

		if req.BlockNo == 1 {
			return frames(blockAnswer(req, 2|hse.BlockFinal, chunk2))
		}

		// the closing ack is not answered
		return nil
	})
	client := newTestClient(t, m)

	var buf bytes.Buffer
	n, err := client.ReceiveFile(context.Background(), "TEST.JBI", &buf)
	require.NoError(t, err)
	require.Equal(t, int64(len(chunk1)+len(chunk2)), n)
	require.Equal(t, append(append([]byte{}, chunk1...), chunk2...), buf.Bytes())

	// opening request, ack of block 1, closing ack of the final block
	reqs := m.waitRequests(3)
	require.Len(t, reqs, 3)
	require.Equal(t, uint32(1), reqs[1].BlockNo)
	require.Equal(t, uint32(2)|hse.BlockFinal, reqs[2].BlockNo)
	require.Equal(t, reqs[0].RequestID, reqs[2].RequestID)
}

func TestClient_SendThenReceiveRoundTrip(t *testing.T) {
	// the mock retains sent blocks and streams them back on request
	var stored [][]byte

	m := newMockController(t, func(req *hse.Request) [][]byte {
		switch req.Service {
		case serviceFileSend:
			if req.Ack == hse.AckReply {
				stored = append(stored, req.Data)
			}

			return frames(okAnswer(req, nil))
		case serviceFileReceive:
			var blockNo uint32
			if req.Ack == hse.AckRequest {
				blockNo = 1
			} else {
				if req.BlockNo&hse.BlockFinal != 0 {
					return nil
				}
				blockNo = req.BlockNo + 1
			}

			wire := blockNo
			if int(blockNo) == len(stored) {
				wire |= hse.BlockFinal
			}

			return frames(blockAnswer(req, wire, stored[blockNo-1]))
		default:
			return nil
		}
	})
	client := newTestClient(t, m, WithFileBlockSize(256))

	content := fileContent(1000)
	require.NoError(t, client.SendFile(context.Background(), "ROUND.JBI", bytes.NewReader(content)))

	var buf bytes.Buffer
	n, err := client.ReceiveFile(context.Background(), "ROUND.JBI", &buf)
	require.NoError(t, err)
	require.Equal(t, int64(len(content)), n)
	require.Equal(t, content, buf.Bytes())
}

func TestClient_ReceiveFile_OutOfOrderBlock(t *testing.T) {
	m := newMockController(t, func(req *hse.Request) [][]byte {
		if req.Ack == hse.AckRequest {
			// the stream must start at block 1
			return frames(blockAnswer(req, 2, fileContent(100)))
		}

		return nil
	})
	client := newTestClient(t, m)

	var buf bytes.Buffer
	_, err := client.ReceiveFile(context.Background(), "TEST.JBI", &buf)
	require.ErrorIs(t, err, hse.ErrProtocolViolation)

	// a failed transfer must not leak partial content
	require.Zero(t, buf.Len())
}

func TestClient_ReceiveFile_DuplicateBlock(t *testing.T) {
	m := newMockController(t, func(req *hse.Request) [][]byte {
		if req.Ack == hse.AckRequest {
			return frames(blockAnswer(req, 1, fileContent(100)))
		}

		// re-send block 1 even though it was already acknowledged
		return frames(blockAnswer(req, 1, fileContent(100)))
	})
	client := newTestClient(t, m)

	var buf bytes.Buffer
	_, err := client.ReceiveFile(context.Background(), "TEST.JBI", &buf)
	require.ErrorIs(t, err, hse.ErrProtocolViolation)

	// the duplicate must not corrupt or leak the accumulated bytes
	require.Zero(t, buf.Len())
}

func TestClient_ReceiveFile_StalledStream(t *testing.T) {
	m := newMockController(t, func(req *hse.Request) [][]byte {
		if req.Ack == hse.AckRequest {
			return frames(blockAnswer(req, 1, fileContent(100)))
		}

		// block 2 never arrives
		return nil
	})
	client := newTestClient(t, m, WithTimeout(50*time.Millisecond), WithRetryCount(1))

	var buf bytes.Buffer
	_, err := client.ReceiveFile(context.Background(), "TEST.JBI", &buf)

	var xferErr *hse.TransferFailedError
	require.ErrorAs(t, err, &xferErr)
	require.Equal(t, uint32(1), xferErr.LastBlock)
	require.Zero(t, buf.Len())
}

func TestClient_GetFileList(t *testing.T) {
	m := newMockController(t, func(req *hse.Request) [][]byte {
		require.Equal(t, serviceFileList, req.Service)

		if req.Ack == hse.AckRequest {
			require.Equal(t, "*.JBI", string(req.Data))
			return frames(blockAnswer(req, 1|hse.BlockFinal, []byte("MAIN.JBI\r\nWELD-01.JBI\r\nPARK.JBI\r\n")))
		}

		return nil
	})
	client := newTestClient(t, m)

	names, err := client.GetFileList(context.Background(), ".JBI")
	require.NoError(t, err)
	require.Equal(t, []string{"MAIN.JBI", "WELD-01.JBI", "PARK.JBI"}, names)
}

func TestClient_DeleteFile(t *testing.T) {
	m := newMockController(t, func(req *hse.Request) [][]byte {
		require.Equal(t, serviceFileDelete, req.Service)
		require.Equal(t, "OLD.JBI", string(req.Data))

		return frames(okAnswer(req, nil))
	})
	client := newTestClient(t, m)

	require.NoError(t, client.DeleteFile(context.Background(), "OLD.JBI"))
}

func TestClient_DeleteFile_Missing(t *testing.T) {
	m := newMockController(t, func(req *hse.Request) [][]byte {
		return frames(rejectAnswer(req, 0x08, 0x4040))
	})
	client := newTestClient(t, m)

	err := client.DeleteFile(context.Background(), "MISSING.JBI")

	var ctrlErr *hse.ControllerError
	require.ErrorAs(t, err, &ctrlErr)
	require.Equal(t, uint16(0x4040), ctrlErr.Code)
}

func TestNormalizeExtension(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{".JBI", "*.JBI"},
		{"*.JBI", "*.JBI"},
		{"JBI", "*.JBI"},
		{".DAT", "*.DAT"},
		{"", ""},
		{"*.", ""},
	}

	for _, test := range tests {
		t.Run(test.in, func(t *testing.T) {
			assert.Equal(t, test.expected, normalizeExtension(test.in))
		})
	}
}
