package fs100

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/arloliu/go-hse/hse"
)

// newFileRequest builds a file-control request packet. The file-control
// division carries no command sub-header fields besides the service code.
func newFileRequest(service byte, data []byte) *hse.Request {
	return &hse.Request{
		Division: hse.DivisionFileControl,
		Ack:      hse.AckRequest,
		Service:  service,
		Data:     data,
	}
}

func validateFileName(name string) error {
	if name == "" || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%w: file name %q", hse.ErrInvalidArgument, name)
	}

	return nil
}

// SendFile sends the contents of r to the pendant under the given file name.
//
// The transfer is stop-and-wait: after the opening request that names the
// file, each block is sent as an ack-flagged packet with an ascending block
// number, the final block marked with the end-of-transfer bit, and the next
// block goes out only after the controller acknowledged the previous one. A
// block that times out is retransmitted up to the configured retry count;
// exhausting the bound aborts the transfer with a TransferFailedError. The
// controller commits the file atomically, so an aborted transfer leaves no
// partial file behind.
func (c *Client) SendFile(ctx context.Context, fileName string, r io.Reader) error {
	if err := validateFileName(fileName); err != nil {
		return err
	}

	content, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("read file content: %w", err)
	}
	if len(content) == 0 {
		return fmt.Errorf("%w: empty file", hse.ErrInvalidArgument)
	}

	c.transferMu.Lock()
	defer c.transferMu.Unlock()

	ans, err := c.file.exchange(ctx, newFileRequest(serviceFileSend, []byte(fileName)), false)
	if err != nil {
		return err
	}
	if !ans.OK() {
		return hse.NewControllerError(ans.Status, ans.AddedStatus)
	}

	// the request id assigned to the opening exchange identifies the whole
	// transfer; every block reuses it
	reqID := ans.RequestID
	blockSize := c.cfg.fileBlockSize

	for blockNo := uint32(1); ; blockNo++ {
		start := int(blockNo-1) * blockSize
		end := min(start+blockSize, len(content))

		finalBlock := end == len(content)
		wireBlock := blockNo
		if finalBlock {
			wireBlock |= hse.BlockFinal
		}

		blockReq := &hse.Request{
			Division:  hse.DivisionFileControl,
			Ack:       hse.AckReply,
			RequestID: reqID,
			BlockNo:   wireBlock,
			Service:   serviceFileSend,
			Data:      content[start:end],
		}

		ans, err = c.blockExchange(ctx, blockReq)
		if err != nil {
			return &hse.TransferFailedError{FileName: fileName, LastBlock: blockNo, Err: err}
		}
		if !ans.OK() {
			return hse.NewControllerError(ans.Status, ans.AddedStatus)
		}
		if echoed := ans.BlockNo &^ hse.BlockFinal; echoed != blockNo {
			return fmt.Errorf("%w: sent block %d, controller acknowledged %d",
				hse.ErrProtocolViolation, blockNo, echoed)
		}

		// the acknowledgement must echo the end-of-transfer marker exactly as
		// sent; trusting the echo alone could truncate or overrun the content
		if ans.Final() != finalBlock {
			return fmt.Errorf("%w: end-of-transfer marker mismatch on block %d",
				hse.ErrProtocolViolation, blockNo)
		}

		if finalBlock {
			c.logger.Debug("file sent", "file", fileName, "blocks", blockNo, "bytes", len(content))
			return nil
		}
	}
}

// ReceiveFile receives the named pendant file and writes its contents to w.
//
// The controller streams blocks with ascending block numbers; a duplicate or
// out-of-order block aborts with ErrProtocolViolation. Nothing is written to
// w unless the whole file arrived intact, so a failed transfer never leaks a
// partial accumulation.
func (c *Client) ReceiveFile(ctx context.Context, fileName string, w io.Writer) (int64, error) {
	if err := validateFileName(fileName); err != nil {
		return 0, err
	}

	content, err := c.receiveStream(ctx, serviceFileReceive, []byte(fileName), fileName)
	if err != nil {
		return 0, err
	}

	n, err := w.Write(content)
	if err != nil {
		return int64(n), fmt.Errorf("write file content: %w", err)
	}

	return int64(n), nil
}

// GetFileList retrieves the names of pendant files matching the given
// extension, e.g. ".JBI" or "*.JBI", in the order the controller reports
// them.
func (c *Client) GetFileList(ctx context.Context, extension string) ([]string, error) {
	ext := normalizeExtension(extension)
	if ext == "" {
		return nil, fmt.Errorf("%w: file extension %q", hse.ErrInvalidArgument, extension)
	}

	content, err := c.receiveStream(ctx, serviceFileList, []byte(ext), ext)
	if err != nil {
		return nil, err
	}

	names := strings.FieldsFunc(string(content), func(r rune) bool {
		return r == '\r' || r == '\n'
	})

	return names, nil
}

// normalizeExtension converts ".JBI" or "JBI" into the wildcard form "*.JBI"
// the controller expects.
func normalizeExtension(extension string) string {
	ext := strings.TrimPrefix(extension, "*")
	ext = strings.TrimPrefix(ext, ".")
	if ext == "" {
		return ""
	}

	return "*." + ext
}

// DeleteFile deletes the named file from the pendant. A missing file is
// reported by the controller as a ControllerError, not checked locally.
func (c *Client) DeleteFile(ctx context.Context, fileName string) error {
	if err := validateFileName(fileName); err != nil {
		return err
	}

	c.transferMu.Lock()
	defer c.transferMu.Unlock()

	ans, err := c.file.exchange(ctx, newFileRequest(serviceFileDelete, []byte(fileName)), false)
	if err != nil {
		return err
	}
	if !ans.OK() {
		return hse.NewControllerError(ans.Status, ans.AddedStatus)
	}

	return nil
}

// receiveStream drives one controller-to-client transfer: the opening
// request named by service and payload, then a strictly ordered block
// stream, each block acknowledged by echoing its number. The assembled
// bytes are returned only when the final block arrived.
func (c *Client) receiveStream(ctx context.Context, service byte, payload []byte, name string) ([]byte, error) {
	c.transferMu.Lock()
	defer c.transferMu.Unlock()

	ans, err := c.file.exchange(ctx, newFileRequest(service, payload), false)
	if err != nil {
		return nil, err
	}

	reqID := ans.RequestID

	var assembled bytes.Buffer
	expected := uint32(1)

	for {
		if !ans.OK() {
			return nil, hse.NewControllerError(ans.Status, ans.AddedStatus)
		}

		blockNo := ans.BlockNo &^ hse.BlockFinal
		if blockNo != expected {
			return nil, fmt.Errorf("%w: expected block %d, received %d",
				hse.ErrProtocolViolation, expected, blockNo)
		}

		assembled.Write(ans.Data)

		ack := &hse.Request{
			Division:  hse.DivisionFileControl,
			Ack:       hse.AckReply,
			RequestID: reqID,
			BlockNo:   ans.BlockNo,
			Service:   service,
		}

		if ans.Final() {
			// the controller does not answer the closing ack
			if err := c.file.send(ack); err != nil {
				return nil, err
			}

			c.logger.Debug("file received", "name", name, "blocks", blockNo, "bytes", assembled.Len())

			return assembled.Bytes(), nil
		}

		expected++

		// the next data block answers this ack; a timed-out ack is
		// retransmitted since re-acking the same block is replay-safe
		ans, err = c.blockExchange(ctx, ack)
		if err != nil {
			return nil, &hse.TransferFailedError{FileName: name, LastBlock: blockNo, Err: err}
		}
	}
}

// blockExchange performs one block-level exchange with bounded
// retransmission of that block only.
func (c *Client) blockExchange(ctx context.Context, req *hse.Request) (*hse.Answer, error) {
	attempts := 1 + c.cfg.retryCount

	for attempt := 0; attempt < attempts; attempt++ {
		ans, err := c.file.exchangeBlock(ctx, req)
		if err == nil {
			return ans, nil
		}
		if !errors.Is(err, hse.ErrCommandTimeout) {
			return nil, err
		}
		if attempt < attempts-1 {
			c.logger.Debug("block timeout, retransmitting",
				"blockNo", req.BlockNo&^hse.BlockFinal, "attempt", attempt+1)
		}
	}

	return nil, fmt.Errorf("%w: block %d unacknowledged after %d attempt(s)",
		hse.ErrCommandTimeout, req.BlockNo&^hse.BlockFinal, attempts)
}
