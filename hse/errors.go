package hse

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedPacket indicates that a byte sequence failed header
	// validation: wrong identifier, wrong header size, or a payload size
	// that does not match the declared data size.
	ErrMalformedPacket = errors.New("malformed packet")

	// ErrCommandTimeout indicates that no matching reply arrived within the
	// exchange timeout after the configured number of retries. The session
	// remains usable for subsequent exchanges.
	ErrCommandTimeout = errors.New("command timeout")

	// ErrInvalidArgument indicates that a caller-supplied argument failed
	// local validation before any network I/O was performed.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrProtocolViolation indicates an unexpected block ordering or
	// duplication observed while receiving a chunked transfer.
	ErrProtocolViolation = errors.New("protocol violation")

	// ErrSessionClosed indicates that the session was closed while an
	// exchange was pending or about to start.
	ErrSessionClosed = errors.New("session closed")
)

// ControllerError is an explicit rejection reported by the controller in an
// answer packet. Status is the answer status byte; Code is the added status
// word, which matches the error tables of the vendor protocol document.
type ControllerError struct {
	Status byte
	Code   uint16
}

func (e *ControllerError) Error() string {
	return fmt.Sprintf("controller rejected command: status=0x%02x code=0x%04x", e.Status, e.Code)
}

// NewControllerError creates a ControllerError from an answer's status fields.
func NewControllerError(status byte, code uint16) *ControllerError {
	return &ControllerError{Status: status, Code: code}
}

// TransferFailedError indicates that a file transfer was aborted after
// exhausting the per-block retry bound. LastBlock is the block number the
// transfer stalled on, without the final-block marker.
type TransferFailedError struct {
	Err       error
	FileName  string
	LastBlock uint32
}

func (e *TransferFailedError) Error() string {
	return fmt.Sprintf("file transfer failed: file=%s block=%d: %v", e.FileName, e.LastBlock, e.Err)
}

func (e *TransferFailedError) Unwrap() error {
	return e.Err
}
