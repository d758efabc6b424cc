package hse

import (
	"encoding/binary"
)

const (
	// Magic is the 4-byte packet identifier carried by every HSE datagram.
	Magic = "YERC"

	// HeaderSize is the size of the HSE header including the sub-header, in bytes.
	HeaderSize = 0x20

	// MaxDataSize is the maximum payload size a single HSE datagram may carry.
	MaxDataSize = 0x1df4
)

// Reserved header fields. The controller expects these exact values and the
// encoder always emits them.
const (
	reservedByte  = 3
	reservedASCII = "99999999"
)

// Division selects the processing division of a packet. The protocol
// segregates the two divisions by UDP port.
type Division byte

const (
	// DivisionRobotControl addresses robot commands (move, variables, status).
	DivisionRobotControl Division = 1
	// DivisionFileControl addresses the pendant file system.
	DivisionFileControl Division = 2
)

// Ack flag values. The opening packet of an exchange is a request; every
// follow-up packet of a chunked transfer, in either direction, is an ack.
const (
	AckRequest byte = 0
	AckReply   byte = 1
)

// BlockFinal is OR'd into the block number of the last block of a chunked
// transfer.
const BlockFinal uint32 = 0x80000000

// StatusSuccess is the answer status byte reported for an accepted command.
const StatusSuccess byte = 0

// Request is a decoded HSE request packet: the common header plus the
// command sub-header and payload.
type Request struct {
	Data      []byte
	BlockNo   uint32
	Command   uint16
	Instance  uint16
	Division  Division
	Ack       byte
	RequestID byte
	Attribute byte
	Service   byte
}

// Encode serializes the request into its wire representation.
// Reserved and padding fields are always zero-filled or set to their
// protocol constants.
func (r *Request) Encode() []byte {
	buf := make([]byte, HeaderSize+len(r.Data))
	encodeHeader(buf, r.Division, r.Ack, r.RequestID, r.BlockNo, len(r.Data))

	binary.LittleEndian.PutUint16(buf[24:26], r.Command)
	binary.LittleEndian.PutUint16(buf[26:28], r.Instance)
	buf[28] = r.Attribute
	buf[29] = r.Service
	// buf[30:32] is sub-header padding, already zero

	copy(buf[HeaderSize:], r.Data)

	return buf
}

// Answer is a decoded HSE answer packet: the common header plus the status
// sub-header and payload.
type Answer struct {
	Data        []byte
	BlockNo     uint32
	AddedStatus uint16
	Division    Division
	Ack         byte
	RequestID   byte
	Service     byte
	Status      byte
}

// Final reports whether the answer carries the final block of a chunked
// transfer.
func (a *Answer) Final() bool {
	return a.BlockNo&BlockFinal != 0
}

// OK reports whether the controller accepted the command.
func (a *Answer) OK() bool {
	return a.Status == StatusSuccess
}

// Encode serializes the answer into its wire representation.
func (a *Answer) Encode() []byte {
	buf := make([]byte, HeaderSize+len(a.Data))
	encodeHeader(buf, a.Division, a.Ack, a.RequestID, a.BlockNo, len(a.Data))

	buf[24] = a.Service
	buf[25] = a.Status
	buf[26] = 2 // added status size in 16-bit words
	// buf[27] is padding, already zero
	binary.LittleEndian.PutUint16(buf[28:30], a.AddedStatus)
	// buf[30:32] is sub-header padding, already zero

	copy(buf[HeaderSize:], a.Data)

	return buf
}

// encodeHeader fills the common 24-byte header shared by requests and answers.
func encodeHeader(buf []byte, division Division, ack, reqID byte, blockNo uint32, dataSize int) {
	copy(buf[0:4], Magic)
	binary.LittleEndian.PutUint16(buf[4:6], HeaderSize)
	binary.LittleEndian.PutUint16(buf[6:8], uint16(dataSize)) //nolint:gosec
	buf[8] = reservedByte
	buf[9] = byte(division)
	buf[10] = ack
	buf[11] = reqID
	binary.LittleEndian.PutUint32(buf[12:16], blockNo)
	copy(buf[16:24], reservedASCII)
}
