package hse

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// DecodeAnswer decodes an HSE answer packet from the given byte slice.
//
// data must contain the complete datagram including the 32-byte header.
// It validates the identifier, the declared header size, and that the
// declared data size matches the actual payload length; any violation
// yields an error wrapping ErrMalformedPacket, never a partial Answer.
func DecodeAnswer(data []byte) (*Answer, error) {
	payload, err := decodeHeader(data)
	if err != nil {
		return nil, err
	}

	ans := &Answer{
		Division:    Division(data[9]),
		Ack:         data[10],
		RequestID:   data[11],
		BlockNo:     binary.LittleEndian.Uint32(data[12:16]),
		Service:     data[24],
		Status:      data[25],
		AddedStatus: binary.LittleEndian.Uint16(data[28:30]),
		Data:        payload,
	}

	return ans, nil
}

// DecodeRequest decodes an HSE request packet from the given byte slice.
// It applies the same header validation as DecodeAnswer.
func DecodeRequest(data []byte) (*Request, error) {
	payload, err := decodeHeader(data)
	if err != nil {
		return nil, err
	}

	req := &Request{
		Division:  Division(data[9]),
		Ack:       data[10],
		RequestID: data[11],
		BlockNo:   binary.LittleEndian.Uint32(data[12:16]),
		Command:   binary.LittleEndian.Uint16(data[24:26]),
		Instance:  binary.LittleEndian.Uint16(data[26:28]),
		Attribute: data[28],
		Service:   data[29],
		Data:      payload,
	}

	return req, nil
}

// decodeHeader validates the common header and returns the payload slice.
func decodeHeader(data []byte) ([]byte, error) {
	if len(data) < HeaderSize {
		return nil, fmt.Errorf("%w: packet too short: %d bytes", ErrMalformedPacket, len(data))
	}

	if !bytes.Equal(data[0:4], []byte(Magic)) {
		return nil, fmt.Errorf("%w: bad identifier %q", ErrMalformedPacket, data[0:4])
	}

	if headerSize := binary.LittleEndian.Uint16(data[4:6]); headerSize != HeaderSize {
		return nil, fmt.Errorf("%w: bad header size %d", ErrMalformedPacket, headerSize)
	}

	dataSize := int(binary.LittleEndian.Uint16(data[6:8]))
	if dataSize != len(data)-HeaderSize {
		return nil, fmt.Errorf("%w: data size mismatch, declared %d, actual %d",
			ErrMalformedPacket, dataSize, len(data)-HeaderSize)
	}

	switch Division(data[9]) {
	case DivisionRobotControl, DivisionFileControl:
	default:
		return nil, fmt.Errorf("%w: unknown division %d", ErrMalformedPacket, data[9])
	}

	return data[HeaderSize : HeaderSize+dataSize], nil
}
