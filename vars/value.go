package vars

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

var (
	// ErrInvalidKind indicates an unknown variable kind.
	ErrInvalidKind = errors.New("invalid variable kind")

	// ErrSizeMismatch indicates that a payload's byte width does not match
	// the width implied by the declared variable kind.
	ErrSizeMismatch = errors.New("variable size mismatch")

	// ErrStringTooLong indicates a string value longer than MaxStringSize bytes.
	ErrStringTooLong = errors.New("string variable exceeds 16 bytes")
)

// Value is one typed variable value. Implementations are the concrete
// variable kinds; Encode returns the value's exact wire representation.
type Value interface {
	// Kind returns the variable kind tag of the value.
	Kind() Kind

	// Encode serializes the value into its HSE wire representation.
	Encode() []byte
}

// IO is a one-byte I/O signal group value.
type IO uint8

func (IO) Kind() Kind { return KindIO }

func (v IO) Encode() []byte { return []byte{byte(v)} }

// Register is a 16-bit register (M) value.
type Register uint16

func (Register) Kind() Kind { return KindRegister }

func (v Register) Encode() []byte {
	buf := make([]byte, 2)
	binary.LittleEndian.PutUint16(buf, uint16(v))

	return buf
}

// Byte is a byte (B) variable value.
type Byte uint8

func (Byte) Kind() Kind { return KindByte }

func (v Byte) Encode() []byte { return []byte{byte(v)} }

// Integer is a signed 16-bit integer (I) variable value.
type Integer int16

func (Integer) Kind() Kind { return KindInteger }

func (v Integer) Encode() []byte {
	buf := make([]byte, 2)
	binary.LittleEndian.PutUint16(buf, uint16(v)) //nolint:gosec

	return buf
}

// Double is a signed 32-bit double integer (D) variable value.
type Double int32

func (Double) Kind() Kind { return KindDouble }

func (v Double) Encode() []byte {
	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, uint32(v)) //nolint:gosec

	return buf
}

// Real is a 32-bit floating point (R) variable value.
type Real float32

func (Real) Kind() Kind { return KindReal }

func (v Real) Encode() []byte {
	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, math.Float32bits(float32(v)))

	return buf
}

// String is a string (S) variable value of at most MaxStringSize bytes.
// Construct it with NewString to enforce the length limit.
type String string

// NewString creates a String value, rejecting values longer than
// MaxStringSize bytes.
func NewString(s string) (String, error) {
	if len(s) > MaxStringSize {
		return "", fmt.Errorf("%w: %d bytes", ErrStringTooLong, len(s))
	}

	return String(s), nil
}

func (String) Kind() Kind { return KindString }

func (v String) Encode() []byte { return []byte(v) }
