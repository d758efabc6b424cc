package vars

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/arloliu/go-hse/internal/util"
)

// Decode decodes a variable payload as the given kind.
//
// The payload width must match the kind's wire width exactly; strings accept
// up to MaxStringSize bytes. A mismatch returns an error wrapping
// ErrSizeMismatch rather than coercing the bytes into another kind.
func Decode(kind Kind, data []byte) (Value, error) { //nolint:cyclop
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: 0x%x", ErrInvalidKind, uint16(kind))
	}

	if kind == KindString {
		if len(data) > MaxStringSize {
			return nil, sizeErr(kind, len(data))
		}

		return String(util.TrimNUL(data)), nil
	}

	if len(data) != kind.Size() {
		return nil, sizeErr(kind, len(data))
	}

	switch kind {
	case KindIO:
		return IO(data[0]), nil
	case KindRegister:
		return Register(binary.LittleEndian.Uint16(data)), nil
	case KindByte:
		return Byte(data[0]), nil
	case KindInteger:
		return Integer(binary.LittleEndian.Uint16(data)), nil //nolint:gosec
	case KindDouble:
		return Double(binary.LittleEndian.Uint32(data)), nil //nolint:gosec
	case KindReal:
		return Real(math.Float32frombits(binary.LittleEndian.Uint32(data))), nil
	case KindRobotPosition:
		return &RobotPosition{
			DataType:     binary.LittleEndian.Uint32(data[0:4]),
			Form:         binary.LittleEndian.Uint32(data[4:8]),
			ToolNo:       binary.LittleEndian.Uint32(data[8:12]),
			UserCoordNo:  binary.LittleEndian.Uint32(data[12:16]),
			ExtendedForm: binary.LittleEndian.Uint32(data[16:20]),
			Axes:         decodeAxes(data[20:]),
		}, nil
	case KindBasePosition:
		return &BasePosition{
			DataType: binary.LittleEndian.Uint32(data[0:4]),
			Axes:     decodeAxes(data[4:]),
		}, nil
	case KindExternalAxis:
		return &ExternalAxis{
			DataType: binary.LittleEndian.Uint32(data[0:4]),
			Axes:     decodeAxes(data[4:]),
		}, nil
	default:
		return nil, fmt.Errorf("%w: 0x%x", ErrInvalidKind, uint16(kind))
	}
}

func sizeErr(kind Kind, actual int) error {
	return fmt.Errorf("%w: kind %s expects %d bytes, got %d", ErrSizeMismatch, kind, kind.Size(), actual)
}
