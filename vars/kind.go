package vars

// Kind identifies a variable kind. Its numeric value is the HSE command
// code used for singular access to a variable of that kind.
type Kind uint16

const (
	KindIO            Kind = 0x78
	KindRegister      Kind = 0x79
	KindByte          Kind = 0x7a
	KindInteger       Kind = 0x7b
	KindDouble        Kind = 0x7c
	KindReal          Kind = 0x7d
	KindString        Kind = 0x7e
	KindRobotPosition Kind = 0x7f
	KindBasePosition  Kind = 0x80
	KindExternalAxis  Kind = 0x81
)

// pluralCommandOffset converts a singular variable command code into its
// plural counterpart, which reads a run of consecutive variables in one
// exchange.
const pluralCommandOffset = 0x288

const (
	// MaxStringSize is the maximum byte length of a string variable.
	MaxStringSize = 16

	robotPositionSize = 48
	axisPositionSize  = 32
)

// Valid reports whether k is a known variable kind.
func (k Kind) Valid() bool {
	return k >= KindIO && k <= KindExternalAxis
}

// IsPosition reports whether k is one of the position kinds, which use the
// all-attributes services for read and write.
func (k Kind) IsPosition() bool {
	return k == KindRobotPosition || k == KindBasePosition || k == KindExternalAxis
}

// Size returns the wire width in bytes of a variable of kind k.
// For strings it returns the maximum width.
func (k Kind) Size() int {
	switch k {
	case KindIO, KindByte:
		return 1
	case KindRegister, KindInteger:
		return 2
	case KindDouble, KindReal:
		return 4
	case KindString:
		return MaxStringSize
	case KindRobotPosition:
		return robotPositionSize
	case KindBasePosition, KindExternalAxis:
		return axisPositionSize
	default:
		return 0
	}
}

// PluralCommand returns the HSE command code that reads consecutive
// variables of kind k.
func (k Kind) PluralCommand() uint16 {
	return uint16(k) + pluralCommandOffset
}

func (k Kind) String() string {
	switch k {
	case KindIO:
		return "io"
	case KindRegister:
		return "register"
	case KindByte:
		return "byte"
	case KindInteger:
		return "integer"
	case KindDouble:
		return "double"
	case KindReal:
		return "real"
	case KindString:
		return "string"
	case KindRobotPosition:
		return "robot-position"
	case KindBasePosition:
		return "base-position"
	case KindExternalAxis:
		return "external-axis"
	default:
		return "unknown"
	}
}
