package vars

import (
	"encoding/binary"
)

// RobotPosition is a robot position (P) variable value: coordinate values
// for up to seven axes plus the pose form and the tool and user frame the
// coordinates refer to.
//
// Axes holds x, y, z in micrometers and Rx, Ry, Rz, Re in 0.0001 degree for
// cartesian data types, or raw pulse counts for pulse data types.
type RobotPosition struct {
	DataType     uint32
	Form         uint32
	ToolNo       uint32
	UserCoordNo  uint32
	ExtendedForm uint32
	Axes         [7]int32
}

func (*RobotPosition) Kind() Kind { return KindRobotPosition }

func (v *RobotPosition) Encode() []byte {
	buf := make([]byte, robotPositionSize)
	binary.LittleEndian.PutUint32(buf[0:4], v.DataType)
	binary.LittleEndian.PutUint32(buf[4:8], v.Form)
	binary.LittleEndian.PutUint32(buf[8:12], v.ToolNo)
	binary.LittleEndian.PutUint32(buf[12:16], v.UserCoordNo)
	binary.LittleEndian.PutUint32(buf[16:20], v.ExtendedForm)
	encodeAxes(buf[20:], v.Axes)

	return buf
}

// BasePosition is a base position (BP) variable value.
type BasePosition struct {
	DataType uint32
	Axes     [7]int32
}

func (*BasePosition) Kind() Kind { return KindBasePosition }

func (v *BasePosition) Encode() []byte {
	return encodeAxisPosition(v.DataType, v.Axes)
}

// ExternalAxis is an external axis (EX) variable value.
type ExternalAxis struct {
	DataType uint32
	Axes     [7]int32
}

func (*ExternalAxis) Kind() Kind { return KindExternalAxis }

func (v *ExternalAxis) Encode() []byte {
	return encodeAxisPosition(v.DataType, v.Axes)
}

func encodeAxisPosition(dataType uint32, axes [7]int32) []byte {
	buf := make([]byte, axisPositionSize)
	binary.LittleEndian.PutUint32(buf[0:4], dataType)
	encodeAxes(buf[4:], axes)

	return buf
}

func encodeAxes(buf []byte, axes [7]int32) {
	for i, a := range axes {
		binary.LittleEndian.PutUint32(buf[i*4:], uint32(a)) //nolint:gosec
	}
}

func decodeAxes(data []byte) [7]int32 {
	var axes [7]int32
	for i := range axes {
		axes[i] = int32(binary.LittleEndian.Uint32(data[i*4:])) //nolint:gosec
	}

	return axes
}
