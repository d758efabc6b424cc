package fs100

import (
	"context"
	"encoding/binary"
	"fmt"

	"github.com/arloliu/go-hse/hse"
	"github.com/arloliu/go-hse/internal/util"
)

// DefaultRobotNo addresses robot 1 in the cartesian coordinate for the
// position and axis-name queries.
const DefaultRobotNo = 101

// JobInfo is the state of the executing job.
type JobInfo struct {
	JobName       string
	LineNo        uint32
	StepNo        uint32
	SpeedOverride uint32
}

// ReadExecutingJobInfo reads the name, line, step and speed override of the
// executing job.
func (c *Client) ReadExecutingJobInfo(ctx context.Context) (*JobInfo, error) {
	req := newRobotRequest(cmdReadJobInfo, 1, 0, serviceGetAll, nil)
	ans, err := c.command(ctx, req, true)
	if err != nil {
		return nil, err
	}

	if len(ans.Data) < 44 {
		return nil, fmt.Errorf("%w: job info payload %d bytes", hse.ErrMalformedPacket, len(ans.Data))
	}

	return &JobInfo{
		JobName:       util.TrimNUL(ans.Data[0:32]),
		LineNo:        binary.LittleEndian.Uint32(ans.Data[32:36]),
		StepNo:        binary.LittleEndian.Uint32(ans.Data[36:40]),
		SpeedOverride: binary.LittleEndian.Uint32(ans.Data[40:44]),
	}, nil
}

// ReadAxisName reads the name of each axis of the given robot.
func (c *Client) ReadAxisName(ctx context.Context, robotNo uint16) ([7]string, error) {
	var names [7]string

	req := newRobotRequest(cmdReadAxisName, robotNo, 0, serviceGetAll, nil)
	ans, err := c.command(ctx, req, true)
	if err != nil {
		return names, err
	}

	if len(ans.Data) < 28 {
		return names, fmt.Errorf("%w: axis name payload %d bytes", hse.ErrMalformedPacket, len(ans.Data))
	}

	for i := range names {
		names[i] = util.TrimNUL(ans.Data[i*4 : i*4+4])
	}

	return names, nil
}

// PositionInfo is a decoded robot position: the data type and pose form of
// the coordinates, the tool and user frame they refer to, and one value per
// configured axis.
type PositionInfo struct {
	Axes         []int32
	DataType     uint32
	Form         uint32
	ToolNo       uint32
	UserCoordNo  uint32
	ExtendedForm uint32
}

// ReadPosition reads the current position of the given robot.
func (c *Client) ReadPosition(ctx context.Context, robotNo uint16) (*PositionInfo, error) {
	req := newRobotRequest(cmdReadPosition, robotNo, 0, serviceGetAll, nil)
	ans, err := c.command(ctx, req, true)
	if err != nil {
		return nil, err
	}

	return decodePositionInfo(ans.Data)
}

func decodePositionInfo(data []byte) (*PositionInfo, error) {
	if len(data) < 20 || (len(data)-20)%4 != 0 {
		return nil, fmt.Errorf("%w: position payload %d bytes", hse.ErrMalformedPacket, len(data))
	}

	info := &PositionInfo{
		DataType:     binary.LittleEndian.Uint32(data[0:4]),
		Form:         binary.LittleEndian.Uint32(data[4:8]),
		ToolNo:       binary.LittleEndian.Uint32(data[8:12]),
		UserCoordNo:  binary.LittleEndian.Uint32(data[12:16]),
		ExtendedForm: binary.LittleEndian.Uint32(data[16:20]),
	}

	axisCount := (len(data) - 20) / 4
	info.Axes = make([]int32, axisCount)
	for i := range info.Axes {
		info.Axes[i] = int32(binary.LittleEndian.Uint32(data[20+i*4:])) //nolint:gosec
	}

	return info, nil
}

// ReadPositionError reads the deviation of each axis from its commanded
// position.
func (c *Client) ReadPositionError(ctx context.Context, robotNo uint16) ([7]int32, error) {
	return c.readAxisValues(ctx, cmdReadPositionError, robotNo)
}

// ReadTorque reads the torque of each axis in percent.
func (c *Client) ReadTorque(ctx context.Context, robotNo uint16) ([7]int32, error) {
	return c.readAxisValues(ctx, cmdReadTorque, robotNo)
}

func (c *Client) readAxisValues(ctx context.Context, cmd, robotNo uint16) ([7]int32, error) {
	var values [7]int32

	req := newRobotRequest(cmd, robotNo, 0, serviceGetAll, nil)
	ans, err := c.command(ctx, req, true)
	if err != nil {
		return values, err
	}

	if len(ans.Data) < 28 {
		return values, fmt.Errorf("%w: axis data payload %d bytes", hse.ErrMalformedPacket, len(ans.Data))
	}

	for i := range values {
		values[i] = int32(binary.LittleEndian.Uint32(ans.Data[i*4:])) //nolint:gosec
	}

	return values, nil
}

// SystemInfo is the version information of one controller subsystem.
type SystemInfo struct {
	SoftwareVersion  string
	Model            string
	ParameterVersion string
}

// AcquireSystemInfo acquires the software version, model and parameter
// version of the given subsystem.
func (c *Client) AcquireSystemInfo(ctx context.Context, target SystemInfoTarget) (*SystemInfo, error) {
	req := newRobotRequest(cmdSystemInfo, uint16(target), 0, serviceGetAll, nil)
	ans, err := c.command(ctx, req, true)
	if err != nil {
		return nil, err
	}

	if len(ans.Data) < 48 {
		return nil, fmt.Errorf("%w: system info payload %d bytes", hse.ErrMalformedPacket, len(ans.Data))
	}

	return &SystemInfo{
		SoftwareVersion:  util.TrimNUL(ans.Data[0:24]),
		Model:            util.TrimNUL(ans.Data[24:40]),
		ParameterVersion: util.TrimNUL(ans.Data[40:48]),
	}, nil
}

// ManagementTime is the usage time record of one action.
type ManagementTime struct {
	Start  string
	Elapse string
}

// AcquireManagementTime acquires the accumulated usage time of the given
// action.
func (c *Client) AcquireManagementTime(ctx context.Context, target ManagementTimeTarget) (*ManagementTime, error) {
	req := newRobotRequest(cmdManagementTime, uint16(target), 0, serviceGetAll, nil)
	ans, err := c.command(ctx, req, true)
	if err != nil {
		return nil, err
	}

	if len(ans.Data) < 28 {
		return nil, fmt.Errorf("%w: management time payload %d bytes", hse.ErrMalformedPacket, len(ans.Data))
	}

	return &ManagementTime{
		Start:  util.TrimNUL(ans.Data[0:16]),
		Elapse: util.TrimNUL(ans.Data[16:28]),
	}, nil
}
