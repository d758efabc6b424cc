package fs100

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/arloliu/go-hse/hse"
	"github.com/arloliu/go-hse/internal/util"
	"github.com/arloliu/go-hse/logger"
)

const (
	maxJobNameSize = 32
	maxTextSize    = 30
)

// Client is a High-Speed Ethernet client for one FS100 controller.
//
// A Client owns one transport session per processing division and is safe
// for use by multiple goroutines; exchanges serialize through the sessions
// and file transfers additionally serialize through the client.
type Client struct {
	cfg    *ConnectionConfig
	logger logger.Logger

	robot *session
	file  *session

	// transferMu serializes file transfers; interleaving two transfers
	// would interleave their block-number streams.
	transferMu sync.Mutex
}

// NewClient creates a Client from the given configuration. No network I/O
// happens until the first operation.
func NewClient(cfg *ConnectionConfig) (*Client, error) {
	if cfg == nil {
		return nil, ErrConfigNil
	}

	return &Client{
		cfg:    cfg,
		logger: cfg.logger,
		robot:  newSession(cfg, hse.DivisionRobotControl, cfg.robotPort),
		file:   newSession(cfg, hse.DivisionFileControl, cfg.filePort),
	}, nil
}

// Close releases both transport sessions. Pending exchanges observe
// ErrSessionClosed; the Client must not be used afterwards.
func (c *Client) Close() error {
	return errors.Join(c.robot.close(), c.file.close())
}

// newRobotRequest builds a robot-control request packet.
func newRobotRequest(cmd, inst uint16, attr, service byte, data []byte) *hse.Request {
	return &hse.Request{
		Division:  hse.DivisionRobotControl,
		Ack:       hse.AckRequest,
		Command:   cmd,
		Instance:  inst,
		Attribute: attr,
		Service:   service,
		Data:      data,
	}
}

// command performs one robot-control exchange and converts a controller
// rejection into a ControllerError.
func (c *Client) command(ctx context.Context, req *hse.Request, idempotent bool) (*hse.Answer, error) {
	ans, err := c.robot.exchange(ctx, req, idempotent)
	if err != nil {
		return nil, err
	}

	if !ans.OK() {
		return nil, hse.NewControllerError(ans.Status, ans.AddedStatus)
	}

	return ans, nil
}

func u32Data(v uint32) []byte {
	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, v)

	return buf
}

// SwitchPower turns the given power-related part on or off.
func (c *Client) SwitchPower(ctx context.Context, part PowerPart, sw PowerSwitch) error {
	if part < PowerPartHold || part > PowerPartHLock {
		return fmt.Errorf("%w: power part %d", hse.ErrInvalidArgument, part)
	}
	if sw != PowerSwitchOn && sw != PowerSwitchOff {
		return fmt.Errorf("%w: power switch %d", hse.ErrInvalidArgument, sw)
	}

	req := newRobotRequest(cmdSwitchPower, uint16(part), 1, serviceSetSingle, u32Data(uint32(sw)))
	_, err := c.command(ctx, req, false)

	return err
}

// SelectCycle selects how a job in the pendant plays.
//
// If the robot is held, CycleContinuous can be selected to resume playing.
func (c *Client) SelectCycle(ctx context.Context, cycle CycleMode) error {
	if cycle < CycleStep || cycle > CycleContinuous {
		return fmt.Errorf("%w: cycle mode %d", hse.ErrInvalidArgument, cycle)
	}

	req := newRobotRequest(cmdSelectCycle, 2, 1, serviceSetSingle, u32Data(uint32(cycle)))
	_, err := c.command(ctx, req, false)

	return err
}

// MoveTarget describes a cartesian move command.
//
// Pos holds x, y, z in micrometers and Rx, Ry, Rz, Re in 0.0001 degree.
// Speed is in the unit selected by SpeedClass.
type MoveTarget struct {
	MoveType     MoveType
	Coordinate   CoordinateSystem
	SpeedClass   SpeedClass
	Speed        uint32
	Pos          [7]int32
	Form         uint32
	ExtendedForm uint32
	RobotNo      uint32
	StationNo    uint32
	ToolNo       uint32
	UserCoordNo  uint32
}

// Move makes the robot move to the target cartesian position.
//
// The controller acknowledges acceptance of the command, not completion of
// the motion. Observe completion via ReadExecutingJobInfo or GetStatus.
func (c *Client) Move(ctx context.Context, target MoveTarget) error {
	if target.MoveType < MoveJointAbsolute || target.MoveType > MoveLinearIncremental {
		return fmt.Errorf("%w: move type %d", hse.ErrInvalidArgument, target.MoveType)
	}
	if target.Coordinate < CoordinateBase || target.Coordinate > CoordinateTool {
		return fmt.Errorf("%w: coordinate system %d", hse.ErrInvalidArgument, target.Coordinate)
	}
	if err := validateMoveCommon(target.SpeedClass, target.RobotNo, target.ToolNo); err != nil {
		return err
	}
	if target.UserCoordNo > 63 {
		return fmt.Errorf("%w: user coordinate number %d", hse.ErrInvalidArgument, target.UserCoordNo)
	}

	data := make([]byte, 0, 104)
	data = binary.LittleEndian.AppendUint32(data, target.RobotNo)
	data = binary.LittleEndian.AppendUint32(data, target.StationNo)
	data = binary.LittleEndian.AppendUint32(data, uint32(target.SpeedClass))
	data = binary.LittleEndian.AppendUint32(data, target.Speed)
	data = binary.LittleEndian.AppendUint32(data, uint32(target.Coordinate))
	data = appendAxes(data, target.Pos)
	data = binary.LittleEndian.AppendUint32(data, 0) // reserved
	data = binary.LittleEndian.AppendUint32(data, target.Form)
	data = binary.LittleEndian.AppendUint32(data, target.ExtendedForm)
	data = binary.LittleEndian.AppendUint32(data, target.ToolNo)
	data = binary.LittleEndian.AppendUint32(data, target.UserCoordNo)
	data = append(data, make([]byte, 36)...) // base/station axis data, unused

	req := newRobotRequest(cmdMoveCartesian, uint16(target.MoveType), 1, serviceSetAll, data)
	_, err := c.command(ctx, req, false)

	return err
}

// PulseTarget describes a pulse-coordinate move command.
type PulseTarget struct {
	MoveType   MoveType
	SpeedClass SpeedClass
	Speed      uint32
	Pulse      [7]int32
	RobotNo    uint32
	StationNo  uint32
	ToolNo     uint32
}

// MovePulse makes the robot move to the target pulse position.
//
// Like Move, the acknowledgement means the command was accepted.
func (c *Client) MovePulse(ctx context.Context, target PulseTarget) error {
	if target.MoveType != MoveJointAbsolute && target.MoveType != MoveLinearAbsolute {
		return fmt.Errorf("%w: move type %d", hse.ErrInvalidArgument, target.MoveType)
	}
	if err := validateMoveCommon(target.SpeedClass, target.RobotNo, target.ToolNo); err != nil {
		return err
	}

	data := make([]byte, 0, 88)
	data = binary.LittleEndian.AppendUint32(data, target.RobotNo)
	data = binary.LittleEndian.AppendUint32(data, target.StationNo)
	data = binary.LittleEndian.AppendUint32(data, uint32(target.SpeedClass))
	data = binary.LittleEndian.AppendUint32(data, target.Speed)
	data = appendAxes(data, target.Pulse)
	data = binary.LittleEndian.AppendUint32(data, 0) // reserved
	data = binary.LittleEndian.AppendUint32(data, target.ToolNo)
	data = append(data, make([]byte, 36)...) // base/station axis data, unused

	req := newRobotRequest(cmdMovePulse, uint16(target.MoveType), 1, serviceSetAll, data)
	_, err := c.command(ctx, req, false)

	return err
}

func validateMoveCommon(speedClass SpeedClass, robotNo, toolNo uint32) error {
	if speedClass > SpeedClassDegree {
		return fmt.Errorf("%w: speed class %d", hse.ErrInvalidArgument, speedClass)
	}
	if robotNo < 1 || robotNo > 2 {
		return fmt.Errorf("%w: robot number %d", hse.ErrInvalidArgument, robotNo)
	}
	if toolNo > 63 {
		return fmt.Errorf("%w: tool number %d", hse.ErrInvalidArgument, toolNo)
	}

	return nil
}

func appendAxes(data []byte, axes [7]int32) []byte {
	for _, a := range axes {
		data = binary.LittleEndian.AppendUint32(data, uint32(a)) //nolint:gosec
	}

	return data
}

// SelectJob selects a job in the pendant for later playing, starting at the
// given line. A trailing ".JBI" extension is stripped from the name.
func (c *Client) SelectJob(ctx context.Context, jobName string, lineNo uint32) error {
	if ext := strings.ToUpper(jobName); strings.HasSuffix(ext, ".JBI") {
		jobName = jobName[:len(jobName)-4]
	}
	if len(jobName) == 0 || len(jobName) > maxJobNameSize {
		return fmt.Errorf("%w: job name length %d", hse.ErrInvalidArgument, len(jobName))
	}

	data := make([]byte, 0, maxJobNameSize+4)
	data = append(data, util.PadRight(jobName, maxJobNameSize)...)
	data = binary.LittleEndian.AppendUint32(data, lineNo)

	req := newRobotRequest(cmdSelectJob, 1, 0, serviceSetAll, data)
	_, err := c.command(ctx, req, false)

	return err
}

// PlayJob starts playing the job selected by SelectJob.
func (c *Client) PlayJob(ctx context.Context) error {
	req := newRobotRequest(cmdStartJob, 1, 1, serviceSetSingle, u32Data(1))
	_, err := c.command(ctx, req, false)

	return err
}

// ResetAlarm resets alarms or cancels errors depending on kind.
func (c *Client) ResetAlarm(ctx context.Context, kind AlarmResetType) error {
	if kind != ResetAlarm && kind != CancelError {
		return fmt.Errorf("%w: alarm reset type %d", hse.ErrInvalidArgument, kind)
	}

	req := newRobotRequest(cmdResetAlarm, uint16(kind), 1, serviceSetSingle, u32Data(1))
	_, err := c.command(ctx, req, false)

	return err
}

// ShowText shows the given text on the pendant screen.
// The text must fit in 30 bytes.
func (c *Client) ShowText(ctx context.Context, text string) error {
	if len(text) > maxTextSize {
		return fmt.Errorf("%w: text length %d", hse.ErrInvalidArgument, len(text))
	}

	req := newRobotRequest(cmdShowText, 1, 1, serviceSetSingle, util.PadRight(text, maxTextSize+2))
	_, err := c.command(ctx, req, false)

	return err
}
