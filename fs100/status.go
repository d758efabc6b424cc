package fs100

import (
	"context"
	"encoding/binary"
	"fmt"

	"github.com/arloliu/go-hse/hse"
	"github.com/arloliu/go-hse/internal/util"
)

// StatusFlags is a read-only snapshot of the controller's status bits.
type StatusFlags struct {
	Step           bool
	OneCycle       bool
	AutoContinuous bool
	Running        bool
	GuardSafe      bool
	Teach          bool
	Play           bool
	CommandRemote  bool
	HoldByPendant  bool
	HoldExternally bool
	HoldByCommand  bool
	Alarming       bool
	ErrorOccurring bool
	ServoOn        bool
}

// GetStatus retrieves the controller's status bits.
func (c *Client) GetStatus(ctx context.Context) (StatusFlags, error) {
	req := newRobotRequest(cmdReadStatus, 1, 0, serviceGetAll, nil)
	ans, err := c.command(ctx, req, true)
	if err != nil {
		return StatusFlags{}, err
	}

	return decodeStatusFlags(ans.Data)
}

// decodeStatusFlags decodes the two status words of a status answer.
func decodeStatusFlags(data []byte) (StatusFlags, error) {
	if len(data) < 8 {
		return StatusFlags{}, fmt.Errorf("%w: status payload %d bytes", hse.ErrMalformedPacket, len(data))
	}

	word1 := binary.LittleEndian.Uint32(data[0:4])
	word2 := binary.LittleEndian.Uint32(data[4:8])

	return StatusFlags{
		Step:           word1&0x01 != 0,
		OneCycle:       word1&0x02 != 0,
		AutoContinuous: word1&0x04 != 0,
		Running:        word1&0x08 != 0,
		GuardSafe:      word1&0x10 != 0,
		Teach:          word1&0x20 != 0,
		Play:           word1&0x40 != 0,
		CommandRemote:  word1&0x80 != 0,
		HoldByPendant:  word2&0x02 != 0,
		HoldExternally: word2&0x04 != 0,
		HoldByCommand:  word2&0x08 != 0,
		Alarming:       word2&0x10 != 0,
		ErrorOccurring: word2&0x20 != 0,
		ServoOn:        word2&0x40 != 0,
	}, nil
}

// Alarm is one decoded alarm record. It is immutable once decoded.
type Alarm struct {
	// Time is the occurrence time as reported by the controller,
	// e.g. "2026/08/30 10:21".
	Time string
	// Name is the alarm sub-code text.
	Name string
	Code uint32
	Data uint32
	Type uint32
}

// Alarm slot ranges accepted by ReadAlarmInfo.
//
//	1 to 100:      major failure
//	1001 to 1100:  monitor alarm
//	2001 to 2100:  user alarm (system)
//	3001 to 3100:  user alarm (user)
//	4001 to 4100:  off-line alarm
func validAlarmSlot(slot uint16) bool {
	switch {
	case slot >= 1 && slot <= 100:
		return true
	case slot >= 1001 && slot <= 1100:
		return true
	case slot >= 2001 && slot <= 2100:
		return true
	case slot >= 3001 && slot <= 3100:
		return true
	case slot >= 4001 && slot <= 4100:
		return true
	default:
		return false
	}
}

// ReadAlarmInfo retrieves the alarm record in the given history slot.
func (c *Client) ReadAlarmInfo(ctx context.Context, slot uint16) (*Alarm, error) {
	if !validAlarmSlot(slot) {
		return nil, fmt.Errorf("%w: alarm slot %d", hse.ErrInvalidArgument, slot)
	}

	req := newRobotRequest(cmdReadAlarmInfo, slot, 0, serviceGetAll, nil)
	ans, err := c.command(ctx, req, true)
	if err != nil {
		return nil, err
	}

	return decodeAlarm(ans.Data)
}

// GetLastAlarm retrieves the most recent alarm record.
func (c *Client) GetLastAlarm(ctx context.Context) (*Alarm, error) {
	// the latest entry always occupies slot 1 of the last-alarm command
	req := newRobotRequest(cmdReadLastAlarm, 1, 0, serviceGetAll, nil)
	ans, err := c.command(ctx, req, true)
	if err != nil {
		return nil, err
	}

	return decodeAlarm(ans.Data)
}

// decodeAlarm decodes one fixed-width alarm record.
func decodeAlarm(data []byte) (*Alarm, error) {
	if len(data) < 60 {
		return nil, fmt.Errorf("%w: alarm payload %d bytes", hse.ErrMalformedPacket, len(data))
	}

	return &Alarm{
		Code: binary.LittleEndian.Uint32(data[0:4]),
		Data: binary.LittleEndian.Uint32(data[4:8]),
		Type: binary.LittleEndian.Uint32(data[8:12]),
		Time: util.TrimNUL(data[12:28]),
		Name: util.TrimNUL(data[28:60]),
	}, nil
}
