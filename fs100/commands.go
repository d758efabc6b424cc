package fs100

// Robot-control command codes. The variable kinds (0x78-0x81) double as
// command codes and live in package vars.
const (
	cmdReadLastAlarm     uint16 = 0x70
	cmdReadAlarmInfo     uint16 = 0x71
	cmdReadStatus        uint16 = 0x72
	cmdReadJobInfo       uint16 = 0x73
	cmdReadAxisName      uint16 = 0x74
	cmdReadPosition      uint16 = 0x75
	cmdReadPositionError uint16 = 0x76
	cmdReadTorque        uint16 = 0x77
	cmdResetAlarm        uint16 = 0x82
	cmdSwitchPower       uint16 = 0x83
	cmdSelectCycle       uint16 = 0x84
	cmdShowText          uint16 = 0x85
	cmdStartJob          uint16 = 0x86
	cmdSelectJob         uint16 = 0x87
	cmdManagementTime    uint16 = 0x88
	cmdSystemInfo        uint16 = 0x89
	cmdMoveCartesian     uint16 = 0x8a
	cmdMovePulse         uint16 = 0x8b
)

// Service codes of the robot-control division.
const (
	serviceGetSingle  byte = 0x0e
	serviceSetSingle  byte = 0x10
	serviceGetAll     byte = 0x01
	serviceSetAll     byte = 0x02
	serviceReadPlural byte = 0x33
)

// Service codes of the file-control division.
const (
	serviceFileDelete  byte = 0x09
	serviceFileSend    byte = 0x15
	serviceFileReceive byte = 0x16
	serviceFileList    byte = 0x32
)

// PowerPart selects which power-related part SwitchPower acts on.
type PowerPart uint16

const (
	PowerPartHold  PowerPart = 1
	PowerPartServo PowerPart = 2
	PowerPartHLock PowerPart = 3
)

// PowerSwitch is the on/off argument of SwitchPower.
type PowerSwitch uint32

const (
	PowerSwitchOn  PowerSwitch = 1
	PowerSwitchOff PowerSwitch = 2
)

// CycleMode selects how a selected job plays.
type CycleMode uint32

const (
	CycleStep       CycleMode = 1
	CycleOne        CycleMode = 2
	CycleContinuous CycleMode = 3
)

// MoveType selects the interpolation of a move command.
type MoveType uint16

const (
	MoveJointAbsolute     MoveType = 1
	MoveLinearAbsolute    MoveType = 2
	MoveLinearIncremental MoveType = 3
)

// SpeedClass selects the unit of a move command's speed value.
type SpeedClass uint32

const (
	// SpeedClassPercent is 0.01% units, for joint moves.
	SpeedClassPercent SpeedClass = 0
	// SpeedClassMillimeter is 0.1 mm/s units.
	SpeedClassMillimeter SpeedClass = 1
	// SpeedClassDegree is 0.1 degree/s units.
	SpeedClassDegree SpeedClass = 2
)

// CoordinateSystem selects the frame a cartesian move target refers to.
type CoordinateSystem uint32

const (
	CoordinateBase  CoordinateSystem = 16
	CoordinateRobot CoordinateSystem = 17
	CoordinateUser  CoordinateSystem = 18
	CoordinateTool  CoordinateSystem = 19
)

// AlarmResetType distinguishes clearing alarms from cancelling errors.
type AlarmResetType uint16

const (
	ResetAlarm  AlarmResetType = 1
	CancelError AlarmResetType = 2
)

// SystemInfoTarget selects which subsystem AcquireSystemInfo reports on.
type SystemInfoTarget uint16

const (
	SystemInfoR1          SystemInfoTarget = 11
	SystemInfoR2          SystemInfoTarget = 12
	SystemInfoS1          SystemInfoTarget = 21
	SystemInfoS2          SystemInfoTarget = 22
	SystemInfoS3          SystemInfoTarget = 23
	SystemInfoApplication SystemInfoTarget = 101
)

// ManagementTimeTarget selects which usage counter AcquireManagementTime
// reports on.
type ManagementTimeTarget uint16

const (
	TimeControlPowerOn    ManagementTimeTarget = 1
	TimeServoPowerOnTotal ManagementTimeTarget = 10
	TimeServoPowerOnR1    ManagementTimeTarget = 11
	TimeServoPowerOnR2    ManagementTimeTarget = 12
	TimeServoPowerOnS1    ManagementTimeTarget = 21
	TimeServoPowerOnS2    ManagementTimeTarget = 22
	TimeServoPowerOnS3    ManagementTimeTarget = 23
	TimePlaybackTotal     ManagementTimeTarget = 110
	TimePlaybackR1        ManagementTimeTarget = 111
	TimePlaybackR2        ManagementTimeTarget = 112
	TimePlaybackS1        ManagementTimeTarget = 121
	TimePlaybackS2        ManagementTimeTarget = 122
	TimePlaybackS3        ManagementTimeTarget = 123
	TimeMotionTotal       ManagementTimeTarget = 210
	TimeMotionR1          ManagementTimeTarget = 211
	TimeMotionR2          ManagementTimeTarget = 212
	TimeMotionS1          ManagementTimeTarget = 221
	TimeMotionS2          ManagementTimeTarget = 222
	TimeMotionS3          ManagementTimeTarget = 223
	TimeOperation         ManagementTimeTarget = 301
)
