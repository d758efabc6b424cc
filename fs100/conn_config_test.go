package fs100

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/go-hse/hse"
	"github.com/arloliu/go-hse/vars"
)

func TestNewConnectionConfig_Defaults(t *testing.T) {
	require := require.New(t)

	cfg, err := NewConnectionConfig("192.168.255.1")
	require.NoError(err)

	require.Equal("192.168.255.1", cfg.host)
	require.Equal(DefaultRobotPort, cfg.robotPort)
	require.Equal(DefaultFilePort, cfg.filePort)
	require.Equal(800*time.Millisecond, cfg.timeout)
	require.Equal(2, cfg.retryCount)
	require.Equal(400, cfg.fileBlockSize)
	require.NotNil(cfg.logger)

	require.Equal(uint16(65535), cfg.varRanges[vars.KindIO])
	require.Equal(uint16(999), cfg.varRanges[vars.KindRegister])
	require.Equal(uint16(99), cfg.varRanges[vars.KindByte])
	require.Equal(uint16(127), cfg.varRanges[vars.KindRobotPosition])
	require.Equal(uint16(7), cfg.varRanges[vars.KindExternalAxis])
}

func TestNewConnectionConfig_InvalidHost(t *testing.T) {
	_, err := NewConnectionConfig("not a host name")
	require.Error(t, err)
}

func TestNewConnectionConfig_Options(t *testing.T) {
	require := require.New(t)

	cfg, err := NewConnectionConfig("10.0.0.2",
		WithRobotPort(20040),
		WithFilePort(20041),
		WithTimeout(250*time.Millisecond),
		WithRetryCount(0),
		WithFileBlockSize(1024),
		WithVariableRange(vars.KindByte, 1999),
	)
	require.NoError(err)

	require.Equal(20040, cfg.robotPort)
	require.Equal(20041, cfg.filePort)
	require.Equal(250*time.Millisecond, cfg.timeout)
	require.Equal(0, cfg.retryCount)
	require.Equal(1024, cfg.fileBlockSize)
	require.Equal(uint16(1999), cfg.varRanges[vars.KindByte])
}

func TestConnOption_Validation(t *testing.T) {
	tests := []struct {
		description string
		opt         ConnOption
	}{
		{"timeout too small", WithTimeout(5 * time.Millisecond)},
		{"timeout too large", WithTimeout(31 * time.Second)},
		{"retry count negative", WithRetryCount(-1)},
		{"retry count too large", WithRetryCount(11)},
		{"robot port zero", WithRobotPort(0)},
		{"robot port too large", WithRobotPort(65536)},
		{"file port zero", WithFilePort(0)},
		{"block size zero", WithFileBlockSize(0)},
		{"block size too large", WithFileBlockSize(hse.MaxDataSize + 1)},
		{"unknown variable kind", WithVariableRange(vars.Kind(0x99), 10)},
	}

	for _, test := range tests {
		t.Run(test.description, func(t *testing.T) {
			_, err := NewConnectionConfig("127.0.0.1", test.opt)
			assert.Error(t, err)
		})
	}
}

func TestConnOption_NilConfig(t *testing.T) {
	require.ErrorIs(t, WithTimeout(time.Second).apply(nil), ErrConfigNil)
	require.ErrorIs(t, WithRetryCount(1).apply(nil), ErrConfigNil)
}

func TestNewClient_NilConfig(t *testing.T) {
	client, err := NewClient(nil)
	require.ErrorIs(t, err, ErrConfigNil)
	require.Nil(t, client)
}
