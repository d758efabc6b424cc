package fs100

import (
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/arloliu/go-hse/hse"
	"github.com/arloliu/go-hse/logger"
	"github.com/arloliu/go-hse/vars"
)

// Default ports of the HSE server, one per processing division.
const (
	DefaultRobotPort = 10040
	DefaultFilePort  = 10041
)

const (
	defaultTimeout       = 800 * time.Millisecond
	defaultRetryCount    = 2
	defaultFileBlockSize = 400
)

// ErrConfigNil indicates that a nil ConnectionConfig was provided.
var ErrConfigNil = errors.New("connection config is nil")

// ConnectionConfig holds the configuration parameters for a Client.
// It is immutable once the Client is constructed.
type ConnectionConfig struct {
	// host is the IP address or resolvable name of the controller.
	host string

	// robotPort and filePort are the UDP ports of the two processing
	// divisions. The protocol segregates robot control and file control by
	// port.
	robotPort int
	filePort  int

	// timeout is the per-exchange reply timeout.
	// Defaults to 800 milliseconds.
	timeout time.Duration

	// retryCount bounds how many times a timed-out exchange is resent.
	// Only replay-safe exchanges (reads, status, alarm queries) and
	// individual file blocks are retried. Defaults to 2.
	retryCount int

	// fileBlockSize is the payload size of one block of a client-to-
	// controller file transfer. Defaults to 400 bytes.
	fileBlockSize int

	// varRanges maps each variable kind to its highest addressable index.
	varRanges map[vars.Kind]uint16

	// logger records session events and errors.
	logger logger.Logger
}

// NewConnectionConfig creates a connection configuration for the controller
// at the given host, applying the provided functional options over the
// defaults.
func NewConnectionConfig(host string, opts ...ConnOption) (*ConnectionConfig, error) {
	cfg := &ConnectionConfig{
		robotPort:     DefaultRobotPort,
		filePort:      DefaultFilePort,
		timeout:       defaultTimeout,
		retryCount:    defaultRetryCount,
		fileBlockSize: defaultFileBlockSize,
		varRanges:     defaultVarRanges(),
		logger:        logger.GetLogger(),
	}

	if err := withHost(host).apply(cfg); err != nil {
		return nil, err
	}

	for _, opt := range opts {
		if err := opt.apply(cfg); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// defaultVarRanges returns the standard FS100 variable allocation. Larger
// allocations configured on the controller can be declared with
// WithVariableRange.
func defaultVarRanges() map[vars.Kind]uint16 {
	return map[vars.Kind]uint16{
		vars.KindIO:            65535,
		vars.KindRegister:      999,
		vars.KindByte:          99,
		vars.KindInteger:       99,
		vars.KindDouble:        99,
		vars.KindReal:          99,
		vars.KindString:        99,
		vars.KindRobotPosition: 127,
		vars.KindBasePosition:  7,
		vars.KindExternalAxis:  7,
	}
}

// ConnOption represents a functional option for configuring a ConnectionConfig.
type ConnOption interface {
	apply(*ConnectionConfig) error
}

type connOptFunc struct {
	name      string
	applyFunc func(*ConnectionConfig) error
}

func (c *connOptFunc) apply(cfg *ConnectionConfig) error { return c.applyFunc(cfg) }

func newConnOptFunc(name string, f func(*ConnectionConfig) error) *connOptFunc {
	return &connOptFunc{name: name, applyFunc: f}
}

// withHost validates and sets the controller host.
func withHost(host string) ConnOption {
	return newConnOptFunc("withHost", func(cfg *ConnectionConfig) error {
		if cfg == nil {
			return ErrConfigNil
		}

		if ip := net.ParseIP(host); ip != nil {
			cfg.host = host
			return nil
		}

		host = strings.TrimPrefix(host, ".")
		host = strings.TrimSuffix(host, ".")
		if _, err := net.LookupHost(host); err == nil {
			cfg.host = host
			return nil
		}

		return errors.New("invalid host")
	})
}

// WithTimeout sets the per-exchange reply timeout.
// An error is returned if the timeout is outside the valid range
// (10 milliseconds to 30 seconds) or if the configuration is nil.
//
// The default value is 800 milliseconds.
func WithTimeout(val time.Duration) ConnOption {
	return newConnOptFunc("WithTimeout", func(cfg *ConnectionConfig) error {
		if cfg == nil {
			return ErrConfigNil
		}

		if val < 10*time.Millisecond || val > 30*time.Second {
			return errors.New("timeout out of range [0.01s, 30s]")
		}
		cfg.timeout = val

		return nil
	})
}

// WithRetryCount sets how many times a replay-safe exchange or file block is
// resent after a timeout. Zero disables retransmission.
// An error is returned if the count is outside the range [0, 10] or if the
// configuration is nil.
//
// The default value is 2.
func WithRetryCount(count int) ConnOption {
	return newConnOptFunc("WithRetryCount", func(cfg *ConnectionConfig) error {
		if cfg == nil {
			return ErrConfigNil
		}

		if count < 0 || count > 10 {
			return errors.New("retry count out of range [0, 10]")
		}
		cfg.retryCount = count

		return nil
	})
}

// WithRobotPort sets the UDP port of the robot-control division.
//
// The default value is 10040.
func WithRobotPort(port int) ConnOption {
	return newConnOptFunc("WithRobotPort", func(cfg *ConnectionConfig) error {
		if cfg == nil {
			return ErrConfigNil
		}

		if port < 1 || port > 65535 {
			return errors.New("port is out of range [1, 65535]")
		}
		cfg.robotPort = port

		return nil
	})
}

// WithFilePort sets the UDP port of the file-control division.
//
// The default value is 10041.
func WithFilePort(port int) ConnOption {
	return newConnOptFunc("WithFilePort", func(cfg *ConnectionConfig) error {
		if cfg == nil {
			return ErrConfigNil
		}

		if port < 1 || port > 65535 {
			return errors.New("port is out of range [1, 65535]")
		}
		cfg.filePort = port

		return nil
	})
}

// WithFileBlockSize sets the payload size of one file-transfer block.
// An error is returned if the size is outside the range [1, 0x1df4] or if
// the configuration is nil.
//
// The default value is 400 bytes.
func WithFileBlockSize(size int) ConnOption {
	return newConnOptFunc("WithFileBlockSize", func(cfg *ConnectionConfig) error {
		if cfg == nil {
			return ErrConfigNil
		}

		if size < 1 || size > hse.MaxDataSize {
			return fmt.Errorf("file block size out of range [1, %d]", hse.MaxDataSize)
		}
		cfg.fileBlockSize = size

		return nil
	})
}

// WithVariableRange declares the highest addressable index of a variable
// kind, overriding the standard allocation for controllers configured with
// expanded variable areas.
func WithVariableRange(kind vars.Kind, maxIndex uint16) ConnOption {
	return newConnOptFunc("WithVariableRange", func(cfg *ConnectionConfig) error {
		if cfg == nil {
			return ErrConfigNil
		}

		if !kind.Valid() {
			return fmt.Errorf("unknown variable kind 0x%x", uint16(kind))
		}
		cfg.varRanges[kind] = maxIndex

		return nil
	})
}

// WithLogger sets the logger for the Client.
//
// The default logger is the global logger instance.
func WithLogger(l logger.Logger) ConnOption {
	return newConnOptFunc("WithLogger", func(cfg *ConnectionConfig) error {
		if cfg == nil {
			return ErrConfigNil
		}

		cfg.logger = l

		return nil
	})
}
