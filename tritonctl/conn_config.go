package tritonctl

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/DehydratedMud/go-triton/logger"
)

const (
	// DefaultHost is the host the Triton control software listens on.
	DefaultHost = "localhost"
	// DefaultPort is the TCP port of the Triton control software.
	DefaultPort = 33576

	DefaultReplyTimeout   = 20 * time.Second
	DefaultConnectTimeout = 3 * time.Second
)

// Timeout range limits.
const (
	MinReplyTimeout = 10 * time.Millisecond
	MaxReplyTimeout = 120 * time.Second

	MinConnectTimeout = 10 * time.Millisecond
	MaxConnectTimeout = 30 * time.Second
)

// ConnectionConfig holds the configuration of a Client.
type ConnectionConfig struct {
	host string
	port int

	// replyTimeout bounds the wait for the reply of each command.
	replyTimeout time.Duration
	// connectTimeout bounds dialing the controller.
	connectTimeout time.Duration

	// activate sends the measurement session activation command right after dialing.
	activate bool

	advisoryHandler AdvisoryHandler

	logger logger.Logger
}

// NewConnectionConfig creates a client configuration for the controller at host:port.
//
// opts are functional options applied in order; see the With* functions.
func NewConnectionConfig(host string, port int, opts ...ConnOption) (*ConnectionConfig, error) {
	cfg := &ConnectionConfig{
		replyTimeout:   DefaultReplyTimeout,
		connectTimeout: DefaultConnectTimeout,
		activate:       true,
		logger:         logger.GetLogger(),
	}

	if err := withRemoteHost(host).apply(cfg); err != nil {
		return nil, err
	}
	if err := withPort(port).apply(cfg); err != nil {
		return nil, err
	}

	for _, opt := range opts {
		if err := opt.apply(cfg); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// DefaultConnectionConfig creates a client configuration for localhost:33576.
func DefaultConnectionConfig(opts ...ConnOption) (*ConnectionConfig, error) {
	return NewConnectionConfig(DefaultHost, DefaultPort, opts...)
}

// Host returns the configured host.
func (cfg *ConnectionConfig) Host() string { return cfg.host }

// Port returns the configured TCP port.
func (cfg *ConnectionConfig) Port() int { return cfg.port }

// Addr returns "host:port".
func (cfg *ConnectionConfig) Addr() string {
	return net.JoinHostPort(cfg.host, strconv.Itoa(cfg.port))
}

// ReplyTimeout returns the per-command reply timeout.
func (cfg *ConnectionConfig) ReplyTimeout() time.Duration { return cfg.replyTimeout }

// ConnectTimeout returns the dial timeout.
func (cfg *ConnectionConfig) ConnectTimeout() time.Duration { return cfg.connectTimeout }

// Activate reports whether the activation command is sent on Open.
func (cfg *ConnectionConfig) Activate() bool { return cfg.activate }

// GetLogger returns the configured logger.
func (cfg *ConnectionConfig) GetLogger() logger.Logger { return cfg.logger }

// ConnOption is a functional option for configuring a ConnectionConfig.
type ConnOption interface {
	apply(*ConnectionConfig) error
}

type connOptFunc func(*ConnectionConfig) error

func (f connOptFunc) apply(cfg *ConnectionConfig) error {
	if cfg == nil {
		return ErrConnConfigNil
	}

	return f(cfg)
}

func withRemoteHost(host string) ConnOption {
	return connOptFunc(func(cfg *ConnectionConfig) error {
		if ip := net.ParseIP(host); ip != nil {
			cfg.host = host
			return nil
		}

		host = strings.TrimPrefix(host, ".")
		host = strings.TrimSuffix(host, ".")
		if host != "" {
			if _, err := net.LookupHost(host); err == nil {
				cfg.host = host
				return nil
			}
		}

		return fmt.Errorf("invalid host %q", host)
	})
}

func withPort(port int) ConnOption {
	return connOptFunc(func(cfg *ConnectionConfig) error {
		if port < 0 || port > 65535 {
			return errors.New("port is out of range [0, 65535]")
		}
		cfg.port = port

		return nil
	})
}

// WithReplyTimeout sets how long each command waits for its reply.
// An error is returned if the timeout is outside the valid range (0.01-120 seconds).
//
// The default value is 20 seconds.
func WithReplyTimeout(val time.Duration) ConnOption {
	return connOptFunc(func(cfg *ConnectionConfig) error {
		if val < MinReplyTimeout || val > MaxReplyTimeout {
			return errors.New("reply timeout out of range [0.01, 120]")
		}
		cfg.replyTimeout = val

		return nil
	})
}

// WithConnectTimeout sets the timeout for dialing the controller.
// An error is returned if the timeout is outside the valid range (0.01-30 seconds).
//
// The default value is 3 seconds.
func WithConnectTimeout(val time.Duration) ConnOption {
	return connOptFunc(func(cfg *ConnectionConfig) error {
		if val < MinConnectTimeout || val > MaxConnectTimeout {
			return errors.New("connect timeout out of range [0.01, 30]")
		}
		cfg.connectTimeout = val

		return nil
	})
}

// WithoutActivation skips the measurement session activation command on Open.
func WithoutActivation() ConnOption {
	return connOptFunc(func(cfg *ConnectionConfig) error {
		cfg.activate = false
		return nil
	})
}

// WithAdvisoryHandler registers a handler invoked for every operator advisory.
func WithAdvisoryHandler(h AdvisoryHandler) ConnOption {
	return connOptFunc(func(cfg *ConnectionConfig) error {
		cfg.advisoryHandler = h
		return nil
	})
}

// WithLogger sets the logger of the client. A nil logger keeps the package default.
func WithLogger(l logger.Logger) ConnOption {
	return connOptFunc(func(cfg *ConnectionConfig) error {
		if l != nil {
			cfg.logger = l
		}
		return nil
	})
}
