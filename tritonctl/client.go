package tritonctl

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/DehydratedMud/go-triton/logger"
	"github.com/DehydratedMud/go-triton/triton"
)

// Client is a connection to a Triton temperature controller.
type Client struct {
	cfg       *ConnectionConfig
	logger    logger.Logger
	sessionID string

	mu   sync.Mutex // serializes command exchanges, guards conn and buf
	conn net.Conn
	buf  []byte

	opState AtomicOpState
	metrics ClientMetrics
}

// NewClient creates a closed client for the given configuration.
func NewClient(cfg *ConnectionConfig) (*Client, error) {
	if cfg == nil {
		return nil, ErrConnConfigNil
	}

	sessionID := uuid.NewString()

	return &Client{
		cfg:       cfg,
		logger:    cfg.logger.With("session", sessionID),
		sessionID: sessionID,
		buf:       make([]byte, triton.MaxReplySize),
	}, nil
}

// SessionID returns the identifier attached to every log record of this client.
func (c *Client) SessionID() string { return c.sessionID }

// GetLogger returns the logger of the client.
func (c *Client) GetLogger() logger.Logger { return c.logger }

// GetMetrics returns the metrics of the client.
func (c *Client) GetMetrics() *ClientMetrics { return &c.metrics }

// State returns the lifecycle state of the client.
func (c *Client) State() OpState { return c.opState.Get() }

// Open dials the controller and, unless disabled by WithoutActivation, activates the
// measurement session. Dial failures match triton.ErrConnection.
func (c *Client) Open(ctx context.Context) error {
	if !c.opState.ToOpening() {
		return ErrAlreadyOpen
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	address := c.cfg.Addr()
	dialer := &net.Dialer{KeepAlive: 30 * time.Second}

	dialCtx, cancel := context.WithTimeout(ctx, c.cfg.connectTimeout)
	defer cancel()

	conn, err := dialer.DialContext(dialCtx, "tcp", address)
	if err != nil {
		c.opState.ToClosed()
		c.logger.Debug("failed to dial controller", "addr", address, "error", err)

		return fmt.Errorf("%w: dial %s: %w", triton.ErrConnection, address, err)
	}
	c.conn = conn

	if c.cfg.activate {
		if _, err := c.exchangeLocked(ctx, triton.ActivateMeasurement()); err != nil {
			_ = c.closeLocked()
			return err
		}
	}

	// Close ran while opening
	if !c.opState.ToOpened() {
		_ = c.closeLocked()
		c.logger.Debug("client closed while opening", "addr", address)

		return ErrNotOpen
	}
	c.logger.Info("connected to controller",
		"addr", address,
		"local_addr", conn.LocalAddr().String(),
		"remote_addr", conn.RemoteAddr().String(),
	)

	return nil
}

// Close releases the connection. It is safe to call Close multiple times.
func (c *Client) Close() error {
	if !c.opState.ToClosing() {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	err := c.closeLocked()
	c.logger.Info("connection closed")

	return err
}

func (c *Client) closeLocked() error {
	var err error
	if c.conn != nil {
		err = c.conn.Close()
		c.conn = nil
	}
	c.opState.ToClosed()

	return err
}

// WithClient opens a client for cfg, runs fn and closes the client on every exit path.
// The close error is joined to the error of fn.
func WithClient(ctx context.Context, cfg *ConnectionConfig, fn func(ctx context.Context, c *Client) error) (err error) {
	c, err := NewClient(cfg)
	if err != nil {
		return err
	}

	if err := c.Open(ctx); err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, c.Close())
	}()

	return fn(ctx, c)
}

// Exchange writes cmd and returns the single reply read for it.
//
// The wait for the reply is bounded by the reply timeout and by ctx. Timeouts match
// triton.ErrTimeout, other I/O failures match triton.ErrConnection.
func (c *Client) Exchange(ctx context.Context, cmd triton.Command) (triton.Reply, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.exchangeLocked(ctx, cmd)
}

func (c *Client) exchangeLocked(ctx context.Context, cmd triton.Command) (triton.Reply, error) {
	conn := c.conn
	if conn == nil {
		return nil, ErrNotOpen
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	deadline := time.Now().Add(c.cfg.replyTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := conn.SetDeadline(deadline); err != nil {
		return nil, c.ioError(ctx, cmd, "set deadline", err)
	}

	// abort the in-flight exchange when ctx is done
	stop := context.AfterFunc(ctx, func() {
		_ = conn.SetDeadline(time.Now())
	})
	defer stop()

	c.logger.Debug("send command", "cmd", cmd.String())
	if _, err := conn.Write(cmd.Bytes()); err != nil {
		return nil, c.ioError(ctx, cmd, "write", err)
	}
	c.metrics.incCommandSendCount()

	n, err := conn.Read(c.buf)
	if err != nil {
		return nil, c.ioError(ctx, cmd, "read", err)
	}
	c.metrics.incReplyRecvCount()

	reply := triton.Reply(bytes.Clone(c.buf[:n]))
	c.logger.Debug("receive reply", "cmd", cmd.String(), "reply", reply.String())

	return reply, nil
}

func (c *Client) ioError(ctx context.Context, cmd triton.Command, op string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		c.metrics.incTimeoutCount()
		c.logger.Debug("reply timeout", "cmd", cmd.String(), "timeout", c.cfg.replyTimeout)

		return fmt.Errorf("%w: no reply to %q within %s", triton.ErrTimeout, cmd.String(), c.cfg.replyTimeout)
	}

	c.metrics.incConnErrCount()
	c.logger.Debug("exchange failed", "cmd", cmd.String(), "op", op, "error", err)

	return fmt.Errorf("%w: %s %q: %w", triton.ErrConnection, op, cmd.String(), err)
}

// run exchanges cmds in order, discarding acknowledgments, and stops at the first failure.
func (c *Client) run(ctx context.Context, cmds ...triton.Command) error {
	for _, cmd := range cmds {
		if _, err := c.Exchange(ctx, cmd); err != nil {
			return err
		}
	}

	return nil
}
