package tritonctl

import (
	"context"
	"fmt"
	"time"

	"github.com/DehydratedMud/go-triton/triton"
)

// Reading is a numeric value read from the controller.
type Reading struct {
	// Command is the command line that produced the reading.
	Command string
	// Value is the parsed payload.
	Value float64
	// Raw is the reply as received.
	Raw triton.Reply
	// Time is when the reply was parsed.
	Time time.Time
}

// Read exchanges cmd and parses the numeric payload of its reply.
// Replies that violate the reply-format contract match triton.ErrParse.
func (c *Client) Read(ctx context.Context, cmd triton.Command) (Reading, error) {
	reply, err := c.Exchange(ctx, cmd)
	if err != nil {
		return Reading{}, err
	}

	v, err := reply.Float()
	if err != nil {
		c.metrics.incParseErrCount()
		c.logger.Debug("invalid reply", "cmd", cmd.String(), "reply", reply.String(), "error", err)

		return Reading{}, fmt.Errorf("%s: %w", cmd.String(), err)
	}

	return Reading{Command: cmd.String(), Value: v, Raw: reply, Time: time.Now()}, nil
}

func (c *Client) readValue(ctx context.Context, cmd triton.Command) (float64, error) {
	r, err := c.Read(ctx, cmd)
	return r.Value, err
}

// Temperature returns the current temperature of ch in kelvin.
func (c *Client) Temperature(ctx context.Context, ch triton.Channel) (float64, error) {
	cmd, err := triton.ReadTemperature(ch)
	if err != nil {
		return 0, err
	}

	return c.readValue(ctx, cmd)
}

// TemperatureT8 returns the temperature of the RuO thermometer, for use below 1.2 K.
func (c *Client) TemperatureT8(ctx context.Context) (float64, error) {
	return c.Temperature(ctx, triton.T8)
}

// TemperatureT5 returns the temperature of the Cernox thermometer, for use above 1.2 K.
func (c *Client) TemperatureT5(ctx context.Context) (float64, error) {
	return c.Temperature(ctx, triton.T5)
}

// SetpointT8 returns the loop setpoint in kelvin.
func (c *Client) SetpointT8(ctx context.Context) (float64, error) {
	return c.readValue(ctx, triton.ReadSetpoint())
}

// SweepRate returns the ramp rate in K/min. The rate only applies while the ramp is enabled.
func (c *Client) SweepRate(ctx context.Context) (float64, error) {
	return c.readValue(ctx, triton.ReadRampRate())
}
