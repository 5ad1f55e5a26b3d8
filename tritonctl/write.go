package tritonctl

import (
	"context"

	"github.com/DehydratedMud/go-triton/triton"
)

// The setters below return the raw acknowledgment; its content is not checked.

func (c *Client) exec(ctx context.Context, cmd triton.Command, err error) (triton.Reply, error) {
	if err != nil {
		return nil, err
	}

	return c.Exchange(ctx, cmd)
}

// SelectLoopChannel selects the thermometer feeding the PID loop. The controller switches
// from T8 to T5 by itself at 1.2 K; this overrides the choice manually.
func (c *Client) SelectLoopChannel(ctx context.Context, ch triton.Channel) (triton.Reply, error) {
	cmd, err := triton.SelectLoopChannel(ch)
	return c.exec(ctx, cmd, err)
}

// SetPIDOn enables the PID loop.
func (c *Client) SetPIDOn(ctx context.Context) (triton.Reply, error) {
	return c.Exchange(ctx, triton.SetLoopMode(true))
}

// SetPIDOff disables the PID loop.
func (c *Client) SetPIDOff(ctx context.Context) (triton.Reply, error) {
	return c.Exchange(ctx, triton.SetLoopMode(false))
}

// EnableMeasurement enables measurement on ch.
func (c *Client) EnableMeasurement(ctx context.Context, ch triton.Channel) (triton.Reply, error) {
	cmd, err := triton.EnableMeasurement(ch)
	return c.exec(ctx, cmd, err)
}

// SetHeaterRange sets the heater range in mA; r must be one of triton.HeaterRanges.
func (c *Client) SetHeaterRange(ctx context.Context, r float64) (triton.Reply, error) {
	cmd, err := triton.SetHeaterRange(r)
	return c.exec(ctx, cmd, err)
}

// SetTemperature sets the loop setpoint in kelvin.
func (c *Client) SetTemperature(ctx context.Context, tset float64) (triton.Reply, error) {
	cmd, err := triton.SetSetpoint(tset)
	return c.exec(ctx, cmd, err)
}

// SetRampRate sets the ramp rate in K/min.
func (c *Client) SetRampRate(ctx context.Context, rate float64) (triton.Reply, error) {
	cmd, err := triton.SetRampRate(rate)
	return c.exec(ctx, cmd, err)
}

// SetRampOn enables the setpoint ramp.
func (c *Client) SetRampOn(ctx context.Context) (triton.Reply, error) {
	return c.Exchange(ctx, triton.SetRampEnable(true))
}

// SetRampOff disables the setpoint ramp.
func (c *Client) SetRampOff(ctx context.Context) (triton.Reply, error) {
	return c.Exchange(ctx, triton.SetRampEnable(false))
}

// SetGain sets one gain of the PID loop.
func (c *Client) SetGain(ctx context.Context, term triton.PIDTerm, v float64) (triton.Reply, error) {
	cmd, err := triton.SetGain(term, v)
	return c.exec(ctx, cmd, err)
}

// SetPID sets the three gains of the PID loop in the order P, I, D.
// All gains are validated before the first command is sent.
func (c *Client) SetPID(ctx context.Context, p, i, d float64) error {
	cmds, err := pidCommands(p, i, d)
	if err != nil {
		return err
	}

	return c.run(ctx, cmds...)
}

func pidCommands(p, i, d float64) ([]triton.Command, error) {
	cmds := make([]triton.Command, 0, 3)
	for _, g := range []struct {
		term triton.PIDTerm
		v    float64
	}{{triton.TermP, p}, {triton.TermI, i}, {triton.TermD, d}} {
		cmd, err := triton.SetGain(g.term, g.v)
		if err != nil {
			return nil, err
		}
		cmds = append(cmds, cmd)
	}

	return cmds, nil
}
