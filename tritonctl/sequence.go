package tritonctl

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/DehydratedMud/go-triton/triton"
)

// InitializeMeasureT8 enables the loop, enables measurement on T8 and reads T8 once.
// This is the default state of the controller, so the sequence is rarely needed.
func (c *Client) InitializeMeasureT8(ctx context.Context) (float64, error) {
	enable, err := triton.EnableMeasurement(triton.T8)
	if err != nil {
		return 0, err
	}

	if err := c.run(ctx, triton.SetLoopMode(true), enable); err != nil {
		return 0, err
	}

	return c.TemperatureT8(ctx)
}

// TempSetProfile is the PID and heater configuration for a temperature range.
type TempSetProfile struct {
	P, I, D     float64
	HeaterRange triton.HeaterRange
	// Advisory is set when manual operator action is needed for the range.
	Advisory bool
}

// Decision table thresholds in kelvin.
const (
	lowGainLimit   = triton.CrossoverTemp
	highRangeLimit = 1.0
)

// TempSetProfileFor selects the default profile for sweeps up to maxTemp:
//
//	maxTemp < 1.2   P/I/D = 15/120/0    otherwise 3/10/0
//	maxTemp < 1     heater range 10 mA  otherwise 3.16 mA
//	maxTemp > 2     operator advisory
func TempSetProfileFor(maxTemp float64) TempSetProfile {
	var prof TempSetProfile

	if maxTemp < lowGainLimit {
		prof.P, prof.I, prof.D = 15, 120, 0
	} else {
		prof.P, prof.I, prof.D = 3, 10, 0
	}

	if maxTemp < highRangeLimit {
		prof.HeaterRange = triton.Heater10mA
	} else {
		prof.HeaterRange = triton.Heater3_16mA
	}

	prof.Advisory = maxTemp > AdvisoryTemp

	return prof
}

// InitializeTempSetDefault applies TempSetProfileFor(maxTemp): it sets P, I, D and the heater
// range in that order and, when the profile requires it, emits HighTempAdvisory exactly once
// after the commands succeeded.
func (c *Client) InitializeTempSetDefault(ctx context.Context, maxTemp float64) (TempSetProfile, error) {
	if math.IsNaN(maxTemp) {
		return TempSetProfile{}, fmt.Errorf("%w: max temperature is NaN", triton.ErrInvalidParam)
	}

	prof := TempSetProfileFor(maxTemp)

	cmds, err := pidCommands(prof.P, prof.I, prof.D)
	if err != nil {
		return prof, err
	}
	rangeCmd, err := triton.SetHeaterRange(float64(prof.HeaterRange))
	if err != nil {
		return prof, err
	}

	if err := c.run(ctx, append(cmds, rangeCmd)...); err != nil {
		return prof, err
	}

	c.logger.Info("default temperature profile applied",
		"maxTemp", maxTemp, "p", prof.P, "i", prof.I, "d", prof.D, "heaterRange", prof.HeaterRange.String())

	if prof.Advisory {
		c.emitAdvisory(Advisory{MaxTemp: maxTemp, Message: HighTempAdvisory, Time: time.Now()})
	}

	return prof, nil
}

// ToBase disables the ramp, switches the heater off and disables the loop, in that order.
// Acknowledgments are not checked, so ToBase can be repeated regardless of the device state.
func (c *Client) ToBase(ctx context.Context) error {
	rangeOff, err := triton.SetHeaterRange(float64(triton.HeaterOff))
	if err != nil {
		return err
	}

	if err := c.run(ctx, triton.SetRampEnable(false), rangeOff, triton.SetLoopMode(false)); err != nil {
		return err
	}
	c.logger.Info("controller returned to base")

	return nil
}

// InitTempSweep prepares a ramp starting at tempi: loop off, setpoint, ramp rate, ramp on,
// heater range, loop on. All parameters are validated before the first command is sent.
func (c *Client) InitTempSweep(ctx context.Context, tempi, rampRate, htr float64) error {
	tset, err := triton.SetSetpoint(tempi)
	if err != nil {
		return err
	}
	rate, err := triton.SetRampRate(rampRate)
	if err != nil {
		return err
	}
	heater, err := triton.SetHeaterRange(htr)
	if err != nil {
		return err
	}

	err = c.run(ctx,
		triton.SetLoopMode(false),
		tset,
		rate,
		triton.SetRampEnable(true),
		heater,
		triton.SetLoopMode(true),
	)
	if err != nil {
		return err
	}
	c.logger.Info("temperature sweep initialized", "tempi", tempi, "rampRate", rampRate, "heaterRange", htr)

	return nil
}
