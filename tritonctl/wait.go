package tritonctl

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/DehydratedMud/go-triton/internal/pool"
	"github.com/DehydratedMud/go-triton/internal/retry"
)

// DefaultDelta is the default stability band half-width in kelvin.
const DefaultDelta = 0.01

// WaitResult reports the outcome of a stabilization wait.
type WaitResult struct {
	// Setpoint is the target temperature that was set.
	Setpoint float64
	// Temperature is the most recent T8 sample.
	Temperature float64
	// Previous is the sample taken before Temperature, zero when only one sample was taken.
	Previous float64
	// Samples is the number of T8 samples taken.
	Samples int
	// Stable reports whether the stability criterion was met before retries ran out.
	Stable bool
}

func (r *WaitResult) record(temp float64) {
	if r.Samples > 0 {
		r.Previous = r.Temperature
	}
	r.Temperature = temp
	r.Samples++
}

type waitConfig struct {
	delta          float64
	retry          retry.Policy
	settle         time.Duration
	sampleInterval time.Duration
}

// WaitOption customizes SetTempWait1 and SetTempWait2.
type WaitOption func(*waitConfig) error

// WithDelta sets the stability threshold in kelvin.
func WithDelta(delta float64) WaitOption {
	return func(cfg *waitConfig) error {
		if !(delta >= 0) {
			return errors.New("delta must not be negative")
		}
		cfg.delta = delta

		return nil
	}
}

// WithRetry sets how many re-reads are made and how long to wait before the first one.
func WithRetry(maxRetries int, interval time.Duration) WaitOption {
	return func(cfg *waitConfig) error {
		if maxRetries < 0 || interval < 0 {
			return errors.New("retry count and interval must not be negative")
		}
		cfg.retry.MaxRetries = maxRetries
		cfg.retry.Interval = interval

		return nil
	}
}

// WithBackoff grows the retry interval by factor after every retry, up to maxInterval.
func WithBackoff(factor float64, maxInterval time.Duration) WaitOption {
	return func(cfg *waitConfig) error {
		if factor < 1 || maxInterval < 0 {
			return errors.New("backoff factor must be at least 1")
		}
		cfg.retry.Factor = factor
		cfg.retry.MaxInterval = maxInterval

		return nil
	}
}

// WithSettleTime sets the unconditional wait after the stability check.
func WithSettleTime(d time.Duration) WaitOption {
	return func(cfg *waitConfig) error {
		if d < 0 {
			return errors.New("settle time must not be negative")
		}
		cfg.settle = d

		return nil
	}
}

// WithSampleInterval sets the time between the first two samples of SetTempWait2.
func WithSampleInterval(d time.Duration) WaitOption {
	return func(cfg *waitConfig) error {
		if d < 0 {
			return errors.New("sample interval must not be negative")
		}
		cfg.sampleInterval = d

		return nil
	}
}

func newWaitConfig(def waitConfig, opts []WaitOption) (waitConfig, error) {
	cfg := def
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return cfg, err
		}
	}

	return cfg, nil
}

// SetTempWait1 sets the target temperature and waits for T8 to be within delta of it.
//
// T8 is read right after setting the target. While the reading is outside
// [tset-delta, tset+delta] it is re-read, by default once after 5 s. The sequence then
// waits the settle time, by default 60 s. Each comparison uses the reading just taken.
// Not reaching the band is reported through WaitResult.Stable, not as an error.
func (c *Client) SetTempWait1(ctx context.Context, tset float64, opts ...WaitOption) (WaitResult, error) {
	cfg, err := newWaitConfig(waitConfig{
		delta:  DefaultDelta,
		retry:  retry.Once(5 * time.Second),
		settle: 60 * time.Second,
	}, opts)
	if err != nil {
		return WaitResult{}, err
	}

	res := WaitResult{Setpoint: tset}
	if _, err := c.SetTemperature(ctx, tset); err != nil {
		return res, err
	}

	res.Stable, err = retry.Do(ctx, cfg.retry, func(ctx context.Context, attempt int) (bool, error) {
		if attempt > 0 {
			c.metrics.incRetryCount()
		}

		temp, err := c.TemperatureT8(ctx)
		if err != nil {
			return false, err
		}
		res.record(temp)

		return temp >= tset-cfg.delta && temp <= tset+cfg.delta, nil
	})
	if err != nil {
		return res, err
	}

	c.logger.Info("setpoint wait finished",
		"tset", tset, "temp", res.Temperature, "samples", res.Samples, "stable", res.Stable)

	return res, pool.Sleep(ctx, cfg.settle)
}

// SetTempWait2 sets the target temperature and waits for T8 to stop drifting.
//
// T8 is sampled right after setting the target and again after the sample interval
// (default 30 s). While the two most recent samples differ by more than delta, T8 is
// sampled again, by default once after another 30 s.
func (c *Client) SetTempWait2(ctx context.Context, tset float64, opts ...WaitOption) (WaitResult, error) {
	cfg, err := newWaitConfig(waitConfig{
		delta:          DefaultDelta,
		retry:          retry.Once(30 * time.Second),
		sampleInterval: 30 * time.Second,
	}, opts)
	if err != nil {
		return WaitResult{}, err
	}

	res := WaitResult{Setpoint: tset}
	if _, err := c.SetTemperature(ctx, tset); err != nil {
		return res, err
	}

	temp, err := c.TemperatureT8(ctx)
	if err != nil {
		return res, err
	}
	res.record(temp)

	if err := pool.Sleep(ctx, cfg.sampleInterval); err != nil {
		return res, err
	}

	res.Stable, err = retry.Do(ctx, cfg.retry, func(ctx context.Context, attempt int) (bool, error) {
		if attempt > 0 {
			c.metrics.incRetryCount()
		}

		temp, err := c.TemperatureT8(ctx)
		if err != nil {
			return false, err
		}
		res.record(temp)

		return math.Abs(res.Temperature-res.Previous) <= cfg.delta, nil
	})
	if err != nil {
		return res, err
	}

	c.logger.Info("drift wait finished",
		"tset", tset, "temp", res.Temperature, "samples", res.Samples, "stable", res.Stable)

	return res, pool.Sleep(ctx, cfg.settle)
}
