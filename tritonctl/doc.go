// Package tritonctl is a client for an Oxford Instruments Triton temperature controller.
//
// The client owns a single TCP connection to the Triton control software (localhost:33576 by
// default) and drives it strictly as request/response: every command is written as one
// CRLF-terminated line and answered by one reply of at most triton.MaxReplySize bytes.
//
// Key Features:
//   - Connection lifecycle: Open dials the controller and activates the measurement session,
//     Close releases the socket, WithClient guarantees release on every exit path.
//   - Reads: temperatures of T8 and T5, the loop setpoint and the sweep rate.
//   - Writes: loop mode, heater range, setpoint, ramp rate and enable, PID gains, loop channel.
//   - Sequences: measurement bring-up, default PID profile, stabilization waits, sweep start
//     and safe shutdown (ToBase).
//   - Advisories: operator instructions are emitted as Advisory events, never as errors.
//
// Errors match the sentinels of the triton package: triton.ErrConnection, triton.ErrTimeout,
// triton.ErrParse and triton.ErrProtocolMismatch. A timed out command leaves the late reply
// in the stream, so callers should Close and reopen the client after triton.ErrTimeout.
//
// Commands are serialized by a mutex, but sequences do not hold it between steps; sharing a
// Client between goroutines that run sequences interleaves their commands.
//
// Usage Example:
//
//	cfg, err := tritonctl.DefaultConnectionConfig(tritonctl.WithReplyTimeout(20 * time.Second))
//	// ... handle error ...
//	err = tritonctl.WithClient(ctx, cfg, func(ctx context.Context, c *tritonctl.Client) error {
//	    if _, err := c.InitializeTempSetDefault(ctx, 1.5); err != nil {
//	        return err
//	    }
//	    defer c.ToBase(context.Background())
//
//	    if err := c.InitTempSweep(ctx, 0.05, 0.1, 3.16); err != nil {
//	        return err
//	    }
//	    temp, err := c.TemperatureT8(ctx)
//	    // ...
//	})
package tritonctl
