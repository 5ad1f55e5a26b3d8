package tritonctl

import "time"

// HighTempAdvisory is the manual procedure required before controlling above AdvisoryTemp.
const HighTempAdvisory = "Switch off the turbo, switch off the still heater, close V9, open V4, change channel to T5"

// AdvisoryTemp is the maximum sweep temperature in kelvin above which HighTempAdvisory is emitted.
const AdvisoryTemp = 2.0

// Advisory is an instruction for the operator. It is not an error: the sequence that
// emits it has completed its commands.
type Advisory struct {
	// MaxTemp is the maximum temperature the sequence was configured for.
	MaxTemp float64
	// Message is the instruction to the operator.
	Message string
	// Time is when the advisory was emitted.
	Time time.Time
}

// AdvisoryHandler receives advisories. It runs on the goroutine of the emitting sequence.
type AdvisoryHandler func(Advisory)

func (c *Client) emitAdvisory(adv Advisory) {
	c.metrics.incAdvisoryCount()
	c.logger.Warn("operator action required", "maxTemp", adv.MaxTemp, "advisory", adv.Message)

	if h := c.cfg.advisoryHandler; h != nil {
		h(adv)
	}
}
