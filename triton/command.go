package triton

import (
	"fmt"
	"strconv"
)

// Verb is the leading keyword of a command.
type Verb string

const (
	VerbRead Verb = "READ"
	VerbSet  Verb = "SET"
)

// Command terminator.
const lineEnd = "\r\n"

// Parameter bounds enforced by the command builders.
const (
	MinSetpoint = 0.0   // K
	MaxSetpoint = 300.0 // K
	MinRampRate = 0.0   // K/min
	MaxRampRate = 100.0 // K/min
	MinGain     = 0.0
	MaxGain     = 10000.0
)

// Command is a single request line sent to the controller.
type Command struct {
	verb     Verb
	device   string
	path     string
	value    string
	hasValue bool
}

func newCommand(verb Verb, device string, path string) Command {
	return Command{verb: verb, device: device, path: path}
}

func (c Command) withValue(value string) Command {
	c.value = value
	c.hasValue = true

	return c
}

// Verb returns the command verb.
func (c Command) Verb() Verb { return c.verb }

// Device returns the addressed device, e.g. "T8" or "UID".
func (c Command) Device() string { return c.device }

// Path returns the property path below TEMP, without the value.
func (c Command) Path() string { return c.path }

// Value returns the formatted parameter and whether the command carries one.
func (c Command) Value() (string, bool) { return c.value, c.hasValue }

// String returns the command line without its terminator.
func (c Command) String() string {
	s := string(c.verb) + ":DEV:" + c.device + ":TEMP:" + c.path
	if c.hasValue {
		s += ":" + c.value
	}

	return s
}

// Bytes returns the CRLF terminated command as sent on the wire.
func (c Command) Bytes() []byte {
	return []byte(c.String() + lineEnd)
}

func onOff(on bool) string {
	if on {
		return "ON"
	}

	return "OFF"
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func checkRange(name string, v, lo, hi float64) error {
	if !(v >= lo && v <= hi) {
		return fmt.Errorf("%w: %s %v out of range [%v, %v]", ErrInvalidParam, name, v, lo, hi)
	}

	return nil
}

// ActivateMeasurement returns the session activation command sent right after connecting.
func ActivateMeasurement() Command {
	return newCommand(VerbSet, "UID", "MEAS:ENAB").withValue("")
}

// ReadTemperature returns the command reading the current temperature of ch.
func ReadTemperature(ch Channel) (Command, error) {
	if err := ch.validate(); err != nil {
		return Command{}, err
	}

	return newCommand(VerbRead, ch.String(), "SIG:TEMP"), nil
}

// ReadSetpoint returns the command reading the loop setpoint.
func ReadSetpoint() Command {
	return newCommand(VerbRead, LoopChannel.String(), "LOOP:TSET")
}

// ReadRampRate returns the command reading the ramp rate.
func ReadRampRate() Command {
	return newCommand(VerbRead, LoopChannel.String(), "RAMP:RATE")
}

// SelectLoopChannel returns the command selecting the thermometer that feeds the PID loop.
//
// The controller expects this selection under the READ verb.
func SelectLoopChannel(ch Channel) (Command, error) {
	if err := ch.validate(); err != nil {
		return Command{}, err
	}

	return newCommand(VerbRead, LoopChannel.String(), "LOOP:CHAN").withValue(strconv.Itoa(int(ch))), nil
}

// SetLoopMode returns the command enabling or disabling the PID loop.
func SetLoopMode(on bool) Command {
	return newCommand(VerbSet, LoopChannel.String(), "LOOP:MODE").withValue(onOff(on))
}

// EnableMeasurement returns the command enabling measurement on ch.
func EnableMeasurement(ch Channel) (Command, error) {
	if err := ch.validate(); err != nil {
		return Command{}, err
	}

	return newCommand(VerbSet, ch.String(), "MEAS:ENAB").withValue(onOff(true)), nil
}

// SetHeaterRange returns the command selecting the heater range; v must be one of HeaterRanges.
func SetHeaterRange(v float64) (Command, error) {
	r, err := ParseHeaterRange(v)
	if err != nil {
		return Command{}, err
	}

	return newCommand(VerbSet, LoopChannel.String(), "LOOP:RANGE").withValue(r.String()), nil
}

// SetSetpoint returns the command setting the target temperature in kelvin.
func SetSetpoint(temp float64) (Command, error) {
	if err := checkRange("setpoint", temp, MinSetpoint, MaxSetpoint); err != nil {
		return Command{}, err
	}

	return newCommand(VerbSet, LoopChannel.String(), "LOOP:TSET").withValue(formatValue(temp)), nil
}

// SetRampRate returns the command setting the ramp rate in K/min.
func SetRampRate(rate float64) (Command, error) {
	if err := checkRange("ramp rate", rate, MinRampRate, MaxRampRate); err != nil {
		return Command{}, err
	}

	return newCommand(VerbSet, LoopChannel.String(), "LOOP:RAMP:RATE").withValue(formatValue(rate)), nil
}

// SetRampEnable returns the command enabling or disabling the setpoint ramp.
func SetRampEnable(on bool) Command {
	return newCommand(VerbSet, LoopChannel.String(), "LOOP:RAMP:ENAB").withValue(onOff(on))
}

// SetGain returns the command setting one PID gain.
func SetGain(term PIDTerm, v float64) (Command, error) {
	if err := term.validate(); err != nil {
		return Command{}, err
	}
	if err := checkRange(term.String()+" gain", v, MinGain, MaxGain); err != nil {
		return Command{}, err
	}

	return newCommand(VerbSet, LoopChannel.String(), "LOOP:"+term.String()).withValue(formatValue(v)), nil
}
