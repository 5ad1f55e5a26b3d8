package triton

import (
	"fmt"
	"strconv"
)

// Channel is a physical thermometer input of the controller.
type Channel uint8

const (
	// T5 is the Cernox thermometer, read above CrossoverTemp.
	T5 Channel = 5
	// T8 is the RuO thermometer, read below CrossoverTemp.
	T8 Channel = 8

	// LoopChannel is the channel through which the PID loop, heater and ramp are addressed.
	LoopChannel = T8

	MinChannel Channel = 1
	MaxChannel Channel = 16
)

// CrossoverTemp is the temperature in kelvin at which the controller hands the
// feedback loop from T8 over to T5.
const CrossoverTemp = 1.2

// String returns the device name of the channel, e.g. "T8".
func (c Channel) String() string {
	return "T" + strconv.Itoa(int(c))
}

// Valid reports whether c is a channel number the controller accepts.
func (c Channel) Valid() bool {
	return c >= MinChannel && c <= MaxChannel
}

func (c Channel) validate() error {
	if !c.Valid() {
		return fmt.Errorf("%w: channel %d out of range [%d, %d]", ErrInvalidParam, c, MinChannel, MaxChannel)
	}

	return nil
}

// ChannelFor returns the thermometer suited to read the given temperature.
func ChannelFor(temp float64) Channel {
	if temp < CrossoverTemp {
		return T8
	}

	return T5
}

// HeaterRange is a heater output range in milliampere.
type HeaterRange float64

// Heater ranges accepted by the controller.
const (
	HeaterOff    HeaterRange = 0
	Heater31_6uA HeaterRange = 0.0316
	Heater100uA  HeaterRange = 0.1
	Heater316uA  HeaterRange = 0.316
	Heater1mA    HeaterRange = 1
	Heater3_16mA HeaterRange = 3.16
	Heater10mA   HeaterRange = 10
	Heater31_6mA HeaterRange = 31.6
	Heater100mA  HeaterRange = 100
)

// HeaterRanges lists every valid heater range in ascending order.
var HeaterRanges = []HeaterRange{
	HeaterOff, Heater31_6uA, Heater100uA, Heater316uA, Heater1mA,
	Heater3_16mA, Heater10mA, Heater31_6mA, Heater100mA,
}

// ParseHeaterRange returns the heater range equal to v.
func ParseHeaterRange(v float64) (HeaterRange, error) {
	for _, r := range HeaterRanges {
		if float64(r) == v {
			return r, nil
		}
	}

	return HeaterOff, fmt.Errorf("%w: heater range %v is not one of %v", ErrInvalidParam, v, HeaterRanges)
}

func (r HeaterRange) String() string {
	return formatValue(float64(r))
}

// PIDTerm selects one gain of the PID loop.
type PIDTerm byte

const (
	TermP PIDTerm = 'P'
	TermI PIDTerm = 'I'
	TermD PIDTerm = 'D'
)

func (t PIDTerm) String() string {
	return string(t)
}

func (t PIDTerm) validate() error {
	switch t {
	case TermP, TermI, TermD:
		return nil
	default:
		return fmt.Errorf("%w: unknown PID term %q", ErrInvalidParam, byte(t))
	}
}
