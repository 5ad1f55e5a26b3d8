package triton

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCommand_Strings(t *testing.T) {
	require := require.New(t)

	mustCmd := func(cmd Command, err error) Command {
		require.NoError(err)
		return cmd
	}

	tests := []struct {
		cmd  Command
		want string
	}{
		{ActivateMeasurement(), "SET:DEV:UID:TEMP:MEAS:ENAB:"},
		{SetLoopMode(true), "SET:DEV:T8:TEMP:LOOP:MODE:ON"},
		{SetLoopMode(false), "SET:DEV:T8:TEMP:LOOP:MODE:OFF"},
		{mustCmd(EnableMeasurement(T8)), "SET:DEV:T8:TEMP:MEAS:ENAB:ON"},
		{mustCmd(ReadTemperature(T8)), "READ:DEV:T8:TEMP:SIG:TEMP"},
		{mustCmd(ReadTemperature(T5)), "READ:DEV:T5:TEMP:SIG:TEMP"},
		{ReadSetpoint(), "READ:DEV:T8:TEMP:LOOP:TSET"},
		{ReadRampRate(), "READ:DEV:T8:TEMP:RAMP:RATE"},
		{mustCmd(SelectLoopChannel(5)), "READ:DEV:T8:TEMP:LOOP:CHAN:5"},
		{mustCmd(SetHeaterRange(10)), "SET:DEV:T8:TEMP:LOOP:RANGE:10"},
		{mustCmd(SetHeaterRange(3.16)), "SET:DEV:T8:TEMP:LOOP:RANGE:3.16"},
		{mustCmd(SetHeaterRange(0)), "SET:DEV:T8:TEMP:LOOP:RANGE:0"},
		{mustCmd(SetSetpoint(0.1)), "SET:DEV:T8:TEMP:LOOP:TSET:0.1"},
		{mustCmd(SetSetpoint(1.5)), "SET:DEV:T8:TEMP:LOOP:TSET:1.5"},
		{mustCmd(SetRampRate(0.05)), "SET:DEV:T8:TEMP:LOOP:RAMP:RATE:0.05"},
		{SetRampEnable(true), "SET:DEV:T8:TEMP:LOOP:RAMP:ENAB:ON"},
		{SetRampEnable(false), "SET:DEV:T8:TEMP:LOOP:RAMP:ENAB:OFF"},
		{mustCmd(SetGain(TermP, 15)), "SET:DEV:T8:TEMP:LOOP:P:15"},
		{mustCmd(SetGain(TermI, 120)), "SET:DEV:T8:TEMP:LOOP:I:120"},
		{mustCmd(SetGain(TermD, 0)), "SET:DEV:T8:TEMP:LOOP:D:0"},
	}

	for _, tt := range tests {
		require.Equal(tt.want, tt.cmd.String())
		require.Equal(tt.want+"\r\n", string(tt.cmd.Bytes()))
	}
}

func TestCommand_Accessors(t *testing.T) {
	require := require.New(t)

	cmd, err := SetSetpoint(0.25)
	require.NoError(err)
	require.Equal(VerbSet, cmd.Verb())
	require.Equal("T8", cmd.Device())
	require.Equal("LOOP:TSET", cmd.Path())
	v, ok := cmd.Value()
	require.True(ok)
	require.Equal("0.25", v)

	_, ok = ReadSetpoint().Value()
	require.False(ok)
}

func TestCommand_Validation(t *testing.T) {
	require := require.New(t)

	_, err := SetHeaterRange(5)
	require.ErrorIs(err, ErrInvalidParam)

	_, err = SetSetpoint(-0.1)
	require.ErrorIs(err, ErrInvalidParam)

	_, err = SetSetpoint(301)
	require.ErrorIs(err, ErrInvalidParam)

	_, err = SetSetpoint(math.NaN())
	require.ErrorIs(err, ErrInvalidParam)

	_, err = SetRampRate(math.Inf(1))
	require.ErrorIs(err, ErrInvalidParam)

	_, err = SetGain(TermP, -1)
	require.ErrorIs(err, ErrInvalidParam)

	_, err = SetGain(PIDTerm('X'), 1)
	require.ErrorIs(err, ErrInvalidParam)

	_, err = ReadTemperature(0)
	require.ErrorIs(err, ErrInvalidParam)

	_, err = SelectLoopChannel(17)
	require.ErrorIs(err, ErrInvalidParam)
}

func TestChannel(t *testing.T) {
	require := require.New(t)

	require.Equal("T8", T8.String())
	require.Equal("T5", T5.String())
	require.True(MaxChannel.Valid())
	require.False(Channel(0).Valid())

	require.Equal(T8, ChannelFor(0.05))
	require.Equal(T8, ChannelFor(1.19))
	require.Equal(T5, ChannelFor(1.2))
	require.Equal(T5, ChannelFor(4))
}

func TestParseHeaterRange(t *testing.T) {
	require := require.New(t)

	for _, r := range HeaterRanges {
		got, err := ParseHeaterRange(float64(r))
		require.NoError(err)
		require.Equal(r, got)
	}

	_, err := ParseHeaterRange(2)
	require.ErrorIs(err, ErrInvalidParam)
	require.Equal("3.16", Heater3_16mA.String())
}
