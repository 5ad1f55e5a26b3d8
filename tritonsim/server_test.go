package tritonsim

import (
	"bufio"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/DehydratedMud/go-triton/triton"
)

func startServer(t *testing.T, opts ...Option) *Server {
	t.Helper()

	s := NewServer(opts...)
	require.NoError(t, s.Start("127.0.0.1:0"))
	t.Cleanup(func() { _ = s.Close() })

	return s
}

type testPeer struct {
	t      *testing.T
	conn   net.Conn
	reader *bufio.Reader
}

func dial(t *testing.T, s *Server) *testPeer {
	t.Helper()

	conn, err := net.Dial("tcp", s.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return &testPeer{t: t, conn: conn, reader: bufio.NewReader(conn)}
}

func (p *testPeer) ask(cmd string) string {
	p.t.Helper()

	_, err := p.conn.Write([]byte(cmd + "\r\n"))
	require.NoError(p.t, err)

	require.NoError(p.t, p.conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	line, err := p.reader.ReadString('\n')
	require.NoError(p.t, err)

	return line
}

func TestServer_ReadTemperature(t *testing.T) {
	require := require.New(t)

	s := startServer(t)
	s.SetTemperature(triton.T8, 0.1234)
	s.SetTemperature(triton.T5, 4.2)

	p := dial(t, s)

	reply := p.ask("READ:DEV:T8:TEMP:SIG:TEMP")
	require.Equal("STAT:DEV:T8:TEMP:SIG:TEMP:0.1234K\n", reply)
	v, err := triton.ParseFloat([]byte(reply))
	require.NoError(err)
	require.Equal(0.1234, v)

	v, err = triton.ParseFloat([]byte(p.ask("READ:DEV:T5:TEMP:SIG:TEMP")))
	require.NoError(err)
	require.Equal(4.2, v)
}

func TestServer_SetAndReadBack(t *testing.T) {
	require := require.New(t)

	s := startServer(t)
	p := dial(t, s)

	require.Equal("STAT:SET:DEV:T8:TEMP:LOOP:TSET:0.5:VALID\n", p.ask("SET:DEV:T8:TEMP:LOOP:TSET:0.5"))
	tset, ok := s.Value(KeySetpoint)
	require.True(ok)
	require.Equal("0.5", tset)

	reply := p.ask("READ:DEV:T8:TEMP:LOOP:TSET")
	require.Len(reply, triton.ReplyHeaderLen+len("0.5")+triton.ReplyTrailerLen)
	v, err := triton.ParseFloat([]byte(reply))
	require.NoError(err)
	require.Equal(0.5, v)

	p.ask("SET:DEV:T8:TEMP:LOOP:RAMP:RATE:0.2")
	v, err = triton.ParseFloat([]byte(p.ask("READ:DEV:T8:TEMP:RAMP:RATE")))
	require.NoError(err)
	require.Equal(0.2, v)

	p.ask("READ:DEV:T8:TEMP:LOOP:CHAN:5")
	ch, _ := s.Value(KeyLoopChannel)
	require.Equal("5", ch)

	require.Equal("STAT:SET:DEV:UID:TEMP:MEAS:ENAB::VALID\n", p.ask("SET:DEV:UID:TEMP:MEAS:ENAB:"))
}

func TestServer_Invalid(t *testing.T) {
	require := require.New(t)

	s := startServer(t)
	p := dial(t, s)

	require.Equal("STAT:FOO:INVALID\n", p.ask("FOO"))
	require.Equal("STAT:READ:DEV:T8:TEMP:NOPE:INVALID\n", p.ask("READ:DEV:T8:TEMP:NOPE"))
	require.Equal("STAT:SET:DEV:T8:TEMP:LOOP:INVALID\n", p.ask("SET:DEV:T8:TEMP:LOOP"))
}

func TestServer_Overrides(t *testing.T) {
	require := require.New(t)

	s := startServer(t)
	p := dial(t, s)

	s.SetReply("READ:DEV:T8:TEMP:SIG:TEMP", []byte("ERR\n"))
	require.Equal("ERR\n", p.ask("READ:DEV:T8:TEMP:SIG:TEMP"))

	s.SetSilent("READ:DEV:T5:TEMP:SIG:TEMP")
	_, err := p.conn.Write([]byte("READ:DEV:T5:TEMP:SIG:TEMP\r\n"))
	require.NoError(err)
	require.NoError(p.conn.SetReadDeadline(time.Now().Add(50 * time.Millisecond)))
	_, err = p.reader.ReadString('\n')
	require.Error(err)

	s.ClearOverrides()
	p = dial(t, s)
	require.Equal("STAT:DEV:T8:TEMP:SIG:TEMP:0.01K\n", p.ask("READ:DEV:T8:TEMP:SIG:TEMP"))

	require.Equal([]string{
		"READ:DEV:T8:TEMP:SIG:TEMP",
		"READ:DEV:T5:TEMP:SIG:TEMP",
		"READ:DEV:T8:TEMP:SIG:TEMP",
	}, s.Commands())

	s.ResetCommands()
	require.Empty(s.Commands())
}

func TestServer_Approach(t *testing.T) {
	require := require.New(t)

	s := startServer(t, WithApproach(0.5))
	s.SetTemperature(triton.T8, 1)
	p := dial(t, s)

	p.ask("SET:DEV:T8:TEMP:LOOP:TSET:2")

	// loop off: no movement
	v, err := triton.ParseFloat([]byte(p.ask("READ:DEV:T8:TEMP:SIG:TEMP")))
	require.NoError(err)
	require.Equal(1.0, v)

	p.ask("SET:DEV:T8:TEMP:LOOP:MODE:ON")
	v, err = triton.ParseFloat([]byte(p.ask("READ:DEV:T8:TEMP:SIG:TEMP")))
	require.NoError(err)
	require.Equal(1.5, v)

	v, err = triton.ParseFloat([]byte(p.ask("READ:DEV:T8:TEMP:SIG:TEMP")))
	require.NoError(err)
	require.Equal(1.75, v)
}

func TestServer_CloseMultipleTimes(t *testing.T) {
	require := require.New(t)

	s := NewServer()
	require.NoError(s.Start("127.0.0.1:0"))
	require.NotZero(s.Port())

	p := dial(t, s)
	p.ask("READ:DEV:T8:TEMP:SIG:TEMP")

	require.NoError(s.Close())
	require.NoError(s.Close())
}
