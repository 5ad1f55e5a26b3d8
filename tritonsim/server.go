package tritonsim

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/puzpuzpuz/xsync/v3"

	"github.com/DehydratedMud/go-triton/logger"
	"github.com/DehydratedMud/go-triton/triton"
)

// State keys, "<device>:<property path>".
const (
	KeyLoopMode    = "T8:LOOP:MODE"
	KeySetpoint    = "T8:LOOP:TSET"
	KeyRampRate    = "T8:LOOP:RAMP:RATE"
	KeyRampEnable  = "T8:LOOP:RAMP:ENAB"
	KeyHeaterRange = "T8:LOOP:RANGE"
	KeyLoopChannel = "T8:LOOP:CHAN"
)

// TemperatureKey returns the state key holding the temperature of ch.
func TemperatureKey(ch triton.Channel) string {
	return ch.String() + ":SIG:TEMP"
}

// Server is a simulated controller.
type Server struct {
	logger logger.Logger

	// approach is the fraction of the distance to the setpoint T8 moves on every read
	// while the loop is on.
	approach float64

	listener net.Listener
	wg       sync.WaitGroup
	closed   atomic.Bool

	state     *xsync.MapOf[string, string]
	overrides *xsync.MapOf[string, []byte]
	conns     *xsync.MapOf[string, net.Conn]

	cmdMutex sync.Mutex
	commands []string
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger of the server.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithApproach makes T8 move the given fraction (0-1] of its distance to the setpoint on
// every read while the loop is enabled.
func WithApproach(fraction float64) Option {
	return func(s *Server) {
		if fraction > 0 && fraction <= 1 {
			s.approach = fraction
		}
	}
}

// NewServer creates a server with the controller at base temperature.
func NewServer(opts ...Option) *Server {
	s := &Server{
		logger:    logger.GetLogger(),
		state:     xsync.NewMapOf[string, string](),
		overrides: xsync.NewMapOf[string, []byte](),
		conns:     xsync.NewMapOf[string, net.Conn](),
	}

	for _, opt := range opts {
		opt(s)
	}

	s.state.Store(TemperatureKey(triton.T8), "0.01")
	s.state.Store(TemperatureKey(triton.T5), "0.01")
	s.state.Store(KeySetpoint, "0")
	s.state.Store(KeyRampRate, "0")
	s.state.Store(KeyLoopMode, "OFF")
	s.state.Store(KeyRampEnable, "OFF")
	s.state.Store(KeyHeaterRange, "0")
	s.state.Store(KeyLoopChannel, "8")

	return s
}

// Start listens on addr ("127.0.0.1:0" picks a free port) and serves connections in the background.
func (s *Server) Start(addr string) error {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	s.listener = l

	s.wg.Add(1)
	go s.acceptLoop()

	s.logger.Info("simulator listening", "addr", l.Addr().String())

	return nil
}

// Addr returns the listening address.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}

	return s.listener.Addr().String()
}

// Port returns the listening TCP port.
func (s *Server) Port() int {
	if s.listener == nil {
		return 0
	}

	return s.listener.Addr().(*net.TCPAddr).Port
}

// Close stops accepting, closes every connection and waits for the handlers to return.
func (s *Server) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}

	var err error
	if s.listener != nil {
		err = s.listener.Close()
	}

	s.conns.Range(func(_ string, conn net.Conn) bool {
		_ = conn.Close()
		return true
	})

	s.wg.Wait()

	return err
}

func (s *Server) acceptLoop() {
	defer s.wg.Done()

	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if !s.closed.Load() {
				s.logger.Error("accept failed", "error", err)
			}
			return
		}

		id := uuid.NewString()
		s.conns.Store(id, conn)
		if s.closed.Load() {
			_ = conn.Close()
		}

		s.wg.Add(1)
		go s.handleConn(id, conn)
	}
}

func (s *Server) handleConn(id string, conn net.Conn) {
	defer s.wg.Done()
	defer s.conns.Delete(id)
	defer conn.Close()

	log := s.logger.With("conn", id)
	log.Debug("client connected", "remote_addr", conn.RemoteAddr().String())

	reader := bufio.NewReader(conn)
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			if !errors.Is(err, io.EOF) && !s.closed.Load() {
				log.Debug("read failed", "error", err)
			}
			return
		}

		line = strings.TrimRight(line, "\r\n")
		s.record(line)

		reply, ok := s.reply(line)
		if !ok {
			log.Debug("command silenced", "cmd", line)
			continue
		}

		log.Debug("command handled", "cmd", line, "reply", strings.TrimRight(string(reply), "\r\n"))
		if _, err := conn.Write(reply); err != nil {
			log.Debug("write failed", "error", err)
			return
		}
	}
}

func (s *Server) record(line string) {
	s.cmdMutex.Lock()
	defer s.cmdMutex.Unlock()

	s.commands = append(s.commands, line)
}

// Commands returns the command lines received so far, without terminators.
func (s *Server) Commands() []string {
	s.cmdMutex.Lock()
	defer s.cmdMutex.Unlock()

	return append([]string(nil), s.commands...)
}

// ResetCommands forgets the commands received so far.
func (s *Server) ResetCommands() {
	s.cmdMutex.Lock()
	defer s.cmdMutex.Unlock()

	s.commands = nil
}

// SetReply makes the server answer cmd (without terminator) with reply verbatim.
func (s *Server) SetReply(cmd string, reply []byte) {
	s.overrides.Store(cmd, reply)
}

// SetSilent makes the server swallow cmd without replying.
func (s *Server) SetSilent(cmd string) {
	s.overrides.Store(cmd, nil)
}

// ClearOverrides removes every override set by SetReply or SetSilent.
func (s *Server) ClearOverrides() {
	s.overrides.Clear()
}

// SetTemperature sets the temperature of ch in kelvin.
func (s *Server) SetTemperature(ch triton.Channel, temp float64) {
	s.state.Store(TemperatureKey(ch), formatFloat(temp))
}

// Value returns the stored value of a state key.
func (s *Server) Value(key string) (string, bool) {
	return s.state.Load(key)
}

func (s *Server) reply(line string) ([]byte, bool) {
	if r, ok := s.overrides.Load(line); ok {
		return r, r != nil
	}

	verb, rest, _ := strings.Cut(line, ":")
	device, prop, ok := splitTarget(rest)
	if !ok {
		return invalid(line), true
	}

	switch triton.Verb(verb) {
	case triton.VerbRead:
		return s.read(line, device, prop), true
	case triton.VerbSet:
		return s.set(line, device, prop), true
	default:
		return invalid(line), true
	}
}

// splitTarget splits "DEV:<device>:TEMP:<prop>".
func splitTarget(s string) (string, string, bool) {
	rest, ok := strings.CutPrefix(s, "DEV:")
	if !ok {
		return "", "", false
	}
	device, rest, ok := strings.Cut(rest, ":")
	if !ok {
		return "", "", false
	}
	prop, ok := strings.CutPrefix(rest, "TEMP:")
	if !ok || prop == "" {
		return "", "", false
	}

	return device, prop, true
}

func (s *Server) read(line, device, prop string) []byte {
	// loop channel selection is issued under READ
	if ch, ok := strings.CutPrefix(prop, "LOOP:CHAN:"); ok {
		s.state.Store(KeyLoopChannel, ch)
		return valueReply(device, "LOOP:CHAN", ch, "\r\n")
	}

	// the ramp rate is read without the LOOP prefix it is set with
	path := prop
	if prop == "RAMP:RATE" {
		path = "LOOP:RAMP:RATE"
	}

	key := device + ":" + path
	if prop == "SIG:TEMP" && device == triton.LoopChannel.String() {
		s.step()
	}

	v, ok := s.state.Load(key)
	if !ok {
		return invalid(line)
	}

	trailer := "\r\n"
	if prop == "SIG:TEMP" || prop == "LOOP:TSET" {
		trailer = "K\n"
	}

	return valueReply(device, prop, v, trailer)
}

func (s *Server) set(line, device, prop string) []byte {
	idx := strings.LastIndexByte(prop, ':')
	if idx < 0 {
		return invalid(line)
	}
	path, value := prop[:idx], prop[idx+1:]

	s.state.Store(device+":"+path, value)

	return []byte("STAT:" + line + ":VALID\n")
}

// step moves T8 toward the setpoint while the loop is on.
func (s *Server) step() {
	if s.approach == 0 {
		return
	}
	if mode, _ := s.state.Load(KeyLoopMode); mode != "ON" {
		return
	}

	tset, err := strconv.ParseFloat(s.mustLoad(KeySetpoint), 64)
	if err != nil {
		return
	}

	key := TemperatureKey(triton.T8)
	s.state.Compute(key, func(old string, loaded bool) (string, bool) {
		if !loaded {
			return old, true
		}
		temp, err := strconv.ParseFloat(old, 64)
		if err != nil {
			return old, false
		}
		temp += (tset - temp) * s.approach

		return formatFloat(temp), false
	})
}

func (s *Server) mustLoad(key string) string {
	v, _ := s.state.Load(key)
	return v
}

func valueReply(device, prop, value, trailer string) []byte {
	header := fmt.Sprintf("%-*.*s", triton.ReplyHeaderLen, triton.ReplyHeaderLen, "STAT:DEV:"+device+":TEMP:"+prop+":")

	return []byte(header + value + trailer)
}

func invalid(line string) []byte {
	return []byte("STAT:" + line + ":INVALID\n")
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
