package tritonctl

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/DehydratedMud/go-triton/logger"
)

func TestNewConnectionConfig(t *testing.T) {
	require := require.New(t)

	t.Run("Defaults", func(t *testing.T) {
		cfg, err := NewConnectionConfig("127.0.0.1", DefaultPort)
		require.NoError(err)
		require.Equal("127.0.0.1", cfg.Host())
		require.Equal(33576, cfg.Port())
		require.Equal("127.0.0.1:33576", cfg.Addr())
		require.Equal(20*time.Second, cfg.ReplyTimeout())
		require.Equal(3*time.Second, cfg.ConnectTimeout())
		require.True(cfg.Activate())
		require.Equal(logger.GetLogger(), cfg.GetLogger())
	})

	t.Run("Default endpoint", func(t *testing.T) {
		cfg, err := DefaultConnectionConfig()
		require.NoError(err)
		require.Equal("localhost", cfg.Host())
		require.Equal(DefaultPort, cfg.Port())
	})

	t.Run("Valid Options", func(t *testing.T) {
		l := logger.NewMockLogger()
		cfg, err := NewConnectionConfig("::1", 5000,
			WithReplyTimeout(5*time.Second),
			WithConnectTimeout(time.Second),
			WithoutActivation(),
			WithLogger(l),
			WithAdvisoryHandler(func(Advisory) {}),
		)
		require.NoError(err)
		require.Equal("[::1]:5000", cfg.Addr())
		require.Equal(5*time.Second, cfg.ReplyTimeout())
		require.Equal(time.Second, cfg.ConnectTimeout())
		require.False(cfg.Activate())
		require.Same(l, cfg.GetLogger())
		require.NotNil(cfg.advisoryHandler)
	})

	t.Run("Invalid Host", func(t *testing.T) {
		_, err := NewConnectionConfig("", 5000)
		require.EqualError(err, `invalid host ""`)
	})

	t.Run("Invalid Port", func(t *testing.T) {
		_, err := NewConnectionConfig("127.0.0.1", -1)
		require.EqualError(err, "port is out of range [0, 65535]")

		_, err = NewConnectionConfig("127.0.0.1", 65536)
		require.EqualError(err, "port is out of range [0, 65535]")
	})

	t.Run("Invalid Reply Timeout", func(t *testing.T) {
		_, err := NewConnectionConfig("127.0.0.1", 5000, WithReplyTimeout(time.Millisecond))
		require.EqualError(err, "reply timeout out of range [0.01, 120]")

		_, err = NewConnectionConfig("127.0.0.1", 5000, WithReplyTimeout(121*time.Second))
		require.EqualError(err, "reply timeout out of range [0.01, 120]")

		err = WithReplyTimeout(time.Second).apply(nil)
		require.ErrorIs(err, ErrConnConfigNil)
	})

	t.Run("Invalid Connect Timeout", func(t *testing.T) {
		_, err := NewConnectionConfig("127.0.0.1", 5000, WithConnectTimeout(0))
		require.EqualError(err, "connect timeout out of range [0.01, 30]")

		_, err = NewConnectionConfig("127.0.0.1", 5000, WithConnectTimeout(31*time.Second))
		require.EqualError(err, "connect timeout out of range [0.01, 30]")
	})
}
