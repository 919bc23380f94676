package live

import (
	"log/slog"
	"time"
)

// Config holds server settings. NewServer fills zero fields from
// DefaultConfig, except IdleTimeout, MaxSessions and AllowedOrigins,
// where zero is meaningful (no sweeping, no cap, allow all).
type Config struct {
	// Address is the listen address, e.g. ":8090".
	Address string

	// ReadTimeout bounds how long a connection may stay silent before
	// the read loop gives up. Pings from the server keep healthy
	// connections inside this window.
	ReadTimeout time.Duration

	// WriteTimeout bounds each outbound frame write.
	WriteTimeout time.Duration

	// PingInterval is the server-initiated keepalive period. Must be
	// shorter than ReadTimeout.
	PingInterval time.Duration

	// IdleTimeout is how long a session may go without client events
	// before the sweeper closes it. Zero disables sweeping.
	IdleTimeout time.Duration

	// MaxSessions caps concurrent sessions; further upgrades are
	// rejected with 503. Zero means unlimited.
	MaxSessions int

	// AllowedOrigins restricts WebSocket upgrades. Empty allows all
	// (development default).
	AllowedOrigins []string

	// SendBuffer is the per-session outbound queue length.
	SendBuffer int

	// Logger receives server and session logs. Defaults to
	// slog.Default.
	Logger *slog.Logger
}

// DefaultConfig returns the development defaults.
func DefaultConfig() *Config {
	return &Config{
		Address:      ":8090",
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 10 * time.Second,
		PingInterval: 30 * time.Second,
		IdleTimeout:  10 * time.Minute,
		MaxSessions:  1000,
		SendBuffer:   32,
	}
}

// withDefaults fills unset fields.
func (c *Config) withDefaults() *Config {
	defaults := DefaultConfig()
	if c == nil {
		return defaults
	}
	out := *c
	if out.Address == "" {
		out.Address = defaults.Address
	}
	if out.ReadTimeout == 0 {
		out.ReadTimeout = defaults.ReadTimeout
	}
	if out.WriteTimeout == 0 {
		out.WriteTimeout = defaults.WriteTimeout
	}
	if out.PingInterval == 0 {
		out.PingInterval = defaults.PingInterval
	}
	if out.SendBuffer == 0 {
		out.SendBuffer = defaults.SendBuffer
	}
	if out.Logger == nil {
		out.Logger = slog.Default().With("component", "live")
	}
	return &out
}
