package server

import (
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/pelletier/go-toml"

	"github.com/nexavoxel/corecraft/server/protocol"
)

// bindEncodersOnce wires the protocol package's chunk/entity encoders into
// world's function-pointer indirection exactly once per process, no matter
// how many Config.New calls happen (§4 "function-pointer indirection...
// avoiding an import cycle between world and protocol").
var bindEncodersOnce sync.Once

// ConnectionMode controls how a client's identity is established at login,
// affecting login only (§6 configuration).
type ConnectionMode uint8

const (
	ConnectionModeOnline ConnectionMode = iota
	ConnectionModeOffline
	ConnectionModeBehindProxy
)

// Config contains the process-wide settings the core needs (§6
// "Configuration (enumerated, process-wide)"). Unlike the per-connection
// Allower/Listeners/resource-pack machinery a full server needs, every field
// here is something the simulation core itself consults.
type Config struct {
	// Log is the logger used for every diagnostic the core emits. If nil,
	// Log is set to slog.Default().
	Log *slog.Logger

	// TickRate is the target ticks per second (DefaultUserConfig uses 20). Zero is a
	// config invariant violation (§7.4) and New refuses to build a Server.
	TickRate uint32
	// CompressionThreshold: packets with an encoded body at least this size
	// are compressed by the transport. Nil disables compression.
	CompressionThreshold *uint32
	// KeepalivePeriod is how long the server waits for a keepalive
	// acknowledgement before considering a client timed out (default 8s).
	KeepalivePeriod time.Duration
	// MaxConnections is the maximum number of simultaneous clients. Zero is
	// a config invariant violation (§7.4).
	MaxConnections uint
	// ConnectionMode affects login only.
	ConnectionMode ConnectionMode
	// IncomingCapacity and OutgoingCapacity size each connection's bounded
	// packet queues. Zero is a config invariant violation (§7.4).
	IncomingCapacity uint
	OutgoingCapacity uint
}

// TickPeriod returns the duration of a single tick, derived from TickRate.
func (c Config) TickPeriod() time.Duration {
	return time.Second / time.Duration(c.TickRate)
}

// validate enforces §7.4's config invariants: tick_rate = 0, capacities = 0,
// or max_connections = 0 are all fatal at startup.
func (c Config) validate() error {
	switch {
	case c.TickRate == 0:
		return fmt.Errorf("config: tick_rate must be non-zero")
	case c.MaxConnections == 0:
		return fmt.Errorf("config: max_connections must be non-zero")
	case c.IncomingCapacity == 0:
		return fmt.Errorf("config: incoming_capacity must be non-zero")
	case c.OutgoingCapacity == 0:
		return fmt.Errorf("config: outgoing_capacity must be non-zero")
	}
	return nil
}

// New validates conf and constructs a Server. It panics if conf violates a
// config invariant (§7 "Config invariants at startup ... fatal, server
// refuses to start"), mirroring how dragonfly's own Config.New treats a
// missing default dimension as unrecoverable.
func (conf Config) New() *Server {
	if conf.Log == nil {
		conf.Log = slog.Default()
	}
	if conf.KeepalivePeriod == 0 {
		conf.KeepalivePeriod = 8 * time.Second
	}
	if err := conf.validate(); err != nil {
		panic(err)
	}
	bindEncodersOnce.Do(func() {
		protocol.BindChunkEncoders()
		protocol.BindEntityEncoders()
	})
	return newServer(conf)
}

// UserConfig is the TOML-serialisable form of Config, following the same
// Network/Server/World-style section layout dragonfly's own UserConfig
// uses, scoped to what the core needs.
type UserConfig struct {
	Server struct {
		TickRate             uint32
		CompressionThreshold uint32
		KeepaliveSeconds     uint32
		MaxConnections       uint
		ConnectionMode       string
		IncomingCapacity     uint
		OutgoingCapacity     uint
	}
}

// DefaultUserConfig returns a UserConfig with the defaults from §6.
func DefaultUserConfig() UserConfig {
	var uc UserConfig
	uc.Server.TickRate = 20
	uc.Server.CompressionThreshold = 256
	uc.Server.KeepaliveSeconds = 8
	uc.Server.MaxConnections = 100
	uc.Server.ConnectionMode = "online"
	uc.Server.IncomingCapacity = 256
	uc.Server.OutgoingCapacity = 256
	return uc
}

// LoadUserConfig reads and parses a TOML configuration file at path. If the
// file does not exist, a default configuration is written to path first,
// mirroring dragonfly's pattern of seeding a config file on first run.
func LoadUserConfig(path string) (UserConfig, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		uc := DefaultUserConfig()
		data, err := toml.Marshal(uc)
		if err != nil {
			return uc, fmt.Errorf("marshal default config: %w", err)
		}
		if err := os.WriteFile(path, data, 0644); err != nil {
			return uc, fmt.Errorf("write default config: %w", err)
		}
		return uc, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return UserConfig{}, fmt.Errorf("read config: %w", err)
	}
	var uc UserConfig
	if err := toml.Unmarshal(data, &uc); err != nil {
		return UserConfig{}, fmt.Errorf("decode config: %w", err)
	}
	return uc, nil
}

// Config converts uc into a Config usable by Config.New and reports the
// first config invariant it violates as an error. log is attached directly;
// a nil logger falls back to slog.Default() in New.
func (uc UserConfig) Config(log *slog.Logger) (Config, error) {
	conf := Config{
		Log:              log,
		TickRate:         uc.Server.TickRate,
		KeepalivePeriod:  time.Duration(uc.Server.KeepaliveSeconds) * time.Second,
		MaxConnections:   uc.Server.MaxConnections,
		IncomingCapacity: uc.Server.IncomingCapacity,
		OutgoingCapacity: uc.Server.OutgoingCapacity,
	}
	if uc.Server.CompressionThreshold > 0 {
		t := uc.Server.CompressionThreshold
		conf.CompressionThreshold = &t
	}
	switch uc.Server.ConnectionMode {
	case "offline":
		conf.ConnectionMode = ConnectionModeOffline
	case "behind_proxy":
		conf.ConnectionMode = ConnectionModeBehindProxy
	default:
		conf.ConnectionMode = ConnectionModeOnline
	}
	return conf, conf.validate()
}
