// ABOUTME: Output configuration with environment overrides
// ABOUTME: Holds device selection, backend order and bridge tuning
package output

import (
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	// Latency is the target buffering latency requested from native
	// engines and the poll interval of blocking bridge calls.
	Latency = 10 * time.Millisecond

	// DefaultRingSize is the bridge ring capacity in bytes.
	DefaultRingSize = 64 * 1024

	// DefaultApplicationName identifies the client to sound servers.
	DefaultApplicationName = "pcaudio"
)

// Config controls how an output handle is created.
type Config struct {
	// Device selects a device by backend-specific name. Empty selects
	// the backend's default device.
	Device string

	// ApplicationName and Description identify the stream to sound
	// servers that display them (PulseAudio).
	ApplicationName string
	Description     string

	// Backends restricts and orders the backends tried by the
	// dispatcher. Empty tries every registered backend by priority.
	Backends []string

	// RingSize is the capacity of the buffer between Write and the
	// engine callback for pull-model backends.
	RingSize int

	// PollInterval is how often a blocked Write or Drain rechecks state.
	PollInterval time.Duration
}

// DefaultConfig returns the configuration used by Create.
func DefaultConfig() Config {
	return Config{
		ApplicationName: DefaultApplicationName,
		RingSize:        DefaultRingSize,
		PollInterval:    Latency,
	}
}

// LoadConfig returns DefaultConfig overlaid with PCAUDIO_* environment
// variables. Malformed values are ignored.
func LoadConfig() Config {
	cfg := DefaultConfig()

	if device := os.Getenv("PCAUDIO_DEVICE"); device != "" {
		cfg.Device = device
	}

	if name := os.Getenv("PCAUDIO_APP_NAME"); name != "" {
		cfg.ApplicationName = name
	}

	if desc := os.Getenv("PCAUDIO_DESCRIPTION"); desc != "" {
		cfg.Description = desc
	}

	if list := os.Getenv("PCAUDIO_BACKENDS"); list != "" {
		cfg.Backends = ParseBackendList(list)
	}

	if size := os.Getenv("PCAUDIO_RING_SIZE"); size != "" {
		if val, err := strconv.Atoi(size); err == nil && val > 0 {
			cfg.RingSize = val
		}
	}

	if ms := os.Getenv("PCAUDIO_POLL_MS"); ms != "" {
		if val, err := strconv.Atoi(ms); err == nil && val > 0 {
			cfg.PollInterval = time.Duration(val) * time.Millisecond
		}
	}

	return cfg
}

// ParseBackendList splits a comma separated backend list.
func ParseBackendList(s string) []string {
	var out []string
	for _, name := range strings.Split(s, ",") {
		name = strings.ToLower(strings.TrimSpace(name))
		if name != "" {
			out = append(out, name)
		}
	}
	return out
}

// withDefaults fills zero fields from DefaultConfig.
func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.ApplicationName == "" {
		c.ApplicationName = def.ApplicationName
	}
	if c.RingSize <= 0 {
		c.RingSize = def.RingSize
	}
	if c.PollInterval <= 0 {
		c.PollInterval = def.PollInterval
	}
	return c
}
