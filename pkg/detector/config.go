package detector

import (
	"errors"
	"fmt"
	"time"

	"github.com/pion/stun/v3"
)

// DefaultServers are the public STUN endpoints used when none are configured.
var DefaultServers = []string{
	"stun:stun.l.google.com:19302",
	"stun:stun1.l.google.com:19302",
	"stun:stun2.l.google.com:19302",
	"stun:stun.cloudflare.com:3478",
}

const DefaultTimeout = 5 * time.Second

// ErrInvalidConfig wraps every configuration validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds the settings of a discovery attempt. It is not modified once an attempt starts.
type Config struct {
	// Servers are STUN URIs, tried by the ICE agent in order.
	Servers []string `json:"servers"`
	// Timeout bounds the whole attempt.
	Timeout time.Duration `json:"timeout"`
	// EagerPublic resolves on the first public candidate instead of waiting for gathering to end.
	EagerPublic bool `json:"eager_public"`
	// IncludeLoopback makes the ICE agent gather loopback host candidates.
	IncludeLoopback bool `json:"include_loopback"`
}

// DefaultConfig returns a configuration with the public STUN servers and a 5s timeout.
func DefaultConfig() Config {
	servers := make([]string, len(DefaultServers))
	copy(servers, DefaultServers)
	return Config{
		Servers:     servers,
		Timeout:     DefaultTimeout,
		EagerPublic: true,
	}
}

// withDefaults fills unset fields the same way an omitted option would be.
func (c Config) withDefaults() Config {
	if len(c.Servers) == 0 {
		c.Servers = DefaultConfig().Servers
	}
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
	return c
}

// Validate checks the configuration after defaults are applied.
func (c Config) Validate() error {
	c = c.withDefaults()
	if c.Timeout < 0 {
		return fmt.Errorf("%w: timeout must be positive", ErrInvalidConfig)
	}
	for _, raw := range c.Servers {
		uri, err := stun.ParseURI(raw)
		if err != nil {
			return fmt.Errorf("%w: server %q: %v", ErrInvalidConfig, raw, err)
		}
		if uri.Scheme != stun.SchemeTypeSTUN && uri.Scheme != stun.SchemeTypeSTUNS {
			return fmt.Errorf("%w: server %q: only stun/stuns servers are supported", ErrInvalidConfig, raw)
		}
	}
	return nil
}
