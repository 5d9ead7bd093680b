package address

import (
	"fmt"
	"strings"
)

// Class is the coarse scope ranking of an address. Higher is preferred.
type Class int

const (
	Invalid Class = iota
	Loopback
	LinkLocal
	Private
	Public
)

func (c Class) String() string {
	switch c {
	case Invalid:
		return "invalid"
	case Loopback:
		return "loopback"
	case LinkLocal:
		return "link-local"
	case Private:
		return "private"
	case Public:
		return "public"
	default:
		return "unknown"
	}
}

var privatePrefixes = []string{
	"10.",
	"192.168.",
	"172.16.", "172.17.", "172.18.", "172.19.",
	"172.20.", "172.21.", "172.22.", "172.23.",
	"172.24.", "172.25.", "172.26.", "172.27.",
	"172.28.", "172.29.", "172.30.", "172.31.",
}

// Classify ranks an address literal by textual prefix.
// Rules are checked in order: invalid, loopback, link-local, private; anything else is public.
func Classify(addr string) Class {
	switch {
	case addr == "0.0.0.0":
		return Invalid
	case strings.HasPrefix(addr, "127."):
		return Loopback
	case strings.HasPrefix(addr, "169.254."):
		return LinkLocal
	}
	for _, prefix := range privatePrefixes {
		if strings.HasPrefix(addr, prefix) {
			return Private
		}
	}
	return Public
}

// MarshalText encodes the class by name.
func (c Class) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText decodes a class name produced by MarshalText.
func (c *Class) UnmarshalText(text []byte) error {
	for candidate := Invalid; candidate <= Public; candidate++ {
		if candidate.String() == string(text) {
			*c = candidate
			return nil
		}
	}
	return fmt.Errorf("unknown address class %q", text)
}
