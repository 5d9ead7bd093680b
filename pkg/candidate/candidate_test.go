package candidate

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rescp17/ipLeak/pkg/address"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		expected string
		ok       bool
	}{
		{
			"Host candidate",
			"candidate:1966762133 1 udp 2122260223 192.168.1.5 54321 typ host generation 0",
			"192.168.1.5", true,
		},
		{
			"Server reflexive candidate",
			"candidate:842163049 1 udp 1677729535 8.8.8.8 61234 typ srflx raddr 192.168.1.5 rport 54321",
			"8.8.8.8", true,
		},
		{
			"IPv6 full form",
			"candidate:1 1 udp 2122262783 2001:db8:85a3:0:0:8a2e:370:7334 50000 typ host",
			"2001:db8:85a3:0:0:8a2e:370:7334", true,
		},
		{
			"Unspecified address still matches",
			"candidate:3 1 udp 100 0.0.0.0 9 typ host",
			"0.0.0.0", true,
		},
		{
			"mDNS obfuscated host",
			"candidate:2 1 udp 2122260223 4b1c2d3e-aaaa-bbbb-cccc-1234567890ab.local 54321 typ host",
			"", false,
		},
		{"Empty line", "", "", false},
		{"Garbage", "not a candidate at all", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			addr, ok := Extract(tt.line)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, addr)
		})
	}
}

func TestType(t *testing.T) {
	assert.Equal(t, "host", Type("candidate:1966762133 1 udp 2122260223 192.168.1.5 54321 typ host"))
	assert.Equal(t, "srflx", Type("candidate:842163049 1 udp 1677729535 8.8.8.8 61234 typ srflx raddr 192.168.1.5 rport 54321"))
	assert.Equal(t, "unknown", Type("garbage"))
}

func TestNewDerivesClass(t *testing.T) {
	c := New("10.0.0.2")
	assert.Equal(t, "10.0.0.2", c.Address)
	assert.Equal(t, address.Private, c.Class)
}
