package address

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		addr     string
		expected Class
	}{
		{"Unspecified", "0.0.0.0", Invalid},
		{"Loopback", "127.0.0.1", Loopback},
		{"Loopback other host", "127.10.20.30", Loopback},
		{"Link local", "169.254.1.1", LinkLocal},
		{"Private 10/8", "10.0.0.5", Private},
		{"Private 172.16/12 low", "172.16.0.1", Private},
		{"Private 172.16/12 high", "172.31.255.254", Private},
		{"Private 192.168/16", "192.168.1.1", Private},
		{"Public", "8.8.8.8", Public},
		{"Public just outside 172.16/12", "172.32.0.1", Public},
		{"Public 172.15", "172.15.0.1", Public},
		{"Public prefix lookalike", "100.64.0.1", Public},
		{"IPv6 full form", "2001:db8:0:0:0:0:0:1", Public},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Classify(tt.addr))
		})
	}
}

func TestClassifyIsDeterministic(t *testing.T) {
	inputs := []string{"0.0.0.0", "127.0.0.1", "169.254.9.9", "192.168.0.2", "1.1.1.1"}
	for _, in := range inputs {
		first := Classify(in)
		for i := 0; i < 5; i++ {
			assert.Equal(t, first, Classify(in), "classification of %s changed", in)
		}
		assert.GreaterOrEqual(t, int(first), int(Invalid))
		assert.LessOrEqual(t, int(first), int(Public))
	}
}

func TestClassString(t *testing.T) {
	assert.Equal(t, "public", Public.String())
	assert.Equal(t, "link-local", LinkLocal.String())
	assert.Equal(t, "unknown", Class(42).String())
}

func TestClassMarshalText(t *testing.T) {
	text, err := Private.MarshalText()
	assert.NoError(t, err)
	assert.Equal(t, "private", string(text))
}

func TestClassUnmarshalText(t *testing.T) {
	var c Class
	assert.NoError(t, c.UnmarshalText([]byte("link-local")))
	assert.Equal(t, LinkLocal, c)
	assert.Error(t, c.UnmarshalText([]byte("galactic")))
}
