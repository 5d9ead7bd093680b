package candidate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rescp17/ipLeak/pkg/address"
)

func TestRegistryDeduplicates(t *testing.T) {
	r := NewRegistry()

	assert.True(t, r.Add(New("192.168.1.5")))
	assert.False(t, r.Add(New("192.168.1.5")), "second add of the same address must be a no-op")
	assert.Equal(t, 1, r.Len())
}

func TestRegistrySelectBest(t *testing.T) {
	tests := []struct {
		name     string
		addrs    []string
		expected string
		found    bool
	}{
		{"Empty", nil, "", false},
		{"Only invalid", []string{"0.0.0.0"}, "", false},
		{"Private beats link-local", []string{"169.254.1.1", "10.0.0.5"}, "10.0.0.5", true},
		{"Private beats link-local reversed", []string{"10.0.0.5", "169.254.1.1"}, "10.0.0.5", true},
		{"Loopback beats invalid", []string{"0.0.0.0", "127.0.0.1"}, "127.0.0.1", true},
		{"Public wins", []string{"10.0.0.5", "8.8.8.8", "192.168.1.1"}, "8.8.8.8", true},
		{"Tie goes to first inserted", []string{"192.168.1.1", "10.0.0.5"}, "192.168.1.1", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRegistry()
			for _, a := range tt.addrs {
				r.Add(New(a))
			}
			best, ok := r.SelectBest()
			require.Equal(t, tt.found, ok)
			if ok {
				assert.Equal(t, tt.expected, best.Address)
				assert.Equal(t, address.Classify(tt.expected), best.Class)
			}
		})
	}
}

func TestRegistryCandidatesIsACopy(t *testing.T) {
	r := NewRegistry()
	r.Add(New("10.0.0.2"))
	r.Add(New("169.254.5.5"))

	snapshot := r.Candidates()
	require.Len(t, snapshot, 2)
	assert.Equal(t, "10.0.0.2", snapshot[0].Address)
	assert.Equal(t, "169.254.5.5", snapshot[1].Address)

	snapshot[0].Address = "mutated"
	assert.Equal(t, "10.0.0.2", r.Candidates()[0].Address)
}
