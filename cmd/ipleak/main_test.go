package main

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rescp17/ipLeak/pkg/address"
	"github.com/rescp17/ipLeak/pkg/candidate"
	"github.com/rescp17/ipLeak/pkg/detector"
)

func TestOptionsConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg := (&options{timeout: detector.DefaultTimeout}).config()
		assert.Equal(t, detector.DefaultServers, cfg.Servers)
		assert.True(t, cfg.EagerPublic)
		assert.False(t, cfg.IncludeLoopback)
	})

	t.Run("overrides", func(t *testing.T) {
		o := &options{
			servers:  []string{"stun:stun.example.org:3478"},
			timeout:  2 * time.Second,
			lazy:     true,
			loopback: true,
		}
		cfg := o.config()
		assert.Equal(t, []string{"stun:stun.example.org:3478"}, cfg.Servers)
		assert.Equal(t, 2*time.Second, cfg.Timeout)
		assert.False(t, cfg.EagerPublic)
		assert.True(t, cfg.IncludeLoopback)
	})
}

func TestWriteJSONResult(t *testing.T) {
	t.Run("resolved", func(t *testing.T) {
		var buf bytes.Buffer
		res := detector.Result{
			SessionID:  "abc",
			Address:    "8.8.8.8",
			Class:      address.Public,
			Candidates: []candidate.Candidate{candidate.New("8.8.8.8")},
		}
		require.NoError(t, writeJSONResult(&buf, res, nil))

		var out jsonResult
		require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
		assert.Equal(t, "8.8.8.8", out.Address)
		assert.Equal(t, "public", out.Class)
		assert.Empty(t, out.Error)
	})

	t.Run("failed", func(t *testing.T) {
		var buf bytes.Buffer
		err := writeJSONResult(&buf, detector.Result{}, detector.ErrTimeout)
		assert.ErrorIs(t, err, detector.ErrTimeout)

		var out jsonResult
		require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
		assert.Equal(t, "timeout", out.Reason)
		assert.Empty(t, out.Address)
	})
}

func TestWriteObservation(t *testing.T) {
	var buf bytes.Buffer
	writeObservation(&buf, detector.Observation{Type: "srflx", Address: "8.8.8.8", Class: address.Public})
	assert.Equal(t, "srflx     8.8.8.8                                   public\n", buf.String())
}

func TestRootCommandWiring(t *testing.T) {
	cmd := newRootCmd()
	names := []string{}
	for _, c := range cmd.Commands() {
		names = append(names, c.Name())
	}
	assert.Contains(t, names, "detect")
	assert.Contains(t, names, "serve")
	assert.NotNil(t, cmd.Flags().Lookup("json"))
	assert.NotNil(t, cmd.PersistentFlags().Lookup("server"))
}
