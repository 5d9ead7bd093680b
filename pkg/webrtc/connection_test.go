package webrtc

import (
	"sync"
	"testing"
	"time"

	"github.com/pion/webrtc/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unreachableSTUN keeps the test offline; srflx gathering simply gives up.
var unreachableSTUN = Config{
	ICEServers: []webrtc.ICEServer{{URLs: []string{"stun:127.0.0.1:3478"}}},
}

func TestGatherSessionCompletes(t *testing.T) {
	api := NewWebRTCAPI(Settings{IncludeLoopback: true})
	require.NotNil(t, api)

	session, err := api.NewGatherSession(unreachableSTUN)
	require.NoError(t, err)
	defer session.Close()

	var (
		mu    sync.Mutex
		lines []string
	)
	complete := make(chan struct{})
	var once sync.Once

	session.OnCandidate(func(line string) {
		mu.Lock()
		lines = append(lines, line)
		mu.Unlock()
	})
	session.OnGatheringComplete(func() {
		once.Do(func() { close(complete) })
	})

	require.NoError(t, session.Start())

	select {
	case <-complete:
	case <-time.After(20 * time.Second):
		t.Fatal("Timed out waiting for gathering to complete")
	}

	mu.Lock()
	defer mu.Unlock()
	for _, line := range lines {
		assert.Contains(t, line, "candidate:")
		assert.Contains(t, line, "typ ")
	}
	t.Logf("gathered %d candidates", len(lines))
}

func TestGatherSessionCloseIsIdempotent(t *testing.T) {
	api := NewWebRTCAPI(Settings{})
	session, err := api.NewGatherSession(unreachableSTUN)
	require.NoError(t, err)

	assert.NoError(t, session.Close())
	assert.NoError(t, session.Close())
}

func TestGatherSessionStartAfterClose(t *testing.T) {
	api := NewWebRTCAPI(Settings{})
	session, err := api.NewGatherSession(unreachableSTUN)
	require.NoError(t, err)
	require.NoError(t, session.Close())

	assert.Error(t, session.Start())
}

func TestNewGatherSessionRejectsBadURL(t *testing.T) {
	api := NewWebRTCAPI(Settings{})
	_, err := api.NewGatherSession(Config{
		ICEServers: []webrtc.ICEServer{{URLs: []string{"http://not-a-stun-url"}}},
	})
	assert.Error(t, err)
}
