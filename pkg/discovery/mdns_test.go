package discovery

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTxtRecords(t *testing.T) {
	text := txtRecords(ServiceInfo{Text: map[string]string{"path": "/test.html", "api": "/api/ip"}})
	assert.Equal(t, "IP leak test server", text["desc"])
	assert.Equal(t, "/test.html", text["path"], "caller values override defaults")
	assert.Equal(t, "/api/ip", text["api"])
}

func TestWithDefault(t *testing.T) {
	assert.Equal(t, DefaultServiceType, withDefault("", DefaultServiceType))
	assert.Equal(t, "_custom._tcp", withDefault("_custom._tcp", DefaultServiceType))
}

func TestAnnounceStopsOnCancel(t *testing.T) {
	// Skip mDNS tests in CI environment as they may be unreliable
	if testing.Short() {
		t.Skip("Skipping mDNS test in short mode")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		errCh <- (&MDNSAdapter{}).Announce(ctx, ServiceInfo{Name: "ipleak-test", Port: 8080})
	}()

	time.Sleep(50 * time.Millisecond) // Allow some time for the service to be announced
	cancel()

	select {
	case err := <-errCh:
		if err != nil {
			// Hosts without a multicast-capable interface cannot respond at all.
			t.Logf("Announce returned: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("Service announcement did not complete in time")
	}
}
