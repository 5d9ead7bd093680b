package discovery

import (
	"context"
)

const (
	DefaultServiceType = "_ipleak-test._tcp"
	DefaultDomain      = "local"
)

// ServiceInfo describes the test server announced on the local network.
type ServiceInfo struct {
	Name   string // instance name
	Type   string // service name, e.g., "_ipleak-test._tcp"
	Domain string // domain, e.g., "local"
	Port   int
	Text   map[string]string
}

// Announcer advertises a service until ctx is cancelled.
type Announcer interface {
	Announce(ctx context.Context, service ServiceInfo) error
}
