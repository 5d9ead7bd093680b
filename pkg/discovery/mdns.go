package discovery

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/brutella/dnssd"
)

type MDNSAdapter struct{}

// Announce blocks while responding to mDNS queries for serviceInfo.
// Cancelling ctx is the normal way to stop it and is not reported as an error.
func (m *MDNSAdapter) Announce(ctx context.Context, serviceInfo ServiceInfo) error {
	cfg := dnssd.Config{
		Name:   serviceInfo.Name,
		Type:   withDefault(serviceInfo.Type, DefaultServiceType),
		Domain: withDefault(serviceInfo.Domain, DefaultDomain),
		// mdns will multicast to ip address, so we can leave it nil
		IPs:  nil,
		Text: txtRecords(serviceInfo),
		Port: serviceInfo.Port,
	}

	service, err := dnssd.NewService(cfg)
	if err != nil {
		return fmt.Errorf("failed to create mDNS service: %w", err)
	}

	rp, err := dnssd.NewResponder()
	if err != nil {
		return fmt.Errorf("failed to create mDNS responder: %w", err)
	}

	if _, err = rp.Add(service); err != nil {
		return fmt.Errorf("failed to add mDNS service: %w", err)
	}

	slog.Info("Announcing test server", "name", cfg.Name, "type", cfg.Type, "port", cfg.Port)
	if err = rp.Respond(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return fmt.Errorf("failed to respond to mDNS service: %w", err)
	}

	slog.Info("Shutting down mDNS responder")
	return nil
}

func txtRecords(serviceInfo ServiceInfo) map[string]string {
	text := map[string]string{"desc": "IP leak test server", "path": "/"}
	for k, v := range serviceInfo.Text {
		text[k] = v
	}
	return text
}

func withDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
