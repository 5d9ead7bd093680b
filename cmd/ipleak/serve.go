package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/rescp17/ipLeak/api"
	"github.com/rescp17/ipLeak/internal/util"
	"github.com/rescp17/ipLeak/pkg/detector"
	"github.com/rescp17/ipLeak/pkg/discovery"
)

func newServeCmd(opts *options) *cobra.Command {
	var (
		port     int
		dir      string
		announce bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the browser test page and a server-side detection endpoint",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.setupLogging()
			cfg := opts.config()
			if err := cfg.Validate(); err != nil {
				return err
			}
			root, err := util.ResolveDir(dir)
			if err != nil {
				return err
			}
			return serve(cmd.Context(), port, root, cfg, announce)
		},
	}
	cmd.Flags().IntVar(&port, "port", 8080, "Port to listen on")
	cmd.Flags().StringVar(&dir, "dir", "lib", "Directory holding test.html; /dist/ is served from its parent")
	cmd.Flags().BoolVar(&announce, "announce", false, "Advertise the server over mDNS")
	return cmd
}

func serve(ctx context.Context, port int, root string, cfg detector.Config, announce bool) error {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           api.NewServer(root, detector.NewDefault(cfg), registry),
		ReadHeaderTimeout: 10 * time.Second,
	}

	if announce {
		go func() {
			name, err := os.Hostname()
			if err != nil {
				name = "ipleak"
			}
			info := discovery.ServiceInfo{Name: name, Port: port}
			if err := (&discovery.MDNSAdapter{}).Announce(ctx, info); err != nil {
				slog.Error("mDNS announcement failed", "error", err)
			}
		}()
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.ListenAndServe()
	}()

	fmt.Printf("Test server running at http://localhost:%d\n", port)
	fmt.Printf("  Test page:  http://localhost:%d/\n", port)
	fmt.Printf("  Detection:  http://localhost:%d/api/ip\n", port)
	fmt.Printf("  Metrics:    http://localhost:%d/metrics\n", port)
	fmt.Println("Press Ctrl+C to stop the server")

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	fmt.Println("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	fmt.Println("Server stopped")
	return nil
}
