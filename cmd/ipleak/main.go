package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/rescp17/ipLeak/pkg/detector"
)

// options holds the flags shared by every command.
type options struct {
	servers  []string
	timeout  time.Duration
	lazy     bool
	loopback bool
	verbose  bool
}

func (o *options) config() detector.Config {
	cfg := detector.DefaultConfig()
	if len(o.servers) > 0 {
		cfg.Servers = o.servers
	}
	cfg.Timeout = o.timeout
	cfg.EagerPublic = !o.lazy
	cfg.IncludeLoopback = o.loopback
	return cfg
}

func (o *options) setupLogging() {
	level := slog.LevelInfo
	if o.verbose {
		level = slog.LevelDebug
	}
	slog.SetLogLoggerLevel(level)
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "ipleak",
		Short: "Discover the IP address your host exposes through ICE/STUN",
		Long: "ipleak starts a local ICE gathering session against STUN servers and reports the\n" +
			"most exposed address found in the gathered candidates.",
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringArrayVarP(&opts.servers, "server", "s", nil, "STUN server URI (repeatable, default: public STUN servers)")
	cmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", detector.DefaultTimeout, "Give up after this long")
	cmd.PersistentFlags().BoolVar(&opts.lazy, "lazy", false, "Wait for gathering to complete even after a public address is found")
	cmd.PersistentFlags().BoolVar(&opts.loopback, "loopback", false, "Gather loopback candidates too")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")

	detectCmd := newDetectCmd(opts)
	cmd.RunE = detectCmd.RunE
	cmd.Flags().AddFlagSet(detectCmd.Flags())

	cmd.AddCommand(detectCmd)
	cmd.AddCommand(newServeCmd(opts))
	return cmd
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := fang.Execute(ctx, newRootCmd()); err != nil {
		os.Exit(1)
	}
}
