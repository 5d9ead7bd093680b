package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"

	"github.com/benbjohnson/clock"
	"github.com/spf13/cobra"

	"github.com/rescp17/ipLeak/internal/retry"
	"github.com/rescp17/ipLeak/internal/util"
	"github.com/rescp17/ipLeak/pkg/candidate"
	"github.com/rescp17/ipLeak/pkg/detector"
	"github.com/rescp17/ipLeak/pkg/ui"
)

var rowWidths = []int{8, 40, 12}

func newDetectCmd(opts *options) *cobra.Command {
	var (
		attempts int
		asJSON   bool
		plain    bool
	)
	cmd := &cobra.Command{
		Use:   "detect",
		Short: "Run one discovery and print the effective IP address",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.setupLogging()
			cfg := opts.config()
			if err := cfg.Validate(); err != nil {
				return err
			}
			policy := retry.DefaultPolicy()
			if attempts > 1 {
				policy.MaxRetries = attempts - 1
			}

			switch {
			case asJSON:
				return runJSON(cmd.Context(), cmd.OutOrStdout(), cfg, policy)
			case plain:
				return runPlain(cmd.Context(), cmd.OutOrStdout(), cfg, policy)
			default:
				return runTUI(cfg, policy)
			}
		},
	}
	cmd.Flags().IntVar(&attempts, "attempts", 1, "Total attempts when a discovery times out or negotiation fails")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the result as JSON")
	cmd.Flags().BoolVar(&plain, "plain", false, "Print candidates as plain text instead of the interactive view")
	return cmd
}

// detectWithRetry runs attempts until one resolves or the error is not retryable.
func detectWithRetry(ctx context.Context, cfg detector.Config, policy retry.Policy, observe func(detector.Observation)) (detector.Result, error) {
	var result detector.Result
	err := retry.Do(ctx, policy, clock.New(), detector.IsRetryable, func(attempt int) error {
		opts := []detector.Option{}
		if observe != nil {
			opts = append(opts, detector.WithObserver(observe))
		}
		var err error
		result, err = detector.NewDefault(cfg, opts...).Detect(ctx)
		return err
	})
	return result, err
}

type jsonResult struct {
	SessionID  string                `json:"session_id,omitempty"`
	Address    string                `json:"address,omitempty"`
	Class      string                `json:"class,omitempty"`
	Candidates []candidate.Candidate `json:"candidates,omitempty"`
	ElapsedMS  int64                 `json:"elapsed_ms,omitempty"`
	Error      string                `json:"error,omitempty"`
	Reason     string                `json:"reason,omitempty"`
}

func writeJSONResult(w io.Writer, res detector.Result, err error) error {
	out := jsonResult{}
	if err != nil {
		out.Error = err.Error()
		out.Reason = detector.Reason(err)
	} else {
		out.SessionID = res.SessionID
		out.Address = res.Address
		out.Class = res.Class.String()
		out.Candidates = res.Candidates
		out.ElapsedMS = res.Elapsed.Milliseconds()
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if encErr := enc.Encode(out); encErr != nil {
		return fmt.Errorf("failed to encode result: %w", encErr)
	}
	return err
}

func runJSON(ctx context.Context, w io.Writer, cfg detector.Config, policy retry.Policy) error {
	res, err := detectWithRetry(ctx, cfg, policy, nil)
	return writeJSONResult(w, res, err)
}

func writeObservation(w io.Writer, o detector.Observation) {
	fmt.Fprintln(w, util.FormatRow(rowWidths, o.Type, o.Address, o.Class.String()))
}

func runPlain(ctx context.Context, w io.Writer, cfg detector.Config, policy retry.Policy) error {
	fmt.Fprintln(w, util.FormatRow(rowWidths, "TYPE", "ADDRESS", "CLASS"))
	res, err := detectWithRetry(ctx, cfg, policy, func(o detector.Observation) {
		writeObservation(w, o)
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "\nEffective IP: %s (%s)\n", res.Address, res.Class)
	return nil
}

func runTUI(cfg detector.Config, policy retry.Policy) error {
	// Logs would corrupt the terminal UI, so they go to a file instead.
	f, err := os.OpenFile("debug.log", os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open debug log: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			slog.Warn("failed to close log file", "error", err)
		}
	}()
	log.SetOutput(f)
	defer log.SetOutput(os.Stderr)

	_, err = ui.Run(ui.NewDetectApp(cfg, policy))
	return err
}
