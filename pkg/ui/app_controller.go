package ui

import (
	"context"

	"github.com/benbjohnson/clock"
	tea "github.com/charmbracelet/bubbletea"

	appevents "github.com/rescp17/ipLeak/internal/app_events"
	"github.com/rescp17/ipLeak/internal/retry"
	"github.com/rescp17/ipLeak/pkg/detector"
)

// AppController runs the discovery logic and reports progress to the TUI.
type AppController interface {
	Run(ctx context.Context)
	UIMessages() <-chan tea.Msg
}

// DetectFunc runs one discovery attempt. observe receives candidates as they are registered.
type DetectFunc func(ctx context.Context, observe func(detector.Observation)) (detector.Result, error)

// DetectApp runs discovery attempts under a retry policy.
type DetectApp struct {
	detect     DetectFunc
	servers    []string
	policy     retry.Policy
	clock      clock.Clock
	uiMessages chan tea.Msg
}

// NewDetectApp creates a controller that builds a fresh pion-backed detector per attempt.
func NewDetectApp(config detector.Config, policy retry.Policy) *DetectApp {
	detect := func(ctx context.Context, observe func(detector.Observation)) (detector.Result, error) {
		return detector.NewDefault(config, detector.WithObserver(observe)).Detect(ctx)
	}
	return NewDetectAppWith(detect, config.Servers, policy, clock.New())
}

// NewDetectAppWith creates a controller around an arbitrary detect function.
func NewDetectAppWith(detect DetectFunc, servers []string, policy retry.Policy, clk clock.Clock) *DetectApp {
	return &DetectApp{
		detect:     detect,
		servers:    servers,
		policy:     policy,
		clock:      clk,
		uiMessages: make(chan tea.Msg, 64),
	}
}

func (a *DetectApp) UIMessages() <-chan tea.Msg {
	return a.uiMessages
}

func (a *DetectApp) send(ctx context.Context, msg tea.Msg) {
	select {
	case a.uiMessages <- msg:
	case <-ctx.Done():
	}
}

// Run performs detection and always finishes with a DetectionDoneMsg.
func (a *DetectApp) Run(ctx context.Context) {
	var result detector.Result
	observe := func(o detector.Observation) {
		a.send(ctx, appevents.CandidateFoundMsg{Observation: o})
	}
	err := retry.Do(ctx, a.policy, a.clock, detector.IsRetryable, func(attempt int) error {
		a.send(ctx, appevents.AttemptStartedMsg{Attempt: attempt + 1, Servers: a.servers})
		var err error
		result, err = a.detect(ctx, observe)
		return err
	})
	// The final message must get through even after cancellation.
	a.uiMessages <- appevents.DetectionDoneMsg{Result: result, Err: err}
}
