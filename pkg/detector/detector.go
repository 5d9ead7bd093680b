package detector

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
	pionwebrtc "github.com/pion/webrtc/v4"

	"github.com/rescp17/ipLeak/pkg/address"
	"github.com/rescp17/ipLeak/pkg/candidate"
	"github.com/rescp17/ipLeak/pkg/resolve"
	"github.com/rescp17/ipLeak/pkg/webrtc"
)

// Observation describes a newly registered candidate of an attempt that is still gathering.
type Observation struct {
	SessionID string
	Line      string
	Address   string
	Class     address.Class
	Type      string
}

// Result is a successful discovery.
type Result struct {
	SessionID  string                `json:"session_id"`
	Address    string                `json:"address"`
	Class      address.Class         `json:"class"`
	Candidates []candidate.Candidate `json:"candidates"`
	Elapsed    time.Duration         `json:"elapsed"`
}

// Detector runs discovery attempts. Each call to Detect is an independent attempt.
type Detector struct {
	gatherer webrtc.Gatherer
	config   Config
	clock    clock.Clock
	logger   *slog.Logger
	observer func(Observation)
}

// Option configures a Detector.
type Option func(*Detector)

// WithClock replaces the clock driving the timeout.
func WithClock(c clock.Clock) Option {
	return func(d *Detector) { d.clock = c }
}

func WithLogger(l *slog.Logger) Option {
	return func(d *Detector) { d.logger = l }
}

// WithObserver registers f to receive every newly registered candidate while gathering.
// f runs on the negotiation stack's callback goroutine and must not block.
func WithObserver(f func(Observation)) Option {
	return func(d *Detector) { d.observer = f }
}

// New creates a Detector. Unset config fields take their defaults.
func New(gatherer webrtc.Gatherer, config Config, opts ...Option) *Detector {
	d := &Detector{
		gatherer: gatherer,
		config:   config.withDefaults(),
		clock:    clock.New(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// NewDefault creates a Detector backed by pion with the given configuration.
func NewDefault(config Config, opts ...Option) *Detector {
	api := webrtc.NewWebRTCAPI(webrtc.Settings{IncludeLoopback: config.IncludeLoopback})
	return New(api, config, opts...)
}

func (d *Detector) Config() Config {
	return d.config
}

// Detect runs one attempt and returns the resolved address or a failure:
// ErrTimeout, ErrNoAddressFound, a *NegotiationError, or the context error if ctx ends first.
func (d *Detector) Detect(ctx context.Context) (Result, error) {
	if err := d.config.Validate(); err != nil {
		return Result{}, err
	}

	a := &attempt{
		id:     uuid.New().String(),
		policy: resolve.NewPolicy(resolve.Options{EagerPublic: d.config.EagerPublic}),
		done:   make(chan resolve.Outcome, 1),
		start:  d.clock.Now(),
	}
	logger := d.logger.With("session", a.id)

	iceServers := make([]pionwebrtc.ICEServer, 0, len(d.config.Servers))
	for _, s := range d.config.Servers {
		iceServers = append(iceServers, pionwebrtc.ICEServer{URLs: []string{s}})
	}
	session, err := d.gatherer.NewGatherSession(webrtc.Config{ICEServers: iceServers})
	if err != nil {
		logger.Error("Failed to create gathering session", "error", err)
		return Result{}, &NegotiationError{Err: err}
	}
	a.session = session

	a.policy.Start()
	logger.Debug("Gathering started", "servers", d.config.Servers, "timeout", d.config.Timeout)
	a.mu.Lock()
	a.timer = d.clock.AfterFunc(d.config.Timeout, func() {
		a.finish(a.policy.OnTimeout())
	})
	a.mu.Unlock()

	session.OnCandidate(func(line string) {
		d.handleCandidate(a, logger, line)
	})
	session.OnGatheringComplete(func() {
		logger.Debug("Gathering complete")
		a.finish(a.policy.OnGatheringComplete())
	})

	if err := session.Start(); err != nil {
		a.finish(a.policy.OnNegotiationError(err))
	}

	var outcome resolve.Outcome
	select {
	case outcome = <-a.done:
	case <-ctx.Done():
		a.finish(a.policy.Abort(ctx.Err()))
		outcome = <-a.done
	}

	elapsed := d.clock.Since(a.start)
	if outcome.State != resolve.Resolved {
		logger.Warn("Detection failed", "error", outcome.Err, "candidates", len(outcome.Candidates), "elapsed", elapsed)
		return Result{}, fmt.Errorf("session %s: %w", a.id, outcome.Err)
	}
	logger.Info("Detection resolved", "address", outcome.Candidate.Address, "class", outcome.Candidate.Class.String(), "elapsed", elapsed)
	return Result{
		SessionID:  a.id,
		Address:    outcome.Candidate.Address,
		Class:      outcome.Candidate.Class,
		Candidates: outcome.Candidates,
		Elapsed:    elapsed,
	}, nil
}

func (d *Detector) handleCandidate(a *attempt, logger *slog.Logger, line string) {
	addr, ok := candidate.Extract(line)
	if !ok {
		logger.Debug("Candidate without address literal", "candidate", line)
		return
	}
	c := candidate.New(addr)
	outcome, terminal, inserted := a.policy.OnCandidate(c)
	if inserted && d.observer != nil {
		d.observer(Observation{
			SessionID: a.id,
			Line:      line,
			Address:   c.Address,
			Class:     c.Class,
			Type:      candidate.Type(line),
		})
	}
	a.finish(outcome, terminal)
}

// attempt is the per-call state of Detect.
type attempt struct {
	id      string
	policy  *resolve.Policy
	session webrtc.GatherSession
	timer   *clock.Timer
	start   time.Time
	done    chan resolve.Outcome

	mu          sync.Mutex
	cleanupOnce sync.Once
}

// finish runs cleanup for the one event that made the policy terminal.
func (a *attempt) finish(outcome resolve.Outcome, terminal bool) {
	if !terminal {
		return
	}
	a.cleanupOnce.Do(func() {
		a.mu.Lock()
		if a.timer != nil {
			a.timer.Stop()
		}
		a.mu.Unlock()
		if err := a.session.Close(); err != nil {
			slog.Warn("Failed to close gathering session", "session", a.id, "error", err)
		}
		a.done <- outcome
	})
}
