package resolve

import (
	"sync"

	"github.com/rescp17/ipLeak/pkg/address"
	"github.com/rescp17/ipLeak/pkg/candidate"
)

// State is the lifecycle of one discovery attempt.
type State int

const (
	Idle State = iota
	Gathering
	Resolved
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Gathering:
		return "gathering"
	case Resolved:
		return "resolved"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further event can change the attempt.
func (s State) Terminal() bool {
	return s == Resolved || s == Failed
}

// Outcome is the single terminal result of an attempt.
type Outcome struct {
	State      State
	Candidate  candidate.Candidate
	Err        error
	Candidates []candidate.Candidate
}

// Options tunes the policy.
type Options struct {
	// EagerPublic resolves as soon as a public candidate shows up instead of
	// waiting for gathering to complete.
	EagerPublic bool
}

// Policy decides when an attempt resolves or fails. Every event inspects and
// sets the state under one lock, so only the first terminal trigger has effect.
type Policy struct {
	mu       sync.Mutex
	state    State
	opts     Options
	registry *candidate.Registry
	outcome  Outcome
}

func NewPolicy(opts Options) *Policy {
	return &Policy{
		opts:     opts,
		registry: candidate.NewRegistry(),
	}
}

// Start moves the policy from Idle to Gathering. It returns false if the policy was already started.
func (p *Policy) Start() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state != Idle {
		return false
	}
	p.state = Gathering
	return true
}

// State returns the current state.
func (p *Policy) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Outcome returns the terminal outcome and whether one has been reached.
func (p *Policy) Outcome() (Outcome, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.outcome, p.state.Terminal()
}

// OnCandidate registers c. The returned bool is true only for the call that
// moved the policy into a terminal state; inserted reports whether c was new.
func (p *Policy) OnCandidate(c candidate.Candidate) (outcome Outcome, terminal bool, inserted bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state != Gathering {
		return Outcome{}, false, false
	}
	inserted = p.registry.Add(c)
	if p.opts.EagerPublic && c.Class == address.Public {
		return p.resolveLocked(c), true, inserted
	}
	return Outcome{}, false, inserted
}

// OnGatheringComplete resolves with the best candidate seen so far, or fails
// with ErrNoAddressFound when nothing usable was gathered.
func (p *Policy) OnGatheringComplete() (Outcome, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state != Gathering {
		return Outcome{}, false
	}
	best, ok := p.registry.SelectBest()
	if !ok {
		return p.failLocked(ErrNoAddressFound), true
	}
	return p.resolveLocked(best), true
}

// OnTimeout fails the attempt with ErrTimeout. Candidates already gathered are not used.
func (p *Policy) OnTimeout() (Outcome, bool) {
	return p.Abort(ErrTimeout)
}

// OnNegotiationError fails the attempt with err wrapped in a NegotiationError.
func (p *Policy) OnNegotiationError(err error) (Outcome, bool) {
	return p.Abort(&NegotiationError{Err: err})
}

// Abort fails the attempt with err if it is still gathering.
func (p *Policy) Abort(err error) (Outcome, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state != Gathering {
		return Outcome{}, false
	}
	return p.failLocked(err), true
}

func (p *Policy) resolveLocked(c candidate.Candidate) Outcome {
	p.state = Resolved
	p.outcome = Outcome{
		State:      Resolved,
		Candidate:  c,
		Candidates: p.registry.Candidates(),
	}
	return p.outcome
}

func (p *Policy) failLocked(err error) Outcome {
	p.state = Failed
	p.outcome = Outcome{
		State:      Failed,
		Err:        err,
		Candidates: p.registry.Candidates(),
	}
	return p.outcome
}
