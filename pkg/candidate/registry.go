package candidate

import "github.com/rescp17/ipLeak/pkg/address"

// Registry is a deduplicating store of the candidates seen during one attempt.
// It is not safe for concurrent use; the owning policy serializes access.
type Registry struct {
	index map[string]int
	order []Candidate
}

func NewRegistry() *Registry {
	return &Registry{index: make(map[string]int)}
}

// Add stores c unless its address is already present. It reports whether c was inserted.
func (r *Registry) Add(c Candidate) bool {
	if _, ok := r.index[c.Address]; ok {
		return false
	}
	r.index[c.Address] = len(r.order)
	r.order = append(r.order, c)
	return true
}

// SelectBest returns the highest-class candidate, ignoring invalid ones.
// Ties go to the earliest insertion.
func (r *Registry) SelectBest() (Candidate, bool) {
	var (
		best  Candidate
		found bool
	)
	for _, c := range r.order {
		if c.Class <= address.Invalid {
			continue
		}
		if !found || c.Class > best.Class {
			best = c
			found = true
		}
	}
	return best, found
}

func (r *Registry) Len() int {
	return len(r.order)
}

// Candidates returns a copy of the stored candidates in insertion order.
func (r *Registry) Candidates() []Candidate {
	out := make([]Candidate, len(r.order))
	copy(out, r.order)
	return out
}
