package candidate

import (
	"regexp"
	"strings"

	"github.com/pion/ice/v4"

	"github.com/rescp17/ipLeak/pkg/address"
)

// ipPattern matches a dotted-quad IPv4 literal or an uncompressed 8-group IPv6 literal.
var ipPattern = regexp.MustCompile(`([0-9]{1,3}(\.[0-9]{1,3}){3}|[a-f0-9]{1,4}(:[a-f0-9]{1,4}){7})`)

// Candidate is an address observed during one gathering session together with its class.
type Candidate struct {
	Address string        `json:"address"`
	Class   address.Class `json:"class"`
}

// New builds a Candidate, deriving the class from the address.
func New(addr string) Candidate {
	return Candidate{Address: addr, Class: address.Classify(addr)}
}

// Extract returns the first address literal embedded in an ICE candidate line.
// The second result is false when the line carries no literal (e.g. an mDNS hostname).
func Extract(line string) (string, bool) {
	match := ipPattern.FindString(line)
	if match == "" {
		return "", false
	}
	return match, true
}

// Type reports the ICE candidate type ("host", "srflx", ...) of a raw candidate line,
// or "unknown" if the line cannot be parsed.
func Type(line string) string {
	c, err := ice.UnmarshalCandidate(strings.TrimPrefix(line, "candidate:"))
	if err != nil {
		return "unknown"
	}
	return c.Type().String()
}
