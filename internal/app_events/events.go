package appevents

import (
	"github.com/rescp17/ipLeak/pkg/detector"
)

// AppUIMessage is a marker interface for messages sent from the App's logic controller to the TUI.
// It uses an unexported method so only types embedding UIMessage can satisfy it.
type AppUIMessage interface {
	isUIMessage()
}

// UIMessage is a base struct that can be embedded in other types to implement the AppUIMessage interface.
type UIMessage struct{}

func (UIMessage) isUIMessage() {}

// AttemptStartedMsg is sent when a new discovery attempt begins. Attempt counts from 1.
type AttemptStartedMsg struct {
	UIMessage
	Attempt int
	Servers []string
}

// CandidateFoundMsg carries a newly registered candidate.
type CandidateFoundMsg struct {
	UIMessage
	Observation detector.Observation
}

// DetectionDoneMsg is the final message of a run.
type DetectionDoneMsg struct {
	UIMessage
	Result detector.Result
	Err    error
}

var (
	_ AppUIMessage = AttemptStartedMsg{}
	_ AppUIMessage = CandidateFoundMsg{}
	_ AppUIMessage = DetectionDoneMsg{}
)
