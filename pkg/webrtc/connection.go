package webrtc

import (
	"fmt"
	"log"
	"sync"

	"github.com/pion/ice/v4"
	"github.com/pion/webrtc/v4"
)

// GatherSession is one local ICE gathering run. Handlers must be registered before Start.
type GatherSession interface {
	// OnCandidate is called with the raw "candidate:..." line of every local candidate.
	OnCandidate(f func(line string))
	// OnGatheringComplete is called once when no further candidates will be produced.
	OnGatheringComplete(f func())
	// Start kicks off gathering. Setup failures are returned, not reported through handlers.
	Start() error
	Close() error
}

// Gatherer creates gathering sessions.
type Gatherer interface {
	NewGatherSession(config Config) (GatherSession, error)
}

const (
	MTU uint = 1400
)

// Config holds the configuration for creating a new session.
type Config struct {
	ICEServers []webrtc.ICEServer
}

// Settings tunes the underlying ICE agent for every session created by a WebRTCAPI.
type Settings struct {
	// IncludeLoopback gathers 127.0.0.0/8 host candidates, which pion skips by default.
	IncludeLoopback bool
}

type WebRTCAPI struct {
	api *webrtc.API
}

func NewWebRTCAPI(s Settings) *WebRTCAPI {
	settings := webrtc.SettingEngine{}
	// Host candidates must carry literal addresses, not .local names.
	settings.SetICEMulticastDNSMode(ice.MulticastDNSModeDisabled)
	settings.SetIncludeLoopbackCandidate(s.IncludeLoopback)
	settings.SetReceiveMTU(MTU)

	api := webrtc.NewAPI(webrtc.WithSettingEngine(settings))
	return &WebRTCAPI{
		api: api,
	}
}

func (a *WebRTCAPI) createPeerconnection(config Config) (*webrtc.PeerConnection, error) {
	if len(config.ICEServers) == 0 {
		config.ICEServers = append(config.ICEServers, webrtc.ICEServer{
			URLs: []string{"stun:stun.l.google.com:19302"},
		})
	}
	return a.api.NewPeerConnection(webrtc.Configuration{
		ICEServers: config.ICEServers,
	})
}

// NewGatherSession creates a peer connection used only for local candidate gathering.
func (a *WebRTCAPI) NewGatherSession(config Config) (GatherSession, error) {
	pc, err := a.createPeerconnection(config)
	if err != nil {
		err = fmt.Errorf("failed to create peer connection: %w", err)
		log.Printf("[NewGatherSession] %v", err)
		return nil, err
	}
	return &Connection{peerConnection: pc}, nil
}

// Connection wraps a single WebRTC peer connection used for gathering.
type Connection struct {
	peerConnection *webrtc.PeerConnection
	closeOnce      sync.Once
	closeErr       error
}

func (c *Connection) OnCandidate(f func(line string)) {
	c.peerConnection.OnICECandidate(func(candidate *webrtc.ICECandidate) {
		// nil marks the end of gathering; OnGatheringComplete covers it.
		if candidate == nil {
			return
		}
		f(candidate.ToJSON().Candidate)
	})
}

func (c *Connection) OnGatheringComplete(f func()) {
	c.peerConnection.OnICEGatheringStateChange(func(state webrtc.ICEGatheringState) {
		if state == webrtc.ICEGatheringStateComplete {
			f()
		}
	})
}

// Start opens a placeholder data channel, then creates and applies a local offer,
// which is what makes pion start gathering.
func (c *Connection) Start() error {
	if _, err := c.peerConnection.CreateDataChannel("", nil); err != nil {
		err = fmt.Errorf("fail to create data channel %w", err)
		log.Printf("[Start] %v", err)
		return err
	}
	offer, err := c.peerConnection.CreateOffer(nil)
	if err != nil {
		err = fmt.Errorf("fail to createOffer %w", err)
		log.Printf("[Start] %v", err)
		return err
	}
	if err := c.peerConnection.SetLocalDescription(offer); err != nil {
		err = fmt.Errorf("fail to set local description %w", err)
		log.Printf("[Start] %v", err)
		return err
	}
	return nil
}

// Close releases the peer connection. Calling it more than once is safe.
func (c *Connection) Close() error {
	c.closeOnce.Do(func() {
		if c.peerConnection != nil {
			log.Printf("Closing webrtc connection")
			c.closeErr = c.peerConnection.Close()
		}
	})
	return c.closeErr
}
