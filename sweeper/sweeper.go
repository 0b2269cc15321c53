// Copyright (C) 2020-2025, Lux Indutries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package sweeper runs the per-dispatch-round timeout sweep: it walks
// every peer's coarse connection phase and the graylist, and reports
// what the kernel should do about each as a list of pure events. It
// performs no I/O and owns no peer state itself.
package sweeper

import "github.com/luxfi/ids"

// PeerPhase is a peer's coarse connection-lifecycle phase, distinct
// from the finer-grained handshake step bookkeeping in package
// handshake.
type PeerPhase int

const (
	Connecting PeerPhase = iota
	Handshaking
	Handshaked
	Potential
	Disconnecting
	Disconnected
)

// Reference defaults for a Handshaked peer's two clocks, matching the
// upstream shell's hardcoded values. Config carries these as tunables
// rather than baking them in, but callers that don't care can start
// from these.
const (
	DefaultHandshakedStaleHeadTimeoutNanos = int64(120) * 1e9
	DefaultHandshakedInitialGraceNanos     = int64(8) * 1e9
)

// PeerRecord is one peer's sweep-relevant bookkeeping.
type PeerRecord struct {
	Phase PeerPhase
	Since int64 // nanoseconds since epoch, when Phase was entered

	// Handshaking.
	Status string

	// Handshaked.
	CurrentHeadLastUpdate    *int64 // nil means no head update observed yet
	HandshakedSince          int64
	PotentialPeersGetPending bool
	PotentialPeersGetSentAt  int64
}

// EventKind tags the sweep's outbound event union.
type EventKind int

const (
	ConnectionErrorTimeout EventKind = iota
	HandshakingErrorTimeout
	Disconnect
	PotentialPeersGetErrorTimeout
)

type Event struct {
	Kind   EventKind
	Peer   ids.NodeID
	Status string // HandshakingErrorTimeout only
}

// Config holds the tunable per-phase deadlines.
type Config struct {
	PeerConnectingTimeout         int64 // nanoseconds
	PeerHandshakingTimeout        int64 // nanoseconds
	PeerPotentialPeersGetTimeout  int64 // nanoseconds
	HandshakedStaleHeadTimeout    int64 // nanoseconds
	HandshakedInitialGraceTimeout int64 // nanoseconds
}

// Sweep walks peers and reports the timeout events now provokes. It
// never mutates peers; the caller applies Event-driven transitions
// through the normal reducers.
func Sweep(cfg Config, peers map[ids.NodeID]PeerRecord, now int64) []Event {
	var events []Event
	for peer, rec := range peers {
		switch rec.Phase {
		case Connecting:
			if now >= rec.Since+cfg.PeerConnectingTimeout {
				events = append(events, Event{Kind: ConnectionErrorTimeout, Peer: peer})
			}

		case Handshaking:
			if now >= rec.Since+cfg.PeerHandshakingTimeout {
				events = append(events, Event{Kind: HandshakingErrorTimeout, Peer: peer, Status: rec.Status})
			}

		case Handshaked:
			switch {
			case rec.CurrentHeadLastUpdate != nil:
				if now-*rec.CurrentHeadLastUpdate >= cfg.HandshakedStaleHeadTimeout {
					events = append(events, Event{Kind: Disconnect, Peer: peer})
				}
			case now-rec.HandshakedSince >= cfg.HandshakedInitialGraceTimeout:
				events = append(events, Event{Kind: Disconnect, Peer: peer})
			}
			if rec.PotentialPeersGetPending && now >= rec.PotentialPeersGetSentAt+cfg.PeerPotentialPeersGetTimeout {
				events = append(events, Event{Kind: PotentialPeersGetErrorTimeout, Peer: peer})
			}

		case Potential, Disconnecting, Disconnected:
			// No deadlines apply.
		}
	}
	return events
}
