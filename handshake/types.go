// Copyright (C) 2020-2025, Lux Indutries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package handshake runs the per-peer three-message handshake (connect,
// metadata, ack) that promotes a dialed or dialing-in address from the
// pending set to the connected set, and the P2pState bookkeeping that
// caps how many of each are in flight.
package handshake

import "github.com/luxfi/ids"

// RequestPhase tags one side of an in-flight send.
type RequestPhase int

const (
	RequestIdle RequestPhase = iota
	RequestPending
	RequestSuccess
	RequestError
)

// RequestState is our local send-side progress for one handshake step.
type RequestState struct {
	Phase RequestPhase
	At    int64 // nanoseconds since epoch
}

// StepKind tags which message a HandshakeStep is carrying.
type StepKind int

const (
	StepConnect StepKind = iota
	StepMetadata
	StepAck
)

// ConnectMessage, MetaMessage and AckMessage are opaque wire payloads;
// their binary layout is the transport's business, not this package's.
type ConnectMessage struct {
	Payload []byte
}

type MetaMessage struct {
	Payload []byte
}

// AckKind distinguishes a genuine Ack from the two reject variants a
// peer may send back instead.
type AckKind int

const (
	AckOK AckKind = iota
	AckNack
	AckNackV0
)

type AckMessage struct {
	Kind AckKind
	// PeerList is only meaningful for AckNack/AckNackV0.
	PeerList []ids.NodeID
}

// HandshakeStep is the closed per-phase progress record: exactly one of
// Connect, Metadata or Ack semantics applies, selected by Kind.
type HandshakeStep struct {
	Kind StepKind
	Sent RequestState

	// StepConnect.
	Received *ConnectMessage

	// StepMetadata / StepAck: the connect message this step was built
	// from.
	ConnMsg *ConnectMessage

	// StepMetadata.
	MetaReceived *MetaMessage

	// StepAck.
	MetaMsg     *MetaMessage
	AckReceived bool
}

// Direction records who dialed: Outgoing means we initiated, so at
// StepConnect we have nothing received yet.
type Direction int

const (
	Incoming Direction = iota
	Outgoing
)

// Handshake is one peer's in-flight negotiation.
type Handshake struct {
	Direction Direction
	Step      HandshakeStep
}

// P2pPhase tags the admission-control state of the whole peer set.
type P2pPhase int

const (
	Pending P2pPhase = iota
	PendingFull
	Ready
	ReadyFull
	ReadyMaxed
)

// P2pState holds every peer mid-handshake, keyed by address, plus the
// phase those counts put us in. *Full variants refuse new incoming
// peers; ReadyMaxed refuses all activity.
type P2pState struct {
	Phase   P2pPhase
	Pending map[ids.NodeID]Handshake
}

// ConnectedPeer is a peer that has finished the handshake.
type ConnectedPeer struct {
	ConnectedSince int64 // nanoseconds since epoch
}

// State is the full peer bookkeeping the handshake reducer owns. A peer
// is at most in one of P2p.Pending or Connected.
type State struct {
	P2p       P2pState
	Connected map[ids.NodeID]ConnectedPeer
}

// NewState returns an empty, Pending-phase peer table.
func NewState() State {
	return State{
		P2p:       P2pState{Phase: Pending, Pending: make(map[ids.NodeID]Handshake)},
		Connected: make(map[ids.NodeID]ConnectedPeer),
	}
}
