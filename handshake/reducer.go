// Copyright (C) 2020-2025, Lux Indutries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package handshake

import "github.com/luxfi/ids"

// EventKind tags the per-peer event alphabet.
type EventKind int

const (
	ReceivedConnect EventKind = iota
	ReceivedMeta
	ReceivedAck
	SendConnectPending
	SendConnectSuccess
	SendConnectError
	SendMetaPending
	SendMetaSuccess
	SendMetaError
	SendAckPending
	SendAckSuccess
	SendAckError
)

// Event is the tagged union Accept consumes. Only the fields relevant
// to Kind are meaningful.
type Event struct {
	Kind EventKind
	Peer ids.NodeID
	At   int64 // nanoseconds since epoch

	ConnMsg *ConnectMessage // ReceivedConnect
	MetaMsg *MetaMessage    // ReceivedMeta
	AckMsg  *AckMessage     // ReceivedAck
}

// EffectKind tags the outbound consequences Accept reports alongside
// the new state.
type EffectKind int

const (
	// EffectGraylist asks the caller to graylist Peer until Until;
	// raised whenever a handshake is abandoned on InvalidMsg.
	EffectGraylist EffectKind = iota
)

type Effect struct {
	Kind  EffectKind
	Peer  ids.NodeID
	Until int64
}

// Config holds the admission-control thresholds and the graylist
// membership check. IsGraylisted may be nil, in which case no peer is
// ever treated as blacklisted.
type Config struct {
	MinConnectedPeers int
	MaxConnectedPeers int
	MaxPendingPeers   int

	// GraylistDuration is how long a peer stays graylisted once
	// InvalidMsg drops its handshake.
	GraylistDuration int64 // nanoseconds

	IsGraylisted func(peer ids.NodeID) (till int64, graylisted bool)
}

type sendTransition struct {
	step StepKind
	from RequestPhase
	to   RequestPhase
}

var sendTransitions = map[EventKind]sendTransition{
	SendConnectPending: {StepConnect, RequestIdle, RequestPending},
	SendConnectSuccess: {StepConnect, RequestPending, RequestSuccess},
	SendConnectError:   {StepConnect, RequestPending, RequestError},
	SendMetaPending:    {StepMetadata, RequestIdle, RequestPending},
	SendMetaSuccess:    {StepMetadata, RequestPending, RequestSuccess},
	SendMetaError:      {StepMetadata, RequestPending, RequestError},
	SendAckPending:     {StepAck, RequestIdle, RequestPending},
	SendAckSuccess:     {StepAck, RequestPending, RequestSuccess},
	SendAckError:       {StepAck, RequestPending, RequestError},
}

// Accept advances s in response to ev, returning the new state and any
// graylist effects it provokes. It never mutates s's maps in place.
func Accept(cfg Config, s State, ev Event) (State, []Effect, error) {
	if s.P2p.Phase == ReadyMaxed {
		return s, nil, ErrMaximumPeersReached
	}
	if cfg.IsGraylisted != nil {
		if till, graylisted := cfg.IsGraylisted(ev.Peer); graylisted {
			next := cloneState(s)
			delete(next.P2p.Pending, ev.Peer)
			return recomputePhase(cfg, next), nil, &ErrPeerBlacklisted{Till: till}
		}
	}

	switch ev.Kind {
	case ReceivedConnect:
		return acceptReceivedConnect(cfg, s, ev)
	case ReceivedMeta:
		return acceptReceivedMeta(cfg, s, ev)
	case ReceivedAck:
		return acceptReceivedAck(cfg, s, ev)
	default:
		return acceptSend(cfg, s, ev)
	}
}

func acceptReceivedConnect(cfg Config, s State, ev Event) (State, []Effect, error) {
	existing, hasEntry := s.P2p.Pending[ev.Peer]
	if hasEntry {
		if existing.Direction == Outgoing && existing.Step.Kind == StepConnect && existing.Step.Sent.Phase == RequestSuccess {
			next := cloneState(s)
			next.P2p.Pending[ev.Peer] = Handshake{
				Direction: Outgoing,
				Step: HandshakeStep{
					Kind:    StepMetadata,
					ConnMsg: ev.ConnMsg,
					Sent:    RequestState{Phase: RequestIdle},
				},
			}
			return recomputePhase(cfg, next), nil, nil
		}
		return dropOnInvalidMsg(cfg, s, ev.Peer, ev.At)
	}

	if s.P2p.Phase == PendingFull || s.P2p.Phase == ReadyFull {
		return s, nil, ErrMaximumPeersReached
	}

	next := cloneState(s)
	next.P2p.Pending[ev.Peer] = Handshake{
		Direction: Incoming,
		Step: HandshakeStep{
			Kind:     StepConnect,
			Sent:     RequestState{Phase: RequestIdle},
			Received: ev.ConnMsg,
		},
	}
	return recomputePhase(cfg, next), nil, nil
}

func acceptReceivedMeta(cfg Config, s State, ev Event) (State, []Effect, error) {
	existing, hasEntry := s.P2p.Pending[ev.Peer]
	if !hasEntry {
		return dropOnInvalidMsg(cfg, s, ev.Peer, ev.At)
	}

	step := existing.Step
	switch {
	case existing.Direction == Outgoing && step.Kind == StepMetadata && step.Sent.Phase == RequestSuccess:
		next := cloneState(s)
		next.P2p.Pending[ev.Peer] = Handshake{
			Direction: Outgoing,
			Step: HandshakeStep{
				Kind:    StepAck,
				ConnMsg: step.ConnMsg,
				MetaMsg: ev.MetaMsg,
				Sent:    RequestState{Phase: RequestIdle},
			},
		}
		return recomputePhase(cfg, next), nil, nil

	case existing.Direction == Incoming && step.Kind == StepConnect && step.Sent.Phase == RequestSuccess && step.Received != nil:
		next := cloneState(s)
		next.P2p.Pending[ev.Peer] = Handshake{
			Direction: Incoming,
			Step: HandshakeStep{
				Kind:         StepMetadata,
				ConnMsg:      step.Received,
				Sent:         RequestState{Phase: RequestIdle},
				MetaReceived: ev.MetaMsg,
			},
		}
		return recomputePhase(cfg, next), nil, nil

	default:
		return dropOnInvalidMsg(cfg, s, ev.Peer, ev.At)
	}
}

func acceptReceivedAck(cfg Config, s State, ev Event) (State, []Effect, error) {
	if ev.AckMsg == nil || ev.AckMsg.Kind != AckOK {
		// Nack/NackV0 is handled as InvalidMsg: the sender is dropped
		// and graylisted, and any peer list it carries is not read.
		return dropOnInvalidMsg(cfg, s, ev.Peer, ev.At)
	}

	existing, hasEntry := s.P2p.Pending[ev.Peer]
	if !hasEntry {
		return dropOnInvalidMsg(cfg, s, ev.Peer, ev.At)
	}

	step := existing.Step
	switch {
	case existing.Direction == Outgoing && step.Kind == StepAck && step.Sent.Phase == RequestSuccess:
		next := cloneState(s)
		delete(next.P2p.Pending, ev.Peer)
		next.Connected[ev.Peer] = ConnectedPeer{ConnectedSince: ev.At}
		return recomputePhase(cfg, next), nil, nil

	case existing.Direction == Incoming && step.Kind == StepMetadata && step.Sent.Phase == RequestSuccess && step.MetaReceived != nil:
		next := cloneState(s)
		next.P2p.Pending[ev.Peer] = Handshake{
			Direction: Incoming,
			Step: HandshakeStep{
				Kind:        StepAck,
				ConnMsg:     step.ConnMsg,
				MetaMsg:     step.MetaReceived,
				Sent:        RequestState{Phase: RequestIdle},
				AckReceived: true,
			},
		}
		return recomputePhase(cfg, next), nil, nil

	default:
		return dropOnInvalidMsg(cfg, s, ev.Peer, ev.At)
	}
}

func acceptSend(cfg Config, s State, ev Event) (State, []Effect, error) {
	t, known := sendTransitions[ev.Kind]
	if !known {
		return dropOnInvalidMsg(cfg, s, ev.Peer, ev.At)
	}

	existing, hasEntry := s.P2p.Pending[ev.Peer]
	if !hasEntry || existing.Step.Kind != t.step || existing.Step.Sent.Phase != t.from {
		return dropOnInvalidMsg(cfg, s, ev.Peer, ev.At)
	}

	newStep := existing.Step
	newStep.Sent = RequestState{Phase: t.to, At: ev.At}

	// The Ack variant terminates an Incoming handshake by promoting it
	// straight to connected_peers: the answering side reaches StepAck
	// only after ReceivedAck, so its own successful Ack send is the last
	// step.
	if t.step == StepAck && t.to == RequestSuccess && existing.Direction == Incoming {
		next := cloneState(s)
		delete(next.P2p.Pending, ev.Peer)
		next.Connected[ev.Peer] = ConnectedPeer{ConnectedSince: ev.At}
		return recomputePhase(cfg, next), nil, nil
	}

	next := cloneState(s)
	next.P2p.Pending[ev.Peer] = Handshake{Direction: existing.Direction, Step: newStep}
	return recomputePhase(cfg, next), nil, nil
}

// dropOnInvalidMsg removes peer's handshake (if any) and asks the
// caller to graylist it, per the rule that InvalidMsg and
// PeerBlacklisted both cause removal from pending plus graylisting.
func dropOnInvalidMsg(cfg Config, s State, peer ids.NodeID, at int64) (State, []Effect, error) {
	next := cloneState(s)
	delete(next.P2p.Pending, peer)
	return recomputePhase(cfg, next), []Effect{{
		Kind:  EffectGraylist,
		Peer:  peer,
		Until: at + cfg.GraylistDuration,
	}}, ErrInvalidMsg
}

func cloneState(s State) State {
	pending := make(map[ids.NodeID]Handshake, len(s.P2p.Pending))
	for k, v := range s.P2p.Pending {
		pending[k] = v
	}
	connected := make(map[ids.NodeID]ConnectedPeer, len(s.Connected))
	for k, v := range s.Connected {
		connected[k] = v
	}
	return State{P2p: P2pState{Phase: s.P2p.Phase, Pending: pending}, Connected: connected}
}

func recomputePhase(cfg Config, s State) State {
	pendingCount := len(s.P2p.Pending)
	connectedCount := len(s.Connected)

	switch {
	case cfg.MaxConnectedPeers > 0 && connectedCount >= cfg.MaxConnectedPeers:
		s.P2p.Phase = ReadyMaxed
	case connectedCount >= cfg.MinConnectedPeers:
		if cfg.MaxPendingPeers > 0 && pendingCount >= cfg.MaxPendingPeers {
			s.P2p.Phase = ReadyFull
		} else {
			s.P2p.Phase = Ready
		}
	default:
		if cfg.MaxPendingPeers > 0 && pendingCount >= cfg.MaxPendingPeers {
			s.P2p.Phase = PendingFull
		} else {
			s.P2p.Phase = Pending
		}
	}
	return s
}
