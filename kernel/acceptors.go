// Copyright (C) 2020-2025, Lux Indutries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package kernel

import (
	"fmt"
	"sync"

	"github.com/luxfi/shellbake/baker"
	"github.com/luxfi/shellbake/consensus"
	"github.com/luxfi/shellbake/handshake"
)

// ConsensusAcceptor adapts a *consensus.Driver to the kernel's Acceptor
// contract. The driver already owns its own mutex and state; this
// wrapper only does the Payload type assertion and Action-to-Effect
// flattening.
type ConsensusAcceptor[P any, I any] struct {
	Driver *consensus.Driver[P, I]
}

func (a ConsensusAcceptor[P, I]) Accept(p Proposal) ([]Effect, error) {
	ev, ok := p.Payload.(consensus.Event[P, I])
	if !ok {
		return nil, fmt.Errorf("kernel: consensus acceptor got %T, want consensus.Event", p.Payload)
	}
	actions, err := a.Driver.Accept(ev)
	if err != nil {
		return nil, err
	}
	effects := make([]Effect, len(actions))
	for i, act := range actions {
		effects[i] = act
	}
	return effects, nil
}

// BakerAcceptor owns one baker identity's pipeline state and adapts
// the pure baker.Accept reducer to the kernel's Acceptor contract.
type BakerAcceptor struct {
	mu    sync.Mutex
	cfg   baker.Config
	state baker.State
}

// NewBakerAcceptor returns a BakerAcceptor starting from an idle
// state.
func NewBakerAcceptor(cfg baker.Config) *BakerAcceptor {
	return &BakerAcceptor{cfg: cfg}
}

// State returns a snapshot of the current pipeline state.
func (a *BakerAcceptor) State() baker.State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

func (a *BakerAcceptor) Accept(p Proposal) ([]Effect, error) {
	in, ok := p.Payload.(baker.Input)
	if !ok {
		return nil, fmt.Errorf("kernel: baker acceptor got %T, want baker.Input", p.Payload)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	next, out, err := baker.Accept(a.cfg, a.state, in)
	if err != nil {
		return nil, err
	}
	a.state = next

	effects := make([]Effect, len(out))
	for i, e := range out {
		effects[i] = e
	}
	return effects, nil
}

// HandshakeAcceptor owns the peer table for one handshake domain
// (typically the whole node) and adapts handshake.Accept to the
// kernel's Acceptor contract.
type HandshakeAcceptor struct {
	mu    sync.Mutex
	cfg   handshake.Config
	state handshake.State
}

// NewHandshakeAcceptor returns a HandshakeAcceptor starting from an
// empty peer table.
func NewHandshakeAcceptor(cfg handshake.Config) *HandshakeAcceptor {
	return &HandshakeAcceptor{cfg: cfg, state: handshake.NewState()}
}

// State returns a snapshot of the current peer table.
func (a *HandshakeAcceptor) State() handshake.State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

func (a *HandshakeAcceptor) Accept(p Proposal) ([]Effect, error) {
	ev, ok := p.Payload.(handshake.Event)
	if !ok {
		return nil, fmt.Errorf("kernel: handshake acceptor got %T, want handshake.Event", p.Payload)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	next, out, err := handshake.Accept(a.cfg, a.state, ev)
	a.state = next // handshake.Accept returns the state to keep even on rejection (an InvalidMsg or graylisted peer is removed from pending).
	if err != nil {
		return nil, err
	}

	effects := make([]Effect, len(out))
	for i, e := range out {
		effects[i] = e
	}
	return effects, nil
}
