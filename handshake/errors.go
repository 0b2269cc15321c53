// Copyright (C) 2020-2025, Lux Indutries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package handshake

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidMsg means the event arrived for a peer/step combination
	// the transition table has no rule for. The peer is dropped from
	// pending and graylisted.
	ErrInvalidMsg = errors.New("handshake: invalid message for current step")

	// ErrMaximumPeersReached rejects a new incoming peer while the
	// P2pState is in a *Full or ReadyMaxed phase. Transient: it clears
	// once a slot frees up.
	ErrMaximumPeersReached = errors.New("handshake: maximum peers reached")
)

// ErrPeerBlacklisted rejects every event from a graylisted peer until
// Till.
type ErrPeerBlacklisted struct {
	Till int64 // nanoseconds since epoch
}

func (e *ErrPeerBlacklisted) Error() string {
	return fmt.Sprintf("handshake: peer blacklisted until %d", e.Till)
}
