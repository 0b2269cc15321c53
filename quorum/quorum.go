// Copyright (C) 2020-2025, Lux Indutries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package quorum tallies weighted votes toward a threshold. It keeps a
// mutex-guarded per-candidate running power tally rather than
// re-summing on every read, generalized from a single yes/no outcome to
// many candidate outcomes sharing one ballot box, which is what a
// consensus round needs: every validator names a candidate BlockId, and
// the quorum is reached by whichever candidate's summed power first
// crosses the threshold.
package quorum

import (
	"errors"
	"sync"

	"github.com/luxfi/ids"

	"github.com/luxfi/shellbake/utils/bag"
)

// ErrDuplicateVote is returned when a validator that already voted in
// this ballot box casts another vote, for the same or a different
// candidate: a validator contributes at most one vote of a given kind
// per (level, round).
var ErrDuplicateVote = errors.New("quorum: duplicate vote")

// Ballot tallies one validator-per-candidate vote set against a fixed
// weight threshold. One Ballot exists per (level, round) per vote kind
// (pre-endorsement or endorsement); the zero value is not usable, use
// NewBallot.
type Ballot struct {
	mu        sync.Mutex
	threshold uint64
	votedBy   map[ids.NodeID]ids.ID // nodeID -> candidate already voted for
	power     bag.Bag[ids.ID]       // candidate -> summed power, weighted by validator power
}

// NewBallot returns a ballot box that reaches quorum once a single
// candidate's summed power is >= threshold.
func NewBallot(threshold uint64) *Ballot {
	return &Ballot{
		threshold: threshold,
		votedBy:   make(map[ids.NodeID]ids.ID),
		power:     bag.New[ids.ID](),
	}
}

// Add records nodeID's vote for candidate with the given power. It
// returns the candidate's new summed power, whether that crossed the
// threshold for the first time, and an error if nodeID already voted.
func (b *Ballot) Add(nodeID ids.NodeID, candidate ids.ID, power uint64) (summed uint64, reached bool, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.votedBy[nodeID]; ok {
		return 0, false, ErrDuplicateVote
	}

	b.votedBy[nodeID] = candidate
	before := uint64(b.power.Count(candidate))
	b.power.AddCount(candidate, int(power))
	after := uint64(b.power.Count(candidate))

	return after, before < b.threshold && after >= b.threshold, nil
}

// Power returns the current summed power behind candidate.
func (b *Ballot) Power(candidate ids.ID) uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return uint64(b.power.Count(candidate))
}

// Voted reports whether nodeID has already cast a vote in this ballot.
func (b *Ballot) Voted(nodeID ids.NodeID) (candidate ids.ID, ok bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	candidate, ok = b.votedBy[nodeID]
	return
}

// Len returns the number of distinct validators that have voted.
func (b *Ballot) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.votedBy)
}
