// Copyright (C) 2020-2025, Lux Indutries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package baker runs the per-validator block-baker pipeline: from
// baking-rights discovery through scheduling, preapply, operation-path
// computation and the final storage/apply handoff.
package baker

import (
	"github.com/luxfi/ids"

	"github.com/luxfi/shellbake/services"
)

// Phase tags the pipeline's current stage. Transitions are append-only
// along the order below, except Idle and NoRights which reset only on
// a new head.
type Phase int

const (
	Idle Phase = iota
	RightsGetPending
	RightsGetSuccess
	NoRights
	TimeoutPending
	BakeNextRound
	BakeNextLevel
	PreapplyPending
	PreapplySuccess
	ComputeOperationsPathsPending
	ComputeOperationsPathsSuccess
)

// Slot is the wall-clock deadline, in nanoseconds since epoch, at which
// a baker must start a given round.
type Slot struct {
	Round        int
	TimeoutNanos int64
}

// ElectedBlock is set exactly when a mempool quorum for the current
// head is observed: the candidate to extend at the next level.
type ElectedBlock struct {
	Block                services.PreapplyResult
	Round                int
	PayloadHash          ids.ID
	Operations           [][]ids.ID
	NonConsensusOpHashes []ids.ID
	Level                uint64
}

// State is one baker identity's pipeline state for the current head.
// Only one of the phase-specific field groups below is meaningful,
// selected by Phase.
type State struct {
	Phase Phase

	// RightsGetPending / RightsGetSuccess.
	Slots              []int // current level's bakeable slots, sorted
	NextSlots          []int // next level's bakeable slots, sorted
	PredTimestampNanos int64 // predecessor block's timestamp, fixed for the level

	// TimeoutPending.
	NextRound *Slot
	NextLevel *Slot

	// BakeNextRound / BakeNextLevel.
	BakeRound      int
	BlockTimestamp int64 // unix seconds

	// PreapplyPending.
	PreapplyRequest *BlockPreapplyRequest

	// PreapplySuccess / ComputeOperationsPathsPending / Success.
	Block      *services.PreapplyResult
	Operations [][]ids.ID
	Token      uint64
	Paths      [][]byte

	ElectedBlock *ElectedBlock
}

// BlockPreapplyRequest is the exact field set and order the protocol
// runner and the wire encoder expect.
type BlockPreapplyRequest struct {
	PayloadHash               ids.ID
	PayloadRound              int
	ProofOfWorkNonce          [8]byte
	SeedNonceHash             *ids.ID
	LiquidityBakingEscapeVote bool
	Timestamp                 int64 // unix seconds, not serialized
	Operations                [][]ids.ID
}

// IsIdle reports whether the pipeline is at rest, waiting for a new
// head before it does anything.
func (s State) IsIdle() bool {
	return s.Phase == Idle
}
