// Copyright (C) 2020-2025, Lux Indutries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package consensus

import (
	"github.com/luxfi/ids"
)

// Level is a strictly increasing block height.
type Level uint64

// BlockId identifies a proposal inside a level: its round and the hash
// of its opaque payload.
type BlockId struct {
	Level       Level
	Round       int
	PayloadHash ids.ID
}

// Less orders two BlockIds the way the tie-break rule needs: by
// lexicographically smaller payload hash, for candidates that otherwise
// share a (level, round).
func (b BlockId) Less(other BlockId) bool {
	return b.PayloadHash.Compare(other.PayloadHash) < 0
}

// BlockInfo is a candidate head: its identity plus the opaque payload
// validators act on. Payload is generic because the core never
// interprets its contents, only moves it around and hashes it for
// BlockId comparisons.
type BlockInfo[P any] struct {
	Id        BlockId
	Timestamp int64 // unix seconds
	Payload   P
}

// Proposal is a candidate head together with its predecessor's timing,
// from which the start of the proposal's level is derived.
type Proposal[P any] struct {
	PredTimestamp int64 // unix seconds
	PredRound     int
	Head          BlockInfo[P]
}

// StartOfLevel returns the wall-clock instant (unix seconds) at which
// round 0 of p's level begins, given the round-duration schedule.
func (p Proposal[P]) StartOfLevel(minimalBlockDelay, delayIncrementPerRound float64) float64 {
	return float64(p.PredTimestamp) + Duration(minimalBlockDelay, delayIncrementPerRound, p.PredRound)
}

// LocalRound returns the round in progress, from this node's own clock,
// for the level p belongs to.
func (p Proposal[P]) LocalRound(minimalBlockDelay, delayIncrementPerRound float64, now int64) int {
	start := p.StartOfLevel(minimalBlockDelay, delayIncrementPerRound)
	return RoundAt(minimalBlockDelay, delayIncrementPerRound, float64(now)-start)
}

// Preendorsement is a validator's vote for a candidate block ahead of
// endorsement proper.
type Preendorsement struct {
	Validator ids.NodeID
	BlockId   BlockId
}

// Endorsement is a validator's vote that finalizes a block once a
// quorum of them is observed.
type Endorsement struct {
	Validator ids.NodeID
	BlockId   BlockId
}

// Event is the tagged union of inputs the driver accepts. Exactly one
// of the typed fields is meaningful per Kind.
type EventKind int

const (
	EventProposal EventKind = iota
	EventPreendorsement
	EventEndorsement
	EventTimeout
	EventPayloadItem
)

// Action is the tagged union of outputs the driver emits in response to
// an Event. Exactly one of the typed fields is meaningful per Kind.
type ActionKind int

const (
	ActionScheduleTimeout ActionKind = iota
	ActionPreendorse
	ActionEndorse
	ActionPropose
)

// Action carries one outbound effect. At most a live schedule-timeout
// exists at a time; a fresh ActionScheduleTimeout overwrites it.
type Action[P any] struct {
	Kind ActionKind

	ScheduleAt int64 // ActionScheduleTimeout: unix seconds

	PredHash ids.ID  // ActionPreendorse / ActionEndorse
	BlockId  BlockId // ActionPreendorse / ActionEndorse

	Block *BlockInfo[P] // ActionPropose
}
