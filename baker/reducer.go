// Copyright (C) 2020-2025, Lux Indutries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package baker

import (
	"sort"

	"github.com/luxfi/ids"

	"github.com/luxfi/shellbake/services"
)

// InputKind tags the pipeline reducer's input union.
type InputKind int

const (
	InputHeadUpdate InputKind = iota
	InputRightsGetSuccess
	InputRightsGetNoRights
	InputTimeoutDue
	InputMempoolQuorumReached
	InputPreapplySuccess
	InputComputeOperationsPathsSuccess
	InputBlockApplierApplySuccess
)

// Input is the tagged union the reducer accepts. Only the fields
// relevant to Kind are meaningful.
type Input struct {
	Kind InputKind

	// InputHeadUpdate.
	Level         uint64
	HeadHash      ids.ID
	PredTimestamp int64 // unix seconds

	// InputRightsGetSuccess.
	Slots     []int
	NextSlots []int

	// InputTimeoutDue.
	NowNanos int64

	// InputMempoolQuorumReached.
	QuorumRound       int
	QuorumPayloadHash ids.ID
	QuorumOperations  [][]ids.ID

	// InputPreapplySuccess.
	PreapplyBlockHash  ids.ID
	PreapplyOperations [][]ids.ID

	// InputComputeOperationsPathsSuccess.
	Paths [][]byte

	// InputBlockApplierApplySuccess.
	Applied []AppliedOperation
}

// EffectKind tags the outbound service calls the reducer's effects
// phase produces.
type EffectKind int

const (
	EffectRightsGet EffectKind = iota
	EffectPreapply
	EffectComputeOperationsPaths
	EffectStorageBlockHeaderPut
	EffectStorageBlockOperationsPut
	EffectBlockApplierEnqueue
)

// Effect is one outbound call the caller must issue against the
// services package's interfaces; the reducer never calls them itself.
type Effect struct {
	Kind EffectKind

	HeadHash ids.ID
	Level    uint64

	Request *BlockPreapplyRequest

	BlockHash  ids.ID
	Operations [][]ids.ID

	Pass int
	Path []byte
}

// Config is the subset of the node's tunables the baker reducer needs.
type Config struct {
	MinimalBlockDelay      float64 // seconds
	DelayIncrementPerRound float64 // seconds
	ConsensusCommitteeSize int
	QuorumDelayDivisor     int
}

// Accept advances s in response to in, returning the new state and the
// outbound effects it provokes. It never mutates s in place.
func Accept(cfg Config, s State, in Input) (State, []Effect, error) {
	switch in.Kind {
	case InputHeadUpdate:
		return State{
			Phase:              RightsGetPending,
			PredTimestampNanos: in.PredTimestamp * 1e9,
		}, []Effect{{
			Kind:     EffectRightsGet,
			HeadHash: in.HeadHash,
			Level:    in.Level,
		}}, nil

	case InputRightsGetSuccess:
		next := s
		next.Phase = RightsGetPending
		if in.Slots != nil {
			next.Slots = sortedCopy(in.Slots)
		}
		if in.NextSlots != nil {
			next.NextSlots = sortedCopy(in.NextSlots)
		}
		if next.Slots == nil || next.NextSlots == nil {
			return next, nil, nil
		}
		if len(next.Slots) == 0 && len(next.NextSlots) == 0 {
			return State{Phase: NoRights}, nil, nil
		}
		next.Phase = RightsGetSuccess
		return next, nil, nil

	case InputRightsGetNoRights:
		return State{Phase: NoRights}, nil, nil

	case InputTimeoutDue:
		return acceptTimeoutDue(cfg, s, in)

	case InputMempoolQuorumReached:
		next := s
		next.ElectedBlock = &ElectedBlock{
			Round:       in.QuorumRound,
			PayloadHash: in.QuorumPayloadHash,
			Operations:  in.QuorumOperations,
			Level:       in.Level,
		}
		return next, nil, nil

	case InputPreapplySuccess:
		if s.Phase != PreapplyPending {
			return s, nil, ErrUnexpectedPhase
		}
		next := s
		// PreapplySuccess immediately provokes ComputeOperationsPaths: there
		// is nothing further to wait for, so the reducer advances straight
		// on to ComputeOperationsPathsPending instead of parking at the
		// intermediate phase.
		next.Phase = ComputeOperationsPathsPending
		next.Block = &services.PreapplyResult{
			BlockHash:  in.PreapplyBlockHash,
			Operations: in.PreapplyOperations,
		}
		next.Operations = in.PreapplyOperations
		return next, []Effect{{
			Kind:       EffectComputeOperationsPaths,
			BlockHash:  in.PreapplyBlockHash,
			Operations: in.PreapplyOperations,
		}}, nil

	case InputComputeOperationsPathsSuccess:
		if s.Phase != ComputeOperationsPathsPending {
			return s, nil, ErrUnexpectedPhase
		}
		next := s
		next.Phase = ComputeOperationsPathsSuccess
		next.Paths = in.Paths
		return next, storageEffects(next), nil

	case InputBlockApplierApplySuccess:
		if s.ElectedBlock == nil || len(s.ElectedBlock.Operations) > 0 {
			return s, nil, nil
		}
		next := s
		passes, nonConsensus := Partition(in.Applied)
		ops := make([][]ids.ID, len(passes))
		for i := range passes {
			ops[i] = passes[i]
		}
		elected := *s.ElectedBlock
		elected.Operations = ops
		elected.NonConsensusOpHashes = nonConsensus
		next.ElectedBlock = &elected
		return next, nil, nil

	default:
		return s, nil, nil
	}
}

// sortedCopy returns a sorted copy of s that preserves non-nilness: an
// explicitly empty (non-nil) input must stay distinguishable from a
// field that was never set at all.
func sortedCopy(s []int) []int {
	cp := make([]int, len(s))
	copy(cp, s)
	sort.Ints(cp)
	return cp
}

func acceptTimeoutDue(cfg Config, s State, in Input) (State, []Effect, error) {
	if s.Phase != RightsGetSuccess && s.Phase != TimeoutPending {
		return s, nil, nil
	}

	currentRound := 0
	if s.BakeRound != 0 {
		currentRound = s.BakeRound
	}

	nextRound, haveNextRound := NextRoundSlot(
		cfg.MinimalBlockDelay, cfg.DelayIncrementPerRound, cfg.ConsensusCommitteeSize,
		currentRound, s.PredTimestampNanos, s.Slots,
	)
	nextLevel, haveNextLevel := NextLevelSlot(
		cfg.MinimalBlockDelay, cfg.DelayIncrementPerRound,
		currentRound, s.PredTimestampNanos, s.NextSlots,
	)

	next := s
	next.Phase = TimeoutPending
	if haveNextRound {
		next.NextRound = &nextRound
	}
	if haveNextLevel {
		next.NextLevel = &nextLevel
	}

	if haveNextLevel && s.ElectedBlock != nil && in.NowNanos >= nextLevel.TimeoutNanos {
		return bakeInto(next, nextLevel, s.ElectedBlock), []Effect{{
			Kind:    EffectPreapply,
			Request: preapplyRequest(nextLevel, s.ElectedBlock),
		}}, nil
	}

	if !haveNextRound {
		return next, nil, nil
	}

	due := nextRound.TimeoutNanos
	if s.ElectedBlock != nil {
		due += QuorumDelayNanos(cfg.MinimalBlockDelay, cfg.QuorumDelayDivisor)
	}
	if in.NowNanos >= due {
		return bakeInto(next, nextRound, s.ElectedBlock), []Effect{{
			Kind:    EffectPreapply,
			Request: preapplyRequest(nextRound, s.ElectedBlock),
		}}, nil
	}
	return next, nil, nil
}

// bakeInto applies the PreapplyInit edge: BakeNextRound/BakeNextLevel is a
// decision, not a wait state, so the reducer carries it straight through to
// PreapplyPending in the same step once the request is assembled.
func bakeInto(next State, slot Slot, elected *ElectedBlock) State {
	next.BakeRound = slot.Round
	next.BlockTimestamp = slot.TimeoutNanos / 1e9
	next.Phase = PreapplyPending
	next.PreapplyRequest = preapplyRequest(slot, elected)
	return next
}

// preapplyRequest assembles the protocol-runner request for slot, carrying
// forward the elected block's payload when one is already committed by
// quorum (BakeNextLevel always has one; BakeNextRound may not).
func preapplyRequest(slot Slot, elected *ElectedBlock) *BlockPreapplyRequest {
	req := &BlockPreapplyRequest{
		PayloadRound: slot.Round,
		Timestamp:    slot.TimeoutNanos / 1e9,
	}
	if elected != nil {
		req.PayloadHash = elected.PayloadHash
		req.Operations = elected.Operations
	}
	return req
}

func storageEffects(s State) []Effect {
	effects := make([]Effect, 0, len(s.Operations)+2)
	var blockHash ids.ID
	if s.Block != nil {
		blockHash = s.Block.BlockHash
		effects = append(effects, Effect{
			Kind:      EffectStorageBlockHeaderPut,
			BlockHash: s.Block.BlockHash,
		})
	}
	for i, ops := range s.Operations {
		var path []byte
		if i < len(s.Paths) {
			path = s.Paths[i]
		}
		effects = append(effects, Effect{
			Kind:       EffectStorageBlockOperationsPut,
			BlockHash:  blockHash,
			Pass:       i,
			Path:       path,
			Operations: [][]ids.ID{ops},
		})
	}
	if s.Block != nil {
		effects = append(effects, Effect{Kind: EffectBlockApplierEnqueue, BlockHash: s.Block.BlockHash})
	}
	return effects
}
