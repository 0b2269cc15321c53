// Copyright (C) 2020-2025, Lux Indutries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package baker

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luxfi/ids"
)

func testConfig() Config {
	return Config{
		MinimalBlockDelay:      15,
		DelayIncrementPerRound: 5,
		ConsensusCommitteeSize: 7000,
		QuorumDelayDivisor:     5,
	}
}

func TestHeadUpdateResetsToRightsGetPending(t *testing.T) {
	require := require.New(t)

	next, effects, err := Accept(testConfig(), State{Phase: ComputeOperationsPathsSuccess}, Input{
		Kind:     InputHeadUpdate,
		Level:    10,
		HeadHash: ids.GenerateTestID(),
	})
	require.NoError(err)
	require.Equal(RightsGetPending, next.Phase)
	require.Len(effects, 1)
	require.Equal(EffectRightsGet, effects[0].Kind)
}

func TestRightsGetSuccessRequiresBothSlotFields(t *testing.T) {
	require := require.New(t)

	s, _, err := Accept(testConfig(), State{Phase: RightsGetPending}, Input{
		Kind:  InputRightsGetSuccess,
		Slots: []int{5},
	})
	require.NoError(err)
	require.Equal(RightsGetPending, s.Phase) // next_slots still unset

	s, _, err = Accept(testConfig(), s, Input{
		Kind:      InputRightsGetSuccess,
		NextSlots: []int{2},
	})
	require.NoError(err)
	require.Equal(RightsGetSuccess, s.Phase)
	require.Equal([]int{5}, s.Slots)
	require.Equal([]int{2}, s.NextSlots)
}

func TestRightsGetSuccessWithNoSlotsGoesToNoRights(t *testing.T) {
	require := require.New(t)

	s, _, err := Accept(testConfig(), State{Phase: RightsGetPending}, Input{
		Kind:      InputRightsGetSuccess,
		Slots:     []int{},
		NextSlots: []int{},
	})
	require.NoError(err)
	require.Equal(NoRights, s.Phase)
}

func TestTimeoutDueComputesSlotsAndBakesNextRoundWhenDue(t *testing.T) {
	require := require.New(t)

	cfg := testConfig()
	predTimestampNanos := int64(1000) * 1e9
	s := State{Phase: RightsGetSuccess, Slots: []int{2}, NextSlots: []int{2}, PredTimestampNanos: predTimestampNanos}

	wantTimeout := predTimestampNanos + TimeUntil(cfg.MinimalBlockDelay, cfg.DelayIncrementPerRound, 0, 2)

	next, _, err := Accept(cfg, s, Input{Kind: InputTimeoutDue, NowNanos: wantTimeout - 1})
	require.NoError(err)
	require.Equal(TimeoutPending, next.Phase)
	require.NotNil(next.NextRound)
	require.Equal(2, next.NextRound.Round)
	require.Equal(wantTimeout, next.NextRound.TimeoutNanos)

	next, effects, err := Accept(cfg, next, Input{Kind: InputTimeoutDue, NowNanos: wantTimeout})
	require.NoError(err)
	require.Equal(PreapplyPending, next.Phase)
	require.Equal(2, next.BakeRound)
	require.NotNil(next.PreapplyRequest)
	require.Equal(2, next.PreapplyRequest.PayloadRound)
	require.Len(effects, 1)
	require.Equal(EffectPreapply, effects[0].Kind)
}

func TestTimeoutDueDelaysBakeNextRoundWhenElected(t *testing.T) {
	require := require.New(t)

	cfg := testConfig()
	predTimestampNanos := int64(1000) * 1e9
	// Slot 0 equals the current round's slot and so is never a valid next
	// round (strictly-greater rule); slot 5 is the baker's next owned slot.
	s := State{
		Phase:              RightsGetSuccess,
		Slots:              []int{0, 5},
		PredTimestampNanos: predTimestampNanos,
		ElectedBlock: &ElectedBlock{
			Round: 0,
		},
	}

	nextRoundTimeout := predTimestampNanos + TimeUntil(cfg.MinimalBlockDelay, cfg.DelayIncrementPerRound, 0, 5)
	wantTimeout := nextRoundTimeout + QuorumDelayNanos(cfg.MinimalBlockDelay, cfg.QuorumDelayDivisor)

	next, _, err := Accept(cfg, s, Input{Kind: InputTimeoutDue, NowNanos: nextRoundTimeout})
	require.NoError(err)
	// Due at nextRound.TimeoutNanos but delayed by QuorumDelayNanos(15,5).
	require.Equal(TimeoutPending, next.Phase)
	require.Equal(5, next.NextRound.Round)

	next, effects, err := Accept(cfg, next, Input{Kind: InputTimeoutDue, NowNanos: wantTimeout})
	require.NoError(err)
	require.Equal(PreapplyPending, next.Phase)
	require.Equal(5, next.BakeRound)
	require.Len(effects, 1)
	require.Equal(EffectPreapply, effects[0].Kind)
}

func TestPreapplyAndComputeOperationsPathsPipeline(t *testing.T) {
	require := require.New(t)

	cfg := testConfig()
	blockHash := ids.GenerateTestID()
	s := State{Phase: PreapplyPending}

	s, effects, err := Accept(cfg, s, Input{
		Kind:               InputPreapplySuccess,
		PreapplyBlockHash:  blockHash,
		PreapplyOperations: [][]ids.ID{{ids.GenerateTestID()}},
	})
	require.NoError(err)
	require.Equal(ComputeOperationsPathsPending, s.Phase)
	require.NotNil(s.Block)
	require.Equal(blockHash, s.Block.BlockHash)
	require.Len(effects, 1)
	require.Equal(EffectComputeOperationsPaths, effects[0].Kind)

	next, effects, err := Accept(cfg, s, Input{
		Kind:  InputComputeOperationsPathsSuccess,
		Paths: [][]byte{{1, 2, 3}},
	})
	require.NoError(err)
	require.NotEmpty(effects)
	require.Equal(EffectStorageBlockHeaderPut, effects[0].Kind)
	require.Equal(EffectBlockApplierEnqueue, effects[len(effects)-1].Kind)
	require.Equal(blockHash, next.Block.BlockHash)
}

func TestPreapplySuccessWrongPhaseIsRejected(t *testing.T) {
	_, _, err := Accept(testConfig(), State{Phase: Idle}, Input{Kind: InputPreapplySuccess})
	require.ErrorIs(t, err, ErrUnexpectedPhase)
}
