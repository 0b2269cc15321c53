// Copyright (C) 2020-2025, Lux Indutries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package quorum

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luxfi/ids"
)

func TestBallotReachesThresholdOnce(t *testing.T) {
	require := require.New(t)

	b := NewBallot(10)
	candidate := ids.GenerateTestID()
	v1, v2, v3 := ids.GenerateTestNodeID(), ids.GenerateTestNodeID(), ids.GenerateTestNodeID()

	_, reached, err := b.Add(v1, candidate, 4)
	require.NoError(err)
	require.False(reached)

	_, reached, err = b.Add(v2, candidate, 4)
	require.NoError(err)
	require.False(reached)

	summed, reached, err := b.Add(v3, candidate, 4)
	require.NoError(err)
	require.True(reached)
	require.Equal(uint64(12), summed)

	// Power reports the same running tally Add returned.
	require.Equal(uint64(12), b.Power(candidate))
}

func TestBallotRejectsDuplicateVote(t *testing.T) {
	require := require.New(t)

	b := NewBallot(10)
	v := ids.GenerateTestNodeID()
	c1, c2 := ids.GenerateTestID(), ids.GenerateTestID()

	_, _, err := b.Add(v, c1, 5)
	require.NoError(err)

	_, _, err = b.Add(v, c2, 5)
	require.ErrorIs(err, ErrDuplicateVote)

	require.Equal(uint64(5), b.Power(c1))
	require.Equal(uint64(0), b.Power(c2))
}

func TestBallotSplitVote(t *testing.T) {
	require := require.New(t)

	b := NewBallot(10)
	c1, c2 := ids.GenerateTestID(), ids.GenerateTestID()

	_, reached, _ := b.Add(ids.GenerateTestNodeID(), c1, 6)
	require.False(reached)
	_, reached, _ = b.Add(ids.GenerateTestNodeID(), c2, 6)
	require.False(reached)

	require.Equal(uint64(6), b.Power(c1))
	require.Equal(uint64(6), b.Power(c2))
}
