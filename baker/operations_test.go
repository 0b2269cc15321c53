// Copyright (C) 2020-2025, Lux Indutries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package baker

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luxfi/ids"
)

func TestPartitionGroupsByPassAndDropsUnknowns(t *testing.T) {
	require := require.New(t)

	h1, h2, h3, h4 := ids.GenerateTestID(), ids.GenerateTestID(), ids.GenerateTestID(), ids.GenerateTestID()

	passes, nonConsensus := Partition([]AppliedOperation{
		{Hash: h1, Kind: KindEndorsement},
		{Hash: h2, Kind: KindBallot},
		{Hash: h3, Kind: KindTransaction},
		{Hash: h4, Kind: KindFailingNoop},
	})

	require.Equal([]ids.ID{h1}, passes[0])
	require.Equal([]ids.ID{h2}, passes[1])
	require.Empty(passes[2])
	require.Equal([]ids.ID{h3}, passes[3])
	require.Equal([]ids.ID{h2, h3}, nonConsensus)
}
