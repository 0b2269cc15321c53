// Copyright (C) 2020-2025, Lux Indutries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luxfi/ids"
)

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestValidateRejectsBadFields(t *testing.T) {
	require := require.New(t)

	c := Default()
	c.ConsensusThreshold = 0
	require.ErrorIs(c.Validate(), ErrInvalidConsensusThreshold)

	c = Default()
	c.MinimalBlockDelay = 0
	require.ErrorIs(c.Validate(), ErrInvalidBlockDelay)

	c = Default()
	c.DelayIncrementPerRound = -1
	require.ErrorIs(c.Validate(), ErrInvalidDelayIncrement)

	c = Default()
	c.ConsensusCommitteeSize = 0
	require.ErrorIs(c.Validate(), ErrInvalidCommitteeSize)

	c = Default()
	c.MaxConnectedPeers = c.MinConnectedPeers - 1
	require.ErrorIs(c.Validate(), ErrInvalidPeerLimits)

	c = Default()
	c.PeerConnectingTimeout = 0
	require.ErrorIs(c.Validate(), ErrInvalidTimeout)
}

func TestBakerConfigProjectsDurationsToSeconds(t *testing.T) {
	require := require.New(t)

	bc := Default().BakerConfig()
	require.Equal(5.0, bc.MinimalBlockDelay)
	require.Equal(1.0, bc.DelayIncrementPerRound)
	require.Equal(7000, bc.ConsensusCommitteeSize)
	require.Equal(5, bc.QuorumDelayDivisor)
}

func TestHandshakeConfigWiresGraylistCallbackThrough(t *testing.T) {
	require := require.New(t)

	peer := ids.GenerateTestNodeID()
	isGraylisted := func(n ids.NodeID) (int64, bool) {
		if n == peer {
			return 42, true
		}
		return 0, false
	}

	hc := Default().HandshakeConfig(isGraylisted)
	require.Equal(10, hc.MinConnectedPeers)
	require.Equal(100, hc.MaxConnectedPeers)
	require.Equal(50, hc.MaxPendingPeers)
	require.Equal(int64(5*60*1e9), hc.GraylistDuration)

	till, ok := hc.IsGraylisted(peer)
	require.True(ok)
	require.Equal(int64(42), till)
}

func TestSweeperConfigProjectsNanosecondDeadlines(t *testing.T) {
	require := require.New(t)

	sc := Default().SweeperConfig()
	require.Equal(int64(10*1e9), sc.PeerConnectingTimeout)
	require.Equal(int64(10*1e9), sc.PeerHandshakingTimeout)
	require.Equal(int64(10*1e9), sc.PeerPotentialPeersGetTimeout)
	require.Equal(int64(120*1e9), sc.HandshakedStaleHeadTimeout)
	require.Equal(int64(8*1e9), sc.HandshakedInitialGraceTimeout)
}
