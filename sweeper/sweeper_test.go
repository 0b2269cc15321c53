// Copyright (C) 2020-2025, Lux Indutries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package sweeper

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luxfi/ids"
)

func testConfig() Config {
	return Config{
		PeerConnectingTimeout:         int64(10) * 1e9,
		PeerHandshakingTimeout:        int64(10) * 1e9,
		PeerPotentialPeersGetTimeout:  int64(5) * 1e9,
		HandshakedStaleHeadTimeout:    DefaultHandshakedStaleHeadTimeoutNanos,
		HandshakedInitialGraceTimeout: DefaultHandshakedInitialGraceNanos,
	}
}

func TestConnectingPeerTimesOut(t *testing.T) {
	require := require.New(t)

	peer := ids.GenerateTestNodeID()
	peers := map[ids.NodeID]PeerRecord{peer: {Phase: Connecting, Since: 0}}

	events := Sweep(testConfig(), peers, int64(9)*1e9)
	require.Empty(events)

	events = Sweep(testConfig(), peers, int64(10)*1e9)
	require.Len(events, 1)
	require.Equal(ConnectionErrorTimeout, events[0].Kind)
	require.Equal(peer, events[0].Peer)
}

func TestHandshakingPeerTimesOutWithStatus(t *testing.T) {
	require := require.New(t)

	peer := ids.GenerateTestNodeID()
	peers := map[ids.NodeID]PeerRecord{peer: {Phase: Handshaking, Since: 0, Status: "awaiting_meta"}}

	events := Sweep(testConfig(), peers, int64(10)*1e9)
	require.Len(events, 1)
	require.Equal(HandshakingErrorTimeout, events[0].Kind)
	require.Equal("awaiting_meta", events[0].Status)
}

func TestHandshakedPeerDisconnectsOnStaleHead(t *testing.T) {
	require := require.New(t)

	peer := ids.GenerateTestNodeID()
	lastUpdate := int64(0)
	peers := map[ids.NodeID]PeerRecord{peer: {
		Phase:                 Handshaked,
		CurrentHeadLastUpdate: &lastUpdate,
	}}

	events := Sweep(testConfig(), peers, DefaultHandshakedStaleHeadTimeoutNanos-1)
	require.Empty(events)

	events = Sweep(testConfig(), peers, DefaultHandshakedStaleHeadTimeoutNanos)
	require.Len(events, 1)
	require.Equal(Disconnect, events[0].Kind)
}

func TestHandshakedPeerDisconnectsOnMissingInitialHead(t *testing.T) {
	require := require.New(t)

	peer := ids.GenerateTestNodeID()
	peers := map[ids.NodeID]PeerRecord{peer: {
		Phase:           Handshaked,
		HandshakedSince: 0,
	}}

	events := Sweep(testConfig(), peers, DefaultHandshakedInitialGraceNanos-1)
	require.Empty(events)

	events = Sweep(testConfig(), peers, DefaultHandshakedInitialGraceNanos)
	require.Len(events, 1)
	require.Equal(Disconnect, events[0].Kind)
}

func TestHandshakedPeerPotentialPeersGetTimesOutIndependently(t *testing.T) {
	require := require.New(t)

	peer := ids.GenerateTestNodeID()
	lastUpdate := DefaultHandshakedStaleHeadTimeoutNanos * 100 // far in the future, never stale
	peers := map[ids.NodeID]PeerRecord{peer: {
		Phase:                    Handshaked,
		CurrentHeadLastUpdate:    &lastUpdate,
		PotentialPeersGetPending: true,
		PotentialPeersGetSentAt:  0,
	}}

	events := Sweep(testConfig(), peers, int64(5)*1e9)
	require.Len(events, 1)
	require.Equal(PotentialPeersGetErrorTimeout, events[0].Kind)
}

func TestPotentialDisconnectingDisconnectedNeverTimeOut(t *testing.T) {
	require := require.New(t)

	peers := map[ids.NodeID]PeerRecord{
		ids.GenerateTestNodeID(): {Phase: Potential, Since: 0},
		ids.GenerateTestNodeID(): {Phase: Disconnecting, Since: 0},
		ids.GenerateTestNodeID(): {Phase: Disconnected, Since: 0},
	}

	require.Empty(t, Sweep(testConfig(), peers, int64(1000)*1e9))
}

func TestGraylistSweepRemovesExpiredEntriesOnly(t *testing.T) {
	require := require.New(t)

	g := NewGraylist()
	expiring := ids.GenerateTestNodeID()
	lasting := ids.GenerateTestNodeID()
	g.Add(expiring, 100)
	g.Add(lasting, 200)

	released := g.Sweep(100)
	require.ElementsMatch([]ids.NodeID{expiring}, released)

	_, stillGraylisted := g.IsGraylisted(expiring)
	require.False(stillGraylisted)
	_, stillGraylisted = g.IsGraylisted(lasting)
	require.True(stillGraylisted)
}

func TestGraylistAddNeverShortensAnExistingDeadline(t *testing.T) {
	require := require.New(t)

	g := NewGraylist()
	peer := ids.GenerateTestNodeID()
	g.Add(peer, 200)
	g.Add(peer, 100) // shorter: ignored

	until, ok := g.IsGraylisted(peer)
	require.True(ok)
	require.Equal(int64(200), until)
}
