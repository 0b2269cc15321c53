// Copyright (C) 2020-2025, Lux Indutries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package config holds every tunable consumed by the node core:
// consensus quorum/round timing, baker slot math, peer limits and
// sweeper deadlines. It follows the conventional Go configuration idiom
// of a single struct, a Default constructor and sentinel validation
// errors, rather than typed exception hierarchies.
package config

import (
	"errors"
	"time"

	"github.com/luxfi/ids"

	"github.com/luxfi/shellbake/baker"
	"github.com/luxfi/shellbake/handshake"
	"github.com/luxfi/shellbake/sweeper"
)

var (
	// ErrInvalidConsensusThreshold is returned when ConsensusThreshold <= 0.
	ErrInvalidConsensusThreshold = errors.New("config: consensus_threshold must be > 0")
	// ErrInvalidBlockDelay is returned when MinimalBlockDelay <= 0.
	ErrInvalidBlockDelay = errors.New("config: minimal_block_delay must be > 0")
	// ErrInvalidDelayIncrement is returned when DelayIncrementPerRound < 0.
	ErrInvalidDelayIncrement = errors.New("config: delay_increment_per_round must be >= 0")
	// ErrInvalidCommitteeSize is returned when ConsensusCommitteeSize <= 0.
	ErrInvalidCommitteeSize = errors.New("config: consensus_committee_size must be > 0")
	// ErrInvalidPeerLimits is returned when the peer count limits are
	// inconsistent (min > max, or max pending < 0).
	ErrInvalidPeerLimits = errors.New("config: inconsistent peer limits")
	// ErrInvalidTimeout is returned when a configured timeout is <= 0.
	ErrInvalidTimeout = errors.New("config: timeout must be > 0")
)

// Config is the full runtime configuration surface of the node core.
type Config struct {
	// Consensus (Tenderbake driver).
	ConsensusThreshold     uint64        // quorum threshold, sum of validator power
	MinimalBlockDelay      time.Duration // base round duration
	DelayIncrementPerRound time.Duration // round-over-round increment

	// Baker slot scheduling.
	ConsensusCommitteeSize int // CONSENSUS_COMMITTEE_SIZE
	QuorumDelayDivisor     int // MINIMAL_BLOCK_DELAY / this = post-quorum BakeNextRound delay; default 5

	// Peer bookkeeping.
	MinConnectedPeers int
	MaxConnectedPeers int
	MaxPendingPeers   int

	// Sweeper deadlines.
	PeerConnectingTimeout    time.Duration
	PeerHandshakingTimeout   time.Duration
	PeersGraylistTimeout     time.Duration
	CurrentHeadStaleTimeout  time.Duration // default 120s: a connected peer whose head never advances
	HandshakedGraceTimeout   time.Duration // default 8s: grace window right after a handshake completes
	PotentialPeersGetTimeout time.Duration
}

// Default returns the configuration used by the reference Tezos-family
// shell: a 5s minimal block delay growing by 1s per round.
func Default() Config {
	return Config{
		ConsensusThreshold:       1,
		MinimalBlockDelay:        5 * time.Second,
		DelayIncrementPerRound:   1 * time.Second,
		ConsensusCommitteeSize:   7000,
		QuorumDelayDivisor:       5,
		MinConnectedPeers:        10,
		MaxConnectedPeers:        100,
		MaxPendingPeers:          50,
		PeerConnectingTimeout:    10 * time.Second,
		PeerHandshakingTimeout:   10 * time.Second,
		PeersGraylistTimeout:     5 * time.Minute,
		CurrentHeadStaleTimeout:  120 * time.Second,
		HandshakedGraceTimeout:   8 * time.Second,
		PotentialPeersGetTimeout: 10 * time.Second,
	}
}

// Validate checks that every tunable is within the bounds the core's
// reducers assume (positive timeouts, non-inverted peer limits, and so
// on) before the configuration is wired into a running node.
func (c Config) Validate() error {
	switch {
	case c.ConsensusThreshold == 0:
		return ErrInvalidConsensusThreshold
	case c.MinimalBlockDelay <= 0:
		return ErrInvalidBlockDelay
	case c.DelayIncrementPerRound < 0:
		return ErrInvalidDelayIncrement
	case c.ConsensusCommitteeSize <= 0:
		return ErrInvalidCommitteeSize
	case c.MinConnectedPeers < 0, c.MaxConnectedPeers < c.MinConnectedPeers, c.MaxPendingPeers < 0:
		return ErrInvalidPeerLimits
	case c.PeerConnectingTimeout <= 0, c.PeerHandshakingTimeout <= 0, c.PeersGraylistTimeout <= 0,
		c.CurrentHeadStaleTimeout <= 0, c.HandshakedGraceTimeout <= 0, c.PotentialPeersGetTimeout <= 0:
		return ErrInvalidTimeout
	default:
		return nil
	}
}

// BakerConfig projects the baker pipeline's slot-scheduling tunables out
// of the aggregate configuration.
func (c Config) BakerConfig() baker.Config {
	return baker.Config{
		MinimalBlockDelay:      c.MinimalBlockDelay.Seconds(),
		DelayIncrementPerRound: c.DelayIncrementPerRound.Seconds(),
		ConsensusCommitteeSize: c.ConsensusCommitteeSize,
		QuorumDelayDivisor:     c.QuorumDelayDivisor,
	}
}

// HandshakeConfig projects the peer admission-control tunables out of
// the aggregate configuration. isGraylisted is wired straight through as
// the handshake reducer's graylist membership check; pass nil if the
// caller never graylists.
func (c Config) HandshakeConfig(isGraylisted func(ids.NodeID) (int64, bool)) handshake.Config {
	return handshake.Config{
		MinConnectedPeers: c.MinConnectedPeers,
		MaxConnectedPeers: c.MaxConnectedPeers,
		MaxPendingPeers:   c.MaxPendingPeers,
		GraylistDuration:  int64(c.PeersGraylistTimeout),
		IsGraylisted:      isGraylisted,
	}
}

// SweeperConfig projects the per-phase deadlines out of the aggregate
// configuration, converting every time.Duration to the nanosecond int64
// the sweeper works in.
func (c Config) SweeperConfig() sweeper.Config {
	return sweeper.Config{
		PeerConnectingTimeout:         int64(c.PeerConnectingTimeout),
		PeerHandshakingTimeout:        int64(c.PeerHandshakingTimeout),
		PeerPotentialPeersGetTimeout:  int64(c.PotentialPeersGetTimeout),
		HandshakedStaleHeadTimeout:    int64(c.CurrentHeadStaleTimeout),
		HandshakedInitialGraceTimeout: int64(c.HandshakedGraceTimeout),
	}
}
