// Copyright (C) 2020-2025, Lux Indutries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package baker

import "sort"

// SecondsUntil returns the wall-clock seconds between the start of
// currentRound and the start of targetRound under the round-duration
// schedule (base minimalBlockDelay, growing delayIncrementPerRound per
// round). A targetRound at or before currentRound is zero seconds away.
func SecondsUntil(minimalBlockDelay, delayIncrementPerRound float64, currentRound, targetRound int) float64 {
	delta := targetRound - currentRound
	if delta <= 0 {
		return 0
	}
	d := float64(delta)
	return minimalBlockDelay*d + delayIncrementPerRound*d*(float64(currentRound+targetRound-1))/2
}

// TimeUntil is SecondsUntil expressed in nanoseconds, the unit the
// scheduling deadlines are tracked in.
func TimeUntil(minimalBlockDelay, delayIncrementPerRound float64, currentRound, targetRound int) int64 {
	return int64(SecondsUntil(minimalBlockDelay, delayIncrementPerRound, currentRound, targetRound) * 1e9)
}

// NextRoundSlot finds the smallest slot strictly after currentRound mod
// committeeSize among the given sorted current-level slots, and returns
// the baking-rights Slot with the computed timeout. ok is false when
// none of the remaining slots this level belong to this baker.
func NextRoundSlot(
	minimalBlockDelay, delayIncrementPerRound float64,
	committeeSize int,
	currentRound int,
	predTimestampNanos int64,
	slots []int,
) (Slot, bool) {
	currentSlot := currentRound % committeeSize
	idx := sort.SearchInts(slots, currentSlot+1)
	if idx >= len(slots) {
		return Slot{}, false
	}
	slot := slots[idx]
	targetRound := currentRound + (slot - currentSlot)
	timeout := predTimestampNanos + TimeUntil(minimalBlockDelay, delayIncrementPerRound, currentRound, targetRound)
	return Slot{Round: targetRound, TimeoutNanos: timeout}, true
}

// NextLevelSlot computes the baking-rights Slot for the first bakeable
// slot of the next level, if any, anchored at predTimestampNanos.
// Accept always passes the current head's predecessor timestamp
// (State.PredTimestampNanos), also when an elected block exists; the
// elected block's own timestamp is not tracked and is never used here.
func NextLevelSlot(
	minimalBlockDelay, delayIncrementPerRound float64,
	currentRound int,
	predTimestampNanos int64,
	nextSlots []int,
) (Slot, bool) {
	if len(nextSlots) == 0 {
		return Slot{}, false
	}
	slot := nextSlots[0]
	timeout := predTimestampNanos +
		TimeUntil(minimalBlockDelay, delayIncrementPerRound, currentRound, currentRound+1) +
		TimeUntil(minimalBlockDelay, delayIncrementPerRound, 0, slot)
	return Slot{Round: slot, TimeoutNanos: timeout}, true
}

// QuorumDelayNanos is the extra delay past a computed BakeNextRound
// timeout once a baker already holds an elected block: it reserves time
// for next-level baking to win the race.
func QuorumDelayNanos(minimalBlockDelay float64, divisor int) int64 {
	return int64(minimalBlockDelay * 1e9 / float64(divisor))
}
