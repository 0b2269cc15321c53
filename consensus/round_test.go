// Copyright (C) 2020-2025, Lux Indutries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package consensus

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRoundAtBoundaryCrossing(t *testing.T) {
	require.Equal(t, 2, RoundAt(5, 1, 5))
}

func TestRoundAtLevelStart(t *testing.T) {
	require.Equal(t, 0, RoundAt(5, 1, 0))
}

func TestRoundAtMidRound(t *testing.T) {
	require.Equal(t, 0, RoundAt(5, 1, 4.99))
	require.Equal(t, 1, RoundAt(5, 1, 5.01))
}

func TestRoundAtNegativeElapsedClampsToZero(t *testing.T) {
	require.Equal(t, 0, RoundAt(5, 1, -10))
}

func TestRoundAtZeroIncrementFallsBackToUniformDivision(t *testing.T) {
	require.Equal(t, 0, RoundAt(5, 0, 4))
	require.Equal(t, 1, RoundAt(5, 0, 5))
	require.Equal(t, 3, RoundAt(5, 0, 17))
}

func TestCumulativeDurationIsRoundAtLeftInverse(t *testing.T) {
	const m, d = 5.0, 1.0
	for r := 0; r < 20; r++ {
		cum := CumulativeDuration(m, d, r)
		// Just past the start of round r, elapsed still resolves to r.
		require.Equal(t, r, RoundAt(m, d, cum+0.001), "round %d", r)
	}
}
