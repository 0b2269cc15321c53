// Copyright (C) 2020-2025, Lux Indutries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package validator

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luxfi/ids"
)

func TestSetAddAndLookup(t *testing.T) {
	require := require.New(t)

	s := NewSet()
	a := ids.GenerateTestNodeID()
	b := ids.GenerateTestNodeID()

	require.NoError(s.Add(Validator{NodeID: a, Power: 10}))
	require.NoError(s.Add(Validator{NodeID: b, Power: 5}))

	require.ErrorIs(s.Add(Validator{NodeID: a, Power: 1}), ErrDuplicateValidator)
	require.ErrorIs(s.Add(Validator{NodeID: ids.GenerateTestNodeID(), Power: 0}), ErrZeroPower)

	power, err := s.Power(a)
	require.NoError(err)
	require.Equal(uint64(10), power)

	_, err = s.Power(ids.GenerateTestNodeID())
	require.ErrorIs(err, ErrUnknownValidator)

	require.Equal(uint64(15), s.TotalPower())
	require.Equal(2, s.Len())
	require.True(s.Contains(a))
	require.False(s.Contains(ids.GenerateTestNodeID()))
}

func TestSetAddRejectsPowerOverflow(t *testing.T) {
	require := require.New(t)

	s := NewSet()
	require.NoError(s.Add(Validator{NodeID: ids.GenerateTestNodeID(), Power: ^uint64(0)}))
	require.ErrorIs(s.Add(Validator{NodeID: ids.GenerateTestNodeID(), Power: 1}), ErrPowerOverflow)
	require.Equal(1, s.Len())
}
