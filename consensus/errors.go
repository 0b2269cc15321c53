// Copyright (C) 2020-2025, Lux Indutries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package consensus

import "errors"

var (
	// ErrOutdatedProposal is returned (and the proposal dropped) when a
	// proposal arrives for a (level, round) at or below what the driver
	// already locked on.
	ErrOutdatedProposal = errors.New("consensus: outdated proposal")

	// ErrUnknownValidator is returned when a vote names a validator not
	// present in the active committee.
	ErrUnknownValidator = errors.New("consensus: unknown validator")

	// ErrDuplicateVote is returned when a validator casts a second vote
	// of the same kind for a (level, round) it already voted in.
	ErrDuplicateVote = errors.New("consensus: duplicate vote")

	// ErrNumericOverflow names a numeric failure in round inversion (a
	// negative radicand or an overflowing round count). RoundAt does not
	// return it: it has no error path and clamps negative rounds to 0.
	ErrNumericOverflow = errors.New("consensus: numeric overflow in round inversion")
)
