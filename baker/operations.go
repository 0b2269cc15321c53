// Copyright (C) 2020-2025, Lux Indutries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package baker

import "github.com/luxfi/ids"

// OperationKind classifies an applied mempool operation for
// partitioning into the four validation passes.
type OperationKind int

const (
	KindEndorsement OperationKind = iota
	KindProposals
	KindBallot
	KindSeedNonceRevelation
	KindDoubleEndorsementEvidence
	KindDoublePreendorsementEvidence
	KindDoubleBakingEvidence
	KindActivateAccount
	KindReveal
	KindTransaction
	KindOrigination
	KindDelegation
	KindRegisterGlobalConstant
	KindSetDepositsLimit
	KindUnknown
	KindPreendorsement
	KindFailingNoop
	KindEndorsementWithSlot
)

// AppliedOperation is one mempool operation the block applier accepted,
// in the hash-sort order the mempool already maintains.
type AppliedOperation struct {
	Hash ids.ID
	Kind OperationKind
}

// passOf returns the validation pass an operation kind belongs to, and
// false for kinds that are dropped entirely (never included in any
// block).
func passOf(k OperationKind) (int, bool) {
	switch k {
	case KindEndorsement:
		return 0, true
	case KindProposals, KindBallot:
		return 1, true
	case KindSeedNonceRevelation, KindDoubleEndorsementEvidence, KindDoublePreendorsementEvidence,
		KindDoubleBakingEvidence, KindActivateAccount:
		return 2, true
	case KindReveal, KindTransaction, KindOrigination, KindDelegation,
		KindRegisterGlobalConstant, KindSetDepositsLimit:
		return 3, true
	default: // KindUnknown, KindPreendorsement, KindFailingNoop, KindEndorsementWithSlot
		return 0, false
	}
}

// Partition groups applied operations into the four validation passes,
// preserving the hash-sort order they arrived in within each pass, and
// returns the flattened hash list of passes 1..3 (the consensus pass,
// 0, is excluded from it).
func Partition(applied []AppliedOperation) (passes [4][]ids.ID, nonConsensusOpHashes []ids.ID) {
	for _, op := range applied {
		pass, ok := passOf(op.Kind)
		if !ok {
			continue
		}
		passes[pass] = append(passes[pass], op.Hash)
		if pass != 0 {
			nonConsensusOpHashes = append(nonConsensusOpHashes, op.Hash)
		}
	}
	return passes, nonConsensusOpHashes
}
