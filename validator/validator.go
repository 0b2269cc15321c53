// Copyright (C) 2020-2025, Lux Indutries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package validator holds the validator identity and voting-power model
// the consensus driver reads (its quorum tallies are fed the powers
// looked up here): a validator is nothing more than an identity and a
// weight.
package validator

import (
	"errors"
	"sync"

	"github.com/luxfi/crypto/bls"
	"github.com/luxfi/ids"

	safemath "github.com/luxfi/shellbake/utils/math"
)

var (
	// ErrZeroPower is returned when a validator is registered with no
	// voting weight; a powerless validator can never contribute to a
	// quorum and is rejected rather than silently carried as dead weight.
	ErrZeroPower = errors.New("validator: power must be > 0")

	// ErrUnknownValidator is returned by Set lookups for an identity that
	// was never registered. The consensus driver rejects a vote from an
	// unknown validator with its own consensus.ErrUnknownValidator.
	ErrUnknownValidator = errors.New("validator: unknown validator")

	// ErrDuplicateValidator is returned by Set.Add for an identity that is
	// already present.
	ErrDuplicateValidator = errors.New("validator: duplicate validator")

	// ErrPowerOverflow is returned by Set.Add when adding the validator's
	// power would overflow the set's running total.
	ErrPowerOverflow = errors.New("validator: total power overflow")
)

// Validator is the base identity and weight of a single member of the
// consensus committee. PublicKey is carried for the caller's convenience
// when assembling signed messages; signature verification itself stays
// behind an opaque service boundary outside this package.
type Validator struct {
	NodeID    ids.NodeID
	PublicKey *bls.PublicKey
	Power     uint64
}

// Set is a read-mostly lookup of the committee. The consensus driver
// only reads it (Contains, Power) and keeps the same Set across
// ResetForLevel.
type Set struct {
	mu         sync.RWMutex
	validators map[ids.NodeID]*Validator
	totalPower uint64
}

// NewSet returns an empty validator set.
func NewSet() *Set {
	return &Set{
		validators: make(map[ids.NodeID]*Validator),
	}
}

// Add registers a validator. Power must be non-zero.
func (s *Set) Add(v Validator) error {
	if v.Power == 0 {
		return ErrZeroPower
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.validators[v.NodeID]; ok {
		return ErrDuplicateValidator
	}
	total, err := safemath.Add64(s.totalPower, v.Power)
	if err != nil {
		return ErrPowerOverflow
	}
	cp := v
	s.validators[v.NodeID] = &cp
	s.totalPower = total
	return nil
}

// Power returns the voting weight of nodeID, or ErrUnknownValidator.
func (s *Set) Power(nodeID ids.NodeID) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.validators[nodeID]
	if !ok {
		return 0, ErrUnknownValidator
	}
	return v.Power, nil
}

// Contains reports whether nodeID is a member of the set.
func (s *Set) Contains(nodeID ids.NodeID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.validators[nodeID]
	return ok
}

// TotalPower returns the sum of every member's power.
func (s *Set) TotalPower() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.totalPower
}

// Len returns the number of registered validators.
func (s *Set) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.validators)
}

// SetCallbackListener is notified of validator set membership changes.
// This domain has no subnet concept so the callbacks are keyed by node
// only.
type SetCallbackListener interface {
	OnValidatorAdded(nodeID ids.NodeID, pk *bls.PublicKey, power uint64)
	OnValidatorRemoved(nodeID ids.NodeID, power uint64)
}
