// Copyright (C) 2020-2025, Lux Indutries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package services declares the opaque, thread-safe collaborators the
// core consumes at its boundary: storage, the protocol-runner sandbox,
// the rights service, the block applier, the peer network and the
// signer. None of these are implemented here — the kernel and the
// baker/consensus/handshake packages only ever hold an interface value
// and enqueue messages to it; internal concurrency of a real
// implementation is the implementation's business.
package services

import (
	"context"
	"time"

	"github.com/luxfi/ids"
)

// BakingRight is a single validator's baking/endorsing slot for a level.
type BakingRight struct {
	NodeID ids.NodeID
	Round  int
}

// RightsService answers "who may act at this level/round" queries. It
// never blocks the kernel: Get enqueues the request and the reply
// arrives later as a RightsGetSuccess/RightsGetPending-carrying action.
type RightsService interface {
	// Get requests baking/endorsing rights for headHash at height level.
	// The token identifies the matching reply; a late reply bearing a
	// token that no longer has pending state is dropped.
	Get(ctx context.Context, headHash ids.ID, level uint64) (token uint64, err error)
}

// PreapplyResult is the protocol-runner's verdict on a preapply request.
type PreapplyResult struct {
	BlockHash  ids.ID
	Operations [][]ids.ID // per validation pass, in hash-sort order
}

// OperationsPaths carries the computed Merkle inclusion path for each
// validation pass of a preapplied block.
type OperationsPaths struct {
	Paths [][]byte // indexed by validation pass
}

// ProtocolRunnerService is the sandboxed process that preapplies
// candidate blocks and computes operation-list Merkle paths. Wire
// encoding of the request is delegated further to an Encoder; the
// runner itself stays an opaque collaborator behind this interface.
type ProtocolRunnerService interface {
	// Preapply validates req and returns a token; the reply arrives as a
	// PreapplySuccess action carrying PreapplyResult.
	Preapply(ctx context.Context, req []byte) (token uint64, err error)

	// ComputeOperationsPaths computes Merkle paths for the given
	// per-pass operation lists; the reply arrives as a
	// ProtocolRunnerResponse action carrying OperationsPaths.
	ComputeOperationsPaths(ctx context.Context, blockHash ids.ID, operations [][]ids.ID) (token uint64, err error)
}

// OperationsForBlocks is one validation pass' worth of operations and
// their Merkle inclusion path, as handed to storage.
type OperationsForBlocks struct {
	BlockHash ids.ID
	Pass      int
	Path      []byte
	Ops       []ids.ID
}

// StorageService persists block headers and operations. A failure here
// is the one baker error kind that propagates to the operator rather
// than being silently recovered.
type StorageService interface {
	BlockHeaderPut(ctx context.Context, chainID ids.ID, blockHash ids.ID, header []byte) error
	BlockOperationsPut(ctx context.Context, ofb OperationsForBlocks) error
}

// BlockApplierService enqueues a preapplied, stored block for
// application to the chain state.
type BlockApplierService interface {
	Enqueue(ctx context.Context, blockHash ids.ID) error
}

// PeerService is the outbound half of the network transport: sending a
// message to an address. Delivery ordering per peer and the transport
// itself belong to the implementation; the core only ever calls Send.
type PeerService interface {
	Send(ctx context.Context, addr ids.NodeID, message []byte) error
}

// Signer is the opaque private-key handle behind which a baker's
// signing key lives; the core never touches raw key material.
type Signer interface {
	Sign(ctx context.Context, payload []byte) (signature []byte, err error)
}

// Encoder serializes the block-header fields the core assembles into
// the wire format the protocol-runner and storage expect. The exact
// binary layout is delegated to the encoder; the core only guarantees
// the field order it hands in.
type Encoder interface {
	EncodeBlockHeader(fields BlockHeaderFields) ([]byte, error)
}

// BlockHeaderFields is the ordered field set the core hands the
// encoder, timestamp excluded (it is not serialized) and with the
// signature appended by the encoder as a zero placeholder.
type BlockHeaderFields struct {
	PayloadHash               ids.ID
	PayloadRound              int
	ProofOfWorkNonce          [8]byte
	SeedNonceHash             *ids.ID
	LiquidityBakingEscapeVote bool
	Operations                [][]ids.ID
}

// Clock abstracts wall-clock reads so the kernel and sweeper can be
// driven deterministically from tests and from an event log on replay.
type Clock interface {
	Now() time.Time
}
