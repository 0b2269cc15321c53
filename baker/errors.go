// Copyright (C) 2020-2025, Lux Indutries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package baker

import "errors"

var (
	// ErrEncodingFailed means the block header could not be encoded.
	// Accept has no input for this failure: neither it nor Dispatch
	// returns this error, and the pipeline phase is not reset by it.
	ErrEncodingFailed = errors.New("baker: block header encoding failed")

	// ErrProtocolRunnerFailed names a protocol-runner failure. Accept
	// has no input for a failed runner reply and never returns it.
	ErrProtocolRunnerFailed = errors.New("baker: protocol runner failed")

	// ErrStorageFailed is the one baker error kind that propagates to
	// the operator rather than being silently recovered.
	ErrStorageFailed = errors.New("baker: storage failed")

	// ErrUnexpectedPhase is returned when an input arrives for a phase
	// it has no transition from.
	ErrUnexpectedPhase = errors.New("baker: input not valid in current phase")
)
