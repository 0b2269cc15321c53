// Copyright (C) 2020-2025, Lux Indutries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package baker

import (
	"context"

	"github.com/luxfi/ids"

	"github.com/luxfi/shellbake/services"
)

// Dispatch issues the outbound service calls an Effect describes
// against the opaque collaborators in services. It is the only place
// in this package that performs I/O; the reducer itself stays pure.
func Dispatch(
	ctx context.Context,
	chainID ids.ID,
	rights services.RightsService,
	runner services.ProtocolRunnerService,
	storage services.StorageService,
	applier services.BlockApplierService,
	eff Effect,
) error {
	switch eff.Kind {
	case EffectRightsGet:
		_, err := rights.Get(ctx, eff.HeadHash, eff.Level+1)
		return err

	case EffectPreapply:
		return nil // encoding and the preapply call itself are assembled by the caller, which owns the Encoder.

	case EffectComputeOperationsPaths:
		_, err := runner.ComputeOperationsPaths(ctx, eff.BlockHash, eff.Operations)
		return err

	case EffectStorageBlockHeaderPut:
		return storage.BlockHeaderPut(ctx, chainID, eff.BlockHash, nil)

	case EffectStorageBlockOperationsPut:
		var ops []ids.ID
		if len(eff.Operations) > 0 {
			ops = eff.Operations[0]
		}
		return storage.BlockOperationsPut(ctx, services.OperationsForBlocks{
			BlockHash: eff.BlockHash,
			Pass:      eff.Pass,
			Path:      eff.Path,
			Ops:       ops,
		})

	case EffectBlockApplierEnqueue:
		return applier.Enqueue(ctx, eff.BlockHash)

	default:
		return nil
	}
}
