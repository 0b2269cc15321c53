// Copyright (C) 2020-2025, Lux Indutries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package validator

import (
	"encoding/hex"

	"go.uber.org/zap"

	"github.com/luxfi/crypto/bls"
	"github.com/luxfi/ids"
	"github.com/luxfi/log"
)

var _ SetCallbackListener = (*setLogger)(nil)

// jsonByteSlice logs a byte slice as a hex string.
type jsonByteSlice []byte

func (j jsonByteSlice) MarshalJSON() ([]byte, error) {
	return []byte(`"` + hex.EncodeToString(j) + `"`), nil
}

type setLogger struct {
	log     log.Logger
	nodeIDs map[ids.NodeID]struct{}
}

// NewLogger returns a SetCallbackListener that logs membership changes
// for the given node IDs, or for every node if none are given.
func NewLogger(log log.Logger, nodeIDs ...ids.NodeID) SetCallbackListener {
	watch := make(map[ids.NodeID]struct{}, len(nodeIDs))
	for _, id := range nodeIDs {
		watch[id] = struct{}{}
	}
	return &setLogger{log: log, nodeIDs: watch}
}

func (l *setLogger) watches(nodeID ids.NodeID) bool {
	if len(l.nodeIDs) == 0 {
		return true
	}
	_, ok := l.nodeIDs[nodeID]
	return ok
}

func (l *setLogger) OnValidatorAdded(nodeID ids.NodeID, pk *bls.PublicKey, power uint64) {
	if !l.watches(nodeID) {
		return
	}
	var pkBytes []byte
	if pk != nil {
		pkBytes = bls.PublicKeyToCompressedBytes(pk)
	}
	l.log.Info("validator added",
		zap.Stringer("nodeID", nodeID),
		zap.Reflect("publicKey", jsonByteSlice(pkBytes)),
		zap.Uint64("power", power),
	)
}

func (l *setLogger) OnValidatorRemoved(nodeID ids.NodeID, power uint64) {
	if !l.watches(nodeID) {
		return
	}
	l.log.Info("validator removed",
		zap.Stringer("nodeID", nodeID),
		zap.Uint64("power", power),
	)
}
