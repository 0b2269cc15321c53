// Copyright (C) 2020-2025, Lux Indutries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package kernel

import "errors"

// ErrProposalOutdated rejects a proposal whose timestamp precedes the
// last-seen timestamp for its stream. This is the kernel's own
// staleness check, independent of any domain-level outdated-proposal
// rule a given Acceptor applies internally.
var ErrProposalOutdated = errors.New("kernel: proposal timestamp precedes last-seen for this stream")
