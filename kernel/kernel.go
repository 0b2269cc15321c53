// Copyright (C) 2020-2025, Lux Indutries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package kernel is the single-threaded dispatch loop every subsystem
// (consensus, baker, handshake) plugs into through the Acceptor
// contract: validate against the stream's last-seen timestamp, mutate
// state, run the effects pass to a fixed point. The kernel never
// blocks on I/O; it only ever returns effects for the host loop to
// execute.
package kernel

import (
	"fmt"
	"sort"
	"sync"

	"github.com/luxfi/log"

	"github.com/luxfi/shellbake/metrics"
	"github.com/luxfi/shellbake/utils/linked"
)

// StreamID names one ordered event stream (one peer, one baker
// identity, the consensus driver). Proposals on the same stream are
// never reordered relative to each other except by timestamp.
type StreamID string

// Proposal is one inbound event, tagged with the stream it belongs to
// and the timestamp the total order is built from. Payload carries the
// domain-specific event value (e.g. a consensus.Event, a baker.Input,
// a handshake.Event); each Acceptor knows how to type-assert its own.
type Proposal struct {
	StreamID  StreamID
	Timestamp int64 // nanoseconds since epoch
	Payload   any

	seq uint64 // insertion-order tie-break, set by Submit
}

// Effect is one outbound consequence an Acceptor's react() pass
// produced. The kernel never interprets it; the host loop type-switches
// on the concrete domain effect type (baker.Effect, handshake.Effect,
// consensus.Action) to execute it.
type Effect = any

// Acceptor is the contract every subsystem implements: accept a
// Proposal, mutate whatever state it owns, and return the effects its
// own react() pass produced. A nil error with no effects means the
// proposal was accepted and silently had no outward consequence; a
// domain sentinel error (OutdatedProposal, InvalidMsg, ...) means it
// was rejected under that subsystem's own rules, distinct from the
// kernel's own stream-level staleness check.
type Acceptor interface {
	Accept(p Proposal) ([]Effect, error)
}

// Kernel is the single owner of the inbound proposal queue and the
// per-stream last-seen timestamps. It holds no domain state itself;
// every registered Acceptor owns its own.
type Kernel struct {
	mu        sync.Mutex
	acceptors map[StreamID]Acceptor
	lastSeen  map[StreamID]int64
	seq       uint64
	queue     []Proposal

	log       log.Logger
	processed metrics.Counter
	rejected  metrics.Counter
}

// New returns an empty Kernel with no registered streams, logging and
// counting nothing.
func New() *Kernel {
	return &Kernel{
		acceptors: make(map[StreamID]Acceptor),
		lastSeen:  make(map[StreamID]int64),
		log:       log.NewNoOpLogger(),
		processed: metrics.NewCounter(),
		rejected:  metrics.NewCounter(),
	}
}

// NewObserved returns a Kernel that logs every Drain-level error through
// logger and exposes a drained/rejected proposal count through reg.
func NewObserved(logger log.Logger, reg metrics.Registry) *Kernel {
	k := New()
	k.log = logger
	k.processed = reg.NewCounter("kernel_proposals_processed")
	k.rejected = reg.NewCounter("kernel_proposals_rejected")
	return k
}

// Register binds stream to the Acceptor that owns it. Registering the
// same stream twice replaces the previous binding.
func (k *Kernel) Register(stream StreamID, a Acceptor) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.acceptors[stream] = a
}

// Submit enqueues p for the next Drain, stamping it with the next
// insertion-order sequence number so same-timestamp proposals keep
// arrival order.
func (k *Kernel) Submit(p Proposal) {
	k.mu.Lock()
	defer k.mu.Unlock()
	p.seq = k.seq
	k.seq++
	k.queue = append(k.queue, p)
}

// Drain processes every proposal queued since the last Drain, in
// (timestamp, arrival-order) order, and returns the flattened
// non-Proposal effects for the host loop to execute alongside every
// per-proposal error encountered (processing continues past an error;
// each subsystem recovers its own errors to a state transition).
func (k *Kernel) Drain() ([]Effect, []error) {
	k.mu.Lock()
	queue := k.queue
	k.queue = nil
	k.mu.Unlock()

	sort.SliceStable(queue, func(i, j int) bool {
		if queue[i].Timestamp != queue[j].Timestamp {
			return queue[i].Timestamp < queue[j].Timestamp
		}
		return queue[i].seq < queue[j].seq
	})

	var effects []Effect
	var errs []error
	for _, p := range queue {
		out, err := k.process(p)
		effects = append(effects, out...)
		if err != nil {
			k.rejected.Inc()
			k.log.Warn("proposal rejected", "stream", string(p.StreamID), "error", err)
			errs = append(errs, err)
			continue
		}
		k.processed.Inc()
	}
	return effects, errs
}

// process runs one top-level proposal to a fixed point: if Accept
// returns further Proposal-typed effects, they are fed back into the
// stream immediately, ahead of anything else queued, until none
// remain.
func (k *Kernel) process(p Proposal) ([]Effect, error) {
	k.mu.Lock()
	acceptor, ok := k.acceptors[p.StreamID]
	last := k.lastSeen[p.StreamID]
	k.mu.Unlock()

	if !ok {
		return nil, fmt.Errorf("kernel: no acceptor registered for stream %q", p.StreamID)
	}
	if p.Timestamp < last {
		return nil, ErrProposalOutdated
	}

	k.mu.Lock()
	k.lastSeen[p.StreamID] = p.Timestamp
	k.mu.Unlock()

	pending := linked.NewList[Proposal]()
	pending.PushBack(p)
	var effects []Effect
	for pending.Len() > 0 {
		front := pending.Front()
		next := front.Value
		pending.Remove(front)

		out, err := acceptor.Accept(next)
		if err != nil {
			return effects, err
		}
		for _, e := range out {
			if fp, ok := e.(Proposal); ok {
				pending.PushBack(fp)
				continue
			}
			effects = append(effects, e)
		}
	}
	return effects, nil
}
