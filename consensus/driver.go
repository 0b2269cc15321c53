// Copyright (C) 2020-2025, Lux Indutries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package consensus

import (
	"sync"

	"github.com/luxfi/ids"

	"github.com/luxfi/shellbake/quorum"
	"github.com/luxfi/shellbake/validator"
)

// roundKey indexes the per-round bookkeeping a Driver keeps: the held
// proposal buffer and the two vote ballots.
type roundKey struct {
	Level Level
	Round int
}

func keyOf(id BlockId) roundKey {
	return roundKey{Level: id.Level, Round: id.Round}
}

// greater reports whether a is strictly later than b in (level, round)
// order.
func (a roundKey) greater(b roundKey) bool {
	if a.Level != b.Level {
		return a.Level > b.Level
	}
	return a.Round > b.Round
}

// ProposerFunc answers who is entitled to propose a given round. It is
// an opaque collaborator: the driver only ever calls it, never inspects
// the committee schedule itself.
type ProposerFunc func(level Level, round int) ids.NodeID

// PayloadBuilder assembles the opaque payload for a block this node
// proposes, folding in locally observed payload items as they arrive.
type PayloadBuilder[P any, I any] interface {
	AddItem(item I)
	Build(level Level, round int) (P, error)
}

// Event is the tagged union of inputs the driver accepts. Timestamp is
// unix seconds and drives both the outdated-proposal check and the
// round-inversion arithmetic.
type Event[P any, I any] struct {
	Kind      EventKind
	Timestamp int64

	Proposal       Proposal[P]    // EventProposal
	Preendorsement Preendorsement // EventPreendorsement
	Endorsement    Endorsement    // EventEndorsement
	Item           I              // EventPreendorsement / EventEndorsement / EventPayloadItem
}

// Driver runs the Tenderbake round/level state machine for one level at
// a time. It owns no I/O: every input arrives through Accept and every
// effect leaves through the returned actions. The caller (the kernel)
// serializes calls to Accept; the driver also guards its own state with
// a mutex, so concurrent calls to Accept and ResetForLevel are
// serialized rather than racing.
type Driver[P any, I any] struct {
	minimalBlockDelay      float64
	delayIncrementPerRound float64
	threshold              uint64

	validators *validator.Set
	self       ids.NodeID
	proposer   ProposerFunc
	builder    PayloadBuilder[P, I]

	mu           sync.Mutex
	level        Level
	startOfLevel float64
	locked       *BlockId

	proposals  map[roundKey]Proposal[P]
	preBallots map[roundKey]*quorum.Ballot
	endBallots map[roundKey]*quorum.Ballot
	held       map[roundKey][]Proposal[P]
}

// NewDriver returns a driver for one baker identity. threshold is the
// summed validator power a vote set must reach to be a quorum.
func NewDriver[P any, I any](
	minimalBlockDelay, delayIncrementPerRound float64,
	threshold uint64,
	validators *validator.Set,
	self ids.NodeID,
	proposer ProposerFunc,
	builder PayloadBuilder[P, I],
) *Driver[P, I] {
	return &Driver[P, I]{
		minimalBlockDelay:      minimalBlockDelay,
		delayIncrementPerRound: delayIncrementPerRound,
		threshold:              threshold,
		validators:             validators,
		self:                   self,
		proposer:               proposer,
		builder:                builder,
		proposals:              make(map[roundKey]Proposal[P]),
		preBallots:             make(map[roundKey]*quorum.Ballot),
		endBallots:             make(map[roundKey]*quorum.Ballot),
		held:                   make(map[roundKey][]Proposal[P]),
	}
}

// ResetForLevel clears all per-level bookkeeping and re-anchors the
// driver at round 0 of a new level. The kernel calls this on
// HeadUpdate, before any event for the new level is accepted.
func (d *Driver[P, I]) ResetForLevel(level Level, startOfLevel float64) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.level = level
	d.startOfLevel = startOfLevel
	d.locked = nil
	d.proposals = make(map[roundKey]Proposal[P])
	d.preBallots = make(map[roundKey]*quorum.Ballot)
	d.endBallots = make(map[roundKey]*quorum.Ballot)
	d.held = make(map[roundKey][]Proposal[P])

	// Proposals that arrived too early for the previous level's buffer
	// are intentionally dropped here: they belonged to a level we have
	// already moved past.
}

// Accept processes one event to a fixed point, producing the ordered
// list of actions it provokes (nil/empty if none) and an error only for
// malformed input; invalid signatures, unknown validators, and
// duplicate votes are errors returned to the caller for counters, but
// they never panic or leave the driver in a partial state.
func (d *Driver[P, I]) Accept(ev Event[P, I]) ([]Action[P], error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	switch ev.Kind {
	case EventProposal:
		return d.acceptProposal(ev)
	case EventPreendorsement:
		return d.acceptPreendorsement(ev)
	case EventEndorsement:
		return d.acceptEndorsement(ev)
	case EventTimeout:
		return d.acceptTimeout(ev)
	case EventPayloadItem:
		d.builder.AddItem(ev.Item)
		return nil, nil
	default:
		return nil, nil
	}
}

func (d *Driver[P, I]) acceptProposal(ev Event[P, I]) ([]Action[P], error) {
	p := ev.Proposal
	key := keyOf(p.Head.Id)

	if d.locked != nil && !key.greater(keyOf(*d.locked)) {
		return nil, ErrOutdatedProposal
	}

	start := p.StartOfLevel(d.minimalBlockDelay, d.delayIncrementPerRound)
	if start > float64(ev.Timestamp)+d.minimalBlockDelay {
		d.held[key] = append(d.held[key], p)
		return nil, nil
	}

	action, ok := d.tryAdmitProposalLocked(p, ev.Timestamp)
	if !ok {
		return nil, nil
	}
	return []Action[P]{action}, nil
}

// tryAdmitProposalLocked applies the tie-break and round-begun checks
// to a proposal already known not to be outdated or premature, and
// either installs it as the live proposal for its (level, round) and
// returns the resulting preendorse action, or leaves state untouched.
func (d *Driver[P, I]) tryAdmitProposalLocked(p Proposal[P], now int64) (Action[P], bool) {
	key := keyOf(p.Head.Id)

	if existing, ok := d.proposals[key]; ok {
		_, alreadyEndorsed := d.endBallots[key]
		if alreadyEndorsed || !p.Head.Id.Less(existing.Head.Id) {
			// Keep the incumbent: either we already voted and must not
			// change our mind, or the incumbent's hash already wins the
			// tie-break.
			return Action[P]{}, false
		}
	}
	d.proposals[key] = p

	localRound := p.LocalRound(d.minimalBlockDelay, d.delayIncrementPerRound, now)
	if localRound < p.Head.Id.Round {
		// The round has not begun locally yet; wait for the timer.
		return Action[P]{}, false
	}

	return Action[P]{
		Kind:     ActionPreendorse,
		PredHash: p.Head.Id.PayloadHash,
		BlockId:  p.Head.Id,
	}, true
}

// releaseDueHeldProposalsLocked re-offers every proposal sitting in the
// side buffer whose start_of_level has caught up with now, admitting
// whichever survive the same tie-break and round-begun checks a
// freshly arrived proposal would.
func (d *Driver[P, I]) releaseDueHeldProposalsLocked(now int64) []Action[P] {
	var actions []Action[P]
	for key, pending := range d.held {
		var stillHeld []Proposal[P]
		for _, p := range pending {
			start := p.StartOfLevel(d.minimalBlockDelay, d.delayIncrementPerRound)
			if start > float64(now)+d.minimalBlockDelay {
				stillHeld = append(stillHeld, p)
				continue
			}
			if action, ok := d.tryAdmitProposalLocked(p, now); ok {
				actions = append(actions, action)
			}
		}
		if len(stillHeld) == 0 {
			delete(d.held, key)
		} else {
			d.held[key] = stillHeld
		}
	}
	return actions
}

func (d *Driver[P, I]) acceptPreendorsement(ev Event[P, I]) ([]Action[P], error) {
	pe := ev.Preendorsement
	if !d.validators.Contains(pe.Validator) {
		return nil, ErrUnknownValidator
	}
	power, err := d.validators.Power(pe.Validator)
	if err != nil {
		return nil, ErrUnknownValidator
	}

	key := keyOf(pe.BlockId)
	ballot, ok := d.preBallots[key]
	if !ok {
		ballot = quorum.NewBallot(d.threshold)
		d.preBallots[key] = ballot
	}

	_, reached, err := ballot.Add(pe.Validator, pe.BlockId.PayloadHash, power)
	if err != nil {
		return nil, ErrDuplicateVote
	}
	if !reached {
		return nil, nil
	}

	d.locked = &pe.BlockId
	return []Action[P]{{
		Kind:     ActionEndorse,
		PredHash: pe.BlockId.PayloadHash,
		BlockId:  pe.BlockId,
	}}, nil
}

func (d *Driver[P, I]) acceptEndorsement(ev Event[P, I]) ([]Action[P], error) {
	en := ev.Endorsement
	if !d.validators.Contains(en.Validator) {
		return nil, ErrUnknownValidator
	}
	power, err := d.validators.Power(en.Validator)
	if err != nil {
		return nil, ErrUnknownValidator
	}

	key := keyOf(en.BlockId)
	ballot, ok := d.endBallots[key]
	if !ok {
		ballot = quorum.NewBallot(d.threshold)
		d.endBallots[key] = ballot
	}

	if _, _, err := ballot.Add(en.Validator, en.BlockId.PayloadHash, power); err != nil {
		return nil, ErrDuplicateVote
	}

	// Reaching quorum here finalizes the level; there is no further
	// action to emit, finality is observed through the ballot itself.
	return nil, nil
}

func (d *Driver[P, I]) acceptTimeout(ev Event[P, I]) ([]Action[P], error) {
	next := RoundAt(d.minimalBlockDelay, d.delayIncrementPerRound, float64(ev.Timestamp)-d.startOfLevel)

	actions := []Action[P]{{
		Kind:       ActionScheduleTimeout,
		ScheduleAt: ev.Timestamp + int64(Duration(d.minimalBlockDelay, d.delayIncrementPerRound, next)),
	}}

	actions = append(actions, d.releaseDueHeldProposalsLocked(ev.Timestamp)...)

	if d.proposer == nil || d.proposer(d.level, next) != d.self {
		return actions, nil
	}

	payload, err := d.builder.Build(d.level, next)
	if err != nil {
		return actions, nil
	}

	block := &BlockInfo[P]{
		Id:        BlockId{Level: d.level, Round: next},
		Timestamp: ev.Timestamp,
		Payload:   payload,
	}
	return append(actions, Action[P]{Kind: ActionPropose, Block: block}), nil
}
