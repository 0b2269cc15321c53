// Copyright (C) 2020-2025, Lux Indutries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package sweeper

import (
	"sync"

	"github.com/luxfi/ids"
)

// Graylist tracks peers temporarily barred from handshaking, each with
// its own expiry. Entries are added once, with an explicit until
// deadline computed by the caller (the handshake reducer, on
// InvalidMsg); Sweep is responsible for expiring them.
type Graylist struct {
	mu      sync.Mutex
	entries map[ids.NodeID]int64 // peer -> expiry, nanoseconds since epoch
}

// NewGraylist returns an empty graylist.
func NewGraylist() *Graylist {
	return &Graylist{entries: make(map[ids.NodeID]int64)}
}

// Add graylists peer until the given deadline, overwriting any
// shorter-lived existing entry.
func (g *Graylist) Add(peer ids.NodeID, until int64) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if existing, ok := g.entries[peer]; ok && existing >= until {
		return
	}
	g.entries[peer] = until
}

// IsGraylisted reports whether peer is currently barred, and until
// when. It does not expire the entry itself; that is Sweep's job.
func (g *Graylist) IsGraylisted(peer ids.NodeID) (int64, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	until, ok := g.entries[peer]
	return until, ok
}

// Sweep removes every entry whose deadline has passed and returns the
// peers that were released.
func (g *Graylist) Sweep(now int64) []ids.NodeID {
	g.mu.Lock()
	defer g.mu.Unlock()

	var released []ids.NodeID
	for peer, until := range g.entries {
		if now >= until {
			delete(g.entries, peer)
			released = append(released, peer)
		}
	}
	return released
}
