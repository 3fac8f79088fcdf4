// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package replay rejects ballots whose nonce has already been consumed.
package replay

import (
	"slices"
	"sync"
)

// Guard is the set of consumed nonces. The zero value is not usable; call
// NewGuard.
type Guard struct {
	mu     sync.Mutex
	nonces map[uint64]struct{}
}

func NewGuard() *Guard {
	return &Guard{nonces: make(map[uint64]struct{})}
}

// Admit records nonce and reports whether it was unseen before this call.
// For a given nonce at most one call ever returns true.
func (g *Guard) Admit(nonce uint64) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, seen := g.nonces[nonce]; seen {
		return false
	}
	g.nonces[nonce] = struct{}{}
	return true
}

// Seen reports whether nonce has been admitted.
func (g *Guard) Seen(nonce uint64) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, seen := g.nonces[nonce]
	return seen
}

// Len returns the number of admitted nonces.
func (g *Guard) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.nonces)
}

// Nonces returns the admitted nonces in ascending order.
func (g *Guard) Nonces() []uint64 {
	g.mu.Lock()
	out := make([]uint64, 0, len(g.nonces))
	for n := range g.nonces {
		out = append(out, n)
	}
	g.mu.Unlock()

	slices.Sort(out)
	return out
}
