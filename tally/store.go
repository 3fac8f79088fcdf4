// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package tally keeps the running count of accepted ballots by party and
// candidate.
package tally

import "sync"

// Tally maps party -> candidate -> count.
type Tally map[string]map[string]int64

// Total returns the sum of all counts.
func (t Tally) Total() int64 {
	var n int64
	for _, candidates := range t {
		for _, c := range candidates {
			n += c
		}
	}
	return n
}

// Store is a concurrency-safe Tally.
//
// sync.RWMutex blocks new readers once a writer is waiting, so a stream of
// Snapshot calls cannot starve Increment.
type Store struct {
	mu     sync.RWMutex
	counts Tally
}

func NewStore() *Store {
	return &Store{counts: make(Tally)}
}

// Increment atomically adds one vote for (party, candidate), creating the
// cell at zero if absent, and returns the new count.
func (s *Store) Increment(party, candidate string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	candidates, ok := s.counts[party]
	if !ok {
		candidates = make(map[string]int64)
		s.counts[party] = candidates
	}
	candidates[candidate]++
	return candidates[candidate]
}

// Count returns the current count for (party, candidate).
func (s *Store) Count(party, candidate string) int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.counts[party][candidate]
}

// Snapshot returns a deep copy of the tally as of a single point in time.
func (s *Store) Snapshot() Tally {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(Tally, len(s.counts))
	for party, candidates := range s.counts {
		cp := make(map[string]int64, len(candidates))
		for name, n := range candidates {
			cp[name] = n
		}
		out[party] = cp
	}
	return out
}
