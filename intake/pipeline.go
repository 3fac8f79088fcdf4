// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package intake

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dustin/go-humanize"
	"golang.org/x/sync/semaphore"

	"github.com/danielhkuo/ballotbox/ballot"
	"github.com/danielhkuo/ballotbox/replay"
	"github.com/danielhkuo/ballotbox/tally"
)

// Status is the result class of one submission.
type Status int

const (
	Counted Status = iota
	RejectedDuplicate
	RejectedInvalid
)

func (s Status) String() string {
	switch s {
	case Counted:
		return "counted"
	case RejectedDuplicate:
		return "rejected_duplicate"
	case RejectedInvalid:
		return "rejected_invalid"
	default:
		return "unknown"
	}
}

// Outcome describes what happened to a submission.
type Outcome struct {
	Status Status
	// Reason is set for RejectedInvalid, see ballot.Reason.
	Reason string
	// Count is the post-increment count of the ballot's cell when Counted.
	Count int64
}

// Opener decodes, decrypts and parses a wire ballot. *ballot.Gateway is the
// production implementation.
type Opener interface {
	Open(ctx context.Context, raw string) (ballot.Ballot, error)
}

// Pipeline runs Opener -> replay.Guard -> tally.Store for each submission.
// It is safe for concurrent use.
type Pipeline struct {
	opener Opener
	guard  *replay.Guard
	tally  *tally.Store
	slots  *semaphore.Weighted
}

// New builds a Pipeline. maxInFlight bounds concurrent calls into the
// Opener; zero or less means unbounded. A slot is released when Open
// returns, so a Gateway whose decryptor outlives its timeout frees the slot
// while the decryptor's goroutine keeps running. maxInFlight therefore
// bounds waiting submissions, not abandoned decryptor goroutines.
func New(opener Opener, guard *replay.Guard, store *tally.Store, maxInFlight int64) *Pipeline {
	p := &Pipeline{opener: opener, guard: guard, tally: store}
	if maxInFlight > 0 {
		p.slots = semaphore.NewWeighted(maxInFlight)
	}
	return p
}

// Submit processes one raw ballot. It never retries; a rejected ballot
// leaves the replay guard and the tally untouched.
func (p *Pipeline) Submit(ctx context.Context, raw string) Outcome {
	b, err := p.open(ctx, raw)
	if err != nil {
		reason := ballot.Reason(err)
		slog.WarnContext(ctx, "ballot rejected", "reason", reason, "error", err)
		return Outcome{Status: RejectedInvalid, Reason: reason}
	}

	// admit and increment are separate critical sections; neither is held
	// across decryption.
	if !p.guard.Admit(b.Nonce) {
		slog.InfoContext(ctx, "duplicate ballot discarded", "nonce", b.Nonce)
		return Outcome{Status: RejectedDuplicate}
	}

	n := p.tally.Increment(b.Party, b.Candidate)
	slog.InfoContext(ctx, "ballot counted", "admitted", humanize.Comma(int64(p.guard.Len())))
	slog.DebugContext(ctx, "ballot counted", "party", b.Party, "candidate", b.Candidate, "count", n)

	return Outcome{Status: Counted, Count: n}
}

func (p *Pipeline) open(ctx context.Context, raw string) (ballot.Ballot, error) {
	if p.slots != nil {
		if err := p.slots.Acquire(ctx, 1); err != nil {
			return ballot.Ballot{}, fmt.Errorf("%w: %v", ballot.ErrDecryptionFailed, err)
		}
		defer p.slots.Release(1)
	}
	return p.opener.Open(ctx, raw)
}

// Tally returns a consistent copy of the current counts.
func (p *Pipeline) Tally() tally.Tally {
	return p.tally.Snapshot()
}
