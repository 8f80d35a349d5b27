// Package selector picks the conversation with the most recent message.
package selector

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"github.com/roelfdiedericks/slackclaw/internal/gateway"
	. "github.com/roelfdiedericks/slackclaw/internal/logging"
)

// ErrNotFound is returned when no candidate has any message.
var ErrNotFound = errors.New("no conversation with recent activity")

// DefaultConcurrency is the number of probes in flight at once.
const DefaultConcurrency = 4

// Prober fetches history; gateway.Gateway satisfies it.
type Prober interface {
	History(ctx context.Context, conversationID string, limit int) ([]gateway.Message, error)
}

// Candidate is a probed conversation.
type Candidate struct {
	ConversationID string
	Latest         gateway.Timestamp
}

// Selector probes candidates with bounded concurrency.
type Selector struct {
	concurrency int
}

// New creates a selector. concurrency <= 0 uses DefaultConcurrency; 1 probes
// sequentially.
func New(concurrency int) *Selector {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	return &Selector{concurrency: concurrency}
}

// SelectLatest fetches the newest message of every conversation and returns
// the one with the greatest timestamp. Conversations without messages are
// skipped; ties go to the earliest id in ids. A probe failure aborts the
// selection with that error.
func (s *Selector) SelectLatest(ctx context.Context, p Prober, ids []string) (Candidate, error) {
	if len(ids) == 0 {
		return Candidate{}, ErrNotFound
	}

	latest := make([]*gateway.Timestamp, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, id := range ids {
		g.Go(func() error {
			ts, err := probe(gctx, p, id)
			if err != nil {
				return err
			}
			latest[i] = ts
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Candidate{}, err
	}

	var best *Candidate
	for i, ts := range latest {
		if ts == nil {
			continue
		}
		if best == nil || ts.After(best.Latest) {
			best = &Candidate{ConversationID: ids[i], Latest: *ts}
		}
	}
	if best == nil {
		return Candidate{}, ErrNotFound
	}

	L_debug("selector: picked latest conversation", "conversation", best.ConversationID,
		"ts", best.Latest.String(), "candidates", len(ids))
	return *best, nil
}

// probe returns the newest message timestamp of id, or nil when the
// conversation is empty or its timestamp is unusable.
func probe(ctx context.Context, p Prober, id string) (*gateway.Timestamp, error) {
	msgs, err := p.History(ctx, id, 1)
	if err != nil {
		return nil, err
	}
	if len(msgs) == 0 {
		return nil, nil
	}

	ts, err := gateway.ParseTimestamp(msgs[0].Timestamp)
	if err != nil {
		L_warn("selector: ignoring message with bad timestamp", "conversation", id, "ts", msgs[0].Timestamp)
		return nil, nil
	}
	return &ts, nil
}
