// Package identity resolves raw sender ids into display names.
//
// Resolution is enrichment: a failed lookup degrades to the raw id and never
// reaches the caller as an error.
package identity

import (
	"context"
	"strings"

	"github.com/roelfdiedericks/slackclaw/internal/gateway"
	. "github.com/roelfdiedericks/slackclaw/internal/logging"
)

// UnknownName is the display name for a missing sender id.
const UnknownName = "Unknown"

// Kind classifies a raw sender id.
type Kind int

const (
	KindUnknown Kind = iota
	KindUser
	KindBot
)

func (k Kind) String() string {
	switch k {
	case KindUser:
		return "user"
	case KindBot:
		return "bot"
	default:
		return "unknown"
	}
}

// Sender is a classified raw id.
type Sender struct {
	Kind Kind
	ID   string
}

// Classify tags a raw id by its prefix: U/W for users, B for bots.
// Anything else, including "", is KindUnknown.
func Classify(rawID string) Sender {
	switch {
	case rawID == "":
		return Sender{Kind: KindUnknown}
	case strings.HasPrefix(rawID, "U"), strings.HasPrefix(rawID, "W"):
		return Sender{Kind: KindUser, ID: rawID}
	case strings.HasPrefix(rawID, "B"):
		return Sender{Kind: KindBot, ID: rawID}
	default:
		return Sender{Kind: KindUnknown, ID: rawID}
	}
}

// Identity is the derived, never-stored view of a sender.
type Identity struct {
	RawID       string
	Kind        Kind
	DisplayName string
	Contact     string // email for users, empty otherwise
}

// Lookup is the part of gateway.Gateway the resolver needs.
type Lookup interface {
	LookupUser(ctx context.Context, userID string) (*gateway.UserProfile, error)
	LookupBot(ctx context.Context, botID string) (*gateway.BotProfile, error)
}

// FallbackObserver is told whenever an enrichment lookup degrades.
type FallbackObserver interface {
	ObserveEnrichmentFallback(kind string)
}

// Resolver produces Identities using best-effort lookups.
type Resolver struct {
	lookup   Lookup
	observer FallbackObserver
}

// NewResolver creates a resolver over lookup. observer may be nil.
func NewResolver(lookup Lookup, observer FallbackObserver) *Resolver {
	return &Resolver{lookup: lookup, observer: observer}
}

// Resolve never fails.
func (r *Resolver) Resolve(ctx context.Context, rawID string) Identity {
	sender := Classify(rawID)

	switch sender.Kind {
	case KindUser:
		profile := enrich(r, sender, func() (*gateway.UserProfile, error) {
			return r.lookup.LookupUser(ctx, sender.ID)
		})
		if profile == nil {
			return Identity{RawID: rawID, Kind: KindUser, DisplayName: rawID}
		}
		return Identity{
			RawID:       rawID,
			Kind:        KindUser,
			DisplayName: orDefault(profile.RealName, rawID),
			Contact:     profile.Email,
		}

	case KindBot:
		profile := enrich(r, sender, func() (*gateway.BotProfile, error) {
			return r.lookup.LookupBot(ctx, sender.ID)
		})
		if profile == nil {
			return Identity{RawID: rawID, Kind: KindBot, DisplayName: rawID}
		}
		return Identity{RawID: rawID, Kind: KindBot, DisplayName: orDefault(profile.Name, rawID)}

	default:
		return Identity{RawID: rawID, Kind: KindUnknown, DisplayName: orDefault(rawID, UnknownName)}
	}
}

// enrich runs an optional lookup and unwraps it to a value. A failure is
// logged, reported, and turned into nil; it is never returned.
func enrich[T any](r *Resolver, sender Sender, lookup func() (*T, error)) *T {
	v, err := lookup()
	if err == nil && v != nil {
		return v
	}

	L_debug("identity: lookup degraded to raw id", "kind", sender.Kind.String(), "id", sender.ID,
		"code", gateway.ErrorCode(err), "error", err)
	if r.observer != nil {
		r.observer.ObserveEnrichmentFallback(sender.Kind.String())
	}
	return nil
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

// Memo caches identities for the duration of one tool call.
type Memo struct {
	r    *Resolver
	seen map[string]Identity
}

// NewMemo creates an empty per-call cache over r.
func NewMemo(r *Resolver) *Memo {
	return &Memo{r: r, seen: make(map[string]Identity)}
}

// Resolve returns the cached identity for rawID, resolving it on first use.
func (m *Memo) Resolve(ctx context.Context, rawID string) Identity {
	if id, ok := m.seen[rawID]; ok {
		return id
	}
	id := m.r.Resolve(ctx, rawID)
	m.seen[rawID] = id
	return id
}
