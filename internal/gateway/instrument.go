package gateway

import (
	"context"
	"time"
)

// Observer receives one notification per gateway call.
type Observer interface {
	ObserveGatewayCall(op string, elapsed time.Duration, err error)
}

// Instrument wraps g so every call is reported to obs. A nil obs returns g.
func Instrument(g Gateway, obs Observer) Gateway {
	if obs == nil {
		return g
	}
	return &instrumented{next: g, obs: obs}
}

// InstrumentFactory wraps every gateway built by f.
func InstrumentFactory(f Factory, obs Observer) Factory {
	if obs == nil {
		return f
	}
	return func(secret string) Gateway {
		return Instrument(f(secret), obs)
	}
}

type instrumented struct {
	next Gateway
	obs  Observer
}

func (i *instrumented) observe(op string, start time.Time, err error) {
	i.obs.ObserveGatewayCall(op, time.Since(start), err)
}

func (i *instrumented) ListConversations(ctx context.Context, types []string, limit int) ([]Conversation, error) {
	start := time.Now()
	out, err := i.next.ListConversations(ctx, types, limit)
	i.observe("list_conversations", start, err)
	return out, err
}

func (i *instrumented) History(ctx context.Context, conversationID string, limit int) ([]Message, error) {
	start := time.Now()
	out, err := i.next.History(ctx, conversationID, limit)
	i.observe("history", start, err)
	return out, err
}

func (i *instrumented) PostMessage(ctx context.Context, conversationID, text, threadTS string) (*PostResult, error) {
	start := time.Now()
	out, err := i.next.PostMessage(ctx, conversationID, text, threadTS)
	i.observe("post_message", start, err)
	return out, err
}

func (i *instrumented) LookupUser(ctx context.Context, userID string) (*UserProfile, error) {
	start := time.Now()
	out, err := i.next.LookupUser(ctx, userID)
	i.observe("lookup_user", start, err)
	return out, err
}

func (i *instrumented) LookupBot(ctx context.Context, botID string) (*BotProfile, error) {
	start := time.Now()
	out, err := i.next.LookupBot(ctx, botID)
	i.observe("lookup_bot", start, err)
	return out, err
}

func (i *instrumented) AuthTest(ctx context.Context) (*AuthInfo, error) {
	start := time.Now()
	out, err := i.next.AuthTest(ctx)
	i.observe("auth_test", start, err)
	return out, err
}
