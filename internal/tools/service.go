package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/roelfdiedericks/slackclaw/internal/credential"
	"github.com/roelfdiedericks/slackclaw/internal/gateway"
	"github.com/roelfdiedericks/slackclaw/internal/identity"
	. "github.com/roelfdiedericks/slackclaw/internal/logging"
	"github.com/roelfdiedericks/slackclaw/internal/metrics"
	"github.com/roelfdiedericks/slackclaw/internal/selector"
	"github.com/roelfdiedericks/slackclaw/internal/session"
)

const (
	// DefaultLimit applies when a caller passes no limit or a non-positive one.
	DefaultLimit = 20

	// MaxLimit caps caller-supplied limits.
	MaxLimit = 1000

	// DefaultReplyText is posted by auto_reply_latest when no text is given.
	DefaultReplyText = "Thanks! I'll get back to you soon."

	// DefaultScanLimit is how many DM conversations auto_reply_latest considers.
	DefaultScanLimit = 100
)

// Options tunes the façade.
type Options struct {
	DefaultReply     string
	ScanLimit        int
	ProbeConcurrency int
}

// Deps are the collaborators of a Service.
type Deps struct {
	Sessions    *session.Store
	Credentials *credential.Resolver
	Dial        gateway.Factory
	Metrics     *metrics.Metrics // optional
	Options     Options
}

// Service implements the tool operations.
type Service struct {
	sessions    *session.Store
	credentials *credential.Resolver
	dial        gateway.Factory
	metrics     *metrics.Metrics
	selector    *selector.Selector
	opts        Options
}

// NewService creates a Service. Gateways built through Dial are instrumented
// when Metrics is set.
func NewService(d Deps) *Service {
	if d.Credentials == nil {
		d.Credentials = credential.NewResolver()
	}
	if d.Options.DefaultReply == "" {
		d.Options.DefaultReply = DefaultReplyText
	}
	if d.Options.ScanLimit <= 0 {
		d.Options.ScanLimit = DefaultScanLimit
	}

	dial := d.Dial
	if d.Metrics != nil {
		dial = gateway.InstrumentFactory(dial, d.Metrics)
	}

	return &Service{
		sessions:    d.Sessions,
		credentials: d.Credentials,
		dial:        dial,
		metrics:     d.Metrics,
		selector:    selector.New(d.Options.ProbeConcurrency),
		opts:        d.Options,
	}
}

// Metrics returns the metrics the service records to, possibly nil.
func (s *Service) Metrics() *metrics.Metrics {
	return s.metrics
}

// CreateSession validates the credential and stores it under a new handle.
func (s *Service) CreateSession(_ context.Context, in CreateSessionInput) (*CreateSessionOutput, error) {
	if _, err := s.credentials.Resolve(in.BotToken); err != nil {
		return nil, err
	}
	handle := s.sessions.Create(in.BotToken)
	L_info("tools: session created", "session", ShortID(handle), "credential", credential.Redact(in.BotToken))
	return &CreateSessionOutput{SessionID: handle}, nil
}

// DestroySession removes a session. An unknown handle is reported in the
// payload, not as an error.
func (s *Service) DestroySession(_ context.Context, in DestroySessionInput) (*DestroySessionOutput, error) {
	if !s.sessions.Destroy(in.SessionID) {
		return &DestroySessionOutput{OK: false, Error: CodeInvalidSession}, nil
	}
	L_info("tools: session destroyed", "session", ShortID(in.SessionID))
	return &DestroySessionOutput{OK: true}, nil
}

// ListDMs lists direct message conversations, named after their peer.
func (s *Service) ListDMs(ctx context.Context, in ListDMsInput) (*ListDMsOutput, error) {
	gw, err := s.connect(in.SessionID, in.BotToken)
	if err != nil {
		return nil, err
	}

	convs, err := gw.ListConversations(ctx, []string{gateway.TypeIM}, normalizeLimit(in.Limit))
	if err != nil {
		return nil, err
	}

	ids := s.identities(gw)
	out := &ListDMsOutput{Channels: make([]DMChannel, 0, len(convs))}
	for _, c := range convs {
		if c.PeerUserID == "" {
			name := c.Name
			if name == "" {
				name = c.ID
			}
			out.Channels = append(out.Channels, DMChannel{ChannelID: c.ID, ChannelName: name})
			continue
		}
		peer := ids.Resolve(ctx, c.PeerUserID)
		out.Channels = append(out.Channels, DMChannel{
			ChannelID:   c.ID,
			ChannelName: "Direct Message with " + peer.DisplayName,
			Profile:     peer.Contact,
		})
	}
	return out, nil
}

// ListRecentMessages returns the newest messages of a conversation with
// resolved sender names.
func (s *Service) ListRecentMessages(ctx context.Context, in ListRecentMessagesInput) (*ListRecentMessagesOutput, error) {
	if err := requireChannel(in.Channel); err != nil {
		return nil, err
	}
	gw, err := s.connect(in.SessionID, in.BotToken)
	if err != nil {
		return nil, err
	}

	msgs, err := gw.History(ctx, in.Channel, normalizeLimit(in.Limit))
	if err != nil {
		return nil, err
	}

	ids := s.identities(gw)
	out := &ListRecentMessagesOutput{Messages: make([]RecentMessage, 0, len(msgs))}
	for _, m := range msgs {
		sender := ids.Resolve(ctx, m.SenderID())
		out.Messages = append(out.Messages, RecentMessage{
			Text:       m.Text,
			SenderID:   senderID(sender),
			SenderKind: sender.Kind.String(),
			SenderName: sender.DisplayName,
			Profile:    sender.Contact,
			TS:         m.Timestamp,
		})
	}
	return out, nil
}

// SendReply posts text to a conversation, optionally in a thread.
func (s *Service) SendReply(ctx context.Context, in SendReplyInput) (*SendReplyOutput, error) {
	if err := requireChannel(in.Channel); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Text) == "" {
		return nil, invalidInput("text is required")
	}
	gw, err := s.connect(in.SessionID, in.BotToken)
	if err != nil {
		return nil, err
	}

	res, err := gw.PostMessage(ctx, in.Channel, in.Text, in.ThreadTS)
	if err != nil {
		return nil, err
	}

	sender := s.identities(gw).Resolve(ctx, res.Sender.ID())
	channel := res.ConversationID
	if channel == "" {
		channel = in.Channel
	}
	return &SendReplyOutput{
		OK:         res.OK,
		Channel:    channel,
		TS:         res.Timestamp,
		SenderName: sender.DisplayName,
		Profile:    sender.Contact,
	}, nil
}

// AutoReplyLatest replies to the direct message conversation with the most
// recent message.
func (s *Service) AutoReplyLatest(ctx context.Context, in AutoReplyLatestInput) (*AutoReplyLatestOutput, error) {
	text := in.Text
	if strings.TrimSpace(text) == "" {
		text = s.opts.DefaultReply
	}
	gw, err := s.connect(in.SessionID, in.BotToken)
	if err != nil {
		return nil, err
	}

	convs, err := gw.ListConversations(ctx, []string{gateway.TypeIM}, s.opts.ScanLimit)
	if err != nil {
		return nil, err
	}
	if len(convs) == 0 {
		return nil, errNoIMChannels
	}

	candidates := make([]string, len(convs))
	for i, c := range convs {
		candidates[i] = c.ID
	}
	latest, err := s.selector.SelectLatest(ctx, gw, candidates)
	if err != nil {
		return nil, err
	}

	res, err := gw.PostMessage(ctx, latest.ConversationID, text, "")
	if err != nil {
		return nil, err
	}

	sender := s.identities(gw).Resolve(ctx, res.Sender.ID())
	channel := res.ConversationID
	if channel == "" {
		channel = latest.ConversationID
	}
	return &AutoReplyLatestOutput{
		Channel:    channel,
		TS:         res.Timestamp,
		RepliedTo:  latest.Latest.String(),
		SenderName: sender.DisplayName,
		Profile:    sender.Contact,
	}, nil
}

// connect resolves session -> credential -> gateway. Nothing here talks to
// the platform, so every failure happens before the first gateway call.
func (s *Service) connect(sessionID, botToken string) (gateway.Gateway, error) {
	if botToken != "" && sessionID == "" {
		return nil, errSessionRequired
	}

	raw, err := s.sessions.Resolve(sessionID)
	if err != nil {
		return nil, err
	}
	secret, err := s.credentials.Resolve(raw)
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", ShortID(sessionID), err)
	}
	return s.dial(secret), nil
}

// identities returns a resolver cache scoped to one call.
func (s *Service) identities(gw gateway.Gateway) *identity.Memo {
	var obs identity.FallbackObserver
	if s.metrics != nil {
		obs = s.metrics
	}
	return identity.NewMemo(identity.NewResolver(gw, obs))
}

func senderID(id identity.Identity) string {
	if id.RawID == "" {
		return identity.UnknownName
	}
	return id.RawID
}

func requireChannel(channel string) error {
	if strings.TrimSpace(channel) == "" {
		return invalidInput("channel is required")
	}
	return nil
}

func normalizeLimit(n int) int {
	switch {
	case n <= 0:
		return DefaultLimit
	case n > MaxLimit:
		return MaxLimit
	}
	return n
}
