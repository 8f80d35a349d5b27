package gateway

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/slack-go/slack"

	. "github.com/roelfdiedericks/slackclaw/internal/logging"
)

// DefaultTimeout bounds every Slack Web API call.
const DefaultTimeout = 15 * time.Second

// SlackOptions configures Slack clients built by SlackFactory.
type SlackOptions struct {
	APIURL     string       // override for the Web API base URL (must end in "/")
	Timeout    time.Duration
	HTTPClient *http.Client // takes precedence over Timeout
}

// Slack implements Gateway on top of the Slack Web API.
type Slack struct {
	api *slack.Client
}

var _ Gateway = (*Slack)(nil)

// NewSlack creates a Slack gateway for a resolved bot token.
func NewSlack(token string, opts SlackOptions) *Slack {
	client := opts.HTTPClient
	if client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		client = &http.Client{Timeout: timeout}
	}

	slackOpts := []slack.Option{slack.OptionHTTPClient(client)}
	if opts.APIURL != "" {
		slackOpts = append(slackOpts, slack.OptionAPIURL(opts.APIURL))
	}

	return &Slack{api: slack.New(token, slackOpts...)}
}

// SlackFactory returns a Factory building Slack gateways with opts.
func SlackFactory(opts SlackOptions) Factory {
	return func(secret string) Gateway {
		return NewSlack(secret, opts)
	}
}

func (s *Slack) ListConversations(ctx context.Context, types []string, limit int) ([]Conversation, error) {
	channels, _, err := s.api.GetConversationsContext(ctx, &slack.GetConversationsParameters{
		Types:           types,
		Limit:           limit,
		ExcludeArchived: true,
	})
	if err != nil {
		return nil, wrapSlackError("conversations.list", err)
	}

	out := make([]Conversation, 0, len(channels))
	for _, ch := range channels {
		out = append(out, Conversation{
			ID:              ch.ID,
			Name:            ch.Name,
			IsDirectMessage: ch.IsIM,
			PeerUserID:      ch.User,
		})
	}
	return out, nil
}

func (s *Slack) History(ctx context.Context, conversationID string, limit int) ([]Message, error) {
	resp, err := s.api.GetConversationHistoryContext(ctx, &slack.GetConversationHistoryParameters{
		ChannelID: conversationID,
		Limit:     limit,
	})
	if err != nil {
		return nil, wrapSlackError("conversations.history", err)
	}

	out := make([]Message, 0, len(resp.Messages))
	for _, m := range resp.Messages {
		out = append(out, Message{
			Text:         m.Text,
			SenderUserID: m.User,
			SenderBotID:  m.BotID,
			Timestamp:    m.Timestamp,
			ThreadTS:     m.ThreadTimestamp,
		})
	}
	return out, nil
}

// PostMessage posts as the bot. chat.postMessage does not surface the posted
// message through slack-go, so the sender is taken from auth.test; failure
// there leaves Sender empty.
func (s *Slack) PostMessage(ctx context.Context, conversationID, text, threadTS string) (*PostResult, error) {
	opts := []slack.MsgOption{slack.MsgOptionText(text, false)}
	if threadTS != "" {
		opts = append(opts, slack.MsgOptionTS(threadTS))
	}

	channel, ts, err := s.api.PostMessageContext(ctx, conversationID, opts...)
	if err != nil {
		return nil, wrapSlackError("chat.postMessage", err)
	}

	result := &PostResult{OK: true, ConversationID: channel, Timestamp: ts}
	if auth, err := s.api.AuthTestContext(ctx); err == nil {
		result.Sender = Sender{UserID: auth.UserID, BotID: auth.BotID}
	} else {
		L_debug("slack: auth.test after post failed", "error", err)
	}
	return result, nil
}

func (s *Slack) LookupUser(ctx context.Context, userID string) (*UserProfile, error) {
	u, err := s.api.GetUserInfoContext(ctx, userID)
	if err != nil {
		return nil, wrapSlackError("users.info", err)
	}
	return &UserProfile{
		ID:       u.ID,
		Name:     u.Name,
		RealName: u.RealName,
		Email:    u.Profile.Email,
	}, nil
}

func (s *Slack) LookupBot(ctx context.Context, botID string) (*BotProfile, error) {
	b, err := s.api.GetBotInfoContext(ctx, slack.GetBotInfoParameters{Bot: botID})
	if err != nil {
		return nil, wrapSlackError("bots.info", err)
	}
	return &BotProfile{ID: b.ID, Name: b.Name}, nil
}

func (s *Slack) AuthTest(ctx context.Context) (*AuthInfo, error) {
	r, err := s.api.AuthTestContext(ctx)
	if err != nil {
		return nil, wrapSlackError("auth.test", err)
	}
	return &AuthInfo{
		Team:   r.Team,
		TeamID: r.TeamID,
		User:   r.User,
		UserID: r.UserID,
		BotID:  r.BotID,
		URL:    r.URL,
	}, nil
}

// wrapSlackError maps slack-go errors onto *Error with the platform code.
func wrapSlackError(op string, err error) error {
	var apiErr slack.SlackErrorResponse
	if errors.As(err, &apiErr) {
		return &Error{Op: op, Code: apiErr.Err, Err: err}
	}

	var rateErr *slack.RateLimitedError
	if errors.As(err, &rateErr) {
		return &Error{Op: op, Code: CodeRateLimited, Err: err}
	}

	return &Error{Op: op, Code: CodeRequestFailed, Err: err}
}
