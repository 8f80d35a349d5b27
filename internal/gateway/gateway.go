// Package gateway is the boundary to the remote messaging platform.
//
// Everything above this package talks to a Gateway; the Slack Web API
// implementation lives in slack.go.
package gateway

import "context"

// Conversation types accepted by ListConversations.
const (
	TypeIM      = "im"
	TypeMPIM    = "mpim"
	TypePublic  = "public_channel"
	TypePrivate = "private_channel"
)

// Gateway is the set of platform calls the tool façade needs.
type Gateway interface {
	// ListConversations lists conversations of the given types.
	ListConversations(ctx context.Context, types []string, limit int) ([]Conversation, error)

	// History returns up to limit messages, newest first.
	History(ctx context.Context, conversationID string, limit int) ([]Message, error)

	// PostMessage posts text, optionally as a reply in threadTS.
	PostMessage(ctx context.Context, conversationID, text, threadTS string) (*PostResult, error)

	// LookupUser returns a user's profile.
	LookupUser(ctx context.Context, userID string) (*UserProfile, error)

	// LookupBot returns a bot's profile.
	LookupBot(ctx context.Context, botID string) (*BotProfile, error)

	// AuthTest reports who the credential belongs to.
	AuthTest(ctx context.Context) (*AuthInfo, error)
}

// Factory builds a Gateway for a resolved secret.
type Factory func(secret string) Gateway

// Conversation is one entry from ListConversations.
type Conversation struct {
	ID              string
	Name            string
	IsDirectMessage bool
	PeerUserID      string // set for direct messages
}

// Message is one history entry.
type Message struct {
	Text         string
	SenderUserID string
	SenderBotID  string
	Timestamp    string // platform "ts"
	ThreadTS     string
}

// SenderID returns the user id if present, else the bot id.
func (m Message) SenderID() string {
	if m.SenderUserID != "" {
		return m.SenderUserID
	}
	return m.SenderBotID
}

// PostResult is the outcome of PostMessage.
type PostResult struct {
	OK             bool
	ConversationID string
	Timestamp      string
	Sender         Sender
}

// Sender identifies who posted a message.
type Sender struct {
	UserID string
	BotID  string
}

// ID returns the user id if present, else the bot id.
func (s Sender) ID() string {
	if s.UserID != "" {
		return s.UserID
	}
	return s.BotID
}

// UserProfile is the subset of user info used for enrichment.
type UserProfile struct {
	ID       string
	Name     string
	RealName string
	Email    string
}

// BotProfile is the subset of bot info used for enrichment.
type BotProfile struct {
	ID   string
	Name string
}

// AuthInfo is the result of AuthTest.
type AuthInfo struct {
	Team   string
	TeamID string
	User   string
	UserID string
	BotID  string
	URL    string
}
