package tools

// Tool inputs. Fields without omitempty are required in the MCP schema.

type CreateSessionInput struct {
	BotToken string `json:"bot_token" jsonschema:"Slack bot token (xoxb-...) or env:VAR_NAME naming an environment variable that holds it"`
}

type DestroySessionInput struct {
	SessionID string `json:"session_id" jsonschema:"session handle returned by create_session"`
}

type ListDMsInput struct {
	SessionID string `json:"session_id,omitempty" jsonschema:"session handle returned by create_session"`
	BotToken  string `json:"bot_token,omitempty" jsonschema:"do not use; create a session instead"`
	Limit     int    `json:"limit,omitempty" jsonschema:"maximum number of conversations (default 20)"`
}

type ListRecentMessagesInput struct {
	Channel   string `json:"channel" jsonschema:"conversation id"`
	SessionID string `json:"session_id,omitempty" jsonschema:"session handle returned by create_session"`
	BotToken  string `json:"bot_token,omitempty" jsonschema:"do not use; create a session instead"`
	Limit     int    `json:"limit,omitempty" jsonschema:"maximum number of messages (default 20)"`
}

type SendReplyInput struct {
	Channel   string `json:"channel" jsonschema:"conversation id"`
	Text      string `json:"text" jsonschema:"message text"`
	ThreadTS  string `json:"thread_ts,omitempty" jsonschema:"timestamp of the parent message to reply in thread"`
	SessionID string `json:"session_id,omitempty" jsonschema:"session handle returned by create_session"`
	BotToken  string `json:"bot_token,omitempty" jsonschema:"do not use; create a session instead"`
}

type AutoReplyLatestInput struct {
	Text      string `json:"text,omitempty" jsonschema:"reply text; a default acknowledgement is used when empty"`
	SessionID string `json:"session_id,omitempty" jsonschema:"session handle returned by create_session"`
	BotToken  string `json:"bot_token,omitempty" jsonschema:"do not use; create a session instead"`
}

func (in DestroySessionInput) session() string     { return in.SessionID }
func (in ListDMsInput) session() string            { return in.SessionID }
func (in ListRecentMessagesInput) session() string { return in.SessionID }
func (in SendReplyInput) session() string          { return in.SessionID }
func (in AutoReplyLatestInput) session() string    { return in.SessionID }

// Success payloads.

type CreateSessionOutput struct {
	SessionID string `json:"session_id"`
}

type DestroySessionOutput struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

type DMChannel struct {
	ChannelID   string `json:"channel_id"`
	ChannelName string `json:"channel_name"`
	Profile     string `json:"profile,omitempty"`
}

type ListDMsOutput struct {
	Channels []DMChannel `json:"channels"`
}

type RecentMessage struct {
	Text       string `json:"text"`
	SenderID   string `json:"sender_id"`
	SenderKind string `json:"sender_kind"`
	SenderName string `json:"sender_name"`
	Profile    string `json:"profile"`
	TS         string `json:"ts"`
}

type ListRecentMessagesOutput struct {
	Messages []RecentMessage `json:"messages"`
}

type SendReplyOutput struct {
	OK         bool   `json:"ok"`
	Channel    string `json:"channel"`
	TS         string `json:"ts"`
	SenderName string `json:"sender_name"`
	Profile    string `json:"profile"`
}

type AutoReplyLatestOutput struct {
	Channel    string `json:"channel"`
	TS         string `json:"ts"`
	RepliedTo  string `json:"replied_to_ts"`
	SenderName string `json:"sender_name"`
	Profile    string `json:"profile"`
}
