package tools

import (
	"context"

	. "github.com/roelfdiedericks/slackclaw/internal/logging"
)

// RegisterDefaults registers the Slack tool set backed by svc
func RegisterDefaults(reg *Registry, svc *Service) {
	m := svc.Metrics()

	// Session tools
	reg.Register(newTool("create_session",
		"Create a session and store the provided bot token. Returns session_id.",
		m, func(ctx context.Context, in CreateSessionInput) (any, error) {
			return svc.CreateSession(ctx, in)
		}))
	reg.Register(newTool("destroy_session",
		"Delete a previously created session.",
		m, func(ctx context.Context, in DestroySessionInput) (any, error) {
			return svc.DestroySession(ctx, in)
		}))

	// Conversation tools
	reg.Register(newTool("list_dms",
		"List Slack DM channels with real user names if available; fallback to ID.",
		m, func(ctx context.Context, in ListDMsInput) (any, error) {
			return svc.ListDMs(ctx, in)
		}))
	reg.Register(newTool("list_recent_messages",
		"List recent messages with actual user names; fallback to user ID if unavailable.",
		m, func(ctx context.Context, in ListRecentMessagesInput) (any, error) {
			return svc.ListRecentMessages(ctx, in)
		}))
	reg.Register(newTool("send_reply",
		"Send a message to a channel (IM) or thread. Returns actual sender name and profile if available.",
		m, func(ctx context.Context, in SendReplyInput) (any, error) {
			return svc.SendReply(ctx, in)
		}))
	reg.Register(newTool("auto_reply_latest",
		"Auto-reply to the most recent DM. Returns sender name and profile info.",
		m, func(ctx context.Context, in AutoReplyLatestInput) (any, error) {
			return svc.AutoReplyLatest(ctx, in)
		}))

	L_debug("tools: registered", "count", reg.Count())
}
