package clients

import (
	"context"

	"qrlink/models"
)

// HostClient is the host-call surface a plugin handler can use.
// Each method performs exactly one call against the host.
type HostClient interface {
	React(ctx context.Context, reaction models.OutgoingReaction) error
	WatchMessage(ctx context.Context, messageID string) (*models.WatchResult, error)
	SendMessage(ctx context.Context, message models.OutgoingMessage) error
}

// DiscordClient defines the Discord operations the host needs
type DiscordClient interface {
	GetBotUser() (*DiscordBotUser, error)
	ResolveChannel(ctx context.Context, guildID, channel string) (*DiscordChannel, error)
	GetMessage(ctx context.Context, channelID, messageID string) (*DiscordMessage, error)
	AddReaction(ctx context.Context, channelID, messageID, emoji string) error
	PostMessage(ctx context.Context, channelID string, params DiscordMessageParams) (*DiscordPostMessageResponse, error)
}
