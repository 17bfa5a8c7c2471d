package clients

import "github.com/samber/mo"

// DiscordBotUser represents Discord bot user information
type DiscordBotUser struct {
	ID       string
	Username string
	Bot      bool
}

// DiscordChannel represents Discord channel information
type DiscordChannel struct {
	ID      string
	Name    string
	Type    int
	GuildID string
}

// DiscordMessage represents a message fetched from a Discord channel
type DiscordMessage struct {
	ID        string
	ChannelID string
}

// DiscordMessageParams holds parameters for sending Discord messages
type DiscordMessageParams struct {
	Content string
	// ReplyTo threads the new message as a reply to this message id
	ReplyTo mo.Option[string]
}

// DiscordPostMessageResponse represents the response from posting a message to Discord
type DiscordPostMessageResponse struct {
	ChannelID string
	MessageID string
}
