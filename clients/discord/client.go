package discord

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/bwmarrin/discordgo"

	"qrlink/clients"
	"qrlink/core"
)

// DiscordClient implements the clients.DiscordClient interface on top of a discordgo session
type DiscordClient struct {
	// session is shared with the gateway so REST calls reuse its rate limiter
	session *discordgo.Session
}

// NewDiscordClient creates a new Discord client backed by the given session
func NewDiscordClient(session *discordgo.Session) clients.DiscordClient {
	return &DiscordClient{session: session}
}

// GetBotUser fetches the user the bot token belongs to
func (c *DiscordClient) GetBotUser() (*clients.DiscordBotUser, error) {
	user, err := c.session.User("@me")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch bot user: %w", err)
	}

	return &clients.DiscordBotUser{
		ID:       user.ID,
		Username: user.Username,
		Bot:      user.Bot,
	}, nil
}

// ResolveChannel finds a guild text channel by id or by name
func (c *DiscordClient) ResolveChannel(ctx context.Context, guildID, channel string) (*clients.DiscordChannel, error) {
	channels, err := c.session.GuildChannels(guildID, discordgo.WithContext(ctx))
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("guild %s: %w", guildID, core.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch guild channels: %w", err)
	}

	match := matchTextChannel(channels, channel)
	if match == nil {
		return nil, fmt.Errorf("channel %s in guild %s: %w", channel, guildID, core.ErrNotFound)
	}

	return &clients.DiscordChannel{
		ID:      match.ID,
		Name:    match.Name,
		Type:    int(match.Type),
		GuildID: match.GuildID,
	}, nil
}

// GetMessage fetches a single message from a channel
func (c *DiscordClient) GetMessage(ctx context.Context, channelID, messageID string) (*clients.DiscordMessage, error) {
	message, err := c.session.ChannelMessage(channelID, messageID, discordgo.WithContext(ctx))
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("message %s in channel %s: %w", messageID, channelID, core.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch message: %w", err)
	}

	return &clients.DiscordMessage{
		ID:        message.ID,
		ChannelID: message.ChannelID,
	}, nil
}

// AddReaction reacts to a message with a unicode emoji or a name:id custom emoji
func (c *DiscordClient) AddReaction(ctx context.Context, channelID, messageID, emoji string) error {
	if err := c.session.MessageReactionAdd(channelID, messageID, emoji, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("failed to add reaction: %w", err)
	}
	return nil
}

// PostMessage sends a message to a channel, optionally as a reply
func (c *DiscordClient) PostMessage(
	ctx context.Context,
	channelID string,
	params clients.DiscordMessageParams,
) (*clients.DiscordPostMessageResponse, error) {
	send := &discordgo.MessageSend{
		Content: params.Content,
	}
	if replyTo, ok := params.ReplyTo.Get(); ok {
		send.Reference = &discordgo.MessageReference{
			MessageID: replyTo,
			ChannelID: channelID,
		}
	}

	message, err := c.session.ChannelMessageSendComplex(channelID, send, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to post message: %w", err)
	}

	return &clients.DiscordPostMessageResponse{
		ChannelID: message.ChannelID,
		MessageID: message.ID,
	}, nil
}

// matchTextChannel picks the guild text channel whose id or name equals channel
func matchTextChannel(channels []*discordgo.Channel, channel string) *discordgo.Channel {
	for _, ch := range channels {
		if ch == nil || ch.Type != discordgo.ChannelTypeGuildText {
			continue
		}
		if ch.ID == channel || ch.Name == channel {
			return ch
		}
	}
	return nil
}

func isNotFound(err error) bool {
	var restErr *discordgo.RESTError
	if !errors.As(err, &restErr) || restErr.Response == nil {
		return false
	}
	return restErr.Response.StatusCode == http.StatusNotFound
}
