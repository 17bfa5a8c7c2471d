package host

import (
	"context"
	"errors"
	"fmt"
	"log"
	"slices"

	"qrlink/appctx"
	"qrlink/clients"
	"qrlink/config"
	"qrlink/core"
	"qrlink/models"
	"qrlink/services/watches"
)

var (
	errNoInvocation = errors.New("no invocation in context")

	// ErrTokensExhausted is returned when a guild has spent its host call budget
	ErrTokensExhausted = errors.New("not enough tokens")

	// ErrChannelNotAllowed is returned when a message targets a channel outside the allowlist
	ErrChannelNotAllowed = errors.New("disallowed channel")
)

// HostService implements clients.HostClient against Discord. Calls are scoped
// to the invocation stored in the context: channels resolve inside its guild
// and default to its channel. Every call is paid for from the guild's token bucket.
type HostService struct {
	discordClient   clients.DiscordClient
	watchesService  *watches.WatchesService
	tokens          *guildTokens
	allowedChannels []string
}

func NewHostService(
	discordClient clients.DiscordClient,
	watchesService *watches.WatchesService,
	cfg config.HostConfig,
) *HostService {
	return &HostService{
		discordClient:   discordClient,
		watchesService:  watchesService,
		tokens:          newGuildTokens(cfg.MaxTokens),
		allowedChannels: cfg.AllowedChannels,
	}
}

// WatchMessage registers interest in reactions on a message of the invocation channel.
// Missing channels and messages are reported through the result code, not as errors.
func (h *HostService) WatchMessage(ctx context.Context, messageID string) (*models.WatchResult, error) {
	invocation, ok := appctx.GetInvocation(ctx)
	if !ok {
		return nil, errNoInvocation
	}
	if !h.tokens.spend(invocation.Guild, TokenCostWatch) {
		log.Printf("⚠️ hostFunction.watchMessage: guild %s ran out of tokens", invocation.Guild)
		return models.NewWatchResultError(models.WatchErrorCodeTokensExhausted, ErrTokensExhausted.Error()), nil
	}

	channel, err := h.discordClient.ResolveChannel(ctx, invocation.Guild, invocation.Channel)
	if err != nil {
		if core.IsNotFoundError(err) {
			log.Printf("⚠️ hostFunction.watchMessage: channel %s could not be found", invocation.Channel)
			return models.NewWatchResultError(models.WatchErrorCodeNoSuchChannel, "no such channel"), nil
		}
		return nil, fmt.Errorf("failed to resolve channel: %w", err)
	}

	if _, err := h.discordClient.GetMessage(ctx, channel.ID, messageID); err != nil {
		if core.IsNotFoundError(err) {
			log.Printf("⚠️ hostFunction.watchMessage: no message by id %s", messageID)
			return models.NewWatchResultError(models.WatchErrorCodeNoSuchMessage, "no such message"), nil
		}
		return nil, fmt.Errorf("failed to fetch message: %w", err)
	}

	if _, err := h.watchesService.WatchMessage(ctx, invocation.Guild, channel.ID, messageID); err != nil {
		return nil, err
	}

	return models.NewWatchResultOK(), nil
}

// React adds an emoji to a message of the invocation channel
func (h *HostService) React(ctx context.Context, reaction models.OutgoingReaction) error {
	invocation, ok := appctx.GetInvocation(ctx)
	if !ok {
		return errNoInvocation
	}
	if reaction.With == "" {
		return fmt.Errorf("reaction emoji cannot be empty")
	}
	if !h.tokens.spend(invocation.Guild, TokenCostReaction) {
		log.Printf("⚠️ hostFunction.react: guild %s ran out of tokens", invocation.Guild)
		return ErrTokensExhausted
	}

	channel, err := h.discordClient.ResolveChannel(ctx, invocation.Guild, invocation.Channel)
	if err != nil {
		return fmt.Errorf("failed to resolve channel: %w", err)
	}

	return h.discordClient.AddReaction(ctx, channel.ID, reaction.MessageID, reaction.With)
}

// SendMessage posts a message to its channel, or the invocation channel when unset
func (h *HostService) SendMessage(ctx context.Context, message models.OutgoingMessage) error {
	invocation, ok := appctx.GetInvocation(ctx)
	if !ok {
		return errNoInvocation
	}
	if message.Message == "" {
		return fmt.Errorf("message body cannot be empty")
	}
	if !h.tokens.spend(invocation.Guild, TokenCostSendMessage) {
		log.Printf("⚠️ hostFunction.sendMessage: guild %s ran out of tokens", invocation.Guild)
		return ErrTokensExhausted
	}

	channelRef := message.Channel.OrElse(invocation.Channel)
	channel, err := h.discordClient.ResolveChannel(ctx, invocation.Guild, channelRef)
	if err != nil {
		return fmt.Errorf("failed to resolve channel: %w", err)
	}
	if !h.isChannelAllowed(channel) {
		return fmt.Errorf("channel %s: %w", channelRef, ErrChannelNotAllowed)
	}

	resp, err := h.discordClient.PostMessage(ctx, channel.ID, clients.DiscordMessageParams{
		Content: message.Message,
		ReplyTo: message.Reply,
	})
	if err != nil {
		return err
	}

	log.Printf("📨 Posted message %s to channel %s", resp.MessageID, resp.ChannelID)
	return nil
}

func (h *HostService) isChannelAllowed(channel *clients.DiscordChannel) bool {
	if len(h.allowedChannels) == 0 {
		return true
	}
	return slices.Contains(h.allowedChannels, channel.ID) || slices.Contains(h.allowedChannels, channel.Name)
}
