package handlers

import (
	"context"
	"fmt"
	"log"
	"regexp"

	"github.com/bwmarrin/discordgo"

	"qrlink/models"
)

// EventDeliverer accepts a host event for dispatch
type EventDeliverer interface {
	Deliver(ctx context.Context, incoming models.IncomingEvent) error
}

// WatchRegistry decides which reaction and reference events reach the dispatcher
type WatchRegistry interface {
	IsWatched(ctx context.Context, guildID, messageID string) (bool, error)
	UnwatchMessage(ctx context.Context, guildID, messageID string) error
}

type DiscordEventsHandler struct {
	discordSDKClient *discordgo.Session
	deliverer        EventDeliverer
	watchRegistry    WatchRegistry
	listenPattern    *regexp.Regexp
}

func NewDiscordEventsHandler(
	session *discordgo.Session,
	deliverer EventDeliverer,
	watchRegistry WatchRegistry,
	listenPattern string,
) (*DiscordEventsHandler, error) {
	pattern, err := regexp.Compile(listenPattern)
	if err != nil {
		return nil, fmt.Errorf("invalid listen pattern: %w", err)
	}

	handler := &DiscordEventsHandler{
		discordSDKClient: session,
		deliverer:        deliverer,
		watchRegistry:    watchRegistry,
		listenPattern:    pattern,
	}

	// Register event handlers
	session.AddHandler(handler.handleMessageCreatedEvent)
	session.AddHandler(handler.handleMessageDeletedEvent)
	session.AddHandler(handler.handleMessagesBulkDeletedEvent)
	session.AddHandler(handler.handleReactionAddedEvent)
	session.AddHandler(handler.handleReactionRemovedEvent)

	// Message content is needed for the listen pattern
	session.Identify.Intents = discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildMessageReactions |
		discordgo.IntentMessageContent

	return handler, nil
}

// StartBot opens the Discord connection and starts listening for events
func (h *DiscordEventsHandler) StartBot() error {
	err := h.discordSDKClient.Open()
	if err != nil {
		return fmt.Errorf("failed to open Discord session: %w", err)
	}

	log.Printf("🤖 Discord bot is now running and listening for events")
	return nil
}

// StopBot gracefully closes the Discord connection
func (h *DiscordEventsHandler) StopBot() {
	if err := h.discordSDKClient.Close(); err != nil {
		log.Printf("⚠️ Failed to close Discord session: %v", err)
	}
}

func (h *DiscordEventsHandler) handleMessageCreatedEvent(s *discordgo.Session, m *discordgo.MessageCreate) {
	h.processMessageCreated(context.Background(), m)
}

func (h *DiscordEventsHandler) handleMessageDeletedEvent(s *discordgo.Session, m *discordgo.MessageDelete) {
	h.processMessageDeleted(context.Background(), m)
}

func (h *DiscordEventsHandler) handleMessagesBulkDeletedEvent(s *discordgo.Session, m *discordgo.MessageDeleteBulk) {
	h.processMessagesBulkDeleted(context.Background(), m)
}

func (h *DiscordEventsHandler) handleReactionAddedEvent(s *discordgo.Session, r *discordgo.MessageReactionAdd) {
	h.processReactionAdded(context.Background(), sessionUserID(s), r)
}

func (h *DiscordEventsHandler) handleReactionRemovedEvent(s *discordgo.Session, r *discordgo.MessageReactionRemove) {
	h.processReactionRemoved(context.Background(), sessionUserID(s), r)
}

func (h *DiscordEventsHandler) processMessageCreated(ctx context.Context, m *discordgo.MessageCreate) {
	if m.Message == nil || m.Author == nil || m.Author.Bot {
		return
	}
	if m.GuildID == "" {
		log.Printf("⏭️ Ignoring direct message %s", m.ID)
		return
	}

	log.Printf("📨 Discord message received from %s in guild %s, channel %s",
		m.Author.Username, m.GuildID, m.ChannelID)

	if m.MessageReference != nil && h.shouldDeliver(ctx, m.GuildID, m.MessageReference.MessageID) {
		if err := h.deliverer.Deliver(ctx, mapToReferenceEvent(m)); err != nil {
			log.Printf("❌ Failed to process reference to message %s: %v", m.MessageReference.MessageID, err)
		}
	}

	if !h.listenPattern.MatchString(m.Content) {
		return
	}
	if err := h.deliverer.Deliver(ctx, mapToContentEvent(m)); err != nil {
		log.Printf("❌ Failed to process Discord message: %v", err)
	}
}

func (h *DiscordEventsHandler) processMessageDeleted(ctx context.Context, m *discordgo.MessageDelete) {
	if m.Message == nil || m.GuildID == "" {
		return
	}
	if err := h.watchRegistry.UnwatchMessage(ctx, m.GuildID, m.ID); err != nil {
		log.Printf("⚠️ Failed to unwatch deleted message %s: %v", m.ID, err)
	}
}

func (h *DiscordEventsHandler) processMessagesBulkDeleted(ctx context.Context, m *discordgo.MessageDeleteBulk) {
	if m.GuildID == "" {
		return
	}
	log.Printf("🧹 %d messages bulk deleted in guild %s, channel %s", len(m.Messages), m.GuildID, m.ChannelID)
	for _, messageID := range m.Messages {
		if err := h.watchRegistry.UnwatchMessage(ctx, m.GuildID, messageID); err != nil {
			log.Printf("⚠️ Failed to unwatch deleted message %s: %v", messageID, err)
		}
	}
}

func (h *DiscordEventsHandler) processReactionAdded(ctx context.Context, botUserID string, r *discordgo.MessageReactionAdd) {
	if r.MessageReaction == nil || r.UserID == botUserID {
		return
	}

	log.Printf("🤖 Discord reaction %s added by user %s on message %s in guild %s",
		r.Emoji.Name, r.UserID, r.MessageID, r.GuildID)

	if !h.shouldDeliver(ctx, r.GuildID, r.MessageID) {
		return
	}
	event := mapToReactionEvent(models.EventKindReactionAdded, r.MessageReaction, reactingUser(r))
	if err := h.deliverer.Deliver(ctx, event); err != nil {
		log.Printf("❌ Failed to process Discord reaction: %v", err)
	}
}

func (h *DiscordEventsHandler) processReactionRemoved(ctx context.Context, botUserID string, r *discordgo.MessageReactionRemove) {
	if r.MessageReaction == nil || r.UserID == botUserID {
		return
	}
	if !h.shouldDeliver(ctx, r.GuildID, r.MessageID) {
		return
	}
	event := mapToReactionEvent(models.EventKindReactionRemoved, r.MessageReaction, r.UserID)
	if err := h.deliverer.Deliver(ctx, event); err != nil {
		log.Printf("❌ Failed to process Discord reaction removal: %v", err)
	}
}

// shouldDeliver reports whether the message is watched. Registry failures drop the event.
func (h *DiscordEventsHandler) shouldDeliver(ctx context.Context, guildID, messageID string) bool {
	watched, err := h.watchRegistry.IsWatched(ctx, guildID, messageID)
	if err != nil {
		log.Printf("❌ Failed to check watch on message %s: %v", messageID, err)
		return false
	}
	if !watched {
		log.Printf("⏭️ Message %s is not watched - ignoring event", messageID)
	}
	return watched
}

func sessionUserID(s *discordgo.Session) string {
	if s == nil || s.State == nil || s.State.User == nil {
		return ""
	}
	return s.State.User.ID
}

func reactingUser(r *discordgo.MessageReactionAdd) string {
	if r.Member != nil && r.Member.User != nil {
		return r.Member.User.Username
	}
	return r.UserID
}

func mapToContentEvent(m *discordgo.MessageCreate) models.IncomingEvent {
	return models.IncomingEvent{
		Kind:    models.EventKindContent,
		Guild:   m.GuildID,
		Channel: m.ChannelID,
		Message: mapToIncomingMessage(m.Message),
	}
}

func mapToReferenceEvent(m *discordgo.MessageCreate) models.IncomingEvent {
	return models.IncomingEvent{
		Kind:    models.EventKindReference,
		Guild:   m.GuildID,
		Channel: m.ChannelID,
		Message: mapToIncomingMessage(m.Message),
	}
}

func mapToIncomingMessage(m *discordgo.Message) *models.IncomingMessage {
	message := &models.IncomingMessage{
		ID:      m.ID,
		Content: m.Content,
	}
	if m.Author != nil {
		message.Author = m.Author.Username
	}
	if m.MessageReference != nil {
		message.Reference = m.MessageReference.MessageID
	}
	return message
}

func mapToReactionEvent(kind string, r *discordgo.MessageReaction, from string) models.IncomingEvent {
	return models.IncomingEvent{
		Kind:    kind,
		Guild:   r.GuildID,
		Channel: r.ChannelID,
		Reaction: &models.IncomingReaction{
			With: models.Emoji{
				Name:     r.Emoji.Name,
				ID:       r.Emoji.ID,
				Animated: r.Emoji.Animated,
			},
			Message: models.IncomingMessage{ID: r.MessageID},
			From:    from,
		},
	}
}
