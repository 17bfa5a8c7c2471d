package qrlink

import (
	"context"
	"fmt"
	"log"

	"github.com/samber/mo"

	"qrlink/clients"
	"qrlink/config"
	"qrlink/core"
	"qrlink/models"
)

// QRLinkUseCase watches new messages and answers a trigger reaction on a
// watched message with a QR code linking back to it. The watch registry that
// connects the two deliveries lives in the host; nothing is kept here.
type QRLinkUseCase struct {
	emitter *Emitter
	cfg     config.QRLinkConfig
}

// NewQRLinkUseCase creates a new instance of QRLinkUseCase
func NewQRLinkUseCase(hostClient clients.HostClient, cfg config.QRLinkConfig) *QRLinkUseCase {
	if cfg.TriggerEmoji == "" {
		cfg.TriggerEmoji = EmojiMobilePhone
	}
	if cfg.LinkBaseURL == "" {
		cfg.LinkBaseURL = DefaultLinkBaseURL
	}
	return &QRLinkUseCase{
		emitter: NewEmitter(hostClient),
		cfg:     cfg,
	}
}

// Dispatch routes one event to at most one handler. Events the plugin has no
// handler for succeed without any host call.
func (u *QRLinkUseCase) Dispatch(ctx context.Context, event models.Event) error {
	if event == nil {
		return nil
	}

	switch ev := event.(type) {
	case models.ContentEvent:
		return u.ProcessNewMessage(ctx, ev)
	case models.ReactionAddedEvent:
		return u.ProcessReactionAdded(ctx, ev)
	default:
		eventCtx := event.Context()
		log.Printf("⏭️ Ignoring %q event in guild %s, channel %s", event.Kind(), eventCtx.Guild, eventCtx.Channel)
		return nil
	}
}

// ProcessNewMessage watches the message so later reactions on it are delivered back
func (u *QRLinkUseCase) ProcessNewMessage(ctx context.Context, event models.ContentEvent) error {
	log.Printf("📋 Starting to process new message %s in guild %s, channel %s",
		event.Message.ID, event.Guild, event.Channel)

	if !HasMessageID(event.Message) {
		log.Printf("❌ Content event without a message id in guild %s, channel %s", event.Guild, event.Channel)
		return &core.MalformedEventError{Kind: event.Kind(), Reason: "message id is empty"}
	}

	if err := u.emitter.EmitWatch(ctx, event.Message.ID); err != nil {
		return err
	}
	log.Printf("👀 Watching message %s for %s reactions", event.Message.ID, u.cfg.TriggerEmoji)

	if u.cfg.AckEmoji != "" {
		if err := u.emitter.EmitReaction(ctx, event.Message.ID, u.cfg.AckEmoji); err != nil {
			return err
		}
	}

	log.Printf("📋 Completed successfully - processed new message %s", event.Message.ID)
	return nil
}

// ProcessReactionAdded replies with a QR code when the trigger emoji is added to a watched message
func (u *QRLinkUseCase) ProcessReactionAdded(ctx context.Context, event models.ReactionAddedEvent) error {
	reaction := event.Reaction
	if !MatchesEmoji(reaction, u.cfg.TriggerEmoji) {
		log.Printf("⏭️ Ignoring reaction: %s (not %s)", reaction.With.Name, u.cfg.TriggerEmoji)
		return nil
	}

	log.Printf("📋 Starting to process %s reaction on message %s in guild %s, channel %s",
		reaction.With.Name, reaction.Message.ID, event.Guild, event.Channel)

	if !HasMessageID(reaction.Message) {
		log.Printf("❌ Reaction event without a message id in guild %s, channel %s", event.Guild, event.Channel)
		return &core.MalformedEventError{Kind: event.Kind(), Reason: "reacted message id is empty"}
	}

	link := BuildMessageLink(u.cfg.LinkBaseURL, event.Guild, u.linkChannel(event.EventContext), reaction.Message.ID)
	code, err := RenderQRCode(link)
	if err != nil {
		log.Printf("❌ Failed to render QR code for %s: %v", link, err)
		return fmt.Errorf("failed to build QR code reply: %w", err)
	}

	err = u.emitter.EmitMessage(ctx, mo.Some(event.Channel), FencedBlock(code), mo.Some(reaction.Message.ID))
	if err != nil {
		return err
	}

	log.Printf("📋 Completed successfully - replied to message %s with QR code for %s", reaction.Message.ID, link)
	return nil
}

// linkChannel is the channel id embedded in message links. Events may name
// the channel rather than carry its id, so a configured id takes precedence.
func (u *QRLinkUseCase) linkChannel(eventCtx models.EventContext) string {
	if u.cfg.LinkChannelID != "" {
		return u.cfg.LinkChannelID
	}
	return eventCtx.Channel
}
