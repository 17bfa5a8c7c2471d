package watches

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/samber/mo"

	"qrlink/core"
	"qrlink/db"
	"qrlink/models"
)

// WatchedMessagesRepository stores watch registrations
type WatchedMessagesRepository interface {
	CreateWatchedMessage(ctx context.Context, watched *models.WatchedMessage) error
	GetWatchedMessage(ctx context.Context, guildID, messageID string) (mo.Option[*models.WatchedMessage], error)
	DeleteWatchedMessage(ctx context.Context, guildID, messageID string) error
}

// WatchesService is the host-side watch registry: it decides which reaction
// and reference events get delivered to the plugin.
type WatchesService struct {
	watchedMessagesRepo WatchedMessagesRepository
}

func NewWatchesService(repo WatchedMessagesRepository) *WatchesService {
	return &WatchesService{watchedMessagesRepo: repo}
}

// WatchMessage registers a message. Registering an already watched message
// returns the existing registration.
func (s *WatchesService) WatchMessage(
	ctx context.Context,
	guildID, channelID, messageID string,
) (*models.WatchedMessage, error) {
	log.Printf("📋 Starting to watch message %s in guild %s, channel %s", messageID, guildID, channelID)

	if guildID == "" {
		return nil, fmt.Errorf("guild_id cannot be empty")
	}
	if channelID == "" {
		return nil, fmt.Errorf("channel_id cannot be empty")
	}
	if messageID == "" {
		return nil, fmt.Errorf("message_id cannot be empty")
	}

	watched := &models.WatchedMessage{
		ID:        core.NewID("wm"),
		GuildID:   guildID,
		ChannelID: channelID,
		MessageID: messageID,
	}

	err := s.watchedMessagesRepo.CreateWatchedMessage(ctx, watched)
	if errors.Is(err, db.ErrAlreadyWatched) {
		log.Printf("📋 Message %s already watched, returning existing registration", messageID)
		maybeExisting, getErr := s.watchedMessagesRepo.GetWatchedMessage(ctx, guildID, messageID)
		if getErr != nil {
			return nil, fmt.Errorf("failed to get existing watched message: %w", getErr)
		}
		existing, ok := maybeExisting.Get()
		if !ok {
			return nil, fmt.Errorf("watched message %s disappeared after conflict", messageID)
		}
		return existing, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to watch message: %w", err)
	}

	log.Printf("📋 Completed successfully - watching message %s with ID: %s", messageID, watched.ID)
	return watched, nil
}

// GetWatchedMessage returns the registration for a message, if any
func (s *WatchesService) GetWatchedMessage(
	ctx context.Context,
	guildID, messageID string,
) (mo.Option[*models.WatchedMessage], error) {
	if guildID == "" || messageID == "" {
		return mo.None[*models.WatchedMessage](), nil
	}

	maybeWatched, err := s.watchedMessagesRepo.GetWatchedMessage(ctx, guildID, messageID)
	if err != nil {
		return mo.None[*models.WatchedMessage](), fmt.Errorf("failed to get watched message: %w", err)
	}
	return maybeWatched, nil
}

// IsWatched reports whether events on the message should be delivered
func (s *WatchesService) IsWatched(ctx context.Context, guildID, messageID string) (bool, error) {
	maybeWatched, err := s.GetWatchedMessage(ctx, guildID, messageID)
	if err != nil {
		return false, err
	}
	return maybeWatched.IsPresent(), nil
}

// UnwatchMessage removes a registration, e.g. when the message is deleted
func (s *WatchesService) UnwatchMessage(ctx context.Context, guildID, messageID string) error {
	log.Printf("📋 Starting to unwatch message %s in guild %s", messageID, guildID)

	err := s.watchedMessagesRepo.DeleteWatchedMessage(ctx, guildID, messageID)
	if err != nil {
		if core.IsNotFoundError(err) {
			log.Printf("📋 Message %s was not watched", messageID)
			return nil
		}
		return fmt.Errorf("failed to unwatch message: %w", err)
	}

	log.Printf("📋 Completed successfully - unwatched message %s", messageID)
	return nil
}
