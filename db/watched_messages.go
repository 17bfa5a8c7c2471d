package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/samber/mo"

	"qrlink/core"
	"qrlink/models"
)

// ErrAlreadyWatched is returned when a message already has a watch registration
var ErrAlreadyWatched = errors.New("message is already watched")

type PostgresWatchedMessagesRepository struct {
	db     *sqlx.DB
	schema string
}

// Column names for watched_messages table
var watchedMessagesColumns = []string{
	"id",
	"guild_id",
	"channel_id",
	"message_id",
	"created_at",
	"updated_at",
}

func NewPostgresWatchedMessagesRepository(db *sqlx.DB, schema string) *PostgresWatchedMessagesRepository {
	return &PostgresWatchedMessagesRepository{db: db, schema: schema}
}

func (r *PostgresWatchedMessagesRepository) CreateWatchedMessage(
	ctx context.Context,
	watched *models.WatchedMessage,
) error {
	columnsStr := strings.Join(watchedMessagesColumns, ", ")
	query := fmt.Sprintf(`
		INSERT INTO %s.watched_messages (id, guild_id, channel_id, message_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		RETURNING %s`,
		r.schema, columnsStr)

	err := r.db.QueryRowxContext(
		ctx,
		query,
		watched.ID,
		watched.GuildID,
		watched.ChannelID,
		watched.MessageID,
	).StructScan(watched)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" { // unique violation
			return ErrAlreadyWatched
		}
		return fmt.Errorf("failed to create watched message: %w", err)
	}

	return nil
}

func (r *PostgresWatchedMessagesRepository) GetWatchedMessage(
	ctx context.Context,
	guildID, messageID string,
) (mo.Option[*models.WatchedMessage], error) {
	columnsStr := strings.Join(watchedMessagesColumns, ", ")
	query := fmt.Sprintf(`
		SELECT %s FROM %s.watched_messages
		WHERE guild_id = $1 AND message_id = $2`,
		columnsStr, r.schema)

	var watched models.WatchedMessage
	err := r.db.GetContext(ctx, &watched, query, guildID, messageID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return mo.None[*models.WatchedMessage](), nil
		}
		return mo.None[*models.WatchedMessage](), fmt.Errorf("failed to get watched message: %w", err)
	}

	return mo.Some(&watched), nil
}

func (r *PostgresWatchedMessagesRepository) DeleteWatchedMessage(
	ctx context.Context,
	guildID, messageID string,
) error {
	query := fmt.Sprintf(`
		DELETE FROM %s.watched_messages
		WHERE guild_id = $1 AND message_id = $2`,
		r.schema)

	result, err := r.db.ExecContext(ctx, query, guildID, messageID)
	if err != nil {
		return fmt.Errorf("failed to delete watched message: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("watched message %s: %w", messageID, core.ErrNotFound)
	}

	return nil
}
