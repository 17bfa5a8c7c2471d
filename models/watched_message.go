package models

import "time"

// WatchedMessage is a host-side registration that routes reaction and
// reference events on a message back to the plugin.
type WatchedMessage struct {
	ID        string    `db:"id"`
	GuildID   string    `db:"guild_id"`
	ChannelID string    `db:"channel_id"`
	MessageID string    `db:"message_id"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Invocation is the scope a host call runs in: the guild and channel of the
// event currently being handled.
type Invocation struct {
	Guild   string
	Channel string
}
