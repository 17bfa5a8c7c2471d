package discord

import (
	"context"

	"github.com/stretchr/testify/mock"

	"qrlink/clients"
)

// MockDiscordClient implements the clients.DiscordClient interface for testing
type MockDiscordClient struct {
	mock.Mock
}

// GetBotUser mocks fetching the bot user
func (m *MockDiscordClient) GetBotUser() (*clients.DiscordBotUser, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*clients.DiscordBotUser), args.Error(1)
}

// ResolveChannel mocks resolving a guild channel by id or name
func (m *MockDiscordClient) ResolveChannel(ctx context.Context, guildID, channel string) (*clients.DiscordChannel, error) {
	args := m.Called(ctx, guildID, channel)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*clients.DiscordChannel), args.Error(1)
}

// GetMessage mocks fetching a message
func (m *MockDiscordClient) GetMessage(ctx context.Context, channelID, messageID string) (*clients.DiscordMessage, error) {
	args := m.Called(ctx, channelID, messageID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*clients.DiscordMessage), args.Error(1)
}

// AddReaction mocks reacting to a message
func (m *MockDiscordClient) AddReaction(ctx context.Context, channelID, messageID, emoji string) error {
	args := m.Called(ctx, channelID, messageID, emoji)
	return args.Error(0)
}

// PostMessage mocks posting a message
func (m *MockDiscordClient) PostMessage(
	ctx context.Context,
	channelID string,
	params clients.DiscordMessageParams,
) (*clients.DiscordPostMessageResponse, error) {
	args := m.Called(ctx, channelID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*clients.DiscordPostMessageResponse), args.Error(1)
}
