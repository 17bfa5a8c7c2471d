package watches

import (
	"context"

	"github.com/samber/mo"
	"github.com/stretchr/testify/mock"

	"qrlink/models"
)

// MockWatchedMessagesRepository implements WatchedMessagesRepository for testing
type MockWatchedMessagesRepository struct {
	mock.Mock
}

func (m *MockWatchedMessagesRepository) CreateWatchedMessage(ctx context.Context, watched *models.WatchedMessage) error {
	args := m.Called(ctx, watched)
	return args.Error(0)
}

func (m *MockWatchedMessagesRepository) GetWatchedMessage(
	ctx context.Context,
	guildID, messageID string,
) (mo.Option[*models.WatchedMessage], error) {
	args := m.Called(ctx, guildID, messageID)
	return args.Get(0).(mo.Option[*models.WatchedMessage]), args.Error(1)
}

func (m *MockWatchedMessagesRepository) DeleteWatchedMessage(ctx context.Context, guildID, messageID string) error {
	args := m.Called(ctx, guildID, messageID)
	return args.Error(0)
}
