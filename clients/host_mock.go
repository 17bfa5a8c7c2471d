package clients

import (
	"context"

	"github.com/stretchr/testify/mock"

	"qrlink/models"
)

// MockHostClient implements the HostClient interface for testing
type MockHostClient struct {
	mock.Mock
}

func (m *MockHostClient) React(ctx context.Context, reaction models.OutgoingReaction) error {
	args := m.Called(ctx, reaction)
	return args.Error(0)
}

func (m *MockHostClient) WatchMessage(ctx context.Context, messageID string) (*models.WatchResult, error) {
	args := m.Called(ctx, messageID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WatchResult), args.Error(1)
}

func (m *MockHostClient) SendMessage(ctx context.Context, message models.OutgoingMessage) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}
