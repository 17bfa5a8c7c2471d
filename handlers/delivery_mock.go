package handlers

import (
	"context"

	"github.com/stretchr/testify/mock"

	"qrlink/models"
)

// MockEventDispatcher implements EventDispatcher for testing
type MockEventDispatcher struct {
	mock.Mock
}

func (m *MockEventDispatcher) Dispatch(ctx context.Context, event models.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

// MockEventDeliverer implements EventDeliverer for testing
type MockEventDeliverer struct {
	mock.Mock
}

func (m *MockEventDeliverer) Deliver(ctx context.Context, incoming models.IncomingEvent) error {
	args := m.Called(ctx, incoming)
	return args.Error(0)
}

// MockWatchRegistry implements WatchRegistry for testing
type MockWatchRegistry struct {
	mock.Mock
}

func (m *MockWatchRegistry) IsWatched(ctx context.Context, guildID, messageID string) (bool, error) {
	args := m.Called(ctx, guildID, messageID)
	return args.Bool(0), args.Error(1)
}

func (m *MockWatchRegistry) UnwatchMessage(ctx context.Context, guildID, messageID string) error {
	args := m.Called(ctx, guildID, messageID)
	return args.Error(0)
}
