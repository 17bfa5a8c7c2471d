package qrlink

import (
	"context"
	"errors"
	"testing"

	"github.com/samber/mo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"qrlink/clients"
	"qrlink/config"
	"qrlink/core"
	"qrlink/models"
)

// Test constants for consistent test data
const (
	testGuildID       = "1011124058408112148"
	testChannelID     = "1290809227643977799"
	testChannelName   = "bots"
	testMessageID     = "1299105987684339824"
	testOtherMessage  = "1299105987684339000"
	testAckEmoji      = "🔗"
	testLinkChannelID = "1290809227643977000"
)

type qrLinkUseCaseTestFixture struct {
	useCase *QRLinkUseCase
	host    *clients.MockHostClient
	ctx     context.Context
}

func setupQRLinkUseCaseTest(t *testing.T, cfg config.QRLinkConfig) *qrLinkUseCaseTestFixture {
	host := new(clients.MockHostClient)
	return &qrLinkUseCaseTestFixture{
		useCase: NewQRLinkUseCase(host, cfg),
		host:    host,
		ctx:     context.Background(),
	}
}

func contentEvent(messageID string) models.Event {
	return models.IncomingEvent{
		Kind:    models.EventKindContent,
		Guild:   testGuildID,
		Channel: testChannelID,
		Message: &models.IncomingMessage{ID: messageID, Content: "hello"},
	}.ToEvent()
}

func reactionAddedEvent(emoji, messageID string) models.Event {
	return models.IncomingEvent{
		Kind:    models.EventKindReactionAdded,
		Guild:   testGuildID,
		Channel: testChannelID,
		Reaction: &models.IncomingReaction{
			With:    models.Emoji{Name: emoji},
			Message: models.IncomingMessage{ID: messageID},
		},
	}.ToEvent()
}

func expectedQRCodeBody(t *testing.T, channelID string) string {
	t.Helper()
	code, err := RenderQRCode(BuildMessageLink(DefaultLinkBaseURL, testGuildID, channelID, testMessageID))
	require.NoError(t, err)
	return FencedBlock(code)
}

func TestDispatch_NoOps(t *testing.T) {
	testCases := []struct {
		name  string
		event models.IncomingEvent
	}{
		{
			name:  "unknown kind",
			event: models.IncomingEvent{Kind: "http:response", Guild: testGuildID, Channel: testChannelID},
		},
		{
			name: "unknown kind carrying a message",
			event: models.IncomingEvent{
				Kind: "message:deleted", Guild: testGuildID, Channel: testChannelID,
				Message: &models.IncomingMessage{ID: testMessageID},
			},
		},
		{
			name:  "content without message",
			event: models.IncomingEvent{Kind: models.EventKindContent, Guild: testGuildID, Channel: testChannelID},
		},
		{
			name:  "reaction added without reaction",
			event: models.IncomingEvent{Kind: models.EventKindReactionAdded, Guild: testGuildID, Channel: testChannelID},
		},
		{
			name: "reference to a watched message",
			event: models.IncomingEvent{
				Kind: models.EventKindReference, Guild: testGuildID, Channel: testChannelID,
				Message: &models.IncomingMessage{ID: testOtherMessage, Reference: testMessageID},
			},
		},
		{
			name: "reaction removed",
			event: models.IncomingEvent{
				Kind: models.EventKindReactionRemoved, Guild: testGuildID, Channel: testChannelID,
				Reaction: &models.IncomingReaction{
					With:    models.Emoji{Name: EmojiMobilePhone},
					Message: models.IncomingMessage{ID: testMessageID},
				},
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			fixture := setupQRLinkUseCaseTest(t, config.QRLinkConfig{})
			event := tc.event.ToEvent()

			// Dispatching twice gives the same outcome
			assert.NoError(t, fixture.useCase.Dispatch(fixture.ctx, event))
			assert.NoError(t, fixture.useCase.Dispatch(fixture.ctx, event))

			fixture.host.AssertNotCalled(t, "React", mock.Anything, mock.Anything)
			fixture.host.AssertNotCalled(t, "WatchMessage", mock.Anything, mock.Anything)
			fixture.host.AssertNotCalled(t, "SendMessage", mock.Anything, mock.Anything)
		})
	}

	t.Run("nil event", func(t *testing.T) {
		fixture := setupQRLinkUseCaseTest(t, config.QRLinkConfig{})
		assert.NoError(t, fixture.useCase.Dispatch(fixture.ctx, nil))
	})
}

func TestDispatch_NewMessage(t *testing.T) {
	t.Run("success_watches_message", func(t *testing.T) {
		fixture := setupQRLinkUseCaseTest(t, config.QRLinkConfig{})
		fixture.host.On("WatchMessage", fixture.ctx, testMessageID).Return(models.NewWatchResultOK(), nil).Once()

		err := fixture.useCase.Dispatch(fixture.ctx, contentEvent(testMessageID))

		require.NoError(t, err)
		fixture.host.AssertExpectations(t)
		fixture.host.AssertNotCalled(t, "React", mock.Anything, mock.Anything)
		fixture.host.AssertNotCalled(t, "SendMessage", mock.Anything, mock.Anything)
	})

	t.Run("success_with_ack_reaction", func(t *testing.T) {
		fixture := setupQRLinkUseCaseTest(t, config.QRLinkConfig{AckEmoji: testAckEmoji})
		watchCall := fixture.host.On("WatchMessage", fixture.ctx, testMessageID).Return(models.NewWatchResultOK(), nil).Once()
		fixture.host.On("React", fixture.ctx, models.OutgoingReaction{MessageID: testMessageID, With: testAckEmoji}).
			Return(nil).Once().NotBefore(watchCall)

		err := fixture.useCase.Dispatch(fixture.ctx, contentEvent(testMessageID))

		require.NoError(t, err)
		fixture.host.AssertExpectations(t)
	})

	t.Run("error_watch_rejected", func(t *testing.T) {
		fixture := setupQRLinkUseCaseTest(t, config.QRLinkConfig{AckEmoji: testAckEmoji})
		fixture.host.On("WatchMessage", fixture.ctx, testMessageID).
			Return(&models.WatchResult{ErrorCode: 1}, nil).Once()

		err := fixture.useCase.Dispatch(fixture.ctx, contentEvent(testMessageID))

		require.Error(t, err)
		assert.True(t, errors.Is(err, core.ErrWatchRejected))
		assert.False(t, errors.Is(err, core.ErrHostCallFailed))
		watchErr, ok := core.IsWatchRejectedError(err)
		require.True(t, ok)
		assert.Equal(t, 1, watchErr.ErrorCode)
		assert.Equal(t, testMessageID, watchErr.MessageID)

		fixture.host.AssertExpectations(t)
		fixture.host.AssertNotCalled(t, "React", mock.Anything, mock.Anything)
		fixture.host.AssertNotCalled(t, "SendMessage", mock.Anything, mock.Anything)
	})

	t.Run("error_watch_rejected_negative_code", func(t *testing.T) {
		fixture := setupQRLinkUseCaseTest(t, config.QRLinkConfig{})
		fixture.host.On("WatchMessage", fixture.ctx, testMessageID).
			Return(models.NewWatchResultError(models.WatchErrorCodeNoSuchMessage, "no such message"), nil).Once()

		err := fixture.useCase.Dispatch(fixture.ctx, contentEvent(testMessageID))

		require.Error(t, err)
		watchErr, ok := core.IsWatchRejectedError(err)
		require.True(t, ok)
		assert.Equal(t, models.WatchErrorCodeNoSuchMessage, watchErr.ErrorCode)
		assert.Equal(t, "no such message", watchErr.Reason)
		fixture.host.AssertExpectations(t)
	})

	t.Run("error_watch_transport_failure", func(t *testing.T) {
		fixture := setupQRLinkUseCaseTest(t, config.QRLinkConfig{})
		cause := errors.New("discord unavailable")
		fixture.host.On("WatchMessage", fixture.ctx, testMessageID).Return(nil, cause).Once()

		err := fixture.useCase.Dispatch(fixture.ctx, contentEvent(testMessageID))

		require.Error(t, err)
		assert.True(t, errors.Is(err, core.ErrHostCallFailed))
		assert.True(t, errors.Is(err, cause))
		assert.False(t, errors.Is(err, core.ErrWatchRejected))
		fixture.host.AssertExpectations(t)
		fixture.host.AssertNotCalled(t, "SendMessage", mock.Anything, mock.Anything)
	})

	t.Run("error_ack_reaction_failure", func(t *testing.T) {
		fixture := setupQRLinkUseCaseTest(t, config.QRLinkConfig{AckEmoji: testAckEmoji})
		fixture.host.On("WatchMessage", fixture.ctx, testMessageID).Return(models.NewWatchResultOK(), nil).Once()
		fixture.host.On("React", fixture.ctx, mock.Anything).Return(errors.New("missing permissions")).Once()

		err := fixture.useCase.Dispatch(fixture.ctx, contentEvent(testMessageID))

		require.Error(t, err)
		hostErr, ok := core.IsHostCallError(err)
		require.True(t, ok)
		assert.Equal(t, "react", hostErr.Call)
		fixture.host.AssertExpectations(t)
	})

	t.Run("error_malformed_empty_message_id", func(t *testing.T) {
		fixture := setupQRLinkUseCaseTest(t, config.QRLinkConfig{})

		err := fixture.useCase.Dispatch(fixture.ctx, contentEvent(""))

		require.Error(t, err)
		assert.True(t, errors.Is(err, core.ErrMalformedEvent))
		fixture.host.AssertNotCalled(t, "WatchMessage", mock.Anything, mock.Anything)
	})
}

func TestDispatch_ReactionAdded(t *testing.T) {
	t.Run("success_replies_with_qr_code", func(t *testing.T) {
		fixture := setupQRLinkUseCaseTest(t, config.QRLinkConfig{})
		expected := models.OutgoingMessage{
			Channel: mo.Some(testChannelID),
			Message: expectedQRCodeBody(t, testChannelID),
			Reply:   mo.Some(testMessageID),
		}
		fixture.host.On("SendMessage", fixture.ctx, expected).Return(nil).Once()

		err := fixture.useCase.Dispatch(fixture.ctx, reactionAddedEvent(EmojiMobilePhone, testMessageID))

		require.NoError(t, err)
		fixture.host.AssertExpectations(t)
		fixture.host.AssertNumberOfCalls(t, "SendMessage", 1)
		fixture.host.AssertNotCalled(t, "WatchMessage", mock.Anything, mock.Anything)
		fixture.host.AssertNotCalled(t, "React", mock.Anything, mock.Anything)
	})

	t.Run("success_body_is_fenced_block", func(t *testing.T) {
		fixture := setupQRLinkUseCaseTest(t, config.QRLinkConfig{})
		var sent models.OutgoingMessage
		fixture.host.On("SendMessage", fixture.ctx, mock.Anything).
			Run(func(args mock.Arguments) { sent = args.Get(1).(models.OutgoingMessage) }).
			Return(nil).Once()

		require.NoError(t, fixture.useCase.Dispatch(fixture.ctx, reactionAddedEvent(EmojiMobilePhone, testMessageID)))

		assert.True(t, len(sent.Message) > len("```\n\n```"))
		assert.Equal(t, "```\n", sent.Message[:4])
		assert.Equal(t, "\n```", sent.Message[len(sent.Message)-4:])
		assert.Equal(t, testMessageID, sent.Reply.MustGet())
	})

	t.Run("success_uses_configured_link_channel", func(t *testing.T) {
		fixture := setupQRLinkUseCaseTest(t, config.QRLinkConfig{LinkChannelID: testLinkChannelID})
		event := models.IncomingEvent{
			Kind:    models.EventKindReactionAdded,
			Guild:   testGuildID,
			Channel: testChannelName,
			Reaction: &models.IncomingReaction{
				With:    models.Emoji{Name: EmojiMobilePhone},
				Message: models.IncomingMessage{ID: testMessageID},
			},
		}.ToEvent()
		expected := models.OutgoingMessage{
			Channel: mo.Some(testChannelName),
			Message: expectedQRCodeBody(t, testLinkChannelID),
			Reply:   mo.Some(testMessageID),
		}
		fixture.host.On("SendMessage", fixture.ctx, expected).Return(nil).Once()

		require.NoError(t, fixture.useCase.Dispatch(fixture.ctx, event))
		fixture.host.AssertExpectations(t)
	})

	t.Run("success_custom_trigger_emoji", func(t *testing.T) {
		fixture := setupQRLinkUseCaseTest(t, config.QRLinkConfig{TriggerEmoji: "🔳"})
		fixture.host.On("SendMessage", fixture.ctx, mock.Anything).Return(nil).Once()

		require.NoError(t, fixture.useCase.Dispatch(fixture.ctx, reactionAddedEvent(EmojiMobilePhone, testMessageID)))
		fixture.host.AssertNotCalled(t, "SendMessage", mock.Anything, mock.Anything)

		require.NoError(t, fixture.useCase.Dispatch(fixture.ctx, reactionAddedEvent("🔳", testMessageID)))
		fixture.host.AssertExpectations(t)
	})

	t.Run("ignored_non_matching_emoji", func(t *testing.T) {
		for _, emoji := range []string{"👍", "📲", "", "mobile_phone"} {
			fixture := setupQRLinkUseCaseTest(t, config.QRLinkConfig{})

			err := fixture.useCase.Dispatch(fixture.ctx, reactionAddedEvent(emoji, testMessageID))

			assert.NoError(t, err, "emoji %q", emoji)
			fixture.host.AssertNotCalled(t, "SendMessage", mock.Anything, mock.Anything)
		}
	})

	t.Run("error_send_message_failure", func(t *testing.T) {
		fixture := setupQRLinkUseCaseTest(t, config.QRLinkConfig{})
		cause := errors.New("rate limited")
		fixture.host.On("SendMessage", fixture.ctx, mock.Anything).Return(cause).Once()

		err := fixture.useCase.Dispatch(fixture.ctx, reactionAddedEvent(EmojiMobilePhone, testMessageID))

		require.Error(t, err)
		assert.True(t, errors.Is(err, core.ErrHostCallFailed))
		assert.True(t, errors.Is(err, cause))
		fixture.host.AssertExpectations(t)
	})

	t.Run("error_malformed_empty_reacted_message_id", func(t *testing.T) {
		fixture := setupQRLinkUseCaseTest(t, config.QRLinkConfig{})

		err := fixture.useCase.Dispatch(fixture.ctx, reactionAddedEvent(EmojiMobilePhone, ""))

		require.Error(t, err)
		assert.True(t, errors.Is(err, core.ErrMalformedEvent))
		fixture.host.AssertNotCalled(t, "SendMessage", mock.Anything, mock.Anything)
	})
}

func TestCorrelation_WatchThenReply(t *testing.T) {
	fixture := setupQRLinkUseCaseTest(t, config.QRLinkConfig{})
	watchCall := fixture.host.On("WatchMessage", fixture.ctx, testMessageID).Return(models.NewWatchResultOK(), nil).Once()
	fixture.host.On("SendMessage", fixture.ctx, mock.MatchedBy(func(msg models.OutgoingMessage) bool {
		return msg.Reply.OrEmpty() == testMessageID
	})).Return(nil).Once().NotBefore(watchCall)

	require.NoError(t, fixture.useCase.Dispatch(fixture.ctx, contentEvent(testMessageID)))
	require.NoError(t, fixture.useCase.Dispatch(fixture.ctx, reactionAddedEvent("👍", testMessageID)))
	require.NoError(t, fixture.useCase.Dispatch(fixture.ctx, reactionAddedEvent(EmojiMobilePhone, testMessageID)))

	fixture.host.AssertExpectations(t)
	fixture.host.AssertNumberOfCalls(t, "WatchMessage", 1)
	fixture.host.AssertNumberOfCalls(t, "SendMessage", 1)
}
