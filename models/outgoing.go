package models

import "github.com/samber/mo"

// OutgoingReaction asks the host to apply an emoji to a message
type OutgoingReaction struct {
	MessageID string `json:"message_id"`
	With      string `json:"with"`
}

// OutgoingMessage asks the host to post a message.
// Channel defaults to the invocation channel; Reply threads it under a message.
type OutgoingMessage struct {
	Channel mo.Option[string] `json:"channel"`
	Message string            `json:"message"`
	Reply   mo.Option[string] `json:"reply"`
}

// WatchResult is the host's answer to a watch registration
type WatchResult struct {
	// ErrorCode is zero on success; any other value means the host refused the watch
	ErrorCode int               `json:"error_code"`
	Error     mo.Option[string] `json:"error"`
}

// Host-side watch error codes
const (
	WatchErrorCodeOK            = 0
	WatchErrorCodeNoSuchChannel = -3
	WatchErrorCodeNoSuchMessage = -4

	WatchErrorCodeTokensExhausted = -999
)

func NewWatchResultOK() *WatchResult {
	return &WatchResult{ErrorCode: WatchErrorCodeOK}
}

func NewWatchResultError(code int, reason string) *WatchResult {
	return &WatchResult{ErrorCode: code, Error: mo.Some(reason)}
}

func (r *WatchResult) IsRejected() bool {
	return r.ErrorCode != WatchErrorCodeOK
}
