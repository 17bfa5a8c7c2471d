package qrlink

import (
	"context"
	"errors"
	"log"

	"github.com/samber/mo"

	"qrlink/clients"
	"qrlink/core"
	"qrlink/models"
)

// Emitter issues outbound actions against the host. Every method makes exactly
// one host call and reports its failure without retrying.
type Emitter struct {
	host clients.HostClient
}

func NewEmitter(host clients.HostClient) *Emitter {
	return &Emitter{host: host}
}

// EmitReaction applies emoji to a message
func (e *Emitter) EmitReaction(ctx context.Context, messageID, emoji string) error {
	err := e.host.React(ctx, models.OutgoingReaction{
		MessageID: messageID,
		With:      emoji,
	})
	if err != nil {
		log.Printf("❌ `react` host call failed: %v", err)
		return &core.HostCallError{Call: "react", Err: err}
	}
	return nil
}

// EmitWatch registers interest in future reaction events on a message
func (e *Emitter) EmitWatch(ctx context.Context, messageID string) error {
	result, err := e.host.WatchMessage(ctx, messageID)
	if err != nil {
		log.Printf("❌ `watch` host call failed: %v", err)
		return &core.HostCallError{Call: "watch_message", Err: err}
	}
	if result == nil {
		log.Printf("❌ `watch` host call returned no result: id=%s", messageID)
		return &core.HostCallError{Call: "watch_message", Err: errors.New("empty watch result")}
	}

	if result.IsRejected() {
		log.Printf("❌ error watching message: id=%s, error_code=%d", messageID, result.ErrorCode)
		return &core.WatchRejectedError{
			MessageID: messageID,
			ErrorCode: result.ErrorCode,
			Reason:    result.Error.OrEmpty(),
		}
	}
	return nil
}

// EmitMessage posts body, in channel when set and as a reply to replyTo when set
func (e *Emitter) EmitMessage(ctx context.Context, channel mo.Option[string], body string, replyTo mo.Option[string]) error {
	err := e.host.SendMessage(ctx, models.OutgoingMessage{
		Channel: channel,
		Message: body,
		Reply:   replyTo,
	})
	if err != nil {
		log.Printf("❌ `send_message` host call failed: %v", err)
		return &core.HostCallError{Call: "send_message", Err: err}
	}
	return nil
}
