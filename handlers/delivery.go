package handlers

import (
	"context"
	"errors"
	"log"
	"sync"

	"github.com/gammazero/workerpool"

	"qrlink/appctx"
	"qrlink/models"
)

var errDeliveryStopped = errors.New("event delivery is stopped")

// EventDispatcher handles a single routed event
type EventDispatcher interface {
	Dispatch(ctx context.Context, event models.Event) error
}

// Delivery hands events to the dispatcher one at a time, in arrival order,
// regardless of which transport received them.
type Delivery struct {
	dispatcher EventDispatcher
	workerPool *workerpool.WorkerPool
	mu         sync.RWMutex
	stopped    bool
}

func NewDelivery(dispatcher EventDispatcher) *Delivery {
	return &Delivery{
		dispatcher: dispatcher,
		workerPool: workerpool.New(1), // Sequential processing
	}
}

// Deliver blocks until the event has been dispatched and returns its outcome
func (d *Delivery) Deliver(ctx context.Context, incoming models.IncomingEvent) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.stopped {
		return errDeliveryStopped
	}

	var err error
	d.workerPool.SubmitWait(func() {
		invocationCtx := appctx.SetInvocation(ctx, models.Invocation{
			Guild:   incoming.Guild,
			Channel: incoming.Channel,
		})
		err = d.dispatcher.Dispatch(invocationCtx, incoming.ToEvent())
	})
	if err != nil {
		log.Printf("❌ Failed to handle %q event in guild %s: %v", incoming.Kind, incoming.Guild, err)
	}
	return err
}

// Stop waits for queued events to finish and rejects further deliveries
func (d *Delivery) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	d.stopped = true
	d.workerPool.StopWait()
}
