package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"schooltrip/models"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// MessageHandler answers a single Messenger message.
type MessageHandler interface {
	HandleMessage(ctx context.Context, senderID, text string) error
}

// Dispatcher hands incoming messages off so the webhook can answer at once.
type Dispatcher interface {
	Dispatch(ctx context.Context, msg models.IncomingMessage) error
}

// InlineDispatcher handles each message on its own goroutine in this process.
type InlineDispatcher struct {
	handler MessageHandler
	timeout time.Duration
	logger  *zap.Logger
	wg      sync.WaitGroup
}

func NewInlineDispatcher(handler MessageHandler, timeout time.Duration, logger *zap.Logger) *InlineDispatcher {
	return &InlineDispatcher{handler: handler, timeout: timeout, logger: logger}
}

func (d *InlineDispatcher) Dispatch(_ context.Context, msg models.IncomingMessage) error {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()
		if err := d.handler.HandleMessage(ctx, msg.SenderID, msg.Text); err != nil {
			d.logger.Error("Messenger message failed", zap.String("senderId", msg.SenderID), zap.Error(err))
		}
	}()
	return nil
}

// Wait blocks until in-flight messages finish.
func (d *InlineDispatcher) Wait() {
	d.wg.Wait()
}

// QueueDispatcher enqueues messages for MessengerWorker.
type QueueDispatcher struct {
	client *asynq.Client
	logger *zap.Logger
}

func NewQueueDispatcher(opt asynq.RedisClientOpt, logger *zap.Logger) *QueueDispatcher {
	return &QueueDispatcher{client: asynq.NewClient(opt), logger: logger}
}

func (d *QueueDispatcher) Dispatch(ctx context.Context, msg models.IncomingMessage) error {
	task, opts, err := NewMessengerTask(msg)
	if err != nil {
		return err
	}
	info, err := d.client.EnqueueContext(ctx, task, opts...)
	if err != nil {
		return fmt.Errorf("failed to enqueue messenger message: %w", err)
	}
	d.logger.Debug("Messenger message queued", zap.String("taskId", info.ID), zap.String("senderId", msg.SenderID))
	return nil
}

func (d *QueueDispatcher) Close() error {
	return d.client.Close()
}
