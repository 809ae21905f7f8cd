package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"schooltrip/models"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// MessengerWorker consumes queued Messenger messages.
type MessengerWorker struct {
	srv     *asynq.Server
	mux     *asynq.ServeMux
	handler MessageHandler
	timeout time.Duration
	logger  *zap.Logger
}

func NewMessengerWorker(opt asynq.RedisClientOpt, concurrency int, handler MessageHandler, timeout time.Duration, logger *zap.Logger) *MessengerWorker {
	srv := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			"default": 1,
		},
	})
	w := &MessengerWorker{srv: srv, mux: asynq.NewServeMux(), handler: handler, timeout: timeout, logger: logger}
	w.mux.HandleFunc(TypeMessengerMessage, w.HandleMessengerTask)
	return w
}

// Start runs the worker in the background.
func (w *MessengerWorker) Start() error {
	w.logger.Info("Starting Messenger worker")
	if err := w.srv.Start(w.mux); err != nil {
		return fmt.Errorf("failed to start messenger worker: %w", err)
	}
	return nil
}

func (w *MessengerWorker) Shutdown() {
	w.srv.Shutdown()
}

func (w *MessengerWorker) HandleMessengerTask(ctx context.Context, task *asynq.Task) error {
	var msg models.IncomingMessage
	if err := json.Unmarshal(task.Payload(), &msg); err != nil {
		w.logger.Error("Invalid messenger task payload", zap.Error(err))
		return fmt.Errorf("invalid payload: %v: %w", err, asynq.SkipRetry)
	}
	if w.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.timeout)
		defer cancel()
	}
	if err := w.handler.HandleMessage(ctx, msg.SenderID, msg.Text); err != nil {
		w.logger.Error("Messenger task failed", zap.String("senderId", msg.SenderID), zap.Error(err))
		return err
	}
	return nil
}
