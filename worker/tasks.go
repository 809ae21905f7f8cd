package worker

import (
	"encoding/json"

	"schooltrip/models"

	"github.com/hibiken/asynq"
)

const TypeMessengerMessage = "messenger:message"

// NewMessengerTask wraps one incoming Messenger text. Replies are not
// idempotent, so the task is never retried.
func NewMessengerTask(msg models.IncomingMessage) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(msg)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeMessengerMessage, b)
	opts := []asynq.Option{asynq.MaxRetry(0)}
	return task, opts, nil
}
