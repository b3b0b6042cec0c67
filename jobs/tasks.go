// Package jobs carries the background tasks Shulware runs off the request
// path. Delivery of non-critical mail happens here so provisioning requests
// never block on a slow relay.
package jobs

import (
	"context"
	"encoding/json"

	"github.com/hibiken/asynq"

	"github.com/shulware/shulware/internal/mail"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTypeWelcomeEmail is the task type for post-signup welcome mail.
	TaskTypeWelcomeEmail = "mail:welcome"
)

// WelcomeEmailPayload describes a welcome email to a new owner.
type WelcomeEmailPayload struct {
	To      string `json:"to"`
	OrgName string `json:"orgName"`
}

// NewWelcomeEmailTask constructs an Asynq task.
func NewWelcomeEmailTask(payload WelcomeEmailPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeWelcomeEmail, data), nil
}

// WelcomeEmailJob processes welcome-email tasks through the mail sender.
type WelcomeEmailJob struct {
	sender mail.Sender
}

// NewWelcomeEmailJob constructs the job.
func NewWelcomeEmailJob(sender mail.Sender) *WelcomeEmailJob {
	return &WelcomeEmailJob{sender: sender}
}

// Handle delivers one welcome email. Malformed payloads are dropped rather
// than retried.
func (j *WelcomeEmailJob) Handle(ctx context.Context, t *asynq.Task) error {
	var payload WelcomeEmailPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	_, err := j.sender.Send(ctx, mail.WelcomeMessage(payload.To, payload.OrgName))
	return err
}
