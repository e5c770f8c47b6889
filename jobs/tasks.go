package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/userhub/userhub/internal/jobs"
	"github.com/userhub/userhub/internal/mail"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskUserWelcome greets a newly registered user by e-mail.
	TaskUserWelcome = "user:welcome"
)

// WelcomePayload identifies the user to greet.
type WelcomePayload struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
}

// NewWelcomeTask constructs an Asynq task.
func NewWelcomeTask(payload WelcomePayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskUserWelcome, data, asynq.MaxRetry(5), asynq.Timeout(30*time.Second)), nil
}

// Sender delivers e-mail.
type Sender interface {
	Send(ctx context.Context, msg mail.Message) error
}

// WelcomeJob sends the welcome e-mail.
type WelcomeJob struct {
	Sender  Sender
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
	Title   string
}

// NewWelcomeJob wires dependencies for the welcome handler.
func NewWelcomeJob(sender Sender, logger *slog.Logger, metrics *jobmetrics.Metrics, title string) *WelcomeJob {
	return &WelcomeJob{Sender: sender, Logger: logger, Metrics: metrics, Title: title}
}

// Handle processes TaskUserWelcome tasks.
func (j *WelcomeJob) Handle(ctx context.Context, t *asynq.Task) (err error) {
	if j == nil || j.Sender == nil {
		return errors.New("welcome: handler not configured")
	}
	var payload WelcomePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("welcome: decode payload: %v: %w", err, asynq.SkipRetry)
	}
	if payload.Email == "" {
		return fmt.Errorf("welcome: payload without email: %w", asynq.SkipRetry)
	}

	tracker := j.Metrics.Track(TaskUserWelcome)
	defer func() {
		err = tracker.End(err)
	}()

	logger := j.logger().With(slog.String("user_id", payload.UserID))
	if err := j.Sender.Send(ctx, j.message(payload)); err != nil {
		logger.Error("send welcome email", slog.Any("error", err))
		return err
	}
	logger.Info("welcome email sent")
	return nil
}

func (j *WelcomeJob) message(p WelcomePayload) mail.Message {
	name := p.Name
	if name == "" {
		name = "there"
	}
	return mail.Message{
		To:      p.Email,
		Subject: "Welcome to " + j.Title,
		Body: fmt.Sprintf("Hello %s,\n\nYour %s account is ready. Sign in with %s to view and edit your profile.\n\nThe %s team",
			name, j.Title, p.Email, j.Title),
	}
}

func (j *WelcomeJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger
	}
	return slog.Default()
}
