package notifier

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	awspkg "github.com/yashrajoria/shopping-backend/pkg/aws"

	"github.com/yashrajoria/shopping-backend/services/email-notifier/models"
	"github.com/yashrajoria/shopping-backend/services/email-notifier/sender"
)

// ErrNoRecipient marks an event without user_email. It is skipped, not failed.
var ErrNoRecipient = errors.New("event has no user_email")

// Record is one transport message: its id for failure reporting and its raw body.
type Record struct {
	ID   string
	Body string
}

type Processor struct {
	renderer *Renderer
	sender   sender.EmailSender
	from     string
	metrics  *awspkg.MetricsClient
	logger   *zap.Logger
}

func NewProcessor(renderer *Renderer, s sender.EmailSender, from string, metrics *awspkg.MetricsClient, logger *zap.Logger) *Processor {
	return &Processor{renderer: renderer, sender: s, from: from, metrics: metrics, logger: logger}
}

// HandleBatch processes every record independently and returns the ids of the
// records that failed. A failing record never stops its siblings.
func (p *Processor) HandleBatch(ctx context.Context, records []Record) []string {
	p.logger.Info("Processing batch", zap.Int("records", len(records)))

	var failed []string
	for _, rec := range records {
		if err := p.HandleRecord(ctx, rec); err != nil {
			p.logger.Error("Failed to process record", zap.String("message_id", rec.ID), zap.Error(err))
			failed = append(failed, rec.ID)
		}
	}
	return failed
}

// HandleRecord parses one record and sends its email. Missing recipients are
// logged and reported as success.
func (p *Processor) HandleRecord(ctx context.Context, rec Record) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic processing record: %v", r)
		}
	}()

	evt, err := ParseEvent(rec.Body)
	if err != nil {
		p.count(ctx, awspkg.MetricEmailsFailed)
		return err
	}

	err = p.Process(ctx, evt)
	switch {
	case errors.Is(err, ErrNoRecipient):
		p.logger.Warn("No user email found, skipping", zap.String("order_id", evt.OrderID.String()))
		return nil
	case err != nil:
		p.count(ctx, awspkg.MetricEmailsFailed)
		return err
	}
	p.count(ctx, awspkg.MetricEmailsSent)
	return nil
}

// Process renders and sends the notification for one event.
func (p *Processor) Process(ctx context.Context, evt *models.OrderEvent) error {
	if evt.UserEmail == "" {
		return ErrNoRecipient
	}

	name := TemplateFor(evt.Status)
	body, err := p.renderer.Render(name, evt)
	if err != nil {
		return err
	}

	subject := Subject(evt)
	id, err := p.sender.Send(ctx, sender.Email{From: p.from, To: evt.UserEmail, Subject: subject, HTML: body})
	if err != nil {
		return err
	}

	p.logger.Info("Email sent",
		zap.String("order_id", evt.OrderID.String()),
		zap.String("template", name),
		zap.String("provider", p.sender.Name()),
		zap.String("message_id", id),
	)
	return nil
}

func (p *Processor) count(ctx context.Context, metric string) {
	if !p.metrics.IsEnabled() {
		return
	}
	if err := p.metrics.RecordCount(ctx, metric, map[string]string{"Service": "email-notifier"}); err != nil {
		p.logger.Debug("Failed to record metric", zap.String("metric", metric), zap.Error(err))
	}
}
