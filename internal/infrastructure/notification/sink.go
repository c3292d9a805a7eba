package notification

import (
	"context"

	appnotification "github.com/zenshop/orderd/internal/application/notification"
	"github.com/zenshop/orderd/internal/observability"
	"github.com/zenshop/orderd/internal/observability/logctx"
)

// LogSink writes confirmation messages to the structured log. Stands in for
// a real mail or push provider.
type LogSink struct {
	log observability.Logger
}

func NewLogSink(logger observability.Logger) *LogSink {
	if logger == nil {
		logger = observability.NopLogger()
	}
	return &LogSink{
		log: logger.With(observability.F("component", "notification_sink")),
	}
}

func (s *LogSink) Send(ctx context.Context, c appnotification.Confirmation) error {
	logctx.FromOr(ctx, s.log).Info("order_confirmation_sent",
		observability.F("order_id", c.OrderID),
		observability.F("recipient", c.Recipient),
		observability.F("subject", c.Subject),
	)
	return nil
}
