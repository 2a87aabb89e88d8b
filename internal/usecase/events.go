package usecase

import (
	"context"

	"BackScan/internal/domain/models"
	drepo "BackScan/internal/domain/repository"
	applogger "BackScan/pkg/logger"
)

// PublisherObserver bridges the runner's observer contract onto an event
// publisher. Publish failures are logged and dropped; event delivery must
// never stall or abort the scan loop.
type PublisherObserver struct {
	pub    drepo.Publisher
	logger *applogger.Logger
}

func NewPublisherObserver(pub drepo.Publisher, logger *applogger.Logger) *PublisherObserver {
	return &PublisherObserver{pub: pub, logger: logger}
}

func (o *PublisherObserver) OnRecord(rec models.ResultRecord, prog models.Progress) {
	if err := o.pub.PublishRecord(context.Background(), rec, prog); err != nil {
		o.logger.Warn("publish record event", applogger.String("symbol", rec.Symbol), applogger.Error(err))
	}
}

func (o *PublisherObserver) OnFinished(outcome models.RunOutcome, prog models.Progress) {
	if err := o.pub.PublishOutcome(context.Background(), outcome, prog); err != nil {
		o.logger.Warn("publish outcome event", applogger.String("outcome", string(outcome)), applogger.Error(err))
	}
}

var _ drepo.RunObserver = (*PublisherObserver)(nil)
