package repository

import (
	"context"

	"BackScan/internal/domain/models"
	"BackScan/internal/domain/repository"
	pkgkafka "BackScan/pkg/kafka"
)

// KafkaScanPublisher implements Publisher for Kafka. Each completed job and
// each terminal run status becomes one event, keyed by symbol so per-symbol
// ordering survives partitioning.
type KafkaScanPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

// NewKafkaScanPublisher creates a Kafka scan-event publisher.
func NewKafkaScanPublisher(producer *pkgkafka.Producer, topic string) repository.Publisher {
	return &KafkaScanPublisher{producer: producer, topic: topic}
}

func (p *KafkaScanPublisher) PublishRecord(ctx context.Context, rec models.ResultRecord, prog models.Progress) error {
	return p.producer.Publish(ctx, p.topic, []byte(rec.Symbol), map[string]interface{}{
		"event":         "record",
		"symbol":        rec.Symbol,
		"total_return":  rec.TotalReturn,
		"win_rate":      rec.WinRate,
		"total_trades":  rec.TotalTrades,
		"final_balance": rec.FinalBalance,
		"max_drawdown":  rec.MaxDrawdown,
		"status":        rec.Status,
		"current":       prog.Current,
		"total":         prog.Total,
	})
}

func (p *KafkaScanPublisher) PublishOutcome(ctx context.Context, outcome models.RunOutcome, prog models.Progress) error {
	return p.producer.Publish(ctx, p.topic, []byte("run"), map[string]interface{}{
		"event":   "finished",
		"outcome": string(outcome),
		"current": prog.Current,
		"total":   prog.Total,
	})
}

func (p *KafkaScanPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}
