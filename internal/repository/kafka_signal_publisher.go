package repository

import (
	"context"
	"fmt"
	"time"

	"MarketPulse/internal/domain/models"
	domrepo "MarketPulse/internal/domain/repository"
	pkgkafka "MarketPulse/pkg/kafka"
)

// KafkaSignalEvents emits a "scan published" event per cycle so the
// external notification layer can react without polling the read API.
type KafkaSignalEvents struct {
	producer *pkgkafka.Producer
	topic    string
}

var _ domrepo.SignalEvents = (*KafkaSignalEvents)(nil)

// NewKafkaSignalEvents creates a publisher writing to the given topic.
func NewKafkaSignalEvents(producer *pkgkafka.Producer, topic string) *KafkaSignalEvents {
	return &KafkaSignalEvents{producer: producer, topic: topic}
}

type scanPublishedEvent struct {
	CrossType string               `json:"cross_type"`
	Count     int                  `json:"count"`
	Signals   []models.CrossSignal `json:"signals"`
	ScannedAt time.Time            `json:"scanned_at"`
}

// ScanPublished publishes the cycle result keyed by cross type, so
// per-type ordering is preserved on the topic.
func (p *KafkaSignalEvents) ScanPublished(ctx context.Context, set *models.SignalSet) error {
	if set == nil {
		return nil
	}

	event := scanPublishedEvent{
		CrossType: string(set.Type),
		Count:     len(set.Signals),
		Signals:   set.Signals,
		ScannedAt: set.ScannedAt,
	}
	if err := p.producer.Publish(ctx, p.topic, []byte(set.Type), event); err != nil {
		return fmt.Errorf("publish scan event: %w", err)
	}
	return nil
}

// Close flushes and closes the underlying producer.
func (p *KafkaSignalEvents) Close() error {
	return p.producer.Close()
}
