package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"SemiDash/internal/domain/models"
	"SemiDash/internal/domain/repository"
	pkgkafka "SemiDash/pkg/kafka"
)

// SnapshotEvent is the message published after a snapshot is refreshed.
type SnapshotEvent struct {
	EventID     string    `json:"event_id"`
	Cohort      string    `json:"cohort"`
	LastUpdated time.Time `json:"last_updated"`
	Entities    int       `json:"entities"`
	Errors      []string  `json:"errors"`
}

// KafkaNotifier implements SnapshotNotifier for Kafka.
type KafkaNotifier struct {
	producer *pkgkafka.Producer
}

// NewKafkaNotifier creates a Kafka-backed snapshot notifier.
func NewKafkaNotifier(producer *pkgkafka.Producer) repository.SnapshotNotifier {
	return &KafkaNotifier{producer: producer}
}

// Notify publishes a summary of snapshot keyed by its cohort.
func (n *KafkaNotifier) Notify(ctx context.Context, snapshot models.DashboardSnapshot) error {
	errs := snapshot.Errors
	if errs == nil {
		errs = []string{}
	}
	return n.producer.Publish(ctx, snapshot.Cohort, SnapshotEvent{
		EventID:     uuid.NewString(),
		Cohort:      snapshot.Cohort,
		LastUpdated: snapshot.LastUpdated,
		Entities:    len(snapshot.Entities),
		Errors:      errs,
	})
}

// Close releases the underlying producer.
func (n *KafkaNotifier) Close() error {
	return n.producer.Close()
}
