// Package kafka carries ingest tasks between the scraper and the server.
package kafka

import (
	"context"
	"encoding/json"

	"scheme-qa-go/internal/config"
	"scheme-qa-go/pkg/log"
	"scheme-qa-go/pkg/tasks"

	"github.com/segmentio/kafka-go"
)

// TaskProcessor is any service able to process an ingest task. It decouples
// the consumer loop from the concrete pipeline implementation.
type TaskProcessor interface {
	Process(ctx context.Context, task tasks.IngestTask) error
}

var producer *kafka.Writer

// InitProducer sets up the ingest task producer.
func InitProducer(cfg config.KafkaConfig) {
	producer = &kafka.Writer{
		Addr:     kafka.TCP(cfg.Brokers),
		Topic:    cfg.Topic,
		Balancer: &kafka.LeastBytes{},
	}
	log.Info("Kafka producer initialised")
}

// ProduceIngestTask publishes an ingest task.
func ProduceIngestTask(task tasks.IngestTask) error {
	taskBytes, err := json.Marshal(task)
	if err != nil {
		return err
	}

	return producer.WriteMessages(context.Background(),
		kafka.Message{
			Value: taskBytes,
		},
	)
}

// StartConsumer runs the ingest task consumer loop. Ingest is a best-effort
// batch job: a failed task is logged and committed rather than retried, the
// next scrape produces a fresh task anyway.
func StartConsumer(cfg config.KafkaConfig, processor TaskProcessor) {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  []string{cfg.Brokers},
		Topic:    cfg.Topic,
		GroupID:  "scheme-qa-ingest",
		MinBytes: 10e3, // 10KB
		MaxBytes: 10e6, // 10MB
	})

	log.Infof("Kafka consumer started, listening on topic '%s'", cfg.Topic)

	for {
		m, err := r.FetchMessage(context.Background())
		if err != nil {
			log.Error("failed to fetch message from Kafka", err)
			break
		}

		log.Infof("received Kafka message, offset %d", m.Offset)

		var task tasks.IngestTask
		if err := json.Unmarshal(m.Value, &task); err != nil {
			log.Errorf("failed to decode Kafka message: %v, value: %s", err, string(m.Value))
			if err := r.CommitMessages(context.Background(), m); err != nil {
				log.Errorf("failed to commit malformed message: %v", err)
			}
			continue
		}

		log.Infof("processing ingest task: object=%s path=%s region=%s", task.ObjectName, task.TablePath, task.Region)
		if err := processor.Process(context.Background(), task); err != nil {
			log.Errorf("ingest task failed: %v", err)
		}
		if err := r.CommitMessages(context.Background(), m); err != nil {
			log.Errorf("failed to commit Kafka offset: %v", err)
		}
	}

	if err := r.Close(); err != nil {
		log.Fatalf("failed to close Kafka consumer: %v", err)
	}
}
