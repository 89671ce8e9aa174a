package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/twmb/franz-go/pkg/kgo"
)

// KafkaSender publishes feedback jobs to a Kafka topic, keyed by referee so
// one referee's feedback stays ordered.
type KafkaSender struct {
	client *kgo.Client
	topic  string
}

// NewKafkaSender connects a producer to the given brokers.
func NewKafkaSender(brokers []string, topic string) (*KafkaSender, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka producer: %w", err)
	}
	return &KafkaSender{client: client, topic: topic}, nil
}

func (s *KafkaSender) Send(ctx context.Context, job Job) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal feedback job: %w", err)
	}
	record := &kgo.Record{
		Topic: s.topic,
		Key:   []byte(job.RefereeID.String()),
		Value: payload,
	}
	if err := s.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("produce feedback job: %w", err)
	}
	return nil
}

// Close flushes and shuts down the producer.
func (s *KafkaSender) Close() {
	s.client.Close()
}
