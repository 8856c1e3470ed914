package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

// Message is a typed envelope published to a topic. Type identifies the
// payload schema; Key selects the partition.
type Message struct {
	ID      string      `json:"id"`
	Type    string      `json:"type"`
	Source  string      `json:"source"`
	Key     string      `json:"key"`
	Time    time.Time   `json:"time"`
	Payload interface{} `json:"payload"`
}

// Producer handles publishing messages to Kafka topics
type Producer struct {
	writers map[string]*kafka.Writer
	config  *Config
}

// NewProducer creates a new Kafka producer
func NewProducer(config *Config) *Producer {
	return &Producer{
		writers: make(map[string]*kafka.Writer),
		config:  config,
	}
}

// getWriter returns a writer for the specified topic, creating one if necessary
func (p *Producer) getWriter(topic string) *kafka.Writer {
	if writer, exists := p.writers[topic]; exists {
		return writer
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(p.config.Brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchSize:    p.config.BatchSize,
		BatchTimeout: p.config.BatchTimeout,
		RequiredAcks: kafka.RequiredAcks(p.config.RequiredAcks),
		Async:        false,
	}

	p.writers[topic] = writer
	return writer
}

func toKafkaMessage(m *Message) (kafka.Message, error) {
	if m.Time.IsZero() {
		m.Time = time.Now().UTC()
	}
	data, err := json.Marshal(m)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("failed to marshal message: %w", err)
	}
	return kafka.Message{
		Key:   []byte(m.Key),
		Value: data,
		Headers: []kafka.Header{
			{Key: "message-type", Value: []byte(m.Type)},
			{Key: "message-source", Value: []byte(m.Source)},
			{Key: "message-id", Value: []byte(m.ID)},
			{Key: "content-type", Value: []byte("application/json")},
		},
		Time: m.Time,
	}, nil
}

// Publish publishes a message to the specified topic
func (p *Producer) Publish(ctx context.Context, topic string, m *Message) error {
	msg, err := toKafkaMessage(m)
	if err != nil {
		return err
	}
	if err := p.getWriter(topic).WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish message to topic %s: %w", topic, err)
	}
	return nil
}

// PublishAsync publishes a message asynchronously
func (p *Producer) PublishAsync(ctx context.Context, topic string, m *Message, callback func(error)) {
	go func() {
		err := p.Publish(ctx, topic, m)
		if callback != nil {
			callback(err)
		}
	}()
}

// PublishBatch publishes multiple messages to a topic
func (p *Producer) PublishBatch(ctx context.Context, topic string, msgs []*Message) error {
	messages := make([]kafka.Message, 0, len(msgs))
	for _, m := range msgs {
		msg, err := toKafkaMessage(m)
		if err != nil {
			return err
		}
		messages = append(messages, msg)
	}
	if err := p.getWriter(topic).WriteMessages(ctx, messages...); err != nil {
		return fmt.Errorf("failed to publish batch to topic %s: %w", topic, err)
	}
	return nil
}

// Close closes all writers
func (p *Producer) Close() error {
	var lastErr error
	for topic, writer := range p.writers {
		if err := writer.Close(); err != nil {
			lastErr = fmt.Errorf("failed to close writer for topic %s: %w", topic, err)
		}
	}
	return lastErr
}
