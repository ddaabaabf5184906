package messaging

import (
	"context"
	"crypto/tls"
	"errors"
	"io"
	"log/slog"
	"net"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl"
	"github.com/segmentio/kafka-go/sasl/plain"
)

const (
	topicPartitions   = 3
	replicationFactor = 1
	producerAttempts  = 3
)

// KafkaConfig carries broker connectivity for producers and consumers.
type KafkaConfig struct {
	Brokers      []string
	SASLUsername string
	SASLPassword string
	UseTLS       bool
}

// Kafka builds producers, subscription sources and topic provisioning
// against a real broker. Each consumer worker must request its own Source;
// sources are not safe to share.
type Kafka struct {
	config KafkaConfig
	logger *slog.Logger
}

func NewKafka(config KafkaConfig, logger *slog.Logger) (*Kafka, error) {
	if len(config.Brokers) == 0 {
		return nil, errors.New("kafka brokers are required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Kafka{config: config, logger: logger}, nil
}

func (k *Kafka) saslMechanism() sasl.Mechanism {
	if k.config.SASLUsername == "" || k.config.SASLPassword == "" {
		return nil
	}
	return plain.Mechanism{
		Username: k.config.SASLUsername,
		Password: k.config.SASLPassword,
	}
}

func (k *Kafka) tlsConfig() *tls.Config {
	if !k.config.UseTLS {
		return nil
	}
	return &tls.Config{MinVersion: tls.VersionTLS12}
}

func (k *Kafka) transport() *kafka.Transport {
	return &kafka.Transport{
		SASL: k.saslMechanism(),
		TLS:  k.tlsConfig(),
	}
}

func (k *Kafka) dialer() *kafka.Dialer {
	return &kafka.Dialer{
		Timeout:       10 * time.Second,
		DualStack:     true,
		SASLMechanism: k.saslMechanism(),
		TLS:           k.tlsConfig(),
	}
}

// NewPublisher returns a producer handle. Publication is asynchronous from
// the caller's point of view: a successful return means the record was
// accepted by the client; transient send failures below that boundary are
// retried by the client itself, bounded at three attempts.
func (k *Kafka) NewPublisher() *Publisher {
	return &Publisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(k.config.Brokers...),
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
			MaxAttempts:  producerAttempts,
			Transport:    k.transport(),
		},
		logger: k.logger,
	}
}

// Publisher writes records keyed by entity id so every command mutating the
// same entity lands in the same partition.
type Publisher struct {
	writer *kafka.Writer
	logger *slog.Logger
}

func (p *Publisher) Publish(ctx context.Context, topic string, key string, value []byte) error {
	err := p.writer.WriteMessages(ctx, kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: value,
	})
	if err != nil {
		p.logger.Error("message publish failed",
			"event", "kafka_publish_failed",
			"module", "internal/platform/messaging",
			"layer", "platform",
			"topic", topic,
			"key", key,
			"error", err.Error(),
		)
		return err
	}
	p.logger.Info("message queued for production",
		"event", "kafka_publish",
		"module", "internal/platform/messaging",
		"layer", "platform",
		"topic", topic,
		"key", key,
	)
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

// NewSource opens a durable group subscription on one topic.
func (k *Kafka) NewSource(topic string, groupID string) Source {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     k.config.Brokers,
		GroupID:     groupID,
		Topic:       topic,
		Dialer:      k.dialer(),
		StartOffset: kafka.FirstOffset,
		MaxWait:     time.Second,
	})
	return &readerSource{reader: reader}
}

type readerSource struct {
	reader  *kafka.Reader
	pending kafka.Message
	hasMsg  bool
}

func (s *readerSource) Poll(ctx context.Context, timeout time.Duration) Poll {
	pollCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	msg, err := s.reader.FetchMessage(pollCtx)
	if err != nil {
		return classifyFetchError(ctx, err)
	}

	s.pending = msg
	s.hasMsg = true
	return Poll{
		Status: PollMessage,
		Message: Message{
			Topic:     msg.Topic,
			Partition: msg.Partition,
			Offset:    msg.Offset,
			Key:       msg.Key,
			Value:     msg.Value,
		},
	}
}

func (s *readerSource) Commit(ctx context.Context) error {
	if !s.hasMsg {
		return nil
	}
	s.hasMsg = false
	return s.reader.CommitMessages(ctx, s.pending)
}

func (s *readerSource) Close() error {
	return s.reader.Close()
}

func classifyFetchError(ctx context.Context, err error) Poll {
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		// Bounded wait elapsed or the stop signal fired; the loop decides
		// which by checking its own context.
		return Poll{Status: PollIdle, Err: err}
	case errors.Is(err, io.EOF):
		return Poll{Status: PollEndOfStream, Err: err}
	}

	var kafkaErr kafka.Error
	if errors.As(err, &kafkaErr) {
		if kafkaErr.Temporary() {
			return Poll{Status: PollTransportError, Err: err}
		}
		return Poll{Status: PollBrokerError, Err: err}
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return Poll{Status: PollTransportError, Err: err}
	}
	return Poll{Status: PollBrokerError, Err: err}
}

// EnsureTopics provisions every pipeline topic idempotently: existing
// topics are skipped and creation failures are logged, never fatal to
// startup.
func (k *Kafka) EnsureTopics(ctx context.Context, topics []string) {
	client := &kafka.Client{
		Addr:      kafka.TCP(k.config.Brokers...),
		Transport: k.transport(),
	}

	configs := make([]kafka.TopicConfig, 0, len(topics))
	for _, topic := range topics {
		configs = append(configs, kafka.TopicConfig{
			Topic:             topic,
			NumPartitions:     topicPartitions,
			ReplicationFactor: replicationFactor,
		})
	}

	response, err := client.CreateTopics(ctx, &kafka.CreateTopicsRequest{Topics: configs})
	if err != nil {
		k.logger.Error("topic provisioning request failed",
			"event", "kafka_create_topics_failed",
			"module", "internal/platform/messaging",
			"layer", "platform",
			"error", err.Error(),
		)
		return
	}

	for topic, topicErr := range response.Errors {
		switch {
		case topicErr == nil:
			k.logger.Info("topic created",
				"event", "kafka_topic_created",
				"module", "internal/platform/messaging",
				"layer", "platform",
				"topic", topic,
			)
		case errors.Is(topicErr, kafka.TopicAlreadyExists):
			k.logger.Info("topic already exists, skipping creation",
				"event", "kafka_topic_exists",
				"module", "internal/platform/messaging",
				"layer", "platform",
				"topic", topic,
			)
		default:
			k.logger.Error("topic creation failed",
				"event", "kafka_topic_create_failed",
				"module", "internal/platform/messaging",
				"layer", "platform",
				"topic", topic,
				"error", topicErr.Error(),
			)
		}
	}
}
