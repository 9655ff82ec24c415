package kafka

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/IBM/sarama"
)

const batchTimeout = 2 * time.Second

type KafkaClient struct {
	consumer  sarama.ConsumerGroup
	producer  sarama.SyncProducer
	brokers   []string
	batchSize int
}

type Message struct {
	Key     string
	Value   []byte
	Headers map[string]string

	internal *sarama.ConsumerMessage
}

// Handler receives one batch. Returning an error leaves the batch unmarked so it is
// delivered again after the next rebalance.
type Handler func(messages []Message) error

func newConfig(batchSize int) *sarama.Config {
	config := sarama.NewConfig()
	config.Version = sarama.V2_8_0_0

	config.Consumer.Group.Rebalance.GroupStrategies = []sarama.BalanceStrategy{sarama.NewBalanceStrategyRoundRobin()}
	config.Consumer.Offsets.Initial = sarama.OffsetNewest
	config.Consumer.Group.Session.Timeout = 30 * time.Second
	config.Consumer.Group.Heartbeat.Interval = 10 * time.Second
	// a batch of documents is decoded and synced before it is marked
	config.Consumer.MaxProcessingTime = 60 * time.Second
	config.Consumer.Fetch.Default = 8 * 1024 * 1024
	config.Consumer.MaxWaitTime = 100 * time.Millisecond
	config.ChannelBufferSize = batchSize * 2

	config.Producer.RequiredAcks = sarama.WaitForLocal
	config.Producer.Retry.Max = 3
	config.Producer.Return.Successes = true
	config.Producer.Return.Errors = true
	config.Producer.Compression = sarama.CompressionSnappy
	config.Producer.Flush.Frequency = 50 * time.Millisecond
	config.Producer.Flush.Messages = 50
	// xmi documents are larger than graph events
	config.Producer.MaxMessageBytes = 4 * 1024 * 1024

	return config
}

func NewKafkaClient(brokers []string, groupID string, batchSize int) (*KafkaClient, error) {
	config := newConfig(batchSize)

	consumer, err := sarama.NewConsumerGroup(brokers, groupID, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create consumer group: %w", err)
	}

	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		consumer.Close()
		return nil, fmt.Errorf("failed to create producer: %w", err)
	}

	log.Printf("Kafka client initialized (brokers: %v, group: %s, batch size: %d)", brokers, groupID, batchSize)

	return &KafkaClient{
		consumer:  consumer,
		producer:  producer,
		brokers:   brokers,
		batchSize: batchSize,
	}, nil
}

// Consumer blocks until ctx is cancelled, rejoining the group after every rebalance.
func (k *KafkaClient) Consumer(ctx context.Context, handler Handler, topic string) error {
	groupHandler := &consumerGroupHandler{handler: handler, batchSize: k.batchSize}

	for {
		if err := k.consumer.Consume(ctx, []string{topic}, groupHandler); err != nil {
			if errors.Is(err, sarama.ErrClosedConsumerGroup) {
				return nil
			}
			log.Printf("Error consuming from topic %s: %v", topic, err)
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(5 * time.Second):
			}
			continue
		}
		if ctx.Err() != nil {
			log.Println("Kafka consumer context cancelled")
			return nil
		}
	}
}

// Producer sends the batch synchronously and fails if any message failed.
func (k *KafkaClient) Producer(messages []Message, topic string) error {
	if len(messages) == 0 {
		return nil
	}

	batch := make([]*sarama.ProducerMessage, len(messages))
	for i, msg := range messages {
		batch[i] = &sarama.ProducerMessage{
			Topic:   topic,
			Key:     sarama.StringEncoder(msg.Key),
			Value:   sarama.ByteEncoder(msg.Value),
			Headers: toRecordHeaders(msg.Headers),
		}
	}

	if err := k.producer.SendMessages(batch); err != nil {
		var producerErrs sarama.ProducerErrors
		if errors.As(err, &producerErrs) {
			for _, failed := range producerErrs {
				log.Printf("  - message %s failed: %v", failed.Msg.Key, failed.Err)
			}
			return fmt.Errorf("batch send failed: %d/%d messages failed", len(producerErrs), len(batch))
		}
		return fmt.Errorf("batch send failed: %w", err)
	}

	log.Printf("Batch sent: %d messages to topic %s", len(batch), topic)
	return nil
}

func (k *KafkaClient) Close() error {
	return errors.Join(
		wrapClose("consumer", k.consumer.Close()),
		wrapClose("producer", k.producer.Close()),
	)
}

func wrapClose(what string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("failed to close %s: %w", what, err)
}

func toRecordHeaders(headers map[string]string) []sarama.RecordHeader {
	if len(headers) == 0 {
		return nil
	}
	records := make([]sarama.RecordHeader, 0, len(headers))
	for key, value := range headers {
		records = append(records, sarama.RecordHeader{Key: []byte(key), Value: []byte(value)})
	}
	return records
}

func fromRecordHeaders(records []*sarama.RecordHeader) map[string]string {
	if len(records) == 0 {
		return nil
	}
	headers := make(map[string]string, len(records))
	for _, record := range records {
		headers[string(record.Key)] = string(record.Value)
	}
	return headers
}

type consumerGroupHandler struct {
	handler   Handler
	batchSize int
}

func (h *consumerGroupHandler) Setup(sarama.ConsumerGroupSession) error {
	log.Printf("Kafka consumer group session setup - batch size: %d", h.batchSize)
	return nil
}

func (h *consumerGroupHandler) Cleanup(sarama.ConsumerGroupSession) error {
	log.Println("Kafka consumer group session cleanup")
	return nil
}

// ConsumeClaim flushes a batch when it is full or when batchTimeout passes without one.
func (h *consumerGroupHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	log.Printf("Starting consumer for partition %d (batch: %d, timeout: %v)", claim.Partition(), h.batchSize, batchTimeout)

	messages := make([]Message, 0, h.batchSize)
	timer := time.NewTimer(batchTimeout)
	defer timer.Stop()

	flush := func() {
		if len(messages) > 0 {
			h.processBatch(session, messages)
			messages = messages[:0]
		}
	}

	for {
		select {
		case message, ok := <-claim.Messages():
			if !ok {
				flush()
				return nil
			}

			messages = append(messages, Message{
				Key:      string(message.Key),
				Value:    message.Value,
				Headers:  fromRecordHeaders(message.Headers),
				internal: message,
			})

			if len(messages) >= h.batchSize {
				flush()
				timer.Reset(batchTimeout)
			}

		case <-timer.C:
			flush()
			timer.Reset(batchTimeout)

		case <-session.Context().Done():
			flush()
			return nil
		}
	}
}

func (h *consumerGroupHandler) processBatch(session sarama.ConsumerGroupSession, messages []Message) {
	if err := h.handler(messages); err != nil {
		log.Printf("Handler error for batch of %d messages: %v", len(messages), err)
		return
	}

	for _, msg := range messages {
		if msg.internal != nil {
			session.MarkMessage(msg.internal, "")
		}
	}
}
