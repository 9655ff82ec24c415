package consumers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"xmimodel/src/domain"
	"xmimodel/src/infra/kafka"
	"xmimodel/src/services/graph"
	"xmimodel/src/services/xmiimport"
)

// ContentTypeHeader selects the document decoder. Messages without it are read as JSON.
const ContentTypeHeader = "content_type"

// EventPublisher announces what an import wrote.
type EventPublisher interface {
	PublishSync(ctx context.Context, request domain.SyncGraphRequest) error
}

// XmiDocumentConsumer imports one vendor document per message and stores the result.
type XmiDocumentConsumer struct {
	logger       *slog.Logger
	importer     *xmiimport.Importer
	graphService *graph.GraphService
	publisher    EventPublisher
}

func NewXmiDocumentConsumer(
	logger *slog.Logger,
	importer *xmiimport.Importer,
	graphService *graph.GraphService,
	publisher EventPublisher,
) *XmiDocumentConsumer {
	return &XmiDocumentConsumer{
		logger:       logger,
		importer:     importer,
		graphService: graphService,
		publisher:    publisher,
	}
}

func (c *XmiDocumentConsumer) Start(ctx context.Context, kafkaClient *kafka.KafkaClient, topic string) error {
	c.logger.Info("Starting xmi document consumer", "topic", topic)

	handler := func(messages []kafka.Message) error {
		return c.Handle(ctx, messages)
	}

	return kafkaClient.Consumer(ctx, handler, topic)
}

// Handle processes a batch in order. Documents that cannot be decoded, or in which nothing
// decodes, are logged and skipped so they do not block the partition. A storage failure
// fails the batch so it is delivered again.
func (c *XmiDocumentConsumer) Handle(ctx context.Context, messages []kafka.Message) error {
	if len(messages) == 0 {
		return nil
	}

	c.logger.Info("Processing xmi documents batch", "count", len(messages))

	for _, msg := range messages {
		if err := c.handleMessage(ctx, msg); err != nil {
			return fmt.Errorf("failed to process document with key %s: %w", msg.Key, err)
		}
	}

	return nil
}

func (c *XmiDocumentConsumer) handleMessage(ctx context.Context, msg kafka.Message) error {
	doc, err := xmiimport.DecoderFor(msg.Headers[ContentTypeHeader])(msg.Value)
	if err != nil {
		c.logger.Error("Skipping undecodable document", "key", msg.Key, "error", err)
		return nil
	}

	model, errs, err := c.importer.Import(ctx, doc)
	if err != nil {
		return err
	}
	if errs.HasErrors() {
		c.logger.Warn("Document imported with record errors",
			"key", msg.Key,
			"errors_count", len(errs),
			"first_error", errs[0].Error())
	}

	request, err := c.graphService.SyncModel(ctx, model)
	if errors.Is(err, graph.ErrEmptySync) {
		c.logger.Error("Skipping document without decodable entities", "key", msg.Key, "records", doc.RecordCount())
		return nil
	}
	if err != nil {
		return err
	}

	c.logger.Info("Document synced",
		"key", msg.Key,
		"entities", len(request.Entities),
		"relationships", len(request.Relationships))

	if c.publisher != nil {
		if err := c.publisher.PublishSync(ctx, request); err != nil {
			c.logger.Error("Failed to publish import events", "key", msg.Key, "error", err)
		}
	}

	return nil
}
