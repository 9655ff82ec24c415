package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"xmimodel/src/domain"
	"xmimodel/src/infra/kafka"
)

const (
	sourceService = "xmi-model"
	schemaVersion = "v1"
)

// Producer is the part of the kafka client the publisher needs.
type Producer interface {
	Producer(messages []kafka.Message, topic string) error
}

type DomainEventPublisher struct {
	logger   *slog.Logger
	producer Producer
	topic    string
	now      func() time.Time
}

func NewDomainEventPublisher(logger *slog.Logger, producer Producer, topic string) *DomainEventPublisher {
	return &DomainEventPublisher{
		logger:   logger,
		producer: producer,
		topic:    topic,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

type relationshipPayload struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// PublishSync announces everything a sync wrote: one event per entity, keyed by its xmi
// id, then one per relationship, keyed by its source so they land on the source's partition.
func (p *DomainEventPublisher) PublishSync(ctx context.Context, request domain.SyncGraphRequest) error {
	events := make([]domain.DomainEvent, 0, len(request.Entities)+len(request.Relationships))
	occurredAt := p.now()

	for _, entity := range request.Entities {
		events = append(events, domain.DomainEvent{
			EventID:    uuid.NewString(),
			EventType:  domain.EventEntityImported,
			EntityType: entity.Type,
			Reference:  entity.Reference,
			Payload:    entity.Properties,
			OccurredAt: occurredAt,
		})
	}

	for _, rel := range request.Relationships {
		payload, err := json.Marshal(relationshipPayload{Source: rel.SourceReference, Target: rel.TargetReference})
		if err != nil {
			return fmt.Errorf("DomainEventPublisher.PublishSync - failed to marshal relationship: %w", err)
		}
		events = append(events, domain.DomainEvent{
			EventID:    uuid.NewString(),
			EventType:  domain.EventRelationshipImported,
			EntityType: rel.RelationshipType,
			Reference:  rel.SourceReference,
			Payload:    payload,
			OccurredAt: occurredAt,
		})
	}

	return p.PublishDomainEvents(ctx, events)
}

// PublishDomainEvents publishes a batch of domain events. Events that cannot be encoded are
// logged and skipped.
func (p *DomainEventPublisher) PublishDomainEvents(ctx context.Context, events []domain.DomainEvent) error {
	if len(events) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	messages := make([]kafka.Message, 0, len(events))
	for _, event := range events {
		value, err := json.Marshal(event)
		if err != nil {
			p.logger.Error("Failed to marshal domain event", "error", err, "event_id", event.EventID, "reference", event.Reference)
			continue
		}

		messages = append(messages, kafka.Message{
			Key:     event.Reference,
			Value:   value,
			Headers: eventHeaders(event),
		})
	}

	if err := p.producer.Producer(messages, p.topic); err != nil {
		p.logger.Error("Failed to publish domain events", "error", err, "topic", p.topic, "events_count", len(messages))
		return fmt.Errorf("failed to publish domain events to topic %s: %w", p.topic, err)
	}

	p.logger.Info("Published domain events", "topic", p.topic, "events_count", len(messages))
	return nil
}

// eventHeaders lets consumers filter without decoding the value.
func eventHeaders(event domain.DomainEvent) map[string]string {
	headers := map[string]string{
		"event_id":       event.EventID,
		"event_type":     event.EventType,
		"source_service": sourceService,
		"schema_version": schemaVersion,
	}

	switch event.EventType {
	case domain.EventRelationshipImported:
		headers["relation_type"] = event.EntityType
	default:
		headers["entity_type"] = event.EntityType
		if fields := payloadFields(event.Payload); len(fields) > 0 {
			headers["fields"] = strings.Join(fields, ",")
		}
	}

	return headers
}

// payloadFields lists the top level keys of a JSON object in sorted order.
func payloadFields(payload json.RawMessage) []string {
	var object map[string]json.RawMessage
	if len(payload) == 0 || json.Unmarshal(payload, &object) != nil {
		return nil
	}

	fields := make([]string, 0, len(object))
	for field := range object {
		fields = append(fields, field)
	}
	slices.Sort(fields)
	return fields
}
