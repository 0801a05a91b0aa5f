package eventbridge

import (
	"context"
	"encoding/json"
	"fmt"

	"city-devices-backend/application/ports"
	"city-devices-backend/domain/events"
	apperrors "city-devices-backend/pkg/errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge/types"
	"go.uber.org/zap"
)

// EventBridge limits PutEvents to 10 entries per call
const batchSize = 10

// EventBridgeAPI is the subset of the EventBridge client the publisher uses
type EventBridgeAPI interface {
	PutEvents(ctx context.Context, params *eventbridge.PutEventsInput, optFns ...func(*eventbridge.Options)) (*eventbridge.PutEventsOutput, error)
}

var _ EventBridgeAPI = (*eventbridge.Client)(nil)

// EventBridgePublisher implements the EventBus interface using AWS EventBridge
type EventBridgePublisher struct {
	client       EventBridgeAPI
	eventBusName string
	source       string
	logger       *zap.Logger
}

var _ ports.EventBus = (*EventBridgePublisher)(nil)

// NewEventBridgePublisher creates a new EventBridge publisher. An empty source
// falls back to the devices source.
func NewEventBridgePublisher(
	client EventBridgeAPI,
	eventBusName string,
	source string,
	logger *zap.Logger,
) *EventBridgePublisher {
	if source == "" {
		source = events.SourceDevices
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EventBridgePublisher{
		client:       client,
		eventBusName: eventBusName,
		source:       source,
		logger:       logger,
	}
}

// Publish sends a single event to EventBridge
func (p *EventBridgePublisher) Publish(ctx context.Context, event events.DomainEvent) error {
	return p.PublishBatch(ctx, []events.DomainEvent{event})
}

// PublishBatch sends events in chunks of at most ten
func (p *EventBridgePublisher) PublishBatch(ctx context.Context, domainEvents []events.DomainEvent) error {
	for i := 0; i < len(domainEvents); i += batchSize {
		end := i + batchSize
		if end > len(domainEvents) {
			end = len(domainEvents)
		}

		if err := p.publishBatch(ctx, domainEvents[i:end]); err != nil {
			return err
		}
	}

	return nil
}

func (p *EventBridgePublisher) publishBatch(ctx context.Context, domainEvents []events.DomainEvent) error {
	entries := make([]types.PutEventsRequestEntry, 0, len(domainEvents))
	sent := make([]events.DomainEvent, 0, len(domainEvents))

	for _, event := range domainEvents {
		detail, err := json.Marshal(event)
		if err != nil {
			p.logger.Error("failed to marshal event",
				zap.Error(err),
				zap.String("eventType", event.GetEventType()),
			)
			continue
		}

		entries = append(entries, types.PutEventsRequestEntry{
			EventBusName: aws.String(p.eventBusName),
			Source:       aws.String(p.source),
			DetailType:   aws.String(event.GetEventType()),
			Detail:       aws.String(string(detail)),
			Time:         aws.Time(event.GetTimestamp()),
		})
		sent = append(sent, event)
	}

	if len(entries) == 0 {
		return nil
	}

	result, err := p.client.PutEvents(ctx, &eventbridge.PutEventsInput{Entries: entries})
	if err != nil {
		return apperrors.NewExternalError("eventbridge", err)
	}

	if result.FailedEntryCount > 0 {
		for i, entry := range result.Entries {
			if entry.ErrorCode != nil && i < len(sent) {
				p.logger.Error("failed to publish event",
					zap.String("eventType", sent[i].GetEventType()),
					zap.String("aggregateID", sent[i].GetAggregateID()),
					zap.String("errorCode", aws.ToString(entry.ErrorCode)),
					zap.String("errorMessage", aws.ToString(entry.ErrorMessage)),
				)
			}
		}
		return apperrors.NewExternalError("eventbridge",
			fmt.Errorf("%d events failed to publish", result.FailedEntryCount))
	}

	p.logger.Debug("events published to EventBridge",
		zap.Int("count", len(entries)),
		zap.String("eventBus", p.eventBusName),
	)

	return nil
}
