package events

import (
	"context"
	"fmt"

	"lently/domain/repository"
	"lently/infrastructure/logger"

	"cloud.google.com/go/pubsub"
)

// Topic names for sync lifecycle events.
const (
	TopicSyncCompleted = "sync-completed"
	TopicSyncFailed    = "sync-failed"
	TopicAlertCreated  = "alert-created"
)

// NewPubSub creates the underlying Pub/Sub client. Callers may pass the
// resulting nil client to NewPublisher when the broker is unavailable.
func NewPubSub(ctx context.Context, projectID string) (*pubsub.Client, error) {
	if projectID == "" {
		return nil, fmt.Errorf("pubsub project ID is empty")
	}
	client, err := pubsub.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to create pubsub client: %w", err)
	}
	return client, nil
}

type Publisher struct {
	client *pubsub.Client
}

// NewPublisher wraps a Pub/Sub client as an event publisher. A nil client
// yields a publisher that drops every event.
func NewPublisher(client *pubsub.Client) repository.IEventPublisher {
	return &Publisher{client: client}
}

func (p *Publisher) Publish(ctx context.Context, topicName string, payload []byte) error {
	if p.client == nil {
		return nil
	}

	topic := p.client.Topic(topicName)
	exists, err := topic.Exists(ctx)
	if err != nil {
		return fmt.Errorf("failed to check topic %s: %w", topicName, err)
	}
	if !exists {
		logger.GetLogger().WithField("topic", topicName).Info("Topic does not exist - creating it")
		if _, err := p.client.CreateTopic(ctx, topicName); err != nil {
			return fmt.Errorf("failed to create topic %s: %w", topicName, err)
		}
	}

	serverID, err := topic.Publish(ctx, &pubsub.Message{Data: payload}).Get(ctx)
	if err != nil {
		return fmt.Errorf("failed to publish to %s: %w", topicName, err)
	}
	logger.GetLogger().
		WithField("topic", topicName).
		WithField("serverId", serverID).
		Info("Event published")
	return nil
}
