package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"cloud.google.com/go/pubsub/v2"
)

// EventPublisher publishes worker job messages to the Pub/Sub topic. It is
// wired into the session service so each new search enqueues a match alert.
type EventPublisher struct {
	client    *pubsub.Client
	publisher *pubsub.Publisher
	topicName string
}

// NewEventPublisher creates a publisher for the given topic.
func NewEventPublisher(ctx context.Context, projectID, topicName string) (*EventPublisher, error) {
	client, err := pubsub.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("creating pubsub client: %w", err)
	}

	return &EventPublisher{
		client:    client,
		publisher: client.Publisher(topicName),
		topicName: topicName,
	}, nil
}

// SessionCreated enqueues a match alert job for the user's new session.
func (p *EventPublisher) SessionCreated(ctx context.Context, userID string) error {
	return p.publish(ctx, JobMessage{JobType: JobTypeMatchAlert, UserID: userID})
}

// RequestCleanup enqueues a session cleanup run.
func (p *EventPublisher) RequestCleanup(ctx context.Context) error {
	return p.publish(ctx, JobMessage{JobType: JobTypeSessionCleanup})
}

func (p *EventPublisher) publish(ctx context.Context, msg JobMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encoding job message: %w", err)
	}

	result := p.publisher.Publish(ctx, &pubsub.Message{Data: data})
	if _, err := result.Get(ctx); err != nil {
		return fmt.Errorf("publishing to %s: %w", p.topicName, err)
	}
	return nil
}

// Close stops the publisher and closes the client.
func (p *EventPublisher) Close() error {
	p.publisher.Stop()
	return p.client.Close()
}
