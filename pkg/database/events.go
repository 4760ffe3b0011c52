package database

import (
	"context"
	"encoding/json"
	"fmt"

	"cloud.google.com/go/pubsub"
)

// RefreshedEvent is published after the catalog has been synced.
type RefreshedEvent struct {
	TotalSubjects int    `json:"totalSubjects"`
	RunID         string `json:"runId"`
}

// Publisher announces catalog refreshes on a Pub/Sub topic.
type Publisher struct {
	client *pubsub.Client
	topic  *pubsub.Topic
}

func NewPublisher(ctx context.Context, projectID, topicID string) (*Publisher, error) {
	client, err := pubsub.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}
	return &Publisher{client: client, topic: client.Topic(topicID)}, nil
}

// Publish sends the event and waits for the server to acknowledge it.
func (p *Publisher) Publish(ctx context.Context, event RefreshedEvent) (string, error) {
	msg, err := json.Marshal(event)
	if err != nil {
		return "", fmt.Errorf("failed to create message: %w", err)
	}
	res := p.topic.Publish(ctx, &pubsub.Message{Data: msg})
	id, err := res.Get(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to publish message: %w", err)
	}
	return id, nil
}

func (p *Publisher) Close() error {
	p.topic.Stop()
	return p.client.Close()
}
