package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/sifan077/FoodGram/internal/app/model"
	"github.com/sifan077/FoodGram/internal/app/repository"
	"go.uber.org/zap"
)

const (
	visitFetchBatch = 10
	visitFetchWait  = 5 * time.Second
)

// VisitConsumer consumes link visits from NATS JetStream and stores them
type VisitConsumer struct {
	js     nats.JetStreamContext
	logger *zap.Logger
	repo   repository.LinkVisitRepository
	done   chan struct{}
}

// NewVisitConsumer creates a new link visit consumer
func NewVisitConsumer(js nats.JetStreamContext, logger *zap.Logger, repo repository.LinkVisitRepository) *VisitConsumer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &VisitConsumer{js: js, logger: logger, repo: repo, done: make(chan struct{})}
}

// Start provisions the stream and durable consumer, then consumes until ctx is cancelled.
func (c *VisitConsumer) Start(ctx context.Context) error {
	if _, err := c.js.StreamInfo(model.VisitStreamName); err != nil {
		_, err = c.js.AddStream(&nats.StreamConfig{
			Name:     model.VisitStreamName,
			Subjects: []string{model.VisitStreamSubject},
			MaxBytes: model.VisitStreamMaxBytes,
		})
		if err != nil {
			return fmt.Errorf("failed to create stream: %w", err)
		}
	}

	if _, err := c.js.ConsumerInfo(model.VisitStreamName, model.VisitConsumerName); err != nil {
		_, err = c.js.AddConsumer(model.VisitStreamName, &nats.ConsumerConfig{
			Durable:   model.VisitConsumerName,
			AckPolicy: nats.AckExplicitPolicy,
		})
		if err != nil {
			return fmt.Errorf("failed to create consumer: %w", err)
		}
	}

	sub, err := c.js.PullSubscribe(model.VisitStreamSubject, model.VisitConsumerName)
	if err != nil {
		return fmt.Errorf("failed to subscribe: %w", err)
	}

	go c.consume(ctx, sub)
	return nil
}

// Done is closed once the consume loop has returned.
func (c *VisitConsumer) Done() <-chan struct{} {
	return c.done
}

func (c *VisitConsumer) consume(ctx context.Context, sub *nats.Subscription) {
	defer close(c.done)
	defer func() {
		if err := sub.Unsubscribe(); err != nil && !errors.Is(err, nats.ErrConnectionClosed) {
			c.logger.Warn("failed to unsubscribe visit consumer", zap.Error(err))
		}
	}()

	for {
		select {
		case <-ctx.Done():
			c.logger.Info("visit consumer stopped")
			return
		default:
		}

		msgs, err := sub.Fetch(visitFetchBatch, nats.MaxWait(visitFetchWait))
		if err != nil {
			if errors.Is(err, nats.ErrTimeout) || errors.Is(err, context.DeadlineExceeded) {
				continue
			}
			if errors.Is(err, nats.ErrConnectionClosed) || errors.Is(err, nats.ErrBadSubscription) {
				c.logger.Warn("visit consumer subscription closed", zap.Error(err))
				return
			}
			c.logger.Error("failed to fetch messages", zap.Error(err))
			continue
		}

		for _, msg := range msgs {
			c.handle(ctx, msg)
		}
	}
}

func (c *VisitConsumer) handle(ctx context.Context, msg *nats.Msg) {
	visit, err := decodeVisit(msg.Data)
	if err != nil {
		c.logger.Error("failed to unmarshal link visit", zap.Error(err))
		// Malformed payloads will never decode; terminate instead of redelivering.
		_ = msg.Term()
		return
	}

	if err := c.repo.Create(ctx, visit); err != nil {
		c.logger.Error("failed to store link visit",
			zap.String("id", visit.ID),
			zap.String("token", visit.Token),
			zap.Error(err))
		_ = msg.Nak()
		return
	}

	c.logger.Debug("link visit stored",
		zap.String("id", visit.ID),
		zap.String("token", visit.Token),
		zap.Uint("recipe_id", visit.RecipeID),
		zap.Time("visited_at", visit.VisitedAt),
	)
	_ = msg.Ack()
}

func decodeVisit(data []byte) (*model.LinkVisit, error) {
	var visit model.LinkVisit
	if err := json.Unmarshal(data, &visit); err != nil {
		return nil, err
	}
	if visit.ID == "" || visit.Token == "" || visit.RecipeID == 0 {
		return nil, errors.New("link visit is missing id, token or recipe")
	}
	return &visit, nil
}
