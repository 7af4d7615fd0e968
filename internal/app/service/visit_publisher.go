package service

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/sifan077/FoodGram/internal/app/model"
)

// VisitPublisher hands link visits to the recording pipeline.
type VisitPublisher interface {
	Publish(visit model.LinkVisit) error
}

// JetStreamVisitPublisher publishes link visits to NATS JetStream
type JetStreamVisitPublisher struct {
	js nats.JetStreamContext
}

// NewVisitPublisher creates a new link visit publisher
func NewVisitPublisher(js nats.JetStreamContext) *JetStreamVisitPublisher {
	return &JetStreamVisitPublisher{js: js}
}

// Publish stamps the visit with an id and time, then publishes it to the stream.
func (p *JetStreamVisitPublisher) Publish(visit model.LinkVisit) error {
	if visit.ID == "" {
		visit.ID = uuid.New().String()
	}
	if visit.VisitedAt.IsZero() {
		visit.VisitedAt = time.Now().UTC()
	}

	data, err := json.Marshal(visit)
	if err != nil {
		return err
	}

	// The id doubles as the JetStream dedup key.
	_, err = p.js.Publish(model.VisitStreamSubject, data, nats.MsgId(visit.ID))
	return err
}
