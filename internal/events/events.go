package events

import (
	"context"
	"fmt"
	"sync"
	"time"
)

const (
	ProductCreated = "product_created"
	ProductUpdated = "product_updated"
	ProductDeleted = "product_deleted"
)

// ProductEvent announces a confirmed change to the products table.
type ProductEvent struct {
	Type      string    `json:"type"`
	ProductID int64     `json:"productID"`
	Name      string    `json:"name,omitempty"`
	Actor     string    `json:"actor"`
	At        time.Time `json:"at"`
}

type Publisher interface {
	Publish(ctx context.Context, ev ProductEvent) error
	Close() error
}

// Nop drops every event.
type Nop struct{}

func (Nop) Publish(context.Context, ProductEvent) error { return nil }
func (Nop) Close() error                                { return nil }

// Memory keeps published events in order; used where no broker is wanted.
type Memory struct {
	mu     sync.Mutex
	events []ProductEvent
	Err    error // returned from Publish when set
}

func (m *Memory) Publish(_ context.Context, ev ProductEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.events = append(m.events, ev)
	return nil
}

func (m *Memory) Close() error { return nil }

func (m *Memory) Events() []ProductEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]ProductEvent, len(m.events))
	copy(out, m.events)
	return out
}

// Config selects and configures a backend.
type Config struct {
	Backend      string // none | kafka | rabbitmq
	KafkaBrokers []string
	KafkaTopic   string
	AMQPURL      string
	AMQPQueue    string
}

// New builds the publisher named by cfg.Backend.
func New(cfg Config) (Publisher, error) {
	switch cfg.Backend {
	case "", "none":
		return Nop{}, nil
	case "kafka":
		return NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
	case "rabbitmq":
		return NewRabbitPublisher(cfg.AMQPURL, cfg.AMQPQueue)
	}
	return nil, fmt.Errorf("unknown EVENTS_BACKEND %q", cfg.Backend)
}
