package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"
)

func TestNewSelectsBackend(t *testing.T) {
	p, err := New(Config{Backend: "none"})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := p.(Nop); !ok {
		t.Fatalf("want Nop, got %T", p)
	}
	if _, err := New(Config{Backend: "carrier-pigeon"}); err == nil {
		t.Fatal("unknown backend should fail")
	}
	if _, err := New(Config{Backend: "kafka"}); err == nil {
		t.Fatal("kafka without brokers should fail")
	}
}

func TestKafkaPublisherNeedsNoConnectionToBuild(t *testing.T) {
	p, err := NewKafkaPublisher([]string{"localhost:9092"}, "")
	if err != nil {
		t.Fatal(err)
	}
	if p.w.Topic != "product_events" {
		t.Fatalf("default topic, got %q", p.w.Topic)
	}
	_ = p.Close()
}

func TestProductEventWireFormat(t *testing.T) {
	ev := ProductEvent{Type: ProductCreated, ProductID: 7, Name: "Widget", Actor: "admin", At: time.Unix(0, 0).UTC()}
	b, err := json.Marshal(ev)
	if err != nil {
		t.Fatal(err)
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		t.Fatal(err)
	}
	if m["type"] != "product_created" || m["productID"] != float64(7) || m["name"] != "Widget" {
		t.Fatalf("unexpected wire format: %s", b)
	}
}

func TestMemoryPublisher(t *testing.T) {
	m := &Memory{}
	_ = m.Publish(context.Background(), ProductEvent{Type: ProductDeleted, ProductID: 3})
	if got := m.Events(); len(got) != 1 || got[0].ProductID != 3 {
		t.Fatalf("unexpected events %+v", got)
	}
}
