package infra

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
)

type fakeWriter struct {
	msgs []kafka.Message
	err  error
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error { return nil }

func TestKafkaProducerPublish(t *testing.T) {
	fw := &fakeWriter{}
	p := NewKafkaProducerWithWriter(fw)

	if err := p.Publish(context.Background(), "C", map[string]any{"tiedUpCount": 1}); err != nil {
		t.Fatalf("publish failed: %v", err)
	}
	if len(fw.msgs) != 1 {
		t.Fatalf("expected 1 message, got %d", len(fw.msgs))
	}
	if string(fw.msgs[0].Key) != "C" {
		t.Errorf("unexpected key %q", fw.msgs[0].Key)
	}
	var body map[string]any
	if err := json.Unmarshal(fw.msgs[0].Value, &body); err != nil || body["tiedUpCount"] != 1.0 {
		t.Errorf("unexpected value %s (%v)", fw.msgs[0].Value, err)
	}
}

func TestKafkaProducerPublishErrors(t *testing.T) {
	p := NewKafkaProducerWithWriter(&fakeWriter{err: errors.New("broker down")})
	if err := p.Publish(context.Background(), "k", "v"); err == nil {
		t.Error("expected write error")
	}

	p = NewKafkaProducerWithWriter(&fakeWriter{})
	if err := p.Publish(context.Background(), "k", func() {}); err == nil {
		t.Error("expected marshal error")
	}
}
