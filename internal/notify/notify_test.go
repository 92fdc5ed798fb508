package notify

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
)

type fakeKafkaWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (f *fakeKafkaWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeKafkaWriter) Close() error {
	f.closed = true
	return nil
}

func TestKafkaPublisher_PublishReport(t *testing.T) {
	fw := &fakeKafkaWriter{}
	p := newKafkaPublisherWith(fw)

	ev := ReportEvent{
		ReportID:    "r1",
		UserID:      "u1",
		FileName:    "orders.xlsx",
		OrderCount:  2,
		Revenue:     decimal.RequireFromString("350.00"),
		GeneratedAt: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
	}
	if err := p.PublishReport(context.Background(), ev); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if len(fw.msgs) != 1 {
		t.Fatalf("want 1 message, got %d", len(fw.msgs))
	}
	if string(fw.msgs[0].Key) != "u1" {
		t.Fatalf("key = %q, want user id", fw.msgs[0].Key)
	}

	var got ReportEvent
	if err := json.Unmarshal(fw.msgs[0].Value, &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.ReportID != "r1" || got.OrderCount != 2 || !got.Revenue.Equal(decimal.NewFromInt(350)) {
		t.Fatalf("unexpected event: %+v", got)
	}

	if err := p.Close(); err != nil || !fw.closed {
		t.Fatalf("close: err=%v closed=%v", err, fw.closed)
	}
}

func TestKafkaPublisher_WriteError(t *testing.T) {
	boom := errors.New("broker down")
	p := newKafkaPublisherWith(&fakeKafkaWriter{err: boom})
	if err := p.PublishReport(context.Background(), ReportEvent{ReportID: "r1"}); !errors.Is(err, boom) {
		t.Fatalf("want wrapped broker error, got %v", err)
	}
}

func TestNop(t *testing.T) {
	var p Publisher = Nop{}
	if err := p.PublishReport(context.Background(), ReportEvent{}); err != nil {
		t.Fatalf("nop publish: %v", err)
	}
}
