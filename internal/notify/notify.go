package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
)

// ReportEvent announces a freshly generated report.
type ReportEvent struct {
	ReportID    string          `json:"report_id"`
	UserID      string          `json:"user_id"`
	FileName    string          `json:"file_name"`
	Digest      string          `json:"digest"`
	OrderCount  int             `json:"order_count"`
	Revenue     decimal.Decimal `json:"revenue"`
	RowsDropped int             `json:"rows_dropped"`
	GeneratedAt time.Time       `json:"generated_at"`
}

type Publisher interface {
	PublishReport(ctx context.Context, ev ReportEvent) error
	Close() error
}

// Nop discards events; used when no brokers are configured.
type Nop struct{}

func (Nop) PublishReport(context.Context, ReportEvent) error { return nil }
func (Nop) Close() error                                     { return nil }

// kafkaMessageWriter abstracts kafka.Writer for testability.
type kafkaMessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes report events keyed by user, so one operator's
// reports stay ordered within a partition.
type KafkaPublisher struct {
	writer kafkaMessageWriter
}

// NewKafkaPublisher accepts comma-separated brokers.
func NewKafkaPublisher(brokers string, topic string) *KafkaPublisher {
	var addrs []string
	for _, a := range strings.Split(brokers, ",") {
		a = strings.TrimSpace(a)
		if a != "" {
			addrs = append(addrs, a)
		}
	}
	return &KafkaPublisher{writer: &kafka.Writer{
		Addr:                   kafka.TCP(addrs...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}}
}

func newKafkaPublisherWith(w kafkaMessageWriter) *KafkaPublisher {
	return &KafkaPublisher{writer: w}
}

func (p *KafkaPublisher) PublishReport(ctx context.Context, ev ReportEvent) error {
	b, err := json.Marshal(&ev)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	if err := p.writer.WriteMessages(ctx, kafka.Message{Key: []byte(ev.UserID), Value: b}); err != nil {
		return fmt.Errorf("write report event: %w", err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error { return p.writer.Close() }
