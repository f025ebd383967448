// Package kafka publishes anomaly detections to a Kafka topic so downstream
// alerting can react without polling the API.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/climate-anomaly-service/internal/config"
	"github.com/couchcryptid/climate-anomaly-service/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// Publisher produces anomaly events to a Kafka topic.
// It implements domain.AnomalyPublisher.
type Publisher struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewPublisher creates a Kafka producer for the configured sink topic.
func NewPublisher(cfg *config.Config, logger *slog.Logger) *Publisher {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaSinkTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Publisher{writer: w, logger: logger}
}

// anomalyEvent is the wire format for one anomalous variable at one place.
type anomalyEvent struct {
	Place      domain.Place         `json:"place"`
	Variable   domain.Variable      `json:"variable"`
	Unit       string               `json:"unit"`
	Result     domain.AnomalyResult `json:"result"`
	ObservedAt time.Time            `json:"observed_at"`
}

// PublishAnomalies serializes one message per anomalous variable and writes
// them in a single WriteMessages call. A report with no anomalies is a no-op.
func (p *Publisher) PublishAnomalies(ctx context.Context, place domain.Place, observedAt time.Time, report domain.Report) error {
	vars := report.AnomalousVariables()
	if len(vars) == 0 {
		return nil
	}

	msgs := make([]kafkago.Message, len(vars))
	for i, v := range vars {
		msg, err := serializeToMessage(place, v, observedAt, report[v])
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	return p.writer.WriteMessages(ctx, msgs...)
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

// serializeToMessage marshals one anomaly into a Kafka message keyed by place
// and variable so a compacted topic holds the latest state per pair.
func serializeToMessage(place domain.Place, v domain.Variable, observedAt time.Time, result domain.AnomalyResult) (kafkago.Message, error) {
	event := anomalyEvent{
		Place:      place,
		Variable:   v,
		Unit:       v.Unit(),
		Result:     result,
		ObservedAt: observedAt,
	}
	data, err := json.Marshal(event)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize anomaly event: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(fmt.Sprintf("%s|%s", place.Name, v)),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "variable", Value: []byte(v)},
			{Key: "severity", Value: []byte(result.Severity)},
			{Key: "observed_at", Value: []byte(observedAt.Format(time.RFC3339))},
		},
	}, nil
}
