package broker

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
)

// Event is a decoded platform message. Topic is always the Kafka topic the
// message arrived on; dispatch keys on it, so a producer cannot reroute an
// event through its body. Producers that publish an envelope get its
// entity/action fields extracted; bare payloads are delivered whole in Data.
type Event struct {
	Topic      string
	Entity     string
	Action     string
	ResourceID string
	Metadata   map[string]string
	Data       any
	Timestamp  time.Time
}

type KafkaConsumer struct {
	reader *kafka.Reader
}

func NewKafkaConsumer(brokers []string, groupID string, topic string) *KafkaConsumer {
	return &KafkaConsumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers: brokers,
			GroupID: groupID,
			Topic:   topic,
		}),
	}
}

func (c *KafkaConsumer) Close() error { return c.reader.Close() }

func (c *KafkaConsumer) Consume(ctx context.Context, handler func(*Event) error) error {
	for {
		m, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			slog.Warn("kafka read error", slog.Any("error", err))
			continue
		}
		event := decodeEvent(m)
		slog.Info("kafka event consumed",
			slog.String("topic", m.Topic),
			slog.Int("partition", m.Partition),
			slog.Int64("offset", m.Offset),
			slog.String("entity", event.Entity),
			slog.String("action", event.Action),
			slog.String("resourceId", event.ResourceID),
		)
		if err := handler(event); err != nil {
			slog.Warn("kafka handler error", slog.Any("error", err))
		}
	}
}

func decodeEvent(m kafka.Message) *Event {
	event := &Event{Topic: m.Topic, Timestamp: time.Now().UTC()}
	entity, action := inferEntityAction(m.Topic)

	var body map[string]any
	if err := json.Unmarshal(m.Value, &body); err != nil || body == nil {
		event.Entity = entity
		event.Action = action
		event.Data = string(m.Value)
		return event
	}

	event.Entity = firstNonEmpty(stringField(body, "entity"), entity)
	event.Action = firstNonEmpty(stringField(body, "action"), action)
	event.ResourceID = stringField(body, "resourceId")
	event.Metadata = metadataField(body["metadata"])
	if data, ok := body["data"]; ok {
		event.Data = data
	} else {
		// Bare payload: hand the whole body to the handler.
		event.Data = body
	}
	return event
}

func stringField(body map[string]any, key string) string {
	s, _ := body[key].(string)
	return strings.TrimSpace(s)
}

func metadataField(value any) map[string]string {
	raw, ok := value.(map[string]any)
	if !ok || len(raw) == 0 {
		return nil
	}
	meta := make(map[string]string, len(raw))
	for key, entry := range raw {
		if s, ok := entry.(string); ok {
			meta[key] = s
		}
	}
	return meta
}

func inferEntityAction(topic string) (string, string) {
	parts := strings.Split(topic, ".")
	if len(parts) >= 2 {
		entity := strings.TrimSpace(parts[len(parts)-2])
		action := strings.TrimSpace(parts[len(parts)-1])
		if entity != "" && action != "" {
			return entity, action
		}
	}
	if entity := normalizeTopic(topic); entity != "" {
		return entity, "unknown"
	}
	return "", "unknown"
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func normalizeTopic(topic string) string {
	if idx := strings.LastIndex(topic, "."); idx >= 0 {
		topic = topic[idx+1:]
	}
	return strings.TrimSpace(topic)
}
