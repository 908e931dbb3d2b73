package broker

import (
	"context"
	"strings"
)

// TopicHandler reacts to events of one topic.
type TopicHandler interface {
	Topic() string
	Handle(ctx context.Context, event *Event) error
}

type HandlerRegistry struct {
	handlers map[string]TopicHandler
}

func NewHandlerRegistry() *HandlerRegistry {
	return &HandlerRegistry{handlers: make(map[string]TopicHandler)}
}

func (r *HandlerRegistry) Register(h TopicHandler) {
	r.handlers[strings.TrimSpace(h.Topic())] = h
}

func (r *HandlerRegistry) Dispatch(ctx context.Context, event *Event) error {
	if handler, ok := r.handlers[event.Topic]; ok {
		return handler.Handle(ctx, event)
	}
	return nil
}

// StartConsumers launches one consumer goroutine per topic. With no brokers
// configured the edge runs without event intake rather than failing startup.
func StartConsumers(ctx context.Context, registry *HandlerRegistry, brokers []string, groupID string, topics []string) {
	if len(brokers) == 0 {
		return
	}
	for _, topic := range topics {
		go func(tp string) {
			consumer := NewKafkaConsumer(brokers, groupID, tp)
			defer consumer.Close()
			_ = consumer.Consume(ctx, func(event *Event) error {
				return registry.Dispatch(ctx, event)
			})
		}(topic)
	}
}
