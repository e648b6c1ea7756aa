package events

import (
	"encoding/json"
	"fmt"

	"github.com/asaskevich/EventBus"
	"go.uber.org/zap"
)

// Bus is a typed wrapper over the process-local event bus. Payloads cross the
// bus as JSON so subscribers never share mutable state with publishers.
type Bus[T any] interface {
	Subscribe(topic string, handler func(event T) error, transactional bool) error
	Publish(topic string, event T) error
}

type BusImpl[T any] struct {
	eventBus EventBus.Bus
	logger   *zap.Logger
}

func NewBus[T any](eventBus EventBus.Bus, logger *zap.Logger) Bus[T] {
	return &BusImpl[T]{
		eventBus: eventBus,
		logger:   logger,
	}
}

func (b *BusImpl[T]) Subscribe(
	topic string,
	handler func(event T) error,
	transactional bool,
) error {
	err := b.eventBus.SubscribeAsync(
		topic,
		func(arg string) {
			var event T
			err := json.Unmarshal([]byte(arg), &event)
			if err != nil {
				b.logger.Error("Failed to unmarshal event during subscription of topic",
					zap.String("topic", topic),
					zap.Error(err),
				)
				return
			}
			err = handler(event)
			if err != nil {
				b.logger.Error("Failed to handle event during subscription of topic",
					zap.String("topic", topic),
					zap.Error(err),
				)
			}
		},
		transactional,
	)
	if err != nil {
		return fmt.Errorf("failed to subscribe to topic %s: %w", topic, err)
	}
	return nil
}

func (b *BusImpl[T]) Publish(topic string, event T) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event for topic %s: %w", topic, err)
	}
	b.eventBus.Publish(topic, string(payload))
	return nil
}
