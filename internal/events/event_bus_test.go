package events

import (
	"sync"
	"testing"

	"github.com/asaskevich/EventBus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testEvent struct {
	Name string `json:"name"`
}

func TestBusRoundTrip(t *testing.T) {
	eb := EventBus.New()
	bus := NewBus[testEvent](eb, zap.NewNop())

	var mu sync.Mutex
	var received []testEvent
	err := bus.Subscribe("test.topic", func(event testEvent) error {
		mu.Lock()
		defer mu.Unlock()
		received = append(received, event)
		return nil
	}, false)
	require.NoError(t, err)

	require.NoError(t, bus.Publish("test.topic", testEvent{Name: "first"}))
	require.NoError(t, bus.Publish("test.topic", testEvent{Name: "second"}))
	eb.WaitAsync()

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, received, 2)
	assert.Equal(t, "first", received[0].Name)
	assert.Equal(t, "second", received[1].Name)
}
