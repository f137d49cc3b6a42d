package event

import (
	"context"
	"errors"
	"testing"

	"github.com/IdrisInc/smartbz/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testHandler struct {
	types   []string
	handled []shared.DomainEvent
	err     error
	panics  bool
}

func (h *testHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	if h.panics {
		panic("handler exploded")
	}
	h.handled = append(h.handled, event)
	return h.err
}

func (h *testHandler) EventTypes() []string {
	return h.types
}

func newTestEvent(eventType string) *shared.BaseDomainEvent {
	e := shared.NewBaseDomainEvent(eventType, "Return", uuid.New(), uuid.New())
	return &e
}

func TestInMemoryEventBus(t *testing.T) {
	t.Run("delivers events to subscribed handlers", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		handler := &testHandler{types: []string{"ReturnApproved"}}
		bus.Subscribe(handler)

		err := bus.Publish(context.Background(), newTestEvent("ReturnApproved"))
		require.NoError(t, err)
		assert.Len(t, handler.handled, 1)
	})

	t.Run("skips handlers for other event types", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		handler := &testHandler{types: []string{"ReturnRejected"}}
		bus.Subscribe(handler)

		err := bus.Publish(context.Background(), newTestEvent("ReturnApproved"))
		require.NoError(t, err)
		assert.Empty(t, handler.handled)
	})

	t.Run("publish succeeds with no handlers", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		assert.NoError(t, bus.Publish(context.Background(), newTestEvent("ReturnCreated")))
	})

	t.Run("a failing handler does not fail publish", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		failing := &testHandler{types: []string{"ReturnApproved"}, err: errors.New("boom")}
		working := &testHandler{types: []string{"ReturnApproved"}}
		bus.Subscribe(failing)
		bus.Subscribe(working)

		err := bus.Publish(context.Background(), newTestEvent("ReturnApproved"))
		require.NoError(t, err)
		assert.Len(t, working.handled, 1)
	})

	t.Run("a panicking handler is contained", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		bus.Subscribe(&testHandler{types: []string{"ReturnApproved"}, panics: true})

		assert.NotPanics(t, func() {
			_ = bus.Publish(context.Background(), newTestEvent("ReturnApproved"))
		})
	})
}
