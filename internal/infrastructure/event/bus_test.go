package event

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testEvent struct {
	shared.BaseDomainEvent
}

func newTestEvent(eventType string, aggregateID shared.ID) *testEvent {
	return &testEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, "Order", aggregateID),
	}
}

type testHandler struct {
	eventTypes []string
	handled    []shared.DomainEvent
	err        error
	panicWith  any
	mu         sync.Mutex
}

func newTestHandler(eventTypes ...string) *testHandler {
	return &testHandler{eventTypes: eventTypes}
}

func (h *testHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	h.mu.Lock()
	h.handled = append(h.handled, event)
	err, p := h.err, h.panicWith
	h.mu.Unlock()

	if p != nil {
		panic(p)
	}
	return err
}

func (h *testHandler) EventTypes() []string {
	return h.eventTypes
}

func (h *testHandler) getHandled() []shared.DomainEvent {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]shared.DomainEvent(nil), h.handled...)
}

func TestInMemoryEventBus_Publish(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	handler := newTestHandler("OrderStateChanged")
	bus.Subscribe(handler)

	event := newTestEvent("OrderStateChanged", 1)
	require.NoError(t, bus.Publish(context.Background(), event))

	require.Len(t, handler.getHandled(), 1)
	assert.Equal(t, event, handler.getHandled()[0])
}

func TestInMemoryEventBus_Publish_MultipleEventsAndHandlers(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	first := newTestHandler()
	second := newTestHandler()
	bus.Subscribe(first, "UserRegistered")
	bus.Subscribe(second, "UserRegistered")

	err := bus.Publish(context.Background(),
		newTestEvent("UserRegistered", 1),
		newTestEvent("UserRegistered", 2),
	)

	require.NoError(t, err)
	assert.Len(t, first.getHandled(), 2)
	assert.Len(t, second.getHandled(), 2)
}

func TestInMemoryEventBus_Publish_WildcardHandler(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	wildcard := newTestHandler()
	bus.Subscribe(wildcard)

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("Anything", 1)))
	assert.Len(t, wildcard.getHandled(), 1)
}

func TestInMemoryEventBus_Publish_NoMatchingHandlers(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	handler := newTestHandler("PriceListImported")
	bus.Subscribe(handler)

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("OrderStateChanged", 1)))
	assert.Empty(t, handler.getHandled())
}

func TestInMemoryEventBus_HandlerFailuresAreIsolated(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	failing := newTestHandler("OrderStateChanged")
	failing.err = errors.New("smtp down")
	panicking := newTestHandler("OrderStateChanged")
	panicking.panicWith = "boom"
	healthy := newTestHandler("OrderStateChanged")

	bus.Subscribe(failing)
	bus.Subscribe(panicking)
	bus.Subscribe(healthy)

	err := bus.Publish(context.Background(), newTestEvent("OrderStateChanged", 1))

	require.NoError(t, err)
	assert.Len(t, failing.getHandled(), 1)
	assert.Len(t, panicking.getHandled(), 1)
	assert.Len(t, healthy.getHandled(), 1)
}

func TestInMemoryEventBus_Unsubscribe(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	handler := newTestHandler("OrderStateChanged")
	wildcard := newTestHandler()
	bus.Subscribe(handler)
	bus.Subscribe(wildcard)

	_ = bus.Publish(context.Background(), newTestEvent("OrderStateChanged", 1))
	bus.Unsubscribe(handler)
	bus.Unsubscribe(wildcard)
	_ = bus.Publish(context.Background(), newTestEvent("OrderStateChanged", 2))

	assert.Len(t, handler.getHandled(), 1)
	assert.Len(t, wildcard.getHandled(), 1)
	assert.Empty(t, bus.handlers)
}

func TestInMemoryEventBus_AsyncDispatch(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop(), WithAsyncDispatch())
	require.NoError(t, bus.Start(context.Background()))

	handler := newTestHandler("OrderStateChanged")
	bus.Subscribe(handler)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, bus.Publish(ctx, newTestEvent("OrderStateChanged", 1)))
	cancel()

	stopCtx, stopCancel := context.WithTimeout(context.Background(), time.Second)
	defer stopCancel()
	require.NoError(t, bus.Stop(stopCtx))

	assert.Len(t, handler.getHandled(), 1)
	assert.ErrorIs(t, bus.Publish(context.Background(), newTestEvent("OrderStateChanged", 2)), ErrBusStopped)
}

func TestInMemoryEventBus_StartStop(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	require.NoError(t, bus.Start(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, bus.Stop(ctx))

	// sync mode keeps delivering after Stop
	handler := newTestHandler("OrderStateChanged")
	bus.Subscribe(handler)
	require.NoError(t, bus.Publish(context.Background(), newTestEvent("OrderStateChanged", 1)))
	assert.Len(t, handler.getHandled(), 1)
}
