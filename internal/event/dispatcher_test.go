package event

import (
	"sync"
	"testing"

	"github.com/hanastore/checkout-api/pkg/logger"
)

type capturingHandler struct {
	mu     sync.Mutex
	events []Event
}

func (h *capturingHandler) Handle(e Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, e)
}

func (h *capturingHandler) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.events)
}

func TestAsyncDispatcher_DeliversToAllHandlers(t *testing.T) {
	first := &capturingHandler{}
	second := &capturingHandler{}
	d := NewAsyncDispatcher(logger.New("error"), first, second)

	for i := 0; i < 5; i++ {
		if err := d.Dispatch(OrderCreated{OrderNumber: "HS-20260101-0001"}); err != nil {
			t.Fatalf("Dispatch() unexpected error: %v", err)
		}
	}

	// Close waits for in-flight deliveries.
	d.Close()

	if first.count() != 5 {
		t.Errorf("first handler received %d events, want 5", first.count())
	}
	if second.count() != 5 {
		t.Errorf("second handler received %d events, want 5", second.count())
	}
}

func TestAsyncDispatcher_DispatchAfterCloseIsDropped(t *testing.T) {
	h := &capturingHandler{}
	d := NewAsyncDispatcher(logger.New("error"), h)
	d.Close()

	if err := d.Dispatch(OrderCreated{OrderNumber: "HS-20260101-0002"}); err != nil {
		t.Fatalf("Dispatch() after close unexpected error: %v", err)
	}
	if h.count() != 0 {
		t.Errorf("handler received %d events after close, want 0", h.count())
	}
}
