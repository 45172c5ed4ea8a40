package broker

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuriTheCoder/AuditCenter-API/internal/audit"
)

func newEvent(action string) audit.Event {
	return audit.Event{
		ID:         uuid.New(),
		SystemName: "billing",
		UserEmail:  "alice@x.com",
		Action:     action,
		Metadata:   "{}",
		Timestamp:  time.Now().UTC(),
	}
}

func TestSubscribeUnsubscribeRegistrySize(t *testing.T) {
	b := New(4)

	const n = 50
	const m = 20

	var wg sync.WaitGroup
	listeners := make([]*Listener, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			listeners[i] = b.Subscribe()
		}()
	}
	wg.Wait()
	require.Equal(t, n, b.Len())

	for i := 0; i < m; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			b.Unsubscribe(listeners[i])
		}()
	}
	wg.Wait()
	assert.Equal(t, n-m, b.Len())
}

func TestUnsubscribeIsIdempotent(t *testing.T) {
	b := New(4)
	l := b.Subscribe()

	b.Unsubscribe(l)
	b.Unsubscribe(l)
	b.Unsubscribe(nil)

	assert.Equal(t, 0, b.Len())
	select {
	case <-l.Done():
	default:
		t.Fatal("expected Done to be closed after unsubscribe")
	}
}

func TestPublishReachesEveryListener(t *testing.T) {
	b := New(4)

	const k = 5
	listeners := make([]*Listener, k)
	for i := range listeners {
		listeners[i] = b.Subscribe()
	}

	event := newEvent("USER_LOGIN")
	b.Publish(event)

	for i, l := range listeners {
		select {
		case got := <-l.Events():
			assert.Equal(t, event.ID, got.ID, "listener %d", i)
		default:
			t.Fatalf("listener %d received nothing", i)
		}
	}
}

func TestFailingListenerIsDroppedOthersUnaffected(t *testing.T) {
	b := New(1)

	healthy := make([]*Listener, 4)
	for i := range healthy {
		healthy[i] = b.Subscribe()
	}

	// Saturate one listener's buffer so the next send to it must fail.
	failing := b.Subscribe()
	b.Publish(newEvent("FILL_BUFFER"))
	for _, l := range healthy {
		<-l.Events()
	}
	require.Equal(t, 5, b.Len())

	event := newEvent("PAYMENT_APPROVED")
	b.Publish(event)

	assert.Equal(t, 4, b.Len(), "failing listener should be removed")
	select {
	case <-failing.Done():
	default:
		t.Fatal("expected failing listener to be done")
	}

	for i, l := range healthy {
		select {
		case got := <-l.Events():
			assert.Equal(t, event.ID, got.ID, "listener %d", i)
		default:
			t.Fatalf("listener %d missed the event", i)
		}
	}
}

func TestPerListenerOrdering(t *testing.T) {
	b := New(16)
	l := b.Subscribe()

	events := make([]audit.Event, 10)
	for i := range events {
		events[i] = newEvent("STEP")
		b.Publish(events[i])
	}

	for i := range events {
		got := <-l.Events()
		assert.Equal(t, events[i].ID, got.ID, "position %d", i)
	}
}

func TestCloseUnwindsAllListeners(t *testing.T) {
	b := New(4)
	l1 := b.Subscribe()
	l2 := b.Subscribe()

	b.Close()

	assert.Equal(t, 0, b.Len())
	for _, l := range []*Listener{l1, l2} {
		select {
		case <-l.Done():
		default:
			t.Fatal("expected listener to be done after Close")
		}
	}

	// Subscribing after close hands back an already-done listener.
	late := b.Subscribe()
	select {
	case <-late.Done():
	default:
		t.Fatal("expected post-close subscription to be done immediately")
	}
	assert.Equal(t, 0, b.Len())
}

func TestConcurrentPublishAndChurn(t *testing.T) {
	b := New(8)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				l := b.Subscribe()
				b.Publish(newEvent("CHURN"))
				b.Unsubscribe(l)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 0, b.Len())
}
