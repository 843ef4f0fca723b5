// -----------------------------------------------------------------------------
// Event Dispatcher Tests
// -----------------------------------------------------------------------------
// Testler:
// - Senkron dispatch ve kayıt sırası
// - Listener hatalarının birleştirilmesi
// - Panic izolasyonu
// - Concurrent dispatch (race detector ile)
// -----------------------------------------------------------------------------

package events

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
)

// MockLogger, test için basit logger.
type MockLogger struct {
	mu   sync.Mutex
	logs []string
}

func (m *MockLogger) Printf(format string, v ...interface{}) {
	m.mu.Lock()
	m.logs = append(m.logs, fmt.Sprintf(format, v...))
	m.mu.Unlock()
}

func (m *MockLogger) Println(v ...interface{}) {
	m.mu.Lock()
	m.logs = append(m.logs, fmt.Sprint(v...))
	m.mu.Unlock()
}

// TestListener, çağrı sayısını tutan listener.
type TestListener struct {
	handled atomic.Int32
	err     error
}

func (l *TestListener) Handle(event Event) error {
	l.handled.Add(1)
	return l.err
}

func (l *TestListener) HandledCount() int {
	return int(l.handled.Load())
}

func TestDispatcher_BasicDispatch(t *testing.T) {
	d := NewDispatcher(&MockLogger{})
	listener := &TestListener{}
	d.Listen(EventAdmissionSubmitted, listener)

	if err := d.Dispatch(NewBaseEvent(EventAdmissionSubmitted, 42)); err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if listener.HandledCount() != 1 {
		t.Errorf("handled = %d, want 1", listener.HandledCount())
	}

	// Başka event listener'ı tetiklememeli
	_ = d.Dispatch(NewBaseEvent(EventCatalogChanged, nil))
	if listener.HandledCount() != 1 {
		t.Errorf("handled = %d after unrelated event", listener.HandledCount())
	}
}

func TestDispatcher_ListenersRunInRegistrationOrder(t *testing.T) {
	d := NewDispatcher(&MockLogger{})
	var order []string

	for _, name := range []string{"evict", "audit", "notify"} {
		name := name
		d.Listen(EventCatalogChanged, ListenerFunc(func(Event) error {
			order = append(order, name)
			return nil
		}))
	}

	_ = d.Dispatch(NewBaseEvent(EventCatalogChanged, nil))

	if fmt.Sprint(order) != "[evict audit notify]" {
		t.Errorf("order = %v", order)
	}
}

func TestDispatcher_ListenerErrorsAreJoined(t *testing.T) {
	d := NewDispatcher(&MockLogger{})
	errA := errors.New("cache unavailable")
	errB := errors.New("audit table locked")

	d.Listen(EventCatalogChanged, &TestListener{err: errA})
	ok := &TestListener{}
	d.Listen(EventCatalogChanged, ok)
	d.Listen(EventCatalogChanged, &TestListener{err: errB})

	err := d.Dispatch(NewBaseEvent(EventCatalogChanged, nil))
	if !errors.Is(err, errA) || !errors.Is(err, errB) {
		t.Errorf("err = %v, want both listener errors", err)
	}
	if ok.HandledCount() != 1 {
		t.Error("a failing listener must not stop the others")
	}
}

func TestDispatcher_PanicIsolated(t *testing.T) {
	d := NewDispatcher(&MockLogger{})
	d.Listen(EventAdmissionStatusChanged, ListenerFunc(func(Event) error {
		panic("boom")
	}))
	after := &TestListener{}
	d.Listen(EventAdmissionStatusChanged, after)

	err := d.Dispatch(NewBaseEvent(EventAdmissionStatusChanged, nil))
	if err == nil {
		t.Fatal("expected panic to surface as error")
	}
	if after.HandledCount() != 1 {
		t.Error("listener after the panicking one must still run")
	}
}

func TestDispatcher_ConditionalListener(t *testing.T) {
	d := NewDispatcher(&MockLogger{})
	inner := &TestListener{}
	d.Listen(EventAdmissionStatusChanged, NewConditionalListener(inner, func(e Event) bool {
		return e.Payload() == "approved"
	}))

	_ = d.Dispatch(NewBaseEvent(EventAdmissionStatusChanged, "rejected"))
	_ = d.Dispatch(NewBaseEvent(EventAdmissionStatusChanged, "approved"))

	if inner.HandledCount() != 1 {
		t.Errorf("handled = %d, want 1", inner.HandledCount())
	}
}

func TestDispatcher_ForgetAndStats(t *testing.T) {
	d := NewDispatcher(&MockLogger{})
	l := &TestListener{}
	d.Subscribe([]string{EventAdmissionSubmitted, EventAdmissionStatusChanged}, l)

	if got := d.Stats(); got[EventAdmissionSubmitted] != 1 || got[EventAdmissionStatusChanged] != 1 {
		t.Errorf("Stats() = %v", got)
	}

	d.Forget(EventAdmissionSubmitted)
	if d.HasListeners(EventAdmissionSubmitted) {
		t.Error("listeners should be forgotten")
	}
}

func TestDispatcher_ConcurrentDispatch(t *testing.T) {
	d := NewDispatcher(&MockLogger{})
	l := &TestListener{}
	d.Listen(EventAdmissionSubmitted, l)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = d.Dispatch(NewBaseEvent(EventAdmissionSubmitted, nil))
		}()
	}
	wg.Wait()

	if l.HandledCount() != 50 {
		t.Errorf("handled = %d, want 50", l.HandledCount())
	}
}

func BenchmarkDispatcher_SyncDispatch(b *testing.B) {
	d := NewDispatcher(&MockLogger{})
	d.Listen(EventAdmissionSubmitted, &TestListener{})
	event := NewBaseEvent(EventAdmissionSubmitted, nil)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = d.Dispatch(event)
	}
}
