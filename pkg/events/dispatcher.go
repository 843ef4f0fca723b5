// -----------------------------------------------------------------------------
// Event Dispatcher
// -----------------------------------------------------------------------------
// Dispatcher, event'leri kayıtlı listener'lara senkron olarak iletir. Arka
// plan worker'ı yoktur; listener'lar isteği işleyen goroutine içinde, kayıt
// sırasıyla çalışır. Bir listener'ın hatası diğerlerinin çalışmasını
// engellemez, hatalar birleştirilerek döndürülür.
// -----------------------------------------------------------------------------

package events

import (
	"errors"
	"fmt"
	"sync"
)

type Dispatcher struct {
	mu        sync.RWMutex
	listeners map[string][]Listener
	logger    Logger
}

func NewDispatcher(logger Logger) *Dispatcher {
	return &Dispatcher{
		listeners: make(map[string][]Listener),
		logger:    logger,
	}
}

// Listen, bir event için listener kaydeder.
func (d *Dispatcher) Listen(eventName string, listener Listener) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.listeners[eventName] = append(d.listeners[eventName], listener)
	d.logger.Printf("✅ Listener registered for event: %s", eventName)
}

// Subscribe, aynı listener'ı birden fazla event'e kaydeder.
func (d *Dispatcher) Subscribe(eventNames []string, listener Listener) {
	for _, eventName := range eventNames {
		d.Listen(eventName, listener)
	}
}

// Dispatch, event'i tüm listener'lara iletir.
func (d *Dispatcher) Dispatch(event Event) error {
	d.mu.RLock()
	listeners := append([]Listener(nil), d.listeners[event.Name()]...)
	d.mu.RUnlock()

	if len(listeners) == 0 {
		return nil
	}

	var errs []error
	for _, listener := range listeners {
		if err := d.handle(listener, event); err != nil {
			d.logger.Printf("❌ Listener error for '%s': %v", event.Name(), err)
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// handle, listener panic'ini hataya çevirir; bir listener isteği düşürmez.
func (d *Dispatcher) handle(listener Listener, event Event) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("listener panic: %v", rec)
		}
	}()
	return listener.Handle(event)
}

// Forget, bir event'in tüm listener'larını kaldırır.
func (d *Dispatcher) Forget(eventName string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	delete(d.listeners, eventName)
}

func (d *Dispatcher) HasListeners(eventName string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return len(d.listeners[eventName]) > 0
}

// Stats, event başına listener sayısını döndürür.
func (d *Dispatcher) Stats() map[string]int {
	d.mu.RLock()
	defer d.mu.RUnlock()

	stats := make(map[string]int, len(d.listeners))
	for event, listeners := range d.listeners {
		stats[event] = len(listeners)
	}
	return stats
}
