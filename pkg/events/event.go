// -----------------------------------------------------------------------------
// Event System - Core Interfaces
// -----------------------------------------------------------------------------
// Başvuru ve katalog tarafındaki önemli durum değişiklikleri event olarak
// yayınlanır. Listener'lar (cache eviction, audit log) event'i üreten
// servisten bağımsızdır.
// -----------------------------------------------------------------------------

package events

import (
	"time"
)

// Event, tüm event'lerin implement etmesi gereken interface.
type Event interface {
	// Name, event'in benzersiz adını döndürür. Örnek: "admission.submitted"
	Name() string
	OccurredAt() time.Time
	Payload() interface{}
}

// BaseEvent, isim + zaman + payload taşıyan genel event.
type BaseEvent struct {
	name       string
	occurredAt time.Time
	payload    interface{}
}

func NewBaseEvent(name string, payload interface{}) *BaseEvent {
	return &BaseEvent{
		name:       name,
		occurredAt: time.Now(),
		payload:    payload,
	}
}

func (e *BaseEvent) Name() string {
	return e.name
}

func (e *BaseEvent) OccurredAt() time.Time {
	return e.occurredAt
}

func (e *BaseEvent) Payload() interface{} {
	return e.payload
}

const (
	// Başvuru event'leri
	EventAdmissionSubmitted     = "admission.submitted"
	EventAdmissionStatusChanged = "admission.status_changed"

	// Referans veri herhangi bir şekilde değişti (program, grup, vardiya, ...)
	EventCatalogChanged = "catalog.changed"

	EventStaffLoggedIn = "staff.logged_in"
)

// Listener, event'leri işleyen arayüz.
type Listener interface {
	Handle(event Event) error
}

// ListenerFunc, sıradan bir fonksiyonu Listener'a çevirir.
//
//	dispatcher.Listen(events.EventCatalogChanged, events.ListenerFunc(func(e events.Event) error {
//	    return cache.Delete(catalogKey)
//	}))
type ListenerFunc func(Event) error

func (f ListenerFunc) Handle(event Event) error {
	return f(event)
}

// Logger, dispatcher'ın kullandığı logger arayüzü (*log.Logger uyar).
type Logger interface {
	Printf(format string, v ...interface{})
}

// ConditionalListener, yalnızca condition true döndüğünde çalışır. Bildirim
// listener'ları email adresi olmayan formları bu şekilde atlar.
type ConditionalListener struct {
	listener  Listener
	condition func(Event) bool
}

func NewConditionalListener(listener Listener, condition func(Event) bool) *ConditionalListener {
	return &ConditionalListener{
		listener:  listener,
		condition: condition,
	}
}

func (c *ConditionalListener) Handle(event Event) error {
	if c.condition(event) {
		return c.listener.Handle(event)
	}
	return nil
}
