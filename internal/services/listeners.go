package services

import (
	"context"
	"log"

	"github.com/biyonik/admission-api/internal/models"
	"github.com/biyonik/admission-api/pkg/events"
)

// RegisterListeners, servislerin yayınladığı event'lere listener bağlar:
// katalog değişince cache silinir; başvuru ve durum değişiklikleri audit
// log'a yazılır. notifier nil değilse email adresi olan başvuru sahiplerine
// bildirim gider.
func RegisterListeners(d *events.Dispatcher, catalog *CatalogService, notifier *NotificationService, logger *log.Logger) {
	d.Listen(events.EventCatalogChanged, events.ListenerFunc(func(e events.Event) error {
		if change, ok := e.Payload().(CatalogChange); ok {
			logger.Printf("📝 Katalog değişti: %s #%d %s", change.Entity, change.ID, change.Action)
		}
		return catalog.Forget()
	}))

	d.Listen(events.EventAdmissionSubmitted, events.ListenerFunc(func(e events.Event) error {
		if form, ok := e.Payload().(*models.AdmissionForm); ok {
			logger.Printf("📝 [audit] form #%d gönderildi (program %d, vardiya %s, CNIC %s)",
				form.ID, form.ProgramID, form.Shift, MaskCNIC(form.CNIC))
		}
		return nil
	}))

	d.Listen(events.EventAdmissionStatusChanged, events.ListenerFunc(func(e events.Event) error {
		if change, ok := e.Payload().(StatusChange); ok {
			logger.Printf("📝 [audit] form #%d: %s → %s (personel %d)", change.FormID, change.From, change.To, change.ChangedBy)
		}
		return nil
	}))

	d.Listen(events.EventStaffLoggedIn, events.ListenerFunc(func(e events.Event) error {
		logger.Printf("📝 [audit] personel girişi: %v", e.Payload())
		return nil
	}))

	if notifier != nil {
		registerNotifications(d, notifier, logger)
	}
}

// registerNotifications, bildirim listener'larını bağlar. Kuyruk hataları
// yalnızca loglanır; başvuru veya durum değişikliği geri alınmaz.
func registerNotifications(d *events.Dispatcher, notifier *NotificationService, logger *log.Logger) {
	d.Listen(events.EventAdmissionSubmitted, events.NewConditionalListener(
		events.ListenerFunc(func(e events.Event) error {
			if err := notifier.SubmissionReceived(context.Background(), e.Payload().(*models.AdmissionForm)); err != nil {
				logger.Printf("⚠️  %v", err)
			}
			return nil
		}),
		func(e events.Event) bool {
			form, ok := e.Payload().(*models.AdmissionForm)
			return ok && form.Email != ""
		},
	))

	d.Listen(events.EventAdmissionStatusChanged, events.NewConditionalListener(
		events.ListenerFunc(func(e events.Event) error {
			change := e.Payload().(StatusChange)
			if err := notifier.StatusChanged(context.Background(), change.Form, change.From); err != nil {
				logger.Printf("⚠️  %v", err)
			}
			return nil
		}),
		func(e events.Event) bool {
			change, ok := e.Payload().(StatusChange)
			return ok && change.Form != nil && change.Form.Email != ""
		},
	))
}
