// Package jobs, kuyrukta çalışan arka plan işlerini içerir.
package jobs

import (
	"context"
	"log"

	"github.com/biyonik/admission-api/pkg/mail"
	"github.com/biyonik/admission-api/pkg/queue"
)

// ApplicantMailName, Registry kayıt adı.
const ApplicantMailName = "applicant.mail"

// ApplicantMail, başvuru sahibine tek bir bildirim maili gönderir. Mesaj
// payload ile taşınır; Mailer ve logger Registry factory'sinden gelir, bu
// yüzden job'lar her zaman Registry.Create ile üretilmelidir.
type ApplicantMail struct {
	queue.BaseJob

	FormNo  int64         `json:"form_no"`
	Message *mail.Message `json:"message"`

	mailer mail.Mailer
	logger *log.Logger
}

func (j *ApplicantMail) Name() string { return ApplicantMailName }

func (j *ApplicantMail) Handle(ctx context.Context) error {
	return j.mailer.Send(ctx, j.Message)
}

func (j *ApplicantMail) Failed(err error) {
	j.logger.Printf("❌ Form #%d bildirimi gönderilemedi: %v", j.FormNo, err)
}

// Register, job'ı verilen bağımlılıklarla Registry'ye kaydeder.
func Register(registry *queue.Registry, mailer mail.Mailer, logger *log.Logger) {
	registry.Register(ApplicantMailName, func() queue.Job {
		return &ApplicantMail{mailer: mailer, logger: logger}
	})
}
