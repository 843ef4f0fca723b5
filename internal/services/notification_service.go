package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/biyonik/admission-api/internal/jobs"
	"github.com/biyonik/admission-api/internal/models"
	"github.com/biyonik/admission-api/pkg/mail"
	"github.com/biyonik/admission-api/pkg/queue"
)

// NotificationService, başvuru sahibine giden mailleri oluşturur ve
// kuyruğa bırakır. Email adresi olmayan formlar için hiçbir şey yapmaz.
type NotificationService struct {
	queue     queue.Queue
	registry  *queue.Registry
	queueName string
	statusURL string // durum sorgulama sayfası; boşsa mailde link olmaz
	logger    *log.Logger
}

func NewNotificationService(q queue.Queue, registry *queue.Registry, queueName, statusURL string, logger *log.Logger) *NotificationService {
	return &NotificationService{
		queue:     q,
		registry:  registry,
		queueName: queueName,
		statusURL: statusURL,
		logger:    logger,
	}
}

// SubmissionReceived, başvuru alındı mailini kuyruğa ekler.
func (s *NotificationService) SubmissionReceived(ctx context.Context, form *models.AdmissionForm) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Dear %s,\n\n", form.FullName)
	fmt.Fprintf(&b, "We have received your application. Your form number is %d.\n", form.ID)
	if form.ProgramName != "" {
		fmt.Fprintf(&b, "Program: %s (%s shift)\n", form.ProgramName, form.Shift)
	}
	fmt.Fprintf(&b, "Current status: %s\n", form.Status)
	s.writeFooter(&b, form)

	return s.enqueue(ctx, form, fmt.Sprintf("Application #%d received", form.ID), b.String())
}

// StatusChanged, inceleme sonucunu bildirir.
func (s *NotificationService) StatusChanged(ctx context.Context, form *models.AdmissionForm, from models.FormStatus) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Dear %s,\n\n", form.FullName)
	fmt.Fprintf(&b, "The status of your application #%d has changed from %s to %s.\n", form.ID, from, form.Status)
	s.writeFooter(&b, form)

	return s.enqueue(ctx, form, fmt.Sprintf("Application #%d is now %s", form.ID, form.Status), b.String())
}

func (s *NotificationService) writeFooter(b *strings.Builder, form *models.AdmissionForm) {
	if s.statusURL != "" {
		fmt.Fprintf(b, "\nYou can check your status at %s?form_no=%d using your CNIC.\n", s.statusURL, form.ID)
	}
	b.WriteString("\nAdmissions Office\n")
}

func (s *NotificationService) enqueue(ctx context.Context, form *models.AdmissionForm, subject, body string) error {
	if form.Email == "" {
		return nil
	}

	job, err := s.registry.Create(jobs.ApplicantMailName)
	if err != nil {
		return err
	}
	m := job.(*jobs.ApplicantMail)
	m.FormNo = form.ID
	m.Message = mail.NewMessage().
		To(form.Email, form.FullName).
		Subject(subject).
		Text(body).
		Header("X-Form-No", fmt.Sprint(form.ID))

	if err := s.queue.Push(ctx, m, s.queueName); err != nil {
		return fmt.Errorf("form #%d bildirimi kuyruğa eklenemedi: %w", form.ID, err)
	}
	return nil
}
