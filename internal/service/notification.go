package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/ataredge/tutorhub/internal/model"
	"github.com/ataredge/tutorhub/internal/repository"
	"github.com/ataredge/tutorhub/internal/validation"
)

// NotificationService turns submissions into queued emails. Nothing here
// reports an error to the caller: a lost notification never fails a request.
type NotificationService struct {
	notificationRepository repository.NotificationRepository
	emailService           *EmailService
	founderEmail           string
	appName                string
	maxAttempts            int
}

func NewNotificationService(
	notificationRepository repository.NotificationRepository,
	emailService *EmailService,
	founderEmail string,
	appName string,
	maxAttempts int,
) *NotificationService {
	if maxAttempts <= 0 {
		maxAttempts = 5
	}
	return &NotificationService{
		notificationRepository: notificationRepository,
		emailService:           emailService,
		founderEmail:           founderEmail,
		appName:                appName,
		maxAttempts:            maxAttempts,
	}
}

// InquiryReceived notifies the founder (copying the tutor) and acknowledges the sender.
func (s *NotificationService) InquiryReceived(tutor *model.Account, in *model.Inquiry) {
	subject, text, html := inquiryInternalEmailTemplate(tutor.Name, in)
	internal := &model.EmailMessage{
		Type:    "inquiry_internal",
		To:      []string{s.founderEmail},
		Subject: subject,
		Text:    text,
		HTML:    html,
	}
	if tutorEmail := tutor.EmailAddress(); tutorEmail != "" && validation.ValidateEmail(tutorEmail) == nil {
		internal.Cc = []string{tutorEmail}
	}
	s.enqueue(internal)

	subject, text, html = inquiryConfirmationEmailTemplate(tutor.Name, in)
	s.acknowledge("inquiry_confirmation", in.Email, subject, text, html)
}

func (s *NotificationService) ContactReceived(c *model.Contact) {
	subject, text, html := contactInternalEmailTemplate(c)
	s.enqueue(&model.EmailMessage{
		Type:    "contact_internal",
		To:      []string{s.founderEmail},
		Subject: subject,
		Text:    text,
		HTML:    html,
	})

	subject, text, html = contactConfirmationEmailTemplate(c, s.appName)
	s.acknowledge("contact_confirmation", c.Email, subject, text, html)
}

func (s *NotificationService) ApplicationReceived(a *model.Application) {
	subject, text, html := applicationInternalEmailTemplate(a)
	s.enqueue(&model.EmailMessage{
		Type:    "application_internal",
		To:      []string{s.founderEmail},
		Subject: subject,
		Text:    text,
		HTML:    html,
	})

	subject, text, html = applicationConfirmationEmailTemplate(a, s.appName)
	s.acknowledge("application_confirmation", a.Email, subject, text, html)
}

// acknowledge queues a receipt unless the submitted address cannot receive one.
func (s *NotificationService) acknowledge(kind, to, subject, text, html string) {
	if validation.ValidateEmail(to) != nil {
		slog.Info("skipping acknowledgement, no usable address", "type", kind)
		return
	}
	s.enqueue(&model.EmailMessage{
		Type:    kind,
		To:      []string{to},
		Subject: subject,
		Text:    text,
		HTML:    html,
	})
}

func (s *NotificationService) enqueue(msg *model.EmailMessage) {
	payload, err := json.Marshal(msg)
	if err != nil {
		slog.Error("failed to encode email", "error", err, "type", msg.Type)
		return
	}

	job := &model.NotificationJob{
		Kind:        model.JobKindEmail,
		Payload:     string(payload),
		MaxAttempts: s.maxAttempts,
	}
	err = s.notificationRepository.Enqueue(job)
	if err != nil {
		slog.Error("failed to queue email", "error", err, "type", msg.Type)
		return
	}

	slog.Debug("email queued", "type", msg.Type, "job_id", job.ID)
}

// DeliverEmail is the worker handler for email jobs.
func (s *NotificationService) DeliverEmail(ctx context.Context, job *model.NotificationJob) error {
	var msg model.EmailMessage
	err := json.Unmarshal([]byte(job.Payload), &msg)
	if err != nil {
		return fmt.Errorf("failed to decode email job: %w", err)
	}
	return s.emailService.Send(ctx, &msg)
}
