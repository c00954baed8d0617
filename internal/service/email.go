package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/ataredge/tutorhub/internal/config"
	"github.com/ataredge/tutorhub/internal/model"
	"github.com/resend/resend-go/v2"
	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

const (
	sendgridHost     = "https://api.sendgrid.com"
	sendgridEndpoint = "/v3/mail/send"
)

var ErrEmailNotConfigured = errors.New("email service not configured")

// EmailService delivers transactional email through the configured provider.
type EmailService struct {
	provider    string
	fromEmail   string
	appName     string
	isDev       bool
	sendgridKey string
	resend      *resend.Client

	// sendgridAPI is swapped in tests.
	sendgridAPI func(rest.Request) (*rest.Response, error)
}

func NewEmailService(provider, apiKey, fromEmail, appName string, isDev bool) *EmailService {
	s := &EmailService{
		provider:    provider,
		fromEmail:   fromEmail,
		appName:     appName,
		isDev:       isDev,
		sendgridAPI: sendgrid.API,
	}

	switch provider {
	case config.EmailProviderSendGrid:
		s.sendgridKey = apiKey
	case config.EmailProviderResend:
		if apiKey != "" {
			s.resend = resend.NewClient(apiKey)
		}
	}

	return s
}

// Send delivers one message. In development without provider credentials
// the message is logged instead.
func (s *EmailService) Send(ctx context.Context, msg *model.EmailMessage) error {
	if len(msg.To) == 0 {
		return fmt.Errorf("email %q has no recipients", msg.Type)
	}

	if s.provider == config.EmailProviderLog || (s.isDev && !s.configured()) {
		slog.Info("email sent (log mode)", "type", msg.Type, "to", msg.To, "cc", msg.Cc, "subject", msg.Subject)
		return nil
	}

	var err error
	switch s.provider {
	case config.EmailProviderSendGrid:
		err = s.sendSendGrid(ctx, msg)
	case config.EmailProviderResend:
		err = s.sendResend(ctx, msg)
	default:
		err = fmt.Errorf("unknown email provider %q", s.provider)
	}
	if err != nil {
		return err
	}

	slog.Info("email sent", "type", msg.Type, "to", msg.To, "provider", s.provider)
	return nil
}

func (s *EmailService) configured() bool {
	switch s.provider {
	case config.EmailProviderSendGrid:
		return s.sendgridKey != ""
	case config.EmailProviderResend:
		return s.resend != nil
	}
	return false
}

func (s *EmailService) sendSendGrid(ctx context.Context, msg *model.EmailMessage) error {
	if s.sendgridKey == "" {
		return fmt.Errorf("%w (missing SENDGRID_API_KEY)", ErrEmailNotConfigured)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	p := sgmail.NewPersonalization()
	p.Subject = msg.Subject
	for _, to := range msg.To {
		p.AddTos(sgmail.NewEmail("", to))
	}
	for _, cc := range msg.Cc {
		p.AddCCs(sgmail.NewEmail("", cc))
	}

	m := sgmail.NewV3Mail()
	m.SetFrom(sgmail.NewEmail(s.appName, s.fromEmail))
	m.AddPersonalizations(p)
	m.AddContent(sgmail.NewContent("text/plain", msg.Text))
	if msg.HTML != "" {
		m.AddContent(sgmail.NewContent("text/html", msg.HTML))
	}

	req := sendgrid.GetRequest(s.sendgridKey, sendgridEndpoint, sendgridHost)
	req.Method = http.MethodPost
	req.Body = sgmail.GetRequestBody(m)

	res, err := s.sendgridAPI(req)
	if err != nil {
		return fmt.Errorf("sendgrid request failed: %w", err)
	}
	if res.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("sendgrid rejected message: status %d: %s", res.StatusCode, res.Body)
	}
	return nil
}

func (s *EmailService) sendResend(ctx context.Context, msg *model.EmailMessage) error {
	if s.resend == nil {
		return fmt.Errorf("%w (missing RESEND_API_KEY)", ErrEmailNotConfigured)
	}

	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", s.appName, s.fromEmail),
		To:      msg.To,
		Cc:      msg.Cc,
		Subject: msg.Subject,
		Text:    msg.Text,
		Html:    msg.HTML,
	}

	_, err := s.resend.Emails.SendWithContext(ctx, params)
	if err != nil {
		return fmt.Errorf("resend request failed: %w", err)
	}
	return nil
}
