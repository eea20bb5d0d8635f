package services

import (
	"context"
	"fmt"
	"log"

	"showup/internal/domain"
)

type emailService struct {
	mailer   domain.Mailer
	renderer domain.EmailTemplateRenderer
}

// NewEmailService returns an EmailService that uses the given Mailer and template renderer.
func NewEmailService(mailer domain.Mailer, renderer domain.EmailTemplateRenderer) domain.EmailService {
	return &emailService{mailer: mailer, renderer: renderer}
}

// SendRequestAccepted notifies a requester that their stake was confirmed.
func (s *emailService) SendRequestAccepted(ctx context.Context, data *domain.RequestDecisionEmailData) error {
	if data == nil {
		return fmt.Errorf("request accepted data is nil")
	}
	subject, htmlBody, textBody, err := s.renderer.Render("request_accepted", data)
	if err != nil {
		return fmt.Errorf("failed to render request_accepted template: %w", err)
	}
	if err := s.mailer.Send(data.Email, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("failed to send request accepted email: %w", err)
	}
	log.Printf("[EMAIL] Request accepted mail sent to %s", data.Email)
	return nil
}

// SendRequestRejected notifies a requester that their stake was returned.
func (s *emailService) SendRequestRejected(ctx context.Context, data *domain.RequestDecisionEmailData) error {
	if data == nil {
		return fmt.Errorf("request rejected data is nil")
	}
	subject, htmlBody, textBody, err := s.renderer.Render("request_rejected", data)
	if err != nil {
		return fmt.Errorf("failed to render request_rejected template: %w", err)
	}
	if err := s.mailer.Send(data.Email, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("failed to send request rejected email: %w", err)
	}
	log.Printf("[EMAIL] Request rejected mail sent to %s", data.Email)
	return nil
}

// SendEventCancelled tells a confirmed participant their stake is refundable.
func (s *emailService) SendEventCancelled(ctx context.Context, data *domain.EventCancelledEmailData) error {
	if data == nil {
		return fmt.Errorf("event cancelled data is nil")
	}
	subject, htmlBody, textBody, err := s.renderer.Render("event_cancelled", data)
	if err != nil {
		return fmt.Errorf("failed to render event_cancelled template: %w", err)
	}
	if err := s.mailer.Send(data.Email, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("failed to send event cancelled email: %w", err)
	}
	log.Printf("[EMAIL] Cancellation mail sent to %s", data.Email)
	return nil
}
