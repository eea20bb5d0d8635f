package domain

import "context"

// Mailer defines the contract for sending emails (infrastructure port).
type Mailer interface {
	Send(to, subject, html, text string) error
}

// EmailTemplateRenderer renders email content from a named template with the given data.
type EmailTemplateRenderer interface {
	Render(templateName string, data any) (subject, htmlBody, textBody string, err error)
}

// RequestDecisionEmailData holds data for the request accepted/rejected mails.
type RequestDecisionEmailData struct {
	Email       string
	Name        string
	EventName   string
	StakeAmount int64
}

// EventCancelledEmailData holds data for the cancellation notice sent to
// every confirmed participant.
type EventCancelledEmailData struct {
	Email       string
	Name        string
	EventName   string
	StakeAmount int64
}

// EmailService defines the contract for sending domain-level emails.
// Notifications are best-effort: a send failure never rolls back the
// operation that triggered it.
type EmailService interface {
	SendRequestAccepted(ctx context.Context, data *RequestDecisionEmailData) error
	SendRequestRejected(ctx context.Context, data *RequestDecisionEmailData) error
	SendEventCancelled(ctx context.Context, data *EventCancelledEmailData) error
}
