// Package notifications delivers email notifications to the site owner and subscribers.
package notifications

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"strings"

	"folio/internal/config"
	"folio/internal/middleware"
	"folio/internal/observability"

	"go.opentelemetry.io/otel/attribute"
	"gopkg.in/gomail.v2"
)

// Message is a single outgoing email.
type Message struct {
	To      string
	Subject string
	Text    string
	HTML    string
	// Kind labels the message in metrics, e.g. "contact".
	Kind string
}

// Notifier sends messages. Failures are reported as *DeliveryError.
type Notifier interface {
	Notify(ctx context.Context, msg Message) error
}

// DeliveryError reports that a message could not be handed to the transport.
type DeliveryError struct {
	To  string
	Err error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("deliver notification to %s: %v", e.To, e.Err)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}

// New returns the SMTP notifier when EMAIL_HOST is configured and a logging
// notifier otherwise.
func New(cfg *config.Config) Notifier {
	if cfg == nil || strings.TrimSpace(cfg.EmailHost) == "" {
		return NewLogNotifier(middleware.Logger)
	}
	return NewSMTPNotifier(cfg)
}

// Sender is the subset of gomail.Dialer used by SMTPNotifier.
type Sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPNotifier delivers messages through an SMTP server.
type SMTPNotifier struct {
	sender   Sender
	from     string
	fromName string
}

// NewSMTPNotifier builds a notifier from the EMAIL_* settings.
func NewSMTPNotifier(cfg *config.Config) *SMTPNotifier {
	dialer := gomail.NewDialer(cfg.EmailHost, cfg.EmailPort, cfg.EmailUser, cfg.EmailPass)
	dialer.SSL = cfg.EmailSecure
	dialer.TLSConfig = &tls.Config{ServerName: cfg.EmailHost, MinVersion: tls.VersionTLS12}
	return NewSMTPNotifierWithSender(dialer, cfg.SenderAddress(), cfg.EmailFromName)
}

// NewSMTPNotifierWithSender builds a notifier around an existing sender.
func NewSMTPNotifierWithSender(sender Sender, from, fromName string) *SMTPNotifier {
	return &SMTPNotifier{sender: sender, from: from, fromName: fromName}
}

// Notify sends msg and records the outcome.
func (n *SMTPNotifier) Notify(ctx context.Context, msg Message) (err error) {
	ctx, span := observability.StartSpan(ctx, "notifications", "smtp_send",
		attribute.String("notification.kind", kindLabel(msg)),
	)
	defer func() { observability.EndSpan(span, err) }()

	if strings.TrimSpace(msg.To) == "" {
		return &DeliveryError{To: msg.To, Err: fmt.Errorf("no recipient")}
	}

	m := gomail.NewMessage()
	if n.fromName != "" {
		m.SetAddressHeader("From", n.from, n.fromName)
	} else {
		m.SetHeader("From", n.from)
	}
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.Text)
	if msg.HTML != "" {
		m.AddAlternative("text/html", msg.HTML)
	}

	if err := n.sender.DialAndSend(m); err != nil {
		observability.NotificationsTotal.WithLabelValues(kindLabel(msg), observability.ResultError).Inc()
		middleware.Logger.ErrorContext(ctx, "notification delivery failed",
			slog.String("kind", kindLabel(msg)),
			slog.String("error", err.Error()),
		)
		return &DeliveryError{To: msg.To, Err: err}
	}
	observability.NotificationsTotal.WithLabelValues(kindLabel(msg), observability.ResultSuccess).Inc()
	return nil
}

// LogNotifier writes messages to the log instead of sending them.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier returns a notifier for environments without SMTP.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Notify(ctx context.Context, msg Message) error {
	n.logger.InfoContext(ctx, "notification (smtp disabled)",
		slog.String("kind", kindLabel(msg)),
		slog.String("to", msg.To),
		slog.String("subject", msg.Subject),
	)
	observability.NotificationsTotal.WithLabelValues(kindLabel(msg), "logged").Inc()
	return nil
}

func kindLabel(msg Message) string {
	if msg.Kind == "" {
		return "generic"
	}
	return msg.Kind
}
