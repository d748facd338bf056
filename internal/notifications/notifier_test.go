package notifications

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"folio/internal/config"
	"folio/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"
)

type senderStub struct {
	sent []*gomail.Message
	err  error
}

func (s *senderStub) DialAndSend(m ...*gomail.Message) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, m...)
	return nil
}

func TestSMTPNotifier_Notify(t *testing.T) {
	t.Parallel()

	sender := &senderStub{}
	n := NewSMTPNotifierWithSender(sender, "site@example.com", "Folio")

	err := n.Notify(context.Background(), Message{
		To:      "owner@example.com",
		Subject: "Hello",
		Text:    "plain",
		HTML:    "<b>rich</b>",
		Kind:    KindContact,
	})
	require.NoError(t, err)
	require.Len(t, sender.sent, 1)

	msg := sender.sent[0]
	assert.Equal(t, []string{"owner@example.com"}, msg.GetHeader("To"))
	assert.Equal(t, []string{"Hello"}, msg.GetHeader("Subject"))
	require.Len(t, msg.GetHeader("From"), 1)
	assert.Contains(t, msg.GetHeader("From")[0], "site@example.com")
	assert.Contains(t, msg.GetHeader("From")[0], "Folio")

	var buf bytes.Buffer
	_, err = msg.WriteTo(&buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "text/html")
}

func TestSMTPNotifier_DeliveryError(t *testing.T) {
	t.Parallel()

	transportErr := errors.New("connection refused")
	n := NewSMTPNotifierWithSender(&senderStub{err: transportErr}, "site@example.com", "")

	err := n.Notify(context.Background(), Message{To: "owner@example.com", Subject: "x", Text: "y"})
	require.Error(t, err)

	var deliveryErr *DeliveryError
	require.True(t, errors.As(err, &deliveryErr))
	assert.Equal(t, "owner@example.com", deliveryErr.To)
	assert.ErrorIs(t, err, transportErr)
}

func TestSMTPNotifier_RequiresRecipient(t *testing.T) {
	t.Parallel()

	sender := &senderStub{}
	n := NewSMTPNotifierWithSender(sender, "site@example.com", "")

	err := n.Notify(context.Background(), Message{Subject: "x"})
	var deliveryErr *DeliveryError
	assert.True(t, errors.As(err, &deliveryErr))
	assert.Empty(t, sender.sent)
}

func TestNew_SelectsTransport(t *testing.T) {
	t.Parallel()

	_, isLog := New(&config.Config{}).(*LogNotifier)
	assert.True(t, isLog, "missing EMAIL_HOST should use the log notifier")

	_, isSMTP := New(&config.Config{EmailHost: "smtp.example.com", EmailPort: 587}).(*SMTPNotifier)
	assert.True(t, isSMTP)
}

func TestLogNotifier_NeverFails(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	n := NewLogNotifier(slog.New(slog.NewTextHandler(&buf, nil)))
	require.NoError(t, n.Notify(context.Background(), SubscriptionConfirmation("reader@example.com")))
	assert.Contains(t, buf.String(), "reader@example.com")
}

func TestContactAlert(t *testing.T) {
	t.Parallel()

	contact := &models.Contact{
		ID:       7,
		Name:     "Ada <script>",
		Email:    "ada@example.com",
		Subject:  "Work together",
		Message:  "Hi there",
		Status:   "new",
		Priority: "normal",
		IsActive: true,
	}

	msg, err := ContactAlert("owner@example.com", contact)
	require.NoError(t, err)
	assert.Equal(t, "New Contact Form Submission: Work together", msg.Subject)
	assert.Equal(t, KindContact, msg.Kind)
	assert.Contains(t, msg.Text, "Name: Ada <script>")
	assert.Contains(t, msg.Text, "Active: Yes")
	assert.Contains(t, msg.HTML, "Ada &lt;script&gt;")
	assert.False(t, strings.Contains(msg.HTML, "<script>"))
}

func TestCommentAlert(t *testing.T) {
	t.Parallel()

	msg, err := CommentAlert("owner@example.com",
		&models.Blog{Title: "Go generics"},
		&models.BlogComment{Author: "Grace", Content: "Nice post"},
	)
	require.NoError(t, err)
	assert.Equal(t, "New comment on: Go generics", msg.Subject)
	assert.Contains(t, msg.Text, "From: Grace")
	assert.Contains(t, msg.HTML, "Nice post")
}
