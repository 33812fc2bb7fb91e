package report

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	gmail "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"github.com/njdifiore91/budget-buddy-v3-6th329-sub001/internal/apperror"
	"github.com/njdifiore91/budget-buddy-v3-6th329-sub001/internal/logging"
)

// GmailSender delivers report emails through the Gmail API.
type GmailSender struct {
	svc    *gmail.Service
	sender string
	logger logging.Logger
}

// NewGmailSender creates a sender authenticated with service account
// credentials delegated to the sender address.
func NewGmailSender(ctx context.Context, credentialsJSON []byte, sender string, logger logging.Logger) (*GmailSender, error) {
	if logger == nil {
		logger = logging.GetLogger()
	}
	if strings.TrimSpace(sender) == "" {
		return nil, apperror.NewValidationError("sender", sender, "required")
	}
	if len(credentialsJSON) == 0 {
		return nil, &apperror.AuthenticationError{
			Service: "gmail",
			Err:     fmt.Errorf("service account credentials not provided"),
		}
	}

	svc, err := gmail.NewService(ctx,
		option.WithCredentialsJSON(credentialsJSON),
		option.WithScopes(gmail.GmailSendScope))
	if err != nil {
		return nil, &apperror.AuthenticationError{Service: "gmail", Err: err}
	}

	return &GmailSender{svc: svc, sender: sender, logger: logger}, nil
}

// Send delivers a plain-text email to the recipients.
func (s *GmailSender) Send(ctx context.Context, recipients []string, subject, body string) error {
	if len(recipients) == 0 {
		return apperror.NewValidationError("recipients", "", "at least one recipient required")
	}

	raw := buildMessage(s.sender, recipients, subject, body)
	msg := &gmail.Message{Raw: base64.URLEncoding.EncodeToString([]byte(raw))}

	_, err := s.svc.Users.Messages.Send("me", msg).Context(ctx).Do()
	if err != nil {
		return &apperror.APIError{Service: "gmail", Operation: "messages_send", Err: err}
	}

	s.logger.Info("Sent report email",
		logging.Field{Key: logging.FieldCount, Value: len(recipients)})
	return nil
}

// buildMessage assembles an RFC 2822 plain-text message.
func buildMessage(sender string, recipients []string, subject, body string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", sender)
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(recipients, ", "))
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	return b.String()
}
