// Package mailer dispatches contact-form emails through AWS SES.
package mailer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
	"github.com/cassiecay/portfolio-ops/internal/config"
	"github.com/cassiecay/portfolio-ops/internal/contact"
	"github.com/cassiecay/portfolio-ops/internal/pkg/logger"
)

// sendTimeout bounds one SES call so a slow send surfaces as a 500
// instead of tying up the request worker.
const sendTimeout = 10 * time.Second

// API is the slice of the SES v2 client we use.
type API interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// Dispatcher sends each accepted submission to a fixed recipient with a
// fixed sender and subject line. The visitor-typed subject lands in the
// body, not the subject line, so a submission can never spoof the
// notification's envelope.
type Dispatcher struct {
	client   API
	sender   string
	receiver string
	subject  string
}

// NewDispatcher creates an SES dispatcher.
func NewDispatcher(client API, cfg config.ContactConfig) *Dispatcher {
	return &Dispatcher{
		client:   client,
		sender:   cfg.SenderEmail,
		receiver: cfg.ReceiverEmail,
		subject:  cfg.EmailSubject,
	}
}

// Send delivers one submission. Any SES error is returned for the caller
// to convert into a 500 response; it never panics.
func (d *Dispatcher) Send(ctx context.Context, sub contact.Submission) error {
	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(d.sender),
		Destination:      &types.Destination{ToAddresses: []string{d.receiver}},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(d.subject), Charset: aws.String("UTF-8")},
				Body: &types.Body{
					Text: &types.Content{Data: aws.String(BuildBody(sub)), Charset: aws.String("UTF-8")},
				},
			},
		},
	}

	ctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	out, err := d.client.SendEmail(ctx, input)
	if err != nil {
		return fmt.Errorf("sending contact email: %w", err)
	}

	messageID := ""
	if out.MessageId != nil {
		messageID = *out.MessageId
	}
	logger.Info("contact email sent", "to_email", d.receiver, "message_id", messageID)
	return nil
}

// BuildBody formats the plain-text notification body: sender name, sender
// email, the optional subject, a blank separator line, then the message.
func BuildBody(sub contact.Submission) string {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\n", sub.Name)
	fmt.Fprintf(&b, "Email: %s\n", sub.Email)
	if sub.Subject != "" {
		fmt.Fprintf(&b, "Subject: %s\n", sub.Subject)
	}
	b.WriteString("\n")
	b.WriteString(sub.Message)
	return b.String()
}
