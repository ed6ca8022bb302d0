package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/wneessen/go-mail"
)

type SMTPEmailTransportOptions struct {
	Host     string
	Port     int
	Username string
	Password string
	// Security is one of "none", "starttls" or "tls". Defaults to "starttls".
	Security string
	Timeout  time.Duration
}

// SMTPEmailTransport sends alert emails through an SMTP relay.
type SMTPEmailTransport struct {
	host    string
	options []mail.Option
}

func NewSMTPEmailTransport(options SMTPEmailTransportOptions) *SMTPEmailTransport {
	if options.Timeout <= 0 {
		options.Timeout = 10 * time.Second
	}

	mailOptions := []mail.Option{
		mail.WithTimeout(options.Timeout),
	}
	if options.Port > 0 {
		mailOptions = append(mailOptions, mail.WithPort(options.Port))
	}

	switch options.Security {
	case "none":
		mailOptions = append(mailOptions, mail.WithTLSPolicy(mail.NoTLS))
	case "tls":
		mailOptions = append(mailOptions, mail.WithSSL())
	default:
		mailOptions = append(mailOptions, mail.WithTLSPolicy(mail.TLSMandatory))
	}

	if options.Username != "" {
		mailOptions = append(mailOptions,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(options.Username),
			mail.WithPassword(options.Password),
		)
	}

	return &SMTPEmailTransport{
		host:    options.Host,
		options: mailOptions,
	}
}

func (t *SMTPEmailTransport) Send(ctx context.Context, message EmailMessage) error {
	if t.host == "" || message.From == "" {
		return fmt.Errorf("%w: smtp host and from address are required", ErrTransportNotConfigured)
	}

	msg := mail.NewMsg()
	if err := msg.From(message.From); err != nil {
		return fmt.Errorf("setting from address: %w", err)
	}
	if err := msg.To(message.To...); err != nil {
		return fmt.Errorf("setting recipients: %w", err)
	}
	msg.Subject(message.Subject)
	msg.SetDate()
	msg.SetMessageID()
	msg.SetBodyString(mail.TypeTextPlain, message.Body)

	client, err := mail.NewClient(t.host, t.options...)
	if err != nil {
		return fmt.Errorf("creating smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("sending email: %w", err)
	}

	slog.DebugContext(ctx, "sent alert email", slog.String("subject", message.Subject), slog.Int("recipients", len(message.To)))
	return nil
}
