package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/wneessen/go-mail"
)

// Mailer delivers composed messages.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPConfig holds the submission server settings.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	Timeout  time.Duration
}

// Validate checks the settings needed to submit mail.
func (c SMTPConfig) Validate() error {
	if c.Host == "" {
		return errors.New("smtp host is required")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid smtp port: %d", c.Port)
	}
	if c.Username == "" || c.Password == "" {
		return errors.New("smtp username and password are required")
	}
	return nil
}

// SMTPMailer submits messages over STARTTLS with PLAIN authentication.
// Each Send makes exactly one attempt.
type SMTPMailer struct {
	cfg    SMTPConfig
	logger *slog.Logger
}

// NewSMTPMailer validates cfg and returns a mailer. From defaults to Username.
func NewSMTPMailer(cfg SMTPConfig, logger *slog.Logger) (*SMTPMailer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.From == "" {
		cfg.From = cfg.Username
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SMTPMailer{cfg: cfg, logger: logger.With(slog.String("component", "smtp_mailer"))}, nil
}

// Sender returns the envelope sender address.
func (m *SMTPMailer) Sender() string {
	return m.cfg.From
}

// Send implements Mailer.
func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	if len(msg.To) == 0 {
		return ErrNoRecipients
	}
	from := msg.From
	if from == "" {
		from = m.cfg.From
	}

	out := mail.NewMsg()
	if err := out.From(from); err != nil {
		return fmt.Errorf("%w: sender %q: %v", ErrSendFailure, from, err)
	}
	if err := out.To(msg.To...); err != nil {
		return fmt.Errorf("%w: recipients: %v", ErrSendFailure, err)
	}
	out.Subject(msg.Subject)
	out.SetBodyString(mail.TypeTextHTML, msg.HTMLBody)

	client, err := mail.NewClient(m.cfg.Host,
		mail.WithPort(m.cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(m.cfg.Username),
		mail.WithPassword(m.cfg.Password),
		mail.WithTLSPolicy(mail.TLSMandatory),
		mail.WithTimeout(m.cfg.Timeout),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSendFailure, err)
	}

	start := time.Now()
	if err := client.DialAndSendWithContext(ctx, out); err != nil {
		m.logger.ErrorContext(ctx, "alert email failed",
			slog.String("host", m.cfg.Host),
			slog.Int("recipients", len(msg.To)),
			slog.String("error", err.Error()))
		return fmt.Errorf("%w: %v", ErrSendFailure, err)
	}

	m.logger.InfoContext(ctx, "alert email sent",
		slog.String("host", m.cfg.Host),
		slog.Int("recipients", len(msg.To)),
		slog.Duration("duration", time.Since(start)))
	return nil
}

// DisabledMailer stands in when the SMTP settings are incomplete. Every Send
// fails with ErrSendFailure carrying the configuration problem.
type DisabledMailer struct {
	Reason error
}

// Send implements Mailer.
func (m DisabledMailer) Send(_ context.Context, msg Message) error {
	if len(msg.To) == 0 {
		return ErrNoRecipients
	}
	return fmt.Errorf("%w: mailer disabled: %v", ErrSendFailure, m.Reason)
}
