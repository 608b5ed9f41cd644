package notify

import (
	"context"

	"github.com/gofiber/template/django/v3"
	"github.com/goliatone/go-errors"
	"github.com/wneessen/go-mail"

	userrequests "github.com/factscub/user-requests-api"
)

// SMTPConfig carries the mailer connection settings
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPNotifier delivers rendered notifications over SMTP
type SMTPNotifier struct {
	cfg    SMTPConfig
	client *mail.Client
	engine *django.Engine
}

var _ userrequests.Notifier = (*SMTPNotifier)(nil)

// NewSMTPNotifier creates the SMTP notifier
func NewSMTPNotifier(cfg SMTPConfig) (*SMTPNotifier, error) {
	engine, err := NewTemplateEngine()
	if err != nil {
		return nil, err
	}

	opts := []mail.Option{
		mail.WithPort(cfg.Port),
	}

	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}

	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryOperation, "failed to create SMTP client")
	}

	return &SMTPNotifier{
		cfg:    cfg,
		client: client,
		engine: engine,
	}, nil
}

// Send renders the message and delivers it to the recipient
func (n *SMTPNotifier) Send(ctx context.Context, msg userrequests.Notification) error {
	body, err := render(n.engine, msg)
	if err != nil {
		return err
	}

	m := mail.NewMsg()
	if err := m.From(n.cfg.From); err != nil {
		return errors.Wrap(err, errors.CategoryOperation, "invalid sender address")
	}
	if err := m.To(msg.To); err != nil {
		return errors.Wrap(err, errors.CategoryOperation, "invalid recipient address")
	}

	m.Subject(msg.Subject)
	m.SetBodyString(mail.TypeTextHTML, body)

	if err := n.client.DialAndSendWithContext(ctx, m); err != nil {
		return errors.Wrap(err, errors.CategoryOperation, "failed to deliver notification")
	}

	return nil
}
