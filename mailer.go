package accounts

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"
)

// SMTPConfig holds the dialer settings for the mail notifier.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string

	// TokenValidityMinutes only feeds the validity note in outgoing
	// mail; the enforced window lives in Config.
	TokenValidityMinutes int
}

func (c SMTPConfig) validityMinutes() int {
	if c.TokenValidityMinutes <= 0 {
		return DefaultTokenValidityMinutes
	}
	return c.TokenValidityMinutes
}

// SMTPNotifier delivers lifecycle mail over SMTP. It implements
// Notifier; wire it into the UserManager with WithNotifier.
type SMTPNotifier struct {
	cfg      SMTPConfig
	messages *Messages
	logger   Logger
	send     func(m *gomail.Message) error
}

// NewSMTPNotifier creates a notifier that dials the configured server
// on every send. gomail keeps no connection open between messages.
func NewSMTPNotifier(cfg SMTPConfig) *SMTPNotifier {
	n := &SMTPNotifier{
		cfg:      cfg,
		messages: &Messages{},
		logger:   defLogger{},
	}
	n.send = func(m *gomail.Message) error {
		d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
		return d.DialAndSend(m)
	}
	return n
}

// WithSender replaces the dial-and-send step; tests capture the
// message instead of talking to a server.
func (n *SMTPNotifier) WithSender(send func(m *gomail.Message) error) *SMTPNotifier {
	if send != nil {
		n.send = send
	}
	return n
}

// WithMessages overrides the catalog used for subjects and body copy.
func (n *SMTPNotifier) WithMessages(msgs *Messages) *SMTPNotifier {
	n.messages = normalizeMessages(msgs)
	return n
}

// WithLogger overrides the notifier's logger.
func (n *SMTPNotifier) WithLogger(logger Logger) *SMTPNotifier {
	if logger != nil {
		n.logger = logger
	}
	return n
}

// SendRegistrationEmail mails the account-activation link.
func (n *SMTPNotifier) SendRegistrationEmail(ctx context.Context, user *User, url string) error {
	subject := n.messages.Get(MsgRegistrationSubject)
	body := fmt.Sprintf(
		"<p>%s</p><p><a href=%q>%s</a></p>",
		n.messages.Get(MsgAppName),
		url,
		url,
	)
	return n.deliver(ctx, user.Email, subject, body)
}

// SendPasswordResetEmail mails the reset link together with the
// validity note so the recipient knows the window is short.
func (n *SMTPNotifier) SendPasswordResetEmail(ctx context.Context, user *User, url string) error {
	subject := n.messages.Get(MsgPasswordResetSubject)
	body := fmt.Sprintf(
		"<p>%s</p><p><a href=%q>%s</a></p><p>%s %d min</p>",
		n.messages.Get(MsgAppName),
		url,
		url,
		n.messages.Get(MsgTokenValidityNote),
		n.cfg.validityMinutes(),
	)
	return n.deliver(ctx, user.Email, subject, body)
}

// SendTokenResendEmail mails a replacement verification link. The old
// token value is logged only, never included in the message.
func (n *SMTPNotifier) SendTokenResendEmail(ctx context.Context, user *User, url string, oldToken string) error {
	n.logger.Debug("resending verification mail to %s, replacing token %s", user.Email, oldToken)
	subject := n.messages.Get(MsgTokenResendSubject)
	body := fmt.Sprintf(
		"<p>%s</p><p><a href=%q>%s</a></p>",
		n.messages.Get(MsgAppName),
		url,
		url,
	)
	return n.deliver(ctx, user.Email, subject, body)
}

func (n *SMTPNotifier) deliver(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", n.cfg.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	if err := n.send(m); err != nil {
		n.logger.Error("mail delivery to %s failed: %v", to, err)
		return err
	}

	return nil
}
