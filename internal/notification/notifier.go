package notification

import (
	"errors"
	"fmt"
	"log"

	"github.com/wneessen/go-mail"
)

// ErrEmailSend wraps any mail transport failure.
var ErrEmailSend = errors.New("failed to send email")

// MailClient is the transport the notifier dispatches messages through.
// *mail.Client satisfies it.
type MailClient interface {
	DialAndSend(messages ...*mail.Msg) error
}

// Notifier formats and sends account emails over SMTP.
type Notifier struct {
	client  MailClient
	sender  string
	replyTo string
}

// NewNotifier creates a notifier sending from the given address.
func NewNotifier(client MailClient, sender, replyTo string) *Notifier {
	return &Notifier{client: client, sender: sender, replyTo: replyTo}
}

// NewSMTPClient builds the production mail client.
func NewSMTPClient(host string, port int, username, password string) (*mail.Client, error) {
	opts := []mail.Option{
		mail.WithPort(port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(username),
			mail.WithPassword(password),
		)
	}
	return mail.NewClient(host, opts...)
}

// Send dispatches one plain-text email. Any transport failure comes back
// wrapped in ErrEmailSend; the caller decides whether that is terminal.
func (n *Notifier) Send(to, subject, body string) error {
	msg := mail.NewMsg()
	if err := msg.From(n.sender); err != nil {
		return fmt.Errorf("%w: %v", ErrEmailSend, err)
	}
	if err := msg.ReplyTo(n.replyTo); err != nil {
		return fmt.Errorf("%w: %v", ErrEmailSend, err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("%w: %v", ErrEmailSend, err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)

	if err := n.client.DialAndSend(msg); err != nil {
		log.Printf("[Notifier] Failed to send email to=%s subject=%q: %v", to, subject, err)
		return fmt.Errorf("%w: %v", ErrEmailSend, err)
	}

	log.Printf("[Notifier] Email sent to=%s subject=%q", to, subject)
	return nil
}
