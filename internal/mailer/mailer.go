package mailer

import (
	"context"
	"fmt"
	"strings"

	"gopkg.in/gomail.v2"

	"github.com/Abdurahmanit/GroupProject/virtucasa-service/internal/browsing/domain"
	"github.com/Abdurahmanit/GroupProject/virtucasa-service/internal/platform/logger"
)

// Sender delivers composed messages. *gomail.Dialer satisfies it.
type Sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPMailer e-mails the agent inbox when a visitor opens a conversation.
type SMTPMailer struct {
	sender Sender
	from   string
	inbox  string
	logger *logger.Logger
}

func NewSMTPMailer(host string, port int, username, password, from, inbox string, log *logger.Logger) *SMTPMailer {
	return NewWithSender(gomail.NewDialer(host, port, username, password), from, inbox, log)
}

func NewWithSender(sender Sender, from, inbox string, log *logger.Logger) *SMTPMailer {
	return &SMTPMailer{sender: sender, from: from, inbox: inbox, logger: log}
}

func (m *SMTPMailer) NotifyInquiry(ctx context.Context, identity domain.Identity, property domain.Property, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", m.inbox)
	if identity.Email != "" {
		msg.SetAddressHeader("Reply-To", identity.Email, identity.Name)
	}
	msg.SetHeader("Subject", inquirySubject(property))
	msg.SetBody("text/plain", inquiryBody(identity, property, text))

	if err := m.sender.DialAndSend(msg); err != nil {
		m.logger.Error("SMTPMailer.NotifyInquiry: send failed", "property_id", property.ID, "to", m.inbox, "error", err)
		return fmt.Errorf("send inquiry e-mail: %w", err)
	}
	m.logger.Info("SMTPMailer.NotifyInquiry: inquiry sent", "property_id", property.ID, "user_id", identity.ID)
	return nil
}

func inquirySubject(p domain.Property) string {
	return fmt.Sprintf("New inquiry: %s (#%s)", p.Title, p.ID)
}

func inquiryBody(identity domain.Identity, p domain.Property, text string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s <%s> started a conversation about %q.\n", identity.Name, identity.Email, p.Title)
	fmt.Fprintf(&b, "Address: %s, %s %s\n\n", p.Address.Street, p.Address.City, p.Address.Zip)
	b.WriteString(text)
	b.WriteString("\n")
	return b.String()
}
