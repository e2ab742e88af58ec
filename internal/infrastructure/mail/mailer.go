package mail

import (
	"context"
	"crypto/tls"
	"fmt"

	gomail "github.com/go-mail/mail/v2"

	"egsa-loan-service/internal/config"
	"egsa-loan-service/internal/domain/application"
	"egsa-loan-service/internal/domain/notification"
)

// Mailer emails the guarantor when an application is decided. It
// implements notification.Notifier over SMTP with mandatory STARTTLS.
type Mailer struct {
	host          string
	port          int
	user          string
	pass          string
	from          string
	skipTLSVerify bool
}

func NewMailer(cfg *config.Config) *Mailer {
	return &Mailer{
		host:          cfg.SMTPHost,
		port:          cfg.SMTPPort,
		user:          cfg.SMTPUser,
		pass:          cfg.SMTPPass,
		from:          cfg.SMTPFrom,
		skipTLSVerify: cfg.SMTPSkipTLSVerify,
	}
}

func (m *Mailer) NotifyStatusChange(_ context.Context, n notification.StatusNotice) error {
	if m.host == "" || m.from == "" {
		return fmt.Errorf("smtp not configured (SMTP_HOST/SMTP_FROM)")
	}
	// Guarantor contact is a phone number in the intake form; the
	// email channel expects an SMS-to-email gateway address there.
	to := n.GuarantorPhone
	if to == "" {
		return fmt.Errorf("application %d has no guarantor contact", n.ApplicationID)
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subjectFor(n.Status, n.Reference))
	msg.SetBody("text/html", bodyFor(n))

	d := gomail.NewDialer(m.host, m.port, m.user, m.pass)
	d.StartTLSPolicy = gomail.MandatoryStartTLS
	d.TLSConfig = &tls.Config{
		ServerName:         m.host,
		InsecureSkipVerify: m.skipTLSVerify, // dev only
	}

	return d.DialAndSend(msg)
}

func subjectFor(st application.Status, ref string) string {
	return fmt.Sprintf("Loan application %s: %s", ref, st)
}

func bodyFor(n notification.StatusNotice) string {
	return fmt.Sprintf(
		"<p>Dear %s,</p>"+
			"<p>The loan application <b>%s</b> submitted by %s has been <b>%s</b>.</p>"+
			"<p>Comment: %s</p>",
		n.GuarantorName, n.Reference, n.ApplicantName, n.Status, n.Comment)
}
