package mailer

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

// Mailer sends transactional email over SMTP.
type Mailer struct {
	from   string
	dialer *gomail.Dialer
}

func New(host string, port int, from, password string) *Mailer {
	return &Mailer{
		from:   from,
		dialer: gomail.NewDialer(host, port, from, password),
	}
}

// SendWelcomeEmail greets a newly registered user. Callers treat failures
// as non-critical.
func (m *Mailer) SendWelcomeEmail(toEmail, username string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", toEmail)
	msg.SetHeader("Subject", "Welcome to YelpCamp!")
	msg.SetBody("text/plain", fmt.Sprintf("Hi %s,\n\nWelcome to YelpCamp! You can now create campgrounds and leave reviews.\n", username))
	return m.dialer.DialAndSend(msg)
}
