package notify

import (
	"context"
	"fmt"
	"net/smtp"
)

// EmailChannel delivers plain-text mail over SMTP.
type EmailChannel struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	Logger   Logger

	// sendMail is swappable in tests.
	sendMail func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewEmailChannel(host string, port int, username, password, from string, logger Logger) *EmailChannel {
	return &EmailChannel{
		Host:     host,
		Port:     port,
		Username: username,
		Password: password,
		From:     from,
		Logger:   logger,
		sendMail: smtp.SendMail,
	}
}

// Send delivers one message to one recipient email address. Transport
// errors are logged and flattened to false.
func (c *EmailChannel) Send(ctx context.Context, recipient, subject, message string) bool {
	if recipient == "" {
		return false
	}
	if err := ctx.Err(); err != nil {
		return false
	}
	body := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n", c.From, recipient, subject, message)
	addr := fmt.Sprintf("%s:%d", c.Host, c.Port)
	var auth smtp.Auth
	if c.Username != "" {
		auth = smtp.PlainAuth("", c.Username, c.Password, c.Host)
	}
	if err := c.sendMail(addr, auth, c.From, []string{recipient}, []byte(body)); err != nil {
		c.Logger.Errorf("email to %s failed: %v", recipient, err)
		return false
	}
	return true
}
