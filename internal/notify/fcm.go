package notify

import (
	"context"

	"firebase.google.com/go/messaging"
)

// FCMChannel pushes a mobile notification to a client device token.
type FCMChannel struct {
	client *messaging.Client
	logger Logger
}

func NewFCMChannel(client *messaging.Client, logger Logger) *FCMChannel {
	return &FCMChannel{client: client, logger: logger}
}

func (c *FCMChannel) Send(ctx context.Context, recipient, subject, message string) bool {
	if c.client == nil || recipient == "" {
		return false
	}
	msg := &messaging.Message{
		Token: recipient,
		Notification: &messaging.Notification{
			Title: subject,
			Body:  message,
		},
		Android: &messaging.AndroidConfig{
			Priority: "high",
		},
	}
	if _, err := c.client.Send(ctx, msg); err != nil {
		c.logger.Errorf("fcm push failed: %v", err)
		return false
	}
	return true
}
