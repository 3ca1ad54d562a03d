package services

import (
	"context"
	"testing"
	"time"

	"frenchdriver/internal/models"
)

// fakeChannel records recipients and answers with a fixed result.
type fakeChannel struct {
	ok         bool
	recipients []string
}

func (c *fakeChannel) Send(ctx context.Context, recipient, subject, message string) bool {
	c.recipients = append(c.recipients, recipient)
	return c.ok
}

func testBookingForNotify() models.Booking {
	return models.Booking{
		ID:                 1,
		ConfirmationNumber: "BK-A1B2C3D4",
		PickupAddress:      "10 Rue de Rivoli",
		DestinationAddress: "CDG Terminal 2",
		ScheduledTime:      time.Date(2026, time.May, 3, 14, 0, 0, 0, time.UTC),
		EstimatedPrice:     48.30,
	}
}

func TestNotifyDriverUsesBothChannelsWhenEnabled(t *testing.T) {
	email := &fakeChannel{ok: true}
	telegram := &fakeChannel{ok: true}
	svc := &NotificationService{Email: email, Telegram: telegram, Logger: testLogger{}}

	driver := models.Driver{Name: "Karim", Email: "karim@example.fr", TelegramChatID: "555", NotificationsEnabled: true}
	if ok := svc.NotifyDriverNewBooking(context.Background(), driver, testBookingForNotify(), "Marie"); !ok {
		t.Fatal("expected success")
	}
	if len(email.recipients) != 1 || email.recipients[0] != "karim@example.fr" {
		t.Errorf("email recipients = %v", email.recipients)
	}
	if len(telegram.recipients) != 1 || telegram.recipients[0] != "555" {
		t.Errorf("telegram recipients = %v", telegram.recipients)
	}
}

func TestNotifyDriverSkipsChatWhenDisabled(t *testing.T) {
	cases := []models.Driver{
		{Name: "no chat id", Email: "a@example.fr", NotificationsEnabled: true},
		{Name: "opted out", Email: "b@example.fr", TelegramChatID: "777", NotificationsEnabled: false},
	}
	for _, driver := range cases {
		email := &fakeChannel{ok: true}
		telegram := &fakeChannel{ok: true}
		svc := &NotificationService{Email: email, Telegram: telegram, Logger: testLogger{}}

		svc.NotifyDriverNewBooking(context.Background(), driver, testBookingForNotify(), "Marie")
		if len(telegram.recipients) != 0 {
			t.Errorf("%s: telegram contacted %v", driver.Name, telegram.recipients)
		}
		if len(email.recipients) != 1 {
			t.Errorf("%s: email attempts = %d; want 1", driver.Name, len(email.recipients))
		}
	}
}

func TestNotifyDriverSucceedsOnAnyChannel(t *testing.T) {
	driver := models.Driver{Name: "Karim", Email: "karim@example.fr", TelegramChatID: "555", NotificationsEnabled: true}
	cases := []struct {
		name            string
		emailOK, chatOK bool
		want            bool
	}{
		{"both succeed", true, true, true},
		{"email only", true, false, true},
		{"telegram only", false, true, true},
		{"both fail", false, false, false},
	}
	for _, tc := range cases {
		svc := &NotificationService{
			Email:    &fakeChannel{ok: tc.emailOK},
			Telegram: &fakeChannel{ok: tc.chatOK},
			Logger:   testLogger{},
		}
		if got := svc.NotifyDriverNewBooking(context.Background(), driver, testBookingForNotify(), "Marie"); got != tc.want {
			t.Errorf("%s: got %v; want %v", tc.name, got, tc.want)
		}
	}
}

func TestBookingConfirmationGoesToClientEmail(t *testing.T) {
	email := &fakeChannel{ok: true}
	svc := &NotificationService{Email: email, Logger: testLogger{}}
	user := models.User{Name: "Marie", Email: "marie@example.fr"}

	if ok := svc.SendBookingConfirmation(context.Background(), user, testBookingForNotify()); !ok {
		t.Fatal("expected success")
	}
	if len(email.recipients) != 1 || email.recipients[0] != "marie@example.fr" {
		t.Errorf("recipients = %v", email.recipients)
	}
}
