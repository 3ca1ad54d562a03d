package services

import (
	"context"
	"fmt"

	"frenchdriver/internal/models"
	"frenchdriver/internal/notify"
)

// NotificationService renders domain messages and hands them to the
// configured channels. Channels return plain booleans; nothing here ever
// fails the calling operation.
type NotificationService struct {
	Email    notify.Channel
	Telegram notify.Channel
	Push     notify.Channel
	Logger   Logger
}

// SendBookingConfirmation mails the client after a booking is created.
func (s *NotificationService) SendBookingConfirmation(ctx context.Context, user models.User, booking models.Booking) bool {
	subject := fmt.Sprintf("Confirmation de votre réservation VTC #%s", booking.ConfirmationNumber)
	message := fmt.Sprintf(
		"Bonjour %s,\n\nVotre réservation VTC a été confirmée avec succès.\n\n"+
			"Détails de votre réservation :\n"+
			"- Numéro de confirmation : %s\n"+
			"- Départ : %s\n"+
			"- Destination : %s\n"+
			"- Heure prévue : %s\n"+
			"- Prix estimé : %.2f€\n\n"+
			"Nous vous tiendrons informé de l'évolution de votre réservation.\n\n"+
			"Cordialement,\nL'équipe French Driver",
		user.Name, booking.ConfirmationNumber, booking.PickupAddress, booking.DestinationAddress,
		booking.ScheduledTime.Format("02/01/2006 à 15:04"), booking.EstimatedPrice)
	return s.Email.Send(ctx, user.Email, subject, message)
}

// SendDriverAssignment tells the client which driver will pick them up.
func (s *NotificationService) SendDriverAssignment(ctx context.Context, user models.User, driver models.Driver, booking models.Booking) bool {
	subject := fmt.Sprintf("Chauffeur assigné - Réservation #%s", booking.ConfirmationNumber)
	message := fmt.Sprintf(
		"Bonjour %s,\n\nUn chauffeur a été assigné à votre réservation.\n\n"+
			"Détails du chauffeur :\n"+
			"- Nom : %s\n"+
			"- Téléphone : %s\n"+
			"- Véhicule : %s\n\n"+
			"Détails de votre course :\n"+
			"- Départ : %s\n"+
			"- Destination : %s\n"+
			"- Heure prévue : %s\n\n"+
			"Votre chauffeur vous contactera directement si nécessaire.\n\n"+
			"Cordialement,\nL'équipe French Driver",
		user.Name, driver.Name, driver.Phone, driver.VehicleSummary(),
		booking.PickupAddress, booking.DestinationAddress,
		booking.ScheduledTime.Format("02/01/2006 à 15:04"))
	ok := s.Email.Send(ctx, user.Email, subject, message)
	if s.Push != nil {
		s.Push.Send(ctx, user.Phone, subject, fmt.Sprintf("%s arrive avec %s", driver.Name, driver.VehicleSummary()))
	}
	return ok
}

// NotifyDriverNewBooking offers a booking to one driver. The e-mail
// channel is always attempted; the chat channel only when the driver can
// receive it. The channels are independent: success means at least one
// delivery went through.
func (s *NotificationService) NotifyDriverNewBooking(ctx context.Context, driver models.Driver, booking models.Booking, clientName string) bool {
	subject := fmt.Sprintf("Nouvelle course disponible - %s", booking.PickupAddress)
	message := fmt.Sprintf(
		"Bonjour %s,\n\nUne nouvelle course est disponible :\n\n"+
			"Détails :\n"+
			"- Départ : %s\n"+
			"- Destination : %s\n"+
			"- Heure prévue : %s\n"+
			"- Prix estimé : %.2f€\n"+
			"- Client : %s\n\n"+
			"Pour accepter cette course, veuillez contacter la centrale ou répondre via Telegram.\n\n"+
			"Cordialement,\nL'équipe French Driver",
		driver.Name, booking.PickupAddress, booking.DestinationAddress,
		booking.ScheduledTime.Format("02/01/2006 à 15:04"), booking.EstimatedPrice, clientName)
	emailOK := s.Email.Send(ctx, driver.Email, subject, message)

	chatOK := false
	if driver.CanReceiveNotifications() && s.Telegram != nil {
		chatText := fmt.Sprintf(
			"🚖 NOUVELLE COURSE DISPONIBLE\n\n"+
				"📍 Départ : %s\n"+
				"🎯 Destination : %s\n"+
				"⏰ Heure : %s\n"+
				"💰 Prix : %.2f€\n\n"+
				"👤 Client : %s\n\n"+
				"🔔 Contactez la centrale pour accepter !",
			booking.PickupAddress, booking.DestinationAddress,
			booking.ScheduledTime.Format("02/01/2006 à 15:04"), booking.EstimatedPrice, clientName)
		chatOK = s.Telegram.Send(ctx, driver.TelegramChatID, "", chatText)
	}
	return emailOK || chatOK
}

// SendInvoice mails the invoice to the client.
func (s *NotificationService) SendInvoice(ctx context.Context, user models.User, booking models.Booking, invoice models.Invoice) bool {
	subject := fmt.Sprintf("Votre facture %s", invoice.InvoiceNumber)
	message := fmt.Sprintf(
		"Bonjour %s,\n\nVeuillez trouver votre facture pour la course %s.\n\n"+
			"- Numéro de facture : %s\n"+
			"- Montant : %.2f€\n"+
			"- TVA : %.2f€\n"+
			"- Total : %.2f€\n\n"+
			"Merci d'avoir choisi French Driver.\n\n"+
			"Cordialement,\nL'équipe French Driver",
		user.Name, booking.ConfirmationNumber, invoice.InvoiceNumber,
		invoice.Amount, invoice.TaxAmount, invoice.TotalAmount)
	ok := s.Email.Send(ctx, user.Email, subject, message)
	if s.Push != nil {
		s.Push.Send(ctx, user.Phone, "Course terminée", fmt.Sprintf("Votre facture %s (%.2f€) est disponible", invoice.InvoiceNumber, invoice.TotalAmount))
	}
	return ok
}
