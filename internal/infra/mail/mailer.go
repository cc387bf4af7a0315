package mail

import (
	"fmt"
	"log"
	"net/smtp"

	"delivery-app/config"
	"delivery-app/internal/domain/delivery"
)

// Options for one outbound message. SuccessMessage/ErrorMessage are what gets
// logged either way, so callers control the operational wording.
type Options struct {
	To             string
	Subject        string
	HTML           string
	SuccessMessage string
	ErrorMessage   string
}

// Send delivers one message over SMTP. The error is returned for callers that
// care, but failures are already logged here.
func Send(opts Options) error {
	from := config.SMTP_FROM
	auth := smtp.PlainAuth("", from, config.SMTP_PASSWORD, config.SMTP_HOST)

	message := []byte("Subject: " + opts.Subject + "\r\n" +
		"From: Everard Read <" + from + ">\r\n" +
		"To: " + opts.To + "\r\n" +
		"MIME-Version: 1.0\r\n" +
		"Content-Type: text/html; charset=UTF-8\r\n" +
		"\r\n" +
		opts.HTML + "\r\n")

	err := smtp.SendMail(config.SMTP_HOST+":"+config.SMTP_PORT, auth, from, []string{opts.To}, message)
	if err != nil {
		log.Printf("%s: %v", opts.ErrorMessage, err)
		return err
	}
	log.Println(opts.SuccessMessage)
	return nil
}

// Notifier implements the workflow's completion emails.
type Notifier struct{}

func NewNotifier() *Notifier {
	return &Notifier{}
}

func (n *Notifier) DeliveryConfirmation(session *delivery.Session, delivered []delivery.Artwork) error {
	html, err := DeliveryConfirmationHTML(session.ClientName, session.Address, delivered)
	if err != nil {
		return err
	}
	return Send(Options{
		To:             session.ClientEmail,
		Subject:        "Delivery Confirmation - " + session.ClientName,
		HTML:           html,
		SuccessMessage: fmt.Sprintf("Email sent to client %s", session.ClientEmail),
		ErrorMessage:   fmt.Sprintf("Failed to send email to client %s", session.ClientEmail),
	})
}

func (n *Notifier) DeliveryReport(session *delivery.Session, delivered, returned []delivery.Artwork) error {
	html, err := DeliveryReportHTML(session.ClientName, session.Address, delivered, returned)
	if err != nil {
		return err
	}
	return Send(Options{
		To:             config.ADMIN_EMAIL,
		Subject:        "Delivery Report: " + session.ClientName,
		HTML:           html,
		SuccessMessage: "Delivery report sent to admin",
		ErrorMessage:   "Failed to send delivery report to admin",
	})
}
