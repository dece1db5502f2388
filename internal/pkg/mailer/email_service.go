package mailer

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"

	"bookease-be/internal/pkg/logger"

	"gopkg.in/gomail.v2"
)

// BookingEmail carries everything the booking templates render.
type BookingEmail struct {
	BookingId     string
	CustomerName  string
	CustomerEmail string
	ServiceName   string
	StartTime     time.Time
	EndTime       time.Time
	PreviousStart *time.Time
	Price         int64
	RefundAmount  int64
	Refunded      bool
	CancelledBy   string
	Reason        string
	Notes         string
}

type IEmailService interface {
	SendBookingConfirmation(to string, data BookingEmail) error
	SendAdminNewBooking(to string, data BookingEmail) error
	SendBookingApproved(to string, data BookingEmail) error
	SendBookingRescheduled(to string, data BookingEmail) error
	SendBookingCancelled(to string, data BookingEmail) error
	SendAdminCancellationNotice(to string, data BookingEmail) error
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
	senderName  string
	currency    string
	frontendURL string
	templates   *template.Template
	logger      logger.ILogger
}

func NewEmailService(host string, port int, username, password, senderName, currency, frontendURL string, logger logger.ILogger) IEmailService {
	funcs := template.FuncMap{
		"money": func(amount int64) string {
			return fmt.Sprintf("%s %.2f", strings.ToUpper(currency), float64(amount)/100)
		},
		"when": func(t time.Time) string {
			return t.Format("Mon, 02 Jan 2006 15:04 MST")
		},
	}

	return &emailService{
		dialer:      gomail.NewDialer(host, port, username, password),
		senderEmail: username,
		senderName:  senderName,
		currency:    currency,
		frontendURL: frontendURL,
		templates:   template.Must(template.New("booking").Funcs(funcs).Parse(bookingTemplates)),
		logger:      logger,
	}
}

func (s *emailService) SendBookingConfirmation(to string, data BookingEmail) error {
	return s.send(to, "Your booking is confirmed", "confirmation", data)
}

func (s *emailService) SendAdminNewBooking(to string, data BookingEmail) error {
	return s.send(to, "New booking: "+data.ServiceName, "admin_new_booking", data)
}

func (s *emailService) SendBookingApproved(to string, data BookingEmail) error {
	return s.send(to, "Your booking has been approved", "approved", data)
}

func (s *emailService) SendBookingRescheduled(to string, data BookingEmail) error {
	return s.send(to, "Your booking has been rescheduled", "rescheduled", data)
}

func (s *emailService) SendBookingCancelled(to string, data BookingEmail) error {
	return s.send(to, "Your booking has been cancelled", "cancelled", data)
}

func (s *emailService) SendAdminCancellationNotice(to string, data BookingEmail) error {
	return s.send(to, "Booking cancelled: "+data.ServiceName, "admin_cancellation", data)
}

func (s *emailService) send(to, subject, templateName string, data BookingEmail) error {
	var body bytes.Buffer
	view := struct {
		BookingEmail
		FrontendURL string
	}{data, s.frontendURL}

	if err := s.templates.ExecuteTemplate(&body, templateName, view); err != nil {
		return fmt.Errorf("render %s email: %w", templateName, err)
	}

	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.senderEmail, s.senderName)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body.String())

	if err := s.dialer.DialAndSend(m); err != nil {
		s.logger.Error("MAILER", "Failed to send email", map[string]interface{}{
			"template":  templateName,
			"to":        to,
			"bookingId": data.BookingId,
			"error":     err.Error(),
		})
		return err
	}

	s.logger.Info("MAILER", "Email sent", map[string]interface{}{
		"template":  templateName,
		"to":        to,
		"bookingId": data.BookingId,
	})
	return nil
}
