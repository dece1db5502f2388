package mailer

import (
	"bytes"
	"testing"
	"time"

	"bookease-be/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, name string, data BookingEmail) string {
	t.Helper()

	svc := NewEmailService("localhost", 2525, "noreply@example.com", "", "BookEase", "usd", "https://app.example.com", logger.NewNopLogger()).(*emailService)
	var buf bytes.Buffer
	view := struct {
		BookingEmail
		FrontendURL string
	}{data, svc.frontendURL}
	require.NoError(t, svc.templates.ExecuteTemplate(&buf, name, view))
	return buf.String()
}

func sampleEmail() BookingEmail {
	start := time.Date(2026, 4, 2, 14, 0, 0, 0, time.UTC)
	return BookingEmail{
		BookingId:     "1a2b3c4d",
		CustomerName:  "Dana Reyes",
		CustomerEmail: "dana@example.com",
		ServiceName:   "Deep Tissue Massage",
		StartTime:     start,
		EndTime:       start.Add(time.Hour),
		Price:         12000,
	}
}

func TestTemplates_RenderEveryKind(t *testing.T) {
	for _, name := range []string{"confirmation", "admin_new_booking", "approved", "rescheduled", "cancelled", "admin_cancellation"} {
		t.Run(name, func(t *testing.T) {
			out := render(t, name, sampleEmail())
			assert.Contains(t, out, "Deep Tissue Massage")
			assert.Contains(t, out, "USD 120.00")
		})
	}
}

func TestTemplates_CancelledRefundWording(t *testing.T) {
	data := sampleEmail()
	data.CancelledBy = "admin"
	data.RefundAmount = 9600
	data.Refunded = true

	out := render(t, "cancelled", data)
	assert.Contains(t, out, "by our team")
	assert.Contains(t, out, "USD 96.00</strong> has been issued")

	data.Refunded = false
	out = render(t, "admin_cancellation", data)
	assert.Contains(t, out, "not issued, needs follow-up")
}

func TestTemplates_RescheduledShowsPreviousStart(t *testing.T) {
	data := sampleEmail()
	previous := data.StartTime.Add(-48 * time.Hour)
	data.PreviousStart = &previous

	out := render(t, "rescheduled", data)
	assert.Contains(t, out, "Previously")
	assert.Contains(t, out, "31 Mar 2026")
}
