package payment

import (
	"crypto/sha512"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v76/webhook"
)

const testServerKey = "SB-Mid-server-test"

func midtransPayload(t *testing.T, status, fraud, serverKey string) []byte {
	t.Helper()

	n := midtransNotification{
		TransactionId:     "tx-1",
		TransactionStatus: status,
		OrderId:           "order-1",
		FraudStatus:       fraud,
		StatusCode:        "200",
		GrossAmount:       "150000.00",
	}
	n.SignatureKey = fmt.Sprintf("%x", sha512.Sum512([]byte(n.OrderId+n.StatusCode+n.GrossAmount+serverKey)))

	body, err := json.Marshal(n)
	require.NoError(t, err)
	return body
}

func TestMidtransParseWebhook(t *testing.T) {
	g := NewMidtransGateway(testServerKey, false)

	tests := []struct {
		status string
		fraud  string
		want   Outcome
	}{
		{"settlement", "", OutcomePaid},
		{"capture", "accept", OutcomePaid},
		{"capture", "challenge", OutcomeIgnored},
		{"pending", "", OutcomeIgnored},
		{"expire", "", OutcomeFailed},
		{"deny", "", OutcomeFailed},
	}

	for _, tt := range tests {
		t.Run(tt.status+"/"+tt.fraud, func(t *testing.T) {
			event, err := g.ParseWebhook(midtransPayload(t, tt.status, tt.fraud, testServerKey), "")
			require.NoError(t, err)
			assert.Equal(t, tt.want, event.Outcome)
			assert.Equal(t, "order-1", event.SessionId)
			assert.Equal(t, "tx-1:"+tt.status, event.EventId)
		})
	}
}

func TestMidtransParseWebhook_RejectsForgedSignature(t *testing.T) {
	g := NewMidtransGateway(testServerKey, false)

	_, err := g.ParseWebhook(midtransPayload(t, "settlement", "", "someone-else"), "")
	assert.ErrorIs(t, err, ErrInvalidSignature)

	_, err = g.ParseWebhook([]byte("not json"), "")
	assert.ErrorIs(t, err, ErrMalformedPayload)
}

func stripeEvent(eventType, paymentStatus string) []byte {
	return []byte(fmt.Sprintf(`{
		"id": "evt_1",
		"object": "event",
		"type": %q,
		"data": {"object": {"id": "cs_test_1", "object": "checkout.session", "payment_status": %q}}
	}`, eventType, paymentStatus))
}

func TestStripeParseWebhook_VerifiesSignature(t *testing.T) {
	const secret = "whsec_test"
	g := NewStripeGateway("sk_test", secret, "usd", true)
	payload := stripeEvent("checkout.session.completed", "paid")

	signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   payload,
		Secret:    secret,
		Timestamp: time.Now(),
	})

	event, err := g.ParseWebhook(signed.Payload, signed.Header)
	require.NoError(t, err)
	assert.Equal(t, OutcomePaid, event.Outcome)
	assert.Equal(t, "cs_test_1", event.SessionId)
	assert.Equal(t, "evt_1", event.EventId)

	_, err = g.ParseWebhook(payload, "t=1,v1=deadbeef")
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestStripeParseWebhook_Outcomes(t *testing.T) {
	g := NewStripeGateway("sk_test", "", "usd", false)

	tests := []struct {
		eventType     string
		paymentStatus string
		want          Outcome
	}{
		{"checkout.session.completed", "paid", OutcomePaid},
		{"checkout.session.completed", "unpaid", OutcomeIgnored},
		{"checkout.session.async_payment_succeeded", "paid", OutcomePaid},
		{"checkout.session.async_payment_failed", "unpaid", OutcomeFailed},
		{"customer.created", "", OutcomeIgnored},
	}

	for _, tt := range tests {
		t.Run(tt.eventType+"/"+tt.paymentStatus, func(t *testing.T) {
			event, err := g.ParseWebhook(stripeEvent(tt.eventType, tt.paymentStatus), "")
			require.NoError(t, err)
			assert.Equal(t, tt.want, event.Outcome)
		})
	}
}
