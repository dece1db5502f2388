package payment

import (
	"context"
	"crypto/sha512"
	"encoding/json"
	"fmt"
	"time"

	"bookease-be/pkg/booking/cancellation"

	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/coreapi"
	"github.com/midtrans/midtrans-go/snap"
)

// MidtransGateway uses Snap for hosted checkout and the Core API for refunds.
// The Snap order id is the session id. Amounts are whole rupiah.
type MidtransGateway struct {
	snap      snap.Client
	core      coreapi.Client
	serverKey string
}

func NewMidtransGateway(serverKey string, production bool) *MidtransGateway {
	env := midtrans.Sandbox
	if production {
		env = midtrans.Production
	}

	g := &MidtransGateway{serverKey: serverKey}
	g.snap.New(serverKey, env)
	g.core.New(serverKey, env)
	return g
}

func (g *MidtransGateway) Name() string {
	return ProviderMidtrans
}

// midtransNotification is the HTTP notification body Midtrans posts.
type midtransNotification struct {
	TransactionId     string `json:"transaction_id"`
	TransactionStatus string `json:"transaction_status"`
	OrderId           string `json:"order_id"`
	FraudStatus       string `json:"fraud_status"`
	SignatureKey      string `json:"signature_key"`
	StatusCode        string `json:"status_code"`
	GrossAmount       string `json:"gross_amount"`
}

func (g *MidtransGateway) CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error) {
	// Order ids must be unique per attempt, so a retried checkout gets a new one.
	orderID := fmt.Sprintf("%s-%d", req.BookingId, time.Now().Unix())

	snapReq := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  orderID,
			GrossAmt: req.Amount,
		},
		CreditCard: &snap.CreditCardDetails{
			Secure: true,
		},
		Callbacks: &snap.Callbacks{
			Finish: req.SuccessURL,
		},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: req.CustomerFirst,
			LName: req.CustomerLast,
			Email: req.CustomerEmail,
			Phone: req.CustomerPhone,
		},
		Items: &[]midtrans.ItemDetails{
			{
				ID:    req.BookingId.String(),
				Price: req.Amount,
				Qty:   1,
				Name:  req.ServiceName,
			},
		},
		EnabledPayments: snap.AllSnapPaymentType,
	}

	resp, midErr := g.snap.CreateTransaction(snapReq)
	if midErr != nil {
		return nil, fmt.Errorf("midtrans: create transaction: %s", midErr.GetMessage())
	}

	return &CheckoutSession{SessionId: orderID, RedirectURL: resp.RedirectURL}, nil
}

// IssueRefund refunds part or all of the order. The Core API client takes no
// context, so the call runs in a goroutine and is abandoned on ctx expiry.
func (g *MidtransGateway) IssueRefund(ctx context.Context, req cancellation.RefundRequest) (string, error) {
	done := make(chan *midtrans.Error, 1)

	go func() {
		_, err := g.core.RefundTransaction(req.SessionId, &coreapi.RefundReq{
			RefundKey: req.IdempotencyKey,
			Amount:    req.Amount,
			Reason:    "booking cancellation",
		})
		done <- err
	}()

	select {
	case <-ctx.Done():
		return "", fmt.Errorf("midtrans: refund %s: %w", req.SessionId, ctx.Err())
	case midErr := <-done:
		if midErr != nil {
			return "", fmt.Errorf("midtrans: refund %s: %s", req.SessionId, midErr.GetMessage())
		}
		// Midtrans identifies a refund by the refund key we supplied.
		return req.IdempotencyKey, nil
	}
}

func (g *MidtransGateway) ParseWebhook(payload []byte, _ string) (*WebhookEvent, error) {
	var n midtransNotification
	if err := json.Unmarshal(payload, &n); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if n.OrderId == "" {
		return nil, ErrMalformedPayload
	}

	// signature = SHA512(order_id + status_code + gross_amount + server_key)
	expected := fmt.Sprintf("%x", sha512.Sum512([]byte(n.OrderId+n.StatusCode+n.GrossAmount+g.serverKey)))
	if n.SignatureKey != expected {
		return nil, ErrInvalidSignature
	}

	event := &WebhookEvent{
		Provider:  ProviderMidtrans,
		EventId:   n.TransactionId + ":" + n.TransactionStatus,
		EventType: n.TransactionStatus,
		SessionId: n.OrderId,
		Outcome:   OutcomeIgnored,
		Raw:       payload,
	}

	switch n.TransactionStatus {
	case "capture":
		if n.FraudStatus == "" || n.FraudStatus == "accept" {
			event.Outcome = OutcomePaid
		}
	case "settlement":
		event.Outcome = OutcomePaid
	case "deny", "cancel", "expire":
		event.Outcome = OutcomeFailed
	}
	return event, nil
}
