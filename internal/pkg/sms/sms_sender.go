package sms

import (
	"fmt"

	"bookease-be/internal/pkg/logger"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

type ISender interface {
	Send(to, body string) error
}

type twilioSender struct {
	client *twilio.RestClient
	from   string
	logger logger.ILogger
}

// NewSender returns a Twilio-backed sender, or a sender that only logs when
// no Twilio credentials are configured.
func NewSender(accountSid, authToken, from string, logger logger.ILogger) ISender {
	if accountSid == "" || authToken == "" || from == "" {
		return &logSender{logger: logger}
	}

	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSid,
		Password: authToken,
	})
	return &twilioSender{client: client, from: from, logger: logger}
}

func (s *twilioSender) Send(to, body string) error {
	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(s.from)
	params.SetBody(body)

	resp, err := s.client.Api.CreateMessage(params)
	if err != nil {
		return fmt.Errorf("twilio: send sms: %w", err)
	}

	sid := ""
	if resp.Sid != nil {
		sid = *resp.Sid
	}
	s.logger.Info("SMS", "SMS sent", map[string]interface{}{"to": to, "sid": sid})
	return nil
}

type logSender struct {
	logger logger.ILogger
}

func (s *logSender) Send(to, body string) error {
	s.logger.Info("SMS", "SMS delivery not configured, message logged only", map[string]interface{}{
		"to":   to,
		"body": body,
	})
	return nil
}
