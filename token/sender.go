package token

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	gomail "gopkg.in/gomail.v2"
)

// Sender defines a public type used by gateAuth APIs.
//
// Sender is the delivery contract for generated codes: send a short text to
// an address. The concrete transport (SMTP, SMS gateway, log) is an
// external collaborator; this package only ships thin adapters.
type Sender interface {
	Send(to, subject, body string) error
}

// SMTPSender delivers codes by email.
type SMTPSender struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Send describes the send operation and its observable behavior.
//
// Send assembles and submits one message through the configured SMTP host.
// The call is synchronous; a slow mail server stalls only the login request
// that triggered it.
func (s *SMTPSender) Send(to, subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", s.From)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	dialer := gomail.NewDialer(s.Host, s.Port, s.Username, s.Password)
	if err := dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("token: smtp send: %w", err)
	}
	return nil
}

// HTTPSMSSender delivers codes through a JSON SMS gateway.
type HTTPSMSSender struct {
	// GatewayURL receives a POST with {"from","to","text"}.
	GatewayURL string
	APIKey     string
	From       string
	// Client defaults to http.DefaultClient.
	Client *http.Client
}

// Send describes the send operation and its observable behavior.
//
// Send posts the message text to the gateway; the subject is ignored, SMS
// has none. Any non-2xx response is an internal fault.
func (s *HTTPSMSSender) Send(to, _, body string) error {
	payload, err := json.Marshal(map[string]string{
		"from": s.From,
		"to":   to,
		"text": body,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, s.GatewayURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("token: sms request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.APIKey)
	}

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("token: sms send: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("token: sms gateway returned %s", resp.Status)
	}
	return nil
}

// LogSender writes the message to a logger instead of delivering it.
// Useful as the "simulate" mode during integration.
type LogSender struct {
	// Logger defaults to the standard logger.
	Logger *log.Logger
}

// Send logs the would-be delivery.
func (s *LogSender) Send(to, subject, body string) error {
	logger := s.Logger
	if logger == nil {
		logger = log.Default()
	}
	logger.Printf("token delivery to %s: %s: %s", to, subject, body)
	return nil
}
