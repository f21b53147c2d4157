package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"

	"smartcampus/internal/config"
)

// Notifier delivers a zone alert on one channel.
type Notifier interface {
	Name() string
	Notify(ctx context.Context, subject, body string) error
}

type SendGridNotifier struct {
	APIKey    string
	FromEmail string
	FromName  string
	To        string
}

func (n *SendGridNotifier) Name() string { return "sendgrid" }

func (n *SendGridNotifier) Notify(ctx context.Context, subject, body string) error {
	from := mail.NewEmail(n.FromName, n.FromEmail)
	to := mail.NewEmail("", n.To)
	message := mail.NewSingleEmail(from, subject, to, body, "")

	client := sendgrid.NewSendClient(n.APIKey)
	response, err := client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("sendgrid send to %s: %w", n.To, err)
	}
	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return fmt.Errorf("sendgrid returned status %d: %s", response.StatusCode, response.Body)
	}
	return nil
}

type TwilioNotifier struct {
	AccountSID string
	AuthToken  string
	FromNumber string
	To         string
}

func (n *TwilioNotifier) Name() string { return "twilio" }

func (n *TwilioNotifier) Notify(ctx context.Context, subject, body string) error {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username:   n.AccountSID,
		Password:   n.AuthToken,
		AccountSid: n.AccountSID,
	})

	params := &openapi.CreateMessageParams{}
	params.SetTo(n.To)
	params.SetFrom(n.FromNumber)
	params.SetBody(subject + "\n" + body)

	resp, err := client.Api.CreateMessage(params)
	if err != nil {
		return fmt.Errorf("twilio send to %s: %w", n.To, err)
	}
	if resp != nil && resp.Sid != nil {
		log.Printf("Alert SMS sent to %s, sid %s", n.To, *resp.Sid)
	}
	return nil
}

// NewNotifiers builds the alert channels that have complete credentials.
func NewNotifiers(cfg config.AlertConfig) []Notifier {
	var out []Notifier
	switch {
	case cfg.EmailTo == "":
	case cfg.SendGridAPIKey == "" || cfg.SendGridFromEmail == "":
		log.Println("Warning: ALERT_EMAIL_TO is set but SendGrid credentials are missing, e-mail alerts disabled")
	default:
		out = append(out, &SendGridNotifier{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.SendGridFromEmail,
			FromName:  cfg.SendGridFromName,
			To:        cfg.EmailTo,
		})
	}

	switch {
	case cfg.SMSTo == "":
	case cfg.TwilioAccountSID == "" || cfg.TwilioAuthToken == "" || cfg.TwilioFromNumber == "":
		log.Println("Warning: ALERT_SMS_TO is set but Twilio credentials are missing, SMS alerts disabled")
	default:
		if !strings.HasPrefix(cfg.SMSTo, "+") {
			log.Printf("Warning: ALERT_SMS_TO %q is not in E.164 format, SMS may fail", cfg.SMSTo)
		}
		out = append(out, &TwilioNotifier{
			AccountSID: cfg.TwilioAccountSID,
			AuthToken:  cfg.TwilioAuthToken,
			FromNumber: cfg.TwilioFromNumber,
			To:         cfg.SMSTo,
		})
	}
	return out
}
