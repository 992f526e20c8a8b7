// Package notify delivers user-facing notifications over SMS via Twilio.
// The sender disables itself when Twilio credentials are absent, so calls
// are always safe.
package notify

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
)

type Notifier struct {
	client  *twilio.RestClient
	from    string
	Enabled bool
}

func NewNotifier() *Notifier {
	sid := os.Getenv("TWILIO_ACCOUNT_SID")
	token := os.Getenv("TWILIO_AUTH_TOKEN")
	from := os.Getenv("TWILIO_FROM")

	enabled := sid != "" && token != "" && from != ""
	if !enabled {
		slog.Warn("Notifier disabled: missing Twilio environment variables")
		return &Notifier{Enabled: false}
	}

	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: sid,
		Password: token,
	})

	return &Notifier{client: client, from: from, Enabled: true}
}

// SendResetCode delivers a password-reset code.
func (n *Notifier) SendResetCode(phone, code string) {
	body := fmt.Sprintf("Your FinnySights password reset code is %s. It expires in 15 minutes.", code)
	n.sendAsync(phone, body)
}

// NotifyNewFollower tells a user someone followed them.
func (n *Notifier) NotifyNewFollower(phone, followerName string) {
	body := fmt.Sprintf("%s just followed you on FinnySights.", followerName)
	n.sendAsync(phone, body)
}

func (n *Notifier) sendAsync(to, body string) {
	if !n.Enabled || to == "" {
		return
	}

	go func() {
		params := &openapi.CreateMessageParams{}
		params.SetTo(to)
		params.SetFrom(n.from)
		params.SetBody(body)

		if _, err := n.client.Api.CreateMessage(params); err != nil {
			slog.Warn("SMS send failed", slog.String("to", to), slog.Any("error", err))
			return
		}
		slog.Info("SMS sent", slog.String("to", to))
	}()
}
