package messaging

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

const twilioAPIBase = "https://api.twilio.com/2010-04-01"

// TwilioWhatsApp sends WhatsApp messages through Twilio's Messages
// endpoint.
type TwilioWhatsApp struct {
	accountSID string
	authToken  string
	from       string
	baseURL    string
	client     *http.Client
}

func NewTwilioWhatsApp(accountSID, authToken, from string) *TwilioWhatsApp {
	return &TwilioWhatsApp{
		accountSID: accountSID,
		authToken:  authToken,
		from:       from,
		baseURL:    twilioAPIBase,
		client:     newHTTPClient(),
	}
}

func (t *TwilioWhatsApp) Send(ctx context.Context, contact, text string) error {
	if t.accountSID == "" || t.authToken == "" {
		return fmt.Errorf("twilio not configured")
	}

	to := contact
	if !strings.HasPrefix(to, "whatsapp:") {
		to = "whatsapp:" + to
	}

	form := url.Values{}
	form.Set("From", t.from)
	form.Set("To", to)
	form.Set("Body", text)

	endpoint := fmt.Sprintf("%s/Accounts/%s/Messages.json", t.baseURL, t.accountSID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("build twilio request: %w", err)
	}
	req.SetBasicAuth(t.accountSID, t.authToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("send whatsapp message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("twilio send failed: %d %s", resp.StatusCode, string(body))
	}
	return nil
}
