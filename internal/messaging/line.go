package messaging

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

const linePushURL = "https://api.line.me/v2/bot/message/push"

// LinePush sends text messages through the LINE Messaging API push
// endpoint.
type LinePush struct {
	accessToken string
	pushURL     string
	client      *http.Client
}

func NewLinePush(accessToken string) *LinePush {
	return &LinePush{
		accessToken: accessToken,
		pushURL:     linePushURL,
		client:      newHTTPClient(),
	}
}

func (l *LinePush) Send(ctx context.Context, contact, text string) error {
	if l.accessToken == "" {
		return fmt.Errorf("LINE not configured")
	}

	payload := map[string]any{
		"to": contact,
		"messages": []map[string]string{
			{"type": "text", "text": text},
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal LINE push: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, l.pushURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build LINE request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+l.accessToken)

	resp, err := l.client.Do(req)
	if err != nil {
		return fmt.Errorf("send LINE message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("LINE push failed: %d %s", resp.StatusCode, string(respBody))
	}
	return nil
}

// ValidateLineSignature checks the x-line-signature webhook header: the
// base64 encoding of the HMAC-SHA256 of the raw request body under the
// channel secret. Comparison is constant-time.
func ValidateLineSignature(secret string, rawBody []byte, signature string) bool {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(rawBody)
	expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
