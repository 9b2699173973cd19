package messaging

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"fintrack/internal/core"
)

func TestValidateLineSignature(t *testing.T) {
	secret := "test-secret"
	body := []byte(`{"events":[]}`)

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	good := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	if !ValidateLineSignature(secret, body, good) {
		t.Error("ValidateLineSignature() = false for a valid signature")
	}
	if ValidateLineSignature(secret, body, "bm90LXRoZS1zaWduYXR1cmU=") {
		t.Error("ValidateLineSignature() = true for a forged signature")
	}
	if ValidateLineSignature(secret, []byte(`{"events":[{}]}`), good) {
		t.Error("ValidateLineSignature() = true for a tampered body")
	}
	if ValidateLineSignature("other-secret", body, good) {
		t.Error("ValidateLineSignature() = true under the wrong secret")
	}
}

func TestTwilioWhatsAppSend(t *testing.T) {
	var gotPath, gotFrom, gotTo, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Fatalf("ParseForm(): %v", err)
		}
		gotPath = r.URL.Path
		gotFrom = r.PostFormValue("From")
		gotTo = r.PostFormValue("To")
		gotBody = r.PostFormValue("Body")
		if _, _, ok := r.BasicAuth(); !ok {
			t.Error("request missing basic auth")
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	tw := NewTwilioWhatsApp("AC123", "token", "whatsapp:+14155238886")
	tw.baseURL = srv.URL

	if err := tw.Send(context.Background(), "+66812345678", "Due today: Netflix"); err != nil {
		t.Fatalf("Send() error: %v", err)
	}
	if gotPath != "/Accounts/AC123/Messages.json" {
		t.Errorf("path = %s, want /Accounts/AC123/Messages.json", gotPath)
	}
	if gotFrom != "whatsapp:+14155238886" {
		t.Errorf("From = %s", gotFrom)
	}
	if gotTo != "whatsapp:+66812345678" {
		t.Errorf("To = %s, want the whatsapp: prefix added", gotTo)
	}
	if gotBody != "Due today: Netflix" {
		t.Errorf("Body = %s", gotBody)
	}
}

func TestTwilioWhatsAppSendFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"message":"invalid number"}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	tw := NewTwilioWhatsApp("AC123", "token", "whatsapp:+14155238886")
	tw.baseURL = srv.URL

	if err := tw.Send(context.Background(), "+66812345678", "hi"); err == nil {
		t.Fatal("Send() expected error on 4xx response")
	}
}

func TestLinePushSend(t *testing.T) {
	var gotAuth string
	var gotPayload map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotPayload); err != nil {
			t.Fatalf("decode push payload: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	lp := NewLinePush("channel-token")
	lp.pushURL = srv.URL

	if err := lp.Send(context.Background(), "U123", "Overdue: Gym"); err != nil {
		t.Fatalf("Send() error: %v", err)
	}
	if gotAuth != "Bearer channel-token" {
		t.Errorf("Authorization = %s", gotAuth)
	}
	if gotPayload["to"] != "U123" {
		t.Errorf("to = %v, want U123", gotPayload["to"])
	}
}

func TestDispatcher(t *testing.T) {
	d := NewDispatcher()

	var sent []string
	d.Register(core.ChannelLine, messengerFunc(func(_ context.Context, contact, text string) error {
		sent = append(sent, contact+": "+text)
		return nil
	}))

	if err := d.Send(context.Background(), core.ChannelLine, "U123", "hello"); err != nil {
		t.Fatalf("Send() error: %v", err)
	}
	if len(sent) != 1 || sent[0] != "U123: hello" {
		t.Errorf("sent = %v", sent)
	}

	if err := d.Send(context.Background(), core.ChannelWhatsApp, "+66", "hello"); err == nil {
		t.Error("Send() on unregistered channel: expected error")
	}
}

type messengerFunc func(ctx context.Context, contact, text string) error

func (f messengerFunc) Send(ctx context.Context, contact, text string) error {
	return f(ctx, contact, text)
}
