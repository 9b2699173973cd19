package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"fintrack/internal/core"
	"fintrack/internal/messaging"
)

// handleTwilioWebhook receives Twilio's form-encoded inbound WhatsApp
// message callback and feeds it to the acknowledgement matcher. Twilio
// expects an empty TwiML document back.
func (s *Server) handleTwilioWebhook(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	from := r.PostFormValue("From")
	body := r.PostFormValue("Body")

	if _, err := s.acker.Acknowledge(r.Context(), core.ChannelWhatsApp, from, body); err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}

	w.Header().Set("Content-Type", "text/xml")
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, `<?xml version="1.0" encoding="UTF-8"?><Response></Response>`)
}

type lineWebhookPayload struct {
	Events []struct {
		Type    string `json:"type"`
		Message struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"message"`
		Source struct {
			UserID string `json:"userId"`
		} `json:"source"`
	} `json:"events"`
}

// handleLineWebhook verifies the LINE platform signature over the raw
// body, then feeds every inbound text message to the acknowledgement
// matcher. A bad signature is rejected with 401 before any parsing.
func (s *Server) handleLineWebhook(w http.ResponseWriter, r *http.Request) {
	rawBody, err := io.ReadAll(r.Body)
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	r.Body.Close()

	signature := r.Header.Get("x-line-signature")
	if !messaging.ValidateLineSignature(s.lineSecret, rawBody, signature) {
		respondError(w, http.StatusUnauthorized, errors.New("invalid signature"))
		return
	}

	var payload lineWebhookPayload
	if err := json.Unmarshal(rawBody, &payload); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	acked := 0
	for _, event := range payload.Events {
		if event.Type != "message" || event.Message.Type != "text" {
			continue
		}
		ack, err := s.acker.Acknowledge(r.Context(), core.ChannelLine, event.Source.UserID, event.Message.Text)
		if err != nil {
			respondError(w, http.StatusInternalServerError, err)
			return
		}
		if ack != nil {
			acked++
		}
	}
	respondOK(w, map[string]int{"acknowledged": acked})
}
