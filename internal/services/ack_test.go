package services

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
	"fintrack/internal/store/memory"
)

func seedAckStore(t *testing.T) *memory.Store {
	t.Helper()
	ctx := context.Background()
	st := memory.New()

	subs := []core.Subscription{
		{
			Name:      "Netflix",
			Account:   "Checking",
			Amount:    decimal.NewFromInt(419),
			Frequency: core.Monthly,
			Channel:   core.ChannelWhatsApp,
			Contact:   "+66812345678",
		},
		{
			Name:      "iCloud Storage",
			Account:   "Checking",
			Amount:    decimal.NewFromInt(99),
			Frequency: core.Monthly,
			Channel:   core.ChannelLine,
			Contact:   "U1234567890",
		},
	}
	for i := range subs {
		if err := st.PutSubscription(ctx, &subs[i]); err != nil {
			t.Fatalf("PutSubscription(%s): %v", subs[i].Name, err)
		}
	}
	return st
}

func TestAcknowledge(t *testing.T) {
	tests := []struct {
		name     string
		channel  core.Channel
		contact  string
		text     string
		wantAck  bool
		wantName string
	}{
		{
			name:     "whatsapp with name fragment",
			channel:  core.ChannelWhatsApp,
			contact:  "whatsapp:+66812345678",
			text:     "PAID Netflix",
			wantAck:  true,
			wantName: "Netflix",
		},
		{
			name:     "lowercase keyword and partial name",
			channel:  core.ChannelWhatsApp,
			contact:  "whatsapp:+66812345678",
			text:     "  paid netf  ",
			wantAck:  true,
			wantName: "Netflix",
		},
		{
			name:     "bare keyword matches sender's subscription",
			channel:  core.ChannelLine,
			contact:  "U1234567890",
			text:     "PAID",
			wantAck:  true,
			wantName: "iCloud Storage",
		},
		{
			name:    "non PAID text is ignored",
			channel: core.ChannelWhatsApp,
			contact: "whatsapp:+66812345678",
			text:    "hello there",
			wantAck: false,
		},
		{
			name:    "unknown sender matches nothing",
			channel: core.ChannelWhatsApp,
			contact: "whatsapp:+19999999999",
			text:    "PAID Netflix",
			wantAck: false,
		},
		{
			name:    "wrong channel matches nothing",
			channel: core.ChannelLine,
			contact: "+66812345678",
			text:    "PAID Netflix",
			wantAck: false,
		},
		{
			name:    "name fragment for someone else's subscription",
			channel: core.ChannelLine,
			contact: "U1234567890",
			text:    "PAID Netflix",
			wantAck: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			st := seedAckStore(t)
			acker := NewAcknowledger(st)

			ack, err := acker.Acknowledge(ctx, tt.channel, tt.contact, tt.text)
			if err != nil {
				t.Fatalf("Acknowledge() error: %v", err)
			}
			if !tt.wantAck {
				if ack != nil {
					t.Fatalf("Acknowledge() = %+v, want nil", ack)
				}
				if got := st.PaymentAcks(); len(got) != 0 {
					t.Errorf("got %d stored acks, want 0", len(got))
				}
				return
			}
			if ack == nil {
				t.Fatal("Acknowledge() = nil, want an ack")
			}

			subs, err := st.ListSubscriptions(ctx)
			if err != nil {
				t.Fatalf("ListSubscriptions(): %v", err)
			}
			for _, sub := range subs {
				if sub.Name != tt.wantName {
					continue
				}
				if ack.SubscriptionID != sub.ID {
					t.Errorf("ack subscription = %s, want %s (%s)", ack.SubscriptionID, sub.ID, sub.Name)
				}
				if !ack.Amount.Equal(sub.Amount) {
					t.Errorf("ack amount = %s, want %s", ack.Amount, sub.Amount)
				}
				// Acknowledgements never advance the posting cycle.
				if sub.LastPosted != "" {
					t.Errorf("lastPosted = %s, want unchanged empty marker", sub.LastPosted)
				}
			}
			if got := st.PaymentAcks(); len(got) != 1 {
				t.Errorf("got %d stored acks, want 1", len(got))
			}
		})
	}
}
