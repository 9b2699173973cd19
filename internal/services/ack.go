package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"fintrack/internal/core"
	"fintrack/internal/store"
)

// Acknowledger matches inbound "PAID" chat messages to subscriptions
// and records payment acknowledgements. Acknowledgements are a side
// channel: they never advance the subscription's posting cycle.
type Acknowledger struct {
	store store.Store
}

func NewAcknowledger(st store.Store) *Acknowledger {
	return &Acknowledger{store: st}
}

// Acknowledge parses an inbound message from the given channel and
// contact identity. Text that does not start with "PAID" (any casing),
// or that matches no subscription, is ignored without error. When a
// name fragment follows the keyword it must match the subscription
// name case-insensitively; otherwise any subscription for the sender
// qualifies. The first match wins and an acknowledgement is persisted.
func (a *Acknowledger) Acknowledge(ctx context.Context, channel core.Channel, contact, text string) (*core.PaymentAck, error) {
	text = strings.ToUpper(strings.TrimSpace(text))
	if !strings.HasPrefix(text, "PAID") {
		return nil, nil
	}
	fragment := strings.TrimSpace(strings.TrimPrefix(text, "PAID"))

	subs, err := a.store.ListSubscriptions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}

	for _, sub := range subs {
		if !a.matches(sub, channel, contact, fragment) {
			continue
		}

		ack := core.PaymentAck{
			SubscriptionID: sub.ID,
			Amount:         sub.Amount,
			PaidAt:         store.Now(),
		}
		if err := a.store.PutPaymentAck(ctx, &ack); err != nil {
			return nil, fmt.Errorf("record payment ack: %w", err)
		}

		slog.InfoContext(ctx, "Payment recorded",
			"ack_id", ack.ID,
			"subscription_id", sub.ID,
			"name", sub.Name,
			"channel", string(channel))
		return &ack, nil
	}

	slog.InfoContext(ctx, "No subscription matched PAID message",
		"channel", string(channel),
		"fragment", fragment)
	return nil, nil
}

func (a *Acknowledger) matches(sub core.Subscription, channel core.Channel, contact, fragment string) bool {
	if sub.Channel != channel || sub.Contact == "" {
		return false
	}
	// WhatsApp numbers arrive with a "whatsapp:" prefix and varying
	// formatting, so match on containment; LINE user IDs are exact.
	switch channel {
	case core.ChannelWhatsApp:
		number := strings.TrimPrefix(contact, "whatsapp:")
		if !strings.Contains(sub.Contact, number) {
			return false
		}
	default:
		if sub.Contact != contact {
			return false
		}
	}
	if fragment == "" {
		return true
	}
	return strings.Contains(strings.ToLower(sub.Name), strings.ToLower(fragment))
}
