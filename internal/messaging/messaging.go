// Package messaging delivers reminder texts over chat platforms. Each
// platform is a Messenger implementation; Dispatcher picks one by the
// subscription's channel tag.
package messaging

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"fintrack/internal/core"
)

// Messenger sends a text message to one contact on a single platform.
type Messenger interface {
	Send(ctx context.Context, contact, text string) error
}

// Dispatcher routes messages to the Messenger registered for a channel.
type Dispatcher struct {
	messengers map[core.Channel]Messenger
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{messengers: map[core.Channel]Messenger{}}
}

// Register binds a channel tag to its messenger.
func (d *Dispatcher) Register(channel core.Channel, m Messenger) {
	d.messengers[channel] = m
}

// Send delivers text to contact over the given channel.
func (d *Dispatcher) Send(ctx context.Context, channel core.Channel, contact, text string) error {
	m, ok := d.messengers[channel]
	if !ok {
		return fmt.Errorf("unsupported channel: %s", channel)
	}
	return m.Send(ctx, contact, text)
}

func newHTTPClient() *http.Client {
	return &http.Client{Timeout: 10 * time.Second}
}
