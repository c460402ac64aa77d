// Package channel defines message channels for completed articles. A channel
// is either outbound (dispatch) or inbound; calling the wrong direction is a
// wiring bug, not a runtime condition.
package channel

import (
	"context"
	"errors"
	"fmt"

	"github.com/north-cloud/newsllm/internal/news"
)

// ErrChannelDirection signals a Send on an inbound channel or a Receive on an
// outbound one. It is always fatal and never retried.
var ErrChannelDirection = errors.New("channel direction misuse")

// Channel is the polymorphic contract over both directions.
type Channel interface {
	// Send dispatches a completed article. Inbound channels reject it with
	// ErrChannelDirection.
	Send(ctx context.Context, article *news.Article) error
	// Receive pulls a message. Outbound channels reject it with
	// ErrChannelDirection.
	Receive(ctx context.Context) (string, error)
}

// Outbound is the base for dispatch channels: embedding it rejects Receive.
type Outbound struct{}

// Receive always fails on an outbound channel.
func (Outbound) Receive(context.Context) (string, error) {
	return "", fmt.Errorf("%w: dispatch channels cannot receive messages", ErrChannelDirection)
}

// Inbound is the base for receiving channels: embedding it rejects Send.
type Inbound struct{}

// Send always fails on an inbound channel.
func (Inbound) Send(context.Context, *news.Article) error {
	return fmt.Errorf("%w: inbound channels cannot send messages", ErrChannelDirection)
}
