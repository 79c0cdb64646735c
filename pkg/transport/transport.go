// Package transport carries chat traffic between a session and the assistant
// backend. Replies are delivered asynchronously on the response channel given
// to the transport at construction.
package transport

import "context"

type Transport interface {
	// Connect establishes the channel. Send before a successful Connect is a
	// no-op.
	Connect(ctx context.Context) error
	Send(ctx context.Context, sessionID, text string) error
	Close()
}
