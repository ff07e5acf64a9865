package sender

import "context"

// Sender delivers a plain-text email. A nil return means the message was
// accepted by the transport; any error means the send failed. Policy engines
// never propagate send errors, they convert them into audit status.
type Sender interface {
	Name() string
	Send(ctx context.Context, to, subject, body string) error
}
