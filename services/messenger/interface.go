package messenger

import "context"

// Messenger delivers outbound messages to a contact. Implementations
// own their own timeouts; callers treat a returned error as a failed
// delivery and do not retry.
type Messenger interface {
	Send(ctx context.Context, destination, text, mediaURL string) error
}
