package ports

import (
	"context"
)

// NotificationSender delivers one outbound webhook call.
// Implementations bound the call with a timeout and never retry; failures
// surface as errors for best-effort recording only.
type NotificationSender interface {
	// Send POSTs payload as JSON to endpoint. A non-2xx response or a
	// transport failure returns an error.
	Send(ctx context.Context, endpoint string, payload any) error
}
