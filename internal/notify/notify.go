// Package notify posts human-readable notifications to the ticket a
// sandbox is bound to. Notifications are best-effort everywhere: a
// failed post is logged and never blocks a state transition.
package notify

import (
	"context"
)

// Notifier posts a comment on a requester's issue.
type Notifier interface {
	Comment(ctx context.Context, issue string, body string) error
}
