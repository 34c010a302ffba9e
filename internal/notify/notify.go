// Package notify dispatches user-facing notifications. Delivery is
// fire-and-forget from the caller's perspective: failures are logged here
// and never surfaced as business errors.
package notify

import (
	"context"
	"log/slog"
)

type Kind string

const (
	KindInvitationSent      Kind = "invitation_sent"
	KindInvitationCancelled Kind = "invitation_cancelled"
)

type Notifier interface {
	Send(ctx context.Context, kind Kind, recipients []string, payload map[string]string)
}

// LogNotifier records every notification via slog. It stands in for the mail
// transport in development and tests. dashboardURL is the link recipients
// would follow to act on the notification.
type LogNotifier struct {
	dashboardURL string
}

func NewLogNotifier(dashboardURL string) Notifier {
	return LogNotifier{dashboardURL: dashboardURL}
}

func (n LogNotifier) Send(ctx context.Context, kind Kind, recipients []string, payload map[string]string) {
	slog.InfoContext(ctx, "notification dispatched",
		"kind", kind,
		"recipients", len(recipients),
		"workspace", payload["workspace_title"],
		"link", n.dashboardURL+"/invitations",
	)
}
