// Package mail implements badge notification delivery through the Brevo
// transactional email API. Sends are rate limited and every outcome reduces
// to success or an error carrying the provider's diagnostic message.
package mail

import "context"

// Notification carries everything needed to notify a recipient about an
// issued badge. NewUser selects the claim-invitation framing used when the
// recipient has no registered account yet.
type Notification struct {
	ToEmail   string
	BadgeName string
	EventName string
	BadgeLink string
	NewUser   bool
}

// System defines the notification dispatch contract.
type System interface {
	Send(ctx context.Context, n Notification) error
}
