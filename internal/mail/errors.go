package mail

import "errors"

// ErrSendFailed indicates the mail provider rejected or failed the send.
// The wrapped message carries the provider's diagnostic detail.
var ErrSendFailed = errors.New("notification send failed")
