package services

import "github.com/rs/zerolog"

// AsyncNotifier decorates a Notifier so dispatch returns immediately and
// delivery runs in the background, the same post-commit decoupling the
// queue-backed notifier provides. Delivery failures are logged here.
type AsyncNotifier struct {
	next   Notifier
	logger zerolog.Logger
}

// NewAsyncNotifier creates an AsyncNotifier around next.
func NewAsyncNotifier(next Notifier, logger zerolog.Logger) *AsyncNotifier {
	return &AsyncNotifier{
		next:   next,
		logger: logger,
	}
}

// SendWelcome hands the message to the wrapped notifier in a goroutine
// and never reports its outcome to the caller.
func (n *AsyncNotifier) SendWelcome(email, username string) error {
	go func() {
		if err := n.next.SendWelcome(email, username); err != nil {
			n.logger.Warn().Err(err).Str("email", email).Msg("background welcome delivery failed")
		}
	}()
	return nil
}
