// Package notifications delivers run outcomes to the operator. Two channels
// are supported: the native gotify endpoint (multipart form with title,
// message, and priority) and arbitrary shoutrrr service URLs. Delivery is
// best-effort; failures are logged and swallowed, and an unconfigured
// notifier degrades to a logged skip notice so updates are never blocked.
package notifications

import (
	"github.com/sirupsen/logrus"
)

// sender is one configured delivery channel.
type sender interface {
	// name identifies the channel in logs.
	name() string
	// send delivers one message; the error is logged by the notifier and
	// never propagated further.
	send(title string, message string, priority int) error
}

// Notifier fans a message out to every configured channel. It implements
// types.Notifier.
type Notifier struct {
	senders []sender
}

// Config carries the notification channel settings from flags.
type Config struct {
	// GotifyURL is the base URL of the gotify server; empty disables the channel.
	GotifyURL string
	// GotifyToken is the application token for the gotify channel.
	GotifyToken string
	// ShoutrrrURLs lists additional shoutrrr service URLs.
	ShoutrrrURLs []string
}

// NewNotifier builds a notifier from the given configuration. Channels with
// incomplete configuration are left out; with no channel configured the
// notifier stays usable and only logs a skip notice per message.
func NewNotifier(config Config) *Notifier {
	notifier := &Notifier{}

	if config.GotifyURL != "" && config.GotifyToken != "" {
		notifier.senders = append(notifier.senders, newGotifySender(config.GotifyURL, config.GotifyToken))
	} else if config.GotifyURL != "" || config.GotifyToken != "" {
		logrus.Warn("Gotify channel needs both URL and token; channel disabled")
	}

	if len(config.ShoutrrrURLs) > 0 {
		shoutrrrSender, err := newShoutrrrSender(config.ShoutrrrURLs)
		if err != nil {
			logrus.WithError(err).Warn("Failed to initialize shoutrrr channel; channel disabled")
		} else {
			notifier.senders = append(notifier.senders, shoutrrrSender)
		}
	}

	names := make([]string, 0, len(notifier.senders))
	for _, s := range notifier.senders {
		names = append(names, s.name())
	}

	if len(names) > 0 {
		logrus.WithField("channels", names).Debug("Initialized notification channels")
	} else {
		logrus.Debug("No notification channel configured")
	}

	return notifier
}

// Configured reports whether at least one delivery channel is active.
func (n *Notifier) Configured() bool {
	return len(n.senders) > 0
}

// Notify delivers a message to every configured channel. Unconfigured
// notifiers log a skip notice; per-channel delivery failures are logged and
// swallowed so notification can never affect the rollout outcome.
func (n *Notifier) Notify(title string, message string, priority int) {
	if len(n.senders) == 0 {
		logrus.WithFields(logrus.Fields{
			"title":    title,
			"priority": priority,
		}).Info("Notification channel unconfigured, skipping notification")

		return
	}

	for _, s := range n.senders {
		if err := s.send(title, message, priority); err != nil {
			logrus.WithError(err).WithFields(logrus.Fields{
				"channel": s.name(),
				"title":   title,
			}).Warn("Failed to deliver notification")

			continue
		}

		logrus.WithFields(logrus.Fields{
			"channel":  s.name(),
			"title":    title,
			"priority": priority,
		}).Debug("Delivered notification")
	}
}
