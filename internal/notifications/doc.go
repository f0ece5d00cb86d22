// Package notifications delivers ledger events via ntfy.
//
// The default implementation publishes to the topic configured in
// config.toml and degrades to a no-op when notifications are disabled, so
// callers never branch on whether a notifier is wired. Extend this package
// for alternative transports; everything else depends only on the Service
// interface.
package notifications
