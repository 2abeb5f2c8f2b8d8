// Package events defines the per-task lifecycle event channel: the event
// wire format and the publish/subscribe contract the rest of the application
// is written against. Events are ephemeral; there is no replay buffer, so a
// subscriber only sees events published after it attaches.
package events
