package messenger

import "context"

// Message is an outbound chat message
type Message struct {
	Text string
	// Markdown selects Telegram's legacy Markdown parse mode
	Markdown bool
	// LaunchLabel and LaunchURL, when set, attach a single web-app launch button
	LaunchLabel string
	LaunchURL   string
}

// HasLaunchButton reports whether the message carries a launch button
func (m Message) HasLaunchButton() bool {
	return m.LaunchURL != ""
}

// Messenger delivers messages to a chat. Delivery is best effort.
type Messenger interface {
	Send(ctx context.Context, chatID string, msg Message) error
}

// Discard drops every message; used when no transport is configured
type Discard struct{}

// Send implements Messenger
func (Discard) Send(context.Context, string, Message) error {
	return nil
}
