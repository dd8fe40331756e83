package mocks

import (
	"context"
	"sync"

	"github.com/eaglezone/eaglezone-bot/internal/dependencies/messenger"
)

// SentMessage is a message captured by MockMessenger
type SentMessage struct {
	ChatID  string
	Message messenger.Message
}

// MockMessenger records every message sent through it
type MockMessenger struct {
	mu   sync.Mutex
	sent []SentMessage

	// Err, when set, is returned from every Send after recording
	Err error
}

// Ensure MockMessenger implements Messenger
var _ messenger.Messenger = (*MockMessenger)(nil)

// NewMockMessenger creates an empty MockMessenger
func NewMockMessenger() *MockMessenger {
	return &MockMessenger{}
}

// Send records the message
func (m *MockMessenger) Send(_ context.Context, chatID string, msg messenger.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, SentMessage{ChatID: chatID, Message: msg})
	return m.Err
}

// Sent returns a copy of all recorded messages
func (m *MockMessenger) Sent() []SentMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]SentMessage, len(m.sent))
	copy(out, m.sent)
	return out
}

// SentTo returns the recorded messages for one chat
func (m *MockMessenger) SentTo(chatID string) []SentMessage {
	var out []SentMessage
	for _, s := range m.Sent() {
		if s.ChatID == chatID {
			out = append(out, s)
		}
	}
	return out
}

// Reset clears recorded messages
func (m *MockMessenger) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = nil
}
