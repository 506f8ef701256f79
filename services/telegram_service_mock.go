package services

import (
	"sync"

	"github.com/sokerihelmi/bakery-api/models"
	"github.com/sokerihelmi/bakery-api/utils"
)

// MockTelegramService is a mock implementation of TelegramInterface for testing
type MockTelegramService struct {
	mu           sync.Mutex
	sentMessages []string
	sentTo       map[int64][]string
	failWith     error
}

// NewMockTelegramService creates a new mock Telegram service
func NewMockTelegramService() *MockTelegramService {
	return &MockTelegramService{
		sentTo: make(map[int64][]string),
	}
}

// SetAsMockForTesting sets this mock as the global Telegram service instance
func (m *MockTelegramService) SetAsMockForTesting() {
	SetTelegramService(m)
}

// FailWith makes every subsequent send return the given error
// (use ErrRateLimited to simulate quota exhaustion)
func (m *MockTelegramService) FailWith(err error) {
	m.mu.Lock()
	m.failWith = err
	m.mu.Unlock()
}

// SendMessage records the message, or fails when configured to
func (m *MockTelegramService) SendMessage(text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return m.failWith
	}
	m.sentMessages = append(m.sentMessages, text)
	return nil
}

// SendMessageTo records a message sent to a specific chat
func (m *MockTelegramService) SendMessageTo(chatID int64, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return m.failWith
	}
	m.sentTo[chatID] = append(m.sentTo[chatID], text)
	return nil
}

// NotifyNewOrder formats and records the order notification
func (m *MockTelegramService) NotifyNewOrder(order *models.Order, items []models.OrderItem) error {
	return m.SendMessage(utils.FormatOrderMessage(order, items))
}

// SetWebhook is a no-op in the mock
func (m *MockTelegramService) SetWebhook(webhookURL string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.failWith
}

// SentMessages returns a copy of operator-chat messages sent so far
func (m *MockTelegramService) SentMessages() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.sentMessages))
	copy(out, m.sentMessages)
	return out
}

// MessagesTo returns a copy of messages sent to a specific chat
func (m *MockTelegramService) MessagesTo(chatID int64) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.sentTo[chatID]))
	copy(out, m.sentTo[chatID])
	return out
}

// Clear resets all recorded messages
func (m *MockTelegramService) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sentMessages = nil
	m.sentTo = make(map[int64][]string)
	m.failWith = nil
}
