package services

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/sokerihelmi/bakery-api/config"
	"github.com/sokerihelmi/bakery-api/models"
	"github.com/sokerihelmi/bakery-api/utils"
)

// ErrRateLimited is returned when the outbound notification quota is
// exhausted. Callers should surface a "try again later" condition instead of
// treating it as a transport failure.
var ErrRateLimited = errors.New("telegram: rate limit exceeded, try again later")

// TelegramInterface defines the operations for relaying text to the
// operator chat via the Telegram Bot API.
type TelegramInterface interface {
	// SendMessage sends plain text to the configured operator chat
	SendMessage(text string) error

	// SendMessageTo sends plain text to a specific chat (bot replies)
	SendMessageTo(chatID int64, text string) error

	// NotifyNewOrder formats and sends the order notification
	NotifyNewOrder(order *models.Order, items []models.OrderItem) error

	// SetWebhook registers the inbound webhook URL with the platform
	SetWebhook(webhookURL string) error
}

// TelegramService implements TelegramInterface against the real Bot API
type TelegramService struct {
	httpClient *http.Client
	apiBaseURL string
	botToken   string
	chatID     string
	limiter    *SlidingWindowLimiter
}

var telegramServiceInstance TelegramInterface

// InitTelegramService initializes the Telegram service from configuration.
// The sliding-window limiter is owned by the service and constructed once
// per process.
func InitTelegramService(cfg *config.Config) TelegramInterface {
	telegramServiceInstance = &TelegramService{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		apiBaseURL: cfg.TelegramAPIBaseURL,
		botToken:   cfg.TelegramBotToken,
		chatID:     cfg.TelegramChatID,
		limiter:    NewSlidingWindowLimiter(cfg.NotifyQuota, cfg.NotifyWindow),
	}
	return telegramServiceInstance
}

// GetTelegramService returns the initialized Telegram service instance
func GetTelegramService() TelegramInterface {
	return telegramServiceInstance
}

// SetTelegramService sets the Telegram service instance (primarily for testing)
func SetTelegramService(service TelegramInterface) {
	telegramServiceInstance = service
}

// apiResponse is the envelope every Bot API call returns
type apiResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description,omitempty"`
}

// SendMessage sends text to the configured operator chat. The rate-limit
// slot is consumed before the network call, so a failed send still counts
// against the quota.
func (s *TelegramService) SendMessage(text string) error {
	if !s.limiter.Allow() {
		zap.S().Warnw("Notification rate limit exceeded", "remaining", s.limiter.Remaining())
		return ErrRateLimited
	}
	return s.post("sendMessage", map[string]interface{}{
		"chat_id": s.chatID,
		"text":    text,
	})
}

// SendMessageTo sends text to a specific chat id (used for bot replies to
// operator commands).
func (s *TelegramService) SendMessageTo(chatID int64, text string) error {
	if !s.limiter.Allow() {
		zap.S().Warnw("Notification rate limit exceeded", "chat_id", chatID)
		return ErrRateLimited
	}
	return s.post("sendMessage", map[string]interface{}{
		"chat_id": chatID,
		"text":    text,
	})
}

// NotifyNewOrder formats the order and relays it to the operator chat
func (s *TelegramService) NotifyNewOrder(order *models.Order, items []models.OrderItem) error {
	return s.SendMessage(utils.FormatOrderMessage(order, items))
}

// SetWebhook registers the webhook URL with the Bot API so inbound updates
// reach this service.
func (s *TelegramService) SetWebhook(webhookURL string) error {
	return s.post("setWebhook", map[string]interface{}{
		"url": webhookURL,
	})
}

// post issues one Bot API call and normalizes failures. There is no
// automatic retry; the caller decides.
func (s *TelegramService) post(method string, payload map[string]interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal %s payload: %w", method, err)
	}

	url := fmt.Sprintf("%s/bot%s/%s", s.apiBaseURL, s.botToken, method)
	resp, err := s.httpClient.Post(url, "application/json", bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("telegram %s request failed: %w", method, err)
	}
	defer resp.Body.Close()

	var result apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("failed to decode telegram %s response: %w", method, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 || !result.OK {
		zap.S().Errorw("Telegram API call failed",
			"method", method,
			"status", resp.StatusCode,
			"description", result.Description,
		)
		return fmt.Errorf("telegram %s failed: %s", method, result.Description)
	}

	return nil
}
