package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sokerihelmi/bakery-api/config"
	"github.com/sokerihelmi/bakery-api/models"
	"github.com/sokerihelmi/bakery-api/services"
)

// TelegramUpdate is the inbound webhook payload delivered by the platform
type TelegramUpdate struct {
	UpdateID int64            `json:"update_id"`
	Message  *TelegramMessage `json:"message"`
}

// TelegramMessage is one message inside an update
type TelegramMessage struct {
	MessageID int64        `json:"message_id"`
	From      TelegramUser `json:"from"`
	Chat      TelegramChat `json:"chat"`
	Date      int64        `json:"date"`
	Text      string       `json:"text"`
}

// TelegramUser identifies the sender of a message
type TelegramUser struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	Username  string `json:"username,omitempty"`
}

// TelegramChat identifies the chat a message arrived in
type TelegramChat struct {
	ID   int64  `json:"id"`
	Type string `json:"type"`
}

// HandleTelegramWebhook handles POST /telegram-webhook - the entry point for
// operator commands. The platform expects an acknowledgement for every
// delivered update, so business failures (unauthorized sender, unknown
// command) still answer 200; only a malformed payload is a 400.
func HandleTelegramWebhook(c *gin.Context) {
	var update TelegramUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"ok":    false,
			"error": "invalid update payload",
		})
		return
	}

	// Non-message updates (edits, channel posts) are acknowledged untouched
	if update.Message == nil {
		c.JSON(http.StatusOK, gin.H{
			"ok":     true,
			"result": "ignored: no message",
		})
		return
	}

	// Messages without text (stickers, photos) need no action either
	if update.Message.Text == "" {
		c.JSON(http.StatusOK, gin.H{
			"ok":     true,
			"result": "ignored: no text",
		})
		return
	}

	sender := update.Message.From
	chatID := update.Message.Chat.ID

	// Only active allow-list entries may run commands
	db := config.GetDB()
	var admin models.AdminUser
	err := db.Where("telegram_id = ? AND is_active = ?", sender.ID, true).First(&admin).Error
	if err != nil {
		zap.S().Infow("Rejected webhook command from unauthorized sender",
			"telegram_id", sender.ID,
			"username", sender.Username,
		)
		notifyChat(chatID, "⛔ You are not authorized to manage the catalog.")
		c.JSON(http.StatusOK, gin.H{
			"ok":    false,
			"error": "sender is not authorized",
		})
		return
	}

	reply := services.NewCommandDispatcher(db).Handle(update.Message.Text)
	notifyChat(chatID, reply)

	c.JSON(http.StatusOK, gin.H{
		"ok":     true,
		"result": reply,
	})
}

// TelegramWebhookStatus handles GET /telegram-webhook - a static liveness
// payload used when wiring up the webhook.
func TelegramWebhookStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"ok":        true,
		"message":   "Telegram webhook endpoint is working",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// notifyChat sends a bot reply, logging failures instead of surfacing them:
// the webhook must still acknowledge the update.
func notifyChat(chatID int64, text string) {
	if err := services.GetTelegramService().SendMessageTo(chatID, text); err != nil {
		if errors.Is(err, services.ErrRateLimited) {
			zap.S().Warnw("Bot reply rate limited", "chat_id", chatID)
		} else {
			zap.S().Errorw("Failed to send bot reply", "chat_id", chatID, "error", err)
		}
	}
}
