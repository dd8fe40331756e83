// Package telegram adapts the Telegram Bot API to the bot's messaging,
// avatar and command-intake needs.
package telegram

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// BotAPI is the subset of *tgbotapi.BotAPI the adapter uses
type BotAPI interface {
	MakeRequest(endpoint string, params tgbotapi.Params) (*tgbotapi.APIResponse, error)
	GetUserProfilePhotos(config tgbotapi.UserProfilePhotosConfig) (tgbotapi.UserProfilePhotos, error)
	GetFileDirectURL(fileID string) (string, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// Ensure the real client satisfies BotAPI
var _ BotAPI = (*tgbotapi.BotAPI)(nil)

// Connect authenticates with the Bot API and returns the client and the
// bot's own username
func Connect(token string) (*tgbotapi.BotAPI, string, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, "", fmt.Errorf("connect to telegram: %w", err)
	}
	return bot, bot.Self.UserName, nil
}
