package telegram

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/eaglezone/eaglezone-bot/internal/dependencies/messenger"
)

// inlineKeyboard mirrors the Bot API's InlineKeyboardMarkup with web_app
// buttons, which the v5 client types do not model
type inlineKeyboard struct {
	InlineKeyboard [][]inlineButton `json:"inline_keyboard"`
}

type inlineButton struct {
	Text   string      `json:"text"`
	WebApp *webAppInfo `json:"web_app,omitempty"`
}

type webAppInfo struct {
	URL string `json:"url"`
}

// Messenger sends chat messages through the Bot API
type Messenger struct {
	bot BotAPI
}

// NewMessenger creates a Messenger
func NewMessenger(bot BotAPI) *Messenger {
	return &Messenger{bot: bot}
}

// Ensure Messenger implements messenger.Messenger
var _ messenger.Messenger = (*Messenger)(nil)

// Send delivers msg to chatID via sendMessage
func (m *Messenger) Send(ctx context.Context, chatID string, msg messenger.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	params := tgbotapi.Params{}
	params["chat_id"] = chatID
	params["text"] = msg.Text
	if msg.Markdown {
		params["parse_mode"] = tgbotapi.ModeMarkdown
	}
	if msg.HasLaunchButton() {
		markup := inlineKeyboard{
			InlineKeyboard: [][]inlineButton{{
				{Text: msg.LaunchLabel, WebApp: &webAppInfo{URL: msg.LaunchURL}},
			}},
		}
		if err := params.AddInterface("reply_markup", markup); err != nil {
			return fmt.Errorf("encode reply markup: %w", err)
		}
	}

	if _, err := m.bot.MakeRequest("sendMessage", params); err != nil {
		return fmt.Errorf("send message to %s: %w", chatID, err)
	}
	return nil
}
