package telegram

import (
	"context"
	"fmt"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/eaglezone/eaglezone-bot/internal/model"
	"github.com/eaglezone/eaglezone-bot/internal/services/avatar"
)

// PhotoSource reads profile photos through the Bot API
type PhotoSource struct {
	bot BotAPI
}

// NewPhotoSource creates a PhotoSource
func NewPhotoSource(bot BotAPI) *PhotoSource {
	return &PhotoSource{bot: bot}
}

// Ensure PhotoSource implements avatar.PhotoSource
var _ avatar.PhotoSource = (*PhotoSource)(nil)

// ProfilePhotoURL returns a download URL for the player's newest profile
// photo at its largest size
func (p *PhotoSource) ProfilePhotoURL(ctx context.Context, id model.PlayerID) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	userID, err := strconv.ParseInt(string(id), 10, 64)
	if err != nil {
		return "", fmt.Errorf("player id %q is not a telegram user id: %w", id, err)
	}

	cfg := tgbotapi.NewUserProfilePhotos(userID)
	cfg.Limit = 1
	photos, err := p.bot.GetUserProfilePhotos(cfg)
	if err != nil {
		return "", fmt.Errorf("get profile photos: %w", err)
	}
	if photos.TotalCount == 0 || len(photos.Photos) == 0 || len(photos.Photos[0]) == 0 {
		return "", avatar.ErrNoPhoto
	}

	sizes := photos.Photos[0]
	return p.bot.GetFileDirectURL(sizes[len(sizes)-1].FileID)
}
