package avatar

import (
	"context"
	"errors"
	"log/slog"
	"net/url"

	"github.com/eaglezone/eaglezone-bot/internal/model"
)

// ErrNoPhoto is returned by a PhotoSource when the player has no profile photo
var ErrNoPhoto = errors.New("player has no profile photo")

// PlaceholderBaseURL generates a deterministic identicon per seed
const PlaceholderBaseURL = "https://api.dicebear.com/7.x/identicon/svg"

// PhotoSource looks up a player's real profile photo
type PhotoSource interface {
	ProfilePhotoURL(ctx context.Context, id model.PlayerID) (string, error)
}

// Resolver always produces an avatar URL; it has no failure mode
type Resolver interface {
	Resolve(ctx context.Context, id model.PlayerID) string
}

// PlaceholderURL returns the generated avatar for id
func PlaceholderURL(id model.PlayerID) string {
	return PlaceholderBaseURL + "?seed=" + url.QueryEscape(string(id))
}

// Service resolves avatars from a PhotoSource, falling back to a placeholder
type Service struct {
	source PhotoSource
	logger *slog.Logger
}

// New creates a new avatar Service. A nil source always yields placeholders.
func New(source PhotoSource, logger *slog.Logger) *Service {
	return &Service{
		source: source,
		logger: logger,
	}
}

// Ensure Service implements Resolver
var _ Resolver = (*Service)(nil)

// Resolve returns the player's profile photo URL or the placeholder
func (s *Service) Resolve(ctx context.Context, id model.PlayerID) string {
	if s.source == nil {
		return PlaceholderURL(id)
	}

	photoURL, err := s.source.ProfilePhotoURL(ctx, id)
	if err != nil || photoURL == "" {
		if err != nil && !errors.Is(err, ErrNoPhoto) {
			s.logger.Warn("avatar lookup failed, using placeholder",
				slog.String("player_id", string(id)),
				slog.String("error", err.Error()),
			)
		}
		return PlaceholderURL(id)
	}
	return photoURL
}
