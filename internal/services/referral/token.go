package referral

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/eaglezone/eaglezone-bot/internal/model"
)

// TokenPrefix marks a start parameter as a referral token
const TokenPrefix = "ref_"

// Telegram deep-link start parameters allow [A-Za-z0-9_-] up to 64 chars
var playerIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// ParseToken extracts the referrer id from a token of the form ref_<id>.
// Anything that does not match yields ok == false.
func ParseToken(token string) (model.PlayerID, bool) {
	token = strings.TrimSpace(token)
	id, found := strings.CutPrefix(token, TokenPrefix)
	if !found || !playerIDPattern.MatchString(id) {
		return "", false
	}
	return model.PlayerID(id), true
}

// Token encodes id as a referral token
func Token(id model.PlayerID) string {
	return TokenPrefix + string(id)
}

// Link builds the deep link other players follow to be attributed to id
func Link(botUsername string, id model.PlayerID) string {
	return fmt.Sprintf("https://t.me/%s?start=%s", strings.TrimPrefix(botUsername, "@"), Token(id))
}

// ValidPlayerID reports whether id can be carried in a referral token
func ValidPlayerID(id model.PlayerID) bool {
	return playerIDPattern.MatchString(string(id))
}
