package redis

import (
	"fmt"

	"github.com/eaglezone/eaglezone-bot/internal/model"
)

// Key prefix for all bot data
const keyPrefix = "eaglezone"

// playerKey returns the Redis key for a Player document
func playerKey(id model.PlayerID) string {
	return fmt.Sprintf("%s:users:%s", keyPrefix, id)
}
