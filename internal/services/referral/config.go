package referral

// Config holds the reward schedule for referrals
type Config struct {
	// InviteBonus is paid for every credited friend
	InviteBonus int64
	// FriendsPerReward is the batch size that triggers RewardAmount
	FriendsPerReward int
	// RewardAmount is paid each time the referral count reaches a multiple of FriendsPerReward
	RewardAmount int64
}

// DefaultConfig returns the standard reward schedule
func DefaultConfig() Config {
	return Config{
		InviteBonus:      500,
		FriendsPerReward: 10,
		RewardAmount:     10000,
	}
}
