package factory

import (
	"time"

	"github.com/eaglezone/eaglezone-bot/internal/dependencies/mocks"
	"github.com/eaglezone/eaglezone-bot/internal/services/onboarding"
	"github.com/eaglezone/eaglezone-bot/internal/services/referral"
	"github.com/eaglezone/eaglezone-bot/internal/storage/memory"
	"github.com/eaglezone/eaglezone-bot/internal/testutil"
)

// TestBotUsername is the bot username TestApp embeds in referral links
const TestBotUsername = "EagleZoneTestBot"

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock     *mocks.MockClock
	MockMessenger *mocks.MockMessenger
	MockAvatars   *mocks.MockAvatarResolver
}

// NewTestApp creates an App configured for testing with mocked dependencies
func NewTestApp() *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockMessenger := mocks.NewMockMessenger()
	mockAvatars := mocks.NewMockAvatarResolver()

	app := newWithDependencies(store, mockClock, mockMessenger, mockAvatars,
		referral.DefaultConfig(),
		onboarding.Config{WebAppURL: "https://game.test", BotUsername: TestBotUsername},
		testutil.NopLogger(),
	)

	return &TestApp{
		App:           app,
		MockClock:     mockClock,
		MockMessenger: mockMessenger,
		MockAvatars:   mockAvatars,
	}
}
