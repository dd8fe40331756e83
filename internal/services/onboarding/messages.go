package onboarding

import (
	"fmt"
	"strings"

	"github.com/eaglezone/eaglezone-bot/internal/dependencies/messenger"
	"github.com/eaglezone/eaglezone-bot/internal/model"
	"github.com/eaglezone/eaglezone-bot/internal/services/referral"
)

const (
	launchLabel  = "🚀 Launch game"
	apologyText  = "⚠️ Something went wrong. Please try again later."
	currencyName = "EAGLE"
)

// InvitationMessage is the reply every arriving player gets
func (s *Service) InvitationMessage(player *model.Player) messenger.Message {
	var b strings.Builder
	b.WriteString("🔥 This is *EagleZone*, a next-level clicker.\n\n")
	b.WriteString("💸 You can earn real $" + currencyName + " here, but entry is by code only.\n\n")
	b.WriteString("🚀 Got a code? Then let's go:")

	if s.cfg.BotUsername != "" {
		// Code span so underscores in the link survive Markdown parsing
		fmt.Fprintf(&b, "\n\n👥 Your invite link: `%s`", referral.Link(s.cfg.BotUsername, player.ID))
	}

	return messenger.Message{
		Text:        b.String(),
		Markdown:    true,
		LaunchLabel: launchLabel,
		LaunchURL:   s.cfg.WebAppURL,
	}
}

// ReferrerNotification tells a referrer about a newly credited friend.
// Sent as plain text since display names are user-controlled.
func ReferrerNotification(credit *referral.Credit, friendName string) messenger.Message {
	text := fmt.Sprintf("🎉 A new friend (%s) joined with your code!\nYou received +%d %s!",
		friendName, credit.Amount(), currencyName)
	if credit.BatchBonus > 0 {
		text += fmt.Sprintf("\n🏆 That includes a +%d %s bonus for reaching %d friends.",
			credit.BatchBonus, currencyName, credit.TotalReferrals)
	}
	return messenger.Message{Text: text}
}

// ApologyMessage is sent when onboarding fails on a store error
func ApologyMessage() messenger.Message {
	return messenger.Message{Text: apologyText}
}
