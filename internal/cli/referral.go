package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/eaglezone/eaglezone-bot/internal/model"
	"github.com/eaglezone/eaglezone-bot/internal/services/referral"
)

func newReferralCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "referral",
		Short: "Referral helpers",
	}

	cmd.AddCommand(newReferralLinkCmd())

	return cmd
}

func newReferralLinkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "link <player-id>",
		Short: "Print a player's referral link",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.BotUsername == "" {
				return errors.New("--bot is required (env: BOT_USERNAME)")
			}
			id := model.PlayerID(args[0])
			if !referral.ValidPlayerID(id) {
				return model.ErrInvalidPlayer
			}

			out := NewOutput(cfg.Output, cmd.OutOrStdout())
			out.PrintMessage(referral.Link(cfg.BotUsername, id))
			return nil
		},
	}

	cmd.Flags().StringVar(&cfg.BotUsername, "bot", cfg.BotUsername, "Bot username (env: BOT_USERNAME)")

	return cmd
}
