package cli

import (
	"net/url"

	"github.com/spf13/cobra"
)

func newPlayerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "player",
		Short: "Player inspection commands",
	}

	cmd.AddCommand(newPlayerGetCmd())
	cmd.AddCommand(newPlayerStartCmd())

	return cmd
}

func playerPath(id string) string {
	return "/api/v1/players/" + url.PathEscape(id)
}

func newPlayerGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <player-id>",
		Short: "Show a player record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Player

			if err := client.Get(cmd.Context(), playerPath(args[0]), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output, cmd.OutOrStdout())
			out.Print(result)
			return nil
		},
	}
}

func newPlayerStartCmd() *cobra.Command {
	var ref, chatID, username, firstName, lastName string

	cmd := &cobra.Command{
		Use:   "start <player-id>",
		Short: "Replay a start command for a player",
		Long: `Replays a start command as if the player had sent it to the bot.
The bot's replies are delivered to the player's chat (or --chat).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{
				"referral_token": ref,
				"chat_id":        chatID,
				"username":       username,
				"first_name":     firstName,
				"last_name":      lastName,
			}
			var result StartResult

			if err := client.Post(cmd.Context(), playerPath(args[0])+"/start", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output, cmd.OutOrStdout())
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&ref, "ref", "", "Referral token, e.g. ref_12345")
	cmd.Flags().StringVar(&chatID, "chat", "", "Chat to reply to (defaults to the player)")
	cmd.Flags().StringVar(&username, "username", "", "Telegram username")
	cmd.Flags().StringVar(&firstName, "first-name", "", "First name")
	cmd.Flags().StringVar(&lastName, "last-name", "", "Last name")

	return cmd
}
