package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rinapen/discord-game-bot/internal/engine"
	"github.com/rinapen/discord-game-bot/internal/games"
)

func verifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Replay a game outcome from a disclosed seed triple",
		Long: `Recomputes the outcome stream of one game from a revealed server seed,
client seed and nonce. The printed server_seed_hash must match the
commitment published before the game was played.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			gameName, _ := cmd.Flags().GetString("game")
			serverSeed, _ := cmd.Flags().GetString("server-seed")
			clientSeed, _ := cmd.Flags().GetString("client-seed")
			nonce, _ := cmd.Flags().GetUint64("nonce")
			mineCount, _ := cmd.Flags().GetInt("mines")
			draws, _ := cmd.Flags().GetInt("draws")

			game, err := games.Parse(gameName)
			if err != nil {
				return err
			}

			seedPair := engine.Seeds{Server: serverSeed, Client: clientSeed}
			outcome, err := games.Replay(game, seedPair, nonce, games.ReplayParams{
				MineCount: mineCount,
				Draws:     draws,
			})
			if err != nil {
				return err
			}

			report := map[string]any{
				"game":             string(game),
				"nonce":            nonce,
				"server_seed_hash": engine.HashSeed(serverSeed),
				"outcome":          outcome,
			}
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(report)
		},
	}

	cmd.Flags().String("game", "", "game to replay (mines, blackjack, dice, flip, roulette, rps)")
	cmd.Flags().String("server-seed", "", "revealed server seed")
	cmd.Flags().String("client-seed", "", "client seed in effect during play")
	cmd.Flags().Uint64("nonce", 0, "nonce of the game to replay")
	cmd.Flags().Int("mines", 0, "mine count (mines only)")
	cmd.Flags().Int("draws", 0, "how many draws to reproduce for open-ended games")
	cobra.CheckErr(cmd.MarkFlagRequired("game"))
	cobra.CheckErr(cmd.MarkFlagRequired("server-seed"))
	cobra.CheckErr(cmd.MarkFlagRequired("client-seed"))
	return cmd
}

func hashCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash <server-seed>",
		Short: "Print the SHA-256 commitment for a server seed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(os.Stdout, engine.HashSeed(args[0]))
			return err
		},
	}
}
