package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "casinod",
	Short: "Provably fair casino game engine",
}

func init() {
	rootCmd.AddCommand(
		serveCmd(),
		verifyCmd(),
		hashCmd(),
	)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
