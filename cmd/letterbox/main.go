package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "letterbox",
	Short: "A swipeable card-stack inbox for the terminal",
	Long: "letterbox shows your mail as a stack of cards. Swipe a card left to " +
		"delete it, right to mark it important, or open it to read the letter.",
	SilenceUsage: true,
	RunE:         runInbox,
}

func main() {
	addRootFlags(rootCmd)
	addList(rootCmd)
	addImport(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
