package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var layoutFile string

var rootCmd = &cobra.Command{
	Use:          "smartcampus",
	Short:        "Smart campus parking layout and occupancy server",
	SilenceUsage: true,
}

func Execute() {
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(layoutCmd())
	rootCmd.AddCommand(tokenCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&layoutFile, "layout", "", "Layout JSON file (overrides LAYOUT_FILE)")
}
