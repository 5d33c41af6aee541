package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/videodiary/diary-api/pkg/config"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "diary-api",
	Short: "Video Diary API server",
	Long: `Video Diary API - trim videos into diary entries and browse them

The server accepts a source video and a trim range, extracts the clip
with a matching thumbnail, stores both durably, and catalogs the entry
for search and playback.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// NewRootCmd returns the root command (exported for testing)
func NewRootCmd() *cobra.Command {
	return rootCmd
}

// loadConfig initializes configuration for commands that need it
func loadConfig() (*config.Config, error) {
	if err := config.Init(); err != nil {
		return nil, fmt.Errorf("initializing config: %w", err)
	}
	return config.GetConfig()
}
