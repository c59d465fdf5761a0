package cmd

import (
	"fmt"
	"os"

	"github.com/killallgit/corpus-api/internal/logging"
	"github.com/killallgit/corpus-api/pkg/config"
	"github.com/spf13/cobra"
)

var configFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "corpus-api",
	Short: "Audio corpus annotation API server",
	Long: `corpus-api - upload and manage audio recordings and their annotation texts

Audio and text files are stored on disk and tracked in SQLite. An audio
file is linked to the text file whose name starts with the audio file's
base name, so "sample1.wav" pairs with "sample1_annotation.txt".

Features:
  • Multipart upload of audio files with language and format metadata
  • Multipart upload of .txt, .docx, .vtt and .srt annotation texts
  • Record listing with extracted annotation content
  • Record deletion with file and link cleanup
  • Reconciliation of records against the storage roots`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setupLogging(cmd, config.LoggingConfig{})
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

// NewRootCmd creates a new root command (exported for testing)
func NewRootCmd() *cobra.Command {
	return rootCmd
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default is "+config.DefaultConfigPath+")")

	// Logging flags override the logging section of the config file
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool("json-logs", false, "enable JSON formatted logs")
}

// loadConfig reads the config file and environment for commands that need it
// and reapplies logging with the configured defaults
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	if err := config.Load(configFile); err != nil {
		return nil, fmt.Errorf("error initializing config: %w", err)
	}

	cfg, err := config.GetConfig()
	if err != nil {
		return nil, err
	}

	if err := setupLogging(cmd, cfg.Logging); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setupLogging installs the default logger. Flags set on the command line
// win over the given defaults.
func setupLogging(cmd *cobra.Command, defaults config.LoggingConfig) error {
	flags := cmd.Flags()

	level := defaults.Level
	if level == "" || flags.Changed("log-level") {
		level, _ = flags.GetString("log-level")
	}

	format := defaults.Format
	if jsonLogs, _ := flags.GetBool("json-logs"); jsonLogs {
		format = "json"
	}

	_, err := logging.Setup(logging.Options{Level: level, Format: format})
	return err
}
