// Package main implements the blogrelay command: an HTTP server that turns
// blog topics into generated articles stored in S3-compatible object storage,
// plus one-shot generation and artifact index migrations.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// version is set at build time via -ldflags.
var version = "dev"

// configPath is the --config flag shared by every subcommand.
var configPath string

var rootCmd = &cobra.Command{
	Use:   "blogrelay",
	Short: "Generate blog articles from topics and store them in object storage",
	Long: `blogrelay accepts a blog topic, asks a text-generation service for an
article, and stores the result as a plain-text object whose public URL is
returned to the caller.`,
	SilenceUsage: true,
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a config file (default: ./config.yaml if present)")
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.Version = version
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
