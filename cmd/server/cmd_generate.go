package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/phrazzld/blogrelay/internal/pipeline"
	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate <topic>",
	Short: "Generate and store one blog post, printing the result as JSON",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runGenerate,
}

func runGenerate(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)

	cfg, log, err := loadConfigAndLogger(configPath)
	if err != nil {
		return err
	}

	app, err := newApplication(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	defer app.cleanup()

	return generateOnce(ctx, app.relay, strings.Join(args, " "), cmd.OutOrStdout())
}

// generateOnce runs a single invocation for topic and writes the result to out.
func generateOnce(ctx context.Context, relay *pipeline.Relay, topic string, out io.Writer) error {
	result, err := relay.Run(ctx, topic)
	if err != nil {
		return fmt.Errorf("generation failed (%s): %w", pipeline.FailureReason(err), err)
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
