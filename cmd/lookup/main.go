package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "lookup",
		Short: "NYC building report lookup",
		Long: `Look up habitability, rent, and stabilization reports for NYC addresses.
Settings come from the same environment variables as the report service.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(createSearchCmd())
	rootCmd.AddCommand(createSuggestCmd())
	rootCmd.AddCommand(createHistoryCmd())
	return rootCmd
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}
