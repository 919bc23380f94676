package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "tablekit",
		Short: "Reactive table state for server-driven Go UIs",
		Long: `Tablekit serves filterable, paginated table state over WebSocket.

A table is loaded from a dataset source (static, file or S3), filtered
and paginated on the server, and kept in sync with connected clients:

  • Conjunctive search, category, status and custom filters
  • Windowed page number lists with ellipsis markers
  • Filter and pagination state mirrored into the page URL
  • Prometheus metrics and OpenTelemetry tracing per event`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		serveCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "\033[31mError:\033[0m %s\n", err)
		os.Exit(1)
	}
}
