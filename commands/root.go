package commands

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/penwyp/go-timeline/internal/core/timeline"
	"github.com/penwyp/go-timeline/internal/presentation/formatter"
	"github.com/penwyp/go-timeline/internal/util"
	"github.com/spf13/cobra"
)

var (
	// Logging related
	debug bool

	// Configuration file
	configPath string

	// Query related
	since          string
	providerFilter []string

	// Output related
	outputFormat string
	timezone     string
	limit        int
	reverse      bool

	rootCmd = &cobra.Command{
		Use:   "go-timeline [flags] <path-or-uri>",
		Short: "Chronological history of a file from many sources",
		Long: `go-timeline builds one timeline for a file by asking every configured provider
(git history, filesystem times, event journals, plugin commands) for events and
merging them by time.

Examples:
  go-timeline main.go                              # Full history of main.go
  go-timeline main.go --since 7d                   # Events of the last 7 days
  go-timeline main.go --since 2w3d -o json         # JSON output
  go-timeline main.go --provider git --limit 20    # 20 most recent commits
  go-timeline main.go --reverse                    # Newest first
  go-timeline https://tracker.example.com/T-42     # Non-file resource for plugin providers`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runQuery,
	}
)

const (
	defaultLogFile = "~/.go-timeline/logs/app.log"
)

func init() {
	// Configuration
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Config file (default ~/.go-timeline/config.yaml)")

	// Query
	rootCmd.PersistentFlags().StringVar(&since, "since", "",
		"Only events after this point (e.g., 12h, 7d, 2w3d, 2024-01-31, RFC3339)")
	rootCmd.PersistentFlags().StringSliceVarP(&providerFilter, "provider", "p", nil,
		"Only query these provider ids (repeatable)")

	// Output configuration
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", formatter.FormatTable,
		"Output format (table, json, csv, yaml)")
	rootCmd.PersistentFlags().StringVar(&timezone, "timezone", "Local",
		"Timezone setting (e.g., Asia/Shanghai, UTC)")
	rootCmd.PersistentFlags().IntVar(&limit, "limit", 0,
		"Show only the most recent N events (0 = unlimited)")
	rootCmd.PersistentFlags().BoolVar(&reverse, "reverse", false,
		"Newest events first")

	// System and debugging
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false,
		"Enable debug mode")
}

func runQuery(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	v, err := newView()
	if err != nil {
		return err
	}

	now := util.GetTimeProvider().Now()
	result := a.service.Query(context.Background(), timeline.ParseResource(args[0]), v.sinceAt(now))
	return v.render(cmd.OutOrStdout(), cmd.ErrOrStderr(), result)
}

func Execute() error {
	return rootCmd.Execute()
}

// Helper functions

func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path[2:])
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return absPath
}

func ensureDir(dir string) error {
	return os.MkdirAll(dir, 0755)
}
