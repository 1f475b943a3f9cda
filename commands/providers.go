package commands

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/penwyp/go-timeline/internal/config"
	"github.com/penwyp/go-timeline/internal/presentation/layout"
	"github.com/spf13/cobra"
)

var providersInit bool

var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "List configured timeline providers",
	Long: `Lists the providers defined in the configuration file, or the built-in
git and filestat providers when there is none.

Use --init to write the built-in configuration to the config file as a
starting point.`,
	Args: cobra.NoArgs,
	RunE: runProviders,
}

func init() {
	rootCmd.AddCommand(providersCmd)

	providersCmd.Flags().BoolVar(&providersInit, "init", false,
		"Write a default config file if none exists")
}

func runProviders(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	if providersInit {
		path := configPath
		if path == "" {
			path = config.FilePath()
		}
		path = expandPath(path)
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config file %s already exists", path)
		} else if !errors.Is(err, os.ErrNotExist) {
			return err
		}
		if err := config.Save(path, config.Default()); err != nil {
			return err
		}
		fmt.Fprintf(out, "Wrote default configuration to %s\n\n", path)
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	active := a.service.Providers()
	sizer := layout.Stdout()

	headers := []string{"ID", "TYPE", "CACHED", "ACTIVE"}
	rows := [][]string{}
	for _, pc := range a.currentConfig().Providers {
		id := providerID(pc)
		cached := "no"
		if pc.Cache {
			cached = "yes"
		}
		isActive := "no"
		if slices.Contains(active, id) {
			isActive = "yes"
		}
		rows = append(rows, []string{id, pc.Type, cached, isActive})
	}

	widths := make([]int, len(headers))
	for _, row := range append([][]string{headers}, rows...) {
		for i, value := range row {
			widths[i] = max(widths[i], sizer.DisplayWidth(value))
		}
	}

	for _, row := range append([][]string{headers}, rows...) {
		cells := make([]string, len(row))
		for i, value := range row {
			cells[i] = sizer.PadString(value, widths[i], true)
		}
		fmt.Fprintln(out, strings.TrimRight(strings.Join(cells, "  "), " "))
	}
	return nil
}
