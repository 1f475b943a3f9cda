package commands

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/penwyp/go-timeline/internal/application/watch"
	"github.com/penwyp/go-timeline/internal/config"
	"github.com/penwyp/go-timeline/internal/core/timeline"
	"github.com/penwyp/go-timeline/internal/presentation/display"
	"github.com/penwyp/go-timeline/internal/presentation/layout"
	"github.com/penwyp/go-timeline/internal/util"
	"github.com/spf13/cobra"
)

var (
	watchDebounce time.Duration
	watchInterval time.Duration
)

var watchCmd = &cobra.Command{
	Use:   "watch <path>",
	Short: "Re-render a file's timeline as it changes",
	Long: `Renders the timeline of a file and redraws it whenever the file changes,
a provider is added or removed, or the configuration file is edited.

Press Ctrl+C to stop.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", 300*time.Millisecond,
		"Quiet period after a change before redrawing")
	watchCmd.Flags().DurationVar(&watchInterval, "refresh", time.Minute,
		"Periodic redraw interval (0 disables)")
}

func runWatch(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	v, err := newView()
	if err != nil {
		return err
	}

	path := expandPath(args[0])
	if info, err := os.Stat(path); err != nil {
		return fmt.Errorf("cannot watch %s: %w", path, err)
	} else if info.IsDir() {
		return fmt.Errorf("cannot watch %s: is a directory", path)
	}

	sizer := layout.Stdout()
	screen := display.NewTerminalDisplay(cmd.OutOrStdout(), sizer.IsTerminal(), sizer.GetMaxWidth())
	screen.EnterAlternateScreen()
	defer screen.ExitAlternateScreen()

	render := func(result *timeline.Result) error {
		var frame bytes.Buffer
		fmt.Fprintln(&frame, util.FormatHeaderTitle(fmt.Sprintf("go-timeline: %s", path)))
		fmt.Fprintf(&frame, "%s%d providers, Ctrl+C to stop%s\n", util.ColorDim, result.Providers, util.ColorReset)
		if err := v.render(&frame, &frame, result); err != nil {
			return err
		}
		_, err := screen.Render(frame.String())
		return err
	}

	orchestrator, err := watch.NewOrchestrator(&watch.WatchConfig{
		Path:            path,
		Since:           v.sinceAt,
		Debounce:        watchDebounce,
		RefreshInterval: watchInterval,
	}, a.service, render)
	if err != nil {
		return err
	}

	if _, err := os.Stat(a.loader.Path()); err == nil {
		a.loader.Watch(func(cfg *config.Config, err error) {
			if err != nil {
				util.LogWarnf("Ignoring invalid configuration change: %v", err)
				return
			}
			if err := a.reload(cfg); err != nil {
				util.LogWarnf("Failed to reload providers: %v", err)
			}
			orchestrator.Trigger()
		})
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return orchestrator.Run(ctx)
}
