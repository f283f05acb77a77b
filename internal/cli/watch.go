package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/dyike/CreditIntel/config"
	"github.com/dyike/CreditIntel/internal/dashboard"
	"github.com/dyike/CreditIntel/internal/display"
)

func newWatchCmd(a *app) *cobra.Command {
	var interval time.Duration
	cmd := &cobra.Command{
		Use:   "watch [NAME]",
		Short: "Re-render the dashboard on every refresh interval",
		Long: `Keep the dashboard on screen and refresh it every refresh interval.
Edits to the configuration file (API URL, refresh interval) apply on the next tick.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if interval > 0 {
				a.cfg.RefreshInterval = interval
			}
			err := newWatcher(a).run(cmd.Context(), firstArg(args))
			if isCancelled(err) {
				return nil
			}
			return err
		},
	}
	cmd.Flags().DurationVar(&interval, "interval", 0, "Refresh interval (default from configuration)")
	return cmd
}

type watcher struct {
	app     *app
	view    *dashboard.View
	changes chan config.Change
}

func newWatcher(a *app) *watcher {
	return &watcher{
		app:     a,
		view:    a.newView(),
		changes: make(chan config.Change, 1),
	}
}

func (w *watcher) run(ctx context.Context, name string) error {
	if w.app.mgr != nil {
		err := w.app.mgr.Watch(ctx, func(c config.Change) {
			// keep only the latest change
			select {
			case <-w.changes:
			default:
			}
			w.changes <- c
		})
		if err != nil {
			DisplayWarning(w.app.out, fmt.Sprintf("config hot reload disabled: %v", err))
		}
	}

	w.loadAndSelect(ctx, name)
	w.draw()

	ticker := time.NewTicker(w.app.cfg.RefreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case c := <-w.changes:
			if w.apply(ctx, c) {
				ticker.Reset(w.app.cfg.RefreshInterval)
			}
		case <-ticker.C:
			_ = w.view.Refresh(ctx)
			w.draw()
		}
	}
}

// apply adopts a reloaded configuration. A new endpoint gets a fresh view
// that returns to the company on screen. An --api-url flag keeps its URL.
// It reports whether the refresh interval changed.
func (w *watcher) apply(ctx context.Context, c config.Change) bool {
	next := c.Config
	if w.app.apiURL != "" {
		next.APIBaseURL = w.app.cfg.APIBaseURL
	}
	if w.app.debug {
		next.Debug = true
	}
	d := config.Diff(*w.app.cfg, next)
	*w.app.cfg = next

	if d.Endpoint {
		DisplayInfo(w.app.out, "Configuration changed, reconnecting to "+next.APIBaseURL)
		selected := ""
		if w.view.Selected != nil {
			selected = w.view.Selected.Name
		}
		w.view = w.app.newView()
		w.loadAndSelect(ctx, selected)
		w.draw()
	}
	return d.Interval
}

func (w *watcher) loadAndSelect(ctx context.Context, name string) {
	_ = w.view.Load(ctx)
	if name != "" && w.view.Err == nil && w.view.Selected != nil && w.view.Selected.Name != name {
		_ = w.view.Select(ctx, name)
	}
}

func (w *watcher) draw() {
	ClearScreen(w.app.out)
	fmt.Fprintln(w.app.out, display.Render(w.view, w.app.renderOptions()))
	fmt.Fprintf(w.app.out, "\nRefreshing every %s. Press Ctrl+C to stop. Last update %s\n",
		w.app.cfg.RefreshInterval, time.Now().Format("15:04:05"))
}
