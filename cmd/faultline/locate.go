package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"faultline/internal/bisect"
)

var watchMode bool

// locateCmd runs fault localization over one or more files. Files are
// independent localization calls, so they run concurrently up to the
// configured limit.
var locateCmd = &cobra.Command{
	Use:   "locate [file...]",
	Short: "Locate the faulty line in rejected rule files",
	Long: `Localizes the earliest offending line per file.

For every file the oracle rejects, prints the 1-based line number, the
oracle's diagnostic for the minimal failing prefix, and the offending line.
With --watch (single file only), re-runs localization whenever the file
changes, until interrupted.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runLocate,
}

func init() {
	locateCmd.Flags().BoolVarP(&watchMode, "watch", "w", false, "re-run on file change (single file)")
}

func runLocate(cmd *cobra.Command, args []string) error {
	locator, err := newConfiguredLocator()
	if err != nil {
		return err
	}

	files, err := expandArgs(args)
	if err != nil {
		return err
	}

	if watchMode {
		if len(files) != 1 {
			return errors.New("--watch requires exactly one file")
		}
		return watchAndLocate(cmd.Context(), locator, files[0])
	}

	results := make([]string, len(files))
	faults := make([]bool, len(files))

	g, ctx := errgroup.WithContext(cmd.Context())
	limit := cfg.Locator.MaxConcurrentFiles
	if limit <= 0 {
		limit = 4
	}
	g.SetLimit(limit)

	for i, file := range files {
		g.Go(func() error {
			out, faulty, err := locateFile(ctx, locator, file)
			if err != nil {
				return err
			}
			results[i], faults[i] = out, faulty
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	hasFault := false
	for i, r := range results {
		fmt.Print(r)
		hasFault = hasFault || faults[i]
	}
	if hasFault {
		os.Exit(1)
	}
	return nil
}

func newConfiguredLocator() (*bisect.Locator, error) {
	o, err := buildOracle(cfg.Oracle.Kind)
	if err != nil {
		return nil, err
	}
	completer, err := buildCompleter(cfg.Locator.Completer)
	if err != nil {
		return nil, err
	}
	return bisect.NewLocator(o,
		bisect.WithCompleter(completer),
		bisect.WithLogger(logger.Named("bisect")),
	), nil
}

// locateFile localizes one file and renders its result. hasFault is true
// when the oracle rejected the file.
func locateFile(ctx context.Context, locator *bisect.Locator, file string) (out string, hasFault bool, err error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return "", false, fmt.Errorf("read %s: %w", file, err)
	}

	loc, err := locator.FindFaultyLine(ctx, string(data))
	if err != nil {
		if errors.Is(err, bisect.ErrBlankSource) {
			return fmt.Sprintf("%s: blank source, nothing to localize\n", file), false, nil
		}
		return "", false, fmt.Errorf("localize %s: %w", file, err)
	}
	if loc == nil {
		return fmt.Sprintf("OK: %s\n", file), false, nil
	}
	return fmt.Sprintf("%s:%d: %s\n  >> %s\n", file, loc.Line, loc.Message, loc.Content), true, nil
}

// watchAndLocate re-runs localization whenever the file is written.
// Rapid editor saves are debounced.
func watchAndLocate(parent context.Context, locator *bisect.Locator, file string) error {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory, not the file: editors replace files on save and
	// the watch on the old inode would go stale.
	dir := filepath.Dir(file)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	run := func() {
		out, _, err := locateFile(ctx, locator, file)
		if err != nil {
			logger.Warn("localization failed", zap.Error(err))
			return
		}
		fmt.Print(out)
	}
	run()

	const debounce = 500 * time.Millisecond
	var lastRun time.Time

	target, _ := filepath.Abs(file)
	for {
		select {
		case <-ctx.Done():
			return nil
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", zap.Error(err))
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if abs, _ := filepath.Abs(event.Name); abs != target {
				continue
			}
			if time.Since(lastRun) < debounce {
				continue
			}
			lastRun = time.Now()
			run()
		}
	}
}
