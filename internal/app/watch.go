package app

import (
	"errors"
	"fmt"
	"io"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/blackwell-systems/basketmine/internal/analyzer"
	"github.com/blackwell-systems/basketmine/internal/config"
	"github.com/blackwell-systems/basketmine/internal/output"
	"github.com/blackwell-systems/basketmine/internal/scanner"
	"github.com/blackwell-systems/basketmine/internal/store"
	"github.com/blackwell-systems/basketmine/internal/watcher"
)

var (
	watchDaemon      bool
	watchDaemonChild bool
	watchPIDFile     string
	watchLogFile     string
	watchStop        bool
	watchInterval    time.Duration

	watchCmd = &cobra.Command{
		Use:   "watch [dir]",
		Short: "Re-import and re-mine transaction files when they change",
		Long: `Watch a data directory and keep the database in sync with it.

When a *.csv file is written or created, it is imported again (unchanged
contents are skipped) and mined with the configured engine and thresholds.
Each re-mine is recorded in the history. Changes are collected and handled
in batches.

Watch modes:
  • Foreground (default): Run in current terminal with Ctrl+C to stop
  • Daemon: Run as a background process logging to a file
  • Stop: Stop a running daemon`,
		Example: `  # Watch the configured data directory (Ctrl+C to stop)
  basketmine watch

  # Watch another directory as a background daemon
  basketmine watch ./exports --daemon

  # Stop running daemon
  basketmine watch --stop`,
		Args: cobra.MaximumNArgs(1),
		RunE: runWatch,
	}
)

func init() {
	watchCmd.Flags().BoolVar(&watchDaemon, "daemon", false, "run as background daemon")
	watchCmd.Flags().BoolVar(&watchDaemonChild, "daemon-child", false, "internal flag for daemon child process")
	watchCmd.Flags().StringVar(&watchPIDFile, "pid-file", "", "PID file path (default: ~/.basketmine/watch.pid)")
	watchCmd.Flags().StringVar(&watchLogFile, "log-file", "", "log file path (default: ~/.basketmine/watch.log)")
	watchCmd.Flags().BoolVar(&watchStop, "stop", false, "stop running daemon")
	watchCmd.Flags().DurationVar(&watchInterval, "interval", watcher.DefaultInterval, "how often changes are processed")

	// Hide the internal daemon-child flag from help
	watchCmd.Flags().MarkHidden("daemon-child")
}

func runWatch(cmd *cobra.Command, args []string) error {
	// Get default paths if not specified
	if watchPIDFile == "" {
		defaultPID, err := getDefaultPIDFile()
		if err != nil {
			return fmt.Errorf("failed to get default PID file path: %w", err)
		}
		watchPIDFile = defaultPID
	}

	if watchLogFile == "" {
		defaultLog, err := getDefaultLogFile()
		if err != nil {
			return fmt.Errorf("failed to get default log file path: %w", err)
		}
		watchLogFile = defaultLog
	}

	out := cmd.OutOrStdout()

	if watchStop {
		return stopWatchDaemon(out)
	}

	c, err := loadConfig()
	if err != nil {
		return err
	}

	dir := ""
	if len(args) == 1 {
		dir = args[0]
	} else if dir, err = getDataDir(c); err != nil {
		return err
	}

	if watchDaemon {
		return startWatchDaemon(out, dir)
	}

	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	w, err := watcher.New(dir, newRemineHandler(out, db, c))
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	w.Interval = watchInterval

	if watchDaemonChild {
		// stdout and stderr are redirected to the log file
		return w.RunUntilSignal(watchPIDFile)
	}

	fmt.Fprintf(out, "Watching %s for transaction files (press Ctrl+C to stop)...\n\n", dir)
	if err := w.RunUntilSignal(""); err != nil {
		return err
	}
	fmt.Fprintln(out, "✓ Watcher stopped")
	return nil
}

// newRemineHandler imports each changed file and mines the datasets whose
// contents changed. A failing file does not stop the others.
func newRemineHandler(out io.Writer, db *store.Store, c *config.Config) watcher.Handler {
	s := scanner.New(db)
	a := analyzer.New(db)

	return func(paths []string) error {
		params, err := c.Params()
		if err != nil {
			return err
		}

		var errs []error
		for _, path := range paths {
			ds, changed, err := s.ImportFile(path)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			if !changed {
				log.Debugf("watch: %s unchanged", path)
				continue
			}

			miner, err := newMiner(c.Algorithm, c.MaxItems, nil)
			if err != nil {
				return err
			}
			res, run, err := a.Run(ds.Name, miner, params)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			fmt.Fprintf(out, "%s  %s (run %s)\n",
				time.Now().Format("15:04:05"), output.RenderSummary(ds.Name, res), shortID(run.ID))
		}
		return errors.Join(errs...)
	}
}

func stopWatchDaemon(out io.Writer) error {
	running, err := watcher.IsDaemonRunning(watchPIDFile)
	if err != nil {
		return fmt.Errorf("failed to check daemon status: %w", err)
	}

	if !running {
		fmt.Fprintln(out, "Daemon is not running")
		return nil
	}

	if err := watcher.StopDaemon(watchPIDFile); err != nil {
		return fmt.Errorf("failed to stop daemon: %w", err)
	}
	fmt.Fprintln(out, "✓ Daemon stopped")

	return nil
}

// startWatchDaemon re-executes basketmine as a detached watch process with
// the same database and config.
func startWatchDaemon(out io.Writer, dir string) error {
	args := []string{"watch", dir, "--daemon-child",
		"--pid-file", watchPIDFile,
		"--interval", watchInterval.String()}
	if dbPath != "" {
		args = append(args, "--db", dbPath)
	}
	if configDir != "" {
		args = append(args, "--config", configDir)
	}
	if verbose {
		args = append(args, "--verbose")
	}

	pid, err := watcher.StartDaemon(watchPIDFile, watchLogFile, args)
	if err != nil {
		return fmt.Errorf("failed to start daemon: %w", err)
	}

	fmt.Fprintf(out, "✓ Watch daemon started (PID %d)\n", pid)
	fmt.Fprintf(out, "  Watching: %s\n", dir)
	fmt.Fprintf(out, "  PID file: %s\n", watchPIDFile)
	fmt.Fprintf(out, "  Log file: %s\n", watchLogFile)
	fmt.Fprintf(out, "\nTo stop: basketmine watch --stop\n")

	return nil
}
