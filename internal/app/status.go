package app

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/basketmine/internal/config"
	"github.com/blackwell-systems/basketmine/internal/store"
	"github.com/blackwell-systems/basketmine/internal/watcher"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show imported datasets, run history and watcher status",
	Long: `Display the current state of basketmine.

Shows:
  • Watcher daemon status and PID
  • Database location and size
  • Number of datasets and transactions imported
  • Number of recorded runs and the most recent one
  • Number of golden snapshots
  • Active mining defaults and where they come from`,
	Example: `  # Check status
  basketmine status`,
	RunE: runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	c, err := loadConfig()
	if err != nil {
		return err
	}

	path, err := getDBPath()
	if err != nil {
		return fmt.Errorf("failed to get database path: %w", err)
	}

	out := cmd.OutOrStdout()
	const label = "%-14s"

	fi, err := os.Stat(path)
	if os.IsNotExist(err) {
		if _, dirErr := os.Stat(filepath.Dir(path)); os.IsNotExist(dirErr) {
			fmt.Fprintf(out, "Error: database path does not exist: %s\n", path)
			return nil
		}
		fmt.Fprintln(out, "basketmine is not set up — run 'basketmine generate' or 'basketmine scan' to get started.")
		return nil
	}

	st, err := store.New(path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer st.Close()

	datasets, err := st.ListDatasets()
	if err != nil {
		return err
	}
	transactions := 0
	for _, ds := range datasets {
		transactions += ds.Transactions
	}

	runCount, err := st.GetRunCount()
	if err != nil {
		return err
	}
	lastRun, err := st.GetLastRunTime()
	if err != nil {
		return err
	}
	snaps, err := st.ListSnapshots()
	if err != nil {
		return err
	}

	fmt.Fprintln(out)

	watchLine := "stopped  (run 'basketmine watch --daemon')"
	if pidFile, err := getDefaultPIDFile(); err == nil {
		if running, _ := watcher.IsDaemonRunning(pidFile); running {
			watchLine = fmt.Sprintf("running (%s)", pidFile)
		}
	}
	fmt.Fprintf(out, label+"%s\n", "Watcher:", watchLine)
	fmt.Fprintf(out, label+"%s · %s\n", "Database:", path, formatBytes(fi.Size()))
	fmt.Fprintf(out, label+"%d datasets · %d transactions\n", "Datasets:", len(datasets), transactions)

	last := "never"
	if !lastRun.IsZero() {
		last = formatAge(time.Since(lastRun)) + " ago"
	}
	fmt.Fprintf(out, label+"%d recorded · last %s\n", "Runs:", runCount, last)
	fmt.Fprintf(out, label+"%d\n", "Snapshots:", len(snaps))

	source := "built-in defaults"
	if dir := configDir; dir != "" {
		source = filepath.Join(dir, config.FileName)
	} else if dir, err := config.Dir(); err == nil {
		if _, err := os.Stat(filepath.Join(dir, config.FileName)); err == nil {
			source = filepath.Join(dir, config.FileName)
		}
	}
	params, err := c.Params()
	if err != nil {
		return err
	}
	fmt.Fprintf(out, label+"%s · support %s · confidence %.2f (%s)\n", "Defaults:",
		c.Algorithm, params.MinSupport, params.MinConfidence, source)
	fmt.Fprintf(out, label+"%s\n", "Data dir:", c.DataDir)

	fmt.Fprintln(out)
	return nil
}

// formatAge converts a duration to a short human-readable string.
func formatAge(d time.Duration) string {
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd", int(d.Hours()/24))
	}
}

// formatBytes converts bytes to human-readable size.
func formatBytes(bytes int64) string {
	const (
		KB = 1024
		MB = 1024 * KB
		GB = 1024 * MB
	)

	switch {
	case bytes >= GB:
		return fmt.Sprintf("%.1f GB", float64(bytes)/float64(GB))
	case bytes >= MB:
		return fmt.Sprintf("%.1f MB", float64(bytes)/float64(MB))
	case bytes >= KB:
		return fmt.Sprintf("%.0f KB", float64(bytes)/float64(KB))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}
