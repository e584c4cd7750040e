// Package output provides terminal output utilities for basketmine.
//
// This package includes:
//   - Table rendering for itemsets, rules, datasets, runs, snapshots and timings
//   - Progress bars for long candidate scans
//   - Spinners for indeterminate operations
//   - Human-readable formatting for durations, dates and supports
//
// All table rendering functions use ASCII characters and ANSI color codes for terminal output.
// Progress indicators are thread-safe and can be used from multiple goroutines.
package output

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/mattn/go-isatty"

	"github.com/blackwell-systems/basketmine/internal/analyzer"
	"github.com/blackwell-systems/basketmine/internal/compare"
	"github.com/blackwell-systems/basketmine/internal/mining"
	"github.com/blackwell-systems/basketmine/internal/store"
)

// ANSI color codes for rule strength display
const (
	colorReset  = "\033[0m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorRed    = "\033[31m"
	colorGray   = "\033[90m"
)

// IsColorEnabled returns true if ANSI color codes should be emitted.
// It checks that os.Stdout is a TTY and that the NO_COLOR env var is not set.
func IsColorEnabled() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isatty.IsTerminal(os.Stdout.Fd())
}

// colorize wraps text in the given ANSI color code if color is enabled,
// otherwise returns the plain text.
func colorize(color, text string) string {
	if IsColorEnabled() {
		return color + text + colorReset
	}
	return text
}

// RenderItemsetTable renders frequent itemsets in the order given. A
// positive limit caps the number of rows.
func RenderItemsetTable(entries []mining.ItemsetSupport, limit int) string {
	if len(entries) == 0 {
		return "No frequent itemsets found.\n"
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("%-40s %-5s %-7s %s\n",
		"Itemset", "Size", "Count", "Support"))
	sb.WriteString(strings.Repeat("─", 64))
	sb.WriteString("\n")

	shown := entries
	if limit > 0 && len(shown) > limit {
		shown = shown[:limit]
	}
	for _, e := range shown {
		sb.WriteString(fmt.Sprintf("%-40s %-5d %-7d %s\n",
			truncate(e.Itemset.String(), 40),
			e.Itemset.Len(),
			e.Count,
			formatSupport(e.Support)))
	}
	if hidden := len(entries) - len(shown); hidden > 0 {
		sb.WriteString(fmt.Sprintf("... %d more (use --top 0 to show all)\n", hidden))
	}

	return sb.String()
}

// RenderRuleTable renders association rules with their strength tier.
// Note: Does not sort - expects rules to be pre-sorted by caller.
func RenderRuleTable(rules []mining.Rule, limit int) string {
	if len(rules) == 0 {
		return "No association rules found.\n"
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("%-44s %-8s %-10s %-7s %s\n",
		"Rule", "Support", "Confidence", "Lift", "Strength"))
	sb.WriteString(strings.Repeat("─", 86))
	sb.WriteString("\n")

	shown := rules
	if limit > 0 && len(shown) > limit {
		shown = shown[:limit]
	}
	for _, r := range shown {
		tier := analyzer.ClassifyRule(r)
		sb.WriteString(fmt.Sprintf("%-44s %-8s %-10s %-7s %s\n",
			truncate(r.String(), 44),
			formatSupport(r.Support),
			formatSupport(r.Confidence),
			fmt.Sprintf("%.2f", r.Lift),
			colorize(getTierColor(tier), formatTierLabel(tier))))
	}
	if hidden := len(rules) - len(shown); hidden > 0 {
		sb.WriteString(fmt.Sprintf("... %d more (use --top 0 to show all)\n", hidden))
	}

	return sb.String()
}

// formatTierLabel returns the display label for a strength tier.
func formatTierLabel(tier string) string {
	switch tier {
	case analyzer.TierStrong:
		return "✓ strong"
	case analyzer.TierPositive:
		return "+ positive"
	case analyzer.TierIndependent:
		return "~ independent"
	default:
		return "⚠ negative"
	}
}

// getTierColor returns the ANSI color code for a strength tier.
func getTierColor(tier string) string {
	switch tier {
	case analyzer.TierStrong:
		return colorGreen
	case analyzer.TierPositive:
		return colorYellow
	case analyzer.TierNegative:
		return colorRed
	default:
		return colorGray
	}
}

// TierCounts tallies rules per strength tier.
type TierCounts struct {
	Strong      int
	Positive    int
	Independent int
	Negative    int
}

// CountTiers classifies every rule.
func CountTiers(rules []mining.Rule) TierCounts {
	var c TierCounts
	for _, r := range rules {
		switch analyzer.ClassifyRule(r) {
		case analyzer.TierStrong:
			c.Strong++
		case analyzer.TierPositive:
			c.Positive++
		case analyzer.TierIndependent:
			c.Independent++
		default:
			c.Negative++
		}
	}
	return c
}

// RenderSummary renders a one-line overview of a mining result.
// Format: "Amazon: 25 transactions · 15 items · 18 itemsets · 15 rules (apriori, 1.2ms)"
func RenderSummary(dataset string, res *mining.Result) string {
	itemsets := 0
	if res.Frequent != nil {
		itemsets = res.Frequent.Len()
	}
	return fmt.Sprintf("%s: %d transactions · %d items · %d itemsets · %d rules (%s, %s)",
		dataset, res.Transactions, res.Items, itemsets, len(res.Rules),
		res.Algorithm, formatDuration(res.Stats.Elapsed))
}

// RenderTierSummary renders a colored one-line strength breakdown.
// Format: "STRONG: 5 · POSITIVE: 7 · INDEPENDENT: 2 · NEGATIVE: 1"
func RenderTierSummary(c TierCounts) string {
	parts := []string{
		colorize(colorGreen, "STRONG") + fmt.Sprintf(": %d", c.Strong),
		colorize(colorYellow, "POSITIVE") + fmt.Sprintf(": %d", c.Positive),
		colorize(colorGray, "INDEPENDENT") + fmt.Sprintf(": %d", c.Independent),
		colorize(colorRed, "NEGATIVE") + fmt.Sprintf(": %d", c.Negative),
	}
	return strings.Join(parts, " · ")
}

// DatasetResult pairs a dataset name with its mining result.
type DatasetResult struct {
	Dataset string
	Result  *mining.Result
}

// RenderResultsTable renders one summary row per mined dataset.
func RenderResultsTable(rows []DatasetResult) string {
	if len(rows) == 0 {
		return "No datasets mined.\n"
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("%-16s %-13s %-6s %-18s %-6s %s\n",
		"Dataset", "Transactions", "Items", "Frequent Itemsets", "Rules", "Elapsed"))
	sb.WriteString(strings.Repeat("─", 72))
	sb.WriteString("\n")

	for _, row := range rows {
		res := row.Result
		itemsets := 0
		if res.Frequent != nil {
			itemsets = res.Frequent.Len()
		}
		sb.WriteString(fmt.Sprintf("%-16s %-13d %-6d %-18d %-6d %s\n",
			truncate(row.Dataset, 16),
			res.Transactions,
			res.Items,
			itemsets,
			len(res.Rules),
			formatDuration(res.Stats.Elapsed)))
	}

	return sb.String()
}

// RenderDatasetTable renders imported datasets sorted by name.
func RenderDatasetTable(datasets []*store.Dataset) string {
	if len(datasets) == 0 {
		return "No datasets found.\n"
	}

	sorted := make([]*store.Dataset, len(datasets))
	copy(sorted, datasets)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Name < sorted[j].Name
	})

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("%-20s %-13s %-6s %-15s %s\n",
		"Dataset", "Transactions", "Items", "Imported", "Source"))
	sb.WriteString(strings.Repeat("─", 80))
	sb.WriteString("\n")

	for _, ds := range sorted {
		source := ds.SourcePath
		if source == "" {
			source = "generated"
		}
		sb.WriteString(fmt.Sprintf("%-20s %-13d %-6d %-15s %s\n",
			truncate(ds.Name, 20),
			ds.Transactions,
			ds.Items,
			formatRelativeTime(ds.ImportedAt),
			truncate(source, 40)))
	}

	return sb.String()
}

// RenderRunTable renders mining runs in the order given.
func RenderRunTable(runs []*store.Run) string {
	if len(runs) == 0 {
		return "No runs recorded.\n"
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("%-8s %-16s %-10s %-8s %-8s %-8s %-6s %-9s %s\n",
		"Run", "Dataset", "Algorithm", "MinSup", "MinConf", "Itemsets", "Rules", "Elapsed", "Started"))
	sb.WriteString(strings.Repeat("─", 96))
	sb.WriteString("\n")

	for _, r := range runs {
		sb.WriteString(fmt.Sprintf("%-8s %-16s %-10s %-8s %-8s %-8d %-6d %-9s %s\n",
			truncate(r.ID, 8),
			truncate(r.Dataset, 16),
			r.Algorithm,
			r.MinSupport,
			fmt.Sprintf("%.2f", r.MinConfidence),
			r.Itemsets,
			r.Rules,
			formatDuration(r.Elapsed),
			formatRelativeTime(r.StartedAt)))
	}

	return sb.String()
}

// RenderSnapshotTable renders a table of snapshots.
func RenderSnapshotTable(snapshots []*store.Snapshot) string {
	if len(snapshots) == 0 {
		return "No snapshots found.\n"
	}

	// Sort by creation time descending (newest first)
	sorted := make([]*store.Snapshot, len(snapshots))
	copy(sorted, snapshots)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("%-5s %-17s %-16s %-10s %-8s %-8s %-8s %s\n",
		"ID", "Created", "Dataset", "Algorithm", "MinSup", "MinConf", "Itemsets", "Rules"))
	sb.WriteString(strings.Repeat("─", 86))
	sb.WriteString("\n")

	for _, snap := range sorted {
		sb.WriteString(fmt.Sprintf("%-5d %-17s %-16s %-10s %-8s %-8s %-8d %d\n",
			snap.ID,
			formatRelativeTime(snap.CreatedAt),
			truncate(snap.Dataset, 16),
			snap.Algorithm,
			snap.MinSupport,
			fmt.Sprintf("%.2f", snap.MinConfidence),
			snap.ItemsetCount,
			snap.RuleCount))
	}

	return sb.String()
}

// RenderTimingTable renders benchmark timings, fastest mean first.
func RenderTimingTable(timings []compare.Timing) string {
	if len(timings) == 0 {
		return "No timings recorded.\n"
	}

	sorted := make([]compare.Timing, len(timings))
	copy(sorted, timings)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Mean < sorted[j].Mean
	})

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("%-11s %-5s %-10s %-10s %-10s %-10s %-10s %-8s %s\n",
		"Algorithm", "Runs", "Mean", "Median", "StdDev", "Min", "Max", "Itemsets", "Rules"))
	sb.WriteString(strings.Repeat("─", 90))
	sb.WriteString("\n")

	for _, t := range sorted {
		sb.WriteString(fmt.Sprintf("%-11s %-5d %-10s %-10s %-10s %-10s %-10s %-8d %d\n",
			t.Algorithm,
			t.Runs,
			formatDuration(t.Mean),
			formatDuration(t.Median),
			formatDuration(t.StdDev),
			formatDuration(t.Min),
			formatDuration(t.Max),
			t.Itemsets,
			t.Rules))
	}

	return sb.String()
}

// RenderComparison renders the outcome of comparing two results.
func RenderComparison(left, right string, report *compare.Report) string {
	var sb strings.Builder
	if report.Equivalent() {
		sb.WriteString(colorize(colorGreen, "✓ "))
		sb.WriteString(fmt.Sprintf("%s and %s agree\n", left, right))
		return sb.String()
	}

	sb.WriteString(colorize(colorRed, "✗ "))
	sb.WriteString(fmt.Sprintf("%s and %s differ:\n", left, right))
	for _, d := range report.Differences() {
		sb.WriteString("  " + d + "\n")
	}
	return sb.String()
}

// RenderExplanation renders the support breakdown of one itemset.
func RenderExplanation(exp *analyzer.Explanation) string {
	var sb strings.Builder

	status := colorize(colorRed, "not frequent")
	if exp.Frequent {
		status = colorize(colorGreen, "frequent")
	}

	sb.WriteString(fmt.Sprintf("Itemset: %s\n", exp.Itemset))
	sb.WriteString(fmt.Sprintf("Dataset: %s (%d transactions)\n", exp.Dataset, exp.Transactions))
	sb.WriteString(fmt.Sprintf("Support: %s (%d/%d) · min %s · %s\n",
		formatSupport(exp.Support), exp.Count, exp.Transactions, exp.MinSupport, status))

	if len(exp.Unknown) > 0 {
		sb.WriteString(fmt.Sprintf("Unknown items: %s\n", strings.Join(exp.Unknown, ", ")))
	}

	if len(exp.Subsets) > 0 {
		sb.WriteString("\nSubsets:\n")
		for _, s := range exp.Subsets {
			sb.WriteString(fmt.Sprintf("  %-36s %3d  %s\n",
				truncate(s.Itemset.String(), 36), s.Count, formatSupport(s.Support)))
		}
	}

	if exp.Frequent {
		sb.WriteString("\n")
		sb.WriteString(RenderRuleTable(exp.Rules, 0))
	}

	return sb.String()
}

// formatSupport formats a ratio with four decimals.
func formatSupport(v float64) string {
	return fmt.Sprintf("%.4f", v)
}

// formatDuration rounds d to a readable precision.
func formatDuration(d time.Duration) string {
	switch {
	case d <= 0:
		return "0s"
	case d < time.Millisecond:
		return d.Round(time.Microsecond).String()
	case d < time.Second:
		return d.Round(10 * time.Microsecond).String()
	default:
		return d.Round(time.Millisecond).String()
	}
}

// formatRelativeTime converts a timestamp to relative time (e.g., "2 days ago").
func formatRelativeTime(t time.Time) string {
	if t.IsZero() {
		return "never"
	}

	diff := time.Since(t)

	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		mins := int(diff.Minutes())
		if mins == 1 {
			return "1 minute ago"
		}
		return fmt.Sprintf("%d minutes ago", mins)
	case diff < 24*time.Hour:
		hours := int(diff.Hours())
		if hours == 1 {
			return "1 hour ago"
		}
		return fmt.Sprintf("%d hours ago", hours)
	case diff < 7*24*time.Hour:
		days := int(diff.Hours() / 24)
		if days == 1 {
			return "1 day ago"
		}
		return fmt.Sprintf("%d days ago", days)
	case diff < 30*24*time.Hour:
		weeks := int(diff.Hours() / 24 / 7)
		if weeks == 1 {
			return "1 week ago"
		}
		return fmt.Sprintf("%d weeks ago", weeks)
	case diff < 365*24*time.Hour:
		months := int(diff.Hours() / 24 / 30)
		if months == 1 {
			return "1 month ago"
		}
		return fmt.Sprintf("%d months ago", months)
	default:
		years := int(diff.Hours() / 24 / 365)
		if years == 1 {
			return "1 year ago"
		}
		return fmt.Sprintf("%d years ago", years)
	}
}

// truncate truncates a string to maxLen runes, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}
