package cli

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

// ResultsManager lists and prunes the Markdown snapshots in the results directory.
type ResultsManager struct {
	resultsDir string
}

// ResultSummary describes one snapshot file: <company>_<YYYYMMDD_HHMMSS>.md
type ResultSummary struct {
	Company   string
	TakenAt   time.Time
	FilePath  string
	FileSize  int64
	CreatedAt time.Time
}

func NewResultsManager(resultsDir string) *ResultsManager {
	return &ResultsManager{resultsDir: resultsDir}
}

// ListResults returns snapshots, newest first.
func (rm *ResultsManager) ListResults() ([]ResultSummary, error) {
	if err := os.MkdirAll(rm.resultsDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create results directory: %w", err)
	}

	var results []ResultSummary
	err := filepath.WalkDir(rm.resultsDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".md") {
			return nil
		}

		company, takenAt, ok := parseSnapshotName(filepath.Base(path))
		if !ok {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		results = append(results, ResultSummary{
			Company:   company,
			TakenAt:   takenAt,
			FilePath:  path,
			FileSize:  info.Size(),
			CreatedAt: info.ModTime(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan results directory: %w", err)
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].TakenAt.After(results[j].TakenAt)
	})
	return results, nil
}

func parseSnapshotName(name string) (string, time.Time, bool) {
	base := strings.TrimSuffix(name, ".md")
	// company_YYYYMMDD_HHMMSS
	parts := strings.Split(base, "_")
	if len(parts) < 3 {
		return "", time.Time{}, false
	}
	stamp := parts[len(parts)-2] + "_" + parts[len(parts)-1]
	t, err := time.ParseInLocation("20060102_150405", stamp, time.Local)
	if err != nil {
		return "", time.Time{}, false
	}
	return strings.Join(parts[:len(parts)-2], "_"), t, true
}

// CleanupResults removes snapshots older than maxAge and any beyond the
// newest maxCount. Zero disables either limit. It returns how many were removed.
func (rm *ResultsManager) CleanupResults(maxAge time.Duration, maxCount int, now time.Time) (int, error) {
	results, err := rm.ListResults()
	if err != nil {
		return 0, fmt.Errorf("failed to list results: %w", err)
	}

	deleted := 0
	for i, r := range results {
		expired := maxAge > 0 && now.Sub(r.TakenAt) > maxAge
		overflow := maxCount > 0 && i >= maxCount
		if !expired && !overflow {
			continue
		}
		if err := os.Remove(r.FilePath); err != nil {
			return deleted, fmt.Errorf("failed to delete %s: %w", r.FilePath, err)
		}
		deleted++
	}
	return deleted, nil
}

func newSnapshotsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshots",
		Short: "Manage saved Markdown snapshots",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List saved snapshots, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			results, err := NewResultsManager(a.cfg.ResultsDir).ListResults()
			if err != nil {
				return err
			}
			if len(results) == 0 {
				DisplayInfo(a.out, "No snapshots in "+a.cfg.ResultsDir)
				return nil
			}
			rows := make([][]string, 0, len(results))
			for _, r := range results {
				rows = append(rows, []string{r.Company, r.TakenAt.Format("2006-01-02 15:04:05"), strconv.FormatInt(r.FileSize, 10), r.FilePath})
			}
			displayTable(a.out, []string{"COMPANY", "TAKEN", "SIZE", "PATH"}, rows)
			return nil
		},
	})

	var (
		maxAge   time.Duration
		maxCount int
	)
	clean := &cobra.Command{
		Use:   "clean",
		Short: "Delete old snapshots",
		RunE: func(cmd *cobra.Command, args []string) error {
			if maxAge == 0 && maxCount == 0 {
				return fmt.Errorf("set --max-age or --keep")
			}
			n, err := NewResultsManager(a.cfg.ResultsDir).CleanupResults(maxAge, maxCount, time.Now())
			if err != nil {
				return err
			}
			if n > 0 {
				DisplaySuccess(a.out, fmt.Sprintf("Cleaned up %d old snapshots", n))
			} else {
				DisplayInfo(a.out, "No snapshots needed cleanup")
			}
			return nil
		},
	}
	clean.Flags().DurationVar(&maxAge, "max-age", 0, "Delete snapshots older than this")
	clean.Flags().IntVar(&maxCount, "keep", 0, "Keep only the newest N snapshots")
	cmd.AddCommand(clean)

	return cmd
}
