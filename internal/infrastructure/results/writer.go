package results

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"reviewalyze/internal/domain"
	"reviewalyze/internal/ports"
)

var (
	unsafeCharExpr = regexp.MustCompile(`[^\w\s-]`)
	separatorExpr  = regexp.MustCompile(`[-\s]+`)
)

// Writer saves one analysis report as a timestamped JSON file under the
// results directory. The file carries the summary rows verbatim, so field
// names and the 3-decimal average stay compatible with downstream consumers.
type Writer struct {
	dir string
	now func() time.Time
}

var _ ports.ResultWriter = (*Writer)(nil)

// NewWriter targets the given directory, created on first write.
func NewWriter(dir string) *Writer {
	return &Writer{dir: dir, now: time.Now}
}

// Write persists the report summary and returns the file path. An empty
// summary writes nothing and returns an empty path.
func (w *Writer) Write(report domain.Report) (string, error) {
	if len(report.Summary) == 0 {
		return "", nil
	}

	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", fmt.Errorf("create results dir: %w", err)
	}

	name := fmt.Sprintf("%s_analysis_result_%s.json",
		safeAppName(report.AppName), w.now().Format("20060102_150405"))
	path := filepath.Join(w.dir, name)

	data, err := json.MarshalIndent(report.Summary, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal summary: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write results file: %w", err)
	}

	return path, nil
}

// safeAppName strips characters unfit for file names and collapses
// separators to underscores.
func safeAppName(name string) string {
	name = strings.TrimSpace(unsafeCharExpr.ReplaceAllString(name, ""))
	name = separatorExpr.ReplaceAllString(name, "_")
	if name == "" {
		return "app"
	}
	return name
}
