package results

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"reviewalyze/internal/domain"
)

func TestWriterWrite(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	w := NewWriter(dir)
	w.now = func() time.Time {
		return time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)
	}

	report := domain.Report{
		AppName: "Candy Crush: Saga!",
		Summary: []domain.SummaryRow{
			{Keyword: "ads", TotalReviews: 3, AvgSentiment: -0.4, NegativeCount: 2, NeutralCount: 1, Label: "negative", AppName: "Candy Crush: Saga!"},
		},
	}

	path, err := w.Write(report)
	if err != nil {
		t.Fatalf("Write returned error: %v", err)
	}

	wantName := "Candy_Crush_Saga_analysis_result_20240315_103000.json"
	if filepath.Base(path) != wantName {
		t.Fatalf("file name = %q, want %q", filepath.Base(path), wantName)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read result file: %v", err)
	}

	var rows []domain.SummaryRow
	if err := json.Unmarshal(data, &rows); err != nil {
		t.Fatalf("result file is not valid JSON: %v", err)
	}
	if len(rows) != 1 || rows[0].Keyword != "ads" || rows[0].AvgSentiment != -0.4 {
		t.Fatalf("unexpected rows: %+v", rows)
	}
	if strings.Contains(string(data), "keyword_group") {
		t.Fatal("ungrouped rows should omit the group field")
	}
}

func TestWriterSkipsEmptySummary(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	w := NewWriter(dir)

	path, err := w.Write(domain.Report{AppName: "app"})
	if err != nil {
		t.Fatalf("Write returned error: %v", err)
	}
	if path != "" {
		t.Fatalf("empty summary should write nothing, got path %q", path)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected no files, found %d", len(entries))
	}
}

func TestSafeAppName(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{"My App", "My_App"},
		{"app/../../etc", "appetc"},
		{"  trimmed  name ", "trimmed_name"},
		{"###", "app"},
		{"", "app"},
	}
	for _, tc := range cases {
		if got := safeAppName(tc.in); got != tc.want {
			t.Fatalf("safeAppName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
