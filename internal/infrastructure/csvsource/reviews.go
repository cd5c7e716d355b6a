package csvsource

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"reviewalyze/internal/domain"
	"reviewalyze/internal/source"
)

// Columns the review CSV must carry. app_id and keywords are optional.
var requiredColumns = []string{"review_id", "text", "rating"}

// ReviewSource loads reviews from a local CSV file.
type ReviewSource struct{}

var _ source.Source = ReviewSource{}

// Name identifies the strategy inside the registry.
func (ReviewSource) Name() string {
	return "csv"
}

// Fetch reads the file named by the request path.
func (s ReviewSource) Fetch(ctx context.Context, req source.Request) ([]domain.Review, error) {
	if req.Path == "" {
		return nil, fmt.Errorf("csv source requires a reviews path")
	}

	f, err := os.Open(req.Path)
	if err != nil {
		return nil, fmt.Errorf("open reviews file: %w", err)
	}
	defer f.Close()

	return ReadReviews(f)
}

// ReadReviews parses review rows from CSV data. The header row is mandatory;
// missing required columns fail the whole run before any scoring work.
// Malformed ratings are kept as 0 so they score neutral instead of rejecting
// the batch.
func ReadReviews(r io.Reader) ([]domain.Review, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}

	var missing []string
	for _, name := range requiredColumns {
		if _, ok := columns[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("reviews file is missing required columns: %s", strings.Join(missing, ", "))
	}

	var reviews []domain.Review
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read record: %w", err)
		}

		review := domain.Review{
			ID:     field(record, columns, "review_id"),
			Text:   field(record, columns, "text"),
			AppID:  field(record, columns, "app_id"),
			Rating: parseRating(field(record, columns, "rating")),
		}
		if annotations := field(record, columns, "keywords"); annotations != "" {
			review.Keywords = splitAnnotations(annotations)
		}
		reviews = append(reviews, review)
	}

	return reviews, nil
}

func field(record []string, columns map[string]int, name string) string {
	i, ok := columns[name]
	if !ok || i >= len(record) {
		return ""
	}
	return record[i]
}

// parseRating tolerates junk values; anything unparsable becomes 0, which the
// rating scorer treats as neutral.
func parseRating(value string) int {
	rating, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0
	}
	return rating
}

func splitAnnotations(value string) []string {
	parts := strings.Split(value, ",")
	annotations := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			annotations = append(annotations, trimmed)
		}
	}
	return annotations
}
