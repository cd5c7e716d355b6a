package csvsource

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strings"

	"reviewalyze/internal/domain"
)

// ReadKeywords parses a flat keyword list: one keyword per line. A leading
// "keyword" header line is tolerated and skipped. Blank entries are dropped
// here; the matcher would skip them anyway.
func ReadKeywords(r io.Reader) ([]domain.Keyword, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	var keywords []domain.Keyword
	first := true
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read keyword record: %w", err)
		}

		if len(record) == 0 {
			continue
		}
		text := strings.TrimSpace(record[0])
		if first {
			first = false
			if strings.EqualFold(text, "keyword") {
				continue
			}
		}
		if text == "" {
			continue
		}
		keywords = append(keywords, domain.Keyword{Text: text})
	}

	return keywords, nil
}

// ReadKeywordGroups parses a grouped taxonomy with keyword_group,keyword
// columns (header required).
func ReadKeywordGroups(r io.Reader) ([]domain.Keyword, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	groupCol, keywordCol := -1, -1
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "keyword_group":
			groupCol = i
		case "keyword":
			keywordCol = i
		}
	}
	if groupCol < 0 || keywordCol < 0 {
		return nil, fmt.Errorf("keyword groups file must have keyword_group and keyword columns")
	}

	var keywords []domain.Keyword
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read keyword group record: %w", err)
		}
		if groupCol >= len(record) || keywordCol >= len(record) {
			continue
		}

		group := strings.TrimSpace(record[groupCol])
		text := strings.TrimSpace(record[keywordCol])
		if text == "" {
			continue
		}
		keywords = append(keywords, domain.Keyword{Group: group, Text: text})
	}

	return keywords, nil
}

// GroupsFromMap flattens a group->keywords table into taxonomy entries in a
// deterministic order (groups sorted by name, keywords in listed order).
func GroupsFromMap(groups map[string][]string) []domain.Keyword {
	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sort.Strings(names)

	var keywords []domain.Keyword
	for _, name := range names {
		for _, text := range groups[name] {
			if trimmed := strings.TrimSpace(text); trimmed != "" {
				keywords = append(keywords, domain.Keyword{Group: name, Text: trimmed})
			}
		}
	}
	return keywords
}
