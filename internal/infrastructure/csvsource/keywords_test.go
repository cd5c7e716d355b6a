package csvsource

import (
	"strings"
	"testing"
)

func TestReadKeywordsFlat(t *testing.T) {
	t.Parallel()

	data := "ads\n\n  crash  \nlevel\n"
	keywords, err := ReadKeywords(strings.NewReader(data))
	if err != nil {
		t.Fatalf("ReadKeywords returned error: %v", err)
	}

	if len(keywords) != 3 {
		t.Fatalf("expected 3 keywords, got %d", len(keywords))
	}
	if keywords[1].Text != "crash" {
		t.Fatalf("keyword not trimmed: %q", keywords[1].Text)
	}
	for _, kw := range keywords {
		if kw.Group != "" {
			t.Fatalf("flat keywords must have no group: %+v", kw)
		}
	}
}

func TestReadKeywordsSkipsHeader(t *testing.T) {
	t.Parallel()

	data := "keyword\nads\n"
	keywords, err := ReadKeywords(strings.NewReader(data))
	if err != nil {
		t.Fatalf("ReadKeywords returned error: %v", err)
	}
	if len(keywords) != 1 || keywords[0].Text != "ads" {
		t.Fatalf("header line should be skipped: %+v", keywords)
	}
}

func TestReadKeywordGroups(t *testing.T) {
	t.Parallel()

	data := "keyword_group,keyword\nAds,banner\nAds,commercial\nErrors,crash\nErrors,\n"
	keywords, err := ReadKeywordGroups(strings.NewReader(data))
	if err != nil {
		t.Fatalf("ReadKeywordGroups returned error: %v", err)
	}

	if len(keywords) != 3 {
		t.Fatalf("expected 3 entries (blank keyword dropped), got %d", len(keywords))
	}
	if keywords[0].Group != "Ads" || keywords[0].Text != "banner" {
		t.Fatalf("unexpected first entry: %+v", keywords[0])
	}
	if keywords[2].Group != "Errors" || keywords[2].Text != "crash" {
		t.Fatalf("unexpected last entry: %+v", keywords[2])
	}
}

func TestReadKeywordGroupsRequiresColumns(t *testing.T) {
	t.Parallel()

	data := "group,term\nAds,banner\n"
	if _, err := ReadKeywordGroups(strings.NewReader(data)); err == nil {
		t.Fatal("expected an error for missing taxonomy columns")
	}
}

func TestGroupsFromMapDeterministic(t *testing.T) {
	t.Parallel()

	groups := map[string][]string{
		"UI":   {"layout", "design"},
		"Ads":  {"banner"},
		"Bugs": {"crash", " "},
	}

	keywords := GroupsFromMap(groups)
	if len(keywords) != 4 {
		t.Fatalf("expected 4 entries, got %d", len(keywords))
	}
	// Groups come out sorted by name, keywords in listed order.
	want := []struct{ group, text string }{
		{"Ads", "banner"},
		{"Bugs", "crash"},
		{"UI", "layout"},
		{"UI", "design"},
	}
	for i, w := range want {
		if keywords[i].Group != w.group || keywords[i].Text != w.text {
			t.Fatalf("entry %d = %+v, want %+v", i, keywords[i], w)
		}
	}
}
