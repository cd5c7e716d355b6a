package playstore

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"reviewalyze/internal/domain"
	"reviewalyze/internal/source"
)

const defaultBaseURL = "https://play.google.com"

var ratingExpr = regexp.MustCompile(`[Rr]ated (\d)`)

// Scanner fetches recent user reviews from an app's store listing page. It is
// a review-acquisition collaborator; the analysis core only ever sees the
// tabular batch it produces.
type Scanner struct {
	client  *http.Client
	baseURL string
}

var _ source.Source = (*Scanner)(nil)

// NewScanner wires an HTTP client; a nil client gets a 20s-timeout default.
func NewScanner(client *http.Client) *Scanner {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	return &Scanner{client: client, baseURL: defaultBaseURL}
}

// Name identifies the strategy inside the registry.
func (s *Scanner) Name() string {
	return "playstore"
}

// Fetch downloads the listing's review section and extracts review entries.
func (s *Scanner) Fetch(ctx context.Context, req source.Request) ([]domain.Review, error) {
	if req.AppID == "" {
		return nil, fmt.Errorf("playstore source requires an app id")
	}

	pageURL := fmt.Sprintf("%s/store/apps/details?id=%s&showAllReviews=true",
		strings.TrimSuffix(s.baseURL, "/"), url.QueryEscape(req.AppID))

	doc, err := s.fetchDocument(ctx, pageURL)
	if err != nil {
		return nil, fmt.Errorf("app %s: %w", req.AppID, err)
	}

	return extractReviews(doc, req.AppID), nil
}

func (s *Scanner) fetchDocument(ctx context.Context, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "Reviewalyze/1.0")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("play store returned %s", resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}

	return doc, nil
}

func extractReviews(doc *goquery.Document, appID string) []domain.Review {
	var reviews []domain.Review
	seen := map[string]struct{}{}

	doc.Find("div[data-review-id]").Each(func(i int, sel *goquery.Selection) {
		id, _ := sel.Attr("data-review-id")
		if id == "" {
			id = fmt.Sprintf("%s-%d", appID, i)
		}
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}

		text := strings.TrimSpace(sel.Find(".review-body").First().Text())
		reviews = append(reviews, domain.Review{
			ID:     id,
			AppID:  appID,
			Text:   text,
			Rating: parseRating(sel),
		})
	})

	return reviews
}

// parseRating reads the star count out of the rating element's aria-label
// ("Rated 4 stars out of five"). Missing or unparsable labels yield 0, which
// scores neutral downstream.
func parseRating(sel *goquery.Selection) int {
	label, _ := sel.Find("[aria-label*='ated']").First().Attr("aria-label")
	match := ratingExpr.FindStringSubmatch(label)
	if match == nil {
		return 0
	}
	rating, err := strconv.Atoi(match[1])
	if err != nil {
		return 0
	}
	return rating
}

// MaskUsername hides all but the first character of a reviewer name before it
// leaves the acquisition layer.
func MaskUsername(name string) string {
	runes := []rune(name)
	if len(runes) <= 1 {
		return "*"
	}
	return string(runes[0]) + strings.Repeat("*", len(runes)-1)
}
