package playstore

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"reviewalyze/internal/source"
)

func TestScannerFetch(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("id"); got != "com.example.game" {
			t.Errorf("unexpected app id: %q", got)
		}
		_, _ = w.Write([]byte(`
		<html><body>
		  <div data-review-id="r-001">
		    <span aria-label="Rated 5 stars out of five"></span>
		    <div class="review-body">Love it, best puzzle game</div>
		  </div>
		  <div data-review-id="r-002">
		    <span aria-label="Rated 1 stars out of five"></span>
		    <div class="review-body">Ads after every single level</div>
		  </div>
		  <div data-review-id="r-002">
		    <span aria-label="Rated 1 stars out of five"></span>
		    <div class="review-body">duplicate entry</div>
		  </div>
		</body></html>`))
	}))
	defer server.Close()

	sc := NewScanner(server.Client())
	sc.baseURL = server.URL

	reviews, err := sc.Fetch(context.Background(), source.Request{AppID: "com.example.game"})
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}

	if len(reviews) != 2 {
		t.Fatalf("expected 2 reviews after dedup, got %d", len(reviews))
	}
	if reviews[0].ID != "r-001" || reviews[0].Rating != 5 {
		t.Fatalf("unexpected first review: %+v", reviews[0])
	}
	if reviews[1].Text != "Ads after every single level" || reviews[1].Rating != 1 {
		t.Fatalf("unexpected second review: %+v", reviews[1])
	}
	if reviews[0].AppID != "com.example.game" {
		t.Fatalf("app id not carried: %+v", reviews[0])
	}
}

func TestScannerRequiresAppID(t *testing.T) {
	t.Parallel()

	sc := NewScanner(nil)
	if _, err := sc.Fetch(context.Background(), source.Request{}); err == nil {
		t.Fatal("expected an error without an app id")
	}
}

func TestMaskUsername(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{"Alice", "A****"},
		{"Bo", "B*"},
		{"X", "*"},
		{"", "*"},
	}
	for _, tc := range cases {
		if got := MaskUsername(tc.in); got != tc.want {
			t.Fatalf("MaskUsername(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
