package server

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"reviewalyze/internal/domain"
	"reviewalyze/internal/usecase"
)

func newTestServer(t *testing.T, deps Deps) http.Handler {
	t.Helper()
	if deps.Pipeline == nil {
		deps.Pipeline = usecase.NewPipeline(usecase.PipelineDeps{})
	}
	return New(deps).Router()
}

func multipartBody(t *testing.T, files map[string]string) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	for field, content := range files {
		part, err := mw.CreateFormFile(field, field+".csv")
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := part.Write([]byte(content)); err != nil {
			t.Fatalf("write form file: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}
	return body, mw.FormDataContentType()
}

func TestHealthWithoutClassifier(t *testing.T) {
	t.Parallel()

	router := newTestServer(t, Deps{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var payload struct {
		Status      string `json:"status"`
		ModelLoaded bool   `json:"model_loaded"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode health payload: %v", err)
	}
	if payload.Status != "healthy" || payload.ModelLoaded {
		t.Fatalf("unexpected health payload: %+v", payload)
	}
}

func TestAnalyzeFlat(t *testing.T) {
	t.Parallel()

	router := newTestServer(t, Deps{})

	body, contentType := multipartBody(t, map[string]string{
		"reviews":  "review_id,text,rating\nr1,full of ads,1\nr2,no ads here and I like it,5\n",
		"keywords": "ads\n",
	})
	req := httptest.NewRequest(http.MethodPost, "/analyze", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", rec.Code, rec.Body.String())
	}

	var report domain.Report
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if len(report.Summary) != 1 {
		t.Fatalf("expected 1 summary row, got %+v", report.Summary)
	}
	row := report.Summary[0]
	if row.Keyword != "ads" || row.TotalReviews != 2 {
		t.Fatalf("unexpected row: %+v", row)
	}
	// No classifier is wired, so scores are pure rating scores: (-1.0 + 1.0)/2.
	if row.AvgSentiment != 0.0 || row.Label != "neutral" {
		t.Fatalf("unexpected sentiment: %+v", row)
	}
}

func TestAnalyzeMissingKeywords(t *testing.T) {
	t.Parallel()

	router := newTestServer(t, Deps{})

	body, contentType := multipartBody(t, map[string]string{
		"reviews": "review_id,text,rating\nr1,fine,3\n",
	})
	req := httptest.NewRequest(http.MethodPost, "/analyze", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestAnalyzeNoMatches(t *testing.T) {
	t.Parallel()

	router := newTestServer(t, Deps{})

	body, contentType := multipartBody(t, map[string]string{
		"reviews":  "review_id,text,rating\nr1,all fine,5\n",
		"keywords": "zzzz\n",
	})
	req := httptest.NewRequest(http.MethodPost, "/analyze", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("no matches should not be an HTTP error, got %d", rec.Code)
	}

	var payload struct {
		Summary []domain.SummaryRow `json:"summary"`
		Message string              `json:"message"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if payload.Summary == nil || len(payload.Summary) != 0 {
		t.Fatalf("expected empty summary, got %+v", payload.Summary)
	}
	if payload.Message == "" {
		t.Fatal("expected an explanatory message")
	}
}

func TestAnalyzeGroupsWithDefaults(t *testing.T) {
	t.Parallel()

	router := newTestServer(t, Deps{
		DefaultGroups: []domain.Keyword{
			{Group: "Ads", Text: "banner"},
			{Group: "Errors", Text: "crash"},
		},
	})

	body, contentType := multipartBody(t, map[string]string{
		"reviews": "review_id,text,rating\nr1,banner spam,1\nr2,crash loop,1\n",
	})
	req := httptest.NewRequest(http.MethodPost, "/analyze/groups", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", rec.Code, rec.Body.String())
	}

	var report domain.Report
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if len(report.Summary) != 2 {
		t.Fatalf("expected 2 rows from the built-in taxonomy, got %+v", report.Summary)
	}
	if report.Summary[0].Group != "Ads" || report.Summary[1].Group != "Errors" {
		t.Fatalf("groups missing: %+v", report.Summary)
	}
}

func TestSummariesUnavailable(t *testing.T) {
	t.Parallel()

	router := newTestServer(t, Deps{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/summaries", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503 without storage", rec.Code)
	}
}
