package ui

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"gomatch/adapters/memory"
	"gomatch/app"
	"gomatch/domain/match"
	"gomatch/domain/response"
	"gomatch/internal/testkit"
)

// staticSource serves a fixed cohort
type staticSource struct {
	users []response.Respondent
}

func (s *staticSource) LoadRespondents(ctx context.Context) ([]response.Respondent, error) {
	return s.users, nil
}

func testServer() *Server {
	users := []response.Respondent{
		testkit.NewRespondent("alice", "woman", 30, "man").
			WithLikert(testkit.QPolitics, 2, response.PrefSimilar, response.Important).
			WithLikert(testkit.QActivity, 4, response.PrefSimilar, response.Important).
			Build(),
		testkit.NewRespondent("bob", "man", 31, "woman").
			WithLikert(testkit.QPolitics, 2, response.PrefSimilar, response.Important).
			WithLikert(testkit.QActivity, 4, response.PrefSimilar, response.Important).
			Build(),
	}
	return NewServer(
		app.NewMatchService(app.DropInvalid),
		memory.NewBatchRepository(),
		&staticSource{users: users},
		testkit.StandardCatalog(),
		match.DefaultConfig(),
	)
}

func TestHealthEndpoint(t *testing.T) {
	srv := httptest.NewServer(testServer().Router())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, expected 200", resp.StatusCode)
	}
}

func TestRunAndFetchBatch(t *testing.T) {
	srv := httptest.NewServer(testServer().Router())
	defer srv.Close()

	body, _ := json.Marshal(map[string]string{"name": "test-run"})
	resp, err := http.Post(srv.URL+"/api/batches", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, expected 201", resp.StatusCode)
	}

	var batch match.Batch
	if err := json.NewDecoder(resp.Body).Decode(&batch); err != nil {
		t.Fatalf("failed to decode batch: %v", err)
	}
	if batch.Status != match.BatchCompleted {
		t.Fatalf("batch status = %s, expected completed", batch.Status)
	}
	if batch.Result == nil || len(batch.Result.Matches) != 1 {
		t.Fatalf("expected one match in the batch result")
	}

	// Fetch it back
	got, err := http.Get(srv.URL + "/api/batches/" + batch.ID.String())
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer got.Body.Close()
	if got.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, expected 200", got.StatusCode)
	}

	// And its report
	rep, err := http.Get(srv.URL + "/api/batches/" + batch.ID.String() + "/report")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer rep.Body.Close()
	if rep.StatusCode != http.StatusOK {
		t.Fatalf("report status = %d, expected 200", rep.StatusCode)
	}
}

func TestGetUnknownBatch(t *testing.T) {
	srv := httptest.NewServer(testServer().Router())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/batches/does-not-exist")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, expected 404", resp.StatusCode)
	}
}

func TestValidateEndpoint(t *testing.T) {
	srv := httptest.NewServer(testServer().Router())
	defer srv.Close()

	matches := []match.Match{{UserAID: "a", UserBID: "a", PairScore: 200}}
	body, _ := json.Marshal(matches)
	resp, err := http.Post(srv.URL+"/api/validate", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	var v match.Validation
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("failed to decode validation: %v", err)
	}
	if v.OK {
		t.Fatal("self-match with out-of-range score must fail validation")
	}
}
