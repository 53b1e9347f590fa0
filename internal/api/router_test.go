package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/wandermate/wandermate/internal/api"
	"github.com/wandermate/wandermate/internal/api/handler"
	"github.com/wandermate/wandermate/internal/api/models"
	"github.com/wandermate/wandermate/internal/matching"
	"github.com/wandermate/wandermate/internal/profile"
	"github.com/wandermate/wandermate/internal/session"
)

type routerGeocoder struct{}

func (routerGeocoder) Lookup(_ context.Context, name string) (*matching.Coordinate, error) {
	coords := map[string]*matching.Coordinate{
		"Mumbai": {Lat: 19.0760, Lon: 72.8777},
		"Pune":   {Lat: 18.5204, Lon: 73.8567},
	}
	return coords[name], nil
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	profiles := profile.NewService(profile.NewInMemoryRepository())
	sessions := session.NewService(session.ServiceConfig{
		Repository: session.NewInMemoryRepository(),
		Geocoder:   routerGeocoder{},
		Attributes: profiles,
		Logger:     zerolog.Nop(),
		TTL:        time.Hour,
	})

	router := api.NewRouter(api.RouterConfig{
		Version:        "test",
		BuildTime:      "now",
		Logger:         zerolog.Nop(),
		SessionService: sessions,
		ProfileService: profiles,
	})

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server
}

func doJSON(t *testing.T, method, url string, body any) *http.Response {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()

	var out T
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return out
}

func putProfile(t *testing.T, baseURL, userID string) {
	t.Helper()

	resp := doJSON(t, http.MethodPut, baseURL+"/v1/profiles/"+userID, profile.Profile{
		Email:       userID + "@example.com",
		Age:         25,
		Personality: matching.PersonalityAmbivert,
		Interests:   []string{"food", "beaches"},
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("put profile %s: status %d", userID, resp.StatusCode)
	}
}

func postSession(t *testing.T, baseURL, userID, destination string) {
	t.Helper()

	resp := doJSON(t, http.MethodPost, baseURL+"/v1/sessions", models.SessionInput{
		UserID:      userID,
		Destination: destination,
		Budget:      20000,
		StartDate:   "2026-08-15",
		EndDate:     "2026-08-19",
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("post session %s: status %d", userID, resp.StatusCode)
	}
}

func TestRouter_SessionLifecycle(t *testing.T) {
	server := newTestServer(t)
	putProfile(t, server.URL, "user-1")

	// Create
	resp := doJSON(t, http.MethodPost, server.URL+"/v1/sessions", models.SessionInput{
		UserID:      "user-1",
		Destination: "Mumbai",
		Budget:      20000,
		StartDate:   "2026-08-15",
		EndDate:     "2026-08-19",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d, want 201", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != "/v1/sessions/user-1" {
		t.Errorf("Location = %q", loc)
	}
	created := decodeBody[models.Session](t, resp)
	if created.Destination == nil || created.Destination.Lat != 19.0760 {
		t.Errorf("destination = %+v, want geocoded Mumbai", created.Destination)
	}
	if created.ExpiresInSeconds != 3600 {
		t.Errorf("expiresInSeconds = %d, want 3600", created.ExpiresInSeconds)
	}

	// Get
	resp = doJSON(t, http.MethodGet, server.URL+"/v1/sessions/user-1", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get status = %d, want 200", resp.StatusCode)
	}
	got := decodeBody[models.Session](t, resp)
	if got.UserID != "user-1" {
		t.Errorf("userId = %q", got.UserID)
	}

	// Delete
	resp = doJSON(t, http.MethodDelete, server.URL+"/v1/sessions/user-1", nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete status = %d, want 204", resp.StatusCode)
	}

	resp = doJSON(t, http.MethodGet, server.URL+"/v1/sessions/user-1", nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("get after delete status = %d, want 404", resp.StatusCode)
	}
}

func TestRouter_CreateSession_Validation(t *testing.T) {
	server := newTestServer(t)
	putProfile(t, server.URL, "user-1")

	tests := []struct {
		name  string
		input models.SessionInput
		field string
	}{
		{
			name:  "missing user",
			input: models.SessionInput{Destination: "Mumbai", StartDate: "2026-08-15", EndDate: "2026-08-19"},
			field: "userId",
		},
		{
			name:  "bad dates",
			input: models.SessionInput{UserID: "user-1", Destination: "Mumbai", StartDate: "soon", EndDate: "2026-08-19"},
			field: "startDate",
		},
		{
			name:  "unknown destination",
			input: models.SessionInput{UserID: "user-1", Destination: "Atlantis", StartDate: "2026-08-15", EndDate: "2026-08-19"},
			field: "destination",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doJSON(t, http.MethodPost, server.URL+"/v1/sessions", tt.input)
			if resp.StatusCode != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", resp.StatusCode)
			}
			if ct := resp.Header.Get("Content-Type"); ct != "application/problem+json" {
				t.Errorf("content type = %q, want problem+json", ct)
			}
			problem := decodeBody[models.Problem](t, resp)
			if len(problem.Errors) == 0 || problem.Errors[0].Field != tt.field {
				t.Errorf("errors = %+v, want field %q", problem.Errors, tt.field)
			}
		})
	}
}

func TestRouter_CreateSession_NoProfile(t *testing.T) {
	server := newTestServer(t)

	resp := doJSON(t, http.MethodPost, server.URL+"/v1/sessions", models.SessionInput{
		UserID:      "ghost",
		Destination: "Mumbai",
		Budget:      10000,
		StartDate:   "2026-08-15",
		EndDate:     "2026-08-19",
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404 without a profile", resp.StatusCode)
	}
}

func TestRouter_SoloMatches(t *testing.T) {
	server := newTestServer(t)

	for _, id := range []string{"user-1", "user-2", "user-3"} {
		putProfile(t, server.URL, id)
		postSession(t, server.URL, id, "Mumbai")
	}
	// A traveller headed elsewhere still shows up, ranked lower.
	putProfile(t, server.URL, "user-4")
	postSession(t, server.URL, "user-4", "Pune")

	resp := doJSON(t, http.MethodGet, server.URL+"/v1/matches/solo?userId=user-1", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	list := decodeBody[models.MatchList](t, resp)

	if list.Count != 3 {
		t.Fatalf("count = %d, want 3", list.Count)
	}
	for _, m := range list.Matches {
		if m.UserID == "user-1" {
			t.Error("matches included the requesting user")
		}
		if m.Score < 0 || m.Score > 1 {
			t.Errorf("score %v out of range for %s", m.Score, m.UserID)
		}
		if m.BudgetDifference != "Same budget" {
			t.Errorf("budgetDifference = %q, want Same budget", m.BudgetDifference)
		}
	}
	// Same-destination travellers outrank the Pune traveller.
	if list.Matches[len(list.Matches)-1].UserID != "user-4" {
		t.Errorf("last match = %q, want user-4", list.Matches[len(list.Matches)-1].UserID)
	}
}

func TestRouter_SoloMatches_FilterBoostsWeights(t *testing.T) {
	server := newTestServer(t)

	for _, id := range []string{"user-1", "user-2"} {
		putProfile(t, server.URL, id)
		postSession(t, server.URL, id, "Mumbai")
	}

	baseResp := doJSON(t, http.MethodGet, server.URL+"/v1/matches/solo?userId=user-1", nil)
	base := decodeBody[models.MatchList](t, baseResp)

	boostedResp := doJSON(t, http.MethodGet, server.URL+"/v1/matches/solo?userId=user-1&ageMin=20&ageMax=30", nil)
	boosted := decodeBody[models.MatchList](t, boostedResp)

	if len(base.Matches) != 1 || len(boosted.Matches) != 1 {
		t.Fatalf("match counts = %d/%d, want 1/1", len(base.Matches), len(boosted.Matches))
	}
	if got, want := boosted.Matches[0].Weights.Age, base.Matches[0].Weights.Age; got <= want {
		t.Errorf("boosted age weight = %v, want > %v", got, want)
	}
}

func TestRouter_SoloMatches_RequiresSession(t *testing.T) {
	server := newTestServer(t)
	putProfile(t, server.URL, "user-1")

	resp := doJSON(t, http.MethodGet, server.URL+"/v1/matches/solo?userId=user-1", nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404 without an active session", resp.StatusCode)
	}
}

func TestRouter_SoloMatches_MissingUserID(t *testing.T) {
	server := newTestServer(t)

	resp := doJSON(t, http.MethodGet, server.URL+"/v1/matches/solo", nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestRouter_SoloMatches_Limit(t *testing.T) {
	server := newTestServer(t)

	for i := 1; i <= 5; i++ {
		id := fmt.Sprintf("user-%d", i)
		putProfile(t, server.URL, id)
		postSession(t, server.URL, id, "Mumbai")
	}

	resp := doJSON(t, http.MethodGet, server.URL+"/v1/matches/solo?userId=user-1&limit=2", nil)
	list := decodeBody[models.MatchList](t, resp)
	if list.Count != 2 {
		t.Errorf("count = %d, want 2", list.Count)
	}
}

func TestRouter_Health(t *testing.T) {
	server := newTestServer(t)

	resp := doJSON(t, http.MethodGet, server.URL+"/v1/ops/health", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	health := decodeBody[models.Health](t, resp)
	if health.Status != models.HealthStatusOK {
		t.Errorf("status = %q, want OK", health.Status)
	}
	if health.Details["version"] != "test" {
		t.Errorf("version = %v, want test", health.Details["version"])
	}
}

func TestRouter_Readiness_FailingDependency(t *testing.T) {
	profiles := profile.NewService(profile.NewInMemoryRepository())
	sessions := session.NewService(session.ServiceConfig{
		Repository: session.NewInMemoryRepository(),
		Geocoder:   routerGeocoder{},
		Attributes: profiles,
		Logger:     zerolog.Nop(),
	})

	router := api.NewRouter(api.RouterConfig{
		Logger:         zerolog.Nop(),
		SessionService: sessions,
		ProfileService: profiles,
		ReadinessChecks: map[string]handler.ReadinessCheck{
			"redis": func(context.Context) error { return fmt.Errorf("connection refused") },
		},
	})

	server := httptest.NewServer(router)
	defer server.Close()

	resp := doJSON(t, http.MethodGet, server.URL+"/v1/ops/ready", nil)
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", resp.StatusCode)
	}
	status := decodeBody[models.SystemStatus](t, resp)
	if status.Status != models.HealthStatusFail {
		t.Errorf("status = %q, want FAIL", status.Status)
	}
}
