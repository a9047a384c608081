package espn

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

// fakeCache is an in-memory Cache for exercising the client's cache path
type fakeCache struct {
	entries map[string][]byte
	getErr  error
	sets    int
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string][]byte)}
}

func (f *fakeCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if f.getErr != nil {
		return nil, false, f.getErr
	}
	body, ok := f.entries[key]
	return body, ok, nil
}

func (f *fakeCache) Set(ctx context.Context, key string, body []byte) error {
	f.sets++
	f.entries[key] = body
	return nil
}

func newTestClient(serverURL string, cache Cache) *HTTPClient {
	logger, _ := test.NewNullLogger()
	return &HTTPClient{
		baseURL:    serverURL + "/",
		userAgent:  DefaultUserAgent,
		httpClient: &http.Client{},
		cache:      cache,
		logger:     logger,
	}
}

const twoTeamLeague = `{
	"teams": [
		{
			"record": {"overallLosses": 0, "overallPercentage": 1.0, "overallWins": 1, "pointsFor": 100.0},
			"teamId": 1,
			"teamLocation": "Team",
			"teamNickname": "A"
		},
		{
			"record": {"overallLosses": 1, "overallPercentage": 0.0, "overallWins": 0, "pointsFor": 80.0},
			"teamId": 2,
			"teamLocation": "Team",
			"teamNickname": "B",
			"overallWins": 3
		}
	]
}`

func TestHTTPClient_GetLeague(t *testing.T) {
	tests := []struct {
		name           string
		leagueID       string
		serverResponse string
		serverStatus   int
		wantError      bool
		wantMalformed  bool
		wantTeams      int
	}{
		{
			name:           "successful request",
			leagueID:       "123456",
			serverStatus:   http.StatusOK,
			serverResponse: twoTeamLeague,
			wantError:      false,
			wantTeams:      2,
		},
		{
			name:           "league not found",
			leagueID:       "999",
			serverStatus:   http.StatusNotFound,
			serverResponse: `{"error": "not found"}`,
			wantError:      true,
		},
		{
			name:           "server error",
			leagueID:       "123456",
			serverStatus:   http.StatusInternalServerError,
			serverResponse: "Internal Server Error",
			wantError:      true,
		},
		{
			name:           "unparsable json",
			leagueID:       "123456",
			serverStatus:   http.StatusOK,
			serverResponse: `{"teams": [`,
			wantError:      true,
			wantMalformed:  true,
		},
		{
			name:           "empty team list",
			leagueID:       "123456",
			serverStatus:   http.StatusOK,
			serverResponse: `{"teams": []}`,
			wantError:      true,
			wantMalformed:  true,
		},
		{
			name:         "duplicate team ids",
			leagueID:     "123456",
			serverStatus: http.StatusOK,
			serverResponse: `{"teams": [
				{"record": {"overallPercentage": 0.5, "pointsFor": 1}, "teamId": 4},
				{"record": {"overallPercentage": 0.5, "pointsFor": 2}, "teamId": 4}
			]}`,
			wantError:     true,
			wantMalformed: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/teams" {
					t.Errorf("Expected path /teams, got %s", r.URL.Path)
				}
				if got := r.URL.Query().Get("leagueId"); got != tt.leagueID {
					t.Errorf("Expected leagueId=%s, got %s", tt.leagueID, got)
				}
				w.WriteHeader(tt.serverStatus)
				w.Write([]byte(tt.serverResponse))
			}))
			defer server.Close()

			client := newTestClient(server.URL, nil)

			league, err := client.GetLeague(context.Background(), tt.leagueID)

			if tt.wantError && err == nil {
				t.Error("Expected error but got none")
			}
			if !tt.wantError && err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
			if tt.wantMalformed && !errors.Is(err, ErrMalformedPayload) {
				t.Errorf("Expected ErrMalformedPayload, got %v", err)
			}

			if tt.wantError {
				if league != nil {
					t.Error("Expected nil league but got result")
				}
				return
			}

			if len(league.Teams) != tt.wantTeams {
				t.Errorf("Expected %d teams, got %d", tt.wantTeams, len(league.Teams))
			}
			if league.LeagueSize != tt.wantTeams {
				t.Errorf("Expected league size %d, got %d", tt.wantTeams, league.LeagueSize)
			}
			if league.Teams[0].OverallWins != 0 {
				t.Errorf("Expected absent overallWins to default to 0, got %d", league.Teams[0].OverallWins)
			}
			if league.Teams[1].Record.PointsFor != 80.0 {
				t.Errorf("Expected points for 80.0, got %v", league.Teams[1].Record.PointsFor)
			}
			if name := league.Teams[0].DisplayName(); name != "Team A" {
				t.Errorf("Expected display name 'Team A', got '%s'", name)
			}
		})
	}
}

func TestHTTPClient_GetLeague_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte("private league"))
	}))
	defer server.Close()

	client := newTestClient(server.URL, nil)

	_, err := client.GetLeague(context.Background(), "42")

	var apiErr *ESPNError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Expected *ESPNError, got %T: %v", err, err)
	}
	if apiErr.StatusCode != http.StatusUnauthorized {
		t.Errorf("Expected status code 401, got %d", apiErr.StatusCode)
	}
	if apiErr.LeagueID != "42" {
		t.Errorf("Expected league id 42, got %s", apiErr.LeagueID)
	}
}

func TestHTTPClient_GetSchedule(t *testing.T) {
	tests := []struct {
		name           string
		serverResponse string
		serverStatus   int
		wantError      bool
		wantWeeks      int
	}{
		{
			name:         "successful request",
			serverStatus: http.StatusOK,
			serverResponse: `{"leagueSchedule": {"scheduleItems": [
				{"matchups": [
					{"awayTeamId": 1, "homeTeamId": 2, "awayTeamScores": [100.0, 0], "homeTeamScores": [80.0], "outcome": 1}
				]},
				{"matchups": [
					{"awayTeamId": 2, "homeTeamId": 1, "awayTeamScores": [], "homeTeamScores": [], "outcome": 0}
				]}
			]}}`,
			wantError: false,
			wantWeeks: 2,
		},
		{
			name:         "decided matchup without scores",
			serverStatus: http.StatusOK,
			serverResponse: `{"leagueSchedule": {"scheduleItems": [
				{"matchups": [
					{"awayTeamId": 1, "homeTeamId": 2, "awayTeamScores": [], "homeTeamScores": [80.0], "outcome": 2}
				]}
			]}}`,
			wantError: true,
		},
		{
			name:           "server error",
			serverStatus:   http.StatusBadGateway,
			serverResponse: "Bad Gateway",
			wantError:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/leagueSchedules" {
					t.Errorf("Expected path /leagueSchedules, got %s", r.URL.Path)
				}
				w.WriteHeader(tt.serverStatus)
				w.Write([]byte(tt.serverResponse))
			}))
			defer server.Close()

			client := newTestClient(server.URL, nil)

			schedule, err := client.GetSchedule(context.Background(), "123456")

			if tt.wantError && err == nil {
				t.Error("Expected error but got none")
			}
			if !tt.wantError && err != nil {
				t.Errorf("Unexpected error: %v", err)
			}

			if !tt.wantError {
				if len(schedule.ScheduleItems) != tt.wantWeeks {
					t.Errorf("Expected %d weeks, got %d", tt.wantWeeks, len(schedule.ScheduleItems))
				}
				first := schedule.ScheduleItems[0].Matchups[0]
				if first.AwayScore() != 100.0 || first.HomeScore() != 80.0 {
					t.Errorf("Expected scores 100/80, got %v/%v", first.AwayScore(), first.HomeScore())
				}
			}
		})
	}
}

func TestHTTPClient_UsesCache(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(twoTeamLeague))
	}))
	defer server.Close()

	cache := newFakeCache()
	client := newTestClient(server.URL, cache)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := client.GetLeague(ctx, "123456"); err != nil {
			t.Fatalf("Unexpected error on call %d: %v", i+1, err)
		}
	}

	if requests != 1 {
		t.Errorf("Expected 1 upstream request, got %d", requests)
	}
	if cache.sets != 1 {
		t.Errorf("Expected 1 cache write, got %d", cache.sets)
	}
}

func TestHTTPClient_CacheFailureFallsBackToAPI(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(twoTeamLeague))
	}))
	defer server.Close()

	cache := newFakeCache()
	cache.getErr = errors.New("connection refused")

	logger, hook := test.NewNullLogger()
	client := newTestClient(server.URL, cache)
	client.logger = logger

	if _, err := client.GetLeague(context.Background(), "123456"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if requests != 1 {
		t.Errorf("Expected 1 upstream request, got %d", requests)
	}

	warned := false
	for _, entry := range hook.AllEntries() {
		if entry.Level == logrus.WarnLevel {
			warned = true
		}
	}
	if !warned {
		t.Error("Expected a warning to be logged for the failed cache lookup")
	}
}

func TestHTTPClient_NonCachedErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("down"))
	}))
	defer server.Close()

	cache := newFakeCache()
	client := newTestClient(server.URL, cache)

	if _, err := client.GetSchedule(context.Background(), "1"); err == nil {
		t.Error("Expected error but got none")
	}
	if cache.sets != 0 {
		t.Errorf("Expected failed responses not to be cached, got %d writes", cache.sets)
	}
}

func TestESPNError_Error(t *testing.T) {
	err := &ESPNError{
		Type:    "api_error",
		Message: "League not found",
	}

	expected := "League not found"
	if err.Error() != expected {
		t.Errorf("Expected error message %s, got %s", expected, err.Error())
	}
}

func TestNewHTTPClient(t *testing.T) {
	logger := logrus.New()
	client := NewHTTPClient(logger, ClientConfig{})

	if client == nil {
		t.Fatal("Expected client to be created, got nil")
	}

	httpClient, ok := client.(*HTTPClient)
	if !ok {
		t.Fatalf("Expected *HTTPClient, got %T", client)
	}
	if httpClient.baseURL != BaseURL {
		t.Errorf("Expected default base URL %s, got %s", BaseURL, httpClient.baseURL)
	}
	if httpClient.httpClient.Timeout != DefaultTimeout {
		t.Errorf("Expected default timeout %v, got %v", DefaultTimeout, httpClient.httpClient.Timeout)
	}

	// Ensure it implements the Client interface
	var _ Client = client
}
