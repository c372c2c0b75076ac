package services

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"fanpulse/internal/models"
)

func TestFetchParsesSnapshot(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "GET" {
			t.Errorf("Expected GET request, got %s", r.Method)
		}
		if r.URL.Path != "/polls/testpoll/results" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(PollSnapshot{
			ID: "testpoll",
			Options: []PollOption{
				{Value: "Demon Pavan", VoteCount: 33},
				{Value: "Bharani", VoteCount: 67},
			},
			VoteCount: 100,
		})
	}))
	defer server.Close()

	s := NewPollResultsService(server.URL, "testpoll")

	snapshot, err := s.Fetch()
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if snapshot.VoteCount != 100 || len(snapshot.Options) != 2 {
		t.Fatalf("Unexpected snapshot %+v", snapshot)
	}

	last, fetchedAt, lastErr := s.Snapshot()
	if last == nil || lastErr != nil || fetchedAt.IsZero() {
		t.Fatalf("Snapshot state not recorded: %v %v %v", last, fetchedAt, lastErr)
	}
}

func TestFetchFailureKeepsLastSnapshot(t *testing.T) {
	fail := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail {
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]string{"error": "unavailable", "message": "poll temporarily unavailable"})
			return
		}
		json.NewEncoder(w).Encode(PollSnapshot{ID: "p", VoteCount: 5})
	}))
	defer server.Close()

	s := NewPollResultsService(server.URL, "p")

	if _, err := s.Fetch(); err != nil {
		t.Fatalf("Initial fetch failed: %v", err)
	}

	fail = true
	last, err := s.Fetch()
	if err == nil {
		t.Fatal("Expected fetch error")
	}
	if last == nil || last.VoteCount != 5 {
		t.Fatalf("Last-known snapshot lost on failure: %+v", last)
	}

	stored, _, lastErr := s.Snapshot()
	if stored == nil || stored.VoteCount != 5 {
		t.Fatalf("Stored snapshot overwritten on failure: %+v", stored)
	}
	if lastErr == nil {
		t.Fatal("Fetch error should be surfaced for the inline notice")
	}
}

func TestPercentage(t *testing.T) {
	cases := []struct {
		count, total int
		want         string
	}{
		{33, 100, "33.0"},
		{0, 0, "0.0"},
		{10, 0, "0.0"},
		{1, 3, "33.3"},
		{2, 3, "66.7"},
		{5, 5, "100.0"},
		{1, 800, "0.1"}, // 0.125 rounds half away from zero
	}
	for _, tc := range cases {
		if got := Percentage(tc.count, tc.total); got != tc.want {
			t.Errorf("Percentage(%d, %d) = %q, want %q", tc.count, tc.total, got, tc.want)
		}
	}
}

func TestStandingsSortAndMatch(t *testing.T) {
	snapshot := &PollSnapshot{
		Options: []PollOption{
			{Value: "Vote for Bharani", VoteCount: 10},
			{Value: "demon pavan", VoteCount: 60},
			{Value: "Mystery Option", VoteCount: 30},
		},
		VoteCount: 100,
	}
	contestants := []models.Contestant{
		{Name: "Demon Pavan"},
		{Name: "Bharani"},
	}

	standings := Standings(snapshot, contestants)
	if len(standings) != 3 {
		t.Fatalf("Expected 3 standings, got %d", len(standings))
	}
	if standings[0].Name != "demon pavan" || standings[0].Percentage != "60.0" {
		t.Errorf("Standings not sorted by votes descending: %+v", standings[0])
	}
	if standings[0].Contestant == nil || standings[0].Contestant.Name != "Demon Pavan" {
		t.Errorf("Case-insensitive match failed: %+v", standings[0].Contestant)
	}
	if standings[1].Contestant != nil {
		t.Errorf("Unmatched option should carry no contestant: %+v", standings[1].Contestant)
	}
	if standings[2].Contestant == nil || standings[2].Contestant.Name != "Bharani" {
		t.Errorf("Substring containment in either direction failed: %+v", standings[2].Contestant)
	}
}

func TestStandingsZeroTotal(t *testing.T) {
	snapshot := &PollSnapshot{
		Options:   []PollOption{{Value: "A", VoteCount: 0}, {Value: "B", VoteCount: 0}},
		VoteCount: 0,
	}
	for _, standing := range Standings(snapshot, nil) {
		if standing.Percentage != "0.0" {
			t.Errorf("Zero total should report 0.0 for every option, got %q", standing.Percentage)
		}
	}
}

func TestStandingsNilSnapshot(t *testing.T) {
	if standings := Standings(nil, nil); standings != nil {
		t.Errorf("Nil snapshot should yield no standings, got %+v", standings)
	}
}
