package services

import (
	"encoding/json"
	"fmt"
	"log"
	"math"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"fanpulse/internal/config"
	"fanpulse/internal/models"
	"fanpulse/internal/utils"
)

// PollOption is one entry of the StrawPoll v3 results payload.
type PollOption struct {
	Value     string `json:"value"`
	VoteCount int    `json:"vote_count"`
}

// PollSnapshot is the tally snapshot returned by the results endpoint.
// This is a separate poll from the embedded voting widget; the two are
// never reconciled.
type PollSnapshot struct {
	ID               string       `json:"id"`
	Options          []PollOption `json:"poll_options"`
	VoteCount        int          `json:"vote_count"`
	LastVoteAt       int64        `json:"last_vote_at"`
	ParticipantCount int          `json:"participant_count"`
}

type pollAPIError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Standing is one row of the derived results table.
type Standing struct {
	Name       string
	VoteCount  int
	Percentage string
	Contestant *models.Contestant // nil when no lineup entry matched
}

// PollResultsService periodically fetches the external tally and keeps
// the last known snapshot around; a failed fetch leaves it displayed
// and records the error for an inline notice.
type PollResultsService struct {
	client   *http.Client
	baseURL  string
	pollID   string
	interval time.Duration

	mu        sync.RWMutex
	last      *PollSnapshot
	lastErr   error
	fetchedAt time.Time
}

var (
	pollResultsService *PollResultsService
	pollResultsOnce    sync.Once
)

// GetPollResultsService returns the singleton reader configured from env.
func GetPollResultsService() *PollResultsService {
	pollResultsOnce.Do(func() {
		cfg := config.Get()
		pollResultsService = NewPollResultsService(cfg.StrawPollAPIBase, cfg.StrawPollID)
		pollResultsService.interval = time.Duration(cfg.PollRefreshSeconds) * time.Second
	})
	return pollResultsService
}

func NewPollResultsService(baseURL, pollID string) *PollResultsService {
	httpClient := &http.Client{
		Timeout: 15 * time.Second,
		Transport: &http.Transport{
			MaxIdleConns:        10,
			IdleConnTimeout:     30 * time.Second,
			MaxIdleConnsPerHost: 2,
		},
	}

	return &PollResultsService{
		client:   httpClient,
		baseURL:  strings.TrimSuffix(baseURL, "/"),
		pollID:   pollID,
		interval: 30 * time.Second,
	}
}

// Fetch pulls a fresh snapshot. On failure the previous snapshot stays
// in place and the error is retained until the next successful fetch.
func (s *PollResultsService) Fetch() (*PollSnapshot, error) {
	url := fmt.Sprintf("%s/polls/%s/results", s.baseURL, s.pollID)

	resp, err := s.client.Get(url)
	if err != nil {
		return s.recordError(fmt.Errorf("fetch poll results: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var apiErr pollAPIError
		if decodeErr := json.NewDecoder(resp.Body).Decode(&apiErr); decodeErr == nil && apiErr.Message != "" {
			return s.recordError(fmt.Errorf("poll results API: %s", apiErr.Message))
		}
		return s.recordError(fmt.Errorf("poll results API: status %d", resp.StatusCode))
	}

	var snapshot PollSnapshot
	if err := json.NewDecoder(resp.Body).Decode(&snapshot); err != nil {
		return s.recordError(fmt.Errorf("decode poll results: %w", err))
	}

	s.mu.Lock()
	s.last = &snapshot
	s.lastErr = nil
	s.fetchedAt = time.Now()
	s.mu.Unlock()

	return &snapshot, nil
}

func (s *PollResultsService) recordError(err error) (*PollSnapshot, error) {
	s.mu.Lock()
	s.lastErr = err
	last := s.last
	s.mu.Unlock()
	return last, err
}

// Snapshot returns the last known tally, when it was fetched, and the
// most recent fetch error if any.
func (s *PollResultsService) Snapshot() (*PollSnapshot, time.Time, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.last, s.fetchedAt, s.lastErr
}

// StartScheduledFetch refreshes the snapshot on a fixed interval, 30
// seconds by default. There is no retry or backoff beyond the interval.
func (s *PollResultsService) StartScheduledFetch() {
	ticker := time.NewTicker(s.interval)
	go func() {
		if _, err := s.Fetch(); err != nil {
			log.Printf("Initial poll results fetch failed: %v", err)
		}
		for range ticker.C {
			if _, err := s.Fetch(); err != nil {
				log.Printf("Scheduled poll results fetch failed: %v", err)
			}
		}
	}()
}

// Standings derives sorted percentages from a snapshot and fuzzy-matches
// option labels to the contestant lineup.
func Standings(snapshot *PollSnapshot, contestants []models.Contestant) []Standing {
	if snapshot == nil {
		return nil
	}

	standings := make([]Standing, 0, len(snapshot.Options))
	for _, option := range snapshot.Options {
		standings = append(standings, Standing{
			// Option labels come from an external poll editor; cap them.
			Name:       utils.TruncateRunes(option.Value, 80),
			VoteCount:  option.VoteCount,
			Percentage: Percentage(option.VoteCount, snapshot.VoteCount),
			Contestant: MatchContestant(option.Value, contestants),
		})
	}

	sort.SliceStable(standings, func(i, j int) bool {
		return standings[i].VoteCount > standings[j].VoteCount
	})

	return standings
}

// Percentage formats count/total as a one-decimal percentage, rounding
// half away from zero. A zero total yields "0.0".
func Percentage(count, total int) string {
	if total <= 0 {
		return "0.0"
	}
	pct := float64(count) / float64(total) * 100
	return fmt.Sprintf("%.1f", math.Round(pct*10)/10)
}

// MatchContestant pairs a poll option label with a lineup entry via
// case-insensitive substring containment in either direction.
func MatchContestant(label string, contestants []models.Contestant) *models.Contestant {
	needle := strings.ToLower(strings.TrimSpace(label))
	if needle == "" {
		return nil
	}
	for i := range contestants {
		name := strings.ToLower(contestants[i].Name)
		if strings.Contains(needle, name) || strings.Contains(name, needle) {
			return &contestants[i]
		}
	}
	return nil
}
