package config

import (
	"encoding/json"
	"log"
	"os"
	"sync"

	"fanpulse/internal/models"
	"fanpulse/internal/utils"
)

// Config collects the site settings that used to live scattered across
// env lookups. Everything has a fallback so a bare checkout still boots.
type Config struct {
	SiteURL          string
	WeekNumber       string
	PollID           string // discussion partition key
	StrawPollID      string // results endpoint poll
	StrawPollEmbedID string // embedded voting widget (independently tallied)
	StrawPollAPIBase string
	InstagramHashtag string
	TwitterHashtag   string
	// PollRefreshSeconds paces the background results fetch.
	PollRefreshSeconds int
	Contestants        []models.Contestant
}

var (
	cfg  *Config
	once sync.Once
)

// Get returns the process-wide config, loading it on first use.
func Get() *Config {
	once.Do(func() {
		cfg = load()
	})
	return cfg
}

func load() *Config {
	c := &Config{
		SiteURL:          getenv("SITE_URL", "https://fanpulse.vote"),
		WeekNumber:       getenv("WEEK_NUMBER", "12"),
		PollID:           getenv("POLL_ID", "biggboss9"),
		StrawPollID:      getenv("STRAWPOLL_POLL_ID", "w4nWWboJWnA"),
		StrawPollEmbedID: getenv("STRAWPOLL_EMBED_ID", "NMnQBXAQAg6"),
		StrawPollAPIBase: getenv("STRAWPOLL_API_BASE", "https://api.strawpoll.com/v3"),
		InstagramHashtag: getenv("INSTAGRAM_HASHTAG", "#BiggBoss9Telugu"),
		TwitterHashtag:   getenv("TWITTER_HASHTAG", "#BBTelugu"),
	}

	c.PollRefreshSeconds = utils.StringToInt(getenv("POLL_REFRESH_SECONDS", "30"))
	if c.PollRefreshSeconds <= 0 {
		c.PollRefreshSeconds = 30
	}

	// CONTESTANTS overrides the built-in lineup with a JSON array.
	if raw := os.Getenv("CONTESTANTS"); raw != "" {
		var contestants []models.Contestant
		if err := json.Unmarshal([]byte(raw), &contestants); err != nil {
			log.Printf("Invalid CONTESTANTS JSON, using default lineup: %v", err)
		} else if len(contestants) > 0 {
			c.Contestants = contestants
		}
	}
	if len(c.Contestants) == 0 {
		c.Contestants = defaultContestants()
	}

	return c
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// defaultContestants is the week-12 lineup shipped with the site.
func defaultContestants() []models.Contestant {
	return []models.Contestant{
		{Name: "Diya Nikhita", Phone: "+91 88866 50465", Initials: "DN", Color: "linear-gradient(135deg, #FF6B6B 0%, #FF8E72 100%)", Status: models.ContestantActive},
		{Name: "Sanjana Gairani", Phone: "+91 88866 50460", Initials: "SG", Color: "linear-gradient(135deg, #4ECDC4 0%, #44A08D 100%)", Status: models.ContestantActive},
		{Name: "Demon Pavan", Phone: "+91 88866 50451", Initials: "DP", Color: "linear-gradient(135deg, #667eea 0%, #764ba2 100%)", Status: models.ContestantActive},
		{Name: "Bharani", Phone: "+91 88866 50450", Initials: "B", Color: "linear-gradient(135deg, #F093FB 0%, #F5576C 100%)", Status: models.ContestantActive},
		{Name: "Suman Shetty", Phone: "+91 888 66 50 463", Initials: "SS", Color: "linear-gradient(135deg, #4DB8FF 0%, #0099FF 100%)", Status: models.ContestantActive},
		{Name: "Emmanuel", Phone: "+91 88866 50452", Initials: "E", Color: "linear-gradient(135deg, #FFB347 0%, #FFA500 100%)", Status: models.ContestantActive},
		{Name: "Kalyan Padala", Phone: "+91 88866 50455", Initials: "KP", Color: "linear-gradient(135deg, #95E1D3 0%, #38ADA9 100%)", Status: models.ContestantActive},
		{Name: "Thanuja Puttasswamy", Phone: "+91 888 66 50 464", Initials: "TP", Color: "linear-gradient(135deg, #E0C3FC 0%, #8EC5FC 100%)", Status: models.ContestantActive},
	}
}
