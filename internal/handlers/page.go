package handlers

import (
	"fmt"
	"net/http"
	"time"

	"fanpulse/internal/config"
	"fanpulse/internal/db"
	"fanpulse/internal/models"
	"fanpulse/internal/services"
	"fanpulse/internal/utils"

	"github.com/gin-gonic/gin"
)

type PageHandler struct {
	results *services.PollResultsService
}

func NewPageHandler() *PageHandler {
	return &PageHandler{
		results: services.GetPollResultsService(),
	}
}

// Home renders the contestant card grid.
func (h *PageHandler) Home(c *gin.Context) {
	cacheKey := "page:home"
	if cached := utils.GetCache().Get(cacheKey); cached != nil {
		if hData, ok := cached.(gin.H); ok {
			Render(c, http.StatusOK, "home.html", hData)
			return
		}
	}

	var contestants []models.Contestant
	db.DB.Order("id ASC").Find(&contestants)

	cfg := config.Get()
	renderData := gin.H{
		"Title":       fmt.Sprintf("Week %s Nominations", cfg.WeekNumber),
		"Description": "Meet this week's nominated contestants and cast your vote.",
		"Contestants": contestants,
		"Active":      "home",
		"FullURL":     cfg.SiteURL,
	}

	utils.GetCache().Set(cacheKey, renderData, 1*time.Minute)

	Render(c, http.StatusOK, "home.html", renderData)
}

// Vote renders the embedded poll widget plus the live discussion thread.
// The widget tallies independently from the results endpoint; the two
// are never reconciled.
func (h *PageHandler) Vote(c *gin.Context) {
	cfg := config.Get()

	Render(c, http.StatusOK, "vote.html", gin.H{
		"Title":       "Vote Now",
		"Description": "Cast your vote and join the live discussion.",
		"Active":      "vote",
		"EmbedURL":    fmt.Sprintf("https://strawpoll.com/embed/%s", cfg.StrawPollEmbedID),
		"FullURL":     cfg.SiteURL + "/vote",
	})
}

// Results renders live voting trends from the last known snapshot. A
// stale snapshot stays on screen when the latest fetch failed; the
// failure surfaces as an inline notice only.
func (h *PageHandler) Results(c *gin.Context) {
	snapshot, fetchedAt, fetchErr := h.results.Snapshot()

	var contestants []models.Contestant
	db.DB.Order("id ASC").Find(&contestants)

	standings := services.Standings(snapshot, contestants)

	var topPerformer *services.Standing
	var dangerZone []services.Standing
	if len(standings) > 0 {
		topPerformer = &standings[0]
	}
	if len(standings) >= 2 {
		dangerZone = standings[len(standings)-2:]
	}

	errorNotice := ""
	if fetchErr != nil {
		errorNotice = "Failed to load live results. Please try again later."
	}

	cfg := config.Get()
	totalVotes := 0
	if snapshot != nil {
		totalVotes = snapshot.VoteCount
	}

	Render(c, http.StatusOK, "results.html", gin.H{
		"Title":        "Voting Trends",
		"Description":  "Real-time voting trends and analysis. See who is leading the race and who is in the danger zone.",
		"Active":       "results",
		"Standings":    standings,
		"TotalVotes":   totalVotes,
		"TopPerformer": topPerformer,
		"DangerZone":   dangerZone,
		"FetchedAt":    fetchedAt,
		"ErrorNotice":  errorNotice,
		"FullURL":      cfg.SiteURL + "/results",
	})
}

// ResultsFragment serves the standings table alone so the page can
// refresh it on a 30 second interval without a full reload.
func (h *PageHandler) ResultsFragment(c *gin.Context) {
	snapshot, fetchedAt, fetchErr := h.results.Snapshot()

	var contestants []models.Contestant
	db.DB.Order("id ASC").Find(&contestants)

	errorNotice := ""
	if fetchErr != nil {
		errorNotice = "Failed to load live results. Please try again later."
	}

	totalVotes := 0
	if snapshot != nil {
		totalVotes = snapshot.VoteCount
	}

	c.HTML(http.StatusOK, "results/standings.html", gin.H{
		"Standings":   services.Standings(snapshot, contestants),
		"TotalVotes":  totalVotes,
		"FetchedAt":   fetchedAt,
		"ErrorNotice": errorNotice,
	})
}

// Social renders the hashtag feeds page.
func (h *PageHandler) Social(c *gin.Context) {
	cfg := config.Get()
	Render(c, http.StatusOK, "social.html", gin.H{
		"Title":       "Social Buzz",
		"Description": "Follow the latest updates on Instagram and Twitter. See trending hashtags and contestant posts.",
		"Active":      "social",
		"FullURL":     cfg.SiteURL + "/social",
	})
}

// About renders the static about page.
func (h *PageHandler) About(c *gin.Context) {
	cfg := config.Get()
	Render(c, http.StatusOK, "about.html", gin.H{
		"Title":       "About",
		"Description": "How voting works and what this site tracks.",
		"Active":      "about",
		"FullURL":     cfg.SiteURL + "/about",
	})
}

// NotFound is wired to gin's NoRoute.
func (h *PageHandler) NotFound(c *gin.Context) {
	RenderError(c, http.StatusNotFound, "Page not found")
}
