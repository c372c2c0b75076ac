package handlers

import (
	"errors"
	"io"
	"log"
	"net/http"
	"sync"

	"fanpulse/internal/config"
	"fanpulse/internal/middleware"
	"fanpulse/internal/models"
	"fanpulse/internal/services"

	"github.com/gin-gonic/gin"
)

type DiscussionHandler struct {
	discussions *services.DiscussionStore
	reactions   *services.ReactionStore
	hub         *services.ChangeHub

	// Per-session collapse state, in memory only so it stays ephemeral.
	mu        sync.Mutex
	collapsed map[string]*services.CollapseSet
}

func NewDiscussionHandler() *DiscussionHandler {
	return &DiscussionHandler{
		discussions: services.GetDiscussionStore(),
		reactions:   services.GetReactionStore(),
		hub:         services.GetChangeHub(),
		collapsed:   make(map[string]*services.CollapseSet),
	}
}

func (h *DiscussionHandler) collapseSet(sessionID string) *services.CollapseSet {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.collapsed[sessionID]
	if !ok {
		set = services.NewCollapseSet()
		h.collapsed[sessionID] = set
	}
	return set
}

// sectionData assembles the full render payload for the discussion
// section fragment.
func (h *DiscussionHandler) sectionData(c *gin.Context, extra gin.H) (gin.H, error) {
	sessionID := middleware.SessionID(c)
	pollID := config.Get().PollID

	discussions, err := h.discussions.ListByPoll(pollID)
	if err != nil {
		return nil, err
	}
	reactions, err := h.reactions.ListAll()
	if err != nil {
		return nil, err
	}

	items := services.BuildThread(discussions, reactions, sessionID)
	h.collapseSet(sessionID).Apply(items)

	data := gin.H{
		"Items":         items,
		"TopLevelCount": len(items),
		"MaxChars":      models.MaxCommentLength,
	}
	for k, v := range extra {
		data[k] = v
	}
	return data, nil
}

// Section renders the live discussion thread fragment.
func (h *DiscussionHandler) Section(c *gin.Context) {
	h.renderSection(c, nil)
}

// Create posts a new comment or reply and re-renders the section. Bad
// input is rejected before any store write; a store failure re-enables
// the form without queueing or retrying the submission.
func (h *DiscussionHandler) Create(c *gin.Context) {
	authorName := c.PostForm("author_name")
	authorEmail := c.PostForm("author_email")
	text := c.PostForm("text")
	parentDid := c.PostForm("parent_did")

	var parentID *uint
	if parentDid != "" {
		parent, err := h.discussions.GetByDid(parentDid)
		if err != nil {
			h.renderSection(c, gin.H{"Error": "The comment you replied to no longer exists."})
			return
		}
		parentID = &parent.ID
	}

	_, err := h.discussions.Create(config.Get().PollID, authorName, authorEmail, text, parentID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmptyAuthor), errors.Is(err, services.ErrEmptyText):
			h.renderSection(c, gin.H{"Error": "Name and comment text are required."})
		case errors.Is(err, services.ErrTextTooLong):
			h.renderSection(c, gin.H{"Error": "Comments are limited to 700 characters."})
		default:
			log.Printf("Failed to post comment: %v", err)
			h.renderSection(c, gin.H{"Error": "Failed to post your comment. Please try again."})
		}
		return
	}

	h.renderSection(c, gin.H{"Success": "Comment posted successfully!"})
}

// React toggles the visitor's like/dislike on a discussion and returns
// the updated action row fragment.
func (h *DiscussionHandler) React(c *gin.Context) {
	did := c.Param("did")
	reactionType := c.Param("type")
	sessionID := middleware.SessionID(c)

	discussion, err := h.discussions.GetByDid(did)
	if err != nil {
		c.Status(http.StatusNotFound)
		return
	}

	if err := h.reactions.Toggle(discussion.ID, sessionID, reactionType); err != nil {
		if errors.Is(err, services.ErrBadReactionType) {
			c.Status(http.StatusBadRequest)
			return
		}
		log.Printf("Failed to toggle reaction: %v", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	// Re-read authoritative state rather than trusting the local flip.
	reactions, err := h.reactions.ListAll()
	if err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}

	likes, dislikes, own := 0, 0, ""
	for _, r := range reactions {
		if r.DiscussionID != discussion.ID {
			continue
		}
		switch r.ReactionType {
		case models.ReactionLike:
			likes++
		case models.ReactionDislike:
			dislikes++
		}
		if r.SessionID == sessionID {
			own = r.ReactionType
		}
	}

	c.HTML(http.StatusOK, "discussion/reactions.html", gin.H{
		"Did":         discussion.Did,
		"Likes":       likes,
		"Dislikes":    dislikes,
		"OwnReaction": own,
	})
}

// Collapse flips reply visibility for one comment in the visitor's
// ephemeral collapse set and re-renders the section.
func (h *DiscussionHandler) Collapse(c *gin.Context) {
	did := c.Param("did")

	discussion, err := h.discussions.GetByDid(did)
	if err != nil {
		c.Status(http.StatusNotFound)
		return
	}

	h.collapseSet(middleware.SessionID(c)).Toggle(discussion.ID)
	h.renderSection(c, nil)
}

// Stream bridges row-store change events to the browser over SSE. One
// subscription per event class; both are released when the client goes
// away.
func (h *DiscussionHandler) Stream(c *gin.Context) {
	events := make(chan services.ChangeEvent, 8)
	push := func(e services.ChangeEvent) {
		select {
		case events <- e:
		default: // client is slow, drop; the next event triggers the same refetch
		}
	}

	discussionSub := h.hub.Subscribe(services.TableDiscussions, []string{services.EventInsert}, push)
	defer discussionSub.Unsubscribe()
	voteSub := h.hub.Subscribe(services.TableVotes, []string{services.EventInsert, services.EventDelete}, push)
	defer voteSub.Unsubscribe()

	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	c.Stream(func(w io.Writer) bool {
		select {
		case event := <-events:
			c.SSEvent("change", gin.H{"table": event.Table, "event": event.Event})
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}

func (h *DiscussionHandler) renderSection(c *gin.Context, extra gin.H) {
	data, err := h.sectionData(c, extra)
	if err != nil {
		log.Printf("Failed to load discussions: %v", err)
		data = gin.H{
			"Error":         "Failed to load discussions. Prior comments stay as shown; refresh to retry.",
			"TopLevelCount": 0,
			"MaxChars":      models.MaxCommentLength,
		}
	}
	c.HTML(http.StatusOK, "discussion/section.html", data)
}
