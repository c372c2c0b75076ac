package router

import (
	"fanpulse/internal/handlers"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine) {
	pageHandler := handlers.NewPageHandler()
	discussionHandler := handlers.NewDiscussionHandler()

	// Pages
	r.GET("/", pageHandler.Home)                             // contestant card grid
	r.GET("/vote", pageHandler.Vote)                         // embedded widget + live discussion
	r.GET("/results", pageHandler.Results)                   // voting trends
	r.GET("/results/standings", pageHandler.ResultsFragment) // 30s auto-refresh target
	r.GET("/social", pageHandler.Social)                     // hashtag feeds
	r.GET("/about", pageHandler.About)

	// Discussion thread
	r.GET("/discussions", discussionHandler.Section)                   // rendered thread fragment
	r.POST("/discussions", discussionHandler.Create)                   // post comment or reply
	r.POST("/discussions/:did/react/:type", discussionHandler.React)   // toggle like/dislike
	r.POST("/discussions/:did/collapse", discussionHandler.Collapse)   // hide/show replies
	r.GET("/discussions/stream", discussionHandler.Stream)             // SSE change feed

	r.NoRoute(pageHandler.NotFound)
}
