package handlers

import (
	"fanpulse/internal/config"
	"fanpulse/internal/middleware"

	"github.com/gin-gonic/gin"
)

// Render helper to inject common variables shared by every page
func Render(c *gin.Context, code int, name string, obj gin.H) {
	if obj == nil {
		obj = gin.H{}
	}

	cfg := config.Get()
	obj["WeekNumber"] = cfg.WeekNumber
	obj["InstagramHashtag"] = cfg.InstagramHashtag
	obj["TwitterHashtag"] = cfg.TwitterHashtag
	obj["CurrentPath"] = c.Request.URL.Path
	obj["SessionID"] = middleware.SessionID(c)
	if _, ok := obj["Active"]; !ok {
		obj["Active"] = ""
	}
	if _, ok := obj["Title"]; !ok {
		obj["Title"] = "Bigg Boss 9 Telugu"
	}
	if _, ok := obj["Description"]; !ok {
		obj["Description"] = ""
	}

	c.HTML(code, name, obj)
}

// Error helper
func RenderError(c *gin.Context, code int, message string) {
	Render(c, code, "error.html", gin.H{"Error": message})
}
