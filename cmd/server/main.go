package main

import (
	"html/template"
	"log"
	"os"
	"strings"
	"time"

	"fanpulse/internal/db"
	"fanpulse/internal/middleware"
	"fanpulse/internal/router"
	"fanpulse/internal/services"
	"fanpulse/internal/utils"

	"github.com/gin-contrib/multitemplate"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, finding env vars from system")
	}

	// Initialize Database
	db.Init()

	// Start the background poll results reader (30s interval)
	services.GetPollResultsService().StartScheduledFetch()

	// Initialize Gin
	r := gin.Default()

	// Setup Sessions
	secret := os.Getenv("SESSION_SECRET")
	if secret == "" {
		secret = "secret_key_change_me"
	}
	store := cookie.NewStore([]byte(secret))
	r.Use(sessions.Sessions("fanpulse_session", store))

	// Load Templates using Multitemplate to avoid collision and allow handler names
	r.HTMLRender = loadTemplates("./web/templates")

	// Static Assets
	r.Static("/static", "./web/static")

	// Middleware
	r.Use(middleware.EnsureSession())

	// Routes
	router.RegisterRoutes(r)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("fanpulse server starting on :%s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatal(err)
	}
}

func loadTemplates(templatesDir string) multitemplate.Renderer {
	r := multitemplate.NewRenderer()

	layout := templatesDir + "/layouts/base.html"
	components := []string{
		templatesDir + "/components/discussion_section.html",
		templatesDir + "/components/comment.html",
		templatesDir + "/components/reactions.html",
		templatesDir + "/components/standings.html",
	}

	// Helper to assemble a full page: layout first so it is the root
	assemble := func(view string) []string {
		files := make([]string, 0, len(components)+2)
		files = append(files, layout)
		files = append(files, components...)
		files = append(files, view)
		return files
	}

	funcMap := template.FuncMap{
		"timeAgo": func(t interface{}) string {
			if v, ok := t.(time.Time); ok {
				return utils.TimeAgo(v)
			}
			return ""
		},
		"clock": func(t time.Time) string {
			if t.IsZero() {
				return "never"
			}
			return t.Format("15:04:05")
		},
		"renderComment": utils.RenderComment,
		"tagSlug": func(s string) string {
			return strings.TrimPrefix(s, "#")
		},
	}

	// Pages
	r.AddFromFilesFuncs("home.html", funcMap, assemble(templatesDir+"/views/home.html")...)
	r.AddFromFilesFuncs("vote.html", funcMap, assemble(templatesDir+"/views/vote.html")...)
	r.AddFromFilesFuncs("results.html", funcMap, assemble(templatesDir+"/views/results.html")...)
	r.AddFromFilesFuncs("social.html", funcMap, assemble(templatesDir+"/views/social.html")...)
	r.AddFromFilesFuncs("about.html", funcMap, assemble(templatesDir+"/views/about.html")...)
	r.AddFromFilesFuncs("error.html", funcMap, assemble(templatesDir+"/views/error.html")...)

	// Fragments (no layout; first file is the rendered root)
	r.AddFromFilesFuncs("discussion/section.html", funcMap,
		templatesDir+"/fragments/section.html",
		templatesDir+"/components/comment.html",
		templatesDir+"/components/reactions.html")
	r.AddFromFilesFuncs("discussion/reactions.html", funcMap,
		templatesDir+"/fragments/reactions.html",
		templatesDir+"/components/reactions.html")
	r.AddFromFilesFuncs("results/standings.html", funcMap,
		templatesDir+"/fragments/standings.html",
		templatesDir+"/components/standings.html")

	return r
}
