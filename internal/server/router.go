// Package server assembles the HTTP surface of lpaste and runs it.
package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/johnwmail/lpaste/internal/config"
	"github.com/johnwmail/lpaste/internal/handlers"
	"github.com/johnwmail/lpaste/internal/highlight"
	"github.com/johnwmail/lpaste/internal/services"
	"github.com/johnwmail/lpaste/internal/session"
	"github.com/johnwmail/lpaste/internal/storage"
	"github.com/johnwmail/lpaste/web"
)

// Deps are the collaborators the router is built from.
type Deps struct {
	Config   *config.Config
	Storage  storage.Storage
	Sessions session.Store
	Renderer *highlight.Renderer
	Logger   zerolog.Logger
}

// route binds one operation to a method and path pattern.
type route struct {
	name    string
	method  string
	path    string
	handler gin.HandlerFunc
}

func pasteRoutes(h *handlers.PasteHandler) []route {
	id := "/:" + handlers.ParamPasteID
	return []route{
		{"index", http.MethodGet, "/", h.Index},
		{"create", http.MethodPost, "/", h.Create},
		{"show", http.MethodGet, id, h.Show},
		{"html", http.MethodGet, id + "/html", h.HTML},
		{"plain", http.MethodGet, id + "/plain", h.Plain},
		{"delete", http.MethodGet, id + "/delete", h.Delete},
	}
}

// NewRouter creates and configures the gin engine.
func NewRouter(d Deps) (*gin.Engine, error) {
	tmpl, err := web.Templates(nil)
	if err != nil {
		return nil, errors.Wrap(err, "parse templates")
	}

	pasteService := services.NewPasteService(d.Storage, services.WithLogger(d.Logger))
	pasteHandler := handlers.NewPasteHandler(pasteService, d.Renderer, d.Logger)
	systemHandler := handlers.NewSystemHandler()

	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.SetHTMLTemplate(tmpl)

	router.Use(
		requestID(),
		accessLog(d.Logger),
		recovery(d.Logger),
		securityHeaders(),
		observe(),
		errorResponder(),
	)

	if d.Config.StaticDir != "" {
		router.Static("/static", d.Config.StaticDir)
	} else {
		router.StaticFS("/static", http.FS(web.Static()))
	}

	router.GET("/health", systemHandler.Health)
	if d.Config.EnableMetrics {
		router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	sessions := session.Middleware(d.Sessions, session.Options{
		CookieName: d.Config.SessionCookie,
		TTL:        d.Config.SessionTTL,
		Logger:     d.Logger,
	})
	pages := router.Group("/", sessions)
	for _, rt := range pasteRoutes(pasteHandler) {
		pages.Handle(rt.method, rt.path, rt.handler)
		d.Logger.Debug().Str("route", rt.name).Str("method", rt.method).Str("path", rt.path).Msg("registered")
	}

	router.NoRoute(sessions, pasteHandler.NotFound)

	return router, nil
}
