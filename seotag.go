// Package seotag is a small publishing engine built with Go, Echo, and templ
// around one job: giving every page correct SEO metadata, most importantly a
// canonical, absolute og:image / twitter:image URL.
//
// Pages carry Jekyll-style front matter. The image front matter may be a
// string or a record with path, twitter and facebook keys; ImageResolver turns
// it into one escaped absolute URL that the <head> template, JSON-LD, the
// sitemap and the RSS feed all share.
package seotag

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/a-h/templ"
	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"
)

// ViewFuncs holds the templ components the App renders. The views package
// provides a default set.
type ViewFuncs struct {
	Home           func(meta PageMeta, posts []Post, activeTag string, tags []string) templ.Component
	Post           func(meta PageMeta, post Post, related []Post) templ.Component
	AdminLogin     func(showError bool, csrfToken string) templ.Component
	AdminDashboard func(posts []Post, message string, csrfToken string) templ.Component
	AdminForm      func(post Post, csrfToken string) templ.Component
	AdminImages    func(images []Image, csrfToken string) templ.Component
	NotFound       func() templ.Component
	ServerError    func() templ.Component
}

// App is the central seotag application. It wires together the store,
// cache, handlers, middleware, and templates.
type App struct {
	Config SiteConfig
	Echo   *echo.Echo
	Store  *Store
	Cache  *PostCache
	Views  ViewFuncs
	Logger *log.Logger

	filters      SiteFilters
	loginLimiter *LoginLimiter
	customRoutes []func(*App)
	staticDir    string
	ownsStore    bool
}

// New creates a new App with the given configuration and views.
func New(cfg SiteConfig, views ViewFuncs, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config:    cfg,
		Echo:      echo.New(),
		Views:     views,
		filters:   NewSiteFilters(cfg),
		staticDir: "public",
	}
	a.Echo.HideBanner = true

	for _, opt := range opts {
		opt(a)
	}
	if a.Logger == nil {
		a.Logger = NewLogger(cfg.LogLevel, nil)
	}

	return a
}

// Init opens the store and registers middleware and routes without starting
// the listener. Start calls it; tests call it directly.
func (a *App) Init() error {
	if a.Store == nil {
		store, err := NewStore(a.Config.DatabasePath)
		if err != nil {
			return fmt.Errorf("seotag: init store: %w", err)
		}
		a.Store = store
		a.ownsStore = true
	}

	a.Cache = NewPostCache(a.Store, a.Config.PageCacheSize, a.Config.PageCacheTTL)
	a.loginLimiter = NewLoginLimiter(5, time.Minute)

	a.setupMiddleware()
	a.setupRoutes()

	for _, fn := range a.customRoutes {
		fn(a)
	}
	return nil
}

// Start validates the config, initializes the App and starts the server.
func (a *App) Start() error {
	if err := a.Config.Validate(); err != nil {
		return err
	}
	if err := a.Init(); err != nil {
		return err
	}

	a.Logger.Info("listening", "addr", a.Config.Addr, "site", a.Config.URL)
	if err := a.Echo.Start(a.Config.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (a *App) setupRoutes() {
	e := a.Echo

	e.Static("/public", a.staticDir)
	e.GET("/favicon.svg", a.handleFavicon)
	e.GET("/robots.txt", a.handleRobots)

	// Public routes
	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)
	e.GET("/blog", handleBlogRedirect)
	e.GET("/", a.handleHome)
	e.GET("/blog/:slug/", a.handlePost)
	e.GET("/api/image/:slug/", a.handleImageAPI)

	// Admin routes
	e.GET("/admin/", a.handleAdmin)
	e.POST("/admin/login/", a.handleAdminLogin)
	e.POST("/admin/logout/", handleAdminLogout)
	e.GET("/admin/post/:slug/", a.handleAdminPost)
	e.POST("/admin/save/", a.handleAdminSave)
	e.DELETE("/admin/post/:slug/", a.handleAdminDelete)
	e.GET("/admin/images/", a.handleImageList)
	e.POST("/admin/images/upload/", a.handleImageUpload)
	e.DELETE("/admin/images/:filename/", a.handleImageDelete)
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	if a.Store != nil && a.ownsStore {
		return a.Store.Close()
	}
	return nil
}
