// Package folio serves a personal site whose blog is a directory of markdown
// articles. The content pipeline lives in package content; this package wires
// it to an Echo server, templ views, RSS and a sitemap.
//
// Users may replace any page through the ViewFuncs struct; folio handles the
// routing, middleware, and content loading.
package folio

import (
	"fmt"
	"net/http"
	"os"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"

	"github.com/liamso/folio/content"
	"github.com/liamso/folio/markdown"
	"github.com/liamso/folio/views"
)

// ViewFuncs holds the templ components the framework calls when rendering
// pages. This is the inversion-of-control mechanism that lets users own
// and customize all templates.
type ViewFuncs struct {
	Home        func(index *content.Index) templ.Component
	Blog        func(index *content.Index) templ.Component
	Article     func(article content.Article) templ.Component
	NotFound    func() templ.Component
	ServerError func() templ.Component
}

// DefaultViews returns the built-in views for cfg.
func DefaultViews(cfg SiteConfig) ViewFuncs {
	site := views.Site{
		Name:        cfg.Name,
		URL:         cfg.URL,
		Description: cfg.Description,
		Author:      cfg.Author,
	}
	return ViewFuncs{
		Home: func(index *content.Index) templ.Component {
			return views.Home(site, index, cfg.RecentArticles)
		},
		Blog: func(index *content.Index) templ.Component {
			return views.Blog(site, index)
		},
		Article: func(article content.Article) templ.Component {
			return views.Article(site, article)
		},
		NotFound:    func() templ.Component { return views.NotFound(site) },
		ServerError: func() templ.Component { return views.ServerError(site) },
	}
}

// App is the central folio application. It wires together the content
// library, handlers, middleware, and templates.
type App struct {
	Config  SiteConfig
	Echo    *echo.Echo
	Library content.Library
	Views   ViewFuncs

	apiLimiter   *RequestLimiter
	closers      []func() error
	customRoutes []func(*App)
	staticDir    string
}

// New creates a folio App with the given configuration. Zero-valued fields
// of views fall back to DefaultViews.
func New(cfg SiteConfig, v ViewFuncs, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config:    cfg,
		Echo:      echo.New(),
		Views:     mergeViews(v, DefaultViews(cfg)),
		staticDir: "public",
	}
	a.Echo.HideBanner = true
	a.Echo.Logger.SetLevel(parseLevel(cfg.LogLevel))

	for _, opt := range opts {
		opt(a)
	}
	return a
}

func mergeViews(v, def ViewFuncs) ViewFuncs {
	if v.Home == nil {
		v.Home = def.Home
	}
	if v.Blog == nil {
		v.Blog = def.Blog
	}
	if v.Article == nil {
		v.Article = def.Article
	}
	if v.NotFound == nil {
		v.NotFound = def.NotFound
	}
	if v.ServerError == nil {
		v.ServerError = def.ServerError
	}
	return v
}

func parseLevel(s string) log.Lvl {
	switch s {
	case "debug":
		return log.DEBUG
	case "warn":
		return log.WARN
	case "error":
		return log.ERROR
	case "off":
		return log.OFF
	default:
		return log.INFO
	}
}

// OpenStore opens the article store described by cfg: a SQLite database
// when ContentDB is set, otherwise the markdown directory. The returned
// closer releases the store.
func OpenStore(cfg SiteConfig) (content.Store, func() error, error) {
	if cfg.ContentDB != "" {
		db, err := content.OpenSQLiteStore(cfg.ContentDB)
		if err != nil {
			return nil, nil, fmt.Errorf("folio: open content db: %w", err)
		}
		return db, db.Close, nil
	}
	info, err := os.Stat(cfg.ContentDir)
	if err != nil {
		return nil, nil, fmt.Errorf("folio: content dir: %w", err)
	}
	if !info.IsDir() {
		return nil, nil, fmt.Errorf("folio: content dir %s is not a directory", cfg.ContentDir)
	}
	return content.NewDirStore(os.DirFS(cfg.ContentDir)), func() error { return nil }, nil
}

// NewContentService builds the content service for store using the renderer
// settings in cfg.
func NewContentService(cfg SiteConfig, store content.Store, logger content.Logger) *content.Service {
	return content.NewService(store,
		content.WithRenderer(markdown.New(markdown.Options{HighlightStyle: cfg.HighlightStyle})),
		content.WithLogger(logger),
	)
}

// OpenLibrary opens the configured store and wraps it in a cache.
func OpenLibrary(cfg SiteConfig, logger content.Logger) (*content.Cache, func() error, error) {
	store, closer, err := OpenStore(cfg)
	if err != nil {
		return nil, nil, err
	}
	return content.NewCache(NewContentService(cfg, store, logger), cfg.CacheTTL), closer, nil
}

// Init opens the content library (unless one was injected), installs
// middleware, and registers routes. Start calls it; tests call it directly.
func (a *App) Init() error {
	if a.Library == nil {
		lib, closer, err := OpenLibrary(a.Config, a.Echo.Logger)
		if err != nil {
			return err
		}
		a.Library = lib
		a.closers = append(a.closers, closer)
	}
	a.apiLimiter = NewRequestLimiter(a.Config.RateLimit, defaultLimiterWindow)

	a.setupMiddleware()
	a.setupRoutes()
	for _, fn := range a.customRoutes {
		fn(a)
	}
	return nil
}

// Start initializes the app and starts the server.
func (a *App) Start() error {
	if err := a.Init(); err != nil {
		return err
	}
	a.Echo.Logger.Infof("folio: serving %s on %s", a.Config.Name, a.Config.Addr)
	if err := a.Echo.Start(a.Config.Addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (a *App) setupRoutes() {
	e := a.Echo

	e.Static("/public", a.staticDir)
	e.GET("/favicon.svg", a.handleFavicon)
	e.GET("/robots.txt", a.handleRobots)

	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)
	e.GET("/", a.handleHome)
	e.GET("/blog", handleBlogRedirect)
	e.GET("/blog/", a.handleBlog)
	e.GET("/blog/:slug/", a.handleArticle)

	api := e.Group("/api", a.rateLimitMiddleware)
	api.GET("/articles", a.handleAPIIndex)
	api.GET("/articles/:slug", a.handleAPIArticle)
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	var first error
	for _, c := range a.closers {
		if err := c(); err != nil && first == nil {
			first = err
		}
	}
	if a.apiLimiter != nil {
		a.apiLimiter.Stop()
	}
	return first
}
