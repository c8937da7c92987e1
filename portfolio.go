// Package portfolio serves a personal site: an about page, a blog built from
// markdown files, a contact page, and the form backend the contact page
// submits to. It is built with Echo and templ.
//
// Templates are supplied through ViewFuncs so the look of the site lives
// outside this package; see the views package for the stock set.
package portfolio

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"time"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"

	"github.com/derekaspaulding/portfolio/contact"
	"github.com/derekaspaulding/portfolio/content"
	"github.com/derekaspaulding/portfolio/livereload"
	"github.com/derekaspaulding/portfolio/metrics"
)

// ViewFuncs holds the templ components the App renders.
type ViewFuncs struct {
	Home        func(page Page, about content.Post, recent []content.Post) templ.Component
	Blog        func(page Page, posts []content.Post) templ.Component
	Post        func(page Page, post content.Post, newer, older *content.Post) templ.Component
	Contact     func(page Page, form contact.State) templ.Component
	ContactForm func(page Page, form contact.State) templ.Component
	Received    func(page Page, sub Submission) templ.Component
	AdminLogin  func(page Page, showError bool) templ.Component
	AdminInbox  func(page Page, subs []Submission, message string) templ.Component
	AdminImages func(page Page, images []Image) templ.Component
	NotFound    func(page Page) templ.Component
	ServerError func(page Page) templ.Component
}

// App wires together the store, content cache, form backend, handlers,
// middleware and views.
type App struct {
	Config  SiteConfig
	Echo    *echo.Echo
	Store   *Store
	Library *content.Library
	Cache   *PostCache
	Inbox   *Inbox
	Views   ViewFuncs
	Live    *livereload.Hub

	loginLimiter   *KeyedLimiter
	contactLimiter *KeyedLimiter
	submitter      contact.Submitter
	sinks          []contact.Sink
	customRoutes   []func(*App)
	ownsStore      bool
	initialized    bool
}

// RecentPosts is how many posts the home page lists.
const RecentPosts = 5

// New creates an App with the given configuration and views.
func New(cfg SiteConfig, views ViewFuncs, opts ...Option) *App {
	cfg.setDefaults()

	e := echo.New()
	e.HideBanner = true

	a := &App{
		Config: cfg,
		Echo:   e,
		Views:  views,
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Init opens the store and connects the archive, then registers middleware
// and routes. Start calls it; tests call it directly to drive a.Echo.
func (a *App) Init(ctx context.Context) error {
	if a.initialized {
		return nil
	}
	if a.Config.AdminPassword == "" {
		return fmt.Errorf("portfolio: AdminPassword is required")
	}
	if a.Config.SessionSecret == "" {
		return fmt.Errorf("portfolio: SessionSecret is required")
	}

	if a.Store == nil {
		store, err := NewStore(a.Config.DatabasePath)
		if err != nil {
			return fmt.Errorf("portfolio: init store: %w", err)
		}
		a.Store = store
		a.ownsStore = true
	}

	a.Library = content.NewLibrary(a.Config.ContentDir)
	a.Cache = NewPostCache(a.Library, a.Config.PostCacheTTL)

	a.loginLimiter = NewKeyedLimiter(5, time.Minute)
	a.contactLimiter = NewKeyedLimiter(a.Config.ContactRateLimit, a.Config.ContactRateWindow)

	if a.Config.Archive.Endpoint != "" {
		archive, err := contact.NewMinioArchive(ctx, a.Config.Archive)
		if err != nil {
			return fmt.Errorf("portfolio: init archive: %w", err)
		}
		a.sinks = append(a.sinks, archive)
	}

	a.Inbox = NewInbox(a.Store, []string{a.Config.ContactFormName}, a.sinks, a.Echo.Logger)
	if a.submitter == nil {
		if a.Config.ContactEndpoint != "" {
			a.submitter = contact.NewHTTPSubmitter(a.Config.ContactEndpoint)
		} else {
			a.submitter = a.Inbox.Submitter(originFromContext)
		}
	}

	if a.Config.LiveReload {
		a.Live = livereload.NewHub()
	}

	a.setupMiddleware()
	a.setupRoutes()
	for _, fn := range a.customRoutes {
		fn(a)
	}

	a.initialized = true
	return nil
}

// Start initializes the app and serves until ctx is canceled, then shuts
// the server down gracefully.
func (a *App) Start(ctx context.Context) error {
	if err := a.Init(ctx); err != nil {
		return err
	}

	if a.Config.WatchContent || a.Config.LiveReload {
		go a.watchContent(ctx)
	}

	errc := make(chan error, 1)
	go func() {
		errc <- a.Echo.Start(a.Config.Addr)
	}()

	select {
	case err := <-errc:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	if a.Live != nil {
		a.Live.Close()
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.Config.ShutdownTimeout)
	defer cancel()
	if err := a.Echo.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("portfolio: shutdown: %w", err)
	}
	return nil
}

func (a *App) watchContent(ctx context.Context) {
	err := content.Watch(ctx, a.Config.ContentDir, content.DefaultDebounce, func(paths []string) {
		a.Echo.Logger.Infof("content changed: %d file(s)", len(paths))
		a.Cache.Invalidate()
		if a.Live != nil {
			a.Live.Reload()
		}
	})
	if err != nil {
		a.Echo.Logger.Errorf("content watcher stopped: %v", err)
	}
}

func (a *App) setupRoutes() {
	e := a.Echo

	// Site assets shipped in the binary; everything else under /public
	// falls through to the static dir.
	embeddedFS, _ := fs.Sub(EmbeddedAssets, "embedded")
	embeddedHandler := echo.WrapHandler(http.StripPrefix("/public/", http.FileServer(http.FS(embeddedFS))))
	for _, name := range embeddedFiles {
		e.GET("/public/"+name, embeddedHandler)
	}
	e.Static("/public", a.Config.StaticDir)
	e.GET("/favicon.svg", a.handleFavicon)
	e.GET("/robots.txt", a.handleRobots)

	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)
	e.GET("/", a.handleHome)
	e.GET("/blog/", a.handleBlog)
	e.GET("/blog/*", a.handlePost)

	// Form backend.
	e.POST("/", a.handleInbox)

	e.GET("/contact/", a.handleContact)
	e.POST("/contact/", a.handleContactSubmit)
	e.GET("/contact/success/", a.handleContactSuccess)
	e.POST("/contact/validate/", a.handleContactValidate)

	e.GET("/admin/", a.handleAdmin)
	e.POST("/admin/login/", a.handleAdminLogin)
	e.POST("/admin/logout/", handleAdminLogout)
	e.POST("/admin/submissions/:id/delete/", a.handleSubmissionDelete)
	e.GET("/admin/images/", a.handleImageList)
	e.POST("/admin/images/upload/", a.handleImageUpload)
	e.POST("/admin/images/:filename/delete/", a.handleImageDelete)

	if a.Config.MetricsEnabled {
		e.GET(metricsPath, echo.WrapHandler(metrics.Handler()))
	}
	if a.Live != nil {
		e.GET(livePath, echo.WrapHandler(a.Live))
	}
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	if a.loginLimiter != nil {
		a.loginLimiter.Stop()
	}
	if a.contactLimiter != nil {
		a.contactLimiter.Stop()
	}
	if a.Live != nil {
		a.Live.Close()
	}
	if a.Store != nil && a.ownsStore {
		return a.Store.Close()
	}
	return nil
}
