package portfolio

import (
	"time"

	"github.com/derekaspaulding/portfolio/contact"
)

// SiteConfig holds all configuration for the site.
type SiteConfig struct {
	Name         string // Site name (default "Portfolio")
	URL          string // Canonical URL (default "http://localhost:3000")
	Description  string // Site description for RSS and meta tags
	Author       string
	ContactEmail string // Shown as a mailto link on the contact page

	Addr         string // Listen address (default ":3000")
	DatabasePath string // SQLite path (default "data/portfolio.db")
	ContentDir   string // Markdown root; posts live in <ContentDir>/posts (default "content")
	StaticDir    string // User static assets served under /public (default "public")

	AdminPassword string // Required: admin login password
	SessionSecret string // Required: session encryption secret
	CookieSecure  bool   // Set true for HTTPS

	PostCacheTTL time.Duration // Post cache TTL (default 5min)
	WatchContent bool          // Reload posts when files under ContentDir change

	// ContactFormName is the form-name the contact page submits and the
	// inbox accepts (default "contact").
	ContactFormName string
	// ContactEndpoint, when set, sends contact submissions to an external
	// form backend instead of the built-in inbox.
	ContactEndpoint string
	// ContactRateLimit is the number of submissions per client IP allowed
	// per ContactRateWindow (default 5 per hour).
	ContactRateLimit  int
	ContactRateWindow time.Duration

	// Archive copies accepted submissions to an S3-compatible bucket when
	// Archive.Endpoint is set.
	Archive contact.ArchiveConfig

	MetricsEnabled bool // Serve Prometheus metrics on /metrics
	LiveReload     bool // Development: push reloads to browsers over /_live

	ShutdownTimeout time.Duration // Graceful shutdown deadline (default 10s)
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "Portfolio"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.DatabasePath == "" {
		c.DatabasePath = "data/portfolio.db"
	}
	if c.ContentDir == "" {
		c.ContentDir = "content"
	}
	if c.StaticDir == "" {
		c.StaticDir = "public"
	}
	if c.PostCacheTTL == 0 {
		c.PostCacheTTL = 5 * time.Minute
	}
	if c.ContactFormName == "" {
		c.ContactFormName = contact.DefaultFormName
	}
	if c.ContactRateLimit == 0 {
		c.ContactRateLimit = 5
	}
	if c.ContactRateWindow == 0 {
		c.ContactRateWindow = time.Hour
	}
	if c.ShutdownTimeout == 0 {
		c.ShutdownTimeout = 10 * time.Second
	}
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the App before the server starts.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithSubmitter overrides where the contact page delivers submissions.
func WithSubmitter(s contact.Submitter) Option {
	return func(a *App) {
		a.submitter = s
	}
}

// WithSink adds a destination that receives a copy of every accepted
// submission.
func WithSink(s contact.Sink) Option {
	return func(a *App) {
		a.sinks = append(a.sinks, s)
	}
}

// WithStore uses an already opened store instead of opening
// Config.DatabasePath.
func WithStore(s *Store) Option {
	return func(a *App) {
		a.Store = s
	}
}
