package main

import (
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/derekaspaulding/portfolio"
	"github.com/derekaspaulding/portfolio/contact"
)

// Config keys. Nested keys map to PORTFOLIO_<SECTION>_<OPTION> in the
// environment.
const (
	keySiteName         = "site.name"
	keySiteURL          = "site.url"
	keySiteDescription  = "site.description"
	keySiteAuthor       = "site.author"
	keySiteContactEmail = "site.contact_email"

	keyServerAddr      = "server.addr"
	keyCookieSecure    = "server.cookie_secure"
	keyMetrics         = "server.metrics"
	keyLiveReload      = "server.live_reload"
	keyShutdownTimeout = "server.shutdown_timeout"

	keyDatabasePath = "paths.database"
	keyContentDir   = "paths.content"
	keyStaticDir    = "paths.static"

	keyAdminPassword = "admin.password"
	keySessionSecret = "admin.session_secret"

	keyCacheTTL = "content.cache_ttl"
	keyWatch    = "content.watch"

	keyFormName   = "contact.form_name"
	keyEndpoint   = "contact.endpoint"
	keyRateLimit  = "contact.rate_limit"
	keyRateWindow = "contact.rate_window"

	keyArchiveEndpoint  = "archive.endpoint"
	keyArchiveAccessKey = "archive.access_key"
	keyArchiveSecretKey = "archive.secret_key"
	keyArchiveBucket    = "archive.bucket"
	keyArchivePrefix    = "archive.prefix"
	keyArchiveSSL       = "archive.use_ssl"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault(keySiteName, "Portfolio")
	v.SetDefault(keySiteURL, "http://localhost:3000")
	v.SetDefault(keyServerAddr, ":3000")
	v.SetDefault(keyShutdownTimeout, 10*time.Second)
	v.SetDefault(keyDatabasePath, "data/portfolio.db")
	v.SetDefault(keyContentDir, "content")
	v.SetDefault(keyStaticDir, "public")
	v.SetDefault(keyCacheTTL, 5*time.Minute)
	v.SetDefault(keyFormName, contact.DefaultFormName)
	v.SetDefault(keyRateLimit, 5)
	v.SetDefault(keyRateWindow, time.Hour)
	v.SetDefault(keyArchiveSSL, true)
}

// bindLegacyEnv keeps the plain variable names older deployments use.
func bindLegacyEnv(v *viper.Viper) {
	legacy := map[string]string{
		keySiteName:        "SITE_NAME",
		keySiteURL:         "SITE_URL",
		keySiteDescription: "SITE_DESCRIPTION",
		keySiteAuthor:      "SITE_AUTHOR",
		keyDatabasePath:    "DATABASE_PATH",
		keyAdminPassword:   "ADMIN_PASSWORD",
		keySessionSecret:   "ADMIN_SESSION_SECRET",
		keyCookieSecure:    "COOKIE_SECURE",
	}
	for key, env := range legacy {
		_ = v.BindEnv(key, "PORTFOLIO_"+strings.ToUpper(strings.ReplaceAll(key, ".", "_")), env)
	}
}

func loadSiteConfig(v *viper.Viper) portfolio.SiteConfig {
	return portfolio.SiteConfig{
		Name:         v.GetString(keySiteName),
		URL:          strings.TrimSuffix(v.GetString(keySiteURL), "/"),
		Description:  v.GetString(keySiteDescription),
		Author:       v.GetString(keySiteAuthor),
		ContactEmail: v.GetString(keySiteContactEmail),

		Addr:         v.GetString(keyServerAddr),
		DatabasePath: v.GetString(keyDatabasePath),
		ContentDir:   v.GetString(keyContentDir),
		StaticDir:    v.GetString(keyStaticDir),

		AdminPassword: v.GetString(keyAdminPassword),
		SessionSecret: v.GetString(keySessionSecret),
		CookieSecure:  v.GetBool(keyCookieSecure),

		PostCacheTTL: v.GetDuration(keyCacheTTL),
		WatchContent: v.GetBool(keyWatch),

		ContactFormName:   v.GetString(keyFormName),
		ContactEndpoint:   v.GetString(keyEndpoint),
		ContactRateLimit:  v.GetInt(keyRateLimit),
		ContactRateWindow: v.GetDuration(keyRateWindow),

		Archive: contact.ArchiveConfig{
			Endpoint:        v.GetString(keyArchiveEndpoint),
			AccessKeyID:     v.GetString(keyArchiveAccessKey),
			SecretAccessKey: v.GetString(keyArchiveSecretKey),
			Bucket:          v.GetString(keyArchiveBucket),
			Prefix:          v.GetString(keyArchivePrefix),
			UseSSL:          v.GetBool(keyArchiveSSL),
		},

		MetricsEnabled: v.GetBool(keyMetrics),
		LiveReload:     v.GetBool(keyLiveReload),

		ShutdownTimeout: v.GetDuration(keyShutdownTimeout),
	}
}
