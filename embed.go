package portfolio

import "embed"

// EmbeddedAssets contains the assets shipped with the site: the stylesheet,
// the contact form script and the live reload client.
//
//go:embed embedded/*
var EmbeddedAssets embed.FS

// embeddedFiles are served from EmbeddedAssets under /public/.
var embeddedFiles = []string{"site.css", "contact.js", "live.js"}
