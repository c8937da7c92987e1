package portfolio

import (
	"net/url"
	"path"
	"strings"
)

// Slugify converts a title to a URL-safe slug.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	prev := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			prev = false
		default:
			if !prev && b.Len() > 0 {
				b.WriteByte('-')
				prev = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}

// BuildURL joins a base URL with path segments, ensuring a trailing slash.
func BuildURL(base string, pathSegments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	u.Path = path.Join(u.Path, path.Join(pathSegments...))
	if len(pathSegments) > 0 && !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u.String()
}

// PageTitle formats a document title as "<page> - <site>".
func PageTitle(page, site string) string {
	page = strings.TrimSpace(page)
	switch {
	case page == "":
		return site
	case site == "" || page == site:
		return page
	}
	return page + " - " + site
}

// NavLink is an entry of the site navigation. Partial links are active for
// every path below them; the rest only for an exact match.
type NavLink struct {
	Label   string
	Href    string
	Partial bool
}

// NavLinks is the site navigation in display order.
var NavLinks = []NavLink{
	{Label: "About", Href: "/"},
	{Label: "Blog", Href: "/blog/", Partial: true},
	{Label: "Contact", Href: "/contact/", Partial: true},
}

// NavItem is a NavLink resolved against the current path.
type NavItem struct {
	Label  string
	Href   string
	Active bool
}

// IsActive reports whether a link to href is active on current. Partial
// matching respects path segments: "/blog/" matches "/blog/x/" but not
// "/blogger/".
func IsActive(current, href string, partial bool) bool {
	current = normalizePath(current)
	href = normalizePath(href)
	if current == href {
		return true
	}
	if !partial || href == "/" {
		return false
	}
	return strings.HasPrefix(current, href)
}

func normalizePath(p string) string {
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if !strings.HasSuffix(p, "/") {
		p += "/"
	}
	return p
}

// PathEscape escapes a string for use in a URL path.
func PathEscape(s string) string {
	return url.PathEscape(s)
}
