// Package content discovers the site's markdown content on disk: blog posts
// under <root>/posts and standalone pages such as <root>/about.md.
package content

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/derekaspaulding/portfolio/markdown"
)

// ErrNotFound is returned when a requested page does not exist.
var ErrNotFound = errors.New("content: not found")

// MaxPosts caps how many posts a listing returns.
const MaxPosts = 1000

// BlogPrefix is the URL path every post slug starts with.
const BlogPrefix = "/blog"

// Post is one markdown document with its frontmatter and rendered body.
type Post struct {
	Title       string
	Date        string
	Description string
	Slug        string
	HTML        string
	Source      string
	Time        time.Time
}

// DisplayDate formats the post date for humans, falling back to the raw
// frontmatter string when it could not be parsed.
func (p Post) DisplayDate() string {
	if p.Time.IsZero() {
		return p.Date
	}
	return p.Time.Format("January 2, 2006")
}

// ISODate returns the date as YYYY-MM-DD, or the raw string if unparsed.
func (p Post) ISODate() string {
	if p.Time.IsZero() {
		return p.Date
	}
	return p.Time.Format("2006-01-02")
}

// Library reads content from a root directory.
type Library struct {
	Root  string
	Limit int
}

// NewLibrary returns a Library rooted at dir.
func NewLibrary(dir string) *Library {
	return &Library{Root: dir, Limit: MaxPosts}
}

// PostsDir is the directory posts are discovered in.
func (l *Library) PostsDir() string {
	return filepath.Join(l.Root, "posts")
}

// Posts loads every non-draft post, newest first. A missing posts directory
// yields no posts.
func (l *Library) Posts() ([]Post, error) {
	dir := l.PostsDir()
	var posts []Post
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == dir && errors.Is(err, fs.ErrNotExist) {
				return fs.SkipAll
			}
			return err
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(p), ".md") {
			return nil
		}
		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		post, draft, err := loadFile(p)
		if err != nil {
			return err
		}
		if draft {
			return nil
		}
		post.Slug = Slug(rel)
		posts = append(posts, post)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("content: load posts: %w", err)
	}

	sort.SliceStable(posts, func(i, j int) bool {
		if !posts[i].Time.Equal(posts[j].Time) {
			return posts[i].Time.After(posts[j].Time)
		}
		return posts[i].Date > posts[j].Date
	})
	limit := l.Limit
	if limit <= 0 {
		limit = MaxPosts
	}
	if len(posts) > limit {
		posts = posts[:limit]
	}
	return posts, nil
}

// Page loads a standalone page such as "about" from <root>/<name>.md.
func (l *Library) Page(name string) (Post, error) {
	p := filepath.Join(l.Root, name+".md")
	post, _, err := loadFile(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Post{}, ErrNotFound
		}
		return Post{}, fmt.Errorf("content: load page %s: %w", name, err)
	}
	post.Slug = "/" + name + "/"
	return post, nil
}

func loadFile(p string) (Post, bool, error) {
	raw, err := os.ReadFile(p)
	if err != nil {
		return Post{}, false, err
	}
	fm, body, err := SplitFrontmatter(string(raw))
	if err != nil {
		return Post{}, false, fmt.Errorf("%s: %w", p, err)
	}
	post := Post{
		Title:       strings.TrimSpace(fm.Title),
		Date:        strings.TrimSpace(fm.Date.Raw),
		Description: strings.TrimSpace(fm.Description),
		HTML:        markdown.Render(body),
		Source:      p,
		Time:        ParseDate(fm.Date.Raw),
	}
	if post.Title == "" {
		post.Title = TitleFromFilename(p)
	}
	if post.Description == "" {
		post.Description = Excerpt(post.HTML, ExcerptLength)
	}
	return post, fm.Draft, nil
}

// Slug turns a path relative to the posts directory into a URL path:
// "a/b.md" becomes "/blog/a/b/" and "a/index.md" becomes "/blog/a/".
func Slug(rel string) string {
	rel = filepath.ToSlash(rel)
	rel = strings.TrimSuffix(rel, path.Ext(rel))
	if path.Base(rel) == "index" {
		rel = path.Dir(rel)
	}
	rel = strings.Trim(rel, "/")
	if rel == "" || rel == "." {
		return BlogPrefix + "/"
	}
	return BlogPrefix + "/" + rel + "/"
}

var titleCaser = cases.Title(language.English)

// TitleFromFilename derives a title from a file stem, e.g.
// "hello-world.md" -> "Hello World". Index files use their directory name.
func TitleFromFilename(p string) string {
	stem := strings.TrimSuffix(filepath.Base(p), filepath.Ext(p))
	if stem == "index" {
		stem = filepath.Base(filepath.Dir(p))
	}
	stem = strings.NewReplacer("-", " ", "_", " ").Replace(stem)
	return titleCaser.String(strings.TrimSpace(stem))
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05.000Z",
	"January 2, 2006",
}

// ParseDate parses the ISO-ish date strings found in frontmatter. It
// returns the zero time when nothing matches.
func ParseDate(s string) time.Time {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
