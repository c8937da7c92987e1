package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/derekaspaulding/portfolio/content"
)

var postsFormat string

var postsCmd = &cobra.Command{
	Use:     "posts",
	Aliases: []string{"p"},
	Short:   "List published posts",
	Long: `List the posts the blog would serve, newest first. Drafts are skipped.

Examples:
  portfolio posts
  portfolio posts --format json`,
	RunE: runPosts,
}

func init() {
	rootCmd.AddCommand(postsCmd)

	postsCmd.Flags().StringVarP(&postsFormat, "format", "f", "table", "output format (table, json, yaml)")
}

// postInfo is the listing shape for json and yaml output.
type postInfo struct {
	Title       string `json:"title" yaml:"title"`
	Date        string `json:"date,omitempty" yaml:"date,omitempty"`
	Slug        string `json:"slug" yaml:"slug"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

func runPosts(cmd *cobra.Command, args []string) error {
	lib := content.NewLibrary(viper.GetString(keyContentDir))
	posts, err := lib.Posts()
	if err != nil {
		return err
	}

	infos := make([]postInfo, len(posts))
	for i, p := range posts {
		infos[i] = postInfo{Title: p.Title, Date: p.ISODate(), Slug: p.Slug, Description: p.Description}
	}
	return writePosts(cmd.OutOrStdout(), postsFormat, infos)
}

func writePosts(w io.Writer, format string, posts []postInfo) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(posts)
	case "yaml":
		enc := yaml.NewEncoder(w)
		if err := enc.Encode(posts); err != nil {
			return err
		}
		return enc.Close()
	case "table":
		if len(posts) == 0 {
			_, err := fmt.Fprintln(w, "No posts found.")
			return err
		}
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "DATE\tTITLE\tSLUG")
		for _, p := range posts {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", p.Date, p.Title, p.Slug)
		}
		return tw.Flush()
	default:
		return fmt.Errorf("unsupported format: %s (supported: table, json, yaml)", format)
	}
}
