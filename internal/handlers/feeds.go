package handlers

import (
	"encoding/xml"
	"log/slog"
	"net/http"
	"time"
)

type rssXML struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title       string    `xml:"title"`
	Link        string    `xml:"link"`
	Description string    `xml:"description"`
	Items       []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
	PubDate     string `xml:"pubDate"`
	GUID        string `xml:"guid"`
}

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

// RSS serves the blog's RSS 2.0 feed of published posts.
func (p *Public) RSS(w http.ResponseWriter, r *http.Request) {
	posts, err := p.posts.ListPublished()
	if err != nil {
		slog.Error("rss list posts failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	items := make([]rssItem, 0, len(posts))
	for _, post := range posts {
		postURL := p.site.BaseURL + "/blog/" + post.Slug
		item := rssItem{
			Title:   post.Title,
			Link:    postURL,
			PubDate: post.DisplayDate().Format(time.RFC1123Z),
			GUID:    postURL,
		}
		if post.Excerpt != nil {
			item.Description = *post.Excerpt
		}
		items = append(items, item)
	}

	feed := rssXML{
		Version: "2.0",
		Channel: rssChannel{
			Title:       p.site.Name,
			Link:        p.site.BaseURL + "/blog",
			Description: p.site.Tagline,
			Items:       items,
		},
	}

	w.Header().Set("Content-Type", "application/rss+xml; charset=utf-8")
	w.Write([]byte(xml.Header))
	if err := xml.NewEncoder(w).Encode(feed); err != nil {
		slog.Error("rss encode failed", "error", err)
	}
}

// Sitemap serves the XML sitemap: home, feed, the legacy article, and
// every published post.
func (p *Public) Sitemap(w http.ResponseWriter, r *http.Request) {
	posts, err := p.posts.ListPublished()
	if err != nil {
		slog.Error("sitemap list posts failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	urls := []sitemapURL{
		{Loc: p.site.BaseURL + "/"},
		{Loc: p.site.BaseURL + "/blog"},
		{Loc: p.site.BaseURL + "/blog/" + LegacySlug},
	}
	for _, post := range posts {
		urls = append(urls, sitemapURL{
			Loc:     p.site.BaseURL + "/blog/" + post.Slug,
			LastMod: post.DisplayDate().Format("2006-01-02"),
		})
	}

	sitemap := sitemapURLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  urls,
	}

	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.Write([]byte(xml.Header))
	if err := xml.NewEncoder(w).Encode(sitemap); err != nil {
		slog.Error("sitemap encode failed", "error", err)
	}
}
