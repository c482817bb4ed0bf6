// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	_ "embed"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"signalpress/internal/cache"
	"signalpress/internal/markup"
	"signalpress/internal/models"
	"signalpress/internal/render"
	"signalpress/internal/store"
)

// LegacySlug is the slug of the static launch article that predates the
// CMS. It is reserved: the editor cannot assign it to a database post,
// and the article route serves the embedded copy instead of querying.
const LegacySlug = "12000-hours"

//go:embed legacy/12000-hours.md
var legacyArticleSource string

// Public groups handlers for the public-facing site. It checks the
// Valkey page cache before rendering, and stores results on miss.
type Public struct {
	renderer  *render.Renderer
	posts     *store.PostStore
	pageCache *cache.PageCache
	site      SiteInfo
}

// SiteInfo carries the public site identity into templates and feeds.
type SiteInfo struct {
	Name    string
	Tagline string
	BaseURL string
}

// NewPublic creates a new Public handler group.
func NewPublic(renderer *render.Renderer, posts *store.PostStore, pageCache *cache.PageCache, site SiteInfo) *Public {
	return &Public{
		renderer:  renderer,
		posts:     posts,
		pageCache: pageCache,
		site:      site,
	}
}

// Home renders the marketing landing page with the latest posts.
func (p *Public) Home(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if cached, ok := p.pageCache.Get(ctx, cache.HomeKey()); ok {
		writeHTML(w, cached)
		return
	}

	posts, err := p.posts.ListPublished()
	if err != nil {
		slog.Error("list published posts failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if len(posts) > 3 {
		posts = posts[:3]
	}

	page, err := p.renderer.Public("home", &render.SiteData{
		Title:       "Medware · Marketing infrastructure for healthcare practices",
		SiteName:    p.site.Name,
		SiteTagline: p.site.Tagline,
		BaseURL:     p.site.BaseURL,
		Data:        map[string]any{"Posts": posts},
	})
	if err != nil {
		slog.Error("render home failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	p.pageCache.Set(ctx, cache.HomeKey(), page)
	writeHTML(w, page)
}

// Feed renders the blog index. The newest published post is featured at
// the top; the rest fill the grid below.
func (p *Public) Feed(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if cached, ok := p.pageCache.Get(ctx, cache.FeedKey()); ok {
		writeHTML(w, cached)
		return
	}

	posts, err := p.posts.ListPublished()
	if err != nil {
		slog.Error("list published posts failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	var featured *models.Post
	rest := posts
	if len(posts) > 0 {
		featured = &posts[0]
		rest = posts[1:]
	}

	page, err := p.renderer.Public("feed", &render.SiteData{
		Title:       p.site.Name + " · " + p.site.Tagline,
		SiteName:    p.site.Name,
		SiteTagline: p.site.Tagline,
		BaseURL:     p.site.BaseURL,
		Data: map[string]any{
			"Featured": featured,
			"Rest":     rest,
		},
	})
	if err != nil {
		slog.Error("render feed failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	p.pageCache.Set(ctx, cache.FeedKey(), page)
	writeHTML(w, page)
}

// Article renders a single published post by slug. Drafts and unknown
// slugs both return 404; the response does not reveal which it was.
func (p *Public) Article(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	slugParam := chi.URLParam(r, "slug")

	if cached, ok := p.pageCache.Get(ctx, cache.ArticleKey(slugParam)); ok {
		writeHTML(w, cached)
		return
	}

	var post *models.Post
	if slugParam == LegacySlug {
		post = legacyArticle()
	} else {
		var err error
		post, err = p.posts.FindBySlug(slugParam)
		if err != nil {
			slog.Error("find post by slug failed", "error", err, "slug", slugParam)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		if post == nil {
			http.NotFound(w, r)
			return
		}
	}

	page, err := p.renderer.Public("article", &render.SiteData{
		Title:       post.Title + " · " + p.site.Name,
		SiteName:    p.site.Name,
		SiteTagline: p.site.Tagline,
		BaseURL:     p.site.BaseURL,
		Data: map[string]any{
			"Post":       post,
			"HTML":       markup.Render(post.Content),
			"ArticleURL": p.site.BaseURL + "/blog/" + post.Slug,
		},
	})
	if err != nil {
		slog.Error("render article failed", "error", err, "slug", slugParam)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	p.pageCache.Set(ctx, cache.ArticleKey(slugParam), page)
	writeHTML(w, page)
}

// legacyArticle builds the in-memory post for the reserved static slug.
func legacyArticle() *models.Post {
	excerpt := "Practical lessons from 12,000+ hours of daily AI use. No hype, no jargon, just what works."
	category := "AI & Automation"
	return &models.Post{
		Title:      "What I Learned After 12,000 Hours with AI",
		Slug:       LegacySlug,
		Content:    legacyArticleSource,
		Excerpt:    &excerpt,
		Category:   &category,
		AuthorName: models.DefaultAuthorName,
		Published:  true,
	}
}

// Health is a minimal liveness endpoint for load balancers.
func (p *Public) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("ok"))
}

func writeHTML(w http.ResponseWriter, body []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(body)
}
