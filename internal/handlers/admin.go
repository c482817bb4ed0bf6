// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers contains all HTTP handlers, grouped by surface:
// Public (site), Auth (login and 2FA), Admin (post editing), and
// AdminMedia (uploads and the media library).
package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"signalpress/internal/cache"
	"signalpress/internal/markup"
	"signalpress/internal/middleware"
	"signalpress/internal/models"
	"signalpress/internal/render"
	"signalpress/internal/slug"
	"signalpress/internal/store"
)

// Admin groups the authoring handlers behind /admin.
type Admin struct {
	renderer  *render.Renderer
	posts     *store.PostStore
	pageCache *cache.PageCache
}

// NewAdmin creates a new Admin handler group.
func NewAdmin(renderer *render.Renderer, posts *store.PostStore, pageCache *cache.PageCache) *Admin {
	return &Admin{
		renderer:  renderer,
		posts:     posts,
		pageCache: pageCache,
	}
}

// PostsList shows every post, drafts included.
func (a *Admin) PostsList(w http.ResponseWriter, r *http.Request) {
	posts, err := a.posts.List()
	if err != nil {
		slog.Error("admin list posts failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	total, err := a.posts.Count()
	if err != nil {
		slog.Error("count posts failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	a.renderer.Page(w, r, "posts_list", &render.PageData{
		Title:   "Posts",
		Section: "posts",
		Flash:   r.URL.Query().Get("flash"),
		Data:    map[string]any{"Posts": posts, "Total": total},
	})
}

// PostNew renders an empty editor form.
func (a *Admin) PostNew(w http.ResponseWriter, r *http.Request) {
	a.renderer.Page(w, r, "post_form", &render.PageData{
		Title:   "New post",
		Section: "posts",
		Data: map[string]any{
			"IsNew":      true,
			"Post":       &models.Post{},
			"Action":     "/admin/posts",
			"Categories": models.Categories,
		},
	})
}

// PostEdit renders the editor form for an existing post.
func (a *Admin) PostEdit(w http.ResponseWriter, r *http.Request) {
	post := a.findPost(w, r)
	if post == nil {
		return
	}

	a.renderer.Page(w, r, "post_form", &render.PageData{
		Title:   "Edit post",
		Section: "posts",
		Data: map[string]any{
			"IsNew":      false,
			"Post":       post,
			"Action":     "/admin/posts/" + post.ID.String(),
			"Categories": models.Categories,
		},
	})
}

// PostCreate handles the new-post form submission.
func (a *Admin) PostCreate(w http.ResponseWriter, r *http.Request) {
	post := &models.Post{}
	errMsg := a.bindForm(r, post)

	sess := middleware.SessionFromCtx(r.Context())
	post.UserID = sess.UserID

	if errMsg == "" {
		_, err := a.posts.Create(post)
		errMsg = writeErrorMessage(err, post.Slug)
	}

	if errMsg != "" {
		a.renderer.Page(w, r, "post_form", &render.PageData{
			Title:   "New post",
			Section: "posts",
			Error:   errMsg,
			Data: map[string]any{
				"IsNew":      true,
				"Post":       post,
				"Action":     "/admin/posts",
				"Categories": models.Categories,
			},
		})
		return
	}

	a.invalidate(r, post.Slug)
	http.Redirect(w, r, "/admin/posts?flash=Post+saved", http.StatusSeeOther)
}

// PostUpdate handles the edit form submission.
func (a *Admin) PostUpdate(w http.ResponseWriter, r *http.Request) {
	post := a.findPost(w, r)
	if post == nil {
		return
	}
	oldSlug := post.Slug

	errMsg := a.bindForm(r, post)
	if errMsg == "" {
		err := a.posts.Update(post)
		errMsg = writeErrorMessage(err, post.Slug)
	}

	if errMsg != "" {
		a.renderer.Page(w, r, "post_form", &render.PageData{
			Title:   "Edit post",
			Section: "posts",
			Error:   errMsg,
			Data: map[string]any{
				"IsNew":      false,
				"Post":       post,
				"Action":     "/admin/posts/" + post.ID.String(),
				"Categories": models.Categories,
			},
		})
		return
	}

	a.invalidate(r, oldSlug)
	if post.Slug != oldSlug {
		a.invalidate(r, post.Slug)
	}
	http.Redirect(w, r, "/admin/posts?flash=Post+saved", http.StatusSeeOther)
}

// PostToggle flips the published flag from the listing page.
func (a *Admin) PostToggle(w http.ResponseWriter, r *http.Request) {
	post := a.findPost(w, r)
	if post == nil {
		return
	}

	if !post.Published && strings.TrimSpace(post.Content) == "" {
		http.Redirect(w, r, "/admin/posts?flash=Cannot+publish+an+empty+post", http.StatusSeeOther)
		return
	}

	post.Published = !post.Published
	if err := a.posts.Update(post); err != nil {
		slog.Error("toggle post failed", "error", err, "id", post.ID)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	a.invalidate(r, post.Slug)
	http.Redirect(w, r, "/admin/posts", http.StatusSeeOther)
}

// PostDelete removes a post permanently.
func (a *Admin) PostDelete(w http.ResponseWriter, r *http.Request) {
	post := a.findPost(w, r)
	if post == nil {
		return
	}

	if err := a.posts.Delete(post.ID); err != nil {
		slog.Error("delete post failed", "error", err, "id", post.ID)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	a.invalidate(r, post.Slug)
	http.Redirect(w, r, "/admin/posts?flash=Post+deleted", http.StatusSeeOther)
}

// PostPreview renders submitted content through the markup renderer
// without saving anything. The editor posts here in a new tab.
func (a *Admin) PostPreview(w http.ResponseWriter, r *http.Request) {
	post := &models.Post{}
	a.bindForm(r, post)

	a.renderer.Page(w, r, "post_form", &render.PageData{
		Title:   "Preview",
		Section: "posts",
		Data: map[string]any{
			"IsNew":       post.ID == uuid.Nil,
			"Post":        post,
			"Action":      "/admin/posts",
			"Categories":  models.Categories,
			"PreviewHTML": markup.Render(post.Content),
		},
	})
}

// bindForm populates a post from the editor form and returns a
// validation error message, or "" when the submission is acceptable.
func (a *Admin) bindForm(r *http.Request, post *models.Post) string {
	post.Title = strings.TrimSpace(r.FormValue("title"))
	post.Slug = strings.TrimSpace(r.FormValue("slug"))
	post.Content = r.FormValue("content")
	post.Excerpt = optional(r.FormValue("excerpt"))
	post.Category = optional(r.FormValue("category"))
	post.CoverImage = optional(r.FormValue("cover_image"))

	switch r.FormValue("intent") {
	case "publish":
		post.Published = true
	case "draft":
		post.Published = false
	}

	if msg := validatePost(post.Title, post.Slug, post.Content); msg != "" {
		return msg
	}

	// An empty slug field means: derive it from the title.
	if post.Slug == "" {
		post.Slug = slug.Generate(post.Title)
	}
	if post.Slug == "" {
		return "Title must contain at least one letter or digit to build a slug."
	}
	if post.Slug == LegacySlug {
		return "That slug is reserved for the launch article."
	}

	if post.Published && strings.TrimSpace(post.Content) == "" {
		return "Cannot publish an empty post. Save it as a draft instead."
	}

	return ""
}

// findPost resolves the {id} URL parameter. Writes the error response
// and returns nil when the ID is malformed or unknown.
func (a *Admin) findPost(w http.ResponseWriter, r *http.Request) *models.Post {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.NotFound(w, r)
		return nil
	}

	post, err := a.posts.FindByID(id)
	if err != nil {
		slog.Error("find post failed", "error", err, "id", id)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return nil
	}
	if post == nil {
		http.NotFound(w, r)
		return nil
	}
	return post
}

// invalidate drops the cached feed, home page, and the article page for
// the given slug after any post write.
func (a *Admin) invalidate(r *http.Request, articleSlug string) {
	ctx := r.Context()
	a.pageCache.InvalidateFeed(ctx)
	a.pageCache.InvalidateArticle(ctx, articleSlug)
}

// writeErrorMessage converts a store write error into a user-facing
// message, or "" when err is nil.
func writeErrorMessage(err error, slugVal string) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, store.ErrSlugTaken) {
		return "The slug \"" + slugVal + "\" is already used by another post."
	}
	slog.Error("save post failed", "error", err)
	return "Could not save the post. Please try again."
}

// optional converts a trimmed form value into a nullable column value.
func optional(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}
