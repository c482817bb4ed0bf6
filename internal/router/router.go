// Package router sets up all HTTP routes and middleware chains. Routes
// are organized into the public site and the authenticated admin area.
package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"signalpress/internal/handlers"
	"signalpress/internal/middleware"
	"signalpress/internal/render"
	"signalpress/internal/session"
)

// loginRateLimit allows this many login attempts per IP per window.
const (
	loginRateLimit  = 10
	loginRateWindow = time.Minute
)

// New creates and returns the configured chi router with all middleware
// and route groups wired up.
func New(sessionStore *session.Store, admin *handlers.Admin, media *handlers.Media, auth *handlers.Auth, public *handlers.Public) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.LoadSession(sessionStore))

	// Health check: no auth, no CSRF.
	r.Get("/health", public.Health)

	// Embedded CSS and other assets.
	r.Handle("/static/*", render.Static())

	loginLimiter := middleware.NewRateLimiter(loginRateLimit, loginRateWindow)

	// Admin routes: CSRF everywhere, auth on everything past login.
	r.Route("/admin", func(r chi.Router) {
		r.Use(middleware.CSRF)

		r.Get("/login", auth.LoginPage)
		r.With(loginLimiter.Middleware).Post("/login", auth.LoginSubmit)
		r.Post("/logout", auth.Logout)

		// 2FA pages require a session but not a completed challenge.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Get("/2fa/setup", auth.TwoFASetupPage)
			r.Post("/2fa/setup", auth.TwoFASubmit)
			r.Get("/2fa/verify", auth.TwoFAVerifyPage)
			r.Post("/2fa/verify", auth.TwoFASubmit)
		})

		// Fully authenticated admin area.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Use(middleware.Require2FA)

			r.Get("/", redirectToPosts)

			r.Route("/posts", func(r chi.Router) {
				r.Get("/", admin.PostsList)
				r.Get("/new", admin.PostNew)
				r.Post("/", admin.PostCreate)
				r.Post("/preview", admin.PostPreview)
				r.Get("/{id}/edit", admin.PostEdit)
				r.Post("/{id}", admin.PostUpdate)
				r.Post("/{id}/toggle", admin.PostToggle)
				r.Post("/{id}/delete", admin.PostDelete)
			})

			r.Get("/media", media.Library)
			r.Post("/media/{id}/delete", media.Delete)
		})

		// The upload endpoint is called from the editor via fetch, so an
		// auth failure must be a JSON 401, not a login redirect.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuthJSON)
			r.Post("/media/upload", media.Upload)
		})
	})

	// Public site.
	r.Get("/", public.Home)
	r.Get("/blog", public.Feed)
	r.Get("/blog/rss.xml", public.RSS)
	r.Get("/blog/{slug}", public.Article)
	r.Get("/sitemap.xml", public.Sitemap)

	return r
}

func redirectToPosts(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/admin/posts", http.StatusSeeOther)
}
