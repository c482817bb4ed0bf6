// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package render provides HTML template rendering for the admin interface
// and the public site. Admin pages render directly to the response; public
// pages render to a byte slice so the page cache can store the result.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"strings"
	"time"

	"signalpress/internal/middleware"
	"signalpress/internal/session"
)

//go:embed templates/admin/*.html templates/public/*.html
var templateFS embed.FS

// PageData holds all data passed to admin templates.
type PageData struct {
	Title     string         // Page title for <title> tag
	Section   string         // Active sidebar section (e.g., "posts", "media")
	Session   *session.Data  // Current user session (nil if unauthenticated)
	CSRFToken string         // CSRF token for forms
	Data      map[string]any // Page-specific data
	Flash     string         // One-time notification message
	Error     string         // Validation or action error message
}

// SiteData holds data passed to every public template.
type SiteData struct {
	Title       string         // Page title for <title> tag
	SiteName    string         // Blog name shown in the header
	SiteTagline string         // Strapline under the blog name
	BaseURL     string         // Canonical base URL for share links
	Data        map[string]any // Page-specific data
}

// Renderer handles template parsing and execution for both surfaces.
type Renderer struct {
	admin  map[string]*template.Template
	public map[string]*template.Template
}

// standalonePages lists admin templates that render as full HTML pages
// without the base layout (they have their own <html>, <head>, etc.).
var standalonePages = map[string]bool{
	"login":        true,
	"twofa_setup":  true,
	"twofa_verify": true,
}

// funcMap holds helpers available to all templates.
var funcMap = template.FuncMap{
	// deref safely dereferences a string pointer for use in templates.
	"deref": func(s *string) string {
		if s == nil {
			return ""
		}
		return *s
	},
	// longDate formats a timestamp the way article bylines show it.
	"longDate": func(t time.Time) string {
		return t.Format("January 2, 2006")
	},
	// shortDate formats a timestamp for compact listings.
	"shortDate": func(t time.Time) string {
		return t.Format("Jan 2, 2006")
	},
	// activeClass highlights the current admin nav section.
	"activeClass": func(current, target string) string {
		if current == target {
			return "nav-link active"
		}
		return "nav-link"
	},
	// raw marks renderer output as safe HTML. Only used for article
	// bodies, which come from the trusted single author.
	"raw": func(s string) template.HTML {
		return template.HTML(s)
	},
	// shareURL builds the LinkedIn share link for an article URL.
	"shareURL": func(articleURL string) string {
		return "https://www.linkedin.com/sharing/share-offsite/?url=" + template.URLQueryEscaper(articleURL)
	},
}

// New creates a Renderer by parsing all templates from the embedded
// filesystem. Each page template is paired with its surface's base layout.
func New() (*Renderer, error) {
	r := &Renderer{
		admin:  make(map[string]*template.Template),
		public: make(map[string]*template.Template),
	}

	if err := parseSet(r.admin, "templates/admin", standalonePages); err != nil {
		return nil, err
	}
	if err := parseSet(r.public, "templates/public", nil); err != nil {
		return nil, err
	}

	return r, nil
}

// parseSet parses every page template in dir, pairing it with the base
// layout unless it is listed as standalone.
func parseSet(dst map[string]*template.Template, dir string, standalone map[string]bool) error {
	entries, err := templateFS.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read templates %s: %w", dir, err)
	}

	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || name == "base.html" || !strings.HasSuffix(name, ".html") {
			continue
		}
		tmplName := strings.TrimSuffix(name, ".html")

		var tmpl *template.Template
		var parseErr error
		if standalone[tmplName] {
			tmpl, parseErr = template.New(name).Funcs(funcMap).ParseFS(
				templateFS, dir+"/"+name,
			)
		} else {
			tmpl, parseErr = template.New("base.html").Funcs(funcMap).ParseFS(
				templateFS, dir+"/base.html", dir+"/"+name,
			)
		}
		if parseErr != nil {
			return fmt.Errorf("parse template %s: %w", name, parseErr)
		}

		dst[tmplName] = tmpl
	}

	return nil
}

// Page renders a full admin page. The CSRF token and session are pulled
// from the request so handlers don't pass them explicitly.
func (rn *Renderer) Page(w http.ResponseWriter, r *http.Request, name string, data *PageData) {
	tmpl, ok := rn.admin[name]
	if !ok {
		http.Error(w, fmt.Sprintf("template %q not found", name), http.StatusInternalServerError)
		return
	}

	data.CSRFToken = middleware.GetCSRFToken(r)
	if data.Session == nil {
		data.Session = middleware.SessionFromCtx(r.Context())
	}

	execName := "base.html"
	if standalonePages[name] {
		execName = name + ".html"
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.ExecuteTemplate(w, execName, data); err != nil {
		http.Error(w, "template error", http.StatusInternalServerError)
	}
}

// Public renders a public page to a byte slice. Callers write the result
// to the response and may hand it to the page cache.
func (rn *Renderer) Public(name string, data *SiteData) ([]byte, error) {
	tmpl, ok := rn.public[name]
	if !ok {
		return nil, fmt.Errorf("template %q not found", name)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "base.html", data); err != nil {
		return nil, fmt.Errorf("render %s: %w", name, err)
	}
	return buf.Bytes(), nil
}
