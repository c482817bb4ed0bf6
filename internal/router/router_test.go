// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Router tests verify the route table and middleware chains without a
// database: every exercised path either has no dependencies or is cut
// short by auth or CSRF middleware before reaching a store.
package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"signalpress/internal/handlers"
	"signalpress/internal/render"
	"signalpress/internal/session"
)

// newTestRouter wires the router with a renderer but no backing stores.
// Requests carry no session cookie, so the session store is never hit.
func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	renderer, err := render.New()
	if err != nil {
		t.Fatalf("render.New: %v", err)
	}

	sessions := session.NewStore(nil, false)
	admin := handlers.NewAdmin(renderer, nil, nil)
	media := handlers.NewMedia(renderer, nil, nil)
	auth := handlers.NewAuth(renderer, sessions, nil)
	public := handlers.NewPublic(renderer, nil, nil, handlers.SiteInfo{Name: "The Signal"})

	return New(sessions, admin, media, auth, public)
}

func TestHealthRoute(t *testing.T) {
	r := newTestRouter(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if rec.Body.String() != "ok" {
		t.Errorf("body = %q, want ok", rec.Body.String())
	}
}

func TestSecureHeadersApplied(t *testing.T) {
	r := newTestRouter(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	for header, want := range map[string]string{
		"X-Content-Type-Options": "nosniff",
		"X-Frame-Options":        "SAMEORIGIN",
		"Referrer-Policy":        "strict-origin-when-cross-origin",
	} {
		if got := rec.Header().Get(header); got != want {
			t.Errorf("%s = %q, want %q", header, got, want)
		}
	}
}

func TestAdminRoutesRequireAuth(t *testing.T) {
	r := newTestRouter(t)

	paths := []string{
		"/admin",
		"/admin/posts",
		"/admin/posts/new",
		"/admin/media",
		"/admin/2fa/setup",
	}
	for _, path := range paths {
		t.Run(path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

			if rec.Code != http.StatusSeeOther {
				t.Fatalf("status = %d, want 303", rec.Code)
			}
			if loc := rec.Header().Get("Location"); loc != "/admin/login" {
				t.Errorf("Location = %q, want /admin/login", loc)
			}
		})
	}
}

func TestUploadRequiresAuthAsJSON(t *testing.T) {
	r := newTestRouter(t)

	// Fetch the login page first to obtain a CSRF token, so the request
	// reaches the auth check instead of being rejected by CSRF.
	loginRec := httptest.NewRecorder()
	r.ServeHTTP(loginRec, httptest.NewRequest(http.MethodGet, "/admin/login", nil))
	var csrf *http.Cookie
	for _, c := range loginRec.Result().Cookies() {
		if c.Name == "signal_csrf" {
			csrf = c
		}
	}
	if csrf == nil {
		t.Fatal("no CSRF cookie issued")
	}

	req := httptest.NewRequest(http.MethodPost, "/admin/media/upload", nil)
	req.AddCookie(csrf)
	req.Header.Set("X-CSRF-Token", csrf.Value)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}
	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("body is not JSON: %v", err)
	}
	if body["error"] == "" {
		t.Error("expected an error message")
	}
}

func TestLoginPageIsPublic(t *testing.T) {
	r := newTestRouter(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/login", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Log in") {
		t.Error("login page body missing form")
	}

	// A CSRF token cookie is issued alongside the form.
	found := false
	for _, c := range rec.Result().Cookies() {
		if c.Name == "signal_csrf" && c.Value != "" {
			found = true
		}
	}
	if !found {
		t.Error("no CSRF cookie set on login page")
	}
}

func TestLoginPostWithoutCSRFToken(t *testing.T) {
	r := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/admin/login", strings.NewReader("email=a@b.c&password=x"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}
}

func TestStaticAssetsServed(t *testing.T) {
	r := newTestRouter(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/static/admin.css", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.Contains(ct, "text/css") {
		t.Errorf("Content-Type = %q, want text/css", ct)
	}
}
