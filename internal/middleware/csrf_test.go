// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func plainOKHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

// csrfCookie extracts the token cookie from a recorded response.
func csrfCookie(t *testing.T, rr *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rr.Result().Cookies() {
		if c.Name == CSRFCookieName {
			return c
		}
	}
	return nil
}

func TestCSRFIssuesCookie(t *testing.T) {
	handler := CSRF(plainOKHandler())

	req := httptest.NewRequest(http.MethodGet, "/admin/login", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	c := csrfCookie(t, rr)
	if c == nil {
		t.Fatal("CSRF cookie not set")
	}
	if c.Value == "" {
		t.Error("cookie value is empty")
	}
	if c.SameSite != http.SameSiteStrictMode {
		t.Errorf("SameSite = %v, want StrictMode", c.SameSite)
	}
	if c.HttpOnly {
		t.Error("cookie must be readable by the upload script")
	}
}

func TestCSRFReusesExistingCookie(t *testing.T) {
	handler := CSRF(plainOKHandler())

	first := httptest.NewRecorder()
	handler.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/admin/login", nil))
	original := csrfCookie(t, first)
	if original == nil {
		t.Fatal("no cookie issued")
	}

	req := httptest.NewRequest(http.MethodGet, "/admin/posts", nil)
	req.AddCookie(&http.Cookie{Name: CSRFCookieName, Value: original.Value})
	second := httptest.NewRecorder()
	handler.ServeHTTP(second, req)

	if c := csrfCookie(t, second); c != nil {
		t.Errorf("middleware reissued a token over an existing one: %q", c.Value)
	}
	if got := GetCSRFToken(req); got != original.Value {
		t.Errorf("GetCSRFToken = %q, want %q", got, original.Value)
	}
}

func TestCSRFRejectsPostWithoutToken(t *testing.T) {
	handler := CSRF(plainOKHandler())

	get := httptest.NewRecorder()
	handler.ServeHTTP(get, httptest.NewRequest(http.MethodGet, "/admin/login", nil))

	post := httptest.NewRequest(http.MethodPost, "/admin/login", nil)
	for _, c := range get.Result().Cookies() {
		post.AddCookie(c)
	}
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, post)

	if rr.Code != http.StatusForbidden {
		t.Errorf("POST without token: got %d, want 403", rr.Code)
	}
}

func TestCSRFAcceptsHeaderToken(t *testing.T) {
	handler := CSRF(plainOKHandler())

	get := httptest.NewRecorder()
	handler.ServeHTTP(get, httptest.NewRequest(http.MethodGet, "/admin/media", nil))
	token := csrfCookie(t, get).Value

	post := httptest.NewRequest(http.MethodPost, "/admin/media/upload", nil)
	for _, c := range get.Result().Cookies() {
		post.AddCookie(c)
	}
	post.Header.Set(CSRFHeaderName, token)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, post)

	if rr.Code != http.StatusOK {
		t.Errorf("POST with header token: got %d, want 200", rr.Code)
	}
}

func TestCSRFAcceptsFormFieldToken(t *testing.T) {
	handler := CSRF(plainOKHandler())

	get := httptest.NewRecorder()
	handler.ServeHTTP(get, httptest.NewRequest(http.MethodGet, "/admin/posts", nil))
	token := csrfCookie(t, get).Value

	post := httptest.NewRequest(http.MethodPost, "/admin/posts?"+CSRFFormField+"="+token, nil)
	for _, c := range get.Result().Cookies() {
		post.AddCookie(c)
	}
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, post)

	if rr.Code != http.StatusOK {
		t.Errorf("POST with form token: got %d, want 200", rr.Code)
	}
}

func TestCSRFSafeMethodsPassThrough(t *testing.T) {
	for _, method := range []string{http.MethodGet, http.MethodHead, http.MethodOptions} {
		t.Run(method, func(t *testing.T) {
			var called bool
			handler := CSRF(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
				w.WriteHeader(http.StatusOK)
			}))

			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, httptest.NewRequest(method, "/admin/posts", nil))

			if !called {
				t.Error("handler not reached for safe method")
			}
		})
	}
}

func TestCSRFUnsafeMethodsRequireToken(t *testing.T) {
	for _, method := range []string{http.MethodPut, http.MethodPatch, http.MethodDelete} {
		t.Run(method, func(t *testing.T) {
			handler := CSRF(plainOKHandler())

			get := httptest.NewRecorder()
			handler.ServeHTTP(get, httptest.NewRequest(http.MethodGet, "/admin/posts", nil))

			req := httptest.NewRequest(method, "/admin/posts/1", nil)
			for _, c := range get.Result().Cookies() {
				req.AddCookie(c)
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			if rr.Code != http.StatusForbidden {
				t.Errorf("%s without token: got %d, want 403", method, rr.Code)
			}
		})
	}
}

func TestGetCSRFTokenWithoutCookie(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if got := GetCSRFToken(req); got != "" {
		t.Errorf("GetCSRFToken = %q, want empty", got)
	}
}
