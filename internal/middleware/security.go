// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import "net/http"

// siteHeaders go on every response, public pages and admin alike. The
// site serves plain server-rendered HTML and the admin embeds no
// third-party frames, so the strict values hold everywhere.
var siteHeaders = [...][2]string{
	{"X-Content-Type-Options", "nosniff"},
	{"X-Frame-Options", "SAMEORIGIN"},
	{"X-XSS-Protection", "0"}, // legacy filter off, it breaks more than it fixes
	{"Referrer-Policy", "strict-origin-when-cross-origin"},
	{"Permissions-Policy", "interest-cohort=()"},
}

// SecureHeaders applies the site's baseline response headers.
func SecureHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		for _, kv := range siteHeaders {
			h.Set(kv[0], kv[1])
		}

		next.ServeHTTP(w, r)
	})
}
