// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug provides URL-friendly slug generation from post titles.
package slug

import (
	"regexp"
	"strings"
)

// nonSlugRun matches every maximal run of characters that cannot appear
// in a slug. Each run collapses to a single hyphen.
var nonSlugRun = regexp.MustCompile(`[^a-z0-9]+`)

// Generate creates a URL-friendly slug from the given title.
// Example: "Hello, World! 2024" → "hello-world-2024"
//
// The result contains only lowercase letters, digits, and single interior
// hyphens. An all-symbol title yields the empty string; callers decide
// whether that is acceptable. Slugs are generated once at creation time;
// a post's slug is an identifier, not a label kept in sync with the title.
func Generate(title string) string {
	result := strings.ToLower(title)
	result = nonSlugRun.ReplaceAllString(result, "-")
	result = strings.Trim(result, "-")
	return result
}
