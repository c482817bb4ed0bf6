// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultAuthorName is attached to posts when the editor leaves the
// author field empty.
const DefaultAuthorName = "Matt Martin"

// readWordsPerMinute is the assumed reading speed for the read-time
// estimate shown on feed cards and article headers.
const readWordsPerMinute = 200

// Categories is the fixed set of labels offered in the editor dropdown.
// The list is advisory: the server stores whatever label is submitted.
var Categories = []string{
	"AI & Automation",
	"Engineering",
	"Data & Privacy",
	"Email Marketing",
	"Web Performance",
	"Analytics",
	"Health Tech",
	"Business",
}

// Post is a single blog entry with a draft/published lifecycle.
// Drafts are invisible on every public surface; publishing stamps
// PublishedAt and unpublishing clears it again.
type Post struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Content     string     `json:"content"`
	Excerpt     *string    `json:"excerpt,omitempty"`
	Category    *string    `json:"category,omitempty"`
	CoverImage  *string    `json:"cover_image,omitempty"`
	AuthorName  string     `json:"author_name"`
	UserID      uuid.UUID  `json:"user_id"`
	Published   bool       `json:"published"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// ReadTime estimates reading time in whole minutes, never less than 1.
// Words are whitespace-delimited tokens of the raw content, so markup
// syntax counts toward the total, so the estimate is approximate.
func (p *Post) ReadTime() int {
	words := len(strings.Fields(p.Content))
	minutes := (words + readWordsPerMinute - 1) / readWordsPerMinute
	if minutes < 1 {
		return 1
	}
	return minutes
}

// DisplayDate returns the date shown to readers: the publication time,
// falling back to creation time for drafts previewed in the admin.
func (p *Post) DisplayDate() time.Time {
	if p.PublishedAt != nil {
		return *p.PublishedAt
	}
	return p.CreatedAt
}

// CategoryLabel returns the category or the empty string when unset.
func (p *Post) CategoryLabel() string {
	if p.Category == nil {
		return ""
	}
	return *p.Category
}
