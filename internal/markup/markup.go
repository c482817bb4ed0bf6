// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package markup renders the blog's lightweight markup dialect into HTML.
//
// The dialect is line-oriented: headings (#, ##, ###), bold and italic
// spans, links, dash lists, a three-dash horizontal rule, raw-HTML
// passthrough fences (:::html … :::), and single-line media shortcodes
// (::image[url], ::video[url], ::audio[url], ::iframe[url]).
//
// Rendering is a single pass over the input lines producing typed block
// nodes that are rendered independently, rather than a chain of in-place
// substitutions whose rules could trip over each other's output.
//
// Input is admin-authored, so no sanitization is performed; the output is
// embedded into pages verbatim. Rendering is total: any input produces
// some output, never an error.
package markup

import (
	"regexp"
	"strings"
)

// blockKind identifies the type of a parsed block node.
type blockKind int

const (
	blockParagraph blockKind = iota
	blockHeading
	blockList
	blockMedia
	blockRaw
	blockRule
)

// block is a single parsed unit of content. Exactly the fields relevant
// to its kind are set.
type block struct {
	kind  blockKind
	level int      // heading level 1-3
	media string   // shortcode tag: "image", "video", "audio", "iframe"
	url   string   // shortcode URL argument
	text  string   // heading/paragraph text, or raw passthrough content
	items []string // list item texts
}

var (
	reShortcode = regexp.MustCompile(`^::(image|video|audio|iframe)\[(.+)\]$`)
	reBold      = regexp.MustCompile(`\*\*(.+?)\*\*`)
	reItalic    = regexp.MustCompile(`\*([^*]+)\*`)
	reLink      = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`)
)

const (
	htmlFenceOpen  = ":::html"
	htmlFenceClose = ":::"
)

// Render converts markup source into HTML.
func Render(content string) string {
	blocks := parse(content)

	var sb strings.Builder
	for _, b := range blocks {
		renderBlock(&sb, b)
	}
	return strings.TrimRight(sb.String(), "\n")
}

// parse scans the input line by line and groups lines into blocks.
// Consecutive list items merge into a single list block; everything else
// maps one line to one block.
func parse(content string) []block {
	var blocks []block
	var list *block // open list block, nil when not inside a run of items

	flushList := func() {
		if list != nil {
			blocks = append(blocks, *list)
			list = nil
		}
	}

	lines := strings.Split(content, "\n")
	for i := 0; i < len(lines); i++ {
		line := strings.TrimRight(lines[i], "\r")
		trimmed := strings.TrimSpace(line)

		switch {
		case trimmed == htmlFenceOpen:
			// Raw passthrough: collect everything up to the closing fence
			// untouched. An unclosed fence runs to the end of input.
			flushList()
			var raw []string
			for i++; i < len(lines); i++ {
				inner := strings.TrimRight(lines[i], "\r")
				if strings.TrimSpace(inner) == htmlFenceClose {
					break
				}
				raw = append(raw, inner)
			}
			blocks = append(blocks, block{kind: blockRaw, text: strings.Join(raw, "\n")})

		case reShortcode.MatchString(trimmed):
			flushList()
			m := reShortcode.FindStringSubmatch(trimmed)
			blocks = append(blocks, block{kind: blockMedia, media: m[1], url: m[2]})

		// Longest heading prefix first so "###" is never read as "#".
		case strings.HasPrefix(trimmed, "### "):
			flushList()
			blocks = append(blocks, block{kind: blockHeading, level: 3, text: trimmed[4:]})
		case strings.HasPrefix(trimmed, "## "):
			flushList()
			blocks = append(blocks, block{kind: blockHeading, level: 2, text: trimmed[3:]})
		case strings.HasPrefix(trimmed, "# "):
			flushList()
			blocks = append(blocks, block{kind: blockHeading, level: 1, text: trimmed[2:]})

		case trimmed == "---":
			flushList()
			blocks = append(blocks, block{kind: blockRule})

		case strings.HasPrefix(trimmed, "- "):
			if list == nil {
				list = &block{kind: blockList}
			}
			list.items = append(list.items, trimmed[2:])

		case trimmed == "":
			flushList()

		case isElementLine(trimmed):
			// Already rendered output, pass through unchanged. This keeps
			// the renderer idempotent on its own output. A prose line that
			// merely starts with "<" still becomes a paragraph; arbitrary
			// raw HTML goes through a :::html fence.
			flushList()
			blocks = append(blocks, block{kind: blockRaw, text: trimmed})

		default:
			flushList()
			blocks = append(blocks, block{kind: blockParagraph, text: trimmed})
		}
	}
	flushList()

	return blocks
}

// renderBlock writes the HTML for a single block node.
func renderBlock(sb *strings.Builder, b block) {
	switch b.kind {
	case blockHeading:
		tag := [...]string{1: "h1", 2: "h2", 3: "h3"}[b.level]
		sb.WriteString("<" + tag + ">" + renderInline(b.text) + "</" + tag + ">\n")
	case blockParagraph:
		sb.WriteString("<p>" + renderInline(b.text) + "</p>\n")
	case blockList:
		sb.WriteString("<ul>\n")
		for _, item := range b.items {
			sb.WriteString("<li>" + renderInline(item) + "</li>\n")
		}
		sb.WriteString("</ul>\n")
	case blockRule:
		sb.WriteString("<hr/>\n")
	case blockMedia:
		sb.WriteString(renderMedia(b.media, b.url) + "\n")
	case blockRaw:
		sb.WriteString(b.text + "\n")
	}
}

// elementPrefixes are the openings of the tags this renderer emits,
// plus closing tags. Only lines starting with one of these count as
// element markup for passthrough.
var elementPrefixes = []string{
	"<h", "<p", "<ul", "<li", "<hr", "<img", "<video", "<audio", "<iframe", "</",
}

// isElementLine reports whether a line is already rendered HTML.
func isElementLine(s string) bool {
	for _, p := range elementPrefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

// renderMedia expands a media shortcode into its embed element.
func renderMedia(tag, url string) string {
	switch tag {
	case "image":
		return `<img src="` + url + `" alt="" loading="lazy"/>`
	case "video":
		return `<video src="` + url + `" controls></video>`
	case "audio":
		return `<audio src="` + url + `" controls></audio>`
	case "iframe":
		return `<iframe src="` + url + `" allowfullscreen></iframe>`
	}
	return ""
}

// renderInline applies span-level formatting: bold, italic, links.
// Bold must run before italic: the single-asterisk pattern would
// otherwise consume the double-asterisk markers.
func renderInline(s string) string {
	s = reBold.ReplaceAllString(s, "<strong>$1</strong>")
	s = reItalic.ReplaceAllString(s, "<em>$1</em>")
	s = reLink.ReplaceAllString(s, `<a href="$2" target="_blank" rel="noopener noreferrer">$1</a>`)
	return s
}

// Shortcode returns the markup shortcode referencing an uploaded media
// URL, chosen by the file's MIME type. Non-image, non-video, non-audio
// types embed through an iframe.
func Shortcode(contentType, url string) string {
	var tag string
	switch {
	case strings.HasPrefix(contentType, "image/"):
		tag = "image"
	case strings.HasPrefix(contentType, "video/"):
		tag = "video"
	case strings.HasPrefix(contentType, "audio/"):
		tag = "audio"
	default:
		tag = "iframe"
	}
	return "::" + tag + "[" + url + "]"
}
