package svg

import (
	"regexp"
	"strconv"
	"strings"
)

// BlurFilterID is the id of the gaussian blur filter injected into previews.
const BlurFilterID = "b"

var (
	openTagRe  = regexp.MustCompile(`<svg\b[^>]*>`)
	viewBoxRe  = regexp.MustCompile(`\sviewBox\s*=`)
	widthRe    = regexp.MustCompile(`\swidth\s*=\s*"([0-9.]+)"`)
	heightRe   = regexp.MustCompile(`\sheight\s*=\s*"([0-9.]+)"`)
	groupRe    = regexp.MustCompile(`<g\b`)
	closeTagRe = regexp.MustCompile(`</svg>\s*$`)
)

// EnsureViewBox adds a viewBox derived from the width and height attributes of the
// root element so the preview scales with its container. Markup that already has a
// viewBox, or lacks numeric dimensions, is returned unchanged.
func EnsureViewBox(markup string) string {
	loc := openTagRe.FindStringIndex(markup)
	if loc == nil {
		return markup
	}
	tag := markup[loc[0]:loc[1]]
	if viewBoxRe.MatchString(tag) {
		return markup
	}
	w := widthRe.FindStringSubmatch(tag)
	h := heightRe.FindStringSubmatch(tag)
	if w == nil || h == nil {
		return markup
	}

	viewBox := ` viewBox="0 0 ` + w[1] + ` ` + h[1] + `"`
	insertAt := loc[0] + len("<svg")
	return markup[:insertAt] + viewBox + markup[insertAt:]
}

// ApplyBlur injects a gaussian blur filter and applies it to the first group of
// shapes. A zero or negative deviation returns the markup unchanged.
func ApplyBlur(markup string, stdDeviation float64) string {
	if stdDeviation <= 0 {
		return markup
	}
	loc := openTagRe.FindStringIndex(markup)
	if loc == nil {
		return markup
	}

	filter := `<filter id="` + BlurFilterID + `"><feGaussianBlur stdDeviation="` +
		strconv.FormatFloat(stdDeviation, 'f', -1, 64) + `"/></filter>`
	attr := ` filter="url(#` + BlurFilterID + `)"`

	head := markup[:loc[1]]
	body := markup[loc[1]:]

	if g := groupRe.FindStringIndex(body); g != nil {
		return head + filter + body[:g[1]] + attr + body[g[1]:]
	}

	// No group to attach to: wrap everything inside the root element.
	end := closeTagRe.FindStringIndex(body)
	if end == nil {
		return markup
	}
	return head + filter + "<g" + attr + ">" + strings.TrimSpace(body[:end[0]]) + "</g>" + body[end[0]:]
}
