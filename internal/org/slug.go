package org

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const slugBaseMaxLen = 30

var (
	slugStrip    = regexp.MustCompile(`[^a-z0-9\s-]+`)
	slugSpaces   = regexp.MustCompile(`\s+`)
	slugHyphens  = regexp.MustCompile(`-{2,}`)
	diacriticFld = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
)

// DeriveSlug builds a URL-safe slug from an organization name. The base is
// lower-cased, folded to ASCII, stripped to [a-z0-9-], and truncated to 30
// characters; a base-36 timestamp suffix guarantees global uniqueness, so
// repeated calls with the same name yield distinct slugs.
func DeriveSlug(name string, now time.Time) string {
	base := slugBase(name)
	suffix := strconv.FormatInt(now.UnixMilli(), 36)
	if base == "" {
		return suffix
	}
	return base + "-" + suffix
}

func slugBase(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	if folded, _, err := transform.String(diacriticFld, s); err == nil {
		s = folded
	}
	s = slugStrip.ReplaceAllString(s, "")
	s = slugSpaces.ReplaceAllString(s, "-")
	s = slugHyphens.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if len(s) > slugBaseMaxLen {
		s = strings.Trim(s[:slugBaseMaxLen], "-")
	}
	return s
}
