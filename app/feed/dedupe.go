package feed

import (
	"html"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var fluffWords = map[string]bool{
	"live":     true,
	"update":   true,
	"updates":  true,
	"breaking": true,
	"analysis": true,
	"opinion":  true,
}

var leftoverEntity = regexp.MustCompile(`&#?[a-zA-Z0-9]+;`)

// DedupeKey normalizes a title so that cosmetic variants of the same story
// collide: entities decoded, accents folded, case lowered and punctuation
// collapsed to single spaces. With stripFluff, filler words are dropped
// unless nothing else remains.
func DedupeKey(title string, stripFluff bool) string {
	text := html.UnescapeString(title)
	text = leftoverEntity.ReplaceAllString(text, " ")

	folder := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if folded, _, err := transform.String(folder, text); err == nil {
		text = folded
	}

	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	if len(words) == 0 {
		return strings.ToLower(strings.TrimSpace(title))
	}

	if stripFluff {
		kept := make([]string, 0, len(words))
		for _, w := range words {
			if !fluffWords[w] {
				kept = append(kept, w)
			}
		}
		if len(kept) > 0 {
			words = kept
		}
	}

	return strings.Join(words, " ")
}

// Merge collapses headlines sharing a dedupe key into one representative per
// key. The representative is the member with the latest publication time
// (undated counts as zero, ties keep the first seen) and carries the group
// size as its citation count. Keys appear in first-seen order.
func Merge(headlines []Headline, stripFluff bool) []Headline {
	type group struct {
		representative Headline
		count          int
	}

	groups := make(map[string]*group, len(headlines))
	order := make([]string, 0, len(headlines))

	for _, h := range headlines {
		key := DedupeKey(h.Title, stripFluff)
		g, ok := groups[key]
		if !ok {
			groups[key] = &group{representative: h, count: 1}
			order = append(order, key)
			continue
		}

		g.count++
		if h.Timestamp() > g.representative.Timestamp() {
			g.representative = h
		}
	}

	merged := make([]Headline, 0, len(order))
	for _, key := range order {
		g := groups[key]
		merged = append(merged, g.representative.withCitations(g.count))
	}
	return merged
}
