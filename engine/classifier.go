package engine

import (
	"strings"

	"slidesmith/deck"
)

// Classify assigns one ShapeKind to a shape. The ladder is ordered by
// specificity: structured content first, then the designated title, then
// placeholder slots, then plain text. It is total and never errors.
func Classify(s *deck.Shape) ShapeKind {
	switch {
	case s == nil:
		return KindUnknown
	case s.HasTable():
		return KindTable
	case s.HasChart():
		return KindChart
	case s.HasImage():
		return KindImage
	case s.IsTitle && s.HasText():
		return KindTitle
	}
	if s.Placeholder != nil && s.HasText() {
		switch s.Placeholder.Index {
		case 1:
			return KindTitle
		case 3:
			return KindSubtitle
		case 2:
			return KindContent
		}
	}
	if s.HasText() {
		return KindText
	}
	return KindUnknown
}

// PlaceholderKindName maps a placeholder index to its slot name for the
// extracted model; indices outside the known table report "other".
func PlaceholderKindName(idx int) string {
	switch idx {
	case 1:
		return "title"
	case 3:
		return "subtitle"
	case 2:
		return "content"
	}
	return "other"
}

// looksLikeBullets reports whether a text block reads as a bullet list:
// it carries a bullet glyph or spans multiple non-empty lines.
func looksLikeBullets(text string) bool {
	if strings.ContainsAny(text, "•◦▪-*") && strings.Contains(text, "\n") {
		return true
	}
	if strings.HasPrefix(strings.TrimSpace(text), "•") {
		return true
	}
	lines := 0
	for _, l := range strings.Split(text, "\n") {
		if strings.TrimSpace(l) != "" {
			lines++
		}
	}
	return lines > 1
}

// looksLikeTitle reports whether a text block could serve as a slide title:
// one non-empty line under 200 characters.
func looksLikeTitle(text string) bool {
	t := strings.TrimSpace(text)
	return t != "" && !strings.Contains(t, "\n") && len([]rune(t)) < 200
}
