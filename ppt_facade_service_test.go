package main

import (
	"testing"

	"slidesmith/engine"
)

func TestIsOriginalTemplate(t *testing.T) {
	tests := []struct {
		name string
		meta engine.DeckMeta
		path string
		want bool
	}{
		{
			name: "extraction source",
			meta: engine.DeckMeta{HasTemplate: true, StoredTemplatePath: "/decks/talk.pptx"},
			path: "/decks/talk.pptx",
			want: true,
		},
		{
			name: "unclean path still matches",
			meta: engine.DeckMeta{HasTemplate: true, StoredTemplatePath: "/decks/talk.pptx"},
			path: "/decks/./talk.pptx",
			want: true,
		},
		{
			name: "different template",
			meta: engine.DeckMeta{HasTemplate: true, StoredTemplatePath: "/decks/talk.pptx"},
			path: "/decks/corporate.pptx",
			want: false,
		},
		{
			name: "no template recorded",
			meta: engine.DeckMeta{},
			path: "/decks/talk.pptx",
			want: false,
		},
		{
			name: "flag without path",
			meta: engine.DeckMeta{HasTemplate: true},
			path: "/decks/talk.pptx",
			want: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isOriginalTemplate(tt.meta, tt.path); got != tt.want {
				t.Errorf("isOriginalTemplate(%+v, %q) = %v, want %v", tt.meta, tt.path, got, tt.want)
			}
		})
	}
}
