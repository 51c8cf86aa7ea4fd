package agent

import (
	"context"
	"strings"
	"testing"

	"slidesmith/config"
	"slidesmith/engine"
)

func TestCleanJSONResponse(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare json", `{"a":1}`, `{"a":1}`},
		{"fenced", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"fenced no language", "```\n[1,2]\n```", `[1,2]`},
		{"leading prose", "Here is the result: {\"a\":1}", `{"a":1}`},
		{"whitespace", "  \n {\"a\":1} \n", `{"a":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanJSONResponse(tt.in); got != tt.want {
				t.Errorf("CleanJSONResponse(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestFallbackSlideStructure_Deterministic(t *testing.T) {
	a := FallbackSlideStructure("Team onboarding process")
	b := FallbackSlideStructure("Team onboarding process")
	if len(a.Slides) != len(b.Slides) {
		t.Fatal("fallback must be deterministic")
	}
	if a.Slides[0].Layout != "title" {
		t.Errorf("first slide layout = %q", a.Slides[0].Layout)
	}
	if a.Meta.DeckTitle != "Team onboarding process" {
		t.Errorf("deck title = %q", a.Meta.DeckTitle)
	}
	if a.Meta.TotalSlides != len(a.Slides) {
		t.Errorf("total slides = %d, slides = %d", a.Meta.TotalSlides, len(a.Slides))
	}
}

func TestFallbackSlideStructure_KeywordSlides(t *testing.T) {
	withChart := FallbackSlideStructure("Show the sales trend data")
	var hasChart bool
	for _, m := range withChart.Slides {
		if strings.HasPrefix(m.Layout, "chart") {
			hasChart = true
		}
	}
	if !hasChart {
		t.Error("prompt mentioning data should add a chart slide")
	}

	withTable := FallbackSlideStructure("A comparison of the two plans")
	var hasTable bool
	for _, m := range withTable.Slides {
		if m.Layout == "table" {
			hasTable = true
		}
	}
	if !hasTable {
		t.Error("prompt mentioning comparison should add a table slide")
	}
}

func TestFallbackSlideEdits_Validates(t *testing.T) {
	set := FallbackSlideEdits("make the heading bolder", 3)
	if err := engine.ValidateInstructionSet(&set); err != nil {
		t.Fatalf("fallback instructions must validate: %v", err)
	}
	if set.Edits[0].SlideIndex != 3 {
		t.Errorf("slide index = %d", set.Edits[0].SlideIndex)
	}

	unscoped := FallbackSlideEdits("x", 0)
	if unscoped.Edits[0].SlideIndex != 1 {
		t.Errorf("unscoped request should target slide 1, got %d", unscoped.Edits[0].SlideIndex)
	}
}

func TestTitleFromPrompt(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "New Presentation"},
		{"Quarterly results. With details.", "Quarterly results"},
		{"First line\nsecond line", "First line"},
		{strings.Repeat("long ", 30), strings.TrimSpace(strings.Repeat("long ", 30)[:60])},
	}
	for _, tt := range tests {
		if got := titleFromPrompt(tt.in); got != tt.want {
			t.Errorf("titleFromPrompt(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestContentGenerator_NoAPIKeyUsesFallback(t *testing.T) {
	g := NewContentGenerator(config.Config{}, nil)
	desc := g.GenerateSlideStructure(context.Background(), "Project kickoff")
	if len(desc.Slides) == 0 {
		t.Fatal("fallback structure must not be empty")
	}
	set := g.GenerateSlideEdits(context.Background(), "change the title", nil, 2)
	if len(set.Edits) != 1 || set.Edits[0].SlideIndex != 2 {
		t.Errorf("edits = %+v", set.Edits)
	}
}
