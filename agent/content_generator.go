// Package agent turns free-text prompts into structured slide descriptions
// and edit instruction sets through an eino chat model. Every generation
// has a deterministic fallback, so callers never fail because the model is
// unreachable or returns garbage.
package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"slidesmith/config"
	"slidesmith/engine"
	"slidesmith/logger"
)

const structureSystemPrompt = `You are a presentation designer. Given a request, respond with ONLY a JSON object:
{"meta":{"deck_title":"..."},"slides":[{"layout":"title|bullets|table|chart.column|chart.bar|chart.pie|chart.line","title":"...","subtitle":"...","bullets":["..."],"columns":["..."],"rows":[["..."]],"categories":["..."],"series":[{"name":"...","values":[1,2,3]}]}]}
Use "title" for the first slide. Keep bullets short. No markdown, no commentary.`

const editsSystemPrompt = `You are a presentation editor. Given the current slides and an edit request, respond with ONLY a JSON object:
{"edit_type":"content_update","target_slides":[1],"edits":[{"slide_index":1,"action":"modify|add|replace|delete|change_layout","target_element":"title|text|bullets|table|chart|image","changes":{"find":"...","replace":"...","new_content":"...","bullets":["..."],"add_bullet":"...","chart_type":"column","chart_data":{"categories":["..."],"values":[1]},"table_data":{"headers":["..."],"rows":[["..."]]},"containing":"...","new_layout":"..."}}]}
Slide indexes are 1-based. Only include change fields relevant to the action. No markdown, no commentary.`

// ContentGenerator wraps the chat model. A nil model (no API key, or the
// model could not be constructed) switches it to fallback-only mode.
type ContentGenerator struct {
	chatModel model.ChatModel
	cfg       config.Config
	log       *logger.Logger
}

// NewContentGenerator creates the generator. Model construction failure is
// logged and degrades to fallback mode instead of failing the caller.
func NewContentGenerator(cfg config.Config, log *logger.Logger) *ContentGenerator {
	g := &ContentGenerator{cfg: cfg, log: log}
	if cfg.APIKey == "" {
		g.logf("agent: no API key configured, using fallback generation")
		return g
	}

	chatModel, err := openai.NewChatModel(context.Background(), &openai.ChatModelConfig{
		APIKey:  cfg.APIKey,
		BaseURL: cfg.BaseURL,
		Model:   cfg.ModelName,
	})
	if err != nil {
		g.logf("agent: failed to create chat model: %v", err)
		return g
	}
	g.chatModel = chatModel
	return g
}

// GenerateSlideStructure produces a slide description for the prompt. The
// worst case is the deterministic fallback, never an error.
func (g *ContentGenerator) GenerateSlideStructure(ctx context.Context, prompt string) engine.SlideDescription {
	if g.chatModel != nil {
		raw, err := g.generate(ctx, structureSystemPrompt, prompt)
		if err == nil {
			var desc engine.SlideDescription
			if err := json.Unmarshal([]byte(CleanJSONResponse(raw)), &desc); err == nil && len(desc.Slides) > 0 {
				if desc.Meta.DeckTitle == "" {
					desc.Meta.DeckTitle = titleFromPrompt(prompt)
				}
				return desc
			}
			g.logf("agent: structure response not parseable, using fallback")
		} else {
			g.logf("agent: structure generation failed: %v", err)
		}
	}
	return FallbackSlideStructure(prompt)
}

// GenerateSlideEdits produces an edit instruction set for the prompt
// against the current slides. slideNumber scopes the request when > 0.
// Invalid generated instructions also fall back.
func (g *ContentGenerator) GenerateSlideEdits(ctx context.Context, prompt string, current []engine.SlideModel, slideNumber int) engine.EditInstructionSet {
	if g.chatModel != nil {
		contextJSON, _ := json.Marshal(current)
		user := fmt.Sprintf("Current slides:\n%s\n\nEdit request: %s", contextJSON, prompt)
		if slideNumber > 0 {
			user += fmt.Sprintf("\nApply the edit to slide %d.", slideNumber)
		}
		raw, err := g.generate(ctx, editsSystemPrompt, user)
		if err == nil {
			var set engine.EditInstructionSet
			if err := json.Unmarshal([]byte(CleanJSONResponse(raw)), &set); err == nil && len(set.Edits) > 0 {
				if err := engine.ValidateInstructionSet(&set); err == nil {
					return set
				}
				g.logf("agent: generated instructions invalid, using fallback")
			} else {
				g.logf("agent: edits response not parseable, using fallback")
			}
		} else {
			g.logf("agent: edits generation failed: %v", err)
		}
	}
	return FallbackSlideEdits(prompt, slideNumber)
}

func (g *ContentGenerator) generate(ctx context.Context, system, user string) (string, error) {
	messages := []*schema.Message{
		schema.SystemMessage(system),
		schema.UserMessage(user),
	}
	resp, err := g.chatModel.Generate(ctx, messages)
	if err != nil {
		return "", err
	}
	return resp.Content, nil
}

// CleanJSONResponse strips markdown code fences and surrounding prose so a
// fenced or chatty model response still unmarshals.
func CleanJSONResponse(raw string) string {
	s := strings.TrimSpace(raw)
	if i := strings.Index(s, "```"); i >= 0 {
		s = s[i+3:]
		s = strings.TrimPrefix(s, "json")
		if j := strings.Index(s, "```"); j >= 0 {
			s = s[:j]
		}
	}
	s = strings.TrimSpace(s)
	// trim leading prose before the first brace
	if i := strings.IndexAny(s, "{["); i > 0 {
		s = s[i:]
	}
	return s
}

// FallbackSlideStructure is the deterministic structure used when no model
// is reachable: title, overview, optional table or chart keyed on prompt
// keywords, conclusion.
func FallbackSlideStructure(prompt string) engine.SlideDescription {
	title := titleFromPrompt(prompt)
	desc := engine.SlideDescription{
		Meta: engine.DeckMeta{DeckTitle: title},
		Slides: []engine.SlideModel{
			{Layout: "title", Title: title, Subtitle: "Generated Presentation"},
			{Layout: "bullets", Title: "Overview", Bullets: []string{
				"Introduction to the topic",
				"Key points and insights",
				"Summary and next steps",
			}},
		},
	}

	lower := strings.ToLower(prompt)
	if strings.Contains(lower, "table") || strings.Contains(lower, "comparison") {
		desc.Slides = append(desc.Slides, engine.SlideModel{
			Layout:  "table",
			Title:   "Comparison",
			Columns: []string{"Item", "Value"},
			Rows:    [][]string{{"Item 1", "Value 1"}, {"Item 2", "Value 2"}},
		})
	}
	if strings.Contains(lower, "chart") || strings.Contains(lower, "data") || strings.Contains(lower, "trend") {
		desc.Slides = append(desc.Slides, engine.SlideModel{
			Layout:     "chart.column",
			Title:      "Data Overview",
			Categories: []string{"Category 1", "Category 2", "Category 3"},
			Series:     []engine.SeriesData{{Name: "Series 1", Values: []float64{10, 20, 30}}},
		})
	}

	desc.Slides = append(desc.Slides, engine.SlideModel{
		Layout:  "bullets",
		Title:   "Conclusion",
		Bullets: []string{"Thank you", "Questions welcome"},
	})
	desc.Meta.TotalSlides = len(desc.Slides)
	return desc
}

// FallbackSlideEdits wraps the raw prompt into a single wholesale text
// replacement on the requested slide (slide 1 when unscoped).
func FallbackSlideEdits(prompt string, slideNumber int) engine.EditInstructionSet {
	if slideNumber < 1 {
		slideNumber = 1
	}
	return engine.EditInstructionSet{
		EditType:     "content_update",
		TargetSlides: []int{slideNumber},
		Edits: []engine.EditInstruction{{
			SlideIndex:    slideNumber,
			Action:        engine.ActionModify,
			TargetElement: engine.TargetText,
			Changes:       engine.Changes{NewContent: strings.TrimSpace(prompt)},
		}},
	}
}

// titleFromPrompt derives a deck title: the first sentence or line of the
// prompt, capped at 60 characters.
func titleFromPrompt(prompt string) string {
	t := strings.TrimSpace(prompt)
	if t == "" {
		return "New Presentation"
	}
	for _, sep := range []string{"\n", ". ", "?", "!"} {
		if i := strings.Index(t, sep); i > 0 {
			t = t[:i]
			break
		}
	}
	runes := []rune(t)
	if len(runes) > 60 {
		t = string(runes[:60])
	}
	return strings.TrimSpace(t)
}

func (g *ContentGenerator) logf(format string, args ...interface{}) {
	if g.log != nil {
		g.log.Logf(format, args...)
	}
}
