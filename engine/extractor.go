package engine

import (
	"strings"
	"time"

	"slidesmith/deck"
	"slidesmith/logger"
)

// Extractor walks a deck and produces the canonical slide models. It is
// read-only: the deck is never modified, and the models hold copies.
type Extractor struct {
	log *logger.Logger
}

// NewExtractor returns an extractor. The logger may be nil.
func NewExtractor(log *logger.Logger) *Extractor {
	return &Extractor{log: log}
}

// ExtractDeck extracts every slide plus deck-level meta. originalPath is
// recorded so an edited model set can round-trip through
// template-preserving synthesis.
func (e *Extractor) ExtractDeck(d *deck.Deck, originalPath string) SlideDescription {
	models := e.ExtractSlides(d)
	return SlideDescription{
		Meta: DeckMeta{
			DeckTitle:          "Extracted Presentation",
			StoredTemplatePath: originalPath,
			HasTemplate:        originalPath != "",
			TotalSlides:        len(models),
			OriginalFile:       originalPath,
			ExtractedAt:        time.Now().Format(time.RFC3339),
		},
		Slides: models,
	}
}

// ExtractSlides extracts one model per slide in deck order.
func (e *Extractor) ExtractSlides(d *deck.Deck) []SlideModel {
	models := make([]SlideModel, 0, len(d.Slides))
	for i, sl := range d.Slides {
		models = append(models, e.ExtractSlide(sl, i))
	}
	return models
}

// ExtractSlide extracts one slide. index is the 0-based slide position,
// which feeds the layout fallback (the first slide defaults to "title").
func (e *Extractor) ExtractSlide(sl *deck.Slide, index int) SlideModel {
	m := SlideModel{}
	for _, s := range sl.Shapes {
		e.visitShape(&m, s, index)
	}

	m.Layout = deriveLayout(&m, index)
	if m.Layout == string(LayoutBullets) && len(m.Bullets) == 0 {
		m.Bullets = []string{"Bullet point content"}
	}
	return m
}

// visitShape folds one shape into the model. A panic inside the visit is a
// per-shape failure: logged, shape skipped, extraction continues.
func (e *Extractor) visitShape(m *SlideModel, s *deck.Shape, slideIndex int) {
	defer func() {
		if r := recover(); r != nil {
			e.logf("extract: slide %d shape skipped: %v", slideIndex+1, r)
			m.OtherShapes++
		}
	}()

	switch Classify(s) {
	case KindTitle:
		if m.Title == "" {
			m.Title = strings.TrimSpace(s.TextString())
		} else {
			m.TextBoxes = append(m.TextBoxes, textBoxModel(s))
		}
	case KindSubtitle:
		if m.Subtitle == "" {
			m.Subtitle = strings.TrimSpace(s.TextString())
		} else {
			m.TextBoxes = append(m.TextBoxes, textBoxModel(s))
		}
	case KindContent:
		m.Bullets = append(m.Bullets, splitBullets(s.TextString())...)
	case KindTable:
		if len(m.Columns) == 0 && len(m.Rows) == 0 {
			m.Columns = append([]string(nil), s.Table.Columns...)
			for _, row := range s.Table.Rows {
				m.Rows = append(m.Rows, append([]string(nil), row...))
			}
		} else {
			m.OtherShapes++
		}
	case KindChart:
		e.extractChart(m, s.Chart)
	case KindImage:
		m.Images = append(m.Images, ImageModel{
			Name:  s.Image.Name,
			Mime:  s.Image.Mime,
			Frame: frameModel(s.Frame),
			Data:  append([]byte(nil), s.Image.Data...),
		})
	case KindText:
		m.TextBoxes = append(m.TextBoxes, textBoxModel(s))
	default:
		m.OtherShapes++
	}
}

// extractChart copies chart data into the model. Charts whose data the
// document library does not expose get the standard placeholder series so
// downstream synthesis always has something to render.
func (e *Extractor) extractChart(m *SlideModel, c *deck.ChartContent) {
	if len(m.Categories) > 0 || len(m.Series) > 0 {
		m.OtherShapes++
		return
	}
	chartType := c.Type
	if chartType == "" {
		chartType = "column"
	}
	m.Layout = string(LayoutChart) + "." + chartType

	if len(c.Categories) > 0 && len(c.Series) > 0 {
		m.Categories = append([]string(nil), c.Categories...)
		for _, se := range c.Series {
			m.Series = append(m.Series, SeriesData{Name: se.Name, Values: append([]float64(nil), se.Values...)})
		}
		return
	}
	e.logf("extract: chart data not exposed, using placeholder series")
	m.Categories = []string{"Category 1", "Category 2", "Category 3"}
	m.Series = []SeriesData{{Name: "Series 1", Values: []float64{10, 20, 30}}}
}

// deriveLayout applies the layout invariant: table beats chart beats the
// positional defaults. The chart arm was already set with its subtype.
func deriveLayout(m *SlideModel, index int) string {
	if len(m.Columns) > 0 || len(m.Rows) > 0 {
		return string(LayoutTable)
	}
	if strings.HasPrefix(m.Layout, string(LayoutChart)) {
		return m.Layout
	}
	if index == 0 {
		return string(LayoutTitle)
	}
	return string(LayoutBullets)
}

func textBoxModel(s *deck.Shape) TextBoxModel {
	tb := TextBoxModel{
		Text:  s.TextString(),
		Frame: frameModel(s.Frame),
	}
	if s.Placeholder != nil {
		tb.IsPlaceholder = true
		tb.PlaceholderKind = PlaceholderKindName(s.Placeholder.Index)
	}
	if s.Text != nil {
		for _, p := range s.Text.Paragraphs {
			if len(p.Runs) > 0 && !p.Runs[0].Font.IsZero() {
				f := p.Runs[0].Font
				tb.FontName = f.Name
				tb.FontSize = f.Size
				tb.Bold = f.Bold
				tb.Italic = f.Italic
				break
			}
		}
	}
	return tb
}

func frameModel(f deck.Frame) FrameModel {
	return FrameModel{Left: f.Left, Top: f.Top, Width: f.Width, Height: f.Height}
}

// splitBullets turns placeholder text into bullet items on line boundaries,
// stripping leading glyphs and dropping blank lines.
func splitBullets(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimLeft(line, "•◦▪-* \t")
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

func (e *Extractor) logf(format string, args ...interface{}) {
	if e.log != nil {
		e.log.Logf(format, args...)
	}
}
