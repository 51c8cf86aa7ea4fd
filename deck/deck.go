// Package deck holds the in-memory document object model the slide engine
// operates on. A Deck is a value object owned by one operation: it is built
// by Open (or by the synthesizer), mutated freely, and written out by Save.
// Nothing in this package touches the on-disk format; that lives in the
// GoPPT adapter (pptx.go) and the template part scan (pptx_template.go).
package deck

import (
	"math"
	"strings"
)

// EMUPerInch is the English Metric Unit scale used for all positions and
// sizes in the model (the PPTX native unit).
const EMUPerInch = int64(914400)

// Inches converts inches to EMU, rounding so that chained float arithmetic
// (margins subtracted from the canvas width) lands on the same EMU as the
// directly converted coordinate.
func Inches(v float64) int64 {
	return int64(math.Round(v * float64(EMUPerInch)))
}

// StyleOrigin records where a text run's formatting came from. It is set
// once when the run is created and consulted by downstream styling instead
// of probing font attributes at runtime.
type StyleOrigin int

const (
	StyleUnset StyleOrigin = iota
	StyleDefault
	StyleTemplate
)

func (o StyleOrigin) String() string {
	switch o {
	case StyleDefault:
		return "default"
	case StyleTemplate:
		return "template"
	}
	return "unset"
}

// Frame is a shape's position and size in EMU.
type Frame struct {
	Left   int64
	Top    int64
	Width  int64
	Height int64
}

// Font describes run-level text formatting. Zero value means "inherit".
type Font struct {
	Name   string
	Size   int // points
	Bold   bool
	Italic bool
}

// IsZero reports whether no explicit formatting was recorded.
func (f Font) IsZero() bool {
	return f.Name == "" && f.Size == 0 && !f.Bold && !f.Italic
}

// Run is a single formatted text span.
type Run struct {
	Text   string
	Font   Font
	Origin StyleOrigin
}

// Paragraph is an ordered run sequence; paragraphs join with newlines.
type Paragraph struct {
	Runs []Run
}

// Text returns the paragraph's concatenated run text.
func (p Paragraph) Text() string {
	var b strings.Builder
	for _, r := range p.Runs {
		b.WriteString(r.Text)
	}
	return b.String()
}

// TextContent is the text arm of a shape.
type TextContent struct {
	Paragraphs []Paragraph
}

// NewText builds text content from a string, one paragraph per line.
func NewText(text string, font Font, origin StyleOrigin) *TextContent {
	tc := &TextContent{}
	for _, line := range strings.Split(text, "\n") {
		tc.Paragraphs = append(tc.Paragraphs, Paragraph{
			Runs: []Run{{Text: line, Font: font, Origin: origin}},
		})
	}
	return tc
}

// String joins paragraphs with newlines.
func (t *TextContent) String() string {
	if t == nil {
		return ""
	}
	lines := make([]string, 0, len(t.Paragraphs))
	for _, p := range t.Paragraphs {
		lines = append(lines, p.Text())
	}
	return strings.Join(lines, "\n")
}

// TableContent is the tabular arm of a shape: a header row plus data rows.
type TableContent struct {
	Columns []string
	Rows    [][]string
}

// Series is one named value sequence of a chart.
type Series struct {
	Name   string
	Values []float64
}

// ChartContent is the chart arm of a shape. Type is the original's chart
// subtype string ("column", "bar", "pie", "line").
type ChartContent struct {
	Type       string
	Categories []string
	Series     []Series
}

// ImageContent is the picture arm of a shape.
type ImageContent struct {
	Name string
	Mime string
	Data []byte
}

// PlaceholderInfo marks a shape as filling a layout-defined slot.
// Index follows the document convention: 1 title, 3 subtitle, 2 content.
type PlaceholderInfo struct {
	Index int
	Name  string
}

// Shape is one slide shape. At most one content arm is non-nil.
type Shape struct {
	Name        string
	Frame       Frame
	IsTitle     bool
	Placeholder *PlaceholderInfo
	Text        *TextContent
	Table       *TableContent
	Chart       *ChartContent
	Image       *ImageContent
}

// HasText reports whether the shape carries non-empty text.
func (s *Shape) HasText() bool {
	return s.Text != nil && strings.TrimSpace(s.Text.String()) != ""
}

// HasTable reports whether the shape carries tabular data.
func (s *Shape) HasTable() bool { return s.Table != nil }

// HasChart reports whether the shape carries chart data.
func (s *Shape) HasChart() bool { return s.Chart != nil }

// HasImage reports whether the shape carries image data.
func (s *Shape) HasImage() bool { return s.Image != nil }

// TextString returns the shape's full text, empty for non-text shapes.
func (s *Shape) TextString() string {
	return s.Text.String()
}

// SetText replaces the shape's text wholesale, one paragraph per line.
// The first existing run's font and style origin carry over so template
// formatting survives a content swap.
func (s *Shape) SetText(text string) {
	font := Font{}
	origin := StyleUnset
	if s.Text != nil {
		for _, p := range s.Text.Paragraphs {
			if len(p.Runs) > 0 {
				font = p.Runs[0].Font
				origin = p.Runs[0].Origin
				break
			}
		}
	}
	s.Text = NewText(text, font, origin)
}

// Clone deep-copies the shape.
func (s *Shape) Clone() *Shape {
	c := &Shape{Name: s.Name, Frame: s.Frame, IsTitle: s.IsTitle}
	if s.Placeholder != nil {
		ph := *s.Placeholder
		c.Placeholder = &ph
	}
	if s.Text != nil {
		tc := &TextContent{Paragraphs: make([]Paragraph, len(s.Text.Paragraphs))}
		for i, p := range s.Text.Paragraphs {
			tc.Paragraphs[i] = Paragraph{Runs: append([]Run(nil), p.Runs...)}
		}
		c.Text = tc
	}
	if s.Table != nil {
		t := &TableContent{Columns: append([]string(nil), s.Table.Columns...)}
		for _, row := range s.Table.Rows {
			t.Rows = append(t.Rows, append([]string(nil), row...))
		}
		c.Table = t
	}
	if s.Chart != nil {
		ch := &ChartContent{Type: s.Chart.Type, Categories: append([]string(nil), s.Chart.Categories...)}
		for _, se := range s.Chart.Series {
			ch.Series = append(ch.Series, Series{Name: se.Name, Values: append([]float64(nil), se.Values...)})
		}
		c.Chart = ch
	}
	if s.Image != nil {
		c.Image = &ImageContent{
			Name: s.Image.Name,
			Mime: s.Image.Mime,
			Data: append([]byte(nil), s.Image.Data...),
		}
	}
	return c
}

// Slide is an ordered shape list bound to a layout by name.
type Slide struct {
	LayoutName string
	Shapes     []*Shape
}

// AddShape appends a shape and returns it.
func (sl *Slide) AddShape(s *Shape) *Shape {
	sl.Shapes = append(sl.Shapes, s)
	return s
}

// RemoveShapes drops every shape the predicate selects and reports how many
// were removed.
func (sl *Slide) RemoveShapes(match func(*Shape) bool) int {
	kept := sl.Shapes[:0]
	removed := 0
	for _, s := range sl.Shapes {
		if match(s) {
			removed++
			continue
		}
		kept = append(kept, s)
	}
	sl.Shapes = kept
	return removed
}

// TitleShape returns the slide's designated title shape, or the first
// placeholder with the title index, or nil.
func (sl *Slide) TitleShape() *Shape {
	for _, s := range sl.Shapes {
		if s.IsTitle {
			return s
		}
	}
	for _, s := range sl.Shapes {
		if s.Placeholder != nil && s.Placeholder.Index == 1 {
			return s
		}
	}
	return nil
}

// Clone deep-copies the slide.
func (sl *Slide) Clone() *Slide {
	c := &Slide{LayoutName: sl.LayoutName, Shapes: make([]*Shape, len(sl.Shapes))}
	for i, s := range sl.Shapes {
		c.Shapes[i] = s.Clone()
	}
	return c
}

// Layout is one layout definition harvested from the document: its name
// drives layout selection, its shapes hold layout-scoped images, and
// Background is a coarse descriptor of the layout background fill.
type Layout struct {
	Name       string
	Background string
	Shapes     []*Shape
}

// Properties are deck-level document properties.
type Properties struct {
	Title   string
	Creator string
}

// Deck is one presentation document.
type Deck struct {
	Properties   Properties
	MasterShapes []*Shape
	Layouts      []Layout
	Slides       []*Slide
}

// defaultLayoutNames matches the layout set of a blank presentation, so
// layout selection behaves the same with and without a donor template.
var defaultLayoutNames = []string{
	"Title Slide",
	"Title and Content",
	"Section Header",
	"Two Content",
	"Comparison",
	"Title Only",
	"Blank",
	"Content with Caption",
	"Picture with Caption",
}

// New returns an empty deck seeded with the default layout set.
func New() *Deck {
	d := &Deck{}
	for _, name := range defaultLayoutNames {
		d.Layouts = append(d.Layouts, Layout{Name: name})
	}
	return d
}

// SlideCount returns the number of slides.
func (d *Deck) SlideCount() int { return len(d.Slides) }

// AddSlide appends an empty slide bound to the named layout.
func (d *Deck) AddSlide(layoutName string) *Slide {
	sl := &Slide{LayoutName: layoutName}
	d.Slides = append(d.Slides, sl)
	return sl
}

// RemoveSlideAt drops the slide at index i. Out-of-range is a no-op.
func (d *Deck) RemoveSlideAt(i int) {
	if i < 0 || i >= len(d.Slides) {
		return
	}
	d.Slides = append(d.Slides[:i], d.Slides[i+1:]...)
}

// Clone deep-copies the deck. Snapshots taken for preview must never alias
// the caller's document.
func (d *Deck) Clone() *Deck {
	c := &Deck{Properties: d.Properties}
	for _, s := range d.MasterShapes {
		c.MasterShapes = append(c.MasterShapes, s.Clone())
	}
	for _, l := range d.Layouts {
		nl := Layout{Name: l.Name, Background: l.Background}
		for _, s := range l.Shapes {
			nl.Shapes = append(nl.Shapes, s.Clone())
		}
		c.Layouts = append(c.Layouts, nl)
	}
	for _, sl := range d.Slides {
		c.Slides = append(c.Slides, sl.Clone())
	}
	return c
}
