package engine

import (
	"errors"
	"strings"

	"slidesmith/deck"
	"slidesmith/logger"
)

// ErrNoLayouts is the single fatal synthesis error: a template-bound deck
// exposing no layouts at all.
var ErrNoLayouts = errors.New("no slide layouts available")

// LogoSpec is an optional logo stamped onto every synthesized slide.
// Position and Size use the fixed vocabularies of PlaceLogo.
type LogoSpec struct {
	Data     []byte
	Mime     string
	Position string
	Size     string
}

// SynthesizeOptions selects the synthesis sub-case. Donor nil builds a
// fresh deck. DonorIsOriginal with matching slide counts updates the donor
// in place (the edit round trip). ReuseDonor keeps the donor deck itself
// and cleans up its original slides after appending the new ones, which is
// also the fallback when a structural copy fails.
type SynthesizeOptions struct {
	Donor           *deck.Deck
	DonorIsOriginal bool
	ReuseDonor      bool
	Assets          TemplateAssets
	Logo            *LogoSpec
}

// Synthesizer turns slide models into a deck.
type Synthesizer struct {
	log *logger.Logger
}

// NewSynthesizer returns a synthesizer. The logger may be nil.
func NewSynthesizer(log *logger.Logger) *Synthesizer {
	return &Synthesizer{log: log}
}

// Synthesize builds a deck from the description. The returned deck is
// ready for deck.Save.
func (sy *Synthesizer) Synthesize(desc SlideDescription, opts SynthesizeOptions) (*deck.Deck, error) {
	switch {
	case opts.Donor == nil:
		return sy.buildFresh(desc, deck.New(), opts)
	case opts.DonorIsOriginal && len(opts.Donor.Slides) == len(desc.Slides):
		return sy.updateInPlace(desc, opts.Donor)
	case opts.ReuseDonor:
		return sy.reuseDonor(desc, opts.Donor, opts)
	default:
		return sy.copyDonorStructure(desc, opts)
	}
}

// buildFresh fills an empty (or structurally copied) deck with one slide
// per model.
func (sy *Synthesizer) buildFresh(desc SlideDescription, d *deck.Deck, opts SynthesizeOptions) (*deck.Deck, error) {
	d.Properties.Title = desc.Meta.DeckTitle
	d.Properties.Creator = "Slidesmith"

	for i, m := range desc.Slides {
		layoutName, err := SelectLayout(d.Layouts, m.Layout)
		if err != nil {
			return nil, err
		}
		sl := d.AddSlide(layoutName)
		sy.buildSlide(sl, m, i)
		sy.applyAssets(sl, opts.Assets)
		sy.applyLogo(sl, opts.Logo)
	}
	return d, nil
}

// copyDonorStructure builds a fresh deck that carries the donor's layouts
// and master shapes. Any failure during the copy falls back to direct
// donor reuse plus cleanup.
func (sy *Synthesizer) copyDonorStructure(desc SlideDescription, opts SynthesizeOptions) (d *deck.Deck, err error) {
	donor := opts.Donor
	defer func() {
		if r := recover(); r != nil {
			sy.logf("synthesize: structural copy failed (%v), reusing donor directly", r)
			d, err = sy.reuseDonor(desc, donor, opts)
		}
	}()

	base := &deck.Deck{}
	for _, s := range donor.MasterShapes {
		base.MasterShapes = append(base.MasterShapes, s.Clone())
	}
	for _, l := range donor.Layouts {
		nl := deck.Layout{Name: l.Name, Background: l.Background}
		for _, s := range l.Shapes {
			nl.Shapes = append(nl.Shapes, s.Clone())
		}
		base.Layouts = append(base.Layouts, nl)
	}
	if len(base.Layouts) == 0 {
		return nil, ErrNoLayouts
	}
	return sy.buildFresh(desc, base, opts)
}

// reuseDonor appends the new slides to the donor deck itself, then removes
// exactly the donor's original leading slides, stopping before the total
// would drop below the model count.
func (sy *Synthesizer) reuseDonor(desc SlideDescription, donor *deck.Deck, opts SynthesizeOptions) (*deck.Deck, error) {
	if len(donor.Layouts) == 0 {
		return nil, ErrNoLayouts
	}
	donor.Properties.Title = desc.Meta.DeckTitle
	donorSlideCount := len(donor.Slides)

	for i, m := range desc.Slides {
		layoutName, err := SelectLayout(donor.Layouts, m.Layout)
		if err != nil {
			return nil, err
		}
		sl := donor.AddSlide(layoutName)
		sy.buildSlide(sl, m, i)
		sy.applyAssets(sl, opts.Assets)
		sy.applyLogo(sl, opts.Logo)
	}

	removed := 0
	for removed < donorSlideCount && len(donor.Slides) > len(desc.Slides) {
		donor.RemoveSlideAt(0)
		removed++
	}
	sy.logf("synthesize: removed %d donor slides, %d remain", removed, len(donor.Slides))
	return donor, nil
}

// updateInPlace rewrites the donor's existing slides from the models, used
// when the donor IS the deck being edited and counts line up. Structure
// and styling stay untouched; only content changes.
func (sy *Synthesizer) updateInPlace(desc SlideDescription, donor *deck.Deck) (*deck.Deck, error) {
	for i, m := range desc.Slides {
		sl := donor.Slides[i]
		if m.Title != "" {
			if t := sl.TitleShape(); t != nil {
				t.SetText(m.Title)
			}
		}
		if len(m.Bullets) > 0 {
			if b := findBulletBox(sl); b != nil {
				b.SetText(bulletText(m.Bullets))
			}
		}
		if len(m.Columns) > 0 || len(m.Rows) > 0 {
			for _, s := range sl.Shapes {
				if s.HasTable() {
					s.Table.Columns = append([]string(nil), m.Columns...)
					s.Table.Rows = nil
					for _, row := range m.Rows {
						s.Table.Rows = append(s.Table.Rows, append([]string(nil), row...))
					}
					break
				}
			}
		}
	}
	return donor, nil
}

// buildSlide fills one slide from its model. index feeds nothing today but
// keeps build order visible in logs.
func (sy *Synthesizer) buildSlide(sl *deck.Slide, m SlideModel, index int) {
	kind := m.Layout
	chartType := ""
	if strings.HasPrefix(kind, string(LayoutChart)) {
		if dot := strings.Index(kind, "."); dot >= 0 {
			chartType = kind[dot+1:]
		}
		kind = string(LayoutChart)
	}

	switch kind {
	case string(LayoutTitle):
		sy.addTitle(sl, m.Title, deck.Frame{Left: deck.Inches(0.5), Top: deck.Inches(2.3), Width: deck.Inches(9.0), Height: deck.Inches(1.2)})
		if m.Subtitle != "" {
			sl.AddShape(&deck.Shape{
				Frame:       deck.Frame{Left: deck.Inches(0.5), Top: deck.Inches(3.6), Width: deck.Inches(9.0), Height: deck.Inches(0.9)},
				Placeholder: &deck.PlaceholderInfo{Index: 3, Name: "subtitle"},
				Text:        deck.NewText(m.Subtitle, deck.Font{Size: 20}, deck.StyleDefault),
			})
		}

	case string(LayoutTable):
		sy.addTitle(sl, m.Title, headerFrame())
		t := &deck.TableContent{Columns: append([]string(nil), m.Columns...)}
		for _, row := range m.Rows {
			t.Rows = append(t.Rows, append([]string(nil), row...))
		}
		sl.AddShape(&deck.Shape{
			Frame: deck.Frame{Left: deck.Inches(0.5), Top: deck.Inches(1.6), Width: deck.Inches(9.0), Height: deck.Inches(4.5)},
			Table: t,
		})
		// table slides carry no leftover content placeholder
		sl.RemoveShapes(func(s *deck.Shape) bool {
			return s.Placeholder != nil && s.Placeholder.Index == 2 && !s.HasText()
		})

	case string(LayoutChart):
		sy.addTitle(sl, m.Title, headerFrame())
		ch := &deck.ChartContent{Type: chartType, Categories: append([]string(nil), m.Categories...)}
		if ch.Type == "" {
			ch.Type = "column"
		}
		for _, se := range m.Series {
			ch.Series = append(ch.Series, deck.Series{Name: se.Name, Values: append([]float64(nil), se.Values...)})
		}
		sl.AddShape(&deck.Shape{
			Frame: deck.Frame{Left: deck.Inches(0.5), Top: deck.Inches(1.6), Width: deck.Inches(9.0), Height: deck.Inches(4.5)},
			Chart: ch,
		})

	default: // bullets
		sy.addTitle(sl, m.Title, headerFrame())
		bullets := m.Bullets
		if len(bullets) == 0 {
			bullets = []string{"Bullet point content"}
		}
		sl.AddShape(&deck.Shape{
			Frame:       deck.Frame{Left: deck.Inches(0.5), Top: deck.Inches(1.6), Width: deck.Inches(9.0), Height: deck.Inches(4.8)},
			Placeholder: &deck.PlaceholderInfo{Index: 2, Name: "content"},
			Text:        deck.NewText(bulletText(bullets), deck.Font{Size: 14}, deck.StyleDefault),
		})
	}

	for _, tb := range m.TextBoxes {
		font := deck.Font{Name: tb.FontName, Size: tb.FontSize, Bold: tb.Bold, Italic: tb.Italic}
		origin := deck.StyleDefault
		if !font.IsZero() {
			origin = deck.StyleTemplate
		}
		sl.AddShape(&deck.Shape{
			Frame: deck.Frame{Left: tb.Frame.Left, Top: tb.Frame.Top, Width: tb.Frame.Width, Height: tb.Frame.Height},
			Text:  deck.NewText(tb.Text, font, origin),
		})
	}
	for _, img := range m.Images {
		if len(img.Data) == 0 {
			continue
		}
		sl.AddShape(&deck.Shape{
			Frame: deck.Frame{Left: img.Frame.Left, Top: img.Frame.Top, Width: img.Frame.Width, Height: img.Frame.Height},
			Image: &deck.ImageContent{Name: img.Name, Mime: img.Mime, Data: append([]byte(nil), img.Data...)},
		})
	}
}

func (sy *Synthesizer) addTitle(sl *deck.Slide, title string, frame deck.Frame) {
	if title == "" {
		return
	}
	sl.AddShape(&deck.Shape{
		Frame:       frame,
		IsTitle:     true,
		Placeholder: &deck.PlaceholderInfo{Index: 1, Name: "title"},
		Text:        deck.NewText(title, deck.Font{Size: 32, Bold: true}, deck.StyleDefault),
	})
}

func headerFrame() deck.Frame {
	return deck.Frame{Left: deck.Inches(0.5), Top: deck.Inches(0.3), Width: deck.Inches(9.0), Height: deck.Inches(1.0)}
}

// applyAssets re-adds harvested master and layout pictures to the slide at
// their original offsets. Slide-scoped assets stay with their source slide
// and are not propagated.
func (sy *Synthesizer) applyAssets(sl *deck.Slide, assets TemplateAssets) {
	for _, a := range assets.Logos {
		if a.Scope != "master" && !strings.HasPrefix(a.Scope, "layout_") {
			continue
		}
		sl.AddShape(&deck.Shape{
			Name:  a.Name,
			Frame: a.Frame,
			Image: &deck.ImageContent{Name: a.Name, Mime: a.Mime, Data: append([]byte(nil), a.Data...)},
		})
	}
}

func (sy *Synthesizer) applyLogo(sl *deck.Slide, logo *LogoSpec) {
	if logo == nil || len(logo.Data) == 0 {
		return
	}
	frame := LogoFrame(logo.Position, logo.Size)
	sl.AddShape(&deck.Shape{
		Name:  "logo",
		Frame: frame,
		Image: &deck.ImageContent{Name: "logo", Mime: logo.Mime, Data: append([]byte(nil), logo.Data...)},
	})
}

// Logo placement uses the fixed 10 x 7.5 inch canvas with a 0.3 inch
// margin regardless of the actual page size.
const (
	logoCanvasWidth  = 10.0
	logoCanvasHeight = 7.5
	logoMargin       = 0.3
)

// LogoSize maps the size vocabulary to a square edge in inches. Unknown
// sizes fall back to medium.
func LogoSize(size string) float64 {
	switch size {
	case "small":
		return 1.0
	case "large":
		return 2.0
	default:
		return 1.5
	}
}

// LogoFrame computes the logo frame for one of the five named anchors.
// Unknown positions fall back to top-right.
func LogoFrame(position, size string) deck.Frame {
	edge := LogoSize(size)
	var left, top float64
	switch position {
	case "top-left":
		left, top = logoMargin, logoMargin
	case "bottom-left":
		left, top = logoMargin, logoCanvasHeight-logoMargin-edge
	case "bottom-right":
		left, top = logoCanvasWidth-logoMargin-edge, logoCanvasHeight-logoMargin-edge
	case "center":
		left, top = (logoCanvasWidth-edge)/2, (logoCanvasHeight-edge)/2
	default: // top-right
		left, top = logoCanvasWidth-logoMargin-edge, logoMargin
	}
	return deck.Frame{
		Left:   deck.Inches(left),
		Top:    deck.Inches(top),
		Width:  deck.Inches(edge),
		Height: deck.Inches(edge),
	}
}

// SelectLayout picks a donor layout name for one model layout kind. The
// keyword search runs over lower-cased layout names; misses fall back to
// fixed positional choices. The only error is an empty layout list.
func SelectLayout(layouts []deck.Layout, modelLayout string) (string, error) {
	if len(layouts) == 0 {
		return "", ErrNoLayouts
	}
	names := make([]string, len(layouts))
	for i, l := range layouts {
		names[i] = strings.ToLower(l.Name)
	}

	kind := modelLayout
	if strings.HasPrefix(kind, string(LayoutChart)) {
		kind = string(LayoutChart)
	}

	switch kind {
	case string(LayoutTitle):
		for i, n := range names {
			if strings.Contains(n, "title") && strings.Contains(n, "slide") {
				return layouts[i].Name, nil
			}
		}
		return layouts[0].Name, nil

	case string(LayoutTable), string(LayoutChart):
		for i, n := range names {
			if strings.Contains(n, "blank") {
				return layouts[i].Name, nil
			}
		}
		for i, n := range names {
			if containsAny(n, "content", "bullet", "text", "list") {
				return layouts[i].Name, nil
			}
		}
		if len(layouts) >= 3 {
			return layouts[len(layouts)-1].Name, nil
		}
		return layouts[0].Name, nil

	default: // bullets and anything content-shaped
		for i, n := range names {
			if containsAny(n, "content", "bullet", "text", "list") {
				return layouts[i].Name, nil
			}
		}
		if len(layouts) > 1 {
			return layouts[1].Name, nil
		}
		return layouts[0].Name, nil
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func (sy *Synthesizer) logf(format string, args ...interface{}) {
	if sy.log != nil {
		sy.log.Logf(format, args...)
	}
}
