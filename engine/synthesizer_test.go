package engine

import (
	"strings"
	"testing"

	"slidesmith/deck"
)

func sampleModels() []SlideModel {
	return []SlideModel{
		{Layout: "title", Title: "Annual Review", Subtitle: "FY 2026"},
		{Layout: "bullets", Title: "Highlights", Bullets: []string{"Growth", "Retention"}},
		{Layout: "table", Title: "Numbers", Columns: []string{"Metric", "Value"}, Rows: [][]string{{"Revenue", "10M"}}},
		{Layout: "chart.column", Title: "Trend", Categories: []string{"Q1", "Q2"},
			Series: []SeriesData{{Name: "Revenue", Values: []float64{4, 6}}}},
	}
}

func TestSynthesize_RoundTripLayouts(t *testing.T) {
	desc := SlideDescription{Meta: DeckMeta{DeckTitle: "Round Trip"}, Slides: sampleModels()}
	d, err := NewSynthesizer(nil).Synthesize(desc, SynthesizeOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if d.SlideCount() != len(desc.Slides) {
		t.Fatalf("slide count = %d, want %d", d.SlideCount(), len(desc.Slides))
	}

	extracted := NewExtractor(nil).ExtractSlides(d)
	for i, m := range extracted {
		if m.Layout != desc.Slides[i].Layout {
			t.Errorf("slide %d layout = %q, want %q", i+1, m.Layout, desc.Slides[i].Layout)
		}
	}
	if extracted[1].Title != "Highlights" {
		t.Errorf("title = %q", extracted[1].Title)
	}
}

func TestSynthesize_CleanupAccounting(t *testing.T) {
	donor := deck.New()
	for i := 0; i < 8; i++ {
		donor.AddSlide("Title and Content").AddShape(titleShape("Donor slide"))
	}
	models := make([]SlideModel, 5)
	for i := range models {
		models[i] = SlideModel{Layout: "bullets", Title: "New", Bullets: []string{"x"}}
	}

	d, err := NewSynthesizer(nil).Synthesize(
		SlideDescription{Meta: DeckMeta{DeckTitle: "Rebuilt"}, Slides: models},
		SynthesizeOptions{Donor: donor, ReuseDonor: true},
	)
	if err != nil {
		t.Fatal(err)
	}
	// exactly 8 leading donor slides removed, exactly 5 remain
	if d.SlideCount() != 5 {
		t.Fatalf("slide count = %d, want 5", d.SlideCount())
	}
	for i, sl := range d.Slides {
		if ts := sl.TitleShape(); ts == nil || ts.TextString() != "New" {
			t.Errorf("slide %d is not a synthesized slide", i+1)
		}
	}
}

func TestSynthesize_CleanupStopsAtModelCount(t *testing.T) {
	// donor larger than model count plus donor slides: removal must stop
	// before dropping below the model count
	donor := deck.New()
	for i := 0; i < 3; i++ {
		donor.AddSlide("Blank")
	}
	models := []SlideModel{{Layout: "bullets", Title: "Only"}}

	d, err := NewSynthesizer(nil).Synthesize(
		SlideDescription{Slides: models},
		SynthesizeOptions{Donor: donor, ReuseDonor: true},
	)
	if err != nil {
		t.Fatal(err)
	}
	if d.SlideCount() != 1 {
		t.Errorf("slide count = %d, want 1", d.SlideCount())
	}
}

func TestSynthesize_InPlaceUpdate(t *testing.T) {
	donor := deck.New()
	sl := donor.AddSlide("Title and Content")
	sl.AddShape(titleShape("Old Title"))
	sl.AddShape(contentShape("• old bullet"))

	models := []SlideModel{{Layout: "bullets", Title: "New Title", Bullets: []string{"fresh"}}}
	d, err := NewSynthesizer(nil).Synthesize(
		SlideDescription{Slides: models},
		SynthesizeOptions{Donor: donor, DonorIsOriginal: true},
	)
	if err != nil {
		t.Fatal(err)
	}
	if d != donor {
		t.Fatal("in-place update must return the donor deck")
	}
	if got := d.Slides[0].TitleShape().TextString(); got != "New Title" {
		t.Errorf("title = %q", got)
	}
	if got := d.Slides[0].Shapes[1].TextString(); got != "• fresh" {
		t.Errorf("bullets = %q", got)
	}
}

func TestSynthesize_OriginalDonorCountMismatchReusesWithCleanup(t *testing.T) {
	// the edit round trip wires DonorIsOriginal and ReuseDonor together; a
	// model count that no longer matches the donor must fall through to
	// donor reuse with cleanup instead of updating in place
	donor := deck.New()
	for i := 0; i < 3; i++ {
		donor.AddSlide("Title and Content").AddShape(titleShape("Donor slide"))
	}
	models := []SlideModel{
		{Layout: "bullets", Title: "Kept", Bullets: []string{"a"}},
		{Layout: "bullets", Title: "Kept", Bullets: []string{"b"}},
	}

	d, err := NewSynthesizer(nil).Synthesize(
		SlideDescription{Slides: models},
		SynthesizeOptions{Donor: donor, DonorIsOriginal: true, ReuseDonor: true},
	)
	if err != nil {
		t.Fatal(err)
	}
	if d.SlideCount() != 2 {
		t.Fatalf("slide count = %d, want 2", d.SlideCount())
	}
	for i, sl := range d.Slides {
		if ts := sl.TitleShape(); ts == nil || ts.TextString() != "Kept" {
			t.Errorf("slide %d is not a synthesized slide", i+1)
		}
	}
}

func TestSynthesize_StructuralCopyForNonOriginalDonor(t *testing.T) {
	// a donor that is not the extraction source takes the structural-copy
	// branch: a fresh deck carrying the donor's layouts and master shapes,
	// with the donor's own slides left untouched
	donor := deck.New()
	donor.MasterShapes = append(donor.MasterShapes, &deck.Shape{Name: "brandmark"})
	donor.AddSlide("Title and Content").AddShape(titleShape("Donor content"))

	models := []SlideModel{{Layout: "bullets", Title: "New", Bullets: []string{"x"}}}
	d, err := NewSynthesizer(nil).Synthesize(
		SlideDescription{Slides: models},
		SynthesizeOptions{Donor: donor},
	)
	if err != nil {
		t.Fatal(err)
	}
	if d == donor {
		t.Fatal("structural copy must not return the donor deck")
	}
	if len(d.Layouts) != len(donor.Layouts) {
		t.Errorf("layouts = %d, want %d", len(d.Layouts), len(donor.Layouts))
	}
	if len(d.MasterShapes) != 1 || d.MasterShapes[0].Name != "brandmark" {
		t.Errorf("master shapes = %+v", d.MasterShapes)
	}
	if d.SlideCount() != 1 {
		t.Fatalf("slide count = %d, want 1", d.SlideCount())
	}
	if len(donor.Slides) != 1 || donor.Slides[0].TitleShape().TextString() != "Donor content" {
		t.Error("donor deck must stay untouched")
	}
}

func TestSynthesize_NoLayoutsIsFatal(t *testing.T) {
	donor := &deck.Deck{}
	donor.AddSlide("x")
	_, err := NewSynthesizer(nil).Synthesize(
		SlideDescription{Slides: []SlideModel{{Layout: "bullets"}}},
		SynthesizeOptions{Donor: donor, ReuseDonor: true},
	)
	if err != ErrNoLayouts {
		t.Errorf("err = %v, want ErrNoLayouts", err)
	}
}

func TestSynthesize_LogoAnchors(t *testing.T) {
	desc := SlideDescription{Slides: []SlideModel{{Layout: "bullets", Title: "T"}}}
	logo := &LogoSpec{Data: []byte{1, 2, 3}, Mime: "image/png", Position: "bottom-right", Size: "large"}

	d, err := NewSynthesizer(nil).Synthesize(desc, SynthesizeOptions{Logo: logo})
	if err != nil {
		t.Fatal(err)
	}
	var frame deck.Frame
	found := false
	for _, s := range d.Slides[0].Shapes {
		if s.HasImage() && s.Name == "logo" {
			frame, found = s.Frame, true
		}
	}
	if !found {
		t.Fatal("logo not placed")
	}
	want := deck.Frame{
		Left:   deck.Inches(10.0 - 0.3 - 2.0),
		Top:    deck.Inches(7.5 - 0.3 - 2.0),
		Width:  deck.Inches(2.0),
		Height: deck.Inches(2.0),
	}
	if frame != want {
		t.Errorf("frame = %+v, want %+v", frame, want)
	}
}

func TestLogoFrame_AllAnchors(t *testing.T) {
	tests := []struct {
		position  string
		size      string
		left, top float64
	}{
		{"top-left", "small", 0.3, 0.3},
		{"top-right", "small", 8.7, 0.3},
		{"bottom-left", "medium", 0.3, 5.7},
		{"bottom-right", "medium", 8.2, 5.7},
		{"center", "large", 4.0, 2.75},
		{"unknown", "unknown", 8.2, 0.3}, // falls back to top-right medium
	}
	for _, tt := range tests {
		got := LogoFrame(tt.position, tt.size)
		want := deck.Frame{
			Left:   deck.Inches(tt.left),
			Top:    deck.Inches(tt.top),
			Width:  deck.Inches(LogoSize(tt.size)),
			Height: deck.Inches(LogoSize(tt.size)),
		}
		if got != want {
			t.Errorf("LogoFrame(%q, %q) = %+v, want %+v", tt.position, tt.size, got, want)
		}
	}
}

func TestSelectLayout_KeywordHits(t *testing.T) {
	layouts := []deck.Layout{
		{Name: "Title Slide"},
		{Name: "Title and Content"},
		{Name: "Blank"},
	}
	tests := []struct {
		model string
		want  string
	}{
		{"title", "Title Slide"},
		{"bullets", "Title and Content"},
		{"table", "Blank"},
		{"chart.pie", "Blank"},
	}
	for _, tt := range tests {
		got, err := SelectLayout(layouts, tt.model)
		if err != nil {
			t.Fatal(err)
		}
		if got != tt.want {
			t.Errorf("SelectLayout(%q) = %q, want %q", tt.model, got, tt.want)
		}
	}
}

func TestSelectLayout_PositionalFallbacks(t *testing.T) {
	named := func(names ...string) []deck.Layout {
		out := make([]deck.Layout, len(names))
		for i, n := range names {
			out[i] = deck.Layout{Name: n}
		}
		return out
	}

	// no keywords anywhere
	plain := named("Alpha", "Beta", "Gamma", "Delta")
	if got, _ := SelectLayout(plain, "title"); got != "Alpha" {
		t.Errorf("title fallback = %q, want first layout", got)
	}
	if got, _ := SelectLayout(plain, "bullets"); got != "Beta" {
		t.Errorf("bullets fallback = %q, want second layout", got)
	}
	if got, _ := SelectLayout(plain, "table"); got != "Delta" {
		t.Errorf("table fallback = %q, want last layout with >=3 present", got)
	}

	single := named("Only")
	if got, _ := SelectLayout(single, "bullets"); got != "Only" {
		t.Errorf("single-layout fallback = %q", got)
	}
	if got, _ := SelectLayout(named("One", "Two"), "chart.bar"); got != "One" {
		t.Errorf("two-layout blank fallback = %q, want first", got)
	}
}

func TestSelectLayout_EmptyListErrors(t *testing.T) {
	if _, err := SelectLayout(nil, "bullets"); err != ErrNoLayouts {
		t.Errorf("err = %v, want ErrNoLayouts", err)
	}
}

func TestSynthesize_HarvestedAssetsReapplied(t *testing.T) {
	assets := TemplateAssets{Logos: []ImageAsset{
		{Scope: "master", Name: "brand.png", Mime: "image/png", Data: []byte{9}, Frame: deck.Frame{Left: 11, Top: 22, Width: 33, Height: 44}},
		{Scope: "slide_0", Name: "photo.png", Data: []byte{8}},
	}}
	desc := SlideDescription{Slides: []SlideModel{{Layout: "bullets", Title: "T"}}}

	d, err := NewSynthesizer(nil).Synthesize(desc, SynthesizeOptions{Assets: assets})
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, s := range d.Slides[0].Shapes {
		if s.HasImage() {
			names = append(names, s.Image.Name)
			if s.Frame.Left != 11 {
				t.Errorf("asset not at original offset: %+v", s.Frame)
			}
		}
	}
	if len(names) != 1 || names[0] != "brand.png" {
		t.Errorf("reapplied assets = %v (slide-scoped assets must not propagate)", names)
	}
}

func TestSynthesize_TextBoxesCarryFonts(t *testing.T) {
	desc := SlideDescription{Slides: []SlideModel{{
		Layout: "bullets",
		Title:  "T",
		TextBoxes: []TextBoxModel{{
			Text:     "footnote",
			Frame:    FrameModel{Left: 1, Top: 2, Width: 3, Height: 4},
			FontName: "Georgia",
			FontSize: 9,
		}},
	}}}

	d, err := NewSynthesizer(nil).Synthesize(desc, SynthesizeOptions{})
	if err != nil {
		t.Fatal(err)
	}
	var found bool
	for _, s := range d.Slides[0].Shapes {
		if !s.HasText() || !strings.Contains(s.TextString(), "footnote") {
			continue
		}
		found = true
		run := s.Text.Paragraphs[0].Runs[0]
		if run.Font.Name != "Georgia" || run.Font.Size != 9 {
			t.Errorf("font = %+v", run.Font)
		}
		if run.Origin != deck.StyleTemplate {
			t.Errorf("origin = %v, want template for an explicit font", run.Origin)
		}
	}
	if !found {
		t.Fatal("text box not re-created")
	}
}
