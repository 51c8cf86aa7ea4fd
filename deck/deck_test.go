package deck

import (
	"testing"

	"pgregory.net/rapid"
)

func TestNewText_ParagraphPerLine(t *testing.T) {
	tc := NewText("one\ntwo\nthree", Font{Size: 12}, StyleDefault)
	if len(tc.Paragraphs) != 3 {
		t.Fatalf("paragraphs = %d", len(tc.Paragraphs))
	}
	if tc.String() != "one\ntwo\nthree" {
		t.Errorf("String() = %q", tc.String())
	}
	for _, p := range tc.Paragraphs {
		if p.Runs[0].Origin != StyleDefault || p.Runs[0].Font.Size != 12 {
			t.Errorf("run = %+v", p.Runs[0])
		}
	}
}

func TestShape_SetTextPreservesFontAndOrigin(t *testing.T) {
	s := &Shape{Text: NewText("styled", Font{Name: "Calibri", Size: 28, Bold: true}, StyleTemplate)}
	s.SetText("replacement\nsecond line")

	if got := s.TextString(); got != "replacement\nsecond line" {
		t.Fatalf("text = %q", got)
	}
	run := s.Text.Paragraphs[0].Runs[0]
	if run.Font.Name != "Calibri" || !run.Font.Bold {
		t.Errorf("font not carried over: %+v", run.Font)
	}
	if run.Origin != StyleTemplate {
		t.Errorf("origin = %v, want template", run.Origin)
	}
}

func TestShape_SetTextOnEmptyShape(t *testing.T) {
	s := &Shape{}
	s.SetText("fresh")
	if s.TextString() != "fresh" {
		t.Errorf("text = %q", s.TextString())
	}
	if s.Text.Paragraphs[0].Runs[0].Origin != StyleUnset {
		t.Error("no prior run means unset origin")
	}
}

func TestDeck_CloneIsDeep(t *testing.T) {
	d := New()
	sl := d.AddSlide("Blank")
	sl.AddShape(&Shape{
		Text:  NewText("original", Font{}, StyleTemplate),
		Image: nil,
	})
	sl.AddShape(&Shape{Image: &ImageContent{Name: "img", Data: []byte{1, 2, 3}}})
	sl.AddShape(&Shape{Table: &TableContent{Columns: []string{"A"}, Rows: [][]string{{"1"}}}})

	c := d.Clone()
	c.Slides[0].Shapes[0].SetText("changed")
	c.Slides[0].Shapes[1].Image.Data[0] = 9
	c.Slides[0].Shapes[2].Table.Rows[0][0] = "mutated"
	c.AddSlide("Blank")

	if d.Slides[0].Shapes[0].TextString() != "original" {
		t.Error("clone aliases text")
	}
	if d.Slides[0].Shapes[1].Image.Data[0] != 1 {
		t.Error("clone aliases image bytes")
	}
	if d.Slides[0].Shapes[2].Table.Rows[0][0] != "1" {
		t.Error("clone aliases table cells")
	}
	if d.SlideCount() != 1 {
		t.Error("clone aliases the slide list")
	}
}

func TestSlide_TitleShapeFallsBackToPlaceholder(t *testing.T) {
	sl := &Slide{}
	sl.AddShape(&Shape{Text: NewText("body", Font{}, StyleTemplate)})
	ph := sl.AddShape(&Shape{
		Placeholder: &PlaceholderInfo{Index: 1},
		Text:        NewText("the title", Font{}, StyleTemplate),
	})
	if got := sl.TitleShape(); got != ph {
		t.Errorf("TitleShape() = %+v", got)
	}
}

func TestSlide_RemoveShapes(t *testing.T) {
	sl := &Slide{}
	sl.AddShape(&Shape{Name: "keep"})
	sl.AddShape(&Shape{Name: "drop"})
	sl.AddShape(&Shape{Name: "drop"})

	n := sl.RemoveShapes(func(s *Shape) bool { return s.Name == "drop" })
	if n != 2 || len(sl.Shapes) != 1 || sl.Shapes[0].Name != "keep" {
		t.Errorf("removed %d, shapes = %+v", n, sl.Shapes)
	}
}

func TestDeck_RemoveSlideAtOutOfRangeIsNoOp(t *testing.T) {
	d := New()
	d.AddSlide("Blank")
	d.RemoveSlideAt(-1)
	d.RemoveSlideAt(5)
	if d.SlideCount() != 1 {
		t.Errorf("count = %d", d.SlideCount())
	}
}

func TestInches(t *testing.T) {
	if Inches(1.0) != EMUPerInch {
		t.Errorf("Inches(1.0) = %d", Inches(1.0))
	}
	if Inches(0.5) != EMUPerInch/2 {
		t.Errorf("Inches(0.5) = %d", Inches(0.5))
	}
	// 10.0-0.3-2.0 is 7.699999... in float64; it must land on the same EMU
	// as the literal coordinate.
	if Inches(10.0-0.3-2.0) != Inches(7.7) {
		t.Errorf("Inches(10.0-0.3-2.0) = %d, Inches(7.7) = %d", Inches(10.0-0.3-2.0), Inches(7.7))
	}
}

// TestProperty_CloneIndependence mutates every shape of a clone and checks
// the source never changes.
func TestProperty_CloneIndependence(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		nSlides := rapid.IntRange(1, 5).Draw(t, "slides")
		d := New()
		for i := 0; i < nSlides; i++ {
			sl := d.AddSlide("Blank")
			text := rapid.StringMatching(`[a-z ]{1,20}`).Draw(t, "text")
			sl.AddShape(&Shape{Text: NewText(text, Font{}, StyleDefault)})
		}
		originals := make([]string, nSlides)
		for i, sl := range d.Slides {
			originals[i] = sl.Shapes[0].TextString()
		}

		c := d.Clone()
		for _, sl := range c.Slides {
			sl.Shapes[0].SetText("mutated")
		}
		for i, sl := range d.Slides {
			if sl.Shapes[0].TextString() != originals[i] {
				t.Fatalf("slide %d mutated through clone", i)
			}
		}
	})
}
