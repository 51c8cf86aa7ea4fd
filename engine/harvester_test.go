package engine

import (
	"testing"

	"slidesmith/deck"
)

func imageShape(name string) *deck.Shape {
	return &deck.Shape{
		Name:  name,
		Frame: deck.Frame{Left: 1, Top: 2, Width: 3, Height: 4},
		Image: &deck.ImageContent{Name: name, Mime: "image/png", Data: []byte{1, 2}},
	}
}

func TestHarvest_ScanOrderAndScopes(t *testing.T) {
	d := deck.New()
	d.MasterShapes = []*deck.Shape{imageShape("logo1.png"), imageShape("logo2.png")}
	sl := d.AddSlide("Blank")
	sl.AddShape(imageShape("photo.png"))

	assets := NewHarvester(nil).Harvest(d)
	if len(assets.Logos) != 3 {
		t.Fatalf("logos = %d, want 3", len(assets.Logos))
	}
	wantScopes := []string{"master", "master", "slide_0"}
	for i, want := range wantScopes {
		if assets.Logos[i].Scope != want {
			t.Errorf("logo %d scope = %q, want %q", i, assets.Logos[i].Scope, want)
		}
	}
}

func TestHarvest_LayoutImagesAndBackgrounds(t *testing.T) {
	d := &deck.Deck{Layouts: []deck.Layout{
		{Name: "Title Slide", Background: "solid:1E3A8A", Shapes: []*deck.Shape{imageShape("watermark.png")}},
		{Name: "Blank"},
	}}

	assets := NewHarvester(nil).Harvest(d)
	if len(assets.Logos) != 1 || assets.Logos[0].Scope != "layout_0" {
		t.Errorf("logos = %+v", assets.Logos)
	}
	if len(assets.Backgrounds) != 1 {
		t.Fatalf("backgrounds = %+v", assets.Backgrounds)
	}
	bg := assets.Backgrounds[0]
	if bg.Index != 0 || bg.Name != "Title Slide" || bg.Descriptor != "solid:1E3A8A" {
		t.Errorf("background = %+v", bg)
	}
}

func TestHarvest_EmptyDeckIsSuccess(t *testing.T) {
	assets := NewHarvester(nil).Harvest(deck.New())
	if !assets.Empty() {
		t.Errorf("assets = %+v, want empty", assets)
	}
}

func TestHarvest_CopiesImageBytes(t *testing.T) {
	d := deck.New()
	src := imageShape("logo.png")
	d.MasterShapes = []*deck.Shape{src}

	assets := NewHarvester(nil).Harvest(d)
	assets.Logos[0].Data[0] = 99
	if src.Image.Data[0] == 99 {
		t.Error("harvested bytes must not alias the deck")
	}
}
