package engine

import (
	"fmt"

	"slidesmith/deck"
	"slidesmith/logger"
)

// Harvester collects reusable visual assets from a donor deck: pictures
// from the master, the layouts and the slides, plus layout background
// descriptors. The result is a plain value owned by the caller.
type Harvester struct {
	log *logger.Logger
}

// NewHarvester returns a harvester. The logger may be nil.
func NewHarvester(log *logger.Logger) *Harvester {
	return &Harvester{log: log}
}

// Harvest scans master first, then layouts in order, then slides in order.
// A failure inside one scope skips that scope only; an empty result is a
// normal success.
func (h *Harvester) Harvest(d *deck.Deck) TemplateAssets {
	assets := TemplateAssets{}

	h.harvestScope(&assets, "master", d.MasterShapes)
	for i, l := range d.Layouts {
		h.harvestScope(&assets, fmt.Sprintf("layout_%d", i), l.Shapes)
		if l.Background != "" {
			assets.Backgrounds = append(assets.Backgrounds, LayoutBackground{
				Index:      i,
				Name:       l.Name,
				Descriptor: l.Background,
			})
		}
	}
	for i, sl := range d.Slides {
		h.harvestScope(&assets, fmt.Sprintf("slide_%d", i), sl.Shapes)
	}

	if h.log != nil {
		h.log.Logf("harvest: %d logos, %d backgrounds", len(assets.Logos), len(assets.Backgrounds))
	}
	return assets
}

func (h *Harvester) harvestScope(assets *TemplateAssets, scope string, shapes []*deck.Shape) {
	defer func() {
		if r := recover(); r != nil && h.log != nil {
			h.log.Logf("harvest: scope %s skipped: %v", scope, r)
		}
	}()
	for _, s := range shapes {
		if !s.HasImage() || len(s.Image.Data) == 0 {
			continue
		}
		assets.Logos = append(assets.Logos, ImageAsset{
			Scope: scope,
			Name:  s.Image.Name,
			Mime:  s.Image.Mime,
			Data:  append([]byte(nil), s.Image.Data...),
			Frame: s.Frame,
		})
	}
}
