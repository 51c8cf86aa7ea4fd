package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"slidesmith/agent"
	"slidesmith/config"
	"slidesmith/database"
	"slidesmith/deck"
	"slidesmith/engine"
	"slidesmith/export"
	"slidesmith/logger"
)

// PPTFacadeService bundles the presentation operations behind one surface:
// generate, edit, preview, extract, convert. It owns the output directory;
// every produced file gets a unique timestamped name, so concurrent calls
// never collide.
type PPTFacadeService struct {
	cfg       config.Config
	log       *logger.Logger
	generator *agent.ContentGenerator
	pdf       *export.PDFService
	history   *database.HistoryService // nil when the database is unavailable
}

// NewPPTFacadeService creates the facade. A history database failure is
// logged and disables history only, never the facade.
func NewPPTFacadeService(cfg config.Config, log *logger.Logger) *PPTFacadeService {
	s := &PPTFacadeService{
		cfg:       cfg,
		log:       log,
		generator: agent.NewContentGenerator(cfg, log),
		pdf:       export.NewPDFService(log),
	}
	history, err := database.NewHistoryService(cfg.DatabasePath)
	if err != nil {
		s.logf("facade: history disabled: %v", err)
	} else {
		s.history = history
	}
	return s
}

// Shutdown releases the facade's resources.
func (s *PPTFacadeService) Shutdown() {
	if s.history != nil {
		s.history.Close()
	}
}

// GeneratePresentation turns a free-text prompt into a saved deck. An
// optional donor template contributes layouts, harvested assets and
// styling; an optional logo is stamped on every slide.
func (s *PPTFacadeService) GeneratePresentation(ctx context.Context, prompt, templatePath, logoPath, logoPosition, logoSize string) (string, error) {
	if err := ValidateRequired("prompt", prompt); err != nil {
		return "", WrapError("PPT", "Generate", err)
	}
	if err := ValidateLogoPlacement(logoPosition, logoSize); err != nil {
		return "", WrapError("PPT", "Generate", err)
	}

	desc := s.generator.GenerateSlideStructure(ctx, prompt)
	return s.synthesizeAndSave(desc, templatePath, logoPath, logoPosition, logoSize, "generated")
}

// GenerateFromDescription synthesizes a deck from an already structured
// description, bypassing the content generator.
func (s *PPTFacadeService) GenerateFromDescription(desc engine.SlideDescription, templatePath, logoPath, logoPosition, logoSize string) (string, error) {
	if len(desc.Slides) == 0 {
		return "", WrapError("PPT", "Generate", fmt.Errorf("description has no slides"))
	}
	if err := ValidateLogoPlacement(logoPosition, logoSize); err != nil {
		return "", WrapError("PPT", "Generate", err)
	}
	return s.synthesizeAndSave(desc, templatePath, logoPath, logoPosition, logoSize, "generated")
}

func (s *PPTFacadeService) synthesizeAndSave(desc engine.SlideDescription, templatePath, logoPath, logoPosition, logoSize, kind string) (string, error) {
	opts := engine.SynthesizeOptions{}

	if templatePath != "" {
		if err := ValidateDeckPath("template", templatePath); err != nil {
			return "", WrapError("PPT", "Generate", err)
		}
		donor, err := deck.Open(templatePath)
		if err != nil {
			return "", WrapError("PPT", "Generate", err)
		}
		opts.Donor = donor
		if isOriginalTemplate(desc.Meta, templatePath) {
			// edit round trip: the template is the deck the models came
			// from, so matching counts update it in place and mismatches
			// fall back to donor reuse with cleanup
			opts.DonorIsOriginal = true
			opts.ReuseDonor = true
		}
		opts.Assets = engine.NewHarvester(s.log).Harvest(donor)
		desc.Meta.Template = filepath.Base(templatePath)
	}

	if logoPath != "" {
		data, err := os.ReadFile(logoPath)
		if err != nil {
			return "", WrapError("PPT", "Generate", fmt.Errorf("failed to read logo: %v", err))
		}
		opts.Logo = &engine.LogoSpec{
			Data:     data,
			Mime:     mimeForPath(logoPath),
			Position: logoPosition,
			Size:     logoSize,
		}
	}

	d, err := engine.NewSynthesizer(s.log).Synthesize(desc, opts)
	if err != nil {
		return "", WrapError("PPT", "Generate", err)
	}

	outPath := s.outputPath("presentation", "pptx")
	if err := deck.Save(d, outPath); err != nil {
		os.Remove(outPath)
		return "", WrapError("PPT", "Generate", err)
	}

	s.record(outPath, desc.Meta.DeckTitle, len(d.Slides), kind)
	s.logf("facade: %s deck saved to %s (%d slides)", kind, outPath, len(d.Slides))
	return outPath, nil
}

// EditPresentation applies a free-text edit request to a deck. The current
// slide models are extracted as generation context, the generator produces
// a typed instruction set, and the interpreter applies it. The source file
// is never modified; the edited deck is saved under a new name.
func (s *PPTFacadeService) EditPresentation(ctx context.Context, deckPath, prompt string, slideNumber int) (string, *engine.BatchReport, error) {
	if err := ValidateDeckPath("deck", deckPath); err != nil {
		return "", nil, WrapError("PPT", "Edit", err)
	}
	if err := ValidateRequired("prompt", prompt); err != nil {
		return "", nil, WrapError("PPT", "Edit", err)
	}

	d, err := deck.Open(deckPath)
	if err != nil {
		return "", nil, WrapError("PPT", "Edit", err)
	}
	current := engine.NewExtractor(s.log).ExtractSlides(d)
	set := s.generator.GenerateSlideEdits(ctx, prompt, current, slideNumber)
	return s.applyAndSave(d, set)
}

// ApplyEdits applies an already typed instruction set to a deck.
func (s *PPTFacadeService) ApplyEdits(deckPath string, set engine.EditInstructionSet) (string, *engine.BatchReport, error) {
	if err := ValidateDeckPath("deck", deckPath); err != nil {
		return "", nil, WrapError("PPT", "Edit", err)
	}
	if err := engine.ValidateInstructionSet(&set); err != nil {
		return "", nil, WrapError("PPT", "Edit", err)
	}
	d, err := deck.Open(deckPath)
	if err != nil {
		return "", nil, WrapError("PPT", "Edit", err)
	}
	return s.applyAndSave(d, set)
}

func (s *PPTFacadeService) applyAndSave(d *deck.Deck, set engine.EditInstructionSet) (string, *engine.BatchReport, error) {
	report := engine.NewInterpreter(s.log).Apply(d, set.Edits)

	outPath := s.outputPath("edited", "pptx")
	if err := deck.Save(d, outPath); err != nil {
		os.Remove(outPath)
		return "", report, WrapError("PPT", "Edit", err)
	}

	s.record(outPath, d.Properties.Title, len(d.Slides), "edited")
	s.logf("facade: edited deck saved to %s (%d/%d instructions applied)", outPath, report.Applied(), len(report.Outcomes))
	return outPath, report, nil
}

// PreviewEdits dry-runs an instruction set against a deck without touching
// it. targetSlide 0 previews the whole deck.
func (s *PPTFacadeService) PreviewEdits(deckPath string, set engine.EditInstructionSet, targetSlide int) (*engine.PreviewResult, error) {
	if err := ValidateDeckPath("deck", deckPath); err != nil {
		return nil, WrapError("PPT", "Preview", err)
	}
	if err := engine.ValidateInstructionSet(&set); err != nil {
		return nil, WrapError("PPT", "Preview", err)
	}
	d, err := deck.Open(deckPath)
	if err != nil {
		return nil, WrapError("PPT", "Preview", err)
	}
	return engine.NewPreviewer(s.log).Preview(d, set.Edits, targetSlide), nil
}

// ExtractDeck produces the canonical slide description of a deck.
func (s *PPTFacadeService) ExtractDeck(deckPath string) (engine.SlideDescription, error) {
	if err := ValidateDeckPath("deck", deckPath); err != nil {
		return engine.SlideDescription{}, WrapError("PPT", "Extract", err)
	}
	d, err := deck.Open(deckPath)
	if err != nil {
		return engine.SlideDescription{}, WrapError("PPT", "Extract", err)
	}
	return engine.NewExtractor(s.log).ExtractDeck(d, deckPath), nil
}

// ConvertToPDF converts a deck into a PDF handout. Conversion failure
// degrades to the original deck path, per the conversion boundary.
func (s *PPTFacadeService) ConvertToPDF(deckPath string) (string, error) {
	if err := ValidateDeckPath("deck", deckPath); err != nil {
		return "", WrapError("PPT", "Convert", err)
	}
	pdfPath := s.outputPath("handout", "pdf")
	result := s.pdf.ConvertDeck(deckPath, pdfPath)
	if result == pdfPath {
		s.record(pdfPath, filepath.Base(deckPath), 0, "converted")
	}
	return result, nil
}

// History returns the most recent generation records, newest first.
func (s *PPTFacadeService) History(limit int) ([]database.HistoryEntry, error) {
	if s.history == nil {
		return nil, WrapError("PPT", "History", fmt.Errorf("history database unavailable"))
	}
	entries, err := s.history.List(limit)
	return entries, WrapError("PPT", "History", err)
}

// outputPath builds a unique file path in the output directory.
func (s *PPTFacadeService) outputPath(stem, ext string) string {
	name := fmt.Sprintf("%s_%s_%s.%s", stem, time.Now().Format("20060102_150405"), uuid.New().String()[:8], ext)
	return filepath.Join(s.cfg.OutputDir, name)
}

// record writes a history row. Failure to record never fails the
// operation that produced the artifact.
func (s *PPTFacadeService) record(path, title string, slides int, kind string) {
	if s.history == nil {
		return
	}
	err := s.history.Record(database.HistoryEntry{
		ID:       uuid.New().String(),
		Filename: filepath.Base(path),
		Title:    title,
		Slides:   slides,
		Kind:     kind,
	})
	if err != nil {
		s.logf("facade: failed to record history: %v", err)
	}
}

// isOriginalTemplate reports whether the donor template is the deck the
// description was extracted from.
func isOriginalTemplate(meta engine.DeckMeta, templatePath string) bool {
	if !meta.HasTemplate || meta.StoredTemplatePath == "" {
		return false
	}
	return filepath.Clean(meta.StoredTemplatePath) == filepath.Clean(templatePath)
}

func mimeForPath(path string) string {
	switch filepath.Ext(path) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".gif":
		return "image/gif"
	default:
		return "image/png"
	}
}

func (s *PPTFacadeService) logf(format string, args ...interface{}) {
	if s.log != nil {
		s.log.Logf(format, args...)
	}
}
