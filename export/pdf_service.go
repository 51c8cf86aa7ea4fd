// Package export renders deck content into other document formats.
package export

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"slidesmith/deck"
	"slidesmith/engine"
	"slidesmith/logger"
)

// PDFService converts a deck into a fixed-layout PDF handout.
type PDFService struct {
	log *logger.Logger
}

// NewPDFService creates a new PDF service
func NewPDFService(log *logger.Logger) *PDFService {
	return &PDFService{log: log}
}

// ConvertDeck renders the deck at deckPath into a PDF at pdfPath and
// returns the path of the produced artifact. Conversion failure degrades
// to returning deckPath with a logged warning, never an error.
func (s *PDFService) ConvertDeck(deckPath, pdfPath string) string {
	d, err := deck.Open(deckPath)
	if err != nil {
		s.warnf("pdf: failed to open %s: %v", deckPath, err)
		return deckPath
	}
	models := engine.NewExtractor(s.log).ExtractSlides(d)

	data, err := s.render(models, d.Properties.Title)
	if err != nil {
		s.warnf("pdf: render failed: %v", err)
		return deckPath
	}
	if err := os.WriteFile(pdfPath, data, 0644); err != nil {
		s.warnf("pdf: failed to write %s: %v", pdfPath, err)
		return deckPath
	}
	return pdfPath
}

// render produces one landscape page per slide.
func (s *PDFService) render(models []engine.SlideModel, deckTitle string) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetFont("Arial", "", 12)

	for i, m := range models {
		pdf.AddPage()
		s.addSlideHeader(pdf, m, i+1, len(models), deckTitle)

		switch {
		case len(m.Columns) > 0 || len(m.Rows) > 0:
			s.addTable(pdf, m)
		case strings.HasPrefix(m.Layout, "chart"):
			s.addChart(pdf, m)
		default:
			s.addBody(pdf, m)
		}
		s.addTextBoxes(pdf, m)
	}

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("PDF generation error: %w", err)
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to output PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func (s *PDFService) addSlideHeader(pdf *gofpdf.Fpdf, m engine.SlideModel, num, total int, deckTitle string) {
	title := m.Title
	if title == "" {
		title = deckTitle
	}
	pdf.SetFont("Arial", "B", 22)
	pdf.SetTextColor(59, 130, 246)
	pdf.CellFormat(0, 14, title, "", 1, "L", false, 0, "")

	if m.Subtitle != "" {
		pdf.SetFont("Arial", "", 14)
		pdf.SetTextColor(51, 65, 85)
		pdf.CellFormat(0, 8, m.Subtitle, "", 1, "L", false, 0, "")
	}

	pdf.SetFont("Arial", "", 9)
	pdf.SetTextColor(100, 116, 139)
	stamp := time.Now().Format("2006-01-02")
	pdf.CellFormat(0, 6, fmt.Sprintf("Slide %d / %d  -  %s", num, total, stamp), "", 1, "L", false, 0, "")
	pdf.Ln(4)
}

func (s *PDFService) addBody(pdf *gofpdf.Fpdf, m engine.SlideModel) {
	pdf.SetFont("Arial", "", 12)
	pdf.SetTextColor(0, 0, 0)
	for _, b := range m.Bullets {
		pdf.CellFormat(6, 8, "-", "", 0, "L", false, 0, "")
		pdf.MultiCell(0, 8, b, "", "L", false)
	}
}

func (s *PDFService) addTable(pdf *gofpdf.Fpdf, m engine.SlideModel) {
	if len(m.Columns) == 0 {
		return
	}
	colWidth := 260.0 / float64(len(m.Columns))

	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(59, 130, 246)
	pdf.SetTextColor(255, 255, 255)
	for _, col := range m.Columns {
		pdf.CellFormat(colWidth, 8, col, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	pdf.SetTextColor(51, 65, 85)
	for i, row := range m.Rows {
		if i%2 == 0 {
			pdf.SetFillColor(248, 250, 252)
		} else {
			pdf.SetFillColor(241, 245, 249)
		}
		for j := 0; j < len(m.Columns); j++ {
			val := ""
			if j < len(row) {
				val = row[j]
			}
			pdf.CellFormat(colWidth, 7, val, "1", 0, "L", true, 0, "")
		}
		pdf.Ln(-1)
	}
	pdf.Ln(3)
}

// addChart lists chart data as text. The handout is a content summary, not
// a re-rendering of the plot.
func (s *PDFService) addChart(pdf *gofpdf.Fpdf, m engine.SlideModel) {
	pdf.SetFont("Arial", "B", 11)
	pdf.SetTextColor(30, 64, 175)
	pdf.CellFormat(0, 8, fmt.Sprintf("Chart (%s)", strings.TrimPrefix(m.Layout, "chart.")), "", 1, "L", false, 0, "")

	pdf.SetFont("Arial", "", 10)
	pdf.SetTextColor(51, 65, 85)
	pdf.CellFormat(0, 7, "Categories: "+strings.Join(m.Categories, ", "), "", 1, "L", false, 0, "")
	for _, se := range m.Series {
		vals := make([]string, len(se.Values))
		for i, v := range se.Values {
			vals[i] = strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.2f", v), "0"), ".")
		}
		pdf.CellFormat(0, 7, fmt.Sprintf("%s: %s", se.Name, strings.Join(vals, ", ")), "", 1, "L", false, 0, "")
	}
	pdf.Ln(3)
}

func (s *PDFService) addTextBoxes(pdf *gofpdf.Fpdf, m engine.SlideModel) {
	if len(m.TextBoxes) == 0 {
		return
	}
	pdf.SetFont("Arial", "", 10)
	pdf.SetTextColor(100, 116, 139)
	for _, tb := range m.TextBoxes {
		if strings.TrimSpace(tb.Text) == "" {
			continue
		}
		pdf.MultiCell(0, 6, tb.Text, "", "L", false)
	}
}

func (s *PDFService) warnf(format string, args ...interface{}) {
	if s.log != nil {
		s.log.Logf(format, args...)
	}
}
