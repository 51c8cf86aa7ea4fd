package deck

import (
	"fmt"
	"os"
	"strings"

	ppt "github.com/VantageDataChat/GoPPT"
)

// Slide geometry constants, 16:9 widescreen, matching the GoPPT writer's
// default page setup.
const (
	slideWidthEMU  = int64(10.0 * 914400)
	slideHeightEMU = int64(5.625 * 914400)

	marginEMU       = int64(0.4 * 914400)
	contentWidthEMU = int64(9.2 * 914400)

	fontTitle     = 32
	fontSubtitle  = 20
	fontBody      = 14
	fontTableHead = 11
	fontTableCell = 10
)

// Open reads a .pptx file into the deck model. Slide shapes come from the
// GoPPT reader; layout names, backgrounds and master/layout images come from
// the template part scan, since the reader exposes the slide surface only.
// A file that cannot be read or parsed is a fatal error for the whole
// operation.
func Open(path string) (*Deck, error) {
	reader := &ppt.PPTXReader{}
	pres, err := reader.Read(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open deck %s: %w", path, err)
	}

	d := &Deck{}
	for _, slide := range pres.GetAllSlides() {
		sl := &Slide{}
		for _, shape := range slide.GetShapes() {
			if s := importShape(shape); s != nil {
				sl.Shapes = append(sl.Shapes, s)
			}
		}
		markTitleShape(sl)
		d.Slides = append(d.Slides, sl)
	}

	// Best effort: a deck without readable template parts still opens.
	if err := scanTemplateParts(path, d); err != nil {
		if len(d.Layouts) == 0 {
			d.Layouts = New().Layouts
		}
	}
	return d, nil
}

// importShape converts one GoPPT shape into the deck model. Unrecognized
// shape kinds map to an empty Shape so the extractor can still record them.
func importShape(shape ppt.Shape) *Shape {
	switch s := shape.(type) {
	case *ppt.PlaceholderShape:
		out := importRichText(&s.RichTextShape)
		out.Placeholder = &PlaceholderInfo{Index: s.GetPlaceholderIndex()}
		return out
	case *ppt.RichTextShape:
		return importRichText(s)
	case *ppt.DrawingShape:
		return &Shape{
			Frame: Frame{Left: s.GetOffsetX(), Top: s.GetOffsetY(), Width: s.GetWidth(), Height: s.GetHeight()},
			Image: &ImageContent{Data: s.GetImageData(), Mime: s.GetMimeType()},
		}
	case *ppt.TableShape:
		return &Shape{
			Frame: Frame{Left: s.GetOffsetX(), Top: s.GetOffsetY(), Width: s.GetWidth(), Height: s.GetHeight()},
			Table: importTable(s),
		}
	case *ppt.ChartShape:
		return &Shape{
			Frame: Frame{Left: s.GetOffsetX(), Top: s.GetOffsetY(), Width: s.GetWidth(), Height: s.GetHeight()},
			Chart: &ChartContent{Type: "column"},
		}
	default:
		return &Shape{}
	}
}

func importRichText(rts *ppt.RichTextShape) *Shape {
	tc := &TextContent{}
	for _, para := range rts.GetParagraphs() {
		p := Paragraph{}
		for _, elem := range para.GetElements() {
			if run, ok := elem.(*ppt.TextRun); ok {
				p.Runs = append(p.Runs, Run{Text: run.GetText(), Origin: StyleTemplate})
			}
		}
		tc.Paragraphs = append(tc.Paragraphs, p)
	}
	return &Shape{
		Frame: Frame{Left: rts.GetOffsetX(), Top: rts.GetOffsetY(), Width: rts.GetWidth(), Height: rts.GetHeight()},
		Text:  tc,
	}
}

func importTable(ts *ppt.TableShape) *TableContent {
	t := &TableContent{}
	for i, row := range ts.GetRows() {
		var cells []string
		for _, cell := range row {
			var lines []string
			for _, para := range cell.GetParagraphs() {
				var b strings.Builder
				for _, elem := range para.GetElements() {
					if run, ok := elem.(*ppt.TextRun); ok {
						b.WriteString(run.GetText())
					}
				}
				lines = append(lines, b.String())
			}
			cells = append(cells, strings.TrimSpace(strings.Join(lines, "\n")))
		}
		if i == 0 {
			t.Columns = cells
		} else {
			t.Rows = append(t.Rows, cells)
		}
	}
	return t
}

// markTitleShape tags the designated title shape: the title placeholder if
// one exists, else the first short single-line text shape on the slide.
func markTitleShape(sl *Slide) {
	for _, s := range sl.Shapes {
		if s.Placeholder != nil && s.Placeholder.Index == 1 {
			s.IsTitle = true
			return
		}
	}
	for _, s := range sl.Shapes {
		if !s.HasText() {
			continue
		}
		text := s.TextString()
		if !strings.Contains(text, "\n") && len([]rune(text)) < 200 {
			s.IsTitle = true
			return
		}
	}
}

// Save writes the deck model to a .pptx file through the GoPPT writer.
func Save(d *Deck, path string) error {
	p := ppt.New()
	p.GetDocumentProperties().Title = d.Properties.Title
	p.GetDocumentProperties().Creator = d.Properties.Creator

	for i, sl := range d.Slides {
		var target *ppt.Slide
		if i == 0 {
			target = p.GetActiveSlide()
		} else {
			target = p.CreateSlide()
		}
		for _, s := range sl.Shapes {
			exportShape(target, s)
		}
	}

	w, err := ppt.NewWriter(p, ppt.WriterPowerPoint2007)
	if err != nil {
		return fmt.Errorf("failed to create PPT writer: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()
	if err := w.(*ppt.PPTXWriter).WriteTo(f); err != nil {
		return fmt.Errorf("failed to save PPT: %w", err)
	}
	return nil
}

func exportShape(slide *ppt.Slide, s *Shape) {
	switch {
	case s.Image != nil:
		exportImage(slide, s)
	case s.Table != nil:
		exportTable(slide, s)
	case s.Chart != nil:
		exportChart(slide, s)
	case s.Text != nil:
		exportText(slide, s)
	}
}

func exportText(slide *ppt.Slide, s *Shape) {
	f := textFrame(s)
	rts := slide.CreateRichTextShape()
	rts.SetOffsetX(f.Left).SetOffsetY(f.Top)
	rts.SetWidth(f.Width).SetHeight(f.Height)

	for i, para := range s.Text.Paragraphs {
		if i > 0 {
			rts.CreateParagraph()
		}
		for _, run := range para.Runs {
			tr := rts.CreateTextRun(run.Text)
			applyRunFont(tr, run, s)
		}
	}
}

// applyRunFont styles one run. Template-origin runs keep whatever explicit
// font was recorded; default-origin runs without one get the standard sizes
// by shape role.
func applyRunFont(tr *ppt.TextRun, run Run, s *Shape) {
	font := run.Font
	if font.IsZero() && run.Origin == StyleDefault {
		switch {
		case s.IsTitle:
			font = Font{Size: fontTitle, Bold: true}
		case s.Placeholder != nil && s.Placeholder.Index == 3:
			font = Font{Size: fontSubtitle}
		default:
			font = Font{Size: fontBody}
		}
	}
	if font.Size > 0 {
		tr.GetFont().SetSize(font.Size)
	}
	if font.Bold {
		tr.GetFont().SetBold(true)
	}
}

// exportTable renders tabular content as a filled header row plus striped
// data rows, the same way the dashboard exporter draws GoPPT tables.
func exportTable(slide *ppt.Slide, s *Shape) {
	f := textFrame(s)
	headerHeight := Inches(0.35)
	rowHeight := Inches(0.28)

	header := slide.CreateRichTextShape()
	header.SetOffsetX(f.Left).SetOffsetY(f.Top)
	header.SetWidth(f.Width).SetHeight(headerHeight)
	header.SetFill(solidFill("FF3B82F6"))
	tr := header.CreateTextRun(joinCells(s.Table.Columns))
	tr.GetFont().SetSize(fontTableHead).SetBold(true).SetColor(ppt.ColorWhite)

	y := f.Top + headerHeight
	for idx, row := range s.Table.Rows {
		rowShape := slide.CreateRichTextShape()
		rowShape.SetOffsetX(f.Left).SetOffsetY(y)
		rowShape.SetWidth(f.Width).SetHeight(rowHeight)
		if idx%2 == 0 {
			rowShape.SetFill(solidFill("FFF8FAFC"))
		} else {
			rowShape.SetFill(solidFill("FFF1F5F9"))
		}
		rt := rowShape.CreateTextRun(joinCells(row))
		rt.GetFont().SetSize(fontTableCell).SetColor(ppt.NewColor("FF334155"))
		y += rowHeight
	}
}

// exportChart writes a chart summary block. Synthesized charts carry data,
// not rendered plots, so the block lists categories and series the way the
// template chart path always has.
func exportChart(slide *ppt.Slide, s *Shape) {
	f := textFrame(s)
	rts := slide.CreateRichTextShape()
	rts.SetOffsetX(f.Left).SetOffsetY(f.Top)
	rts.SetWidth(f.Width).SetHeight(f.Height)

	head := rts.CreateTextRun(fmt.Sprintf("Chart (%s)", s.Chart.Type))
	head.GetFont().SetSize(fontBody).SetBold(true).SetColor(ppt.NewColor("FF1E40AF"))

	rts.CreateParagraph()
	cats := rts.CreateTextRun("Categories: " + strings.Join(s.Chart.Categories, ", "))
	cats.GetFont().SetSize(fontBody).SetColor(ppt.NewColor("FF334155"))

	for _, se := range s.Chart.Series {
		vals := make([]string, len(se.Values))
		for i, v := range se.Values {
			vals[i] = strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.2f", v), "0"), ".")
		}
		rts.CreateParagraph()
		line := rts.CreateTextRun(fmt.Sprintf("%s: %s", se.Name, strings.Join(vals, ", ")))
		line.GetFont().SetSize(fontBody).SetColor(ppt.NewColor("FF334155"))
	}
}

func exportImage(slide *ppt.Slide, s *Shape) {
	if len(s.Image.Data) == 0 {
		return
	}
	mime := s.Image.Mime
	if mime == "" {
		mime = "image/png"
	}
	f := textFrame(s)
	ds := slide.CreateDrawingShape()
	ds.SetImageData(s.Image.Data, mime)
	ds.SetOffsetX(f.Left).SetOffsetY(f.Top)
	ds.SetWidth(f.Width).SetHeight(f.Height)
}

// textFrame returns the shape frame, substituting the standard content area
// when no frame was recorded.
func textFrame(s *Shape) Frame {
	f := s.Frame
	if f.Width <= 0 {
		f = Frame{Left: marginEMU, Top: Inches(1.0), Width: contentWidthEMU, Height: Inches(4.3)}
	}
	return f
}

func joinCells(cells []string) string {
	return strings.Join(cells, "    |    ")
}

func solidFill(argb string) *ppt.Fill {
	return ppt.NewFill().SetSolid(ppt.NewColor(argb))
}
